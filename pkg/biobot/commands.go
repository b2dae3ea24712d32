package biobot

import (
	"context"
	"fmt"
	"strings"
)

const (
	displayBioMissingTarget = "Please enter a person to display their bio!"
	removeBioAck            = "Bio deleted!"
)

// registerCommands fills the registry in dispatch priority order. Prefix
// matching means "display bio" has to sit ahead of any shorter overlapping
// name, and the order here is the contract.
func (e *Engine) registerCommands() {
	e.commands.Register(Definition{
		Name:        "help",
		Description: "List the commands the bot understands",
		Hidden:      true,
		Handler:     e.cmdHelp,
	})
	e.commands.Register(Definition{
		Name:        "display bio",
		Description: "Show the stored bio for a mentioned person",
		Handler:     e.cmdDisplayBio,
	})
	e.commands.Register(Definition{
		Name:        "remove bio",
		Description: "Delete your own bio",
		Handler:     e.cmdRemoveBio,
	})
	e.commands.Register(Definition{
		Name:        "add bio",
		Description: "Start the interview that records your bio",
		Handler:     e.cmdAddBio,
	})
}

func (e *Engine) cmdHelp(ctx context.Context, ce *CommandEvent) error {
	return ce.Reply(ctx, "Possible commands are:\n- "+strings.Join(e.commands.Catalog(), "\n- "))
}

func (e *Engine) cmdDisplayBio(ctx context.Context, ce *CommandEvent) error {
	// The target is a second mention inside the command text itself,
	// e.g. "display bio <@U123>".
	target, _, found := ParseMention(ce.Command.Text)
	if !found {
		return ce.Reply(ctx, displayBioMissingTarget)
	}
	rec, ok, err := e.store.Get(ctx, target)
	if err != nil {
		return fmt.Errorf("look up bio for %s: %w", target, err)
	}
	if !ok {
		return ce.Reply(ctx, fmt.Sprintf("I don't have a bio for <@%s> yet.", target))
	}
	text := fmt.Sprintf(
		"Here's what I know about <@%s>:\nName: %s\nRole: %s\nBiography: %s",
		rec.UserID, rec.Name, rec.Role, rec.Description,
	)
	return ce.Reply(ctx, text, Attachment{Title: "Picture", ImageURL: rec.ImageURL})
}

func (e *Engine) cmdRemoveBio(ctx context.Context, ce *CommandEvent) error {
	// Always the invoking user's own record, never the mentioned target.
	// Deleting a record that does not exist is a no-op.
	if err := e.store.Delete(ctx, ce.Command.User); err != nil {
		return fmt.Errorf("delete bio for %s: %w", ce.Command.User, err)
	}
	return ce.Reply(ctx, removeBioAck)
}

func (e *Engine) cmdAddBio(ctx context.Context, ce *CommandEvent) error {
	// The dialog posts all of its own messages, including the final
	// summary, so there is no trailing reply here.
	return e.runAddBioDialog(ctx, ce.Command.User, ce.Command.Channel)
}

func (e *Engine) defaultResponse(ctx context.Context, cmd InboundCommand) error {
	return e.transport.PostMessage(ctx, cmd.Channel,
		fmt.Sprintf("Not sure what you mean <@%s>. Try *help*", cmd.User))
}
