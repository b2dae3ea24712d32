package biobot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
)

// dialogStep enumerates the add-bio interview states. The flow is strictly
// linear: every step asks its question, blocks until the owning user
// answers, and advances. There is no timeout and no way to abandon a
// running dialog; the whole engine waits with it.
type dialogStep int

const (
	stepName dialogStep = iota
	stepRole
	stepDescription
	stepImage
	stepComplete
)

func (s dialogStep) String() string {
	switch s {
	case stepName:
		return "name"
	case stepRole:
		return "role"
	case stepDescription:
		return "description"
	case stepImage:
		return "image"
	case stepComplete:
		return "complete"
	default:
		return fmt.Sprintf("dialogStep(%d)", int(s))
	}
}

// bioDialog tracks one in-flight add-bio conversation. Only one can exist
// at a time: the engine is single-threaded and runs a dialog to completion
// before returning to the poll loop. Partial state lives only here and is
// never persisted.
type bioDialog struct {
	ID      string
	User    string
	Channel string

	Name        string
	Role        string
	Description string
	ImageURL    string

	step dialogStep
}

// eventCursor feeds the dialog waiters one event at a time. A batch is
// consumed incrementally, so two answers arriving in the same poll batch
// both reach their states. The cursor is scoped to a single dialog run;
// whatever is left when the dialog completes is discarded, matching the
// drop-not-queue behavior of the command filter.
type eventCursor struct {
	engine  *Engine
	pending []Event
}

// next returns the next buffered event, fetching and sleeping as needed.
// It only fails when ctx is cancelled; there is no timeout.
func (c *eventCursor) next(ctx context.Context) (Event, error) {
	for {
		if len(c.pending) > 0 {
			ev := c.pending[0]
			c.pending = c.pending[1:]
			return ev, nil
		}
		if batch := c.engine.transport.FetchEvents(); len(batch) > 0 {
			c.pending = batch
			continue
		}
		if err := c.engine.sleep(ctx); err != nil {
			return Event{}, err
		}
	}
}

// runAddBioDialog drives the interview for user in channel until every
// field is collected, then persists the record and posts the summary.
func (e *Engine) runAddBioDialog(ctx context.Context, user, channel string) error {
	d := &bioDialog{
		ID:      xid.New().String(),
		User:    user,
		Channel: channel,
		step:    stepName,
	}
	log := e.log.With().
		Str("dialog_id", d.ID).
		Str("user", user).
		Str("channel", channel).
		Logger()
	log.Info().Msg("Starting add bio dialog")

	cursor := &eventCursor{engine: e}
	for d.step != stepComplete {
		if err := e.advanceDialog(ctx, d, cursor); err != nil {
			return fmt.Errorf("add bio dialog (step %s): %w", d.step, err)
		}
		log.Debug().Stringer("step", d.step).Msg("Dialog advanced")
	}

	rec := &BioRecord{
		UserID:      d.User,
		Name:        d.Name,
		Role:        d.Role,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		UpdatedAt:   time.Now().UnixMilli(),
	}
	if err := e.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("save bio for %s: %w", d.User, err)
	}
	summary := fmt.Sprintf(
		"Thanks! Here's a rundown of what you added:\nName: %s\nRole: %s\nBiography: %s",
		d.Name, d.Role, d.Description,
	)
	if err := e.transport.PostMessage(ctx, d.Channel, summary,
		Attachment{Title: "Your Picture", ImageURL: d.ImageURL}); err != nil {
		return err
	}
	log.Info().Msg("Add bio dialog complete")
	return nil
}

// advanceDialog performs exactly one state transition: prompt, block for
// the matching answer, store it, move on.
func (e *Engine) advanceDialog(ctx context.Context, d *bioDialog, cursor *eventCursor) error {
	switch d.step {
	case stepName:
		prompt := fmt.Sprintf("Sure thing, <@%s>! Can you tell me your name?", d.User)
		answer, err := e.askAndAwait(ctx, d, cursor, prompt)
		if err != nil {
			return err
		}
		d.Name = answer
		d.step = stepRole
	case stepRole:
		prompt := fmt.Sprintf("What is your role at %s?", e.organization)
		answer, err := e.askAndAwait(ctx, d, cursor, prompt)
		if err != nil {
			return err
		}
		d.Role = answer
		d.step = stepDescription
	case stepDescription:
		prompt := "Can you give me a brief description about yourself " +
			"(where are you from,\n what are your hobbies, what would you like people to know about you, etc)?"
		answer, err := e.askAndAwait(ctx, d, cursor, prompt)
		if err != nil {
			return err
		}
		d.Description = answer
		d.step = stepImage
	case stepImage:
		if err := e.transport.PostMessage(ctx, d.Channel, "Can you upload a picture of yourself?"); err != nil {
			return err
		}
		url, err := e.awaitUpload(ctx, d, cursor)
		if err != nil {
			return err
		}
		d.ImageURL = url
		d.step = stepComplete
	default:
		return fmt.Errorf("dialog in unexpected step %s", d.step)
	}
	return nil
}

func (e *Engine) askAndAwait(ctx context.Context, d *bioDialog, cursor *eventCursor, prompt string) (string, error) {
	if err := e.transport.PostMessage(ctx, d.Channel, prompt); err != nil {
		return "", err
	}
	return e.awaitReply(ctx, d.User, cursor)
}

// awaitReply blocks until the next plain message authored by user arrives.
// Messages from anyone else, subtyped noise, and non-message events are
// skipped without consuming the wait.
func (e *Engine) awaitReply(ctx context.Context, user string, cursor *eventCursor) (string, error) {
	for {
		ev, err := cursor.next(ctx)
		if err != nil {
			return "", err
		}
		if ev.Kind != EventMessage || ev.SubType != "" || ev.User != user {
			continue
		}
		return ev.Text, nil
	}
}

// awaitUpload blocks until a file_shared event resolves to an upload by the
// dialog owner, then returns the private image URL. Uploads by other users
// are discarded and the wait continues. A file that cannot be resolved
// (lookup failure or a response missing the user/url fields) is skipped the
// same way rather than aborting the dialog.
func (e *Engine) awaitUpload(ctx context.Context, d *bioDialog, cursor *eventCursor) (string, error) {
	for {
		ev, err := cursor.next(ctx)
		if err != nil {
			return "", err
		}
		if ev.Kind != EventFileShared || ev.SubType != "" {
			continue
		}
		info, err := e.files.ResolveFile(ctx, ev.FileID)
		if err != nil {
			e.log.Warn().Err(err).
				Str("dialog_id", d.ID).
				Str("file_id", ev.FileID).
				Msg("Failed to resolve shared file, still waiting")
			continue
		}
		if info.User != d.User {
			e.log.Debug().
				Str("dialog_id", d.ID).
				Str("uploader", info.User).
				Msg("Ignoring upload from another user")
			continue
		}
		return info.URL, nil
	}
}
