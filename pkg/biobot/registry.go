package biobot

import (
	"context"
	"strings"
)

// Definition describes a chat command.
type Definition struct {
	Name        string
	Description string
	// Hidden commands are matched but not listed in the help catalog.
	Hidden  bool
	Handler func(ctx context.Context, ce *CommandEvent) error
}

// CommandEvent carries one recognized command through its handler.
type CommandEvent struct {
	Command InboundCommand
	engine  *Engine
}

// Reply posts text (and optional attachments) back to the originating
// channel.
func (ce *CommandEvent) Reply(ctx context.Context, text string, attachments ...Attachment) error {
	return ce.engine.transport.PostMessage(ctx, ce.Command.Channel, text, attachments...)
}

// Registry holds command definitions in priority order. Commands are
// recognized by case-sensitive prefix match on the command text, first
// definition wins, so registration order is load-bearing.
type Registry struct {
	defs []Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a command definition.
func (r *Registry) Register(def Definition) {
	if def.Name == "" || def.Handler == nil {
		return
	}
	r.defs = append(r.defs, def)
}

// Match returns the first definition whose name prefixes text, or nil.
func (r *Registry) Match(text string) *Definition {
	for i := range r.defs {
		if strings.HasPrefix(text, r.defs[i].Name) {
			return &r.defs[i]
		}
	}
	return nil
}

// Catalog returns the visible command names in registration order.
func (r *Registry) Catalog() []string {
	names := make([]string, 0, len(r.defs))
	for _, def := range r.defs {
		if def.Hidden {
			continue
		}
		names = append(names, def.Name)
	}
	return names
}
