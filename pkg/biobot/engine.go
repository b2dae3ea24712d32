package biobot

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultPollInterval is the delay between event buffer drains.
const DefaultPollInterval = 200 * time.Millisecond

// EngineOpts wires an Engine. SelfID is the bot's own user ID, resolved
// once at startup by the transport.
type EngineOpts struct {
	Transport    Transport
	Files        FileInfoResolver
	Store        BioStore
	SelfID       string
	Organization string
	PollInterval time.Duration
	Log          zerolog.Logger
}

// Engine is the single-threaded poll loop plus command dispatcher. It
// processes one command fully before fetching the next batch; a running
// add-bio dialog therefore blocks everything else.
type Engine struct {
	transport    Transport
	files        FileInfoResolver
	store        BioStore
	selfID       string
	organization string
	pollInterval time.Duration
	log          zerolog.Logger
	commands     *Registry
}

// NewEngine builds an engine and registers the command set.
func NewEngine(opts EngineOpts) *Engine {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Organization == "" {
		opts.Organization = "your team"
	}
	e := &Engine{
		transport:    opts.Transport,
		files:        opts.Files,
		store:        opts.Store,
		selfID:       opts.SelfID,
		organization: opts.Organization,
		pollInterval: opts.PollInterval,
		log:          opts.Log.With().Str("component", "engine").Logger(),
		commands:     NewRegistry(),
	}
	e.registerCommands()
	return e
}

// Run polls for commands until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.log.Info().Str("self_id", e.selfID).Msg("Engine running")
	for {
		if cmd, ok := FilterCommand(e.transport.FetchEvents(), e.selfID); ok {
			e.HandleCommand(ctx, cmd)
		}
		if err := e.sleep(ctx); err != nil {
			if ctx.Err() != nil {
				e.log.Info().Msg("Engine stopped")
				return nil
			}
			return err
		}
	}
}

// HandleCommand dispatches one recognized command. Handler failures are
// surfaced to the invoking channel rather than dropped; only the outbound
// post itself failing is logged without a user-visible trace.
func (e *Engine) HandleCommand(ctx context.Context, cmd InboundCommand) {
	log := loggerFromContext(ctx, &e.log).With().
		Str("user", cmd.User).
		Str("channel", cmd.Channel).
		Logger()

	def := e.commands.Match(cmd.Text)
	if def == nil {
		log.Debug().Str("text", cmd.Text).Msg("Unrecognized command")
		if err := e.defaultResponse(ctx, cmd); err != nil {
			log.Err(err).Msg("Failed to send default response")
		}
		return
	}

	log.Info().Str("command", def.Name).Msg("Handling command")
	ce := &CommandEvent{Command: cmd, engine: e}
	if err := def.Handler(ctx, ce); err != nil {
		log.Err(err).Str("command", def.Name).Msg("Command handler failed")
		if ctx.Err() != nil {
			return
		}
		if postErr := ce.Reply(ctx, "Something went wrong: "+err.Error()); postErr != nil {
			log.Err(postErr).Msg("Failed to report handler error to channel")
		}
	}
}

// sleep waits one poll interval, cutting the wait short on cancellation.
func (e *Engine) sleep(ctx context.Context) error {
	timer := time.NewTimer(e.pollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
