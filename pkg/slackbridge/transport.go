// Package slackbridge adapts the Slack Socket Mode stream to the buffered,
// poll-style transport the engine consumes. Events arriving over the socket
// are converted and queued; FetchEvents drains whatever has accumulated
// since the last poll without blocking.
package slackbridge

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/beeper/slack-biobot/pkg/biobot"
)

const eventBufferSize = 256

type Client struct {
	api    *slack.Client
	socket *socketmode.Client
	log    zerolog.Logger

	botUserID string
	events    chan biobot.Event
}

// New builds a Socket Mode client. Nothing connects until Connect is
// called.
func New(botToken, appToken string, debug bool, log zerolog.Logger) *Client {
	api := slack.New(
		botToken,
		slack.OptionDebug(debug),
		slack.OptionAppLevelToken(appToken),
	)
	return &Client{
		api:    api,
		socket: socketmode.New(api, socketmode.OptionDebug(debug)),
		log:    log.With().Str("component", "slack").Logger(),
		events: make(chan biobot.Event, eventBufferSize),
	}
}

// Connect verifies the bot token, starts the Socket Mode loop in the
// background, and returns the bot's own user ID. An auth failure here is
// fatal to the caller; there is no retry.
func (c *Client) Connect(ctx context.Context) (string, error) {
	auth, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return "", fmt.Errorf("slack auth test: %w", err)
	}
	c.botUserID = auth.UserID
	c.log.Info().
		Str("user_id", auth.UserID).
		Str("team", auth.Team).
		Msg("Slack bot authenticated")

	go c.consumeEvents(ctx)
	go func() {
		if err := c.socket.RunContext(ctx); err != nil && ctx.Err() == nil {
			c.log.Err(err).Msg("Socket Mode loop exited")
		}
	}()
	return auth.UserID, nil
}

func (c *Client) consumeEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-c.socket.Events:
			if !ok {
				return
			}
			c.handleSocketEvent(evt)
		}
	}
}

func (c *Client) handleSocketEvent(evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		c.log.Debug().Msg("Socket Mode connecting")
	case socketmode.EventTypeConnected:
		c.log.Info().Msg("Socket Mode connected")
	case socketmode.EventTypeConnectionError:
		c.log.Error().Msg("Socket Mode connection error")
	case socketmode.EventTypeEventsAPI:
		apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		if evt.Request != nil {
			c.socket.Ack(*evt.Request)
		}
		c.handleEventsAPI(apiEvent)
	}
}

func (c *Client) handleEventsAPI(event slackevents.EventsAPIEvent) {
	if event.Type != slackevents.CallbackEvent {
		return
	}
	ev, ok := c.convertEvent(event.InnerEvent.Data)
	if !ok {
		return
	}
	select {
	case c.events <- ev:
	default:
		// Buffer full means nobody has polled for a while; dropping the
		// oldest would reorder, so drop the newest and say so.
		c.log.Warn().Str("kind", string(ev.Kind)).Msg("Event buffer full, dropping event")
	}
}

// convertEvent maps the Slack inner event types the engine understands onto
// the core event model. The bot's own messages never enter the buffer: the
// dialog waiters would otherwise capture the bot's prompts as answers.
func (c *Client) convertEvent(data any) (biobot.Event, bool) {
	switch ev := data.(type) {
	case *slackevents.MessageEvent:
		if ev.User == c.botUserID || ev.BotID != "" {
			return biobot.Event{}, false
		}
		return biobot.Event{
			Kind:    biobot.EventMessage,
			SubType: ev.SubType,
			User:    ev.User,
			Channel: ev.Channel,
			Text:    ev.Text,
		}, true
	case *slackevents.FileSharedEvent:
		return biobot.Event{
			Kind:    biobot.EventFileShared,
			User:    ev.UserID,
			Channel: ev.ChannelID,
			FileID:  ev.FileID,
		}, true
	default:
		return biobot.Event{}, false
	}
}

// FetchEvents drains the buffer without blocking. It may return nothing.
func (c *Client) FetchEvents() []biobot.Event {
	var batch []biobot.Event
	for {
		select {
		case ev := <-c.events:
			batch = append(batch, ev)
		default:
			return batch
		}
	}
}

// PostMessage sends text (and optional image attachments) to a channel.
func (c *Client) PostMessage(ctx context.Context, channel, text string, attachments ...biobot.Attachment) error {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if len(attachments) > 0 {
		slackAttachments := make([]slack.Attachment, 0, len(attachments))
		for _, att := range attachments {
			slackAttachments = append(slackAttachments, slack.Attachment{
				Title:    att.Title,
				ImageURL: att.ImageURL,
			})
		}
		opts = append(opts, slack.MsgOptionAttachments(slackAttachments...))
	}
	if _, _, err := c.api.PostMessageContext(ctx, channel, opts...); err != nil {
		return fmt.Errorf("post message to %s: %w", channel, err)
	}
	return nil
}

var _ biobot.Transport = (*Client)(nil)
