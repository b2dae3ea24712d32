package biobot

// InboundCommand is a message addressed to the bot, stripped down to the
// command text and its origin.
type InboundCommand struct {
	Text    string
	Channel string
	User    string
}

// FilterCommand scans one poll batch for the first plain message (no
// subtype) that mentions selfID and returns its command text and origin.
// Later matches in the same batch are dropped, not queued. ok is false when
// the batch contains no command for the bot.
func FilterCommand(events []Event, selfID string) (cmd InboundCommand, ok bool) {
	for _, ev := range events {
		if ev.Kind != EventMessage || ev.SubType != "" || ev.User == "" {
			continue
		}
		id, remainder, found := ParseMention(ev.Text)
		if !found || id != selfID {
			continue
		}
		return InboundCommand{
			Text:    remainder,
			Channel: ev.Channel,
			User:    ev.User,
		}, true
	}
	return InboundCommand{}, false
}
