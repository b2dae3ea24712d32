package biobot

import (
	"regexp"
	"strings"
)

// Slack user mentions look like <@U0123ABC> (user) or <@W0123ABC>
// (enterprise user); an empty ID between the markers is also accepted by
// the wire format. The anchored pattern is tried first so a message that
// opens with a mention parses as a direct address; if that fails the same
// pattern is retried anywhere in the text, so a mention embedded
// mid-message still counts as a direct address.
var (
	mentionAtStart  = regexp.MustCompile(`^<@(|[WU].+?)>(.*)`)
	mentionAnywhere = regexp.MustCompile(`<@(|[WU].+?)>(.*)`)
)

// ParseMention extracts the first mentioned user ID and the trimmed text
// following it. ok is false when the text contains no mention at all.
func ParseMention(text string) (id, remainder string, ok bool) {
	matches := mentionAtStart.FindStringSubmatch(text)
	if matches == nil {
		matches = mentionAnywhere.FindStringSubmatch(text)
	}
	if matches == nil {
		return "", "", false
	}
	return matches[1], strings.TrimSpace(matches[2]), true
}
