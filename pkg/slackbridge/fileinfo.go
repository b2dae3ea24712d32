package slackbridge

import (
	"context"
	"fmt"

	"github.com/beeper/slack-biobot/pkg/biobot"
)

// ResolveFile looks up a shared file with the bot's credential and extracts
// the uploader and the private image URL. A response missing either field
// is an error: the caller decides whether to keep waiting.
func (c *Client) ResolveFile(ctx context.Context, fileID string) (biobot.FileInfo, error) {
	file, _, _, err := c.api.GetFileInfoContext(ctx, fileID, 0, 0)
	if err != nil {
		return biobot.FileInfo{}, fmt.Errorf("files.info for %s: %w", fileID, err)
	}
	if file == nil || file.User == "" || file.URLPrivate == "" {
		return biobot.FileInfo{}, fmt.Errorf("files.info for %s: response missing user or url_private", fileID)
	}
	return biobot.FileInfo{
		User: file.User,
		URL:  file.URLPrivate,
	}, nil
}

var _ biobot.FileInfoResolver = (*Client)(nil)
