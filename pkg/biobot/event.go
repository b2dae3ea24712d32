// Package biobot implements the command-recognition and multi-turn dialog
// engine behind the bio bot: filtering the event stream down to commands
// addressed to the bot, dispatching them, and driving the blocking add-bio
// conversation.
package biobot

import "context"

// EventKind tags the transport events the engine cares about. Anything else
// passes through unrecognized and is ignored by the filter and the waiters.
type EventKind string

const (
	EventMessage    EventKind = "message"
	EventFileShared EventKind = "file_shared"
)

// Event is one item of a poll batch, already converted out of the
// transport's wire format. Events with a non-empty SubType are system/edit
// noise and are never acted on.
type Event struct {
	Kind    EventKind
	SubType string
	User    string
	Channel string
	Text    string
	FileID  string
}

// Attachment is an outbound image attachment.
type Attachment struct {
	Title    string
	ImageURL string
}

// Transport is the real-time event source and outbound message sink.
// FetchEvents is non-blocking: it returns whatever is buffered, possibly
// nothing.
type Transport interface {
	FetchEvents() []Event
	PostMessage(ctx context.Context, channel, text string, attachments ...Attachment) error
}

// FileInfo is the resolved result of a file-upload event: who uploaded the
// file and where the image lives.
type FileInfo struct {
	User string
	URL  string
}

// FileInfoResolver turns a file ID from a file_shared event into FileInfo
// via an authenticated lookup.
type FileInfoResolver interface {
	ResolveFile(ctx context.Context, fileID string) (FileInfo, error)
}

// BioRecord is one user's persisted bio.
type BioRecord struct {
	UserID      string
	Name        string
	Role        string
	Description string
	ImageURL    string
	UpdatedAt   int64
}

// BioStore persists bios keyed by user ID. Get reports found=false for a
// missing record, Put overwrites in full, Delete is a no-op when absent.
type BioStore interface {
	Get(ctx context.Context, userID string) (*BioRecord, bool, error)
	Put(ctx context.Context, rec *BioRecord) error
	Delete(ctx context.Context, userID string) error
}
