package biobot

import (
	"context"
	"strings"
	"testing"
	"time"
)

// The canonical interview: unrelated traffic everywhere, the role and
// description answers sharing one batch, and a wrong-uploader file before
// the right one.
func TestAddBioDialogCompletes(t *testing.T) {
	tr := newFakeTransport(
		[]Event{msgEvent("U9", "totally unrelated")},
		[]Event{msgEvent("U1", "Jane Doe")},
		[]Event{msgEvent("U9", "more noise")},
		[]Event{
			msgEvent("U1", "Engineer"),
			msgEvent("U9", "interleaved noise"),
			msgEvent("U1", "From Toronto, I like climbing."),
		},
		[]Event{fileEvent("F_OTHER"), fileEvent("F_MINE")},
	)
	resolver := &fakeResolver{infos: map[string]FileInfo{
		"F_OTHER": {User: "U9", URL: "https://files.example/other.jpg"},
		"F_MINE":  {User: "U1", URL: "https://files.example/jane.jpg"},
	}}
	store := newFakeStore()
	e := newTestEngine(tr, resolver, store)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	e.HandleCommand(ctx, InboundCommand{Text: "add bio", Channel: "C1", User: "U1"})

	if len(store.puts) != 1 {
		t.Fatalf("expected exactly one put, got %d", len(store.puts))
	}
	rec := store.puts[0]
	if rec.UserID != "U1" {
		t.Errorf("record keyed by %q, want U1", rec.UserID)
	}
	if rec.Name != "Jane Doe" || rec.Role != "Engineer" || rec.Description != "From Toronto, I like climbing." {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.ImageURL != "https://files.example/jane.jpg" {
		t.Errorf("wrong uploader's file should be ignored, got %q", rec.ImageURL)
	}

	posts := tr.Posts()
	if len(posts) != 5 {
		t.Fatalf("expected 4 prompts and a summary, got %d posts: %+v", len(posts), posts)
	}
	if !strings.Contains(posts[0].Text, "Can you tell me your name?") {
		t.Errorf("unexpected name prompt: %q", posts[0].Text)
	}
	if !strings.Contains(posts[1].Text, "What is your role at OANDA?") {
		t.Errorf("unexpected role prompt: %q", posts[1].Text)
	}
	if !strings.Contains(posts[2].Text, "brief description") {
		t.Errorf("unexpected description prompt: %q", posts[2].Text)
	}
	if !strings.Contains(posts[3].Text, "upload a picture") {
		t.Errorf("unexpected picture prompt: %q", posts[3].Text)
	}
	summary := posts[4]
	for _, want := range []string{"Jane Doe", "Engineer", "From Toronto, I like climbing."} {
		if !strings.Contains(summary.Text, want) {
			t.Errorf("summary %q missing %q", summary.Text, want)
		}
	}
	if len(summary.Attachments) != 1 || summary.Attachments[0].Title != "Your Picture" {
		t.Fatalf("summary should attach the picture, got %+v", summary.Attachments)
	}
	if summary.Attachments[0].ImageURL != "https://files.example/jane.jpg" {
		t.Errorf("unexpected attachment URL %q", summary.Attachments[0].ImageURL)
	}
}

func TestAwaitUploadSkipsUnresolvableFiles(t *testing.T) {
	tr := newFakeTransport(
		[]Event{fileEvent("F_BROKEN")},
		[]Event{fileEvent("F_OK")},
	)
	resolver := &fakeResolver{infos: map[string]FileInfo{
		"F_OK": {User: "U1", URL: "https://files.example/ok.jpg"},
	}}
	e := newTestEngine(tr, resolver, newFakeStore())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	d := &bioDialog{ID: "test", User: "U1", Channel: "C1", step: stepImage}
	url, err := e.awaitUpload(ctx, d, &eventCursor{engine: e})
	if err != nil {
		t.Fatalf("awaitUpload: %v", err)
	}
	if url != "https://files.example/ok.jpg" {
		t.Errorf("got %q, want the resolvable file's URL", url)
	}
}

func TestAwaitReplyIgnoresOtherUsersAndNoise(t *testing.T) {
	tr := newFakeTransport(
		[]Event{
			{Kind: EventMessage, SubType: "message_changed", User: "U1", Channel: "C1", Text: "edited"},
			msgEvent("U9", "not the owner"),
			fileEvent("F1"),
		},
		[]Event{msgEvent("U1", "the real answer")},
	)
	e := newTestEngine(tr, &fakeResolver{}, newFakeStore())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	answer, err := e.awaitReply(ctx, "U1", &eventCursor{engine: e})
	if err != nil {
		t.Fatalf("awaitReply: %v", err)
	}
	if answer != "the real answer" {
		t.Errorf("got %q", answer)
	}
}

func TestDialogStopsOnContextCancel(t *testing.T) {
	tr := newFakeTransport() // never delivers an answer
	store := newFakeStore()
	e := newTestEngine(tr, &fakeResolver{}, store)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := e.runAddBioDialog(ctx, "U1", "C1")
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if len(store.puts) != 0 {
		t.Errorf("partial dialog state must never be persisted, got %v", store.puts)
	}
}
