// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/jeranaias/deskchat-tui/internal/model"
	"github.com/jeranaias/deskchat-tui/internal/openrouter"
	"github.com/jeranaias/deskchat-tui/internal/storage"
)

// fakeClient scripts transport behavior per test.
type fakeClient struct {
	model      string
	configured bool

	streamChunks []string
	streamErr    error
	chatReply    string
	chatErr      error

	streamCalls int
	chatCalls   int
	lastHistory []openrouter.ChatMessage
}

func newFakeClient() *fakeClient {
	return &fakeClient{model: "test/model", configured: true}
}

func (f *fakeClient) Chat(ctx context.Context, messages []openrouter.ChatMessage) (*openrouter.ChatResponse, error) {
	f.chatCalls++
	f.lastHistory = messages
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return &openrouter.ChatResponse{
		Choices: []openrouter.Choice{{Message: openrouter.ChatMessage{Role: "assistant", Content: f.chatReply}}},
	}, nil
}

func (f *fakeClient) ChatStream(ctx context.Context, messages []openrouter.ChatMessage, callback openrouter.StreamCallback) error {
	f.streamCalls++
	f.lastHistory = messages
	for _, text := range f.streamChunks {
		callback(openrouter.StreamChunk{
			Choices: []openrouter.StreamChoice{{Delta: openrouter.Delta{Content: text}}},
		})
	}
	return f.streamErr
}

func (f *fakeClient) Model() string         { return f.model }
func (f *fakeClient) SetModel(model string) { f.model = model }
func (f *fakeClient) IsConfigured() bool    { return f.configured }

func newTestController(t *testing.T, client ChatClient) *Controller {
	t.Helper()
	store, err := storage.NewConversationStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewController(client, store)
}

func TestSendLazyCreatesConversation(t *testing.T) {
	client := newFakeClient()
	client.streamChunks = []string{"hello ", "there"}
	c := newTestController(t, client)

	if c.Current() != nil {
		t.Fatal("conversation exists before first send")
	}

	reply, err := c.Send(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != "hello there" {
		t.Errorf("reply = %q", reply)
	}

	conv := c.Current()
	if conv == nil {
		t.Fatal("no conversation after send")
	}
	if conv.Title != "hi" {
		t.Errorf("title = %q", conv.Title)
	}
	if conv.Len() != 2 {
		t.Fatalf("message count = %d, want 2", conv.Len())
	}
	if conv.Messages[1].Text() != "hello there" {
		t.Errorf("assistant message = %q", conv.Messages[1].Text())
	}
	if conv.Messages[1].Streaming {
		t.Error("assistant message not finalized")
	}
}

func TestSendDeliversDeltas(t *testing.T) {
	client := newFakeClient()
	client.streamChunks = []string{"a", "b", "c"}
	c := newTestController(t, client)

	var got []string
	if _, err := c.Send(context.Background(), "go", func(d string) { got = append(got, d) }); err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, "") != "abc" {
		t.Errorf("deltas = %v", got)
	}
}

func TestSendFallsBackToNonStreaming(t *testing.T) {
	client := newFakeClient()
	client.streamChunks = []string{"partial"}
	client.streamErr = &openrouter.StreamError{Partial: "partial", Err: errors.New("connection reset")}
	client.chatReply = "complete answer"
	c := newTestController(t, client)

	reply, err := c.Send(context.Background(), "question", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != "complete answer" {
		t.Errorf("reply = %q", reply)
	}
	if client.chatCalls != 1 {
		t.Errorf("chat calls = %d, want 1", client.chatCalls)
	}

	// The partial streamed text must not survive alongside the fallback.
	conv := c.Current()
	if got := conv.LastMessage().Text(); got != "complete answer" {
		t.Errorf("stored assistant message = %q", got)
	}
}

func TestSendRollsBackOnDoubleFailure(t *testing.T) {
	client := newFakeClient()
	client.streamErr = &openrouter.StreamError{Err: errors.New("stream down")}
	client.chatErr = errors.New("api down")
	c := newTestController(t, client)

	// Seed an existing conversation so rollback is observable.
	client2 := *client
	client2.streamErr = nil
	client2.streamChunks = []string{"ok"}
	c.client = &client2
	if _, err := c.Send(context.Background(), "first", nil); err != nil {
		t.Fatal(err)
	}
	c.client = client

	before := c.Current().Len()
	_, err := c.Send(context.Background(), "doomed", nil)
	if err == nil {
		t.Fatal("Send succeeded despite double failure")
	}
	if got := c.Current().Len(); got != before {
		t.Errorf("message count = %d after failed send, want %d", got, before)
	}
}

func TestSendSurfacesPersistFailure(t *testing.T) {
	dir := t.TempDir() + "/conversations"
	store, err := storage.NewConversationStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	client := newFakeClient()
	client.streamChunks = []string{"the answer"}
	c := NewController(client, store)

	// Replace the storage directory with a regular file so every save
	// fails, regardless of the uid running the tests.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir, []byte("not a directory"), 0600); err != nil {
		t.Fatal(err)
	}

	reply, err := c.Send(context.Background(), "hi", nil)
	if !errors.Is(err, ErrPersistFailed) {
		t.Fatalf("err = %v, want ErrPersistFailed", err)
	}
	if reply != "the answer" {
		t.Errorf("reply = %q, want the completed answer alongside the error", reply)
	}

	// The in-memory exchange survives the failed save.
	conv := c.Current()
	if conv == nil || conv.Len() != 2 {
		t.Fatalf("conversation = %+v, want both turns retained", conv)
	}
	if conv.LastMessage().Streaming {
		t.Error("assistant message not finalized")
	}
}

func TestSendRecordsStreamStats(t *testing.T) {
	client := newFakeClient()
	client.streamChunks = []string{"one ", "two"}
	c := newTestController(t, client)

	if c.LastStats() != nil {
		t.Fatal("stats exist before the first send")
	}
	if _, err := c.Send(context.Background(), "count", nil); err != nil {
		t.Fatal(err)
	}

	stats := c.LastStats()
	if stats == nil {
		t.Fatal("no stats after a streamed reply")
	}
	if stats.TokenCount != 2 {
		t.Errorf("token count = %d, want 2", stats.TokenCount)
	}
	if stats.TotalTime <= 0 {
		t.Errorf("total time = %v", stats.TotalTime)
	}
}

func TestSendRejectsEmptyAndUnconfigured(t *testing.T) {
	client := newFakeClient()
	c := newTestController(t, client)

	if _, err := c.Send(context.Background(), "   ", nil); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("err = %v, want ErrEmptyMessage", err)
	}

	client.configured = false
	if _, err := c.Send(context.Background(), "hi", nil); !errors.Is(err, openrouter.ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestSendRateLimit(t *testing.T) {
	client := newFakeClient()
	client.streamChunks = []string{"ok"}
	store, err := storage.NewConversationStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewController(client, store, WithSendRate(1))

	if _, err := c.Send(context.Background(), "one", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Send(context.Background(), "two", nil); !errors.Is(err, ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

func TestHistorySentExcludesPlaceholder(t *testing.T) {
	client := newFakeClient()
	client.streamChunks = []string{"first answer"}
	c := newTestController(t, client)

	if _, err := c.Send(context.Background(), "q1", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Send(context.Background(), "q2", nil); err != nil {
		t.Fatal(err)
	}

	// Second request carries q1, its answer, and q2.
	if len(client.lastHistory) != 3 {
		t.Fatalf("history length = %d, want 3", len(client.lastHistory))
	}
	if client.lastHistory[2].Content != "q2" {
		t.Errorf("last history entry = %q", client.lastHistory[2].Content)
	}
}

func TestSwitchModelClearsHistory(t *testing.T) {
	client := newFakeClient()
	client.streamChunks = []string{"answer"}
	c := newTestController(t, client)

	if _, err := c.Send(context.Background(), "hello", nil); err != nil {
		t.Fatal(err)
	}

	c.SwitchModel("openai/gpt-4o")

	if client.model != "openai/gpt-4o" {
		t.Errorf("client model = %q", client.model)
	}
	conv := c.Current()
	if conv.Model != "openai/gpt-4o" {
		t.Errorf("conversation model = %q", conv.Model)
	}
	if conv.Len() != 1 {
		t.Fatalf("message count = %d after switch, want 1", conv.Len())
	}
	notice := conv.Messages[0]
	if notice.Role != model.RoleSystem || notice.Text() != "Switched to openai/gpt-4o" {
		t.Errorf("notice = %s %q", notice.Role, notice.Text())
	}
}

func TestLoadAndDelete(t *testing.T) {
	client := newFakeClient()
	client.streamChunks = []string{"saved answer"}
	store, err := storage.NewConversationStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewController(client, store)

	if _, err := c.Send(context.Background(), "persist me", nil); err != nil {
		t.Fatal(err)
	}
	id := c.Current().ID

	c.Reset()
	if c.Current() != nil {
		t.Fatal("Reset did not clear conversation")
	}

	if err := c.Load(id); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Current().ID != id {
		t.Error("loaded wrong conversation")
	}

	if err := c.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if c.Current() != nil {
		t.Error("deleting active conversation did not reset session")
	}
	if err := c.Load(id); !errors.Is(err, storage.ErrConversationNotFound) {
		t.Errorf("Load after delete err = %v", err)
	}
}
