// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/jeranaias/deskchat-tui/internal/model"
	"github.com/jeranaias/deskchat-tui/internal/openrouter"
	"github.com/jeranaias/deskchat-tui/internal/search"
	"github.com/jeranaias/deskchat-tui/internal/storage"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyMessage indicates a send with no content.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrBusy indicates a send while a previous response is still streaming.
	ErrBusy = errors.New("a response is already in progress")
	// ErrRateLimited indicates the local send rate limit was hit.
	ErrRateLimited = errors.New("sending too fast, slow down")
	// ErrPersistFailed indicates the reply arrived but could not be
	// saved. The in-memory conversation still holds the full exchange.
	ErrPersistFailed = errors.New("could not save conversation")
)

// =============================================================================
// CHAT CLIENT INTERFACE
// =============================================================================

// ChatClient is the transport the controller talks through. Satisfied by
// *openrouter.Client; tests substitute fakes.
type ChatClient interface {
	Chat(ctx context.Context, messages []openrouter.ChatMessage) (*openrouter.ChatResponse, error)
	ChatStream(ctx context.Context, messages []openrouter.ChatMessage, callback openrouter.StreamCallback) error
	Model() string
	SetModel(model string)
	IsConfigured() bool
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the active conversation: it creates it lazily on the
// first send, runs the send/stream/persist pipeline, and keeps storage
// and the search index in sync.
type Controller struct {
	mu sync.Mutex

	client ChatClient
	store  *storage.ConversationStore
	index  *search.Index

	conv      *model.Conversation
	busy      bool
	limiter   *rate.Limiter
	lastStats *openrouter.StreamStats
}

// Option configures a Controller.
type Option func(*Controller)

// WithSearchIndex enables full-text indexing of saved conversations.
func WithSearchIndex(idx *search.Index) Option {
	return func(c *Controller) { c.index = idx }
}

// WithSendRate limits sends to n per minute. n <= 0 means unlimited.
func WithSendRate(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(float64(n)/60.0), n)
		}
	}
}

// NewController creates a controller. No conversation exists until the
// first message is sent.
func NewController(client ChatClient, store *storage.ConversationStore, opts ...Option) *Controller {
	c := &Controller{
		client: client,
		store:  store,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Current returns the active conversation, or nil before the first send.
func (c *Controller) Current() *model.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv
}

// Busy reports whether a response is currently in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Model returns the active model identifier.
func (c *Controller) Model() string {
	return c.client.Model()
}

// LastStats returns timing statistics for the most recent streamed
// reply, or nil before the first one (non-streaming fallbacks carry no
// timings either).
func (c *Controller) LastStats() *openrouter.StreamStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastStats
}

// =============================================================================
// SEND PIPELINE
// =============================================================================

// Send submits a user message and returns the assistant's reply.
//
// The user message and a streaming placeholder are appended before the
// request goes out; onDelta receives content chunks as they arrive. If
// streaming fails the request is retried non-streaming, and if that
// also fails both optimistic messages are popped so the conversation is
// exactly as it was before the send.
func (c *Controller) Send(ctx context.Context, text string, onDelta func(string)) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}
	if !c.client.IsConfigured() {
		return "", openrouter.ErrNotConfigured
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return "", ErrBusy
	}
	if c.limiter != nil && !c.limiter.Allow() {
		c.mu.Unlock()
		return "", ErrRateLimited
	}
	c.busy = true

	// Lazy creation: the conversation exists only once there is
	// something to say.
	if c.conv == nil {
		c.conv = model.NewConversation(text, c.client.Model())
	}
	conv := c.conv

	// Optimistic append: user message plus a placeholder the stream
	// writes into.
	conv.AddMessage(model.NewMessage(model.RoleUser, text))
	history := wireMessages(conv)
	conv.AddMessage(model.NewStreamingMessage())
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	reply, err := c.complete(ctx, conv, history, onDelta)
	if err != nil {
		// Roll back both optimistic messages.
		c.mu.Lock()
		conv.PopLastMessage()
		conv.PopLastMessage()
		c.mu.Unlock()
		return "", err
	}

	c.mu.Lock()
	conv.FinalizeLast()
	c.mu.Unlock()

	// A persist failure does not invalidate the reply: the exchange
	// stays in memory and the caller decides how loudly to complain.
	if err := c.persist(conv); err != nil {
		return reply, err
	}
	return reply, nil
}

// complete runs the streaming request with a non-streaming fallback.
// The placeholder message accumulates content as chunks arrive.
func (c *Controller) complete(ctx context.Context, conv *model.Conversation, history []openrouter.ChatMessage, onDelta func(string)) (string, error) {
	acc := openrouter.NewStreamAccumulator()
	streamErr := c.client.ChatStream(ctx, history, func(chunk openrouter.StreamChunk) {
		acc.Add(chunk)
		delta := chunk.GetContent()
		if delta == "" {
			return
		}
		c.mu.Lock()
		conv.AppendToLast(delta)
		c.mu.Unlock()
		if onDelta != nil {
			onDelta(delta)
		}
	})
	if streamErr == nil {
		content := acc.GetContent()
		if content == "" {
			return "", openrouter.ErrEmptyResponse
		}
		c.mu.Lock()
		c.lastStats = acc.GetStats()
		c.mu.Unlock()
		return content, nil
	}

	// A cancelled context is the user's doing, not a transport fault;
	// don't burn a second request on it.
	if ctx.Err() != nil {
		return "", streamErr
	}

	// STREAMING: fall back to a plain request. Partial streamed content
	// is discarded in favor of the complete response.
	resp, err := c.client.Chat(ctx, history)
	if err != nil {
		return "", fmt.Errorf("streaming failed (%v); fallback failed: %w", streamErr, err)
	}
	content := resp.GetContent()
	if content == "" {
		return "", openrouter.ErrEmptyResponse
	}

	c.mu.Lock()
	// Replace whatever the broken stream delivered.
	conv.PopLastMessage()
	msg := model.NewStreamingMessage()
	msg.AppendContent(content)
	conv.AddMessage(msg)
	c.mu.Unlock()

	if onDelta != nil {
		onDelta(content)
	}
	return content, nil
}

// wireMessages converts conversation history to the request format.
// Streaming placeholders and empty messages are skipped.
func wireMessages(conv *model.Conversation) []openrouter.ChatMessage {
	out := make([]openrouter.ChatMessage, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		if msg.Streaming {
			continue
		}
		text := msg.Text()
		if text == "" {
			continue
		}
		switch msg.Role {
		case model.RoleUser:
			out = append(out, openrouter.NewUserMessage(text))
		case model.RoleAssistant:
			out = append(out, openrouter.NewAssistantMessage(text))
		case model.RoleSystem:
			out = append(out, openrouter.NewSystemMessage(text))
		}
	}
	return out
}

// persist saves the conversation and refreshes the search index. The
// in-memory conversation is untouched either way; the returned error
// only tells the caller the exchange will not survive a restart.
func (c *Controller) persist(conv *model.Conversation) error {
	if c.store != nil {
		if err := c.store.Save(conv); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistFailed, err)
		}
	}
	if c.index != nil {
		if err := c.index.IndexConversation(conv); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistFailed, err)
		}
	}
	return nil
}

// =============================================================================
// MODEL SWITCHING
// =============================================================================

// SwitchModel changes the active model. The conversation history is
// cleared (different models should not inherit each other's context)
// and a system notice marks the switch.
func (c *Controller) SwitchModel(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.client.SetModel(name)
	if c.conv == nil {
		return
	}
	c.conv.ClearHistory()
	c.conv.Model = name
	c.conv.AddMessage(model.NewMessage(model.RoleSystem, "Switched to "+name))
}

// =============================================================================
// CONVERSATION LIFECYCLE
// =============================================================================

// Reset discards the active conversation; the next send starts a new one.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conv = nil
}

// Load replaces the active conversation with a stored one.
func (c *Controller) Load(id string) error {
	if c.store == nil {
		return storage.ErrConversationNotFound
	}
	conv, err := c.store.Load(id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.conv = conv
	if conv.Model != "" {
		c.client.SetModel(conv.Model)
	}
	return nil
}

// Delete removes a stored conversation. Deleting the active one also
// resets the session.
func (c *Controller) Delete(id string) error {
	if c.store != nil {
		if err := c.store.Delete(id); err != nil {
			return err
		}
	}
	if c.index != nil {
		_ = c.index.DeleteConversation(id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conv != nil && c.conv.ID == id {
		c.conv = nil
	}
	return nil
}

// List returns stored conversation summaries, newest first.
func (c *Controller) List() ([]storage.Summary, error) {
	if c.store == nil {
		return nil, nil
	}
	return c.store.List()
}
