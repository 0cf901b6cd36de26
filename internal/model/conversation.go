// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// MaxTitleLength is the number of leading characters a conversation
	// title keeps before "..." is appended.
	MaxTitleLength = 30

	// MaxMessages caps in-memory history; older messages are pruned.
	MaxMessages = 1000
)

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation is an ordered message history with a derived title.
//
// A conversation is created lazily: the session controller constructs it
// on the first successful send and titles it from that first user
// message.
type Conversation struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Model     string     `json:"model"`
	Messages  []*Message `json:"messages"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewConversation creates an empty conversation titled from firstMessage.
func NewConversation(firstMessage, modelName string) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        generateID("conv"),
		Title:     GenerateTitle(firstMessage),
		Model:     modelName,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GenerateTitle derives a conversation title from the first user message:
// the trimmed content, truncated to MaxTitleLength characters plus "..."
// when longer.
func GenerateTitle(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "New Conversation"
	}
	runes := []rune(trimmed)
	if len(runes) <= MaxTitleLength {
		return trimmed
	}
	return strings.TrimSpace(string(runes[:MaxTitleLength])) + "..."
}

// AddMessage appends a message and prunes old history past MaxMessages.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.pruneOldMessages()
}

// PopLastMessage removes and returns the most recent message, or nil.
// Used to roll back an optimistic user turn after a failed send.
func (c *Conversation) PopLastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	last := c.Messages[len(c.Messages)-1]
	c.Messages = c.Messages[:len(c.Messages)-1]
	c.UpdatedAt = time.Now()
	return last
}

// LastMessage returns the most recent message, or nil.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// AppendToLast appends a streamed chunk to the last message if it is
// still streaming.
func (c *Conversation) AppendToLast(chunk string) {
	if last := c.LastMessage(); last != nil && last.Streaming {
		last.AppendContent(chunk)
		c.UpdatedAt = time.Now()
	}
}

// FinalizeLast ends streaming on the last message.
func (c *Conversation) FinalizeLast() {
	if last := c.LastMessage(); last != nil {
		last.Finalize()
		c.UpdatedAt = time.Now()
	}
}

// ClearHistory removes all messages but keeps identity and title.
func (c *Conversation) ClearHistory() {
	c.Messages = nil
	c.UpdatedAt = time.Now()
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.Messages)
}

// Preview returns the first user message truncated for list display.
func (c *Conversation) Preview(maxRunes int) string {
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			runes := []rune(strings.TrimSpace(m.Content))
			if len(runes) <= maxRunes {
				return string(runes)
			}
			return string(runes[:maxRunes])
		}
	}
	return ""
}

// Clone returns a deep copy. Used before handing history to another
// goroutine so streaming updates never race persistence.
func (c *Conversation) Clone() *Conversation {
	out := *c
	out.Messages = make([]*Message, len(c.Messages))
	for i, m := range c.Messages {
		cp := &Message{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Text(),
			Timestamp: m.Timestamp,
		}
		out.Messages[i] = cp
	}
	return &out
}

// pruneOldMessages drops the oldest messages beyond MaxMessages,
// preserving any leading system message.
func (c *Conversation) pruneOldMessages() {
	if len(c.Messages) <= MaxMessages {
		return
	}
	excess := len(c.Messages) - MaxMessages
	if len(c.Messages) > 0 && c.Messages[0].Role == RoleSystem {
		kept := make([]*Message, 0, MaxMessages)
		kept = append(kept, c.Messages[0])
		kept = append(kept, c.Messages[1+excess:]...)
		c.Messages = kept
		return
	}
	c.Messages = c.Messages[excess:]
}
