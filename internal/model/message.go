// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single turn in a conversation.
//
// While an assistant message is streaming, content accumulates in the
// builder; Finalize moves it into Content. A message is either streaming
// or finalized, never both.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Streaming state, not persisted.
	builder   strings.Builder
	Streaming bool `json:"-"`
}

// NewMessage creates a finalized message with the given role and content.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID("msg"),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// NewStreamingMessage creates an empty assistant message in streaming
// state. Content arrives via AppendContent.
func NewStreamingMessage() *Message {
	return &Message{
		ID:        generateID("msg"),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
		Streaming: true,
	}
}

// AppendContent appends a streamed chunk. No-op once finalized.
func (m *Message) AppendContent(chunk string) {
	if !m.Streaming {
		return
	}
	m.builder.WriteString(chunk)
}

// Finalize ends streaming and fixes the content.
func (m *Message) Finalize() {
	if !m.Streaming {
		return
	}
	m.Content = m.builder.String()
	m.builder.Reset()
	m.Streaming = false
}

// Text returns the message content, including any partial streamed
// content for a message still in flight.
func (m *Message) Text() string {
	if m.Streaming {
		return m.builder.String()
	}
	return m.Content
}

// PERFORMANCE: crypto/rand IDs avoid a counter shared across goroutines.
func generateID(prefix string) string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// Fall back to a time-derived ID; collisions are acceptable here.
		return prefix + "_" + hex.EncodeToString([]byte(time.Now().Format("150405.000000")))
	}
	return prefix + "_" + hex.EncodeToString(b)
}
