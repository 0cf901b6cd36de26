// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/deskchat-tui/internal/model"
	"github.com/jeranaias/deskchat-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// MaxConversations caps the number of stored conversations. Saving
	// past the cap evicts the oldest.
	MaxConversations = 100

	conversationExt = ".json"
)

// ErrConversationNotFound is returned when a conversation ID has no file.
var ErrConversationNotFound = errors.New("conversation not found")

// NotFoundError carries the missing conversation ID.
type NotFoundError struct {
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("conversation not found: %s", e.ID)
}

// Is allows matching against ErrConversationNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrConversationNotFound
}

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// ConversationStore persists conversations as one JSON file per
// conversation under a base directory.
type ConversationStore struct {
	baseDir string
}

// NewConversationStore creates a store rooted at dir, creating it if
// needed.
func NewConversationStore(dir string) (*ConversationStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &ConversationStore{baseDir: dir}, nil
}

// DefaultDir returns the default conversation directory
// (~/.deskchat/conversations).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".deskchat", "conversations"), nil
}

// path returns the file path for a conversation ID.
func (s *ConversationStore) path(id string) string {
	return filepath.Join(s.baseDir, id+conversationExt)
}

// Save writes a conversation atomically and evicts the oldest stored
// conversations past MaxConversations.
func (s *ConversationStore) Save(conv *model.Conversation) error {
	if conv == nil || conv.ID == "" {
		return errors.New("cannot save conversation without an ID")
	}

	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	if err := util.AtomicWriteFile(s.path(conv.ID), data, 0600); err != nil {
		return fmt.Errorf("failed to write conversation: %w", err)
	}

	return s.evictOldest()
}

// Load reads a conversation by ID.
func (s *ConversationStore) Load(id string) (*model.Conversation, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to read conversation: %w", err)
	}

	var conv model.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("failed to parse conversation %s: %w", id, err)
	}
	return &conv, nil
}

// summaryPreviewRunes caps the first-message preview in listings.
const summaryPreviewRunes = 60

// Summary is a lightweight listing entry for the sidebar.
type Summary struct {
	ID        string
	Title     string
	Preview   string
	Model     string
	Messages  int
	UpdatedAt time.Time
}

// List returns summaries of all stored conversations, newest first.
func (s *ConversationStore) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), conversationExt) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), conversationExt)
		conv, err := s.Load(id)
		if err != nil {
			// Skip unreadable files instead of failing the listing.
			continue
		}
		summaries = append(summaries, Summary{
			ID:        conv.ID,
			Title:     conv.Title,
			Preview:   conv.Preview(summaryPreviewRunes),
			Model:     conv.Model,
			Messages:  conv.Len(),
			UpdatedAt: conv.UpdatedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

// Delete removes a conversation by ID.
func (s *ConversationStore) Delete(id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{ID: id}
		}
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// Clear removes all stored conversations.
func (s *ConversationStore) Clear() error {
	summaries, err := s.List()
	if err != nil {
		return err
	}
	for _, sum := range summaries {
		if err := s.Delete(sum.ID); err != nil {
			return err
		}
	}
	return nil
}

// ExportMarkdown renders a conversation as a markdown transcript.
func (s *ConversationStore) ExportMarkdown(id string) (string, error) {
	conv, err := s.Load(id)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", conv.Title)
	fmt.Fprintf(&b, "Model: %s  \n", conv.Model)
	fmt.Fprintf(&b, "Created: %s\n\n", conv.CreatedAt.Format(time.RFC3339))

	for _, msg := range conv.Messages {
		switch msg.Role {
		case model.RoleUser:
			b.WriteString("## You\n\n")
		case model.RoleAssistant:
			b.WriteString("## Assistant\n\n")
		default:
			b.WriteString("## System\n\n")
		}
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

// evictOldest removes the oldest conversations beyond MaxConversations.
func (s *ConversationStore) evictOldest() error {
	summaries, err := s.List()
	if err != nil {
		return err
	}
	for i := MaxConversations; i < len(summaries); i++ {
		if err := s.Delete(summaries[i].ID); err != nil && !errors.Is(err, ErrConversationNotFound) {
			return err
		}
	}
	return nil
}
