// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/deskchat-tui/internal/util"
)

// Note is a persisted sticky note: its text and its last position on
// the workspace.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNote creates a note with a fresh ID.
func NewNote(text string, x, y int) Note {
	return Note{
		ID:        uuid.NewString(),
		Text:      text,
		X:         x,
		Y:         y,
		CreatedAt: time.Now(),
	}
}

// NoteStore persists all sticky notes in a single JSON document.
type NoteStore struct {
	path string
}

// NewNoteStore creates a store backed by the given file path.
func NewNoteStore(path string) *NoteStore {
	return &NoteStore{path: path}
}

// DefaultNotesPath returns ~/.deskchat/notes.json.
func DefaultNotesPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".deskchat", "notes.json"), nil
}

// Load reads all notes. A missing file is an empty set, not an error.
func (s *NoteStore) Load() ([]Note, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}

	var notes []Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("failed to parse notes: %w", err)
	}
	return notes, nil
}

// Save writes the full note set atomically.
func (s *NoteStore) Save(notes []Note) error {
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal notes: %w", err)
	}
	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write notes: %w", err)
	}
	return nil
}
