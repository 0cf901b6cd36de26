// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/deskchat-tui/internal/util"
)

// ExportStore writes text editor exports into a directory.
type ExportStore struct {
	dir string
}

// NewExportStore creates a store rooted at dir.
func NewExportStore(dir string) *ExportStore {
	return &ExportStore{dir: dir}
}

// DefaultExportDir returns ~/.deskchat/exports.
func DefaultExportDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".deskchat", "exports"), nil
}

// SaveEditorText writes the editor buffer to a timestamped file named
// "text-editor-<timestamp>.txt" (colons replaced by hyphens) and returns
// the full path.
func (s *ExportStore) SaveEditorText(content string, now time.Time) (string, error) {
	name := util.TimestampName("text-editor", now, "txt")
	path := filepath.Join(s.dir, name)
	if err := util.AtomicWriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to export editor text: %w", err)
	}
	return path, nil
}
