// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/deskchat-tui/internal/model"
)

// =============================================================================
// SCHEMA
// =============================================================================

// schema uses an FTS5 virtual table so queries get tokenized matching
// and snippet extraction for free.
const schema = `
CREATE VIRTUAL TABLE IF NOT EXISTS messages USING fts5(
	content,
	conversation_id UNINDEXED,
	message_id UNINDEXED,
	role UNINDEXED,
	created_at UNINDEXED
);
`

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyQuery indicates a search with no usable terms.
	ErrEmptyQuery = errors.New("empty search query")
	// ErrClosed indicates the index has been closed.
	ErrClosed = errors.New("search index closed")
)

// =============================================================================
// INDEX
// =============================================================================

// Result is one search hit, newest first.
type Result struct {
	ConversationID string
	MessageID      string
	Role           string
	// Snippet is the matching fragment with match markers stripped.
	Snippet   string
	CreatedAt time.Time
}

// Index is a local full-text index over conversation messages.
type Index struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

// DefaultPath returns the default index location (~/.deskchat/search.db).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".deskchat", "search.db"), nil
}

// Open opens (creating if needed) the search index at the given path.
func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open search index: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Index{db: db}, nil
}

// Close releases the underlying database.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return nil
	}
	idx.closed = true
	return idx.db.Close()
}

// =============================================================================
// INDEXING
// =============================================================================

// IndexMessage adds one message to the index.
func (idx *Index) IndexMessage(convID, msgID string, role model.Role, content string, createdAt time.Time) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return ErrClosed
	}

	// UNICODE: NFC normalization so composed and decomposed forms match.
	content = norm.NFC.String(content)

	_, err := idx.db.Exec(
		`INSERT INTO messages (content, conversation_id, message_id, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		content, convID, msgID, string(role), createdAt.UTC().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to index message: %w", err)
	}
	return nil
}

// IndexConversation replaces a conversation's entries with its current
// messages. Streaming placeholders with no content are skipped.
func (idx *Index) IndexConversation(conv *model.Conversation) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return ErrClosed
	}

	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, conv.ID); err != nil {
		return fmt.Errorf("failed to clear conversation: %w", err)
	}

	for _, msg := range conv.Messages {
		text := msg.Text()
		if text == "" {
			continue
		}
		_, err := tx.Exec(
			`INSERT INTO messages (content, conversation_id, message_id, role, created_at) VALUES (?, ?, ?, ?, ?)`,
			norm.NFC.String(text), conv.ID, msg.ID, string(msg.Role), msg.Timestamp.UTC().Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to index message: %w", err)
		}
	}

	return tx.Commit()
}

// DeleteConversation removes a conversation's messages from the index.
func (idx *Index) DeleteConversation(convID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return ErrClosed
	}
	_, err := idx.db.Exec(`DELETE FROM messages WHERE conversation_id = ?`, convID)
	return err
}

// Clear drops all indexed messages.
func (idx *Index) Clear() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return ErrClosed
	}
	_, err := idx.db.Exec(`DELETE FROM messages`)
	return err
}

// Count returns the number of indexed messages.
func (idx *Index) Count() (int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return 0, ErrClosed
	}
	var n int
	err := idx.db.QueryRow(`SELECT count(*) FROM messages`).Scan(&n)
	return n, err
}

// =============================================================================
// SEARCH
// =============================================================================

// Search runs a full-text query and returns up to limit hits, newest
// first. Query terms are matched as prefixes of words.
func (idx *Index) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return nil, ErrClosed
	}

	ftsQuery := buildFTSQuery(query)
	if ftsQuery == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := idx.db.QueryContext(ctx, `
		SELECT conversation_id, message_id, role, created_at,
		       snippet(messages, 0, '', '', '...', 12)
		FROM messages
		WHERE messages MATCH ?
		ORDER BY created_at DESC
		LIMIT ?`,
		ftsQuery, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var createdAt int64
		if err := rows.Scan(&r.ConversationID, &r.MessageID, &r.Role, &createdAt, &r.Snippet); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(createdAt, 0).UTC()
		results = append(results, r)
	}
	return results, rows.Err()
}

// buildFTSQuery converts free text into a safe FTS5 expression: each
// term quoted (so punctuation cannot inject FTS syntax) with a prefix
// wildcard.
func buildFTSQuery(query string) string {
	fields := strings.Fields(norm.NFC.String(query))
	if len(fields) == 0 {
		return ""
	}

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, "")
		if f == "" {
			continue
		}
		terms = append(terms, `"`+f+`"*`)
	}
	return strings.Join(terms, " ")
}
