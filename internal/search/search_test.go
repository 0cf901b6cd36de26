// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/deskchat-tui/internal/model"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(filepath.Join(t.TempDir(), "search.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestIndexAndSearch(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	now := time.Now()
	if err := idx.IndexMessage("conv1", "m1", model.RoleUser, "how do goroutines work", now.Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := idx.IndexMessage("conv1", "m2", model.RoleAssistant, "goroutines are lightweight threads", now); err != nil {
		t.Fatal(err)
	}
	if err := idx.IndexMessage("conv2", "m3", model.RoleUser, "tell me about channels", now); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search(ctx, "goroutines", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// Newest first.
	if results[0].MessageID != "m2" {
		t.Errorf("first result = %s, want m2", results[0].MessageID)
	}
	if results[0].ConversationID != "conv1" {
		t.Errorf("conversation = %s", results[0].ConversationID)
	}
}

func TestSearchPrefixMatch(t *testing.T) {
	idx := openTestIndex(t)

	if err := idx.IndexMessage("c", "m", model.RoleUser, "discussing serialization formats", time.Now()); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search(context.Background(), "serial", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("prefix search got %d results, want 1", len(results))
	}
}

func TestSearchPunctuationIsSafe(t *testing.T) {
	idx := openTestIndex(t)

	if err := idx.IndexMessage("c", "m", model.RoleUser, "plain text", time.Now()); err != nil {
		t.Fatal(err)
	}

	// FTS5 operators in the raw query must not cause syntax errors.
	if _, err := idx.Search(context.Background(), `AND OR "unbalanced`, 10); err != nil {
		t.Errorf("punctuation query failed: %v", err)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	idx := openTestIndex(t)
	_, err := idx.Search(context.Background(), "   ", 10)
	if !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("err = %v, want ErrEmptyQuery", err)
	}
}

func TestIndexConversationReplaces(t *testing.T) {
	idx := openTestIndex(t)

	conv := model.NewConversation("first question about parsers", "test/model")
	conv.AddMessage(model.NewMessage(model.RoleUser, "first question about parsers"))
	conv.AddMessage(model.NewMessage(model.RoleAssistant, "parsers turn text into trees"))

	if err := idx.IndexConversation(conv); err != nil {
		t.Fatal(err)
	}
	n, err := idx.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}

	// Re-indexing the same conversation must not duplicate entries.
	conv.AddMessage(model.NewMessage(model.RoleUser, "and lexers?"))
	if err := idx.IndexConversation(conv); err != nil {
		t.Fatal(err)
	}
	n, _ = idx.Count()
	if n != 3 {
		t.Errorf("count after reindex = %d, want 3", n)
	}
}

func TestDeleteConversation(t *testing.T) {
	idx := openTestIndex(t)

	idx.IndexMessage("keep", "m1", model.RoleUser, "keep this", time.Now())
	idx.IndexMessage("drop", "m2", model.RoleUser, "drop this", time.Now())

	if err := idx.DeleteConversation("drop"); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search(context.Background(), "drop", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("deleted conversation still searchable: %d hits", len(results))
	}
}

func TestUnicodeNormalization(t *testing.T) {
	idx := openTestIndex(t)

	// Indexed decomposed (e + combining acute), searched composed.
	if err := idx.IndexMessage("c", "m", model.RoleUser, "café recommendations", time.Now()); err != nil {
		t.Fatal(err)
	}
	results, err := idx.Search(context.Background(), "café", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("normalized search got %d results, want 1", len(results))
	}
}

func TestClosedIndexErrors(t *testing.T) {
	idx := openTestIndex(t)
	idx.Close()

	if err := idx.IndexMessage("c", "m", model.RoleUser, "x", time.Now()); !errors.Is(err, ErrClosed) {
		t.Errorf("IndexMessage err = %v, want ErrClosed", err)
	}
	if _, err := idx.Search(context.Background(), "x", 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Search err = %v, want ErrClosed", err)
	}
}
