// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/deskchat-tui/internal/model"
)

func newTestStore(t *testing.T) *ConversationStore {
	t.Helper()
	store, err := NewConversationStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewConversationStore: %v", err)
	}
	return store
}

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	conv := model.NewConversation("what is a goroutine", "test-model")
	conv.AddMessage(model.NewUserMessage("what is a goroutine"))
	conv.AddMessage(model.NewMessage(model.RoleAssistant, "a lightweight thread"))

	if err := store.Save(conv); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(conv.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Title != conv.Title {
		t.Errorf("title = %q, want %q", loaded.Title, conv.Title)
	}
	if loaded.Len() != 2 {
		t.Errorf("len = %d, want 2", loaded.Len())
	}
	if loaded.Messages[1].Content != "a lightweight thread" {
		t.Errorf("content = %q", loaded.Messages[1].Content)
	}
}

func TestLoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("conv_nonexistent")
	if !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("err = %v, want ErrConversationNotFound", err)
	}

	var nfe *NotFoundError
	if !errors.As(err, &nfe) || nfe.ID != "conv_nonexistent" {
		t.Errorf("NotFoundError ID = %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := newTestStore(t)

	older := model.NewConversation("older", "m")
	older.UpdatedAt = time.Now().Add(-time.Hour)
	newer := model.NewConversation("newer", "m")
	newer.AddMessage(model.NewUserMessage("what changed since yesterday"))
	newer.UpdatedAt = time.Now()

	if err := store.Save(older); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(newer); err != nil {
		t.Fatal(err)
	}

	list, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Title != "newer" {
		t.Errorf("first entry = %q, want newest", list[0].Title)
	}
	if list[0].Preview != "what changed since yesterday" {
		t.Errorf("preview = %q", list[0].Preview)
	}
	if list[1].Preview != "" {
		t.Errorf("preview of empty conversation = %q", list[1].Preview)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	conv := model.NewConversation("bye", "m")
	if err := store.Save(conv); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(conv.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(conv.ID); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("load after delete: %v", err)
	}
	if err := store.Delete(conv.ID); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("double delete: %v", err)
	}
}

func TestExportMarkdown(t *testing.T) {
	store := newTestStore(t)

	conv := model.NewConversation("hello", "m")
	conv.AddMessage(model.NewUserMessage("hello"))
	conv.AddMessage(model.NewMessage(model.RoleAssistant, "hi"))
	if err := store.Save(conv); err != nil {
		t.Fatal(err)
	}

	md, err := store.ExportMarkdown(conv.ID)
	if err != nil {
		t.Fatalf("ExportMarkdown: %v", err)
	}
	for _, want := range []string{"# hello", "## You", "## Assistant", "hi"} {
		if !strings.Contains(md, want) {
			t.Errorf("export missing %q:\n%s", want, md)
		}
	}
}

func TestNoteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	store := NewNoteStore(path)

	// Missing file is an empty set.
	notes, err := store.Load()
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("len = %d, want 0", len(notes))
	}

	n1 := NewNote("buy milk", 12, 3)
	n2 := NewNote("standup at 10", 40, 8)
	if err := store.Save([]Note{n1, n2}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	notes, err = store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("len = %d, want 2", len(notes))
	}
	if notes[0].Text != "buy milk" || notes[0].X != 12 || notes[0].Y != 3 {
		t.Errorf("note = %+v", notes[0])
	}
	if notes[0].ID == notes[1].ID {
		t.Error("note IDs are not unique")
	}
}

func TestSaveEditorText(t *testing.T) {
	dir := t.TempDir()
	store := NewExportStore(dir)

	ts := time.Date(2025, 3, 4, 9, 30, 0, 0, time.UTC)
	path, err := store.SaveEditorText("scratch contents", ts)
	if err != nil {
		t.Fatalf("SaveEditorText: %v", err)
	}

	name := filepath.Base(path)
	if name != "text-editor-2025-03-04T09-30-00Z.txt" {
		t.Errorf("file name = %q", name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "scratch contents" {
		t.Errorf("content = %q", data)
	}
}
