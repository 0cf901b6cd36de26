// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides file-based persistence for deskchat.
//
// Three stores live under ~/.deskchat by default:
//
//   - ConversationStore: one JSON file per conversation, capped at
//     MaxConversations with oldest-first eviction
//   - NoteStore: all sticky notes in a single JSON document
//   - ExportStore: timestamped plain-text exports from the editor panel
//
// All writes go through util.AtomicWriteFile so a crash never leaves a
// partially written file.
package storage
