// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package search provides a local SQLite FTS5 index over conversation
// messages, so past chats can be found by content without loading every
// conversation file.
package search
