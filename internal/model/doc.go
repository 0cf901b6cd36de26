// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the core domain types for deskchat conversations.
//
// A Conversation is an ordered list of Messages. Assistant messages are
// created in streaming state and accumulate content chunk by chunk until
// finalized; all other messages are created complete. Conversation titles
// are derived from the first user message.
package model
