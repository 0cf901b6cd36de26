// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session drives the conversation lifecycle: lazy creation on
// the first send, the send -> stream -> persist pipeline with a
// non-streaming fallback, model switching, and loading or deleting
// stored conversations.
package session
