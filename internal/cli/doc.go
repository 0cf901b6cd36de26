// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli is plain mode: a line-oriented REPL for terminals where
// mouse support is unavailable or unwanted. Input history comes from
// liner, final responses are rendered with glamour.
package cli
