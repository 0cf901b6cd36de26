// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package interaction implements the pointer-driven drag and resize
// engine for floating panels.
//
// The engine is deliberately stateless about panels themselves: it
// receives the pressed panel's rect and bounds when a session starts
// and emits clamped rects on each pointer move. The workspace owns the
// panels and applies the rects. One invariant matters most here: after
// a pointer release no session state remains, so a stray motion event
// can never move a panel.
package interaction
