// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI widgets for the deskchat TUI:
// transient toast notifications, syntax-highlighted code blocks, and the
// overlay compositor that layers floating panels onto the viewport.
package components
