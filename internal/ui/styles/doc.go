// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles centralizes colors and lipgloss styles for the
// deskchat TUI. Colors are adaptive (light/dark) and the Theme detects
// the terminal profile via termenv.
package styles
