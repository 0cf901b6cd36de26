// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package workspace is the bubbletea shell: one event loop that routes
// mouse presses to the interaction engine, keystrokes to the focused
// panel, and stream deltas through a token batcher into the render
// pipeline. Panels are composited back-to-front onto the viewport.
package workspace
