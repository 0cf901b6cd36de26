// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package panel manages the floating windows on the deskchat workspace:
// the main chat window, sticky notes, and the scratch text editor.
//
// The Manager keeps panels back-to-front and answers hit tests topmost
// first. New sticky notes are placed by rejection sampling so they land
// in free space around the main window rather than on top of it.
package panel
