// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package panel

import (
	"github.com/google/uuid"

	"github.com/jeranaias/deskchat-tui/internal/geometry"
	"github.com/jeranaias/deskchat-tui/internal/ui/interaction"
)

// Kind identifies the panel type, which determines its size bounds and
// chrome.
type Kind int

const (
	KindMain Kind = iota
	KindSticky
	KindEditor
)

// Size bounds per panel kind.
var (
	// MainBounds applies to the main chat window.
	MainBounds = interaction.SizeBounds{MinWidth: 250, MinHeight: 300, MaxWidth: 800, MaxHeight: 600}

	// EditorBounds applies to the text editor panel.
	EditorBounds = interaction.SizeBounds{MinWidth: 300, MinHeight: 200, MaxWidth: 800, MaxHeight: 600}
)

// Sticky note and placement constants.
const (
	StickyWidth  = 200
	StickyHeight = 150

	// EditorDefaultWidth/Height are the editor panel's initial size.
	EditorDefaultWidth  = 400
	EditorDefaultHeight = 500

	// placementPadding keeps placed panels away from the viewport edge.
	placementPadding = 20

	// centerAvoidWidth/Height define the exclusion zone over the main
	// window's usual position.
	centerAvoidWidth  = 350
	centerAvoidHeight = 450

	// maxPlacementAttempts bounds rejection sampling; the final
	// candidate is accepted regardless.
	maxPlacementAttempts = 10
)

// Panel is one floating window on the workspace.
type Panel struct {
	ID    string
	Kind  Kind
	Title string
	Rect  geometry.Rect

	// Content is the panel body: the note text for stickies, the
	// buffer for the editor. The main panel renders the conversation
	// and leaves this empty.
	Content string
}

// NewPanel creates a panel with a fresh ID.
func NewPanel(kind Kind, title string, rect geometry.Rect) *Panel {
	return &Panel{
		ID:    uuid.NewString(),
		Kind:  kind,
		Title: title,
		Rect:  rect,
	}
}

// Bounds returns the resize bounds for the panel's kind. Stickies have
// a fixed size and cannot be resized.
func (p *Panel) Bounds() (interaction.SizeBounds, bool) {
	switch p.Kind {
	case KindMain:
		return MainBounds, true
	case KindEditor:
		return EditorBounds, true
	default:
		return interaction.SizeBounds{}, false
	}
}

// ResizeHandle returns the cell acting as the bottom-right resize
// handle.
func (p *Panel) ResizeHandle() geometry.Point {
	return geometry.Point{X: p.Rect.Right() - 1, Y: p.Rect.Bottom() - 1}
}
