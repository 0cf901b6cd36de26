// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package interaction

import (
	"github.com/jeranaias/deskchat-tui/internal/geometry"
)

// SizeBounds limits a panel's size during a resize.
type SizeBounds struct {
	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int
}

// DragSession tracks an in-flight drag: which panel, and the offset
// from the panel origin to the pointer, captured at press so the panel
// does not jump under the cursor.
type DragSession struct {
	PanelID string
	Offset  geometry.Point
	Size    geometry.Size
}

// ResizeSession tracks an in-flight resize from the bottom-right
// handle: the rect and pointer position at press, plus the size bounds
// of the panel kind.
type ResizeSession struct {
	PanelID      string
	StartRect    geometry.Rect
	StartPointer geometry.Point
	Bounds       SizeBounds
}

// Engine owns pointer interaction state. At most one session (drag or
// resize) is active at a time; starting a new session or releasing the
// pointer clears everything, so no session state survives a release.
type Engine struct {
	drag   *DragSession
	resize *ResizeSession
}

// NewEngine creates an idle engine.
func NewEngine() *Engine {
	return &Engine{}
}

// StartDrag begins dragging the panel under the pointer.
func (e *Engine) StartDrag(panelID string, pointer geometry.Point, rect geometry.Rect) {
	e.Release()
	e.drag = &DragSession{
		PanelID: panelID,
		Offset:  pointer.Sub(rect.Origin()),
		Size:    rect.Size(),
	}
}

// StartResize begins resizing from the panel's bottom-right handle.
func (e *Engine) StartResize(panelID string, pointer geometry.Point, rect geometry.Rect, bounds SizeBounds) {
	e.Release()
	e.resize = &ResizeSession{
		PanelID:      panelID,
		StartRect:    rect,
		StartPointer: pointer,
		Bounds:       bounds,
	}
}

// Release ends any active session. Safe to call when idle.
func (e *Engine) Release() {
	e.drag = nil
	e.resize = nil
}

// Idle reports whether no session is active.
func (e *Engine) Idle() bool {
	return e.drag == nil && e.resize == nil
}

// Dragging reports whether a drag is active.
func (e *Engine) Dragging() bool {
	return e.drag != nil
}

// Resizing reports whether a resize is active.
func (e *Engine) Resizing() bool {
	return e.resize != nil
}

// ActivePanel returns the panel ID owned by the current session, or "".
func (e *Engine) ActivePanel() string {
	if e.drag != nil {
		return e.drag.PanelID
	}
	if e.resize != nil {
		return e.resize.PanelID
	}
	return ""
}

// Move computes the panel rect for a pointer move. Returns the new rect
// and true while a session is active; (zero, false) when idle.
func (e *Engine) Move(pointer geometry.Point, viewport geometry.Size) (geometry.Rect, bool) {
	switch {
	case e.drag != nil:
		return e.moveDrag(pointer, viewport), true
	case e.resize != nil:
		return e.moveResize(pointer, viewport), true
	default:
		return geometry.Rect{}, false
	}
}

// moveDrag repositions the panel so the grab point stays under the
// pointer, clamped to the viewport.
func (e *Engine) moveDrag(pointer geometry.Point, viewport geometry.Size) geometry.Rect {
	origin := pointer.Sub(e.drag.Offset)
	rect := geometry.NewRect(origin, e.drag.Size)
	return geometry.ClampRect(rect, viewport)
}

// moveResize grows the start rect by the pointer delta, clamped to the
// kind bounds and the viewport. Position is re-clamped afterwards so a
// viewport-capped panel never hangs off screen.
func (e *Engine) moveResize(pointer geometry.Point, viewport geometry.Size) geometry.Rect {
	delta := pointer.Sub(e.resize.StartPointer)
	size := geometry.Size{
		Width:  e.resize.StartRect.Width + delta.X,
		Height: e.resize.StartRect.Height + delta.Y,
	}
	b := e.resize.Bounds
	size = geometry.ClampSize(size, b.MinWidth, b.MinHeight, b.MaxWidth, b.MaxHeight, viewport)

	rect := geometry.NewRect(e.resize.StartRect.Origin(), size)
	return geometry.ClampRect(rect, viewport)
}
