// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package panel

import (
	"math/rand"
	"testing"

	"github.com/jeranaias/deskchat-tui/internal/geometry"
)

// A viewport comfortably larger than the exclusion zone so placement
// has free space to find.
var placementViewport = geometry.Size{Width: 1200, Height: 800}

func TestHitTestTopmostWins(t *testing.T) {
	m := NewManager(placementViewport)

	bottom := NewPanel(KindMain, "main", geometry.Rect{X: 10, Y: 10, Width: 100, Height: 100})
	top := NewPanel(KindSticky, "note", geometry.Rect{X: 50, Y: 50, Width: 100, Height: 100})
	m.Add(bottom)
	m.Add(top)

	// Overlap region belongs to the topmost panel.
	if got := m.HitTest(geometry.Point{X: 60, Y: 60}); got == nil || got.ID != top.ID {
		t.Error("hit test did not return topmost panel")
	}
	// Region covered only by the bottom panel.
	if got := m.HitTest(geometry.Point{X: 20, Y: 20}); got == nil || got.ID != bottom.ID {
		t.Error("hit test missed bottom panel")
	}
	// Empty space.
	if got := m.HitTest(geometry.Point{X: 500, Y: 700}); got != nil {
		t.Errorf("hit test in empty space returned %v", got.ID)
	}
}

func TestRaise(t *testing.T) {
	m := NewManager(placementViewport)
	a := NewPanel(KindSticky, "a", geometry.Rect{X: 0, Y: 0, Width: 50, Height: 50})
	b := NewPanel(KindSticky, "b", geometry.Rect{X: 0, Y: 0, Width: 50, Height: 50})
	m.Add(a)
	m.Add(b)

	m.Raise(a.ID)
	if m.Topmost().ID != a.ID {
		t.Error("Raise did not move panel to top")
	}
	if len(m.Panels()) != 2 {
		t.Errorf("panel count = %d after raise", len(m.Panels()))
	}
}

func TestRemove(t *testing.T) {
	m := NewManager(placementViewport)
	p := NewPanel(KindSticky, "x", geometry.Rect{X: 0, Y: 0, Width: 50, Height: 50})
	m.Add(p)

	if !m.Remove(p.ID) {
		t.Error("Remove returned false for existing panel")
	}
	if m.Remove(p.ID) {
		t.Error("Remove returned true for missing panel")
	}
	if m.Get(p.ID) != nil {
		t.Error("panel still present after removal")
	}
}

func TestSetViewportReclampsPanels(t *testing.T) {
	m := NewManager(placementViewport)
	p := NewPanel(KindSticky, "x", geometry.Rect{X: 1000, Y: 700, Width: 100, Height: 80})
	m.Add(p)

	m.SetViewport(geometry.Size{Width: 400, Height: 300})
	if p.Rect.Right() > 400 || p.Rect.Bottom() > 300 {
		t.Errorf("panel not re-clamped after viewport shrink: %v", p.Rect)
	}
}

func TestPlaceStickyAvoidsCenter(t *testing.T) {
	m := NewManager(placementViewport)
	m.SetRandSource(rand.NewSource(1))

	avoid := geometry.CenteredRect(
		geometry.Size{Width: centerAvoidWidth, Height: centerAvoidHeight},
		placementViewport,
	)

	hits := 0
	for i := 0; i < 50; i++ {
		rect := m.PlaceSticky()
		if rect.Width != StickyWidth || rect.Height != StickyHeight {
			t.Fatalf("sticky size = %dx%d", rect.Width, rect.Height)
		}
		if rect.Intersects(avoid) {
			hits++
		}
		if rect.X < 0 || rect.Y < 0 ||
			rect.Right() > placementViewport.Width ||
			rect.Bottom() > placementViewport.Height {
			t.Fatalf("sticky placed off screen: %v", rect)
		}
	}
	// With ample free space nearly every placement avoids the center.
	if hits > 5 {
		t.Errorf("%d of 50 placements landed on the exclusion zone", hits)
	}
}

func TestPlaceStickyTerminatesWhenNoFreeSpace(t *testing.T) {
	// Viewport barely larger than a sticky: every candidate overlaps
	// the centered exclusion zone, so sampling must give up after the
	// attempt cap and still return a usable rect.
	tight := geometry.Size{Width: StickyWidth + 10, Height: StickyHeight + 10}
	m := NewManager(tight)
	m.SetRandSource(rand.NewSource(7))

	rect := m.PlaceSticky()
	if rect.Width != StickyWidth || rect.Height != StickyHeight {
		t.Errorf("sticky size = %dx%d", rect.Width, rect.Height)
	}
	if rect.X < 0 || rect.Y < 0 || rect.Right() > tight.Width || rect.Bottom() > tight.Height {
		t.Errorf("sticky off screen: %v", rect)
	}
}

func TestDefaultEditorRect(t *testing.T) {
	rect := DefaultEditorRect(placementViewport)
	if rect.Width != EditorDefaultWidth || rect.Height != EditorDefaultHeight {
		t.Errorf("editor size = %dx%d", rect.Width, rect.Height)
	}
	// Anchored toward the right edge.
	if rect.Right() < placementViewport.Width-placementPadding-1 {
		t.Errorf("editor not at right edge: %v", rect)
	}
}

func TestPanelBoundsByKind(t *testing.T) {
	main := NewPanel(KindMain, "m", geometry.Rect{})
	if b, ok := main.Bounds(); !ok || b.MinWidth != 250 {
		t.Errorf("main bounds = %+v ok=%v", b, ok)
	}
	editor := NewPanel(KindEditor, "e", geometry.Rect{})
	if b, ok := editor.Bounds(); !ok || b.MinWidth != 300 || b.MinHeight != 200 {
		t.Errorf("editor bounds = %+v ok=%v", b, ok)
	}
	sticky := NewPanel(KindSticky, "s", geometry.Rect{})
	if _, ok := sticky.Bounds(); ok {
		t.Error("stickies should not be resizable")
	}
}
