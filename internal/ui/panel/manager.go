// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package panel

import (
	"math/rand"

	"github.com/jeranaias/deskchat-tui/internal/geometry"
)

// Manager owns the ordered panel set. Panels are kept back-to-front:
// the last panel in the slice is topmost.
type Manager struct {
	panels   []*Panel
	viewport geometry.Size
	rng      *rand.Rand
}

// NewManager creates a manager for the given viewport.
func NewManager(viewport geometry.Size) *Manager {
	return &Manager{
		viewport: viewport,
		rng:      rand.New(rand.NewSource(rand.Int63())),
	}
}

// SetRandSource replaces the placement RNG (tests).
func (m *Manager) SetRandSource(src rand.Source) {
	m.rng = rand.New(src)
}

// Viewport returns the current viewport size.
func (m *Manager) Viewport() geometry.Size {
	return m.viewport
}

// SetViewport updates the viewport and re-clamps every panel so none
// is stranded off screen after a terminal resize.
func (m *Manager) SetViewport(viewport geometry.Size) {
	m.viewport = viewport
	for _, p := range m.panels {
		p.Rect = geometry.ClampRect(p.Rect, viewport)
	}
}

// Add appends a panel on top of the stack.
func (m *Manager) Add(p *Panel) {
	m.panels = append(m.panels, p)
}

// Remove deletes a panel by ID and reports whether it existed.
func (m *Manager) Remove(id string) bool {
	for i, p := range m.panels {
		if p.ID == id {
			m.panels = append(m.panels[:i], m.panels[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns a panel by ID, or nil.
func (m *Manager) Get(id string) *Panel {
	for _, p := range m.panels {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Panels returns the panels back-to-front. Callers must not reorder the
// slice.
func (m *Manager) Panels() []*Panel {
	return m.panels
}

// ByKind returns all panels of the given kind, back-to-front.
func (m *Manager) ByKind(kind Kind) []*Panel {
	var out []*Panel
	for _, p := range m.panels {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// HitTest returns the topmost panel containing the point, or nil.
func (m *Manager) HitTest(pt geometry.Point) *Panel {
	for i := len(m.panels) - 1; i >= 0; i-- {
		if m.panels[i].Rect.Contains(pt) {
			return m.panels[i]
		}
	}
	return nil
}

// Raise moves the panel to the top of the stack.
func (m *Manager) Raise(id string) {
	for i, p := range m.panels {
		if p.ID == id {
			m.panels = append(m.panels[:i], m.panels[i+1:]...)
			m.panels = append(m.panels, p)
			return
		}
	}
}

// Topmost returns the top panel, or nil when the workspace is empty.
func (m *Manager) Topmost() *Panel {
	if len(m.panels) == 0 {
		return nil
	}
	return m.panels[len(m.panels)-1]
}

// =============================================================================
// STICKY PLACEMENT
// =============================================================================

// PlaceSticky picks a position for a new sticky note by rejection
// sampling: candidates are uniform over the padded viewport and
// rejected while they overlap the centered exclusion zone where the
// main window sits. After maxPlacementAttempts failures the last
// candidate is accepted anyway, so placement always terminates.
func (m *Manager) PlaceSticky() geometry.Rect {
	size := geometry.Size{Width: StickyWidth, Height: StickyHeight}
	avoid := geometry.CenteredRect(
		geometry.Size{Width: centerAvoidWidth, Height: centerAvoidHeight},
		m.viewport,
	)

	var candidate geometry.Rect
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		candidate = m.randomRect(size)
		if !candidate.Intersects(avoid) {
			return candidate
		}
	}
	return candidate
}

// randomRect returns a rect of the given size placed uniformly inside
// the padded viewport. When the viewport is too small for padding the
// rect is clamped instead.
func (m *Manager) randomRect(size geometry.Size) geometry.Rect {
	maxX := m.viewport.Width - size.Width - placementPadding
	maxY := m.viewport.Height - size.Height - placementPadding

	var x, y int
	if maxX > placementPadding {
		x = placementPadding + m.rng.Intn(maxX-placementPadding+1)
	}
	if maxY > placementPadding {
		y = placementPadding + m.rng.Intn(maxY-placementPadding+1)
	}
	return geometry.ClampRect(geometry.NewRect(geometry.Point{X: x, Y: y}, size), m.viewport)
}

// =============================================================================
// DEFAULT LAYOUT
// =============================================================================

// DefaultMainRect centers the main chat window.
func DefaultMainRect(viewport geometry.Size) geometry.Rect {
	size := geometry.Size{Width: 500, Height: 500}
	return geometry.ClampRect(geometry.CenteredRect(size, viewport), viewport)
}

// DefaultEditorRect places the editor toward the right edge.
func DefaultEditorRect(viewport geometry.Size) geometry.Rect {
	rect := geometry.Rect{
		X:      viewport.Width - EditorDefaultWidth - placementPadding,
		Y:      placementPadding,
		Width:  EditorDefaultWidth,
		Height: EditorDefaultHeight,
	}
	return geometry.ClampRect(rect, viewport)
}
