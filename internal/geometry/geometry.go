// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package geometry provides the value types and pure functions used for
// panel placement: points, sizes, rectangles, and viewport clamping.
//
// All types use screen-cell coordinates with the origin at the top-left.
package geometry

// Point is a position in cell coordinates.
type Point struct {
	X int
	Y int
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the delta from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a width/height pair.
type Size struct {
	Width  int
	Height int
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// NewRect creates a rectangle from an origin and a size.
func NewRect(origin Point, size Size) Rect {
	return Rect{X: origin.X, Y: origin.Y, Width: size.Width, Height: size.Height}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the width/height of the rectangle.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Center returns the center point (rounded down).
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p falls inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersects reports whether r and other overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.Right() && other.X < r.Right() &&
		r.Y < other.Bottom() && other.Y < r.Bottom()
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Clamp constrains v to the inclusive range [lo, hi].
// If hi < lo the lower bound wins.
func Clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampSize constrains s to the given bounds, then caps it at the
// viewport dimensions. The viewport cap runs last so a minimum larger
// than the screen still yields a panel that fits.
func ClampSize(s Size, minW, minH, maxW, maxH int, viewport Size) Size {
	s.Width = Clamp(s.Width, minW, maxW)
	s.Height = Clamp(s.Height, minH, maxH)
	if viewport.Width > 0 && s.Width > viewport.Width {
		s.Width = viewport.Width
	}
	if viewport.Height > 0 && s.Height > viewport.Height {
		s.Height = viewport.Height
	}
	return s
}

// ClampRect constrains r so it lies entirely inside the viewport.
// Size is capped first, then the origin is pulled back so the far
// edges stay on screen.
func ClampRect(r Rect, viewport Size) Rect {
	if r.Width > viewport.Width {
		r.Width = viewport.Width
	}
	if r.Height > viewport.Height {
		r.Height = viewport.Height
	}
	r.X = Clamp(r.X, 0, viewport.Width-r.Width)
	r.Y = Clamp(r.Y, 0, viewport.Height-r.Height)
	return r
}

// CenteredRect returns a rectangle of the given size centered in the
// viewport.
func CenteredRect(size Size, viewport Size) Rect {
	return Rect{
		X:      (viewport.Width - size.Width) / 2,
		Y:      (viewport.Height - size.Height) / 2,
		Width:  size.Width,
		Height: size.Height,
	}
}
