// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package geometry

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		name       string
		v, lo, hi  int
		want       int
	}{
		{"in range", 5, 0, 10, 5},
		{"below", -3, 0, 10, 0},
		{"above", 42, 0, 10, 10},
		{"at lower bound", 0, 0, 10, 0},
		{"at upper bound", 10, 0, 10, 10},
		{"inverted bounds collapse to lo", 5, 10, 2, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
				t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 5, Width: 20, Height: 10}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Point{20, 10}, true},
		{"top-left corner", Point{10, 5}, true},
		{"right edge exclusive", Point{30, 10}, false},
		{"bottom edge exclusive", Point{20, 15}, false},
		{"outside left", Point{9, 10}, false},
		{"outside above", Point{20, 4}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	base := Rect{X: 10, Y: 10, Width: 10, Height: 10}

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlapping", Rect{15, 15, 10, 10}, true},
		{"contained", Rect{12, 12, 4, 4}, true},
		{"touching edges do not overlap", Rect{20, 10, 5, 5}, false},
		{"disjoint", Rect{40, 40, 5, 5}, false},
		{"same rect", base, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects(%v) = %v, want %v", tt.other, got, tt.want)
			}
			// Intersection is symmetric.
			if got := tt.other.Intersects(base); got != tt.want {
				t.Errorf("reverse Intersects(%v) = %v, want %v", tt.other, got, tt.want)
			}
		})
	}
}

func TestClampRect(t *testing.T) {
	viewport := Size{Width: 100, Height: 40}

	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"inside unchanged", Rect{10, 10, 30, 20}, Rect{10, 10, 30, 20}},
		{"past right edge pulled back", Rect{90, 10, 30, 20}, Rect{70, 10, 30, 20}},
		{"past bottom pulled back", Rect{10, 35, 30, 20}, Rect{10, 20, 30, 20}},
		{"negative origin", Rect{-5, -5, 30, 20}, Rect{0, 0, 30, 20}},
		{"oversized shrinks to viewport", Rect{0, 0, 200, 80}, Rect{0, 0, 100, 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampRect(tt.in, viewport)
			if got != tt.want {
				t.Errorf("ClampRect(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClampSize(t *testing.T) {
	viewport := Size{Width: 80, Height: 24}

	// Below the minimum clamps at the floor, then the viewport cap
	// shrinks it to what fits on screen.
	got := ClampSize(Size{100, 100}, 250, 300, 800, 600, viewport)
	if got.Width != 80 || got.Height != 24 {
		t.Errorf("ClampSize = %v, want viewport-capped 80x24", got)
	}

	// Large viewport: bounds apply directly.
	big := Size{Width: 2000, Height: 1000}
	got = ClampSize(Size{100, 100}, 250, 300, 800, 600, big)
	if got.Width != 250 || got.Height != 300 {
		t.Errorf("ClampSize = %v, want floor 250x300", got)
	}
	got = ClampSize(Size{5000, 5000}, 250, 300, 800, 600, big)
	if got.Width != 800 || got.Height != 600 {
		t.Errorf("ClampSize = %v, want ceiling 800x600", got)
	}
}

func TestCenteredRect(t *testing.T) {
	r := CenteredRect(Size{20, 10}, Size{100, 40})
	if r.X != 40 || r.Y != 15 {
		t.Errorf("CenteredRect origin = (%d, %d), want (40, 15)", r.X, r.Y)
	}
	if c := r.Center(); c.X != 50 || c.Y != 20 {
		t.Errorf("Center = %v, want (50, 20)", c)
	}
}
