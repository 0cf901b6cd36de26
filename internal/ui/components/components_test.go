// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func TestToastDurations(t *testing.T) {
	tests := []struct {
		kind ToastKind
		want time.Duration
	}{
		{ToastStatus, 4 * time.Second},
		{ToastError, 8 * time.Second},
		{ToastWarning, 6 * time.Second},
		{ToastSuccess, 4 * time.Second},
	}
	for _, tt := range tests {
		if got := durationFor(tt.kind); got != tt.want {
			t.Errorf("durationFor(%d) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestToastManagerCapAndExpiry(t *testing.T) {
	m := NewToastManager()
	for i := 0; i < maxToasts+3; i++ {
		m.Push(ToastStatus, "message")
	}
	if got := len(m.Active()); got != maxToasts {
		t.Errorf("active = %d, want %d", got, maxToasts)
	}

	// Everything expires well past the longest duration.
	if m.Tick(time.Now().Add(time.Minute)) {
		t.Error("Tick reported remaining toasts after expiry")
	}
	if len(m.Active()) != 0 {
		t.Error("expired toasts still active")
	}
}

func TestToastManagerTickKeepsFresh(t *testing.T) {
	m := NewToastManager()
	m.Push(ToastError, "bad")
	if !m.Tick(time.Now()) {
		t.Error("fresh toast was swept")
	}
}

func TestRenderToastStackEmpty(t *testing.T) {
	m := NewToastManager()
	if got := m.RenderToastStack(80, 24); got != "" {
		t.Errorf("empty stack rendered %q", got)
	}
}

func TestCodeBlockRenderFallsBack(t *testing.T) {
	cb := CodeBlock{Language: "definitely-not-a-language", Code: "plain text content"}
	out := cb.Render()
	if !strings.Contains(out, "plain text content") {
		t.Errorf("render lost code content: %q", out)
	}
	if !strings.Contains(out, "definitely-not-a-language") {
		t.Errorf("render missing language badge: %q", out)
	}
	if !strings.Contains(out, "^Y copy") {
		t.Errorf("render missing copy hint: %q", out)
	}
}

func TestCodeBlockRenderGo(t *testing.T) {
	cb := CodeBlock{Language: "go", Code: "func main() {}\n"}
	out := cb.Render()
	if !strings.Contains(out, "main") {
		t.Errorf("render lost code: %q", out)
	}
}

func TestPlaceOverlay(t *testing.T) {
	bg := strings.Join([]string{
		"..........",
		"..........",
		"..........",
	}, "\n")
	fg := "XX\nXX"

	out := PlaceOverlay(3, 1, fg, bg)
	lines := strings.Split(out, "\n")
	if lines[0] != ".........." {
		t.Errorf("row 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "...XX") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if got := lipgloss.Width(lines[1]); got != 10 {
		t.Errorf("row 1 width = %d, want 10", got)
	}
	if !strings.Contains(lines[2], "XX") {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestPlaceOverlayOutOfBounds(t *testing.T) {
	bg := "....\n...."
	// Rows outside the background are ignored.
	out := PlaceOverlay(0, 5, "XX", bg)
	if out != bg {
		t.Errorf("out-of-bounds overlay changed background: %q", out)
	}
}

func TestPlaceOverlayPadsShortLines(t *testing.T) {
	bg := ".\n."
	out := PlaceOverlay(4, 0, "X", bg)
	lines := strings.Split(out, "\n")
	if lines[0] != ".   X" {
		t.Errorf("row 0 = %q", lines[0])
	}
}
