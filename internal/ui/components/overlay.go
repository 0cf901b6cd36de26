// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// =============================================================================
// OVERLAY COMPOSITOR
// =============================================================================

// PlaceOverlay draws fg on top of bg with fg's top-left corner at
// (x, y), both measured in cells. Background content outside the
// overlay's footprint is preserved; styled cells under the overlay are
// replaced line by line.
//
// PERFORMANCE: Compositing walks each affected line once.
func PlaceOverlay(x, y int, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for i, fgLine := range fgLines {
		row := y + i
		if row < 0 || row >= len(bgLines) {
			continue
		}
		bgLines[row] = overlayLine(x, fgLine, bgLines[row])
	}
	return strings.Join(bgLines, "\n")
}

// overlayLine splices fg into bg starting at cell x.
func overlayLine(x int, fg, bg string) string {
	fgWidth := lipgloss.Width(fg)
	if fgWidth == 0 {
		return bg
	}
	if x < 0 {
		x = 0
	}

	left := truncateCells(bg, x)
	// Pad when the background line is shorter than the overlay origin.
	if pad := x - lipgloss.Width(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}
	right := skipCells(bg, x+fgWidth)

	return left + fg + right
}

// ClipCells returns the prefix of s occupying at most width cells,
// keeping ANSI escape sequences intact. Unlike util.TruncateWidth this
// is safe for styled text and adds no ellipsis.
func ClipCells(s string, width int) string {
	return truncateCells(s, width)
}

// truncateCells returns the prefix of s occupying at most width cells,
// keeping ANSI escape sequences intact.
func truncateCells(s string, width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	cells := 0
	inEscape := false

	for _, r := range s {
		if inEscape {
			b.WriteRune(r)
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		if r == '\x1b' {
			inEscape = true
			b.WriteRune(r)
			continue
		}
		w := runewidth.RuneWidth(r)
		if cells+w > width {
			break
		}
		cells += w
		b.WriteRune(r)
	}
	return b.String()
}

// skipCells returns the suffix of s after dropping the first width
// cells. Escape sequences inside the skipped region are re-emitted so
// the remaining text keeps its styling; a reset is prepended to stop
// any style bleeding from the removed cells.
func skipCells(s string, width int) string {
	if width <= 0 {
		return s
	}
	cells := 0
	inEscape := false

	for i, r := range s {
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		if r == '\x1b' {
			inEscape = true
			continue
		}
		w := runewidth.RuneWidth(r)
		if cells+w > width {
			return "\x1b[0m" + s[i:]
		}
		cells += w
		if cells == width {
			rest := s[i+len(string(r)):]
			if rest == "" {
				return ""
			}
			return "\x1b[0m" + rest
		}
	}
	return ""
}
