// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the application. It detects the
// terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// PANEL CHROME
	// ==========================================================================

	PanelBorder        lipgloss.Style
	PanelBorderFocused lipgloss.Style
	PanelTitle         lipgloss.Style
	StickyBody         lipgloss.Style
	EditorBody         lipgloss.Style

	// ==========================================================================
	// MESSAGES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SystemNotice    lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS
	// ==========================================================================

	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	StatusBar        lipgloss.Style
	Spinner          lipgloss.Style

	// ==========================================================================
	// SIDEBAR
	// ==========================================================================

	SidebarItem         lipgloss.Style
	SidebarItemSelected lipgloss.Style
}

// NewTheme builds the default theme for the detected terminal.
func NewTheme() *Theme {
	profile := termenv.ColorProfile()
	isDark := termenv.HasDarkBackground()

	return &Theme{
		IsDark:       isDark,
		ColorProfile: profile,

		PanelBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(TextMuted),
		PanelBorderFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Purple),
		PanelTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Text).
			Background(SurfaceBright).
			Padding(0, 1),
		StickyBody: lipgloss.NewStyle().
			Foreground(Text).
			Background(AmberBackground()).
			Padding(0, 1),
		EditorBody: lipgloss.NewStyle().
			Foreground(Text),

		UserBubble: lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true),
		AssistantBubble: lipgloss.NewStyle().
			Foreground(Text),
		SystemNotice: lipgloss.NewStyle().
			Foreground(TextMuted).
			Italic(true),

		InputPrompt: lipgloss.NewStyle().
			Foreground(Purple).
			Bold(true),
		InputPlaceholder: lipgloss.NewStyle().
			Foreground(TextMuted),
		StatusBar: lipgloss.NewStyle().
			Foreground(TextMuted).
			Background(SurfaceDim),
		Spinner: lipgloss.NewStyle().
			Foreground(Purple),

		SidebarItem: lipgloss.NewStyle().
			Foreground(TextMuted),
		SidebarItemSelected: lipgloss.NewStyle().
			Foreground(Text).
			Background(SurfaceBright).
			Bold(true),
	}
}

// AmberBackground returns a muted amber suitable as a sticky note
// background on either light or dark terminals.
func AmberBackground() lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: "#FEF3C7", Dark: "#78350F"}
}
