// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Inline patterns for the markdown subset. Bold runs before italic so a
// lone "*x*" never steals half of a "**x**"; the italic pattern excludes
// asterisks and newlines so list markers are left alone.
var (
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*([^*\n]+)\*`)
	codeRe   = regexp.MustCompile("`([^`\n]+)`")
	linkRe   = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// MarkdownStyles holds the lipgloss styles applied by FormatMarkdown.
type MarkdownStyles struct {
	H1         lipgloss.Style
	H2         lipgloss.Style
	H3         lipgloss.Style
	Bold       lipgloss.Style
	Italic     lipgloss.Style
	InlineCode lipgloss.Style
	Link       lipgloss.Style
	ListBullet lipgloss.Style
}

// DefaultMarkdownStyles returns the styles used by the chat panel.
func DefaultMarkdownStyles() MarkdownStyles {
	return MarkdownStyles{
		H1:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		H2:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		H3:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("211")),
		Bold:       lipgloss.NewStyle().Bold(true),
		Italic:     lipgloss.NewStyle().Italic(true),
		InlineCode: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Background(lipgloss.Color("236")),
		Link:       lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
		ListBullet: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// FormatMarkdown renders the supported markdown subset as styled
// terminal text. Transformations run in a fixed order: headers, bold,
// italic, inline code, links, list items.
func FormatMarkdown(text string, styles MarkdownStyles) string {
	lines := strings.Split(text, "\n")
	out := make([]string, len(lines))

	for i, line := range lines {
		out[i] = formatLine(line, styles)
	}
	return strings.Join(out, "\n")
}

func formatLine(line string, styles MarkdownStyles) string {
	// Headers claim the whole line; deepest prefix first.
	switch {
	case strings.HasPrefix(line, "### "):
		return styles.H3.Render(strings.TrimPrefix(line, "### "))
	case strings.HasPrefix(line, "## "):
		return styles.H2.Render(strings.TrimPrefix(line, "## "))
	case strings.HasPrefix(line, "# "):
		return styles.H1.Render(strings.TrimPrefix(line, "# "))
	}

	isListItem := strings.HasPrefix(line, "* ")
	if isListItem {
		line = strings.TrimPrefix(line, "* ")
	}

	line = boldRe.ReplaceAllStringFunc(line, func(m string) string {
		return styles.Bold.Render(boldRe.FindStringSubmatch(m)[1])
	})
	line = italicRe.ReplaceAllStringFunc(line, func(m string) string {
		return styles.Italic.Render(italicRe.FindStringSubmatch(m)[1])
	})
	line = codeRe.ReplaceAllStringFunc(line, func(m string) string {
		return styles.InlineCode.Render(codeRe.FindStringSubmatch(m)[1])
	})
	line = linkRe.ReplaceAllStringFunc(line, func(m string) string {
		sub := linkRe.FindStringSubmatch(m)
		return styles.Link.Render(sub[1]) + " (" + sub[2] + ")"
	})

	if isListItem {
		return styles.ListBullet.Render("•") + " " + line
	}
	return line
}
