// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	uistyles "github.com/jeranaias/deskchat-tui/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK
// =============================================================================

// CodeBlock renders a fenced code block with syntax highlighting, a
// language badge, and a border that fits the panel width.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int
}

var (
	codeBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(uistyles.TextMuted).
			Padding(0, 1)

	languageBadgeStyle = lipgloss.NewStyle().
				Foreground(uistyles.Cyan).
				Bold(true)

	copyHintStyle = lipgloss.NewStyle().
			Foreground(uistyles.TextMuted)
)

// Render returns the styled block. Highlighting failures degrade to
// plain text, never to an error.
func (cb CodeBlock) Render() string {
	code := strings.TrimRight(cb.Code, "\n")

	highlighted, err := highlightCode(code, cb.Language)
	if err != nil {
		highlighted = code
	}

	border := codeBorderStyle
	if cb.MaxWidth > 4 {
		border = border.Width(cb.MaxWidth - 2)
	}

	badge := languageBadgeStyle.Render(cb.Language) + copyHintStyle.Render("  ^Y copy")
	return badge + "\n" + border.Render(highlighted)
}

// highlightCode runs chroma over the code: lexer by language name,
// content analysis as fallback, monokai style, terminal256 formatter.
func highlightCode(code, language string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := formatter.Format(&b, style, iterator); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderInlineCode styles a short inline code span.
func RenderInlineCode(code string) string {
	return lipgloss.NewStyle().
		Foreground(uistyles.Rose).
		Background(uistyles.SurfaceBright).
		Render(code)
}
