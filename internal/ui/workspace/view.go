// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/deskchat-tui/internal/model"
	"github.com/jeranaias/deskchat-tui/internal/ui/components"
	"github.com/jeranaias/deskchat-tui/internal/ui/panel"
	"github.com/jeranaias/deskchat-tui/internal/ui/render"
	"github.com/jeranaias/deskchat-tui/internal/util"
)

// View composites the workspace: a blank canvas, panels back-to-front,
// then the modal picker and the toast stack on top.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	canvas := blankCanvas(m.width, m.height)
	for _, p := range m.panels.Panels() {
		canvas = components.PlaceOverlay(p.Rect.X, p.Rect.Y, m.renderPanel(p), canvas)
	}

	if m.picker != nil {
		pick := m.renderPicker()
		x := (m.width - lipgloss.Width(pick)) / 2
		y := (m.height - lipgloss.Height(pick)) / 2
		canvas = components.PlaceOverlay(x, y, pick, canvas)
	}

	if stack := m.toasts.Stack(m.width); stack != "" {
		x := m.width - lipgloss.Width(stack) - 1
		y := m.height - lipgloss.Height(stack) - 1
		canvas = components.PlaceOverlay(x, y, stack, canvas)
	}

	return canvas
}

// blankCanvas builds an empty width x height cell grid.
func blankCanvas(width, height int) string {
	line := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// PANEL CHROME
// =============================================================================

// renderPanel draws one panel: title bar, body, and border. The border
// color marks keyboard focus.
func (m Model) renderPanel(p *panel.Panel) string {
	innerW := p.Rect.Width - 2
	innerH := p.Rect.Height - 2
	if innerW < 1 || innerH < 1 {
		return ""
	}

	var body string
	switch p.Kind {
	case panel.KindMain:
		body = m.renderMainBody(innerW, innerH)
	case panel.KindSticky:
		body = m.renderStickyBody(p, innerW, innerH)
	case panel.KindEditor:
		body = m.renderEditorBody(innerW, innerH)
	}

	title := m.theme.PanelTitle.Render(util.TruncateWidth(p.Title, innerW))
	content := clipLines(title+"\n"+body, innerW, innerH)

	border := m.theme.PanelBorder
	if p.ID == m.focusID {
		border = m.theme.PanelBorderFocused
	}
	return border.Width(innerW).Height(innerH).Render(content)
}

// renderMainBody is the chat window: transcript, input line, status line.
func (m Model) renderMainBody(width, height int) string {
	transcript := m.transcript
	if !m.streaming() {
		transcript = m.renderTranscript(width)
	}

	// Input and status take the bottom two rows; the title bar took one.
	transcriptH := height - 3
	if transcriptH < 1 {
		transcriptH = 1
	}
	transcript = tailLines(transcript, transcriptH, m.scrollback)

	input := m.input.View()
	status := m.renderStatus(width)
	return transcript + "\n" + input + "\n" + status
}

// renderStatus is the one-line footer: model name and stream state.
func (m Model) renderStatus(width int) string {
	left := m.session.Model()
	if m.streaming() {
		left = m.spin.View() + " " + left
	} else if stats := m.session.LastStats(); stats != nil {
		left += fmt.Sprintf("  %d tok in %.1fs", stats.TokenCount, stats.TotalTime.Seconds())
	}
	right := "^N note  ^E editor  ^L history  ^Y copy  ^C quit"
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return m.theme.StatusBar.Render(util.TruncateWidth(left, width))
	}
	return m.theme.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}

// renderStickyBody wraps the note text; the focused sticky shows a
// trailing cursor.
func (m Model) renderStickyBody(p *panel.Panel, width, height int) string {
	text := p.Content
	if p.ID == m.focusID {
		text += "▌"
	}
	if text == "" {
		text = "(empty note)"
	}
	return m.theme.StickyBody.Width(width).Render(text)
}

// renderEditorBody shows the textarea.
func (m Model) renderEditorBody(width, height int) string {
	hint := m.theme.SystemNotice.Render("^S save")
	return m.theme.EditorBody.Render(m.editor.View()) + "\n" + hint
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refreshTranscript re-renders the cached transcript at the main
// panel's current width.
func (m *Model) refreshTranscript() {
	width := 40
	if main := m.panels.Get(m.mainID); main != nil {
		width = main.Rect.Width - 2
	}
	m.transcript = m.renderTranscript(width)
}

// renderTranscript renders the whole conversation, markdown-formatted
// text interleaved with highlighted code blocks.
func (m Model) renderTranscript(width int) string {
	conv := m.session.Current()
	if conv == nil || conv.Len() == 0 {
		return m.theme.SystemNotice.Render("Send a message to start a conversation.")
	}

	parts := make([]string, 0, conv.Len())
	for _, msg := range conv.Messages {
		parts = append(parts, m.renderMessage(msg, width))
	}
	return strings.Join(parts, "\n\n")
}

// renderMessage renders one turn with a role header.
func (m Model) renderMessage(msg *model.Message, width int) string {
	switch msg.Role {
	case model.RoleUser:
		header := m.theme.UserBubble.Render("You")
		return header + "\n" + lipgloss.NewStyle().Width(width).Render(msg.Text())

	case model.RoleSystem:
		return m.theme.SystemNotice.Render(msg.Text())

	default:
		header := m.theme.AssistantBubble.Bold(true).Render("Assistant")
		text := msg.Text()
		if text == "" && msg.Streaming {
			return header + "\n" + m.spin.View()
		}
		return header + "\n" + m.renderAssistantText(text, width)
	}
}

// renderAssistantText splits the reply into segments: text goes through
// the markdown formatter, fenced code through chroma highlighting.
func (m Model) renderAssistantText(text string, width int) string {
	var out strings.Builder
	for _, seg := range render.SplitSegments(text) {
		switch seg.Kind {
		case render.SegmentCode:
			out.WriteString(components.CodeBlock{
				Language: seg.Language,
				Code:     seg.Content,
				MaxWidth: width,
			}.Render())
			out.WriteString("\n")
		default:
			formatted := render.FormatMarkdown(seg.Content, m.markdown)
			out.WriteString(lipgloss.NewStyle().Width(width).Render(formatted))
		}
	}
	return strings.TrimRight(out.String(), "\n")
}

// =============================================================================
// PICKER
// =============================================================================

// renderPicker draws the modal conversation list.
func (m Model) renderPicker() string {
	p := m.picker
	var b strings.Builder

	b.WriteString(m.theme.PanelTitle.Render("Conversations"))
	b.WriteString("\n")
	b.WriteString(m.theme.InputPrompt.Render("/ "))
	b.WriteString(p.filter)
	b.WriteString("▌\n\n")

	if len(p.filtered) == 0 {
		b.WriteString(m.theme.SystemNotice.Render("No matches"))
	}
	for i, s := range p.filtered {
		line := fmt.Sprintf("%s  %d msgs  %s",
			util.TruncateWidth(s.Title, 34),
			s.Messages,
			s.UpdatedAt.Format("Jan 2 15:04"),
		)
		if i == p.cursor {
			b.WriteString(m.theme.SidebarItemSelected.Render("> " + line))
		} else {
			b.WriteString(m.theme.SidebarItem.Render("  " + line))
		}
		b.WriteString("\n")
		if s.Preview != "" {
			b.WriteString(m.theme.SystemNotice.Render("    " + util.TruncateWidth(s.Preview, 44)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(m.theme.SystemNotice.Render("enter load  ^D delete  esc close"))

	return m.theme.PanelBorderFocused.Padding(0, 1).Render(b.String())
}

// =============================================================================
// LINE HELPERS
// =============================================================================

// tailLines returns height lines ending scrollback lines above the
// bottom of text.
func tailLines(text string, height, scrollback int) string {
	lines := strings.Split(text, "\n")

	end := len(lines) - scrollback
	if end < height {
		end = height
	}
	if end > len(lines) {
		end = len(lines)
	}
	start := end - height
	if start < 0 {
		start = 0
	}
	out := strings.Join(lines[start:end], "\n")

	// Pad short transcripts so the input stays pinned to the bottom.
	if missing := height - (end - start); missing > 0 {
		out = strings.Repeat("\n", missing) + out
	}
	return out
}

// clipLines hard-limits content to the panel's inner box.
func clipLines(text string, width, height int) string {
	lines := strings.Split(text, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = components.ClipCells(line, width)
		}
	}
	return strings.Join(lines, "\n")
}
