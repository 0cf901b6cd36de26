// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/deskchat-tui/internal/geometry"
	"github.com/jeranaias/deskchat-tui/internal/model"
	"github.com/jeranaias/deskchat-tui/internal/openrouter"
	"github.com/jeranaias/deskchat-tui/internal/session"
	"github.com/jeranaias/deskchat-tui/internal/storage"
	"github.com/jeranaias/deskchat-tui/internal/ui/components"
	"github.com/jeranaias/deskchat-tui/internal/ui/panel"
	"github.com/jeranaias/deskchat-tui/internal/ui/render"
)

// Update is the single event loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case StreamDeltaMsg:
		if m.batcher.Write(msg.Content) && m.batcher.TryFlush(timeNow()) {
			m.refreshTranscript()
		}
		return m, waitStreamCmd(m.events)

	case StreamTickMsg:
		if m.streaming() {
			if m.batcher.TryFlush(msg.Time) {
				m.refreshTranscript()
			}
			return m, streamTickCmd()
		}
		return m, nil

	case StreamDoneMsg:
		return m.handleStreamDone(msg)

	case ToastTickMsg:
		m.toasts.Tick(msg.Time)
		return m, toastTickCmd()

	case spinner.TickMsg:
		if m.streaming() {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

// =============================================================================
// RESIZE
// =============================================================================

// handleResize re-clamps every panel into the new viewport and resizes
// the input widgets to their panels.
func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.panels.SetViewport(geometry.Size{Width: msg.Width, Height: msg.Height})
	m.syncWidgetSizes()
	return m
}

// syncWidgetSizes fits the chat input and editor to their panels.
func (m *Model) syncWidgetSizes() {
	if main := m.panels.Get(m.mainID); main != nil {
		m.input.Width = main.Rect.Width - 6
	}
	if m.editorID != "" {
		if ed := m.panels.Get(m.editorID); ed != nil {
			m.editor.SetWidth(ed.Rect.Width - 4)
			m.editor.SetHeight(ed.Rect.Height - 3)
		}
	}
}

// =============================================================================
// KEYBOARD
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picker != nil {
		return m.handlePickerKey(msg)
	}

	// Global bindings first.
	switch msg.Type {
	case tea.KeyCtrlC:
		m.persistNotes()
		return m, tea.Quit

	case tea.KeyEsc:
		if m.streaming() && m.cancelStream != nil {
			m.cancelStream()
			return m, nil
		}
		m.focusID = m.mainID
		m.editor.Blur()
		return m, nil

	case tea.KeyCtrlN:
		return m.addSticky(), nil

	case tea.KeyCtrlE:
		return m.toggleEditor()

	case tea.KeyCtrlL:
		m.openPicker()
		return m, nil

	case tea.KeyCtrlX:
		m.session.Reset()
		m.scrollback = 0
		m.toasts.Push(components.ToastStatus, "Started a new conversation")
		return m, nil

	case tea.KeyCtrlY:
		return m.copyLastCode(), nil
	}

	focused := m.focused()
	if focused == nil {
		return m, nil
	}

	switch focused.Kind {
	case panel.KindEditor:
		return m.handleEditorKey(msg)
	case panel.KindSticky:
		return m.handleStickyKey(focused, msg)
	default:
		return m.handleChatKey(msg)
	}
}

// handleChatKey routes keystrokes to the chat input.
func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.startSend(m.input.Value())

	case tea.KeyUp:
		m.scrollback++
		return m, nil

	case tea.KeyDown:
		if m.scrollback > 0 {
			m.scrollback--
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleEditorKey routes keystrokes to the editor buffer.
func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlS {
		return m.saveEditor(), nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// handleStickyKey edits the focused sticky in place. Stickies are plain
// text: runes append, backspace deletes, enter inserts a newline.
func (m Model) handleStickyKey(p *panel.Panel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyRunes:
		p.Content += string(msg.Runes)
	case tea.KeySpace:
		p.Content += " "
	case tea.KeyEnter:
		p.Content += "\n"
	case tea.KeyBackspace:
		if p.Content != "" {
			r := []rune(p.Content)
			p.Content = string(r[:len(r)-1])
		}
	case tea.KeyCtrlD:
		m.panels.Remove(p.ID)
		m.focusID = m.mainID
	default:
		return m, nil
	}
	m.persistNotes()
	return m, nil
}

// =============================================================================
// MOUSE
// =============================================================================

// handleMouse drives the interaction engine: press starts a drag or a
// resize, motion moves the active session, release clears it. A press
// with a session already active is treated as drag motion, which covers
// terminals that report held-button motion as repeated presses.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	pt := geometry.Point{X: msg.X, Y: msg.Y}

	switch msg.Type {
	case tea.MouseLeft:
		if !m.engine.Idle() {
			m.applyMove(pt)
			return m, nil
		}
		return m.handlePress(pt), nil

	case tea.MouseMotion:
		if !m.engine.Idle() {
			m.applyMove(pt)
		}
		return m, nil

	case tea.MouseRelease:
		moved := m.engine.Dragging() || m.engine.Resizing()
		wasSticky := false
		if p := m.panels.Get(m.engine.ActivePanel()); p != nil && p.Kind == panel.KindSticky {
			wasSticky = true
		}
		m.engine.Release()
		m.syncWidgetSizes()
		if moved && wasSticky {
			m.persistNotes()
		}
		return m, nil

	case tea.MouseWheelUp:
		if p := m.panels.HitTest(pt); p != nil && p.ID == m.mainID {
			m.scrollback += 3
		}
		return m, nil

	case tea.MouseWheelDown:
		if p := m.panels.HitTest(pt); p != nil && p.ID == m.mainID {
			m.scrollback -= 3
			if m.scrollback < 0 {
				m.scrollback = 0
			}
		}
		return m, nil
	}

	return m, nil
}

// handlePress raises and focuses the hit panel, then opens a resize
// session if the press landed on the resize handle, a drag otherwise.
func (m Model) handlePress(pt geometry.Point) Model {
	p := m.panels.HitTest(pt)
	if p == nil {
		return m
	}
	m.panels.Raise(p.ID)
	m.focusID = p.ID
	if p.Kind == panel.KindEditor {
		m.editor.Focus()
	} else {
		m.editor.Blur()
	}

	if bounds, resizable := p.Bounds(); resizable && pt == p.ResizeHandle() {
		m.engine.StartResize(p.ID, pt, p.Rect, bounds)
	} else {
		m.engine.StartDrag(p.ID, pt, p.Rect)
	}
	return m
}

// applyMove advances the active session and writes the resulting rect
// back to the panel.
func (m *Model) applyMove(pt geometry.Point) {
	rect, ok := m.engine.Move(pt, m.viewport())
	if !ok {
		return
	}
	if p := m.panels.Get(m.engine.ActivePanel()); p != nil {
		p.Rect = rect
	}
}

// =============================================================================
// PANELS
// =============================================================================

// addSticky places a new sticky note and gives it focus. The note owns
// the identity: the panel reuses its ID so edits and moves write back
// to the same stored note.
func (m Model) addSticky() Model {
	rect := m.panels.PlaceSticky()
	note := storage.NewNote("", rect.X, rect.Y)
	m.panels.Add(&panel.Panel{
		ID:    note.ID,
		Kind:  panel.KindSticky,
		Title: "Note",
		Rect:  rect,
	})
	m.noteCreated[note.ID] = note.CreatedAt
	m.focusID = note.ID
	m.editor.Blur()
	m.persistNotes()
	return m
}

// toggleEditor opens the editor panel, or closes it if already open.
// Closing keeps the buffer so reopening restores it.
func (m Model) toggleEditor() (tea.Model, tea.Cmd) {
	if m.editorID != "" {
		m.panels.Remove(m.editorID)
		m.editorID = ""
		m.focusID = m.mainID
		m.editor.Blur()
		return m, nil
	}

	p := panel.NewPanel(panel.KindEditor, "Editor", panel.DefaultEditorRect(m.viewport()))
	m.panels.Add(p)
	m.editorID = p.ID
	m.focusID = p.ID
	m.syncWidgetSizes()
	return m, m.editor.Focus()
}

// saveEditor exports the editor buffer to a timestamped file. An empty
// buffer is a warning, not an error.
func (m Model) saveEditor() Model {
	text := m.editor.Value()
	if strings.TrimSpace(text) == "" {
		m.toasts.Push(components.ToastWarning, "Nothing to save")
		return m
	}
	if m.exports == nil {
		m.toasts.Push(components.ToastError, "Export location is not configured")
		return m
	}
	path, err := m.exports.SaveEditorText(text, timeNow())
	if err != nil {
		m.toasts.Push(components.ToastError, "Save failed: "+err.Error())
		return m
	}
	m.toasts.Push(components.ToastSuccess, "Saved "+path)
	return m
}

// =============================================================================
// CLIPBOARD
// =============================================================================

// copyLastCode copies the raw text of the most recent code block in the
// conversation to the system clipboard.
func (m Model) copyLastCode() Model {
	code, ok := m.lastCodeBlock()
	if !ok {
		m.toasts.Push(components.ToastWarning, "No code block to copy")
		return m
	}
	if err := clipboardWrite(code); err != nil {
		m.toasts.Push(components.ToastError, "Copy failed: "+err.Error())
		return m
	}
	m.toasts.Push(components.ToastSuccess, "Copied code to clipboard")
	return m
}

// lastCodeBlock returns the raw text of the newest code block in the
// conversation, searching assistant turns newest-first.
func (m Model) lastCodeBlock() (string, bool) {
	conv := m.session.Current()
	if conv == nil {
		return "", false
	}
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		msg := conv.Messages[i]
		if msg.Role != model.RoleAssistant {
			continue
		}
		segs := render.SplitSegments(msg.Text())
		for j := len(segs) - 1; j >= 0; j-- {
			if segs[j].Kind == render.SegmentCode {
				return segs[j].Content, true
			}
		}
	}
	return "", false
}

// =============================================================================
// SEND PIPELINE
// =============================================================================

// startSend kicks off the send pipeline: the blocking controller call
// runs in its own goroutine and feeds the update loop through the event
// channel.
func (m Model) startSend(text string) (tea.Model, tea.Cmd) {
	text = strings.TrimSpace(text)
	if text == "" {
		return m, nil
	}
	if m.streaming() {
		m.toasts.Push(components.ToastWarning, "Still responding, hang on")
		return m, nil
	}

	m.input.Reset()
	m.scrollback = 0
	m.state = stateStreaming
	m.batcher.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelStream = cancel
	m.events = make(chan tea.Msg, 64)

	return m, tea.Batch(
		runSendCmd(ctx, m.session, text, m.events),
		waitStreamCmd(m.events),
		streamTickCmd(),
		m.spin.Tick,
	)
}

// handleStreamDone finishes the pipeline and surfaces failures as
// toasts. The conversation state was already settled by the controller.
func (m Model) handleStreamDone(msg StreamDoneMsg) (tea.Model, tea.Cmd) {
	m.state = stateReady
	if m.cancelStream != nil {
		m.cancelStream()
		m.cancelStream = nil
	}
	m.batcher.ForceFlush()
	m.refreshTranscript()

	if msg.Err != nil {
		m.toasts.Push(toastKindFor(msg.Err), userMessageFor(msg.Err))
	}
	return m, nil
}

// toastKindFor maps pipeline failures to toast severities.
func toastKindFor(err error) components.ToastKind {
	switch {
	case errors.Is(err, session.ErrRateLimited),
		errors.Is(err, session.ErrBusy),
		errors.Is(err, session.ErrEmptyMessage),
		errors.Is(err, session.ErrPersistFailed):
		return components.ToastWarning
	case errors.Is(err, context.Canceled):
		return components.ToastStatus
	default:
		return components.ToastError
	}
}

// userMessageFor keeps toast text short and actionable.
func userMessageFor(err error) string {
	switch {
	case errors.Is(err, openrouter.ErrNotConfigured):
		return "No API key configured. Set OPENROUTER_API_KEY and restart."
	case errors.Is(err, openrouter.ErrAuthFailed):
		return "Authentication failed. Check your API key."
	case errors.Is(err, openrouter.ErrRateLimited):
		return "The provider is rate limiting requests. Try again shortly."
	case errors.Is(err, session.ErrRateLimited):
		return "Sending too fast. Give it a moment."
	case errors.Is(err, session.ErrPersistFailed):
		return "Reply received but could not be saved to disk"
	case errors.Is(err, context.Canceled):
		return "Response cancelled"
	case errors.Is(err, storage.ErrConversationNotFound):
		return "That conversation no longer exists"
	default:
		return err.Error()
	}
}
