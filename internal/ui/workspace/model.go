// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/deskchat-tui/internal/geometry"
	"github.com/jeranaias/deskchat-tui/internal/search"
	"github.com/jeranaias/deskchat-tui/internal/session"
	"github.com/jeranaias/deskchat-tui/internal/storage"
	"github.com/jeranaias/deskchat-tui/internal/ui/components"
	"github.com/jeranaias/deskchat-tui/internal/ui/interaction"
	"github.com/jeranaias/deskchat-tui/internal/ui/panel"
	"github.com/jeranaias/deskchat-tui/internal/ui/render"
	"github.com/jeranaias/deskchat-tui/internal/ui/styles"
)

// sendState tracks whether a response is in flight.
type sendState int

const (
	stateReady sendState = iota
	stateStreaming
)

// initialViewport is used until the first WindowSizeMsg arrives.
var initialViewport = geometry.Size{Width: 80, Height: 24}

// timeNow is a seam for tests.
var timeNow = time.Now

// clipboardWrite is a seam for tests; headless environments have no
// system clipboard.
var clipboardWrite = clipboard.WriteAll

// Model is the workspace: the panel set, the interaction engine, the
// session controller, and the input widgets, all driven by one event
// loop.
type Model struct {
	theme    *styles.Theme
	markdown render.MarkdownStyles

	panels  *panel.Manager
	engine  *interaction.Engine
	session *session.Controller
	notes   *storage.NoteStore
	exports *storage.ExportStore
	index   *search.Index

	input   textinput.Model
	editor  textarea.Model
	spin    spinner.Model
	toasts  *components.ToastManager
	batcher *TokenBatcher

	width  int
	height int

	state        sendState
	cancelStream context.CancelFunc
	events       chan tea.Msg

	mainID   string
	editorID string // "" while the editor is closed
	focusID  string // panel receiving keystrokes

	// scrollback is how many lines the transcript is scrolled up from
	// the tail. 0 follows the stream.
	scrollback int

	// transcript caches the rendered conversation while streaming, so
	// the paint rate is governed by the batcher rather than the delta
	// rate. Outside streaming the view renders live.
	transcript string

	// noteCreated remembers each sticky's creation time so rewriting
	// the note file on every edit does not reset it.
	noteCreated map[string]time.Time

	picker *picker // non-nil while the conversation list is open
}

// Options wires the workspace's collaborators.
type Options struct {
	Theme   *styles.Theme
	Session *session.Controller
	Notes   *storage.NoteStore
	Exports *storage.ExportStore
	Index   *search.Index
}

// New builds the workspace with the main chat window centered and any
// persisted sticky notes restored at their saved positions.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}

	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder
	input.CharLimit = 4000
	input.Focus()

	editor := textarea.New()
	editor.Placeholder = "Scratch space..."
	editor.CharLimit = 0

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = theme.Spinner

	panels := panel.NewManager(initialViewport)
	main := panel.NewPanel(panel.KindMain, "deskchat", panel.DefaultMainRect(initialViewport))
	panels.Add(main)

	m := Model{
		theme:    theme,
		markdown: render.DefaultMarkdownStyles(),
		panels:   panels,
		engine:   interaction.NewEngine(),
		session:  opts.Session,
		notes:    opts.Notes,
		exports:  opts.Exports,
		index:    opts.Index,
		input:    input,
		editor:   editor,
		spin:     spin,
		toasts:   components.NewToastManager(),
		batcher:  NewTokenBatcher(),
		mainID:   main.ID,
		focusID:  main.ID,

		noteCreated: make(map[string]time.Time),
	}
	m.restoreNotes()
	return m
}

// Init starts the cursor blink and the toast sweep.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, toastTickCmd())
}

// viewport returns the current terminal size as a geometry value.
func (m Model) viewport() geometry.Size {
	if m.width == 0 || m.height == 0 {
		return initialViewport
	}
	return geometry.Size{Width: m.width, Height: m.height}
}

// focused returns the panel holding keyboard focus, falling back to the
// main window if the focused panel was removed.
func (m Model) focused() *panel.Panel {
	if p := m.panels.Get(m.focusID); p != nil {
		return p
	}
	return m.panels.Get(m.mainID)
}

// streaming reports whether a response is in flight.
func (m Model) streaming() bool {
	return m.state == stateStreaming
}

// =============================================================================
// STICKY NOTE PERSISTENCE
// =============================================================================

// restoreNotes recreates sticky panels from the note store. Panel IDs
// are the note IDs so edits and moves can be written back.
func (m *Model) restoreNotes() {
	if m.notes == nil {
		return
	}
	saved, err := m.notes.Load()
	if err != nil {
		return
	}
	for _, n := range saved {
		m.noteCreated[n.ID] = n.CreatedAt
		rect := geometry.ClampRect(geometry.Rect{
			X:      n.X,
			Y:      n.Y,
			Width:  panel.StickyWidth,
			Height: panel.StickyHeight,
		}, m.panels.Viewport())
		m.panels.Add(&panel.Panel{
			ID:      n.ID,
			Kind:    panel.KindSticky,
			Title:   "Note",
			Rect:    rect,
			Content: n.Text,
		})
	}
}

// persistNotes writes every sticky panel back to the note store.
// Failures surface as a toast, not an error: notes are convenience
// state, not the conversation.
func (m *Model) persistNotes() {
	if m.notes == nil {
		return
	}
	stickies := m.panels.ByKind(panel.KindSticky)
	out := make([]storage.Note, 0, len(stickies))
	for _, p := range stickies {
		out = append(out, storage.Note{
			ID:        p.ID,
			Text:      p.Content,
			X:         p.Rect.X,
			Y:         p.Rect.Y,
			CreatedAt: m.noteCreated[p.ID],
		})
	}
	if err := m.notes.Save(out); err != nil {
		m.toasts.Push(components.ToastWarning, "Could not save notes: "+err.Error())
	}
}
