// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/deskchat-tui/internal/storage"
	"github.com/jeranaias/deskchat-tui/internal/ui/components"
)

// picker is the modal conversation list: type to filter, enter to load.
type picker struct {
	all      []storage.Summary
	filtered []storage.Summary
	filter   string
	cursor   int
}

// openPicker loads the stored conversation list and enters picker mode.
func (m *Model) openPicker() {
	all, err := m.session.List()
	if err != nil {
		m.toasts.Push(components.ToastError, "Could not list conversations: "+err.Error())
		return
	}
	if len(all) == 0 {
		m.toasts.Push(components.ToastStatus, "No saved conversations yet")
		return
	}
	m.picker = &picker{all: all, filtered: all}
}

// refilter recomputes the visible entries. With a search index the
// filter runs full-text over message content; otherwise it falls back
// to a case-insensitive title match.
func (m *Model) refilter() {
	p := m.picker
	if p.filter == "" {
		p.filtered = p.all
		p.cursor = 0
		return
	}

	if m.index != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		results, err := m.index.Search(ctx, p.filter, 50)
		if err == nil {
			hit := make(map[string]bool, len(results))
			for _, r := range results {
				hit[r.ConversationID] = true
			}
			out := make([]storage.Summary, 0, len(p.all))
			for _, s := range p.all {
				if hit[s.ID] {
					out = append(out, s)
				}
			}
			p.filtered = out
			p.cursor = 0
			return
		}
	}

	needle := strings.ToLower(p.filter)
	out := make([]storage.Summary, 0, len(p.all))
	for _, s := range p.all {
		if strings.Contains(strings.ToLower(s.Title), needle) {
			out = append(out, s)
		}
	}
	p.filtered = out
	p.cursor = 0
}

// handlePickerKey processes keystrokes while the picker is open.
func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.picker
	switch msg.Type {
	case tea.KeyEsc:
		m.picker = nil

	case tea.KeyUp:
		if p.cursor > 0 {
			p.cursor--
		}

	case tea.KeyDown:
		if p.cursor < len(p.filtered)-1 {
			p.cursor++
		}

	case tea.KeyEnter:
		if p.cursor < len(p.filtered) {
			id := p.filtered[p.cursor].ID
			if err := m.session.Load(id); err != nil {
				m.toasts.Push(components.ToastError, "Could not load conversation: "+err.Error())
			} else {
				m.scrollback = 0
			}
		}
		m.picker = nil

	case tea.KeyCtrlD:
		if p.cursor < len(p.filtered) {
			id := p.filtered[p.cursor].ID
			if err := m.session.Delete(id); err != nil {
				m.toasts.Push(components.ToastError, "Could not delete conversation: "+err.Error())
			} else {
				kept := p.all[:0]
				for _, s := range p.all {
					if s.ID != id {
						kept = append(kept, s)
					}
				}
				p.all = kept
				m.refilter()
			}
		}

	case tea.KeyBackspace:
		if p.filter != "" {
			r := []rune(p.filter)
			p.filter = string(r[:len(r)-1])
			m.refilter()
		}

	case tea.KeySpace:
		p.filter += " "
		m.refilter()

	case tea.KeyRunes:
		p.filter += string(msg.Runes)
		m.refilter()
	}
	return m, nil
}
