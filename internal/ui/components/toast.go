// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/deskchat-tui/internal/ui/styles"
	"github.com/jeranaias/deskchat-tui/internal/util"
)

// =============================================================================
// TOAST NOTIFICATIONS
// =============================================================================

// ToastKind classifies a transient notification.
type ToastKind int

const (
	ToastStatus ToastKind = iota
	ToastError
	ToastWarning
	ToastSuccess
)

// Display durations per kind. Errors linger longest so they can be read.
const (
	statusToastDuration  = 4 * time.Second
	errorToastDuration   = 8 * time.Second
	warningToastDuration = 6 * time.Second
	successToastDuration = 4 * time.Second

	// maxToasts caps the visible stack; older toasts are dropped first.
	maxToasts = 5

	// ToastTickInterval is how often expired toasts are swept.
	ToastTickInterval = 100 * time.Millisecond
)

// Toast is a single transient notification.
type Toast struct {
	Kind      ToastKind
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// Expired reports whether the toast should be removed.
func (t Toast) Expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// durationFor returns the display duration for a kind.
func durationFor(kind ToastKind) time.Duration {
	switch kind {
	case ToastError:
		return errorToastDuration
	case ToastWarning:
		return warningToastDuration
	case ToastSuccess:
		return successToastDuration
	default:
		return statusToastDuration
	}
}

// ToastManager owns the active toast stack.
//
// The manager is safe for concurrent use: stream goroutines push
// failures while the update loop ticks expiry.
type ToastManager struct {
	mu     sync.Mutex
	toasts []Toast
}

// NewToastManager creates an empty manager.
func NewToastManager() *ToastManager {
	return &ToastManager{}
}

// Push adds a toast, dropping the oldest past maxToasts.
func (m *ToastManager) Push(kind ToastKind, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.toasts = append(m.toasts, Toast{
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  durationFor(kind),
	})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
}

// Tick removes expired toasts and reports whether any remain.
func (m *ToastManager) Tick(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.Expired(now) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
	return len(m.toasts) > 0
}

// Active returns a copy of the visible toasts, oldest first.
func (m *ToastManager) Active() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// Clear drops all toasts.
func (m *ToastManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = nil
}

// =============================================================================
// RENDERING
// =============================================================================

var (
	toastBase = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder())

	toastStyles = map[ToastKind]lipgloss.Style{
		ToastStatus:  toastBase.BorderForeground(styles.TextMuted).Foreground(styles.Text),
		ToastError:   toastBase.BorderForeground(styles.Rose).Foreground(styles.Rose),
		ToastWarning: toastBase.BorderForeground(styles.Amber).Foreground(styles.Amber),
		ToastSuccess: toastBase.BorderForeground(styles.Emerald).Foreground(styles.Emerald),
	}
)

// Stack renders the active toasts as a right-aligned vertical block,
// ready for the caller to composite. Returns "" when there is nothing
// to show.
func (m *ToastManager) Stack(maxWidth int) string {
	toasts := m.Active()
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		style := toastStyles[t.Kind]
		msg := t.Message
		if maxW := maxWidth - 6; maxW > 10 {
			msg = util.TruncateWidth(msg, maxW)
		}
		rendered = append(rendered, style.Render(msg))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

// RenderToastStack renders the active toasts anchored to the
// bottom-right of the given area. Returns "" when there is nothing to
// show.
func (m *ToastManager) RenderToastStack(width, height int) string {
	stack := m.Stack(width)
	if stack == "" {
		return ""
	}
	return lipgloss.Place(width, height, lipgloss.Right, lipgloss.Bottom, stack)
}
