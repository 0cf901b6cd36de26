// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/deskchat-tui/internal/session"
	"github.com/jeranaias/deskchat-tui/internal/ui/components"
)

// =============================================================================
// MESSAGES
// =============================================================================

// StreamDeltaMsg carries one content chunk from the active stream.
type StreamDeltaMsg struct {
	Content string
}

// StreamDoneMsg reports the end of a send, successful or not.
type StreamDoneMsg struct {
	Reply string
	Err   error
}

// StreamTickMsg paces transcript re-renders during streaming.
type StreamTickMsg struct {
	Time time.Time
}

// ToastTickMsg sweeps expired toasts.
type ToastTickMsg struct {
	Time time.Time
}

// =============================================================================
// COMMANDS
// =============================================================================

// runSendCmd runs the blocking send pipeline off the update loop,
// feeding deltas and the final result through the event channel.
func runSendCmd(ctx context.Context, ctrl *session.Controller, text string, events chan<- tea.Msg) tea.Cmd {
	return func() tea.Msg {
		reply, err := ctrl.Send(ctx, text, func(delta string) {
			events <- StreamDeltaMsg{Content: delta}
		})
		events <- StreamDoneMsg{Reply: reply, Err: err}
		return nil
	}
}

// waitStreamCmd delivers the next stream event to the update loop. The
// handler re-arms it until StreamDoneMsg arrives.
func waitStreamCmd(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// toastTickCmd sweeps the toast stack on a fixed interval.
func toastTickCmd() tea.Cmd {
	return tea.Tick(components.ToastTickInterval, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}
