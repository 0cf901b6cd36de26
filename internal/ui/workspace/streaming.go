// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// STREAMING: Batched rendering keeps the UI responsive under fast streams.
//
// Re-rendering the transcript on every delta wastes cycles when tokens
// arrive faster than the terminal can paint. The batcher counts pending
// deltas and gates re-renders: a render happens when a full batch has
// accumulated, or on the next tick after the minimum interval, whichever
// comes first. The 30fps cap always applies.

const (
	// flushBatchSize is how many deltas trigger an immediate flush attempt.
	flushBatchSize = 15

	// minFlushInterval caps rendering at ~30fps.
	minFlushInterval = 33 * time.Millisecond
)

// TokenBatcher gates transcript re-renders during streaming.
type TokenBatcher struct {
	pending   int
	lastFlush time.Time
}

// NewTokenBatcher creates a batcher ready for a new stream.
func NewTokenBatcher() *TokenBatcher {
	return &TokenBatcher{}
}

// Write records one delta. Returns true when a full batch is pending
// and the caller should attempt a flush without waiting for the tick.
func (b *TokenBatcher) Write(chunk string) bool {
	if chunk == "" {
		return false
	}
	b.pending++
	return b.pending >= flushBatchSize
}

// TryFlush consumes the pending deltas if the rate cap allows, and
// reports whether the caller should re-render now.
func (b *TokenBatcher) TryFlush(now time.Time) bool {
	if b.pending == 0 {
		return false
	}
	if now.Sub(b.lastFlush) < minFlushInterval {
		return false
	}
	b.pending = 0
	b.lastFlush = now
	return true
}

// ForceFlush consumes pending deltas unconditionally. Used when the
// stream completes so the final render never waits on the rate cap.
func (b *TokenBatcher) ForceFlush() bool {
	had := b.pending > 0
	b.pending = 0
	b.lastFlush = time.Now()
	return had
}

// Pending returns the number of unrendered deltas.
func (b *TokenBatcher) Pending() int {
	return b.pending
}

// Reset clears all state for a new stream.
func (b *TokenBatcher) Reset() {
	b.pending = 0
	b.lastFlush = time.Time{}
}

// streamTickCmd drives flushes for deltas that arrive below the batch
// threshold, so slow streams still render promptly.
func streamTickCmd() tea.Cmd {
	return tea.Tick(minFlushInterval, func(t time.Time) tea.Msg {
		return StreamTickMsg{Time: t}
	})
}
