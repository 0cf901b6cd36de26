// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import "strings"

// StreamBuffer accumulates streamed chunks of a message and keeps the
// derived segment list current. Derivation is a pure function of the
// accumulated text, so the segments never depend on how the stream was
// chunked.
//
// The buffer is used from the Bubble Tea update loop only and needs no
// locking.
type StreamBuffer struct {
	text     strings.Builder
	segments []Segment
}

// NewStreamBuffer creates an empty buffer.
func NewStreamBuffer() *StreamBuffer {
	return &StreamBuffer{}
}

// AppendChunk appends a streamed chunk and re-derives the segment list.
// An empty chunk changes nothing.
func (b *StreamBuffer) AppendChunk(chunk string) {
	if chunk == "" {
		return
	}
	b.text.WriteString(chunk)
	b.segments = SplitSegments(b.text.String())
}

// SetText replaces the buffer content, re-deriving segments. Used when
// loading a finalized message for display.
func (b *StreamBuffer) SetText(text string) {
	b.text.Reset()
	b.text.WriteString(text)
	b.segments = SplitSegments(text)
}

// Segments returns the current derived segments.
func (b *StreamBuffer) Segments() []Segment {
	return b.segments
}

// Text returns the full accumulated text.
func (b *StreamBuffer) Text() string {
	return b.text.String()
}

// Len returns the accumulated length in bytes.
func (b *StreamBuffer) Len() int {
	return b.text.Len()
}

// Reset clears the buffer for the next message.
func (b *StreamBuffer) Reset() {
	b.text.Reset()
	b.segments = nil
}
