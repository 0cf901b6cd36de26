// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import "strings"

// DefaultLanguage is assumed for fenced blocks without a language tag.
const DefaultLanguage = "javascript"

// SegmentKind distinguishes plain text from fenced code.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentCode
)

// Segment is one piece of a message: either markdown text or a fenced
// code block with its language tag.
type Segment struct {
	Kind     SegmentKind
	Content  string
	Language string // only set for SegmentCode
}

// SplitSegments splits text into Text and Code segments. Fences are
// matched left to right, non-overlapping, as ```lang\ncode``` where lang
// is a run of word characters. An opening fence without its closing
// fence stays in the surrounding text segment, so partially streamed
// code renders as plain text until the closing fence arrives.
//
// The split is a pure function of the whole text: feeding it chunk by
// chunk and re-splitting after each append gives the same result as one
// split at the end, regardless of where chunk boundaries fall.
func SplitSegments(text string) []Segment {
	var segments []Segment
	textStart := 0 // start of the pending plain-text run
	search := 0    // scan position

	for {
		rel := strings.Index(text[search:], "```")
		if rel < 0 {
			break
		}
		open := search + rel

		lang, bodyStart, ok := parseFenceOpen(text, open)
		if !ok {
			// Not a fence opening; leave the backticks in the text run.
			search = open + 3
			continue
		}

		closeRel := strings.Index(text[bodyStart:], "```")
		if closeRel < 0 {
			// Unterminated fence: render as plain text until closed.
			break
		}
		closeAt := bodyStart + closeRel

		if open > textStart {
			segments = append(segments, Segment{
				Kind:    SegmentText,
				Content: text[textStart:open],
			})
		}
		segments = append(segments, Segment{
			Kind:     SegmentCode,
			Content:  strings.TrimSuffix(text[bodyStart:closeAt], "\n"),
			Language: lang,
		})

		textStart = closeAt + 3
		search = textStart
	}

	if textStart < len(text) {
		segments = append(segments, Segment{
			Kind:    SegmentText,
			Content: text[textStart:],
		})
	}
	return segments
}

// parseFenceOpen checks whether the "```" at open starts a fence:
// an optional run of word characters followed by a newline. Returns the
// language tag (defaulted when empty) and the index of the first body
// byte.
func parseFenceOpen(text string, open int) (lang string, bodyStart int, ok bool) {
	i := open + 3
	j := i
	for j < len(text) && isWordChar(text[j]) {
		j++
	}
	if j >= len(text) || text[j] != '\n' {
		return "", 0, false
	}
	lang = text[i:j]
	if lang == "" {
		lang = DefaultLanguage
	}
	return lang, j + 1, true
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_'
}
