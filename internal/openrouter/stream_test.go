// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func sseBody(events ...string) string {
	var b strings.Builder
	for _, e := range events {
		b.WriteString("data: ")
		b.WriteString(e)
		b.WriteString("\n\n")
	}
	return b.String()
}

func chunkJSON(content string) string {
	return `{"id":"gen-1","model":"test","choices":[{"delta":{"content":` + jsonQuote(content) + `},"finish_reason":""}]}`
}

func jsonQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func TestSSEReader(t *testing.T) {
	input := "event: message\ndata: first\n\ndata: second\n\n"
	r := NewSSEReader(strings.NewReader(input))

	eventType, data, err := r.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent: %v", err)
	}
	if eventType != "message" || string(data) != "first" {
		t.Errorf("event = (%q, %q)", eventType, data)
	}

	_, data, err = r.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("data = %q", data)
	}

	if _, _, err := r.ReadEvent(); err != io.EOF {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

func TestSSEReaderCRLF(t *testing.T) {
	r := NewSSEReader(strings.NewReader("data: hello\r\n\r\n"))
	_, data, err := r.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("data = %q", data)
	}
}

func TestChatStreamAccumulates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "text/event-stream" {
			t.Errorf("Accept = %q", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, sseBody(
			chunkJSON("Hello"),
			chunkJSON(", "),
			chunkJSON("world"),
			"[DONE]",
		))
	}))
	defer srv.Close()

	c := NewClient("sk-or-test-0123456789abcdefghijklmnop").WithBaseURL(srv.URL)

	var chunks []string
	err := c.ChatStream(context.Background(), []ChatMessage{NewUserMessage("hi")}, func(chunk StreamChunk) {
		chunks = append(chunks, chunk.GetContent())
	})
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	if got := strings.Join(chunks, ""); got != "Hello, world" {
		t.Errorf("accumulated = %q", got)
	}
}

func TestChatStreamSkipsMalformedChunks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, sseBody(
			chunkJSON("ok"),
			"{not json",
			chunkJSON(" fine"),
			"[DONE]",
		))
	}))
	defer srv.Close()

	c := NewClient("sk-or-test-0123456789abcdefghijklmnop").WithBaseURL(srv.URL)
	acc := NewStreamAccumulator()
	err := c.ChatStream(context.Background(), []ChatMessage{NewUserMessage("hi")}, acc.Add)
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	if got := acc.GetContent(); got != "ok fine" {
		t.Errorf("content = %q", got)
	}
}

func TestChatStreamCancellationPreservesPartial(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fl, _ := w.(http.Flusher)
		io.WriteString(w, sseBody(chunkJSON("partial text")))
		if fl != nil {
			fl.Flush()
		}
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient("sk-or-test-0123456789abcdefghijklmnop").WithBaseURL(srv.URL)

	err := c.ChatStream(ctx, []ChatMessage{NewUserMessage("hi")}, func(chunk StreamChunk) {
		if chunk.GetContent() != "" {
			cancel()
		}
	})
	if err == nil {
		t.Fatal("expected error after cancellation")
	}

	var streamErr *StreamError
	if !errors.As(err, &streamErr) {
		t.Fatalf("err = %T, want *StreamError", err)
	}
	if streamErr.Partial != "partial text" {
		t.Errorf("partial = %q", streamErr.Partial)
	}
}

func parseChunk(t *testing.T, raw string) StreamChunk {
	t.Helper()
	var chunk StreamChunk
	if err := json.Unmarshal([]byte(raw), &chunk); err != nil {
		t.Fatalf("parseChunk: %v", err)
	}
	return chunk
}

func TestChatStreamHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"401","message":"bad key"}}`))
	}))
	defer srv.Close()

	c := NewClient("sk-or-test-0123456789abcdefghijklmnop").WithBaseURL(srv.URL)
	err := c.ChatStream(context.Background(), []ChatMessage{NewUserMessage("hi")}, func(StreamChunk) {})
	if err == nil || !strings.Contains(err.Error(), "authentication failed") {
		t.Errorf("err = %v, want auth failure", err)
	}
}

func TestStreamAccumulatorStats(t *testing.T) {
	acc := NewStreamAccumulator()

	acc.Add(parseChunk(t, `{"model":"test-model","choices":[{"delta":{"content":"hi"},"finish_reason":""}]}`))
	acc.Add(parseChunk(t, `{"choices":[{"delta":{},"finish_reason":"stop"}]}`))

	if acc.GetContent() != "hi" {
		t.Errorf("content = %q", acc.GetContent())
	}
	if !acc.Done || acc.FinishReason != "stop" {
		t.Errorf("done = %v reason = %q", acc.Done, acc.FinishReason)
	}
	stats := acc.GetStats()
	if stats.TokenCount != 1 || stats.Model != "test-model" {
		t.Errorf("stats = %+v", stats)
	}
}
