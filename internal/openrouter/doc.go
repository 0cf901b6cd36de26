// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package openrouter implements the chat completions client for the
// OpenRouter API.
//
// The client supports non-streaming requests with retry and exponential
// backoff, and SSE streaming with context cancellation. A streaming
// failure preserves the partial content received so far in a StreamError,
// which lets the session controller decide between keeping the partial
// reply and falling back to a non-streaming request.
//
// Web search is requested either through the ":online" model suffix for
// models known to support it, or through the "web" request plugin for
// everything else.
package openrouter
