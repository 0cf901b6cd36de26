// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render implements the incremental message render pipeline:
// fenced-code segmentation, a small fixed-order markdown subset, and the
// stream buffer that re-derives segments as chunks arrive.
//
// Segmentation is a pure function of the whole accumulated text, which
// makes rendering insensitive to chunk boundaries: a fence split across
// two network chunks produces exactly the same segments as one delivered
// whole. Code segment highlighting lives in ui/components.
package render
