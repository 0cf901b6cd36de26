// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management
// for deskchat.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.deskchat/config.toml
//   - ~/.deskchat/config.json
//   - Built-in defaults
//
// Environment variables (OPENROUTER_API_KEY, DESKCHAT_MODEL,
// DESKCHAT_THEME, DESKCHAT_DATA_DIR, ...) override file values.
package config
