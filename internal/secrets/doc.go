// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package secrets provides encrypted at-rest storage for the OpenRouter
// API key, with an optional TOTP unlock gate.
//
// Keys are derived from the user's password with Argon2id and the vault
// body is sealed with XChaCha20-Poly1305 authenticated encryption.
package secrets
