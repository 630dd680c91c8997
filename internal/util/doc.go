// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers: atomic file writes and
// Unicode-safe string truncation.
package util
