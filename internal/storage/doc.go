// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides conversation history persistence for courtside.
//
// Completed conversations are stored in a single SQLite database under the
// data directory. The transcript itself is stored as a JSON document; listing
// and search work off indexed metadata columns.
package storage
