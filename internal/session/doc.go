// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the conversation state machine. The Engine submits a
// prompt to the assistant, folds the resulting event frames into a transcript
// and side-channel UI state (tool status, pending profile suggestions,
// quick-reply chips), and notifies observers with immutable snapshots.
//
// One Engine owns one conversation. A turn is a single submit-to-terminal
// cycle; while a turn is in flight further submits are rejected with ErrBusy.
package session
