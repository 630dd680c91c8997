// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat view. It renders session
// snapshots (transcript, tool status, chips, pending suggestions) and turns
// key presses into engine calls. All conversation logic lives in the session
// package; this package only presents it.
package chat
