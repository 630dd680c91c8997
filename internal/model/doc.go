// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversation transcripts:
// roles, messages, and the transcript container mutated while a response
// streams in.
package model
