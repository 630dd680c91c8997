// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package agent implements the client side of the court-finder assistant
// protocol: an HTTP client that opens a streaming chat request and a frame
// decoder that turns the line-oriented response body into typed frames.
//
// The wire format is a single long-lived response where each event is one
// line of the form
//
//	data: {"type":"message","text":"..."}
//
// carrying a type discriminator of tool_start, tool_end, message,
// profile_suggestion, suggestion_chips, or error. Lines that are not data
// lines, and payloads that fail to parse, are skipped without failing the
// stream.
package agent
