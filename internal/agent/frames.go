// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

// =============================================================================
// FRAME TYPES
// =============================================================================

// FrameType discriminates the event frames on the wire.
type FrameType string

const (
	FrameToolStart         FrameType = "tool_start"
	FrameToolEnd           FrameType = "tool_end"
	FrameMessage           FrameType = "message"
	FrameProfileSuggestion FrameType = "profile_suggestion"
	FrameSuggestionChips   FrameType = "suggestion_chips"
	FrameError             FrameType = "error"
)

// knownFrameTypes is the set of frame types this client understands.
// Anything else decoded off the wire is dropped.
var knownFrameTypes = map[FrameType]bool{
	FrameToolStart:         true,
	FrameToolEnd:           true,
	FrameMessage:           true,
	FrameProfileSuggestion: true,
	FrameSuggestionChips:   true,
	FrameError:             true,
}

// Frame is one decoded unit of the streaming protocol. The populated fields
// depend on Type; unused fields stay zero.
type Frame struct {
	Type FrameType `json:"type"`

	// tool_start
	Tool string `json:"tool,omitempty"`

	// message
	Text string `json:"text,omitempty"`

	// profile_suggestion
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`

	// suggestion_chips
	Options []string `json:"options,omitempty"`

	// error
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// IsKnown reports whether the frame carries a type this client understands.
func (f Frame) IsKnown() bool {
	return knownFrameTypes[f.Type]
}
