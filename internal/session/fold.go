// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"github.com/courtside/courtside-tui/internal/agent"
)

// =============================================================================
// LOCALIZER
// =============================================================================

// Localizer maps wire-level identifiers to display strings. The engine treats
// tool names and error codes as opaque; every method must return a usable
// string (deterministic fallback, no errors).
type Localizer interface {
	// ToolLabel returns the status label for a tool name. ok=false means the
	// tool is internal book-keeping and must not be surfaced.
	ToolLabel(tool string) (label string, ok bool)

	// ErrorMessage returns the user-facing notice for a failure class. code
	// is the machine code of a declared error, "" otherwise.
	ErrorMessage(class agent.ErrorClass, code string) string

	// EmptyReply is shown when a turn completes without any reply text.
	EmptyReply() string
}

// =============================================================================
// FRAME INTERPRETER
// =============================================================================

// effect is the asynchronous side effect a frame requests from the engine.
// The fold itself stays synchronous; only the engine owns timers.
type effect int

const (
	effectNone effect = iota
	// effectScheduleToolClear asks the engine to clear the tool status after
	// the debounce delay.
	effectScheduleToolClear
)

// apply folds one frame into the state. It returns a non-nil error only for
// an in-band error frame, which terminates the turn.
//
// Processing is strictly ordered and batch-invariant: the resulting state
// depends only on the frame sequence, never on how frames were grouped into
// network reads.
func (s *state) apply(frame agent.Frame, loc Localizer) (effect, error) {
	switch frame.Type {
	case agent.FrameToolStart:
		if label, ok := loc.ToolLabel(frame.Tool); ok {
			s.toolStatus = label
		}
		return effectNone, nil

	case agent.FrameToolEnd:
		return effectScheduleToolClear, nil

	case agent.FrameMessage:
		// Last write wins: the assistant refines its reply in place.
		s.transcript.SetLastAssistantText(frame.Text)
		return effectNone, nil

	case agent.FrameProfileSuggestion:
		s.addPending(frame.Key, frame.Value)
		return effectNone, nil

	case agent.FrameSuggestionChips:
		// Replace wholesale, and only into the buffer. Chips become visible
		// when the turn ends.
		s.bufferedChips = append([]string(nil), frame.Options...)
		return effectNone, nil

	case agent.FrameError:
		return effectNone, &agent.DeclaredError{Code: frame.Code, Message: frame.Message}
	}

	// Unknown types are filtered by the decoder; anything that still lands
	// here is ignored.
	return effectNone, nil
}
