// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"github.com/courtside/courtside-tui/internal/model"
)

// =============================================================================
// SESSION STATE
// =============================================================================

// PendingSuggestion is a profile key/value pair proposed by the assistant.
// Suggestions accumulate during a turn and are never applied automatically;
// the user accepts or dismisses the whole batch.
type PendingSuggestion struct {
	Key   string
	Value string
}

// Region is opaque pass-through context sent with every request. The engine
// never interprets these values.
type Region struct {
	Country  string
	Language string
	Timezone string
}

// state is the mutable session state owned by the Engine. All access goes
// through the Engine's lock; the rest of the program only ever sees Snapshot
// copies.
type state struct {
	transcript *model.Transcript
	loading    bool

	// toolStatus is the display label of the currently running tool, "" when
	// no status is shown.
	toolStatus string

	pending []PendingSuggestion

	// chips holds the quick replies currently offered to the user. Chip
	// frames arriving mid-stream land in bufferedChips and are promoted to
	// chips only when the turn completes successfully.
	chips         []string
	bufferedChips []string

	errText string
}

func newState() *state {
	return &state{transcript: model.NewTranscript()}
}

// reset clears everything back to a fresh conversation.
func (s *state) reset() {
	s.transcript = model.NewTranscript()
	s.loading = false
	s.toolStatus = ""
	s.pending = nil
	s.chips = nil
	s.bufferedChips = nil
	s.errText = ""
}

// beginTurn prepares state for a new submit: per-turn side channels are
// cleared, the pending suggestion queue carries over.
func (s *state) beginTurn() {
	s.loading = true
	s.toolStatus = ""
	s.chips = nil
	s.bufferedChips = nil
	s.errText = ""
}

// addPending appends a suggestion unless an identical (key,value) pair is
// already queued.
func (s *state) addPending(key, value string) {
	for _, p := range s.pending {
		if p.Key == key && p.Value == value {
			return
		}
	}
	s.pending = append(s.pending, PendingSuggestion{Key: key, Value: value})
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is an immutable copy of the session state handed to observers and
// renderers. Mutating a snapshot never affects the engine.
type Snapshot struct {
	Messages           []*model.Message
	Loading            bool
	ToolStatus         string
	PendingSuggestions []PendingSuggestion
	Chips              []string
	ErrorText          string
}

// snapshot deep-copies the current state.
func (s *state) snapshot() Snapshot {
	snap := Snapshot{
		Loading:    s.loading,
		ToolStatus: s.toolStatus,
		ErrorText:  s.errText,
	}
	clone := s.transcript.Clone()
	snap.Messages = clone.Messages
	if len(s.pending) > 0 {
		snap.PendingSuggestions = append([]PendingSuggestion(nil), s.pending...)
	}
	if len(s.chips) > 0 {
		snap.Chips = append([]string(nil), s.chips...)
	}
	return snap
}
