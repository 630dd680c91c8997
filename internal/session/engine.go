// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtside/courtside-tui/internal/agent"
	"github.com/courtside/courtside-tui/internal/model"
)

// =============================================================================
// ENGINE CONSTANTS
// =============================================================================

// DefaultToolClearDelay is how long the tool status lingers after tool_end.
// Back-to-back tool calls reuse the indicator instead of flickering it.
const DefaultToolClearDelay = 400 * time.Millisecond

// ErrBusy is returned by Submit while a previous turn is still in flight.
// The turn is not queued; the caller resubmits once loading clears.
var ErrBusy = errors.New("a turn is already in flight")

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// StreamOpener opens one streaming chat request. Satisfied by *agent.Client.
type StreamOpener interface {
	OpenStream(ctx context.Context, req agent.ChatRequest) (io.ReadCloser, error)
}

// ProfileStore is the slice of the profile store the engine needs: read at
// request-build time, written when suggestions are accepted.
type ProfileStore interface {
	Get() map[string]string
	Set(key, value string) error
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine drives one conversation: Idle -> Streaming -> Idle per turn. All
// exported methods are safe for concurrent use; the stream itself is consumed
// by the single goroutine that called Submit.
type Engine struct {
	mu sync.Mutex

	opener   StreamOpener
	profiles ProfileStore
	loc      Localizer
	region   Region

	st *state

	// Tool status debounce. The generation counter invalidates timers from
	// finished turns.
	toolClearDelay time.Duration
	toolClearTimer *time.Timer
	toolClearGen   int

	onChange func(Snapshot)
}

// NewEngine creates an engine over the given collaborators.
func NewEngine(opener StreamOpener, profiles ProfileStore, loc Localizer) *Engine {
	return &Engine{
		opener:         opener,
		profiles:       profiles,
		loc:            loc,
		st:             newState(),
		toolClearDelay: DefaultToolClearDelay,
	}
}

// WithRegion sets the pass-through region context sent on every request.
func (e *Engine) WithRegion(r Region) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.region = r
	return e
}

// SetLocalizer swaps the localizer used for tool labels and notices, for
// example after a config reload changed the language. Takes effect on the
// next turn.
func (e *Engine) SetLocalizer(loc Localizer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loc = loc
}

// WithToolClearDelay overrides the tool status debounce. Mainly for tests.
func (e *Engine) WithToolClearDelay(d time.Duration) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.toolClearDelay = d
	return e
}

// SetChangeCallback registers the observer invoked with a fresh snapshot
// after every state change. Called outside the engine lock.
func (e *Engine) SetChangeCallback(fn func(Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.snapshot()
}

// =============================================================================
// SUBMIT
// =============================================================================

// Submit runs one full turn: append the prompt, open the stream, fold frames
// until the stream ends, finalize. It blocks until the turn reaches a
// terminal state, so callers that render concurrently run it on their own
// goroutine and watch the change callback.
//
// A blank or whitespace-only prompt is a no-op. A submit while another turn
// is in flight returns ErrBusy without touching state. Any other returned
// error has already been folded into the transcript as an error notice; most
// callers only need it for logging or exit codes.
func (e *Engine) Submit(ctx context.Context, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil
	}

	e.mu.Lock()
	if e.st.loading {
		e.mu.Unlock()
		return ErrBusy
	}
	e.cancelToolClearLocked()
	e.st.transcript.AddUserMessage(prompt)
	e.st.beginTurn()
	req := e.buildRequestLocked()
	e.mu.Unlock()
	e.notify()

	turnErr := e.runTurn(ctx, req)
	e.finalizeTurn(turnErr)
	return turnErr
}

// buildRequestLocked assembles the request body from the transcript so far,
// the profile (omitted when empty), and the region context.
func (e *Engine) buildRequestLocked() agent.ChatRequest {
	req := agent.ChatRequest{
		Country:  e.region.Country,
		Language: e.region.Language,
		Timezone: e.region.Timezone,
	}
	for _, msg := range e.st.transcript.Messages {
		if msg.IsError || msg.IsPlaceholder || msg.IsEmpty() {
			continue
		}
		req.Messages = append(req.Messages, agent.ChatMessage{
			Role:    msg.Role.String(),
			Content: msg.Text,
		})
	}
	if e.profiles != nil {
		if p := e.profiles.Get(); len(p) > 0 {
			req.UserProfile = p
		}
	}
	return req
}

// runTurn opens the stream and folds frames until it ends or fails.
func (e *Engine) runTurn(ctx context.Context, req agent.ChatRequest) error {
	body, err := e.opener.OpenStream(ctx, req)
	if err != nil {
		return err
	}
	defer body.Close()

	e.mu.Lock()
	e.st.transcript.OpenAssistantMessage()
	e.mu.Unlock()
	e.notify()

	reader := agent.NewFrameReader(body)
	for {
		frame, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		e.mu.Lock()
		eff, foldErr := e.st.apply(frame, e.loc)
		if eff == effectScheduleToolClear {
			e.scheduleToolClearLocked()
		}
		e.mu.Unlock()
		if foldErr != nil {
			return foldErr
		}
		e.notify()
	}
}

// finalizeTurn is the single terminal transition for a turn. On failure the
// error notice lands in the transcript: in place of the open assistant
// message when that is still empty, appended as its own message otherwise.
// On success buffered chips become visible. Either way loading and tool
// status are cleared.
func (e *Engine) finalizeTurn(turnErr error) {
	e.mu.Lock()
	e.cancelToolClearLocked()
	e.st.loading = false
	e.st.toolStatus = ""

	if turnErr != nil {
		class := agent.Classify(turnErr)
		notice := e.loc.ErrorMessage(class, agent.DeclaredCode(turnErr))
		e.st.errText = notice

		last := e.st.transcript.Last()
		if last == nil || last.Role != model.RoleAssistant {
			last = e.st.transcript.OpenAssistantMessage()
		}
		if last.IsEmpty() {
			last.Text = notice
		} else {
			last = e.st.transcript.OpenAssistantMessage()
			last.Text = notice
		}
		last.IsError = true

		log.Warn().Err(turnErr).Str("class", string(class)).Msg("turn failed")
	} else {
		if last := e.st.transcript.Last(); last != nil && last.Role == model.RoleAssistant && last.IsEmpty() {
			last.Text = e.loc.EmptyReply()
			last.IsPlaceholder = true
		}
		e.st.chips = e.st.bufferedChips
		e.st.bufferedChips = nil
	}
	e.mu.Unlock()
	e.notify()
}

// =============================================================================
// SUGGESTIONS
// =============================================================================

// AcceptSuggestions applies every pending suggestion to the profile store and
// clears the queue. The first store failure aborts and leaves the remaining
// suggestions pending.
func (e *Engine) AcceptSuggestions() error {
	e.mu.Lock()
	pending := append([]PendingSuggestion(nil), e.st.pending...)
	e.mu.Unlock()

	for i, p := range pending {
		if err := e.profiles.Set(p.Key, p.Value); err != nil {
			e.mu.Lock()
			e.st.pending = append([]PendingSuggestion(nil), pending[i:]...)
			e.mu.Unlock()
			e.notify()
			return err
		}
	}

	e.mu.Lock()
	e.st.pending = nil
	e.mu.Unlock()
	e.notify()
	return nil
}

// DismissSuggestions clears the pending queue without touching the profile.
func (e *Engine) DismissSuggestions() {
	e.mu.Lock()
	e.st.pending = nil
	e.mu.Unlock()
	e.notify()
}

// =============================================================================
// CONVERSATION LIFECYCLE
// =============================================================================

// Reset starts a new conversation: transcript and all side channels cleared.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.cancelToolClearLocked()
	e.st.reset()
	e.mu.Unlock()
	e.notify()
}

// LoadTranscript replaces the conversation with a previously saved one, for
// example when resuming from history. Side channels are cleared.
func (e *Engine) LoadTranscript(t *model.Transcript) {
	e.mu.Lock()
	e.cancelToolClearLocked()
	e.st.reset()
	if t != nil {
		e.st.transcript = t.Clone()
	}
	e.mu.Unlock()
	e.notify()
}

// Transcript returns a deep copy of the conversation, for persistence.
func (e *Engine) Transcript() *model.Transcript {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.transcript.Clone()
}

// =============================================================================
// TOOL STATUS DEBOUNCE
// =============================================================================

// scheduleToolClearLocked arms the debounce timer. A timer from an earlier
// generation finds the counter moved on and does nothing.
func (e *Engine) scheduleToolClearLocked() {
	if e.toolClearTimer != nil {
		e.toolClearTimer.Stop()
	}
	e.toolClearGen++
	gen := e.toolClearGen
	e.toolClearTimer = time.AfterFunc(e.toolClearDelay, func() {
		e.mu.Lock()
		if gen != e.toolClearGen {
			e.mu.Unlock()
			return
		}
		e.st.toolStatus = ""
		e.mu.Unlock()
		e.notify()
	})
}

// cancelToolClearLocked invalidates any armed debounce timer.
func (e *Engine) cancelToolClearLocked() {
	if e.toolClearTimer != nil {
		e.toolClearTimer.Stop()
		e.toolClearTimer = nil
	}
	e.toolClearGen++
}

// notify hands the observer a fresh snapshot, outside the lock.
func (e *Engine) notify() {
	e.mu.Lock()
	fn := e.onChange
	var snap Snapshot
	if fn != nil {
		snap = e.st.snapshot()
	}
	e.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}
