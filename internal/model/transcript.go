// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"
)

// MaxMessages caps transcript length. Old turns are pruned beyond this to
// bound memory in long-running sessions.
const MaxMessages = 1000

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript holds an ordered conversation. It is append-only except for the
// trailing assistant message, which is rewritten in place while streaming.
type Transcript struct {
	Messages  []*Message `json:"messages"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	now := time.Now()
	return &Transcript{
		Messages:  make([]*Message, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddUserMessage appends a user message and returns it.
func (t *Transcript) AddUserMessage(text string) *Message {
	msg := NewUserMessage(text)
	t.append(msg)
	return msg
}

// OpenAssistantMessage appends an empty assistant message as the streaming
// target and returns it.
func (t *Transcript) OpenAssistantMessage() *Message {
	msg := NewAssistantMessage()
	t.append(msg)
	return msg
}

// Last returns the most recent message, or nil if the transcript is empty.
func (t *Transcript) Last() *Message {
	if len(t.Messages) == 0 {
		return nil
	}
	return t.Messages[len(t.Messages)-1]
}

// LastAssistant returns the most recent assistant message, or nil.
func (t *Transcript) LastAssistant() *Message {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].Role == RoleAssistant {
			return t.Messages[i]
		}
	}
	return nil
}

// SetLastAssistantText replaces the text of the trailing assistant message.
// Last write wins: a turn may carry several message frames as the reply is
// refined and only the latest matters. No-op when the trailing message is
// not an assistant message.
func (t *Transcript) SetLastAssistantText(text string) {
	last := t.Last()
	if last == nil || last.Role != RoleAssistant {
		return
	}
	last.Text = text
	t.UpdatedAt = time.Now()
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.Messages)
}

// IsEmpty reports whether the transcript has no messages.
func (t *Transcript) IsEmpty() bool {
	return len(t.Messages) == 0
}

// Clear removes all messages.
func (t *Transcript) Clear() {
	t.Messages = make([]*Message, 0)
	t.UpdatedAt = time.Now()
}

// Preview returns a short preview drawn from the first user message.
func (t *Transcript) Preview(maxLen int) string {
	for _, msg := range t.Messages {
		if msg.Role == RoleUser && msg.Text != "" {
			return msg.Preview(maxLen)
		}
	}
	return "New conversation"
}

// Clone returns a deep copy of the transcript. Used to hand the UI a
// snapshot that later frame processing cannot mutate underneath it.
func (t *Transcript) Clone() *Transcript {
	clone := &Transcript{
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Messages:  make([]*Message, len(t.Messages)),
	}
	for i, msg := range t.Messages {
		msgCopy := *msg
		clone.Messages[i] = &msgCopy
	}
	return clone
}

// append adds a message, bumps the timestamp, and prunes old history.
func (t *Transcript) append(msg *Message) {
	t.Messages = append(t.Messages, msg)
	t.UpdatedAt = time.Now()
	if len(t.Messages) > MaxMessages {
		t.Messages = t.Messages[len(t.Messages)-MaxMessages:]
	}
}
