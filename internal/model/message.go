// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/courtside/courtside-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in a transcript. Assistant messages start open
// (empty text) and are rewritten in place while the response streams; at most
// one open assistant message exists at a time.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`

	// IsError marks a message whose text is an error notice shown in place
	// of an assistant reply. Not persisted separately from text.
	IsError bool `json:"is_error,omitempty"`

	// IsPlaceholder marks the stand-in text for a turn that streamed no
	// reply. Display only; never sent back upstream as assistant content.
	IsPlaceholder bool `json:"is_placeholder,omitempty"`
}

// NewUserMessage creates a user message with the given text.
func NewUserMessage(text string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      RoleUser,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an empty assistant message to be filled while
// a response streams.
func NewAssistantMessage() *Message {
	return &Message{
		ID:        generateID(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
	}
}

// IsEmpty reports whether the message has no text.
func (m *Message) IsEmpty() bool {
	return len(m.Text) == 0
}

// Preview returns a truncated, single-line preview of the message text.
func (m *Message) Preview(maxLen int) string {
	return util.TruncateRunes(m.Text, maxLen)
}

// generateID creates a unique message ID.
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
