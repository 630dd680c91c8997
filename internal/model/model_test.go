// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_AppendAndLast(t *testing.T) {
	tr := NewTranscript()
	assert.True(t, tr.IsEmpty())
	assert.Nil(t, tr.Last())

	user := tr.AddUserMessage("Find a court")
	assert.Equal(t, RoleUser, user.Role)
	assert.Equal(t, "Find a court", user.Text)
	assert.Same(t, user, tr.Last())

	asst := tr.OpenAssistantMessage()
	assert.Equal(t, RoleAssistant, asst.Role)
	assert.True(t, asst.IsEmpty())
	assert.Same(t, asst, tr.Last())
	assert.Same(t, asst, tr.LastAssistant())
	assert.Equal(t, 2, tr.Len())
}

func TestTranscript_SetLastAssistantText_LastWriteWins(t *testing.T) {
	tr := NewTranscript()
	tr.AddUserMessage("Find a court")
	tr.OpenAssistantMessage()

	tr.SetLastAssistantText("Looking...")
	tr.SetLastAssistantText("Found 3 slots")

	require.Equal(t, 2, tr.Len())
	assert.Equal(t, "Found 3 slots", tr.Last().Text)
}

func TestTranscript_SetLastAssistantText_NoOpenTarget(t *testing.T) {
	tr := NewTranscript()
	tr.AddUserMessage("hello")

	// Trailing message is a user message; nothing to mutate.
	tr.SetLastAssistantText("should be dropped")
	assert.Equal(t, "hello", tr.Last().Text)
}

func TestTranscript_Clone(t *testing.T) {
	tr := NewTranscript()
	tr.AddUserMessage("hi")
	tr.OpenAssistantMessage()

	clone := tr.Clone()
	tr.SetLastAssistantText("mutated after clone")

	assert.Equal(t, "", clone.Last().Text)
	assert.Equal(t, "mutated after clone", tr.Last().Text)
}

func TestTranscript_Preview(t *testing.T) {
	tr := NewTranscript()
	assert.Equal(t, "New conversation", tr.Preview(50))

	tr.AddUserMessage("Find me a double court tomorrow evening in Hamburg")
	assert.Equal(t, "Find me a double court tomorrow evening in Ham...", tr.Preview(49))
}

func TestTranscript_Prune(t *testing.T) {
	tr := NewTranscript()
	for i := 0; i < MaxMessages+10; i++ {
		tr.AddUserMessage("m")
	}
	assert.Equal(t, MaxMessages, tr.Len())
}

func TestMessage_IDsAreUnique(t *testing.T) {
	a := NewUserMessage("a")
	b := NewUserMessage("b")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Contains(t, a.ID, "msg_")
}
