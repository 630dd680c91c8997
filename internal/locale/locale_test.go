// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/courtside/courtside-tui/internal/agent"
)

func TestNegotiate(t *testing.T) {
	tests := []struct {
		pref string
		want language.Tag
	}{
		{"", language.English},
		{"en", language.English},
		{"en-US", language.English},
		{"es", language.Spanish},
		{"es-MX", language.Spanish},
		{"de-AT", language.German},
		{"fr", language.English}, // unsupported falls back
		{"de;q=0.9, es;q=1.0", language.Spanish},
		{"not a tag !!!", language.English},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Negotiate(tc.pref), "pref %q", tc.pref)
	}
}

func TestToolLabel(t *testing.T) {
	l := New("en")

	label, ok := l.ToolLabel("find_slots")
	assert.True(t, ok)
	assert.Equal(t, "Searching for available slots…", label)

	for _, tool := range []string{"update_user_profile", "suggest_next_steps", "is_weekend", ""} {
		_, ok := l.ToolLabel(tool)
		assert.False(t, ok, "tool %q must be suppressed", tool)
	}

	// Unknown visible tools degrade to a derived label.
	label, ok = l.ToolLabel("check_weather")
	assert.True(t, ok)
	assert.Equal(t, "Check weather…", label)
}

func TestToolLabel_Localized(t *testing.T) {
	label, ok := New("es").ToolLabel("find_slots")
	assert.True(t, ok)
	assert.Equal(t, "Buscando pistas disponibles…", label)

	label, ok = New("de").ToolLabel("create_booking_link")
	assert.True(t, ok)
	assert.Equal(t, "Buchungslink wird vorbereitet…", label)
}

func TestErrorMessage(t *testing.T) {
	l := New("en")

	// Known code wins over the class message.
	assert.Equal(t,
		"I could not find that club. Try the city or another spelling.",
		l.ErrorMessage(agent.ClassDeclared, "club_not_found"))

	// Unknown code falls back to the class message.
	assert.Equal(t,
		"The assistant could not complete that request.",
		l.ErrorMessage(agent.ClassDeclared, "mystery_code"))

	assert.Equal(t,
		"Too many requests. Give it a few seconds and try again.",
		l.ErrorMessage(agent.ClassRateLimit, ""))

	// Unknown class falls back to generic.
	assert.Equal(t,
		"Something went wrong with that request.",
		l.ErrorMessage(agent.ErrorClass("other"), ""))
}

func TestErrorMessage_Deterministic(t *testing.T) {
	l := New("es")
	first := l.ErrorMessage(agent.ClassNetwork, "")
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, l.ErrorMessage(agent.ClassNetwork, ""))
	}
}

func TestEmptyReply(t *testing.T) {
	assert.Equal(t, "(no response)", New("en").EmptyReply())
	assert.Equal(t, "(sin respuesta)", New("es").EmptyReply())
}
