// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/courtside-tui/internal/model"
)

func openTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTranscript(question, answer string) *model.Transcript {
	t := model.NewTranscript()
	t.AddUserMessage(question)
	t.OpenAssistantMessage()
	t.SetLastAssistantText(answer)
	return t
}

func TestHistoryStore_SaveAndLoad(t *testing.T) {
	s := openTestStore(t)

	id, err := s.Save("", sampleTranscript("Find a court in Madrid", "Found 3 slots"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	loaded, err := s.Load(id)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	assert.Equal(t, "Find a court in Madrid", loaded.Messages[0].Text)
	assert.Equal(t, "Found 3 slots", loaded.Messages[1].Text)
}

func TestHistoryStore_SaveUpdatesInPlace(t *testing.T) {
	s := openTestStore(t)

	tr := sampleTranscript("first question", "first answer")
	id, err := s.Save("", tr)
	require.NoError(t, err)

	tr.AddUserMessage("second question")
	again, err := s.Save(id, tr)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	metas, err := s.List()
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, 3, metas[0].MessageCount)
}

func TestHistoryStore_RejectsEmptyTranscript(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Save("", model.NewTranscript())
	require.Error(t, err)
	_, err = s.Save("", nil)
	require.Error(t, err)
}

func TestHistoryStore_LoadMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Load("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHistoryStore_ListOrder(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Save("", sampleTranscript("older", "a"))
	require.NoError(t, err)
	newest, err := s.Save("", sampleTranscript("newer", "b"))
	require.NoError(t, err)

	metas, err := s.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, newest, metas[0].ID, "most recent first")
	assert.Equal(t, "newer", metas[0].Summary)
}

func TestHistoryStore_Search(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Save("", sampleTranscript("Find a padel court in Madrid", "Found 3 slots"))
	require.NoError(t, err)
	_, err = s.Save("", sampleTranscript("What is the weather", "Sunny"))
	require.NoError(t, err)

	// Matches in the summary.
	metas, err := s.Search("madrid")
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Contains(t, metas[0].Summary, "Madrid")

	// Matches in the assistant reply.
	metas, err = s.Search("sunny")
	require.NoError(t, err)
	require.Len(t, metas, 1)

	metas, err = s.Search("tennis")
	require.NoError(t, err)
	assert.Empty(t, metas)

	// Blank query lists everything.
	metas, err = s.Search("   ")
	require.NoError(t, err)
	assert.Len(t, metas, 2)
}

func TestHistoryStore_DeleteAndClear(t *testing.T) {
	s := openTestStore(t)

	id, err := s.Save("", sampleTranscript("q", "a"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(id))
	assert.ErrorIs(t, s.Delete(id), ErrNotFound)

	_, err = s.Save("", sampleTranscript("q2", "a2"))
	require.NoError(t, err)
	require.NoError(t, s.Clear())

	metas, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, metas)
}

func TestHistoryStore_Prune(t *testing.T) {
	s := openTestStore(t)
	s.MaxConversations = 3

	var last string
	for i := 0; i < 5; i++ {
		id, err := s.Save("", sampleTranscript("question", "answer"))
		require.NoError(t, err)
		last = id
	}

	metas, err := s.List()
	require.NoError(t, err)
	require.Len(t, metas, 3)
	assert.Equal(t, last, metas[0].ID, "newest conversations survive the prune")
}

func TestHistoryStore_LoadByIndex(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Save("", sampleTranscript("older", "a"))
	require.NoError(t, err)
	newest, err := s.Save("", sampleTranscript("newer", "b"))
	require.NoError(t, err)

	tr, id, err := s.LoadByIndex(0)
	require.NoError(t, err)
	assert.Equal(t, newest, id)
	assert.Equal(t, "newer", tr.Messages[0].Text)

	_, _, err = s.LoadByIndex(5)
	assert.ErrorIs(t, err, ErrNotFound)
}
