// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := NewFileStore(dir)
	require.NoError(t, s.Set(KeyCourtType, "DOUBLE"))
	require.NoError(t, s.Set(KeyCity, "Madrid"))

	// A fresh store over the same dir sees the persisted values.
	reloaded := NewFileStore(dir)
	got := reloaded.Get()
	assert.Equal(t, "DOUBLE", got[KeyCourtType])
	assert.Equal(t, "Madrid", got[KeyCity])
}

func TestFileStore_RejectsUnknownKey(t *testing.T) {
	s := NewFileStore(t.TempDir())
	err := s.Set("favorite_color", "blue")
	require.Error(t, err)

	var unknownKey *ErrUnknownKey
	require.ErrorAs(t, err, &unknownKey)
	assert.Equal(t, "favorite_color", unknownKey.Key)
	assert.Empty(t, s.Get())
}

func TestFileStore_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, profileFileName), []byte("{not json"), 0o600))

	s := NewFileStore(dir)
	assert.Empty(t, s.Get())

	// The store stays usable and recovers the file on the next write.
	require.NoError(t, s.Set(KeyDuration, "90"))
	assert.Equal(t, "90", NewFileStore(dir).Get()[KeyDuration])
}

func TestFileStore_DropsRetiredKeys(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, profileFileName),
		[]byte(`{"court_type":"SINGLE","retired_key":"x"}`), 0o600))

	s := NewFileStore(dir)
	got := s.Get()
	assert.Equal(t, "SINGLE", got[KeyCourtType])
	_, present := got["retired_key"]
	assert.False(t, present)
}

func TestFileStore_RemoveAndClear(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	require.NoError(t, s.Set(KeyCourtType, "DOUBLE"))
	require.NoError(t, s.Set(KeyCity, "Madrid"))

	require.NoError(t, s.Remove(KeyCity))
	require.NoError(t, s.Remove(KeyCity)) // absent key is a no-op
	assert.Equal(t, map[string]string{KeyCourtType: "DOUBLE"}, s.Get())

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Get())
	assert.Empty(t, NewFileStore(dir).Get())
}

func TestFileStore_GetReturnsCopy(t *testing.T) {
	s := NewFileStore(t.TempDir())
	require.NoError(t, s.Set(KeyCity, "Madrid"))

	got := s.Get()
	got[KeyCity] = "tampered"
	assert.Equal(t, "Madrid", s.Get()[KeyCity])
}

func TestKeySet(t *testing.T) {
	assert.True(t, IsValidKey(KeyClubSlug))
	assert.True(t, IsHiddenKey(KeyClubSlug))
	assert.False(t, IsHiddenKey(KeyClubName))
	assert.False(t, IsValidKey("nonsense"))

	for _, k := range DisplayKeys {
		assert.False(t, IsHiddenKey(k))
	}
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()
	require.NoError(t, s.Set(KeyDuration, "90"))
	assert.Equal(t, "90", s.Get()[KeyDuration])

	require.Error(t, s.Set("bogus", "x"))
	require.NoError(t, s.Remove(KeyDuration))
	require.NoError(t, s.Clear())
	assert.NotNil(t, s.Get())
}
