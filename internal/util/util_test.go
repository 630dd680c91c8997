// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.json")

	require.NoError(t, AtomicWriteFile(path, []byte(`{"a":1}`), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	// Overwrite replaces content wholesale.
	require.NoError(t, AtomicWriteFile(path, []byte(`{"b":2}`), 0o644))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short unchanged", "hello", 10, "hello"},
		{"exact unchanged", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 8, "hello..."},
		{"zero", "hello", 0, ""},
		{"tiny max", "hello", 2, "he"},
		{"multibyte safe", "padél padél", 8, "padél..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TruncateRunes(tc.in, tc.max))
		})
	}
}

func TestTruncateWidth(t *testing.T) {
	assert.Equal(t, "abc", TruncateWidth("abc", 10))
	assert.Equal(t, "", TruncateWidth("abc", 0))
	// Wide characters count double.
	got := TruncateWidth("日本語テスト", 6)
	assert.LessOrEqual(t, len([]rune(got)), 6)
}
