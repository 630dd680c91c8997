// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/courtside/courtside-tui/internal/util"
)

// =============================================================================
// FILE STORE
// =============================================================================

// profileFileName is the profile file under the data directory.
const profileFileName = "profile.json"

// FileStore persists the profile as a JSON file. The file is read once at
// construction; a missing, unreadable, or corrupt file yields an empty
// profile rather than an error, so a damaged disk state never blocks a
// conversation.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// NewFileStore loads (or initializes) the profile at dir/profile.json.
func NewFileStore(dir string) *FileStore {
	s := &FileStore{
		path:   filepath.Join(dir, profileFileName),
		values: make(map[string]string),
	}
	s.load()
	return s
}

// load reads the profile file, tolerating every failure mode.
func (s *FileStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", s.path).Msg("profile unreadable, starting empty")
		}
		return
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("profile corrupt, starting empty")
		return
	}

	// Drop keys outside the closed set; older versions may have written
	// keys that no longer exist.
	for k, v := range values {
		if IsValidKey(k) {
			s.values[k] = v
		}
	}
}

// save writes the profile atomically.
func (s *FileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create profile dir: %w", err)
	}
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := util.AtomicWriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// Get returns a copy of the profile.
func (s *FileStore) Get() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Set stores one preference and persists immediately.
func (s *FileStore) Set(key, value string) error {
	if !IsValidKey(key) {
		return &ErrUnknownKey{Key: key}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.save()
}

// Remove deletes one preference and persists immediately.
func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.save()
}

// Clear deletes every preference and persists immediately.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	return s.save()
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemStore is an in-memory Store for tests and ephemeral runs.
type MemStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

// Get returns a copy of the profile.
func (s *MemStore) Get() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Set stores one preference.
func (s *MemStore) Set(key, value string) error {
	if !IsValidKey(key) {
		return &ErrUnknownKey{Key: key}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Remove deletes one preference.
func (s *MemStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Clear deletes every preference.
func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	return nil
}
