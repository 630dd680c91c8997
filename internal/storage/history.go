// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/courtside/courtside-tui/internal/model"
)

// =============================================================================
// CONSTANTS AND ERRORS
// =============================================================================

// historyFileName is the database file under the data directory.
const historyFileName = "history.db"

// DefaultMaxConversations bounds stored history; the oldest conversations
// beyond the limit are pruned on save. Zero disables pruning.
const DefaultMaxConversations = 100

// ErrNotFound is returned when a conversation ID does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &HistoryError{Message: "conversation not found"}

// HistoryError represents a history-store error.
type HistoryError struct {
	Message string
}

// Error implements the error interface.
func (e *HistoryError) Error() string {
	return e.Message
}

// Is implements errors.Is support.
func (e *HistoryError) Is(target error) bool {
	t, ok := target.(*HistoryError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id         TEXT PRIMARY KEY,
	summary    TEXT NOT NULL,
	transcript TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversations_updated
	ON conversations (updated_at DESC);
`

// =============================================================================
// HISTORY STORE
// =============================================================================

// Meta is the listing row for a stored conversation.
type Meta struct {
	ID           string
	Summary      string
	MessageCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HistoryStore persists conversations in SQLite.
type HistoryStore struct {
	db *sql.DB

	// MaxConversations limits stored history (0 = unlimited).
	MaxConversations int
}

// Open opens (or creates) the history database under dir.
func Open(dir string) (*HistoryStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, historyFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}
	// The database is single-user local state; one connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &HistoryStore{db: db, MaxConversations: DefaultMaxConversations}, nil
}

// Close releases the database handle.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// SAVE AND LOAD
// =============================================================================

// Save persists a transcript and returns the conversation ID. An empty id
// creates a new conversation; an existing id updates it in place.
func (s *HistoryStore) Save(id string, t *model.Transcript) (string, error) {
	if t == nil || t.IsEmpty() {
		return "", &HistoryError{Message: "refusing to save an empty conversation"}
	}
	if id == "" {
		id = uuid.NewString()
	}

	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("failed to marshal transcript: %w", err)
	}

	now := time.Now()
	created := t.CreatedAt
	if created.IsZero() {
		created = now
	}

	_, err = s.db.Exec(`
		INSERT INTO conversations (id, summary, transcript, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			summary = excluded.summary,
			transcript = excluded.transcript,
			updated_at = excluded.updated_at`,
		id, t.Preview(80), string(data), created.UnixNano(), now.UnixNano())
	if err != nil {
		return "", fmt.Errorf("failed to save conversation: %w", err)
	}

	if s.MaxConversations > 0 {
		s.prune()
	}
	return id, nil
}

// Load retrieves a conversation by ID.
func (s *HistoryStore) Load(id string) (*model.Transcript, error) {
	var data string
	err := s.db.QueryRow(
		`SELECT transcript FROM conversations WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	var t model.Transcript
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return nil, fmt.Errorf("failed to decode conversation %s: %w", id, err)
	}
	return &t, nil
}

// LoadByIndex loads a conversation by its position in the listing
// (0 = most recent).
func (s *HistoryStore) LoadByIndex(index int) (*model.Transcript, string, error) {
	metas, err := s.List()
	if err != nil {
		return nil, "", err
	}
	if index < 0 || index >= len(metas) {
		return nil, "", ErrNotFound
	}
	t, err := s.Load(metas[index].ID)
	return t, metas[index].ID, err
}

// =============================================================================
// LIST AND SEARCH
// =============================================================================

// List returns all stored conversations, most recent first.
func (s *HistoryStore) List() ([]Meta, error) {
	rows, err := s.db.Query(`
		SELECT id, summary, transcript, created_at, updated_at
		FROM conversations ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()
	return scanMetas(rows)
}

// Search returns conversations whose summary or message text contains the
// query, case-insensitive, most recent first. An empty query lists all.
func (s *HistoryStore) Search(query string) ([]Meta, error) {
	if strings.TrimSpace(query) == "" {
		return s.List()
	}
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := s.db.Query(`
		SELECT id, summary, transcript, created_at, updated_at
		FROM conversations
		WHERE lower(summary) LIKE ? OR lower(transcript) LIKE ?
		ORDER BY updated_at DESC`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search conversations: %w", err)
	}
	defer rows.Close()
	return scanMetas(rows)
}

func scanMetas(rows *sql.Rows) ([]Meta, error) {
	var metas []Meta
	for rows.Next() {
		var m Meta
		var data string
		var created, updated int64
		if err := rows.Scan(&m.ID, &m.Summary, &data, &created, &updated); err != nil {
			return nil, err
		}
		m.CreatedAt = time.Unix(0, created)
		m.UpdatedAt = time.Unix(0, updated)

		// Message count comes from the stored document; corrupted rows list
		// with a zero count rather than failing the whole listing.
		var t model.Transcript
		if err := json.Unmarshal([]byte(data), &t); err == nil {
			m.MessageCount = t.Len()
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// =============================================================================
// DELETE AND PRUNE
// =============================================================================

// Delete removes a conversation by ID.
func (s *HistoryStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes all stored conversations.
func (s *HistoryStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM conversations`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// prune deletes the oldest conversations beyond MaxConversations.
func (s *HistoryStore) prune() {
	s.db.Exec(`
		DELETE FROM conversations WHERE id IN (
			SELECT id FROM conversations
			ORDER BY updated_at DESC
			LIMIT -1 OFFSET ?
		)`, s.MaxConversations)
}
