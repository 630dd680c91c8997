// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package profile persists the user's court-booking preferences. The profile
// is a small closed key set; it outlives any single conversation and is sent
// with every request so the assistant can skip questions it already knows
// the answer to.
package profile

import (
	"fmt"
)

// =============================================================================
// PROFILE KEYS
// =============================================================================

// The closed set of profile keys. KeyClubSlug is stored and transmitted but
// hidden from profile listings; the assistant resolves it from the club name.
const (
	KeyClubSlug      = "preferred_club_slug"
	KeyClubName      = "preferred_club_name"
	KeyCity          = "preferred_city"
	KeyCourtType     = "court_type"
	KeyDuration      = "duration"
	KeyPreferredTime = "preferred_time"
)

// Keys lists every valid profile key, display keys first.
var Keys = []string{
	KeyClubName,
	KeyCity,
	KeyCourtType,
	KeyDuration,
	KeyPreferredTime,
	KeyClubSlug,
}

// DisplayKeys lists the keys shown to the user, in listing order.
var DisplayKeys = []string{
	KeyClubName,
	KeyCity,
	KeyCourtType,
	KeyDuration,
	KeyPreferredTime,
}

// IsValidKey reports whether key belongs to the profile key set.
func IsValidKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// IsHiddenKey reports whether key is stored but excluded from listings.
func IsHiddenKey(key string) bool {
	return key == KeyClubSlug
}

// ErrUnknownKey is returned for writes outside the closed key set.
type ErrUnknownKey struct {
	Key string
}

// Error implements the error interface.
func (e *ErrUnknownKey) Error() string {
	return fmt.Sprintf("unknown profile key: %s", e.Key)
}

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is a persisted key/value preference map. Get returns a copy; writers
// never see their map mutated by later calls. Every mutation persists
// synchronously before returning.
type Store interface {
	// Get returns the full profile. Never returns nil.
	Get() map[string]string

	// Set stores one preference. Unknown keys are rejected.
	Set(key, value string) error

	// Remove deletes one preference. Removing an absent key is a no-op.
	Remove(key string) error

	// Clear deletes every preference.
	Clear() error
}
