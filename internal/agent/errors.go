// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// Sentinel errors for the failure classes a turn can end in. Use errors.Is
// to test against them.
var (
	// ErrRateLimited indicates the server answered 429, or the local submit
	// limiter refused the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrServer indicates the server answered with a 5xx status.
	ErrServer = errors.New("server error")

	// ErrNetwork indicates a transport failure: no response at all.
	ErrNetwork = errors.New("network error")
)

// APIError is a non-2xx response received before any stream body was read.
type APIError struct {
	Status int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("chat request failed (HTTP %d)", e.Status)
}

// DeclaredError is an in-band error frame: the server declared the turn
// failed and optionally attached a machine code. The code is opaque to this
// layer; the locale package maps it to a display string.
type DeclaredError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *DeclaredError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("assistant error [%s]: %s", e.Code, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("assistant error: %s", e.Message)
	}
	return "assistant error"
}

// classifyStatus maps a non-2xx response status to an error. The body is
// deliberately not read: status alone decides the class.
func classifyStatus(status int) error {
	switch {
	case status == 429:
		return fmt.Errorf("%w (HTTP %d)", ErrRateLimited, status)
	case status >= 500:
		return fmt.Errorf("%w (HTTP %d)", ErrServer, status)
	default:
		return &APIError{Status: status}
	}
}

// =============================================================================
// ERROR CLASSES
// =============================================================================

// ErrorClass is the user-facing failure class of a turn. Callers map a class
// (plus an optional declared code) to a localized message.
type ErrorClass string

const (
	ClassNetwork   ErrorClass = "network"
	ClassServer    ErrorClass = "server"
	ClassRateLimit ErrorClass = "rate_limit"
	ClassDeclared  ErrorClass = "declared"
	ClassGeneric   ErrorClass = "generic"
)

// Classify buckets an error from a turn into its failure class.
func Classify(err error) ErrorClass {
	var declared *DeclaredError
	if errors.As(err, &declared) {
		return ClassDeclared
	}
	if errors.Is(err, ErrRateLimited) {
		return ClassRateLimit
	}
	if errors.Is(err, ErrServer) {
		return ClassServer
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return ClassGeneric
	}
	// Anything else is a transport-level failure: no usable response.
	return ClassNetwork
}

// DeclaredCode extracts the machine code from a declared error, or "" when
// the error is not declared or carries no code.
func DeclaredCode(err error) string {
	var declared *DeclaredError
	if errors.As(err, &declared) {
		return declared.Code
	}
	return ""
}
