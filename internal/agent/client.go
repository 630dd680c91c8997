// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// CLIENT CONSTANTS
// =============================================================================

const (
	// DefaultBaseURL is the default assistant endpoint.
	DefaultBaseURL = "http://localhost:8000"

	// chatPath is the streaming chat endpoint path.
	chatPath = "/api/chat"

	// userAgent identifies this client to the server.
	userAgent = "courtside/0.2.0"

	// defaultSubmitRate caps outgoing chat requests. The upstream model is
	// itself rate limited, so the client refuses locally rather than
	// collecting 429s.
	defaultSubmitRate  = rate.Limit(10.0 / 60.0) // 10 per minute
	defaultSubmitBurst = 3
)

// sharedStreamingClient is used for all chat requests. No client timeout:
// the response is a long-lived stream, cancellation is context-driven.
var sharedStreamingClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatMessage is a single role/content pair in the request transcript.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of a streaming chat request. Profile and region
// fields are opaque pass-through context for the assistant; the client does
// not interpret them. An empty profile is omitted entirely.
type ChatRequest struct {
	Messages    []ChatMessage     `json:"messages"`
	UserProfile map[string]string `json:"user_profile,omitempty"`
	Country     string            `json:"country,omitempty"`
	Language    string            `json:"language"`
	Timezone    string            `json:"timezone,omitempty"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client opens streaming chat requests against the assistant endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client for the given base URL. An empty baseURL falls
// back to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: sharedStreamingClient,
		limiter:    rate.NewLimiter(defaultSubmitRate, defaultSubmitBurst),
	}
}

// WithHTTPClient sets a custom HTTP client. Mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithLimiter replaces the submit rate limiter. A nil limiter disables
// local rate limiting.
func (c *Client) WithLimiter(l *rate.Limiter) *Client {
	c.limiter = l
	return c
}

// BaseURL returns the configured endpoint base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// OpenStream submits a chat request and returns the response body for frame
// decoding. The caller owns the returned body and must close it.
//
// Failure classes: a local limiter refusal or an HTTP 429 wraps
// ErrRateLimited, a 5xx wraps ErrServer, any other non-2xx yields an
// *APIError, and a transport failure wraps ErrNetwork. Non-2xx bodies are
// not read; the status alone decides the class.
func (c *Client) OpenStream(ctx context.Context, chatReq ChatRequest) (io.ReadCloser, error) {
	if c.limiter != nil && !c.limiter.Allow() {
		return nil, fmt.Errorf("%w: submit limit reached, slow down", ErrRateLimited)
	}

	bodyBytes, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, classifyStatus(resp.StatusCode)
	}

	return resp.Body, nil
}
