// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	// Tests never want the local submit limiter in the way.
	return NewClient(url).WithLimiter(nil)
}

func TestClient_OpenStream_SendsRequestShape(t *testing.T) {
	var gotBody map[string]any
	var gotAccept, gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"type\":\"message\",\"text\":\"hi\"}\n"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	body, err := c.OpenStream(context.Background(), ChatRequest{
		Messages:    []ChatMessage{{Role: "user", Content: "Find a court"}},
		UserProfile: map[string]string{"court_type": "DOUBLE"},
		Country:     "DE",
		Language:    "de",
		Timezone:    "Europe/Berlin",
	})
	require.NoError(t, err)
	defer body.Close()

	assert.Equal(t, "text/event-stream", gotAccept)
	assert.Equal(t, "application/json", gotContentType)

	profile, ok := gotBody["user_profile"].(map[string]any)
	require.True(t, ok, "user_profile should be present")
	assert.Equal(t, "DOUBLE", profile["court_type"])
	assert.Equal(t, "DE", gotBody["country"])
	assert.Equal(t, "de", gotBody["language"])
	assert.Equal(t, "Europe/Berlin", gotBody["timezone"])

	msgs, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	first := msgs[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, "Find a court", first["content"])
}

func TestClient_OpenStream_OmitsEmptyProfile(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte("data: {\"type\":\"message\",\"text\":\"hi\"}\n"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	body, err := c.OpenStream(context.Background(), ChatRequest{
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
		Language: "en",
	})
	require.NoError(t, err)
	body.Close()

	_, present := gotBody["user_profile"]
	assert.False(t, present, "empty profile must be omitted from the body")
}

func TestClient_OpenStream_StatusClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantClass ErrorClass
		sentinel  error
	}{
		{"rate limited", http.StatusTooManyRequests, ClassRateLimit, ErrRateLimited},
		{"server error", http.StatusInternalServerError, ClassServer, ErrServer},
		{"bad gateway", http.StatusBadGateway, ClassServer, ErrServer},
		{"bad request", http.StatusBadRequest, ClassGeneric, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			c := newTestClient(srv.URL)
			_, err := c.OpenStream(context.Background(), ChatRequest{
				Messages: []ChatMessage{{Role: "user", Content: "hi"}},
				Language: "en",
			})
			require.Error(t, err)
			assert.Equal(t, tc.wantClass, Classify(err))
			if tc.sentinel != nil {
				assert.True(t, errors.Is(err, tc.sentinel))
			}
		})
	}
}

func TestClient_OpenStream_NetworkError(t *testing.T) {
	// Nothing listens here.
	c := newTestClient("http://127.0.0.1:1")
	_, err := c.OpenStream(context.Background(), ChatRequest{
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
		Language: "en",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.Equal(t, ClassNetwork, Classify(err))
}

func TestClient_OpenStream_BodyIsReadable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleStream))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	body, err := c.OpenStream(context.Background(), ChatRequest{
		Messages: []ChatMessage{{Role: "user", Content: "Find a court"}},
		Language: "en",
	})
	require.NoError(t, err)
	defer body.Close()

	frames := readAllFrames(t, body)
	require.Len(t, frames, 4)
	assert.Equal(t, "Found 3 slots", frames[2].Text)
}

func TestClassify_Declared(t *testing.T) {
	err := &DeclaredError{Code: "club_not_found", Message: "No club matched"}
	assert.Equal(t, ClassDeclared, Classify(err))
	assert.Equal(t, "club_not_found", DeclaredCode(err))
	assert.Equal(t, "", DeclaredCode(io.ErrUnexpectedEOF))
}
