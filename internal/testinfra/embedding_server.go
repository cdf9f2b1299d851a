// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package testinfra

import (
	"hash/fnv"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

// EmbeddingCapture represents a captured embedding request.
type EmbeddingCapture struct {
	Method  string
	Path    string
	Headers http.Header
	Text    string
}

// MockEmbeddingServer provides a mock embedding provider. It answers
// POST /embedding with a deterministic vector derived from the request text
// and captures all incoming requests for verification.
type MockEmbeddingServer struct {
	Server   *httptest.Server
	Captures []EmbeddingCapture
	mu       sync.Mutex

	// Dimensions is the length of generated vectors (default: 8).
	Dimensions int

	// ResponseStatus overrides the HTTP status code when non-zero.
	ResponseStatus int

	// Delay is applied before answering each request.
	Delay time.Duration

	// ResponseFunc allows custom response handling per request.
	ResponseFunc func(w http.ResponseWriter, r *http.Request)
}

// NewMockEmbeddingServer creates a new mock embedding server. It is closed
// automatically when the test ends.
func NewMockEmbeddingServer(t *testing.T) *MockEmbeddingServer {
	t.Helper()

	m := &MockEmbeddingServer{
		Dimensions: 8,
		Captures:   make([]EmbeddingCapture, 0),
	}

	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.Server.Close)

	return m
}

func (m *MockEmbeddingServer) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	body, _ := io.ReadAll(r.Body)
	_ = r.Body.Close()
	_ = json.Unmarshal(body, &req)

	m.mu.Lock()
	m.Captures = append(m.Captures, EmbeddingCapture{
		Method:  r.Method,
		Path:    r.URL.Path,
		Headers: r.Header.Clone(),
		Text:    req.Text,
	})
	delay, status, fn, dims := m.Delay, m.ResponseStatus, m.ResponseFunc, m.Dimensions
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if fn != nil {
		fn(w, r)
		return
	}

	if r.Method != http.MethodPost || r.URL.Path != "/embedding" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if status != 0 && status != http.StatusOK {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]float32{
		"embedding": VectorFor(req.Text, dims),
	})
}

// URL returns the server URL.
func (m *MockEmbeddingServer) URL() string {
	return m.Server.URL
}

// Close shuts down the server.
func (m *MockEmbeddingServer) Close() {
	m.Server.Close()
}

// SetResponseStatus changes the status returned for subsequent requests.
func (m *MockEmbeddingServer) SetResponseStatus(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResponseStatus = status
}

// GetCaptures returns all captured requests.
func (m *MockEmbeddingServer) GetCaptures() []EmbeddingCapture {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]EmbeddingCapture, len(m.Captures))
	copy(result, m.Captures)
	return result
}

// Calls returns the number of requests received.
func (m *MockEmbeddingServer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Captures)
}

// VectorFor returns the deterministic vector the server produces for text.
func VectorFor(text string, dims int) []float32 {
	if dims <= 0 {
		dims = 8
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, dims)
	for i := range vec {
		// xorshift64
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17
		vec[i] = float32(seed%2000)/1000 - 1
	}
	return vec
}
