// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelmatch/internal/auth"
	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

// fakeEngine records the last request of each kind.
type fakeEngine struct {
	mu sync.Mutex

	result recommend.Result
	err    error

	similarReq recommend.SimilarRequest
	guestReq   recommend.GuestRequest
	userReq    recommend.UserRequest
	searchReq  recommend.SearchRequest

	calls atomic.Int32
}

func (f *fakeEngine) Similar(_ context.Context, req recommend.SimilarRequest) (recommend.Result, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.similarReq = req
	return f.result, f.err
}

func (f *fakeEngine) RecommendGuest(_ context.Context, req recommend.GuestRequest) (recommend.Result, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guestReq = req
	return f.result, f.err
}

func (f *fakeEngine) RecommendUser(_ context.Context, req recommend.UserRequest) (recommend.Result, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userReq = req
	return f.result, f.err
}

func (f *fakeEngine) Search(_ context.Context, req recommend.SearchRequest) (recommend.Result, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchReq = req
	return f.result, f.err
}

type fakePinger struct {
	err   error
	calls atomic.Int32
}

func (p *fakePinger) Ping(context.Context) error {
	p.calls.Add(1)
	return p.err
}

// testServer bundles a router over a fake engine.
type testServer struct {
	engine  *fakeEngine
	handler http.Handler
	jwt     *auth.JWTManager
}

func newTestServer(t *testing.T, engine *fakeEngine, cfg RouterConfig, opts ...HandlerOption) *testServer {
	t.Helper()

	if engine == nil {
		engine = &fakeEngine{}
	}
	jwtManager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	router := NewRouter(
		NewHandler(engine, opts...),
		auth.NewMiddleware(jwtManager, UnauthorizedHandler()),
		cfg,
	)
	return &testServer{engine: engine, handler: router.SetupChi(), jwt: jwtManager}
}

func (s *testServer) do(t *testing.T, method, target string, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) bearer(t *testing.T, userID string) map[string]string {
	t.Helper()
	token, err := s.jwt.GenerateToken(userID, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// envelope mirrors APIResponse with a raw data payload.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	if env.Meta == nil {
		t.Fatal("envelope has no meta")
	}
	return env
}

func sampleResult() recommend.Result {
	return recommend.Result{Items: []recommend.Recommendation{
		{
			Candidate: recommend.Candidate{TitleID: 603, MediaType: recommend.MediaMovie, ANNScore: 0.9, FingerprintScore: 0.1, BlendedScore: 1.0},
			Title:     "The Matrix",
			Year:      1999,
		},
	}}
}

var errStoreDown = errors.New("connection refused")
