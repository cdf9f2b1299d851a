// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package embedding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/reelmatch/internal/breaker"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

// Provider computes an embedding vector for text.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Ensure HTTPProvider implements Provider
var _ Provider = (*HTTPProvider)(nil)

// maxErrorBody bounds how much of an error response is kept for logs.
const maxErrorBody = 512

// ProviderConfig configures an HTTPProvider.
type ProviderConfig struct {
	BaseURL string
	APIKey  string

	// Timeout bounds each HTTP call (default: 10s).
	Timeout time.Duration

	// RateLimit is requests per second; 0 disables limiting.
	RateLimit float64
	RateBurst int
}

// HTTPProvider calls a remote embedding service
//
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
type HTTPProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	cb         *breaker.Breaker
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// NewHTTPProvider creates an embedding provider client.
func NewHTTPProvider(cfg ProviderConfig) *HTTPProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	settings := breaker.DefaultSettings("embedding-provider")
	settings.Ignore = func(err error) bool {
		// A caller going away says nothing about provider health.
		return errors.Is(err, context.Canceled)
	}

	return &HTTPProvider{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
		cb:      breaker.New(settings),
	}
}

// Embed returns the embedding for text. Non-2xx responses, malformed bodies
// and empty vectors are errors.
func (p *HTTPProvider) Embed(ctx context.Context, text string) (vec []float32, err error) {
	start := time.Now()
	defer func() { metrics.RecordEmbeddingProviderCall(time.Since(start), err) }()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("embedding rate limit: %w", err)
	}

	return breaker.Execute(p.cb, func() ([]float32, error) {
		return p.embed(ctx, text)
	})
}

func (p *HTTPProvider) embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embedding", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("embedding provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("embedding provider returned an empty vector")
	}
	return out.Embedding, nil
}

// State returns the provider circuit breaker state.
func (p *HTTPProvider) State() string {
	return p.cb.State()
}
