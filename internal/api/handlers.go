// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"time"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// Engine is the recommendation surface the handlers call.
// *recommend.Engine implements it.
type Engine interface {
	Similar(ctx context.Context, req recommend.SimilarRequest) (recommend.Result, error)
	RecommendGuest(ctx context.Context, req recommend.GuestRequest) (recommend.Result, error)
	RecommendUser(ctx context.Context, req recommend.UserRequest) (recommend.Result, error)
	Search(ctx context.Context, req recommend.SearchRequest) (recommend.Result, error)
}

var _ Engine = (*recommend.Engine)(nil)

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessCheck names one dependency of the readiness probe.
type ReadinessCheck struct {
	Name   string
	Pinger Pinger
}

// Handler serves the REST endpoints.
type Handler struct {
	engine      Engine
	checks      []ReadinessCheck
	pingTimeout time.Duration
	startTime   time.Time
	version     string
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithReadinessChecks sets the dependencies pinged by /health/ready.
func WithReadinessChecks(checks ...ReadinessCheck) HandlerOption {
	return func(h *Handler) {
		h.checks = append(h.checks, checks...)
	}
}

// WithVersion sets the version reported by /health.
func WithVersion(version string) HandlerOption {
	return func(h *Handler) {
		h.version = version
	}
}

// NewHandler creates a Handler.
func NewHandler(engine Engine, opts ...HandlerOption) *Handler {
	h := &Handler{
		engine:      engine,
		pingTimeout: 2 * time.Second,
		startTime:   time.Now(),
		version:     "dev",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// recommendationsResponse is the payload of both recommendation endpoints.
type recommendationsResponse struct {
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// similarResponse is the payload of the similarity endpoint.
type similarResponse struct {
	Results []recommend.Recommendation `json:"results"`
}

// searchResponse is the payload of the search endpoint.
type searchResponse struct {
	Query   string                     `json:"query"`
	Results []recommend.Recommendation `json:"results"`
}

// items never returns nil so the JSON carries an empty array.
func items(res recommend.Result) []recommend.Recommendation {
	if res.Items == nil {
		return []recommend.Recommendation{}
	}
	return res.Items
}
