// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/reelmatch/internal/auth"
	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/middleware"
)

// RouterConfig holds the transport settings for the router.
type RouterConfig struct {
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool

	// RequestTimeout bounds each request's context.
	RequestTimeout time.Duration
}

// RouterConfigFrom builds a RouterConfig from the server and security sections.
func RouterConfigFrom(cfg *config.Config) RouterConfig {
	return RouterConfig{
		CORSOrigins:       cfg.Security.CORSOrigins,
		RateLimitRequests: cfg.Security.RateLimitReqs,
		RateLimitWindow:   cfg.Security.RateLimitWindow,
		RateLimitDisabled: cfg.Security.RateLimitDisabled,
		RequestTimeout:    cfg.Server.Timeout,
	}
}

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler *Handler
	auth    *auth.Middleware
	cfg     RouterConfig
}

// NewRouter creates a Router. The auth middleware guards the user endpoint;
// it must be built with an UnauthorizedFunc that writes the envelope, such
// as the one returned by UnauthorizedHandler.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware, cfg RouterConfig) *Router {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}
	return &Router{handler: handler, auth: authMiddleware, cfg: cfg}
}

// UnauthorizedHandler returns the envelope 401 writer for auth.NewMiddleware.
func UnauthorizedHandler() auth.UnauthorizedFunc {
	return unauthorized
}

// SetupChi builds the chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           86400,
	}))
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)
	r.Use(chimiddleware.Timeout(router.cfg.RequestTimeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", router.handler.Health)
	r.Get("/health/ready", router.handler.HealthReady)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.rateLimit())

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/guest", router.handler.GuestRecommendations)
			r.Post("/guest", router.handler.GuestRecommendationsBody)
			r.With(router.auth.RequireUser).Get("/user", router.handler.UserRecommendations)
		})

		r.Get("/titles/{tmdbId}/similar", router.handler.SimilarTitles)
		r.Get("/search", router.handler.Search)
		r.Get("/fingerprint/attributes", router.handler.FingerprintAttributes)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}

// rateLimit returns the per-IP limiter for /api/v1, or a pass-through when
// rate limiting is disabled.
func (router *Router) rateLimit() func(http.Handler) http.Handler {
	if router.cfg.RateLimitDisabled || router.cfg.RateLimitRequests <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return httprate.Limit(
		router.cfg.RateLimitRequests,
		router.cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			NewResponseWriter(w, r).Error(http.StatusTooManyRequests, ErrCodeTooManyRequests, "Rate limit exceeded")
		}),
	)
}
