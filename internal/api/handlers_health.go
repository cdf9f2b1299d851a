// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/tomtom215/reelmatch/internal/logging"
)

// HealthStatus is the liveness payload.
type HealthStatus struct {
	Status  string  `json:"status"`
	Version string  `json:"version"`
	Uptime  float64 `json:"uptime_seconds"`
}

// ReadinessStatus is the readiness payload.
type ReadinessStatus struct {
	Ready  bool              `json:"ready"`
	Checks map[string]string `json:"checks"`
	Uptime float64           `json:"uptime_seconds"`
}

// Health reports that the process is serving.
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(HealthStatus{
		Status:  "healthy",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
	})
}

// HealthReady pings every dependency concurrently. Any failure gives 503.
// @Summary Readiness probe
// @Description Pings Postgres, DuckDB and the cache.
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=ReadinessStatus}
// @Failure 503 {object} APIResponse{data=ReadinessStatus}
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), h.pingTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]string, len(h.checks))
		ready  = true
	)
	for _, c := range h.checks {
		wg.Add(1)
		go func(c ReadinessCheck) {
			defer wg.Done()
			status := "ok"
			if err := c.Pinger.Ping(ctx); err != nil {
				logging.Ctx(r.Context()).Warn().Err(err).Str("dependency", c.Name).Msg("Readiness check failed")
				status = "unavailable"
			}
			mu.Lock()
			defer mu.Unlock()
			checks[c.Name] = status
			if status != "ok" {
				ready = false
			}
		}(c)
	}
	wg.Wait()

	status := ReadinessStatus{
		Ready:  ready,
		Checks: checks,
		Uptime: time.Since(h.startTime).Seconds(),
	}
	if !ready {
		rw.Status(http.StatusServiceUnavailable, false, status)
		return
	}
	rw.Success(status)
}
