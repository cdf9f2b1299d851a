// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Similarity, recommendation and search latency
// - Memoization cache efficiency
// - Query embedding cache outcomes and insert races
// - Store and embedding provider calls
// - Circuit breakers

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Engine Metrics
	EngineOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_engine_operation_duration_seconds",
			Help:    "Duration of engine operations in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"}, // "similar", "recommend", "search"
	)

	EngineOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_engine_operation_errors_total",
			Help: "Total number of failed engine operations by error kind",
		},
		[]string{"operation", "kind"}, // kind: "validation", "not_found", "upstream", "race_condition", "other"
	)

	SeedFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmatch_seed_failures_total",
			Help: "Total number of seeds skipped because their similarity query failed",
		},
	)

	CandidatesScored = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelmatch_candidates_scored",
			Help:    "Number of ANN candidates scored per similarity query",
			Buckets: []float64{0, 10, 50, 100, 500, 1000, 2500, 5000, 10000},
		},
	)

	// Memoization Cache Metrics
	MemoCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_memo_cache_hits_total",
			Help: "Total number of memoization cache hits",
		},
		[]string{"namespace"},
	)

	MemoCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_memo_cache_misses_total",
			Help: "Total number of memoization cache misses",
		},
		[]string{"namespace"},
	)

	MemoCacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_memo_cache_errors_total",
			Help: "Total number of cache store failures treated as misses",
		},
		[]string{"namespace", "operation"}, // operation: "get", "set"
	)

	// Query Embedding Cache Metrics
	EmbeddingCacheOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_embedding_cache_outcomes_total",
			Help: "Query embedding cache attempt outcomes",
		},
		[]string{"outcome"}, // "hit", "created", "conflict", "exhausted"
	)

	EmbeddingProviderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelmatch_embedding_provider_duration_seconds",
			Help:    "Duration of embedding provider calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	EmbeddingProviderErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmatch_embedding_provider_errors_total",
			Help: "Total number of failed embedding provider calls",
		},
	)

	// Store Metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_store_query_duration_seconds",
			Help:    "Duration of store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"store", "operation"}, // store: "postgres", "duckdb", "badger"
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_store_query_errors_total",
			Help: "Total number of store query errors",
		},
		[]string{"store", "operation"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Cache Maintenance Metrics
	CacheGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_cache_gc_runs_total",
			Help: "Total number of cache value-log GC runs",
		},
		[]string{"result"}, // "rewritten", "noop", "error"
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordEngineOperation records the latency of an engine operation and, on
// failure, the error kind.
func RecordEngineOperation(operation string, duration time.Duration, errKind string) {
	EngineOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if errKind != "" {
		EngineOperationErrors.WithLabelValues(operation, errKind).Inc()
	}
}

// RecordStoreQuery records a store query metric
func RecordStoreQuery(store, operation string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(store, operation).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(store, operation).Inc()
	}
}

// RecordMemoLookup records a memoization cache hit or miss
func RecordMemoLookup(namespace string, hit bool) {
	if hit {
		MemoCacheHits.WithLabelValues(namespace).Inc()
		return
	}
	MemoCacheMisses.WithLabelValues(namespace).Inc()
}

// RecordMemoError records a cache store failure
func RecordMemoError(namespace, operation string) {
	MemoCacheErrors.WithLabelValues(namespace, operation).Inc()
}

// RecordEmbeddingOutcome records one attempt of the query embedding cache
func RecordEmbeddingOutcome(outcome string) {
	EmbeddingCacheOutcomes.WithLabelValues(outcome).Inc()
}

// RecordEmbeddingProviderCall records an embedding provider call
func RecordEmbeddingProviderCall(duration time.Duration, err error) {
	EmbeddingProviderDuration.Observe(duration.Seconds())
	if err != nil {
		EmbeddingProviderErrors.Inc()
	}
}
