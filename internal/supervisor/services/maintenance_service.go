// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/cache"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

// Task is one unit of periodic maintenance.
type Task func(ctx context.Context) error

// PeriodicService runs a Task on a fixed interval until its context ends.
// Task failures are logged and never returned, so suture does not restart
// the loop for them.
type PeriodicService struct {
	name     string
	interval time.Duration
	timeout  time.Duration
	task     Task
	logger   zerolog.Logger
}

// NewPeriodicService creates a PeriodicService. Each run is bounded by
// timeout, which defaults to the interval.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPeriodicService(name string, interval, timeout time.Duration, task Task, logger zerolog.Logger) *PeriodicService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}
	return &PeriodicService{
		name:     name,
		interval: interval,
		timeout:  timeout,
		task:     task,
		logger:   logger.With().Str("service", name).Logger(),
	}
}

// Serve implements suture.Service.
func (s *PeriodicService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("Maintenance service starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *PeriodicService) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.task(runCtx); err != nil {
		s.logger.Warn().Err(err).Dur("duration", time.Since(start)).Msg("Maintenance task failed")
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("Maintenance task complete")
}

// String names the service in suture events.
func (s *PeriodicService) String() string {
	return s.name
}

// GarbageCollector is a cache with a reclaimable value log.
type GarbageCollector interface {
	RunGC(discardRatio float64) (cache.GCResult, error)
}

// gcDiscardRatio rewrites value-log files that are at least half garbage.
const gcDiscardRatio = 0.5

// NewCacheGCService runs value-log GC on the memoization cache.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheGCService(gc GarbageCollector, interval time.Duration, logger zerolog.Logger) *PeriodicService {
	return NewPeriodicService("cache-gc", interval, 0, func(context.Context) error {
		result, err := gc.RunGC(gcDiscardRatio)
		metrics.CacheGCRuns.WithLabelValues(string(result)).Inc()
		return err
	}, logger)
}

// Checkpointer flushes a store's write-ahead log.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// NewCheckpointService checkpoints the vector store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCheckpointService(store Checkpointer, interval time.Duration, logger zerolog.Logger) *PeriodicService {
	return NewPeriodicService("vector-checkpoint", interval, time.Minute, store.Checkpoint, logger)
}
