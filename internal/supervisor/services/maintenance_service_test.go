// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/cache"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

type fakeGC struct {
	result cache.GCResult
	err    error
	calls  atomic.Int32
}

func (f *fakeGC) RunGC(float64) (cache.GCResult, error) {
	f.calls.Add(1)
	return f.result, f.err
}

type fakeCheckpointer struct {
	calls       atomic.Int32
	hadDeadline atomic.Bool
}

func (f *fakeCheckpointer) Checkpoint(ctx context.Context) error {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); ok {
		f.hadDeadline.Store(true)
	}
	return nil
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestPeriodicService_RunsUntilCanceled(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	svc := NewPeriodicService("test-task", 10*time.Millisecond, 0, func(context.Context) error {
		runs.Add(1)
		return nil
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	waitFor(t, func() bool { return runs.Load() >= 3 })
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if svc.String() != "test-task" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestPeriodicService_TaskErrorDoesNotStopLoop(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	svc := NewPeriodicService("failing", 10*time.Millisecond, 0, func(context.Context) error {
		runs.Add(1)
		return errors.New("disk full")
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	waitFor(t, func() bool { return runs.Load() >= 2 })
	select {
	case err := <-done:
		t.Fatalf("Serve returned early: %v", err)
	default:
	}
}

func TestNewPeriodicService_Defaults(t *testing.T) {
	t.Parallel()

	svc := NewPeriodicService("defaults", 0, time.Hour, func(context.Context) error { return nil }, zerolog.Nop())
	if svc.interval != 10*time.Minute {
		t.Errorf("interval = %v, want 10m", svc.interval)
	}
	if svc.timeout != svc.interval {
		t.Errorf("timeout = %v, want capped at interval", svc.timeout)
	}
}

func TestCacheGCService_RecordsResult(t *testing.T) {
	t.Parallel()

	gc := &fakeGC{result: cache.GCRewritten}
	before := testutil.ToFloat64(metrics.CacheGCRuns.WithLabelValues(string(cache.GCRewritten)))

	svc := NewCacheGCService(gc, time.Hour, zerolog.Nop())
	svc.runOnce(context.Background())

	if gc.calls.Load() != 1 {
		t.Fatalf("RunGC calls = %d, want 1", gc.calls.Load())
	}
	after := testutil.ToFloat64(metrics.CacheGCRuns.WithLabelValues(string(cache.GCRewritten)))
	if after-before < 1 {
		t.Errorf("cache gc counter did not increase (%v -> %v)", before, after)
	}
}

func TestCheckpointService_BoundsEachRun(t *testing.T) {
	t.Parallel()

	store := &fakeCheckpointer{}
	svc := NewCheckpointService(store, time.Hour, zerolog.Nop())
	svc.runOnce(context.Background())

	if store.calls.Load() != 1 {
		t.Fatalf("Checkpoint calls = %d, want 1", store.calls.Load())
	}
	if !store.hadDeadline.Load() {
		t.Error("checkpoint ran without a deadline")
	}
	if svc.String() != "vector-checkpoint" {
		t.Errorf("String() = %q", svc.String())
	}
}
