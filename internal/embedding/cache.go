// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// ErrDuplicate is wrapped by repositories when an insert hits the unique
// constraint on normalized_query.
var ErrDuplicate = errors.New("query embedding already exists")

const (
	// DefaultMaxRetries is the number of extra attempts after a conflict.
	DefaultMaxRetries = 2

	// DefaultRetryDelay is the fixed pause between attempts.
	DefaultRetryDelay = 50 * time.Millisecond

	opGetOrCreate = "embedding.GetOrCreate"
)

// Repository stores query embeddings keyed by normalized query text.
type Repository interface {
	// LookupQueryEmbedding returns the stored vector and true, or false on a miss.
	LookupQueryEmbedding(ctx context.Context, normalized string) ([]float32, bool, error)

	// InsertQueryEmbedding stores a new vector. It returns an error wrapping
	// ErrDuplicate when the key already exists.
	InsertQueryEmbedding(ctx context.Context, normalized string, vec []float32) error
}

// Outcome is the result of a single get-or-create attempt.
type Outcome int

const (
	OutcomeHit Outcome = iota
	OutcomeCreated
	OutcomeConflict
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeCreated:
		return "created"
	case OutcomeConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// QueryCache resolves query text to an embedding, calling the provider at
// most once per normalized query across all callers.
type QueryCache struct {
	repo     Repository
	provider Provider
	group    singleflight.Group

	// MaxRetries and RetryDelay bound the conflict loop. Tests shorten them.
	MaxRetries int
	RetryDelay time.Duration
}

// Ensure QueryCache satisfies the engine's embedding source
var _ recommend.EmbeddingSource = (*QueryCache)(nil)

// NewQueryCache creates a QueryCache with the default retry policy.
func NewQueryCache(repo Repository, provider Provider) *QueryCache {
	return &QueryCache{
		repo:       repo,
		provider:   provider,
		MaxRetries: DefaultMaxRetries,
		RetryDelay: DefaultRetryDelay,
	}
}

// GetOrCreateEmbedding returns the embedding for text, creating and storing
// it on first use.
//
// Errors:
//   - ValidationError when text is empty after normalization
//   - UpstreamError when the provider or the repository fails
//   - RaceConditionError when inserts keep conflicting after MaxRetries
func (c *QueryCache) GetOrCreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	normalized := NormalizeQuery(text)
	if normalized == "" {
		return nil, recommend.Validationf(opGetOrCreate, "query is empty after normalization")
	}

	// The shared attempt must not die with whichever caller started it.
	ch := c.group.DoChan(normalized, func() (interface{}, error) {
		return c.resolve(context.WithoutCancel(ctx), normalized)
	})

	select {
	case <-ctx.Done():
		return nil, recommend.Upstream(opGetOrCreate, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		vec, ok := res.Val.([]float32)
		if !ok {
			return nil, recommend.Upstream(opGetOrCreate, fmt.Errorf("unexpected result type %T", res.Val))
		}
		if res.Shared {
			return append([]float32(nil), vec...), nil
		}
		return vec, nil
	}
}

// resolve runs the bounded attempt loop for one normalized key.
func (c *QueryCache) resolve(ctx context.Context, normalized string) ([]float32, error) {
	for attempt := 0; ; attempt++ {
		vec, outcome, err := c.attempt(ctx, normalized)
		if err != nil {
			return nil, err
		}
		metrics.RecordEmbeddingOutcome(outcome.String())

		if outcome != OutcomeConflict {
			return vec, nil
		}

		if attempt >= c.MaxRetries {
			metrics.RecordEmbeddingOutcome("exhausted")
			logging.Ctx(ctx).Warn().
				Str("query", normalized).
				Int("attempts", attempt+1).
				Msg("Query embedding insert kept conflicting")
			return nil, &recommend.RaceConditionError{
				Op:  opGetOrCreate,
				Msg: fmt.Sprintf("insert conflicted %d times", attempt+1),
				Err: ErrDuplicate,
			}
		}

		logging.Ctx(ctx).Debug().
			Str("query", normalized).
			Int("attempt", attempt+1).
			Msg("Query embedding insert conflicted, retrying")

		timer := time.NewTimer(c.RetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, recommend.Upstream(opGetOrCreate, ctx.Err())
		case <-timer.C:
		}
	}
}

// attempt performs one lookup, provider call and insert cycle.
func (c *QueryCache) attempt(ctx context.Context, normalized string) ([]float32, Outcome, error) {
	vec, found, err := c.repo.LookupQueryEmbedding(ctx, normalized)
	if err != nil {
		return nil, 0, &recommend.UpstreamError{Op: opGetOrCreate, Msg: "lookup failed", Err: err}
	}
	if found {
		return vec, OutcomeHit, nil
	}

	vec, err = c.provider.Embed(ctx, normalized)
	if err != nil {
		return nil, 0, &recommend.UpstreamError{Op: opGetOrCreate, Msg: "embedding provider failed", Err: err}
	}

	if err := c.repo.InsertQueryEmbedding(ctx, normalized, vec); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, OutcomeConflict, nil
		}
		return nil, 0, &recommend.UpstreamError{Op: opGetOrCreate, Msg: "insert failed", Err: err}
	}
	return vec, OutcomeCreated, nil
}
