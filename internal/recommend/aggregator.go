// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

// RecommendQuery aggregates similarity results over a set of rated seeds.
type RecommendQuery struct {
	ScoredItems     []ScoredItem    `json:"scored_items"`
	ExcludeIDs      []ExcludeItem   `json:"exclude_ids,omitempty"`
	MediaTypeFilter MediaTypeFilter `json:"media_type_filter"`
	Limit           int             `json:"limit"`
}

// Ranking is a ranked candidate list and whether it was served from cache.
type Ranking struct {
	Candidates []Candidate
	Cached     bool
}

// Recommender produces a ranking for a prepared query.
type Recommender interface {
	Rank(ctx context.Context, q RecommendQuery) (Ranking, error)
}

// Aggregator merges per-seed similarity results into one ranking.
// It is safe for concurrent use.
type Aggregator struct {
	finder SimilarFinder
	cfg    *Config
	logger zerolog.Logger
}

// NewAggregator creates an Aggregator over a SimilarFinder.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAggregator(finder SimilarFinder, cfg *Config, logger zerolog.Logger) *Aggregator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Aggregator{
		finder: finder,
		cfg:    cfg,
		logger: logger.With().Str("component", "aggregator").Logger(),
	}
}

// PrepareTopScoredItems reduces items to at most limit seeds. When items
// exceed the limit, the limit/2 highest scored and the remaining lowest
// scored items are kept, each group in its original relative order, highest
// group first. Otherwise items is returned unchanged.
func PrepareTopScoredItems(items []ScoredItem, limit int) []ScoredItem {
	if len(items) <= limit {
		return items
	}
	if limit <= 0 {
		return []ScoredItem{}
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return items[order[a]].Score > items[order[b]].Score
	})

	topN := limit / 2
	bottomN := limit - topN
	top := append([]int(nil), order[:topN]...)
	bottom := append([]int(nil), order[len(order)-bottomN:]...)
	sort.Ints(top)
	sort.Ints(bottom)

	out := make([]ScoredItem, 0, limit)
	for _, i := range top {
		out = append(out, items[i])
	}
	for _, i := range bottom {
		out = append(out, items[i])
	}
	return out
}

// Rank implements Recommender without caching.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (a *Aggregator) Rank(ctx context.Context, q RecommendQuery) (Ranking, error) {
	c, err := a.Recommend(ctx, q)
	return Ranking{Candidates: c}, err
}

// seedResult is the outcome of querying one seed.
type seedResult struct {
	candidates []Candidate
	err        error
}

// Recommend queries every seed concurrently and merges the results, keeping
// the maximum blended score per title. Seeds whose queries fail are skipped.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (a *Aggregator) Recommend(ctx context.Context, q RecommendQuery) ([]Candidate, error) {
	const op = "recommend"

	if err := a.validate(op, &q); err != nil {
		return nil, err
	}

	results := a.querySeeds(ctx, &q)

	if err := ctx.Err(); err != nil {
		return nil, Upstream(op, err)
	}

	upstreamFailures := 0
	for i, r := range results {
		if r.err == nil {
			continue
		}
		metrics.SeedFailures.Inc()
		if errors.Is(r.err, ErrUpstream) {
			upstreamFailures++
		}
		logging.Ctx(ctx).Warn().
			Err(r.err).
			Str("component", "aggregator").
			Str("seed", q.ScoredItems[i].Key().String()).
			Msg("Seed query failed, skipping")
	}
	if upstreamFailures == len(results) {
		return nil, &UpstreamError{Op: op, Msg: "every seed query failed", Err: results[0].err}
	}

	merged := a.merge(results, &q)
	limit := a.cfg.recommendLimit(q.Limit)
	if len(merged) > limit {
		merged = merged[:limit]
	}

	a.logger.Debug().
		Int("seeds", len(q.ScoredItems)).
		Int("failed_seeds", countFailed(results)).
		Int("returned", len(merged)).
		Str("filter", string(q.MediaTypeFilter)).
		Msg("aggregation complete")

	return merged, nil
}

func (a *Aggregator) validate(op string, q *RecommendQuery) error {
	if len(q.ScoredItems) == 0 {
		return Validationf(op, "at least one scored item is required")
	}
	if len(q.ScoredItems) > a.cfg.SeedCap {
		return Validationf(op, "%d scored items exceeds the cap of %d", len(q.ScoredItems), a.cfg.SeedCap)
	}
	for _, s := range q.ScoredItems {
		if s.Score < 1 || s.Score > 10 {
			return Validationf(op, "score %d for title %s is outside 1..10", s.Score, s.Key())
		}
		if s.TitleID <= 0 || !s.MediaType.Valid() {
			return Validationf(op, "invalid scored item %s", s.Key())
		}
	}
	if !q.MediaTypeFilter.Valid() {
		return Validationf(op, "media type filter must be movie, show or all, got %q", q.MediaTypeFilter)
	}
	return nil
}

// querySeeds runs one similarity query per seed and target table with at
// most MaxConcurrency seeds in flight.
func (a *Aggregator) querySeeds(ctx context.Context, q *RecommendQuery) []seedResult {
	results := make([]seedResult, len(q.ScoredItems))
	targets := q.MediaTypeFilter.Targets()

	var g errgroup.Group
	g.SetLimit(a.cfg.MaxConcurrency)

	for i, seed := range q.ScoredItems {
		g.Go(func() error {
			seedCtx, cancel := context.WithTimeout(ctx, a.cfg.SeedTimeout)
			defer cancel()

			var (
				all     []Candidate
				seedErr error
				failed  int
			)
			for _, target := range targets {
				c, err := a.finder.FindSimilar(seedCtx, SimilarQuery{
					Source:          seed.Key(),
					TargetMediaType: target,
					ExcludeIDs:      q.ExcludeIDs,
					Limit:           a.cfg.DefaultSimilarLimit,
				})
				if err != nil {
					failed++
					if seedErr == nil || errors.Is(err, ErrUpstream) {
						seedErr = err
					}
					continue
				}
				all = append(all, c...)
			}
			switch {
			case failed == len(targets):
				results[i] = seedResult{err: seedErr}
			case failed > 0:
				// Keep the tables that answered.
				logging.Ctx(ctx).Warn().
					Err(seedErr).
					Str("component", "aggregator").
					Str("seed", seed.Key().String()).
					Msg("Seed query failed for one table, keeping the rest")
				results[i] = seedResult{candidates: all}
			default:
				results[i] = seedResult{candidates: all}
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// merge keeps the highest blended score per title, drops seeds, excluded
// titles and titles outside the filter, and ranks the rest. Results are
// visited in seed order so equal scores resolve to the earliest seed.
func (a *Aggregator) merge(results []seedResult, q *RecommendQuery) []Candidate {
	exclude := make(map[TitleKey]struct{}, len(q.ScoredItems)+len(q.ExcludeIDs))
	for _, s := range q.ScoredItems {
		exclude[s.Key()] = struct{}{}
	}
	for _, k := range q.ExcludeIDs {
		exclude[k] = struct{}{}
	}

	best := make(map[TitleKey]Candidate)
	for _, r := range results {
		for _, c := range r.candidates {
			key := c.Key()
			if _, skip := exclude[key]; skip {
				continue
			}
			if !q.MediaTypeFilter.Allows(c.MediaType) {
				continue
			}
			if cur, ok := best[key]; !ok || c.BlendedScore > cur.BlendedScore {
				best[key] = c
			}
		}
	}

	merged := make([]Candidate, 0, len(best))
	for _, c := range best {
		merged = append(merged, c)
	}
	SortCandidates(merged)
	return merged
}

func countFailed(results []seedResult) int {
	n := 0
	for _, r := range results {
		if r.err != nil {
			n++
		}
	}
	return n
}
