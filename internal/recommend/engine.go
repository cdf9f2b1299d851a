// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/cache"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

// Memoization namespaces.
const (
	NamespaceSimilar   = "similar"
	NamespaceRecommend = "recommend"
)

// Dependencies are the collaborators an Engine is built from. Metadata and
// Embeddings are optional: without Metadata results carry no display fields,
// and without Embeddings Search is unavailable. A nil Cache selects an
// in-process MemoryStore.
type Dependencies struct {
	Vectors    VectorStore
	Ratings    RatingStore
	Metadata   MetadataStore
	Embeddings EmbeddingSource
	Cache      cache.Store
}

// SimilarRequest asks for titles similar to one title across one or both tables.
type SimilarRequest struct {
	TitleID         int64           `json:"title_id"`
	SourceMediaType MediaType       `json:"source_media_type"`
	AttributeKey    string          `json:"attribute_key,omitempty"`
	MediaType       MediaTypeFilter `json:"media_type"`
	ExcludeIDs      []TitleKey      `json:"exclude_ids,omitempty"`
	Limit           int             `json:"limit"`
}

// SearchRequest is a free-text search.
type SearchRequest struct {
	Query     string
	MediaType MediaTypeFilter
	Limit     int
}

// Result is an enriched ranking.
type Result struct {
	Items  []Recommendation
	Cached bool
}

// Engine is the entry point for similarity, recommendation and search.
// It is safe for concurrent use.
type Engine struct {
	cfg    *Config
	logger zerolog.Logger

	vectors    VectorStore
	metadata   MetadataStore
	embeddings EmbeddingSource

	scorer     *Scorer
	aggregator *Aggregator
	guest      *GuestAdapter
	user       *UserAdapter

	similarMemo   *cache.Memo[SimilarRequest, []Candidate]
	recommendMemo *cache.Memo[RecommendQuery, []Candidate]

	// ownedStore is the fallback cache built when none was injected.
	ownedStore *cache.MemoryStore
}

// NewEngine creates an Engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Vectors == nil {
		return nil, fmt.Errorf("vector store is required")
	}
	if deps.Ratings == nil {
		return nil, fmt.Errorf("rating store is required")
	}

	var owned *cache.MemoryStore
	store := deps.Cache
	if store == nil {
		owned = cache.NewMemoryStore(cache.MemoryOptions{MaxEntries: 10000, CleanupInterval: time.Minute})
		store = owned
	}

	e := &Engine{
		cfg:        cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		vectors:    deps.Vectors,
		metadata:   deps.Metadata,
		embeddings: deps.Embeddings,
		ownedStore: owned,
	}

	e.scorer = NewScorer(deps.Vectors, cfg, logger)
	e.aggregator = NewAggregator(e.scorer, cfg, logger)
	e.similarMemo = cache.NewMemo[SimilarRequest, []Candidate](store, NamespaceSimilar, cfg.SimilarTTL, e.similarKey)
	e.recommendMemo = cache.NewMemo[RecommendQuery, []Candidate](store, NamespaceRecommend, cfg.RecommendTTL, e.recommendKey)

	ranker := &memoRecommender{memo: e.recommendMemo, agg: e.aggregator}
	e.guest = NewGuestAdapter(ranker, cfg.SeedCap)
	e.user = NewUserAdapter(ranker, deps.Ratings, cfg.SeedCap, cfg.StoreTimeout)

	return e, nil
}

// Close stops the fallback cache if the engine built one. An injected
// cache belongs to the caller and is left open.
func (e *Engine) Close() error {
	if e.ownedStore == nil {
		return nil
	}
	return e.ownedStore.Close()
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.cfg.Clone()
}

// Similar ranks titles similar to one title. A MediaType of all queries both
// tables and merges them into one ranking.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Similar(ctx context.Context, req SimilarRequest) (res Result, err error) {
	start := time.Now()
	defer func() { metrics.RecordEngineOperation("similar", time.Since(start), ErrorKind(err)) }()

	if !req.MediaType.Valid() {
		return Result{}, Validationf("similar", "media type must be movie, show or all, got %q", req.MediaType)
	}

	candidates, cached, err := e.similarMemo.Do(ctx, req, e.similar)
	if err != nil {
		return Result{}, err
	}
	return Result{Items: e.enrich(ctx, candidates), Cached: cached}, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) similar(ctx context.Context, req SimilarRequest) ([]Candidate, error) {
	source := TitleKey{TitleID: req.TitleID, MediaType: req.SourceMediaType}

	var all []Candidate
	for _, target := range req.MediaType.Targets() {
		c, err := e.scorer.FindSimilar(ctx, SimilarQuery{
			Source:          source,
			AttributeKey:    req.AttributeKey,
			TargetMediaType: target,
			ExcludeIDs:      req.ExcludeIDs,
			Limit:           req.Limit,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, c...)
	}

	SortCandidates(all)
	if limit := e.cfg.similarLimit(req.Limit); len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// RecommendGuest ranks candidates for inline guest ratings.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) RecommendGuest(ctx context.Context, req GuestRequest) (res Result, err error) {
	start := time.Now()
	defer func() { metrics.RecordEngineOperation("recommend", time.Since(start), ErrorKind(err)) }()

	ranking, err := e.guest.Recommend(ctx, req)
	if err != nil {
		return Result{}, err
	}
	return Result{Items: e.enrich(ctx, ranking.Candidates), Cached: ranking.Cached}, nil
}

// RecommendUser ranks candidates for a user's stored ratings.
func (e *Engine) RecommendUser(ctx context.Context, req UserRequest) (res Result, err error) {
	start := time.Now()
	defer func() { metrics.RecordEngineOperation("recommend", time.Since(start), ErrorKind(err)) }()

	ranking, err := e.user.Recommend(ctx, req)
	if err != nil {
		return Result{}, err
	}
	return Result{Items: e.enrich(ctx, ranking.Candidates), Cached: ranking.Cached}, nil
}

// Search embeds free text and ranks titles by relevance to it. Candidates
// are filtered by the same popularity thresholds as similarity queries.
func (e *Engine) Search(ctx context.Context, req SearchRequest) (res Result, err error) {
	const op = "search"
	start := time.Now()
	defer func() { metrics.RecordEngineOperation(op, time.Since(start), ErrorKind(err)) }()

	if !req.MediaType.Valid() {
		return Result{}, Validationf(op, "media type must be movie, show or all, got %q", req.MediaType)
	}
	if e.embeddings == nil {
		return Result{}, &UpstreamError{Op: op, Msg: "embedding provider not configured"}
	}

	vector, err := e.embeddings.GetOrCreateEmbedding(ctx, req.Query)
	if err != nil {
		return Result{}, Upstream(op+".embed", err)
	}

	var all []Candidate
	for _, target := range req.MediaType.Targets() {
		hits, err := e.searchTable(ctx, target, vector)
		if err != nil {
			return Result{}, Upstream(op+".search", err)
		}
		for _, hit := range hits {
			if hit.MediaType == "" {
				hit.MediaType = target
			}
			all = append(all, Blend(hit, nil, ""))
		}
	}

	SortCandidates(all)
	if limit := e.cfg.recommendLimit(req.Limit); len(all) > limit {
		all = all[:limit]
	}
	return Result{Items: e.enrich(ctx, all)}, nil
}

func (e *Engine) searchTable(ctx context.Context, mediaType MediaType, vector []float32) ([]Hit, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.StoreTimeout)
	defer cancel()
	return e.vectors.Search(ctx, mediaType, vector, e.cfg.searchOptions())
}

// enrich attaches display metadata. Metadata failures degrade to bare
// candidates.
func (e *Engine) enrich(ctx context.Context, candidates []Candidate) []Recommendation {
	recs := make([]Recommendation, len(candidates))
	for i, c := range candidates {
		recs[i] = Recommendation{Candidate: c}
	}
	if e.metadata == nil || len(recs) == 0 {
		return recs
	}

	keys := make([]TitleKey, len(candidates))
	for i := range candidates {
		keys[i] = candidates[i].Key()
	}

	metaCtx, cancel := context.WithTimeout(ctx, e.cfg.StoreTimeout)
	defer cancel()

	meta, err := e.metadata.GetTitleMetadata(metaCtx, keys)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("component", "recommend").Msg("Title metadata unavailable, returning bare results")
		return recs
	}

	for i := range recs {
		if m, ok := meta[keys[i]]; ok {
			recs[i].Title = m.Title
			recs[i].Year = m.Year
			recs[i].PosterPath = m.PosterPath
			recs[i].Overview = m.Overview
		}
	}
	return recs
}

// similarKey canonicalizes a SimilarRequest. Exclusions are a set and the
// limit is resolved so equivalent requests share an entry.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) similarKey(req SimilarRequest) ([]byte, error) {
	req.ExcludeIDs = sortedKeys(req.ExcludeIDs)
	req.Limit = e.cfg.similarLimit(req.Limit)
	return cache.CanonicalJSON(req)
}

// recommendKey canonicalizes a RecommendQuery. Seed order is kept because
// it decides which seed's scores a tied candidate carries.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (e *Engine) recommendKey(q RecommendQuery) ([]byte, error) {
	q.ExcludeIDs = sortedKeys(q.ExcludeIDs)
	q.Limit = e.cfg.recommendLimit(q.Limit)
	return cache.CanonicalJSON(q)
}

func sortedKeys(keys []TitleKey) []TitleKey {
	if len(keys) == 0 {
		return nil
	}
	out := append([]TitleKey(nil), keys...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].MediaType != out[j].MediaType {
			return out[i].MediaType < out[j].MediaType
		}
		return out[i].TitleID < out[j].TitleID
	})
	return out
}

// memoRecommender memoizes aggregation results.
type memoRecommender struct {
	memo *cache.Memo[RecommendQuery, []Candidate]
	agg  *Aggregator
}

//nolint:gocritic // hugeParam: q passed by value for immutability
func (m *memoRecommender) Rank(ctx context.Context, q RecommendQuery) (Ranking, error) {
	c, cached, err := m.memo.Do(ctx, q, m.agg.Recommend)
	if err != nil {
		return Ranking{}, err
	}
	return Ranking{Candidates: c, Cached: cached}, nil
}
