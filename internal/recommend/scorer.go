// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/metrics"
)

// SimilarQuery asks for titles similar to Source within one media type table.
type SimilarQuery struct {
	Source          TitleKey   `json:"source"`
	AttributeKey    string     `json:"attribute_key,omitempty"`
	TargetMediaType MediaType  `json:"target_media_type"`
	ExcludeIDs      []TitleKey `json:"exclude_ids,omitempty"`
	Limit           int        `json:"limit"`
}

// SimilarFinder ranks titles similar to a source title.
type SimilarFinder interface {
	FindSimilar(ctx context.Context, q SimilarQuery) ([]Candidate, error)
}

// Scorer blends ANN relevance with fingerprint proximity.
// It is safe for concurrent use.
type Scorer struct {
	store  VectorStore
	cfg    *Config
	logger zerolog.Logger
}

// NewScorer creates a Scorer over a vector store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewScorer(store VectorStore, cfg *Config, logger zerolog.Logger) *Scorer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Scorer{
		store:  store,
		cfg:    cfg,
		logger: logger.With().Str("component", "scorer").Logger(),
	}
}

// FindSimilar returns candidates from the target table ranked by blended
// score. The source title and every excluded title are omitted.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (s *Scorer) FindSimilar(ctx context.Context, q SimilarQuery) ([]Candidate, error) {
	const op = "find_similar"

	if err := validateSimilarQuery(op, &q); err != nil {
		return nil, err
	}

	source, err := s.getTitle(ctx, q.Source)
	if err != nil {
		if errors.Is(err, ErrTitleNotFound) {
			return nil, &NotFoundError{Op: op, Msg: fmt.Sprintf("title %s has no stored embedding", q.Source), Err: err}
		}
		return nil, Upstream(op+".get_title", err)
	}
	if len(source.Embedding) == 0 {
		return nil, &NotFoundError{Op: op, Msg: fmt.Sprintf("title %s has no stored embedding", q.Source)}
	}

	hits, err := s.search(ctx, q.TargetMediaType, source.Embedding)
	if err != nil {
		return nil, Upstream(op+".search", err)
	}
	metrics.CandidatesScored.Observe(float64(len(hits)))

	exclude := make(map[TitleKey]struct{}, len(q.ExcludeIDs)+1)
	exclude[q.Source] = struct{}{}
	for _, k := range q.ExcludeIDs {
		exclude[k] = struct{}{}
	}

	candidates := make([]Candidate, 0, len(hits))
	for _, hit := range hits {
		if hit.MediaType == "" {
			hit.MediaType = q.TargetMediaType
		}
		if _, skip := exclude[TitleKey{TitleID: hit.TitleID, MediaType: hit.MediaType}]; skip {
			continue
		}
		candidates = append(candidates, Blend(hit, source.Fingerprint, q.AttributeKey))
	}

	SortCandidates(candidates)

	limit := s.cfg.similarLimit(q.Limit)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	s.logger.Debug().
		Str("source", q.Source.String()).
		Str("target", string(q.TargetMediaType)).
		Str("attribute", q.AttributeKey).
		Int("hits", len(hits)).
		Int("returned", len(candidates)).
		Msg("similarity query complete")

	return candidates, nil
}

func validateSimilarQuery(op string, q *SimilarQuery) error {
	if q.Source.TitleID <= 0 {
		return Validationf(op, "source title id is required")
	}
	if !q.Source.MediaType.Valid() {
		return Validationf(op, "unknown source media type %q", q.Source.MediaType)
	}
	if !q.TargetMediaType.Valid() {
		return Validationf(op, "unknown target media type %q", q.TargetMediaType)
	}
	if q.AttributeKey != "" && !IsAttribute(q.AttributeKey) {
		return Validationf(op, "unknown fingerprint attribute %q", q.AttributeKey)
	}
	return nil
}

func (s *Scorer) getTitle(ctx context.Context, key TitleKey) (Title, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	return s.store.GetTitle(ctx, key.MediaType, key.TitleID)
}

func (s *Scorer) search(ctx context.Context, mediaType MediaType, vector []float32) ([]Hit, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	return s.store.Search(ctx, mediaType, vector, s.cfg.searchOptions())
}
