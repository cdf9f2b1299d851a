// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"fmt"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/embedding"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// initEngine builds the recommendation engine over the opened stores.
func initEngine(cfg *config.Config, st *stores) (*recommend.Engine, error) {
	engineCfg := buildEngineConfig(cfg)

	provider := embedding.NewHTTPProvider(embedding.ProviderConfig{
		BaseURL:   cfg.Embedding.BaseURL,
		APIKey:    cfg.Embedding.APIKey,
		Timeout:   cfg.Embedding.Timeout,
		RateLimit: cfg.Embedding.RateLimit,
		RateBurst: cfg.Embedding.RateBurst,
	})

	engine, err := recommend.NewEngine(engineCfg, recommend.Dependencies{
		Vectors:    st.vectors,
		Ratings:    st.db,
		Metadata:   st.db,
		Embeddings: embedding.NewQueryCache(st.db, provider),
		Cache:      st.cache,
	}, logging.Logger())
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	logging.Info().
		Int("candidate_pool", engineCfg.CandidatePoolSize).
		Int("seed_cap", engineCfg.SeedCap).
		Int("max_concurrency", engineCfg.MaxConcurrency).
		Dur("similar_ttl", engineCfg.SimilarTTL).
		Dur("recommend_ttl", engineCfg.RecommendTTL).
		Msg("Recommendation engine initialized")

	return engine, nil
}

// buildEngineConfig maps the application config onto the engine config.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	r := cfg.Recommend
	return &recommend.Config{
		CandidatePoolSize:   r.CandidatePoolSize,
		MinVoteCount:        r.MinVoteCount,
		MinNormalizedScore:  r.MinNormalizedScore,
		SeedCap:             r.SeedCap,
		DefaultSimilarLimit: r.DefaultSimilarLimit,
		DefaultLimit:        r.DefaultLimit,
		MaxLimit:            r.MaxLimit,
		MaxConcurrency:      r.MaxConcurrency,
		StoreTimeout:        r.StoreTimeout,
		SeedTimeout:         r.SeedTimeout,
		SimilarTTL:          cfg.Cache.SimilarTTL,
		RecommendTTL:        cfg.Cache.RecommendTTL,
	}
}
