// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// CandidatePoolSize is the number of ANN candidates fetched per table.
	// Default: 10000.
	CandidatePoolSize int `json:"candidate_pool_size"`

	// MinVoteCount drops candidates with fewer votes.
	// Default: 50.
	MinVoteCount int `json:"min_vote_count"`

	// MinNormalizedScore drops candidates rated below this on a 0..10 scale.
	// Default: 5.0.
	MinNormalizedScore float64 `json:"min_normalized_score"`

	// SeedCap is the maximum number of seeds an aggregation accepts.
	// Default: 20.
	SeedCap int `json:"seed_cap"`

	// DefaultSimilarLimit applies to FindSimilar when the limit is unset.
	// Default: 50.
	DefaultSimilarLimit int `json:"default_similar_limit"`

	// DefaultLimit and MaxLimit bound aggregated recommendation output.
	// Defaults: 20 and 100.
	DefaultLimit int `json:"default_limit"`
	MaxLimit     int `json:"max_limit"`

	// MaxConcurrency caps concurrent seed queries per aggregation.
	// Default: 8.
	MaxConcurrency int `json:"max_concurrency"`

	// StoreTimeout bounds each vector or relational store call.
	// Default: 5s.
	StoreTimeout time.Duration `json:"store_timeout"`

	// SeedTimeout bounds the similarity queries for one seed.
	// Default: 10s.
	SeedTimeout time.Duration `json:"seed_timeout"`

	// SimilarTTL and RecommendTTL are the memoization TTLs for the engine
	// entry points. Zero disables cache reads.
	// Defaults: 60m and 30m.
	SimilarTTL   time.Duration `json:"similar_ttl"`
	RecommendTTL time.Duration `json:"recommend_ttl"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		CandidatePoolSize:   10000,
		MinVoteCount:        50,
		MinNormalizedScore:  5.0,
		SeedCap:             20,
		DefaultSimilarLimit: 50,
		DefaultLimit:        20,
		MaxLimit:            100,
		MaxConcurrency:      8,
		StoreTimeout:        5 * time.Second,
		SeedTimeout:         10 * time.Second,
		SimilarTTL:          60 * time.Minute,
		RecommendTTL:        30 * time.Minute,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.CandidatePoolSize < 1 {
		return fmt.Errorf("candidate_pool_size must be positive, got %d", c.CandidatePoolSize)
	}
	if c.MinVoteCount < 0 {
		return fmt.Errorf("min_vote_count must be non-negative, got %d", c.MinVoteCount)
	}
	if c.SeedCap < 2 {
		return fmt.Errorf("seed_cap must be at least 2, got %d", c.SeedCap)
	}
	if c.DefaultSimilarLimit < 1 || c.DefaultSimilarLimit > c.CandidatePoolSize {
		return fmt.Errorf("default_similar_limit must be in [1, candidate_pool_size], got %d", c.DefaultSimilarLimit)
	}
	if c.DefaultLimit < 1 || c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("default_limit must be in [1, max_limit], got %d", c.DefaultLimit)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be positive, got %d", c.MaxConcurrency)
	}
	if c.StoreTimeout <= 0 || c.SeedTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.SimilarTTL < 0 || c.RecommendTTL < 0 {
		return fmt.Errorf("cache TTLs must be non-negative")
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// similarLimit resolves a requested similarity limit.
func (c *Config) similarLimit(limit int) int {
	if limit <= 0 {
		return c.DefaultSimilarLimit
	}
	if limit > c.CandidatePoolSize {
		return c.CandidatePoolSize
	}
	return limit
}

// recommendLimit resolves a requested aggregation limit.
func (c *Config) recommendLimit(limit int) int {
	if limit <= 0 {
		return c.DefaultLimit
	}
	if limit > c.MaxLimit {
		return c.MaxLimit
	}
	return limit
}

func (c *Config) searchOptions() SearchOptions {
	return SearchOptions{
		PoolSize:           c.CandidatePoolSize,
		MinVoteCount:       c.MinVoteCount,
		MinNormalizedScore: c.MinNormalizedScore,
	}
}
