// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// minJWTSecretLength is the minimum accepted length of JWT_SECRET.
const minJWTSecretLength = 32

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateVectorStore(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateEmbedding(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DATABASE_MAX_CONNS must be at least 1, got %d", c.Database.MaxConns)
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DATABASE_MIN_CONNS must be between 0 and DATABASE_MAX_CONNS, got %d", c.Database.MinConns)
	}
	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("DATABASE_QUERY_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateVectorStore() error {
	if c.VectorStore.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.VectorStore.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative, got %d", c.VectorStore.Threads)
	}
	if c.VectorStore.CheckpointInterval < 0 {
		return fmt.Errorf("DUCKDB_CHECKPOINT_INTERVAL must be non-negative")
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.InMemory && c.Cache.Path == "" {
		return fmt.Errorf("CACHE_PATH is required unless CACHE_IN_MEMORY=true")
	}
	if c.Cache.SimilarTTL < 0 || c.Cache.RecommendTTL < 0 {
		return fmt.Errorf("cache TTLs must be non-negative")
	}
	return nil
}

func (c *Config) validateEmbedding() error {
	u, err := url.Parse(c.Embedding.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("EMBEDDING_BASE_URL must be an absolute URL, got %q", c.Embedding.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("EMBEDDING_BASE_URL must use http or https, got %q", u.Scheme)
	}
	if c.Embedding.Timeout <= 0 {
		return fmt.Errorf("EMBEDDING_TIMEOUT must be positive")
	}
	if c.Embedding.RateLimit < 0 {
		return fmt.Errorf("EMBEDDING_RATE_LIMIT must be non-negative")
	}
	if c.Embedding.RateLimit > 0 && c.Embedding.RateBurst < 1 {
		return fmt.Errorf("EMBEDDING_RATE_BURST must be at least 1 when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if c.Server.IsProduction() && c.hasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS must not contain '*' in production")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateRecommend() error {
	r := &c.Recommend
	if r.CandidatePoolSize < 1 {
		return fmt.Errorf("RECOMMEND_CANDIDATE_POOL must be at least 1, got %d", r.CandidatePoolSize)
	}
	if r.MinVoteCount < 0 {
		return fmt.Errorf("RECOMMEND_MIN_VOTE_COUNT must be non-negative")
	}
	if r.SeedCap < 2 {
		return fmt.Errorf("RECOMMEND_SEED_CAP must be at least 2, got %d", r.SeedCap)
	}
	if r.DefaultLimit < 1 || r.DefaultLimit > r.MaxLimit {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be between 1 and RECOMMEND_MAX_LIMIT")
	}
	if r.DefaultSimilarLimit < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_SIMILAR_LIMIT must be at least 1")
	}
	if r.MaxConcurrency < 1 {
		return fmt.Errorf("RECOMMEND_MAX_CONCURRENCY must be at least 1")
	}
	if r.StoreTimeout <= 0 || r.SeedTimeout <= 0 {
		return fmt.Errorf("recommend timeouts must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
