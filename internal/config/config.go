// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file, and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Configuration Categories:
//
//  1. Stores:
//     - Database: PostgreSQL relational store (ratings, metadata, query embeddings)
//     - VectorStore: DuckDB title tables with embeddings and fingerprints
//     - Cache: Badger memoization store
//
//  2. Collaborators:
//     - Embedding: HTTP embedding provider
//
//  3. API & Security:
//     - Server: HTTP server configuration
//     - Security: JWT verification, CORS, rate limiting
//
//  4. Engine:
//     - Recommend: similarity and aggregation tuning
//
//  5. Observability:
//     - Logging: Log levels and output formats
//
// Example:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
type Config struct {
	Database    DatabaseConfig    `koanf:"database"`
	VectorStore VectorStoreConfig `koanf:"vector_store"`
	Cache       CacheConfig       `koanf:"cache"`
	Embedding   EmbeddingConfig   `koanf:"embedding"`
	Server      ServerConfig      `koanf:"server"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
	Recommend   RecommendConfig   `koanf:"recommend"`
}

// DatabaseConfig holds PostgreSQL connection settings.
//
// Environment Variables:
//   - DATABASE_URL: postgres connection string (required)
//   - DATABASE_MAX_CONNS: maximum pool size (default: 10)
//   - DATABASE_MIN_CONNS: minimum idle connections (default: 1)
//   - DATABASE_CONNECT_TIMEOUT: dial timeout (default: 5s)
//   - DATABASE_QUERY_TIMEOUT: per-query timeout (default: 5s)
//   - DATABASE_RUN_MIGRATIONS: apply schema on startup (default: true)
type DatabaseConfig struct {
	URL            string        `koanf:"url"`
	MaxConns       int32         `koanf:"max_conns"`
	MinConns       int32         `koanf:"min_conns"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	QueryTimeout   time.Duration `koanf:"query_timeout"`
	RunMigrations  bool          `koanf:"run_migrations"`
}

// VectorStoreConfig holds DuckDB settings for the title vector tables.
type VectorStoreConfig struct {
	Path      string `koanf:"path"`       // DuckDB file path; ":memory:" for ephemeral
	Threads   int    `koanf:"threads"`    // 0 = runtime.NumCPU()
	MaxMemory string `koanf:"max_memory"` // DuckDB max_memory setting (default: 1GB)

	// FixturesPath, when set, is a JSON title file upserted at startup.
	FixturesPath string `koanf:"fixtures_path"`

	// CheckpointInterval controls how often the DuckDB WAL is checkpointed.
	// Default: 15m
	CheckpointInterval time.Duration `koanf:"checkpoint_interval"`
}

// CacheConfig holds settings for the memoization cache store.
type CacheConfig struct {
	// Path is the Badger directory. Ignored when InMemory is true.
	Path string `koanf:"path"`

	// InMemory runs Badger without touching disk.
	// Default: false
	InMemory bool `koanf:"in_memory"`

	// GCInterval controls how often value-log GC runs.
	// Default: 10m
	GCInterval time.Duration `koanf:"gc_interval"`

	// SimilarTTL is the memoization TTL for similarity queries. Zero disables reads.
	// Default: 60m
	SimilarTTL time.Duration `koanf:"similar_ttl"`

	// RecommendTTL is the memoization TTL for aggregated recommendations.
	// Default: 30m
	RecommendTTL time.Duration `koanf:"recommend_ttl"`
}

// EmbeddingConfig holds the embedding provider client settings.
type EmbeddingConfig struct {
	BaseURL   string        `koanf:"base_url"`
	APIKey    string        `koanf:"api_key"`
	Timeout   time.Duration `koanf:"timeout"`
	RateLimit float64       `koanf:"rate_limit"` // requests per second, 0 = unlimited
	RateBurst int           `koanf:"rate_burst"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production" (default: "development")
}

// SecurityConfig holds bearer token verification and HTTP hardening settings.
type SecurityConfig struct {
	// JWTSecret verifies HS256 bearer tokens on the user endpoints.
	// Minimum 32 characters.
	JWTSecret string `koanf:"jwt_secret"`

	// JWTIssuer, when set, must match the token's iss claim.
	JWTIssuer string `koanf:"jwt_issuer"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// RecommendConfig tunes the similarity scorer and the aggregator.
//
// Environment Variables:
//   - RECOMMEND_CANDIDATE_POOL: ANN candidate pool per table (default: 10000)
//   - RECOMMEND_MIN_VOTE_COUNT: popularity floor (default: 50)
//   - RECOMMEND_MIN_NORMALIZED_SCORE: quality floor (default: 5.0)
//   - RECOMMEND_SEED_CAP: guest seed cap (default: 20)
//   - RECOMMEND_MAX_CONCURRENCY: concurrent seed queries (default: 8)
type RecommendConfig struct {
	CandidatePoolSize   int           `koanf:"candidate_pool"`
	MinVoteCount        int           `koanf:"min_vote_count"`
	MinNormalizedScore  float64       `koanf:"min_normalized_score"`
	SeedCap             int           `koanf:"seed_cap"`
	DefaultSimilarLimit int           `koanf:"default_similar_limit"`
	DefaultLimit        int           `koanf:"default_limit"`
	MaxLimit            int           `koanf:"max_limit"`
	MaxConcurrency      int           `koanf:"max_concurrency"`
	StoreTimeout        time.Duration `koanf:"store_timeout"`
	SeedTimeout         time.Duration `koanf:"seed_timeout"`
}

// Addr returns the listen address for the HTTP server.
func (s *ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// IsProduction reports whether the server runs in production mode.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}
