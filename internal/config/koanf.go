// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelmatch/config.yaml",
	"/etc/reelmatch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL:            "",
			MaxConns:       10,
			MinConns:       1,
			ConnectTimeout: 5 * time.Second,
			QueryTimeout:   5 * time.Second,
			RunMigrations:  true,
		},
		VectorStore: VectorStoreConfig{
			Path:               "/data/reelmatch.duckdb",
			Threads:            0, // 0 = use runtime.NumCPU()
			MaxMemory:          "1GB",
			CheckpointInterval: 15 * time.Minute,
		},
		Cache: CacheConfig{
			Path:         "/data/cache",
			InMemory:     false,
			GCInterval:   10 * time.Minute,
			SimilarTTL:   60 * time.Minute,
			RecommendTTL: 30 * time.Minute,
		},
		Embedding: EmbeddingConfig{
			BaseURL:   "http://127.0.0.1:8080",
			Timeout:   10 * time.Second,
			RateLimit: 20,
			RateBurst: 5,
		},
		Server: ServerConfig{
			Port:        3860,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Security: SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend: RecommendConfig{
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
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources.
//
// Loading order (later sources override earlier ones):
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Environment variables
	// DATABASE_URL -> database.url
	// RECOMMEND_SEED_CAP -> recommend.seed_cap
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Relational store
	"database_url":             "database.url",
	"database_max_conns":       "database.max_conns",
	"database_min_conns":       "database.min_conns",
	"database_connect_timeout": "database.connect_timeout",
	"database_query_timeout":   "database.query_timeout",
	"database_run_migrations":  "database.run_migrations",

	// Vector store
	"duckdb_path":                "vector_store.path",
	"duckdb_threads":             "vector_store.threads",
	"duckdb_max_memory":          "vector_store.max_memory",
	"duckdb_fixtures_path":       "vector_store.fixtures_path",
	"duckdb_checkpoint_interval": "vector_store.checkpoint_interval",

	// Cache store
	"cache_path":          "cache.path",
	"cache_in_memory":     "cache.in_memory",
	"cache_gc_interval":   "cache.gc_interval",
	"cache_similar_ttl":   "cache.similar_ttl",
	"cache_recommend_ttl": "cache.recommend_ttl",

	// Embedding provider
	"embedding_base_url":   "embedding.base_url",
	"embedding_api_key":    "embedding.api_key",
	"embedding_timeout":    "embedding.timeout",
	"embedding_rate_limit": "embedding.rate_limit",
	"embedding_rate_burst": "embedding.rate_burst",

	// Server
	"http_port":      "server.port",
	"http_host":      "server.host",
	"server_timeout": "server.timeout",
	"environment":    "server.environment",

	// Security
	"jwt_secret":          "security.jwt_secret",
	"jwt_issuer":          "security.jwt_issuer",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommendation engine
	"recommend_candidate_pool":        "recommend.candidate_pool",
	"recommend_min_vote_count":        "recommend.min_vote_count",
	"recommend_min_normalized_score":  "recommend.min_normalized_score",
	"recommend_seed_cap":              "recommend.seed_cap",
	"recommend_default_similar_limit": "recommend.default_similar_limit",
	"recommend_default_limit":         "recommend.default_limit",
	"recommend_max_limit":             "recommend.max_limit",
	"recommend_max_concurrency":       "recommend.max_concurrency",
	"recommend_store_timeout":         "recommend.store_timeout",
	"recommend_seed_timeout":          "recommend.seed_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped so unrelated environment
// variables cannot pollute the config.
//
// Examples:
//   - DATABASE_URL -> database.url
//   - DUCKDB_PATH -> vector_store.path
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
