// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package config loads and validates ReelMatch configuration.

# Configuration Sources

LoadWithKoanf layers three Koanf v2 providers, later ones winning:

 1. Built-in defaults (structs provider over defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, config.yaml, or /etc/reelmatch/config.yaml
 3. Environment variables, mapped explicitly through envMappings

Unmapped environment variables are ignored.

# Sections

  - database: PostgreSQL URL, pool sizes, timeouts, migrations
  - vector_store: DuckDB path, threads, memory, fixtures, checkpoint interval
  - cache: Badger path or in-memory mode, GC interval, memoization TTLs
  - embedding: provider base URL, API key, timeout, rate limit
  - server: host, port, timeout, environment
  - security: JWT secret and issuer, CORS origins, rate limits
  - logging: level, format, caller
  - recommend: candidate pool, quality floors, seed cap, limits, concurrency

# Required Settings

DATABASE_URL and JWT_SECRET (32+ characters) have no defaults. Validate
also rejects wildcard CORS origins in production.

# Example

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	db, err := database.Open(ctx, &cfg.Database)
*/
package config
