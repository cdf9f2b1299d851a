// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Command server runs the ReelMatch recommendation API.

# Application Architecture

	reelmatch
	├── storage-layer
	│   ├── cache-gc           (skipped when CACHE_IN_MEMORY=true)
	│   └── vector-checkpoint  (skipped for an in-memory vector store)
	└── api-layer
	    └── http-server

Startup order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Stores: PostgreSQL (pgx), DuckDB vector tables, Badger cache
 4. Engine: embedding provider client, query embedding cache, recommend.Engine
 5. HTTP: JWT verifier, chi router, middleware stack
 6. Supervisor tree: suture v4

# Configuration

	DATABASE_URL=postgres://...   # required
	JWT_SECRET=<32+ chars>        # required
	DUCKDB_PATH=/data/reelmatch.duckdb
	DUCKDB_FIXTURES_PATH=         # optional JSON titles loaded at startup
	CACHE_PATH=/data/cache
	EMBEDDING_BASE_URL=http://127.0.0.1:8080
	HTTP_PORT=3860
	LOG_LEVEL=info
	LOG_FORMAT=json

See internal/config for the full list.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for up to
10s, then the stores close in reverse open order.
*/
package main
