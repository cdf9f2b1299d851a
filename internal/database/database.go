// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// DB wraps the PostgreSQL connection pool and provides data access methods
type DB struct {
	pool *pgxpool.Pool
	cfg  *config.DatabaseConfig

	closeOnce sync.Once
}

// Ensure DB serves the engine's relational stores
var (
	_ recommend.RatingStore   = (*DB)(nil)
	_ recommend.MetadataStore = (*DB)(nil)
)

// Open connects to PostgreSQL, verifies the connection and applies pending
// migrations when cfg.RunMigrations is set.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	poolCfg, err := buildPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	db := &DB{pool: pool, cfg: cfg}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	if cfg.RunMigrations {
		applied, err := db.runVersionedMigrations(ctx)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		if applied > 0 {
			logging.Info().Int("applied", applied).Msg("Applied database migrations")
		}
	}

	return db, nil
}

// Ping verifies a connection can be acquired and used.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.pool.Ping(ctx)
}

// Close releases every pooled connection. It is safe to call more than once.
func (db *DB) Close() {
	db.closeOnce.Do(db.pool.Close)
}

// Pool returns the underlying connection pool.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}
