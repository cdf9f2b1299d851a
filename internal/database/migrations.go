// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Migration represents a versioned database migration.
type Migration struct {
	Version     int       // Unique version number (monotonically increasing)
	Name        string    // Human-readable migration name
	Description string    // Description of what this migration does
	SQL         string    // SQL statement to execute
	AppliedAt   time.Time // When the migration was applied (populated on query)
}

// schemaMigrationsTable creates the migration tracking table
const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// migrationLockID serializes concurrent migrators across processes.
const migrationLockID = 0x7265656c // "reel"

// migrations returns all versioned migrations in order.
//
// Migrations MUST be append-only - never modify or remove existing migrations
// once a database has applied them.
func migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Name:        "create_titles",
			Description: "Display metadata for movies and shows",
			SQL: `
CREATE TABLE IF NOT EXISTS titles (
	id BIGINT NOT NULL,
	media_type TEXT NOT NULL CHECK (media_type IN ('movie', 'show')),
	title TEXT NOT NULL,
	release_year INTEGER,
	poster_path TEXT NOT NULL DEFAULT '',
	overview TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (id, media_type)
);`,
		},
		{
			Version:     2,
			Name:        "create_user_ratings",
			Description: "Per-user 1..10 title ratings",
			SQL: `
CREATE TABLE IF NOT EXISTS user_ratings (
	user_id TEXT NOT NULL,
	title_id BIGINT NOT NULL,
	media_type TEXT NOT NULL CHECK (media_type IN ('movie', 'show')),
	score SMALLINT NOT NULL CHECK (score BETWEEN 1 AND 10),
	rated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, title_id, media_type)
);
CREATE INDEX IF NOT EXISTS idx_user_ratings_user_rated_at ON user_ratings (user_id, rated_at);`,
		},
		{
			Version:     3,
			Name:        "create_user_exclusions",
			Description: "Titles a user never wants recommended",
			SQL: `
CREATE TABLE IF NOT EXISTS user_exclusions (
	user_id TEXT NOT NULL,
	title_id BIGINT NOT NULL,
	media_type TEXT NOT NULL CHECK (media_type IN ('movie', 'show')),
	reason TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, title_id, media_type)
);`,
		},
		{
			Version:     4,
			Name:        "create_query_embeddings",
			Description: "Embedding vectors keyed by normalized query text",
			SQL: `
CREATE TABLE IF NOT EXISTS query_embeddings (
	id BIGSERIAL PRIMARY KEY,
	normalized_query TEXT NOT NULL UNIQUE,
	embedding REAL[] NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
		},
	}
}

// getAppliedMigrations returns a map of version -> Migration for all applied migrations
func getAppliedMigrations(ctx context.Context, tx pgx.Tx) (map[int]Migration, error) {
	rows, err := tx.Query(ctx, `SELECT version, name, description, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]Migration)
	for rows.Next() {
		var m Migration
		if err := rows.Scan(&m.Version, &m.Name, &m.Description, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[m.Version] = m
	}
	return applied, rows.Err()
}

// runVersionedMigrations executes only the migrations that haven't been
// applied yet. The whole run holds a transaction-scoped advisory lock so
// replicas starting together apply each migration once.
func (db *DB) runVersionedMigrations(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin migration transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLockID); err != nil {
		return 0, fmt.Errorf("failed to acquire migration lock: %w", err)
	}

	if _, err := tx.Exec(ctx, schemaMigrationsTable); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := getAppliedMigrations(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	newMigrations := 0
	for _, m := range migrations() {
		if _, exists := applied[m.Version]; exists {
			continue
		}

		if _, err := tx.Exec(ctx, m.SQL); err != nil {
			return 0, fmt.Errorf("failed to execute migration v%d (%s): %w", m.Version, m.Name, err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (version, name, description) VALUES ($1, $2, $3)`,
			m.Version, m.Name, m.Description); err != nil {
			return 0, fmt.Errorf("failed to record migration v%d: %w", m.Version, err)
		}

		newMigrations++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit migrations: %w", err)
	}
	return newMigrations, nil
}

// GetCurrentSchemaVersion returns the highest applied migration version
func (db *DB) GetCurrentSchemaVersion(ctx context.Context) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var version int
	err := db.pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// GetMigrationHistory returns all applied migrations in order
func (db *DB) GetMigrationHistory(ctx context.Context) ([]Migration, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.pool.Query(ctx,
		`SELECT version, name, description, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}

	history, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Migration, error) {
		var m Migration
		err := row.Scan(&m.Version, &m.Name, &m.Description, &m.AppliedAt)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan migration: %w", err)
	}
	return history, nil
}
