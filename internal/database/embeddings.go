// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/reelmatch/internal/embedding"
)

// LookupQueryEmbedding returns the stored vector for a normalized query.
// The row is read with FOR UPDATE so a concurrent writer of the same key
// waits for this transaction.
func (db *DB) LookupQueryEmbedding(ctx context.Context, normalized string) (vec []float32, found bool, err error) {
	const op = "lookup_query_embedding"
	start := time.Now()
	defer func() { observe(ctx, op, start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`SELECT embedding FROM query_embeddings WHERE normalized_query = $1 FOR UPDATE`,
		normalized).Scan(&vec)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if cerr := tx.Commit(ctx); cerr != nil {
			return nil, false, fmt.Errorf("%s: commit: %w", op, cerr)
		}
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("%s: commit: %w", op, err)
	}
	return vec, true, nil
}

// InsertQueryEmbedding stores a vector for a normalized query. It returns an
// error wrapping embedding.ErrDuplicate when another writer stored the same
// query first.
func (db *DB) InsertQueryEmbedding(ctx context.Context, normalized string, vec []float32) (err error) {
	const op = "insert_query_embedding"
	start := time.Now()
	defer func() {
		// A lost race is an expected outcome, not a store failure.
		if errors.Is(err, embedding.ErrDuplicate) {
			observe(ctx, op, start, nil)
			return
		}
		observe(ctx, op, start, err)
	}()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err = db.pool.Exec(ctx,
		`INSERT INTO query_embeddings (normalized_query, embedding) VALUES ($1, $2)`,
		normalized, vec)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, embedding.ErrDuplicate)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
