// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package database provides the PostgreSQL relational store.

It holds everything ReelMatch reads or writes that is not a title vector:

  - titles: display metadata (title, year, poster, overview)
  - user_ratings: a user's 1..10 ratings, the seeds for user recommendations
  - user_exclusions: titles a user never wants recommended
  - query_embeddings: the race-safe cache of free-text query vectors

# Connection Management

The store is a pgxpool.Pool built from DATABASE_URL. Pool limits and the
connect timeout come from config.DatabaseConfig. Every query without a
deadline gets QueryTimeout applied.

# Schema

The schema is applied through versioned migrations tracked in
schema_migrations. Migrations are append-only and each runs in its own
transaction together with its bookkeeping row.

# Query Embeddings

LookupQueryEmbedding reads with SELECT ... FOR UPDATE inside a transaction.
InsertQueryEmbedding relies on the UNIQUE constraint on normalized_query: a
unique violation (SQLSTATE 23505) is reported as embedding.ErrDuplicate so
the caller can retry its lookup.

# Usage

	db, err := database.Open(ctx, &cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	ratings, err := db.ListUserRatings(ctx, userID)
*/
package database
