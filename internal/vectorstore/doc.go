// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package vectorstore holds title embeddings and fingerprints in DuckDB and
answers nearest-neighbour queries over them.

Each media type has its own table (movie_titles, show_titles) with the same
columns:

	id                BIGINT PRIMARY KEY
	embedding         FLOAT[]
	fingerprint       VARCHAR   -- JSON object of attribute strengths
	popularity        DOUBLE
	vote_count        INTEGER
	normalized_score  DOUBLE

Search ranks rows by list_cosine_similarity against the query vector. The
popularity filters (vote_count, normalized_score) are applied in SQL before
the pool LIMIT, so a full pool contains only eligible titles.

Vectors cross the driver boundary as JSON list literals cast to FLOAT[],
which keeps reads and writes independent of driver list binding support.

Store implements recommend.VectorStore. GetTitle and Search run behind a
circuit breaker that ignores ErrTitleNotFound.

Usage:

	store, err := vectorstore.Open(ctx, &cfg.VectorStore)
	if err != nil {
	    return err
	}
	defer store.Close()

	title, err := store.GetTitle(ctx, recommend.MediaMovie, 550)
*/
package vectorstore
