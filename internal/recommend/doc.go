// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package recommend implements fingerprint-blended similarity and
// multi-seed recommendation over the movie and show title tables.
//
// # Architecture
//
// The engine is layered:
//
//   - Scorer: one ANN query per source title and target table, blended with
//     a fingerprint proximity kernel
//   - Aggregator: concurrent per-seed queries merged by maximum score
//   - GuestAdapter and UserAdapter: request modes that resolve seeds and
//     exclusions before aggregation
//   - Engine: memoization, metadata enrichment and free-text search
//
// # Scoring
//
// Every candidate carries the vector store's relevance plus a bounded boost:
//
//	delta   = |candidate[attr] - source[attr]|
//	boost   = 0.1 / (1 + (delta / 2.5281) ^ 2.3691)
//	blended = relevance + boost
//
// A missing attribute reads as 0. Without an attribute key the delta is 0 and
// every candidate gets the full boost, so the order is the ANN order. Ties
// are broken by title id ascending.
//
// # Aggregation
//
// Candidates from different seeds are merged by keeping the highest blended
// score per title. Seed scores select which titles become seeds but never
// weight or repel candidates. Seeds, excluded titles and titles outside the
// media type filter never appear in output.
//
// # Errors
//
// Failures are reported as one of four kinds, testable with errors.Is:
// ErrValidation, ErrNotFound, ErrUpstream and ErrRaceExceeded. A failing seed
// is skipped; the aggregation fails only when every seed failed upstream.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{
//	    Vectors:  vectors,
//	    Ratings:  db,
//	    Metadata: db,
//	    Cache:    badgerStore,
//	}, logger)
//	if err != nil {
//	    return err
//	}
//
//	res, err := engine.RecommendGuest(ctx, recommend.GuestRequest{
//	    MediaType:   recommend.FilterAll,
//	    ScoredItems: items,
//	})
package recommend
