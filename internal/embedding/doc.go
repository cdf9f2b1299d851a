// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package embedding turns free-text queries into embedding vectors, calling the
embedding provider at most once per distinct normalized query.

# Normalization

NormalizeQuery lowercases the text, replaces punctuation and symbols with
spaces and collapses whitespace, so "Hello,   World!!" and "hello world"
share one stored vector.

# Get or Create

QueryCache.GetOrCreateEmbedding runs a bounded loop. Each attempt ends in one
of three outcomes:

  - hit: the repository already holds the vector
  - created: the provider was called and the vector inserted
  - conflict: the insert lost a race to another writer

A conflict waits RetryDelay and starts over; after MaxRetries conflicts the
call fails with a recommend.RaceConditionError. Provider failures are never
retried. In-process callers for the same key share one attempt through
singleflight, so only cross-process races reach the conflict path.

# Provider

HTTPProvider posts {"text": ...} to {BaseURL}/embedding behind a client-side
rate limiter and a circuit breaker.
*/
package embedding
