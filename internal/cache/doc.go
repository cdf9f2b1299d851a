// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package cache provides the memoization layer used by the recommendation engine.

A Memo wraps a pure computation so that repeated calls with equal parameters
within a TTL are served from a Store instead of being recomputed.

# Keys

Keys are "<namespace>:<sha256 hex>" where the digest is taken over a canonical
serialization of the parameters. Each parameter type supplies a KeyFunc; the
default, CanonicalJSON, re-encodes JSON with lexicographically sorted object
keys so struct field order and map iteration order never change the key.

# TTL Semantics

	ttl > 0   entries younger than ttl are served; older ones are recomputed
	ttl == 0  every call recomputes; results are still written through

Concurrent misses for the same key may invoke the wrapped function more than
once. Store failures are logged and treated as misses.

# Stores

	BadgerStore  durable, per-key expiry via badger Entry.WithTTL
	MemoryStore  in-process map with an expiry heap and optional capacity bound

# Usage Example

	store, err := cache.OpenBadgerStore(cache.BadgerOptions{Path: "/data/cache"})
	if err != nil {
	    return err
	}
	defer store.Close()

	memo := cache.NewMemo[SimilarParams, []Candidate](store, "similar", time.Hour, cache.CanonicalJSON[SimilarParams])
	results, cached, err := memo.Do(ctx, params, scorer.FindSimilar)
*/
package cache
