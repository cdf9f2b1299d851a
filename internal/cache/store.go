// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package cache

import (
	"context"
	"time"
)

// Entry is a memoized payload and the time it was written.
type Entry struct {
	Payload   []byte    `json:"payload"`
	WrittenAt time.Time `json:"written_at"`
}

// Store is a key/value store with per-key expiry.
type Store interface {
	// Get returns the entry for key. found is false when the key is absent
	// or its expiry has passed.
	Get(ctx context.Context, key string) (entry Entry, found bool, err error)

	// Set stores entry under key. The store may drop it after ttl.
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error

	// Ping reports whether the store is usable.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}

// Stats tracks store-level counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	TotalKeys int64
}

// HitRate returns the hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits) / float64(total) * 100.0
}
