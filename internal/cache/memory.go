// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("cache store closed")

type memoryEntry struct {
	entry  Entry
	expiry *expiryItem
}

// MemoryStore is an in-process Store. Expired entries are removed lazily on
// Get and eagerly by a background cleanup loop. When MaxEntries is reached,
// the entry closest to expiry is evicted.
type MemoryStore struct {
	mu         sync.RWMutex
	data       map[string]*memoryEntry
	expiries   expiryHeap
	maxEntries int
	now        func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64

	stopOnce sync.Once
	stop     chan struct{}
	closed   atomic.Bool
}

// MemoryOptions configures a MemoryStore.
type MemoryOptions struct {
	// MaxEntries bounds the number of entries. 0 means unbounded.
	MaxEntries int

	// CleanupInterval controls how often expired entries are removed.
	// 0 disables the background loop.
	CleanupInterval time.Duration
}

// NewMemoryStore creates a MemoryStore and starts its cleanup loop.
func NewMemoryStore(opts MemoryOptions) *MemoryStore {
	m := &MemoryStore{
		data:       make(map[string]*memoryEntry),
		maxEntries: opts.MaxEntries,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	if opts.CleanupInterval > 0 {
		go m.cleanupLoop(opts.CleanupInterval)
	}
	return m
}

// Get retrieves an entry if present and not expired.
func (m *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	if m.closed.Load() {
		return Entry{}, false, ErrClosed
	}

	m.mu.RLock()
	e, ok := m.data[key]
	var (
		entry     Entry
		expiresAt time.Time
	)
	if ok {
		entry, expiresAt = e.entry, e.expiry.expiresAt
	}
	m.mu.RUnlock()

	if !ok {
		m.misses.Add(1)
		return Entry{}, false, nil
	}

	if m.now().After(expiresAt) {
		m.mu.Lock()
		if cur, still := m.data[key]; still && cur == e {
			m.expiries.Remove(e.expiry)
			delete(m.data, key)
		}
		m.mu.Unlock()
		m.misses.Add(1)
		return Entry{}, false, nil
	}

	m.hits.Add(1)
	return entry, true, nil
}

// Set stores an entry that expires after ttl.
func (m *MemoryStore) Set(_ context.Context, key string, entry Entry, ttl time.Duration) error {
	if m.closed.Load() {
		return ErrClosed
	}

	expiresAt := m.now().Add(ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.data[key]; ok {
		e.entry = entry
		e.expiry.expiresAt = expiresAt
		m.expiries.Fix(e.expiry)
		return nil
	}

	if m.maxEntries > 0 && len(m.data) >= m.maxEntries {
		m.evictSoonestLocked()
	}

	item := &expiryItem{key: key, expiresAt: expiresAt}
	m.expiries.Push(item)
	m.data[key] = &memoryEntry{entry: entry, expiry: item}
	return nil
}

func (m *MemoryStore) evictSoonestLocked() {
	item, ok := m.expiries.Pop()
	if !ok {
		return
	}
	delete(m.data, item.key)
	m.evictions.Add(1)
}

// Ping reports ErrClosed after Close.
func (m *MemoryStore) Ping(_ context.Context) error {
	if m.closed.Load() {
		return ErrClosed
	}
	return nil
}

// Close stops the cleanup loop and drops all entries.
func (m *MemoryStore) Close() error {
	m.stopOnce.Do(func() {
		m.closed.Store(true)
		close(m.stop)
		m.mu.Lock()
		m.data = make(map[string]*memoryEntry)
		m.expiries = expiryHeap{}
		m.mu.Unlock()
	})
	return nil
}

// Len returns the number of stored entries, including expired ones not yet removed.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Stats returns the store's counters.
func (m *MemoryStore) Stats() Stats {
	m.mu.RLock()
	total := int64(len(m.data))
	m.mu.RUnlock()

	return Stats{
		Hits:      m.hits.Load(),
		Misses:    m.misses.Load(),
		Evictions: m.evictions.Load(),
		TotalKeys: total,
	}
}

// RemoveExpired deletes all expired entries and returns how many were removed.
func (m *MemoryStore) RemoveExpired() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	expired := m.expiries.PopExpired(now)
	for _, item := range expired {
		delete(m.data, item.key)
	}
	return len(expired)
}

func (m *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.RemoveExpired()
		case <-m.stop:
			return
		}
	}
}
