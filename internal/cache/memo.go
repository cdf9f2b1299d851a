// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

// inspectionTTL is the store expiry used when the memo TTL is zero. Such
// entries are never read back but stay visible for debugging.
const inspectionTTL = time.Minute

// Memo memoizes a function of K returning V in a Store under one namespace.
type Memo[K, V any] struct {
	store     Store
	namespace string
	ttl       time.Duration
	keyFunc   KeyFunc[K]
	now       func() time.Time
}

// NewMemo creates a Memo. A nil keyFunc defaults to CanonicalJSON.
func NewMemo[K, V any](store Store, namespace string, ttl time.Duration, keyFunc KeyFunc[K]) *Memo[K, V] {
	if keyFunc == nil {
		keyFunc = CanonicalJSON[K]
	}
	return &Memo[K, V]{
		store:     store,
		namespace: namespace,
		ttl:       ttl,
		keyFunc:   keyFunc,
		now:       time.Now,
	}
}

// Namespace returns the memo's key namespace.
func (m *Memo[K, V]) Namespace() string {
	return m.namespace
}

// Key returns the cache key for params.
func (m *Memo[K, V]) Key(params K) (string, error) {
	canonical, err := m.keyFunc(params)
	if err != nil {
		return "", fmt.Errorf("%s: canonicalize params: %w", m.namespace, err)
	}
	return Key(m.namespace, canonical), nil
}

// Do returns a stored result for params when one was written less than ttl
// ago, otherwise it calls fn and writes the result through. Errors from fn
// are returned unchanged and never stored. Store errors are logged and the
// call proceeds as a miss. The bool result reports whether the value came
// from the store.
func (m *Memo[K, V]) Do(ctx context.Context, params K, fn func(context.Context, K) (V, error)) (V, bool, error) {
	key, err := m.Key(params)
	if err != nil {
		var zero V
		return zero, false, err
	}

	if m.ttl > 0 {
		if v, ok := m.lookup(ctx, key); ok {
			metrics.RecordMemoLookup(m.namespace, true)
			return v, true, nil
		}
	}
	metrics.RecordMemoLookup(m.namespace, false)

	v, err := fn(ctx, params)
	if err != nil {
		return v, false, err
	}

	m.write(ctx, key, v)
	return v, false, nil
}

func (m *Memo[K, V]) lookup(ctx context.Context, key string) (V, bool) {
	var zero V

	entry, found, err := m.store.Get(ctx, key)
	if err != nil {
		metrics.RecordMemoError(m.namespace, "get")
		logging.Ctx(ctx).Warn().Err(err).Str("namespace", m.namespace).Msg("Cache read failed, recomputing")
		return zero, false
	}
	if !found {
		return zero, false
	}
	if m.now().Sub(entry.WrittenAt) >= m.ttl {
		return zero, false
	}

	var v V
	if err := json.Unmarshal(entry.Payload, &v); err != nil {
		metrics.RecordMemoError(m.namespace, "decode")
		logging.Ctx(ctx).Warn().Err(err).Str("namespace", m.namespace).Msg("Cache entry undecodable, recomputing")
		return zero, false
	}
	return v, true
}

func (m *Memo[K, V]) write(ctx context.Context, key string, v V) {
	payload, err := json.Marshal(v)
	if err != nil {
		metrics.RecordMemoError(m.namespace, "encode")
		logging.Ctx(ctx).Warn().Err(err).Str("namespace", m.namespace).Msg("Cache value not encodable, skipping write")
		return
	}

	expiry := m.ttl
	if expiry <= 0 {
		expiry = inspectionTTL
	}

	entry := Entry{Payload: payload, WrittenAt: m.now()}
	if err := m.store.Set(ctx, key, entry, expiry); err != nil {
		metrics.RecordMemoError(m.namespace, "set")
		logging.Ctx(ctx).Warn().Err(err).Str("namespace", m.namespace).Msg("Cache write failed")
	}
}

// Cached is the one-shot form of NewMemo(...).Do for callers that only
// need the value.
func Cached[K, V any](ctx context.Context, store Store, namespace string, ttl time.Duration, keyFunc KeyFunc[K], params K, fn func(context.Context, K) (V, error)) (V, error) {
	v, _, err := NewMemo[K, V](store, namespace, ttl, keyFunc).Do(ctx, params, fn)
	return v, err
}
