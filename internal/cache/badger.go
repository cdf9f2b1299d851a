// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

// BadgerOptions configures a BadgerStore.
type BadgerOptions struct {
	// Path is the data directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps all data in memory.
	InMemory bool
}

// BadgerStore is a Store backed by BadgerDB. Expiry is enforced by badger
// per key, so expired entries are invisible to Get and reclaimed by
// compaction and value-log GC.
type BadgerStore struct {
	db       *badger.DB
	inMemory bool
}

// OpenBadgerStore opens or creates a BadgerDB store.
func OpenBadgerStore(opts BadgerOptions) (*BadgerStore, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, fmt.Errorf("badger path is required")
		}
		bopts = badger.DefaultOptions(opts.Path)
	}
	bopts = bopts.WithLogger(&badgerLogger{logger: logging.WithComponent("badger")})

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}

	return &BadgerStore{db: db, inMemory: opts.InMemory}, nil
}

// Get reads the entry stored under key.
func (s *BadgerStore) Get(_ context.Context, key string) (Entry, bool, error) {
	start := time.Now()
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		metrics.RecordStoreQuery("badger", "get", time.Since(start), nil)
		return Entry{}, false, nil
	}
	metrics.RecordStoreQuery("badger", "get", time.Since(start), err)
	if err != nil {
		return Entry{}, false, fmt.Errorf("badger get %s: %w", key, err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return entry, true, nil
}

// Set writes entry under key with the given ttl. A non-positive ttl stores
// the entry without expiry.
func (s *BadgerStore) Set(_ context.Context, key string, entry Entry, ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}

	start := time.Now()
	err = s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), raw)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	metrics.RecordStoreQuery("badger", "set", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}
	return nil
}

// Ping reports whether the database is open.
func (s *BadgerStore) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	return nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	return s.db.Close()
}

// GCResult describes the outcome of RunGC.
type GCResult string

const (
	GCRewritten GCResult = "rewritten"
	GCNoop      GCResult = "noop"
	GCError     GCResult = "error"
)

// RunGC runs value-log garbage collection until a pass reclaims nothing.
// In-memory stores have no value log and always report GCNoop.
func (s *BadgerStore) RunGC(discardRatio float64) (GCResult, error) {
	if s.inMemory {
		return GCNoop, nil
	}

	rewrote := false
	for {
		err := s.db.RunValueLogGC(discardRatio)
		switch {
		case err == nil:
			rewrote = true
			continue
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrRejected):
			if rewrote {
				return GCRewritten, nil
			}
			return GCNoop, nil
		default:
			return GCError, fmt.Errorf("value log gc: %w", err)
		}
	}
}

// badgerLogger routes badger's log output through zerolog.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
