// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tomtom215/reelmatch/internal/api"
	"github.com/tomtom215/reelmatch/internal/cache"
	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/database"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/vectorstore"
)

// stores holds the process-wide storage handles. Each is opened once in
// main and injected where needed.
type stores struct {
	db      *database.DB
	vectors *vectorstore.Store
	cache   *cache.BadgerStore
}

// openStores opens the relational store, the vector store and the cache, in
// that order. Anything opened before a failure is closed again.
func openStores(ctx context.Context, cfg *config.Config) (_ *stores, err error) {
	st := &stores{}
	defer func() {
		if err != nil {
			st.Close()
		}
	}()

	st.db, err = database.Open(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logging.Info().Msg("Database initialized successfully")

	st.vectors, err = vectorstore.Open(ctx, &cfg.VectorStore)
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}
	if cfg.VectorStore.FixturesPath != "" {
		if err = seedFixtures(ctx, st.vectors, cfg.VectorStore.FixturesPath); err != nil {
			return nil, err
		}
	}

	st.cache, err = cache.OpenBadgerStore(cache.BadgerOptions{
		Path:     cfg.Cache.Path,
		InMemory: cfg.Cache.InMemory,
	})
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	return st, nil
}

func seedFixtures(ctx context.Context, vectors *vectorstore.Store, path string) error {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return fmt.Errorf("open fixtures: %w", err)
	}
	defer func() { _ = f.Close() }()

	n, err := vectors.LoadFixtures(ctx, f)
	if err != nil {
		return fmt.Errorf("load fixtures from %s: %w", path, err)
	}
	logging.Info().Str("path", path).Int("titles", n).Msg("Vector store seeded from fixtures")
	return nil
}

// readinessChecks lists the dependencies /health/ready pings.
func (st *stores) readinessChecks() []api.ReadinessCheck {
	return []api.ReadinessCheck{
		{Name: "postgres", Pinger: st.db},
		{Name: "duckdb", Pinger: st.vectors},
		{Name: "cache", Pinger: st.cache},
	}
}

// Close releases the stores in reverse open order. Nil handles are skipped.
func (st *stores) Close() {
	if st.cache != nil {
		if err := st.cache.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache")
		}
	}
	if st.vectors != nil {
		if err := st.vectors.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing vector store")
		}
	}
	if st.db != nil {
		st.db.Close()
	}
}
