// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package vectorstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/reelmatch/internal/breaker"
	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// MemoryPath opens an ephemeral database.
const MemoryPath = ":memory:"

// Store is the DuckDB-backed vector store.
type Store struct {
	conn      *sql.DB
	cfg       *config.VectorStoreConfig
	cb        *breaker.Breaker
	closeOnce sync.Once
	closeErr  error
}

// Ensure Store implements recommend.VectorStore
var _ recommend.VectorStore = (*Store)(nil)

// Open opens (creating if needed) the DuckDB file at cfg.Path and ensures
// the title tables exist.
func Open(ctx context.Context, cfg *config.VectorStoreConfig) (*Store, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "1GB"
	}

	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
	if cfg.Path != MemoryPath {
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create vector store directory %s: %w", dir, err)
			}
		}
	}

	// Auto-install is disabled so startup never blocks on the network.
	connStr := fmt.Sprintf("%s?threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, maxMemory)
	if cfg.Path != MemoryPath {
		connStr += "&access_mode=read_write"
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}

	conn.SetMaxOpenConns(numThreads)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	s := &Store{
		conn: conn,
		cfg:  cfg,
		cb:   breaker.New(breakerSettings()),
	}

	if err := s.createTables(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize vector store: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Int("threads", numThreads).
		Str("max_memory", maxMemory).
		Msg("Vector store opened")

	return s, nil
}

func breakerSettings() breaker.Settings {
	settings := breaker.DefaultSettings("vector-store")
	settings.Ignore = func(err error) bool {
		return errors.Is(err, recommend.ErrTitleNotFound) || errors.Is(err, context.Canceled)
	}
	return settings
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Checkpoint flushes the WAL into the database file.
func (s *Store) Checkpoint(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}

// Close checkpoints and closes the database. Safe to call more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.cfg.Path != MemoryPath {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := s.Checkpoint(ctx); err != nil {
				logging.Warn().Err(err).Msg("Failed to checkpoint vector store before close")
			}
			cancel()
		}
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}

// BreakerState returns the vector store circuit breaker state.
func (s *Store) BreakerState() string {
	return s.cb.State()
}

// tableFor maps a media type to its table. Table names never come from input.
func tableFor(mediaType recommend.MediaType) (string, error) {
	switch mediaType {
	case recommend.MediaMovie:
		return "movie_titles", nil
	case recommend.MediaShow:
		return "show_titles", nil
	default:
		return "", recommend.Validationf("vectorstore", "unknown media type %q", mediaType)
	}
}

func (s *Store) createTables(ctx context.Context) error {
	for _, mt := range recommend.MediaTypes {
		table, err := tableFor(mt)
		if err != nil {
			return err
		}
		ddl := strings.ReplaceAll(titleTableDDL, "{table}", table)
		if _, err := s.conn.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create %s: %w", table, err)
		}
	}
	return nil
}

const titleTableDDL = `
CREATE TABLE IF NOT EXISTS {table} (
	id               BIGINT PRIMARY KEY,
	embedding        FLOAT[] NOT NULL,
	fingerprint      VARCHAR NOT NULL DEFAULT '{}',
	popularity       DOUBLE NOT NULL DEFAULT 0,
	vote_count       INTEGER NOT NULL DEFAULT 0,
	normalized_score DOUBLE NOT NULL DEFAULT 0
)`
