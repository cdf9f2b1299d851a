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
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelmatch/internal/breaker"
	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// GetTitle returns one title. It returns an error wrapping
// recommend.ErrTitleNotFound when no row exists.
func (s *Store) GetTitle(ctx context.Context, mediaType recommend.MediaType, id int64) (title recommend.Title, err error) {
	start := time.Now()
	defer func() { observe("get_title", start, err) }()

	table, err := tableFor(mediaType)
	if err != nil {
		return recommend.Title{}, err
	}

	return breaker.Execute(s.cb, func() (recommend.Title, error) {
		var (
			t           = recommend.Title{ID: id, MediaType: mediaType}
			embedding   string
			fingerprint string
			err         error
		)
		//nolint:gosec // table comes from tableFor, never from input
		row := s.conn.QueryRowContext(ctx, `
			SELECT CAST(embedding AS VARCHAR), fingerprint, popularity, vote_count, normalized_score
			FROM `+table+` WHERE id = ?`, id)
		if err := row.Scan(&embedding, &fingerprint, &t.Popularity, &t.VoteCount, &t.NormalizedScore); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return t, fmt.Errorf("%s %d: %w", mediaType, id, recommend.ErrTitleNotFound)
			}
			return t, fmt.Errorf("get title %s/%d: %w", mediaType, id, err)
		}

		if t.Embedding, err = decodeVector(embedding); err != nil {
			return t, fmt.Errorf("title %s/%d: %w", mediaType, id, err)
		}
		if len(t.Embedding) == 0 {
			return t, fmt.Errorf("%s %d has an empty embedding: %w", mediaType, id, recommend.ErrTitleNotFound)
		}
		if t.Fingerprint, err = decodeFingerprint(fingerprint); err != nil {
			return t, fmt.Errorf("title %s/%d: %w", mediaType, id, err)
		}
		return t, nil
	})
}

// Search returns up to opts.PoolSize titles of one media type ordered by
// cosine similarity to vector. Ties break on ascending id.
func (s *Store) Search(ctx context.Context, mediaType recommend.MediaType, vector []float32, opts recommend.SearchOptions) (hits []recommend.Hit, err error) {
	start := time.Now()
	defer func() { observe("search", start, err) }()

	table, err := tableFor(mediaType)
	if err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		return nil, recommend.Validationf("vectorstore.Search", "query vector is empty")
	}
	if opts.PoolSize <= 0 {
		return nil, nil
	}

	query, err := encodeVector(vector)
	if err != nil {
		return nil, err
	}

	return breaker.Execute(s.cb, func() ([]recommend.Hit, error) {
		//nolint:gosec // table comes from tableFor, never from input
		rows, err := s.conn.QueryContext(ctx, `
			SELECT id, fingerprint, relevance FROM (
				SELECT id, fingerprint,
					list_cosine_similarity(embedding, CAST(? AS FLOAT[])) AS relevance
				FROM `+table+`
				WHERE vote_count >= ? AND normalized_score >= ? AND len(embedding) = ?
			)
			WHERE relevance IS NOT NULL
			ORDER BY relevance DESC, id ASC
			LIMIT ?`,
			query, opts.MinVoteCount, opts.MinNormalizedScore, len(vector), opts.PoolSize)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", table, err)
		}
		defer func() { _ = rows.Close() }()

		out := make([]recommend.Hit, 0, min(opts.PoolSize, 256))
		for rows.Next() {
			var (
				h           = recommend.Hit{MediaType: mediaType}
				fingerprint string
			)
			if err := rows.Scan(&h.TitleID, &fingerprint, &h.Relevance); err != nil {
				return nil, fmt.Errorf("scan %s: %w", table, err)
			}
			if h.Fingerprint, err = decodeFingerprint(fingerprint); err != nil {
				return nil, fmt.Errorf("%s/%d: %w", mediaType, h.TitleID, err)
			}
			out = append(out, h)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate %s: %w", table, err)
		}
		return out, nil
	})
}

// UpsertTitles inserts or replaces titles in one transaction. It exists for
// fixtures and local seeding.
func (s *Store) UpsertTitles(ctx context.Context, titles []recommend.Title) (err error) {
	start := time.Now()
	defer func() { observe("upsert_titles", start, err) }()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range titles {
		t := &titles[i]
		table, err := tableFor(t.MediaType)
		if err != nil {
			return err
		}
		if t.ID <= 0 || len(t.Embedding) == 0 {
			return recommend.Validationf("vectorstore.UpsertTitles", "title %s needs a positive id and an embedding", t.Key())
		}
		vec, err := encodeVector(t.Embedding)
		if err != nil {
			return err
		}
		fp, err := encodeFingerprint(t.Fingerprint)
		if err != nil {
			return err
		}

		//nolint:gosec // table comes from tableFor, never from input
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO `+table+` (id, embedding, fingerprint, popularity, vote_count, normalized_score)
			VALUES (?, CAST(? AS FLOAT[]), ?, ?, ?, ?)`,
			t.ID, vec, fp, t.Popularity, t.VoteCount, t.NormalizedScore)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", t.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// fixtureTitle is the on-disk fixture shape. Embeddings are exported here
// even though recommend.Title hides them from API output.
type fixtureTitle struct {
	ID              int64                 `json:"id"`
	MediaType       recommend.MediaType   `json:"media_type"`
	Embedding       []float32             `json:"embedding"`
	Fingerprint     recommend.Fingerprint `json:"fingerprint"`
	Popularity      float64               `json:"popularity"`
	VoteCount       int                   `json:"vote_count"`
	NormalizedScore float64               `json:"normalized_score"`
}

// LoadFixtures reads a JSON array of titles from r and upserts them. It
// returns the number of titles written.
func (s *Store) LoadFixtures(ctx context.Context, r io.Reader) (int, error) {
	var fixtures []fixtureTitle
	if err := json.NewDecoder(r).Decode(&fixtures); err != nil {
		return 0, fmt.Errorf("decode fixtures: %w", err)
	}

	titles := make([]recommend.Title, len(fixtures))
	for i, f := range fixtures {
		titles[i] = recommend.Title{
			ID:              f.ID,
			MediaType:       f.MediaType,
			Embedding:       f.Embedding,
			Fingerprint:     f.Fingerprint,
			Popularity:      f.Popularity,
			VoteCount:       f.VoteCount,
			NormalizedScore: f.NormalizedScore,
		}
	}
	if err := s.UpsertTitles(ctx, titles); err != nil {
		return 0, err
	}
	return len(titles), nil
}

// Count returns the number of titles stored for a media type.
func (s *Store) Count(ctx context.Context, mediaType recommend.MediaType) (int, error) {
	table, err := tableFor(mediaType)
	if err != nil {
		return 0, err
	}
	var n int
	//nolint:gosec // table comes from tableFor, never from input
	if err := s.conn.QueryRowContext(ctx, `SELECT count(*) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func observe(op string, start time.Time, err error) {
	if errors.Is(err, recommend.ErrTitleNotFound) {
		err = nil
	}
	metrics.RecordStoreQuery("duckdb", op, time.Since(start), err)
}
