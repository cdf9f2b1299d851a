// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// GetTitleMetadata returns display metadata for the given titles. Titles
// without a row are absent from the map.
func (db *DB) GetTitleMetadata(ctx context.Context, keys []recommend.TitleKey) (meta map[recommend.TitleKey]recommend.TitleMetadata, err error) {
	const op = "get_title_metadata"
	if len(keys) == 0 {
		return map[recommend.TitleKey]recommend.TitleMetadata{}, nil
	}

	start := time.Now()
	defer func() { observe(ctx, op, start, err) }()

	ids := make([]int64, len(keys))
	types := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = k.TitleID
		types[i] = string(k.MediaType)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.pool.Query(ctx, `
		SELECT t.id, t.media_type, t.title, COALESCE(t.release_year, 0), t.poster_path, t.overview
		FROM titles t
		JOIN unnest($1::bigint[], $2::text[]) AS k(id, media_type)
		  ON t.id = k.id AND t.media_type = k.media_type`,
		ids, types)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (recommend.TitleMetadata, error) {
		var (
			m         recommend.TitleMetadata
			mediaType string
			year      int32
		)
		if err := row.Scan(&m.TitleID, &mediaType, &m.Title, &year, &m.PosterPath, &m.Overview); err != nil {
			return m, err
		}
		m.MediaType = recommend.MediaType(mediaType)
		m.Year = int(year)
		return m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: scan: %w", op, err)
	}

	meta = make(map[recommend.TitleKey]recommend.TitleMetadata, len(list))
	for _, m := range list {
		meta[recommend.TitleKey{TitleID: m.TitleID, MediaType: m.MediaType}] = m
	}
	return meta, nil
}

// UpsertTitleMetadata inserts or refreshes display metadata for titles.
func (db *DB) UpsertTitleMetadata(ctx context.Context, titles []recommend.TitleMetadata) (err error) {
	const op = "upsert_title_metadata"
	if len(titles) == 0 {
		return nil
	}

	start := time.Now()
	defer func() { observe(ctx, op, start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	batch := &pgx.Batch{}
	for i := range titles {
		m := &titles[i]
		if !m.MediaType.Valid() || m.TitleID <= 0 {
			return recommend.Validationf(op, "invalid title %s/%d", m.MediaType, m.TitleID)
		}
		var year *int32
		if m.Year > 0 {
			y := int32(m.Year) //nolint:gosec // release years fit in int32
			year = &y
		}
		batch.Queue(`
			INSERT INTO titles (id, media_type, title, release_year, poster_path, overview)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id, media_type) DO UPDATE SET
				title = EXCLUDED.title,
				release_year = EXCLUDED.release_year,
				poster_path = EXCLUDED.poster_path,
				overview = EXCLUDED.overview,
				updated_at = now()`,
			m.TitleID, string(m.MediaType), m.Title, year, m.PosterPath, m.Overview)
	}

	if err = db.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
