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

// ListUserRatings returns a user's ratings, oldest first. The order is stable
// so seed reduction is deterministic for an unchanged history.
func (db *DB) ListUserRatings(ctx context.Context, userID string) (items []recommend.ScoredItem, err error) {
	const op = "list_user_ratings"
	start := time.Now()
	defer func() { observe(ctx, op, start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.pool.Query(ctx, `
		SELECT title_id, media_type, score
		FROM user_ratings
		WHERE user_id = $1
		ORDER BY rated_at, media_type, title_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (recommend.ScoredItem, error) {
		var (
			s         recommend.ScoredItem
			mediaType string
			score     int16
		)
		if err := row.Scan(&s.TitleID, &mediaType, &score); err != nil {
			return s, err
		}
		s.MediaType = recommend.MediaType(mediaType)
		s.Score = int(score)
		return s, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: scan: %w", op, err)
	}
	return items, nil
}

// ListUserExclusions returns the titles a user excluded.
func (db *DB) ListUserExclusions(ctx context.Context, userID string) (keys []recommend.ExcludeItem, err error) {
	const op = "list_user_exclusions"
	start := time.Now()
	defer func() { observe(ctx, op, start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.pool.Query(ctx, `
		SELECT title_id, media_type
		FROM user_exclusions
		WHERE user_id = $1
		ORDER BY media_type, title_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	keys, err = pgx.CollectRows(rows, scanTitleKey)
	if err != nil {
		return nil, fmt.Errorf("%s: scan: %w", op, err)
	}
	return keys, nil
}

// UpsertUserRating records or replaces a user's rating of one title.
func (db *DB) UpsertUserRating(ctx context.Context, userID string, item recommend.ScoredItem) (err error) {
	const op = "upsert_user_rating"
	start := time.Now()
	defer func() { observe(ctx, op, start, err) }()

	if userID == "" {
		return recommend.Validationf(op, "user id is required")
	}
	if item.Score < 1 || item.Score > 10 || !item.MediaType.Valid() || item.TitleID <= 0 {
		return recommend.Validationf(op, "invalid rating %s score %d", item.Key(), item.Score)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err = db.pool.Exec(ctx, `
		INSERT INTO user_ratings (user_id, title_id, media_type, score)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, title_id, media_type)
		DO UPDATE SET score = EXCLUDED.score, rated_at = now()`,
		userID, item.TitleID, string(item.MediaType), int16(item.Score)) //nolint:gosec // score validated to 1..10
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AddUserExclusion excludes a title from a user's recommendations.
func (db *DB) AddUserExclusion(ctx context.Context, userID string, key recommend.ExcludeItem, reason string) (err error) {
	const op = "add_user_exclusion"
	start := time.Now()
	defer func() { observe(ctx, op, start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err = db.pool.Exec(ctx, `
		INSERT INTO user_exclusions (user_id, title_id, media_type, reason)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, title_id, media_type) DO UPDATE SET reason = EXCLUDED.reason`,
		userID, key.TitleID, string(key.MediaType), reason)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanTitleKey(row pgx.CollectableRow) (recommend.TitleKey, error) {
	var (
		k         recommend.TitleKey
		mediaType string
	)
	if err := row.Scan(&k.TitleID, &mediaType); err != nil {
		return k, err
	}
	k.MediaType = recommend.MediaType(mediaType)
	return k, nil
}
