// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

//go:build integration

package database

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/embedding"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/testinfra"
)

func setupPostgres(t *testing.T) *DB {
	t.Helper()
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	pg, err := testinfra.NewPostgresContainer(ctx, testinfra.WithContainerLogger(testinfra.NewContainerLogger(t)))
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { testinfra.CleanupContainer(t, pg.Container) })

	db, err := Open(ctx, &config.DatabaseConfig{
		URL:            pg.DSN,
		MaxConns:       8,
		MinConns:       1,
		ConnectTimeout: 10 * time.Second,
		QueryTimeout:   10 * time.Second,
		RunMigrations:  true,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func TestPostgresIntegration(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	t.Run("migrations applied once", func(t *testing.T) {
		version, err := db.GetCurrentSchemaVersion(ctx)
		if err != nil {
			t.Fatalf("GetCurrentSchemaVersion() error = %v", err)
		}
		if want := len(migrations()); version != want {
			t.Errorf("schema version = %d, want %d", version, want)
		}

		applied, err := db.runVersionedMigrations(ctx)
		if err != nil {
			t.Fatalf("second migration run error = %v", err)
		}
		if applied != 0 {
			t.Errorf("second run applied %d migrations, want 0", applied)
		}

		history, err := db.GetMigrationHistory(ctx)
		if err != nil {
			t.Fatalf("GetMigrationHistory() error = %v", err)
		}
		if len(history) != len(migrations()) {
			t.Errorf("history has %d entries, want %d", len(history), len(migrations()))
		}
	})

	t.Run("ratings keep insertion order", func(t *testing.T) {
		user := "user-ratings"
		items := []recommend.ScoredItem{
			{TitleID: 550, MediaType: recommend.MediaMovie, Score: 9},
			{TitleID: 1396, MediaType: recommend.MediaShow, Score: 10},
			{TitleID: 13, MediaType: recommend.MediaMovie, Score: 7},
		}
		for _, item := range items {
			if err := db.UpsertUserRating(ctx, user, item); err != nil {
				t.Fatalf("UpsertUserRating(%v) error = %v", item, err)
			}
			time.Sleep(2 * time.Millisecond)
		}

		// Re-rating replaces the score
		if err := db.UpsertUserRating(ctx, user, recommend.ScoredItem{TitleID: 13, MediaType: recommend.MediaMovie, Score: 4}); err != nil {
			t.Fatalf("re-rate error = %v", err)
		}

		got, err := db.ListUserRatings(ctx, user)
		if err != nil {
			t.Fatalf("ListUserRatings() error = %v", err)
		}
		want := []recommend.ScoredItem{
			{TitleID: 550, MediaType: recommend.MediaMovie, Score: 9},
			{TitleID: 1396, MediaType: recommend.MediaShow, Score: 10},
			{TitleID: 13, MediaType: recommend.MediaMovie, Score: 4},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ListUserRatings() = %v, want %v", got, want)
		}

		none, err := db.ListUserRatings(ctx, "nobody")
		if err != nil {
			t.Fatalf("ListUserRatings(nobody) error = %v", err)
		}
		if len(none) != 0 {
			t.Errorf("expected no ratings, got %v", none)
		}
	})

	t.Run("invalid rating rejected", func(t *testing.T) {
		err := db.UpsertUserRating(ctx, "user-x", recommend.ScoredItem{TitleID: 1, MediaType: recommend.MediaMovie, Score: 11})
		if !errors.Is(err, recommend.ErrValidation) {
			t.Errorf("error = %v, want validation error", err)
		}
	})

	t.Run("exclusions", func(t *testing.T) {
		user := "user-exclusions"
		keys := []recommend.ExcludeItem{
			{TitleID: 77, MediaType: recommend.MediaShow},
			{TitleID: 12, MediaType: recommend.MediaMovie},
		}
		for _, k := range keys {
			if err := db.AddUserExclusion(ctx, user, k, "seen it"); err != nil {
				t.Fatalf("AddUserExclusion() error = %v", err)
			}
		}
		// Adding twice is not an error
		if err := db.AddUserExclusion(ctx, user, keys[0], "really seen it"); err != nil {
			t.Fatalf("duplicate AddUserExclusion() error = %v", err)
		}

		got, err := db.ListUserExclusions(ctx, user)
		if err != nil {
			t.Fatalf("ListUserExclusions() error = %v", err)
		}
		want := []recommend.ExcludeItem{
			{TitleID: 12, MediaType: recommend.MediaMovie},
			{TitleID: 77, MediaType: recommend.MediaShow},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ListUserExclusions() = %v, want %v", got, want)
		}
	})

	t.Run("title metadata", func(t *testing.T) {
		err := db.UpsertTitleMetadata(ctx, []recommend.TitleMetadata{
			{TitleID: 603, MediaType: recommend.MediaMovie, Title: "The Matrix", Year: 1999},
			{TitleID: 603, MediaType: recommend.MediaShow, Title: "Same Id Show", Year: 2004},
		})
		if err != nil {
			t.Fatalf("UpsertTitleMetadata() error = %v", err)
		}

		movie := recommend.TitleKey{TitleID: 603, MediaType: recommend.MediaMovie}
		show := recommend.TitleKey{TitleID: 603, MediaType: recommend.MediaShow}
		missing := recommend.TitleKey{TitleID: 9999, MediaType: recommend.MediaMovie}

		got, err := db.GetTitleMetadata(ctx, []recommend.TitleKey{movie, show, missing})
		if err != nil {
			t.Fatalf("GetTitleMetadata() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d rows, want 2", len(got))
		}
		if got[movie].Title != "The Matrix" || got[movie].Year != 1999 {
			t.Errorf("movie metadata = %+v", got[movie])
		}
		if got[show].Title != "Same Id Show" {
			t.Errorf("show metadata = %+v", got[show])
		}
	})

	t.Run("query embeddings", func(t *testing.T) {
		vec, found, err := db.LookupQueryEmbedding(ctx, "space opera")
		if err != nil || found || vec != nil {
			t.Fatalf("LookupQueryEmbedding(miss) = %v, %v, %v", vec, found, err)
		}

		want := []float32{0.25, -0.5, 1}
		if err := db.InsertQueryEmbedding(ctx, "space opera", want); err != nil {
			t.Fatalf("InsertQueryEmbedding() error = %v", err)
		}

		err = db.InsertQueryEmbedding(ctx, "space opera", []float32{9})
		if !errors.Is(err, embedding.ErrDuplicate) {
			t.Fatalf("duplicate insert error = %v, want ErrDuplicate", err)
		}

		vec, found, err = db.LookupQueryEmbedding(ctx, "space opera")
		if err != nil || !found {
			t.Fatalf("LookupQueryEmbedding(hit) = %v, %v", found, err)
		}
		if !reflect.DeepEqual(vec, want) {
			t.Errorf("vector = %v, want %v", vec, want)
		}
	})

	t.Run("concurrent get or create inserts once", func(t *testing.T) {
		srv := testinfra.NewMockEmbeddingServer(t)
		srv.Delay = 50 * time.Millisecond

		var provided atomic.Int32
		provider := countingProvider{inner: embedding.NewHTTPProvider(embedding.ProviderConfig{BaseURL: srv.URL()}), calls: &provided}

		// Two caches model two processes sharing one database.
		caches := []*embedding.QueryCache{
			embedding.NewQueryCache(db, provider),
			embedding.NewQueryCache(db, provider),
		}

		var wg sync.WaitGroup
		results := make([][]float32, 6)
		errs := make([]error, 6)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = caches[i%2].GetOrCreateEmbedding(ctx, "Cozy Mysteries!")
			}(i)
		}
		wg.Wait()

		for i, err := range errs {
			if err != nil {
				t.Fatalf("caller %d error = %v", i, err)
			}
			if !reflect.DeepEqual(results[i], results[0]) {
				t.Errorf("caller %d got a different vector", i)
			}
		}

		var rows int
		if err := db.Pool().QueryRow(ctx,
			`SELECT count(*) FROM query_embeddings WHERE normalized_query = $1`, "cozy mysteries").Scan(&rows); err != nil {
			t.Fatalf("count rows: %v", err)
		}
		if rows != 1 {
			t.Errorf("stored rows = %d, want 1", rows)
		}
		if provided.Load() > 2 {
			t.Errorf("provider calls = %d, want at most one per process", provided.Load())
		}
	})
}

type countingProvider struct {
	inner embedding.Provider
	calls *atomic.Int32
}

func (p countingProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	p.calls.Add(1)
	return p.inner.Embed(ctx, text)
}
