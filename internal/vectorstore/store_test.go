// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package vectorstore

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), &config.VectorStoreConfig{Path: MemoryPath, Threads: 2, MaxMemory: "256MB"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedTitles(t *testing.T, s *Store) {
	t.Helper()

	titles := []recommend.Title{
		{ID: 1, MediaType: recommend.MediaMovie, Embedding: []float32{1, 0, 0}, Fingerprint: recommend.Fingerprint{"romance": 0.2}, VoteCount: 500, NormalizedScore: 7.5},
		{ID: 2, MediaType: recommend.MediaMovie, Embedding: []float32{0.9, 0.1, 0}, Fingerprint: recommend.Fingerprint{"romance": 0.8}, VoteCount: 400, NormalizedScore: 7.0},
		{ID: 3, MediaType: recommend.MediaMovie, Embedding: []float32{0.8, 0.2, 0}, VoteCount: 10, NormalizedScore: 8.0},
		{ID: 4, MediaType: recommend.MediaMovie, Embedding: []float32{0.7, 0.3, 0.1}, VoteCount: 300, NormalizedScore: 4.0},
		{ID: 5, MediaType: recommend.MediaMovie, Embedding: []float32{0, 0, 1}, VoteCount: 900, NormalizedScore: 9.0},
		{ID: 101, MediaType: recommend.MediaShow, Embedding: []float32{0.2, 1, 0}, VoteCount: 100, NormalizedScore: 8.0},
		{ID: 1, MediaType: recommend.MediaShow, Embedding: []float32{1, 0, 0}, VoteCount: 100, NormalizedScore: 8.0},
	}
	if err := s.UpsertTitles(context.Background(), titles); err != nil {
		t.Fatalf("UpsertTitles() error = %v", err)
	}
}

func TestGetTitle(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	seedTitles(t, s)

	got, err := s.GetTitle(context.Background(), recommend.MediaMovie, 2)
	if err != nil {
		t.Fatalf("GetTitle() error = %v", err)
	}
	if got.ID != 2 || got.MediaType != recommend.MediaMovie {
		t.Errorf("key = %s", got.Key())
	}
	if !reflect.DeepEqual(got.Embedding, []float32{0.9, 0.1, 0}) {
		t.Errorf("Embedding = %v", got.Embedding)
	}
	if got.Fingerprint["romance"] != 0.8 {
		t.Errorf("Fingerprint = %v", got.Fingerprint)
	}
	if got.VoteCount != 400 || got.NormalizedScore != 7.0 {
		t.Errorf("popularity fields = %d, %v", got.VoteCount, got.NormalizedScore)
	}

	// Same id in the other table is a different title
	show, err := s.GetTitle(context.Background(), recommend.MediaShow, 1)
	if err != nil {
		t.Fatalf("GetTitle(show 1) error = %v", err)
	}
	if show.MediaType != recommend.MediaShow || len(show.Fingerprint) != 0 {
		t.Errorf("show 1 = %+v", show)
	}
}

func TestGetTitle_NotFound(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	seedTitles(t, s)

	_, err := s.GetTitle(context.Background(), recommend.MediaShow, 999)
	if !errors.Is(err, recommend.ErrTitleNotFound) {
		t.Fatalf("error = %v, want ErrTitleNotFound", err)
	}

	// Misses never trip the breaker
	for i := 0; i < 20; i++ {
		_, _ = s.GetTitle(context.Background(), recommend.MediaShow, 999)
	}
	if got := s.BreakerState(); got != "closed" {
		t.Errorf("breaker state = %q after misses, want closed", got)
	}
}

func TestGetTitle_UnknownMediaType(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	_, err := s.GetTitle(context.Background(), recommend.MediaType("podcast"), 1)
	if !errors.Is(err, recommend.ErrValidation) {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	seedTitles(t, s)

	opts := recommend.SearchOptions{PoolSize: 10, MinVoteCount: 50, MinNormalizedScore: 5.0}
	hits, err := s.Search(context.Background(), recommend.MediaMovie, []float32{1, 0, 0}, opts)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	// 3 fails the vote floor and 4 fails the score floor
	var ids []int64
	for _, h := range hits {
		ids = append(ids, h.TitleID)
		if h.MediaType != recommend.MediaMovie {
			t.Errorf("hit %d has media type %q", h.TitleID, h.MediaType)
		}
	}
	if want := []int64{1, 2, 5}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}

	if math.Abs(hits[0].Relevance-1) > 1e-6 {
		t.Errorf("self relevance = %v, want 1", hits[0].Relevance)
	}
	if hits[1].Relevance <= hits[2].Relevance {
		t.Errorf("relevance not descending: %v", hits)
	}
	if hits[1].Fingerprint["romance"] != 0.8 {
		t.Errorf("fingerprint not carried: %v", hits[1].Fingerprint)
	}
}

func TestSearch_FiltersApplyBeforeLimit(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	seedTitles(t, s)

	// Movies 3 and 4 are closer than 5 but ineligible; the pool of 3 must
	// still be filled with eligible titles.
	opts := recommend.SearchOptions{PoolSize: 3, MinVoteCount: 50, MinNormalizedScore: 5.0}
	hits, err := s.Search(context.Background(), recommend.MediaMovie, []float32{1, 0, 0}, opts)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("got %d hits, want 3", len(hits))
	}
	if hits[2].TitleID != 5 {
		t.Errorf("last hit = %d, want 5", hits[2].TitleID)
	}
}

func TestSearch_EdgeCases(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	seedTitles(t, s)
	ctx := context.Background()

	t.Run("zero pool", func(t *testing.T) {
		hits, err := s.Search(ctx, recommend.MediaMovie, []float32{1, 0, 0}, recommend.SearchOptions{})
		if err != nil || len(hits) != 0 {
			t.Errorf("Search() = %v, %v; want empty", hits, err)
		}
	})

	t.Run("empty vector", func(t *testing.T) {
		_, err := s.Search(ctx, recommend.MediaMovie, nil, recommend.SearchOptions{PoolSize: 5})
		if !errors.Is(err, recommend.ErrValidation) {
			t.Errorf("error = %v, want validation error", err)
		}
	})

	t.Run("dimension mismatch yields nothing", func(t *testing.T) {
		hits, err := s.Search(ctx, recommend.MediaMovie, []float32{1, 0}, recommend.SearchOptions{PoolSize: 5})
		if err != nil || len(hits) != 0 {
			t.Errorf("Search() = %v, %v; want empty", hits, err)
		}
	})

	t.Run("non-finite vector", func(t *testing.T) {
		nan := float32(math.NaN())
		_, err := s.Search(ctx, recommend.MediaMovie, []float32{nan, 0, 0}, recommend.SearchOptions{PoolSize: 5})
		if !errors.Is(err, recommend.ErrValidation) {
			t.Errorf("error = %v, want validation error", err)
		}
	})
}

func TestUpsertTitles_Replaces(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	seedTitles(t, s)
	ctx := context.Background()

	err := s.UpsertTitles(ctx, []recommend.Title{
		{ID: 5, MediaType: recommend.MediaMovie, Embedding: []float32{0.5, 0.5, 0}, VoteCount: 1, NormalizedScore: 1},
	})
	if err != nil {
		t.Fatalf("UpsertTitles() error = %v", err)
	}

	got, err := s.GetTitle(ctx, recommend.MediaMovie, 5)
	if err != nil {
		t.Fatalf("GetTitle() error = %v", err)
	}
	if got.VoteCount != 1 || !reflect.DeepEqual(got.Embedding, []float32{0.5, 0.5, 0}) {
		t.Errorf("title not replaced: %+v", got)
	}

	n, err := s.Count(ctx, recommend.MediaMovie)
	if err != nil || n != 5 {
		t.Errorf("Count() = %d, %v; want 5", n, err)
	}
}

func TestUpsertTitles_RejectsInvalid(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()

	err := s.UpsertTitles(ctx, []recommend.Title{
		{ID: 1, MediaType: recommend.MediaMovie, Embedding: []float32{1}},
		{ID: 2, MediaType: recommend.MediaMovie},
	})
	if !errors.Is(err, recommend.ErrValidation) {
		t.Fatalf("error = %v, want validation error", err)
	}

	// The batch is atomic
	if n, _ := s.Count(ctx, recommend.MediaMovie); n != 0 {
		t.Errorf("Count() = %d after failed batch, want 0", n)
	}
}

func TestLoadFixtures(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	fixtures := `[
		{"id": 550, "media_type": "movie", "embedding": [0.1, 0.9], "fingerprint": {"tension": 0.7},
		 "popularity": 61.4, "vote_count": 27000, "normalized_score": 8.4},
		{"id": 1396, "media_type": "show", "embedding": [0.8, 0.2], "vote_count": 13000, "normalized_score": 8.9}
	]`

	n, err := s.LoadFixtures(context.Background(), strings.NewReader(fixtures))
	if err != nil {
		t.Fatalf("LoadFixtures() error = %v", err)
	}
	if n != 2 {
		t.Errorf("loaded %d, want 2", n)
	}

	got, err := s.GetTitle(context.Background(), recommend.MediaMovie, 550)
	if err != nil {
		t.Fatalf("GetTitle() error = %v", err)
	}
	if got.Popularity != 61.4 || got.Fingerprint["tension"] != 0.7 {
		t.Errorf("fixture fields lost: %+v", got)
	}

	if _, err := s.LoadFixtures(context.Background(), strings.NewReader("{")); err == nil {
		t.Error("expected decode error")
	}
}

func TestOpen_FilePersists(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "titles.duckdb")
	cfg := &config.VectorStoreConfig{Path: path, Threads: 1}
	ctx := context.Background()

	s, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.UpsertTitles(ctx, []recommend.Title{
		{ID: 7, MediaType: recommend.MediaShow, Embedding: []float32{1, 2, 3}},
	}); err != nil {
		t.Fatalf("UpsertTitles() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	reopened, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	if err := reopened.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if _, err := reopened.GetTitle(ctx, recommend.MediaShow, 7); err != nil {
		t.Errorf("title lost across reopen: %v", err)
	}
}

func TestCodec(t *testing.T) {
	t.Parallel()

	v, err := decodeVector("[1.0, 0.5, -2.5e-05]")
	if err != nil {
		t.Fatalf("decodeVector() error = %v", err)
	}
	if want := []float32{1, 0.5, -2.5e-05}; !reflect.DeepEqual(v, want) {
		t.Errorf("decodeVector() = %v, want %v", v, want)
	}

	if _, err := decodeVector("[nan]"); err == nil {
		t.Error("expected error for malformed vector")
	}

	fp, err := encodeFingerprint(nil)
	if err != nil || fp != "{}" {
		t.Errorf("encodeFingerprint(nil) = %q, %v", fp, err)
	}
	got, err := decodeFingerprint("")
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("decodeFingerprint(\"\") = %v, %v", got, err)
	}
}
