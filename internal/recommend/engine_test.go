// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/reelmatch/internal/cache"
)

type engineFixture struct {
	engine     *Engine
	vectors    *fakeVectorStore
	ratings    *fakeRatings
	metadata   *fakeMetadata
	embeddings *fakeEmbeddings
}

func newEngineFixture(t *testing.T, mutate func(*Config)) *engineFixture {
	t.Helper()

	cfg := DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}

	store := cache.NewMemoryStore(cache.MemoryOptions{MaxEntries: 100})
	t.Cleanup(func() { _ = store.Close() })

	f := &engineFixture{
		vectors: testCorpus(),
		ratings: &fakeRatings{ratings: map[string][]ScoredItem{
			"u1": {movieSeed(1, 9)},
		}},
		metadata: &fakeMetadata{meta: map[TitleKey]TitleMetadata{
			{2, MediaMovie}: {TitleID: 2, MediaType: MediaMovie, Title: "Second Strike", Year: 2019, PosterPath: "/p2.jpg"},
		}},
		embeddings: &fakeEmbeddings{vectors: map[string][]float32{
			"heist": {1, 0, 0},
			"cozy":  {0, 1, 0},
		}},
	}

	e, err := NewEngine(cfg, Dependencies{
		Vectors:    f.vectors,
		Ratings:    f.ratings,
		Metadata:   f.metadata,
		Embeddings: f.embeddings,
		Cache:      store,
	}, testLogger)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	f.engine = e
	return f
}

func TestEngine_Close(t *testing.T) {
	t.Parallel()

	t.Run("fallback cache is closed", func(t *testing.T) {
		t.Parallel()

		e, err := NewEngine(nil, Dependencies{Vectors: testCorpus(), Ratings: &fakeRatings{}}, testLogger)
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		if e.ownedStore == nil {
			t.Fatal("no fallback cache built")
		}
		if err := e.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if err := e.ownedStore.Ping(context.Background()); !errors.Is(err, cache.ErrClosed) {
			t.Errorf("fallback Ping() = %v, want ErrClosed", err)
		}
	})

	t.Run("injected cache stays open", func(t *testing.T) {
		t.Parallel()

		f := newEngineFixture(t, nil)
		if err := f.engine.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if f.engine.ownedStore != nil {
			t.Error("engine claimed ownership of an injected cache")
		}
		if _, err := f.engine.Similar(context.Background(), SimilarRequest{TitleID: 1, SourceMediaType: MediaMovie, MediaType: FilterAll}); err != nil {
			t.Errorf("Similar() after Close = %v", err)
		}
	})
}

func itemIDs(items []Recommendation) []int64 {
	out := make([]int64, len(items))
	for i := range items {
		out[i] = items[i].TitleID
	}
	return out
}

func TestNewEngine_RequiresStores(t *testing.T) {
	t.Parallel()

	if _, err := NewEngine(nil, Dependencies{Ratings: &fakeRatings{}}, testLogger); err == nil {
		t.Error("expected error without vector store")
	}
	if _, err := NewEngine(nil, Dependencies{Vectors: testCorpus()}, testLogger); err == nil {
		t.Error("expected error without rating store")
	}
	bad := DefaultConfig()
	bad.SeedCap = 0
	if _, err := NewEngine(bad, Dependencies{Vectors: testCorpus(), Ratings: &fakeRatings{}}, testLogger); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestEngine_Similar(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, nil)
	ctx := context.Background()
	req := SimilarRequest{TitleID: 1, SourceMediaType: MediaMovie, MediaType: FilterMovie}

	first, err := f.engine.Similar(ctx, req)
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if first.Cached {
		t.Error("first call reported cached")
	}
	if !equalIDs(itemIDs(first.Items), []int64{2, 3, 4, 5}) {
		t.Errorf("ids = %v, want [2 3 4 5]", itemIDs(first.Items))
	}
	if first.Items[0].Title != "Second Strike" || first.Items[0].Year != 2019 {
		t.Errorf("first item not enriched: %+v", first.Items[0])
	}

	calls := f.vectors.getCalls.Load()
	second, err := f.engine.Similar(ctx, req)
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if !second.Cached {
		t.Error("second call not served from cache")
	}
	if f.vectors.getCalls.Load() != calls {
		t.Error("cached call reached the vector store")
	}
	if !equalIDs(itemIDs(second.Items), itemIDs(first.Items)) {
		t.Errorf("cached ids = %v, want %v", itemIDs(second.Items), itemIDs(first.Items))
	}
}

func TestEngine_Similar_EquivalentRequestsShareEntry(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, nil)
	ctx := context.Background()

	a := SimilarRequest{TitleID: 1, SourceMediaType: MediaMovie, MediaType: FilterAll,
		ExcludeIDs: []TitleKey{{4, MediaMovie}, {101, MediaShow}}}
	b := SimilarRequest{TitleID: 1, SourceMediaType: MediaMovie, MediaType: FilterAll,
		ExcludeIDs: []TitleKey{{101, MediaShow}, {4, MediaMovie}}, Limit: f.engine.Config().DefaultSimilarLimit}

	if _, err := f.engine.Similar(ctx, a); err != nil {
		t.Fatalf("Similar(a) error = %v", err)
	}
	res, err := f.engine.Similar(ctx, b)
	if err != nil {
		t.Fatalf("Similar(b) error = %v", err)
	}
	if !res.Cached {
		t.Error("reordered exclusions and explicit default limit should hit the cache")
	}
}

func TestEngine_Similar_ZeroTTLAlwaysComputes(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, func(c *Config) { c.SimilarTTL = 0 })
	req := SimilarRequest{TitleID: 1, SourceMediaType: MediaMovie, MediaType: FilterMovie}

	for i := 0; i < 3; i++ {
		res, err := f.engine.Similar(context.Background(), req)
		if err != nil {
			t.Fatalf("Similar() error = %v", err)
		}
		if res.Cached {
			t.Errorf("call %d reported cached with zero TTL", i)
		}
	}
	if got := f.vectors.getCalls.Load(); got != 3 {
		t.Errorf("vector store calls = %d, want 3", got)
	}
}

func TestEngine_Similar_AllMergesTables(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, nil)
	res, err := f.engine.Similar(context.Background(), SimilarRequest{
		TitleID: 1, SourceMediaType: MediaMovie, MediaType: FilterAll, Limit: 5,
	})
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}

	// Movies 2,3,4 outrank show 102 (cosine 0.707), which outranks movie 5.
	if !equalIDs(itemIDs(res.Items), []int64{2, 3, 4, 102, 101}) {
		t.Errorf("ids = %v, want [2 3 4 102 101]", itemIDs(res.Items))
	}
	for i := 1; i < len(res.Items); i++ {
		if res.Items[i].BlendedScore > res.Items[i-1].BlendedScore {
			t.Errorf("items not ranked at %d", i)
		}
	}
}

func TestEngine_Similar_Errors(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, nil)
	ctx := context.Background()

	if _, err := f.engine.Similar(ctx, SimilarRequest{TitleID: 404, SourceMediaType: MediaMovie, MediaType: FilterAll}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown title error = %v, want not found", err)
	}
	if _, err := f.engine.Similar(ctx, SimilarRequest{TitleID: 1, SourceMediaType: MediaMovie, MediaType: "books"}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad filter error = %v, want validation", err)
	}
	if _, err := f.engine.Similar(ctx, SimilarRequest{TitleID: 1, SourceMediaType: MediaMovie, MediaType: FilterAll, AttributeKey: "nope"}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad attribute error = %v, want validation", err)
	}
}

func TestEngine_MetadataFailureDegrades(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, nil)
	f.metadata.err = errors.New("pool exhausted")

	res, err := f.engine.Similar(context.Background(), SimilarRequest{TitleID: 1, SourceMediaType: MediaMovie, MediaType: FilterMovie})
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if len(res.Items) != 4 {
		t.Fatalf("items = %d, want 4", len(res.Items))
	}
	for _, it := range res.Items {
		if it.Title != "" {
			t.Errorf("item %d has metadata despite failure", it.TitleID)
		}
	}
}

func TestEngine_RecommendGuestThenUserShareCache(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, nil)
	ctx := context.Background()

	guest, err := f.engine.RecommendGuest(ctx, GuestRequest{
		MediaType:   FilterMovie,
		ScoredItems: []ScoredItem{movieSeed(1, 9)},
	})
	if err != nil {
		t.Fatalf("RecommendGuest() error = %v", err)
	}
	if guest.Cached {
		t.Error("first guest call reported cached")
	}
	if !equalIDs(itemIDs(guest.Items), []int64{2, 3, 4, 5}) {
		t.Errorf("guest ids = %v, want [2 3 4 5]", itemIDs(guest.Items))
	}

	user, err := f.engine.RecommendUser(ctx, UserRequest{UserID: "u1", MediaType: FilterMovie})
	if err != nil {
		t.Fatalf("RecommendUser() error = %v", err)
	}
	if !user.Cached {
		t.Error("user with the same ratings should hit the guest's cache entry")
	}
	if !equalIDs(itemIDs(user.Items), itemIDs(guest.Items)) {
		t.Errorf("user ids = %v, want %v", itemIDs(user.Items), itemIDs(guest.Items))
	}
}

func TestEngine_RecommendUser_NoRatings(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, nil)
	res, err := f.engine.RecommendUser(context.Background(), UserRequest{UserID: "new", MediaType: FilterAll})
	if err != nil {
		t.Fatalf("RecommendUser() error = %v", err)
	}
	if len(res.Items) != 0 {
		t.Errorf("items = %v, want none", res.Items)
	}
	if f.vectors.getCalls.Load() != 0 {
		t.Error("vector store queried for a user without ratings")
	}
}

func TestEngine_Search(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, nil)
	ctx := context.Background()

	res, err := f.engine.Search(ctx, SearchRequest{Query: "heist", MediaType: FilterMovie, Limit: 2})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !equalIDs(itemIDs(res.Items), []int64{1, 2}) {
		t.Errorf("ids = %v, want [1 2]", itemIDs(res.Items))
	}

	res, err = f.engine.Search(ctx, SearchRequest{Query: "cozy", MediaType: FilterAll, Limit: 1})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].MediaType != MediaShow || res.Items[0].TitleID != 101 {
		t.Errorf("cozy top result = %+v, want show 101", res.Items)
	}
}

func TestEngine_Search_Errors(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, nil)
	ctx := context.Background()

	if _, err := f.engine.Search(ctx, SearchRequest{Query: "unknown", MediaType: FilterAll}); !errors.Is(err, ErrValidation) {
		t.Errorf("domain error from embedding source = %v, want validation passthrough", err)
	}

	f.embeddings.err = errors.New("provider 503")
	if _, err := f.engine.Search(ctx, SearchRequest{Query: "heist", MediaType: FilterAll}); !errors.Is(err, ErrUpstream) {
		t.Errorf("provider failure = %v, want upstream", err)
	}

	noEmbed, err := NewEngine(nil, Dependencies{Vectors: testCorpus(), Ratings: &fakeRatings{}}, testLogger)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	t.Cleanup(func() { _ = noEmbed.Close() })
	if _, err := noEmbed.Search(ctx, SearchRequest{Query: "heist", MediaType: FilterAll}); !errors.Is(err, ErrUpstream) {
		t.Errorf("missing provider = %v, want upstream", err)
	}
}
