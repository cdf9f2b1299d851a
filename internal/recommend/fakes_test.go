// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var testLogger = zerolog.Nop()

// fakeVectorStore ranks titles by cosine similarity, applying the popularity
// thresholds the way the DuckDB store does.
type fakeVectorStore struct {
	mu     sync.RWMutex
	titles map[TitleKey]Title

	getErr    error
	searchErr error

	getCalls    atomic.Int32
	searchCalls atomic.Int32
	lastOpts    atomic.Value // SearchOptions
}

func newFakeVectorStore(titles ...Title) *fakeVectorStore {
	f := &fakeVectorStore{titles: make(map[TitleKey]Title)}
	for _, t := range titles {
		f.titles[t.Key()] = t
	}
	return f
}

func (f *fakeVectorStore) GetTitle(_ context.Context, mediaType MediaType, id int64) (Title, error) {
	f.getCalls.Add(1)
	if f.getErr != nil {
		return Title{}, f.getErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.titles[TitleKey{TitleID: id, MediaType: mediaType}]
	if !ok {
		return Title{}, fmt.Errorf("%s/%d: %w", mediaType, id, ErrTitleNotFound)
	}
	return t, nil
}

func (f *fakeVectorStore) Search(_ context.Context, mediaType MediaType, vector []float32, opts SearchOptions) ([]Hit, error) {
	f.searchCalls.Add(1)
	f.lastOpts.Store(opts)
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var hits []Hit
	for _, t := range f.titles {
		if t.MediaType != mediaType || len(t.Embedding) == 0 {
			continue
		}
		if t.VoteCount < opts.MinVoteCount || t.NormalizedScore < opts.MinNormalizedScore {
			continue
		}
		hits = append(hits, Hit{
			TitleID:     t.ID,
			MediaType:   t.MediaType,
			Relevance:   cosine(vector, t.Embedding),
			Fingerprint: t.Fingerprint,
		})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Relevance != hits[j].Relevance {
			return hits[i].Relevance > hits[j].Relevance
		}
		return hits[i].TitleID < hits[j].TitleID
	})
	if opts.PoolSize > 0 && len(hits) > opts.PoolSize {
		hits = hits[:opts.PoolSize]
	}
	return hits, nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		if i >= len(b) {
			break
		}
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// popular builds a title that passes the default popularity thresholds.
func popular(id int64, mediaType MediaType, embedding []float32, fp Fingerprint) Title {
	return Title{
		ID:              id,
		MediaType:       mediaType,
		Embedding:       embedding,
		Fingerprint:     fp,
		VoteCount:       1000,
		NormalizedScore: 7.5,
	}
}

// stubFinder returns canned candidates per seed. tableErrs fails every
// query against one target table.
type stubFinder struct {
	results   map[TitleKey][]Candidate
	errs      map[TitleKey]error
	tableErrs map[MediaType]error
	calls     atomic.Int32

	mu   sync.Mutex
	seen []SimilarQuery
}

//nolint:gocritic // hugeParam: test double
func (s *stubFinder) FindSimilar(_ context.Context, q SimilarQuery) ([]Candidate, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.seen = append(s.seen, q)
	s.mu.Unlock()
	if err := s.errs[q.Source]; err != nil {
		return nil, err
	}
	if err := s.tableErrs[q.TargetMediaType]; err != nil {
		return nil, err
	}
	var out []Candidate
	for _, c := range s.results[q.Source] {
		if c.MediaType == q.TargetMediaType {
			out = append(out, c)
		}
	}
	return out, nil
}

func cand(id int64, mediaType MediaType, score float64) Candidate {
	return Candidate{TitleID: id, MediaType: mediaType, ANNScore: score - 0.1, FingerprintScore: 0.1, BlendedScore: score}
}

func movieSeed(id int64, score int) ScoredItem {
	return ScoredItem{TitleID: id, MediaType: MediaMovie, Score: score}
}

// fakeRatings is an in-memory RatingStore.
type fakeRatings struct {
	ratings    map[string][]ScoredItem
	exclusions map[string][]ExcludeItem
	err        error
	calls      atomic.Int32
}

func (f *fakeRatings) ListUserRatings(_ context.Context, userID string) ([]ScoredItem, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.ratings[userID], nil
}

func (f *fakeRatings) ListUserExclusions(_ context.Context, userID string) ([]ExcludeItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.exclusions[userID], nil
}

// fakeMetadata is an in-memory MetadataStore.
type fakeMetadata struct {
	meta  map[TitleKey]TitleMetadata
	err   error
	calls atomic.Int32
}

func (f *fakeMetadata) GetTitleMetadata(_ context.Context, keys []TitleKey) (map[TitleKey]TitleMetadata, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[TitleKey]TitleMetadata, len(keys))
	for _, k := range keys {
		if m, ok := f.meta[k]; ok {
			out[k] = m
		}
	}
	return out, nil
}

// fakeEmbeddings returns a fixed vector per query.
type fakeEmbeddings struct {
	vectors map[string][]float32
	err     error
	calls   atomic.Int32
}

func (f *fakeEmbeddings) GetOrCreateEmbedding(_ context.Context, text string) ([]float32, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.vectors[text]
	if !ok {
		return nil, Validationf("embed", "no vector for %q", text)
	}
	return v, nil
}

// testCorpus is a small catalog with hand-picked geometry:
// movies 1..5 cluster around the x axis, shows 101..103 around the y axis.
func testCorpus() *fakeVectorStore {
	return newFakeVectorStore(
		popular(1, MediaMovie, []float32{1, 0, 0}, Fingerprint{"action": 8, "romance": 1}),
		popular(2, MediaMovie, []float32{0.9, 0.1, 0}, Fingerprint{"action": 7.5, "romance": 2}),
		popular(3, MediaMovie, []float32{0.8, 0.2, 0}, Fingerprint{"action": 2, "romance": 9}),
		popular(4, MediaMovie, []float32{0.7, 0.3, 0.1}, Fingerprint{"action": 8}),
		popular(5, MediaMovie, []float32{0, 0, 1}, Fingerprint{"action": 1}),
		popular(101, MediaShow, []float32{0.2, 1, 0}, Fingerprint{"action": 3}),
		popular(102, MediaShow, []float32{0.6, 0.6, 0}, Fingerprint{"action": 8}),
		popular(103, MediaShow, []float32{0.1, 0.9, 0.2}, Fingerprint{"romance": 5}),
	)
}
