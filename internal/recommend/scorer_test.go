// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"testing"
)

func ids(c []Candidate) []int64 {
	out := make([]int64, len(c))
	for i := range c {
		out[i] = c[i].TitleID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScorer_FindSimilar_Ranking(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query SimilarQuery
		want  []int64
	}{
		{
			name:  "no attribute keeps ANN order",
			query: SimilarQuery{Source: TitleKey{1, MediaMovie}, TargetMediaType: MediaMovie},
			want:  []int64{2, 3, 4, 5},
		},
		{
			name:  "attribute proximity reorders close relevance",
			query: SimilarQuery{Source: TitleKey{1, MediaMovie}, TargetMediaType: MediaMovie, AttributeKey: "romance"},
			want:  []int64{2, 4, 3, 5},
		},
		{
			name:  "cross table query",
			query: SimilarQuery{Source: TitleKey{1, MediaMovie}, TargetMediaType: MediaShow},
			want:  []int64{102, 101, 103},
		},
		{
			name:  "exclusions are dropped",
			query: SimilarQuery{Source: TitleKey{1, MediaMovie}, TargetMediaType: MediaMovie, ExcludeIDs: []TitleKey{{3, MediaMovie}, {3, MediaShow}}},
			want:  []int64{2, 4, 5},
		},
		{
			name:  "limit truncates after ranking",
			query: SimilarQuery{Source: TitleKey{1, MediaMovie}, TargetMediaType: MediaMovie, Limit: 2},
			want:  []int64{2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewScorer(testCorpus(), DefaultConfig(), testLogger)

			got, err := s.FindSimilar(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("FindSimilar() error = %v", err)
			}
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("FindSimilar() ids = %v, want %v", ids(got), tt.want)
			}
			for _, c := range got {
				if c.Key() == tt.query.Source {
					t.Error("source title returned as its own candidate")
				}
				if c.MediaType != tt.query.TargetMediaType {
					t.Errorf("candidate %v outside target table", c.Key())
				}
				if c.BlendedScore != c.ANNScore+c.FingerprintScore {
					t.Errorf("candidate %v: blended %v != ann %v + boost %v", c.Key(), c.BlendedScore, c.ANNScore, c.FingerprintScore)
				}
			}
		})
	}
}

func TestScorer_FindSimilar_PassesPopularityThresholds(t *testing.T) {
	t.Parallel()

	store := testCorpus()
	obscure := popular(9, MediaMovie, []float32{1, 0, 0}, nil)
	obscure.VoteCount = 3
	store.titles[obscure.Key()] = obscure

	cfg := DefaultConfig()
	s := NewScorer(store, cfg, testLogger)

	got, err := s.FindSimilar(context.Background(), SimilarQuery{Source: TitleKey{1, MediaMovie}, TargetMediaType: MediaMovie})
	if err != nil {
		t.Fatalf("FindSimilar() error = %v", err)
	}
	for _, c := range got {
		if c.TitleID == 9 {
			t.Error("title below the vote floor was returned")
		}
	}

	opts, _ := store.lastOpts.Load().(SearchOptions)
	if opts.PoolSize != cfg.CandidatePoolSize || opts.MinVoteCount != cfg.MinVoteCount || opts.MinNormalizedScore != cfg.MinNormalizedScore {
		t.Errorf("search options = %+v, want thresholds from config", opts)
	}
}

func TestScorer_FindSimilar_Errors(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection reset")

	tests := []struct {
		name    string
		store   func() *fakeVectorStore
		query   SimilarQuery
		wantErr error
	}{
		{
			name:    "unknown source",
			store:   testCorpus,
			query:   SimilarQuery{Source: TitleKey{999, MediaMovie}, TargetMediaType: MediaMovie},
			wantErr: ErrNotFound,
		},
		{
			name: "source without embedding",
			store: func() *fakeVectorStore {
				f := testCorpus()
				f.titles[TitleKey{6, MediaMovie}] = popular(6, MediaMovie, nil, nil)
				return f
			},
			query:   SimilarQuery{Source: TitleKey{6, MediaMovie}, TargetMediaType: MediaMovie},
			wantErr: ErrNotFound,
		},
		{
			name: "get title failure",
			store: func() *fakeVectorStore {
				f := testCorpus()
				f.getErr = storeErr
				return f
			},
			query:   SimilarQuery{Source: TitleKey{1, MediaMovie}, TargetMediaType: MediaMovie},
			wantErr: ErrUpstream,
		},
		{
			name: "search failure",
			store: func() *fakeVectorStore {
				f := testCorpus()
				f.searchErr = storeErr
				return f
			},
			query:   SimilarQuery{Source: TitleKey{1, MediaMovie}, TargetMediaType: MediaMovie},
			wantErr: ErrUpstream,
		},
		{
			name:    "missing title id",
			store:   testCorpus,
			query:   SimilarQuery{Source: TitleKey{0, MediaMovie}, TargetMediaType: MediaMovie},
			wantErr: ErrValidation,
		},
		{
			name:    "unknown source media type",
			store:   testCorpus,
			query:   SimilarQuery{Source: TitleKey{1, "book"}, TargetMediaType: MediaMovie},
			wantErr: ErrValidation,
		},
		{
			name:    "unknown target media type",
			store:   testCorpus,
			query:   SimilarQuery{Source: TitleKey{1, MediaMovie}, TargetMediaType: "all"},
			wantErr: ErrValidation,
		},
		{
			name:    "unknown attribute",
			store:   testCorpus,
			query:   SimilarQuery{Source: TitleKey{1, MediaMovie}, TargetMediaType: MediaMovie, AttributeKey: "sparkle"},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := tt.store()
			s := NewScorer(store, DefaultConfig(), testLogger)

			_, err := s.FindSimilar(context.Background(), tt.query)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("FindSimilar() error = %v, want %v", err, tt.wantErr)
			}
			if errors.Is(tt.wantErr, ErrValidation) && store.getCalls.Load() != 0 {
				t.Error("validation failure reached the store")
			}
		})
	}
}

func TestScorer_FindSimilar_UpstreamKeepsCause(t *testing.T) {
	t.Parallel()

	store := testCorpus()
	store.searchErr = context.DeadlineExceeded
	s := NewScorer(store, DefaultConfig(), testLogger)

	_, err := s.FindSimilar(context.Background(), SimilarQuery{Source: TitleKey{1, MediaMovie}, TargetMediaType: MediaMovie})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want wrapped deadline", err)
	}
}
