// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"time"
)

// GuestRequest carries a guest's ratings inline.
type GuestRequest struct {
	MediaType   MediaTypeFilter `json:"mediaType"`
	ScoredItems []ScoredItem    `json:"scoredItems"`
	ExcludeIDs  []ExcludeItem   `json:"excludeIds"`
	Limit       int             `json:"limit"`
	AutoReduce  bool            `json:"autoReduce"`
}

// UserRequest asks for recommendations from a stored rating history.
type UserRequest struct {
	UserID    string
	MediaType MediaTypeFilter
	Limit     int
}

// GuestAdapter serves stateless guest requests.
type GuestAdapter struct {
	rec     Recommender
	seedCap int
}

// NewGuestAdapter creates a GuestAdapter.
func NewGuestAdapter(rec Recommender, seedCap int) *GuestAdapter {
	return &GuestAdapter{rec: rec, seedCap: seedCap}
}

// Recommend validates the guest's seeds and ranks candidates for them.
// More than seedCap seeds are rejected unless AutoReduce is set.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (g *GuestAdapter) Recommend(ctx context.Context, req GuestRequest) (Ranking, error) {
	const op = "recommend_guest"

	if len(req.ScoredItems) == 0 {
		return Ranking{}, Validationf(op, "scoredItems is required")
	}

	seeds := req.ScoredItems
	if len(seeds) > g.seedCap {
		if !req.AutoReduce {
			return Ranking{}, Validationf(op, "%d scored items exceeds the cap of %d; reduce them or set autoReduce", len(seeds), g.seedCap)
		}
		seeds = PrepareTopScoredItems(seeds, g.seedCap)
	}

	return g.rec.Rank(ctx, RecommendQuery{
		ScoredItems:     seeds,
		ExcludeIDs:      req.ExcludeIDs,
		MediaTypeFilter: req.MediaType,
		Limit:           req.Limit,
	})
}

// UserAdapter serves authenticated users from their stored history.
type UserAdapter struct {
	rec          Recommender
	ratings      RatingStore
	seedCap      int
	storeTimeout time.Duration
}

// NewUserAdapter creates a UserAdapter.
func NewUserAdapter(rec Recommender, ratings RatingStore, seedCap int, storeTimeout time.Duration) *UserAdapter {
	return &UserAdapter{rec: rec, ratings: ratings, seedCap: seedCap, storeTimeout: storeTimeout}
}

// Recommend loads the user's ratings and exclusions, reduces the ratings to
// the seed cap and ranks candidates. Every rated title is excluded from the
// output. A user without ratings gets an empty ranking.
func (u *UserAdapter) Recommend(ctx context.Context, req UserRequest) (Ranking, error) {
	const op = "recommend_user"

	if req.UserID == "" {
		return Ranking{}, Validationf(op, "user id is required")
	}

	ratings, err := u.listRatings(ctx, req.UserID)
	if err != nil {
		return Ranking{}, Upstream(op+".list_ratings", err)
	}
	if len(ratings) == 0 {
		return Ranking{Candidates: []Candidate{}}, nil
	}

	exclusions, err := u.listExclusions(ctx, req.UserID)
	if err != nil {
		return Ranking{}, Upstream(op+".list_exclusions", err)
	}

	seeds := PrepareTopScoredItems(ratings, u.seedCap)

	// Seeds are always excluded; only rated titles that were reduced away
	// need an explicit entry.
	isSeed := make(map[TitleKey]struct{}, len(seeds))
	for _, s := range seeds {
		isSeed[s.Key()] = struct{}{}
	}
	exclude := append([]ExcludeItem(nil), exclusions...)
	for _, r := range ratings {
		if _, ok := isSeed[r.Key()]; !ok {
			exclude = append(exclude, r.Key())
		}
	}

	return u.rec.Rank(ctx, RecommendQuery{
		ScoredItems:     seeds,
		ExcludeIDs:      exclude,
		MediaTypeFilter: req.MediaType,
		Limit:           req.Limit,
	})
}

func (u *UserAdapter) listRatings(ctx context.Context, userID string) ([]ScoredItem, error) {
	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()
	return u.ratings.ListUserRatings(ctx, userID)
}

func (u *UserAdapter) listExclusions(ctx context.Context, userID string) ([]ExcludeItem, error) {
	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()
	return u.ratings.ListUserExclusions(ctx, userID)
}
