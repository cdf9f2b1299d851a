// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"fmt"
	"strings"
)

// MediaType identifies which title table a title lives in.
type MediaType string

const (
	// MediaMovie is a feature film.
	MediaMovie MediaType = "movie"
	// MediaShow is a TV series.
	MediaShow MediaType = "show"
)

// MediaTypes lists every media type in table query order.
var MediaTypes = []MediaType{MediaMovie, MediaShow}

// Valid reports whether m is a known media type.
func (m MediaType) Valid() bool {
	return m == MediaMovie || m == MediaShow
}

// ParseMediaType parses a media type, accepting "tv" as an alias for "show".
func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie":
		return MediaMovie, nil
	case "show", "tv":
		return MediaShow, nil
	default:
		return "", fmt.Errorf("unknown media type %q", s)
	}
}

// MediaTypeFilter restricts output to one media type or allows both.
type MediaTypeFilter string

const (
	FilterMovie MediaTypeFilter = "movie"
	FilterShow  MediaTypeFilter = "show"
	FilterAll   MediaTypeFilter = "all"
)

// ParseMediaTypeFilter parses a filter. An empty string means FilterAll.
func ParseMediaTypeFilter(s string) (MediaTypeFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "movie":
		return FilterMovie, nil
	case "show", "tv":
		return FilterShow, nil
	default:
		return "", fmt.Errorf("unknown media type filter %q", s)
	}
}

// Valid reports whether f is a known filter.
func (f MediaTypeFilter) Valid() bool {
	return f == FilterMovie || f == FilterShow || f == FilterAll
}

// Targets returns the media type tables the filter selects.
func (f MediaTypeFilter) Targets() []MediaType {
	switch f {
	case FilterMovie:
		return []MediaType{MediaMovie}
	case FilterShow:
		return []MediaType{MediaShow}
	default:
		return MediaTypes
	}
}

// Allows reports whether titles of media type m pass the filter.
func (f MediaTypeFilter) Allows(m MediaType) bool {
	return f == FilterAll || MediaType(f) == m
}

// TitleKey uniquely identifies a title across both tables.
type TitleKey struct {
	TitleID   int64     `json:"title_id"`
	MediaType MediaType `json:"media_type"`
}

func (k TitleKey) String() string {
	return fmt.Sprintf("%s/%d", k.MediaType, k.TitleID)
}

// ExcludeItem identifies a title to omit from output.
type ExcludeItem = TitleKey

// Fingerprint maps attribute keys to their strength for one title.
type Fingerprint map[string]float64

// Title is a title as held by the vector store.
type Title struct {
	ID              int64       `json:"id"`
	MediaType       MediaType   `json:"media_type"`
	Embedding       []float32   `json:"-"`
	Fingerprint     Fingerprint `json:"fingerprint"`
	Popularity      float64     `json:"popularity"`
	VoteCount       int         `json:"vote_count"`
	NormalizedScore float64     `json:"normalized_score"`
}

// Key returns the title's key.
func (t *Title) Key() TitleKey {
	return TitleKey{TitleID: t.ID, MediaType: t.MediaType}
}

// ScoredItem is a rating of one title on a 1..10 scale.
type ScoredItem struct {
	TitleID   int64     `json:"title_id" validate:"required,gt=0"`
	MediaType MediaType `json:"media_type" validate:"required,oneof=movie show"`
	Score     int       `json:"score" validate:"min=1,max=10"`
}

// Key returns the rated title's key.
func (s ScoredItem) Key() TitleKey {
	return TitleKey{TitleID: s.TitleID, MediaType: s.MediaType}
}

// Candidate is one scored result of a similarity query.
type Candidate struct {
	TitleID          int64     `json:"title_id"`
	MediaType        MediaType `json:"media_type"`
	ANNScore         float64   `json:"ann_score"`
	FingerprintDelta float64   `json:"fingerprint_delta"`
	FingerprintScore float64   `json:"fingerprint_score"`
	BlendedScore     float64   `json:"score"`
}

// Key returns the candidate's key.
func (c *Candidate) Key() TitleKey {
	return TitleKey{TitleID: c.TitleID, MediaType: c.MediaType}
}

// TitleMetadata is display metadata from the relational store.
type TitleMetadata struct {
	TitleID    int64     `json:"-"`
	MediaType  MediaType `json:"-"`
	Title      string    `json:"title"`
	Year       int       `json:"year,omitempty"`
	PosterPath string    `json:"poster_path,omitempty"`
	Overview   string    `json:"overview,omitempty"`
}

// Recommendation is a ranked candidate with display metadata.
type Recommendation struct {
	Candidate
	Title      string `json:"title,omitempty"`
	Year       int    `json:"year,omitempty"`
	PosterPath string `json:"poster_path,omitempty"`
	Overview   string `json:"overview,omitempty"`
}

// Hit is one ANN search result.
type Hit struct {
	TitleID     int64
	MediaType   MediaType
	Relevance   float64
	Fingerprint Fingerprint
}

// SearchOptions bounds an ANN search.
type SearchOptions struct {
	PoolSize           int
	MinVoteCount       int
	MinNormalizedScore float64
}

// VectorStore holds title embeddings and fingerprints.
//
// GetTitle returns an error wrapping ErrTitleNotFound when the title has no
// stored embedding.
type VectorStore interface {
	GetTitle(ctx context.Context, mediaType MediaType, id int64) (Title, error)
	Search(ctx context.Context, mediaType MediaType, vector []float32, opts SearchOptions) ([]Hit, error)
}

// RatingStore loads a user's rating history and exclusions.
type RatingStore interface {
	ListUserRatings(ctx context.Context, userID string) ([]ScoredItem, error)
	ListUserExclusions(ctx context.Context, userID string) ([]ExcludeItem, error)
}

// MetadataStore loads display metadata for titles.
type MetadataStore interface {
	GetTitleMetadata(ctx context.Context, keys []TitleKey) (map[TitleKey]TitleMetadata, error)
}

// EmbeddingSource turns free text into a query vector.
type EmbeddingSource interface {
	GetOrCreateEmbedding(ctx context.Context, text string) ([]float32, error)
}
