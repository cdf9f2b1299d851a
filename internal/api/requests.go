// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// badParam reports a parameter that could not be parsed.
func badParam(name, msg string) error {
	return &recommend.ValidationError{Op: "parse_request", Msg: name + " " + msg}
}

// guestParams is the validated form of a guest recommendation request.
type guestParams struct {
	MediaType   recommend.MediaTypeFilter `json:"mediaType" validate:"media_filter"`
	ScoredItems []recommend.ScoredItem    `json:"scoredItems" validate:"required,min=1,dive"`
	ExcludeIDs  []recommend.ExcludeItem   `json:"excludeIds" validate:"dive"`
	Limit       int                       `json:"limit" validate:"gte=0"`
	AutoReduce  bool                      `json:"autoReduce"`
}

// guestBody is the POST body. Media types are strings so aliases can be
// normalized before validation.
type guestBody struct {
	MediaType   string                  `json:"mediaType"`
	ScoredItems []recommend.ScoredItem  `json:"scoredItems"`
	ExcludeIDs  []recommend.ExcludeItem `json:"excludeIds"`
	Limit       int                     `json:"limit"`
	AutoReduce  bool                    `json:"autoReduce"`
}

func (p *guestParams) request() recommend.GuestRequest {
	return recommend.GuestRequest{
		MediaType:   p.MediaType,
		ScoredItems: p.ScoredItems,
		ExcludeIDs:  p.ExcludeIDs,
		Limit:       p.Limit,
		AutoReduce:  p.AutoReduce,
	}
}

// parseGuestQuery reads guest parameters from the query string. scoredItems
// and excludeIds are JSON arrays.
func parseGuestQuery(r *http.Request) (*guestParams, error) {
	q := r.URL.Query()

	var body guestBody
	body.MediaType = q.Get("mediaType")

	if raw := q.Get("scoredItems"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &body.ScoredItems); err != nil {
			return nil, badParam("scoredItems", "must be a JSON array of {title_id, media_type, score}")
		}
	}
	if raw := q.Get("excludeIds"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &body.ExcludeIDs); err != nil {
			return nil, badParam("excludeIds", "must be a JSON array of {title_id, media_type}")
		}
	}

	var err error
	if body.Limit, err = intParam(q, "limit"); err != nil {
		return nil, err
	}
	if body.AutoReduce, err = boolParam(q, "autoReduce"); err != nil {
		return nil, err
	}

	return body.params()
}

// parseGuestBody reads guest parameters from a JSON body.
func parseGuestBody(w http.ResponseWriter, r *http.Request) (*guestParams, error) {
	var body guestBody
	if err := decodeBody(w, r, &body); err != nil {
		return nil, err
	}
	return body.params()
}

func (b *guestBody) params() (*guestParams, error) {
	filter, err := recommend.ParseMediaTypeFilter(b.MediaType)
	if err != nil {
		return nil, badParam("mediaType", "must be movie, show or all")
	}

	p := &guestParams{
		MediaType:   filter,
		ScoredItems: normalizeScoredItems(b.ScoredItems),
		ExcludeIDs:  normalizeKeys(b.ExcludeIDs),
		Limit:       b.Limit,
		AutoReduce:  b.AutoReduce,
	}
	if vErr := validation.ValidateStruct(p); vErr != nil {
		return nil, vErr
	}
	return p, nil
}

// userParams is the validated form of a user recommendation request.
type userParams struct {
	MediaType recommend.MediaTypeFilter `json:"mediaType" validate:"media_filter"`
	Limit     int                       `json:"limit" validate:"gte=0"`
}

func parseUserQuery(r *http.Request) (*userParams, error) {
	q := r.URL.Query()

	filter, err := recommend.ParseMediaTypeFilter(q.Get("mediaType"))
	if err != nil {
		return nil, badParam("mediaType", "must be movie, show or all")
	}
	limit, err := intParam(q, "limit")
	if err != nil {
		return nil, err
	}

	p := &userParams{MediaType: filter, Limit: limit}
	if vErr := validation.ValidateStruct(p); vErr != nil {
		return nil, vErr
	}
	return p, nil
}

// similarParams is the validated form of a similarity request.
type similarParams struct {
	TitleID         int64                     `json:"tmdbId" validate:"gt=0"`
	SourceMediaType recommend.MediaType       `json:"sourceMediaType" validate:"media_type"`
	FingerprintKey  string                    `json:"fingerprintKey" validate:"omitempty,fingerprint_key"`
	MediaType       recommend.MediaTypeFilter `json:"mediaType" validate:"media_filter"`
	Limit           int                       `json:"limit" validate:"gte=0"`
}

// parseSimilarQuery reads the path id and query parameters. sourceMediaType
// defaults to movie and mediaType defaults to the source's media type.
func parseSimilarQuery(r *http.Request) (*similarParams, error) {
	q := r.URL.Query()

	id, err := strconv.ParseInt(chi.URLParam(r, "tmdbId"), 10, 64)
	if err != nil {
		return nil, badParam("tmdbId", "must be an integer")
	}

	source := recommend.MediaMovie
	if raw := q.Get("sourceMediaType"); raw != "" {
		if source, err = recommend.ParseMediaType(raw); err != nil {
			return nil, badParam("sourceMediaType", "must be movie or show")
		}
	}

	filter := recommend.MediaTypeFilter(source)
	if raw := q.Get("mediaType"); raw != "" {
		if filter, err = recommend.ParseMediaTypeFilter(raw); err != nil {
			return nil, badParam("mediaType", "must be movie, show or all")
		}
	}

	limit, err := intParam(q, "limit")
	if err != nil {
		return nil, err
	}

	p := &similarParams{
		TitleID:         id,
		SourceMediaType: source,
		FingerprintKey:  strings.TrimSpace(q.Get("fingerprintKey")),
		MediaType:       filter,
		Limit:           limit,
	}
	if vErr := validation.ValidateStruct(p); vErr != nil {
		return nil, vErr
	}
	return p, nil
}

func (p *similarParams) request() recommend.SimilarRequest {
	return recommend.SimilarRequest{
		TitleID:         p.TitleID,
		SourceMediaType: p.SourceMediaType,
		AttributeKey:    p.FingerprintKey,
		MediaType:       p.MediaType,
		Limit:           p.Limit,
	}
}

// searchParams is the validated form of a text search.
type searchParams struct {
	Query     string                    `json:"q" validate:"required,max=500"`
	MediaType recommend.MediaTypeFilter `json:"mediaType" validate:"media_filter"`
	Limit     int                       `json:"limit" validate:"gte=0"`
}

func parseSearchQuery(r *http.Request) (*searchParams, error) {
	q := r.URL.Query()

	filter, err := recommend.ParseMediaTypeFilter(q.Get("mediaType"))
	if err != nil {
		return nil, badParam("mediaType", "must be movie, show or all")
	}
	limit, err := intParam(q, "limit")
	if err != nil {
		return nil, err
	}

	p := &searchParams{
		Query:     strings.TrimSpace(q.Get("q")),
		MediaType: filter,
		Limit:     limit,
	}
	if vErr := validation.ValidateStruct(p); vErr != nil {
		return nil, vErr
	}
	return p, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badParam(name, "must be an integer")
	}
	return v, nil
}

func boolParam(q url.Values, name string) (bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, badParam(name, "must be true or false")
	}
	return v, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return badParam("body", "is too large")
		case errors.Is(err, io.EOF):
			return badParam("body", "is required")
		default:
			return badParam("body", "must be valid JSON")
		}
	}
	return nil
}

// normalizeScoredItems resolves media type aliases. Unknown values are kept
// so validation reports them.
func normalizeScoredItems(items []recommend.ScoredItem) []recommend.ScoredItem {
	for i := range items {
		if mt, err := recommend.ParseMediaType(string(items[i].MediaType)); err == nil {
			items[i].MediaType = mt
		}
	}
	return items
}

func normalizeKeys(keys []recommend.ExcludeItem) []recommend.ExcludeItem {
	for i := range keys {
		if mt, err := recommend.ParseMediaType(string(keys[i].MediaType)); err == nil {
			keys[i].MediaType = mt
		}
	}
	return keys
}
