// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// SimilarTitles ranks titles similar to one title, optionally weighted
// towards one fingerprint attribute.
// @Summary Similar titles
// @Description ANN similarity blended with fingerprint proximity. mediaType=all merges both tables.
// @Tags Titles
// @Produce json
// @Param tmdbId path int true "Source title id"
// @Param sourceMediaType query string false "Media type of the source title (default movie)"
// @Param fingerprintKey query string false "Fingerprint attribute to match on"
// @Param mediaType query string false "movie, show or all (default: the source media type)"
// @Param limit query int false "Maximum results (default 50)"
// @Success 200 {object} APIResponse{data=similarResponse}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Router /api/v1/titles/{tmdbId}/similar [get]
func (h *Handler) SimilarTitles(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params, err := parseSimilarQuery(r)
	if err != nil {
		writeDomainError(rw, r, err)
		return
	}

	res, err := h.engine.Similar(r.Context(), params.request())
	if err != nil {
		writeDomainError(rw, r, err)
		return
	}
	rw.SuccessCached(similarResponse{Results: items(res)}, res.Cached)
}

// Search ranks titles by relevance to free text.
// @Summary Text search
// @Description Embeds the query and ranks titles that pass the popularity filter.
// @Tags Titles
// @Produce json
// @Param q query string true "Search text"
// @Param mediaType query string false "movie, show or all (default all)"
// @Param limit query int false "Maximum results (default 20, max 100)"
// @Success 200 {object} APIResponse{data=searchResponse}
// @Failure 400 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/v1/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params, err := parseSearchQuery(r)
	if err != nil {
		writeDomainError(rw, r, err)
		return
	}

	res, err := h.engine.Search(r.Context(), recommend.SearchRequest{
		Query:     params.Query,
		MediaType: params.MediaType,
		Limit:     params.Limit,
	})
	if err != nil {
		writeDomainError(rw, r, err)
		return
	}
	rw.Success(searchResponse{Query: params.Query, Results: items(res)})
}

// FingerprintAttributes lists the fingerprint vocabulary.
// @Summary Fingerprint attributes
// @Description Pillars and the attribute keys accepted by fingerprintKey.
// @Tags Titles
// @Produce json
// @Success 200 {object} APIResponse{data=[]recommend.Pillar}
// @Router /api/v1/fingerprint/attributes [get]
func (h *Handler) FingerprintAttributes(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(recommend.Pillars())
}
