// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"

	"github.com/tomtom215/reelmatch/internal/auth"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// GuestRecommendations ranks titles for ratings passed in the query string.
// @Summary Guest recommendations
// @Description Recommendations for inline ratings. scoredItems and excludeIds are JSON arrays.
// @Tags Recommendations
// @Produce json
// @Param mediaType query string false "movie, show or all (default all)"
// @Param scoredItems query string true "JSON array of {title_id, media_type, score}"
// @Param excludeIds query string false "JSON array of {title_id, media_type}"
// @Param limit query int false "Maximum results (default 20, max 100)"
// @Param autoReduce query bool false "Reduce more than 20 scored items instead of rejecting them"
// @Success 200 {object} APIResponse{data=recommendationsResponse}
// @Failure 400 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Router /api/v1/recommendations/guest [get]
func (h *Handler) GuestRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params, err := parseGuestQuery(r)
	if err != nil {
		writeDomainError(rw, r, err)
		return
	}
	h.recommendGuest(rw, r, params)
}

// GuestRecommendationsBody ranks titles for ratings passed as a JSON body.
// @Summary Guest recommendations (JSON body)
// @Description Same as the GET form with the parameters in a JSON body.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body guestBody true "Guest ratings"
// @Success 200 {object} APIResponse{data=recommendationsResponse}
// @Failure 400 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Router /api/v1/recommendations/guest [post]
func (h *Handler) GuestRecommendationsBody(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params, err := parseGuestBody(w, r)
	if err != nil {
		writeDomainError(rw, r, err)
		return
	}
	h.recommendGuest(rw, r, params)
}

func (h *Handler) recommendGuest(rw *ResponseWriter, r *http.Request, params *guestParams) {
	res, err := h.engine.RecommendGuest(r.Context(), params.request())
	if err != nil {
		writeDomainError(rw, r, err)
		return
	}
	rw.SuccessCached(recommendationsResponse{Recommendations: items(res)}, res.Cached)
}

// UserRecommendations ranks titles for the authenticated user's stored ratings.
// @Summary User recommendations
// @Description Recommendations from the caller's rating history. Rated and excluded titles are omitted.
// @Tags Recommendations
// @Produce json
// @Security BearerAuth
// @Param mediaType query string false "movie, show or all (default all)"
// @Param limit query int false "Maximum results (default 20, max 100)"
// @Success 200 {object} APIResponse{data=recommendationsResponse}
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Router /api/v1/recommendations/user [get]
func (h *Handler) UserRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		rw.Unauthorized("Missing or invalid bearer token")
		return
	}

	params, err := parseUserQuery(r)
	if err != nil {
		writeDomainError(rw, r, err)
		return
	}

	res, err := h.engine.RecommendUser(r.Context(), recommend.UserRequest{
		UserID:    userID,
		MediaType: params.MediaType,
		Limit:     params.Limit,
	})
	if err != nil {
		writeDomainError(rw, r, err)
		return
	}
	rw.SuccessCached(recommendationsResponse{Recommendations: items(res)}, res.Cached)
}
