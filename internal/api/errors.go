// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/validation"
)

// writeDomainError maps an error to its HTTP status and code. Validation
// messages are returned to the caller. Everything else gets a generic
// message and is logged with the operation chain.
func writeDomainError(rw *ResponseWriter, r *http.Request, err error) {
	var reqErr *validation.RequestValidationError
	if errors.As(err, &reqErr) {
		apiErr := reqErr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	var (
		vErr  *recommend.ValidationError
		nfErr *recommend.NotFoundError
	)
	switch {
	case errors.As(err, &vErr):
		rw.BadRequest(vErr.Msg)
		return
	case errors.As(err, &nfErr):
		rw.NotFound("Title not found")
		return
	}

	log := logging.Ctx(r.Context())
	switch {
	case errors.Is(err, recommend.ErrRaceExceeded):
		log.Warn().Err(err).Msg("Embedding creation race exhausted retries")
		rw.Error(http.StatusServiceUnavailable, ErrCodeRaceCondition, "Request conflicted with a concurrent request, retry shortly")
	case errors.Is(err, recommend.ErrUpstream):
		log.Error().Err(err).Msg("Upstream failure")
		rw.Error(http.StatusBadGateway, ErrCodeUpstream, "Upstream service unavailable")
	default:
		log.Error().Err(err).Msg("Unhandled error")
		rw.Error(http.StatusInternalServerError, ErrCodeInternal, "Internal server error")
	}
}

// unauthorized writes the envelope 401 for the bearer middleware.
func unauthorized(w http.ResponseWriter, r *http.Request, _ error) {
	NewResponseWriter(w, r).Unauthorized("Missing or invalid bearer token")
}
