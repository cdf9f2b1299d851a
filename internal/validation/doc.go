// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package validation provides struct validation using go-playground/validator v10.

A single validator instance is built once and shared; it caches struct
metadata so repeated validation of request types is cheap. Fields are
reported by their JSON names.

Custom tags:

	media_type       movie | show
	media_filter     movie | show | all
	fingerprint_key  a key from the fingerprint vocabulary

Example:

	type similarParams struct {
	    MediaType      string `json:"mediaType" validate:"media_filter"`
	    FingerprintKey string `json:"fingerprintKey" validate:"omitempty,fingerprint_key"`
	    Limit          int    `json:"limit" validate:"min=0,max=100"`
	}

	if verr := validation.ValidateStruct(&params); verr != nil {
	    apiErr := verr.ToAPIError()
	    // respond 400 with apiErr.Code and apiErr.Message
	}
*/
package validation
