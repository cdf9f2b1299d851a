// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package auth verifies bearer tokens to obtain the calling user's identity.

ReelMatch does not issue sessions or run login flows. Tokens are minted
elsewhere and signed with the shared JWT_SECRET (HS256). The token subject
(sub claim) is the user id the user endpoints load ratings for.

Validation rejects:
  - any signing method other than HMAC
  - expired or not-yet-valid tokens
  - a missing subject
  - an issuer mismatch when JWT_ISSUER is configured

Usage:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
	    return err
	}
	mw := auth.NewMiddleware(jwtManager, nil)
	r.With(mw.RequireUser).Get("/api/v1/recommendations/user", h.UserRecommendations)

	// In the handler
	userID, ok := auth.UserIDFromContext(r.Context())
*/
package auth
