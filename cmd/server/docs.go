// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package main provides the ReelMatch HTTP server
//
// ReelMatch API serves fingerprint-based movie and TV recommendations.
//
// @title ReelMatch API
// @version 1.0
// @description Similarity and recommendation API over movie and TV embeddings and 18-dimension content fingerprints.
// @description
// @description ## Features
// @description
// @description - **Similar titles**: ANN neighbours reranked by fingerprint distance, optionally on one attribute
// @description - **Guest recommendations**: aggregate similar titles for up to 20 rated seeds
// @description - **User recommendations**: the same aggregation over a signed-in user's stored ratings
// @description - **Search**: free-text search through a cached query embedding
// @description
// @description ## Authentication
// @description
// @description `/recommendations/user` requires a `Bearer` JWT whose `sub` claim is the user id.
// @description All other endpoints are public.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address on `/api/v1`.
// @description
// @description ## Error Responses
// @description
// @description All responses share one envelope:
// @description ```json
// @description {
// @description   "success": false,
// @description   "error": {
// @description     "code": "VALIDATION_ERROR",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "meta": {
// @description     "timestamp": "2026-01-18T12:34:56Z",
// @description     "request_id": "…",
// @description     "query_time_ms": 3,
// @description     "cached": false
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/reelmatch/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:3860
// @BasePath /
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer JWT. Format: "Bearer <token>".
//
// @tag.name Recommendations
// @tag.description Guest and user recommendation endpoints
//
// @tag.name Titles
// @tag.description Similar titles, search and fingerprint attributes
//
// @tag.name Core
// @tag.description Health and readiness
package main
