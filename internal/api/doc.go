// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package api provides the HTTP REST API layer for ReelMatch.

Endpoints:

	GET  /health                                liveness
	GET  /health/ready                          pings Postgres, DuckDB and the cache
	GET  /metrics                               Prometheus exposition
	GET  /swagger/*                             OpenAPI UI
	GET  /api/v1/recommendations/guest          inline ratings as query parameters
	POST /api/v1/recommendations/guest          inline ratings as a JSON body
	GET  /api/v1/recommendations/user           stored ratings, bearer token required
	GET  /api/v1/titles/{tmdbId}/similar        similarity for one title
	GET  /api/v1/search                         free-text search
	GET  /api/v1/fingerprint/attributes         fingerprint vocabulary

Every JSON response uses the same envelope:

	{
	  "success": true,
	  "data": {...},
	  "error": {"code": "...", "message": "...", "details": {...}},
	  "meta": {"timestamp": "...", "request_id": "...", "query_time_ms": 12, "cached": false}
	}

Domain errors from the recommend package are mapped to HTTP status codes in
one place, writeDomainError. Error messages are generic and never echo query
text or store errors.

Middleware order (outermost first): request ID, real IP, panic recovery,
CORS, Prometheus metrics, gzip compression and a per-request timeout. The
/api/v1 routes add per-IP rate limiting.
*/
package api
