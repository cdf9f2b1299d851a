// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package metrics provides Prometheus collectors for ReelMatch.
//
// All collectors are registered with the default registry through promauto
// and exposed at /metrics. Helper functions (Record*) keep label handling in
// one place so call sites stay one line long.
package metrics
