// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package services provides suture.Service wrappers for long-running
components.

  - HTTPServerService runs the API server and shuts it down gracefully when
    the supervisor stops.
  - PeriodicService runs a maintenance task on an interval. The cache GC and
    vector store checkpoint services are built on it.

Every service implements fmt.Stringer so suture events name it.
*/
package services
