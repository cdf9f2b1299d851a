// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package logging provides centralized zerolog-based structured logging for ReelMatch.
//
// The global logger is configured once from main via Init. Components derive
// child loggers with a "component" field, and request-scoped code uses Ctx so
// that request_id and correlation_id travel with every line.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
//
//	logging.Info().Msg("Server starting")
//	logging.Ctx(ctx).Warn().Err(err).Int64("seed", id).Msg("seed skipped")
//
// # Suture Integration
//
// Suture v4 reports supervisor events through slog. NewSlogLogger bridges
// those events into zerolog:
//
//	hook := (&sutureslog.Handler{Logger: logging.NewSlogLogger()}).MustHook()
package logging
