// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package database

import (
	"context"
	"time"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

// defaultQueryTimeout applies when no QueryTimeout is configured.
const defaultQueryTimeout = 30 * time.Second

// ensureContext applies the configured query timeout if ctx has no deadline.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := defaultQueryTimeout
	if db.cfg != nil && db.cfg.QueryTimeout > 0 {
		timeout = db.cfg.QueryTimeout
	}

	if ctx == nil {
		return context.WithTimeout(context.Background(), timeout)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	return ctx, func() {}
}

// observe records a query's latency and logs connection failures.
func observe(ctx context.Context, op string, start time.Time, err error) {
	metrics.RecordStoreQuery("postgres", op, time.Since(start), err)
	if isConnectionError(err) {
		logging.Ctx(ctx).Error().Err(err).Str("operation", op).Msg("Database connection failure")
	}
}
