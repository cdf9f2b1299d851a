// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/test", "200"))

	RecordAPIRequest("GET", "/api/v1/test", "200", 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/test", "200"))
	if after != before+1 {
		t.Errorf("api_requests_total = %v, want %v", after, before+1)
	}
}

func TestRecordMemoLookup(t *testing.T) {
	hitsBefore := testutil.ToFloat64(MemoCacheHits.WithLabelValues("metrics-test"))
	missesBefore := testutil.ToFloat64(MemoCacheMisses.WithLabelValues("metrics-test"))

	RecordMemoLookup("metrics-test", true)
	RecordMemoLookup("metrics-test", false)
	RecordMemoLookup("metrics-test", false)

	if got := testutil.ToFloat64(MemoCacheHits.WithLabelValues("metrics-test")); got != hitsBefore+1 {
		t.Errorf("hits = %v, want %v", got, hitsBefore+1)
	}
	if got := testutil.ToFloat64(MemoCacheMisses.WithLabelValues("metrics-test")); got != missesBefore+2 {
		t.Errorf("misses = %v, want %v", got, missesBefore+2)
	}
}

func TestRecordStoreQuery(t *testing.T) {
	errsBefore := testutil.ToFloat64(StoreQueryErrors.WithLabelValues("duckdb", "metrics_test"))

	RecordStoreQuery("duckdb", "metrics_test", time.Millisecond, nil)
	RecordStoreQuery("duckdb", "metrics_test", time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(StoreQueryErrors.WithLabelValues("duckdb", "metrics_test")); got != errsBefore+1 {
		t.Errorf("store errors = %v, want %v", got, errsBefore+1)
	}

	// Histogram sample count grows by two
	var m dto.Metric
	observer := StoreQueryDuration.WithLabelValues("duckdb", "metrics_test")
	if err := observer.(interface{ Write(*dto.Metric) error }).Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	if m.GetHistogram().GetSampleCount() < 2 {
		t.Errorf("sample count = %d, want >= 2", m.GetHistogram().GetSampleCount())
	}
}

func TestRecordEngineOperation(t *testing.T) {
	before := testutil.ToFloat64(EngineOperationErrors.WithLabelValues("similar", "not_found"))

	RecordEngineOperation("similar", 5*time.Millisecond, "")
	RecordEngineOperation("similar", 5*time.Millisecond, "not_found")

	if got := testutil.ToFloat64(EngineOperationErrors.WithLabelValues("similar", "not_found")); got != before+1 {
		t.Errorf("engine errors = %v, want %v", got, before+1)
	}
}
