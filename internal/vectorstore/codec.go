// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package vectorstore

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// encodeVector renders v as a list literal that DuckDB casts to FLOAT[].
func encodeVector(v []float32) (string, error) {
	for i, x := range v {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return "", recommend.Validationf("vectorstore", "vector component %d is not finite", i)
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode vector: %w", err)
	}
	return string(b), nil
}

// decodeVector parses DuckDB's VARCHAR rendering of a FLOAT[] list.
func decodeVector(s string) ([]float32, error) {
	if s == "" {
		return nil, nil
	}
	var v []float32
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("decode vector: %w", err)
	}
	return v, nil
}

func encodeFingerprint(fp recommend.Fingerprint) (string, error) {
	if len(fp) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(fp)
	if err != nil {
		return "", fmt.Errorf("encode fingerprint: %w", err)
	}
	return string(b), nil
}

func decodeFingerprint(s string) (recommend.Fingerprint, error) {
	fp := recommend.Fingerprint{}
	if s == "" {
		return fp, nil
	}
	if err := json.Unmarshal([]byte(s), &fp); err != nil {
		return nil, fmt.Errorf("decode fingerprint: %w", err)
	}
	return fp, nil
}
