// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/goccy/go-json"
)

// KeyFunc produces the canonical byte form of a parameter value. Two values
// that must share a cache entry must produce identical bytes.
type KeyFunc[K any] func(K) ([]byte, error)

// CanonicalJSON serializes v as JSON with every object's keys sorted
// lexicographically at all depths. Numbers keep their original literal form.
func CanonicalJSON[K any](v K) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal params: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic interface{}
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("decode params: %w", err)
	}

	// Maps marshal with sorted keys.
	out, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("re-marshal params: %w", err)
	}
	return out, nil
}

// Key returns "<namespace>:<hex sha256(canonical)>".
func Key(namespace string, canonical []byte) string {
	sum := sha256.Sum256(canonical)
	return namespace + ":" + hex.EncodeToString(sum[:])
}

// GenerateKey builds a key for params using CanonicalJSON.
func GenerateKey[K any](namespace string, params K) (string, error) {
	canonical, err := CanonicalJSON(params)
	if err != nil {
		return "", err
	}
	return Key(namespace, canonical), nil
}
