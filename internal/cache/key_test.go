// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package cache

import (
	"strings"
	"testing"
)

func TestCanonicalJSON_SortsKeysAtAllDepths(t *testing.T) {
	t.Parallel()

	a := map[string]interface{}{
		"zeta":  1,
		"alpha": map[string]interface{}{"y": 2, "b": []interface{}{3, map[string]int{"q": 1, "c": 2}}},
	}
	b := map[string]interface{}{
		"alpha": map[string]interface{}{"b": []interface{}{3, map[string]int{"c": 2, "q": 1}}, "y": 2},
		"zeta":  1,
	}

	ca, err := CanonicalJSON(a)
	if err != nil {
		t.Fatal(err)
	}
	cb, err := CanonicalJSON(b)
	if err != nil {
		t.Fatal(err)
	}

	if string(ca) != string(cb) {
		t.Errorf("canonical forms differ:\n%s\n%s", ca, cb)
	}
	want := `{"alpha":{"b":[3,{"c":2,"q":1}],"y":2},"zeta":1}`
	if string(ca) != want {
		t.Errorf("CanonicalJSON() = %s, want %s", ca, want)
	}
}

func TestCanonicalJSON_PreservesNumberLiterals(t *testing.T) {
	t.Parallel()

	got, err := CanonicalJSON(map[string]interface{}{"id": int64(9007199254740993)})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"id":9007199254740993}` {
		t.Errorf("CanonicalJSON() = %s, large integers must not lose precision", got)
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	k := Key("similar", []byte(`{"a":1}`))
	if !strings.HasPrefix(k, "similar:") {
		t.Errorf("Key() = %q, want namespace prefix", k)
	}
	if len(k) != len("similar:")+64 {
		t.Errorf("Key() length = %d, want namespace plus 64 hex chars", len(k))
	}
	if Key("recommend", []byte(`{"a":1}`)) == k {
		t.Error("different namespaces produced the same key")
	}
}

func TestGenerateKey_StructFieldOrderIrrelevant(t *testing.T) {
	t.Parallel()

	type ab struct {
		A int `json:"a"`
		B int `json:"b"`
	}
	type ba struct {
		B int `json:"b"`
		A int `json:"a"`
	}

	k1, err := GenerateKey("ns", ab{A: 1, B: 2})
	if err != nil {
		t.Fatal(err)
	}
	k2, err := GenerateKey("ns", ba{B: 2, A: 1})
	if err != nil {
		t.Fatal(err)
	}
	if k1 != k2 {
		t.Errorf("keys differ for equal fields in different order: %s vs %s", k1, k2)
	}
}
