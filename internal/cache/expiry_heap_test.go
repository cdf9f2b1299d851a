// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package cache

import (
	"testing"
	"time"
)

func TestExpiryHeap_Order(t *testing.T) {
	t.Parallel()

	base := time.Unix(1000, 0)
	var h expiryHeap
	for _, offset := range []int{5, 1, 4, 2, 3} {
		h.Push(&expiryItem{key: string(rune('a' + offset)), expiresAt: base.Add(time.Duration(offset) * time.Second)})
	}

	prev := time.Time{}
	for h.Len() > 0 {
		item, _ := h.Pop()
		if item.expiresAt.Before(prev) {
			t.Fatalf("heap popped %v after %v", item.expiresAt, prev)
		}
		if item.index != -1 {
			t.Errorf("popped item index = %d, want -1", item.index)
		}
		prev = item.expiresAt
	}
	if _, ok := h.Pop(); ok {
		t.Error("Pop() on empty heap should report false")
	}
}

func TestExpiryHeap_FixAndRemove(t *testing.T) {
	t.Parallel()

	base := time.Unix(1000, 0)
	var h expiryHeap
	a := &expiryItem{key: "a", expiresAt: base.Add(1 * time.Second)}
	b := &expiryItem{key: "b", expiresAt: base.Add(2 * time.Second)}
	c := &expiryItem{key: "c", expiresAt: base.Add(3 * time.Second)}
	h.Push(a)
	h.Push(b)
	h.Push(c)

	a.expiresAt = base.Add(10 * time.Second)
	h.Fix(a)
	if top, _ := h.Peek(); top != b {
		t.Errorf("Peek() = %s after Fix, want b", top.key)
	}

	h.Remove(b)
	h.Remove(b)
	if top, _ := h.Peek(); top != c {
		t.Errorf("Peek() = %s after Remove, want c", top.key)
	}

	expired := h.PopExpired(base.Add(5 * time.Second))
	if len(expired) != 1 || expired[0] != c {
		t.Errorf("PopExpired() = %v, want [c]", expired)
	}
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
}
