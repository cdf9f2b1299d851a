// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package cache

import "time"

// expiryItem is a heap element: a key and the time it expires.
type expiryItem struct {
	key       string
	expiresAt time.Time
	index     int
}

// expiryHeap is a binary min-heap ordered by expiresAt.
// Items track their index so Fix and Remove run in O(log n).
//
// Not safe for concurrent use; MemoryStore guards it with its mutex.
type expiryHeap struct {
	items []*expiryItem
}

func (h *expiryHeap) Len() int {
	return len(h.items)
}

// Push adds an item.
func (h *expiryHeap) Push(item *expiryItem) {
	item.index = len(h.items)
	h.items = append(h.items, item)
	h.bubbleUp(item.index)
}

// Peek returns the soonest-expiring item without removing it.
func (h *expiryHeap) Peek() (*expiryItem, bool) {
	if len(h.items) == 0 {
		return nil, false
	}
	return h.items[0], true
}

// Pop removes and returns the soonest-expiring item.
func (h *expiryHeap) Pop() (*expiryItem, bool) {
	if len(h.items) == 0 {
		return nil, false
	}
	return h.removeAt(0), true
}

// Fix restores heap order after item.expiresAt changed.
func (h *expiryHeap) Fix(item *expiryItem) {
	if item.index < 0 || item.index >= len(h.items) {
		return
	}
	h.bubbleUp(item.index)
	h.bubbleDown(item.index)
}

// Remove deletes item from the heap.
func (h *expiryHeap) Remove(item *expiryItem) {
	if item.index < 0 || item.index >= len(h.items) || h.items[item.index] != item {
		return
	}
	h.removeAt(item.index)
}

// PopExpired removes and returns every item with expiresAt <= now.
func (h *expiryHeap) PopExpired(now time.Time) []*expiryItem {
	var expired []*expiryItem
	for len(h.items) > 0 && !h.items[0].expiresAt.After(now) {
		expired = append(expired, h.removeAt(0))
	}
	return expired
}

func (h *expiryHeap) removeAt(i int) *expiryItem {
	n := len(h.items) - 1
	item := h.items[i]

	if i != n {
		h.swap(i, n)
	}
	h.items[n] = nil
	h.items = h.items[:n]

	if i < n {
		h.bubbleUp(i)
		h.bubbleDown(i)
	}

	item.index = -1
	return item
}

func (h *expiryHeap) less(i, j int) bool {
	return h.items[i].expiresAt.Before(h.items[j].expiresAt)
}

func (h *expiryHeap) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].index = i
	h.items[j].index = j
}

func (h *expiryHeap) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *expiryHeap) bubbleDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2

		if left < n && h.less(left, smallest) {
			smallest = left
		}
		if right < n && h.less(right, smallest) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.swap(i, smallest)
		i = smallest
	}
}
