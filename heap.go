// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package evtlist

import "container/heap"

// eventHeap is the ordered container backing an EventList: an indexed
// binary min-heap over *Event keyed by compareEvents, following the
// design note to use "a balanced search tree or an indexed binary heap"
// -- a heap suffices here because the only reads an EventList core needs
// are peek-min / poll-min plus occasional remove(e) by identity, and each
// Event's heapIndex field (kept current by Swap/Push/Pop below) turns
// that remove into an O(log n) operation instead of an O(n) scan.
//
// eventHeap never assigns deconflict and never looks at it to decide
// whether to raise an InvariantViolation beyond what compareEvents
// reports -- that's compareEvents' pure comparison plus this type's own
// bookkeeping of "is this the same *Event pointer".
type eventHeap struct {
	items []*Event
}

// heap.Interface implementation -------------------------------------------

func (h *eventHeap) Len() int { return len(h.items) }

func (h *eventHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	c := compareEvents(a, b)
	if c == 0 && a != b {
		panicInvariant(ErrDuplicateKey, "%v and %v (time=%g deconflict=%d vs time=%g deconflict=%d)",
			a, b, a.Time, a.deconflict, b.Time, b.deconflict)
	}
	return c < 0
}

func (h *eventHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].heapIndex = i
	h.items[j].heapIndex = j
}

func (h *eventHeap) Push(x interface{}) {
	e := x.(*Event)
	e.heapIndex = len(h.items)
	h.items = append(h.items, e)
}

func (h *eventHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.heapIndex = -1
	h.items = old[:n-1]
	return e
}

// Convenience wrappers used by EventList -----------------------------------

func (h *eventHeap) contains(e *Event) bool {
	return e != nil && e.heapIndex >= 0 && e.heapIndex < len(h.items) && h.items[e.heapIndex] == e
}

// insert adds e to the heap. The caller must have already assigned a
// deconflict value and must guarantee e is not already enrolled anywhere.
func (h *eventHeap) insert(e *Event) {
	heap.Push(h, e)
}

// removeEvent removes e from the heap if present, returning whether it
// was removed.
func (h *eventHeap) removeEvent(e *Event) bool {
	if !h.contains(e) {
		return false
	}
	heap.Remove(h, e.heapIndex)
	return true
}

// peek returns the earliest event without removing it, or nil if empty.
func (h *eventHeap) peek() *Event {
	if len(h.items) == 0 {
		return nil
	}
	return h.items[0]
}

// pollFirst removes and returns the earliest event, or nil if empty.
func (h *eventHeap) pollFirst() *Event {
	if len(h.items) == 0 {
		return nil
	}
	return heap.Pop(h).(*Event)
}

// fix re-establishes heap order for e after its time and deconflict have
// been changed while it is enrolled. EventList.Reschedule uses it to move
// an enrolled event in place instead of removing and re-inserting it; it
// is a no-op if e is not in the heap.
func (h *eventHeap) fix(e *Event) {
	if h.contains(e) {
		heap.Fix(h, e.heapIndex)
	}
}

// all returns a snapshot slice of every enrolled event in unspecified
// (heap-array) order -- the order container/heap happens to store them
// in, not comparator order. EventList.Events() sorts this snapshot by
// compareEvents before handing it to callers that need a stable,
// visitation-order view.
func (h *eventHeap) all() []*Event {
	out := make([]*Event, len(h.items))
	copy(out, h.items)
	return out
}
