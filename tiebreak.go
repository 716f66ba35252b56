// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package evtlist

import "math/rand"

// tiebreaker assigns a deconflict value to an event about to be inserted,
// making same-time events totally ordered. Selected once at EventList
// construction time (NewROEL / NewIOEL) and never swapped afterwards.
//
// assign is called with emptyBeforeInsert = true when the list is empty
// at the moment this insertion begins (used by IOEL to decide whether to
// reset its counter, amortising rollover).
type tiebreaker interface {
	assign(e *Event, emptyBeforeInsert bool)
}

// randomTiebreaker backs ROEL (Random-Order Event List): it draws a
// uniformly random int64 from a seedable stream local to the owning list
// and assigns it to the event being inserted. Collisions are
// astronomically unlikely but are not resampled on detection -- a
// collision is a bug to surface (InvariantViolation), not paper over.
//
// The RNG is never a package global: each list owns its own seedable
// stream, matching wtimer.go's own design notes about avoiding global
// mutable state.
type randomTiebreaker struct {
	rng *rand.Rand
}

func newRandomTiebreaker(seed int64) *randomTiebreaker {
	return &randomTiebreaker{rng: rand.New(rand.NewSource(seed))}
}

func (t *randomTiebreaker) assign(e *Event, _ bool) {
	e.deconflict = int64(t.rng.Uint64()) // spread across the full signed range
}

// insertionTiebreaker backs IOEL (Insertion-Order Event List): a
// monotonically increasing int64 counter seeded at the minimum int64,
// reset to its seed whenever the list is empty at the start of an Add
// (amortising rollover). A wrap within a single non-empty interval is not
// guarded against -- at one insertion per nanosecond it would take over
// 292 years to exhaust an int64 range, so this is noted rather than
// defended against.
type insertionTiebreaker struct {
	next int64
}

func newInsertionTiebreaker() *insertionTiebreaker {
	return &insertionTiebreaker{next: minInt64}
}

const minInt64 = -1 << 63

func (t *insertionTiebreaker) assign(e *Event, emptyBeforeInsert bool) {
	if emptyBeforeInsert {
		t.next = minInt64
	}
	e.deconflict = t.next
	t.next++
}

// NewROEL creates an EventList whose same-time events are processed in a
// seed-determined pseudo-random order. Two ROELs constructed with the
// same seed and fed the same insertion sequence of same-time events
// process them identically.
func NewROEL(seed int64, opts ...Option) *EventList {
	return newEventList(newRandomTiebreaker(seed), opts...)
}

// NewIOEL creates an EventList whose same-time events are processed in
// the order they were inserted.
func NewIOEL(opts ...Option) *EventList {
	return newEventList(newInsertionTiebreaker(), opts...)
}
