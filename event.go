// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package evtlist

import (
	"fmt"
	"math"
)

// Callback is invoked when the Event it is attached to is processed by an
// EventList's run loop. It may itself schedule further events on the same
// list (or any other). A nil Callback is legal: the event then acts as a
// pure time marker.
type Callback func(e *Event)

// Event is an immutable-identity record carrying a scheduled time, an
// opaque user payload, a callback, a display name, and an engine-owned
// tiebreaker.
//
// While an Event is enrolled in an EventList, its Time and the internal
// deconflict field must not be mutated by external code; the engine
// treats mutation of either field while enrolled as undefined behaviour.
// An Event may belong to at most one EventList at a time. To reschedule
// an enrolled event, use EventList.Reschedule rather than mutating Time
// directly.
type Event struct {
	// Time is the scheduled simulated time. May be any finite or
	// infinite value before the event is enrolled; once enrolled it
	// must be >= the owning list's current clock.
	Time float64
	// Name is an advisory display name, never inspected by the engine.
	Name string
	// Payload is opaque to the engine.
	Payload interface{}
	// Callback is invoked when the event is processed.
	Callback Callback

	// deconflict is the engine-assigned tiebreaker, written by the
	// owning list's tiebreak policy on Add. Readable via Deconflict for
	// debugging, but never user-settable.
	deconflict int64
	// heapIndex is the event's current position in its owning list's
	// heap, or -1 when not enrolled. Maintained exclusively by heap.go.
	heapIndex int
}

// NewEvent constructs a detached Event, provided for symmetry with
// EventFactory and for callers that prefer a constructor. Unlike a bare
// struct literal, it marks the event as not enrolled (heapIndex -1).
func NewEvent(t float64, cb Callback, name string) *Event {
	return &Event{Time: t, Callback: cb, Name: name, heapIndex: -1}
}

// Deconflict returns the tiebreaker value the owning (or most recently
// owning) list assigned to this event. Zero if the event has never been
// enrolled.
func (e *Event) Deconflict() int64 { return e.deconflict }

// Enrolled reports whether the event currently belongs to a list.
func (e *Event) Enrolled() bool { return e.heapIndex >= 0 }

func (e *Event) String() string {
	if e.Name != "" {
		return fmt.Sprintf("Event[%s@%s]", e.Name, formatTime(e.Time))
	}
	return fmt.Sprintf("Event[@%s]", formatTime(e.Time))
}

func formatTime(t float64) string {
	switch {
	case math.IsInf(t, -1):
		return "-Inf"
	case math.IsInf(t, 1):
		return "+Inf"
	default:
		return fmt.Sprintf("%g", t)
	}
}

// compareEvents implements the event list's total order:
//  1. ascending by Time (treating -Inf < finite < +Inf; NaN is not
//     permitted and is not checked for here -- callers must never enrol
//     a NaN-timed event).
//  2. ascending by deconflict when times are equal.
//  3. a same-key-distinct-objects or distinct-key-same-object result is
//     an InvariantViolation: the caller (heap.go) is responsible for
//     raising it, since only it knows whether the two operands are
//     actually the same object.
//
// compareEvents is pure: it never mutates or assigns deconflict. That is
// exclusively the tiebreaker's job, performed before insertion.
func compareEvents(a, b *Event) int {
	switch {
	case a.Time < b.Time:
		return -1
	case a.Time > b.Time:
		return 1
	}
	switch {
	case a.deconflict < b.deconflict:
		return -1
	case a.deconflict > b.deconflict:
		return 1
	default:
		return 0
	}
}
