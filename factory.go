// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package evtlist

// EventFactory mints a fresh Event from a (time, callback, name) triple,
// for callers that schedule by value instead of constructing an *Event
// themselves. It should return an error only if construction itself
// fails (e.g. a pooled-event allocator exhausted); it must not validate
// t against a list's clock -- that's the scheduling operation's job.
//
// Registered on an EventList via WithFactory. Absent a registered
// factory, the list default-constructs a plain *Event{} and populates
// it directly; this always succeeds, since Go's *Event has no abstract
// base to fail to instantiate (see DESIGN.md's Open Questions for how
// this maps onto the "event_class_tag" fallback of the source design).
type EventFactory func(t float64, cb Callback, name string) (*Event, error)

// mintEvent applies the EventList's configured factory (or the default
// constructor) to produce a fresh, detached *Event for the
// Schedule(time, action, name) family of operations.
func (l *EventList) mintEvent(t float64, cb Callback, name string) (*Event, error) {
	if l.factory != nil {
		e, err := l.factory(t, cb, name)
		if err != nil {
			ERR("mintEvent: factory failed for %q: %s", name, err)
			return nil, illegalState("mintEvent", err)
		}
		if e == nil {
			ERR("mintEvent: factory returned a nil event for %q", name)
			return nil, illegalState("mintEvent", ErrConstructFailed)
		}
		e.heapIndex = -1
		return e, nil
	}
	return &Event{Time: t, Callback: cb, Name: name, heapIndex: -1}, nil
}
