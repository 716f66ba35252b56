// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package evtlist implements the scheduling core of a discrete-event
// simulation engine: a priority-ordered, time-stamped event list that
// advances a simulated clock by repeatedly extracting the earliest
// scheduled event and invoking its callback.
//
// An EventList holds Event values ordered by (Time, deconflict), where
// deconflict is an engine-assigned tiebreaker that makes same-time events
// totally ordered. Two tiebreak policies are provided: NewROEL creates a
// list that orders same-time events in a seed-determined random order,
// NewIOEL creates one that preserves insertion order. Both are otherwise
// identical EventLists.
//
// Run, RunUntil and RunSingleStep drain the list, invoking each Event's
// Callback in turn; callbacks are free to schedule further events, making
// the run open-ended until the list empties, a caller-supplied time
// horizon is reached, or the run is cooperatively interrupted.
//
// Timer layers a single-shot, cancellable delay on top of an EventList,
// hiding the details of scheduling and recognising its own event.
//
// The engine is single-threaded and cooperative: all mutation and all
// run loops are expected to execute on one goroutine. There is no internal
// locking beyond the running-guard used to detect reentrancy.
package evtlist

const NAME = "evtlist"
