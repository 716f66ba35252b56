// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package evtlist

import (
	"time"

	"github.com/intuitivelabs/timestamp"
)

// wallClockPacing ties an EventList's simulated clock advance to
// wall-clock time, for models that integrate real devices not themselves
// driven by the EventList. Grounded on evtm.EventManager's
// Wallclock/realTimeDelay (see DESIGN.md); reworked into the
// single-threaded cooperative run loop instead of evtm's
// mutex-guarded version, since nothing here runs concurrently with the
// loop itself.
type wallClockPacing struct {
	secondsPerUnit float64 // real seconds per 1.0 of simulated time
	start         timestamp.TS
	startSimTime  float64
	started       bool
}

// WithWallClock enables wall-clock pacing: before firing each event, the
// run loop sleeps in real time to keep the simulated clock roughly
// aligned with wall-clock time, at the given secondsPerSimUnit scale
// (e.g. 1.0 means one simulated time unit takes one real second).
func WithWallClock(secondsPerSimUnit float64) Option {
	return func(l *EventList) {
		l.wallClock = &wallClockPacing{secondsPerUnit: secondsPerSimUnit}
	}
}

// pace sleeps, if necessary, to keep real elapsed time in step with the
// simulated time gap between the pacing's start and nextTime.
func (w *wallClockPacing) pace(l *EventList, nextTime float64) {
	now := timestamp.Now()
	if !w.started {
		w.start = now
		w.startSimTime = l.clock
		w.started = true
		return
	}
	simElapsed := nextTime - w.startSimTime
	if simElapsed <= 0 {
		return
	}
	wantReal := time.Duration(simElapsed * w.secondsPerUnit * float64(time.Second))
	gotReal := now.Sub(w.start)
	if sleep := wantReal - gotReal; sleep > 0 {
		time.Sleep(sleep)
	}
}
