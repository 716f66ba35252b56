// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package evtlist

import "math"

// ScheduleHook is invoked by Timer.Schedule once the internal event has
// been enrolled, with the host list's clock at the moment of scheduling.
type ScheduleHook func(now float64)

// ExpireHook is invoked when a Timer's delay elapses, with the event's
// (now-current) time. By the time this hook runs the timer is already
// idle, so it may immediately call Schedule again.
type ExpireHook func(t float64)

// CancelHook is invoked by Timer.Cancel, with the host list's clock at
// the moment of cancellation. Never called if the timer was already
// idle.
type CancelHook func(now float64)

// Timer is a single-shot, cancellable delay abstraction layered directly
// on top of an EventList: it schedules one hidden Event on the caller's
// behalf and invokes a virtual expiration hook. State machine: Idle ->
// Scheduled -> Idle, no other states.
//
// Grounded on wtimer.TimerLnk's construct/arm/disarm lifecycle
// (wtimer.go's Reset/Add/Del discipline: "never call Reset on a running
// timer", "a timer may be re-scheduled only after returning to idle"),
// translated from a wheel slot to a single hidden *Event on an
// *EventList, and from wtimer's flag-field hooks to a plain
// configuration record with function-valued hook fields.
type Timer struct {
	// Name is an advisory display name; empty substitutes for the
	// source's null.
	Name string

	OnSchedule ScheduleHook
	OnExpire   ExpireHook
	OnCancel   CancelHook

	host  *EventList
	event *Event
}

// NewTimer creates an idle timer with the given advisory name.
func NewTimer(name string) *Timer {
	t := &Timer{Name: name}
	t.event = &Event{heapIndex: -1}
	t.event.Callback = t.onEventFired
	return t
}

// Scheduled reports whether the timer is currently armed on a list.
func (t *Timer) Scheduled() bool { return t.host != nil }

// Schedule arms the timer to expire after delay simulated-time units on
// list. Fails with IllegalArg if delay is negative, infinite, or NaN, if
// list is nil, or if list's clock is infinite (see DESIGN.md's Open
// Questions on the -Inf clock rule); fails with IllegalState if the
// timer is already scheduled.
func (t *Timer) Schedule(delay float64, list *EventList) error {
	const op = "Timer.Schedule"
	if t.host != nil {
		ERR("%s: rejected %q, timer is already scheduled", op, t.Name)
		return illegalState(op, ErrTimerActive)
	}
	if list == nil {
		WARN("%s: rejected %q, nil list", op, t.Name)
		return illegalArg(op, ErrTimerNilList)
	}
	if delay < 0 || math.IsInf(delay, 0) || delay != delay { // delay != delay => NaN
		WARN("%s: rejected %q, invalid delay %g", op, t.Name, delay)
		return illegalArg(op, ErrTimerNegDelay)
	}
	now := list.GetTime()
	if math.IsInf(now, 0) {
		WARN("%s: rejected %q, host clock is infinite", op, t.Name)
		return illegalArg(op, ErrTimerInfClock)
	}
	if DBGon() {
		DBG("%s: arming %q for %g (delay %g)", op, t.Name, now+delay, delay)
	}
	t.event.Time = now + delay
	t.event.Name = t.Name
	if _, err := list.Add(t.event); err != nil {
		return err
	}
	t.host = list
	if t.OnSchedule != nil {
		t.OnSchedule(now)
	}
	return nil
}

// onEventFired is the internal event's Callback. It clears host before
// invoking the user hook, so OnExpire may re-Schedule immediately.
func (t *Timer) onEventFired(e *Event) {
	expiredAt := e.Time
	t.host = nil
	if t.OnExpire != nil {
		t.OnExpire(expiredAt)
	}
}

// Cancel disarms the timer if scheduled; a no-op if already idle. Never
// fails.
func (t *Timer) Cancel() {
	if t.host == nil {
		return
	}
	host := t.host
	now := host.GetTime()
	host.Remove(t.event)
	t.host = nil
	if t.OnCancel != nil {
		t.OnCancel(now)
	}
}
