// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package evtlist

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// EventList is the ordered container, clock, listener registries and
// run loop shared by ROEL and IOEL -- they differ only in the tiebreak
// policy passed to newEventList (see tiebreak.go).
//
// EventList is single-threaded and cooperative: all mutation and all
// Run*/RunUntil/RunSingleStep calls are expected to happen on one
// goroutine. The running flag exists only to detect reentrancy (a nested
// run started from within a callback), not to provide mutual exclusion
// against concurrent goroutines.
type EventList struct {
	clock            float64
	firstUpdate      bool
	defaultResetTime float64
	running          bool
	interrupted      bool

	heap     eventHeap
	tiebreak tiebreaker
	factory  EventFactory

	listenerRegistries

	toStringFn func(l *EventList) string

	wallClock *wallClockPacing // nil unless WithWallClock is set
}

// Option configures an EventList at construction time (NewROEL/NewIOEL).
type Option func(*EventList)

// WithDefaultResetTime sets the clock value installed by the
// parameterless Reset(). Defaults to -Inf.
func WithDefaultResetTime(t float64) Option {
	return func(l *EventList) { l.defaultResetTime = t }
}

// WithFactory installs an EventFactory used by the Schedule(time, action,
// name) family when minting new events.
func WithFactory(f EventFactory) Option {
	return func(l *EventList) { l.factory = f }
}

// WithToStringFn installs a custom debug renderer for String().
func WithToStringFn(f func(l *EventList) string) Option {
	return func(l *EventList) { l.toStringFn = f }
}

func newEventList(tb tiebreaker, opts ...Option) *EventList {
	l := &EventList{
		defaultResetTime:   math.Inf(-1),
		tiebreak:           tb,
		listenerRegistries: newListenerRegistries(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.clock = l.defaultResetTime
	l.firstUpdate = true
	return l
}

// GetTime returns the current clock (the simulated time of the last
// event fully advanced to).
func (l *EventList) GetTime() float64 { return l.clock }

// DefaultResetTime returns the clock value a parameterless Reset()
// installs.
func (l *EventList) DefaultResetTime() float64 { return l.defaultResetTime }

// SetDefaultResetTime changes the clock value a parameterless Reset()
// installs. Does not itself reset the list.
func (l *EventList) SetDefaultResetTime(t float64) { l.defaultResetTime = t }

// Len returns the number of events currently enrolled.
func (l *EventList) Len() int { return l.heap.Len() }

// Peek returns the earliest enrolled event without removing it, or nil
// if the list is empty.
func (l *EventList) Peek() *Event { return l.heap.peek() }

func (l *EventList) String() string {
	if l.toStringFn != nil {
		return l.toStringFn(l)
	}
	return fmt.Sprintf("EventList[t=%s]", formatTime(l.clock))
}

// Reset clears all enrolled events, sets the clock to
// DefaultResetTime(), and fires a reset notification. Fails with
// IllegalState if the list is currently running.
func (l *EventList) Reset() error {
	return l.resetTo(l.defaultResetTime)
}

// ResetTo clears all enrolled events, sets the clock to t, and fires a
// reset notification. Fails with IllegalState if the list is currently
// running.
func (l *EventList) ResetTo(t float64) error {
	return l.resetTo(t)
}

func (l *EventList) resetTo(t float64) error {
	const op = "Reset"
	if l.running {
		ERR("%s: rejected, list is running", op)
		return illegalState(op, ErrAlreadyRunning)
	}
	if DBGon() {
		DBG("%s: clearing %d event(s), clock %g -> %g", op, l.heap.Len(), l.clock, t)
	}
	l.heap = eventHeap{}
	l.clock = t
	l.firstUpdate = true
	l.fireReset(l)
	return nil
}

// Contains reports whether e is currently enrolled in this list.
func (l *EventList) Contains(e *Event) bool { return l.heap.contains(e) }

// Add enrols e, assigning its tiebreaker. Returns true if e was inserted,
// false if e was already enrolled (a no-op, not an error). Fails with
// IllegalArg if e is nil or e.Time is before the current clock.
func (l *EventList) Add(e *Event) (bool, error) {
	return l.add(e)
}

// add is the single choke point every Add/Schedule/AddAll variant funnels
// through, so it's also the single place that needs to guard against a
// tiebreak collision panicking out of heap.insert (see heap.go's Less) --
// recoverInvariant here means every public caller of add gets
// InvariantViolation as a returned error for free, without each of them
// deferring it individually.
func (l *EventList) add(e *Event) (ok bool, errResult error) {
	const op = "Add"
	if e == nil {
		WARN("%s: rejected, nil event", op)
		return false, illegalArg(op, ErrNilEvent)
	}
	if l.heap.contains(e) {
		return false, nil
	}
	if e.Time < l.clock {
		if WARNon() {
			WARN("%s: rejected %s, time %g is before clock %g", op, e, e.Time, l.clock)
		}
		return false, illegalArg(op, ErrPastSchedule)
	}
	defer recoverInvariant(op, &errResult)
	emptyBefore := l.heap.Len() == 0
	l.tiebreak.assign(e, emptyBefore)
	l.heap.insert(e)
	return true, nil
}

// AddAll enrols every event in es, in order. Returns true if at least one
// was newly inserted. Fails with IllegalArg if es is nil; if an
// individual event fails to add (nil entry or past-scheduled), that
// error is returned immediately and any events already added from es
// remain enrolled.
func (l *EventList) AddAll(es []*Event) (bool, error) {
	const op = "AddAll"
	if es == nil {
		WARN("%s: rejected, nil collection", op)
		return false, illegalArg(op, ErrNilCollection)
	}
	any := false
	for _, e := range es {
		ok, err := l.add(e)
		if err != nil {
			return any, err
		}
		any = any || ok
	}
	return any, nil
}

// Remove removes e from the list if present, returning whether it was
// removed.
func (l *EventList) Remove(e *Event) bool {
	return l.heap.removeEvent(e)
}

// Schedule enrols e at its current e.Time. Unlike Add, scheduling an
// already-enrolled event is an IllegalArg failure rather than a silent
// no-op -- a stricter contract than plain Add/AddAll, which treat
// re-adding as a harmless no-op.
func (l *EventList) Schedule(e *Event) error {
	const op = "Schedule"
	if e == nil {
		WARN("%s: rejected, nil event", op)
		return illegalArg(op, ErrNilEvent)
	}
	if l.heap.contains(e) {
		WARN("%s: rejected %s, already enrolled", op, e)
		return illegalArg(op, ErrAlreadyEnrolled)
	}
	_, err := l.add(e)
	return err
}

// ScheduleAt sets e.Time to t and enrols it. Fails with IllegalArg if t
// is before the current clock or e is already enrolled.
func (l *EventList) ScheduleAt(t float64, e *Event) error {
	const op = "ScheduleAt"
	if e == nil {
		WARN("%s: rejected, nil event", op)
		return illegalArg(op, ErrNilEvent)
	}
	if l.heap.contains(e) {
		WARN("%s: rejected %s, already enrolled", op, e)
		return illegalArg(op, ErrAlreadyEnrolled)
	}
	e.Time = t
	_, err := l.add(e)
	return err
}

// Reschedule moves e to a new time, whether or not it is currently
// enrolled: if e is already in the list its position is fixed in place
// (with a freshly assigned tiebreak value, as if re-added); otherwise it
// is enrolled fresh. Fails with IllegalArg if t is before the current
// clock.
func (l *EventList) Reschedule(t float64, e *Event) (errResult error) {
	const op = "Reschedule"
	if e == nil {
		WARN("%s: rejected, nil event", op)
		return illegalArg(op, ErrNilEvent)
	}
	if t < l.clock {
		WARN("%s: rejected %s, target time %g is before clock %g", op, e, t, l.clock)
		return illegalArg(op, ErrPastSchedule)
	}
	if l.heap.contains(e) {
		defer recoverInvariant(op, &errResult)
		e.Time = t
		l.tiebreak.assign(e, false)
		l.heap.fix(e)
		return nil
	}
	e.Time = t
	_, err := l.add(e)
	return err
}

// ScheduleNow sets e.Time to the current clock and enrols it. Fails with
// IllegalArg if e is nil or already enrolled.
func (l *EventList) ScheduleNow(e *Event) error {
	const op = "ScheduleNow"
	if e == nil {
		WARN("%s: rejected, nil event", op)
		return illegalArg(op, ErrNilEvent)
	}
	if l.heap.contains(e) {
		WARN("%s: rejected %s, already enrolled", op, e)
		return illegalArg(op, ErrAlreadyEnrolled)
	}
	e.Time = l.clock
	_, err := l.add(e)
	return err
}

// ScheduleAction constructs a fresh event via the registered EventFactory
// (or default construction) for (t, cb, name) and enrols it, returning
// the constructed event. Fails with IllegalArg if t is before the
// current clock, or IllegalState if construction fails.
func (l *EventList) ScheduleAction(t float64, cb Callback, name string) (*Event, error) {
	const op = "ScheduleAction"
	if t < l.clock {
		WARN("%s: rejected %q, time %g is before clock %g", op, name, t, l.clock)
		return nil, illegalArg(op, ErrPastSchedule)
	}
	e, err := l.mintEvent(t, cb, name)
	if err != nil {
		return nil, err
	}
	if _, err := l.add(e); err != nil {
		return nil, err
	}
	return e, nil
}

// ScheduleActionNow constructs and enrols an event at the current clock
// via the registered EventFactory (or default construction).
func (l *EventList) ScheduleActionNow(cb Callback, name string) (*Event, error) {
	return l.ScheduleAction(l.clock, cb, name)
}

// AddListener registers l under whichever of ResetListener, Listener or
// FineListener is its highest satisfied capability. nil is ignored.
func (l *EventList) AddListener(listener interface{}) { l.addListener(listener) }

// RemoveListener unregisters a previously added listener. nil and
// not-found are ignored.
func (l *EventList) RemoveListener(listener interface{}) { l.removeListener(listener) }

// clockAdvance moves the clock forward: if firstUpdate is false and
// newTime < clock, that's a clock regression -- an InvariantViolation.
// Otherwise, if firstUpdate or newTime > clock, the clock is updated and
// an update notification fires; same-time advances after the first do
// not re-fire.
func (l *EventList) clockAdvance(newTime float64) {
	if !l.firstUpdate && newTime < l.clock {
		panicInvariant(ErrClockRegression, "%g -> %g", l.clock, newTime)
	}
	if l.firstUpdate || newTime > l.clock {
		l.clock = newTime
		l.firstUpdate = false
		l.fireUpdate(l, l.clock)
	}
}

// Run drains the list until it empties or is cooperatively interrupted.
// Equivalent to RunUntil(+Inf, true, false) with no context.
func (l *EventList) Run() error {
	return l.RunUntil(context.Background(), math.Inf(1), true, false)
}

// RunContext drains the list until it empties, ctx is cancelled, or the
// run is cooperatively interrupted.
func (l *EventList) RunContext(ctx context.Context) error {
	return l.RunUntil(ctx, math.Inf(1), true, false)
}

// RunUntil runs events with time < end, plus the event(s) at time == end
// iff inclusive, until the list empties, ctx is cancelled, or the run is
// cooperatively interrupted via Interrupt(). If inclusive and
// setTimeToEnd and the clock is still behind end once the loop exits
// because the list emptied or ran past its horizon, the clock is
// advanced to end (firing one final update). Fails with IllegalState if
// already running, IllegalArg if end is before the current clock.
func (l *EventList) RunUntil(ctx context.Context, end float64, inclusive, setTimeToEnd bool) (errResult error) {
	const op = "RunUntil"
	if l.running {
		if ERRon() {
			ERR("%s: rejected, already running (clock %g)", op, l.clock)
		}
		return illegalState(op, ErrAlreadyRunning)
	}
	if end < l.clock {
		WARN("%s: rejected, end %g is before clock %g", op, end, l.clock)
		return illegalArg(op, ErrEndBeforeClock)
	}
	l.running = true
	defer func() { l.running = false }()
	defer recoverInvariant(op, &errResult)

	stopped := false
	for {
		first := l.heap.peek()
		if first == nil {
			break
		}
		if !(first.Time < end || (inclusive && first.Time == end)) {
			break
		}
		if ctx.Err() != nil || l.interrupted {
			stopped = true
			break
		}
		l.fireNextEvent(l, l.clock)
		if l.wallClock != nil {
			l.wallClock.pace(l, first.Time)
		}
		e := l.heap.pollFirst()
		if DBGon() {
			DBG("%s: firing %s", op, e)
		}
		l.clockAdvance(e.Time)
		if e.Callback != nil {
			e.Callback(e)
		}
	}
	if inclusive && setTimeToEnd && !stopped && l.clock < end && !math.IsInf(end, 0) {
		l.clockAdvance(end)
	}
	if l.heap.Len() == 0 {
		l.fireEmpty(l, l.clock)
	}
	l.interrupted = false
	return nil
}

// RunSingleStep processes at most one event: identical to one iteration
// of RunUntil's loop body, but returns silently (no-op, no error) if the
// list is empty on entry. Fails with IllegalState if already running.
func (l *EventList) RunSingleStep() (errResult error) {
	const op = "RunSingleStep"
	if l.running {
		ERR("%s: rejected, already running", op)
		return illegalState(op, ErrAlreadyRunning)
	}
	first := l.heap.peek()
	if first == nil {
		return nil
	}
	l.running = true
	defer func() { l.running = false }()
	defer recoverInvariant(op, &errResult)

	l.fireNextEvent(l, l.clock)
	if l.wallClock != nil {
		l.wallClock.pace(l, first.Time)
	}
	e := l.heap.pollFirst()
	if DBGon() {
		DBG("%s: firing %s", op, e)
	}
	l.clockAdvance(e.Time)
	if e.Callback != nil {
		e.Callback(e)
	}
	if l.heap.Len() == 0 {
		l.fireEmpty(l, l.clock)
	}
	return nil
}

// Interrupt requests that a running Run/RunUntil stop after it finishes
// processing the event currently in flight (if any), leaving the list
// non-empty and the clock at the last processed event's time. Safe to
// call from within an event's callback (the only context code runs in,
// in this single-threaded cooperative engine). A re-invocation of
// Run/RunUntil resumes from where the prior run left off. Fails with
// IllegalState if no run is currently in progress -- a stray Interrupt
// would otherwise silently abort the *next* run before it processes
// anything.
func (l *EventList) Interrupt() error {
	const op = "Interrupt"
	if !l.running {
		ERR("%s: rejected, list is not running", op)
		return illegalState(op, ErrNotRunning)
	}
	l.interrupted = true
	return nil
}

// Events returns a snapshot of every currently enrolled event, ordered
// the same way the run loop would visit them (ascending by time, then by
// tiebreak). It is a copy, not a live view: mutating the list afterwards
// does not affect the returned slice and vice versa.
func (l *EventList) Events() []*Event {
	out := l.heap.all()
	sort.Slice(out, func(i, j int) bool { return compareEvents(out[i], out[j]) < 0 })
	return out
}
