// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package evtlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIOELOrdersSameTimeEventsByInsertion(t *testing.T) {
	l := NewIOEL(WithDefaultResetTime(0))
	require.NoError(t, l.Reset())

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		_, err := l.ScheduleAction(5, func(e *Event) {
			order = append(order, name)
		}, name)
		require.NoError(t, err)
	}

	require.NoError(t, l.Run())
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestIOELCounterResetsWhenEmptiedBetweenBatches(t *testing.T) {
	l := NewIOEL(WithDefaultResetTime(0))
	require.NoError(t, l.Reset())

	var order []string
	_, err := l.ScheduleAction(1, func(e *Event) { order = append(order, "a") }, "a")
	require.NoError(t, err)
	require.NoError(t, l.Run())
	assert.Equal(t, 0, l.Len())

	b, err := l.ScheduleAction(2, func(e *Event) { order = append(order, "b") }, "b")
	require.NoError(t, err)
	_, err = l.ScheduleAction(2, func(e *Event) { order = append(order, "c") }, "c")
	require.NoError(t, err)
	require.NoError(t, l.Run())

	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, int64(minInt64), b.Deconflict())
}

func TestROELDeterministicForFixedSeed(t *testing.T) {
	run := func(seed int64) []string {
		l := NewROEL(seed, WithDefaultResetTime(0))
		require.NoError(t, l.Reset())
		var order []string
		for _, name := range []string{"a", "b", "c", "d", "e"} {
			name := name
			_, err := l.ScheduleAction(1, func(e *Event) {
				order = append(order, name)
			}, name)
			require.NoError(t, err)
		}
		require.NoError(t, l.Run())
		return order
	}

	first := run(42)
	second := run(42)
	assert.Equal(t, first, second)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, first)
}

func TestROELDistinctSeedsCanDiffer(t *testing.T) {
	run := func(seed int64) []string {
		l := NewROEL(seed, WithDefaultResetTime(0))
		require.NoError(t, l.Reset())
		var order []string
		for i := 0; i < 12; i++ {
			name := string(rune('a' + i))
			_, err := l.ScheduleAction(1, func(e *Event) {
				order = append(order, name)
			}, name)
			require.NoError(t, err)
		}
		require.NoError(t, l.Run())
		return order
	}

	a := run(1)
	b := run(2)
	assert.NotEqual(t, a, b)
}

func TestRandomTiebreakerCollisionIsInvariantViolation(t *testing.T) {
	l := NewROEL(7, WithDefaultResetTime(0))
	require.NoError(t, l.Reset())

	stub := &stubTiebreaker{fixed: 100}
	l.tiebreak = stub

	e1 := NewEvent(1, nil, "e1")
	e2 := NewEvent(1, nil, "e2")
	require.NoError(t, l.Schedule(e1))

	err := l.Schedule(e2)
	require.Error(t, err)
	var evErr *Error
	require.ErrorAs(t, err, &evErr)
	assert.Equal(t, InvariantViolation, evErr.Kind)
}

type stubTiebreaker struct{ fixed int64 }

func (s *stubTiebreaker) assign(e *Event, _ bool) { e.deconflict = s.fixed }
