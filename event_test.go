// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package evtlist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareEventsByTime(t *testing.T) {
	a := &Event{Time: 1.0}
	b := &Event{Time: 2.0}
	assert.Negative(t, compareEvents(a, b))
	assert.Positive(t, compareEvents(b, a))
}

func TestCompareEventsByDeconflictWhenTimesEqual(t *testing.T) {
	a := &Event{Time: 1.0, deconflict: 5}
	b := &Event{Time: 1.0, deconflict: 9}
	assert.Negative(t, compareEvents(a, b))
	assert.Positive(t, compareEvents(b, a))
}

func TestCompareEventsSameObjectEqual(t *testing.T) {
	a := &Event{Time: 1.0, deconflict: 5}
	assert.Equal(t, 0, compareEvents(a, a))
}

func TestCompareEventsInfiniteTimes(t *testing.T) {
	a := &Event{Time: math.Inf(-1)}
	b := &Event{Time: 0}
	c := &Event{Time: math.Inf(1)}
	assert.Negative(t, compareEvents(a, b))
	assert.Negative(t, compareEvents(b, c))
	assert.Negative(t, compareEvents(a, c))
}

func TestEventEnrolledAndDeconflict(t *testing.T) {
	e := NewEvent(1.0, nil, "e")
	assert.False(t, e.Enrolled())
	assert.Equal(t, int64(0), e.Deconflict())

	l := NewIOEL()
	_, err := l.Add(e)
	assert.NoError(t, err)
	assert.True(t, e.Enrolled())
}

func TestEventString(t *testing.T) {
	named := NewEvent(10, nil, "tick")
	assert.Contains(t, named.String(), "tick")
	anon := NewEvent(10, nil, "")
	assert.Contains(t, anon.String(), "10")
}
