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

// fineRecorder satisfies FineListener and records every callback in the
// order received, tagged by capability so fan-out order is verifiable.
type fineRecorder struct {
	events []string
}

func (f *fineRecorder) OnReset(l *EventList)                  { f.events = append(f.events, "fine:reset") }
func (f *fineRecorder) OnUpdate(l *EventList, t float64)      { f.events = append(f.events, "fine:update") }
func (f *fineRecorder) OnEmpty(l *EventList, t float64)       { f.events = append(f.events, "fine:empty") }
func (f *fineRecorder) OnNextEvent(l *EventList, prev float64) { f.events = append(f.events, "fine:next") }

type fullListener struct {
	events *[]string
}

func (f *fullListener) OnReset(l *EventList)             { *f.events = append(*f.events, "full:reset") }
func (f *fullListener) OnUpdate(l *EventList, t float64) { *f.events = append(*f.events, "full:update") }
func (f *fullListener) OnEmpty(l *EventList, t float64)  { *f.events = append(*f.events, "full:empty") }

type resetOnlyListener struct {
	events *[]string
}

func (r *resetOnlyListener) OnReset(l *EventList) { *r.events = append(*r.events, "reset:reset") }

func TestListenerFanOutOrder(t *testing.T) {
	var shared []string
	l := NewIOEL(WithDefaultResetTime(0))

	fine := &fineRecorder{}
	full := &fullListener{events: &shared}
	resetOnly := &resetOnlyListener{events: &shared}

	l.AddListener(fine)
	l.AddListener(full)
	l.AddListener(resetOnly)

	require.NoError(t, l.Reset())
	assert.Equal(t, []string{"fine:reset"}, fine.events)
	assert.Equal(t, []string{"full:reset", "reset:reset"}, shared)

	_, err := l.ScheduleAction(1, nil, "a")
	require.NoError(t, err)
	require.NoError(t, l.Run())

	assert.Contains(t, fine.events, "fine:next")
	assert.Contains(t, fine.events, "fine:update")
	assert.Contains(t, fine.events, "fine:empty")
	assert.Contains(t, shared, "full:update")
	assert.Contains(t, shared, "full:empty")
	assert.NotContains(t, shared, "reset:update")
}

func TestListenerRegisteredAtHighestCapabilityOnly(t *testing.T) {
	l := NewIOEL()
	fine := &fineRecorder{}
	l.AddListener(fine)

	assert.Equal(t, 1, len(l.fineListeners))
	assert.Equal(t, 0, len(l.listeners))
	assert.Equal(t, 0, len(l.resetListeners))
}

func TestRemoveListenerStopsFurtherNotifications(t *testing.T) {
	l := NewIOEL(WithDefaultResetTime(0))
	lis := newRecordingListener()
	l.AddListener(lis)

	require.NoError(t, l.ResetTo(0))
	assert.Equal(t, 1, lis.resets)

	l.RemoveListener(lis)
	require.NoError(t, l.ResetTo(1))
	assert.Equal(t, 1, lis.resets)
}
