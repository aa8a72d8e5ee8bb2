package message

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestQueueMergeCollapsesIdenticalCC(t *testing.T) {
	q := NewQueue()
	q.Merge(NoteOn{Channel: 0, Note: 40, Velocity: 100})
	q.Merge(ControlChange{Channel: 1, Control: 7, Value: 10})
	q.Merge(ControlChange{Channel: 1, Control: 7, Value: 99})

	items := q.Items()
	require.Len(t, items, 2)
	require.Equal(t, NoteOn{Channel: 0, Note: 40, Velocity: 100}, items[0])
	require.Equal(t, ControlChange{Channel: 1, Control: 7, Value: 99}, items[1])
}

func TestQueueMergePreservesNonCCOrdering(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		q := NewQueue()
		q.Merge(NoteOn{Channel: 0, Note: 1, Velocity: 10})
		q.Merge(ControlChange{Channel: 2, Control: 7, Value: 1})
		q.Merge(ControlChange{Channel: 2, Control: 7, Value: 2})
		q.Merge(NoteOff{Channel: 0, Note: 1, Velocity: 0})

		items := q.Items()
		require.Len(t, items, 3)
		require.Equal(t, NoteOn{Channel: 0, Note: 1, Velocity: 10}, items[0])
		require.Equal(t, ControlChange{Channel: 2, Control: 7, Value: 2}, items[1])
		require.Equal(t, NoteOff{Channel: 0, Note: 1, Velocity: 0}, items[2])
	})
}

func TestAvalancheDetectorCollapsesFullWindow(t *testing.T) {
	d := &AvalancheDetector{}
	var focus int
	var detected bool
	for control := 16; control <= 23; control++ {
		f, ok, _ := d.Observe(ControlChange{Channel: 3, Control: control, Value: 50})
		if ok {
			focus, detected = f, ok
		}
	}
	require.True(t, detected)
	require.Equal(t, 3, focus)
}

func TestAvalancheDetectorIgnoresPartialWindow(t *testing.T) {
	d := &AvalancheDetector{}
	for control := 16; control <= 20; control++ {
		_, ok, _ := d.Observe(ControlChange{Channel: 3, Control: control, Value: 50})
		require.False(t, ok)
	}
}
