package clock

import (
	"testing"

	"github.com/octobridge/octobridge/internal/message"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func eventTypes(events []message.Internal) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func TestMetronomePulseCounts(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := NewMetronome()
		k := rapid.IntRange(1, 96*8*3).Draw(t, "pulses")

		var beats, starts, ends int
		for i := 0; i < k; i++ {
			for _, e := range m.Pulse() {
				switch e.Type {
				case message.TypeBeat:
					beats++
				case message.TypeStart:
					starts++
				case message.TypeEnd:
					ends++
				}
			}
		}

		// Pulse i (0-based) lands on counter i mod size; bars never changes
		// in this test.
		size := 2 * beatsPerBar * pulsesPerBeat
		wantStarts := (k + size - 1) / size // every counter 0
		wantEnds := k / size                // only the last pulse of a completed phrase
		// every multiple of 24 except counter 0, which emits start instead
		wantBeats := (k+pulsesPerBeat-1)/pulsesPerBeat - wantStarts
		require.Equal(t, wantStarts, starts)
		require.Equal(t, wantBeats, beats)
		require.Equal(t, wantEnds, ends)
	})
}

func TestMetronomeEmitsStartAtPulseZero(t *testing.T) {
	m := NewMetronome()
	events := m.Pulse()
	require.Equal(t, []string{message.TypeStart}, eventTypes(events))
}

func TestMetronomeEmitsExactlyOneEndPerPhrase(t *testing.T) {
	m := NewMetronome()
	size := 2 * beatsPerBar * pulsesPerBeat
	endCount := 0
	for i := 0; i < size; i++ {
		for _, e := range m.Pulse() {
			if e.Type == message.TypeEnd {
				endCount++
			}
		}
	}
	require.Equal(t, 1, endCount)
}

func TestMetronomeBarsChangeDeferredToBeat(t *testing.T) {
	m := NewMetronome()
	m.Pulse() // counter=0, start
	m.SetBars(4)
	require.Equal(t, 2, m.Bars())

	for i := 1; i < pulsesPerBeat; i++ {
		m.Pulse()
		require.Equal(t, 2, m.Bars())
	}
	m.Pulse() // counter reaches 24: beat, deferred bars applies
	require.Equal(t, 4, m.Bars())
}

func TestMetronomeStartResetsCounterMidPhrase(t *testing.T) {
	m := NewMetronome()
	m.Pulse()
	for i := 0; i < 10; i++ {
		m.Pulse()
	}
	require.NotEqual(t, 0, m.Counter())

	evt := m.Start()
	require.Equal(t, message.TypeStart, evt.Type)
	require.Equal(t, 0, m.Counter())
}

func TestMetronomeStopForwardsButIgnoresCounter(t *testing.T) {
	m := NewMetronome()
	m.Pulse()
	before := m.Counter()
	evt := m.Stop()
	require.Equal(t, message.TypeStop, evt.Type)
	require.Equal(t, before, m.Counter())
}
