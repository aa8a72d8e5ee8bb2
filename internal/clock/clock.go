// Package clock implements octobridge's MIDI-clock-derived metronome
// (spec §4.C): it consumes MIDI clock pulses and start/stop messages and
// emits the beat/start/end/stop transport events that gate the looper and
// the rest of the system.
package clock

import (
	"sync"

	"github.com/octobridge/octobridge/internal/message"
)

const pulsesPerBeat = 24
const beatsPerBar = 4

// Metronome tracks bars/counter state and turns MIDI clock pulses into
// Internal transport events.
//
// bars changes are deferred to the next beat emission (spec §4.C); this is
// an observable contract distinct from the looper's own bars, which
// defers to the next start (see internal/looper).
type Metronome struct {
	mu      sync.Mutex
	bars    int
	counter int
	deferredBars Deferred[int]
}

// NewMetronome returns a Metronome with the spec §3 default of 2 bars.
func NewMetronome() *Metronome {
	return &Metronome{bars: 2, counter: -1}
}

func clip(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Bars reports the metronome's current (already-applied) bar count.
func (m *Metronome) Bars() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bars
}

// Counter reports the current pulse counter, 0..bars*96-1.
func (m *Metronome) Counter() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counter
}

// SetBars queues a new bar count (clipped to 1..8) to take effect at the
// next beat emission.
func (m *Metronome) SetBars(bars int) {
	m.deferredBars.Queue(clip(bars, 1, 8))
}

// Pulse consumes one MIDI clock pulse (24 per quarter-note) and returns
// the Internal events it produces, in order:
//
//   - counter == 0 -> "start"
//   - counter == bars*96-1 (the phrase's last pulse) -> "end"
//   - counter % 24 == 0 (and nonzero) -> "beat"; this is also when a
//     deferred SetBars takes effect.
func (m *Metronome) Pulse() []message.Internal {
	m.mu.Lock()
	defer m.mu.Unlock()

	size := m.bars * beatsPerBar * pulsesPerBeat
	m.counter++
	if m.counter >= size {
		m.counter = 0
	}

	switch {
	case m.counter == 0:
		return []message.Internal{message.NewInternal(message.TypeStart, m.bars)}
	case m.counter == size-1:
		return []message.Internal{message.NewInternal(message.TypeEnd, m.bars)}
	case m.counter%pulsesPerBeat == 0:
		m.bars = m.deferredBars.Apply(m.bars)
		return []message.Internal{message.NewInternal(message.TypeBeat, m.bars)}
	default:
		return nil
	}
}

// Start resets the counter to 0 and forces a "start" emission, even if the
// pulse stream was mid-beat (spec §4.C).
func (m *Metronome) Start() message.Internal {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter = 0
	return message.NewInternal(message.TypeStart, m.bars)
}

// Stop is forwarded as an Internal "stop" message; the clock ignores it
// for counter-advancement purposes (spec §4.C).
func (m *Metronome) Stop() message.Internal {
	return message.NewInternal(message.TypeStop, 0)
}
