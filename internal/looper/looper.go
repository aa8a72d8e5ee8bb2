// Package looper implements octobridge's sample-accurate looper engine
// (spec §4.G): a 16-phrase, multi-track ring-buffered recorder/player with
// volume/pan/crossfade mixing executed inside the audio callback.
//
// The source language drove this from a single `OctoRecorder` object
// holding both the numpy tensor and the mixer state directly; here the
// buffer is a plain Go slice tensor mutated only by the callback (the sole
// audio-thread writer), and every other piece of state a reader/writer
// needs is published through a `Snapshot` via `atomic.Pointer` (spec §5),
// so the callback reads control state without a lock. The one lock it
// takes is `mu`, held only while it reads and advances the cursor.
package looper

import (
	"sync"
	"sync/atomic"

	"github.com/octobridge/octobridge/internal/clock"
)

// secondsPerMaxBar is the source's "6 = 4 beats × 60/40 min-tempo seconds"
// constant: the longest a bar can last at the slowest supported tempo.
const secondsPerMaxBar = 6

const phrases = 16

// maxBars is the largest bar count the buffer is ever allocated for
// (spec §4.G: "allocated once at phrases × ⌈samplerate·8·6⌉ × tracks").
const maxBars = 8

// State is the cross-phrase transport state queued by the bus dispatcher
// and applied atomically at the next `start` (spec §4.G).
type State struct {
	Playing   bool
	Recording bool
	Overdub   bool
}

// Looper owns the phrase buffer tensor and the deferred-to-start control
// state. The buffer itself is touched only by Callback; the cursor is
// guarded by mu; every other piece of control state is published as a
// copy-on-write Snapshot.
type Looper struct {
	tracks     int
	sampleRate int

	mu  sync.Mutex // guards cursor
	buf [][][]float32 // [phrase][sample][track], allocated once at maxBars

	cursor int // advanced by Callback, reset to 0 by Start

	current atomic.Pointer[Snapshot]

	pendingState clock.Deferred[State]
	pendingBars  clock.Deferred[int]
	pendingPhrase clock.Deferred[int]
}

// New allocates the phrase tensor at its maximum size and publishes the
// initial Snapshot (bars=2, stopped, centered mix).
func New(sampleRate, tracks int) *Looper {
	l := &Looper{tracks: tracks, sampleRate: sampleRate}

	capSize := maxSize(sampleRate, maxBars)
	l.buf = make([][][]float32, phrases)
	for p := range l.buf {
		l.buf[p] = make([][]float32, capSize)
		for s := range l.buf[p] {
			l.buf[p][s] = make([]float32, tracks)
		}
	}

	vol := make([]float32, tracks)
	pan := make([]float32, tracks)
	for i := range vol {
		vol[i] = 1
		pan[i] = 0.5
	}
	l.current.Store(&Snapshot{
		Bars:    2,
		MaxSize: maxSize(sampleRate, 2),
		Vol:     vol,
		Pan:     pan,
		MasterX: 0.5,
	})
	return l
}

// maxSize computes floor(samplerate * bars * secondsPerMaxBar)
// (spec §4.G: `maxsize = ⌊samplerate·bars·6⌋`).
func maxSize(sampleRate, bars int) int {
	return sampleRate * bars * secondsPerMaxBar
}

func (l *Looper) snapshot() *Snapshot {
	return l.current.Load()
}

// publish atomically swaps in a snapshot built by mutating a clone of the
// current one; f must not retain s beyond its call.
func (l *Looper) publish(f func(s *Snapshot)) {
	cur := l.snapshot()
	next := cur.clone()
	f(&next)
	l.current.Store(&next)
}

// SetVolume sets track ch's volume (0..1), effective immediately — mixer
// edits are not phrase-deferred (spec §4.G only defers play/rec/stop/
// toggle/overdub/phrase/bars).
func (l *Looper) SetVolume(ch int, volume float32) {
	l.publish(func(s *Snapshot) { s.Vol[ch] = volume })
}

// SetPan sets track ch's pan (0..1), effective immediately.
func (l *Looper) SetPan(ch int, pan float32) {
	l.publish(func(s *Snapshot) { s.Pan[ch] = pan })
}

// SetMasterX sets the master crossfade (0..1), effective immediately.
func (l *Looper) SetMasterX(x float32) {
	l.publish(func(s *Snapshot) { s.MasterX = x })
}

// QueuePlay arms playback (play sets playing=true, recording=false),
// deferred to the next Start.
func (l *Looper) QueuePlay() {
	l.pendingState.Queue(State{Playing: true, Recording: false})
}

// QueueRec arms recording (rec sets recording=true, playing=false),
// deferred to the next Start.
func (l *Looper) QueueRec() {
	l.pendingState.Queue(State{Playing: false, Recording: true})
}

// QueueStop clears both playing and recording, deferred to the next Start.
func (l *Looper) QueueStop() {
	l.pendingState.Queue(State{Playing: false, Recording: false})
}

// QueueToggle flips playing relative to the currently published snapshot;
// if the flip lands on "off" it re-arms recording, and if it lands on "on"
// it clears recording (spec §4.G and OPEN QUESTION DECISIONS #2).
func (l *Looper) QueueToggle() {
	cur := l.snapshot()
	playing := !cur.Playing
	recording := false
	if !playing {
		recording = true
	}
	l.pendingState.Queue(State{Playing: playing, Recording: recording, Overdub: cur.Overdub})
}

// QueueOverdub arms simultaneous play+record (spec: "overdub(true) sets
// both true"), deferred to the next Start.
func (l *Looper) QueueOverdub() {
	l.pendingState.Queue(State{Playing: true, Recording: true, Overdub: true})
}

// QueueBars queues a new bar count (1..8), deferred to the next Start.
func (l *Looper) QueueBars(bars int) {
	l.pendingBars.Queue(bars)
}

// QueuePhrase queues a phrase delta, wrapped modulo 16 against the
// currently published phrase, deferred to the next Start.
func (l *Looper) QueuePhrase(delta int) {
	cur := l.snapshot()
	next := ((cur.Phrase+delta)%phrases + phrases) % phrases
	l.pendingPhrase.Queue(next)
}

// Start applies every deferred setter at once (spec §4.G: "all transitions
// are queued and applied on the next start pulse"), resizing the logical
// buffer window for a new bar count and resetting the cursor.
func (l *Looper) Start() {
	l.mu.Lock()
	l.cursor = 0
	l.mu.Unlock()

	l.publish(func(s *Snapshot) {
		bars := l.pendingBars.Apply(s.Bars)
		s.Bars = bars
		s.MaxSize = maxSize(l.sampleRate, bars)
		s.Phrase = l.pendingPhrase.Apply(s.Phrase)

		st := l.pendingState.Apply(State{Playing: s.Playing, Recording: s.Recording, Overdub: s.Overdub})
		s.Playing, s.Recording, s.Overdub = st.Playing, st.Recording, st.Overdub
	})
}

// Callback runs one audio buffer through the looper's record/play/mix
// pipeline (spec §4.G steps 1-6). in and out are [frames][tracks]; scratch
// is a caller-owned [frames][tracks] staging buffer reused across calls to
// avoid allocating in the audio thread. Returns false when the buffer has
// been exhausted (`remaining <= 0`) and the host should stop the stream.
func (l *Looper) Callback(in, out, scratch [][]float32, frames int) bool {
	s := l.snapshot()

	l.mu.Lock()
	cursor := l.cursor
	l.mu.Unlock()

	remaining := s.MaxSize - cursor
	if remaining <= 0 {
		return false
	}
	offset := frames
	if remaining < offset {
		offset = remaining
	}

	phraseBuf := l.buf[s.Phrase]

	if s.Playing {
		for i := 0; i < offset; i++ {
			copy(scratch[i], phraseBuf[cursor+i])
		}
		for i := offset; i < frames; i++ {
			for ch := range scratch[i] {
				scratch[i][ch] = 0
			}
		}
	} else {
		for i := 0; i < frames; i++ {
			for ch := range scratch[i] {
				scratch[i][ch] = 0
			}
		}
	}

	if s.Recording {
		for i := 0; i < offset; i++ {
			copy(phraseBuf[cursor+i], in[i])
		}
	}

	// Tracks 6 and 7 are the stereo bus: they scale the raw sample
	// directly by vol·(1−pan) / vol·pan with no inner tostereo/tomono
	// split (spec §4.G).
	for ch := 0; ch < l.tracks; ch++ {
		vol := s.Vol[ch]
		pan := s.Pan[ch]
		for i := 0; i < frames; i++ {
			switch ch {
			case 6:
				out[i][ch] = scratch[i][ch]*vol*(1-pan) + in[i][ch]
			case 7:
				out[i][ch] = scratch[i][ch]*vol*pan + in[i][ch]
			default:
				left, right := tostereo(scratch[i][ch], pan)
				mono := tomono(left, right, s.MasterX)
				out[i][ch] = mono*vol + in[i][ch]
			}
		}
	}

	l.mu.Lock()
	l.cursor += offset
	if l.cursor >= s.MaxSize {
		l.cursor = 0
	}
	l.mu.Unlock()

	return true
}
