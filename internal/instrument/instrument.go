// Package instrument implements octobridge's instrument registry (spec
// §4.E): an ordered list of instruments, each with a fixed 11-wide address
// slot and a parameter set, resolved by linear scan and swapped in place
// when the synth reports a type change.
package instrument

import (
	"github.com/octobridge/octobridge/internal/param"
)

// TypeTag enumerates the eight documented instrument subtypes (spec §3).
type TypeTag int

const (
	DynaSynth TypeTag = iota
	OscSynth
	GR300
	EGuitar
	AGuitar
	EBass
	VioGuitar
	PolyFx
)

func (t TypeTag) String() string {
	switch t {
	case DynaSynth:
		return "DynaSynth"
	case OscSynth:
		return "OscSynth"
	case GR300:
		return "GR300"
	case EGuitar:
		return "EGuitar"
	case AGuitar:
		return "AGuitar"
	case EBass:
		return "EBass"
	case VioGuitar:
		return "VioGuitar"
	case PolyFx:
		return "PolyFx"
	default:
		return "Unknown"
	}
}

// slotWidth is the fixed address span every instrument slot occupies
// (spec §4.E: "11-wide slot range").
const slotWidth = 11

// Instrument is one registry entry: its slot base, type, and the
// parameters addressed relative to that base.
type Instrument struct {
	SlotIndex int
	TypeTag   TypeTag
	Params    []param.Pot
	Switches  []param.Switch
	Bipolars  []*param.Bipolar
	LFOs      []*param.LFO
	Sequencer *param.Grid
}

// Contains reports whether address i falls in this instrument's slot.
func (ins Instrument) Contains(i int) bool {
	return i >= ins.SlotIndex && i < ins.SlotIndex+slotWidth
}

// HasSequencer reports whether this instrument type exposes the step
// sequencer (only DynaSynth does in the source).
func (ins Instrument) HasSequencer() bool {
	return ins.Sequencer != nil
}

// Request yields every read-back sysex body this instrument needs after a
// type change: one per shared-window Pot/Switch/Bipolar/LFO, plus the
// sequencer's target+step window when present (spec §4.D's `request()`,
// grounded on `instruments/dynasynth.py`'s `DynaSynth.request`).
func (ins Instrument) Request() [][]int {
	var out [][]int
	for _, p := range ins.Params {
		out = append(out, p.Request()...)
	}
	for _, s := range ins.Switches {
		out = append(out, s.Request()...)
	}
	for _, b := range ins.Bipolars {
		out = append(out, b.Request()...)
	}
	for _, l := range ins.LFOs {
		out = append(out, l.Request()...)
	}
	if ins.Sequencer != nil {
		out = append(out, ins.Sequencer.Request()...)
	}
	return out
}
