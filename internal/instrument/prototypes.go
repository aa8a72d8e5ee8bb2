package instrument

import "github.com/octobridge/octobridge/internal/param"

// slotBase returns the default registry address for the nth slot
// (spec §4.E default bases 10, 21, 32, 43, ...; SUPPLEMENTED FEATURES
// extends this 11-wide spacing to all 8 type tags).
func slotBase(n int) int {
	return 10 + n*slotWidth
}

// newPrototype builds the representative parameter set for a type tag,
// grounded on `devices/sy1000/instruments.py`'s per-subtype `request`
// bodies (pitch/filter/LFO controls, plus the sequencer for DynaSynth).
func newPrototype(slot int, tag TypeTag) Instrument {
	ins := Instrument{SlotIndex: slot, TypeTag: tag}

	ins.Params = []param.Pot{
		param.NewPot(param.Origin{Address: slot + 5, Offset: 1}, 0, param.Bounds{Min: 8, Max: 56}),
		param.NewPot(param.Origin{Address: slot + 16, Offset: 1}, 1, param.Bounds{Min: 14, Max: 114}),
	}
	ins.Bipolars = []*param.Bipolar{
		param.NewBipolar(param.Origin{Address: slot + 29, Offset: 7}, 2, param.Bounds{Min: 0, Max: 100}, 3),
	}
	ins.LFOs = []*param.LFO{
		param.NewLFO(param.Origin{Address: slot + 39, Offset: 3}, 4, param.Bounds{Min: 0, Max: 100}),
		param.NewLFO(param.Origin{Address: slot + 49, Offset: 3}, 8, param.Bounds{Min: 0, Max: 100}),
	}

	if tag == DynaSynth {
		ins.Sequencer = param.NewGrid(param.Origin{Address: slot + 59, Offset: 99}, 9)
	}

	return ins
}

// Prototypes returns one template Instrument per documented type tag, in
// declaration order, each keyed to its own default slot base. Registry
// clones from these when a slot's type changes.
func Prototypes() map[TypeTag]Instrument {
	tags := []TypeTag{DynaSynth, OscSynth, GR300, EGuitar, AGuitar, EBass, VioGuitar, PolyFx}
	out := make(map[TypeTag]Instrument, len(tags))
	for i, tag := range tags {
		out[tag] = newPrototype(slotBase(i), tag)
	}
	return out
}
