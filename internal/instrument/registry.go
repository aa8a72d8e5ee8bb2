package instrument

import "github.com/huandu/go-clone/generic"

// Registry is the ordered instrument collection (spec §4.E). It keeps one
// prototype Instrument per TypeTag and clones it whenever a slot's type is
// (re)assigned, instead of hand-rolling a deep-copy switch per parameter
// variant.
type Registry struct {
	instruments []Instrument
	prototypes  map[TypeTag]Instrument
}

// NewRegistry seeds 8 slots, one per type tag, at their default bases.
func NewRegistry() *Registry {
	protos := Prototypes()
	r := &Registry{prototypes: protos}
	for _, tag := range []TypeTag{DynaSynth, OscSynth, GR300, EGuitar, AGuitar, EBass, VioGuitar, PolyFx} {
		r.instruments = append(r.instruments, clone.Clone(protos[tag]))
	}
	return r
}

// Get resolves index i to the instrument whose 11-wide slot range contains
// it, falling back to index i itself when i is beyond the registry
// (spec §4.E: "fallback to index i if i < len").
func (r *Registry) Get(i int) (Instrument, int) {
	for idx, ins := range r.instruments {
		if ins.Contains(i) {
			return ins, idx
		}
	}
	if i < len(r.instruments) {
		return r.instruments[i], i
	}
	return Instrument{}, -1
}

// Set replaces the instrument at the slot covering i with a fresh clone of
// the prototype for tag, preserving the slot's address (spec §4.E:
// "preserving slot_index").
func (r *Registry) Set(i int, tag TypeTag) {
	if _, ok := r.prototypes[tag]; !ok {
		return
	}
	_, idx := r.Get(i)
	if idx < 0 {
		return
	}
	slot := r.instruments[idx].SlotIndex
	fresh := clone.Clone(r.prototypes[tag])
	fresh.SlotIndex = slot
	r.instruments[idx] = fresh
}

// Len reports the number of registered slots.
func (r *Registry) Len() int {
	return len(r.instruments)
}

// All returns the instruments in slot order.
func (r *Registry) All() []Instrument {
	return r.instruments
}
