package instrument

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryGetResolvesSlotRange(t *testing.T) {
	r := NewRegistry()
	ins, idx := r.Get(12) // inside DynaSynth's slot (base 10..20)
	require.Equal(t, 0, idx)
	require.Equal(t, DynaSynth, ins.TypeTag)
}

func TestRegistrySetPreservesSlotIndex(t *testing.T) {
	r := NewRegistry()
	before, idx := r.Get(10)
	require.Equal(t, DynaSynth, before.TypeTag)

	r.Set(10, EGuitar)
	after, idx2 := r.Get(10)
	require.Equal(t, idx, idx2)
	require.Equal(t, EGuitar, after.TypeTag)
	require.Equal(t, before.SlotIndex, after.SlotIndex)
}

func TestRegistrySetClonesIndependently(t *testing.T) {
	r := NewRegistry()
	r.Set(10, DynaSynth)
	ins, _ := r.Get(10)
	require.NotNil(t, ins.Sequencer)

	// mutating the clone must not perturb the prototype used for the next Set.
	ins.Sequencer.Receive(append([]int{0, 0, 0}, make([]int, 3*32)...))
	r.Set(10, DynaSynth)
	fresh, _ := r.Get(10)
	require.NotSame(t, ins.Sequencer, fresh.Sequencer)
}

func TestOnlyDynaSynthHasSequencer(t *testing.T) {
	r := NewRegistry()
	for _, ins := range r.All() {
		if ins.TypeTag == DynaSynth {
			require.True(t, ins.HasSequencer())
		} else {
			require.False(t, ins.HasSequencer())
		}
	}
}
