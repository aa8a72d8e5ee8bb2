package param

// seqRates is the step-sequencer clock-division lookup indexed by
// bars-1, carried forward from the source's `StepSequencer.seq_rates`
// (spec's SUPPLEMENTED FEATURES: the Bar parameter's rate table).
var seqRates = [8]int{115, 112, 110, 109, 108, 107, 106, 106}

// Bar is the sequencer-length parameter (spec §3: "length 0..16 + rate
// table"): its wire value is a step count 0..16, and it also drives the
// two hardware sequencer clock-rate registers whenever bars changes.
type Bar struct {
	Origin      Origin
	Macro       int
	Bounds      Bounds
	Sequencers  [2]int // register addresses for the two sequencer clocks
}

func NewBar(origin Origin, macro int, bounds Bounds, sequencerAddrs [2]int) Bar {
	if bounds == (Bounds{}) {
		bounds = Bounds{Min: 0, Max: 16}
	}
	return Bar{Origin: origin, Macro: macro, Bounds: bounds, Sequencers: sequencerAddrs}
}

// Rate returns the clock-division byte for the given bar count (1..8,
// clamped).
func Rate(bars int) int {
	return seqRates[clip(float64(bars), 1, 8)-1]
}

// SetBars yields the two sysex bodies that reprogram both sequencer clock
// registers for a new bar count (the source's `set_bars`).
func (b Bar) SetBars(bars int) [][]int {
	rate := Rate(bars)
	out := make([][]int, 0, len(b.Sequencers))
	for _, addr := range b.Sequencers {
		out = append(out, []int{addr, 16, rate})
	}
	return out
}
