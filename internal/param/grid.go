package param

// Grid is the 16-column, up-to-5-row step sequencer parameter (spec §3's
// "Grid(address, macro, values)"), grounded on the source's
// `StepSequencer`: three target lanes (pitch, cutoff, level), each a Pot
// over a 32-wide window, with odd-indexed bytes carrying the quantized
// step value and even-indexed bytes carrying a per-step minimum.
type Grid struct {
	Origin   Origin
	Macro    int
	Targets  [3]Pot
	minValue [3][32]int
}

// NewGrid builds the three fixed target lanes at address+3, address+35,
// address+67 (pitch/cutoff/level), matching the source's layout.
func NewGrid(origin Origin, macro int) *Grid {
	return &Grid{
		Origin: origin,
		Macro:  macro,
		Targets: [3]Pot{
			NewPot(Origin{Address: origin.Address + 3, Offset: 32}, 0, Bounds{Min: 8, Max: 56}),
			NewPot(Origin{Address: origin.Address + 35, Offset: 32}, 0, Bounds{}),
			NewPot(Origin{Address: origin.Address + 67, Offset: 32}, 0, Bounds{}),
		},
	}
}

// Row is one decoded lane: its target index and the per-step macro values.
type Row struct {
	Target int
	Values []int
}

// Receive splits a sysex body into the 3 targets (data[0:3]) and the
// interleaved step bytes (data[3:]), recording each target's per-step
// minimum and returning the odd-indexed (value) bytes as macro units.
func (g *Grid) Receive(data []int) []Row {
	targets := data[0:3]
	steps := data[3:]
	rows := make([]Row, 0, 3)
	for i, target := range g.Targets {
		lo := i * target.Origin.Offset
		hi := (i + 1) * target.Origin.Offset
		if hi > len(steps) {
			hi = len(steps)
		}
		var values []int
		for j, s := range steps[lo:hi] {
			if j%2 == 1 {
				values = append(values, target.ToVel(s))
			} else if j/2 < len(g.minValue[i]) {
				g.minValue[i][j/2] = s
			}
		}
		_ = targets[i]
		rows = append(rows, Row{Target: i, Values: values})
	}
	return rows
}

// Steps encodes an outgoing write to one target lane: for each step,
// the remembered minimum followed by the wire-unit value.
func (g *Grid) Steps(targetIdx int, macroSteps []int) []int {
	target := g.Targets[targetIdx]
	out := []int{target.Origin.Address}
	for i, step := range macroSteps {
		min := 0
		if i < len(g.minValue[targetIdx]) {
			min = g.minValue[targetIdx][i]
		}
		out = append(out, min, target.FromVel(step))
	}
	return out
}

// Seq encodes a single-cell sequencer write (the source's `get_seq`).
func (g *Grid) Seq(offset, value int) []int {
	return []int{g.Origin.Address + offset, value}
}

// Request yields the read-back address for the full target+step window
// (spec §4.D), matching Pot.Request's shape.
func (g *Grid) Request() [][]int {
	return [][]int{{g.Origin.Address, 0, 0, 0, g.Origin.Offset}}
}
