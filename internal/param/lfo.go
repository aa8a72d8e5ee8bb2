package param

// LFO gates its rate report on whether the synth reports free-running
// (rate <= 100) per spec §4.D. Shape is remembered across Receive calls so
// Send can replay it.
type LFO struct {
	Pot
	shape int
}

func NewLFO(origin Origin, macro int, bounds Bounds) *LFO {
	return &LFO{Pot: NewPot(origin, macro, bounds)}
}

// Send: macro 0 sends on=0; macro>0 sends on=1 plus the remembered shape
// and the requested rate.
func (l *LFO) Send(value int) []int {
	if value > 0 {
		return []int{l.Origin.Address, 1, l.shape, value}
	}
	return []int{l.Origin.Address, 0}
}

// Receive remembers shape (data[1]) and reports 0 when free-running
// (data[2] <= 100), otherwise the scaled rate.
func (l *LFO) Receive(data []int) int {
	l.shape = data[1]
	if data[2] <= 100 {
		return 0
	}
	return l.ToVel(data[2])
}

// Bipolar folds a filter-type + unipolar value onto 0..127 centered at 64
// (spec §4.D): type=0 (low-pass) maps to 0..64, type=1 (high-pass) to
// 64..127.
type Bipolar struct {
	Pot
	// DataIndex is the sysex body offset carrying the wire value; the
	// source defaults this to 2 when the origin's third element is 0.
	DataIndex int
}

func NewBipolar(origin Origin, macro int, bounds Bounds, dataIndex int) *Bipolar {
	if dataIndex == 0 {
		dataIndex = 2
	}
	return &Bipolar{Pot: NewPot(origin, macro, bounds), DataIndex: dataIndex}
}

// FromVel doubles the Pot scaling (spec: "[min,max]·2 onto 0..127").
func (b *Bipolar) FromVel(velocity int) int {
	return b.Pot.FromVel(velocity) * 2
}

// ToVelFiltered maps (filterType, value) onto the centered 0..127 range.
func (b *Bipolar) ToVelFiltered(filterType, value int) int {
	max := float64(b.Bounds.Max)
	if max == 0 {
		return 64
	}
	if filterType == 0 {
		return clip(64-float64(value)/max*64, float64(b.Bounds.Min), 64)
	}
	return clip(float64(value)/max*64+64, 64, 127)
}

// Send chooses low-pass (max-v) below the midpoint, high-pass (v-max)
// above it.
func (b *Bipolar) Send(value int) []int {
	if value < b.Bounds.Max {
		return b.Pot.Send(0, 1, b.Bounds.Max-value)
	}
	return b.Pot.Send(1, 1, value-b.Bounds.Max)
}

// Receive reads the filter-type byte and the value at DataIndex.
func (b *Bipolar) Receive(data []int) int {
	return b.ToVelFiltered(data[0], data[b.DataIndex])
}
