// Package param implements octobridge's synth parameter model (spec §4.D):
// each variant maps between a compact internal message vocabulary (macro
// units, 0..127) and the vendor wire representation (wire units, address +
// body nibbles) carried over sysex.
package param

import "math"

func minmax(n, lo, hi float64) float64 {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// clip rounds n into [lo,hi], defaulting to the macro range 0..127.
func clip(n float64, bounds ...float64) int {
	lo, hi := 0.0, 127.0
	if len(bounds) == 2 {
		lo, hi = bounds[0], bounds[1]
	}
	return int(math.Round(minmax(n, lo, hi)))
}

// Origin is the (address, offset) pair every parameter is anchored to; a
// negative offset means the response window is shared with an earlier
// parameter and starts that many bytes before address.
type Origin struct {
	Address int
	Offset  int
}

// Start returns the parameter's actual first response byte, folding in any
// negative offset (spec §4.D: "the actual start address including any
// negative offset").
func (o Origin) Start() int {
	if o.Offset < 0 {
		return o.Address + o.Offset
	}
	return o.Address
}

// Bounds is the wire-unit range a parameter's value is clipped to.
type Bounds struct {
	Min, Max int
}

// DefaultBounds matches the source's (0, 100) default.
var DefaultBounds = Bounds{Min: 0, Max: 100}

// Pot is the 1-to-1 scalar parameter (spec §3): a single wire byte mapped
// linearly onto a macro 0..127.
type Pot struct {
	Origin Origin
	Macro  int
	Bounds Bounds
}

// NewPot applies DefaultBounds when bounds is the zero value.
func NewPot(origin Origin, macro int, bounds Bounds) Pot {
	if bounds == (Bounds{}) {
		bounds = DefaultBounds
	}
	return Pot{Origin: origin, Macro: macro, Bounds: bounds}
}

// Request yields the read-back address nibbles for the response window
// this parameter owns (offset > 0 is the window length). A parameter with
// a zero or negative offset requests nothing.
func (p Pot) Request() [][]int {
	if p.Origin.Offset > 0 {
		return [][]int{{p.Origin.Address, 0, 0, 0, p.Origin.Offset}}
	}
	return nil
}

// FromVel converts a macro unit (0..127) into a wire unit.
func (p Pot) FromVel(velocity int) int {
	value := float64(velocity)/127*float64(p.Bounds.Max-p.Bounds.Min) + float64(p.Bounds.Min)
	return clip(value, float64(p.Bounds.Min), float64(p.Bounds.Max))
}

// ToVel converts a wire unit into a macro unit (0..127).
func (p Pot) ToVel(value int) int {
	if p.Bounds.Max == 0 {
		return 0
	}
	return clip(float64(value-p.Bounds.Min) * 128 / float64(p.Bounds.Max))
}

// Send builds the sysex body for an outgoing write of values.
func (p Pot) Send(values ...int) []int {
	out := []int{p.Origin.Address}
	return append(out, values...)
}

// Receive decodes a sysex body into the macro value this parameter
// produces. When offset is negative the byte read is data[-offset], this
// parameter's position inside the shared window; otherwise it is data[0].
func (p Pot) Receive(data []int) int {
	idx := 0
	if p.Origin.Offset < 0 {
		idx = -p.Origin.Offset
	}
	return p.ToVel(data[idx])
}

// Switch is the on/off + value parameter (spec §3).
type Switch struct {
	Pot
}

func NewSwitch(origin Origin, macro int, bounds Bounds) Switch {
	return Switch{Pot: NewPot(origin, macro, bounds)}
}

// Send emits [address, 1, value] when value > 0, else [address, 0].
func (s Switch) Send(value int) []int {
	if value > 0 {
		return []int{s.Origin.Address, 1, value}
	}
	return []int{s.Origin.Address, 0}
}

// Receive decodes [on, value] into a macro value, zeroed when off.
func (s Switch) Receive(data []int) int {
	v := s.ToVel(data[1])
	if data[0] != 1 {
		return 0
	}
	return v
}
