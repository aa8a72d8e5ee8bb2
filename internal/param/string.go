package param

// String is the per-string volume/pan parameter (spec §4.D, §4.H): a
// 6-channel vector, one cell per guitar string, with a channel-8 broadcast
// that writes all six strings to the same value. Channels 6 and 7 are
// reserved output-bus aliases the synth adapter does not forward here.
type String struct {
	Address int
	Macro   int
}

func NewString(address, macro int) String {
	return String{Address: address, Macro: macro}
}

// Values expands an inbound (channel, value) write into the per-string
// sysex body: six copies when channel==8 (broadcast), one value otherwise.
// Channels 6 and 7 are output-bus aliases and return nil (spec §4.D).
func (s String) Values(channel int, wireValue int) []int {
	if channel == 6 || channel == 7 {
		return nil
	}
	if channel == 8 {
		out := make([]int, 6)
		for i := range out {
			out[i] = wireValue
		}
		return out
	}
	return []int{wireValue}
}

// StringIndex resolves which of the two 6-string blocks (volume vs pan,
// each keyed by controller <= 19 or > 19 per the source) and offset
// channel maps to, following `devices/sy1000/instruments.py`'s
// `_strings_in`.
func StringIndex(channel, control int) int {
	base := 12
	if control <= 19 {
		base = 6
	}
	if channel < 6 {
		return base + channel
	}
	return base
}
