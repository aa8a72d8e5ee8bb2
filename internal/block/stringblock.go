package block

import "github.com/octobridge/octobridge/internal/message"

// StringBlock is the per-string volume/pan CCBlock (spec §4.H, §SUPPLEMENTED
// FEATURES). Controllers 19 and 23 are multi-macro controls that, besides
// updating their own cell, broadcast to the three controllers below them
// (OPEN QUESTION DECISIONS #4: range(control-3, control), excluding the
// control itself).
type StringBlock struct {
	*CCBlock
}

func NewStringBlock(name string, macro, rows, cols int) *StringBlock {
	return &StringBlock{CCBlock: NewCCBlock(name, macro, rows, cols)}
}

// broadcastTargets returns the sibling controllers that control also
// drives, per the resolved controller-19/23 multi-macro rule.
func broadcastTargets(control int) []int {
	switch control {
	case 19, 23:
		out := make([]int, 0, 3)
		for c := control - 3; c < control; c++ {
			out = append(out, c)
		}
		return out
	default:
		return nil
	}
}

// Message builds the outbound LED-reflecting edits for a (control,
// channel, value) write, following `instruments/blocks.py::StringBlock.message`.
// Channels 6 and 7 are reserved output-bus aliases and are dropped
// (spec §4.D). The sibling-controller broadcast (controllers 19/23) and the
// channel-8 row broadcast only combine when BOTH apply: a single-channel
// edit on 19/23 does not alone fan out to siblings, and a channel-8 edit on
// a non-multi-macro controller does not alone fan out across channels —
// the source's `ctl != control and ch != channel` guard requires both.
func (s *StringBlock) Message(control, channel, value int) []message.Message {
	if channel == 6 || channel == 7 {
		return nil
	}

	out := []message.Message{message.ControlChange{Channel: channel, Control: control, Value: value}}

	channels := []int{channel}
	if channel == 8 {
		for ch := 0; ch < 6; ch++ {
			channels = append(channels, ch)
		}
	}
	controls := []int{control}
	if control == 19 || control == 23 {
		controls = broadcastTargets(control)
	}
	for _, ch := range channels {
		for _, ctl := range controls {
			if ctl != control && ch != channel {
				out = append(out, message.ControlChange{Channel: ch, Control: ctl, Value: value})
			}
		}
	}
	return out
}
