package block

import "github.com/octobridge/octobridge/internal/message"

// CCBlock behaves like Block but emits ControlChange for LED reflection
// and maps its macro into xfade (root page 0) or synth (otherwise),
// per spec §4.F.
type CCBlock struct {
	*Block
}

func NewCCBlock(name string, macro, rows, cols int) *CCBlock {
	return &CCBlock{Block: NewBlock(name, macro, rows, cols)}
}

// Current emits ControlChange rather than note messages for every cell on
// the current page.
func (c *CCBlock) Current() []message.Message {
	var out []message.Message
	for row := 0; row < c.Rows; row++ {
		for col := 0; col < colsPerPage(c.Cols); col++ {
			out = append(out, message.ControlChange{Channel: col, Control: c.Macro + row, Value: c.ValueAt(row, col)})
		}
	}
	return out
}

// Message maps a (control, channel) cell edit to xfade (root page 0) or to
// a per-instrument synth macro edit (root page > 0), matching
// `instruments/blocks.py::CCBlock.message`.
func (c *CCBlock) Message(control, channel, value int) message.Internal {
	rootPage := c.Root().RowIdx
	if rootPage == 0 {
		return message.NewInternal(message.TypeXfade, control-c.Macro, value)
	}
	return message.NewInternal(message.TypeSynth, rootPage-1, control, value)
}
