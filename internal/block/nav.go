package block

import "github.com/octobridge/octobridge/internal/message"

// Nav is a Block whose rows page through a set of children (spec §4.F),
// enforcing single-selection within a column: setting a non-zero cell
// clears every other row's value in that column.
type Nav struct {
	*Block
	Children [][]*Block
	MaxRowPage int
}

// NewNav builds a Nav with rows rows, one child set per row.
func NewNav(name string, macro, rows int) *Nav {
	return &Nav{Block: NewBlock(name, macro, rows, 1), MaxRowPage: rows - 1}
}

// Update enforces single-selection-per-column on top of Block.Update
// (spec §4.F: "Nav.update enforces single-selection within a column when a
// non-zero value is set").
func (n *Nav) Update(row, col, value int) {
	n.Block.Update(row, col, value)
	if n.Values[row][n.cursor()+col] > 0 {
		for i := range n.Values {
			if i != row {
				n.Values[i][n.cursor()+col] = 0
			}
		}
	}
}

// NextPage scrolls to the given row page (clamped, not wrapped, per spec:
// "Nav ... clamp"), re-emitting the LED state of the new page plus its
// children's current state.
func (n *Nav) NextPage(row int) []message.Message {
	n.RowIdx = clip(row, 0, n.MaxRowPage)
	return n.Current()
}

// Current returns this Nav's own page plus every child active on the
// selected row.
func (n *Nav) Current() []message.Message {
	out := n.Block.Current()
	if n.RowIdx < len(n.Children) {
		for _, child := range n.Children[n.RowIdx] {
			out = append(out, child.Current()...)
		}
	}
	return out
}
