// Package block implements octobridge's control-surface block tree (spec
// §4.F): Block/Nav/Pager/Stack/CCBlock, each a page of a values matrix with
// pagination and LED-reflecting update contracts.
package block

import "github.com/octobridge/octobridge/internal/message"

func scroll(n, lo, hi int) int {
	if n < lo {
		return hi
	}
	if n > hi {
		return lo
	}
	return n
}

func clip(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Block is a rows×cols page of values with a parent link used to build its
// address path (spec §3: "row_idx, col_idx, values, parent").
type Block struct {
	Name   string
	Macro  int
	Rows   int
	Cols   int
	RowIdx int
	ColIdx int
	Values [][]int
	Parent *Block
}

// NewBlock builds a block with the given macro base and (rows, cols)
// shape; cols beyond 8 paginate (spec: "up to 8 cols per page").
func NewBlock(name string, macro, rows, cols int) *Block {
	values := make([][]int, rows)
	for i := range values {
		values[i] = make([]int, cols)
	}
	return &Block{Name: name, Macro: macro, Rows: rows, Cols: cols, Values: values}
}

// maxColPage is the highest page index reachable by Next/Previous.
func (b *Block) maxColPage() int {
	pageWidth := colsPerPage(b.Cols)
	return (b.Cols - 1) / pageWidth
}

func colsPerPage(cols int) int {
	if cols < 8 {
		return cols
	}
	return 8
}

// cursor is the column offset of the current page.
func (b *Block) cursor() int {
	return b.ColIdx * colsPerPage(b.Cols)
}

// Root walks up to the tree root.
func (b *Block) Root() *Block {
	cur := b
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// Address is the path of row_idx values from root to this block
// (spec §4.F: "block.address = [root.row_idx, …, self.row_idx]").
func (b *Block) Address() []int {
	var chain []int
	cur := b
	for cur.Parent != nil {
		chain = append([]int{cur.RowIdx}, chain...)
		cur = cur.Parent
	}
	return append([]int{cur.RowIdx}, chain...)
}

// ValueAt reads the current page's (row, col) cell.
func (b *Block) ValueAt(row, col int) int {
	return b.Values[row][b.cursor()+col]
}

// Update sets the cell; value < 0 toggles between 0 and 127 (spec §4.F).
func (b *Block) Update(row, col, value int) {
	if value < 0 {
		if b.Values[row][b.cursor()+col] == 0 {
			value = 127
		} else {
			value = 0
		}
	}
	b.Values[row][b.cursor()+col] = value
}

// Next scrolls the page forward with wraparound.
func (b *Block) Next() {
	b.ColIdx = scroll(b.ColIdx+1, 0, b.maxColPage())
}

// Previous scrolls the page back with wraparound.
func (b *Block) Previous() {
	b.ColIdx = scroll(b.ColIdx-1, 0, b.maxColPage())
}

// Current yields the LED-reflecting messages for the current page: one
// note message per (row, col) cell (NoteOff for a 0 value, via
// message.NewNote), using channel=col and
// note=Macro+row as the wire-facing coordinates for a plain Block.
func (b *Block) Current() []message.Message {
	var out []message.Message
	for row := 0; row < b.Rows; row++ {
		for col := 0; col < colsPerPage(b.Cols); col++ {
			out = append(out, message.NewNote(col, b.Macro+row, b.ValueAt(row, col)))
		}
	}
	return out
}
