package block

// Stack interprets a single row as a fill-from-left monotone bar (spec
// §4.F): Update(col) sets values[0][0..=col]=127 and values[0][col+1..]=0.
type Stack struct {
	*Block
}

func NewStack(name string, macro, cols int) *Stack {
	return &Stack{Block: NewBlock(name, macro, 1, cols)}
}

// Update fills the row up to and including col with 127, clearing the
// rest.
func (s *Stack) Update(col int) {
	for i := range s.Values[0] {
		if i <= col {
			s.Values[0][i] = 127
		} else {
			s.Values[0][i] = 0
		}
	}
}

// Length reports how many leading cells are filled (the bar's value).
func (s *Stack) Length() int {
	for i, v := range s.Values[0] {
		if v == 0 {
			return i
		}
	}
	return len(s.Values[0])
}
