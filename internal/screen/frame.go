package screen

// Frame is one fully composed body grid. Every render produces a complete
// Rows x Cols frame: short output is blank-padded and excess output is
// truncated at the grid bounds.
type Frame struct {
	Rows, Cols int
	Cells      [][]Cell
}

// NewFrame returns a blank frame
func NewFrame(rows, cols int) *Frame {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	f := &Frame{Rows: rows, Cols: cols}
	f.Cells = make([][]Cell, rows)
	for y := range f.Cells {
		line := make([]Cell, cols)
		for x := range line {
			line[x] = DefaultCell()
		}
		f.Cells[y] = line
	}
	return f
}

// At returns the cell at (row, col), or a blank cell when out of bounds.
func (f *Frame) At(row, col int) Cell {
	if f == nil || row < 0 || row >= f.Rows || col < 0 || col >= f.Cols {
		return DefaultCell()
	}
	return f.Cells[row][col]
}
