package screen

// Style holds the attributes the escape subset can express. The zero value
// is the terminal's default rendition.
type Style struct {
	// Fg is a 1-based slot for the eight base foreground colors
	// (1 black .. 8 white); 0 selects the default foreground.
	Fg   int
	Bold bool
	// Set reports that some attribute is currently in effect.
	Set bool
}

// apply folds one escape parameter into the style. Values outside the
// recognized subset (reset, bold, base foreground colors) are ignored.
func (s *Style) apply(param int) {
	switch {
	case param == 0:
		*s = Style{}
	case param == 1:
		s.Bold = true
		s.Set = true
	case param >= 30 && param <= 37:
		s.Fg = param - 29
		s.Set = true
	}
}

// Cell represents a single character cell
type Cell struct {
	Rune    rune
	Style   Style
	Width   int // 1 normal, 2 wide, 0 continuation
	Changed bool
}

// DefaultCell returns a blank cell
func DefaultCell() Cell {
	return Cell{Rune: ' ', Width: 1}
}
