package screen

import (
	"io"
	"unicode"
)

// DiffMode selects change highlighting between successive frames.
type DiffMode int

const (
	DiffOff DiffMode = iota
	// DiffNormal marks cells whose character differs from the prior frame.
	DiffNormal
	// DiffCumulative keeps a cell marked once it has changed.
	DiffCumulative
)

// Composer lays decoded command output onto a bounded grid, expanding tabs,
// wrapping wide characters whole, and marking changed cells against the
// prior frame. Style state persists across rows within one body and resets
// between bodies.
type Composer struct {
	Colors bool // interpret the style escape subset
	Diff   DiffMode
}

// RenderBody composes one command's output into a rows x cols frame.
// prior is the previous body, or nil when there is none (first render, or
// the render right after a resize); no cell is ever marked changed without
// a prior frame. Stream exhaustion blank-pads the remainder of the grid.
func (c *Composer) RenderBody(src io.Reader, rows, cols int, prior *Frame) *Frame {
	frame := NewFrame(rows, cols)
	dec := NewDecoder(src)

	style := Style{}
	prevRowEOL := true
	streamDone := false

	for y := 0; y < rows; y++ {
		eol := streamDone
		tabPending := false
		carryPending := false
		var carry Char

		for x := 0; x < cols; x++ {
			if eol {
				// row is closed: pad with unstyled blanks
				c.place(frame, prior, y, x, DefaultCell())
				continue
			}

			ch := Char{Rune: ' ', Width: 1, Valid: true}
			if !tabPending {
				// pull the next character, favoring one carried over from a
				// wide-character wrap; control characters that occupy no
				// columns and render nothing are skipped outright
				ok := true
				for {
					if carryPending {
						ch, ok = carry, true
						carryPending = false
					} else {
						ch, ok = dec.Next()
					}
					if !ok || !ch.Valid {
						break
					}
					if c.Colors && ch.Rune == escapeMarker {
						break
					}
					if ch.Width == 0 && ch.Rune != '\n' && ch.Rune != '\t' &&
						!unicode.IsPrint(ch.Rune) {
						continue
					}
					break
				}

				switch {
				case !ok:
					streamDone = true
					eol = true
					ch = Char{Rune: ' ', Width: 1, Valid: true}
				case !ch.Valid:
					// placeholder for an undecodable byte
					ch = Char{Rune: ' ', Width: 1, Valid: true}
				case c.Colors && ch.Rune == escapeMarker:
					if applyEscape(dec.Buffered(), &style) {
						x--
						continue
					}
					// not a well-formed sequence: the marker itself takes
					// the cell and the bytes after it stay in the stream
					ch.Width = 1
				}

				if ch.Rune == '\n' {
					if x == 0 && !prevRowEOL {
						// the previous row filled its width without a
						// newline; this one closes that line and renders
						// nothing
						x--
						continue
					}
					eol = true
				} else if ch.Rune == '\t' {
					tabPending = true
				}

				// a wide character never splits across the last column; it
				// wraps whole onto the next row and this row stays open
				if x == cols-1 && ch.Width == 2 {
					y++
					if y >= rows {
						return frame
					}
					carry, carryPending = ch, true
					x = -1
					continue
				}

				if ch.Rune == '\n' || ch.Rune == '\t' {
					ch = Char{Rune: ' ', Width: 1, Valid: true}
				}
			}

			if tabPending && (x+1)%8 == 0 {
				tabPending = false
			}

			c.place(frame, prior, y, x, Cell{Rune: ch.Rune, Style: style, Width: ch.Width})
			switch ch.Width {
			case 0:
				// a combining mark shares its column with what follows
				x--
			case 2:
				x++
			}
		}

		prevRowEOL = eol
	}

	return frame
}

// place writes one cell, computing its change mark against the prior frame,
// and lays down the continuation slot behind a wide character.
func (c *Composer) place(frame, prior *Frame, y, x int, cell Cell) {
	if c.Diff != DiffOff && prior != nil {
		old := prior.At(y, x)
		cell.Changed = cell.Rune != old.Rune ||
			(c.Diff == DiffCumulative && old.Changed)
	}
	frame.Cells[y][x] = cell
	if cell.Width == 2 && x+1 < frame.Cols {
		frame.Cells[y][x+1] = Cell{Style: cell.Style}
	}
}
