package watch

import (
	"fmt"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/andyrewlee/rewatch/internal/screen"
)

// titleRows is the header line plus the blank separator under it.
const titleRows = 2

// titleTimeFormat matches ctime(3): "Mon Jan _2 15:04:05 2006".
const titleTimeFormat = "Mon Jan _2 15:04:05 2006"

// titleCells lays out the header row: "Every %.1fs: <command>" on the left
// and the timestamp flush right. When the row is too narrow, pieces drop in
// priority order: the command clips to an ellipsis first, then disappears,
// then the interval header goes, and finally the timestamp alone remains
// until even it no longer fits.
func titleCells(cols int, interval time.Duration, command string, now time.Time) []screen.Cell {
	row := make([]screen.Cell, cols)
	for i := range row {
		row[i] = screen.DefaultCell()
	}

	ts := now.Format(titleTimeFormat)
	tsl := len(ts) + 1
	if cols < tsl {
		return row
	}

	header := fmt.Sprintf("Every %.1fs: ", interval.Seconds())
	hlen := len(header)

	if cols >= tsl+hlen+1 {
		overlay(row, 0, header)
		if cols >= tsl+hlen+2 {
			cmdCols := ansi.StringWidth(command)
			switch {
			case cols < tsl+hlen+4:
				overlay(row, cols-tsl-4, "...  ")
			case cols < tsl+hlen+cmdCols:
				avail := cols - tsl - hlen
				overlay(row, hlen, ansi.Truncate(command, avail-4, ""))
				overlay(row, cols-tsl-4, "... ")
			default:
				overlay(row, hlen, command)
			}
		}
	}
	overlay(row, cols-tsl+1, ts)
	return row
}

// overlay writes s into row starting at col, recording display widths so the
// cell writer can skip continuation slots. Characters that would cross the
// row edge are dropped; a wide character never splits.
func overlay(row []screen.Cell, col int, s string) {
	x := col
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x < 0 || x+w > len(row) {
			break
		}
		row[x] = screen.Cell{Rune: r, Width: w}
		if w == 2 {
			row[x+1] = screen.Cell{}
		}
		x += w
	}
}
