package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/andyrewlee/rewatch/internal/safego"
	"github.com/andyrewlee/rewatch/internal/screen"
)

// Event is an out-of-band terminal notification.
type Event int

const (
	// EventResize reports that the terminal geometry changed.
	EventResize Event = iota
	// EventInterrupt reports a user request to stop (Ctrl+C or q).
	EventInterrupt
)

// Display is the cell sink the watch loop renders into. Implementations own
// the terminal while the loop runs; Fini must restore it and is safe to call
// from any exit path.
type Display interface {
	// Geometry returns the current size in (rows, cols) order.
	Geometry() (rows, cols int)
	// WriteCell places one styled character; inverse layers reverse video
	// on top of the cell's own style.
	WriteCell(row, col int, r rune, style screen.Style, inverse bool)
	// Clear blanks the display buffer.
	Clear()
	// Show makes the writes since the last Show visible.
	Show()
	// Beep rings the terminal bell.
	Beep()
	// Events delivers resize and interrupt notifications. Events that
	// arrive faster than the loop consumes them are dropped; a resize is
	// re-queried from Geometry so coalescing is harmless.
	Events() <-chan Event
	// Fini restores the terminal to its original mode.
	Fini()
}

type tcellDisplay struct {
	scr    tcell.Screen
	events chan Event
}

// New opens the controlling terminal in fullscreen cell mode.
func New() (Display, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := scr.Init(); err != nil {
		return nil, err
	}
	return NewWith(scr), nil
}

// NewWith wraps an already initialized tcell screen. Tests pass a
// simulation screen here.
func NewWith(scr tcell.Screen) Display {
	scr.HideCursor()
	scr.Clear()
	d := &tcellDisplay{
		scr:    scr,
		events: make(chan Event, 16),
	}
	safego.Go("terminal-events", d.pump)
	return d
}

// pump forwards tcell events until Fini makes PollEvent return nil.
func (d *tcellDisplay) pump() {
	for {
		ev := d.scr.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			d.scr.Sync()
			d.post(EventResize)
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				d.post(EventInterrupt)
			}
		}
	}
}

func (d *tcellDisplay) post(e Event) {
	select {
	case d.events <- e:
	default:
	}
}

func (d *tcellDisplay) Geometry() (int, int) {
	cols, rows := d.scr.Size()
	return rows, cols
}

func (d *tcellDisplay) WriteCell(row, col int, r rune, style screen.Style, inverse bool) {
	d.scr.SetContent(col, row, displayRune(r), nil, toTcellStyle(style, inverse))
}

func (d *tcellDisplay) Clear() {
	d.scr.Clear()
}

func (d *tcellDisplay) Show() {
	d.scr.Show()
}

func (d *tcellDisplay) Beep() {
	_ = d.scr.Beep()
}

func (d *tcellDisplay) Events() <-chan Event {
	return d.events
}

func (d *tcellDisplay) Fini() {
	d.scr.Fini()
}

// displayRune substitutes a blank for characters that have no glyph, such as
// a literal escape byte surfacing from a malformed sequence.
func displayRune(r rune) rune {
	if r < 0x20 || r == 0x7f {
		return ' '
	}
	return r
}

// toTcellStyle maps a composed cell style onto the terminal, layering
// reverse video for diff-highlighted cells.
func toTcellStyle(st screen.Style, inverse bool) tcell.Style {
	s := tcell.StyleDefault
	if st.Set {
		if st.Fg > 0 {
			s = s.Foreground(tcell.PaletteColor(st.Fg - 1))
		}
		if st.Bold {
			s = s.Bold(true)
		}
	}
	if inverse {
		s = s.Reverse(true)
	}
	return s
}
