// Package watch drives the run/render/reschedule cycle: spawn the command,
// compose its merged output into the cell grid, present it, then sleep out
// the interval (or, in precise mode, the balance until the next deadline).
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/andyrewlee/rewatch/internal/config"
	"github.com/andyrewlee/rewatch/internal/logging"
	"github.com/andyrewlee/rewatch/internal/perf"
	"github.com/andyrewlee/rewatch/internal/screen"
	"github.com/andyrewlee/rewatch/internal/term"
)

// Capture is one live command run: the merged output stream plus control of
// the process behind it.
type Capture interface {
	io.Reader
	// Wait closes the stream and reaps the process, returning its exit
	// code. Signal-terminated commands report 1.
	Wait() int
	// Kill terminates the process and unblocks a pending Read.
	Kill()
}

// Runner spawns one capture per iteration with the body geometry in effect.
type Runner interface {
	Start(rows, cols int) (Capture, error)
}

// Options fix a loop's behavior for the life of the process.
type Options struct {
	// Command is the display label for the title row.
	Command  string
	Interval time.Duration
	Precise  bool
	NoTitle  bool
	Colors   bool
	Diff     screen.DiffMode
	// Beep rings the bell when the command exits nonzero.
	Beep bool
	// Errexit stops the loop when the command exits nonzero, carrying the
	// command's code out as a CommandExitError.
	Errexit bool
	// Trigger delivers file-change pulses that force an immediate render.
	Trigger <-chan struct{}
}

// CommandExitError reports the nonzero status that ended the loop under
// errexit policy.
type CommandExitError struct {
	Code int
}

func (e *CommandExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

// Loop owns the render cycle. Run executes on a single goroutine which owns
// all schedule and frame state; auxiliary pumps may only call NotifyResize
// or cancel the context.
type Loop struct {
	disp   term.Display
	runner Runner
	opts   Options
	clk    clock
	comp   screen.Composer

	resize atomic.Bool
	wake   chan struct{}

	rows, cols       int
	envRows, envCols int
	prev             *screen.Frame
	deadline         time.Time
	skipAdvance      bool
}

// New assembles a loop. COLUMNS and LINES pre-seed the geometry when they
// hold usable values; those dimensions then stay pinned across resizes, the
// way they would for output redirected away from a terminal.
func New(disp term.Display, runner Runner, opts Options) *Loop {
	opts.Interval = ClampInterval(opts.Interval)
	envRows, envCols := config.EnvGeometry()
	return &Loop{
		disp:    disp,
		runner:  runner,
		opts:    opts,
		clk:     systemClock{},
		comp:    screen.Composer{Colors: opts.Colors, Diff: opts.Diff},
		wake:    make(chan struct{}, 1),
		envRows: envRows,
		envCols: envCols,
	}
}

// NotifyResize flags a geometry change. The flag is consumed at the top of
// the next iteration; the poke cuts a pending wait short so the redraw is
// immediate.
func (l *Loop) NotifyResize() {
	l.resize.Store(true)
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run renders and reschedules until ctx is canceled or, under errexit, the
// command exits nonzero. Cancellation is a clean stop and returns nil.
func (l *Loop) Run(ctx context.Context) error {
	l.refreshGeometry()
	if l.opts.Precise {
		l.deadline = l.clk.Now()
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		if l.resize.CompareAndSwap(true, false) {
			perf.Count("resizes", 1)
			l.refreshGeometry()
			l.disp.Clear()
			l.prev = nil
		}

		code, err := l.renderOnce(ctx)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		if code != 0 {
			if l.opts.Beep {
				l.disp.Beep()
			}
			if l.opts.Errexit {
				logging.Info("command failed with status %d, stopping", code)
				return &CommandExitError{Code: code}
			}
		}

		if !l.wait(ctx) {
			return nil
		}
	}
}

// renderOnce runs the command once and paints title and body. The returned
// code is the command's exit status; err is a spawn failure.
func (l *Loop) renderOnce(ctx context.Context) (int, error) {
	defer perf.Time("iteration")()

	bodyTop := 0
	bodyRows := l.rows
	if !l.opts.NoTitle {
		l.blitTitle()
		bodyTop = titleRows
		bodyRows -= titleRows
		if bodyRows < 0 {
			bodyRows = 0
		}
	}

	capture, err := l.runner.Start(bodyRows, l.cols)
	if err != nil {
		logging.WithError(err, "spawn failed")
		return 0, fmt.Errorf("spawning command: %w", err)
	}
	// Kill on cancellation unblocks the read below; Wait still reaps.
	stop := context.AfterFunc(ctx, capture.Kill)
	stopTimer := perf.Time("command")
	frame := l.comp.RenderBody(capture, bodyRows, l.cols, l.prev)
	stop()
	code := capture.Wait()
	stopTimer()

	if ctx.Err() != nil {
		return 0, nil
	}

	l.blitBody(frame, bodyTop)
	l.disp.Show()
	l.prev = frame
	return code, nil
}

// wait sleeps out the balance of the schedule, returning false when the
// context ends it. A trigger pulse wakes the loop without advancing the
// precise deadline: the triggered render is an extra frame, and the cadence
// stays anchored to the original start.
func (l *Loop) wait(ctx context.Context) bool {
	var sleep time.Duration
	if l.opts.Precise {
		if !l.skipAdvance {
			l.deadline = l.deadline.Add(l.opts.Interval)
		}
		l.skipAdvance = false
		if d := l.deadline.Sub(l.clk.Now()); d > 0 {
			sleep = d
		}
	} else {
		sleep = l.opts.Interval
	}

	select {
	case <-ctx.Done():
		return false
	case <-l.clk.After(sleep):
	case <-l.opts.Trigger:
		perf.Count("triggers", 1)
		l.skipAdvance = l.opts.Precise
	case <-l.wake:
	}
	return true
}

// refreshGeometry re-queries the display, applies any pinned environment
// dimensions, and re-exports the effective values so child commands observe
// them.
func (l *Loop) refreshGeometry() {
	rows, cols := l.disp.Geometry()
	if l.envRows > 0 {
		rows = l.envRows
	}
	if l.envCols > 0 {
		cols = l.envCols
	}
	l.rows, l.cols = rows, cols
	_ = os.Setenv("LINES", strconv.Itoa(rows))
	_ = os.Setenv("COLUMNS", strconv.Itoa(cols))
	logging.Debug("geometry %dx%d", rows, cols)
}

func (l *Loop) blitTitle() {
	if l.rows == 0 {
		return
	}
	row := titleCells(l.cols, l.opts.Interval, l.opts.Command, l.clk.Now())
	for x := 0; x < len(row); x++ {
		cell := row[x]
		l.disp.WriteCell(0, x, cell.Rune, cell.Style, false)
		if cell.Width == 2 {
			x++
		}
	}
}

func (l *Loop) blitBody(frame *screen.Frame, top int) {
	for y := 0; y < frame.Rows; y++ {
		for x := 0; x < frame.Cols; x++ {
			cell := frame.Cells[y][x]
			l.disp.WriteCell(top+y, x, cell.Rune, cell.Style, cell.Changed)
			if cell.Width == 2 {
				x++
			}
		}
	}
}
