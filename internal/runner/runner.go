// Package runner spawns the watched command and captures its merged output.
//
// The default capture points the child's stdout and stderr at the same pipe,
// so interleaving is exactly the order the kernel saw the writes in. PTY
// mode substitutes a pseudo-terminal sized to the grid, letting the command
// detect a TTY and color or wrap itself accordingly.
package runner

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/creack/pty"
)

// Options fix how every iteration spawns the command.
type Options struct {
	// Exec runs argv directly instead of joining it for "sh -c".
	Exec bool
	// PTY captures through a pseudo-terminal.
	PTY bool
}

// Runner spawns one Capture per iteration.
type Runner struct {
	argv []string
	opts Options
}

func New(argv []string, opts Options) *Runner {
	return &Runner{argv: argv, opts: opts}
}

// Start spawns the command. rows and cols size the pseudo-terminal in PTY
// mode; pipe capture ignores them. An error here is a spawn failure, never
// a nonzero exit.
func (r *Runner) Start(rows, cols int) (*Capture, error) {
	cmd := r.buildCmd()

	if r.opts.PTY {
		ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
			Rows: uint16(rows),
			Cols: uint16(cols),
		})
		if err != nil {
			return nil, err
		}
		return &Capture{stream: ptmx, cmd: cmd}, nil
	}

	rd, wr, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	// one descriptor for both keeps interleaving in write order
	cmd.Stdout = wr
	cmd.Stderr = wr
	if err := cmd.Start(); err != nil {
		rd.Close()
		wr.Close()
		return nil, err
	}
	// the child holds its own copies now
	wr.Close()
	return &Capture{stream: rd, cmd: cmd}, nil
}

func (r *Runner) buildCmd() *exec.Cmd {
	if r.opts.Exec {
		return exec.Command(r.argv[0], r.argv[1:]...)
	}
	return exec.Command("sh", "-c", strings.Join(r.argv, " "))
}

// Capture is one live run: the merged output stream and the process handle
// needed to reap or kill it.
type Capture struct {
	stream    *os.File
	cmd       *exec.Cmd
	closeOnce sync.Once
}

// Read pulls merged output. It unblocks with an error once Kill closes the
// stream.
func (c *Capture) Read(p []byte) (int, error) {
	return c.stream.Read(p)
}

// Wait closes the read side and reaps the process, returning its exit code.
// Closing first means a child still writing past the grid takes SIGPIPE (or
// loses its terminal, in PTY mode) instead of blocking on a full buffer
// forever. Signal-terminated commands report 1.
func (c *Capture) Wait() int {
	c.close()
	return exitStatus(c.cmd.Wait())
}

// Kill terminates the child and closes the stream, unblocking a Read in
// progress. Wait must still run to reap.
func (c *Capture) Kill() {
	if c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
	}
	c.close()
}

func (c *Capture) close() {
	c.closeOnce.Do(func() {
		_ = c.stream.Close()
	})
}

func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode()
	}
	return 1
}
