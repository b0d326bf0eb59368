package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/andyrewlee/rewatch/internal/config"
	"github.com/andyrewlee/rewatch/internal/logging"
	"github.com/andyrewlee/rewatch/internal/perf"
	"github.com/andyrewlee/rewatch/internal/runner"
	"github.com/andyrewlee/rewatch/internal/safego"
	"github.com/andyrewlee/rewatch/internal/screen"
	"github.com/andyrewlee/rewatch/internal/term"
	"github.com/andyrewlee/rewatch/internal/watch"
)

// run executes one watch session and blocks until it ends.
func run(cmd *cobra.Command, opts *options, args []string) error {
	wopts, ropts, err := resolveOptions(cmd, opts, args)
	if err != nil {
		return err
	}

	if path := logPath(opts); path != "" {
		if err := logging.Initialize(path, logging.LevelDebug); err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer logging.Close()
	}
	logging.Info("watching %q every %s", wopts.Command, wopts.Interval)
	defer perf.Flush("session end")

	if len(opts.triggers) > 0 {
		trigger, err := watch.NewTrigger(opts.triggers)
		if err != nil {
			return err
		}
		defer trigger.Close()
		wopts.Trigger = trigger.Pulses()
	}

	disp, err := term.New()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	defer disp.Fini()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	// A panicking pump ends the session instead of leaving a wedged
	// fullscreen terminal behind.
	safego.SetOnPanic(func(string, any, []byte) { cancel() })
	defer safego.SetOnPanic(nil)

	loop := watch.New(disp, commandRunner{runner.New(args, ropts)}, wopts)
	safego.Go("display-events", func() {
		relayEvents(ctx, disp, loop, cancel)
	})

	if err := loop.Run(ctx); err != nil {
		var cmdErr *watch.CommandExitError
		if errors.As(err, &cmdErr) {
			return exitError{code: cmdErr.Code, err: err}
		}
		return exitError{code: 2, err: err}
	}
	return nil
}

// relayEvents feeds terminal notifications into the loop until the session
// context ends.
func relayEvents(ctx context.Context, disp term.Display, loop *watch.Loop, cancel context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-disp.Events():
			if !ok {
				return
			}
			switch ev {
			case term.EventResize:
				loop.NotifyResize()
			case term.EventInterrupt:
				cancel()
			}
		}
	}
}

// commandRunner adapts the concrete runner to the loop's Runner interface.
type commandRunner struct {
	r *runner.Runner
}

func (c commandRunner) Start(rows, cols int) (watch.Capture, error) {
	capture, err := c.r.Start(rows, cols)
	if err != nil {
		return nil, err
	}
	return capture, nil
}

// resolveOptions folds the defaults file under the explicit flags. A flag
// wins only when it was actually given, so untouched defaults never shadow
// file values.
func resolveOptions(cmd *cobra.Command, opts *options, args []string) (watch.Options, runner.Options, error) {
	defaults, err := config.Load(configPath(opts))
	if err != nil {
		return watch.Options{}, runner.Options{}, err
	}

	changed := cmd.Flags().Changed

	interval := defaults.Interval
	if changed("interval") {
		interval = time.Duration(opts.interval * float64(time.Second))
	}

	differences := defaults.Differences
	if changed("differences") {
		differences = opts.differences
	}
	diff, err := parseDiffMode(differences)
	if err != nil {
		return watch.Options{}, runner.Options{}, err
	}

	pick := func(name string, flag, file bool) bool {
		if changed(name) {
			return flag
		}
		return file
	}

	wopts := watch.Options{
		Command:  ansi.Strip(strings.Join(args, " ")),
		Interval: interval,
		Precise:  pick("precise", opts.precise, defaults.Precise),
		NoTitle:  pick("no-title", opts.noTitle, defaults.NoTitle),
		Colors:   pick("color", opts.color, defaults.Color),
		Diff:     diff,
		Beep:     pick("beep", opts.beep, defaults.Beep),
		Errexit:  opts.errexit,
	}
	ropts := runner.Options{Exec: opts.execDirect, PTY: opts.pty}
	return wopts, ropts, nil
}

func parseDiffMode(s string) (screen.DiffMode, error) {
	switch s {
	case "", "off":
		return screen.DiffOff, nil
	case "normal":
		return screen.DiffNormal, nil
	case "cumulative":
		return screen.DiffCumulative, nil
	default:
		return screen.DiffOff, fmt.Errorf("invalid differences mode %q (want off, normal, or cumulative)", s)
	}
}

func configPath(opts *options) string {
	if opts.configPath != "" {
		return opts.configPath
	}
	return config.DefaultPath()
}

func logPath(opts *options) string {
	if opts.logFile != "" {
		return opts.logFile
	}
	return os.Getenv("REWATCH_LOG")
}
