package cli

import (
	"github.com/spf13/cobra"
)

// options holds the raw flag values for one invocation. Resolution against
// the defaults file keys off Flags().Changed, not the values, so zero values
// here never shadow a file setting.
type options struct {
	interval    float64
	beep        bool
	color       bool
	differences string
	errexit     bool
	precise     bool
	noTitle     bool
	execDirect  bool
	pty         bool
	triggers    []string
	logFile     string
	configPath  string
}

func buildRootCommand(version string) (*cobra.Command, *options) {
	opts := &options{}
	root := &cobra.Command{
		Use:   "rewatch [flags] <command> [argument ...]",
		Short: "Execute a program periodically, showing output fullscreen",
		Long: `rewatch runs a command repeatedly, displaying its output so you can
see it change over time. By default the command is passed to "sh -c", so
quoting keeps shell syntax intact until the child shell sees it.

Press q or Ctrl+C to exit.`,
		Example: `  rewatch -n 0.5 free -m
  rewatch -d ls -l /tmp
  rewatch --pty -c "ls --color=always /var/log"`,
		Args:          cobra.MinimumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	// Flag parsing stops at the first positional; everything after it
	// belongs to the watched command.
	root.Flags().SetInterspersed(false)

	root.Flags().Float64VarP(&opts.interval, "interval", "n", 2, "Seconds to wait between updates")
	root.Flags().BoolVarP(&opts.beep, "beep", "b", false, "Beep if the command has a non-zero exit")
	root.Flags().BoolVarP(&opts.color, "color", "c", false, "Interpret ANSI color and style sequences")
	root.Flags().StringVarP(&opts.differences, "differences", "d", "", "Highlight changes between updates (off, normal, or cumulative)")
	root.Flags().Lookup("differences").NoOptDefVal = "normal"
	root.Flags().BoolVarP(&opts.errexit, "errexit", "e", false, "Exit if the command has a non-zero exit")
	root.Flags().BoolVarP(&opts.precise, "precise", "p", false, "Attempt to run the command at precise intervals")
	root.Flags().BoolVarP(&opts.noTitle, "no-title", "t", false, "Turn off the header")
	root.Flags().BoolVarP(&opts.execDirect, "exec", "x", false, "Pass the command to exec instead of \"sh -c\"")
	root.Flags().BoolVar(&opts.pty, "pty", false, "Run the command on a pseudo-terminal so it sees a TTY")
	root.Flags().StringArrayVarP(&opts.triggers, "trigger", "w", nil, "Also update when this file changes (repeatable)")
	root.Flags().StringVar(&opts.logFile, "log-file", "", "Write debug logs to the given file")
	root.Flags().StringVar(&opts.configPath, "config", "", "Defaults file (default ~/.config/rewatch/config.json)")

	return root, opts
}
