// Package cli parses flags, folds in the defaults file, and wires the
// terminal, runner, and trigger into a watch session.
package cli

import (
	"errors"
	"fmt"
	"os"
)

// Run executes the rewatch command line and returns the process exit code:
// 0 after a normal stop or interrupt, 1 for usage and setup errors, 2 when
// the command cannot be spawned, and the command's own status under
// --errexit.
func Run(args []string, version string) int {
	// cobra treats nil args as "parse os.Args".
	if args == nil {
		args = []string{}
	}
	root, _ := buildRootCommand(version)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}
	return 0
}

// exitError carries a specific process exit code through cobra's Execute.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit with code %d", e.code)
}

func (e exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var exitErr exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return 1
}
