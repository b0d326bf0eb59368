//go:build !windows

package main

import (
	"fmt"
	"os"

	"github.com/andyrewlee/rewatch/internal/cli"
)

// Version info set by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], buildVersion()))
}

func buildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}
