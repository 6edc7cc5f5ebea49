// Package main is the entry point for the logosrc CLI.
package main

import (
	"os"

	"github.com/mrz1836/logosrc/internal/cli"
)

// Set via ldflags at build time.
//
//nolint:gochecknoglobals // build metadata
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	cli.SetBuildInfo(cli.BuildInfo{Version: version, Commit: commit, Date: date})

	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
