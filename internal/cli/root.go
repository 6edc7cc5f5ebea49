// Package cli implements the logosrc command-line interface.
//
// This package uses global variables to manage CLI state, which is the standard
// pattern for Cobra-based CLI applications. The globals are initialized in
// PersistentPreRunE and cleaned up in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/logosrc/internal/config"
	"github.com/mrz1836/logosrc/internal/metrics"
	"github.com/mrz1836/logosrc/internal/output"
	logoerr "github.com/mrz1836/logosrc/pkg/errors"
)

// BuildInfo holds version metadata injected at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool
	showStats    bool

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter

	buildInfo BuildInfo
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "logosrc",
	Short: "Resolve logo image sources for crypto assets",
	Long: `logosrc resolves the image to show for a token or native currency and
walks a prioritized list of fallback sources as images fail to load.

Candidate logos come from token lists, which are fetched from https, ipfs,
ipns or ar locators and cached locally. A routing quote client maps swap
quotes to a trade state.`,
	Example: `  logosrc resolve 0x0257e4d92C00C9EfcCa1d641b224d7d09cfa4522 --chain kroma
  logosrc candidates 0x0257e4d92C00C9EfcCa1d641b224d7d09cfa4522
  logosrc lists fetch
  logosrc quote --chain kroma --in ETH --out 0x0257e4d92C00C9EfcCa1d641b224d7d09cfa4522 --amount 1`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := initGlobals(cmd.ErrOrStderr()); err != nil {
			return err
		}
		SetCmdContext(cmd, NewCommandContext(cfg, logger, formatter))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		if showStats {
			printStats(cmd.ErrOrStderr(), metrics.Global.Snapshot())
		}
		cleanup()
	},
}

// Execute runs the root command.
func Execute() error {
	walkCommands(rootCmd, enrichParentLong)

	err := rootCmd.Execute()
	if err != nil {
		// Format and print error
		if formatter != nil {
			_ = output.FormatError(os.Stderr, err, formatter.Format())
		} else {
			_ = output.FormatError(os.Stderr, err, output.FormatText)
		}
		return err
	}
	return nil
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return logoerr.ExitCode(err)
}

// SetBuildInfo records version metadata and exposes it through --version.
func SetBuildInfo(info BuildInfo) {
	buildInfo = info
	rootCmd.Version = formatVersion(info)
}

// formatVersion renders build metadata, filling in unknown fields.
func formatVersion(info BuildInfo) string {
	return fmt.Sprintf("%s (commit: %s, built: %s)",
		orDefault(info.Version, "dev"),
		orDefault(info.Commit, "unknown"),
		orDefault(info.Date, "unknown"))
}

// initGlobals initializes global configuration, logger, and formatter.
func initGlobals(stderr io.Writer) error {
	// Determine home directory
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}
	home = config.ExpandHome(home)

	// Load or create config
	var err error
	cfg, err = config.Load(config.Path(home))
	if err != nil {
		if !logoerr.Is(err, logoerr.ErrConfigNotFound) {
			return err
		}
		// Use defaults if config doesn't exist
		cfg = config.Defaults()
	}
	cfg.Home = home

	// Apply environment variable overrides
	config.ApplyEnvironment(cfg)

	// Override with command-line flags
	if homeDir != "" {
		cfg.Home = config.ExpandHome(homeDir)
	}
	if verbose {
		cfg.Output.Verbose = true
		cfg.Logging.Level = "debug"
	}
	if outputFormat != "" && outputFormat != "auto" {
		cfg.Output.DefaultFormat = outputFormat
	}

	if err = cfg.Validate(); err != nil {
		return err
	}

	// Initialize logger
	logLevel := config.ParseLogLevel(cfg.Logging.Level)
	logger, err = config.NewLogger(logLevel, cfg.Logging.File)
	if err != nil {
		// Use null logger if we can't create the file
		logger = config.NullLogger()
		if cfg.Output.Verbose {
			logger.SetLevel(config.LogLevelDebug)
		}
	}
	if cfg.Output.Verbose {
		logger.SetMirror(stderr)
	}

	// Initialize formatter
	formatter = output.NewFormatter(output.ParseFormat(cfg.Output.DefaultFormat), os.Stdout)

	return nil
}

// cleanup releases resources.
func cleanup() {
	if logger != nil {
		_ = logger.Close()
	}
}

// printStats writes the counters collected during the command.
func printStats(w io.Writer, s metrics.Snapshot) {
	t := output.NewTable("METRIC", "VALUE")
	t.AddRow("resolves", fmt.Sprint(s.ResolvesTotal))
	t.AddRow("advances", fmt.Sprint(s.AdvancesTotal))
	t.AddRow("bad sources", fmt.Sprint(s.BadSourcesTotal))
	t.AddRow("exhausted", fmt.Sprint(s.ExhaustedTotal))
	t.AddRow("list fetches", fmt.Sprint(s.ListFetchesTotal))
	t.AddRow("list fetch errors", fmt.Sprint(s.ListFetchErrors))
	t.AddRow("list cache hits", fmt.Sprint(s.ListCacheHits))
	t.AddRow("list cache misses", fmt.Sprint(s.ListCacheMisses))
	t.AddRow("quote calls", fmt.Sprint(s.QuoteCallsTotal))
	t.AddRow("quote errors", fmt.Sprint(s.QuoteErrorsTotal))
	_ = t.Render(w)
}

// Config returns the global configuration.
func Config() *config.Config {
	return cfg
}

// Logger returns the global logger.
func Logger() *config.Logger {
	return logger
}

// Formatter returns the global output formatter.
func Formatter() *output.Formatter {
	return formatter
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "logo", Title: "Logo Resolution:"},
		&cobra.Group{ID: "data", Title: "Token Lists & Quotes:"},
		&cobra.Group{ID: "config", Title: "Configuration:"},
	)
	rootCmd.SetHelpCommandGroupID("config")

	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "logosrc data directory (default: ~/.logosrc)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&showStats, "stats", false, "print counters to stderr when the command finishes")

	rootCmd.Version = formatVersion(buildInfo)
}
