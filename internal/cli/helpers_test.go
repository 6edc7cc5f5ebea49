package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"

	"github.com/mrz1836/logosrc/internal/chain"
	"github.com/mrz1836/logosrc/internal/config"
	"github.com/mrz1836/logosrc/internal/logo"
	"github.com/mrz1836/logosrc/internal/output"
)

// newTestCommand returns a command carrying a CommandContext rooted in a
// temporary home with no token lists configured. Stdout is captured in the
// returned buffer.
func newTestCommand(t *testing.T, format output.Format, configure func(*config.Config)) (*cobra.Command, *CommandContext, *bytes.Buffer) {
	t.Helper()

	c := config.Defaults()
	c.Home = t.TempDir()
	c.TokenLists.Sources = nil
	c.Logging.File = ""
	if configure != nil {
		configure(c)
	}

	stdout := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(stdout)
	cmd.SetErr(new(bytes.Buffer))

	cmdCtx := NewCommandContext(c, config.NullLogger(), output.NewFormatter(format, stdout))
	cmdCtx.RateLimiter = chain.NewRateLimiter(1000, 1000)
	cmdCtx.BadSources = logo.NewBadSources()
	SetCmdContext(cmd, cmdCtx)

	return cmd, cmdCtx, stdout
}

// withFlag sets a package-level flag variable for the duration of a test.
// Tests using it must not run in parallel.
func withFlag[T any](t *testing.T, p *T, v T) {
	t.Helper()
	orig := *p
	*p = v
	t.Cleanup(func() { *p = orig })
}
