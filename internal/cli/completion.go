package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/logosrc/internal/output"
)

// completionCmd generates shell completion scripts.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for logosrc.

Load the script in the current shell, or write it to your shell's completion
directory to load it for every session.`,
	Example: `  source <(logosrc completion bash)
  logosrc completion zsh > "${fpath[1]}/_logosrc"
  logosrc completion fish > ~/.config/fish/completions/logosrc.fish
  logosrc completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(w)
		case "zsh":
			return cmd.Root().GenZshCompletion(w)
		case "fish":
			return cmd.Root().GenFishCompletion(w, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(w)
		}
		return nil
	},
}

// versionCmd prints build information.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Show version information",
	Long:    `Show the logosrc version, commit and build date.`,
	Example: `  logosrc version`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if GetCmdContext(cmd).Fmt.Format() == output.FormatJSON {
			return writeJSON(cmd.OutOrStdout(), map[string]string{
				"version": orDefault(buildInfo.Version, "dev"),
				"commit":  orDefault(buildInfo.Commit, "unknown"),
				"date":    orDefault(buildInfo.Date, "unknown"),
			})
		}
		outln(cmd.OutOrStdout(), "logosrc", formatVersion(buildInfo))
		return nil
	},
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	completionCmd.GroupID = "config"
	versionCmd.GroupID = "config"
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
