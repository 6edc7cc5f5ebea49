package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/logosrc/internal/output"
	"github.com/mrz1836/logosrc/internal/tokenlist"
	logoerr "github.com/mrz1836/logosrc/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// listsRefresh ignores fresh cache entries when fetching.
	listsRefresh bool
)

// listsCmd is the parent command for token list operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Manage token lists",
	Long: `Fetch, inspect and clear the token lists that supply logo candidates.

Lists are fetched from https, ipfs, ipns or ar locators (each gateway mirror
is tried in order) or read from local files, and cached under the logosrc
home for the configured TTL.`,
}

// listsFetchCmd fetches token lists into the cache.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var listsFetchCmd = &cobra.Command{
	Use:   "fetch [source...]",
	Short: "Fetch token lists into the cache",
	Long: `Fetch token lists and store them in the local cache.

Without arguments the configured sources are fetched. Lists still fresh in the
cache are not downloaded again unless --refresh is given. A source that cannot
be downloaded falls back to its cached copy when one exists.`,
	Example: `  logosrc lists fetch
  logosrc lists fetch --refresh
  logosrc lists fetch ipns://tokens.uniswap.org ./my-list.json`,
	RunE: runListsFetch,
}

// listsShowCmd shows cached token lists.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var listsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cached token lists",
	Long:  `Show each cached token list with its age, token count and logo count.`,
	Example: `  logosrc lists show
  logosrc lists show -o json`,
	Args: cobra.NoArgs,
	RunE: runListsShow,
}

// listsClearCmd removes the token list cache.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var listsClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Remove cached token lists",
	Long:    `Delete the token list cache file. Lists are fetched again on next use.`,
	Example: `  logosrc lists clear`,
	Args:    cobra.NoArgs,
	RunE:    runListsClear,
}

// ListStatus describes one token list source.
type ListStatus struct {
	Source    string `json:"source"`
	Name      string `json:"name,omitempty"`
	Version   string `json:"version,omitempty"`
	Tokens    int    `json:"tokens"`
	Logos     int    `json:"logos"`
	Age       string `json:"age,omitempty"`
	Stale     bool   `json:"stale,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

// ListsResponse is the result of the lists fetch and show commands.
type ListsResponse struct {
	Lists []ListStatus `json:"lists"`
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	listsCmd.GroupID = "data"
	rootCmd.AddCommand(listsCmd)
	listsCmd.AddCommand(listsFetchCmd)
	listsCmd.AddCommand(listsShowCmd)
	listsCmd.AddCommand(listsClearCmd)

	listsFetchCmd.Flags().BoolVar(&listsRefresh, "refresh", false, "download even when the cached copy is fresh")
}

func runListsFetch(cmd *cobra.Command, args []string) error {
	cmdCtx := GetCmdContext(cmd)

	sources := listSources(cmdCtx, args)
	if len(sources) == 0 {
		return logoerr.WithSuggestion(
			logoerr.ErrInvalidInput,
			"configure token_lists.sources or pass a source argument",
		)
	}

	lists := cmdCtx.loadListCache()
	fetcher := cmdCtx.NewFetcher(lists, listsRefresh)

	ctx, cancel := contextWithTimeout(cmd, cmdCtx.listTimeout(len(sources)))
	defer cancel()

	results := fetcher.FetchAll(ctx, sources)
	cmdCtx.saveListCache(lists)

	response := ListsResponse{Lists: make([]ListStatus, 0, len(results))}
	failed := 0
	var firstErr error
	for _, res := range results {
		status := ListStatus{Source: res.Source}
		if res.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = res.Err
			}
			status.Error = res.Err.Error()
			status.ErrorCode = logoerr.Code(res.Err)
			cmdCtx.Log.Error("fetching %s: %v", res.Source, res.Err)
		} else {
			fillListStatus(&status, res.List)
		}
		if _, ok, age := lists.Get(res.Source); ok {
			status.Age = formatAge(age)
			status.Stale = lists.IsStaleWithDuration(res.Source, cmdCtx.Cfg.GetListCacheTTL())
		}
		response.Lists = append(response.Lists, status)
	}

	w := cmd.OutOrStdout()
	if cmdCtx.Fmt.Format() == output.FormatJSON {
		if err := writeJSON(w, response); err != nil {
			return err
		}
	} else if err := displayListsText(w, response); err != nil {
		return err
	}

	// Every source failing is an error; partial failures are reported above
	if failed == len(results) {
		return firstErr
	}
	return nil
}

func runListsShow(cmd *cobra.Command, _ []string) error {
	cmdCtx := GetCmdContext(cmd)
	lists := cmdCtx.loadListCache()

	response := ListsResponse{Lists: []ListStatus{}}
	for _, source := range lists.Sources() {
		entry, ok, age := lists.Get(source)
		if !ok {
			continue
		}
		status := ListStatus{
			Source: source,
			Age:    formatAge(age),
			Stale:  lists.IsStaleWithDuration(source, cmdCtx.Cfg.GetListCacheTTL()),
		}
		if list, err := tokenlist.Parse(entry.Data); err != nil {
			status.Error = err.Error()
			status.ErrorCode = logoerr.Code(err)
		} else {
			fillListStatus(&status, list)
		}
		response.Lists = append(response.Lists, status)
	}

	w := cmd.OutOrStdout()
	if cmdCtx.Fmt.Format() == output.FormatJSON {
		return writeJSON(w, response)
	}
	if len(response.Lists) == 0 {
		outln(w, "No cached token lists. Run 'logosrc lists fetch' to fetch them.")
		return nil
	}
	return displayListsText(w, response)
}

func runListsClear(cmd *cobra.Command, _ []string) error {
	cmdCtx := GetCmdContext(cmd)
	if cmdCtx.ListStorage == nil {
		return logoerr.ErrCacheNotFound
	}

	if err := cmdCtx.ListStorage.Delete(); err != nil {
		return fmt.Errorf("clearing list cache: %w", err)
	}
	cmdCtx.Log.Debug("removed list cache %s", cmdCtx.ListStorage.Path())

	return output.FormatSuccess(cmd.OutOrStdout(), "Token list cache cleared", cmdCtx.Fmt.Format())
}

func fillListStatus(status *ListStatus, list *tokenlist.List) {
	status.Name = list.Name
	status.Version = list.Version.String()
	status.Tokens = len(list.Tokens)
	status.Logos = list.LogoCount()
}

func displayListsText(w io.Writer, r ListsResponse) error {
	t := output.NewTable("SOURCE", "NAME", "VERSION", "TOKENS", "LOGOS", "AGE", "STATUS")
	t.SetMaxWidth(48)
	for _, l := range r.Lists {
		status := "ok"
		switch {
		case l.Error != "":
			status = "error: " + l.ErrorCode
		case l.Stale:
			status = "stale"
		}
		t.AddRow(l.Source, l.Name, l.Version, strconv.Itoa(l.Tokens), strconv.Itoa(l.Logos), l.Age, status)
	}
	return t.Render(w)
}

// formatAge renders a cache age compactly, such as "45s", "12m" or "3h".
func formatAge(age time.Duration) string {
	switch {
	case age < time.Minute:
		return fmt.Sprintf("%ds", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("%dm", int(age.Minutes()))
	case age < 48*time.Hour:
		return fmt.Sprintf("%dh", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd", int(age.Hours()/24))
	}
}
