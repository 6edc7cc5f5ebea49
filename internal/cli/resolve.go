package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/logosrc/internal/chain"
	"github.com/mrz1836/logosrc/internal/chain/eth"
	"github.com/mrz1836/logosrc/internal/logo"
	"github.com/mrz1836/logosrc/internal/output"
	"github.com/mrz1836/logosrc/internal/tokenlist"
	logoerr "github.com/mrz1836/logosrc/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// resolveChain is the chain name or id of the asset.
	resolveChain string
	// resolveNative marks the asset as the chain's native currency.
	resolveNative bool
	// resolveBackup is the caller-supplied backup logo URI.
	resolveBackup string
	// resolveFail is the number of load failures to simulate.
	resolveFail int
	// resolveLists overrides the configured token list sources.
	resolveLists []string
	// resolveNoLists skips token list lookups entirely.
	resolveNoLists bool
)

// resolveCmd resolves the logo source for an asset.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var resolveCmd = &cobra.Command{
	Use:   "resolve [address]",
	Short: "Resolve the logo source for an asset",
	Long: `Resolve the image source to render for a token or native currency.

The initial source is a bundled image: the chain's native currency logo, a
well-known Kroma token logo, or a placeholder. Each --fail simulates the
current image failing to load, which marks it bad and moves to the next
candidate from the token lists and the --backup URI. An empty source means
every candidate failed.`,
	Example: `  logosrc resolve 0x0257e4d92C00C9EfcCa1d641b224d7d09cfa4522 --chain kroma
  logosrc resolve --native --chain polygon
  logosrc resolve 0x6B175474E89094C44Da98b954EedeAC495271d0F --fail 2
  logosrc resolve 0x6B175474E89094C44Da98b954EedeAC495271d0F --backup ipfs://QmLogo --no-lists --fail 1 -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

// candidatesCmd lists the prioritized fallback sources for a token.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var candidatesCmd = &cobra.Command{
	Use:   "candidates <address>",
	Short: "List fallback logo sources for a token",
	Long: `List the fallback sources a resolver would walk for a token, in order.

Candidates come from every configured token list followed by --backup. Locators
are expanded through the configured gateways, duplicates are removed and
CoinGecko thumbnails are upgraded to large images and moved last.`,
	Example: `  logosrc candidates 0x6B175474E89094C44Da98b954EedeAC495271d0F
  logosrc candidates 0x6B175474E89094C44Da98b954EedeAC495271d0F --backup ar://abc -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runCandidates,
}

// ResolveResponse is the result of the resolve command.
type ResolveResponse struct {
	Address    string   `json:"address,omitempty"`
	ChainID    uint64   `json:"chain_id,omitempty"`
	Chain      string   `json:"chain,omitempty"`
	Native     bool     `json:"native"`
	Source     string   `json:"source"`
	State      string   `json:"state"`
	Trail      []string `json:"trail"`
	Candidates []string `json:"candidates,omitempty"`
}

// CandidatesResponse is the result of the candidates command.
type CandidatesResponse struct {
	Address    string   `json:"address"`
	Candidates []string `json:"candidates"`
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	resolveCmd.GroupID = "logo"
	candidatesCmd.GroupID = "logo"
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(candidatesCmd)

	resolveCmd.Flags().StringVar(&resolveChain, "chain", "", "chain name or id (e.g. kroma, 255)")
	resolveCmd.Flags().BoolVar(&resolveNative, "native", false, "resolve the chain's native currency")
	resolveCmd.Flags().StringVar(&resolveBackup, "backup", "", "backup logo URI tried after token list entries")
	resolveCmd.Flags().IntVar(&resolveFail, "fail", 0, "number of image load failures to simulate")
	resolveCmd.Flags().StringSliceVar(&resolveLists, "list", nil, "token list source, repeatable (default: configured lists)")
	resolveCmd.Flags().BoolVar(&resolveNoLists, "no-lists", false, "do not consult token lists")

	candidatesCmd.Flags().StringVar(&resolveBackup, "backup", "", "backup logo URI appended after token list entries")
	candidatesCmd.Flags().StringSliceVar(&resolveLists, "list", nil, "token list source, repeatable (default: configured lists)")
}

func runResolve(cmd *cobra.Command, args []string) error {
	cmdCtx := GetCmdContext(cmd)

	address := ""
	if len(args) > 0 {
		address = args[0]
	}
	id, err := parseIdentity(address, resolveChain, resolveNative)
	if err != nil {
		return err
	}
	if resolveFail < 0 {
		return logoerr.WithDetails(logoerr.ErrInvalidInput, map[string]string{
			"flag":   "--fail",
			"reason": "must not be negative",
		})
	}

	lookup := &lazyLookup{load: func() *tokenlist.LookupTable {
		if resolveNoLists {
			return nil
		}
		return loadLookupTable(cmd, cmdCtx, listSources(cmdCtx, resolveLists))
	}}

	resolver := cmdCtx.NewResolver(lookup, cmdCtx.badSources())
	current, advance := resolver.Resolve(id, resolveBackup)
	cmdCtx.Log.Debug("initial source for %s: %s", describeIdentity(id), current)

	trail := []string{current}
	for i := 0; i < resolveFail && current != ""; i++ {
		advance()
		current = resolver.Current()
		trail = append(trail, current)
	}

	response := ResolveResponse{
		Address:    id.Address,
		ChainID:    uint64(id.ChainID),
		Chain:      chainLabel(id.ChainID),
		Native:     id.IsNative,
		Source:     current,
		State:      resolver.State().String(),
		Trail:      trail,
		Candidates: resolver.Candidates(),
	}

	w := cmd.OutOrStdout()
	if cmdCtx.Fmt.Format() == output.FormatJSON {
		return writeJSON(w, response)
	}
	return displayResolveText(w, response)
}

func runCandidates(cmd *cobra.Command, args []string) error {
	cmdCtx := GetCmdContext(cmd)

	address, err := eth.NormalizeAddress(args[0])
	if err != nil {
		return logoerr.WithSuggestion(err, "pass a 0x-prefixed 20-byte hex token address")
	}

	table := loadLookupTable(cmd, cmdCtx, listSources(cmdCtx, resolveLists))

	uris := table.Icons(address)
	if resolveBackup != "" {
		uris = append(uris, resolveBackup)
	}

	response := CandidatesResponse{
		Address:    address,
		Candidates: logo.Prioritize(cmdCtx.Normalizer(), uris),
	}

	w := cmd.OutOrStdout()
	if cmdCtx.Fmt.Format() == output.FormatJSON {
		return writeJSON(w, response)
	}
	return displayCandidatesText(w, response)
}

// parseIdentity validates CLI input into an asset identity. The address may
// be omitted only for native currencies.
func parseIdentity(address, chainArg string, native bool) (logo.Identity, error) {
	id := logo.Identity{IsNative: native}

	if strings.TrimSpace(chainArg) != "" {
		chainID, err := chain.ParseID(chainArg)
		if err != nil {
			return logo.Identity{}, err
		}
		id.ChainID = chainID
	}

	if strings.TrimSpace(address) == "" {
		if !native {
			return logo.Identity{}, logoerr.WithSuggestion(
				logoerr.ErrInvalidInput,
				"pass a token address, or --native with --chain for a native currency",
			)
		}
		return id, nil
	}

	normalized, err := eth.NormalizeAddress(address)
	if err != nil {
		return logo.Identity{}, logoerr.WithSuggestion(err, "pass a 0x-prefixed 20-byte hex token address")
	}
	id.Address = normalized
	return id, nil
}

// chainLabel names a chain for display, falling back to its numeric id.
func chainLabel(id chain.ID) string {
	if !id.IsSet() {
		return ""
	}
	if id.IsKnown() {
		return id.String()
	}
	return strconv.FormatUint(uint64(id), 10)
}

func describeIdentity(id logo.Identity) string {
	if id.IsNative {
		return "native " + chainLabel(id.ChainID)
	}
	return id.Address
}

func displayResolveText(w io.Writer, r ResolveResponse) error {
	source := r.Source
	if source == "" {
		source = "(none)"
	}

	fields := []output.Field{
		{Label: "Address", Value: r.Address},
		{Label: "Chain", Value: r.Chain},
		{Label: "Native", Value: strconv.FormatBool(r.Native)},
		{Label: "Source", Value: source},
		{Label: "State", Value: r.State},
	}
	if err := output.NewFormatter(output.FormatText, w).PrintFields(fields...); err != nil {
		return err
	}

	if len(r.Trail) > 1 {
		outln(w)
		outln(w, "Sources tried:")
		for i, s := range r.Trail {
			if s == "" {
				s = "(exhausted)"
			}
			out(w, "  %d. %s\n", i+1, s)
		}
	}
	return nil
}

func displayCandidatesText(w io.Writer, r CandidatesResponse) error {
	if len(r.Candidates) == 0 {
		out(w, "No logo candidates for %s\n", r.Address)
		return nil
	}

	t := output.NewTable("#", "SOURCE")
	for i, c := range r.Candidates {
		t.AddRow(fmt.Sprint(i+1), c)
	}
	return t.Render(w)
}
