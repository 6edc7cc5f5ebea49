package cli

import (
	"sync"

	"github.com/spf13/cobra"

	"github.com/mrz1836/logosrc/internal/output"
	"github.com/mrz1836/logosrc/internal/tokenlist"
)

// lazyLookup loads the token list lookup table on the first Icons call, so
// commands that never leave the initial source make no network requests.
type lazyLookup struct {
	once  sync.Once
	load  func() *tokenlist.LookupTable
	table *tokenlist.LookupTable
}

// Icons implements logo.IconLookup.
func (l *lazyLookup) Icons(address string) []string {
	l.once.Do(func() {
		l.table = l.load()
	})
	if l.table == nil {
		return nil
	}
	return l.table.Icons(address)
}

// loadLookupTable fetches sources through the list cache and indexes them.
// Sources that fail are reported as warnings on stderr; the table holds
// whatever loaded.
func loadLookupTable(cmd *cobra.Command, cmdCtx *CommandContext, sources []string) *tokenlist.LookupTable {
	if len(sources) == 0 {
		return tokenlist.NewLookupTable()
	}

	lists := cmdCtx.loadListCache()
	fetcher := cmdCtx.NewFetcher(lists, false)

	ctx, cancel := contextWithTimeout(cmd, cmdCtx.listTimeout(len(sources)))
	defer cancel()

	table, err := fetcher.LoadLookup(ctx, sources)
	if err != nil {
		cmdCtx.Log.Error("loading token lists: %v", err)
		output.Warnf(cmd.ErrOrStderr(), "some token lists could not be loaded: %v", err)
	}
	cmdCtx.saveListCache(lists)

	cmdCtx.Log.Debug("lookup table holds %d addresses from %d sources", table.Size(), len(sources))
	return table
}

// listSources returns the explicit sources, or the configured ones.
func listSources(cmdCtx *CommandContext, explicit []string) []string {
	if len(explicit) > 0 {
		return explicit
	}
	return cmdCtx.Cfg.GetTokenLists()
}
