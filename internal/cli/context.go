package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/logosrc/internal/cache"
	"github.com/mrz1836/logosrc/internal/chain"
	"github.com/mrz1836/logosrc/internal/config"
	"github.com/mrz1836/logosrc/internal/logo"
	"github.com/mrz1836/logosrc/internal/output"
	"github.com/mrz1836/logosrc/internal/routing"
	"github.com/mrz1836/logosrc/internal/tokenlist"
	"github.com/mrz1836/logosrc/internal/uri"
)

const (
	defaultListTimeout  = 30 * time.Second
	defaultQuoteTimeout = 15 * time.Second
)

// cmdContextKey is the context key under which the CommandContext is stored.
type cmdContextKey struct{}

// CommandContext holds dependencies for CLI commands.
type CommandContext struct {
	Cfg ConfigProvider
	Log LogWriter
	Fmt FormatProvider

	// ListStorage persists fetched token lists. Nil disables the disk cache.
	ListStorage *cache.FileStorage
	// RateLimiter is shared by list fetches and quote requests.
	RateLimiter *chain.RateLimiter
	// BadSources overrides the process-wide bad source set.
	BadSources *logo.BadSources
}

// NewCommandContext creates a context with the given dependencies.
func NewCommandContext(cfg *config.Config, log *config.Logger, fmtr *output.Formatter) *CommandContext {
	return &CommandContext{
		Cfg:         cfg,
		Log:         log,
		Fmt:         fmtr,
		ListStorage: cache.NewFileStorage(config.CachePath(cfg.GetHome())),
		RateLimiter: chain.DefaultRateLimiter(),
	}
}

// SetCmdContext attaches cmdCtx to cmd so subcommands can retrieve it.
func SetCmdContext(cmd *cobra.Command, cmdCtx *CommandContext) {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	cmd.SetContext(context.WithValue(base, cmdContextKey{}, cmdCtx))
}

// GetCmdContext returns the CommandContext attached to cmd. Commands run
// outside the root (as in tests) get one built from the current globals.
func GetCmdContext(cmd *cobra.Command) *CommandContext {
	if ctx := cmd.Context(); ctx != nil {
		if cmdCtx, ok := ctx.Value(cmdContextKey{}).(*CommandContext); ok {
			return cmdCtx
		}
	}

	c := cfg
	if c == nil {
		c = config.Defaults()
	}
	l := logger
	if l == nil {
		l = config.NullLogger()
	}
	f := formatter
	if f == nil {
		f = output.NewFormatter(output.FormatText, cmd.OutOrStdout())
	}
	return NewCommandContext(c, l, f)
}

// badSources returns the bad source set resolvers share.
func (c *CommandContext) badSources() *logo.BadSources {
	if c.BadSources != nil {
		return c.BadSources
	}
	return logo.DefaultBadSources
}

// Normalizer returns the URI normalizer for the configured gateways.
func (c *CommandContext) Normalizer() *uri.Normalizer {
	return c.Cfg.Normalizer()
}

// loadListCache reads the on-disk list cache. A corrupt file is reported and
// replaced by an empty cache.
func (c *CommandContext) loadListCache() *cache.ListCache {
	if c.ListStorage == nil {
		return cache.NewListCache()
	}
	lists, err := c.ListStorage.Load()
	if err != nil {
		c.Log.Error("loading list cache: %v", err)
		if lists == nil {
			lists = cache.NewListCache()
		}
	}
	return lists
}

// saveListCache writes lists back to disk, logging failures.
func (c *CommandContext) saveListCache(lists *cache.ListCache) {
	if c.ListStorage == nil {
		return
	}
	if err := c.ListStorage.Save(lists); err != nil {
		c.Log.Error("saving list cache: %v", err)
	}
}

// NewFetcher builds a token list fetcher over lists.
func (c *CommandContext) NewFetcher(lists cache.Cache, refresh bool) *tokenlist.Fetcher {
	return tokenlist.NewFetcher(&tokenlist.FetcherOptions{
		Normalizer:  c.Normalizer(),
		RateLimiter: c.RateLimiter,
		Cache:       lists,
		Staleness:   c.Cfg.GetListCacheTTL(),
		Refresh:     refresh,
		Logger:      c.Log,
	})
}

// NewResolver builds a logo resolver over lookup.
func (c *CommandContext) NewResolver(lookup logo.IconLookup, bad *logo.BadSources) *logo.Resolver {
	return logo.NewResolver(
		logo.WithLookup(lookup),
		logo.WithNormalizer(c.Normalizer()),
		logo.WithBadSources(bad),
		logo.WithSelector(logo.NewSelector(
			logo.WithAssetBase(c.Cfg.GetAssetBase()),
			logo.WithWellKnown(c.Cfg.GetWellKnown()),
		)),
		logo.WithLogger(c.Log),
	)
}

// NewRoutingClient builds a quote API client.
func (c *CommandContext) NewRoutingClient() (*routing.Client, error) {
	return routing.NewClient(c.Cfg.GetQuoteAPI(), &routing.ClientOptions{
		RateLimiter: c.RateLimiter,
	})
}

// listTimeout returns the time budget for fetching sources lists.
func (c *CommandContext) listTimeout(sources int) time.Duration {
	per := c.Cfg.GetListTimeout()
	if per <= 0 {
		per = defaultListTimeout
	}
	if sources < 1 {
		sources = 1
	}
	return per * time.Duration(sources)
}

// quoteTimeout returns the time budget for one quote request.
func (c *CommandContext) quoteTimeout() time.Duration {
	if d := c.Cfg.GetQuoteTimeout(); d > 0 {
		return d
	}
	return defaultQuoteTimeout
}

// contextWithTimeout returns a context bounded by d, derived from the
// command's context when it has one.
func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	return context.WithTimeout(base, d)
}
