package tokenlist

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mrz1836/logosrc/internal/cache"
	"github.com/mrz1836/logosrc/internal/chain"
	"github.com/mrz1836/logosrc/internal/metrics"
	"github.com/mrz1836/logosrc/internal/uri"
	logoerr "github.com/mrz1836/logosrc/pkg/errors"
)

const (
	// httpTimeout is the default HTTP request timeout.
	httpTimeout = 30 * time.Second

	// maxListSize is the largest list body read from a host (16 MB).
	maxListSize = 16 << 20

	// DefaultWorkers is the number of lists fetched concurrently by FetchAll.
	DefaultWorkers = 4
)

// Logger receives debug output from a Fetcher.
type Logger interface {
	Debug(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Fetcher downloads token lists, trying every gateway of a source in order.
// Fetched lists are stored in an optional cache, which also serves fresh
// entries and stands in when every gateway fails.
type Fetcher struct {
	normalizer  *uri.Normalizer
	httpClient  *http.Client
	rateLimiter *chain.RateLimiter
	retry       chain.RetryConfig
	cache       cache.Cache
	staleness   time.Duration
	refresh     bool
	workers     int
	logger      Logger
}

// FetcherOptions configures a Fetcher. The zero value is usable.
type FetcherOptions struct {
	// Normalizer maps list URIs to gateway URLs.
	Normalizer *uri.Normalizer
	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
	// RateLimiter overrides the per-host limiter.
	RateLimiter *chain.RateLimiter
	// Retry overrides the retry configuration for each gateway.
	Retry *chain.RetryConfig
	// Cache stores fetched lists. Nil disables caching.
	Cache cache.Cache
	// Staleness is the age after which a cached list is refetched.
	Staleness time.Duration
	// Refresh ignores fresh cache entries and always hits the network.
	Refresh bool
	// Workers bounds concurrent fetches in FetchAll.
	Workers int
	// Logger receives debug output.
	Logger Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts *FetcherOptions) *Fetcher {
	f := &Fetcher{
		normalizer: uri.Default(),
		httpClient: &http.Client{
			Timeout: httpTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
		rateLimiter: chain.DefaultRateLimiter(),
		retry:       chain.DefaultRetryConfig(),
		staleness:   cache.DefaultStaleness,
		workers:     DefaultWorkers,
		logger:      nopLogger{},
	}

	if opts == nil {
		return f
	}
	if opts.Normalizer != nil {
		f.normalizer = opts.Normalizer
	}
	if opts.HTTPClient != nil {
		f.httpClient = opts.HTTPClient
	}
	if opts.RateLimiter != nil {
		f.rateLimiter = opts.RateLimiter
	}
	if opts.Retry != nil {
		f.retry = *opts.Retry
	}
	if opts.Staleness > 0 {
		f.staleness = opts.Staleness
	}
	if opts.Workers > 0 {
		f.workers = opts.Workers
	}
	if opts.Logger != nil {
		f.logger = opts.Logger
	}
	f.cache = opts.Cache
	f.refresh = opts.Refresh

	return f
}

// Fetch returns the list at source. Sources may be http(s), ipfs, ipns or ar
// URIs, or local file paths. A list that downloads but fails validation is
// returned as an error without trying further gateways.
func (f *Fetcher) Fetch(ctx context.Context, source string) (*List, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, logoerr.WithDetails(logoerr.ErrInvalidInput, map[string]string{
			"reason": "empty token list source",
		})
	}

	if path, ok := localPath(source); ok {
		return readFile(path)
	}

	if list, ok := f.fromCache(source, false); ok {
		return list, nil
	}

	urls := f.normalizer.ToHTTP(source)
	if len(urls) == 0 {
		return nil, logoerr.WithDetails(logoerr.ErrUnsupportedURI, map[string]string{
			"source": source,
		})
	}

	start := time.Now()
	list, err := f.fetchFirst(ctx, source, urls)
	metrics.Global.RecordListFetch(time.Since(start), err)
	if err == nil {
		return list, nil
	}

	if errors.Is(err, logoerr.ErrTokenListInvalid) || ctx.Err() != nil {
		return nil, err
	}

	if stale, ok := f.fromCache(source, true); ok {
		f.logger.Debug("token list %s unavailable, using cached copy: %v", source, err)
		return stale, nil
	}
	return nil, err
}

// fetchFirst walks the gateway urls in order and returns the first list that
// downloads. The raw body is cached under source.
func (f *Fetcher) fetchFirst(ctx context.Context, source string, urls []string) (*List, error) {
	var lastErr error
	for _, u := range urls {
		data, err := f.download(ctx, u)
		if err != nil {
			f.logger.Debug("fetching token list from %s failed: %v", u, err)
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		list, err := Parse(data)
		if err != nil {
			return nil, logoerr.Wrap(err, "token list %s", source)
		}

		if f.cache != nil {
			f.cache.Set(source, data)
		}
		f.logger.Debug("fetched token list %q (%d tokens) from %s", list.Name, len(list.Tokens), u)
		return list, nil
	}

	return nil, &logoerr.LogoError{
		Code:    logoerr.ErrTokenListUnavailable.Code,
		Message: logoerr.ErrTokenListUnavailable.Message,
		Details: map[string]string{
			"source":   source,
			"gateways": strconv.Itoa(len(urls)),
		},
		Suggestion: "check the list URL or configure another IPFS gateway",
		Cause:      lastErr,
		ExitCode:   logoerr.ErrTokenListUnavailable.ExitCode,
	}
}

// download GETs a single URL with retries on transient failures.
func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	return chain.RetryWithConfig(ctx, f.retry, func() ([]byte, error) {
		if err := f.rateLimiter.WaitURL(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := f.httpClient.Do(req) //nolint:gosec // G704: URL comes from the configured list sources
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, chain.WrapRetryable(fmt.Errorf("sending request: %w", err))
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			statusErr := fmt.Errorf("%w: HTTP %d", logoerr.ErrNetworkError, resp.StatusCode)
			if chain.RetryableStatus(resp.StatusCode) {
				if err := f.honorRetryAfter(ctx, resp.Header.Get("Retry-After")); err != nil {
					return nil, err
				}
				return nil, chain.WrapRetryable(statusErr)
			}
			return nil, statusErr
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxListSize))
		if err != nil {
			return nil, chain.WrapRetryable(fmt.Errorf("reading response: %w", err))
		}
		return data, nil
	})
}

// honorRetryAfter sleeps for the server's Retry-After hint, capped at the
// retry MaxDelay, before the retry loop applies its own backoff.
func (f *Fetcher) honorRetryAfter(ctx context.Context, header string) error {
	wait := min(chain.ParseRetryAfter(header), f.retry.MaxDelay)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// fromCache returns the cached list for source. Unless allowStale is set,
// only entries younger than the staleness window are used.
func (f *Fetcher) fromCache(source string, allowStale bool) (*List, bool) {
	if f.cache == nil || (f.refresh && !allowStale) {
		return nil, false
	}

	entry, ok, age := f.cache.Get(source)
	if !ok || (!allowStale && age > f.staleness) {
		if !allowStale {
			metrics.Global.RecordCacheMiss()
		}
		return nil, false
	}

	list, err := Parse(entry.Data)
	if err != nil {
		f.logger.Debug("dropping unreadable cached list %s: %v", source, err)
		f.cache.Delete(source)
		return nil, false
	}

	if !allowStale {
		metrics.Global.RecordCacheHit()
	}
	return list, true
}

// Result is the outcome of fetching one source.
type Result struct {
	Source string
	List   *List
	Err    error
}

// FetchAll fetches every source concurrently. Results are returned in
// source order whether or not they succeeded.
func (f *Fetcher) FetchAll(ctx context.Context, sources []string) []Result {
	results := make([]Result, len(sources))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(f.workers, len(sources)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				list, err := f.Fetch(ctx, sources[i])
				results[i] = Result{Source: sources[i], List: list, Err: err}
			}
		}()
	}

	for i := range sources {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// LoadLookup fetches sources and indexes every list that loaded, in source
// order. The returned error joins the failures of individual sources; the
// table is usable even when it is non-nil.
func (f *Fetcher) LoadLookup(ctx context.Context, sources []string) (*LookupTable, error) {
	table := NewLookupTable()

	var errs []error
	for _, res := range f.FetchAll(ctx, sources) {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Source, res.Err))
			continue
		}
		table.Add(res.List)
	}

	return table, errors.Join(errs...)
}

// localPath reports whether source names a file on disk.
func localPath(source string) (string, bool) {
	if strings.HasPrefix(source, "file://") {
		return strings.TrimPrefix(source, "file://"), true
	}
	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" {
		return source, true
	}
	return "", false
}

func readFile(path string) (*List, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is a configured list source
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, logoerr.WithDetails(logoerr.ErrNotFound, map[string]string{"path": path})
		}
		return nil, fmt.Errorf("reading token list: %w", err)
	}
	return Parse(data)
}
