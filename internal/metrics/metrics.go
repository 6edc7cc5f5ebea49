// Package metrics provides application-level metrics collection.
// Counters are atomic so resolvers on any goroutine can record into Global.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics holds application metrics using atomic counters.
type Metrics struct {
	// Logo resolution
	resolvesTotal   atomic.Int64
	advancesTotal   atomic.Int64
	badSourcesTotal atomic.Int64
	exhaustedTotal  atomic.Int64

	// Token list fetches
	listFetchesTotal atomic.Int64
	listFetchErrors  atomic.Int64
	listLatencyNanos atomic.Int64
	listCacheHits    atomic.Int64
	listCacheMisses  atomic.Int64

	// Routing quotes
	quoteCallsTotal   atomic.Int64
	quoteErrorsTotal  atomic.Int64
	quoteLatencyNanos atomic.Int64
}

// Global is the process-wide metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordResolve records a resolve call.
func (m *Metrics) RecordResolve() {
	m.resolvesTotal.Add(1)
}

// RecordAdvance records an advance after a load failure. exhausted is true
// when no candidate remained.
func (m *Metrics) RecordAdvance(exhausted bool) {
	m.advancesTotal.Add(1)
	if exhausted {
		m.exhaustedTotal.Add(1)
	}
}

// RecordBadSource records a URL newly added to the bad-source set.
func (m *Metrics) RecordBadSource() {
	m.badSourcesTotal.Add(1)
}

// RecordListFetch records a token list download.
func (m *Metrics) RecordListFetch(duration time.Duration, err error) {
	m.listFetchesTotal.Add(1)
	m.listLatencyNanos.Add(duration.Nanoseconds())
	if err != nil {
		m.listFetchErrors.Add(1)
	}
}

// RecordCacheHit records a token list cache hit.
func (m *Metrics) RecordCacheHit() {
	m.listCacheHits.Add(1)
}

// RecordCacheMiss records a token list cache miss.
func (m *Metrics) RecordCacheMiss() {
	m.listCacheMisses.Add(1)
}

// RecordQuote records a routing API call.
func (m *Metrics) RecordQuote(duration time.Duration, err error) {
	m.quoteCallsTotal.Add(1)
	m.quoteLatencyNanos.Add(duration.Nanoseconds())
	if err != nil {
		m.quoteErrorsTotal.Add(1)
	}
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	ResolvesTotal     int64 `json:"resolves_total"`
	AdvancesTotal     int64 `json:"advances_total"`
	BadSourcesTotal   int64 `json:"bad_sources_total"`
	ExhaustedTotal    int64 `json:"exhausted_total"`
	ListFetchesTotal  int64 `json:"list_fetches_total"`
	ListFetchErrors   int64 `json:"list_fetch_errors"`
	ListLatencyNanos  int64 `json:"list_latency_nanos"`
	ListCacheHits     int64 `json:"list_cache_hits"`
	ListCacheMisses   int64 `json:"list_cache_misses"`
	QuoteCallsTotal   int64 `json:"quote_calls_total"`
	QuoteErrorsTotal  int64 `json:"quote_errors_total"`
	QuoteLatencyNanos int64 `json:"quote_latency_nanos"`
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		ResolvesTotal:     m.resolvesTotal.Load(),
		AdvancesTotal:     m.advancesTotal.Load(),
		BadSourcesTotal:   m.badSourcesTotal.Load(),
		ExhaustedTotal:    m.exhaustedTotal.Load(),
		ListFetchesTotal:  m.listFetchesTotal.Load(),
		ListFetchErrors:   m.listFetchErrors.Load(),
		ListLatencyNanos:  m.listLatencyNanos.Load(),
		ListCacheHits:     m.listCacheHits.Load(),
		ListCacheMisses:   m.listCacheMisses.Load(),
		QuoteCallsTotal:   m.quoteCallsTotal.Load(),
		QuoteErrorsTotal:  m.quoteErrorsTotal.Load(),
		QuoteLatencyNanos: m.quoteLatencyNanos.Load(),
	}
}

// ListLatencyAvgMs returns the average token list fetch latency in milliseconds.
// Returns 0 if no fetches have been made.
func (m *Metrics) ListLatencyAvgMs() float64 {
	calls := m.listFetchesTotal.Load()
	if calls == 0 {
		return 0
	}
	return float64(m.listLatencyNanos.Load()) / float64(calls) / 1e6
}

// CacheHitRate returns the token list cache hit rate as a percentage (0-100).
func (m *Metrics) CacheHitRate() float64 {
	hits := m.listCacheHits.Load()
	total := hits + m.listCacheMisses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Reset resets all metrics to zero.
func (m *Metrics) Reset() {
	m.resolvesTotal.Store(0)
	m.advancesTotal.Store(0)
	m.badSourcesTotal.Store(0)
	m.exhaustedTotal.Store(0)
	m.listFetchesTotal.Store(0)
	m.listFetchErrors.Store(0)
	m.listLatencyNanos.Store(0)
	m.listCacheHits.Store(0)
	m.listCacheMisses.Store(0)
	m.quoteCallsTotal.Store(0)
	m.quoteErrorsTotal.Store(0)
	m.quoteLatencyNanos.Store(0)
}
