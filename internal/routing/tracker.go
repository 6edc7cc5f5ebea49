package routing

import (
	"context"
	"sync"
	"time"

	logoerr "github.com/mrz1836/logosrc/pkg/errors"
)

// Quoter fetches quotes. *Client implements it.
type Quoter interface {
	GetQuote(ctx context.Context, req QuoteRequest) (*Quote, error)
}

// Logger receives debug output from a Tracker.
type Logger interface {
	Debug(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// blockObserver is implemented by validators that learn from quoted blocks.
type blockObserver interface {
	Observe(block uint64)
}

// Tracker polls quotes for the current request and keeps the query state
// that ComputeTrade consumes. It is safe for concurrent use.
type Tracker struct {
	quoter    Quoter
	validator BlockValidator
	interval  time.Duration
	logger    Logger

	mu      sync.Mutex
	req     *QuoteRequest
	key     string
	state   QueryState
	refetch chan struct{}
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithValidator sets the block validator. The default is a BlockWindow with
// no tolerance fed by the blocks of received quotes.
func WithValidator(v BlockValidator) TrackerOption {
	return func(t *Tracker) {
		t.validator = v
	}
}

// WithInterval overrides the polling interval derived from the preference.
func WithInterval(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		t.interval = d
	}
}

// WithLogger sets the debug logger.
func WithLogger(l Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = l
	}
}

// NewTracker creates a Tracker over quoter.
func NewTracker(quoter Quoter, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		quoter:  quoter,
		refetch: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.validator == nil {
		t.validator = NewBlockWindow(0)
	}
	if t.logger == nil {
		t.logger = nopLogger{}
	}
	return t
}

// SetRequest changes the query arguments. ok=false clears them and skips
// polling. A changed request drops CurrentData and triggers an immediate
// refetch; the previous Data is kept until the new result arrives.
func (t *Tracker) SetRequest(req QuoteRequest, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !ok {
		t.req, t.key, t.state = nil, "", QueryState{}
		return
	}

	key := req.Key()
	if t.req != nil && key == t.key {
		return
	}

	t.req, t.key = &req, key
	t.state.CurrentData = nil
	t.state.IsError = false
	t.state.IsLoading = t.state.Data == nil

	select {
	case t.refetch <- struct{}{}:
	default:
	}
}

// State returns a snapshot of the query state.
func (t *Tracker) State() QueryState {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

// Trade computes the trade for args from the current query state.
func (t *Tracker) Trade(args TradeArgs) TradeResult {
	result := ComputeTrade(args, t.State(), t.validator)
	if result.Err != nil {
		t.logger.Debug("trade %s: %v", result.State, result.Err)
	}
	return result
}

// Interval returns the polling interval for the current request.
func (t *Tracker) Interval() time.Duration {
	if t.interval > 0 {
		return t.interval
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.req == nil {
		return PollingInterval(PreferenceAPI)
	}
	return PollingInterval(t.req.Preference)
}

// Poll fetches one quote for the current request. Results for a request
// that was replaced while in flight are discarded.
func (t *Tracker) Poll(ctx context.Context) error {
	t.mu.Lock()
	if t.req == nil {
		t.mu.Unlock()
		return nil
	}
	req, key := *t.req, t.key
	t.mu.Unlock()

	quote, err := t.quoter.GetQuote(ctx, req)
	if err == nil && quote == nil {
		err = logoerr.ErrNoRoute
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if key != t.key {
		t.logger.Debug("discarding quote for replaced request %s", key)
		return nil
	}

	t.state.IsLoading = false
	if err != nil {
		t.state.IsError = true
		t.state.CurrentData = nil
		t.logger.Debug("quote for %s failed: %v", key, err)
		return err
	}

	if obs, ok := t.validator.(blockObserver); ok {
		obs.Observe(quote.Block())
	}
	t.state.IsError = false
	t.state.Data = quote
	t.state.CurrentData = quote
	t.logger.Debug("quote %s at block %s for %s", quote.QuoteID, quote.BlockNumber, key)
	return nil
}

// Run polls until ctx is done: immediately, then every Interval and
// whenever the request changes. Poll errors are recorded in the state and
// do not stop the loop.
func (t *Tracker) Run(ctx context.Context) error {
	interval := t.Interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	_ = t.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-t.refetch:
			interval = t.Interval()
			ticker.Reset(interval)
		}
		_ = t.Poll(ctx)
	}
}
