// Package logo resolves the image source for an asset and walks a prioritized
// list of fallbacks as sources fail to load.
package logo

import (
	"sync"

	"github.com/mrz1836/logosrc/internal/metrics"
	"github.com/mrz1836/logosrc/internal/uri"
)

// State is the fallback state of a Resolver.
type State int

// Resolver states.
const (
	// StateInitial means the initial source is in use and no fallback list exists.
	StateInitial State = iota
	// StateExploring means the fallback list is built and a candidate is current.
	StateExploring
	// StateExhausted means every candidate has failed.
	StateExhausted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateExploring:
		return "exploring"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// IconLookup returns the candidate logo URIs known for a token address.
type IconLookup interface {
	Icons(address string) []string
}

// Logger receives debug output from a Resolver.
type Logger interface {
	Debug(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Resolver tracks the current logo source for one asset instance.
// It is safe for concurrent use.
type Resolver struct {
	mu sync.Mutex

	lookup     IconLookup
	normalizer *uri.Normalizer
	bad        *BadSources
	selector   *Selector
	logger     Logger

	started  bool
	identity Identity
	backup   string
	current  string
	fallback []string
	explored bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLookup sets the token icon lookup table.
func WithLookup(l IconLookup) Option {
	return func(r *Resolver) {
		r.lookup = l
	}
}

// WithNormalizer sets the URI normalizer.
func WithNormalizer(n *uri.Normalizer) Option {
	return func(r *Resolver) {
		r.normalizer = n
	}
}

// WithBadSources replaces the process-wide bad-source set.
func WithBadSources(b *BadSources) Option {
	return func(r *Resolver) {
		r.bad = b
	}
}

// WithSelector sets the initial source selector.
func WithSelector(s *Selector) Option {
	return func(r *Resolver) {
		r.selector = s
	}
}

// WithLogger sets the debug logger.
func WithLogger(l Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver creates a Resolver. Without options it uses the default
// normalizer, DefaultBadSources, the built-in selector and no icon lookup.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.normalizer == nil {
		r.normalizer = uri.Default()
	}
	if r.bad == nil {
		r.bad = DefaultBadSources
	}
	if r.selector == nil {
		r.selector = NewSelector()
	}
	if r.logger == nil {
		r.logger = nopLogger{}
	}
	return r
}

// Resolve returns the source to render for id and the function to call when
// that source fails to load. A change of address, chain or native flag resets
// the resolver; backup is refreshed on every call without resetting.
func (r *Resolver) Resolve(id Identity, backup string) (string, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backup = backup
	if !r.started || id != r.identity {
		r.reset(id)
	}
	r.settle()

	metrics.Global.RecordResolve()
	return r.current, r.Advance
}

// Advance marks the current source bad and moves to the next candidate.
// The first call for an identity builds the fallback list; later calls rescan it.
func (r *Resolver) Advance() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != "" {
		if r.bad.Mark(r.current) {
			metrics.Global.RecordBadSource()
		}
		r.logger.Debug("logo source failed: %s", r.current)
	}

	r.next()

	exhausted := r.current == ""
	if exhausted {
		r.logger.Debug("logo sources exhausted for %s on chain %s", r.identity.Address, r.identity.ChainID)
	}
	metrics.Global.RecordAdvance(exhausted)
}

// Current returns the current source, or "" when none is available.
func (r *Resolver) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.current
}

// State returns the fallback state. A resolved identity with no current
// source is exhausted, even before the first failure.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.started && r.current == "":
		return StateExhausted
	case !r.explored:
		return StateInitial
	case r.current != "":
		return StateExploring
	default:
		return StateExhausted
	}
}

// Candidates returns a copy of the fallback list, or nil before the first failure.
func (r *Resolver) Candidates() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.explored {
		return nil
	}
	return append([]string{}, r.fallback...)
}

// reset discards derived state and selects the initial source for id.
func (r *Resolver) reset(id Identity) {
	r.started = true
	r.identity = id
	r.current = r.selector.Initial(id)
	r.fallback = nil
	r.explored = false
}

// settle moves past a current source that became bad since it was chosen,
// for example after another resolver marked the same URL.
func (r *Resolver) settle() {
	if r.current != "" && r.bad.Has(r.current) {
		r.next()
	}
}

// next selects the first non-bad candidate, building the list on first use.
func (r *Resolver) next() {
	if !r.explored {
		r.fallback = r.buildFallback()
		r.explored = true
	}
	r.current = r.bad.FirstGood(r.fallback)
}

func (r *Resolver) buildFallback() []string {
	var uris []string
	if r.lookup != nil {
		uris = append(uris, r.lookup.Icons(r.identity.Address)...)
	}
	if r.backup != "" {
		uris = append(uris, r.backup)
	}

	candidates := Prioritize(r.normalizer, uris)
	r.logger.Debug("built %d logo candidates for %s", len(candidates), r.identity.Address)
	return candidates
}
