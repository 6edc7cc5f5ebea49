package logo

import "sync"

// BadSources is a monotonic set of resolved URLs that failed to load.
// Entries are never removed.
type BadSources struct {
	mu   sync.RWMutex
	urls map[string]struct{}
}

// DefaultBadSources is shared by every Resolver that is not given its own set,
// so a URL that fails for one asset is skipped for all assets for the life of
// the process.
//
//nolint:gochecknoglobals // Process-wide failure memory
var DefaultBadSources = NewBadSources()

// NewBadSources creates an empty set.
func NewBadSources() *BadSources {
	return &BadSources{urls: make(map[string]struct{})}
}

// Mark records url as bad. Returns true if it was not already marked.
// Empty URLs are ignored.
func (b *BadSources) Mark(url string) bool {
	if url == "" {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.urls[url]; ok {
		return false
	}
	b.urls[url] = struct{}{}
	return true
}

// Has reports whether url has been marked bad.
func (b *BadSources) Has(url string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.urls[url]
	return ok
}

// FirstGood returns the first candidate not marked bad, or "" if none.
func (b *BadSources) FirstGood(candidates []string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, c := range candidates {
		if _, bad := b.urls[c]; !bad {
			return c
		}
	}
	return ""
}

// Len returns the number of bad URLs.
func (b *BadSources) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.urls)
}
