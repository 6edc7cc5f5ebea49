// Package cache stores fetched token lists so lookups survive restarts and
// outages of the list hosts.
package cache

import (
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// DefaultStaleness is the age after which a cached list is refetched.
const DefaultStaleness = 24 * time.Hour

// Cache defines the token list cache operations.
type Cache interface {
	// Get retrieves a cached list by source.
	Get(source string) (*ListEntry, bool, time.Duration)

	// Set stores raw list JSON for a source.
	Set(source string, data []byte)

	// IsStale reports whether a source is missing or older than DefaultStaleness.
	IsStale(source string) bool

	// IsStaleWithDuration checks staleness with a custom duration.
	IsStaleWithDuration(source string, staleness time.Duration) bool

	// Delete removes a cached list.
	Delete(source string)

	// Clear removes all cached lists.
	Clear()

	// Size returns the number of cached lists.
	Size() int

	// Sources returns the cached sources in sorted order.
	Sources() []string

	// Prune removes entries older than maxAge.
	Prune(maxAge time.Duration) int
}

// Compile-time interface check
var _ Cache = (*ListCache)(nil)

// ListCache holds the raw JSON of fetched token lists keyed by source.
type ListCache struct {
	mu      sync.RWMutex         `json:"-"`
	Entries map[string]ListEntry `json:"entries"`
}

// ListEntry is one cached token list.
type ListEntry struct {
	Source    string          `json:"source"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewListCache creates an empty list cache.
func NewListCache() *ListCache {
	return &ListCache{
		Entries: make(map[string]ListEntry),
	}
}

// Get returns the entry for source, whether it exists, and its age.
func (c *ListCache) Get(source string) (*ListEntry, bool, time.Duration) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.Entries[source]
	if !exists {
		return nil, false, 0
	}

	entry.Data = append(json.RawMessage(nil), entry.Data...)
	return &entry, true, time.Since(entry.UpdatedAt)
}

// Set stores data for source, stamping it with the current time.
func (c *ListCache) Set(source string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Entries[source] = ListEntry{
		Source:    source,
		Data:      append(json.RawMessage(nil), data...),
		UpdatedAt: time.Now(),
	}
}

// IsStale checks staleness against DefaultStaleness.
func (c *ListCache) IsStale(source string) bool {
	return c.IsStaleWithDuration(source, DefaultStaleness)
}

// IsStaleWithDuration reports whether source is missing or older than staleness.
func (c *ListCache) IsStaleWithDuration(source string, staleness time.Duration) bool {
	_, exists, age := c.Get(source)
	if !exists {
		return true
	}
	return age > staleness
}

// Delete removes the entry for source.
func (c *ListCache) Delete(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.Entries, source)
}

// Clear removes all entries.
func (c *ListCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Entries = make(map[string]ListEntry)
}

// Size returns the number of entries.
func (c *ListCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.Entries)
}

// Sources returns every cached source, sorted.
func (c *ListCache) Sources() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sources := make([]string, 0, len(c.Entries))
	for source := range c.Entries {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}

// Prune removes entries older than maxAge and returns how many were removed.
func (c *ListCache) Prune(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-maxAge)

	for source, entry := range c.Entries {
		if entry.UpdatedAt.Before(cutoff) {
			delete(c.Entries, source)
			removed++
		}
	}

	return removed
}
