package tokenlist

import (
	"slices"
	"strings"
	"sync"

	"github.com/mrz1836/logosrc/internal/chain/eth"
)

// LookupTable maps a lowercased token address to the logo URIs declared for
// it across every loaded list, in list order and without duplicates.
// The chain of a token is not part of the key. It is safe for concurrent use.
type LookupTable struct {
	mu    sync.RWMutex
	icons map[string][]string
}

// NewLookupTable builds a table from lists in order.
func NewLookupTable(lists ...*List) *LookupTable {
	t := &LookupTable{icons: make(map[string][]string)}
	for _, list := range lists {
		t.Add(list)
	}
	return t
}

// Add indexes the logo URIs of list. Tokens without a logo URI are skipped.
func (t *LookupTable) Add(list *List) {
	if list == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, token := range list.Tokens {
		logoURI := strings.TrimSpace(token.LogoURI)
		if logoURI == "" {
			continue
		}
		key := eth.Lower(token.Address)
		if !slices.Contains(t.icons[key], logoURI) {
			t.icons[key] = append(t.icons[key], logoURI)
		}
	}
}

// Icons returns a copy of the logo URIs for address, matched case-insensitively.
// Unknown addresses yield nil.
func (t *LookupTable) Icons(address string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	icons, ok := t.icons[eth.Lower(address)]
	if !ok {
		return nil
	}
	return append([]string(nil), icons...)
}

// Size returns the number of indexed addresses.
func (t *LookupTable) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.icons)
}
