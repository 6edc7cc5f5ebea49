package logo

import (
	"strings"

	"github.com/mrz1836/logosrc/internal/uri"
)

// coingeckoPrefix identifies the low-quality image provider.
const coingeckoPrefix = "https://assets.coingecko"

//nolint:gochecknoglobals // Immutable replacer
var coingeckoUpgrade = strings.NewReplacer("small", "large", "thumb", "large")

// Prioritize normalizes candidates and orders them for fallback.
//
// Non-coingecko URLs keep their relative order. Only the first coingecko URL
// survives, upgraded to the large image size and placed last; later coingecko
// URLs are dropped.
func Prioritize(n *uri.Normalizer, candidates []string) []string {
	urls := n.Expand(candidates)
	preferred := make([]string, 0, len(urls))

	var coingecko string
	for _, u := range urls {
		if strings.HasPrefix(u, coingeckoPrefix) {
			if coingecko == "" {
				coingecko = coingeckoUpgrade.Replace(u)
			}
			continue
		}
		preferred = append(preferred, u)
	}

	if coingecko != "" {
		preferred = append(preferred, coingecko)
	}
	return preferred
}
