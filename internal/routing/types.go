// Package routing fetches swap quotes from a routing API and derives the
// trade state a swap form displays.
package routing

import (
	"strings"
	"time"

	"github.com/mrz1836/logosrc/internal/chain"
	"github.com/mrz1836/logosrc/internal/chain/eth"
	logoerr "github.com/mrz1836/logosrc/pkg/errors"
)

// AverageL1BlockTime is the polling interval for non-price quotes.
const AverageL1BlockTime = 12 * time.Second

// PricePollingInterval is the polling interval for price-only quotes.
const PricePollingInterval = 2 * time.Minute

// TradeType says which side of a swap is exact.
type TradeType int

// Trade types.
const (
	ExactInput TradeType = iota
	ExactOutput
)

// String returns the routing API name of the trade type.
func (t TradeType) String() string {
	if t == ExactOutput {
		return "exactOut"
	}
	return "exactIn"
}

// ParseTradeType accepts "exactIn"/"exactOut" and the short forms "in"/"out".
func ParseTradeType(s string) (TradeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exactin", "in", "exact_input":
		return ExactInput, nil
	case "exactout", "out", "exact_output":
		return ExactOutput, nil
	default:
		return ExactInput, logoerr.WithDetails(logoerr.ErrInvalidTradeType, map[string]string{"input": s})
	}
}

// RouterPreference selects how a quote is obtained and how often it is refreshed.
type RouterPreference string

// Router preferences.
const (
	PreferenceAPI    RouterPreference = "api"
	PreferenceClient RouterPreference = "client"
	PreferencePrice  RouterPreference = "price"
)

// ParsePreference parses a preference name. Unknown values map to PreferenceAPI.
func ParsePreference(s string) RouterPreference {
	switch RouterPreference(strings.ToLower(strings.TrimSpace(s))) {
	case PreferenceClient:
		return PreferenceClient
	case PreferencePrice:
		return PreferencePrice
	default:
		return PreferenceAPI
	}
}

// PollingInterval returns how often quotes for pref are refreshed.
// Price quotes are informational and polled less often.
func PollingInterval(pref RouterPreference) time.Duration {
	if pref == PreferencePrice {
		return PricePollingInterval
	}
	return AverageL1BlockTime
}

// TradeState is the state of a trade derived from a quote query.
type TradeState int

// Trade states.
const (
	TradeInvalid TradeState = iota
	TradeLoading
	TradeNoRouteFound
	TradeSyncing
	TradeValid
)

// String returns the state name.
func (s TradeState) String() string {
	switch s {
	case TradeLoading:
		return "LOADING"
	case TradeNoRouteFound:
		return "NO_ROUTE_FOUND"
	case TradeSyncing:
		return "SYNCING"
	case TradeValid:
		return "VALID"
	default:
		return "INVALID"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s TradeState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// wrappedNative holds the wrapped token used in routes for each native currency.
//
//nolint:gochecknoglobals // Static chain table
var wrappedNative = map[chain.ID]string{
	chain.Ethereum:        "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
	chain.Optimism:        "0x4200000000000000000000000000000000000006",
	chain.BNB:             "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c",
	chain.Polygon:         "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270",
	chain.Kroma:           "0x4200000000000000000000000000000000000001",
	chain.KromaDeprecated: "0x4200000000000000000000000000000000000001",
	chain.KromaSepolia:    "0x4200000000000000000000000000000000000001",
	chain.Arbitrum:        "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1",
	chain.Celo:            "0x471EcE3750Da237f93B8E339c536989b8978a438",
}

// Currency is a token or a chain's native currency.
type Currency struct {
	ChainID  chain.ID `json:"chainId"`
	Address  string   `json:"address,omitempty"`
	Symbol   string   `json:"symbol"`
	Decimals int      `json:"decimals"`
	IsNative bool     `json:"isNative,omitempty"`
}

// Native returns the native currency of id.
func Native(id chain.ID) Currency {
	return Currency{ChainID: id, Symbol: id.NativeCurrency(), Decimals: 18, IsNative: true}
}

// WrappedAddress returns the token address used for c in routes: the wrapped
// native token for native currencies, otherwise c's own address. It is ""
// when no wrapped token is known for the chain.
func (c Currency) WrappedAddress() string {
	if c.IsNative {
		return wrappedNative[c.ChainID]
	}
	return c.Address
}

// Equals reports whether c and other are the same currency on the same chain.
func (c Currency) Equals(other Currency) bool {
	if c.ChainID != other.ChainID || c.IsNative != other.IsNative {
		return false
	}
	return c.IsNative || eth.Lower(c.Address) == eth.Lower(other.Address)
}

// sameAddress compares two token addresses case-insensitively.
func sameAddress(a, b string) bool {
	return a != "" && eth.Lower(a) == eth.Lower(b)
}
