// Package chain provides EVM chain identifiers, native currency metadata,
// and the retry and rate-limit helpers shared by the network clients.
package chain

import (
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	logoerr "github.com/mrz1836/logosrc/pkg/errors"
)

// ID is an EVM chain identifier (EIP-155). The zero value means "unset".
type ID uint64

// Known chain identifiers.
const (
	Ethereum        ID = 1
	Optimism        ID = 10
	BNB             ID = 56
	Polygon         ID = 137
	Kroma           ID = 255
	KromaDeprecated ID = 2357
	KromaSepolia    ID = 2358
	Arbitrum        ID = 42161
	Celo            ID = 42220
)

// maxSuggestionDistance bounds how far a mistyped chain name may be from a
// known name before no suggestion is offered.
const maxSuggestionDistance = 3

//nolint:gochecknoglobals // Static lookup table
var chainNames = map[ID]string{
	Ethereum:        "ethereum",
	Optimism:        "optimism",
	BNB:             "bnb",
	Polygon:         "polygon",
	Kroma:           "kroma",
	KromaDeprecated: "kroma-deprecated",
	KromaSepolia:    "kroma-sepolia",
	Arbitrum:        "arbitrum",
	Celo:            "celo",
}

// String returns the chain name, or the decimal id for unknown chains.
func (id ID) String() string {
	if name, ok := chainNames[id]; ok {
		return name
	}
	return strconv.FormatUint(uint64(id), 10)
}

// IsSet returns true if the id is non-zero.
func (id ID) IsSet() bool {
	return id != 0
}

// IsKnown returns true if the chain is in the built-in table.
func (id ID) IsKnown() bool {
	_, ok := chainNames[id]
	return ok
}

// NativeCurrency returns the symbol of the chain's native currency.
// Unknown chains are assumed to be ether-denominated rollups.
func (id ID) NativeCurrency() string {
	switch id {
	case Polygon:
		return "MATIC"
	case BNB:
		return "BNB"
	case Celo:
		return "CELO"
	default:
		return "ETH"
	}
}

// AllChains returns every known chain, ordered by id.
func AllChains() []ID {
	ids := make([]ID, 0, len(chainNames))
	for id := range chainNames {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ParseID parses a chain name ("kroma") or decimal id ("255").
// Numeric ids are accepted even when not in the built-in table.
// Unknown names return ErrUnsupportedChain with a suggestion when a
// known name is close enough.
func ParseID(s string) (ID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, logoerr.ErrInvalidChainID
	}

	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		if n == 0 {
			return 0, logoerr.WithDetails(logoerr.ErrInvalidChainID, map[string]string{"chain": s})
		}
		return ID(n), nil
	}

	for id, name := range chainNames {
		if name == s {
			return id, nil
		}
	}

	err := logoerr.WithDetails(logoerr.ErrUnsupportedChain, map[string]string{"chain": s})
	if suggestion := Suggest(s); suggestion != "" {
		err = logoerr.WithSuggestion(err, "did you mean '"+suggestion+"'?")
	}
	return 0, err
}

// Suggest returns the known chain name closest to input, or "" if none is close.
func Suggest(input string) string {
	best := ""
	bestDist := maxSuggestionDistance + 1
	for _, id := range AllChains() {
		name := chainNames[id]
		dist := levenshtein.ComputeDistance(input, name)
		if dist < bestDist {
			best, bestDist = name, dist
		}
	}
	return best
}
