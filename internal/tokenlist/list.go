// Package tokenlist fetches token lists and indexes their logo URIs by address.
package tokenlist

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mrz1836/logosrc/internal/chain"
	"github.com/mrz1836/logosrc/internal/chain/eth"
	logoerr "github.com/mrz1836/logosrc/pkg/errors"
)

// maxDecimals is the largest decimals value a token may declare.
const maxDecimals = 255

// List is a token list document.
type List struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Version   Version   `json:"version"`
	Tokens    []Token   `json:"tokens"`
	LogoURI   string    `json:"logoURI,omitempty"`
	Keywords  []string  `json:"keywords,omitempty"`
}

// Version is the semantic version of a list.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// String returns the version as major.minor.patch.
func (v Version) String() string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Patch)
}

// Token is a single token entry of a list.
type Token struct {
	ChainID  chain.ID `json:"chainId"`
	Address  string   `json:"address"`
	Name     string   `json:"name"`
	Symbol   string   `json:"symbol"`
	Decimals int      `json:"decimals"`
	LogoURI  string   `json:"logoURI,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Parse decodes and validates a token list. A list must have a name and a
// tokens array; every token needs a chain id, a valid address, a symbol and
// decimals in [0, 255]. Checksums are not enforced.
func Parse(data []byte) (*List, error) {
	var list List
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, logoerr.Wrap(logoerr.ErrTokenListInvalid, "decoding token list: %v", err)
	}

	if strings.TrimSpace(list.Name) == "" {
		return nil, logoerr.WithDetails(logoerr.ErrTokenListInvalid, map[string]string{
			"reason": "missing name",
		})
	}
	if list.Tokens == nil {
		return nil, logoerr.WithDetails(logoerr.ErrTokenListInvalid, map[string]string{
			"list":   list.Name,
			"reason": "missing tokens",
		})
	}

	for i, token := range list.Tokens {
		if err := token.validate(); err != nil {
			return nil, logoerr.WithDetails(logoerr.ErrTokenListInvalid, map[string]string{
				"list":   list.Name,
				"index":  strconv.Itoa(i),
				"reason": err.Error(),
			})
		}
	}

	return &list, nil
}

func (t Token) validate() error {
	switch {
	case !t.ChainID.IsSet():
		return fmt.Errorf("token %q has no chainId", t.Symbol)
	case !eth.IsValidAddress(t.Address):
		return fmt.Errorf("token %q has invalid address %q", t.Symbol, t.Address)
	case strings.TrimSpace(t.Symbol) == "":
		return fmt.Errorf("token %s has no symbol", t.Address)
	case t.Decimals < 0 || t.Decimals > maxDecimals:
		return fmt.Errorf("token %q has decimals %d out of range", t.Symbol, t.Decimals)
	}
	return nil
}

// LogoCount returns the number of tokens that carry a logo URI.
func (l *List) LogoCount() int {
	n := 0
	for _, token := range l.Tokens {
		if token.LogoURI != "" {
			n++
		}
	}
	return n
}
