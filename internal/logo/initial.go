package logo

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/mrz1836/logosrc/internal/chain"
	"github.com/mrz1836/logosrc/internal/chain/eth"
)

// Identity identifies a fungible asset on a chain.
// A zero ChainID means the chain is unknown.
type Identity struct {
	Address  string   `json:"address,omitempty"`
	ChainID  chain.ID `json:"chain_id,omitempty"`
	IsNative bool     `json:"is_native"`
}

// NativeResolver returns the logo for a chain's native currency, or "".
type NativeResolver func(id chain.ID) string

// Selector picks the first-paint image for an asset before any fallback.
type Selector struct {
	assetBase string
	native    NativeResolver
	wellKnown map[common.Address]Asset
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithAssetBase sets the URL prefix for bundled assets.
func WithAssetBase(base string) SelectorOption {
	return func(s *Selector) {
		s.assetBase = base
	}
}

// WithNativeResolver replaces the native-currency logo lookup.
func WithNativeResolver(fn NativeResolver) SelectorOption {
	return func(s *Selector) {
		s.native = fn
	}
}

// NewSelector creates a Selector with the built-in Kroma table.
func NewSelector(opts ...SelectorOption) *Selector {
	s := &Selector{
		assetBase: DefaultAssetBase,
		wellKnown: defaultWellKnown(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.native == nil {
		s.native = func(id chain.ID) string {
			return s.AssetURL(NativeLogo(id))
		}
	}
	return s
}

// AssetURL returns the full reference for a bundled asset.
func (s *Selector) AssetURL(a Asset) string {
	return AssetURL(s.assetBase, a)
}

// Initial returns the initial image source for id. The first matching rule wins:
// native currency with a known chain, then the well-known token table, then the
// placeholder. Only a custom NativeResolver can make the result empty.
func (s *Selector) Initial(id Identity) string {
	if id.IsNative && id.ChainID.IsSet() {
		return s.native(id.ChainID)
	}

	// Invalid addresses simply do not match the table
	if addr, err := eth.ParseAddress(id.Address); err == nil {
		if a, ok := s.wellKnown[addr]; ok {
			return s.AssetURL(a)
		}
	}

	return s.AssetURL(AssetPlaceholder)
}
