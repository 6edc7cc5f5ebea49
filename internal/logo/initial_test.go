package logo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/logosrc/internal/chain"
)

func TestSelectorInitial(t *testing.T) {
	t.Parallel()

	s := NewSelector()

	tests := []struct {
		name string
		id   Identity
		want string
	}{
		{
			name: "native currency on kroma uses native logo",
			id:   Identity{Address: KromaUSDC.Hex(), ChainID: chain.Kroma, IsNative: true},
			want: "/static/images/ethereum-logo.png",
		},
		{
			name: "native currency on polygon",
			id:   Identity{ChainID: chain.Polygon, IsNative: true},
			want: "/static/images/matic-token-icon.svg",
		},
		{
			name: "wrapped native token is not the native path",
			id:   Identity{Address: KromaWETH.Hex(), ChainID: chain.Kroma},
			want: "/static/images/kroma-weth.png",
		},
		{
			name: "lowercase address matches",
			id:   Identity{Address: strings.ToLower(KromaWBTC.Hex()), ChainID: chain.Kroma},
			want: "/static/images/kroma-wbtc.png",
		},
		{
			name: "usdc",
			id:   Identity{Address: KromaUSDC.Hex(), ChainID: chain.Kroma},
			want: "/static/images/kroma-usdc.png",
		},
		{
			name: "usdt",
			id:   Identity{Address: KromaUSDT.Hex(), ChainID: chain.Kroma},
			want: "/static/images/kroma-usdt.png",
		},
		{
			name: "utility token shares the wrapped native image",
			id:   Identity{Address: KromaTKRO.Hex(), ChainID: chain.Kroma},
			want: "/static/images/kroma-weth.png",
		},
		{
			name: "native flag without chain falls through to table",
			id:   Identity{Address: KromaWETH.Hex(), IsNative: true},
			want: "/static/images/kroma-weth.png",
		},
		{
			name: "unknown token gets placeholder",
			id:   Identity{Address: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", ChainID: chain.Kroma},
			want: "/static/images/kroma-tnbgr.png",
		},
		{
			name: "invalid address gets placeholder",
			id:   Identity{Address: "not-an-address", ChainID: chain.Kroma},
			want: "/static/images/kroma-tnbgr.png",
		},
		{
			name: "bad checksum gets placeholder",
			id:   Identity{Address: "0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"},
			want: "/static/images/kroma-tnbgr.png",
		},
		{
			name: "empty identity gets placeholder",
			id:   Identity{},
			want: "/static/images/kroma-tnbgr.png",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, s.Initial(tc.id))
		})
	}
}

func TestSelectorNativeResolver(t *testing.T) {
	t.Parallel()

	s := NewSelector(WithNativeResolver(func(id chain.ID) string {
		if id == chain.Kroma {
			return "https://cdn.example/kroma-eth.png"
		}
		return ""
	}))

	// Native resolver wins regardless of address
	assert.Equal(t, "https://cdn.example/kroma-eth.png",
		s.Initial(Identity{Address: KromaWETH.Hex(), ChainID: chain.Kroma, IsNative: true}))

	// An unset result is returned as-is
	assert.Empty(t, s.Initial(Identity{ChainID: chain.Ethereum, IsNative: true}))
}

func TestSelectorAssetBase(t *testing.T) {
	t.Parallel()

	s := NewSelector(WithAssetBase("https://app.example/assets/"))
	assert.Equal(t, "https://app.example/assets/images/kroma-tnbgr.png", s.Initial(Identity{}))

	assert.Equal(t, "images/kroma-weth.png", AssetURL("", AssetKromaWETH))
}

func TestSelectorWellKnownOverrides(t *testing.T) {
	t.Parallel()

	const bridged = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

	s := NewSelector(WithWellKnown(map[string]string{
		strings.ToLower(bridged): "images/bridged.png",
		KromaWBTC.Hex():          string(AssetKromaUSDT),
		"not-an-address":         "images/ignored.png",
		KromaUSDC.Hex():          "",
	}))

	assert.Equal(t, "/static/images/bridged.png", s.Initial(Identity{Address: bridged, ChainID: chain.Kroma}))
	assert.Equal(t, "/static/images/kroma-usdt.png", s.Initial(Identity{Address: KromaWBTC.Hex()}))
	assert.Equal(t, "/static/images/kroma-usdc.png", s.Initial(Identity{Address: KromaUSDC.Hex()}))
	assert.Equal(t, "/static/images/kroma-weth.png", s.Initial(Identity{Address: KromaWETH.Hex()}))

	// Overrides never leak into other selectors
	assert.Equal(t, "/static/images/kroma-tnbgr.png", NewSelector().Initial(Identity{Address: bridged}))
	assert.Len(t, defaultWellKnown(), 5)
}

func TestNativeLogo(t *testing.T) {
	t.Parallel()

	assert.Equal(t, AssetEtherLogo, NativeLogo(chain.Kroma))
	assert.Equal(t, AssetBNBLogo, NativeLogo(chain.BNB))
	assert.Equal(t, AssetCeloLogo, NativeLogo(chain.Celo))
}
