package logo

import (
	"strings"

	"github.com/mrz1836/logosrc/internal/chain"
)

// Asset is a bundled image path relative to the asset base URL.
type Asset string

// Bundled images.
const (
	AssetPlaceholder Asset = "images/kroma-tnbgr.png"
	AssetKromaWETH   Asset = "images/kroma-weth.png"
	AssetKromaWBTC   Asset = "images/kroma-wbtc.png"
	AssetKromaUSDC   Asset = "images/kroma-usdc.png"
	AssetKromaUSDT   Asset = "images/kroma-usdt.png"

	AssetEtherLogo Asset = "images/ethereum-logo.png"
	AssetMaticLogo Asset = "images/matic-token-icon.svg"
	AssetBNBLogo   Asset = "images/bnb-logo.svg"
	AssetCeloLogo  Asset = "images/celo-logo.svg"
)

// DefaultAssetBase is prepended to bundled asset paths.
const DefaultAssetBase = "/static/"

// NativeLogo returns the bundled logo for a chain's native currency.
func NativeLogo(id chain.ID) Asset {
	switch id.NativeCurrency() {
	case "MATIC":
		return AssetMaticLogo
	case "BNB":
		return AssetBNBLogo
	case "CELO":
		return AssetCeloLogo
	default:
		return AssetEtherLogo
	}
}

// AssetURL joins base and asset with exactly one slash between them.
func AssetURL(base string, a Asset) string {
	if base == "" {
		return string(a)
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(string(a), "/")
}
