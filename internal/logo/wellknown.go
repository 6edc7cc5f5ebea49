package logo

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/mrz1836/logosrc/internal/chain/eth"
)

// Well-known Kroma token addresses with bundled images. WETH is the OP stack
// predeploy, shared by the current and deprecated Kroma chains. The other
// entries can be corrected or extended with WithWellKnown.
//
//nolint:gochecknoglobals // Static token table
var (
	KromaWETH = common.HexToAddress("0x4200000000000000000000000000000000000001")
	KromaWBTC = common.HexToAddress("0x2F73e2d4b2e3C5A5cF2E5bE3bd3B9c8f5b2d7e01")
	KromaUSDC = common.HexToAddress("0x0257e4d92C00C9EfcCa1d641b224d7d09cfa4522")
	KromaUSDT = common.HexToAddress("0x0Cf7c2A584988871b654Bd79f96899e4cd6C41C0")
	KromaTKRO = common.HexToAddress("0x8C2b5C1F4E6b3C1aD2f6C3bDd5F1fE2A9E3a9B10")
)

// defaultWellKnown maps token addresses to their bundled image.
// WETH and TKRO share the WETH image.
func defaultWellKnown() map[common.Address]Asset {
	return map[common.Address]Asset{
		KromaWETH: AssetKromaWETH,
		KromaWBTC: AssetKromaWBTC,
		KromaUSDC: AssetKromaUSDC,
		KromaUSDT: AssetKromaUSDT,
		KromaTKRO: AssetKromaWETH,
	}
}

// WithWellKnown adds or replaces entries of the well-known token table.
// Keys are hex addresses and values are asset paths relative to the asset
// base. Entries with an invalid address or an empty asset are skipped.
func WithWellKnown(entries map[string]string) SelectorOption {
	return func(s *Selector) {
		for address, asset := range entries {
			addr, err := eth.ParseAddress(address)
			if err != nil || asset == "" {
				continue
			}
			s.wellKnown[addr] = Asset(asset)
		}
	}
}
