package config

import (
	"time"

	"github.com/mrz1836/logosrc/internal/uri"
)

// DefaultQuoteAPI is the default routing quote API base URL.
const DefaultQuoteAPI = "https://api.kromaswap.exchange/v1"

// DefaultTokenLists are fetched when no sources are configured.
//
//nolint:gochecknoglobals // Configuration default, same pattern as DefaultQuoteAPI
var DefaultTokenLists = []string{
	"https://raw.githubusercontent.com/kroma-network/kroma-tokenlist/main/kroma.tokenlist.json",
	"https://tokens.coingecko.com/uniswap/all.json",
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.logosrc",
		TokenLists: TokenListsConfig{
			Sources:  append([]string(nil), DefaultTokenLists...),
			CacheTTL: 24 * time.Hour,
			Timeout:  30 * time.Second,
		},
		Gateways: GatewaysConfig{
			IPFS:    append([]string(nil), uri.DefaultIPFSGateways...),
			Arweave: uri.DefaultArweaveGateway,
		},
		Assets: AssetsConfig{
			BaseURL: "/static/",
		},
		Routing: RoutingConfig{
			QuoteAPI:   DefaultQuoteAPI,
			Preference: "api",
			Timeout:    15 * time.Second,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.logosrc/logosrc.log",
		},
	}
}
