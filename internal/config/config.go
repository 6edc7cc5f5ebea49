// Package config provides configuration management for logosrc.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/logosrc/internal/chain/eth"
	"github.com/mrz1836/logosrc/internal/fileutil"
	"github.com/mrz1836/logosrc/internal/uri"
	logoerr "github.com/mrz1836/logosrc/pkg/errors"
)

// configFilePermissions is the permission mode for the config file.
const configFilePermissions = 0o600

// Config represents the application configuration.
type Config struct {
	Version    int              `yaml:"version"`
	Home       string           `yaml:"home"`
	TokenLists TokenListsConfig `yaml:"token_lists"`
	Gateways   GatewaysConfig   `yaml:"gateways"`
	Assets     AssetsConfig     `yaml:"assets"`
	Routing    RoutingConfig    `yaml:"routing"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// TokenListsConfig defines which token lists feed the logo lookup table.
type TokenListsConfig struct {
	// Sources are list URIs or file paths, in priority order.
	Sources []string `yaml:"sources"`
	// CacheTTL is how long a fetched list is served from the cache.
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// Timeout bounds a single list fetch.
	Timeout time.Duration `yaml:"timeout"`
}

// GatewaysConfig defines content gateways for ipfs, ipns and ar locators.
type GatewaysConfig struct {
	IPFS    []string `yaml:"ipfs"`
	Arweave string   `yaml:"arweave"`
}

// AssetsConfig defines where bundled logo images are served from.
type AssetsConfig struct {
	BaseURL string `yaml:"base_url"`
	// WellKnown maps token addresses to bundled asset paths, extending or
	// correcting the built-in table.
	WellKnown map[string]string `yaml:"well_known,omitempty"`
}

// RoutingConfig defines the quote API settings.
type RoutingConfig struct {
	QuoteAPI   string        `yaml:"quote_api"`
	Preference string        `yaml:"preference"`
	Timeout    time.Duration `yaml:"timeout"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from path, layered over Defaults.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is derived from the logosrc home
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, logoerr.WithDetails(logoerr.ErrConfigNotFound, map[string]string{"path": path})
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, logoerr.Wrap(logoerr.ErrConfigInvalid, "parsing %s: %v", path, err)
	}

	return cfg, nil
}

// Save writes configuration to path, creating its directory.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), fileutil.DirPermissions); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return fileutil.WriteAtomic(path, data, configFilePermissions)
}

// Validate checks the endpoints and durations of cfg.
func (c *Config) Validate() error {
	for _, gw := range c.Gateways.IPFS {
		if err := ValidateEndpointURL(gw); err != nil {
			return logoerr.WithDetails(logoerr.ErrConfigInvalid, map[string]string{
				"field":  "gateways.ipfs",
				"value":  gw,
				"reason": err.Error(),
			})
		}
	}
	if err := ValidateEndpointURL(c.Gateways.Arweave); err != nil {
		return logoerr.WithDetails(logoerr.ErrConfigInvalid, map[string]string{
			"field":  "gateways.arweave",
			"value":  c.Gateways.Arweave,
			"reason": err.Error(),
		})
	}
	if err := ValidateEndpointURL(c.Routing.QuoteAPI); err != nil {
		return logoerr.WithDetails(logoerr.ErrConfigInvalid, map[string]string{
			"field":  "routing.quote_api",
			"value":  c.Routing.QuoteAPI,
			"reason": err.Error(),
		})
	}
	for address, asset := range c.Assets.WellKnown {
		if !eth.IsValidAddress(address) || asset == "" {
			return logoerr.WithDetails(logoerr.ErrConfigInvalid, map[string]string{
				"field":  "assets.well_known",
				"value":  address,
				"reason": "entries need a hex address and an asset path",
			})
		}
	}
	if c.TokenLists.CacheTTL < 0 || c.TokenLists.Timeout < 0 || c.Routing.Timeout < 0 {
		return logoerr.WithDetails(logoerr.ErrConfigInvalid, map[string]string{
			"reason": "durations must not be negative",
		})
	}
	return nil
}

// Path returns the config file path within home.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// CachePath returns the token list cache path within home.
func CachePath(home string) string {
	return filepath.Join(home, "cache", "lists.json")
}

// GetHome returns the home directory with a leading ~ expanded.
func (c *Config) GetHome() string {
	return ExpandHome(c.Home)
}

// GetTokenLists returns the configured list sources.
func (c *Config) GetTokenLists() []string {
	return c.TokenLists.Sources
}

// GetListCacheTTL returns how long a fetched list is served from the cache.
func (c *Config) GetListCacheTTL() time.Duration {
	return c.TokenLists.CacheTTL
}

// GetListTimeout returns the time budget for one list fetch.
func (c *Config) GetListTimeout() time.Duration {
	return c.TokenLists.Timeout
}

// GetAssetBase returns the URL prefix of bundled logo images.
func (c *Config) GetAssetBase() string {
	return c.Assets.BaseURL
}

// GetWellKnown returns the configured well-known token overrides.
func (c *Config) GetWellKnown() map[string]string {
	return c.Assets.WellKnown
}

// GetRouterPreference returns the configured router preference.
func (c *Config) GetRouterPreference() string {
	return c.Routing.Preference
}

// GetQuoteTimeout returns the time budget for one quote request.
func (c *Config) GetQuoteTimeout() time.Duration {
	return c.Routing.Timeout
}

// Normalizer returns a URI normalizer over the configured gateways.
func (c *Config) Normalizer() *uri.Normalizer {
	return uri.New(c.Gateways.IPFS, c.Gateways.Arweave)
}

// GetQuoteAPI returns the routing quote API base URL.
func (c *Config) GetQuoteAPI() string {
	return c.Routing.QuoteAPI
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// DefaultHome returns the default logosrc home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".logosrc"
	}
	return filepath.Join(home, ".logosrc")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
