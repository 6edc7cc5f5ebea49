package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/logosrc/internal/config"
	"github.com/mrz1836/logosrc/internal/uri"
	logoerr "github.com/mrz1836/logosrc/pkg/errors"
)

func TestDefaults(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "~/.logosrc", cfg.Home)
	assert.Equal(t, config.DefaultTokenLists, cfg.TokenLists.Sources)
	assert.Equal(t, 24*time.Hour, cfg.TokenLists.CacheTTL)
	assert.Equal(t, uri.DefaultIPFSGateways, cfg.Gateways.IPFS)
	assert.Equal(t, uri.DefaultArweaveGateway, cfg.Gateways.Arweave)
	assert.Equal(t, "/static/", cfg.Assets.BaseURL)
	assert.Equal(t, config.DefaultQuoteAPI, cfg.GetQuoteAPI())
	assert.Equal(t, "api", cfg.Routing.Preference)
	assert.Equal(t, "auto", cfg.GetOutputFormat())
	assert.Equal(t, "error", cfg.GetLoggingLevel())
	assert.False(t, cfg.IsVerbose())
	require.NoError(t, cfg.Validate())
}

func TestDefaults_ListsAreCopies(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()
	cfg.TokenLists.Sources[0] = "mutated"
	cfg.Gateways.IPFS[0] = "mutated"

	fresh := config.Defaults()
	assert.NotEqual(t, "mutated", fresh.TokenLists.Sources[0])
	assert.NotEqual(t, "mutated", fresh.Gateways.IPFS[0])
}

func TestConfig_Normalizer(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()
	cfg.Gateways.IPFS = []string{"https://gw.example/"}

	assert.Equal(t, []string{"https://gw.example/ipfs/QmHash/"}, cfg.Normalizer().ToHTTP("ipfs://QmHash"))
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()
	_, err := config.Load("/nonexistent/config.yaml")
	require.ErrorIs(t, err, logoerr.ErrConfigNotFound)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("invalid: yaml: content: ["), 0o600))

	_, err := config.Load(path)
	require.ErrorIs(t, err, logoerr.ErrConfigInvalid)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
token_lists:
  sources:
    - ipfs://QmKromaList
  cache_ttl: 2h
routing:
  quote_api: http://localhost:8080
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"ipfs://QmKromaList"}, cfg.GetTokenLists())
	assert.Equal(t, 2*time.Hour, cfg.TokenLists.CacheTTL)
	assert.Equal(t, "http://localhost:8080", cfg.Routing.QuoteAPI)
	assert.Equal(t, uri.DefaultIPFSGateways, cfg.Gateways.IPFS)
	assert.Equal(t, "auto", cfg.Output.DefaultFormat)
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "subdir", "config.yaml")

	cfg := config.Defaults()
	cfg.TokenLists.Sources = []string{"./lists/kroma.json"}
	cfg.Routing.Timeout = 5 * time.Second
	require.NoError(t, config.Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"insecure gateway", func(c *config.Config) { c.Gateways.IPFS = []string{"http://gw.example"} }, "gateways.ipfs"},
		{"bad arweave", func(c *config.Config) { c.Gateways.Arweave = "ftp://arweave.net" }, "gateways.arweave"},
		{"bad quote api", func(c *config.Config) { c.Routing.QuoteAPI = "not a url" }, "routing.quote_api"},
		{"negative ttl", func(c *config.Config) { c.TokenLists.CacheTTL = -time.Second }, ""},
		{"bad well-known address", func(c *config.Config) {
			c.Assets.WellKnown = map[string]string{"0x1234": "images/a.png"}
		}, "assets.well_known"},
		{"empty well-known asset", func(c *config.Config) {
			c.Assets.WellKnown = map[string]string{"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed": ""}
		}, "assets.well_known"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Defaults()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, logoerr.ErrConfigInvalid)
			if tc.field != "" {
				assert.Contains(t, err.Error(), tc.field)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/home/user/.logosrc/config.yaml", config.Path("/home/user/.logosrc"))
	assert.Equal(t, "/home/user/.logosrc/cache/lists.json", config.CachePath("/home/user/.logosrc"))
}

func TestDefaultHome(t *testing.T) {
	t.Parallel()
	assert.Contains(t, config.DefaultHome(), ".logosrc")
}

func TestExpandHome(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".logosrc"), config.ExpandHome("~/.logosrc"))
	assert.Equal(t, "/abs/path", config.ExpandHome("/abs/path"))
	assert.Equal(t, "~user/x", config.ExpandHome("~user/x"))

	cfg := config.Defaults()
	assert.Equal(t, filepath.Join(home, ".logosrc"), cfg.GetHome())
}
