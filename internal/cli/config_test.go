package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/logosrc/internal/config"
	"github.com/mrz1836/logosrc/internal/output"
	logoerr "github.com/mrz1836/logosrc/pkg/errors"
)

func TestGetConfigValue(t *testing.T) {
	t.Parallel()

	testCfg := config.Defaults()
	testCfg.Home = "/test/home"
	testCfg.TokenLists.Sources = []string{"ipns://tokens.uniswap.org", "./local.json"}
	testCfg.TokenLists.CacheTTL = 2 * time.Hour
	testCfg.Gateways.IPFS = []string{"https://gw1.example", "https://gw2.example"}
	testCfg.Routing.QuoteAPI = "https://quotes.example/v1"
	testCfg.Routing.Preference = "price"
	testCfg.Output.DefaultFormat = "json"
	testCfg.Output.Verbose = true
	testCfg.Logging.Level = "debug"
	testCfg.Logging.File = "/var/log/logosrc.log"

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		// Single-part paths
		{name: "home", path: "home", want: "/test/home"},
		{name: "unknown single key", path: "unknown", wantErr: true},

		// Token lists section
		{name: "token_lists.sources", path: "token_lists.sources", want: "ipns://tokens.uniswap.org,./local.json"},
		{name: "token_lists.cache_ttl", path: "token_lists.cache_ttl", want: "2h0m0s"},
		{name: "token_lists.timeout", path: "token_lists.timeout", want: "30s"},
		{name: "token_lists.unknown", path: "token_lists.unknown", wantErr: true},

		// Gateways section
		{name: "gateways.ipfs", path: "gateways.ipfs", want: "https://gw1.example,https://gw2.example"},
		{name: "gateways.arweave", path: "gateways.arweave", want: "https://arweave.net"},
		{name: "gateways.unknown", path: "gateways.unknown", wantErr: true},

		// Assets section
		{name: "assets.base_url", path: "assets.base_url", want: "/static/"},
		{name: "assets.unknown", path: "assets.unknown", wantErr: true},

		// Routing section
		{name: "routing.quote_api", path: "routing.quote_api", want: "https://quotes.example/v1"},
		{name: "routing.preference", path: "routing.preference", want: "price"},
		{name: "routing.timeout", path: "routing.timeout", want: "15s"},
		{name: "routing.unknown", path: "routing.unknown", wantErr: true},

		// Output section
		{name: "output.default_format", path: "output.default_format", want: "json"},
		{name: "output.verbose", path: "output.verbose", want: "true"},
		{name: "output.color", path: "output.color", want: "auto"},
		{name: "output.unknown", path: "output.unknown", wantErr: true},

		// Logging section
		{name: "logging.level", path: "logging.level", want: "debug"},
		{name: "logging.file", path: "logging.file", want: "/var/log/logosrc.log"},
		{name: "logging.unknown", path: "logging.unknown", wantErr: true},

		// Unknown sections and depth
		{name: "unknown.key", path: "unknown.key", wantErr: true},
		{name: "too many parts", path: "routing.quote_api.extra", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := getConfigValue(testCfg, tc.path)
			if tc.wantErr {
				require.ErrorIs(t, err, logoerr.ErrUnknownConfigKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSetConfigValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		value   string
		check   func(t *testing.T, c *config.Config)
		wantErr error
	}{
		{
			name: "home", path: "home", value: "/new/home",
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, "/new/home", c.Home) },
		},
		{
			name: "token list sources", path: "token_lists.sources", value: " ipns://a.example , ,./b.json",
			check: func(t *testing.T, c *config.Config) {
				assert.Equal(t, []string{"ipns://a.example", "./b.json"}, c.TokenLists.Sources)
			},
		},
		{
			name: "cache ttl", path: "token_lists.cache_ttl", value: "6h",
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, 6*time.Hour, c.TokenLists.CacheTTL) },
		},
		{name: "bad duration", path: "token_lists.timeout", value: "soon", wantErr: logoerr.ErrInvalidFormat},
		{name: "negative duration", path: "routing.timeout", value: "-5s", wantErr: logoerr.ErrInvalidFormat},
		{
			name: "ipfs gateways", path: "gateways.ipfs", value: "https://gw1.example,https://gw2.example",
			check: func(t *testing.T, c *config.Config) {
				assert.Equal(t, []string{"https://gw1.example", "https://gw2.example"}, c.Gateways.IPFS)
			},
		},
		{
			name: "arweave gateway", path: "gateways.arweave", value: " https://ar.example ",
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, "https://ar.example", c.Gateways.Arweave) },
		},
		{
			name: "asset base", path: "assets.base_url", value: "https://cdn.example/",
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, "https://cdn.example/", c.Assets.BaseURL) },
		},
		{
			name: "quote api", path: "routing.quote_api", value: "https://quotes.example/v1",
			check: func(t *testing.T, c *config.Config) {
				assert.Equal(t, "https://quotes.example/v1", c.Routing.QuoteAPI)
			},
		},
		{
			name: "preference is lowercased", path: "routing.preference", value: "CLIENT",
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, "client", c.Routing.Preference) },
		},
		{name: "bad preference", path: "routing.preference", value: "fastest", wantErr: logoerr.ErrInvalidFormat},
		{
			name: "format", path: "output.default_format", value: "text",
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, "text", c.Output.DefaultFormat) },
		},
		{name: "bad format", path: "output.default_format", value: "yaml", wantErr: logoerr.ErrInvalidFormat},
		{
			name: "verbose", path: "output.verbose", value: "true",
			check: func(t *testing.T, c *config.Config) { assert.True(t, c.Output.Verbose) },
		},
		{name: "bad verbose", path: "output.verbose", value: "maybe", wantErr: logoerr.ErrInvalidFormat},
		{
			name: "color", path: "output.color", value: "never",
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, "never", c.Output.Color) },
		},
		{name: "bad color", path: "output.color", value: "blue", wantErr: logoerr.ErrInvalidFormat},
		{
			name: "log level", path: "logging.level", value: "off",
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, "off", c.Logging.Level) },
		},
		{name: "bad log level", path: "logging.level", value: "trace", wantErr: logoerr.ErrInvalidFormat},
		{
			name: "log file", path: "logging.file", value: "/tmp/l.log",
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, "/tmp/l.log", c.Logging.File) },
		},
		{name: "unknown key", path: "routing.unknown", value: "x", wantErr: logoerr.ErrUnknownConfigKey},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := config.Defaults()
			err := setConfigValue(c, tc.path, tc.value)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.check(t, c)
		})
	}
}

func TestSplitValues(t *testing.T) {
	t.Parallel()

	assert.Nil(t, splitValues(""))
	assert.Nil(t, splitValues(" , "))
	assert.Equal(t, []string{"a", "b"}, splitValues("a, b,"))
}

// NOT parallel: mutates package-level flag variables.
func TestConfigInitAndSet(t *testing.T) {
	withFlag(t, &configForce, false)

	cmd, cmdCtx, stdout := newTestCommand(t, output.FormatText, nil)
	configPath := config.Path(cmdCtx.Cfg.GetHome())

	require.NoError(t, runConfigInit(cmd, nil))
	assert.Contains(t, stdout.String(), "Configuration initialized at "+configPath)
	_, err := os.Stat(configPath)
	require.NoError(t, err)

	// A second init without --force refuses to overwrite
	err = runConfigInit(cmd, nil)
	require.ErrorIs(t, err, logoerr.ErrGeneral)

	withFlag(t, &configForce, true)
	require.NoError(t, runConfigInit(cmd, nil))

	stdout.Reset()
	require.NoError(t, runConfigSet(cmd, []string{"routing.preference", "price"}))
	assert.Equal(t, "Set routing.preference = price\n", stdout.String())

	saved, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "price", saved.Routing.Preference)
}

func TestConfigSet_RejectsInvalidEndpoint(t *testing.T) {
	cmd, cmdCtx, _ := newTestCommand(t, output.FormatText, nil)

	err := runConfigSet(cmd, []string{"routing.quote_api", "http://quotes.example/v1"})
	require.ErrorIs(t, err, logoerr.ErrConfigInvalid)

	_, statErr := os.Stat(config.Path(cmdCtx.Cfg.GetHome()))
	assert.True(t, os.IsNotExist(statErr), "invalid values are not saved")
}

func TestConfigGetAndShow(t *testing.T) {
	saveGlobals(t)
	cfg = config.Defaults()
	cfg.Routing.QuoteAPI = "https://quotes.example/v1"

	cmd, _, stdout := newTestCommand(t, output.FormatText, nil)
	require.NoError(t, runConfigGet(cmd, []string{"routing.quote_api"}))
	assert.Equal(t, "https://quotes.example/v1\n", stdout.String())

	err := runConfigGet(cmd, []string{"routing.nope"})
	require.ErrorIs(t, err, logoerr.ErrUnknownConfigKey)
	assert.Equal(t, logoerr.ExitInput, logoerr.ExitCode(err))

	stdout.Reset()
	require.NoError(t, runConfigShow(cmd, nil))
	assert.Contains(t, stdout.String(), "quote_api: https://quotes.example/v1")
	assert.Contains(t, stdout.String(), "Token lists:")

	jsonCmd, _, jsonOut := newTestCommand(t, output.FormatJSON, nil)
	require.NoError(t, runConfigShow(jsonCmd, nil))

	var got map[string]any
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &got))
	routing, ok := got["routing"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "https://quotes.example/v1", routing["quote_api"])
	assert.Equal(t, "15s", routing["timeout"])
}

func TestDisplayConfigText_Empty(t *testing.T) {
	t.Parallel()

	c := config.Defaults()
	c.TokenLists.Sources = nil
	c.Routing.QuoteAPI = ""

	var buf bytes.Buffer
	require.NoError(t, displayConfigText(&buf, c))
	assert.Contains(t, buf.String(), "sources: (none)")
	assert.Contains(t, buf.String(), "quote_api: (not configured)")
}
