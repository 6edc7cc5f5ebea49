package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/logosrc/internal/config"
	"github.com/mrz1836/logosrc/internal/output"
	"github.com/mrz1836/logosrc/internal/routing"
	logoerr "github.com/mrz1836/logosrc/pkg/errors"
)

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and modify logosrc configuration settings.`,
}

// configInitCmd initializes the configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at ~/.logosrc/config.yaml.

If a configuration file already exists, this command will not overwrite it
unless --force is specified.`,
	Example: `  logosrc config init
  logosrc config init --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// configShowCmd shows the current configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, including environment overrides.`,
	Example: `  logosrc config show
  logosrc config show -o json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// configGetCmd gets a specific configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value by its path.

The path uses dot notation to navigate the configuration tree. List values
are printed comma separated.`,
	Example: `  logosrc config get routing.quote_api
  logosrc config get token_lists.sources
  logosrc config get logging.level`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configSetCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Set a configuration value",
	Long: `Set a specific configuration value by its path.

The path uses dot notation to navigate the configuration tree. List values
are given comma separated. The configuration file is updated immediately.`,
	Example: `  logosrc config set routing.quote_api https://api.example.com/v1
  logosrc config set token_lists.sources ipns://tokens.uniswap.org,./local.json
  logosrc config set logging.level debug`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configForce bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	configCmd.GroupID = "config"
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing configuration")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	home := GetCmdContext(cmd).Cfg.GetHome()
	configPath := config.Path(home)

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !configForce {
		return logoerr.WithSuggestion(
			logoerr.ErrGeneral,
			fmt.Sprintf("configuration already exists at %s. Use --force to overwrite.", configPath),
		)
	}

	defaultCfg := config.Defaults()
	defaultCfg.Home = home

	if err := config.Save(defaultCfg, configPath); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	w := cmd.OutOrStdout()
	out(w, "Configuration initialized at %s\n", configPath)
	outln(w)
	outln(w, "Edit this file to configure:")
	outln(w, "  - token_lists.sources: Token lists that supply logo candidates")
	outln(w, "  - gateways.ipfs: IPFS gateways, tried in order")
	outln(w, "  - routing.quote_api: Routing API base URL")
	outln(w, "  - output.default_format: Output format (text/json)")
	outln(w, "  - logging.level: Log level (off/error/debug)")

	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	c := currentConfig()

	if GetCmdContext(cmd).Fmt.Format() == output.FormatJSON {
		return writeJSON(w, newConfigJSON(c))
	}
	return displayConfigText(w, c)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	path := args[0]

	value, err := getConfigValue(currentConfig(), path)
	if err != nil {
		return logoerr.WithSuggestion(
			err,
			fmt.Sprintf("configuration path '%s' not found", path),
		)
	}

	outln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path := args[0]
	value := args[1]

	// Load current config from file
	configPath := config.Path(GetCmdContext(cmd).Cfg.GetHome())
	currentCfg, err := config.Load(configPath)
	if err != nil {
		if !logoerr.Is(err, logoerr.ErrConfigNotFound) {
			return err
		}
		// If file doesn't exist, start with defaults
		currentCfg = config.Defaults()
	}

	if err := setConfigValue(currentCfg, path, value); err != nil {
		return err
	}
	if err := currentCfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(currentCfg, configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	out(cmd.OutOrStdout(), "Set %s = %s\n", path, value)
	return nil
}

// currentConfig returns the loaded configuration, or the defaults when the
// command runs without the root's initialization.
func currentConfig() *config.Config {
	if cfg != nil {
		return cfg
	}
	return config.Defaults()
}

// unknownKey builds the error for a configuration path that does not exist.
func unknownKey(details map[string]string) error {
	return logoerr.WithDetails(logoerr.ErrUnknownConfigKey, details)
}

// getConfigValue retrieves a value from the config using dot notation.
func getConfigValue(c *config.Config, path string) (string, error) {
	section, key, found := strings.Cut(path, ".")
	if !found {
		if section == "home" {
			return c.Home, nil
		}
		return "", unknownKey(map[string]string{"key": section})
	}
	if strings.Contains(key, ".") {
		return "", unknownKey(map[string]string{"path": path})
	}

	switch section {
	case "token_lists":
		return getTokenListsValue(c, key)
	case "gateways":
		return getGatewaysValue(c, key)
	case "assets":
		if key == "base_url" {
			return c.Assets.BaseURL, nil
		}
	case "routing":
		return getRoutingValue(c, key)
	case "output":
		return getOutputValue(c, key)
	case "logging":
		return getLoggingValue(c, key)
	default:
		return "", unknownKey(map[string]string{"section": section})
	}
	return "", unknownKey(map[string]string{"section": section, "key": key})
}

func getTokenListsValue(c *config.Config, key string) (string, error) {
	switch key {
	case "sources":
		return strings.Join(c.TokenLists.Sources, ","), nil
	case "cache_ttl":
		return c.TokenLists.CacheTTL.String(), nil
	case "timeout":
		return c.TokenLists.Timeout.String(), nil
	default:
		return "", unknownKey(map[string]string{"section": "token_lists", "key": key})
	}
}

func getGatewaysValue(c *config.Config, key string) (string, error) {
	switch key {
	case "ipfs":
		return strings.Join(c.Gateways.IPFS, ","), nil
	case "arweave":
		return c.Gateways.Arweave, nil
	default:
		return "", unknownKey(map[string]string{"section": "gateways", "key": key})
	}
}

func getRoutingValue(c *config.Config, key string) (string, error) {
	switch key {
	case "quote_api":
		return c.Routing.QuoteAPI, nil
	case "preference":
		return c.Routing.Preference, nil
	case "timeout":
		return c.Routing.Timeout.String(), nil
	default:
		return "", unknownKey(map[string]string{"section": "routing", "key": key})
	}
}

func getOutputValue(c *config.Config, key string) (string, error) {
	switch key {
	case "default_format":
		return c.Output.DefaultFormat, nil
	case "verbose":
		return strconv.FormatBool(c.Output.Verbose), nil
	case "color":
		return c.Output.Color, nil
	default:
		return "", unknownKey(map[string]string{"section": "output", "key": key})
	}
}

func getLoggingValue(c *config.Config, key string) (string, error) {
	switch key {
	case "level":
		return c.Logging.Level, nil
	case "file":
		return c.Logging.File, nil
	default:
		return "", unknownKey(map[string]string{"section": "logging", "key": key})
	}
}

// setConfigValue sets a value in the config using dot notation.
//
//nolint:gocyclo // One case per configuration key
func setConfigValue(c *config.Config, path, value string) error {
	switch path {
	case "home":
		c.Home = value
	case "token_lists.sources":
		c.TokenLists.Sources = splitValues(value)
	case "token_lists.cache_ttl":
		return setDuration(&c.TokenLists.CacheTTL, path, value)
	case "token_lists.timeout":
		return setDuration(&c.TokenLists.Timeout, path, value)
	case "gateways.ipfs":
		gateways := splitValues(value)
		for i, gw := range gateways {
			gateways[i] = config.SanitizeURL(gw)
		}
		c.Gateways.IPFS = gateways
	case "gateways.arweave":
		c.Gateways.Arweave = config.SanitizeURL(value)
	case "assets.base_url":
		c.Assets.BaseURL = value
	case "routing.quote_api":
		c.Routing.QuoteAPI = config.SanitizeURL(value)
	case "routing.preference":
		pref := routing.RouterPreference(strings.ToLower(value))
		if pref != routing.PreferenceAPI && pref != routing.PreferenceClient && pref != routing.PreferencePrice {
			return invalidValue(value, "api, client, or price")
		}
		c.Routing.Preference = string(pref)
	case "routing.timeout":
		return setDuration(&c.Routing.Timeout, path, value)
	case "output.default_format":
		if value != "text" && value != "json" && value != "auto" {
			return invalidValue(value, "text, json, or auto")
		}
		c.Output.DefaultFormat = value
	case "output.verbose":
		verbose, err := strconv.ParseBool(value)
		if err != nil {
			return invalidValue(value, "true or false")
		}
		c.Output.Verbose = verbose
	case "output.color":
		if value != "auto" && value != "always" && value != "never" {
			return invalidValue(value, "auto, always, or never")
		}
		c.Output.Color = value
	case "logging.level":
		if value != "off" && value != "error" && value != "debug" {
			return invalidValue(value, "off, error, or debug")
		}
		c.Logging.Level = value
	case "logging.file":
		c.Logging.File = value
	default:
		return unknownKey(map[string]string{"path": path})
	}
	return nil
}

func setDuration(dst *time.Duration, path, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return logoerr.WithDetails(logoerr.ErrInvalidFormat, map[string]string{
			"path":  path,
			"value": value,
			"valid": "a non-negative duration such as 30s or 24h",
		})
	}
	*dst = d
	return nil
}

func invalidValue(value, valid string) error {
	return logoerr.WithDetails(logoerr.ErrInvalidFormat, map[string]string{"value": value, "valid": valid})
}

// splitValues splits a comma separated list, dropping empty entries.
func splitValues(value string) []string {
	var values []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// configJSON is the JSON shape of config show.
type configJSON struct {
	Version    int    `json:"version"`
	Home       string `json:"home"`
	TokenLists struct {
		Sources  []string `json:"sources"`
		CacheTTL string   `json:"cache_ttl"`
		Timeout  string   `json:"timeout"`
	} `json:"token_lists"`
	Gateways struct {
		IPFS    []string `json:"ipfs"`
		Arweave string   `json:"arweave"`
	} `json:"gateways"`
	Assets struct {
		BaseURL   string            `json:"base_url"`
		WellKnown map[string]string `json:"well_known,omitempty"`
	} `json:"assets"`
	Routing struct {
		QuoteAPI   string `json:"quote_api"`
		Preference string `json:"preference"`
		Timeout    string `json:"timeout"`
	} `json:"routing"`
	Output struct {
		DefaultFormat string `json:"default_format"`
		Color         string `json:"color"`
		Verbose       bool   `json:"verbose"`
	} `json:"output"`
	Logging struct {
		Level string `json:"level"`
		File  string `json:"file"`
	} `json:"logging"`
}

func newConfigJSON(c *config.Config) configJSON {
	var j configJSON
	j.Version = c.Version
	j.Home = c.Home
	j.TokenLists.Sources = c.TokenLists.Sources
	j.TokenLists.CacheTTL = c.TokenLists.CacheTTL.String()
	j.TokenLists.Timeout = c.TokenLists.Timeout.String()
	j.Gateways.IPFS = c.Gateways.IPFS
	j.Gateways.Arweave = c.Gateways.Arweave
	j.Assets.BaseURL = c.Assets.BaseURL
	j.Assets.WellKnown = c.Assets.WellKnown
	j.Routing.QuoteAPI = c.Routing.QuoteAPI
	j.Routing.Preference = c.Routing.Preference
	j.Routing.Timeout = c.Routing.Timeout.String()
	j.Output.DefaultFormat = c.Output.DefaultFormat
	j.Output.Color = c.Output.Color
	j.Output.Verbose = c.Output.Verbose
	j.Logging.Level = c.Logging.Level
	j.Logging.File = c.Logging.File
	return j
}

// displayConfigText shows the config in text format.
func displayConfigText(w io.Writer, c *config.Config) error {
	outln(w, "Configuration:")
	outln(w)
	out(w, "  Home: %s\n", c.Home)
	outln(w)
	outln(w, "  Token lists:")
	if len(c.TokenLists.Sources) == 0 {
		outln(w, "    sources: (none)")
	} else {
		outln(w, "    sources:")
		for _, s := range c.TokenLists.Sources {
			out(w, "      - %s\n", s)
		}
	}
	out(w, "    cache_ttl: %s\n", c.TokenLists.CacheTTL)
	out(w, "    timeout: %s\n", c.TokenLists.Timeout)
	outln(w)
	outln(w, "  Gateways:")
	out(w, "    ipfs: %s\n", strings.Join(c.Gateways.IPFS, ", "))
	out(w, "    arweave: %s\n", c.Gateways.Arweave)
	outln(w)
	outln(w, "  Assets:")
	out(w, "    base_url: %s\n", c.Assets.BaseURL)
	if len(c.Assets.WellKnown) > 0 {
		outln(w, "    well_known:")
		addresses := make([]string, 0, len(c.Assets.WellKnown))
		for address := range c.Assets.WellKnown {
			addresses = append(addresses, address)
		}
		sort.Strings(addresses)
		for _, address := range addresses {
			out(w, "      %s: %s\n", address, c.Assets.WellKnown[address])
		}
	}
	outln(w)
	outln(w, "  Routing:")
	quoteAPI := c.Routing.QuoteAPI
	if quoteAPI == "" {
		quoteAPI = "(not configured)"
	}
	out(w, "    quote_api: %s\n", quoteAPI)
	out(w, "    preference: %s\n", c.Routing.Preference)
	out(w, "    timeout: %s\n", c.Routing.Timeout)
	outln(w)
	outln(w, "  Output:")
	out(w, "    default_format: %s\n", c.Output.DefaultFormat)
	out(w, "    verbose: %t\n", c.Output.Verbose)
	out(w, "    color: %s\n", c.Output.Color)
	outln(w)
	outln(w, "  Logging:")
	out(w, "    level: %s\n", c.Logging.Level)
	out(w, "    file: %s\n", c.Logging.File)

	return nil
}
