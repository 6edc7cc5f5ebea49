package config

import (
	"errors"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/mrz1836/go-sanitize"
)

// Environment variable names.
const (
	EnvHome         = "LOGOSRC_HOME"
	EnvTokenLists   = "LOGOSRC_TOKEN_LISTS"
	EnvIPFSGateways = "LOGOSRC_IPFS_GATEWAYS"
	EnvQuoteAPI     = "LOGOSRC_QUOTE_API"
	EnvAssetBase    = "LOGOSRC_ASSET_BASE"
	EnvOutputFormat = "LOGOSRC_OUTPUT_FORMAT"
	EnvVerbose      = "LOGOSRC_VERBOSE"
	EnvLogLevel     = "LOGOSRC_LOG_LEVEL"
	EnvNoColor      = "NO_COLOR"
)

// Endpoint validation errors.
var (
	// ErrInvalidEndpoint indicates a URL that cannot be used as an endpoint.
	ErrInvalidEndpoint = errors.New("invalid endpoint URL")

	// ErrInsecureEndpoint indicates a plain http URL to a non-local host.
	ErrInsecureEndpoint = errors.New("endpoint must use https unless it is local")
)

// ApplyEnvironment applies environment variable overrides to the configuration.
// List variables are comma separated.
//
//nolint:gocognit,gocyclo // Environment variable overrides require sequential checks
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvTokenLists); v != "" {
		cfg.TokenLists.Sources = splitList(v)
	}

	if v := os.Getenv(EnvIPFSGateways); v != "" {
		var gateways []string
		for _, gw := range splitList(v) {
			gateways = append(gateways, SanitizeURL(gw))
		}
		cfg.Gateways.IPFS = gateways
	}

	if v := os.Getenv(EnvQuoteAPI); v != "" {
		cfg.Routing.QuoteAPI = SanitizeURL(v)
	}

	if v := os.Getenv(EnvAssetBase); v != "" {
		cfg.Assets.BaseURL = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	// NO_COLOR disables colored output
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}
}

// splitList splits a comma separated value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}

// SanitizeURL cleans a URL string by removing invalid characters and trimming whitespace.
// This is useful for cleaning user-provided gateway URLs that may contain copy-paste artifacts.
func SanitizeURL(url string) string {
	return sanitize.URL(strings.TrimSpace(url))
}

// ValidateEndpointURL accepts https URLs, and http URLs to loopback hosts.
// An empty string is accepted and means "use the default".
func ValidateEndpointURL(raw string) error {
	if raw == "" {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ErrInvalidEndpoint
	}

	switch u.Scheme {
	case "https":
		return nil
	case "http":
		if isLoopback(u.Hostname()) {
			return nil
		}
		return ErrInsecureEndpoint
	default:
		return ErrInvalidEndpoint
	}
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
