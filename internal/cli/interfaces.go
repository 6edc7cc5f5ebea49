package cli

import (
	"time"

	"github.com/mrz1836/logosrc/internal/config"
	"github.com/mrz1836/logosrc/internal/output"
	"github.com/mrz1836/logosrc/internal/uri"
)

// Compile-time interface checks.
var (
	_ ConfigProvider = (*config.Config)(nil)
	_ LogWriter      = (*config.Logger)(nil)
	_ FormatProvider = (*output.Formatter)(nil)
)

// ConfigProvider provides read access to configuration values.
// This interface enables mocking configuration in tests.
type ConfigProvider interface {
	// GetHome returns the logosrc home directory path.
	GetHome() string

	// GetTokenLists returns the token list sources in priority order.
	GetTokenLists() []string

	// GetListCacheTTL returns how long fetched lists stay fresh.
	GetListCacheTTL() time.Duration

	// GetListTimeout returns the time budget for one list fetch.
	GetListTimeout() time.Duration

	// GetAssetBase returns the URL prefix of bundled images.
	GetAssetBase() string

	// GetWellKnown returns address to asset overrides for the well-known table.
	GetWellKnown() map[string]string

	// Normalizer returns a URI normalizer for the configured gateways.
	Normalizer() *uri.Normalizer

	// GetQuoteAPI returns the routing API base URL.
	GetQuoteAPI() string

	// GetRouterPreference returns the configured router preference.
	GetRouterPreference() string

	// GetQuoteTimeout returns the time budget for one quote request.
	GetQuoteTimeout() time.Duration

	// GetLoggingLevel returns the configured logging level.
	GetLoggingLevel() string

	// GetLoggingFile returns the configured log file path.
	GetLoggingFile() string

	// GetOutputFormat returns the default output format.
	GetOutputFormat() string

	// IsVerbose returns true if verbose output is enabled.
	IsVerbose() bool
}

// LogWriter provides logging capabilities.
// This interface enables mocking logging in tests.
type LogWriter interface {
	// Debug logs a debug-level message.
	Debug(format string, args ...any)

	// Error logs an error-level message.
	Error(format string, args ...any)

	// Close closes the logger and releases resources.
	Close() error
}

// FormatProvider provides output format information.
// This interface enables mocking output formatting in tests.
type FormatProvider interface {
	// Format returns the current output format.
	Format() output.Format
}
