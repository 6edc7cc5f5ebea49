// Package errors provides structured error handling for logosrc.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess  = 0 // Successful execution
	ExitGeneral  = 1 // General/unknown error
	ExitInput    = 2 // Invalid input
	ExitNotFound = 4 // Resource not found
	ExitNetwork  = 5 // Upstream service unreachable or failing
)

// LogoError is the structured error type for logosrc.
type LogoError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *LogoError) Error() string {
	msg := e.Message

	// Details are sorted for deterministic output
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *LogoError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for LogoError. Two errors match when their codes match.
func (e *LogoError) Is(target error) bool {
	var t *LogoError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &LogoError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &LogoError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrNotFound = &LogoError{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	ErrInvalidAddress = &LogoError{
		Code:     "INVALID_ADDRESS",
		Message:  "invalid address format",
		ExitCode: ExitInput,
	}

	ErrInvalidChecksum = &LogoError{
		Code:     "INVALID_CHECKSUM",
		Message:  "invalid address checksum",
		ExitCode: ExitInput,
	}

	ErrInvalidChainID = &LogoError{
		Code:     "INVALID_CHAIN_ID",
		Message:  "invalid chain id",
		ExitCode: ExitInput,
	}

	ErrUnsupportedChain = &LogoError{
		Code:     "UNSUPPORTED_CHAIN",
		Message:  "chain is not supported",
		ExitCode: ExitInput,
	}

	ErrNetworkError = &LogoError{
		Code:     "NETWORK_ERROR",
		Message:  "network communication failed",
		ExitCode: ExitNetwork,
	}

	// Config-specific errors.
	ErrConfigNotFound = &LogoError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &LogoError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrUnknownConfigKey = &LogoError{
		Code:     "UNKNOWN_CONFIG_KEY",
		Message:  "unknown configuration key",
		ExitCode: ExitInput,
	}

	ErrInvalidFormat = &LogoError{
		Code:     "INVALID_FORMAT",
		Message:  "invalid value format",
		ExitCode: ExitInput,
	}

	// Token list errors.
	ErrTokenListInvalid = &LogoError{
		Code:     "TOKEN_LIST_INVALID",
		Message:  "token list is invalid",
		ExitCode: ExitInput,
	}

	ErrTokenListUnavailable = &LogoError{
		Code:     "TOKEN_LIST_UNAVAILABLE",
		Message:  "token list could not be fetched",
		ExitCode: ExitNetwork,
	}

	ErrUnsupportedURI = &LogoError{
		Code:     "UNSUPPORTED_URI",
		Message:  "uri scheme is not supported",
		ExitCode: ExitInput,
	}

	ErrCacheNotFound = &LogoError{
		Code:     "CACHE_NOT_FOUND",
		Message:  "no cached data available",
		ExitCode: ExitNotFound,
	}

	// Routing errors.
	ErrInvalidAmount = &LogoError{
		Code:     "INVALID_AMOUNT",
		Message:  "invalid amount format",
		ExitCode: ExitInput,
	}

	ErrInvalidTradeType = &LogoError{
		Code:     "INVALID_TRADE_TYPE",
		Message:  "invalid trade type",
		ExitCode: ExitInput,
	}

	ErrQuoteFailed = &LogoError{
		Code:     "QUOTE_FAILED",
		Message:  "routing api returned an error",
		ExitCode: ExitNetwork,
	}

	ErrNoRoute = &LogoError{
		Code:     "NO_ROUTE_FOUND",
		Message:  "no route found",
		ExitCode: ExitNotFound,
	}
)

// New creates a new LogoError with the given code and message.
func New(code, message string) *LogoError {
	return &LogoError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var le *LogoError
	if errors.As(err, &le) {
		return &LogoError{
			Code:       le.Code,
			Message:    fmt.Sprintf("%s: %s", msg, le.Message),
			Details:    le.Details,
			Suggestion: le.Suggestion,
			Cause:      err,
			ExitCode:   le.ExitCode,
		}
	}

	return &LogoError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var le *LogoError
	if errors.As(err, &le) {
		return &LogoError{
			Code:       le.Code,
			Message:    le.Message,
			Details:    details,
			Suggestion: le.Suggestion,
			Cause:      le.Cause,
			ExitCode:   le.ExitCode,
		}
	}

	return &LogoError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var le *LogoError
	if errors.As(err, &le) {
		return &LogoError{
			Code:       le.Code,
			Message:    le.Message,
			Details:    le.Details,
			Suggestion: suggestion,
			Cause:      le.Cause,
			ExitCode:   le.ExitCode,
		}
	}

	return &LogoError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var le *LogoError
	if errors.As(err, &le) {
		return le.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var le *LogoError
	if errors.As(err, &le) {
		return le.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
