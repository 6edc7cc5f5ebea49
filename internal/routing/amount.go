package routing

import (
	"strconv"
	"strings"

	"github.com/holiman/uint256"

	logoerr "github.com/mrz1836/logosrc/pkg/errors"
)

// Amount is a raw integer quantity of a currency.
type Amount struct {
	Currency Currency
	Raw      *uint256.Int
}

// NewAmount parses a raw base-10 integer string for currency.
func NewAmount(currency Currency, raw string) (Amount, error) {
	value, err := ParseRaw(raw)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Currency: currency, Raw: value}, nil
}

// ParseRaw parses a base-10 integer that fits in 256 bits.
func ParseRaw(raw string) (*uint256.Int, error) {
	value, err := uint256.FromDecimal(strings.TrimSpace(raw))
	if err != nil {
		return nil, logoerr.WithDetails(logoerr.ErrInvalidAmount, map[string]string{
			"amount": raw,
			"reason": err.Error(),
		})
	}
	return value, nil
}

// ParseUnits converts a human decimal such as "1.5" into raw units with the
// given number of decimals. More fractional digits than decimals is an error.
func ParseUnits(s string, decimals int) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	whole, frac, _ := strings.Cut(s, ".")
	if (whole == "" && frac == "") || len(frac) > decimals || strings.ContainsAny(whole+frac, "+-") {
		return nil, logoerr.WithDetails(logoerr.ErrInvalidAmount, map[string]string{
			"amount":   s,
			"decimals": strconv.Itoa(decimals),
		})
	}
	if whole == "" {
		whole = "0"
	}

	digits := strings.TrimLeft(whole+frac+strings.Repeat("0", decimals-len(frac)), "0")
	if digits == "" {
		digits = "0"
	}
	return ParseRaw(digits)
}

// FormatUnits renders raw with decimals places, trimming trailing zeros.
func FormatUnits(raw *uint256.Int, decimals int) string {
	if raw == nil {
		return "0"
	}
	s := raw.Dec()
	if decimals <= 0 {
		return s
	}

	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}
	whole, frac := s[:len(s)-decimals], strings.TrimRight(s[len(s)-decimals:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// Decimal returns the amount in display units.
func (a Amount) Decimal() string {
	return FormatUnits(a.Raw, a.Currency.Decimals)
}

// IsZero reports whether the amount is unset or zero.
func (a Amount) IsZero() bool {
	return a.Raw == nil || a.Raw.IsZero()
}
