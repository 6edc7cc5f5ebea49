// Package eth provides Ethereum address helpers built on go-ethereum.
package eth

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	logoerr "github.com/mrz1836/logosrc/pkg/errors"
)

// IsValidAddress checks if the address is 40 hex characters, with or without
// a 0x prefix. The checksum is not validated.
func IsValidAddress(address string) bool {
	return common.IsHexAddress(address)
}

// ToChecksumAddress converts an address to EIP-55 checksum format.
// If the input is invalid, it is returned unchanged.
func ToChecksumAddress(address string) string {
	if !IsValidAddress(address) {
		return address
	}
	return common.HexToAddress(address).Hex()
}

// ValidateChecksumAddress validates the EIP-55 checksum of an address.
// All lowercase and all uppercase addresses carry no checksum and are accepted.
// Mixed-case addresses must match their checksum exactly.
func ValidateChecksumAddress(address string) error {
	if !IsValidAddress(address) {
		return logoerr.WithDetails(logoerr.ErrInvalidAddress, map[string]string{
			"address": address,
		})
	}

	hexPart := strings.TrimPrefix(strings.TrimPrefix(address, "0x"), "0X")
	if hexPart == strings.ToLower(hexPart) || hexPart == strings.ToUpper(hexPart) {
		return nil
	}

	expected := ToChecksumAddress(address)
	if "0x"+hexPart != expected {
		return logoerr.WithDetails(logoerr.ErrInvalidChecksum, map[string]string{
			"expected": expected,
			"actual":   address,
		})
	}

	return nil
}

// NormalizeAddress validates an address and returns its EIP-55 checksummed form.
// Mixed-case input with a bad checksum is rejected.
func NormalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if err := ValidateChecksumAddress(address); err != nil {
		return "", err
	}
	return ToChecksumAddress(address), nil
}

// ParseAddress returns the go-ethereum address for a valid hex string.
func ParseAddress(address string) (common.Address, error) {
	normalized, err := NormalizeAddress(address)
	if err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(normalized), nil
}

// Lower returns the lowercase 0x-prefixed form used as a lookup key.
// Invalid addresses are lowercased as-is.
func Lower(address string) string {
	address = strings.TrimSpace(address)
	if IsValidAddress(address) {
		return strings.ToLower(common.HexToAddress(address).Hex())
	}
	return strings.ToLower(address)
}
