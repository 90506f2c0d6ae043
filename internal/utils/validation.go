package utils

import (
	"regexp"
	"strings"
)

var (
	xrplTxHashRegex = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
	evmAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// IsValidTxHash checks if the given string is a valid XRPL transaction hash.
// Note: it does not check the actual content of the hash.
func IsValidTxHash(txHash string) bool {
	return xrplTxHashRegex.MatchString(txHash)
}

// IsValidEvmAddress checks if the given string is a valid 20-byte hex EVM address.
// EVM addresses are not case-sensitive identifiers, checksum casing is not enforced.
func IsValidEvmAddress(address string) bool {
	return evmAddressRegex.MatchString(address)
}

// NormalizeEvmAddress lowercases an EVM address for case-insensitive comparison.
func NormalizeEvmAddress(address string) string {
	return strings.ToLower(address)
}
