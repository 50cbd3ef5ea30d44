package venue

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// evmNetworks covers the canonical codes and common labels of EVM-compatible
// chains, where a contract address must be a 20-byte hex string.
var evmNetworks = map[string]bool{
	"BSC": true, "BEP20": true, "ETH": true, "ERC20": true,
	"ARBITRUM": true, "POLYGON": true, "MATIC": true, "OPTIMISM": true,
	"AVAX": true, "AVAXC": true, "BASE": true, "FTM": true, "KAVAEVM": true,
}

// inscriptionNetworks are BRC-20 style inscription chains where tokens are
// identified by ticker rather than contract address.
var inscriptionNetworks = map[string]bool{
	"BRC20": true, "ORDIBTC": true, "ORDI-BRC20": true,
}

// CleanContract normalizes a venue-reported contract address. Placeholder
// values ("", "null", "none") collapse to the empty string. Addresses on EVM
// networks that fail hex-address validation are dropped rather than indexed,
// since a malformed address can never link listings correctly.
func CleanContract(addr, network string) string {
	addr = strings.TrimSpace(addr)
	switch strings.ToLower(addr) {
	case "", "null", "none":
		return ""
	}
	if evmNetworks[strings.ToUpper(network)] && !common.IsHexAddress(addr) {
		return ""
	}
	return addr
}

// InscriptionContract returns the sentinel contract value for an inscription
// asset: the lowercased base ticker with any denomination prefix stripped.
// Inscription tokens have no contract address, but the ticker is globally
// unique on its chain, so the sentinel lets them participate in
// contract-based cross-venue linking. Returns "" for non-inscription
// networks.
func InscriptionContract(symbol, network string, denomination int64) string {
	if !inscriptionNetworks[strings.ToUpper(strings.TrimSpace(network))] {
		return ""
	}
	return strings.ToLower(BaseSymbol(symbol, denomination))
}

// BaseSymbol strips a denomination prefix from a listed symbol, returning the
// underlying ticker: "1000SATS" with denomination 1000 becomes "SATS",
// "1MBABYDOGE" with denomination 1e6 becomes "BABYDOGE". Symbols without the
// matching prefix come back unchanged.
func BaseSymbol(symbol string, denomination int64) string {
	if denomination <= 1 {
		return symbol
	}
	digits := strconv.FormatInt(denomination, 10)
	if strings.HasPrefix(symbol, digits) && len(symbol) > len(digits) {
		return symbol[len(digits):]
	}
	if denomination == 1_000_000 && strings.HasPrefix(symbol, "1M") && len(symbol) > 2 {
		return symbol[2:]
	}
	return symbol
}

// InferDenomination guesses a listing's denomination from its symbol for
// venues that do not report one. Only unambiguous shapes infer: a "1M" prefix
// followed by letters, or a power-of-ten digit prefix of at least 100
// followed by at least two trailing characters. Anything else is taken at
// face value with denomination 1, so real tickers like "1INCH" stay intact.
func InferDenomination(symbol string) int64 {
	if len(symbol) > 3 && strings.HasPrefix(symbol, "1M") && !isDigit(symbol[2]) {
		return 1_000_000
	}

	i := 0
	for i < len(symbol) && isDigit(symbol[i]) {
		i++
	}
	if i == 0 || len(symbol)-i < 2 {
		return 1
	}

	var value int64 = 1
	if symbol[0] != '1' {
		return 1
	}
	for _, c := range symbol[1:i] {
		if c != '0' {
			return 1
		}
		value *= 10
	}
	if value < 100 {
		return 1
	}
	return value
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
