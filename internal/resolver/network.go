// Package resolver implements the cross-venue coin identity resolver: given a
// query symbol and a snapshot of per-venue coin catalogs, it produces the
// deduplicated set of (venue, symbol, network) listings that denote the same
// underlying asset. The resolver is pure computation over the snapshot; it
// performs no I/O and is safe for concurrent use.
package resolver

import (
	"regexp"
	"strings"
)

// NetworkAliasGroup binds a canonical network code to the free-text aliases
// venues use for it. Alias sets are disjoint across groups except where an
// overlap is deliberate (BTC appears in both the native-Bitcoin group and the
// BRC20 group; group order decides which wins).
type NetworkAliasGroup struct {
	Code    string
	Aliases []string
}

// DefaultAliasGroups returns the built-in alias table. The returned slice is
// freshly allocated; callers own it and may extend it before constructing a
// Standardizer.
func DefaultAliasGroups() []NetworkAliasGroup {
	return []NetworkAliasGroup{
		{Code: "BSC", Aliases: []string{"BSC", "BEP20", "BNB Smart Chain", "BNB Smart Chain (BEP20)", "BEP-20"}},
		{Code: "ETH", Aliases: []string{"ETH", "ERC20", "Ethereum", "Ethereum (ERC20)", "ERC-20"}},
		{Code: "TRX", Aliases: []string{"TRX", "TRC20", "Tron", "Tron (TRC20)", "TRC-20"}},
		{Code: "ARBITRUM", Aliases: []string{"ARBITRUM", "ArbitrumOne", "Arbitrum One", "ARBI", "ARB"}},
		{Code: "POLYGON", Aliases: []string{"MATIC", "Polygon", "Polygon PoS", "Polygon POS", "POLYGON"}},
		{Code: "OPTIMISM", Aliases: []string{"OPTIMISM", "Optimism", "OP", "OP Mainnet"}},
		{Code: "AVAX", Aliases: []string{"AVAXC", "AVAX C-Chain", "CAVAX", "Avalanche C-Chain", "AVAX-C"}},
		{Code: "SOL", Aliases: []string{"SOL", "Solana"}},
		{Code: "BTC", Aliases: []string{"BTC", "Bitcoin"}},
		{Code: "XRP", Aliases: []string{"XRP", "XRP Ledger"}},
		{Code: "TON", Aliases: []string{"TON", "The Open Network"}},
		{Code: "APTOS", Aliases: []string{"APT", "Aptos"}},
		// BTC is listed here too on purpose: some venues label BRC-20
		// inscription networks plain "BTC". The native group above wins the
		// lookup, which is the behaviour we want for bare "BTC" labels.
		{Code: "BRC20", Aliases: []string{"BRC20", "ORDIBTC", "ORDI-BRC20", "BTC"}},
	}
}

// parenSuffix matches any parenthesized fragment, e.g. "(BEP20)" in
// "BNB Smart Chain (BEP20)".
var parenSuffix = regexp.MustCompile(`\([^)]*\)`)

// Standardizer canonicalizes free-text network labels into the small closed
// set of canonical network codes. It is immutable after construction.
type Standardizer struct {
	groups  []NetworkAliasGroup
	byAlias map[string]string // upper-cased alias -> code, first group wins
}

// NewStandardizer builds a Standardizer from the given alias groups. When the
// same alias appears in more than one group, the earlier group wins.
func NewStandardizer(groups []NetworkAliasGroup) *Standardizer {
	byAlias := make(map[string]string)
	for _, g := range groups {
		for _, a := range g.Aliases {
			key := strings.ToUpper(a)
			if _, ok := byAlias[key]; !ok {
				byAlias[key] = g.Code
			}
		}
	}
	return &Standardizer{groups: groups, byAlias: byAlias}
}

// Standardize canonicalizes a network label. It strips parenthesized
// fragments, trims whitespace, upper-cases the remainder, and looks the
// result up against the alias table. Unknown labels come back cleaned but
// uncanonicalized so distinct unknown networks stay distinguishable. The
// function is total: it never fails, and empty input returns "".
func (s *Standardizer) Standardize(label string) string {
	if label == "" {
		return ""
	}

	cleaned := strings.ToUpper(strings.TrimSpace(parenSuffix.ReplaceAllString(label, "")))

	if code, ok := s.byAlias[cleaned]; ok {
		return code
	}
	return cleaned
}

// Aliases returns the alias list for a canonical code, or the code itself
// when no group is registered under it.
func (s *Standardizer) Aliases(code string) []string {
	upper := strings.ToUpper(code)
	for _, g := range s.groups {
		if g.Code == upper {
			return g.Aliases
		}
	}
	return []string{code}
}
