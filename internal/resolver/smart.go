package resolver

import (
	"strings"

	"github.com/cexsync/cexsync/internal/domain"
)

// tripleKey identifies one (venue, listed symbol, network label) triple.
type tripleKey struct {
	venue   string
	symbol  string
	network string
}

// matchSmart discovers listings of the queried asset under variant symbols by
// pivoting through shared contract addresses. The expansion is deliberately
// two-stage rather than transitive: contracts of the query's own listings lead
// to related symbols, related symbols lead to their full contract sets, and
// there it stops. A fully transitive closure would let one mislabeled contract
// chain unrelated assets together.
//
// Triples the traditional matcher already covers are excluded; unlike the
// traditional pass, the exclusion set is built over ALL denomination-matching
// coins per venue, not just the first.
func matchSmart(std *Standardizer, query string, venues []string, catalog domain.Catalog, idx *contractIndex) []domain.Match {
	excluded := make(map[tripleKey]struct{})
	seeds := make(map[string]struct{})

	for _, venue := range venues {
		for _, coin := range catalog[venue] {
			if !MatchesDenomination(coin.Symbol, coin.Denomination, query) {
				continue
			}
			for _, net := range coin.Networks {
				excluded[tripleKey{venue, coin.Symbol, net.Network}] = struct{}{}
				if isPlaceholderContract(net.ContractAddress) {
					continue
				}
				seeds[contractKey(net.ContractAddress, std.Standardize(net.Network))] = struct{}{}
			}
		}
	}
	if len(seeds) == 0 {
		return nil
	}

	relatedSymbols := make(map[string]struct{})
	for _, key := range idx.orderedKeys {
		if _, ok := seeds[key]; !ok {
			continue
		}
		for _, e := range idx.assets[key].entries {
			relatedSymbols[strings.ToUpper(e.symbol)] = struct{}{}
		}
	}

	expanded := make(map[string]struct{})
	for symbol := range relatedSymbols {
		for key := range idx.keysForSymbol(symbol) {
			expanded[key] = struct{}{}
		}
	}

	var matches []domain.Match
	for _, key := range idx.orderedKeys {
		if _, ok := expanded[key]; !ok {
			continue
		}
		asset := idx.assets[key]
		for _, e := range asset.entries {
			if _, ok := excluded[tripleKey{e.venue, e.symbol, e.network}]; ok {
				continue
			}
			matches = append(matches, domain.Match{
				Venue:           e.venue,
				Symbol:          e.symbol,
				Network:         e.network,
				ContractAddress: asset.address,
				Verified:        true,
				Source:          domain.MatchSourceSmart,
			})
		}
	}
	return matches
}
