package resolver

import "github.com/cexsync/cexsync/internal/domain"

// matchTraditional finds direct symbol matches. For each venue it takes the
// FIRST coin whose listed symbol denomination-matches the query and emits one
// match per network that coin is listed on; remaining coins on that venue are
// not considered. Matches carry the venue's actual listed symbol, which may be
// a denominated variant of the query.
func matchTraditional(query string, venues []string, catalog domain.Catalog) []domain.Match {
	var matches []domain.Match
	for _, venue := range venues {
		for _, coin := range catalog[venue] {
			if !MatchesDenomination(coin.Symbol, coin.Denomination, query) {
				continue
			}
			for _, net := range coin.Networks {
				matches = append(matches, domain.Match{
					Venue:           venue,
					Symbol:          coin.Symbol,
					Network:         net.Network,
					ContractAddress: net.ContractAddress,
					Verified:        true,
					Source:          domain.MatchSourceTraditional,
				})
			}
			break
		}
	}
	return matches
}
