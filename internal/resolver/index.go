package resolver

import (
	"strings"

	"github.com/cexsync/cexsync/internal/domain"
)

// indexEntry is one (venue, listed symbol, original network label) triple that
// references a contract.
type indexEntry struct {
	venue   string
	symbol  string
	network string
}

// contractAsset groups every catalog entry that shares one contract key, i.e.
// one asset on one chain.
type contractAsset struct {
	address string // lowercased contract address or inscription sentinel
	entries []indexEntry
}

// contractIndex is an inverted index from contract identity to the catalog
// entries referencing it. Keys are lowercase(contract) + "_" + canonical
// network code, so the same address on two chains stays distinct while casing
// differences collapse. Iteration order over keys and entries reproduces the
// catalog's own (venue, coin, network) order, which keeps resolution output
// deterministic for a given snapshot.
type contractIndex struct {
	assets      map[string]*contractAsset
	orderedKeys []string
	symbolKeys  map[string]map[string]struct{} // upper-cased symbol -> keys
}

// isPlaceholderContract reports whether a contract address field carries no
// real address. Venues serialize absent addresses as "", "null" or "none".
func isPlaceholderContract(addr string) bool {
	switch strings.ToLower(strings.TrimSpace(addr)) {
	case "", "null", "none":
		return true
	}
	return false
}

// contractKey builds the index key for an address on a canonical network.
func contractKey(addr, canonicalNetwork string) string {
	return strings.ToLower(addr) + "_" + canonicalNetwork
}

// buildContractIndex walks the catalog in venue order and indexes every
// network listing that carries a usable contract address. Inscription assets
// carry a sentinel lowercase symbol in the address field and index like any
// other contract.
func buildContractIndex(std *Standardizer, venues []string, catalog domain.Catalog) *contractIndex {
	idx := &contractIndex{
		assets:     make(map[string]*contractAsset),
		symbolKeys: make(map[string]map[string]struct{}),
	}
	for _, venue := range venues {
		for _, coin := range catalog[venue] {
			for _, net := range coin.Networks {
				if isPlaceholderContract(net.ContractAddress) {
					continue
				}
				key := contractKey(net.ContractAddress, std.Standardize(net.Network))
				asset, ok := idx.assets[key]
				if !ok {
					asset = &contractAsset{address: strings.ToLower(strings.TrimSpace(net.ContractAddress))}
					idx.assets[key] = asset
					idx.orderedKeys = append(idx.orderedKeys, key)
				}
				asset.entries = append(asset.entries, indexEntry{
					venue:   venue,
					symbol:  coin.Symbol,
					network: net.Network,
				})

				symbol := strings.ToUpper(coin.Symbol)
				if idx.symbolKeys[symbol] == nil {
					idx.symbolKeys[symbol] = make(map[string]struct{})
				}
				idx.symbolKeys[symbol][key] = struct{}{}
			}
		}
	}
	return idx
}

// keysForSymbol returns the set of contract keys touched by listings whose
// symbol equals the given one, case-insensitively. The returned map is shared
// with the index and must not be mutated.
func (idx *contractIndex) keysForSymbol(symbol string) map[string]struct{} {
	return idx.symbolKeys[strings.ToUpper(symbol)]
}
