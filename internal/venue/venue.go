// Package venue defines the adapter contract for exchange catalog sources and
// the normalization helpers every adapter shares. Each supported exchange
// lives in its own subpackage and converts that venue's wire format into the
// common domain.CoinListing shape; nothing outside this package tree ever
// sees a venue's raw API types.
package venue

import (
	"context"

	"github.com/cexsync/cexsync/internal/domain"
)

// Venue is a source of coin catalog data for one exchange.
type Venue interface {
	// Name returns the stable lowercase venue identifier, e.g. "binance".
	Name() string

	// FetchCatalog retrieves the venue's full coin catalog, normalized into
	// domain listings. Order follows the venue's own response order.
	FetchCatalog(ctx context.Context) ([]domain.CoinListing, error)
}
