// Package catalog fetches, caches and periodically refreshes venue coin
// catalogs. The Aggregator fans out to all configured venues concurrently;
// the Refresher keeps the shared cache warm and archives snapshots.
package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cexsync/cexsync/internal/domain"
	"github.com/cexsync/cexsync/internal/venue"
)

// Aggregator fetches catalogs from every configured venue in parallel. One
// venue failing or timing out never aborts the others; its error is recorded
// on the snapshot and the venue contributes an empty catalog.
type Aggregator struct {
	venues  []venue.Venue
	limiter domain.RateLimiter // optional
	timeout time.Duration
	logger  *slog.Logger
}

// rate limit applied per venue when a limiter is configured
const (
	fetchLimit       = 10
	fetchLimitWindow = time.Minute
)

func NewAggregator(venues []venue.Venue, limiter domain.RateLimiter, timeout time.Duration, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		venues:  venues,
		limiter: limiter,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "aggregator")),
	}
}

// VenueNames returns the configured venue identifiers in order.
func (a *Aggregator) VenueNames() []string {
	names := make([]string, len(a.venues))
	for i, v := range a.venues {
		names[i] = v.Name()
	}
	return names
}

// Fetch pulls every venue's catalog concurrently and assembles a snapshot.
// It never returns an error: per-venue failures land in Snapshot.Errors.
func (a *Aggregator) Fetch(ctx context.Context) domain.Snapshot {
	snap := domain.Snapshot{
		Venues:    a.VenueNames(),
		Catalog:   make(domain.Catalog, len(a.venues)),
		Errors:    make(map[string]string),
		FetchedAt: time.Now().UTC(),
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)

	for _, v := range a.venues {
		g.Go(func() error {
			start := time.Now()
			listings, err := a.fetchOne(ctx, v)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				a.logger.Error("venue fetch failed",
					slog.String("venue", v.Name()),
					slog.String("error", err.Error()))
				snap.Errors[v.Name()] = err.Error()
				snap.Catalog[v.Name()] = nil
				return nil
			}

			a.logger.Info("venue catalog fetched",
				slog.String("venue", v.Name()),
				slog.Int("coins", len(listings)),
				slog.Duration("elapsed", time.Since(start)))
			snap.Catalog[v.Name()] = listings
			return nil
		})
	}

	// Goroutines never return errors; Wait only observes ctx cancellation.
	_ = g.Wait()

	if len(snap.Errors) == 0 {
		snap.Errors = nil
	}
	return snap
}

func (a *Aggregator) fetchOne(ctx context.Context, v venue.Venue) ([]domain.CoinListing, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	if a.limiter != nil {
		allowed, err := a.limiter.Allow(ctx, "venue:"+v.Name(), fetchLimit, fetchLimitWindow)
		if err != nil {
			a.logger.Warn("rate limiter unavailable, proceeding",
				slog.String("venue", v.Name()),
				slog.String("error", err.Error()))
		} else if !allowed {
			return nil, domain.ErrRateLimited
		}
	}

	return v.FetchCatalog(ctx)
}
