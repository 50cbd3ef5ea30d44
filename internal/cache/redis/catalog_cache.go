package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cexsync/cexsync/internal/domain"
)

// CatalogCache implements domain.CatalogCache using one Redis hash per venue.
//
// Key schema:
//
//	catalog:{venue} - hash with fields "listings" (JSON array) and
//	                  "fetched_at" (RFC 3339 timestamp)
type CatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCatalogCache creates a CatalogCache backed by the given Client. Entries
// expire after ttl; pass 0 to keep catalogs until the next refresh
// overwrites them.
func NewCatalogCache(c *Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{rdb: c.Underlying(), ttl: ttl}
}

func catalogKey(venue string) string { return "catalog:" + venue }

// SetVenue stores one venue's full catalog, replacing any previous entry.
func (cc *CatalogCache) SetVenue(ctx context.Context, venue string, listings []domain.CoinListing, fetchedAt time.Time) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("redis: marshal catalog %s: %w", venue, err)
	}

	key := catalogKey(venue)

	pipe := cc.rdb.TxPipeline()
	pipe.HSet(ctx, key,
		"listings", data,
		"fetched_at", fetchedAt.UTC().Format(time.RFC3339Nano),
	)
	if cc.ttl > 0 {
		pipe.Expire(ctx, key, cc.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: set catalog %s: %w", venue, err)
	}
	return nil
}

// GetVenue returns one venue's cached catalog and the time it was fetched.
// Returns domain.ErrNotFound when the venue has no cached catalog.
func (cc *CatalogCache) GetVenue(ctx context.Context, venue string) ([]domain.CoinListing, time.Time, error) {
	vals, err := cc.rdb.HMGet(ctx, catalogKey(venue), "listings", "fetched_at").Result()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("redis: get catalog %s: %w", venue, err)
	}

	raw, ok := vals[0].(string)
	if !ok || raw == "" {
		return nil, time.Time{}, fmt.Errorf("redis: catalog %s: %w", venue, domain.ErrNotFound)
	}

	var listings []domain.CoinListing
	if err := json.Unmarshal([]byte(raw), &listings); err != nil {
		return nil, time.Time{}, fmt.Errorf("redis: decode catalog %s: %w", venue, err)
	}

	var fetchedAt time.Time
	if ts, ok := vals[1].(string); ok {
		fetchedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}

	return listings, fetchedAt, nil
}

// Snapshot assembles a resolution-ready snapshot from the cached catalogs of
// the given venues, in the given order. Venues missing from the cache
// contribute an empty catalog and a recorded error rather than failing the
// snapshot.
func (cc *CatalogCache) Snapshot(ctx context.Context, venues []string) (domain.Snapshot, error) {
	snap := domain.Snapshot{
		Venues:  venues,
		Catalog: make(domain.Catalog, len(venues)),
		Errors:  make(map[string]string),
	}

	for _, venue := range venues {
		listings, fetchedAt, err := cc.GetVenue(ctx, venue)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				snap.Errors[venue] = "no cached catalog"
				continue
			}
			return domain.Snapshot{}, err
		}
		snap.Catalog[venue] = listings
		if fetchedAt.After(snap.FetchedAt) {
			snap.FetchedAt = fetchedAt
		}
	}

	if len(snap.Errors) == 0 {
		snap.Errors = nil
	}
	return snap, nil
}

// Invalidate removes one venue's cached catalog.
func (cc *CatalogCache) Invalidate(ctx context.Context, venue string) error {
	if err := cc.rdb.Del(ctx, catalogKey(venue)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate catalog %s: %w", venue, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.CatalogCache = (*CatalogCache)(nil)
