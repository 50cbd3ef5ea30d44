package domain

import (
	"context"
	"time"
)

// CatalogCache stores per-venue catalog snapshots so the resolver can run
// against the last known catalogs without hitting venue APIs.
type CatalogCache interface {
	SetVenue(ctx context.Context, venue string, listings []CoinListing, fetchedAt time.Time) error
	GetVenue(ctx context.Context, venue string) ([]CoinListing, time.Time, error)
	// Snapshot assembles a Snapshot from the cached catalogs of the given
	// venues, preserving their order. Venues with no cached catalog appear
	// with an empty listing and a recorded error.
	Snapshot(ctx context.Context, venues []string) (Snapshot, error)
	Invalidate(ctx context.Context, venue string) error
}

// RateLimiter provides distributed rate limiting.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Wait(ctx context.Context, key string) error
}

// LockManager provides distributed locking, used to keep a single catalog
// refresher active across replicas.
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

// StreamMessage represents a single entry from a Redis stream.
type StreamMessage struct {
	ID      string
	Payload []byte
}

// SignalBus provides pub/sub and durable streams for refresh and resolution
// events.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	StreamAppend(ctx context.Context, stream string, payload []byte) error
	StreamRead(ctx context.Context, stream string, lastID string, count int) ([]StreamMessage, error)
}
