package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cexsync/cexsync/internal/domain"
	"github.com/cexsync/cexsync/internal/notify"
)

const (
	// RefreshChannel carries one JSON RefreshEvent per completed refresh.
	RefreshChannel = "catalog.refresh"
	// RefreshStream is the durable log of refresh events.
	RefreshStream = "catalog:refresh:log"

	// refreshLock serializes refreshes across replicas.
	refreshLock = "catalog:refresh"

	// EventVenueError is the notification event type for per-venue fetch
	// failures.
	EventVenueError = "venue_error"
	// EventRefreshComplete is the notification event type for completed
	// refreshes.
	EventRefreshComplete = "refresh_complete"
)

// RefreshEvent is the payload published on RefreshChannel after every
// refresh.
type RefreshEvent struct {
	Venues    []string          `json:"venues"`
	Coins     map[string]int    `json:"coins"`
	Errors    map[string]string `json:"errors,omitempty"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// Refresher periodically pulls fresh catalogs through the Aggregator, updates
// the shared cache, archives the snapshot and announces the refresh. Lock,
// bus, archiver and notifier are all optional; a nil dependency simply skips
// that step, so the refresher degrades to a plain in-process fetch loop.
type Refresher struct {
	agg      *Aggregator
	cache    domain.CatalogCache
	lock     domain.LockManager
	bus      domain.SignalBus
	archiver domain.SnapshotArchiver
	notifier *notify.Notifier
	interval time.Duration
	logger   *slog.Logger
}

func NewRefresher(
	agg *Aggregator,
	cache domain.CatalogCache,
	lock domain.LockManager,
	bus domain.SignalBus,
	archiver domain.SnapshotArchiver,
	notifier *notify.Notifier,
	interval time.Duration,
	logger *slog.Logger,
) *Refresher {
	return &Refresher{
		agg:      agg,
		cache:    cache,
		lock:     lock,
		bus:      bus,
		archiver: archiver,
		notifier: notifier,
		interval: interval,
		logger:   logger.With(slog.String("component", "refresher")),
	}
}

// Run refreshes immediately, then on every interval tick until ctx is done.
// A failed cycle is logged and retried on the next tick; Run only returns on
// cancellation.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("refresher starting", slog.Duration("interval", r.interval))

	if _, err := r.RefreshOnce(ctx); err != nil && !errors.Is(err, domain.ErrLockHeld) {
		r.logger.Error("initial refresh failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopping")
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.RefreshOnce(ctx); err != nil {
				if errors.Is(err, domain.ErrLockHeld) {
					r.logger.Debug("refresh skipped, lock held elsewhere")
					continue
				}
				r.logger.Error("refresh failed", slog.String("error", err.Error()))
			}
		}
	}
}

// RefreshOnce performs a single refresh cycle and returns the snapshot it
// produced. When a lock manager is configured and another replica holds the
// refresh lock, it returns domain.ErrLockHeld without fetching.
func (r *Refresher) RefreshOnce(ctx context.Context) (domain.Snapshot, error) {
	if r.lock != nil {
		unlock, err := r.lock.Acquire(ctx, refreshLock, r.interval)
		if err != nil {
			if errors.Is(err, domain.ErrLockHeld) {
				return domain.Snapshot{}, err
			}
			// A broken lock backend must not stop refreshes.
			r.logger.Warn("lock acquire failed, refreshing anyway", slog.String("error", err.Error()))
		} else {
			defer unlock()
		}
	}

	snap := r.agg.Fetch(ctx)

	if r.cache != nil {
		for venue, listings := range snap.Catalog {
			if _, failed := snap.Errors[venue]; failed {
				// Keep the previous cached catalog for failed venues.
				continue
			}
			if err := r.cache.SetVenue(ctx, venue, listings, snap.FetchedAt); err != nil {
				r.logger.Error("cache update failed",
					slog.String("venue", venue),
					slog.String("error", err.Error()))
			}
		}
	}

	if r.archiver != nil {
		if err := r.archiver.ArchiveSnapshot(ctx, snap); err != nil {
			r.logger.Error("snapshot archive failed", slog.String("error", err.Error()))
		}
	}

	r.announce(ctx, snap)
	r.notifyOutcome(ctx, snap)

	r.logger.Info("refresh complete",
		slog.Int("venues", len(snap.Venues)),
		slog.Int("failed", len(snap.Errors)))
	return snap, nil
}

func (r *Refresher) announce(ctx context.Context, snap domain.Snapshot) {
	if r.bus == nil {
		return
	}

	event := RefreshEvent{
		Venues:    snap.Venues,
		Coins:     make(map[string]int, len(snap.Catalog)),
		Errors:    snap.Errors,
		FetchedAt: snap.FetchedAt,
	}
	for venue, listings := range snap.Catalog {
		event.Coins[venue] = len(listings)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("marshal refresh event", slog.String("error", err.Error()))
		return
	}

	if err := r.bus.Publish(ctx, RefreshChannel, payload); err != nil {
		r.logger.Error("publish refresh event", slog.String("error", err.Error()))
	}
	if err := r.bus.StreamAppend(ctx, RefreshStream, payload); err != nil {
		r.logger.Error("append refresh event", slog.String("error", err.Error()))
	}
}

func (r *Refresher) notifyOutcome(ctx context.Context, snap domain.Snapshot) {
	if r.notifier == nil {
		return
	}

	for venue, msg := range snap.Errors {
		_ = r.notifier.Notify(ctx, EventVenueError,
			fmt.Sprintf("Catalog fetch failed: %s", venue),
			fmt.Sprintf("Venue %s did not return a catalog: %s", venue, msg))
	}
	if len(snap.Errors) == 0 {
		_ = r.notifier.Notify(ctx, EventRefreshComplete,
			"Catalog refresh complete",
			fmt.Sprintf("Refreshed %d venue catalogs at %s", len(snap.Venues), snap.FetchedAt.Format(time.RFC3339)))
	}
}
