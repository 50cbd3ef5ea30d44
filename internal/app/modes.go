package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cexsync/cexsync/internal/catalog"
	"github.com/cexsync/cexsync/internal/resolver"
	"github.com/cexsync/cexsync/internal/server"
	"github.com/cexsync/cexsync/internal/server/handler"
	"github.com/cexsync/cexsync/internal/server/ws"
)

// shutdownTimeout bounds graceful HTTP shutdown after ctx is cancelled.
const shutdownTimeout = 10 * time.Second

// core bundles the domain services shared by all modes.
type core struct {
	agg       *catalog.Aggregator
	refresher *catalog.Refresher
	resolver  *resolver.Resolver
}

func (a *App) buildCore(deps *Dependencies) *core {
	agg := catalog.NewAggregator(deps.Venues, deps.RateLimiter, a.cfg.Resolver.FetchTimeout.Duration, a.logger)
	refresher := catalog.NewRefresher(
		agg,
		deps.CatalogCache,
		deps.LockManager,
		deps.SignalBus,
		deps.Archiver,
		deps.Notifier,
		a.cfg.Resolver.RefreshInterval.Duration,
		a.logger,
	)
	return &core{
		agg:       agg,
		refresher: refresher,
		resolver:  resolver.New(nil, a.logger),
	}
}

func (a *App) buildServer(c *core, deps *Dependencies, startedAt time.Time) (*server.Server, *ws.Hub) {
	venues := c.agg.VenueNames()

	handlers := server.Handlers{
		Health: handler.NewHealthHandler(venues, startedAt, a.logger),
		Resolve: handler.NewResolveHandler(
			c.resolver, c.refresher, deps.CatalogCache, deps.ResolutionStore, venues, a.logger,
		),
		Catalog:     handler.NewCatalogHandler(deps.CatalogCache, venues, a.logger),
		Resolutions: handler.NewResolutionsHandler(deps.ResolutionStore, a.logger),
		Archives:    handler.NewArchivesHandler(deps.BlobReader, a.logger),
	}

	var hub *ws.Hub
	if deps.SignalBus != nil {
		hub = ws.NewHub(deps.SignalBus, a.logger, ws.Config{
			Mode:      a.cfg.Mode,
			Venues:    venues,
			StartedAt: startedAt,
		})
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
		RateLimit:   a.cfg.Server.RateLimit,
	}, handlers, hub, deps.RateLimiter, a.logger)

	return srv, hub
}

// ServerMode serves the HTTP and WebSocket API. Catalogs are fetched on
// demand; the periodic refresh loop does not run in this mode.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode")

	c := a.buildCore(deps)
	srv, hub := a.buildServer(c, deps, time.Now().UTC())

	g, ctx := errgroup.WithContext(ctx)

	if hub != nil {
		g.Go(func() error {
			if err := hub.Run(ctx); err != nil && ctx.Err() == nil {
				return fmt.Errorf("app: ws hub: %w", err)
			}
			return nil
		})
	}

	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// RefreshMode runs only the periodic catalog refresh loop.
func (a *App) RefreshMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting refresh mode")

	c := a.buildCore(deps)
	if err := c.refresher.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("app: refresher: %w", err)
	}
	return nil
}

// FullMode runs the refresh loop and the API server together.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	c := a.buildCore(deps)
	srv, hub := a.buildServer(c, deps, time.Now().UTC())

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := c.refresher.Run(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("app: refresher: %w", err)
		}
		return nil
	})

	if hub != nil {
		g.Go(func() error {
			if err := hub.Run(ctx); err != nil && ctx.Err() == nil {
				return fmt.Errorf("app: ws hub: %w", err)
			}
			return nil
		})
	}

	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
