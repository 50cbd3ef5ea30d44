package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cexsync/cexsync/internal/catalog"
	"github.com/cexsync/cexsync/internal/domain"
	"github.com/cexsync/cexsync/internal/resolver"
)

// ResolveHandler serves coin identity resolution requests. It resolves
// against the cached catalog snapshot when a cache is configured, falling
// back to a live fetch through the refresher otherwise.
type ResolveHandler struct {
	resolver  *resolver.Resolver
	refresher *catalog.Refresher
	cache     domain.CatalogCache // optional
	store     domain.ResolutionStore
	venues    []string
	logger    *slog.Logger
}

// NewResolveHandler creates a ResolveHandler. cache and store are optional;
// without a cache every request fetches live catalogs, without a store
// resolutions are not persisted.
func NewResolveHandler(
	res *resolver.Resolver,
	refresher *catalog.Refresher,
	cache domain.CatalogCache,
	store domain.ResolutionStore,
	venues []string,
	logger *slog.Logger,
) *ResolveHandler {
	return &ResolveHandler{
		resolver:  res,
		refresher: refresher,
		cache:     cache,
		store:     store,
		venues:    venues,
		logger:    logger.With(slog.String("handler", "resolve")),
	}
}

// Resolve looks up a coin symbol across all venue catalogs. Pass
// ?refresh=true to force a catalog refresh before resolving.
// GET /api/resolve/{symbol}
func (h *ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	symbol := strings.TrimSpace(r.PathValue("symbol"))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	forceRefresh := r.URL.Query().Get("refresh") == "true"

	snap, err := h.snapshot(ctx, forceRefresh)
	if err != nil {
		h.logger.ErrorContext(ctx, "snapshot unavailable",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "catalog snapshot unavailable")
		return
	}

	res := h.resolver.Resolve(symbol, snap)

	h.persist(r, res)

	writeJSON(w, http.StatusOK, map[string]any{
		"query":            res.Query,
		"verified_matches": res.VerifiedMatches,
		"possible_matches": res.PossibleMatches,
		"notes":            res.Notes,
		"fetched_at":       snap.FetchedAt,
	})
}

// snapshot picks the catalog source for one request. A forced refresh that
// loses the cross-replica lock falls back to the cache; another replica is
// refreshing it right now.
func (h *ResolveHandler) snapshot(ctx context.Context, forceRefresh bool) (domain.Snapshot, error) {
	if forceRefresh || h.cache == nil {
		snap, err := h.refresher.RefreshOnce(ctx)
		if err == nil {
			return snap, nil
		}
		if !errors.Is(err, domain.ErrLockHeld) || h.cache == nil {
			return domain.Snapshot{}, err
		}
	}
	return h.cache.Snapshot(ctx, h.venues)
}

func (h *ResolveHandler) persist(r *http.Request, res domain.Resolution) {
	if h.store == nil {
		return
	}

	rec := domain.ResolutionRecord{
		Query:      res.Query,
		MatchCount: len(res.VerifiedMatches),
		Matches:    res.VerifiedMatches,
		Notes:      res.Notes,
	}
	if err := h.store.Insert(r.Context(), rec); err != nil {
		h.logger.ErrorContext(r.Context(), "persist resolution failed",
			slog.String("query", res.Query),
			slog.String("error", err.Error()))
	}
}
