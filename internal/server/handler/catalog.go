package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/cexsync/cexsync/internal/domain"
)

// CatalogHandler exposes cached venue catalogs.
type CatalogHandler struct {
	cache  domain.CatalogCache // optional
	venues []string
	logger *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler over the given cache and
// configured venue names.
func NewCatalogHandler(cache domain.CatalogCache, venues []string, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		cache:  cache,
		venues: venues,
		logger: logger.With(slog.String("handler", "catalog")),
	}
}

// ListVenues returns the configured venue identifiers.
// GET /api/catalog
func (h *CatalogHandler) ListVenues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"venues": h.venues})
}

// GetVenue returns the cached catalog for one venue.
// GET /api/catalog/{venue}
func (h *CatalogHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name := strings.ToLower(strings.TrimSpace(r.PathValue("venue")))
	if !slices.Contains(h.venues, name) {
		writeError(w, http.StatusNotFound, "unknown venue: "+name)
		return
	}
	if h.cache == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog cache is not configured")
		return
	}

	listings, fetchedAt, err := h.cache.GetVenue(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no cached catalog for venue: "+name)
			return
		}
		h.logger.ErrorContext(ctx, "catalog read failed",
			slog.String("venue", name),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "catalog read failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"venue":      name,
		"coins":      len(listings),
		"listings":   listings,
		"fetched_at": fetchedAt,
	})
}
