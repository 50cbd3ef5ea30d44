package handler

import (
	"log/slog"
	"net/http"

	"github.com/cexsync/cexsync/internal/domain"
)

// ResolutionsHandler exposes the persisted resolution audit log.
type ResolutionsHandler struct {
	store  domain.ResolutionStore // optional
	logger *slog.Logger
}

// NewResolutionsHandler creates a ResolutionsHandler over the given store.
func NewResolutionsHandler(store domain.ResolutionStore, logger *slog.Logger) *ResolutionsHandler {
	return &ResolutionsHandler{
		store:  store,
		logger: logger.With(slog.String("handler", "resolutions")),
	}
}

// List returns past resolver runs, newest first. Supports limit, offset,
// since and until query parameters.
// GET /api/resolutions
func (h *ResolutionsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "resolution persistence is not configured")
		return
	}

	opts := parseListOpts(r)

	records, err := h.store.List(ctx, opts)
	if err != nil {
		h.logger.ErrorContext(ctx, "list resolutions failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "list resolutions failed")
		return
	}

	total, err := h.store.Count(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "count resolutions failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "count resolutions failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":       total,
		"limit":       opts.Limit,
		"offset":      opts.Offset,
		"resolutions": records,
	})
}
