package handler

import (
	"log/slog"
	"net/http"
	"strings"

	s3blob "github.com/cexsync/cexsync/internal/blob/s3"
	"github.com/cexsync/cexsync/internal/domain"
)

// ArchivesHandler lists archived catalog snapshots in cold storage.
type ArchivesHandler struct {
	reader domain.BlobReader // optional
	logger *slog.Logger
}

// NewArchivesHandler creates an ArchivesHandler over the given blob reader.
func NewArchivesHandler(reader domain.BlobReader, logger *slog.Logger) *ArchivesHandler {
	return &ArchivesHandler{
		reader: reader,
		logger: logger.With(slog.String("handler", "archives")),
	}
}

// List enumerates archived objects. ?kind=catalogs lists per-venue catalog
// archives, anything else lists combined snapshot archives.
// GET /api/archives
func (h *ArchivesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.reader == nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot archival is not configured")
		return
	}

	prefix := s3blob.SnapshotPrefix
	if strings.EqualFold(r.URL.Query().Get("kind"), "catalogs") {
		prefix = s3blob.CatalogPrefix
	}

	infos, err := h.reader.List(ctx, prefix)
	if err != nil {
		h.logger.ErrorContext(ctx, "list archives failed",
			slog.String("prefix", prefix),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "list archives failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"prefix":   prefix,
		"count":    len(infos),
		"archives": infos,
	})
}
