package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cexsync/cexsync/internal/domain"
)

// SnapshotPrefix is the key prefix under which full catalog snapshots are
// stored.
const SnapshotPrefix = "snapshots/"

// CatalogPrefix is the key prefix under which per-venue catalogs are stored.
const CatalogPrefix = "catalogs/"

// multipartThreshold is the serialized size above which uploads switch to
// the multipart path. Venue catalogs run to thousands of coins, so full
// snapshots regularly cross this.
const multipartThreshold = 8 * 1024 * 1024

// SnapshotArchiver implements domain.SnapshotArchiver by writing every
// refresh to cold storage: one object per venue catalog plus one combined
// snapshot, all timestamped, so historical catalogs can be audited and
// replayed.
//
// Key schema:
//
//	catalogs/{venue}/{RFC 3339 timestamp}.json
//	snapshots/{RFC 3339 timestamp}.json
type SnapshotArchiver struct {
	writer domain.BlobWriter
}

// NewSnapshotArchiver creates a SnapshotArchiver that uploads through the
// given writer.
func NewSnapshotArchiver(writer domain.BlobWriter) *SnapshotArchiver {
	return &SnapshotArchiver{writer: writer}
}

// ArchiveSnapshot uploads the snapshot and its per-venue catalogs. Venues
// that failed this refresh carry no catalog and are skipped; the combined
// snapshot still records their errors.
func (a *SnapshotArchiver) ArchiveSnapshot(ctx context.Context, snap domain.Snapshot) error {
	ts := snap.FetchedAt.UTC().Format(time.RFC3339)

	for _, venue := range snap.Venues {
		if _, failed := snap.Errors[venue]; failed {
			continue
		}
		key := fmt.Sprintf("%s%s/%s.json", CatalogPrefix, venue, ts)
		if err := a.put(ctx, key, snap.Catalog[venue]); err != nil {
			return err
		}
	}

	key := fmt.Sprintf("%s%s.json", SnapshotPrefix, ts)
	return a.put(ctx, key, snap)
}

func (a *SnapshotArchiver) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("s3blob: marshal %s: %w", key, err)
	}

	if int64(len(data)) > multipartThreshold {
		if err := a.writer.PutMultipart(ctx, key, bytes.NewReader(data), 0); err != nil {
			return fmt.Errorf("s3blob: archive %s: %w", key, err)
		}
		return nil
	}

	if err := a.writer.Put(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("s3blob: archive %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.SnapshotArchiver = (*SnapshotArchiver)(nil)
