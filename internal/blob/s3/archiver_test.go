package s3blob

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cexsync/cexsync/internal/domain"
)

type recordingWriter struct {
	objects map[string][]byte
}

func (w *recordingWriter) Put(_ context.Context, path string, data io.Reader, _ string) error {
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	w.objects[path] = b
	return nil
}

func (w *recordingWriter) PutMultipart(ctx context.Context, path string, data io.Reader, _ int64) error {
	return w.Put(ctx, path, data, "")
}

func TestArchiveSnapshot(t *testing.T) {
	writer := &recordingWriter{objects: make(map[string][]byte)}
	arch := NewSnapshotArchiver(writer)

	fetchedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	snap := domain.Snapshot{
		Venues: []string{"binance", "bybit"},
		Catalog: domain.Catalog{
			"binance": {{Venue: "binance", Symbol: "BTC"}},
			"bybit":   nil,
		},
		Errors:    map[string]string{"bybit": "timeout"},
		FetchedAt: fetchedAt,
	}

	require.NoError(t, arch.ArchiveSnapshot(context.Background(), snap))

	// One object for the healthy venue, none for the failed one, plus the
	// combined snapshot.
	assert.Contains(t, writer.objects, "catalogs/binance/2026-03-14T09:30:00Z.json")
	assert.NotContains(t, writer.objects, "catalogs/bybit/2026-03-14T09:30:00Z.json")

	full, ok := writer.objects["snapshots/2026-03-14T09:30:00Z.json"]
	require.True(t, ok)
	assert.Contains(t, string(full), `"timeout"`)
	assert.Contains(t, string(full), `"BTC"`)
}
