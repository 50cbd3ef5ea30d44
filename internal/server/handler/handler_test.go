package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cexsync/cexsync/internal/catalog"
	"github.com/cexsync/cexsync/internal/domain"
	"github.com/cexsync/cexsync/internal/resolver"
	"github.com/cexsync/cexsync/internal/venue"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubVenue struct {
	name     string
	listings []domain.CoinListing
	err      error
	calls    int
}

func (s *stubVenue) Name() string { return s.name }

func (s *stubVenue) FetchCatalog(ctx context.Context) ([]domain.CoinListing, error) {
	s.calls++
	return s.listings, s.err
}

type memCache struct {
	listings  map[string][]domain.CoinListing
	fetchedAt time.Time
}

func (m *memCache) SetVenue(ctx context.Context, v string, l []domain.CoinListing, at time.Time) error {
	if m.listings == nil {
		m.listings = make(map[string][]domain.CoinListing)
	}
	m.listings[v] = l
	m.fetchedAt = at
	return nil
}

func (m *memCache) GetVenue(ctx context.Context, v string) ([]domain.CoinListing, time.Time, error) {
	l, ok := m.listings[v]
	if !ok {
		return nil, time.Time{}, domain.ErrNotFound
	}
	return l, m.fetchedAt, nil
}

func (m *memCache) Snapshot(ctx context.Context, venues []string) (domain.Snapshot, error) {
	snap := domain.Snapshot{
		Venues:    venues,
		Catalog:   make(domain.Catalog, len(venues)),
		Errors:    make(map[string]string),
		FetchedAt: m.fetchedAt,
	}
	for _, v := range venues {
		l, ok := m.listings[v]
		if !ok {
			snap.Errors[v] = "no cached catalog"
			snap.Catalog[v] = nil
			continue
		}
		snap.Catalog[v] = l
	}
	return snap, nil
}

func (m *memCache) Invalidate(ctx context.Context, v string) error {
	delete(m.listings, v)
	return nil
}

type memStore struct {
	records []domain.ResolutionRecord
	err     error
}

func (m *memStore) Insert(ctx context.Context, rec domain.ResolutionRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memStore) List(ctx context.Context, opts domain.ListOpts) ([]domain.ResolutionRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

func (m *memStore) Count(ctx context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.records)), nil
}

type memReader struct {
	infos []domain.BlobInfo
}

func (m *memReader) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	return nil, domain.ErrNotFound
}

func (m *memReader) List(ctx context.Context, prefix string) ([]domain.BlobInfo, error) {
	var out []domain.BlobInfo
	for _, info := range m.infos {
		if len(info.Path) >= len(prefix) && info.Path[:len(prefix)] == prefix {
			out = append(out, info)
		}
	}
	return out, nil
}

func (m *memReader) Exists(ctx context.Context, path string) (bool, error) {
	return false, nil
}

func pepeCatalog() []domain.CoinListing {
	return []domain.CoinListing{
		{
			Venue:  "binance",
			Symbol: "PEPE",
			Networks: []domain.NetworkListing{
				{Network: "ETH", ContractAddress: "0x6982508145454ce325ddbe47a25d4ec3d2311933"},
			},
		},
	}
}

func newResolveHandler(t *testing.T, v *stubVenue, cache domain.CatalogCache, store domain.ResolutionStore) *ResolveHandler {
	t.Helper()
	logger := testLogger()
	agg := catalog.NewAggregator([]venue.Venue{v}, nil, time.Second, logger)
	ref := catalog.NewRefresher(agg, cache, nil, nil, nil, nil, time.Minute, logger)
	res := resolver.New(nil, logger)
	return NewResolveHandler(res, ref, cache, store, []string{v.name}, logger)
}

func TestResolveFromCache(t *testing.T) {
	v := &stubVenue{name: "binance"}
	cache := &memCache{}
	require.NoError(t, cache.SetVenue(context.Background(), "binance", pepeCatalog(), time.Now().UTC()))
	store := &memStore{}
	h := newResolveHandler(t, v, cache, store)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/resolve/{symbol}", h.Resolve)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/resolve/PEPE", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, v.calls, "cached resolve must not hit the venue")

	var body struct {
		Query           string         `json:"query"`
		VerifiedMatches []domain.Match `json:"verified_matches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "PEPE", body.Query)
	require.Len(t, body.VerifiedMatches, 1)
	assert.Equal(t, "binance", body.VerifiedMatches[0].Venue)
	assert.Equal(t, "ETH", body.VerifiedMatches[0].Network)

	// The run was persisted.
	require.Len(t, store.records, 1)
	assert.Equal(t, "PEPE", store.records[0].Query)
	assert.Equal(t, 1, store.records[0].MatchCount)
}

func TestResolveForcedRefresh(t *testing.T) {
	v := &stubVenue{name: "binance", listings: pepeCatalog()}
	cache := &memCache{}
	h := newResolveHandler(t, v, cache, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/resolve/{symbol}", h.Resolve)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/resolve/PEPE?refresh=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, v.calls, "forced refresh must hit the venue")
	// The refresh also warmed the cache.
	assert.Contains(t, cache.listings, "binance")
}

func TestResolveNoCacheFetchesLive(t *testing.T) {
	v := &stubVenue{name: "binance", listings: pepeCatalog()}
	h := newResolveHandler(t, v, nil, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/resolve/{symbol}", h.Resolve)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/resolve/PEPE", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, v.calls)
}

func TestCatalogGetVenue(t *testing.T) {
	cache := &memCache{}
	require.NoError(t, cache.SetVenue(context.Background(), "bybit", pepeCatalog(), time.Now().UTC()))
	h := NewCatalogHandler(cache, []string{"binance", "bybit"}, testLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/catalog/{venue}", h.GetVenue)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/bybit", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Venue string `json:"venue"`
		Coins int    `json:"coins"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bybit", body.Venue)
	assert.Equal(t, 1, body.Coins)

	// Unknown venue is a 404 before touching the cache.
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/kraken", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Known venue with no cached catalog is also a 404.
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/binance", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResolutionsList(t *testing.T) {
	store := &memStore{records: []domain.ResolutionRecord{
		{ID: "a", Query: "PEPE", MatchCount: 3},
		{ID: "b", Query: "BTC", MatchCount: 4},
	}}
	h := NewResolutionsHandler(store, testLogger())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/resolutions?limit=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Total       int64                     `json:"total"`
		Resolutions []domain.ResolutionRecord `json:"resolutions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Total)
	assert.Len(t, body.Resolutions, 2)
}

func TestResolutionsListNoStore(t *testing.T) {
	h := NewResolutionsHandler(nil, testLogger())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/resolutions", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestArchivesList(t *testing.T) {
	reader := &memReader{infos: []domain.BlobInfo{
		{Path: "snapshots/2026-08-29T10:00:00Z.json", Size: 100},
		{Path: "catalogs/binance/2026-08-29T10:00:00Z.json", Size: 50},
	}}
	h := NewArchivesHandler(reader, testLogger())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/archives", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Prefix   string            `json:"prefix"`
		Count    int               `json:"count"`
		Archives []domain.BlobInfo `json:"archives"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "snapshots/", body.Prefix)
	assert.Equal(t, 1, body.Count)

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/archives?kind=catalogs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "catalogs/", body.Prefix)
	assert.Equal(t, 1, body.Count)
}

func TestParseListOpts(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet,
		"/api/resolutions?limit=9999&offset=20&since=2026-08-01T00:00:00Z&until=bogus", nil)

	opts := parseListOpts(r)
	assert.Equal(t, 500, opts.Limit, "limit is clamped")
	assert.Equal(t, 20, opts.Offset)
	require.NotNil(t, opts.Since)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), opts.Since.UTC())
	assert.Nil(t, opts.Until, "unparsable until is ignored")
}

func TestHealthCheck(t *testing.T) {
	h := NewHealthHandler([]string{"binance", "bybit", "bitget"}, time.Now().Add(-time.Minute), testLogger())

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status        string   `json:"status"`
		Venues        []string `json:"venues"`
		UptimeSeconds int64    `json:"uptime_seconds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, []string{"binance", "bybit", "bitget"}, body.Venues)
	assert.GreaterOrEqual(t, body.UptimeSeconds, int64(59))
}
