package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cexsync/cexsync/internal/domain"
)

const catalogFixture = `[
  {
    "coin": "PEPE",
    "name": "Pepe",
    "networkList": [
      {
        "network": "ETH",
        "contractAddress": "0x6982508145454Ce325dDbE47a25d4ec3d2311933",
        "withdrawMin": "1680000",
        "withdrawFee": "840000",
        "depositEnable": true,
        "withdrawEnable": true
      },
      {
        "network": "BSC",
        "contractAddress": "null",
        "withdrawMin": "1680000",
        "withdrawFee": "420000",
        "depositEnable": true,
        "withdrawEnable": false
      }
    ]
  },
  {
    "coin": "1000SATS",
    "name": "SATS (Ordinals)",
    "networkList": [
      {
        "network": "ORDIBTC",
        "contractAddress": "",
        "withdrawMin": "20000",
        "withdrawFee": "10000",
        "depositEnable": true,
        "withdrawEnable": true
      }
    ]
  }
]`

func TestFetchCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sapi/v1/capital/config/getall", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-MBX-APIKEY"))
		assert.NotEmpty(t, r.URL.Query().Get("timestamp"))
		assert.Len(t, r.URL.Query().Get("signature"), 64)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(catalogFixture))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-secret")
	listings, err := c.FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 2)

	pepe := listings[0]
	assert.Equal(t, "binance", pepe.Venue)
	assert.Equal(t, "PEPE", pepe.Symbol)
	assert.Equal(t, int64(1), pepe.Denomination)
	require.Len(t, pepe.Networks, 2)
	assert.Equal(t, "0x6982508145454Ce325dDbE47a25d4ec3d2311933", pepe.Networks[0].ContractAddress)
	assert.Equal(t, 840000.0, pepe.Networks[0].WithdrawalFee)
	// Placeholder contract addresses are dropped.
	assert.Empty(t, pepe.Networks[1].ContractAddress)
	assert.False(t, pepe.Networks[1].WithdrawalEnabled)

	sats := listings[1]
	assert.Equal(t, int64(1000), sats.Denomination)
	require.Len(t, sats.Networks, 1)
	// Inscription listings get the lowercased base ticker as sentinel.
	assert.Equal(t, "sats", sats.Networks[0].ContractAddress)
}

func TestFetchCatalogErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		target error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"code":-2014,"msg":"API-key format invalid."}`, domain.ErrUnauthorized},
		{"rate limited", http.StatusTooManyRequests, `{"code":-1003,"msg":"Too many requests."}`, domain.ErrRateLimited},
		{"banned", http.StatusTeapot, `{"code":-1003,"msg":"Way too many requests."}`, domain.ErrRateLimited},
		{"server error", http.StatusInternalServerError, `{}`, domain.ErrVenueUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "k", "s").FetchCatalog(context.Background())
			require.ErrorIs(t, err, tc.target)
		})
	}
}
