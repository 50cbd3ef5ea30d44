package bitget

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cexsync/cexsync/internal/domain"
)

const catalogFixture = `{
  "code": "00000",
  "msg": "success",
  "data": [
    {
      "coinId": "1234",
      "coin": "1000CAT",
      "chains": [
        {
          "chain": "BEP20",
          "withdrawable": "true",
          "rechargeable": "true",
          "withdrawFee": "0.1",
          "minWithdrawAmount": "1",
          "browserUrl": "https://bscscan.com/address/",
          "contractAddress": "0x6894cde390a3f51155ea41ed24a33a4827d3063d"
        },
        {
          "chain": "SOL",
          "withdrawable": "false",
          "rechargeable": "true",
          "withdrawFee": "0.5",
          "minWithdrawAmount": "2",
          "browserUrl": "https://solscan.io/account/",
          "contractAddress": "6fWaBv4Ft3cKwMDL77Ac8qbjChxWDNvu2pBiZkCkraTc"
        }
      ]
    }
  ]
}`

func TestFetchCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/spot/public/coins", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(catalogFixture))
	}))
	defer srv.Close()

	listings, err := NewClient(srv.URL).FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 1)

	cat := listings[0]
	assert.Equal(t, "bitget", cat.Venue)
	assert.Equal(t, "1000CAT", cat.Symbol)
	assert.Equal(t, int64(1000), cat.Denomination)
	require.Len(t, cat.Networks, 2)

	bep := cat.Networks[0]
	assert.Equal(t, "0x6894cde390a3f51155ea41ed24a33a4827d3063d", bep.ContractAddress)
	assert.Equal(t, "https://bscscan.com/address/", bep.BrowserURL)
	assert.True(t, bep.WithdrawalEnabled)

	sol := cat.Networks[1]
	assert.Equal(t, "6fWaBv4Ft3cKwMDL77Ac8qbjChxWDNvu2pBiZkCkraTc", sol.ContractAddress)
	assert.False(t, sol.WithdrawalEnabled)
	assert.True(t, sol.DepositEnabled)
}

func TestFetchCatalogAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"40037","msg":"Service unavailable","data":null}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchCatalog(context.Background())
	require.ErrorIs(t, err, domain.ErrVenueUnavailable)
	assert.Contains(t, err.Error(), "40037")
}
