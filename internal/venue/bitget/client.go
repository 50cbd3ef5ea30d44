// Package bitget adapts the Bitget public coins endpoint into the common
// catalog shape. The endpoint needs no authentication.
package bitget

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cexsync/cexsync/internal/domain"
	"github.com/cexsync/cexsync/internal/venue"
)

const defaultBaseURL = "https://api.bitget.com"

// Client is the REST client for the Bitget v2 spot API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ venue.Venue = (*Client)(nil)

// NewClient creates a new Bitget REST client. baseURL may be empty, in which
// case the production endpoint is used.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name implements venue.Venue.
func (c *Client) Name() string { return "bitget" }

// FetchCatalog retrieves all supported coins via GET /api/v2/spot/public/coins.
func (c *Client) FetchCatalog(ctx context.Context) ([]domain.CoinListing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/v2/spot/public/coins", nil)
	if err != nil {
		return nil, fmt.Errorf("bitget: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bitget: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("bitget: read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("bitget: HTTP 429: %w", domain.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bitget: HTTP %d: %w", resp.StatusCode, domain.ErrVenueUnavailable)
	}

	var decoded coinsResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("bitget: decode catalog: %w", err)
	}
	if decoded.Code != "00000" {
		return nil, fmt.Errorf("bitget: %s (code %s): %w", decoded.Msg, decoded.Code, domain.ErrVenueUnavailable)
	}

	return convertCatalog(decoded.Data), nil
}

func convertCatalog(coins []coinInfo) []domain.CoinListing {
	listings := make([]domain.CoinListing, 0, len(coins))
	for _, coin := range coins {
		denom := venue.InferDenomination(coin.Coin)

		networks := make([]domain.NetworkListing, 0, len(coin.Chains))
		for _, chain := range coin.Chains {
			contract := venue.CleanContract(chain.ContractAddress, chain.Chain)
			if contract == "" {
				contract = venue.InscriptionContract(coin.Coin, chain.Chain, denom)
			}
			minWithdraw := 0.0
			if v, err := strconv.ParseFloat(chain.MinWithdrawAmount, 64); err == nil {
				minWithdraw = v
			}
			fee := 0.0
			if v, err := strconv.ParseFloat(chain.WithdrawFee, 64); err == nil {
				fee = v
			}
			networks = append(networks, domain.NetworkListing{
				Network:           chain.Chain,
				ContractAddress:   contract,
				MinWithdrawal:     minWithdraw,
				WithdrawalFee:     fee,
				DepositEnabled:    chain.Rechargeable == "true",
				WithdrawalEnabled: chain.Withdrawable == "true",
				BrowserURL:        chain.BrowserURL,
			})
		}

		listings = append(listings, domain.CoinListing{
			Venue:        "bitget",
			Symbol:       coin.Coin,
			Name:         coin.Coin,
			Denomination: denom,
			Networks:     networks,
		})
	}
	return listings
}
