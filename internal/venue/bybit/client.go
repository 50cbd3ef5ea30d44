// Package bybit adapts the Bybit v5 asset coin-info endpoint into the common
// catalog shape.
package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cexsync/cexsync/internal/crypto"
	"github.com/cexsync/cexsync/internal/domain"
	"github.com/cexsync/cexsync/internal/venue"
)

const defaultBaseURL = "https://api.bybit.com"

// WithdrawalUnsupported is the fee value recorded when a chain does not
// support withdrawals. Bybit reports that state as an empty fee string, which
// would otherwise be indistinguishable from a zero fee.
const WithdrawalUnsupported = -1.0

// Client is the REST client for the Bybit v5 API.
type Client struct {
	baseURL    string
	auth       *crypto.HMACAuth
	recvWindow int
	httpClient *http.Client
}

var _ venue.Venue = (*Client)(nil)

// NewClient creates a new Bybit REST client. baseURL may be empty, in which
// case the production endpoint is used.
func NewClient(baseURL, apiKey, apiSecret string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		auth:       &crypto.HMACAuth{Key: apiKey, Secret: apiSecret},
		recvWindow: 5000,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name implements venue.Venue.
func (c *Client) Name() string { return "bybit" }

// FetchCatalog retrieves coin and chain information for all coins via
// GET /v5/asset/coin/query-info, a signed endpoint.
func (c *Client) FetchCatalog(ctx context.Context) ([]domain.CoinListing, error) {
	const query = "" // no parameters: all coins

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v5/asset/coin/query-info", nil)
	if err != nil {
		return nil, fmt.Errorf("bybit: create request: %w", err)
	}
	for k, v := range c.auth.BybitHeaders(query, c.recvWindow) {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bybit: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("bybit: read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("bybit: HTTP %d: %w", resp.StatusCode, domain.ErrUnauthorized)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("bybit: HTTP %d: %w", resp.StatusCode, domain.ErrRateLimited)
	default:
		return nil, fmt.Errorf("bybit: HTTP %d: %w", resp.StatusCode, domain.ErrVenueUnavailable)
	}

	var decoded coinInfoResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("bybit: decode catalog: %w", err)
	}
	if decoded.RetCode != 0 {
		if decoded.RetCode == 10003 || decoded.RetCode == 10004 {
			return nil, fmt.Errorf("bybit: %s (retCode %d): %w", decoded.RetMsg, decoded.RetCode, domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("bybit: %s (retCode %d): %w", decoded.RetMsg, decoded.RetCode, domain.ErrVenueUnavailable)
	}

	return convertCatalog(decoded.Result.Rows), nil
}

func convertCatalog(rows []coinRow) []domain.CoinListing {
	listings := make([]domain.CoinListing, 0, len(rows))
	for _, row := range rows {
		denom := venue.InferDenomination(row.Coin)

		networks := make([]domain.NetworkListing, 0, len(row.Chains))
		for _, chain := range row.Chains {
			fee := WithdrawalUnsupported
			if chain.WithdrawFee != "" {
				if v, err := strconv.ParseFloat(chain.WithdrawFee, 64); err == nil {
					fee = v
				}
			}
			minWithdraw := 0.0
			if v, err := strconv.ParseFloat(chain.WithdrawMin, 64); err == nil {
				minWithdraw = v
			}
			contract := venue.CleanContract(chain.ContractAddress, chain.Chain)
			if contract == "" {
				contract = venue.InscriptionContract(row.Coin, chain.Chain, denom)
			}
			networks = append(networks, domain.NetworkListing{
				Network:           chain.Chain,
				ChainType:         chain.ChainType,
				ContractAddress:   contract,
				MinWithdrawal:     minWithdraw,
				WithdrawalFee:     fee,
				DepositEnabled:    chain.ChainDeposit == "1",
				WithdrawalEnabled: chain.ChainWithdraw == "1" && fee != WithdrawalUnsupported,
			})
		}

		listings = append(listings, domain.CoinListing{
			Venue:        "bybit",
			Symbol:       row.Coin,
			Name:         row.Name,
			Denomination: denom,
			Networks:     networks,
		})
	}
	return listings
}
