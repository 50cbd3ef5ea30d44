// Package binance adapts the Binance capital config endpoint into the common
// catalog shape.
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cexsync/cexsync/internal/crypto"
	"github.com/cexsync/cexsync/internal/domain"
	"github.com/cexsync/cexsync/internal/venue"
)

const defaultBaseURL = "https://api.binance.com"

// Client is the REST client for the Binance SAPI.
type Client struct {
	baseURL    string
	auth       *crypto.HMACAuth
	recvWindow int
	httpClient *http.Client
}

var _ venue.Venue = (*Client)(nil)

// NewClient creates a new Binance REST client. baseURL may be empty, in which
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
func (c *Client) Name() string { return "binance" }

// FetchCatalog retrieves all coins the account can deposit or withdraw via
// GET /sapi/v1/capital/config/getall. The endpoint requires a signed request
// even though the data is not account-specific.
func (c *Client) FetchCatalog(ctx context.Context) ([]domain.CoinListing, error) {
	params := url.Values{}
	params.Set("recvWindow", strconv.Itoa(c.recvWindow))
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))

	query := params.Encode()
	query += "&signature=" + c.auth.BinanceSignature(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/sapi/v1/capital/config/getall?"+query, nil)
	if err != nil {
		return nil, fmt.Errorf("binance: create request: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", c.auth.Key)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("binance: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("binance: read response: %w", err)
	}

	if err := c.checkStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	var coins []coinInfo
	if err := json.Unmarshal(body, &coins); err != nil {
		return nil, fmt.Errorf("binance: decode catalog: %w", err)
	}

	return convertCatalog(coins), nil
}

// convertCatalog maps the wire format into domain listings, preserving
// response order.
func convertCatalog(coins []coinInfo) []domain.CoinListing {
	listings := make([]domain.CoinListing, 0, len(coins))
	for _, coin := range coins {
		denom := venue.InferDenomination(coin.Coin)

		networks := make([]domain.NetworkListing, 0, len(coin.NetworkList))
		for _, net := range coin.NetworkList {
			contract := venue.CleanContract(net.ContractAddress, net.Network)
			if contract == "" {
				contract = venue.InscriptionContract(coin.Coin, net.Network, denom)
			}
			networks = append(networks, domain.NetworkListing{
				Network:           net.Network,
				ContractAddress:   contract,
				MinWithdrawal:     parseAmount(net.WithdrawMin),
				WithdrawalFee:     parseAmount(net.WithdrawFee),
				DepositEnabled:    net.DepositEnable,
				WithdrawalEnabled: net.WithdrawEnable,
			})
		}

		listings = append(listings, domain.CoinListing{
			Venue:        "binance",
			Symbol:       coin.Coin,
			Name:         coin.Name,
			Denomination: denom,
			Networks:     networks,
		})
	}
	return listings
}

// parseAmount parses a decimal string amount, returning 0 for anything
// unparseable.
func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// checkStatus maps non-2xx HTTP status codes to domain errors where a
// category exists.
func (c *Client) checkStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	var apiErr apiError
	_ = json.Unmarshal(body, &apiErr)

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("binance: %s (code %d): %w", apiErr.Msg, apiErr.Code, domain.ErrUnauthorized)
	case http.StatusTooManyRequests, http.StatusTeapot:
		// Binance answers 418 when an IP has kept hammering past its 429s.
		return fmt.Errorf("binance: %s (code %d): %w", apiErr.Msg, apiErr.Code, domain.ErrRateLimited)
	default:
		return fmt.Errorf("binance: HTTP %d: %s (code %d): %w", statusCode, apiErr.Msg, apiErr.Code, domain.ErrVenueUnavailable)
	}
}
