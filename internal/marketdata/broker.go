package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// BrokerClient fetches last-traded prices from the broker's REST quote API.
// It is the primary spot source; it knows nothing about order placement.
type BrokerClient struct {
	baseURL string
	token   string
	client  *http.Client
}

var _ PriceSource = (*BrokerClient)(nil)

// NewBrokerClient creates a broker quote client.
func NewBrokerClient(baseURL, token string) *BrokerClient {
	return &BrokerClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Name identifies this source in fallback logs.
func (b *BrokerClient) Name() string { return "broker" }

type ltpResponse struct {
	Status string `json:"status"`
	Data   struct {
		LTP float64 `json:"ltp"`
	} `json:"data"`
}

// Spot returns the last traded price for symbol.
func (b *BrokerClient) Spot(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/v1/quotes/ltp?symbol=%s", b.baseURL, url.QueryEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("building LTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.token)
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching LTP: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("LTP request failed: status %d", resp.StatusCode)
	}

	var parsed ltpResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decoding LTP response: %w", err)
	}
	if parsed.Status != "ok" {
		return 0, fmt.Errorf("LTP response status %q", parsed.Status)
	}
	return parsed.Data.LTP, nil
}
