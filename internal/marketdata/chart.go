package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ChartClient fetches quotes and daily history from a Yahoo-style chart API.
// It serves as the fallback spot source and as the backtester's data feed.
type ChartClient struct {
	baseURL string
	client  *http.Client
	loc     *time.Location
}

var (
	_ PriceSource     = (*ChartClient)(nil)
	_ HistoryProvider = (*ChartClient)(nil)
)

// NewChartClient creates a chart API client. Bar timestamps are interpreted
// in loc, which should be the exchange timezone.
func NewChartClient(baseURL string, loc *time.Location) *ChartClient {
	return &ChartClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		loc:     loc,
	}
}

// Name identifies this source in fallback logs.
func (c *ChartClient) Name() string { return "chart" }

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []float64 `json:"open"`
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (c *ChartClient) fetch(ctx context.Context, symbol, rng, interval string) (*chartResponse, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		c.baseURL, url.PathEscape(symbol), rng, interval)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building chart request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching chart data: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart request failed: status %d", resp.StatusCode)
	}

	var parsed chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding chart response: %w", err)
	}
	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error %s: %s",
			parsed.Chart.Error.Code, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, ErrNoData
	}
	return &parsed, nil
}

// Spot returns the latest 1-minute close for symbol.
func (c *ChartClient) Spot(ctx context.Context, symbol string) (float64, error) {
	parsed, err := c.fetch(ctx, symbol, "1d", "1m")
	if err != nil {
		return 0, err
	}

	result := parsed.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return 0, ErrNoData
	}
	closes := result.Indicators.Quote[0].Close
	// Walk backwards past trailing nulls (decoded as zeros).
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] > 0 {
			return closes[i], nil
		}
	}
	return 0, ErrNoData
}

// DailyBars returns daily OHLC bars covering the requested number of years.
// Bars with a missing open or close are dropped.
func (c *ChartClient) DailyBars(ctx context.Context, symbol string, years int) ([]Bar, error) {
	parsed, err := c.fetch(ctx, symbol, fmt.Sprintf("%dy", years), "1d")
	if err != nil {
		return nil, err
	}

	result := parsed.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, ErrNoData
	}
	quote := result.Indicators.Quote[0]

	bars := make([]Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.Close) {
			break
		}
		open, cls := quote.Open[i], quote.Close[i]
		if open <= 0 || cls <= 0 {
			continue
		}
		bars = append(bars, Bar{
			Date:  time.Unix(ts, 0).In(c.loc),
			Open:  open,
			Close: cls,
		})
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	return bars, nil
}
