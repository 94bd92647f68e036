package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/quantlake/stockfeed/internal/model"
)

// PriceClient fetches split/dividend-adjusted daily OHLCV history from the
// price-chart API. The full history window is refetched on every run, since
// adjustment factors can change retroactively. No API key is required.
type PriceClient struct {
	core
	baseURL string
}

// NewPriceClient creates a price client.
func NewPriceClient(baseURL string, opts ...Option) *PriceClient {
	c := &PriceClient{
		core:    newCore(),
		baseURL: baseURL,
	}
	for _, opt := range opts {
		opt(&c.core)
	}
	return c
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchHistory fetches daily bars for symbol across [start, end). The
// response is a single page; the shared rate-limit policy still applies.
func (c *PriceClient) FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceBar, error) {
	params := url.Values{
		"period1":  {strconv.FormatInt(start.Unix(), 10)},
		"period2":  {strconv.FormatInt(end.Unix(), 10)},
		"interval": {"1d"},
		"events":   {"div,split"},
	}
	fullURL := c.baseURL + "/" + url.PathEscape(symbol) + "?" + params.Encode()

	body, err := c.fetchPage(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("fetch price history: %w", err)
	}

	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse price history: %w", err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("price api error %s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, nil
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	var adj []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]model.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Rows with a null close are non-trading gaps; skip them.
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		day := time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)
		bars = append(bars, model.PriceBar{
			Ticker:   symbol,
			Date:     day,
			Open:     deref(quote.Open, i),
			High:     deref(quote.High, i),
			Low:      deref(quote.Low, i),
			Close:    *quote.Close[i],
			AdjClose: adjClose(adj, i, *quote.Close[i]),
			Volume:   derefInt(quote.Volume, i),
		})
	}
	return bars, nil
}

func deref(vals []*float64, i int) float64 {
	if i < len(vals) && vals[i] != nil {
		return *vals[i]
	}
	return 0
}

func derefInt(vals []*int64, i int) int64 {
	if i < len(vals) && vals[i] != nil {
		return *vals[i]
	}
	return 0
}

// adjClose falls back to the unadjusted close when the adjusted series is
// missing a value.
func adjClose(adj []*float64, i int, close float64) float64 {
	if i < len(adj) && adj[i] != nil {
		return *adj[i]
	}
	return close
}
