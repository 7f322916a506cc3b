package api

import (
	"context"
	"fmt"
)

// GetPreviousClose fetches the previous-day aggregate for a ticker. Works for
// both equity tickers ("AAPL") and option tickers ("O:AAPL251219C00280000").
func (c *Client) GetPreviousClose(ctx context.Context, ticker string) (*AggsResponse, error) {
	var resp AggsResponse
	if err := c.get(ctx, "/v2/aggs/ticker/"+ticker+"/prev", nil, &resp); err != nil {
		return nil, fmt.Errorf("get previous close %s: %w", ticker, err)
	}
	return &resp, nil
}

// GetDayAggregate fetches the single-day aggregate bar for a ticker on the
// given ISO date. Used as a reference-price fallback when the previous-close
// endpoint has no data.
func (c *Client) GetDayAggregate(ctx context.Context, ticker, date string) (*AggsResponse, error) {
	var resp AggsResponse
	if err := c.get(ctx, "/v2/aggs/ticker/"+ticker+"/range/1/day/"+date+"/"+date, nil, &resp); err != nil {
		return nil, fmt.Errorf("get day aggregate %s %s: %w", ticker, date, err)
	}
	return &resp, nil
}

// FirstBar returns the response's first aggregate bar, or false when the
// market had no data (stale ticker, holiday).
func (r *AggsResponse) FirstBar() (AggBar, bool) {
	if len(r.Results) == 0 {
		return AggBar{}, false
	}
	return r.Results[0], true
}
