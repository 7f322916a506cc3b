package api

import (
	"context"
	"fmt"
	"net/url"
)

// GetLastTrade fetches the most recent trade for a ticker.
func (c *Client) GetLastTrade(ctx context.Context, ticker string) (*LastTradeResponse, error) {
	var resp LastTradeResponse
	if err := c.get(ctx, "/v2/last/trade/"+ticker, nil, &resp); err != nil {
		return nil, fmt.Errorf("get last trade %s: %w", ticker, err)
	}
	return &resp, nil
}

// GetLatestQuote fetches the most recent NBBO quote for a ticker. Returns
// nil without error when the provider has no quote on record.
func (c *Client) GetLatestQuote(ctx context.Context, ticker string) (*APIQuote, error) {
	query := url.Values{}
	query.Set("limit", "1")
	query.Set("sort", "timestamp")
	query.Set("order", "desc")

	var resp QuotesResponse
	if err := c.get(ctx, "/v3/quotes/"+ticker, query, &resp); err != nil {
		return nil, fmt.Errorf("get latest quote %s: %w", ticker, err)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	return &resp.Results[0], nil
}
