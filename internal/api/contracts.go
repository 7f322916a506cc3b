package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetContracts fetches a page of option contracts.
func (c *Client) GetContracts(ctx context.Context, opts GetContractsOptions) (*ContractsResponse, error) {
	query := url.Values{}

	if opts.UnderlyingTicker != "" {
		query.Set("underlying_ticker", opts.UnderlyingTicker)
	}
	if opts.ContractType != "" {
		query.Set("contract_type", opts.ContractType)
	}
	if opts.ExpirationGTE != "" {
		query.Set("expiration_date.gte", opts.ExpirationGTE)
	}
	if opts.ExpirationLTE != "" {
		query.Set("expiration_date.lte", opts.ExpirationLTE)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}

	var resp ContractsResponse
	if err := c.get(ctx, "/v3/reference/options/contracts", query, &resp); err != nil {
		return nil, fmt.Errorf("get contracts: %w", err)
	}

	return &resp, nil
}

// GetAllContracts fetches all contracts matching the given options by
// paginating through results.
func (c *Client) GetAllContracts(ctx context.Context, opts GetContractsOptions) ([]APIContract, error) {
	var all []APIContract

	for {
		resp, err := c.GetContracts(ctx, opts)
		if err != nil {
			return nil, err
		}

		all = append(all, resp.Results...)

		cursor, err := nextCursor(resp.NextURL)
		if err != nil {
			return nil, err
		}
		if cursor == "" {
			break
		}
		opts.Cursor = cursor
	}

	return all, nil
}

// nextCursor extracts the pagination cursor from a next_url value.
func nextCursor(nextURL string) (string, error) {
	if nextURL == "" {
		return "", nil
	}
	u, err := url.Parse(nextURL)
	if err != nil {
		return "", fmt.Errorf("parse next_url: %w", err)
	}
	return u.Query().Get("cursor"), nil
}
