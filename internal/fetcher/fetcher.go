// Package fetcher assembles per-contract quote snapshots from the provider's
// aggregate, quote, and trade endpoints.
package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gundeep08/option-premium-analyzer/internal/api"
	"github.com/gundeep08/option-premium-analyzer/internal/model"
)

// Provider is the subset of the API client the fetcher depends on.
type Provider interface {
	GetPreviousClose(ctx context.Context, ticker string) (*api.AggsResponse, error)
	GetLatestQuote(ctx context.Context, ticker string) (*api.APIQuote, error)
	GetLastTrade(ctx context.Context, ticker string) (*api.LastTradeResponse, error)
}

// Error means a contract's snapshot could not be assembled at all. The run
// drops the contract from the scoring pool and continues.
type Error struct {
	ContractTicker string
	Err            error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.ContractTicker, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Fetcher retrieves market data for candidate contracts.
type Fetcher struct {
	provider Provider
	logger   *slog.Logger

	now func() time.Time
}

// New creates a Fetcher.
func New(provider Provider, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{provider: provider, logger: logger, now: time.Now}
}

// Fetch combines the contract's previous-day aggregate with its latest quote
// and last trade. Pieces that fail or return nothing stay nil in the
// snapshot; only a contract with no market data at all fails.
func (f *Fetcher) Fetch(ctx context.Context, contract model.OptionContract) (model.QuoteSnapshot, error) {
	snap := model.QuoteSnapshot{ObservedAt: f.now().UTC()}

	aggs, err := f.provider.GetPreviousClose(ctx, contract.ContractTicker)
	if err != nil {
		f.logger.Warn("option aggregate unavailable",
			"contract", contract.ContractTicker,
			"err", err,
		)
	} else if bar, ok := aggs.FirstBar(); ok {
		snap.Open = model.Float(bar.Open)
		snap.High = model.Float(bar.High)
		snap.Low = model.Float(bar.Low)
		snap.Close = model.Float(bar.Close)
		snap.Volume = model.Int(int64(bar.Volume))
		if bar.VWAP != nil {
			snap.VWAP = model.Float(*bar.VWAP)
		}
	}

	quote, err := f.provider.GetLatestQuote(ctx, contract.ContractTicker)
	if err != nil {
		f.logger.Warn("quote unavailable",
			"contract", contract.ContractTicker,
			"err", err,
		)
	} else if quote != nil {
		snap.Bid = model.Float(quote.BidPrice)
		snap.Ask = model.Float(quote.AskPrice)
	}

	trade, err := f.provider.GetLastTrade(ctx, contract.ContractTicker)
	if err != nil {
		f.logger.Warn("last trade unavailable",
			"contract", contract.ContractTicker,
			"err", err,
		)
	} else if trade != nil && trade.Results != nil {
		snap.Last = model.Float(trade.Results.Price)
	}

	if snap.Empty() {
		return model.QuoteSnapshot{}, &Error{
			ContractTicker: contract.ContractTicker,
			Err:            fmt.Errorf("no market data from any endpoint"),
		}
	}

	return snap, nil
}
