// Package discovery resolves each tracked underlying's reference price and
// enumerates candidate option contracts within the configured selection
// window.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/gundeep08/option-premium-analyzer/internal/api"
	"github.com/gundeep08/option-premium-analyzer/internal/config"
	"github.com/gundeep08/option-premium-analyzer/internal/model"
)

// Provider is the subset of the API client discovery depends on.
type Provider interface {
	GetPreviousClose(ctx context.Context, ticker string) (*api.AggsResponse, error)
	GetDayAggregate(ctx context.Context, ticker, date string) (*api.AggsResponse, error)
	GetAllContracts(ctx context.Context, opts api.GetContractsOptions) ([]api.APIContract, error)
}

// Error means discovery failed for one ticker. The run skips the ticker and
// continues; other tickers are unaffected.
type Error struct {
	Ticker string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("discovery %s: %s: %v", e.Ticker, e.Reason, e.Err)
	}
	return fmt.Sprintf("discovery %s: %s", e.Ticker, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Service discovers candidate contracts for tracked underlyings.
type Service struct {
	provider Provider
	cfg      config.DiscoveryConfig
	logger   *slog.Logger
}

// New creates a discovery service.
func New(provider Provider, cfg config.DiscoveryConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{provider: provider, cfg: cfg, logger: logger}
}

// Discover resolves the reference price for ticker and returns candidate
// contracts filtered to the configured window, in deterministic order:
// ascending distance-from-money, then expiration, then contract ticker.
func (s *Service) Discover(ctx context.Context, ticker string, runDate time.Time) (model.Underlying, []model.OptionContract, error) {
	underlying, err := s.referencePrice(ctx, ticker, runDate)
	if err != nil {
		return model.Underlying{}, nil, err
	}

	contracts, err := s.provider.GetAllContracts(ctx, api.GetContractsOptions{
		UnderlyingTicker: ticker,
		ContractType:     s.cfg.ContractType,
		ExpirationGTE:    runDate.UTC().Format("2006-01-02"),
		Limit:            s.cfg.PageLimit,
	})
	if err != nil {
		return model.Underlying{}, nil, &Error{Ticker: ticker, Reason: "contract listing failed", Err: err}
	}

	candidates := s.filter(contracts, underlying.RefPrice, runDate)
	if len(candidates) == 0 {
		return model.Underlying{}, nil, &Error{Ticker: ticker, Reason: "no candidates in selection window"}
	}

	sortCandidates(candidates, underlying.RefPrice)

	s.logger.Debug("discovered candidates",
		"ticker", ticker,
		"ref_price", underlying.RefPrice,
		"listed", len(contracts),
		"candidates", len(candidates),
	)

	return underlying, candidates, nil
}

// referencePrice resolves the underlying's reference price from the
// previous-day close, falling back to the run day's aggregate when the
// previous-close endpoint has no data.
func (s *Service) referencePrice(ctx context.Context, ticker string, runDate time.Time) (model.Underlying, error) {
	var prevErr error
	resp, err := s.provider.GetPreviousClose(ctx, ticker)
	if err == nil {
		if bar, ok := resp.FirstBar(); ok {
			return model.Underlying{
				Symbol:   ticker,
				RefPrice: bar.Close,
				AsOf:     time.UnixMilli(bar.Timestamp).UTC(),
			}, nil
		}
	} else {
		prevErr = err
	}

	day := runDate.UTC().Format("2006-01-02")
	s.logger.Warn("previous close unavailable, trying same-day aggregate",
		"ticker", ticker,
		"date", day,
		"err", prevErr,
	)

	resp, err = s.provider.GetDayAggregate(ctx, ticker, day)
	if err != nil {
		return model.Underlying{}, &Error{Ticker: ticker, Reason: "reference price lookup failed", Err: err}
	}
	bar, ok := resp.FirstBar()
	if !ok {
		return model.Underlying{}, &Error{Ticker: ticker, Reason: "no reference price data"}
	}

	return model.Underlying{
		Symbol:   ticker,
		RefPrice: bar.Close,
		AsOf:     time.UnixMilli(bar.Timestamp).UTC(),
	}, nil
}

// filter keeps near-the-money contracts on the nearest upcoming expirations.
func (s *Service) filter(contracts []api.APIContract, refPrice float64, runDate time.Time) []model.OptionContract {
	runDay := runDate.UTC().Truncate(24 * time.Hour)
	window := s.cfg.StrikeWindowPct * refPrice

	var eligible []model.OptionContract
	expirations := make(map[string]struct{})

	for _, c := range contracts {
		if c.StrikePrice <= 0 {
			continue
		}
		if dist := c.StrikePrice - refPrice; dist > window || dist < -window {
			continue
		}
		exp, err := time.Parse("2006-01-02", c.ExpirationDate)
		if err != nil || exp.Before(runDay) {
			continue
		}
		eligible = append(eligible, model.OptionContract{
			UnderlyingTicker: c.UnderlyingTicker,
			ContractTicker:   c.Ticker,
			ContractType:     c.ContractType,
			Strike:           c.StrikePrice,
			Expiration:       c.ExpirationDate,
		})
		expirations[c.ExpirationDate] = struct{}{}
	}

	if len(expirations) <= s.cfg.MaxExpirations {
		return eligible
	}

	// Keep only the N nearest expiration dates. ISO dates sort lexically.
	dates := make([]string, 0, len(expirations))
	for d := range expirations {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	keep := make(map[string]struct{}, s.cfg.MaxExpirations)
	for _, d := range dates[:s.cfg.MaxExpirations] {
		keep[d] = struct{}{}
	}

	out := eligible[:0]
	for _, c := range eligible {
		if _, ok := keep[c.Expiration]; ok {
			out = append(out, c)
		}
	}
	return out
}

// sortCandidates orders candidates deterministically so downstream top-K
// selection is reproducible across runs.
func sortCandidates(candidates []model.OptionContract, refPrice float64) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di := abs(candidates[i].Strike - refPrice)
		dj := abs(candidates[j].Strike - refPrice)
		if di != dj {
			return di < dj
		}
		if candidates[i].Expiration != candidates[j].Expiration {
			return candidates[i].Expiration < candidates[j].Expiration
		}
		return candidates[i].ContractTicker < candidates[j].ContractTicker
	})
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
