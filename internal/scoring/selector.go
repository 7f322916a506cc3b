package scoring

import (
	"log/slog"
	"sort"

	"github.com/gundeep08/option-premium-analyzer/internal/config"
	"github.com/gundeep08/option-premium-analyzer/internal/model"
)

// Candidate is a fully fetched contract awaiting selection.
type Candidate struct {
	Underlying model.Underlying
	Contract   model.OptionContract
	Snapshot   model.QuoteSnapshot
}

// Selector applies the configured selection policy to a run's candidates.
// One component serves both variants: ranked top-K and unranked first-match
// passthrough.
type Selector struct {
	cfg    config.SelectionConfig
	logger *slog.Logger
}

// NewSelector creates a Selector.
func NewSelector(cfg config.SelectionConfig, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{cfg: cfg, logger: logger}
}

// Select returns the run's surviving records. In ranked mode candidates are
// scored and sorted strictly descending by score with ties broken ascending
// by contract ticker; the top K survive (globally, or per underlying when
// configured). Fewer eligible candidates than K selects all of them;
// records are never padded or fabricated.
func (s *Selector) Select(candidates []Candidate) []model.RankedRecord {
	if len(candidates) == 0 {
		return nil
	}

	if !s.cfg.Ranked {
		return s.passthrough(candidates)
	}

	// Unset weights fall back to defaults; a configured zero disables
	// that dimension.
	weights := DefaultWeights()
	if w := s.cfg.LiquidityWeight; w != nil {
		weights.Liquidity = *w
	}
	if w := s.cfg.SpreadWeight; w != nil {
		weights.Spread = *w
	}
	if w := s.cfg.MoneynessWeight; w != nil {
		weights.Moneyness = *w
	}

	records := make([]model.RankedRecord, 0, len(candidates))
	for _, c := range candidates {
		score := Score(c.Contract, c.Snapshot, c.Underlying.RefPrice, weights)
		records = append(records, buildRecord(c, &score))
	}

	sortRecords(records)

	if s.cfg.PerTicker {
		records = capPerTicker(records, s.cfg.TopK)
	} else if len(records) > s.cfg.TopK {
		records = records[:s.cfg.TopK]
	}

	s.logger.Debug("selection complete",
		"candidates", len(candidates),
		"selected", len(records),
		"top_k", s.cfg.TopK,
		"per_ticker", s.cfg.PerTicker,
	)

	return records
}

// passthrough keeps the first discovered candidate per underlying, unscored.
func (s *Selector) passthrough(candidates []Candidate) []model.RankedRecord {
	seen := make(map[string]struct{})
	var records []model.RankedRecord
	for _, c := range candidates {
		if _, ok := seen[c.Underlying.Symbol]; ok {
			continue
		}
		seen[c.Underlying.Symbol] = struct{}{}
		records = append(records, buildRecord(c, nil))
	}
	return records
}

// sortRecords orders strictly descending by score, ties ascending by
// contract ticker, giving a total order.
func sortRecords(records []model.RankedRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		si, sj := *records[i].ProfitScore, *records[j].ProfitScore
		if si != sj {
			return si > sj
		}
		return records[i].ContractTicker < records[j].ContractTicker
	})
}

// capPerTicker keeps at most k records per underlying, preserving order.
func capPerTicker(records []model.RankedRecord, k int) []model.RankedRecord {
	counts := make(map[string]int)
	out := records[:0]
	for _, r := range records {
		if counts[r.UnderlyingTicker] >= k {
			continue
		}
		counts[r.UnderlyingTicker]++
		out = append(out, r)
	}
	return out
}

// buildRecord joins underlying, contract, and snapshot into the persisted
// record shape.
func buildRecord(c Candidate, score *float64) model.RankedRecord {
	return model.RankedRecord{
		UnderlyingTicker: c.Underlying.Symbol,
		CurrentPrice:     c.Underlying.RefPrice,
		Strike:           c.Contract.Strike,
		Expiration:       c.Contract.Expiration,
		ContractTicker:   c.Contract.ContractTicker,
		ObservedAt:       c.Snapshot.ObservedAt,
		Open:             c.Snapshot.Open,
		High:             c.Snapshot.High,
		Low:              c.Snapshot.Low,
		Close:            c.Snapshot.Close,
		Volume:           c.Snapshot.Volume,
		VWAP:             c.Snapshot.VWAP,
		ProfitScore:      score,
	}
}
