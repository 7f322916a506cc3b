// Package pipeline orchestrates one ingestion run: discovery, fetching,
// selection, and batch persistence, sequentially per ticker.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gundeep08/option-premium-analyzer/internal/discovery"
	"github.com/gundeep08/option-premium-analyzer/internal/fetcher"
	"github.com/gundeep08/option-premium-analyzer/internal/model"
	"github.com/gundeep08/option-premium-analyzer/internal/scoring"
)

// Discoverer resolves reference price and candidates for one ticker.
type Discoverer interface {
	Discover(ctx context.Context, ticker string, runDate time.Time) (model.Underlying, []model.OptionContract, error)
}

// SnapshotFetcher assembles market data for one contract.
type SnapshotFetcher interface {
	Fetch(ctx context.Context, contract model.OptionContract) (model.QuoteSnapshot, error)
}

// Selector picks the run's surviving records.
type Selector interface {
	Select(candidates []scoring.Candidate) []model.RankedRecord
}

// BatchWriter persists a completed batch.
type BatchWriter interface {
	Write(ctx context.Context, batch model.Batch) (string, error)
}

// BatchLoader mirrors a written batch into the warehouse. Optional.
type BatchLoader interface {
	LoadBatch(ctx context.Context, batch model.Batch) (int, error)
}

// Result summarizes one run.
type Result struct {
	RunID            uuid.UUID
	Key              string // object key of the written batch; empty if no records
	Records          int
	TickersProcessed int
	TickersSkipped   int
	ContractsDropped int
	Duration         time.Duration
}

// Pipeline runs the ingestion flow. Tickers are processed strictly
// sequentially: the provider rate budget is shared, so concurrent fetches
// would blow it.
type Pipeline struct {
	discoverer Discoverer
	fetcher    SnapshotFetcher
	selector   Selector
	writer     BatchWriter
	loader     BatchLoader // nil = warehouse disabled
	logger     *slog.Logger

	now func() time.Time
}

// New creates a Pipeline. loader may be nil.
func New(d Discoverer, f SnapshotFetcher, s Selector, w BatchWriter, loader BatchLoader, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		discoverer: d,
		fetcher:    f,
		selector:   s,
		writer:     w,
		loader:     loader,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes one complete invocation over the given tickers and writes a
// single immutable batch. Per-ticker and per-contract failures are recovered
// locally; only an unconfirmed batch write fails the run. If the context
// expires mid-collection, not-yet-processed tickers are simply absent from
// the batch; nothing is written until collection stops.
func (p *Pipeline) Run(ctx context.Context, tickers []string) (*Result, error) {
	start := p.now()
	runAt := start.UTC()
	result := &Result{RunID: uuid.New()}

	p.logger.Info("pipeline run starting",
		"run_id", result.RunID,
		"tickers", len(tickers),
	)

	var candidates []scoring.Candidate

	for _, ticker := range tickers {
		if ctx.Err() != nil {
			p.logger.Warn("run deadline reached mid-collection",
				"run_id", result.RunID,
				"processed", result.TickersProcessed,
				"remaining", len(tickers)-result.TickersProcessed,
			)
			break
		}

		underlying, contracts, err := p.discoverer.Discover(ctx, ticker, runAt)
		if err != nil {
			var discErr *discovery.Error
			if errors.As(err, &discErr) {
				p.logger.Warn("skipping ticker", "ticker", ticker, "err", err)
				result.TickersSkipped++
				continue
			}
			p.logger.Warn("discovery failed, skipping ticker", "ticker", ticker, "err", err)
			result.TickersSkipped++
			continue
		}

		for _, contract := range contracts {
			if ctx.Err() != nil {
				break
			}
			snap, err := p.fetcher.Fetch(ctx, contract)
			if err != nil {
				var fetchErr *fetcher.Error
				if errors.As(err, &fetchErr) {
					p.logger.Warn("dropping contract",
						"contract", contract.ContractTicker,
						"err", err,
					)
					result.ContractsDropped++
					continue
				}
				result.ContractsDropped++
				continue
			}
			candidates = append(candidates, scoring.Candidate{
				Underlying: underlying,
				Contract:   contract,
				Snapshot:   snap,
			})
		}

		result.TickersProcessed++
	}

	records := p.selector.Select(candidates)
	result.Records = len(records)

	if len(records) == 0 {
		result.Duration = p.now().Sub(start)
		p.logger.Warn("run produced no records, skipping batch write",
			"run_id", result.RunID,
			"skipped", result.TickersSkipped,
			"dropped", result.ContractsDropped,
		)
		return result, nil
	}

	batch := model.Batch{RunID: result.RunID, RunAt: runAt, Records: records}

	// Persistence proceeds even if the collection deadline passed: the batch
	// is complete as collected.
	writeCtx := context.WithoutCancel(ctx)
	key, err := p.writer.Write(writeCtx, batch)
	if err != nil {
		return nil, err
	}
	result.Key = key

	if p.loader != nil {
		if _, err := p.loader.LoadBatch(writeCtx, batch); err != nil {
			// The batch object is already durable; the warehouse catches up
			// on its own schedule.
			p.logger.Error("warehouse load failed", "run_id", result.RunID, "err", err)
		}
	}

	result.Duration = p.now().Sub(start)
	p.logger.Info("pipeline run complete",
		"run_id", result.RunID,
		"key", result.Key,
		"records", result.Records,
		"tickers_processed", result.TickersProcessed,
		"tickers_skipped", result.TickersSkipped,
		"contracts_dropped", result.ContractsDropped,
		"duration", result.Duration,
	)
	return result, nil
}
