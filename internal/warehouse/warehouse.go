// Package warehouse mirrors persisted batches into a Postgres table for SQL
// analytics. It stands in for the managed catalog/query engine: the loader is
// the "catalog refresh" and TopRecent is the query side.
//
// Loading is append-only and idempotent: rows key on (contract_ticker,
// observed_at) and conflicts are ignored, so re-loading a batch is harmless.
package warehouse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gundeep08/option-premium-analyzer/internal/model"
	"github.com/gundeep08/option-premium-analyzer/internal/query"
)

// Schema is the warehouse table DDL, applied on Store construction.
const Schema = `
CREATE TABLE IF NOT EXISTS ranked_records (
	contract_ticker   TEXT             NOT NULL,
	observed_at       TIMESTAMPTZ      NOT NULL,
	underlying_ticker TEXT             NOT NULL,
	current_price     DOUBLE PRECISION NOT NULL,
	strike            DOUBLE PRECISION NOT NULL,
	expiration        DATE             NOT NULL,
	open              DOUBLE PRECISION,
	high              DOUBLE PRECISION,
	low               DOUBLE PRECISION,
	close             DOUBLE PRECISION,
	volume            BIGINT,
	vwap              DOUBLE PRECISION,
	profit_score      DOUBLE PRECISION,
	run_id            UUID             NOT NULL,
	PRIMARY KEY (contract_ticker, observed_at)
)`

// Store is the Postgres-backed analytic store.
type Store struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// New creates a Store and ensures the schema exists.
func New(ctx context.Context, db *pgxpool.Pool, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := db.Exec(ctx, Schema); err != nil {
		return nil, fmt.Errorf("ensure warehouse schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// recordRow is the flattened insert shape for one ranked record.
type recordRow struct {
	ContractTicker   string
	ObservedAt       time.Time
	UnderlyingTicker string
	CurrentPrice     float64
	Strike           float64
	Expiration       string
	Open             *float64
	High             *float64
	Low              *float64
	Close            *float64
	Volume           *int64
	VWAP             *float64
	ProfitScore      *float64
	RunID            uuid.UUID
}

// rowFromRecord transforms a persisted record into its insert row.
func rowFromRecord(runID uuid.UUID, r model.RankedRecord) recordRow {
	return recordRow{
		ContractTicker:   r.ContractTicker,
		ObservedAt:       r.ObservedAt.UTC(),
		UnderlyingTicker: r.UnderlyingTicker,
		CurrentPrice:     r.CurrentPrice,
		Strike:           r.Strike,
		Expiration:       r.Expiration,
		Open:             r.Open,
		High:             r.High,
		Low:              r.Low,
		Close:            r.Close,
		Volume:           r.Volume,
		VWAP:             r.VWAP,
		ProfitScore:      r.ProfitScore,
		RunID:            runID,
	}
}

// LoadBatch inserts a batch's records using a single pgx batch with
// ON CONFLICT DO NOTHING. Returns the number of conflicts skipped.
func (s *Store) LoadBatch(ctx context.Context, b model.Batch) (conflicts int, err error) {
	if len(b.Records) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, r := range b.Records {
		row := rowFromRecord(b.RunID, r)
		batch.Queue(`
			INSERT INTO ranked_records (contract_ticker, observed_at, underlying_ticker, current_price, strike, expiration, open, high, low, close, volume, vwap, profit_score, run_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (contract_ticker, observed_at) DO NOTHING
		`, row.ContractTicker, row.ObservedAt, row.UnderlyingTicker, row.CurrentPrice, row.Strike, row.Expiration,
			row.Open, row.High, row.Low, row.Close, row.Volume, row.VWAP, row.ProfitScore, row.RunID)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range b.Records {
		ct, err := results.Exec()
		if err != nil {
			return 0, fmt.Errorf("insert ranked record: %w", err)
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	s.logger.Info("batch loaded into warehouse",
		"run_id", b.RunID,
		"records", len(b.Records),
		"conflicts", conflicts,
	)
	return conflicts, nil
}

// TopRecent returns up to n records ordered by observation timestamp
// descending, one row per contract ticker (most recent observation wins).
// Implements query.Engine; the execution ID traces the query in responses.
func (s *Store) TopRecent(ctx context.Context, n int) ([]model.RankedRecord, string, error) {
	executionID := uuid.NewString()

	// The subquery re-orders DISTINCT ON's contract_ticker ordering by
	// recency so LIMIT keeps the result bounded as batches accumulate.
	rows, err := s.db.Query(ctx, `
		SELECT underlying_ticker, current_price, strike, expiration, contract_ticker,
			observed_at, open, high, low, close, volume, vwap, profit_score
		FROM (
			SELECT DISTINCT ON (contract_ticker)
				underlying_ticker, current_price, strike, to_char(expiration, 'YYYY-MM-DD') AS expiration,
				contract_ticker, observed_at, open, high, low, close, volume, vwap, profit_score
			FROM ranked_records
			ORDER BY contract_ticker, observed_at DESC
		) latest
		ORDER BY observed_at DESC, contract_ticker
		LIMIT $1
	`, n)
	if err != nil {
		return nil, executionID, fmt.Errorf("query warehouse: %w", err)
	}
	defer rows.Close()

	var records []model.RankedRecord
	for rows.Next() {
		var r model.RankedRecord
		if err := rows.Scan(
			&r.UnderlyingTicker, &r.CurrentPrice, &r.Strike, &r.Expiration, &r.ContractTicker,
			&r.ObservedAt, &r.Open, &r.High, &r.Low, &r.Close, &r.Volume, &r.VWAP, &r.ProfitScore,
		); err != nil {
			return nil, executionID, fmt.Errorf("scan ranked record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, executionID, fmt.Errorf("iterate ranked records: %w", err)
	}

	// Rows arrive deduplicated and recency-ordered; Flatten keeps this
	// path's ordering contract identical to the store engine's.
	return query.Flatten(records, n), executionID, nil
}
