package model

import (
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Reference Data
// -----------------------------------------------------------------------------

// Underlying is one of the tracked equity tickers with its reference price.
// It is resolved once per pipeline run and immutable within that run.
type Underlying struct {
	Symbol   string    // Ticker symbol (e.g., "AAPL")
	RefPrice float64   // Previous-close reference price in dollars
	AsOf     time.Time // When the reference price was observed
}

// OptionContract is a tradable option instance discovered for an underlying.
// Read-only after discovery.
type OptionContract struct {
	UnderlyingTicker string  // Underlying symbol (e.g., "AAPL")
	ContractTicker   string  // Provider contract identifier (e.g., "O:AAPL251219C00280000")
	ContractType     string  // "call" or "put"
	Strike           float64 // Strike price in dollars, > 0
	Expiration       string  // Expiration date, ISO format "2006-01-02"
}

// ExpirationDate parses the contract's expiration into a UTC date.
func (c OptionContract) ExpirationDate() (time.Time, error) {
	return time.Parse("2006-01-02", c.Expiration)
}

// -----------------------------------------------------------------------------
// Market Data
// -----------------------------------------------------------------------------

// QuoteSnapshot is point-in-time market data for one contract. Unknown fields
// are nil, never zero: a zero price is a valid market value and must not be
// conflated with "no data".
type QuoteSnapshot struct {
	Bid  *float64 // Best bid in dollars
	Ask  *float64 // Best ask in dollars
	Last *float64 // Last trade price in dollars

	// Previous-day aggregate
	Open   *float64
	High   *float64
	Low    *float64
	Close  *float64
	Volume *int64 // Contracts traded, non-negative
	VWAP   *float64

	ObservedAt time.Time // Observation timestamp
}

// HasQuote reports whether both sides of the book are known.
func (s QuoteSnapshot) HasQuote() bool {
	return s.Bid != nil && s.Ask != nil
}

// Empty reports whether the snapshot carries no market data at all.
func (s QuoteSnapshot) Empty() bool {
	return s.Bid == nil && s.Ask == nil && s.Last == nil &&
		s.Open == nil && s.High == nil && s.Low == nil &&
		s.Close == nil && s.Volume == nil && s.VWAP == nil
}

// -----------------------------------------------------------------------------
// Persisted Types
// -----------------------------------------------------------------------------

// RankedRecord is the persisted unit: underlying + contract + snapshot +
// derived profit score. Field names are the stable schema contract consumed
// by the downstream catalog; they must not change across runs.
type RankedRecord struct {
	UnderlyingTicker string    `json:"underlying_ticker"`
	CurrentPrice     float64   `json:"current_price"`
	Strike           float64   `json:"strike"`
	Expiration       string    `json:"expiration"`
	ContractTicker   string    `json:"contract_ticker"`
	ObservedAt       time.Time `json:"timestamp"`

	Open   *float64 `json:"open"`
	High   *float64 `json:"high"`
	Low    *float64 `json:"low"`
	Close  *float64 `json:"close"`
	Volume *int64   `json:"volume"`
	VWAP   *float64 `json:"vwap"`

	// ProfitScore is recomputed deterministically from the snapshot at
	// selection time; absent in the unranked configuration.
	ProfitScore *float64 `json:"profit_score,omitempty"`
}

// Batch is the ordered, append-only output of one pipeline run. Batches are
// never mutated or merged; the persisted corpus is the union of all batches.
type Batch struct {
	RunID   uuid.UUID      `json:"run_id"`
	RunAt   time.Time      `json:"run_at"`
	Records []RankedRecord `json:"records"`
}

// -----------------------------------------------------------------------------
// Pointer helpers
// -----------------------------------------------------------------------------

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int64) *int64 { return &v }
