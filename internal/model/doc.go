// Package model defines shared data types used across the option premium
// analyzer.
//
// Conventions:
//   - Prices: float64 dollars, matching the provider's JSON doubles and the
//     persisted schema contract
//   - Unknown market-data fields: nil pointers, serialized as JSON null
//   - Timestamps: time.Time, serialized as RFC 3339 strings
//   - IDs: string for tickers, uuid.UUID for run IDs
package model
