// Package query serves "top-N most recent" reads over the persisted batch
// corpus.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/gundeep08/option-premium-analyzer/internal/model"
	"github.com/gundeep08/option-premium-analyzer/internal/storage"
)

// Engine answers top-N queries. The returned string is an opaque execution
// ID for tracing the query in responses.
type Engine interface {
	TopRecent(ctx context.Context, n int) ([]model.RankedRecord, string, error)
}

// Error means a serving-time read failed. Callers surface it as an
// unsuccessful response; it never crashes the serving process.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("query %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// StoreEngine answers queries by scanning the batch object store directly:
// it flattens the many-files-each-an-array-of-records corpus, orders by
// observation timestamp, and truncates.
type StoreEngine struct {
	store  storage.ObjectStore
	prefix string
	logger *slog.Logger
}

// NewStoreEngine creates a StoreEngine over the given store and key prefix.
func NewStoreEngine(store storage.ObjectStore, prefix string, logger *slog.Logger) *StoreEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreEngine{store: store, prefix: prefix, logger: logger}
}

// TopRecent returns up to n records ordered by observation timestamp
// descending. Duplicate contract tickers across batches are collapsed to
// their most recent observation. An empty corpus yields an empty result,
// not an error.
func (e *StoreEngine) TopRecent(ctx context.Context, n int) ([]model.RankedRecord, string, error) {
	executionID := uuid.NewString()

	keys, err := e.store.List(ctx, e.prefix+"/")
	if err != nil {
		return nil, executionID, &Error{Op: "list batches", Err: err}
	}
	if len(keys) == 0 {
		return []model.RankedRecord{}, executionID, nil
	}

	var all []model.RankedRecord
	for _, key := range keys {
		data, err := e.store.Get(ctx, key)
		if err != nil {
			return nil, executionID, &Error{Op: "read batch " + key, Err: err}
		}
		batch, err := storage.DecodeBatch(data)
		if err != nil {
			return nil, executionID, &Error{Op: "decode batch " + key, Err: err}
		}
		all = append(all, batch.Records...)
	}

	records := Flatten(all, n)

	e.logger.Debug("store scan complete",
		"execution_id", executionID,
		"batches", len(keys),
		"records", len(records),
	)
	return records, executionID, nil
}

// Flatten orders records by observation timestamp descending (ties broken
// ascending by contract ticker for a total order), collapses duplicate
// contract tickers to the most recent observation, and truncates to n.
func Flatten(records []model.RankedRecord, n int) []model.RankedRecord {
	sorted := make([]model.RankedRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].ObservedAt.Equal(sorted[j].ObservedAt) {
			return sorted[i].ObservedAt.After(sorted[j].ObservedAt)
		}
		return sorted[i].ContractTicker < sorted[j].ContractTicker
	})

	seen := make(map[string]struct{}, len(sorted))
	out := make([]model.RankedRecord, 0, n)
	for _, r := range sorted {
		if _, ok := seen[r.ContractTicker]; ok {
			continue
		}
		seen[r.ContractTicker] = struct{}{}
		out = append(out, r)
		if len(out) == n {
			break
		}
	}
	return out
}
