package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gundeep08/option-premium-analyzer/internal/model"
)

// keyTimeLayout orders keys chronologically to the second, e.g.
// magnificent-seven-options/2026-08-27-14-30-05-1b4e28ba.json
const keyTimeLayout = "2006-01-02-15-04-05"

// BatchKey derives the object key for one run. The run ID suffix keeps runs
// started within the same second from overwriting each other.
func BatchKey(prefix string, runAt time.Time, runID uuid.UUID) string {
	return prefix + "/" + runAt.UTC().Format(keyTimeLayout) + "-" + runID.String()[:8] + ".json"
}

// EncodeBatch serializes a batch as its self-describing JSON document.
func EncodeBatch(batch model.Batch) ([]byte, error) {
	data, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("encode batch: %w", err)
	}
	return data, nil
}

// DecodeBatch parses a stored batch document.
func DecodeBatch(data []byte) (model.Batch, error) {
	var batch model.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return model.Batch{}, fmt.Errorf("decode batch: %w", err)
	}
	return batch, nil
}

// BatchWriter persists completed run batches.
type BatchWriter struct {
	store  ObjectStore
	prefix string
	logger *slog.Logger
}

// NewBatchWriter creates a BatchWriter.
func NewBatchWriter(store ObjectStore, prefix string, logger *slog.Logger) *BatchWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchWriter{store: store, prefix: prefix, logger: logger}
}

// Write persists the batch and returns its key. An unconfirmed write returns
// a *PersistenceError; the batch then does not exist.
func (w *BatchWriter) Write(ctx context.Context, batch model.Batch) (string, error) {
	key := BatchKey(w.prefix, batch.RunAt, batch.RunID)

	data, err := EncodeBatch(batch)
	if err != nil {
		return "", &PersistenceError{Key: key, Err: err}
	}

	if err := w.store.Put(ctx, key, data); err != nil {
		return "", &PersistenceError{Key: key, Err: err}
	}

	w.logger.Info("batch written",
		"key", key,
		"run_id", batch.RunID,
		"records", len(batch.Records),
		"bytes", len(data),
	)
	return key, nil
}
