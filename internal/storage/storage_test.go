package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gundeep08/option-premium-analyzer/internal/model"
)

func TestFSStorePutGet(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}
	ctx := context.Background()

	if err := store.Put(ctx, "prefix/2026-08-27-14-30.json", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	data, err := store.Get(ctx, "prefix/2026-08-27-14-30.json")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("Get() = %s, want original bytes", data)
	}
}

func TestFSStoreList(t *testing.T) {
	store, _ := NewFSStore(t.TempDir())
	ctx := context.Background()

	keys := []string{
		"prefix/2026-08-27-14-30.json",
		"prefix/2026-08-26-14-30.json",
		"other/2026-08-27-14-30.json",
	}
	for _, k := range keys {
		if err := store.Put(ctx, k, []byte("{}")); err != nil {
			t.Fatalf("Put(%s) error = %v", k, err)
		}
	}

	got, err := store.List(ctx, "prefix/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"prefix/2026-08-26-14-30.json", "prefix/2026-08-27-14-30.json"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v (lexical order)", got, want)
	}
}

func TestFSStoreListEmptyCorpus(t *testing.T) {
	store, _ := NewFSStore(t.TempDir())
	got, err := store.List(context.Background(), "prefix/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List() = %v, want empty", got)
	}
}

func TestFSStoreIgnoresInFlightWrites(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFSStore(dir)
	ctx := context.Background()

	if err := store.Put(ctx, "prefix/final.json", []byte("{}")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	// Simulate a crashed writer's leftover temp file.
	if err := os.WriteFile(filepath.Join(dir, "prefix", ".tmp-123"), []byte("junk"), 0o644); err != nil {
		t.Fatalf("write temp: %v", err)
	}

	got, err := store.List(ctx, "prefix/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0] != "prefix/final.json" {
		t.Errorf("List() = %v, want only the finalized object", got)
	}
}

func TestFSStoreRejectsEscapingKeys(t *testing.T) {
	store, _ := NewFSStore(t.TempDir())
	for _, key := range []string{"../escape.json", "/abs.json", "a/../../b"} {
		if err := store.Put(context.Background(), key, []byte("{}")); err == nil {
			t.Errorf("Put(%q) expected error", key)
		}
	}
}

func TestBatchKey(t *testing.T) {
	runAt := time.Date(2026, 8, 27, 14, 30, 45, 0, time.UTC)
	runID := uuid.MustParse("1b4e28ba-0000-0000-0000-000000000001")
	got := BatchKey("magnificent-seven-options", runAt, runID)
	want := "magnificent-seven-options/2026-08-27-14-30-45-1b4e28ba.json"
	if got != want {
		t.Errorf("BatchKey() = %q, want %q", got, want)
	}

	// Two runs in the same second must not share a key.
	other := BatchKey("magnificent-seven-options", runAt, uuid.MustParse("2c5f39cb-0000-0000-0000-000000000002"))
	if other == got {
		t.Errorf("BatchKey() = %q for a different run ID, want distinct keys", other)
	}
}

func sampleBatch() model.Batch {
	return model.Batch{
		RunID: uuid.MustParse("4f5e6d7c-0000-0000-0000-000000000001"),
		RunAt: time.Date(2026, 8, 27, 14, 30, 0, 0, time.UTC),
		Records: []model.RankedRecord{{
			UnderlyingTicker: "AAPL",
			CurrentPrice:     278.85,
			Strike:           280.0,
			Expiration:       "2026-09-18",
			ContractTicker:   "O:AAPL260918C00280000",
			ObservedAt:       time.Date(2026, 8, 27, 14, 30, 0, 0, time.UTC),
			Open:             model.Float(1.84),
			High:             model.Float(2.44),
			Low:              model.Float(1.3),
			Close:            model.Float(2.29),
			Volume:           model.Int(22804),
			VWAP:             model.Float(1.7042),
			ProfitScore:      model.Float(12.226),
		}},
	}
}

// A written batch reads back value-for-value.
func TestBatchWriterRoundTrip(t *testing.T) {
	store, _ := NewFSStore(t.TempDir())
	writer := NewBatchWriter(store, "magnificent-seven-options", nil)
	ctx := context.Background()

	batch := sampleBatch()
	key, err := writer.Write(ctx, batch)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if key != "magnificent-seven-options/2026-08-27-14-30-00-4f5e6d7c.json" {
		t.Errorf("key = %q, want timestamp-and-run-derived key", key)
	}

	data, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got, err := DecodeBatch(data)
	if err != nil {
		t.Fatalf("DecodeBatch() error = %v", err)
	}

	if got.RunID != batch.RunID {
		t.Errorf("RunID = %v, want %v", got.RunID, batch.RunID)
	}
	if len(got.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(got.Records))
	}
	r, w := got.Records[0], batch.Records[0]
	if r.UnderlyingTicker != w.UnderlyingTicker || r.CurrentPrice != w.CurrentPrice ||
		r.Strike != w.Strike || r.Expiration != w.Expiration || r.ContractTicker != w.ContractTicker {
		t.Errorf("record identity fields changed: %+v", r)
	}
	if *r.Open != *w.Open || *r.High != *w.High || *r.Low != *w.Low || *r.Close != *w.Close {
		t.Errorf("OHLC changed: %+v", r)
	}
	if *r.Volume != *w.Volume || *r.VWAP != *w.VWAP || *r.ProfitScore != *w.ProfitScore {
		t.Errorf("volume/vwap/score changed: %+v", r)
	}
	if !r.ObservedAt.Equal(w.ObservedAt) {
		t.Errorf("ObservedAt = %v, want %v", r.ObservedAt, w.ObservedAt)
	}
}

type failingStore struct{}

func (failingStore) Put(ctx context.Context, key string, data []byte) error {
	return errors.New("disk full")
}
func (failingStore) Get(ctx context.Context, key string) ([]byte, error) { return nil, nil }
func (failingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return nil, nil
}

func TestBatchWriterUnconfirmedWriteIsFatal(t *testing.T) {
	writer := NewBatchWriter(failingStore{}, "p", nil)
	_, err := writer.Write(context.Background(), sampleBatch())

	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *PersistenceError", err)
	}
}

// Runs never overwrite each other, even when started in the same second.
func TestBatchWriterIndependentRuns(t *testing.T) {
	store, _ := NewFSStore(t.TempDir())
	writer := NewBatchWriter(store, "p", nil)
	ctx := context.Background()

	first := sampleBatch()
	second := sampleBatch()
	second.RunID = uuid.MustParse("8a9b0c1d-0000-0000-0000-000000000002")

	if _, err := writer.Write(ctx, first); err != nil {
		t.Fatalf("Write(first) error = %v", err)
	}
	if _, err := writer.Write(ctx, second); err != nil {
		t.Fatalf("Write(second) error = %v", err)
	}

	keys, err := store.List(ctx, "p/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("len(keys) = %d, want 2 independent batch objects", len(keys))
	}
}
