package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gundeep08/option-premium-analyzer/internal/config"
	"github.com/gundeep08/option-premium-analyzer/internal/model"
)

type fakeEngine struct {
	records []model.RankedRecord
	execID  string
	err     error
}

func (f *fakeEngine) TopRecent(ctx context.Context, n int) ([]model.RankedRecord, string, error) {
	if f.err != nil {
		return nil, f.execID, f.err
	}
	if n < len(f.records) {
		return f.records[:n], f.execID, nil
	}
	return f.records, f.execID, nil
}

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Addr:         ":0",
		RecentWindow: 7,
		TopK:         3,
		DataSource:   "batch-store",
	}
}

func record(contract, underlying string, score float64, closePrice float64) model.RankedRecord {
	return model.RankedRecord{
		UnderlyingTicker: underlying,
		CurrentPrice:     278.85,
		Strike:           280,
		Expiration:       "2026-09-18",
		ContractTicker:   contract,
		ObservedAt:       time.Date(2026, 8, 27, 15, 0, 0, 0, time.UTC),
		Close:            model.Float(closePrice),
		Volume:           model.Int(1200),
		ProfitScore:      model.Float(score),
	}
}

func TestHandleTopOptions(t *testing.T) {
	engine := &fakeEngine{
		records: []model.RankedRecord{
			record("O:AAPL260918C00280000", "AAPL", 9.1, 4.35),
			record("O:MSFT260918C00500000", "MSFT", 7.2, 6.10),
			record("O:NVDA260918C00180000", "NVDA", 8.4, 2.05),
			record("O:TSLA260918C00250000", "TSLA", 3.3, 1.10),
		},
		execID: "exec-123",
	}
	srv := New(testServerConfig(), engine, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/options/top", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", origin)
	}

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !env.Success {
		t.Fatalf("Success = false, message %q", env.Message)
	}
	if env.Data == nil {
		t.Fatal("Data is nil")
	}
	if len(env.Data.TopOptions) != 3 {
		t.Fatalf("len(TopOptions) = %d, want 3", len(env.Data.TopOptions))
	}
	// Ranked by profit score, best first.
	wantOrder := []string{"O:AAPL260918C00280000", "O:NVDA260918C00180000", "O:MSFT260918C00500000"}
	for i, want := range wantOrder {
		if got := env.Data.TopOptions[i].ContractTicker; got != want {
			t.Errorf("TopOptions[%d].ContractTicker = %q, want %q", i, got, want)
		}
	}
	// OptionPrice is the close carried through verbatim.
	if got := env.Data.TopOptions[0].OptionPrice; got != 4.35 {
		t.Errorf("TopOptions[0].OptionPrice = %v, want 4.35", got)
	}
	if env.Data.QueryExecutionID != "exec-123" {
		t.Errorf("QueryExecutionID = %q, want exec-123", env.Data.QueryExecutionID)
	}
	if env.Data.DataSource != "batch-store" {
		t.Errorf("DataSource = %q, want batch-store", env.Data.DataSource)
	}
}

func TestHandleTopOptionsEmptyCorpus(t *testing.T) {
	engine := &fakeEngine{records: []model.RankedRecord{}, execID: "exec-empty"}
	srv := New(testServerConfig(), engine, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/options/top", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !env.Success {
		t.Fatal("empty corpus should still report success")
	}
	if env.Data == nil {
		t.Fatal("Data is nil")
	}
	if len(env.Data.TopOptions) != 0 {
		t.Errorf("len(TopOptions) = %d, want 0", len(env.Data.TopOptions))
	}
}

func TestHandleTopOptionsEngineFailure(t *testing.T) {
	engine := &fakeEngine{err: errors.New("backing store unreachable")}
	srv := New(testServerConfig(), engine, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/options/top", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if env.Success {
		t.Fatal("engine failure should not report success")
	}
	if env.Data != nil {
		t.Error("failure envelope should carry no data")
	}
	if env.Message == "" {
		t.Error("failure envelope should carry a message")
	}
}

func TestHandleHealth(t *testing.T) {
	srv := New(testServerConfig(), &fakeEngine{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := New(testServerConfig(), &fakeEngine{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/options/top", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, OPTIONS" {
		t.Errorf("Access-Control-Allow-Methods = %q", got)
	}
}

func TestRankTop(t *testing.T) {
	records := []model.RankedRecord{
		record("O:B", "MSFT", 2.0, 1.0),
		record("O:A", "AAPL", 5.0, 2.0),
		record("O:C", "NVDA", 2.0, 3.0),
	}
	top := rankTop(records, 2)
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	if top[0].ContractTicker != "O:A" {
		t.Errorf("top[0] = %q, want O:A", top[0].ContractTicker)
	}
	// Equal scores break ties by contract ticker.
	if top[1].ContractTicker != "O:B" {
		t.Errorf("top[1] = %q, want O:B", top[1].ContractTicker)
	}

	unscored := []model.RankedRecord{
		record("O:X", "AAPL", 1.0, 1.0),
	}
	unscored[0].ProfitScore = nil
	mixed := append(unscored, record("O:Y", "MSFT", 0.5, 1.0))
	top = rankTop(mixed, 2)
	if top[0].ContractTicker != "O:Y" {
		t.Errorf("scored record should outrank unscored, got %q first", top[0].ContractTicker)
	}
}
