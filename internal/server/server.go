// Package server exposes the serving HTTP API: a thin translator between
// GET requests and the result query engine.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/gundeep08/option-premium-analyzer/internal/config"
	"github.com/gundeep08/option-premium-analyzer/internal/query"
)

// Server serves ranked options over HTTP.
type Server struct {
	cfg    config.ServerConfig
	engine query.Engine
	logger *slog.Logger

	httpServer *http.Server
}

// New creates a Server.
func New(cfg config.ServerConfig, engine query.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, engine: engine, logger: logger}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.HandleFunc("/api/options/top", s.handleTopOptions).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

// ListenAndServe blocks serving requests until Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("serving api started", "addr", s.cfg.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("serving api stopping")
	return s.httpServer.Shutdown(ctx)
}

// handleTopOptions answers GET /api/options/top with the configured top-K
// ranked options from the most recent batches.
func (s *Server) handleTopOptions(w http.ResponseWriter, r *http.Request) {
	records, executionID, err := s.engine.TopRecent(r.Context(), s.cfg.RecentWindow)
	if err != nil {
		// Serving-time read failures are reported honestly, never as
		// valid-looking ranked data.
		s.logger.Error("top options query failed", "execution_id", executionID, "err", err)
		writeJSON(w, http.StatusOK, Envelope{
			Success: false,
			Message: "options data is temporarily unavailable",
		})
		return
	}

	top := rankTop(records, s.cfg.TopK)

	message := "Top ranked options by profit score"
	if len(top) == 0 {
		message = "No options data available yet"
	}

	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data: &ResponseData{
			TopOptions:       top,
			QueryExecutionID: executionID,
			DataSource:       s.cfg.DataSource,
		},
		Message: message,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// corsMiddleware mirrors the headers the original front door set.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
