package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/econsult-tools/econsult/internal/models"
	"github.com/econsult-tools/econsult/internal/monitoring"
	"github.com/econsult-tools/econsult/internal/pipeline"
	"github.com/econsult-tools/econsult/internal/store"
)

// Server exposes the orchestrator over HTTP for the web UI surface.
// Analysis calls are serialized behind a mutex: the model handles are
// shared read-only resources not specified for concurrent invocation.
type Server struct {
	orchestrator *pipeline.Orchestrator
	history      *store.History

	analyzeMu sync.Mutex
	healthy   atomic.Bool
}

func New(orchestrator *pipeline.Orchestrator, history *store.History) *Server {
	s := &Server{orchestrator: orchestrator, history: history}
	s.healthy.Store(true)
	return s
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/analyze/batch", s.handleAnalyzeBatch).Methods(http.MethodPost)
	api.HandleFunc("/runs", s.handleListRuns).Methods(http.MethodGet)
	api.HandleFunc("/runs/{id}", s.handleRunResults).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	return r
}

// Run starts the HTTP listener and a classifier health monitor, and
// shuts down cleanly when ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	go monitoring.Monitor(ctx, "pipeline", s.probe, &s.healthy)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("[Server] Listening", slog.String("addr", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// probe runs a canary comment through the analyzer.
func (s *Server) probe(ctx context.Context) bool {
	s.analyzeMu.Lock()
	defer s.analyzeMu.Unlock()
	result := s.orchestrator.Analyze(ctx, models.Comment{ID: "healthcheck", Text: "service check"})
	return !result.Failed()
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var comment models.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.analyzeMu.Lock()
	result := s.orchestrator.Analyze(r.Context(), comment)
	s.analyzeMu.Unlock()

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var comments []models.Comment
	if err := json.NewDecoder(r.Body).Decode(&comments); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.analyzeMu.Lock()
	results := s.orchestrator.AnalyzeBatch(r.Context(), comments)
	s.analyzeMu.Unlock()

	if s.history != nil {
		if _, err := s.history.SaveRun(r.Context(), "api", results); err != nil {
			slog.Warn("[Server] Failed to persist run", slog.String("error", err.Error()))
		}
	}

	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []store.RunSummary{})
		return
	}
	runs, err := s.history.ListRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []store.RunSummary{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRunResults(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "run history disabled")
		return
	}
	runID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}
	results, err := s.history.RunResults(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load run")
		return
	}
	if results == nil {
		results = []models.AnalysisResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	status := http.StatusOK
	if !s.healthy.Load() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]bool{"healthy": s.healthy.Load()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("[Server] Failed to write response", slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
