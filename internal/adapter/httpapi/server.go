// Package httpapi exposes the service API plus health, readiness, and
// metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/disaster-events-service/internal/aggregate"
	"github.com/couchcryptid/disaster-events-service/internal/domain"
	"github.com/couchcryptid/disaster-events-service/internal/process"
	"github.com/couchcryptid/disaster-events-service/internal/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Intaker persists one citizen submission. Satisfied by intake.Enricher.
type Intaker interface {
	Intake(ctx context.Context, sub domain.Submission) (domain.Event, error)
}

// Lister reads both stores and composes the merged view. Satisfied by
// aggregate.Aggregator.
type Lister interface {
	Listing(ctx context.Context, filter domain.EventType) (aggregate.Snapshot, []domain.Event, error)
}

// DescriptionProcessor normalizes descriptions. Satisfied by
// process.Processor.
type DescriptionProcessor interface {
	Process(ctx context.Context, eventID, description string) (process.ProcessedDescription, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ReadinessFunc adapts a plain function to ReadinessChecker.
type ReadinessFunc func(ctx context.Context) error

// CheckReadiness calls f.
func (f ReadinessFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

// Deps are the collaborators the API routes delegate to. Relational and
// Realtime are probed in that order when an operation is keyed by a bare
// event id.
type Deps struct {
	Intake     Intaker
	Aggregator Lister
	Processor  DescriptionProcessor
	Relational store.EventStore
	Realtime   store.EventStore
	Ready      ReadinessChecker
}

// Server exposes the service HTTP API.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates the HTTP server with all service routes.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: logger,
	}

	mux.HandleFunc("POST /events", s.handleCreateEvent)
	mux.HandleFunc("GET /events", s.handleListEvents)
	mux.HandleFunc("GET /events/{id}", s.handleGetEvent)
	mux.HandleFunc("POST /events/{id}/predicted-severity", s.handlePredictedSeverity)
	mux.HandleFunc("POST /process-description", s.handleProcessDescription)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(deps.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var sub domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid-argument", "malformed request body")
		return
	}

	event, err := s.deps.Intake.Intake(r.Context(), sub)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// listResponse carries the two raw sequences, each in its store's internal
// order, plus the merged (and optionally filtered) view.
type listResponse struct {
	RelationalEvents []domain.Event `json:"relational_events"`
	RealtimeEvents   []domain.Event `json:"realtime_events"`
	Events           []domain.Event `json:"events"`
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	filter := domain.EventType(r.URL.Query().Get("type"))
	snap, merged, err := s.deps.Aggregator.Listing(r.Context(), filter)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		RelationalEvents: snap.Relational,
		RealtimeEvents:   snap.Realtime,
		Events:           merged,
	})
}

// getResponse reports each store's view of one id; either may be null.
type getResponse struct {
	Relational *domain.Event `json:"relational"`
	Realtime   *domain.Event `json:"realtime"`
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var resp getResponse
	for _, probe := range []struct {
		st   store.EventStore
		slot **domain.Event
	}{
		{s.deps.Relational, &resp.Relational},
		{s.deps.Realtime, &resp.Realtime},
	} {
		event, err := probe.st.GetEvent(r.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			s.writeDomainError(w, err)
			return
		}
		e := event
		*probe.slot = &e
	}

	if resp.Relational == nil && resp.Realtime == nil {
		writeError(w, http.StatusNotFound, "not-found", "event not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePredictedSeverity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var body struct {
		PredictedSeverity *float64 `json:"predicted_severity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PredictedSeverity == nil {
		writeError(w, http.StatusBadRequest, "invalid-argument", "predicted_severity is required")
		return
	}

	value := *body.PredictedSeverity
	for _, st := range []store.EventStore{s.deps.Relational, s.deps.Realtime} {
		err := st.UpdatePredictedSeverity(r.Context(), id, value)
		if err == nil {
			writeJSON(w, http.StatusOK, map[string]any{
				"eventId":            id,
				"predicted_severity": value,
			})
			return
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.writeDomainError(w, err)
			return
		}
	}
	writeError(w, http.StatusNotFound, "not-found", "event not found")
}

func (s *Server) handleProcessDescription(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EventID     string `json:"eventId"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid-argument", "malformed request body")
		return
	}

	result, err := s.deps.Processor.Process(r.Context(), body.EventID, body.Description)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// writeDomainError maps the error taxonomy to status codes and fixed wire
// error codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "invalid-argument", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not-found", "event not found")
	case errors.Is(err, domain.ErrStoreUnavailable):
		s.logger.Error("store operation failed", "error", err)
		writeError(w, http.StatusBadGateway, "store-unavailable", "a backing store is unavailable")
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
