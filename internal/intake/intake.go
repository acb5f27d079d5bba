// Package intake turns raw submissions into stored, enriched events.
package intake

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/disaster-events-service/internal/domain"
	"github.com/couchcryptid/disaster-events-service/internal/observability"
	"github.com/couchcryptid/disaster-events-service/internal/store"
)

// Enricher validates a submission, stamps the creation timestamp, applies
// optional geocoding enrichment, and writes the event to its store. One
// enricher exists per intake path, each bound to the store that owns the
// events it creates.
type Enricher struct {
	store    store.EventStore
	geocoder domain.Geocoder // nil disables geocoding
	source   string          // metrics label: "api" or "remote"
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates an enricher writing to the given store.
func New(st store.EventStore, geocoder domain.Geocoder, source string, logger *slog.Logger, metrics *observability.Metrics) *Enricher {
	return &Enricher{
		store:    st,
		geocoder: geocoder,
		source:   source,
		logger:   logger,
		metrics:  metrics,
	}
}

// Intake persists one submission and returns the stored event. Exactly one
// store write occurs; a write failure surfaces to the caller without
// retries. No deduplication is performed, so duplicate submissions produce
// duplicate events.
func (e *Enricher) Intake(ctx context.Context, sub domain.Submission) (domain.Event, error) {
	if err := domain.ValidateSubmission(sub); err != nil {
		return domain.Event{}, err
	}

	event := domain.Event{
		EventType:              sub.EventType,
		Latitude:               sub.Latitude,
		Longitude:              sub.Longitude,
		Description:            sub.Description,
		Severity:               sub.Severity,
		Online:                 sub.Online,
		CreationTimestampIndia: domain.CreationTimestamp(),
	}
	event = domain.EnrichWithGeocoding(ctx, event, e.geocoder, e.logger)

	stored, err := e.store.CreateEvent(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("intake: %w", err)
	}

	e.metrics.EventsCreated.WithLabelValues(e.source).Inc()
	e.logger.Info("event created",
		"event_id", stored.ID,
		"event_type", stored.EventType,
		"severity", stored.Severity,
		"online", stored.Online,
		"source", e.source,
	)
	return stored, nil
}
