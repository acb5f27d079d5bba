// Package process normalizes event descriptions on request.
package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/disaster-events-service/internal/domain"
	"github.com/couchcryptid/disaster-events-service/internal/observability"
	"github.com/couchcryptid/disaster-events-service/internal/store"
)

// ProcessedDescription is the success response of a processing call. Field
// names follow the callable wire contract.
type ProcessedDescription struct {
	ProcessedDescription string `json:"processedDescription"`
	EventID              string `json:"eventId"`
}

// Processor normalizes a description and writes it back to the store that
// owns the event.
type Processor struct {
	stores  []store.EventStore // probe order: relational first, then realtime
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a processor probing the given stores in order.
func New(stores []store.EventStore, logger *slog.Logger, metrics *observability.Metrics) *Processor {
	return &Processor{stores: stores, logger: logger, metrics: metrics}
}

// Process normalizes the description (upper-casing) and persists it onto
// the event. A missing eventID or description is a client error reported
// before any store is touched; no partial write occurs.
func (p *Processor) Process(ctx context.Context, eventID, description string) (ProcessedDescription, error) {
	if eventID == "" {
		return ProcessedDescription{}, fmt.Errorf("eventId is required: %w", domain.ErrInvalidArgument)
	}
	if description == "" {
		return ProcessedDescription{}, fmt.Errorf("description is required: %w", domain.ErrInvalidArgument)
	}

	processed := strings.ToUpper(description)

	for _, st := range p.stores {
		err := st.UpdateProcessedDescription(ctx, eventID, processed)
		if err == nil {
			p.metrics.DescriptionsProcessed.Inc()
			p.logger.Info("description processed", "event_id", eventID)
			return ProcessedDescription{ProcessedDescription: processed, EventID: eventID}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return ProcessedDescription{}, fmt.Errorf("process description: %w", err)
		}
	}
	return ProcessedDescription{}, domain.ErrNotFound
}
