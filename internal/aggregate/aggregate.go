// Package aggregate merges the two event stores into one read-time view.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/disaster-events-service/internal/domain"
	"github.com/couchcryptid/disaster-events-service/internal/observability"
)

// EventSource is the fetch capability the aggregator needs from a store.
// Both EventStore implementations satisfy it.
type EventSource interface {
	FetchAll(ctx context.Context) ([]domain.Event, error)
}

// Snapshot holds the two raw sequences as fetched, each in its store's
// internal order. It has no persisted identity; it is recomputed on every
// read.
type Snapshot struct {
	Relational []domain.Event
	Realtime   []domain.Event
}

// Aggregator reads both stores on demand. The fetches are independent and
// sequential; there is no joint transaction, so counts and order may vary
// across calls when a fetch races a concurrent write.
type Aggregator struct {
	relational EventSource
	realtime   EventSource
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates an aggregator over the two sources.
func New(relational, realtime EventSource, logger *slog.Logger, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{
		relational: relational,
		realtime:   realtime,
		logger:     logger,
		metrics:    metrics,
	}
}

// Fetch reads both stores. If either fetch fails the whole operation fails;
// no partial snapshot is returned.
func (a *Aggregator) Fetch(ctx context.Context) (Snapshot, error) {
	start := time.Now()
	defer func() {
		a.metrics.ListDuration.Observe(time.Since(start).Seconds())
	}()

	relational, err := a.relational.FetchAll(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("relational store: %w", err)
	}
	realtime, err := a.realtime.FetchAll(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("realtime store: %w", err)
	}
	return Snapshot{Relational: relational, Realtime: realtime}, nil
}

// Listing returns the snapshot together with the merged view, optionally
// filtered by event type. Pass the empty type to disable filtering. This is
// the one place the merge is composed; the list endpoint serves its output
// directly.
func (a *Aggregator) Listing(ctx context.Context, filter domain.EventType) (Snapshot, []domain.Event, error) {
	snap, err := a.Fetch(ctx)
	if err != nil {
		return Snapshot{}, nil, err
	}
	merged := Merge(snap.Relational, snap.Realtime)
	if filter != "" {
		merged = FilterByType(merged, filter)
	}
	return snap, merged, nil
}

// ListEvents returns just the merged view of Listing.
func (a *Aggregator) ListEvents(ctx context.Context, filter domain.EventType) ([]domain.Event, error) {
	_, merged, err := a.Listing(ctx, filter)
	return merged, err
}

// Merge concatenates the two sequences, relational first, preserving each
// store's internal order. Identifiers are not reconciled across stores.
func Merge(relational, realtime []domain.Event) []domain.Event {
	merged := make([]domain.Event, 0, len(relational)+len(realtime))
	merged = append(merged, relational...)
	merged = append(merged, realtime...)
	return merged
}

// FilterByType keeps events whose type equals t. The filter is a pure,
// order-preserving predicate.
func FilterByType(events []domain.Event, t domain.EventType) []domain.Event {
	filtered := make([]domain.Event, 0, len(events))
	for _, event := range events {
		if event.EventType == t {
			filtered = append(filtered, event)
		}
	}
	return filtered
}
