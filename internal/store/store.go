// Package store defines the keyed persistence capability for events and the
// severity change feed that connects store writes to the watcher.
package store

import (
	"context"

	"github.com/couchcryptid/disaster-events-service/internal/domain"
)

// EventStore is a keyed persistence backend for events. Two independent
// instances exist in a deployment: the relational store and the realtime
// store. They are never reconciled; their results are merged at read time.
type EventStore interface {
	// CreateEvent persists a new event and returns it with the
	// store-assigned id filled in.
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)

	// GetEvent returns the event with the given id, or domain.ErrNotFound.
	GetEvent(ctx context.Context, id string) (domain.Event, error)

	// FetchAll returns every event in the store's internal order.
	FetchAll(ctx context.Context) ([]domain.Event, error)

	// UpdateProcessedDescription writes the normalized description for an
	// existing event. The submitted description is left untouched.
	UpdateProcessedDescription(ctx context.Context, id, processed string) error

	// UpdatePredictedSeverity writes a new predicted severity for an
	// existing event and publishes the change to the severity feed. The
	// write succeeds regardless of feed delivery.
	UpdatePredictedSeverity(ctx context.Context, id string, value float64) error
}
