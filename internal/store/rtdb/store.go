// Package rtdb provides the realtime document store for events. It mirrors
// the push-key, flat-record shape of a hosted realtime database and emits
// predicted-severity changes to the shared feed in write order.
package rtdb

import (
	"context"
	"sync"

	"github.com/couchcryptid/disaster-events-service/internal/domain"
	"github.com/couchcryptid/disaster-events-service/internal/store"
	"github.com/google/uuid"
)

// Store keeps events in memory keyed by push keys, preserving insertion
// order for FetchAll.
type Store struct {
	mu     sync.Mutex
	events map[string]domain.Event
	order  []string
	feed   *store.SeverityFeed
}

// New creates an empty realtime store. The feed may be nil when severity
// changes need not be observed.
func New(feed *store.SeverityFeed) *Store {
	return &Store{
		events: make(map[string]domain.Event),
		feed:   feed,
	}
}

// CreateEvent stores one event under a freshly generated push key.
func (s *Store) CreateEvent(_ context.Context, event domain.Event) (domain.Event, error) {
	event.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ID] = cloneEvent(event)
	s.order = append(s.order, event.ID)
	return event, nil
}

// GetEvent returns one event by push key.
func (s *Store) GetEvent(_ context.Context, id string) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return domain.Event{}, domain.ErrNotFound
	}
	return cloneEvent(event), nil
}

// FetchAll returns every event in insertion order.
func (s *Store) FetchAll(_ context.Context) ([]domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]domain.Event, 0, len(s.order))
	for _, id := range s.order {
		events = append(events, cloneEvent(s.events[id]))
	}
	return events, nil
}

// UpdateProcessedDescription writes the normalized description.
func (s *Store) UpdateProcessedDescription(_ context.Context, id, processed string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	event.ProcessedDescription = processed
	s.events[id] = event
	return nil
}

// UpdatePredictedSeverity writes a new prediction and publishes the change.
// The feed sees changes in the order they were applied under the store lock.
func (s *Store) UpdatePredictedSeverity(_ context.Context, id string, value float64) error {
	s.mu.Lock()

	event, ok := s.events[id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	change := store.SeverityChange{EventID: id, New: value}
	if event.PredictedSeverity != nil {
		prev := *event.PredictedSeverity
		change.Previous = &prev
	}
	v := value
	event.PredictedSeverity = &v
	s.events[id] = event

	// Publish before releasing the lock so concurrent updates to the same
	// key reach the feed in applied order. Publish never blocks.
	if s.feed != nil {
		s.feed.Publish(change)
	}
	s.mu.Unlock()
	return nil
}

// cloneEvent copies the event so callers never share the stored
// PredictedSeverity pointer.
func cloneEvent(event domain.Event) domain.Event {
	if event.PredictedSeverity != nil {
		v := *event.PredictedSeverity
		event.PredictedSeverity = &v
	}
	return event
}

var _ store.EventStore = (*Store)(nil)
