package aggregate_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/couchcryptid/disaster-events-service/internal/aggregate"
	"github.com/couchcryptid/disaster-events-service/internal/domain"
	"github.com/couchcryptid/disaster-events-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	events []domain.Event
	err    error
}

func (f *fakeSource) FetchAll(context.Context) ([]domain.Event, error) {
	return f.events, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAggregator(relational, realtime *fakeSource) *aggregate.Aggregator {
	return aggregate.New(relational, realtime, discardLogger(), observability.NewMetricsForTesting())
}

func event(id string, t domain.EventType) domain.Event {
	return domain.Event{ID: id, EventType: t, Severity: 3}
}

func TestFetch_ReturnsBothSequences(t *testing.T) {
	relational := &fakeSource{events: []domain.Event{
		event("1", domain.EventFlood),
		event("2", domain.EventFire),
	}}
	realtime := &fakeSource{events: []domain.Event{
		event("a", domain.EventFlood),
		event("b", domain.EventStorm),
		event("c", domain.EventFire),
	}}

	snap, err := newAggregator(relational, realtime).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Relational, 2)
	assert.Len(t, snap.Realtime, 3)
}

func TestFetch_EitherFailureFailsWholeOperation(t *testing.T) {
	healthy := &fakeSource{events: []domain.Event{event("1", domain.EventFlood)}}
	broken := &fakeSource{err: errors.New("connection refused")}

	_, err := newAggregator(broken, healthy).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relational store")

	_, err = newAggregator(healthy, broken).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "realtime store")
}

func TestListing_ReturnsSnapshotAndMerged(t *testing.T) {
	relational := &fakeSource{events: []domain.Event{
		event("1", domain.EventFlood),
		event("2", domain.EventFire),
	}}
	realtime := &fakeSource{events: []domain.Event{
		event("a", domain.EventFire),
	}}

	snap, merged, err := newAggregator(relational, realtime).Listing(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, snap.Relational, 2)
	assert.Len(t, snap.Realtime, 1)
	require.Len(t, merged, 3)
	assert.Equal(t, "1", merged[0].ID)
	assert.Equal(t, "a", merged[2].ID)

	snap, fires, err := newAggregator(relational, realtime).Listing(context.Background(), domain.EventFire)
	require.NoError(t, err)
	// The snapshot stays unfiltered; only the merged view narrows.
	assert.Len(t, snap.Relational, 2)
	require.Len(t, fires, 2)
	assert.Equal(t, "2", fires[0].ID)
	assert.Equal(t, "a", fires[1].ID)
}

func TestListEvents_Merged(t *testing.T) {
	relational := &fakeSource{events: []domain.Event{
		event("1", domain.EventFlood),
		event("2", domain.EventFire),
	}}
	realtime := &fakeSource{events: []domain.Event{
		event("a", domain.EventStorm),
		event("b", domain.EventFire),
		event("c", domain.EventOther),
	}}

	merged, err := newAggregator(relational, realtime).ListEvents(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, merged, 5)
	// Relational rows come first, each store in its own order.
	assert.Equal(t, "1", merged[0].ID)
	assert.Equal(t, "2", merged[1].ID)
	assert.Equal(t, "a", merged[2].ID)
	assert.Equal(t, "c", merged[4].ID)
}

func TestListEvents_FilterByType(t *testing.T) {
	relational := &fakeSource{events: []domain.Event{
		event("1", domain.EventFlood),
		event("2", domain.EventFire),
	}}
	realtime := &fakeSource{events: []domain.Event{
		event("a", domain.EventStorm),
		event("b", domain.EventFire),
	}}

	fires, err := newAggregator(relational, realtime).ListEvents(context.Background(), domain.EventFire)
	require.NoError(t, err)
	require.Len(t, fires, 2)
	assert.Equal(t, "2", fires[0].ID)
	assert.Equal(t, "b", fires[1].ID)

	none, err := newAggregator(relational, realtime).ListEvents(context.Background(), domain.EventEarthquake)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMerge_PreservesOrder(t *testing.T) {
	relational := []domain.Event{event("1", domain.EventFlood), event("2", domain.EventFire)}
	realtime := []domain.Event{event("a", domain.EventStorm)}

	merged := aggregate.Merge(relational, realtime)
	require.Len(t, merged, 3)
	assert.Equal(t, []string{merged[0].ID, merged[1].ID, merged[2].ID}, []string{"1", "2", "a"})

	assert.Empty(t, aggregate.Merge(nil, nil))
}

func TestFilterByType(t *testing.T) {
	events := []domain.Event{
		event("1", domain.EventFlood),
		event("2", domain.EventFire),
		event("3", domain.EventFlood),
	}

	floods := aggregate.FilterByType(events, domain.EventFlood)
	require.Len(t, floods, 2)
	assert.Equal(t, "1", floods[0].ID)
	assert.Equal(t, "3", floods[1].ID)
}
