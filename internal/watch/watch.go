// Package watch observes predicted-severity changes and triggers alert
// dispatch on escalation.
package watch

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/disaster-events-service/internal/alert"
	"github.com/couchcryptid/disaster-events-service/internal/observability"
	"github.com/couchcryptid/disaster-events-service/internal/store"
)

// escalationThreshold is fixed: escalation iff the new value is strictly
// greater than 4.
const escalationThreshold = 4.0

// Watcher consumes the severity change feed and invokes the dispatcher for
// every escalation. It subscribes once at service start and runs until the
// context is cancelled. It reads the feed in delivered order and never
// reorders or reconciles changes.
type Watcher struct {
	feed       *store.SeverityFeed
	dispatcher alert.Dispatcher
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a watcher over the given feed.
func New(feed *store.SeverityFeed, dispatcher alert.Dispatcher, logger *slog.Logger, metrics *observability.Metrics) *Watcher {
	return &Watcher{
		feed:       feed,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// Run consumes the feed until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("severity watcher started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("severity watcher stopping", "reason", ctx.Err())
			return nil
		case change := <-w.feed.Changes():
			w.handle(ctx, change)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, change store.SeverityChange) {
	w.metrics.SeverityUpdates.Inc()

	// Level-triggered: every delivered change above the threshold fires,
	// including updates that keep the value above it (5 -> 5 re-alerts).
	if change.New <= escalationThreshold {
		return
	}

	w.metrics.AlertsDispatched.Inc()
	outcome, err := w.dispatcher.Dispatch(ctx, change.EventID, change.New)
	if err != nil {
		w.metrics.AlertFailures.Inc()
		w.logger.Error("alert dispatch failed",
			"event_id", change.EventID,
			"predicted_severity", change.New,
			"error", err,
		)
		return
	}
	w.logger.Info("alert dispatched",
		"event_id", outcome.EventID,
		"predicted_severity", outcome.Severity,
	)
}
