// Package alert dispatches escalation notifications. Dispatch is
// best-effort and decoupled from the store write that triggered it: a
// delivery failure is logged and counted, never propagated back.
package alert

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/disaster-events-service/internal/domain"
)

// Outcome describes one completed dispatch.
type Outcome struct {
	EventID      string
	Severity     float64
	DispatchedAt time.Time
}

// Dispatcher delivers one notification per escalation. The threshold check
// happens in the watcher; dispatchers do not re-check it.
type Dispatcher interface {
	Dispatch(ctx context.Context, eventID string, severity float64) (Outcome, error)
}

// LogDispatcher records alerts in the service log only. It is the default
// when no Kafka alert sink is configured.
type LogDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher creates a log-only dispatcher.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Dispatch logs the escalation. It never fails.
func (d *LogDispatcher) Dispatch(_ context.Context, eventID string, severity float64) (Outcome, error) {
	now := domain.Now().UTC()
	d.logger.Warn("high severity alert",
		"event_id", eventID,
		"predicted_severity", severity,
	)
	return Outcome{EventID: eventID, Severity: severity, DispatchedAt: now}, nil
}
