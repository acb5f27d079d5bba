package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/disaster-events-service/internal/alert"
	"github.com/couchcryptid/disaster-events-service/internal/config"
	"github.com/couchcryptid/disaster-events-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// AlertWriter publishes escalation alerts to the alerts topic.
// It implements alert.Dispatcher.
type AlertWriter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewAlertWriter creates a Kafka producer for the configured alerts topic.
func NewAlertWriter(cfg *config.Config, logger *slog.Logger) *AlertWriter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAlertsTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &AlertWriter{writer: w, logger: logger}
}

// Dispatch serializes and publishes one alert record keyed by event id.
func (w *AlertWriter) Dispatch(ctx context.Context, eventID string, severity float64) (alert.Outcome, error) {
	now := domain.Now().UTC()
	msg, err := serializeAlert(eventID, severity, now)
	if err != nil {
		return alert.Outcome{}, err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return alert.Outcome{}, fmt.Errorf("publish alert: %w", err)
	}
	return alert.Outcome{EventID: eventID, Severity: severity, DispatchedAt: now}, nil
}

func serializeAlert(eventID string, severity float64, now time.Time) (kafkago.Message, error) {
	record := domain.SeverityAlert{
		EventID:      eventID,
		Severity:     severity,
		DispatchedAt: now.Format(time.RFC3339),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}

	return kafkago.Message{
		Key:   []byte(eventID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "predicted_severity", Value: []byte(strconv.FormatFloat(severity, 'g', -1, 64))},
			{Key: "dispatched_at", Value: []byte(now.Format(time.RFC3339))},
		},
	}, nil
}

// Close releases the underlying producer.
func (w *AlertWriter) Close() error {
	return w.writer.Close()
}
