// Package kafka adapts the reports topic and the alerts topic to the
// ingest and alert components.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/disaster-events-service/internal/config"
	"github.com/couchcryptid/disaster-events-service/internal/ingest"
	kafkago "github.com/segmentio/kafka-go"
)

// Reader consumes raw remote reports from the reports topic.
// It implements ingest.BatchExtractor.
type Reader struct {
	reader        *kafkago.Reader
	flushInterval time.Duration
	logger        *slog.Logger
}

// NewReader creates a Kafka consumer for the configured reports topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaReportsTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Reader{
		reader:        r,
		flushInterval: cfg.BatchFlushInterval,
		logger:        logger,
	}
}

// ExtractBatch fetches up to batchSize reports, returning early when the
// flush interval elapses. Offsets are committed per message through the
// report's Commit callback, after successful intake.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]ingest.RawReport, error) {
	batchCtx, cancel := context.WithTimeout(ctx, r.flushInterval)
	defer cancel()

	reports := make([]ingest.RawReport, 0, batchSize)
	for len(reports) < batchSize {
		msg, err := r.reader.FetchMessage(batchCtx)
		if err != nil {
			// The flush window elapsing is a normal partial batch, not an
			// error, as long as the parent context is still live.
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return reports, nil
			}
			if len(reports) > 0 && ctx.Err() != nil {
				return reports, nil
			}
			return nil, fmt.Errorf("fetch report: %w", err)
		}
		reports = append(reports, ingest.RawReport{
			Key:       msg.Key,
			Value:     msg.Value,
			Topic:     msg.Topic,
			Partition: msg.Partition,
			Offset:    msg.Offset,
			Commit: func(ctx context.Context) error {
				return r.reader.CommitMessages(ctx, msg)
			},
		})
	}
	return reports, nil
}

// Close releases the underlying consumer.
func (r *Reader) Close() error {
	return r.reader.Close()
}
