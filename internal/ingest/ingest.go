// Package ingest consumes remote/online disaster reports from the source
// topic and feeds them through the intake enricher.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/disaster-events-service/internal/domain"
	"github.com/couchcryptid/disaster-events-service/internal/observability"
)

// RawReport represents an unprocessed message from the reports topic.
type RawReport struct {
	Key       []byte
	Value     []byte
	Topic     string
	Partition int
	Offset    int64
	Commit    func(ctx context.Context) error
}

// BatchExtractor reads up to batchSize raw reports from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]RawReport, error)
}

// Intaker persists one validated submission. Satisfied by intake.Enricher.
type Intaker interface {
	Intake(ctx context.Context, sub domain.Submission) (domain.Event, error)
}

// Consumer orchestrates the extract-intake-commit loop.
type Consumer struct {
	extractor BatchExtractor
	intaker   Intaker
	logger    *slog.Logger
	metrics   *observability.Metrics
	batchSize int
}

// New creates a Consumer with the given stages and observability.
func New(e BatchExtractor, i Intaker, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Consumer {
	return &Consumer{
		extractor: e,
		intaker:   i,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// Run executes the consume loop until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("remote report consumer started", "batch_size", c.batchSize)
	c.metrics.IngestRunning.Set(1)
	defer c.metrics.IngestRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("remote report consumer stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !c.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one extract-intake-commit cycle. Returns false if the
// consumer should stop.
func (c *Consumer) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	batch, err := c.extractor.ExtractBatch(ctx, c.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		c.logger.Error("extract batch failed", "error", err)
		return c.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(batch) == 0 {
		return ctx.Err() == nil
	}

	c.metrics.ReportsConsumed.Add(float64(len(batch)))
	*backoff = 200 * time.Millisecond

	for _, raw := range batch {
		if !c.handleReport(ctx, raw, backoff, maxBackoff) {
			return false
		}
	}
	return true
}

// handleReport intakes one raw report. Undecodable or invalid reports are
// skipped and committed so a poison message never stalls the loop. A store
// failure retries the same report in place with backoff: offset commits are
// cumulative per partition, so no later offset may be committed until this
// report lands. Returns false if the consumer should stop.
func (c *Consumer) handleReport(ctx context.Context, raw RawReport, backoff *time.Duration, maxBackoff time.Duration) bool {
	sub, err := decodeReport(raw.Value)
	if err != nil {
		c.skipReport(raw, err)
		c.commitOffset(ctx, raw)
		return true
	}

	for {
		_, err := c.intaker.Intake(ctx, sub)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrStoreUnavailable) {
			c.skipReport(raw, err)
			break
		}
		c.logger.Error("report intake failed, retrying", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
		if !c.backoffOrStop(ctx, backoff, maxBackoff) {
			return false
		}
	}
	c.commitOffset(ctx, raw)
	return true
}

func (c *Consumer) skipReport(raw RawReport, err error) {
	c.logger.Warn("skipping malformed report",
		"error", err,
		"topic", raw.Topic,
		"partition", raw.Partition,
		"offset", raw.Offset,
	)
	c.metrics.ReportErrors.Inc()
}

// decodeReport deserializes a raw report into a submission. Reports from
// the remote feed are online by definition.
func decodeReport(value []byte) (domain.Submission, error) {
	var sub domain.Submission
	if err := json.Unmarshal(value, &sub); err != nil {
		return domain.Submission{}, fmt.Errorf("decode report: %w", err)
	}
	sub.Online = true
	return sub, nil
}

// backoffOrStop checks for context cancellation, sleeps with the current
// backoff, and advances the backoff. Returns false if the consumer should
// stop.
func (c *Consumer) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (c *Consumer) commitOffset(ctx context.Context, raw RawReport) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		c.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
