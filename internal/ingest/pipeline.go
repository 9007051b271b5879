// Package ingest runs the telemetry ingestion loop: batches of raw
// gateway messages are parsed into readings and written to the store.
// Malformed messages are skipped and committed so they cannot wedge the
// consumer group.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/observability"
)

// BatchExtractor reads up to batchSize raw messages from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawMessage, error)
}

// ReadingWriter persists parsed readings.
type ReadingWriter interface {
	InsertReadings(ctx context.Context, readings []domain.Reading) error
	RegisterSensor(ctx context.Context, r domain.Reading) error
}

// Pipeline orchestrates the extract-parse-store loop.
type Pipeline struct {
	extractor BatchExtractor
	writer    ReadingWriter
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	batchSize int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, w ReadingWriter, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor: e,
		writer:    w,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// CheckReadiness returns nil once the pipeline has stored at least one
// reading.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("ingest has not stored any readings yet")
	}
	return nil
}

// Run executes the ingest loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("ingest started", "batch_size", p.batchSize)
	p.metrics.IngestRunning.Set(1)
	defer p.metrics.IngestRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("ingest stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one extract-parse-store cycle. Returns false if the
// loop should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	*backoff = 200 * time.Millisecond

	stored, ok := p.parseAndStore(ctx, rawBatch, backoff, maxBackoff)
	if !ok {
		return false
	}
	if stored > 0 {
		p.metrics.ReadingsIngested.Add(float64(stored))
		p.metrics.IngestBatchSize.Observe(float64(stored))
		p.ready.Store(true)
	}
	return true
}

// parseAndStore parses each message, stores the successes, and commits
// offsets. Malformed messages are committed immediately so they are not
// redelivered. Returns the number of stored readings and false if the
// loop should stop.
func (p *Pipeline) parseAndStore(ctx context.Context, rawBatch []domain.RawMessage, backoff *time.Duration, maxBackoff time.Duration) (int, bool) {
	readings := make([]domain.Reading, 0, len(rawBatch))
	successfulRaws := make([]domain.RawMessage, 0, len(rawBatch))

	for _, raw := range rawBatch {
		reading, err := domain.ParseRawMessage(raw)
		if err != nil {
			p.logger.Warn("parse failed, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.IngestErrors.Inc()
			p.commitOffset(ctx, raw)
			continue
		}
		readings = append(readings, reading)
		successfulRaws = append(successfulRaws, raw)
	}

	if len(readings) == 0 {
		return 0, true
	}

	if err := p.writer.InsertReadings(ctx, readings); err != nil {
		p.logger.Error("store batch failed", "error", err, "batch_size", len(readings))
		p.metrics.IngestErrors.Inc()
		return 0, p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	for _, reading := range readings {
		if err := p.writer.RegisterSensor(ctx, reading); err != nil {
			p.logger.Warn("sensor registration failed", "error", err, "sensor_id", reading.SensorID)
		}
	}

	for _, raw := range successfulRaws {
		p.commitOffset(ctx, raw)
	}
	return len(readings), true
}

// backoffOrStop sleeps with the current backoff and advances it. Returns
// false if the loop should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawMessage) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
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
