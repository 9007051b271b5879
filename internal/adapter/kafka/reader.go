// Package kafka adapts a Kafka consumer group to the ingest pipeline.
package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/config"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
)

// defaultFetchWait bounds how long a batch waits for further messages
// once at least one has arrived, when the config does not say.
const defaultFetchWait = 250 * time.Millisecond

// Reader consumes raw sensor messages from a Kafka topic.
// It implements ingest.BatchExtractor.
type Reader struct {
	reader    *kafkago.Reader
	logger    *slog.Logger
	fetchWait time.Duration
}

// NewReader creates a consumer-group reader for the configured source topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		GroupID:        cfg.KafkaGroupID,
		Topic:          cfg.KafkaTopic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // explicit commits only
	})
	wait := cfg.BatchFlushInterval
	if wait <= 0 {
		wait = defaultFetchWait
	}
	return &Reader{reader: r, logger: logger, fetchWait: wait}
}

// ExtractBatch fetches up to batchSize messages. The first fetch blocks
// until a message arrives or ctx is cancelled; subsequent fetches use a
// short deadline so partially filled batches flush promptly.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawMessage, error) {
	first, err := r.reader.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}
	batch := []domain.RawMessage{r.mapMessage(first)}

	for len(batch) < batchSize {
		fetchCtx, cancel := context.WithTimeout(ctx, r.fetchWait)
		msg, err := r.reader.FetchMessage(fetchCtx)
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.EOF) {
				break
			}
			if ctx.Err() != nil {
				// return what we already have; the caller commits
				// per message, so nothing is lost
				break
			}
			return nil, err
		}
		batch = append(batch, r.mapMessage(msg))
	}
	return batch, nil
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

// mapMessage converts a Kafka message into a domain RawMessage whose
// Commit closure acknowledges the offset on the consumer group.
func (r *Reader) mapMessage(msg kafkago.Message) domain.RawMessage {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return domain.RawMessage{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
		Commit: func(ctx context.Context) error {
			return r.reader.CommitMessages(ctx, msg)
		},
	}
}
