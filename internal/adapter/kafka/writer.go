package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/config"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
)

// Writer publishes raw gateway payloads to the ingest topic. Used by
// tooling that feeds the pipeline; the service itself only consumes.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured ingest topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishRecords serializes and publishes gateway records in a single
// WriteMessages call.
func (w *Writer) PublishRecords(ctx context.Context, records []domain.RawReadingRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeRecord(records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeRecord marshals a gateway record into a Kafka message keyed by
// sensor so per-sensor ordering survives partitioning.
func serializeRecord(rec domain.RawReadingRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize reading record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.SensorID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "sensor_id", Value: []byte(rec.SensorID)},
			{Key: "published_at", Value: []byte(domain.Now().Format(time.RFC3339))},
		},
	}, nil
}
