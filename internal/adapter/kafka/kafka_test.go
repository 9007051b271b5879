package kafka

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
)

func TestMapMessage(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("esp32-001"),
		Value:     []byte(`{"sensor_id":"esp32-001"}`),
		Topic:     "sensor-readings",
		Partition: 1,
		Offset:    17,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "gateway", Value: []byte("guineo-01")},
		},
	}

	r := &Reader{}
	raw := r.mapMessage(msg)

	assert.Equal(t, []byte("esp32-001"), raw.Key)
	assert.JSONEq(t, `{"sensor_id":"esp32-001"}`, string(raw.Value))
	assert.Equal(t, "sensor-readings", raw.Topic)
	assert.Equal(t, 1, raw.Partition)
	assert.Equal(t, int64(17), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "guineo-01", raw.Headers["gateway"])
	assert.NotNil(t, raw.Commit)
}

func TestSerializeRecord(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	rec := domain.RawReadingRecord{
		SensorID:    "esp32-001",
		Timestamp:   "2025-03-12T09:59:00Z",
		Temperature: "28.5",
		Humidity:    "70.0",
	}

	msg, err := serializeRecord(rec)
	require.NoError(t, err)

	assert.Equal(t, []byte("esp32-001"), msg.Key)
	assert.Contains(t, string(msg.Value), `"temperature":"28.5"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "sensor_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("esp32-001"), msg.Headers[0].Value)
	assert.Equal(t, "published_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2025-03-12T10:00:00Z"), msg.Headers[1].Value)
}
