package ingest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/ingest"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/observability"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- mocks ---

type mockExtractor struct {
	batches [][]domain.RawMessage
	index   atomic.Int64
	errs    []error
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawMessage, error) {
	i := int(m.index.Add(1) - 1)
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i >= len(m.batches) {
		// block until context cancelled to simulate waiting for messages
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockWriter struct {
	mu        sync.Mutex
	inserted  []domain.Reading
	sensors   []string
	insertErr error
}

func (m *mockWriter) InsertReadings(_ context.Context, readings []domain.Reading) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, readings...)
	return nil
}

func (m *mockWriter) RegisterSensor(_ context.Context, r domain.Reading) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sensors = append(m.sensors, r.SensorID)
	return nil
}

func (m *mockWriter) snapshot() []domain.Reading {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Reading(nil), m.inserted...)
}

func makeRawMessage(t *testing.T, sensorID, temperature string, commits *atomic.Int64) domain.RawMessage {
	t.Helper()
	payload, err := json.Marshal(map[string]string{
		"sensor_id":   sensorID,
		"timestamp":   "2025-03-12T10:00:00Z",
		"temperature": temperature,
		"humidity":    "70.0",
	})
	require.NoError(t, err)
	return domain.RawMessage{
		Value: payload,
		Topic: "sensor-readings",
		Commit: func(_ context.Context) error {
			if commits != nil {
				commits.Add(1)
			}
			return nil
		},
	}
}

func newTestPipeline(ext *mockExtractor, w *mockWriter) *ingest.Pipeline {
	return ingest.New(ext, w, testLogger(), observability.NewMetricsForTesting(), 10)
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	var commits atomic.Int64
	batch := []domain.RawMessage{
		makeRawMessage(t, "esp32-001", "28.5", &commits),
		makeRawMessage(t, "esp32-002", "29.0", &commits),
	}
	ext := &mockExtractor{batches: [][]domain.RawMessage{batch}}
	w := &mockWriter{}
	p := newTestPipeline(ext, w)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)

	inserted := w.snapshot()
	require.Len(t, inserted, 2)
	want := domain.Reading{
		Timestamp:   time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC),
		Temperature: domain.Float(28.5),
		Humidity:    domain.Float(70.0),
		SensorID:    "esp32-001",
	}
	if diff := cmp.Diff(want, inserted[0]); diff != "" {
		t.Errorf("reading mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, int64(2), commits.Load())
	assert.ElementsMatch(t, []string{"esp32-001", "esp32-002"}, w.sensors)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{} // no batches — will block
	w := &mockWriter{}
	p := newTestPipeline(ext, w)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, w.snapshot())
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_SkipsMalformedMessages(t *testing.T) {
	var commits atomic.Int64
	poison := domain.RawMessage{
		Value: []byte("not json"),
		Topic: "sensor-readings",
		Commit: func(_ context.Context) error {
			commits.Add(1)
			return nil
		},
	}
	batch := []domain.RawMessage{
		poison,
		makeRawMessage(t, "esp32-001", "28.5", &commits),
	}
	ext := &mockExtractor{batches: [][]domain.RawMessage{batch}}
	w := &mockWriter{}
	p := newTestPipeline(ext, w)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)

	inserted := w.snapshot()
	require.Len(t, inserted, 1)
	assert.Equal(t, "esp32-001", inserted[0].SensorID)
	// both the poison pill and the good message are committed
	assert.Equal(t, int64(2), commits.Load())
}

func TestPipeline_Run_RetriesAfterExtractError(t *testing.T) {
	var commits atomic.Int64
	batch := []domain.RawMessage{makeRawMessage(t, "esp32-001", "28.5", &commits)}
	ext := &mockExtractor{
		errs:    []error{errors.New("broker unavailable"), nil},
		batches: [][]domain.RawMessage{nil, batch},
	}
	w := &mockWriter{}
	p := newTestPipeline(ext, w)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Len(t, w.snapshot(), 1)
}

func TestPipeline_Run_InsertFailureDoesNotCommit(t *testing.T) {
	var commits atomic.Int64
	batch := []domain.RawMessage{makeRawMessage(t, "esp32-001", "28.5", &commits)}
	ext := &mockExtractor{batches: [][]domain.RawMessage{batch}}
	w := &mockWriter{insertErr: errors.New("disk full")}
	p := newTestPipeline(ext, w)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, w.snapshot())
	assert.Equal(t, int64(0), commits.Load())
	assert.Error(t, p.CheckReadiness(context.Background()))
}
