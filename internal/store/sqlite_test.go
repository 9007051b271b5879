package store

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { domain.SetClock(nil) })

	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func reading(id string, at time.Time, temp, hum float64, loc string) domain.Reading {
	return domain.Reading{
		SensorID:    id,
		Timestamp:   at,
		Temperature: domain.Float(temp),
		Humidity:    domain.Float(hum),
		Location:    loc,
	}
}

func TestRecentReadings(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var batch []domain.Reading
	// Twelve fresh readings plus one stale reading outside the window.
	for i := 0; i < 12; i++ {
		batch = append(batch, reading("s1", now.Add(-time.Duration(i)*time.Minute), 25+float64(i), 70, "Aguazul"))
	}
	batch = append(batch, reading("s1", now.Add(-2*time.Hour), 19, 60, "Aguazul"))
	require.NoError(t, s.InsertReadings(ctx, batch))

	got, err := s.RecentReadings(ctx, domain.LocationFilter{})
	require.NoError(t, err)
	require.Len(t, got, 10, "capped at ten rows")

	// Newest first.
	for i := 1; i < len(got); i++ {
		assert.True(t, !got[i].Timestamp.After(got[i-1].Timestamp))
	}
	assert.Equal(t, now, got[0].Timestamp)
	require.NotNil(t, got[0].Temperature)
	assert.Equal(t, 25.0, *got[0].Temperature)
}

func TestRecentReadingsLocationFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertReadings(ctx, []domain.Reading{
		reading("s1", now.Add(-time.Minute), 25, 70, "Vereda El Guineo, Aguazul"),
		reading("s2", now.Add(-time.Minute), 30, 60, "Yopal"),
	}))

	got, err := s.RecentReadings(ctx, domain.LocationFilter{Location: "aguazul"})
	require.NoError(t, err)
	require.Len(t, got, 1, "LIKE is case-insensitive for ASCII")
	assert.Equal(t, "s1", got[0].SensorID)
}

func TestRecentReadingsCoordinateFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	near := reading("near", now.Add(-time.Minute), 25, 70, "Aguazul")
	near.Latitude = domain.Float(5.17)
	near.Longitude = domain.Float(-72.55)
	far := reading("far", now.Add(-time.Minute), 30, 60, "Yopal")
	far.Latitude = domain.Float(5.34)
	far.Longitude = domain.Float(-72.39)
	noCoords := reading("none", now.Add(-time.Minute), 28, 65, "Tauramena")
	require.NoError(t, s.InsertReadings(ctx, []domain.Reading{near, far, noCoords}))

	got, err := s.RecentReadings(ctx, domain.LocationFilter{
		Latitude: 5.18, Longitude: -72.55, HasCoords: true,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "near", got[0].SensorID)
}

func TestRangeReadings(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	day := func(d int, hour int) time.Time {
		return time.Date(2025, time.March, d, hour, 0, 0, 0, time.UTC)
	}
	require.NoError(t, s.InsertReadings(ctx, []domain.Reading{
		reading("s1", day(9, 23), 24, 80, "Aguazul"),
		reading("s1", day(10, 8), 25, 75, "Aguazul"),
		reading("s1", day(11, 23), 27, 70, "Aguazul"),
		reading("s1", day(12, 1), 28, 68, "Aguazul"),
	}))

	period := domain.DateRange{Start: day(10, 0), End: day(11, 0)}
	got, err := s.RangeReadings(ctx, period, "")
	require.NoError(t, err)
	require.Len(t, got, 2, "the end day is inclusive")
	assert.Equal(t, day(11, 23), got[0].Timestamp)
	assert.Equal(t, day(10, 8), got[1].Timestamp)
}

func TestRangeReadingsLocationFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	at := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.InsertReadings(ctx, []domain.Reading{
		reading("s1", at, 25, 70, "Aguazul"),
		reading("s2", at, 30, 60, "Yopal"),
	}))

	period := domain.DateRange{
		Start: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
	}
	got, err := s.RangeReadings(ctx, period, "yopal")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s2", got[0].SensorID)
}

func TestNilChannelsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	r := domain.Reading{
		SensorID:  "s1",
		Timestamp: now.Add(-time.Minute),
		Location:  "Aguazul",
	}
	require.NoError(t, s.InsertReadings(ctx, []domain.Reading{r}))

	got, err := s.RecentReadings(ctx, domain.LocationFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Temperature)
	assert.Nil(t, got[0].Humidity)
}

func TestRegisterSensor(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	r := reading("s1", now.Add(-time.Minute), 25, 70, "Aguazul")
	r.SensorName = "Estación El Guineo"
	require.NoError(t, s.RegisterSensor(ctx, r))
	require.NoError(t, s.InsertReadings(ctx, []domain.Reading{r}))

	// Upsert keeps a single row per sensor.
	r.SensorName = "Estación El Guineo 2"
	require.NoError(t, s.RegisterSensor(ctx, r))

	got, err := s.RecentReadings(ctx, domain.LocationFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Estación El Guineo 2", got[0].SensorName)
}

func TestParseLocationFilter(t *testing.T) {
	t.Run("coordinates", func(t *testing.T) {
		f := ParseLocationFilter("sensores cerca de 5.1715, -72.5568 por favor")
		assert.True(t, f.HasCoords)
		assert.InDelta(t, 5.1715, f.Latitude, 1e-9)
		assert.InDelta(t, -72.5568, f.Longitude, 1e-9)
	})

	t.Run("place name", func(t *testing.T) {
		f := ParseLocationFilter("¿cómo está el clima en Aguazul?")
		assert.False(t, f.HasCoords)
		assert.Equal(t, "Aguazul", f.Location)
	})

	t.Run("no filter", func(t *testing.T) {
		assert.True(t, ParseLocationFilter("temperatura actual").IsZero())
	})
}
