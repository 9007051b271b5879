package climate

import (
	"testing"
	"time"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/knowledge"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/timeparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// series builds a batch with the given per-metric values, one reading per
// step starting at start. Shorter slices leave the trailing channel nil.
func series(start time.Time, step time.Duration, temps, hums []float64) []domain.Reading {
	n := len(temps)
	if len(hums) > n {
		n = len(hums)
	}
	readings := make([]domain.Reading, n)
	for i := range readings {
		r := domain.Reading{
			Timestamp: start.Add(time.Duration(i) * step),
			SensorID:  "sensor-1",
			Location:  "Aguazul",
		}
		if i < len(temps) {
			r.Temperature = domain.Float(temps[i])
		}
		if i < len(hums) {
			r.Humidity = domain.Float(hums[i])
		}
		readings[i] = r
	}
	return readings
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func ramp(n int, base, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base + float64(i)*step
	}
	return out
}

var testStart = time.Date(2025, time.February, 10, 8, 0, 0, 0, time.UTC)

func TestAnalyzeEmptyBatch(t *testing.T) {
	res := NewAnalyzer().Analyze(nil)

	assert.True(t, res.Empty())
	assert.Equal(t, QualityPoor, res.DataQuality.Quality)
	assert.Contains(t, res.DataQuality.Issues, "No hay datos")
	assert.Empty(t, res.BasicStats)
	assert.True(t, res.Agricultural.InsufficientData)
}

func TestAnalyzeBasicStats(t *testing.T) {
	readings := series(testStart, time.Minute,
		[]float64{20, 22, 24, 26, 28},
		[]float64{70, 70, 70, 70, 70})
	res := NewAnalyzer().Analyze(readings)

	temp, ok := res.BasicStats[MetricTemperature]
	require.True(t, ok)
	assert.InDelta(t, 24, temp.Mean, 1e-9)
	assert.InDelta(t, 24, temp.Median, 1e-9)
	assert.Equal(t, 20.0, temp.Min)
	assert.Equal(t, 28.0, temp.Max)
	assert.Equal(t, 5, temp.Count)
	assert.InDelta(t, 2.8284, temp.Std, 1e-3)

	hum := res.BasicStats[MetricHumidity]
	assert.Zero(t, hum.Std)
}

func TestAnalyzeTrend(t *testing.T) {
	t.Run("linear ramp is increasing", func(t *testing.T) {
		readings := series(testStart, time.Minute, ramp(100, 20, 0.1), constant(100, 75))
		res := NewAnalyzer().Analyze(readings)

		trend, ok := res.Trends[MetricTemperature]
		require.True(t, ok)
		assert.Equal(t, TrendIncreasing, trend.Direction)
		assert.Greater(t, trend.RSquared, 0.95)
		assert.Equal(t, StrengthStrong, trend.Strength)
		assert.InDelta(t, 0.1, trend.Slope, 1e-9)

		require.NotNil(t, trend.ChangePerHour, "one-per-minute cadence permits the hourly projection")
		assert.InDelta(t, 6.0, *trend.ChangePerHour, 1e-9)
	})

	t.Run("hourly projection suppressed off-cadence", func(t *testing.T) {
		readings := series(testStart, 5*time.Minute, ramp(50, 20, 0.1), constant(50, 75))
		res := NewAnalyzer().Analyze(readings)
		assert.Nil(t, res.Trends[MetricTemperature].ChangePerHour)
	})

	t.Run("flat series is stable", func(t *testing.T) {
		readings := series(testStart, time.Minute, constant(30, 25), constant(30, 75))
		res := NewAnalyzer().Analyze(readings)
		assert.Equal(t, TrendStable, res.Trends[MetricTemperature].Direction)
	})

	t.Run("single sample has no trend", func(t *testing.T) {
		readings := series(testStart, time.Minute, []float64{25}, []float64{75})
		res := NewAnalyzer().Analyze(readings)
		_, ok := res.Trends[MetricTemperature]
		assert.False(t, ok)
	})
}

func TestAnalyzeOutliers(t *testing.T) {
	// A tight cluster around 25 with a single value far above it.
	temps := constant(50, 25)
	for i := range temps {
		temps[i] += float64(i%5) * 0.1
	}
	temps[20] = 60

	readings := series(testStart, time.Minute, temps, constant(50, 75))
	res := NewAnalyzer().Analyze(readings)

	ex, ok := res.Extremes[MetricTemperature]
	require.True(t, ok)
	assert.Equal(t, 1, ex.Outliers.Count)
	require.Len(t, ex.Outliers.Values, 1)
	assert.Equal(t, 60.0, ex.Outliers.Values[0])
	assert.Contains(t, ex.ExtremeEvents.HighValues, 60.0)
}

func TestPercentileInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	assert.InDelta(t, 2.5, percentile(values, 50), 1e-9)
	assert.InDelta(t, 1.15, percentile(values, 5), 1e-9)
	assert.InDelta(t, 4, percentile(values, 100), 1e-9)
	assert.Equal(t, 7.0, percentile([]float64{7}, 95))
}

func TestAnalyzeVariability(t *testing.T) {
	t.Run("constant series is low", func(t *testing.T) {
		readings := series(testStart, time.Minute, constant(20, 25), constant(20, 75))
		res := NewAnalyzer().Analyze(readings)
		v := res.Variability[MetricTemperature]
		assert.Zero(t, v.CoefficientOfVariation)
		assert.Equal(t, VariabilityLow, v.Level)
	})

	t.Run("wild swings are high", func(t *testing.T) {
		temps := make([]float64, 40)
		for i := range temps {
			if i%2 == 0 {
				temps[i] = 5
			} else {
				temps[i] = 45
			}
		}
		readings := series(testStart, time.Minute, temps, constant(40, 75))
		res := NewAnalyzer().Analyze(readings)
		assert.Equal(t, VariabilityHigh, res.Variability[MetricTemperature].Level)
	})

	t.Run("daily range", func(t *testing.T) {
		// Two calendar days, the second with a much wider spread.
		day1 := series(testStart, time.Hour, []float64{24, 25, 26}, constant(3, 75))
		day2 := series(testStart.AddDate(0, 0, 1), time.Hour, []float64{18, 28, 38}, constant(3, 75))
		res := NewAnalyzer().Analyze(append(day1, day2...))

		d := res.Variability[MetricTemperature].Daily
		assert.Equal(t, "2025-02-11", d.MaxRangeDay)
		assert.Equal(t, 20.0, d.MaxDailyRange)
		assert.InDelta(t, 11.0, d.AvgDailyRange, 1e-9)
	})
}

func TestAnalyzeAgricultural(t *testing.T) {
	readings := series(testStart, time.Minute, constant(30, 28), constant(30, 78))
	res := NewAnalyzer().Analyze(readings)

	ag := res.Agricultural
	require.False(t, ag.InsufficientData)
	assert.InDelta(t, 28, ag.AvgTemperature, 1e-9)
	assert.Equal(t, AssessmentExcellent, ag.Assessment)

	require.NotEmpty(t, ag.SuitableCrops)
	assert.LessOrEqual(t, len(ag.SuitableCrops), 5)
	assert.Equal(t, "Arroz", ag.SuitableCrops[0].Profile.Name)

	rice, ok := ag.CropConditions["Arroz"]
	require.True(t, ok)
	assert.Equal(t, knowledge.SuitabilityOptimal, rice.Suitability)
	assert.Equal(t, 100.0, rice.OverallOptimalPct)
}

func TestAnalyzeSeasonal(t *testing.T) {
	// February readings belong to the dry season; mean 35°C sits above
	// the 32°C baseline.
	readings := series(testStart, time.Minute, constant(20, 35), constant(20, 65))
	res := NewAnalyzer().Analyze(readings)

	stats, ok := res.Seasonal.Stats[MetricTemperature]
	require.True(t, ok)
	require.Len(t, stats, 1)
	assert.Equal(t, timeparse.SeasonDry, stats[0].Season)
	assert.Equal(t, 20, stats[0].Count)

	cmp := res.Seasonal.Comparison[MetricTemperature][timeparse.SeasonDry]
	assert.Equal(t, StatusAboveNormal, cmp.Status)
	assert.InDelta(t, 3, cmp.Deviation, 1e-9)
	assert.InDelta(t, 9.375, cmp.DeviationPercent, 1e-3)

	humCmp := res.Seasonal.Comparison[MetricHumidity][timeparse.SeasonDry]
	assert.Equal(t, StatusNormal, humCmp.Status)
}

func TestAnalyzeDataQuality(t *testing.T) {
	t.Run("clean batch is excellent", func(t *testing.T) {
		readings := series(testStart, time.Minute, constant(10, 28), constant(10, 75))
		res := NewAnalyzer().Analyze(readings)
		assert.Equal(t, QualityExcellent, res.DataQuality.Quality)
		assert.Equal(t, 100.0, res.DataQuality.Completeness)
		assert.Empty(t, res.DataQuality.Issues)
	})

	t.Run("out-of-range values flagged", func(t *testing.T) {
		temps := constant(10, 28)
		temps[3] = 80
		hums := constant(10, 75)
		hums[7] = 130
		readings := series(testStart, time.Minute, temps, hums)
		res := NewAnalyzer().Analyze(readings)

		assert.Equal(t, QualityGood, res.DataQuality.Quality)
		assert.Len(t, res.DataQuality.Issues, 2)
	})

	t.Run("missing channel counts against completeness", func(t *testing.T) {
		readings := series(testStart, time.Minute, constant(10, 28), constant(10, 75))
		for i := 0; i < 5; i++ {
			readings[i].Humidity = nil
		}
		res := NewAnalyzer().Analyze(readings)

		assert.InDelta(t, 75, res.DataQuality.Completeness, 1e-9)
		require.Len(t, res.DataQuality.Issues, 1)
		assert.Contains(t, res.DataQuality.Issues[0], "humidity")
	})
}

func TestRecommendations(t *testing.T) {
	t.Run("insufficient data asks for more", func(t *testing.T) {
		recs := Recommendations(NewAnalyzer().Analyze(nil))
		require.Len(t, recs, 1)
		assert.Contains(t, recs[0], "más datos")
	})

	t.Run("hot and dry conditions", func(t *testing.T) {
		readings := series(testStart, time.Minute, constant(20, 36), constant(20, 45))
		recs := Recommendations(NewAnalyzer().Analyze(readings))

		joined := ""
		for _, r := range recs {
			joined += r + "\n"
		}
		assert.Contains(t, joined, "temperaturas están altas")
		assert.Contains(t, joined, "humedad está baja")
	})

	t.Run("names the top crop", func(t *testing.T) {
		readings := series(testStart, time.Minute, constant(20, 28), constant(20, 78))
		recs := Recommendations(NewAnalyzer().Analyze(readings))

		found := false
		for _, r := range recs {
			if r == "El cultivo más adecuado para las condiciones actuales es Arroz" {
				found = true
			}
		}
		assert.True(t, found, "recs: %v", recs)
	})
}
