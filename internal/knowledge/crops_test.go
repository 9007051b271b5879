package knowledge

import (
	"strings"
	"testing"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/timeparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCropName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Maíz", "maiz"},
		{"MAÍZ", "maiz"},
		{"  plátano ", "platano"},
		{"Cítricos", "citricos"},
		{"yuca", "yuca"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCropName(tt.in), "input %q", tt.in)
	}
}

func TestCropInfo(t *testing.T) {
	t.Run("accented lookup", func(t *testing.T) {
		c, ok := CropInfo("Maíz")
		require.True(t, ok)
		assert.Equal(t, "Zea mays", c.ScientificName)
		assert.Equal(t, 25.0, c.Temperature.Ideal)
	})

	t.Run("unaccented lookup", func(t *testing.T) {
		c, ok := CropInfo("platano")
		require.True(t, ok)
		assert.Equal(t, "Plátano", c.Name)
		assert.Equal(t, 365, c.GrowthPeriodDays)
	})

	t.Run("unknown crop", func(t *testing.T) {
		_, ok := CropInfo("trigo")
		assert.False(t, ok)
	})
}

func TestCropNames(t *testing.T) {
	names := CropNames()
	assert.Equal(t, []string{"Arroz", "Maíz", "Yuca", "Plátano", "Cacao", "Cítricos"}, names)
}

func TestSuitableCrops(t *testing.T) {
	t.Run("conditions good for everything", func(t *testing.T) {
		matches := SuitableCrops(27, 75)
		require.NotEmpty(t, matches)
		for _, m := range matches {
			assert.Equal(t, SuitabilityOptimal, m.Suitability, m.Profile.Name)
		}
		// Combined distance must be non-decreasing through the ranking.
		for i := 1; i < len(matches); i++ {
			prev := matches[i-1].TempDistance + matches[i-1].HumidityDistance
			cur := matches[i].TempDistance + matches[i].HumidityDistance
			assert.LessOrEqual(t, prev, cur)
		}
	})

	t.Run("humidity outside all ranges yields aceptable only", func(t *testing.T) {
		matches := SuitableCrops(25, 30)
		require.NotEmpty(t, matches)
		for _, m := range matches {
			assert.Equal(t, SuitabilityAcceptable, m.Suitability, m.Profile.Name)
		}
	})

	t.Run("nothing matches extreme conditions", func(t *testing.T) {
		assert.Empty(t, SuitableCrops(5, 10))
	})

	t.Run("closest ideal ranks first", func(t *testing.T) {
		// 28°C / 78% is exactly the rice ideal point.
		matches := SuitableCrops(28, 78)
		require.NotEmpty(t, matches)
		assert.Equal(t, "arroz", matches[0].Profile.Key)
		assert.Zero(t, matches[0].TempDistance)
		assert.Zero(t, matches[0].HumidityDistance)
	})
}

func TestCalendarFor(t *testing.T) {
	rainy := CalendarFor(timeparse.SeasonRainy)
	assert.Equal(t, timeparse.SeasonRainy, rainy.Season)
	assert.Contains(t, rainy.Months, "julio")
	assert.NotEmpty(t, rainy.Recommendations)

	fallback := CalendarFor(timeparse.Season("verano"))
	assert.Equal(t, timeparse.SeasonDry, fallback.Season)
}

func TestSeasonalBaseline(t *testing.T) {
	baseline := SeasonalBaseline()
	require.Len(t, baseline, 4)
	dry := baseline[timeparse.SeasonDry]
	assert.Equal(t, 32.0, dry.Temperature.Mean)
	assert.Equal(t, 65.0, dry.Humidity.Mean)
}

func TestStressThresholds(t *testing.T) {
	bands := StressThresholds()
	assert.True(t, bands.Temperature.Outside(38))
	assert.True(t, bands.Temperature.Outside(10))
	assert.False(t, bands.Temperature.Outside(25))
	assert.True(t, bands.Humidity.Outside(95))
	assert.False(t, bands.Humidity.Outside(60))
}

func TestGeneralInfo(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"suelos", "Arcilloso"},
		{"riego", "Goteo"},
		{"fertilización", "Orgánica"},
		{"malezas", "Manual"},
		{"residuos", "Compostaje"},
		{"prácticas", "Rotación de cultivos"},
		{"plagas", "Gusano cogollero"},
		{"umbrales", "35°C"},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			out := GeneralInfo(tt.category)
			assert.True(t, strings.Contains(out, tt.want), "want %q in %q", tt.want, out)
		})
	}

	t.Run("unknown category lists topics", func(t *testing.T) {
		assert.Contains(t, GeneralInfo("astrología"), "Temas disponibles")
	})
}

func TestCommonPests(t *testing.T) {
	all := CommonPests("")
	assert.Len(t, all, 3)

	corn := CommonPests("Maíz")
	require.Len(t, corn, 1)
	assert.Equal(t, "Gusano cogollero", corn[0].Name)

	assert.Empty(t, CommonPests("cacao"))
}
