package knowledge

import (
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/timeparse"
)

// BaselineStats is the reference statistical profile of one metric in one
// season, from historical Casanare records.
type BaselineStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// SeasonBaseline pairs the temperature and humidity baselines of a season.
type SeasonBaseline struct {
	Temperature BaselineStats `json:"temperature"`
	Humidity    BaselineStats `json:"humidity"`
}

var seasonalBaseline = map[timeparse.Season]SeasonBaseline{
	timeparse.SeasonDry: {
		Temperature: BaselineStats{Mean: 32, Std: 3, Min: 25, Max: 38},
		Humidity:    BaselineStats{Mean: 65, Std: 10, Min: 45, Max: 80},
	},
	timeparse.SeasonRainOnset: {
		Temperature: BaselineStats{Mean: 30, Std: 2, Min: 24, Max: 35},
		Humidity:    BaselineStats{Mean: 75, Std: 8, Min: 60, Max: 85},
	},
	timeparse.SeasonRainy: {
		Temperature: BaselineStats{Mean: 28, Std: 2, Min: 22, Max: 32},
		Humidity:    BaselineStats{Mean: 85, Std: 5, Min: 75, Max: 95},
	},
	timeparse.SeasonTransition: {
		Temperature: BaselineStats{Mean: 29, Std: 3, Min: 23, Max: 34},
		Humidity:    BaselineStats{Mean: 75, Std: 10, Min: 60, Max: 85},
	},
}

// SeasonalBaseline returns the per-season reference profiles.
func SeasonalBaseline() map[timeparse.Season]SeasonBaseline {
	return seasonalBaseline
}

// Band is a low/high threshold pair.
type Band struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Outside reports whether v falls outside the band.
func (b Band) Outside(v float64) bool {
	return v < b.Low || v > b.High
}

// StressBands holds the thermal and hydric stress thresholds.
type StressBands struct {
	Temperature Band `json:"temperature"`
	Humidity    Band `json:"humidity"`
}

// StressThresholds returns the fixed stress bands used to flag conditions
// that warrant supplementary threshold guidance.
func StressThresholds() StressBands {
	return StressBands{
		Temperature: Band{Low: 15, High: 35},
		Humidity:    Band{Low: 40, High: 90},
	}
}
