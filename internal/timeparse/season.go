package timeparse

import (
	"time"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
)

// Season is one of the four Casanare agricultural seasons.
type Season string

const (
	SeasonDry        Season = "epoca_seca"     // Dec-Mar
	SeasonRainOnset  Season = "inicio_lluvias" // Apr-May
	SeasonRainy      Season = "epoca_lluviosa" // Jun-Oct
	SeasonTransition Season = "transicion"     // Nov
)

// CurrentSeason returns the agricultural season for the current calendar
// month.
func CurrentSeason() Season {
	return SeasonForMonth(domain.Now().UTC().Month())
}

// SeasonForMonth maps a calendar month onto the Casanare season buckets.
func SeasonForMonth(m time.Month) Season {
	switch m {
	case time.December, time.January, time.February, time.March:
		return SeasonDry
	case time.April, time.May:
		return SeasonRainOnset
	case time.November:
		return SeasonTransition
	default:
		return SeasonRainy
	}
}
