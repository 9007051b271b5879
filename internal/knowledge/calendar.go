package knowledge

import (
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/timeparse"
)

// SeasonInfo describes one entry of the Casanare agricultural calendar.
type SeasonInfo struct {
	Season          timeparse.Season `json:"season"`
	Months          []string         `json:"months"`
	Characteristics string           `json:"characteristics"`
	Recommendations []string         `json:"recommendations"`
}

var calendar = map[timeparse.Season]SeasonInfo{
	timeparse.SeasonDry: {
		Season:          timeparse.SeasonDry,
		Months:          []string{"diciembre", "enero", "febrero", "marzo"},
		Characteristics: "Baja precipitación, temperaturas altas",
		Recommendations: []string{
			"Preparación de suelos",
			"Siembra de cultivos resistentes a sequía",
			"Mantenimiento de sistemas de riego",
			"Cosecha de cultivos de temporada lluviosa",
		},
	},
	timeparse.SeasonRainOnset: {
		Season:          timeparse.SeasonRainOnset,
		Months:          []string{"abril", "mayo"},
		Characteristics: "Incremento de precipitaciones",
		Recommendations: []string{
			"Siembra principal de arroz",
			"Siembra de maíz",
			"Preparación de almácigos",
			"Control de malezas",
			"Esperar la segunda lluvia fuerte para sembrar",
		},
	},
	timeparse.SeasonRainy: {
		Season:          timeparse.SeasonRainy,
		Months:          []string{"junio", "julio", "agosto", "septiembre", "octubre"},
		Characteristics: "Alta precipitación y humedad",
		Recommendations: []string{
			"Mantenimiento de cultivos",
			"Control de plagas y enfermedades",
			"Cosecha de cultivos de ciclo corto",
			"Siembra de segunda temporada",
		},
	},
	timeparse.SeasonTransition: {
		Season:          timeparse.SeasonTransition,
		Months:          []string{"noviembre"},
		Characteristics: "Disminución gradual de lluvias",
		Recommendations: []string{
			"Cosecha de arroz de segunda temporada",
			"Preparación para la época seca",
			"Siembra de cultivos de ciclo corto",
			"Almacenamiento de agua",
		},
	},
}

// CalendarFor returns the calendar entry for a season. Unknown seasons fall
// back to the dry-season entry, which is the regional default.
func CalendarFor(season timeparse.Season) SeasonInfo {
	if info, ok := calendar[season]; ok {
		return info
	}
	return calendar[timeparse.SeasonDry]
}
