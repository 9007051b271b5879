// Package knowledge holds the static agronomic reference tables for the
// Casanare region: crop requirement profiles, the agricultural calendar,
// the seasonal climate baseline, and general cultivation guidance. All
// tables are immutable after package initialization and safe for concurrent
// reads.
package knowledge

import (
	"sort"
	"strings"
)

// Range bounds an environmental variable with its crop-specific ideal point.
type Range struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Ideal float64 `json:"ideal"`
}

// Contains reports whether v falls inside the closed interval.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// CropProfile describes the growing requirements of one regional crop.
type CropProfile struct {
	Key                   string   `json:"key"`
	Name                  string   `json:"name"`
	ScientificName        string   `json:"scientific_name"`
	Temperature           Range    `json:"optimal_temperature"`
	Humidity              Range    `json:"optimal_humidity"`
	PlantingSeasons       []string `json:"planting_seasons"`
	GrowthPeriodDays      int      `json:"growth_period_days"`
	WaterRequirements     string   `json:"water_requirements"`
	SoilType              string   `json:"soil_type"`
	RegenerativePractices []string `json:"regenerative_practices"`
	Notes                 string   `json:"notes"`
}

// Suitability labels for SuitableCrops results.
const (
	SuitabilityOptimal    = "óptimo"
	SuitabilityAcceptable = "aceptable"
)

// CropMatch ranks a crop against a pair of average conditions.
type CropMatch struct {
	Profile          CropProfile `json:"profile"`
	Suitability      string      `json:"suitability"`
	TempDistance     float64     `json:"temp_distance"`
	HumidityDistance float64     `json:"humidity_distance"`
}

// crops is the fixed catalog of the main Casanare crops, in display order.
var crops = []CropProfile{
	{
		Key:              "arroz",
		Name:             "Arroz",
		ScientificName:   "Oryza sativa",
		Temperature:      Range{Min: 20, Max: 35, Ideal: 28},
		Humidity:         Range{Min: 70, Max: 85, Ideal: 78},
		PlantingSeasons:  []string{"marzo-mayo", "agosto-octubre"},
		GrowthPeriodDays: 120,
		WaterRequirements: "alto",
		SoilType:          "arcilloso, bien drenado",
		RegenerativePractices: []string{
			"Rotación con leguminosas",
			"Manejo integrado de plagas",
			"Uso de abonos orgánicos",
			"Sistema de riego eficiente",
		},
		Notes: "Cultivo principal de los llanos, se adapta bien al clima tropical",
	},
	{
		Key:              "maiz",
		Name:             "Maíz",
		ScientificName:   "Zea mays",
		Temperature:      Range{Min: 15, Max: 35, Ideal: 25},
		Humidity:         Range{Min: 60, Max: 80, Ideal: 70},
		PlantingSeasons:  []string{"marzo-mayo", "septiembre-noviembre"},
		GrowthPeriodDays: 90,
		WaterRequirements: "medio",
		SoilType:          "franco, bien drenado",
		RegenerativePractices: []string{
			"Asociación con frijol",
			"Mulching con residuos",
			"Compostaje",
			"Control biológico de plagas",
		},
		Notes: "Excelente adaptación al clima llanero, resistente a sequías",
	},
	{
		Key:              "yuca",
		Name:             "Yuca",
		ScientificName:   "Manihot esculenta",
		Temperature:      Range{Min: 20, Max: 35, Ideal: 27},
		Humidity:         Range{Min: 50, Max: 80, Ideal: 65},
		PlantingSeasons:  []string{"marzo-mayo", "agosto-octubre"},
		GrowthPeriodDays: 240,
		WaterRequirements: "bajo",
		SoilType:          "franco-arenoso, bien drenado",
		RegenerativePractices: []string{
			"Policultivo con frutales",
			"Abonos verdes",
			"Conservación de suelos",
			"Uso de residuos orgánicos",
		},
		Notes: "Muy resistente a sequías, ideal para agricultura de subsistencia",
	},
	{
		Key:              "platano",
		Name:             "Plátano",
		ScientificName:   "Musa paradisiaca",
		Temperature:      Range{Min: 20, Max: 35, Ideal: 28},
		Humidity:         Range{Min: 70, Max: 90, Ideal: 80},
		PlantingSeasons:  []string{"marzo-mayo", "septiembre-noviembre"},
		GrowthPeriodDays: 365,
		WaterRequirements: "alto",
		SoilType:          "franco, materia orgánica alta",
		RegenerativePractices: []string{
			"Sistemas agroforestales",
			"Mulching con hojas",
			"Compostaje de residuos",
			"Policultivo con cacao",
		},
		Notes: "Requiere zonas protegidas del viento, ideal cerca de fuentes de agua",
	},
	{
		Key:              "cacao",
		Name:             "Cacao",
		ScientificName:   "Theobroma cacao",
		Temperature:      Range{Min: 20, Max: 32, Ideal: 26},
		Humidity:         Range{Min: 75, Max: 85, Ideal: 80},
		PlantingSeasons:  []string{"marzo-mayo"},
		GrowthPeriodDays: 1095,
		WaterRequirements: "alto",
		SoilType:          "franco, rico en materia orgánica",
		RegenerativePractices: []string{
			"Sistemas agroforestales",
			"Sombra con árboles nativos",
			"Compostaje",
			"Diversificación de cultivos",
		},
		Notes: "Requiere sombra y alta humedad, ideal en zonas de galería",
	},
	{
		Key:              "citricos",
		Name:             "Cítricos",
		ScientificName:   "Citrus spp.",
		Temperature:      Range{Min: 15, Max: 35, Ideal: 25},
		Humidity:         Range{Min: 60, Max: 80, Ideal: 70},
		PlantingSeasons:  []string{"marzo-mayo", "septiembre-octubre"},
		GrowthPeriodDays: 1095,
		WaterRequirements: "medio",
		SoilType:          "franco, bien drenado",
		RegenerativePractices: []string{
			"Podas sanitarias",
			"Manejo integrado de plagas",
			"Abonos orgánicos",
			"Conservación de agua",
		},
		Notes: "Naranjas y limones se adaptan bien, requieren buen drenaje",
	},
}

// accentFolder strips the Spanish accents and ñ so "maíz", "Maiz" and
// "MAÍZ" resolve to the same catalog key.
var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n",
)

// NormalizeCropName lowercases and accent-folds a crop name into its
// catalog key.
func NormalizeCropName(name string) string {
	return accentFolder.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// CropInfo looks up a crop profile by its (possibly accented) name.
func CropInfo(name string) (CropProfile, bool) {
	key := NormalizeCropName(name)
	for _, c := range crops {
		if c.Key == key {
			return c, true
		}
	}
	return CropProfile{}, false
}

// CropNames returns the display names of all catalog crops, in catalog
// order.
func CropNames() []string {
	names := make([]string, len(crops))
	for i, c := range crops {
		names[i] = c.Name
	}
	return names
}

// SuitableCrops ranks the catalog against a pair of average conditions.
// A crop qualifies as "óptimo" when both averages fall inside its ranges
// and "aceptable" when exactly one does; crops matching neither range are
// excluded. Results are ordered by combined absolute distance from each
// crop's ideal point, closest first.
func SuitableCrops(temperature, humidity float64) []CropMatch {
	var matches []CropMatch
	for _, c := range crops {
		tempOK := c.Temperature.Contains(temperature)
		humOK := c.Humidity.Contains(humidity)
		if !tempOK && !humOK {
			continue
		}
		suitability := SuitabilityAcceptable
		if tempOK && humOK {
			suitability = SuitabilityOptimal
		}
		matches = append(matches, CropMatch{
			Profile:          c,
			Suitability:      suitability,
			TempDistance:     abs(temperature - c.Temperature.Ideal),
			HumidityDistance: abs(humidity - c.Humidity.Ideal),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].TempDistance+matches[i].HumidityDistance <
			matches[j].TempDistance+matches[j].HumidityDistance
	})
	return matches
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
