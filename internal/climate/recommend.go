package climate

import "fmt"

// Recommendations derives the advisory notes implied by an analysis
// result. When the agricultural section had no data to work with, the
// single answer is a request for more data.
func Recommendations(result Result) []string {
	if result.Agricultural.InsufficientData {
		return []string{"Se necesitan más datos climáticos para generar recomendaciones específicas"}
	}

	var recs []string
	temp := result.Agricultural.AvgTemperature
	humidity := result.Agricultural.AvgHumidity

	if temp > 35 {
		recs = append(recs, "Las temperaturas están altas. Considerar riego adicional y sombra para cultivos sensibles")
	} else if temp < 20 {
		recs = append(recs, "Las temperaturas están bajas. Considerar cultivos resistentes al frío o protección térmica")
	}

	if humidity > 90 {
		recs = append(recs, "La humedad está muy alta. Vigilar enfermedades fúngicas y mejorar ventilación")
	} else if humidity < 50 {
		recs = append(recs, "La humedad está baja. Considerar riego más frecuente y mulching")
	}

	if len(result.Agricultural.SuitableCrops) > 0 {
		top := result.Agricultural.SuitableCrops[0]
		recs = append(recs, fmt.Sprintf("El cultivo más adecuado para las condiciones actuales es %s", top.Profile.Name))
	}

	if v, ok := result.Variability[MetricTemperature]; ok && v.Level == VariabilityHigh {
		recs = append(recs, "Hay alta variabilidad en temperatura. Considerar cultivos resistentes a cambios bruscos")
	}

	return recs
}
