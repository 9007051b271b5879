package knowledge

import (
	"fmt"
	"strings"
)

// SoilInfo describes one regional soil type.
type SoilInfo struct {
	Description          string   `json:"description"`
	RecommendedCrops     []string `json:"recommended_crops"`
	ImprovementPractices []string `json:"improvement_practices"`
}

var soilTypes = []struct {
	key  string
	info SoilInfo
}{
	{"arcilloso", SoilInfo{
		Description:          "Suelos pesados, retienen agua, pobres en drenaje.",
		RecommendedCrops:     []string{"arroz", "pastos", "algunos frutales"},
		ImprovementPractices: []string{"Incorporar materia orgánica", "Drenaje superficial"},
	}},
	{"franco", SoilInfo{
		Description:          "Suelos equilibrados, buena retención y drenaje.",
		RecommendedCrops:     []string{"maíz", "yuca", "hortalizas", "cacao"},
		ImprovementPractices: []string{"Rotación de cultivos", "Cobertura vegetal"},
	}},
	{"arenoso", SoilInfo{
		Description:          "Suelos ligeros, drenan rápido, pobres en nutrientes.",
		RecommendedCrops:     []string{"maní", "sandía", "melón"},
		ImprovementPractices: []string{"Aporte de compost", "Mulching"},
	}},
}

// SoilTypeInfo looks up a soil type by name.
func SoilTypeInfo(name string) (SoilInfo, bool) {
	key := NormalizeCropName(name)
	for _, s := range soilTypes {
		if s.key == key {
			return s.info, true
		}
	}
	return SoilInfo{}, false
}

var waterRequirements = map[string]string{
	"bajo":  "Menos de 20 mm/semana",
	"medio": "20-40 mm/semana",
	"alto":  "Más de 40 mm/semana",
}

// WaterRequirementDesc describes a water-requirement level in mm/week.
func WaterRequirementDesc(level string) string {
	return waterRequirements[strings.ToLower(strings.TrimSpace(level))]
}

// UniversalPractices returns the regenerative practices that apply to every
// crop in the region.
func UniversalPractices() []string {
	return []string{
		"Rotación de cultivos",
		"Cobertura vegetal permanente",
		"Uso de abonos orgánicos",
		"No quema de residuos",
		"Siembra directa o mínima labranza",
	}
}

// Pest describes a common regional pest or disease and its control.
type Pest struct {
	Name    string   `json:"name"`
	Affects []string `json:"affects"`
	Control string   `json:"control"`
}

var commonPests = []Pest{
	{Name: "Gusano cogollero", Affects: []string{"maíz", "arroz"}, Control: "Control biológico, trampas de feromonas"},
	{Name: "Mosca blanca", Affects: []string{"hortalizas", "frutales"}, Control: "Aceites vegetales, enemigos naturales"},
	{Name: "Mildiu", Affects: []string{"yuca", "hortalizas"}, Control: "Rotación, fungicidas orgánicos"},
}

// CommonPests returns known pests, optionally filtered by affected crop.
func CommonPests(crop string) []Pest {
	if crop == "" {
		return commonPests
	}
	key := NormalizeCropName(crop)
	var filtered []Pest
	for _, p := range commonPests {
		for _, affected := range p.Affects {
			if NormalizeCropName(affected) == key {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered
}

var fertilizationGuide = map[string]struct {
	description string
	points      []string
}{
	"orgánica": {
		description: "Uso de compost, estiércol, abonos verdes.",
		points:      []string{"Mejora la estructura del suelo", "Aumenta la biodiversidad microbiana"},
	},
	"química": {
		description: "Uso racional de NPK y micronutrientes.",
		points:      []string{"Aplicar según análisis de suelo", "Evitar sobredosificación"},
	},
}

var weedManagement = []struct{ method, desc string }{
	{"manual", "Deshierbe a mano o con herramientas simples, ideal en cultivos pequeños o ecológicos."},
	{"mecánico", "Uso de maquinaria ligera para control de malezas en grandes extensiones."},
	{"cobertura", "Uso de cultivos de cobertura o mulching para suprimir malezas."},
	{"biológico", "Uso de extractos vegetales o enemigos naturales."},
}

var residueManagement = []string{
	"Compostaje de residuos vegetales",
	"Incorporación de rastrojos al suelo",
	"Producción de biofertilizantes",
	"Evitar la quema de residuos",
}

var irrigationMethods = []struct{ method, desc string }{
	{"gravedad", "Riego por surcos o canales, tradicional pero menos eficiente."},
	{"aspersión", "Distribución uniforme, adecuado para hortalizas y pastos."},
	{"goteo", "Alta eficiencia, ideal para frutales y cultivos de alto valor."},
}

// GeneralInfo renders the reference text for one agronomy category. The
// category is one of the classifier's general-info keywords; unknown
// categories yield a short pointer to the available topics.
func GeneralInfo(category string) string {
	switch NormalizeCropName(category) {
	case "suelo", "suelos":
		var b strings.Builder
		b.WriteString("Tipos de suelo de la región:\n")
		for _, s := range soilTypes {
			fmt.Fprintf(&b, "• %s: %s Cultivos recomendados: %s.\n",
				title(s.key), s.info.Description, strings.Join(s.info.RecommendedCrops, ", "))
		}
		return strings.TrimRight(b.String(), "\n")
	case "riego":
		var b strings.Builder
		b.WriteString("Métodos de riego:\n")
		for _, m := range irrigationMethods {
			fmt.Fprintf(&b, "• %s: %s\n", title(m.method), m.desc)
		}
		return strings.TrimRight(b.String(), "\n")
	case "fertilizacion":
		var b strings.Builder
		b.WriteString("Guía de fertilización:\n")
		for _, key := range []string{"orgánica", "química"} {
			g := fertilizationGuide[key]
			fmt.Fprintf(&b, "• %s: %s %s.\n", title(key), g.description, strings.Join(g.points, "; "))
		}
		return strings.TrimRight(b.String(), "\n")
	case "malezas":
		var b strings.Builder
		b.WriteString("Manejo de malezas:\n")
		for _, m := range weedManagement {
			fmt.Fprintf(&b, "• %s: %s\n", title(m.method), m.desc)
		}
		return strings.TrimRight(b.String(), "\n")
	case "residuos":
		return "Manejo de residuos:\n• " + strings.Join(residueManagement, "\n• ")
	case "practicas":
		return "Prácticas regenerativas universales:\n• " + strings.Join(UniversalPractices(), "\n• ")
	case "plagas":
		var b strings.Builder
		b.WriteString("Plagas y enfermedades comunes:\n")
		for _, p := range commonPests {
			fmt.Fprintf(&b, "• %s (afecta: %s). Control: %s\n", p.Name, strings.Join(p.Affects, ", "), p.Control)
		}
		return strings.TrimRight(b.String(), "\n")
	case "umbrales", "estres":
		t := StressThresholds()
		return fmt.Sprintf(
			"Umbrales de estrés térmico e hídrico:\n"+
				"• Temperatura: estrés por frío bajo %.0f°C, estrés por calor sobre %.0f°C.\n"+
				"• Humedad: estrés hídrico bajo %.0f%%, riesgo de enfermedades fúngicas sobre %.0f%%.",
			t.Temperature.Low, t.Temperature.High, t.Humidity.Low, t.Humidity.High)
	default:
		return "Temas disponibles: suelos, riego, fertilización, malezas, residuos, prácticas, plagas y umbrales de estrés."
	}
}

// title uppercases the first rune of a lowercase key.
func title(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
