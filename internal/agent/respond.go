package agent

import (
	"fmt"
	"strings"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/climate"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/knowledge"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/timeparse"
)

// apologyAnswer is the worst-case user-facing text when the pipeline
// could not produce anything better.
const apologyAnswer = "Lo siento, hubo un error procesando tu consulta. Por favor, intenta de nuevo."

// respondStage renders the final answer for the classified intent and
// appends any requested or suggested reference content.
func (o *Orchestrator) respondStage(state *QueryState) {
	var b strings.Builder

	switch state.QueryType {
	case domain.QueryCurrentStatus:
		writeStatusResponse(&b, state)
	case domain.QueryClimateHistory:
		writeHistoryResponse(&b, state)
	case domain.QueryRecommendations:
		writeRecommendationsResponse(&b, state)
	case domain.QueryCropAdvice:
		writeCropAdviceResponse(&b, state)
	default:
		writeGeneralResponse(&b)
	}

	if state.GeneralInfoCategory != "" {
		fmt.Fprintf(&b, "\n\nℹ️ **Información agrícola solicitada:**\n%s",
			knowledge.GeneralInfo(state.GeneralInfoCategory))
	}
	if state.SuggestGeneralInfo {
		category := state.SuggestedCategory
		if category == "" {
			category = suggestedStressCategory
		}
		fmt.Fprintf(&b, "\n\n⚠️ **Sugerencia técnica:**\n%s", knowledge.GeneralInfo(category))
	}

	state.FinalAnswer = b.String()
	state.Confidence = 0.9
	state.step(StepFinalResponseGenerated)
}

// errorStage produces the error answer. The original error message stays
// on the state for the caller.
func (o *Orchestrator) errorStage(state *QueryState) {
	if state.ErrorMessage == "" {
		return
	}
	state.FinalAnswer = fmt.Sprintf(
		"❌ **Error:** %s\n\nPor favor, intenta reformular tu consulta o contacta soporte si el problema persiste.",
		state.ErrorMessage)
	state.Confidence = 0
}

func writeStatusResponse(b *strings.Builder, state *QueryState) {
	b.WriteString("🌤️ **Estado Climático Actual:**\n\n")

	if len(state.SensorData) > 0 {
		fmt.Fprintf(b, "📊 **Lecturas de sensores:** %d lecturas recientes\n", len(state.SensorData))
		latest := state.SensorData[0]
		if latest.Temperature != nil {
			fmt.Fprintf(b, "   • Temperatura: %.1f°C\n", *latest.Temperature)
		}
		if latest.Humidity != nil {
			fmt.Fprintf(b, "   • Humedad: %.1f%%\n", *latest.Humidity)
		}
	} else {
		b.WriteString("⚠️ No hay datos de sensores disponibles en este momento.\n")
	}

	if !state.ClimateSummary.Empty() {
		b.WriteString("\n🔬 **Resumen climático:**\n")
		writeClimateAnalysis(b, state.ClimateSummary)
	}

	if len(state.Recommendations) > 0 {
		b.WriteString("\n💡 **Recomendaciones:**\n")
		for _, rec := range head(state.Recommendations, 3) {
			fmt.Fprintf(b, "   • %s\n", rec)
		}
	}
}

func writeHistoryResponse(b *strings.Builder, state *QueryState) {
	b.WriteString("📈 **Análisis Histórico:**\n\n")

	if state.TimePeriod != nil {
		fmt.Fprintf(b, "📅 **Período analizado:** %s\n\n",
			timeparse.FormatRange(state.TimePeriod.Start, state.TimePeriod.End))
	}
	if !state.ClimateSummary.Empty() {
		b.WriteString("🔬 **Resumen climático:**\n")
		writeClimateAnalysis(b, state.ClimateSummary)
	} else {
		b.WriteString("⚠️ No hay datos registrados para el período consultado.\n")
	}
}

func writeRecommendationsResponse(b *strings.Builder, state *QueryState) {
	b.WriteString("💡 **Recomendaciones Agrícolas:**\n\n")

	if state.SeasonInfo != nil {
		fmt.Fprintf(b, "🌤️ **Temporada actual:** %s\n\n", state.SeasonInfo.Characteristics)
	}
	if len(state.Recommendations) > 0 {
		b.WriteString("📋 **Recomendaciones:**\n")
		for _, rec := range state.Recommendations {
			fmt.Fprintf(b, "   • %s\n", rec)
		}
	} else {
		b.WriteString("No hay recomendaciones específicas disponibles en este momento.\n")
	}
}

func writeCropAdviceResponse(b *strings.Builder, state *QueryState) {
	b.WriteString("🌱 **Consejos de Cultivo:**\n\n")

	if req := state.CropRequirements; req != nil {
		fmt.Fprintf(b, "📖 **Información de %s:**\n", req.Name)
		fmt.Fprintf(b, "   • Temperatura óptima: %.0f-%.0f°C\n", req.Temperature.Min, req.Temperature.Max)
		fmt.Fprintf(b, "   • Humedad óptima: %.0f-%.0f%%\n", req.Humidity.Min, req.Humidity.Max)
		fmt.Fprintf(b, "   • Período de crecimiento: %d días\n\n", req.GrowthPeriodDays)
	}
	if len(state.Recommendations) > 0 {
		b.WriteString("♻️ **Prácticas regenerativas:**\n")
		for _, rec := range state.Recommendations {
			fmt.Fprintf(b, "   • %s\n", rec)
		}
	}
}

func writeGeneralResponse(b *strings.Builder) {
	b.WriteString("🤖 **Asistente de Agricultura Regenerativa:**\n\n")
	b.WriteString("¡Hola! Soy tu asistente de agricultura regenerativa para Casanare.\n\n")
	b.WriteString("Puedo ayudarte con:\n")
	b.WriteString("   • 📊 Estado actual del clima\n")
	b.WriteString("   • 📈 Análisis histórico de datos\n")
	b.WriteString("   • 🌱 Información de cultivos\n")
	b.WriteString("   • 💡 Recomendaciones agrícolas\n")
	b.WriteString("   • 📅 Consejos estacionales\n\n")
	b.WriteString("¿En qué puedo ayudarte hoy?")
}

func writeClimateAnalysis(b *strings.Builder, result climate.Result) {
	labels := map[climate.Metric]string{
		climate.MetricTemperature: "Temperatura",
		climate.MetricHumidity:    "Humedad",
	}
	order := []climate.Metric{climate.MetricTemperature, climate.MetricHumidity}

	for _, m := range order {
		if s, ok := result.BasicStats[m]; ok {
			fmt.Fprintf(b, "• %s: Promedio %.1f, Mín %.1f, Máx %.1f, Desv. %.1f\n",
				labels[m], s.Mean, s.Min, s.Max, s.Std)
		}
	}
	for _, m := range order {
		if t, ok := result.Trends[m]; ok {
			fmt.Fprintf(b, "• Tendencia de %s: %s (R²=%.2f)\n",
				strings.ToLower(labels[m]), t.Direction, t.RSquared)
		}
	}
	for _, m := range order {
		if e, ok := result.Extremes[m]; ok {
			fmt.Fprintf(b, "• Eventos extremos de %s: Altos %d, Bajos %d\n",
				strings.ToLower(labels[m]), e.ExtremeEvents.HighCount, e.ExtremeEvents.LowCount)
		}
	}
	if crops := result.Agricultural.SuitableCrops; len(crops) > 0 {
		names := make([]string, 0, 3)
		for _, c := range head(crops, 3) {
			names = append(names, c.Profile.Name)
		}
		fmt.Fprintf(b, "• Cultivos recomendados: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(b, "• Calidad de datos: %s\n", result.DataQuality.Quality)
	if len(result.DataQuality.Issues) > 0 {
		fmt.Fprintf(b, "  Problemas: %s\n", strings.Join(result.DataQuality.Issues, ", "))
	}
}

func head[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
