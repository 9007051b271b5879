package agent

import (
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/climate"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/knowledge"
)

// suggestedStressCategory is the reference topic appended to the answer
// when the batch averages cross a stress band.
const suggestedStressCategory = "umbrales"

// analyzeStage profiles the fetched telemetry and flags stress conditions.
func (o *Orchestrator) analyzeStage(state *QueryState) {
	if len(state.SensorData) > 0 {
		result := o.analyzer.Analyze(state.SensorData)
		state.ClimateSummary = result

		bands := knowledge.StressThresholds()
		if t, ok := result.BasicStats[climate.MetricTemperature]; ok && bands.Temperature.Outside(t.Mean) {
			state.SuggestGeneralInfo = true
			state.SuggestedCategory = suggestedStressCategory
		}
		if h, ok := result.BasicStats[climate.MetricHumidity]; ok && bands.Humidity.Outside(h.Mean) {
			state.SuggestGeneralInfo = true
			state.SuggestedCategory = suggestedStressCategory
		}

		state.Recommendations = append(state.Recommendations, climate.Recommendations(result)...)
	}
	state.step(StepClimateAnalyzed)
}
