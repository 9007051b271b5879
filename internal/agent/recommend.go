package agent

import (
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/knowledge"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/timeparse"
)

// recommendStage pulls static crop or seasonal knowledge into the state.
func (o *Orchestrator) recommendStage(state *QueryState) {
	switch {
	case state.QueryType == domain.QueryCropAdvice && state.Crop != "":
		if profile, ok := knowledge.CropInfo(state.Crop); ok {
			state.CropRequirements = &profile
			state.Recommendations = append(state.Recommendations, profile.RegenerativePractices...)
		}
	case state.QueryType == domain.QueryRecommendations:
		info := knowledge.CalendarFor(timeparse.CurrentSeason())
		state.SeasonInfo = &info
		state.Recommendations = append(state.Recommendations, info.Recommendations...)
	}
	state.step(StepCropRecommendations)
}
