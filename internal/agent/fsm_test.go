package agent

import (
	"testing"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNextStageRouting(t *testing.T) {
	tests := []struct {
		name    string
		current Stage
		state   QueryState
		want    Stage
	}{
		{"classify current_status fetches", StageClassify,
			QueryState{QueryType: domain.QueryCurrentStatus}, StageFetch},
		{"classify climate_history fetches", StageClassify,
			QueryState{QueryType: domain.QueryClimateHistory}, StageFetch},
		{"classify crop_advice recommends", StageClassify,
			QueryState{QueryType: domain.QueryCropAdvice}, StageRecommend},
		{"classify recommendations recommends", StageClassify,
			QueryState{QueryType: domain.QueryRecommendations}, StageRecommend},
		{"classify general responds directly", StageClassify,
			QueryState{QueryType: domain.QueryGeneral}, StageRespond},
		{"classify unclassified responds directly", StageClassify,
			QueryState{}, StageRespond},

		{"fetch with data analyzes", StageFetch,
			QueryState{QueryType: domain.QueryCurrentStatus, SensorData: make([]domain.Reading, 1)}, StageAnalyze},
		{"fetch empty for status responds", StageFetch,
			QueryState{QueryType: domain.QueryCurrentStatus}, StageRespond},
		{"fetch empty for advisory recommends", StageFetch,
			QueryState{QueryType: domain.QueryRecommendations}, StageRecommend},

		{"analyze for history responds", StageAnalyze,
			QueryState{QueryType: domain.QueryClimateHistory}, StageRespond},
		{"analyze for advisory recommends", StageAnalyze,
			QueryState{QueryType: domain.QueryCropAdvice}, StageRecommend},

		{"recommend always responds", StageRecommend,
			QueryState{QueryType: domain.QueryRecommendations}, StageRespond},

		{"respond with answer terminates", StageRespond,
			QueryState{FinalAnswer: "ok"}, StageTerminal},
		{"respond without answer errors", StageRespond,
			QueryState{}, StageError},

		{"error terminates", StageError,
			QueryState{ErrorMessage: "boom"}, StageTerminal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStage(tt.current, &tt.state))
		})
	}
}

func TestNextStageStickyError(t *testing.T) {
	// Once the error message is set, every stage routes to the error
	// path regardless of what it would otherwise decide.
	state := &QueryState{
		QueryType:    domain.QueryCurrentStatus,
		SensorData:   make([]domain.Reading, 3),
		FinalAnswer:  "answer",
		ErrorMessage: "boom",
	}
	for _, stage := range []Stage{StageClassify, StageFetch, StageAnalyze, StageRecommend, StageRespond} {
		assert.Equal(t, StageError, NextStage(stage, state), "from %s", stage)
	}
	assert.Equal(t, StageTerminal, NextStage(StageError, state))
}

func TestFailKeepsFirstMessage(t *testing.T) {
	state := &QueryState{}
	state.fail("first")
	state.fail("second")
	assert.Equal(t, "first", state.ErrorMessage)
}
