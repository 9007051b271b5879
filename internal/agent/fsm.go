package agent

// Stage is one node of the pipeline state machine.
type Stage string

const (
	StageClassify  Stage = "classify"
	StageFetch     Stage = "fetch"
	StageAnalyze   Stage = "analyze"
	StageRecommend Stage = "recommend"
	StageRespond   Stage = "respond"
	StageError     Stage = "error"
	StageTerminal  Stage = "terminal"
)

// NextStage is the pure routing function of the pipeline. A set error
// message is sticky: it forces the error path regardless of what the
// current stage would otherwise route to.
func NextStage(current Stage, state *QueryState) Stage {
	if state.ErrorMessage != "" && current != StageError {
		return StageError
	}

	switch current {
	case StageClassify:
		switch {
		case state.QueryType.NeedsSensorData():
			return StageFetch
		case state.QueryType.NeedsRecommendations():
			return StageRecommend
		default:
			return StageRespond
		}
	case StageFetch:
		switch {
		case len(state.SensorData) > 0:
			return StageAnalyze
		case state.QueryType.NeedsRecommendations():
			return StageRecommend
		default:
			return StageRespond
		}
	case StageAnalyze:
		if state.QueryType.NeedsRecommendations() {
			return StageRecommend
		}
		return StageRespond
	case StageRecommend:
		return StageRespond
	case StageRespond:
		if state.FinalAnswer != "" {
			return StageTerminal
		}
		return StageError
	default:
		return StageTerminal
	}
}
