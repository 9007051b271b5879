package agent

import (
	"context"
	"fmt"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/classify"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/store"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/timeparse"
)

// TelemetryStore is the slice of the store the orchestrator needs.
type TelemetryStore interface {
	RecentReadings(ctx context.Context, filter domain.LocationFilter) ([]domain.Reading, error)
	RangeReadings(ctx context.Context, period domain.DateRange, location string) ([]domain.Reading, error)
}

// defaultHistoryExpression anchors history queries that carry no explicit
// temporal expression.
const defaultHistoryExpression = "última semana"

func (o *Orchestrator) classifyStage(state *QueryState) {
	res := classify.Classify(state.UserQuery)
	state.QueryType = res.QueryType
	state.TimePeriod = res.TimePeriod
	state.Crop = res.Crop
	state.Location = res.Location
	state.GeneralInfoCategory = res.GeneralInfoCategory
	state.step(StepQueryClassified)

	o.logger.Info("query classified",
		"query_type", string(res.QueryType),
		"crop", res.Crop,
		"location", res.Location)
}

// fetchStage retrieves the telemetry the intent needs. An empty result is
// not a fault; only a store failure is.
func (o *Orchestrator) fetchStage(ctx context.Context, state *QueryState) {
	var (
		readings []domain.Reading
		err      error
	)

	switch {
	case state.QueryType == domain.QueryCurrentStatus:
		filter := store.ParseLocationFilter(state.UserQuery)
		readings, err = o.store.RecentReadings(ctx, filter)
	case state.QueryType == domain.QueryClimateHistory:
		period := state.TimePeriod
		if period == nil {
			r, _ := timeparse.Resolve(defaultHistoryExpression)
			period = &r
		}
		readings, err = o.store.RangeReadings(ctx, *period, state.Location)
	case state.QueryType.NeedsRecommendations():
		// Current readings as contextual grounding for advisory answers.
		readings, err = o.store.RecentReadings(ctx, domain.LocationFilter{})
	}

	if err != nil {
		state.fail(fmt.Sprintf("Error obteniendo datos de sensores: %v", err))
		return
	}
	state.SensorData = readings
	state.step(StepSensorDataFetched)

	o.logger.Debug("sensor data fetched", "readings", len(readings))
}
