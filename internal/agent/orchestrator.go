package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/climate"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/observability"
)

// Orchestrator drives queries through the pipeline. It is safe for
// concurrent use; every call to Process owns an independent state record.
type Orchestrator struct {
	store        TelemetryStore
	analyzer     *climate.Analyzer
	logger       *slog.Logger
	metrics      *observability.Metrics
	userLocation string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithUserLocation overrides the deployment site assumed for queries that
// name no location.
func WithUserLocation(loc string) Option {
	return func(o *Orchestrator) {
		if loc != "" {
			o.userLocation = loc
		}
	}
}

// New builds an orchestrator over a telemetry store. A nil logger falls
// back to slog.Default and a nil metrics registry disables instrumentation.
func New(store TelemetryStore, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		store:        store,
		analyzer:     climate.NewAnalyzer(),
		logger:       logger,
		metrics:      metrics,
		userLocation: DefaultUserLocation,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Process runs one query to completion. It never panics; every fault
// surfaces as a populated error message with an apology answer.
func (o *Orchestrator) Process(ctx context.Context, query string) Response {
	start := time.Now()
	state := NewQueryState(query)
	state.UserLocation = o.userLocation

	stage := StageClassify
	for stage != StageTerminal {
		o.runStage(ctx, stage, state)
		stage = o.decide(stage, state)
	}

	resp := o.buildResponse(state)
	o.observe(resp, time.Since(start))
	return resp
}

func (o *Orchestrator) runStage(ctx context.Context, stage Stage, state *QueryState) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("pipeline stage panicked", "stage", string(stage), "panic", r)
			state.fail(fmt.Sprintf("Error interno en la etapa %s: %v", stage, r))
		}
		if o.metrics != nil {
			o.metrics.StageDuration.WithLabelValues(string(stage)).Observe(time.Since(start).Seconds())
		}
	}()

	switch stage {
	case StageClassify:
		o.classifyStage(state)
	case StageFetch:
		o.fetchStage(ctx, state)
	case StageAnalyze:
		o.analyzeStage(state)
	case StageRecommend:
		o.recommendStage(state)
	case StageRespond:
		o.respondStage(state)
	case StageError:
		o.errorStage(state)
	}
}

// decide routes to the next stage. A panic while deciding counts as an
// error signal, except out of the error stage itself, which always ends.
func (o *Orchestrator) decide(current Stage, state *QueryState) (next Stage) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("routing decision panicked", "stage", string(current), "panic", r)
			if current == StageError {
				next = StageTerminal
				return
			}
			state.fail(fmt.Sprintf("Error decidiendo la siguiente etapa desde %s: %v", current, r))
			next = StageError
		}
	}()
	return NextStage(current, state)
}

func (o *Orchestrator) buildResponse(state *QueryState) Response {
	answer := state.FinalAnswer
	if answer == "" {
		answer = apologyAnswer
	}
	return Response{
		Answer:          answer,
		Confidence:      state.Confidence,
		QueryType:       state.QueryType,
		ProcessingSteps: state.ProcessingSteps,
		ErrorMessage:    state.ErrorMessage,
		Timestamp:       state.StartedAt,
		Metadata: Metadata{
			TimePeriod:           state.TimePeriod,
			CropMentioned:        state.Crop,
			LocationMentioned:    state.Location,
			HasSensorData:        len(state.SensorData) > 0,
			HasClimateAnalysis:   !state.ClimateSummary.Empty(),
			RecommendationsCount: len(state.Recommendations),
		},
	}
}

func (o *Orchestrator) observe(resp Response, elapsed time.Duration) {
	o.logger.Info("query processed",
		"query_type", string(resp.QueryType),
		"confidence", resp.Confidence,
		"error", resp.ErrorMessage != "",
		"duration", elapsed)

	if o.metrics == nil {
		return
	}
	label := string(resp.QueryType)
	if label == "" {
		label = "unknown"
	}
	o.metrics.QueriesProcessed.WithLabelValues(label).Inc()
	if resp.ErrorMessage != "" {
		o.metrics.QueryErrors.Inc()
	}
	o.metrics.QueryDuration.Observe(elapsed.Seconds())
}
