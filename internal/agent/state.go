// Package agent orchestrates one query through the classify, fetch,
// analyze, recommend and respond stages of the pipeline. Routing between
// stages is an explicit finite-state machine; every fault is converted
// into the state's error message and terminates the pipeline through the
// error path.
package agent

import (
	"time"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/climate"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/knowledge"
)

// DefaultUserLocation is the deployment site assumed when a query names
// no location.
const DefaultUserLocation = "El Guineo, Aguazul, Casanare, Colombia"

// Audit-trail tags, one appended per completed stage.
const (
	StepQueryClassified          = "query_classified"
	StepSensorDataFetched        = "sensor_data_fetched"
	StepClimateAnalyzed          = "climate_analyzed"
	StepCropRecommendations      = "crop_recommendations_generated"
	StepFinalResponseGenerated   = "final_response_generated"
)

// QueryState is the shared record threaded through the pipeline stages.
// One instance exists per request; it is owned by the orchestrator and
// never shared across concurrent queries.
type QueryState struct {
	UserQuery    string
	UserLocation string

	QueryType           domain.QueryType
	TimePeriod          *domain.DateRange
	Crop                string
	Location            string
	GeneralInfoCategory string

	SensorData     []domain.Reading
	ClimateSummary climate.Result

	CropRequirements *knowledge.CropProfile
	SeasonInfo       *knowledge.SeasonInfo
	Recommendations  []string

	SuggestGeneralInfo bool
	SuggestedCategory  string

	FinalAnswer string
	Confidence  float64

	ErrorMessage string

	ProcessingSteps []string
	StartedAt       time.Time
}

// NewQueryState creates the initial state for one query.
func NewQueryState(query string) *QueryState {
	return &QueryState{
		UserQuery:    query,
		UserLocation: DefaultUserLocation,
		StartedAt:    domain.Now(),
	}
}

// fail records the first error; later failures keep the original message.
func (s *QueryState) fail(msg string) {
	if s.ErrorMessage == "" {
		s.ErrorMessage = msg
	}
}

func (s *QueryState) step(tag string) {
	s.ProcessingSteps = append(s.ProcessingSteps, tag)
}

// Metadata summarizes what a processed query touched.
type Metadata struct {
	TimePeriod           *domain.DateRange `json:"time_period,omitempty"`
	CropMentioned        string            `json:"crop_mentioned,omitempty"`
	LocationMentioned    string            `json:"location_mentioned,omitempty"`
	HasSensorData        bool              `json:"has_sensor_data"`
	HasClimateAnalysis   bool              `json:"has_climate_analysis"`
	RecommendationsCount int               `json:"recommendations_count"`
}

// Response is the externally observable result of one query.
type Response struct {
	Answer          string           `json:"answer"`
	Confidence      float64          `json:"confidence"`
	QueryType       domain.QueryType `json:"query_type"`
	ProcessingSteps []string         `json:"processing_steps"`
	ErrorMessage    string           `json:"error_message,omitempty"`
	Timestamp       time.Time        `json:"timestamp"`
	Metadata        Metadata         `json:"metadata"`
}
