package domain

import (
	"context"
	"time"
)

// Reading is one timestamped temperature/humidity observation from a field
// sensor.
type Reading struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature *float64  `json:"temperature"`
	Humidity    *float64  `json:"humidity"`
	SensorID    string    `json:"sensor_id"`
	SensorName  string    `json:"sensor_name,omitempty"`
	Location    string    `json:"location,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
}

// RawReadingRecord represents the flat JSON structure produced by the field
// gateway. Numeric columns arrive as strings; empty strings mean the channel
// was not reported.
type RawReadingRecord struct {
	SensorID    string `json:"sensor_id"`
	Timestamp   string `json:"timestamp"` // RFC 3339
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
	Location    string `json:"location"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// RawMessage represents an unprocessed message from the ingest topic.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// DateRange is an inclusive calendar date range. Start and End are dates at
// midnight UTC; Start == End denotes a single day.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SingleDay builds a one-day range.
func SingleDay(day time.Time) DateRange {
	return DateRange{Start: day, End: day}
}

// IsSingleDay reports whether the range covers exactly one day.
func (r DateRange) IsSingleDay() bool {
	return r.Start.Equal(r.End)
}

// LocationFilter restricts a telemetry query either by a location name
// substring or by proximity to a coordinate.
type LocationFilter struct {
	Location  string
	Latitude  float64
	Longitude float64
	HasCoords bool
}

// IsZero reports whether the filter restricts nothing.
func (f LocationFilter) IsZero() bool {
	return f.Location == "" && !f.HasCoords
}

// QueryType is the classified purpose of a user query.
type QueryType string

const (
	QueryCurrentStatus   QueryType = "current_status"
	QueryClimateHistory  QueryType = "climate_history"
	QueryRecommendations QueryType = "recommendations"
	QueryCropAdvice      QueryType = "crop_advice"
	QueryGeneral         QueryType = "general"
)

// NeedsSensorData reports whether the intent requires telemetry before the
// response stage.
func (q QueryType) NeedsSensorData() bool {
	return q == QueryCurrentStatus || q == QueryClimateHistory
}

// NeedsRecommendations reports whether the intent routes through the
// recommendation stage.
func (q QueryType) NeedsRecommendations() bool {
	return q == QueryCropAdvice || q == QueryRecommendations
}

// Float is a convenience constructor for nullable metric values.
func Float(v float64) *float64 {
	return &v
}
