package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseRawMessage deserializes a RawMessage's value into a Reading.
// It expects the flat JSON produced by the field gateway.
func ParseRawMessage(raw RawMessage) (Reading, error) {
	var rec RawReadingRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return Reading{}, fmt.Errorf("parse raw reading: %w", err)
	}
	if rec.SensorID == "" {
		return Reading{}, fmt.Errorf("parse raw reading: missing sensor_id")
	}

	ts, err := parseTimestamp(rec.Timestamp, raw.Timestamp)
	if err != nil {
		return Reading{}, err
	}

	return Reading{
		Timestamp:   ts,
		Temperature: parseFloatOrNil(rec.Temperature),
		Humidity:    parseFloatOrNil(rec.Humidity),
		SensorID:    rec.SensorID,
		Location:    strings.TrimSpace(rec.Location),
		Latitude:    parseFloatOrNil(rec.Lat),
		Longitude:   parseFloatOrNil(rec.Lon),
	}, nil
}

// parseTimestamp parses the gateway timestamp, falling back to the message
// timestamp when the field is absent. Gateways with drifting RTCs sometimes
// omit it entirely.
func parseTimestamp(value string, fallback time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		if fallback.IsZero() {
			return time.Time{}, fmt.Errorf("parse raw reading: no timestamp available")
		}
		return fallback.UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse raw reading timestamp %q: %w", value, err)
	}
	return ts.UTC(), nil
}

// parseFloatOrNil parses a string as float64, returning nil for empty or
// malformed values so missing channels stay distinguishable from zero.
func parseFloatOrNil(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
