// Package store persists field telemetry in SQLite and answers the two
// query shapes the agent needs: the most recent readings and a date-range
// slice. Timestamps are stored as RFC3339 UTC text so lexical comparison
// matches chronological order.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// RecentReadings serves the "right now" view: the freshest rows of
	// the last hour, capped so current-status answers stay small.
	recentWindow = time.Hour
	recentLimit  = 10

	// nearbyRadiusKm bounds coordinate filters on recent readings.
	nearbyRadiusKm = 10
)

// Store is a SQLite-backed telemetry store. A single Store is safe for
// concurrent use; database/sql pools the connections.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the telemetry database at path. Use
// ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sensor_readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sensor_id TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		temperature REAL,
		humidity REAL,
		location TEXT,
		latitude REAL,
		longitude REAL
	);
	CREATE INDEX IF NOT EXISTS idx_readings_timestamp ON sensor_readings(timestamp);
	CREATE INDEX IF NOT EXISTS idx_readings_sensor ON sensor_readings(sensor_id);
	CREATE TABLE IF NOT EXISTS sensors (
		sensor_id TEXT PRIMARY KEY,
		name TEXT,
		location TEXT,
		latitude REAL,
		longitude REAL,
		last_seen TEXT
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying connections.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertReadings stores a batch atomically.
func (s *Store) InsertReadings(ctx context.Context, readings []domain.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sensor_readings (sensor_id, timestamp, temperature, humidity, location, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range readings {
		_, err := stmt.ExecContext(ctx,
			r.SensorID,
			r.Timestamp.UTC().Format(time.RFC3339),
			nullFloat(r.Temperature),
			nullFloat(r.Humidity),
			r.Location,
			nullFloat(r.Latitude),
			nullFloat(r.Longitude),
		)
		if err != nil {
			return fmt.Errorf("inserting reading from %s: %w", r.SensorID, err)
		}
	}
	return tx.Commit()
}

// RegisterSensor records or refreshes the sensor registry entry behind a
// reading.
func (s *Store) RegisterSensor(ctx context.Context, r domain.Reading) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sensors (sensor_id, name, location, latitude, longitude, last_seen)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(sensor_id) DO UPDATE SET
			name = excluded.name,
			location = excluded.location,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			last_seen = excluded.last_seen
	`, r.SensorID, r.SensorName, r.Location, nullFloat(r.Latitude), nullFloat(r.Longitude),
		r.Timestamp.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("registering sensor %s: %w", r.SensorID, err)
	}
	return nil
}

// RecentReadings returns the newest readings of the last hour, newest
// first, at most ten rows. A location filter narrows by substring; a
// coordinate filter keeps rows within ten kilometers.
func (s *Store) RecentReadings(ctx context.Context, filter domain.LocationFilter) ([]domain.Reading, error) {
	cutoff := domain.Now().Add(-recentWindow).UTC().Format(time.RFC3339)

	query := `
		SELECT sr.sensor_id, sr.timestamp, sr.temperature, sr.humidity, sr.location,
		       sr.latitude, sr.longitude, COALESCE(s.name, '')
		FROM sensor_readings sr
		LEFT JOIN sensors s ON sr.sensor_id = s.sensor_id
		WHERE sr.timestamp >= ?`
	args := []any{cutoff}

	if filter.Location != "" {
		query += " AND sr.location LIKE ?"
		args = append(args, "%"+filter.Location+"%")
	}
	query += " ORDER BY sr.timestamp DESC LIMIT ?"
	args = append(args, recentLimit)

	readings, err := s.queryReadings(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if filter.HasCoords {
		readings = filterNearby(readings, filter.Latitude, filter.Longitude, nearbyRadiusKm)
	}
	return readings, nil
}

// RangeReadings returns all readings between two days inclusive, newest
// first, optionally narrowed by a location substring.
func (s *Store) RangeReadings(ctx context.Context, period domain.DateRange, location string) ([]domain.Reading, error) {
	start := period.Start.UTC().Format(time.RFC3339)
	// End is a day boundary; extend it so the whole end day is included.
	end := period.End.UTC().Add(24 * time.Hour).Format(time.RFC3339)

	query := `
		SELECT sr.sensor_id, sr.timestamp, sr.temperature, sr.humidity, sr.location,
		       sr.latitude, sr.longitude, COALESCE(s.name, '')
		FROM sensor_readings sr
		LEFT JOIN sensors s ON sr.sensor_id = s.sensor_id
		WHERE sr.timestamp >= ? AND sr.timestamp < ?`
	args := []any{start, end}

	if location != "" {
		query += " AND sr.location LIKE ?"
		args = append(args, "%"+location+"%")
	}
	query += " ORDER BY sr.timestamp DESC"

	return s.queryReadings(ctx, query, args...)
}

func (s *Store) queryReadings(ctx context.Context, query string, args ...any) ([]domain.Reading, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	var readings []domain.Reading
	for rows.Next() {
		var (
			r         domain.Reading
			ts        string
			temp, hum sql.NullFloat64
			lat, lon  sql.NullFloat64
		)
		if err := rows.Scan(&r.SensorID, &ts, &temp, &hum, &r.Location, &lat, &lon, &r.SensorName); err != nil {
			return nil, fmt.Errorf("scanning reading: %w", err)
		}
		r.Timestamp, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing stored timestamp %q: %w", ts, err)
		}
		r.Temperature = fromNull(temp)
		r.Humidity = fromNull(hum)
		r.Latitude = fromNull(lat)
		r.Longitude = fromNull(lon)
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// filterNearby keeps readings with coordinates within radiusKm of the
// given point. Readings without coordinates are dropped.
func filterNearby(readings []domain.Reading, lat, lon, radiusKm float64) []domain.Reading {
	var near []domain.Reading
	for _, r := range readings {
		if r.Latitude == nil || r.Longitude == nil {
			continue
		}
		if haversineKm(lat, lon, *r.Latitude, *r.Longitude) < radiusKm {
			near = append(near, r)
		}
	}
	return near
}

// haversineKm computes the great-circle distance between two points.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
