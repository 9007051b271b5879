// Command genreadings generates synthetic sensor telemetry for demos and
// test fixtures. It can write directly to a SQLite telemetry store (so the
// agent has data to answer from) or emit the flat gateway JSON as JSON
// Lines, ready to pipe into the ingest topic.
//
// Usage:
//
//	go run ./cmd/genreadings -db agriculture.db -days 7
//	go run ./cmd/genreadings -out readings.jsonl -days 1 -interval 1m
//	go run ./cmd/genreadings -brokers localhost:9092 -days 1
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	kafkaadapter "github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/adapter/kafka"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/config"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/store"
)

type sensorDef struct {
	id       string
	name     string
	location string
	lat      float64
	lon      float64
	tempBias float64
	humBias  float64
}

var sensors = []sensorDef{
	{"esp32-guineo-01", "Parcela norte", "El Guineo, Aguazul", 5.1702, -72.5520, 0, 0},
	{"esp32-guineo-02", "Parcela sur", "El Guineo, Aguazul", 5.1688, -72.5503, 0.6, -2},
	{"esp32-yopal-01", "Finca experimental", "Yopal", 5.3378, -72.3959, 1.1, -4},
	{"esp32-tauramena-01", "Lote arrocero", "Tauramena", 5.0193, -72.7457, -0.4, 3},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dbPath := flag.String("db", "", "SQLite store to insert readings into")
	outPath := flag.String("out", "", "JSON Lines output path for raw gateway payloads")
	brokers := flag.String("brokers", "", "comma-separated Kafka brokers to publish payloads to")
	topic := flag.String("topic", "sensor-readings", "Kafka topic when -brokers is set")
	days := flag.Int("days", 7, "number of days of telemetry, ending at -end")
	endFlag := flag.String("end", "", "end of the generated range, RFC 3339 (default: now); fix it for reproducible fixtures")
	interval := flag.Duration("interval", time.Minute, "sampling cadence")
	seed := flag.Int64("seed", 42, "random seed for reproducible output")
	flag.Parse()

	if *dbPath == "" && *outPath == "" && *brokers == "" {
		flag.Usage()
		return fmt.Errorf("at least one of -db, -out or -brokers is required")
	}

	end := time.Now().UTC()
	if *endFlag != "" {
		var err error
		end, err = time.Parse(time.RFC3339, *endFlag)
		if err != nil {
			return fmt.Errorf("invalid -end: %w", err)
		}
		end = end.UTC()
	}
	end = end.Truncate(*interval)

	rng := rand.New(rand.NewSource(*seed))
	start := end.Add(-time.Duration(*days) * 24 * time.Hour)

	readings := generate(rng, start, end, *interval)
	log.Printf("generated %d readings across %d sensors", len(readings), len(sensors))

	if *dbPath != "" {
		if err := writeStore(*dbPath, readings); err != nil {
			return fmt.Errorf("writing store: %w", err)
		}
		log.Printf("wrote store: %s", *dbPath)
	}
	if *outPath != "" {
		if err := writeJSONL(*outPath, readings); err != nil {
			return fmt.Errorf("writing fixture: %w", err)
		}
		log.Printf("wrote fixture: %s", *outPath)
	}
	if *brokers != "" {
		if err := publish(*brokers, *topic, readings); err != nil {
			return fmt.Errorf("publishing to kafka: %w", err)
		}
		log.Printf("published to %s on %s", *topic, *brokers)
	}
	return nil
}

func publish(brokers, topic string, readings []domain.Reading) error {
	cfg := &config.Config{
		KafkaBrokers: strings.Split(brokers, ","),
		KafkaTopic:   topic,
	}
	w := kafkaadapter.NewWriter(cfg, slog.Default())
	defer w.Close()

	records := make([]domain.RawReadingRecord, len(readings))
	for i, r := range readings {
		records[i] = toRawRecord(r)
	}
	return w.PublishRecords(context.Background(), records)
}

// generate produces a diurnal temperature/humidity cycle typical of the
// Casanare piedmont: warm afternoons near 33°C, cool pre-dawn lows near
// 22°C, humidity moving inversely. Roughly 1% of channel values are
// dropped to mimic flaky gateways.
func generate(rng *rand.Rand, start, end time.Time, interval time.Duration) []domain.Reading {
	var readings []domain.Reading
	for ts := start; ts.Before(end); ts = ts.Add(interval) {
		hour := float64(ts.Hour()) + float64(ts.Minute())/60
		// Peak at 14:00, trough at 02:00.
		phase := math.Cos((hour - 14) / 24 * 2 * math.Pi)
		baseTemp := 27.5 + 5.5*phase
		baseHum := 72 - 18*phase

		for _, s := range sensors {
			temp := baseTemp + s.tempBias + rng.NormFloat64()*0.4
			hum := baseHum + s.humBias + rng.NormFloat64()*1.5
			hum = math.Max(20, math.Min(100, hum))

			r := domain.Reading{
				Timestamp:  ts,
				SensorID:   s.id,
				SensorName: s.name,
				Location:   s.location,
				Latitude:   domain.Float(s.lat),
				Longitude:  domain.Float(s.lon),
			}
			if rng.Float64() >= 0.01 {
				r.Temperature = domain.Float(round1(temp))
			}
			if rng.Float64() >= 0.01 {
				r.Humidity = domain.Float(round1(hum))
			}
			readings = append(readings, r)
		}
	}
	return readings
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func writeStore(path string, readings []domain.Reading) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.InsertReadings(ctx, readings); err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, r := range readings {
		if seen[r.SensorID] {
			continue
		}
		seen[r.SensorID] = true
		if err := st.RegisterSensor(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONL emits the flat string-valued gateway format that the ingest
// pipeline parses.
func writeJSONL(path string, readings []domain.Reading) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, r := range readings {
		if err := enc.Encode(toRawRecord(r)); err != nil {
			return err
		}
	}
	return nil
}

func toRawRecord(r domain.Reading) domain.RawReadingRecord {
	rec := domain.RawReadingRecord{
		SensorID:  r.SensorID,
		Timestamp: r.Timestamp.Format(time.RFC3339),
		Location:  r.Location,
		Lat:       fmt.Sprintf("%.4f", *r.Latitude),
		Lon:       fmt.Sprintf("%.4f", *r.Longitude),
	}
	if r.Temperature != nil {
		rec.Temperature = fmt.Sprintf("%.1f", *r.Temperature)
	}
	if r.Humidity != nil {
		rec.Humidity = fmt.Sprintf("%.1f", *r.Humidity)
	}
	return rec
}
