// Package climate computes the statistical profile of a telemetry batch:
// basic statistics, linear trends, extremes and outliers, variability,
// agricultural suitability, seasonal comparison against the regional
// baseline and a data-quality verdict. The analyzer is pure over its
// input; an empty batch yields an explicit poor-quality result rather
// than an error.
package climate

import (
	"fmt"
	"sort"
	"time"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/knowledge"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/timeparse"
)

// Metric names the two tracked telemetry channels.
type Metric string

const (
	MetricTemperature Metric = "temperature"
	MetricHumidity    Metric = "humidity"
)

var metrics = []Metric{MetricTemperature, MetricHumidity}

// Assessment labels for overall agricultural conditions.
const (
	AssessmentUnfavorable = "desfavorable"
	AssessmentExcellent   = "excelente"
	AssessmentAcceptable  = "aceptable"
)

// Trend direction and strength labels.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"

	StrengthStrong   = "strong"
	StrengthModerate = "moderate"
	StrengthWeak     = "weak"
)

// Variability levels.
const (
	VariabilityHigh     = "high"
	VariabilityModerate = "moderate"
	VariabilityLow      = "low"
)

// Seasonal deviation statuses.
const (
	StatusAboveNormal = "above_normal"
	StatusBelowNormal = "below_normal"
	StatusNormal      = "normal"
)

// Data-quality tiers.
const (
	QualityExcellent = "excellent"
	QualityGood      = "good"
	QualityFair      = "fair"
	QualityPoor      = "poor"
)

// BasicStats summarizes the non-missing values of one metric.
type BasicStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Std    float64 `json:"std"`
	Count  int     `json:"count"`
}

// Trend is the least-squares fit of a metric against sample index after
// sorting by timestamp. ChangePerHour is only populated when the batch
// cadence is close to one sample per minute, because the projection
// multiplies the per-sample slope by 60.
type Trend struct {
	Slope         float64  `json:"slope"`
	Direction     string   `json:"trend_direction"`
	Strength      string   `json:"trend_strength"`
	RSquared      float64  `json:"r_squared"`
	ChangePerHour *float64 `json:"change_per_hour,omitempty"`
}

// Percentiles holds the five reference percentiles of a metric.
type Percentiles struct {
	P5  float64 `json:"p5"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P95 float64 `json:"p95"`
}

// Outliers reports values outside the 1.5×IQR fences. Values keeps at
// most the first ten, in input order.
type Outliers struct {
	Count      int       `json:"count"`
	Percentage float64   `json:"percentage"`
	Values     []float64 `json:"values"`
}

// ExtremeEvents reports values at or beyond the 5th/95th percentiles,
// keeping at most five previews per side.
type ExtremeEvents struct {
	HighCount  int       `json:"high_count"`
	LowCount   int       `json:"low_count"`
	HighValues []float64 `json:"high_values"`
	LowValues  []float64 `json:"low_values"`
}

// Extremes groups the percentile, outlier and extreme-event views of one
// metric.
type Extremes struct {
	Percentiles   Percentiles   `json:"percentiles"`
	Outliers      Outliers      `json:"outliers"`
	ExtremeEvents ExtremeEvents `json:"extreme_events"`
}

// HourlyPattern identifies the hours of day with the most and least
// spread.
type HourlyPattern struct {
	MaxVariabilityHour int     `json:"hour_with_max_variability"`
	MinVariabilityHour int     `json:"hour_with_min_variability"`
	MaxStd             float64 `json:"max_std"`
	MinStd             float64 `json:"min_std"`
}

// DailyPattern identifies the calendar day with the widest range.
type DailyPattern struct {
	MaxRangeDay   string  `json:"day_with_max_range"`
	MaxDailyRange float64 `json:"max_daily_range"`
	AvgDailyRange float64 `json:"avg_daily_range"`
}

// Variability is the spread profile of one metric.
type Variability struct {
	CoefficientOfVariation float64       `json:"coefficient_of_variation"`
	Level                  string        `json:"variability_level"`
	Hourly                 HourlyPattern `json:"hourly_pattern"`
	Daily                  DailyPattern  `json:"daily_pattern"`
}

// CropCondition scores one catalog crop against the batch.
type CropCondition struct {
	Suitability        string   `json:"suitability"`
	TempOptimalPct     float64  `json:"temp_optimal_percentage"`
	HumidityOptimalPct float64  `json:"humidity_optimal_percentage"`
	OverallOptimalPct  float64  `json:"overall_optimal_percentage"`
	Practices          []string `json:"recommendations"`
}

// Agricultural evaluates growing conditions from the batch averages.
// InsufficientData is set when either metric has no values at all.
type Agricultural struct {
	InsufficientData bool                     `json:"insufficient_data,omitempty"`
	AvgTemperature   float64                  `json:"avg_temperature"`
	AvgHumidity      float64                  `json:"avg_humidity"`
	SuitableCrops    []knowledge.CropMatch    `json:"suitable_crops"`
	CropConditions   map[string]CropCondition `json:"crop_conditions"`
	Assessment       string                   `json:"overall_assessment"`
}

// SeasonStats summarizes one metric inside one season bucket.
type SeasonStats struct {
	Season timeparse.Season `json:"season"`
	Mean   float64          `json:"mean"`
	Std    float64          `json:"std"`
	Min    float64          `json:"min"`
	Max    float64          `json:"max"`
	Count  int              `json:"count"`
}

// SeasonComparison measures a season bucket against the regional baseline.
type SeasonComparison struct {
	ActualMean       float64 `json:"actual_mean"`
	ExpectedMean     float64 `json:"expected_mean"`
	Deviation        float64 `json:"deviation"`
	DeviationPercent float64 `json:"deviation_percent"`
	Status           string  `json:"status"`
}

// Seasonal groups the per-season statistics and baseline comparison.
type Seasonal struct {
	Stats      map[Metric][]SeasonStats                        `json:"seasonal_stats"`
	Comparison map[Metric]map[timeparse.Season]SeasonComparison `json:"season_comparison"`
}

// DataQuality is the verdict on the batch itself.
type DataQuality struct {
	Quality      string   `json:"quality"`
	TotalRecords int      `json:"total_records"`
	Issues       []string `json:"issues"`
	Completeness float64  `json:"completeness"`
}

// Result is the full analysis of one telemetry batch. Map entries are
// absent for metrics with no usable values; Trends additionally requires
// two samples.
type Result struct {
	BasicStats  map[Metric]BasicStats  `json:"basic_stats"`
	Trends      map[Metric]Trend       `json:"trends"`
	Extremes    map[Metric]Extremes    `json:"extremes"`
	Variability map[Metric]Variability `json:"variability"`
	Agricultural Agricultural          `json:"agricultural_analysis"`
	Seasonal    Seasonal               `json:"season_analysis"`
	DataQuality DataQuality            `json:"data_quality"`
	AnalyzedAt  time.Time              `json:"analysis_timestamp"`
}

// Empty reports whether the result came from an empty batch.
func (r Result) Empty() bool {
	return r.DataQuality.TotalRecords == 0
}

// CropCatalog is the slice of the knowledge base the analyzer needs.
type CropCatalog interface {
	SuitableCrops(temperature, humidity float64) []knowledge.CropMatch
	Baseline() map[timeparse.Season]knowledge.SeasonBaseline
}

// catalog adapts the knowledge package to CropCatalog.
type catalog struct{}

func (catalog) SuitableCrops(t, h float64) []knowledge.CropMatch {
	return knowledge.SuitableCrops(t, h)
}

func (catalog) Baseline() map[timeparse.Season]knowledge.SeasonBaseline {
	return knowledge.SeasonalBaseline()
}

// Analyzer computes climate analyses against a crop catalog.
type Analyzer struct {
	catalog CropCatalog
}

// NewAnalyzer returns an analyzer backed by the built-in regional catalog.
func NewAnalyzer() *Analyzer {
	return &Analyzer{catalog: catalog{}}
}

// NewAnalyzerWithCatalog returns an analyzer over a custom catalog.
func NewAnalyzerWithCatalog(c CropCatalog) *Analyzer {
	return &Analyzer{catalog: c}
}

const (
	outlierPreviewCap = 10
	extremePreviewCap = 5
	topCropCount      = 5
)

// Analyze profiles a telemetry batch. It never fails on data content; an
// empty batch returns the explicit empty result.
func (a *Analyzer) Analyze(readings []domain.Reading) Result {
	if len(readings) == 0 {
		return emptyResult()
	}

	sorted := append([]domain.Reading(nil), readings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	res := Result{
		BasicStats:  make(map[Metric]BasicStats),
		Trends:      make(map[Metric]Trend),
		Extremes:    make(map[Metric]Extremes),
		Variability: make(map[Metric]Variability),
		AnalyzedAt:  domain.Now(),
	}

	for _, m := range metrics {
		values := metricValues(sorted, m)
		if len(values) == 0 {
			continue
		}
		res.BasicStats[m] = basicStats(values)
		if len(values) >= 2 {
			res.Trends[m] = trend(values, cadence(sorted))
		}
		res.Extremes[m] = extremes(values)
		res.Variability[m] = a.variability(sorted, m)
	}

	res.Agricultural = a.agricultural(sorted)
	res.Seasonal = a.seasonal(sorted)
	res.DataQuality = dataQuality(sorted)
	return res
}

func emptyResult() Result {
	return Result{
		BasicStats:  map[Metric]BasicStats{},
		Trends:      map[Metric]Trend{},
		Extremes:    map[Metric]Extremes{},
		Variability: map[Metric]Variability{},
		Agricultural: Agricultural{InsufficientData: true},
		DataQuality: DataQuality{
			Quality: QualityPoor,
			Issues:  []string{"No hay datos"},
		},
		AnalyzedAt: domain.Now(),
	}
}

// metricValues extracts the non-missing values of one metric, preserving
// timestamp order.
func metricValues(readings []domain.Reading, m Metric) []float64 {
	var values []float64
	for _, r := range readings {
		if v, ok := metricValue(r, m); ok {
			values = append(values, v)
		}
	}
	return values
}

func metricValue(r domain.Reading, m Metric) (float64, bool) {
	var p *float64
	switch m {
	case MetricTemperature:
		p = r.Temperature
	case MetricHumidity:
		p = r.Humidity
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

func basicStats(values []float64) BasicStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return BasicStats{
		Mean:   mean(values),
		Median: median(values),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Std:    popStd(values),
		Count:  len(values),
	}
}

// cadence returns the median interval between consecutive samples, or 0
// when there are fewer than two.
func cadence(readings []domain.Reading) time.Duration {
	if len(readings) < 2 {
		return 0
	}
	gaps := make([]float64, 0, len(readings)-1)
	for i := 1; i < len(readings); i++ {
		gaps = append(gaps, readings[i].Timestamp.Sub(readings[i-1].Timestamp).Seconds())
	}
	return time.Duration(median(gaps) * float64(time.Second))
}

// minuteCadence bounds for projecting the per-sample slope to an hourly
// rate.
const (
	minCadence = 50 * time.Second
	maxCadence = 70 * time.Second
)

func trend(values []float64, sampleCadence time.Duration) Trend {
	slope, _, r2 := linearFit(values)

	t := Trend{
		Slope:     slope,
		RSquared:  r2,
		Direction: TrendStable,
		Strength:  StrengthWeak,
	}
	switch {
	case slope > 0.01:
		t.Direction = TrendIncreasing
	case slope < -0.01:
		t.Direction = TrendDecreasing
	}
	switch {
	case abs(r2) > 0.7:
		t.Strength = StrengthStrong
	case abs(r2) > 0.3:
		t.Strength = StrengthModerate
	}
	// The hourly projection assumes one sample per minute; skip it when
	// the observed cadence says otherwise.
	if sampleCadence >= minCadence && sampleCadence <= maxCadence {
		perHour := slope * 60
		t.ChangePerHour = &perHour
	}
	return t
}

func extremes(values []float64) Extremes {
	p := Percentiles{
		P5:  percentile(values, 5),
		P25: percentile(values, 25),
		P50: percentile(values, 50),
		P75: percentile(values, 75),
		P95: percentile(values, 95),
	}

	iqr := p.P75 - p.P25
	lower := p.P25 - 1.5*iqr
	upper := p.P75 + 1.5*iqr

	var outliers, highs, lows []float64
	for _, v := range values {
		if v < lower || v > upper {
			outliers = append(outliers, v)
		}
		if v >= p.P95 {
			highs = append(highs, v)
		}
		if v <= p.P5 {
			lows = append(lows, v)
		}
	}

	return Extremes{
		Percentiles: p,
		Outliers: Outliers{
			Count:      len(outliers),
			Percentage: float64(len(outliers)) / float64(len(values)) * 100,
			Values:     head(outliers, outlierPreviewCap),
		},
		ExtremeEvents: ExtremeEvents{
			HighCount:  len(highs),
			LowCount:   len(lows),
			HighValues: head(highs, extremePreviewCap),
			LowValues:  head(lows, extremePreviewCap),
		},
	}
}

func (a *Analyzer) variability(readings []domain.Reading, m Metric) Variability {
	values := metricValues(readings, m)

	cv := 0.0
	if mn := mean(values); mn != 0 {
		cv = popStd(values) / mn
	}
	level := VariabilityLow
	switch {
	case cv > 0.3:
		level = VariabilityHigh
	case cv > 0.1:
		level = VariabilityModerate
	}

	return Variability{
		CoefficientOfVariation: cv,
		Level:                  level,
		Hourly:                 hourlyPattern(readings, m),
		Daily:                  dailyPattern(readings, m),
	}
}

func hourlyPattern(readings []domain.Reading, m Metric) HourlyPattern {
	buckets := map[int][]float64{}
	for _, r := range readings {
		if v, ok := metricValue(r, m); ok {
			h := r.Timestamp.UTC().Hour()
			buckets[h] = append(buckets[h], v)
		}
	}

	p := HourlyPattern{MaxVariabilityHour: -1, MinVariabilityHour: -1}
	for h := 0; h < 24; h++ {
		vals, ok := buckets[h]
		if !ok {
			continue
		}
		std := popStd(vals)
		if p.MaxVariabilityHour == -1 || std > p.MaxStd {
			p.MaxVariabilityHour, p.MaxStd = h, std
		}
		if p.MinVariabilityHour == -1 || std < p.MinStd {
			p.MinVariabilityHour, p.MinStd = h, std
		}
	}
	return p
}

func dailyPattern(readings []domain.Reading, m Metric) DailyPattern {
	type dayRange struct{ min, max float64 }
	buckets := map[string]*dayRange{}
	var days []string
	for _, r := range readings {
		v, ok := metricValue(r, m)
		if !ok {
			continue
		}
		day := r.Timestamp.UTC().Format("2006-01-02")
		b, seen := buckets[day]
		if !seen {
			buckets[day] = &dayRange{min: v, max: v}
			days = append(days, day)
			continue
		}
		if v < b.min {
			b.min = v
		}
		if v > b.max {
			b.max = v
		}
	}

	var p DailyPattern
	var sum float64
	for _, day := range days {
		rng := buckets[day].max - buckets[day].min
		sum += rng
		if p.MaxRangeDay == "" || rng > p.MaxDailyRange {
			p.MaxRangeDay, p.MaxDailyRange = day, rng
		}
	}
	if len(days) > 0 {
		p.AvgDailyRange = sum / float64(len(days))
	}
	return p
}

func (a *Analyzer) agricultural(readings []domain.Reading) Agricultural {
	temps := metricValues(readings, MetricTemperature)
	hums := metricValues(readings, MetricHumidity)
	if len(temps) == 0 || len(hums) == 0 {
		return Agricultural{InsufficientData: true}
	}

	avgTemp := mean(temps)
	avgHum := mean(hums)

	matches := a.catalog.SuitableCrops(avgTemp, avgHum)
	if len(matches) > topCropCount {
		matches = matches[:topCropCount]
	}

	conditions := make(map[string]CropCondition, len(matches))
	for _, match := range matches {
		tempPct := pctInRange(temps, match.Profile.Temperature)
		humPct := pctInRange(hums, match.Profile.Humidity)
		conditions[match.Profile.Name] = CropCondition{
			Suitability:        match.Suitability,
			TempOptimalPct:     tempPct,
			HumidityOptimalPct: humPct,
			OverallOptimalPct:  (tempPct + humPct) / 2,
			Practices:          match.Profile.RegenerativePractices,
		}
	}

	return Agricultural{
		AvgTemperature: avgTemp,
		AvgHumidity:    avgHum,
		SuitableCrops:  matches,
		CropConditions: conditions,
		Assessment:     assessConditions(avgTemp, avgHum),
	}
}

func pctInRange(values []float64, r knowledge.Range) float64 {
	if len(values) == 0 {
		return 0
	}
	var in int
	for _, v := range values {
		if r.Contains(v) {
			in++
		}
	}
	return float64(in) / float64(len(values)) * 100
}

func assessConditions(avgTemp, avgHumidity float64) string {
	switch {
	case avgTemp < 15 || avgTemp > 40:
		return AssessmentUnfavorable
	case avgHumidity < 40 || avgHumidity > 95:
		return AssessmentUnfavorable
	case avgTemp >= 20 && avgTemp <= 35 && avgHumidity >= 60 && avgHumidity <= 85:
		return AssessmentExcellent
	default:
		return AssessmentAcceptable
	}
}

func (a *Analyzer) seasonal(readings []domain.Reading) Seasonal {
	seasonOrder := []timeparse.Season{
		timeparse.SeasonDry, timeparse.SeasonRainOnset,
		timeparse.SeasonRainy, timeparse.SeasonTransition,
	}

	s := Seasonal{
		Stats:      make(map[Metric][]SeasonStats),
		Comparison: make(map[Metric]map[timeparse.Season]SeasonComparison),
	}
	baseline := a.catalog.Baseline()

	for _, m := range metrics {
		buckets := map[timeparse.Season][]float64{}
		for _, r := range readings {
			if v, ok := metricValue(r, m); ok {
				season := timeparse.SeasonForMonth(r.Timestamp.UTC().Month())
				buckets[season] = append(buckets[season], v)
			}
		}

		for _, season := range seasonOrder {
			vals, ok := buckets[season]
			if !ok {
				continue
			}
			stats := basicStats(vals)
			s.Stats[m] = append(s.Stats[m], SeasonStats{
				Season: season,
				Mean:   stats.Mean,
				Std:    stats.Std,
				Min:    stats.Min,
				Max:    stats.Max,
				Count:  stats.Count,
			})

			ref, ok := baseline[season]
			if !ok {
				continue
			}
			expected := ref.Temperature.Mean
			if m == MetricHumidity {
				expected = ref.Humidity.Mean
			}
			dev := stats.Mean - expected
			status := StatusNormal
			switch {
			case dev > 0:
				status = StatusAboveNormal
			case dev < 0:
				status = StatusBelowNormal
			}
			if s.Comparison[m] == nil {
				s.Comparison[m] = make(map[timeparse.Season]SeasonComparison)
			}
			s.Comparison[m][season] = SeasonComparison{
				ActualMean:       stats.Mean,
				ExpectedMean:     expected,
				Deviation:        dev,
				DeviationPercent: dev / expected * 100,
				Status:           status,
			}
		}
	}
	return s
}

func dataQuality(readings []domain.Reading) DataQuality {
	total := len(readings)
	if total == 0 {
		return DataQuality{Quality: QualityPoor, Issues: []string{"No hay datos"}}
	}

	var issues []string
	var missing, outOfRange struct{ temp, hum int }
	for _, r := range readings {
		if r.Temperature == nil {
			missing.temp++
		} else if *r.Temperature < -10 || *r.Temperature > 50 {
			outOfRange.temp++
		}
		if r.Humidity == nil {
			missing.hum++
		} else if *r.Humidity < 0 || *r.Humidity > 100 {
			outOfRange.hum++
		}
	}

	if pct := float64(missing.temp) / float64(total) * 100; pct > 20 {
		issues = append(issues, fmt.Sprintf("Muchos valores faltantes en temperature: %.1f%%", pct))
	}
	if pct := float64(missing.hum) / float64(total) * 100; pct > 20 {
		issues = append(issues, fmt.Sprintf("Muchos valores faltantes en humidity: %.1f%%", pct))
	}
	if outOfRange.temp > 0 {
		issues = append(issues, fmt.Sprintf("Valores de temperatura fuera de rango: %d registros", outOfRange.temp))
	}
	if outOfRange.hum > 0 {
		issues = append(issues, fmt.Sprintf("Valores de humedad fuera de rango: %d registros", outOfRange.hum))
	}

	quality := QualityPoor
	switch {
	case len(issues) == 0:
		quality = QualityExcellent
	case len(issues) <= 2:
		quality = QualityGood
	case len(issues) <= 4:
		quality = QualityFair
	}

	cells := total * len(metrics)
	filled := cells - missing.temp - missing.hum
	return DataQuality{
		Quality:      quality,
		TotalRecords: total,
		Issues:       issues,
		Completeness: float64(filled) / float64(cells) * 100,
	}
}

func head(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[:n]
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
