package hae

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/claude/recovery/internal/analysis"
	"github.com/claude/recovery/internal/models"
	"github.com/google/uuid"
)

const (
	metricSleep = "sleep_analysis"
	sourceName  = "Health Auto Export"

	// Stage segments are keyed by their end time shifted by this much, so
	// stages ending late in the evening join the night ending next morning.
	nightRollover = 6 * time.Hour
)

// accepted lists the metrics the engine reads. Everything else is rejected.
var accepted = map[string]bool{
	models.MetricHRV:              true,
	models.MetricRestingHeartRate: true,
	metricSleep:                   true,
}

// Batch is a payload converted to storage rows.
type Batch struct {
	Metrics  []models.HealthMetricRow
	Sleep    []models.SleepSessionRow
	Workouts []models.WorkoutRow

	// Received counts metric and sleep points read from accepted metrics.
	Received int
	Rejected map[string]int
	// Skipped counts points that could not be decoded.
	Skipped int
}

// RejectedNames lists rejected metric names in sorted order.
func (b Batch) RejectedNames() []string {
	names := make([]string, 0, len(b.Rejected))
	for n := range b.Rejected {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Signals converts the batch to analysis input.
func (b Batch) Signals() analysis.Signals {
	var sig analysis.Signals
	for _, r := range b.Metrics {
		v, ok := r.Value()
		if !ok {
			continue
		}
		s := models.Sample{Time: r.Time, Value: v}
		switch r.MetricName {
		case models.MetricHRV:
			sig.HRV = append(sig.HRV, s)
		case models.MetricRestingHeartRate:
			sig.RestingHR = append(sig.RestingHR, s)
		}
	}
	for _, r := range b.Sleep {
		sig.Sleep = append(sig.Sleep, r.Night())
	}
	for _, w := range b.Workouts {
		sig.Cardio = append(sig.Cardio, w.Cardio())
	}
	sig.Sort()
	return sig
}

// Extract converts a payload straight to analysis input.
func Extract(p *Payload) analysis.Signals {
	return Convert(p, 0).Signals()
}

// Convert turns a payload into rows for userID.
func Convert(p *Payload, userID int) Batch {
	b := Batch{Rejected: map[string]int{}}
	for _, m := range p.Data.Metrics {
		if !accepted[m.Name] {
			b.Rejected[m.Name] += len(m.Data)
			continue
		}
		if m.Name == metricSleep {
			b.convertSleep(m, userID)
			continue
		}
		for _, raw := range m.Data {
			b.Received++
			row, err := convertMetricDataPoint(m.Name, m.Units, raw, userID)
			if err != nil {
				b.Skipped++
				continue
			}
			b.Metrics = append(b.Metrics, *row)
		}
	}
	for _, w := range p.Data.Workouts {
		b.Workouts = append(b.Workouts, convertWorkout(w, userID))
	}
	return b
}

// convertMetricDataPoint decodes one point according to the metric's shape.
func convertMetricDataPoint(name, units string, raw json.RawMessage, userID int) (*models.HealthMetricRow, error) {
	row := &models.HealthMetricRow{
		UserID:     userID,
		MetricName: name,
		Units:      units,
		Source:     sourceName,
	}

	switch DetectMetricShape(name) {
	case ShapeMinAvgMax:
		var dp MinAvgMaxPoint
		if err := json.Unmarshal(raw, &dp); err != nil {
			return nil, fmt.Errorf("parsing min/avg/max: %w", err)
		}
		row.Time = dp.Date.Time
		row.MinVal, row.AvgVal, row.MaxVal = &dp.Min, &dp.Avg, &dp.Max
		if dp.Source != "" {
			row.Source = dp.Source
		}
	default:
		var dp QtyPoint
		if err := json.Unmarshal(raw, &dp); err != nil {
			return nil, fmt.Errorf("parsing qty: %w", err)
		}
		row.Time = dp.Date.Time
		row.Qty = &dp.Qty
		if dp.Source != "" {
			row.Source = dp.Source
		}
	}
	if row.Time.IsZero() {
		return nil, fmt.Errorf("%s point without date", name)
	}
	return row, nil
}

func (b *Batch) convertSleep(m Metric, userID int) {
	nights := map[string]*models.SleepSessionRow{}
	var order []string

	for _, raw := range m.Data {
		b.Received++
		switch DetectSleepFormat(raw) {
		case SleepFormatAggregated:
			var dp SleepNight
			if err := json.Unmarshal(raw, &dp); err != nil {
				b.Skipped++
				continue
			}
			date, err := time.Parse(DateOnlyLayout, dp.Date)
			if err != nil {
				b.Skipped++
				continue
			}
			total := dp.TotalSleep
			if total == 0 {
				total = dp.Asleep + dp.Core + dp.Deep + dp.REM
			}
			b.Sleep = append(b.Sleep, models.SleepSessionRow{
				UserID:     userID,
				Date:       date,
				TotalSleep: total,
				Core:       dp.Core,
				Deep:       dp.Deep,
				REM:        dp.REM,
				InBed:      dp.InBed,
				SleepStart: dp.SleepStart.Time,
				SleepEnd:   dp.SleepEnd.Time,
				Source:     sourceName,
			})

		case SleepFormatUnaggregated:
			var seg SleepSegment
			if err := json.Unmarshal(raw, &seg); err != nil {
				b.Skipped++
				continue
			}
			stage, ok := NormalizeStage(seg.Value)
			if !ok || seg.EndDate.IsZero() {
				b.Skipped++
				continue
			}
			hours := seg.Qty
			if hours <= 0 {
				hours = seg.EndDate.Sub(seg.StartDate.Time).Hours()
			}
			end := seg.EndDate.Time.Add(nightRollover)
			key := end.Format(DateOnlyLayout)
			n, ok := nights[key]
			if !ok {
				n = &models.SleepSessionRow{
					UserID: userID,
					Date:   time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC),
					Source: sourceName,
				}
				nights[key] = n
				order = append(order, key)
			}
			addSegment(n, stage, hours, seg)
		}
	}

	sort.Strings(order)
	for _, key := range order {
		b.Sleep = append(b.Sleep, *nights[key])
	}
}

func addSegment(n *models.SleepSessionRow, stage Stage, hours float64, seg SleepSegment) {
	switch stage {
	case StageCore:
		n.Core += hours
	case StageDeep:
		n.Deep += hours
	case StageREM:
		n.REM += hours
	case StageInBed:
		n.InBed += hours
	}
	if !stage.Asleep() {
		return
	}
	n.TotalSleep += hours
	if n.SleepStart.IsZero() || seg.StartDate.Before(n.SleepStart) {
		n.SleepStart = seg.StartDate.Time
	}
	if seg.EndDate.After(n.SleepEnd) {
		n.SleepEnd = seg.EndDate.Time
	}
}

func convertWorkout(w Workout, userID int) models.WorkoutRow {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		// Stable id so re-sent workouts without one still deduplicate.
		id = uuid.NewSHA1(uuid.NameSpaceURL, []byte("hae:"+w.Name+":"+w.Start.Format(time.RFC3339)))
	}
	row := models.WorkoutRow{
		ID:          id,
		UserID:      userID,
		Name:        w.Name,
		StartTime:   w.Start.Time,
		EndTime:     w.End.Time,
		DurationSec: w.Duration,
		Source:      sourceName,
	}
	if row.DurationSec <= 0 && !w.End.IsZero() {
		row.DurationSec = w.End.Sub(w.Start.Time).Seconds()
	}
	if w.Distance != nil {
		if km, ok := kilometers(*w.Distance); ok {
			row.DistanceKm = &km
		}
	}
	switch {
	case w.HeartRate != nil:
		avg := w.HeartRate.Avg.Qty
		row.AvgHR = &avg
	case w.AvgHR != nil:
		avg := w.AvgHR.Qty
		row.AvgHR = &avg
	}
	return row
}

func kilometers(q Quantity) (float64, bool) {
	switch strings.ToLower(q.Units) {
	case "km", "":
		return q.Qty, true
	case "mi":
		return q.Qty * 1.609344, true
	case "m":
		return q.Qty / 1000, true
	case "yd":
		return q.Qty * 0.0009144, true
	}
	return 0, false
}
