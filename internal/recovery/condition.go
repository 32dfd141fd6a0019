package recovery

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/claude/recovery/internal/models"
)

const (
	// ConditionWindowDays is the trailing window of calendar days used for
	// the HRV baseline, counting the reference day.
	ConditionWindowDays = 14

	minNormalRange = 0.05
	rhrDeltaBand   = 2.0
)

// ConditionInput carries the HRV history and optional RHR readings.
// Location defines calendar-day boundaries; nil means UTC.
type ConditionInput struct {
	HRV          []models.Sample
	TodayRHR     *float64
	YesterdayRHR *float64
	Reference    time.Time
	Location     *time.Location
}

// DailyAverage is the mean of one calendar day's samples.
type DailyAverage struct {
	Day   time.Time `json:"day"`
	Value float64   `json:"value"`
	Count int       `json:"count"`
}

// DayKey truncates t to local midnight in loc.
func DayKey(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// DailyAverages groups samples by local calendar day and averages each day,
// newest day first. Only the windowDays calendar days ending on the
// reference day are kept. Samples after ref, non-finite values and values
// that are not positive are dropped. Input order does not matter.
func DailyAverages(samples []models.Sample, ref time.Time, loc *time.Location, windowDays int) []DailyAverage {
	today := DayKey(ref, loc)
	first := today.AddDate(0, 0, -(windowDays - 1))

	type acc struct {
		day   time.Time
		sum   float64
		count int
	}
	byDay := map[string]*acc{}
	for _, s := range samples {
		if !isFinite(s.Value) || s.Value <= 0 || s.Time.After(ref) {
			continue
		}
		day := DayKey(s.Time, loc)
		if day.Before(first) {
			continue
		}
		key := day.Format(time.DateOnly)
		a, ok := byDay[key]
		if !ok {
			a = &acc{day: day}
			byDay[key] = a
		}
		a.sum += s.Value
		a.count++
	}

	days := make([]DailyAverage, 0, len(byDay))
	for _, a := range byDay {
		days = append(days, DailyAverage{Day: a.day, Value: a.sum / float64(a.count), Count: a.count})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day.After(days[j].Day) })
	return days
}

// hrvBaseline holds log-space statistics of the daily HRV averages.
type hrvBaseline struct {
	mean        float64
	normalRange float64
	today       float64
	z           float64
}

func computeBaseline(days []DailyAverage, today time.Time) (hrvBaseline, bool) {
	if len(days) < models.BaselineDaysRequired || !days[0].Day.Equal(today) {
		return hrvBaseline{}, false
	}

	logs := make([]float64, len(days))
	sum := 0.0
	for i, d := range days {
		logs[i] = math.Log(d.Value)
		sum += logs[i]
	}
	mean := sum / float64(len(logs))

	variance := 0.0
	for _, l := range logs {
		variance += (l - mean) * (l - mean)
	}
	variance /= float64(len(logs))

	b := hrvBaseline{
		mean:        mean,
		normalRange: math.Max(math.Sqrt(variance), minNormalRange),
		today:       days[0].Value,
	}
	b.z = (logs[0] - mean) / b.normalRange
	if !isFinite(b.z) {
		return hrvBaseline{}, false
	}
	return b, true
}

// HRVZScore returns today's log-space HRV z-score against the trailing
// baseline. ok is false when the baseline is not ready or today has no data.
func HRVZScore(samples []models.Sample, ref time.Time, loc *time.Location) (z float64, ok bool) {
	days := DailyAverages(samples, ref, loc, ConditionWindowDays)
	b, ok := computeBaseline(days, DayKey(ref, loc))
	if !ok {
		return 0, false
	}
	return b.z, true
}

// ComputeCondition produces today's condition score. The score is nil when
// fewer than BaselineDaysRequired days of HRV exist or today has no HRV.
func ComputeCondition(in ConditionInput) (*models.ConditionScore, models.BaselineStatus) {
	today := DayKey(in.Reference, in.Location)
	days := DailyAverages(in.HRV, in.Reference, in.Location, ConditionWindowDays)
	status := models.NewBaselineStatus(len(days))

	b, ok := computeBaseline(days, today)
	if !ok {
		return nil, status
	}

	raw := 50 + b.z*25
	factors := []models.ConditionFactor{{
		Name:   "HRV",
		Impact: hrvImpact(b.z),
		Detail: fmt.Sprintf("today %.0f ms vs baseline %.0f ms (z %.2f)", b.today, math.Exp(b.mean), b.z),
	}}

	todayRHR, yesterdayRHR := finite(in.TodayRHR), finite(in.YesterdayRHR)
	if todayRHR != nil && yesterdayRHR != nil {
		delta := *todayRHR - *yesterdayRHR
		impact := models.ImpactNeutral
		switch {
		case delta > rhrDeltaBand && b.z < 0:
			raw -= delta * 2
			impact = models.ImpactNegative
		case delta < -rhrDeltaBand && b.z > 0:
			raw += math.Abs(delta)
			impact = models.ImpactPositive
		}
		factors = append(factors, models.ConditionFactor{
			Name:   "RHR",
			Impact: impact,
			Detail: fmt.Sprintf("%+.0f bpm vs yesterday", delta),
		})
	}

	score := int(math.Round(clamp(raw, 0, 100)))
	return &models.ConditionScore{
		Score:   score,
		Status:  StatusForScore(score),
		Date:    today,
		Factors: factors,
	}, status
}

func hrvImpact(z float64) models.FactorImpact {
	switch {
	case z >= 0.5:
		return models.ImpactPositive
	case z <= -0.5:
		return models.ImpactNegative
	default:
		return models.ImpactNeutral
	}
}
