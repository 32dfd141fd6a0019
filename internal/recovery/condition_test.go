package recovery

import (
	"testing"
	"time"

	"github.com/claude/recovery/internal/models"
)

// hrvDays builds one 07:00 sample per day, values[0] being today.
func hrvDays(values ...float64) []models.Sample {
	today := time.Date(refTime.Year(), refTime.Month(), refTime.Day(), 7, 0, 0, 0, time.UTC)
	samples := make([]models.Sample, 0, len(values))
	for i, v := range values {
		samples = append(samples, models.Sample{Time: today.AddDate(0, 0, -i), Value: v})
	}
	return samples
}

// TestConditionSixDaysNotReady verifies no score is produced before the baseline fills.
func TestConditionSixDaysNotReady(t *testing.T) {
	score, status := ComputeCondition(ConditionInput{HRV: hrvDays(60, 60, 60, 60, 60, 60), Reference: refTime})
	if score != nil {
		t.Errorf("score = %+v, want nil", score)
	}
	if status.IsReady || status.DaysCollected != 6 || status.DaysRequired != 7 {
		t.Errorf("status = %+v, want 6/7 not ready", status)
	}
}

// TestConditionFlatBaseline verifies seven identical days floor the range and score 50.
func TestConditionFlatBaseline(t *testing.T) {
	score, status := ComputeCondition(ConditionInput{HRV: hrvDays(55, 55, 55, 55, 55, 55, 55), Reference: refTime})
	if !status.IsReady {
		t.Fatalf("status = %+v, want ready", status)
	}
	if score == nil {
		t.Fatal("expected a score")
	}
	if score.Score != 50 {
		t.Errorf("score = %d, want 50", score.Score)
	}
	if score.Status != models.StatusFair {
		t.Errorf("status = %q, want fair", score.Status)
	}
	if !score.Date.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v, want 2026-03-15", score.Date)
	}
	if len(score.Factors) != 1 || score.Factors[0].Name != "HRV" || score.Factors[0].Impact != models.ImpactNeutral {
		t.Errorf("factors = %+v, want a single neutral HRV factor", score.Factors)
	}
}

// TestConditionNoTodaySample verifies a ready baseline without today's HRV yields no score.
func TestConditionNoTodaySample(t *testing.T) {
	samples := hrvDays(60, 60, 60, 60, 60, 60, 60, 60)[1:]
	score, status := ComputeCondition(ConditionInput{HRV: samples, Reference: refTime})
	if score != nil {
		t.Errorf("score = %+v, want nil", score)
	}
	if !status.IsReady {
		t.Errorf("status = %+v, want ready", status)
	}
}

// TestConditionLowHRV verifies a low HRV day scores below 50 with a negative factor.
func TestConditionLowHRV(t *testing.T) {
	score, _ := ComputeCondition(ConditionInput{HRV: hrvDays(57, 60, 62, 58, 61, 59, 60), Reference: refTime})
	if score == nil {
		t.Fatal("expected a score")
	}
	// z is about -0.87 once the range floors at 0.05, so 50 - 21.9.
	if score.Score != 28 {
		t.Errorf("score = %d, want 28", score.Score)
	}
	if score.Status != models.StatusTired {
		t.Errorf("status = %q, want tired", score.Status)
	}
	if score.Factors[0].Impact != models.ImpactNegative {
		t.Errorf("HRV impact = %q, want negative", score.Factors[0].Impact)
	}
}

// TestConditionRHRCorrection verifies rising RHR deepens a low-HRV score and
// falling RHR lifts a high-HRV score.
func TestConditionRHRCorrection(t *testing.T) {
	low := hrvDays(57, 60, 62, 58, 61, 59, 60)
	high := hrvDays(63, 60, 62, 58, 61, 59, 60)

	tests := []struct {
		name      string
		hrv       []models.Sample
		today     float64
		yesterday float64
		shift     int
		impact    models.FactorImpact
	}{
		{"rising rhr on low hrv", low, 56, 52, -8, models.ImpactNegative},
		{"falling rhr on high hrv", high, 50, 54, 4, models.ImpactPositive},
		{"rising rhr on high hrv ignored", high, 56, 52, 0, models.ImpactNeutral},
		{"small change ignored", low, 53, 52, 0, models.ImpactNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, _ := ComputeCondition(ConditionInput{HRV: tt.hrv, Reference: refTime})
			got, _ := ComputeCondition(ConditionInput{
				HRV:          tt.hrv,
				TodayRHR:     ptr(tt.today),
				YesterdayRHR: ptr(tt.yesterday),
				Reference:    refTime,
			})
			if base == nil || got == nil {
				t.Fatal("expected scores")
			}
			if got.Score-base.Score != tt.shift {
				t.Errorf("score shift = %d, want %d (base %d, got %d)", got.Score-base.Score, tt.shift, base.Score, got.Score)
			}
			if len(got.Factors) != 2 || got.Factors[1].Name != "RHR" || got.Factors[1].Impact != tt.impact {
				t.Errorf("factors = %+v, want RHR impact %q", got.Factors, tt.impact)
			}
		})
	}
}

// TestConditionClamped verifies extreme days clamp to the 0..100 range.
func TestConditionClamped(t *testing.T) {
	high, _ := ComputeCondition(ConditionInput{HRV: hrvDays(200, 50, 50, 50, 50, 50, 50), Reference: refTime})
	if high == nil || high.Score > 100 || high.Score < 80 {
		t.Errorf("high = %+v, want within [80,100]", high)
	}
	low, _ := ComputeCondition(ConditionInput{HRV: hrvDays(10, 80, 80, 80, 80, 80, 80), Reference: refTime})
	if low == nil || low.Score != 0 || low.Status != models.StatusWarning {
		t.Errorf("low = %+v, want 0 warning", low)
	}
}

// TestDailyAveragesGroupsAndSorts verifies unsorted samples are grouped by local
// day, averaged and returned newest first, dropping invalid values.
func TestDailyAveragesGroupsAndSorts(t *testing.T) {
	samples := []models.Sample{
		{Time: time.Date(2026, 3, 13, 6, 0, 0, 0, time.UTC), Value: 40},
		{Time: time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC), Value: 50},
		{Time: time.Date(2026, 3, 13, 22, 0, 0, 0, time.UTC), Value: 60},
		{Time: time.Date(2026, 3, 15, 7, 0, 0, 0, time.UTC), Value: 70},
		{Time: time.Date(2026, 3, 14, 7, 0, 0, 0, time.UTC), Value: -5},
		{Time: time.Date(2026, 3, 15, 20, 0, 0, 0, time.UTC), Value: 90},
		{Time: time.Date(2026, 2, 1, 7, 0, 0, 0, time.UTC), Value: 90},
	}
	days := DailyAverages(samples, refTime, time.UTC, ConditionWindowDays)
	if len(days) != 2 {
		t.Fatalf("days = %+v, want 2", days)
	}
	if days[0].Value != 60 || days[0].Count != 2 {
		t.Errorf("today = %+v, want avg 60 over 2", days[0])
	}
	if days[1].Value != 50 || days[1].Day.Day() != 13 {
		t.Errorf("older = %+v, want 13th avg 50", days[1])
	}
}

// TestDayKeyUsesLocation verifies late-evening UTC samples land on the next
// local day east of UTC.
func TestDayKeyUsesLocation(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	ts := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)
	if got := DayKey(ts, cet); got.Day() != 15 {
		t.Errorf("DayKey in CET = %v, want the 15th", got)
	}
	if got := DayKey(ts, nil); got.Day() != 14 {
		t.Errorf("DayKey in UTC = %v, want the 14th", got)
	}
}

// TestHRVZScore verifies the exported z-score agrees with the condition score.
func TestHRVZScore(t *testing.T) {
	if _, ok := HRVZScore(hrvDays(60, 60, 60), refTime, time.UTC); ok {
		t.Error("expected no z-score with 3 days")
	}
	z, ok := HRVZScore(hrvDays(55, 55, 55, 55, 55, 55, 55), refTime, time.UTC)
	if !ok {
		t.Fatal("expected a z-score")
	}
	if z > 1e-9 || z < -1e-9 {
		t.Errorf("z = %v, want 0", z)
	}
}
