package analysis

import (
	"time"

	"github.com/claude/recovery/internal/models"
	"github.com/claude/recovery/internal/recommend"
	"github.com/claude/recovery/internal/recovery"
)

// Catalog is what a report needs from the exercise catalog.
type Catalog interface {
	recommend.Catalog
	Lookup
}

// Modifiers are the recovery multipliers applied to fatigue decay, with the
// inputs that produced them.
type Modifiers struct {
	Sleep        float64            `json:"sleep"`
	Readiness    float64            `json:"readiness"`
	HRVZScore    *float64           `json:"hrv_z_score,omitempty"`
	TodayRHR     *float64           `json:"today_rhr,omitempty"`
	YesterdayRHR *float64           `json:"yesterday_rhr,omitempty"`
	RHRDelta     *float64           `json:"rhr_delta,omitempty"`
	SleepNight   *models.SleepNight `json:"sleep_night,omitempty"`
}

// Report is one full analysis at a reference instant.
type Report struct {
	Reference      time.Time                     `json:"reference"`
	Timezone       string                        `json:"timezone"`
	Modifiers      Modifiers                     `json:"modifiers"`
	Fatigue        []models.CompoundFatigueScore `json:"fatigue"`
	Condition      *models.ConditionScore        `json:"condition"`
	Baseline       models.BaselineStatus         `json:"baseline"`
	Recommendation models.WorkoutSuggestion      `json:"recommendation"`
	Unresolved     []string                      `json:"unresolved,omitempty"`
}

// FatigueFor returns the scores for the given muscles in the requested order.
// An empty list returns every muscle.
func (r Report) FatigueFor(muscles []models.MuscleGroup) []models.CompoundFatigueScore {
	if len(muscles) == 0 {
		return r.Fatigue
	}
	byMuscle := make(map[models.MuscleGroup]models.CompoundFatigueScore, len(r.Fatigue))
	for _, f := range r.Fatigue {
		byMuscle[f.Muscle] = f
	}
	out := make([]models.CompoundFatigueScore, 0, len(muscles))
	for _, m := range muscles {
		if f, ok := byMuscle[m]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Build runs the whole engine over sig at ref. A nil location means UTC.
func Build(sig Signals, catalog Catalog, ref time.Time, loc *time.Location) Report {
	if loc == nil {
		loc = time.UTC
	}
	resolved := Resolve(sig, catalog)
	mods := ComputeModifiers(sig, ref, loc)

	fatigue := recovery.ComputeFatigue(recovery.FatigueInput{
		Muscles:           models.AllMuscleGroups,
		Records:           resolved.Records,
		SleepModifier:     mods.Sleep,
		ReadinessModifier: mods.Readiness,
		Reference:         ref,
	})

	condition, baseline := recovery.ComputeCondition(recovery.ConditionInput{
		HRV:          sig.HRV,
		TodayRHR:     mods.TodayRHR,
		YesterdayRHR: mods.YesterdayRHR,
		Reference:    ref,
		Location:     loc,
	})

	suggestion := recommend.NewEngine(catalog).Suggest(recommend.Input{
		History:   resolved.Records,
		Fatigue:   fatigue,
		Reference: ref,
		Location:  loc,
	})

	return Report{
		Reference:      ref,
		Timezone:       loc.String(),
		Modifiers:      mods,
		Fatigue:        fatigue,
		Condition:      condition,
		Baseline:       baseline,
		Recommendation: suggestion,
		Unresolved:     resolved.Unresolved,
	}
}

// ComputeModifiers derives the sleep and readiness modifiers at ref. The
// sleep night is the one that ended on the reference day, or the day before
// when today's is missing. The RHR delta compares today's daily average to
// yesterday's.
func ComputeModifiers(sig Signals, ref time.Time, loc *time.Location) Modifiers {
	if loc == nil {
		loc = time.UTC
	}
	var m Modifiers

	m.SleepNight = nightFor(sig.Sleep, ref, loc)
	if m.SleepNight != nil {
		m.Sleep = recovery.SleepModifier(recovery.SleepInputFromNight(*m.SleepNight))
	} else {
		m.Sleep = recovery.SleepModifier(nil)
	}

	if z, ok := recovery.HRVZScore(sig.HRV, ref, loc); ok {
		m.HRVZScore = &z
	}

	today := recovery.DayKey(ref, loc)
	yesterday := today.AddDate(0, 0, -1)
	for _, d := range recovery.DailyAverages(sig.RestingHR, ref, loc, 2) {
		v := d.Value
		switch {
		case d.Day.Equal(today):
			m.TodayRHR = &v
		case d.Day.Equal(yesterday):
			m.YesterdayRHR = &v
		}
	}
	if m.TodayRHR != nil && m.YesterdayRHR != nil {
		delta := *m.TodayRHR - *m.YesterdayRHR
		m.RHRDelta = &delta
	}

	m.Readiness = recovery.ReadinessModifier(m.HRVZScore, m.RHRDelta)
	return m
}

func nightFor(nights []models.SleepNight, ref time.Time, loc *time.Location) *models.SleepNight {
	today := recovery.DayKey(ref, loc)
	yesterday := today.AddDate(0, 0, -1)

	var todays, yesterdays *models.SleepNight
	for i := range nights {
		n := nights[i]
		day := calendarDay(n.Date, loc)
		switch {
		case day.Equal(today):
			if todays == nil || n.TotalSleep > todays.TotalSleep {
				todays = &n
			}
		case day.Equal(yesterday):
			if yesterdays == nil || n.TotalSleep > yesterdays.TotalSleep {
				yesterdays = &n
			}
		}
	}
	if todays != nil {
		return todays
	}
	return yesterdays
}

// calendarDay keeps the date as written. Sleep dates are stored as bare
// calendar dates and must not shift across the local zone.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
