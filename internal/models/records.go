package models

import "time"

// ExerciseRecordSnapshot is one completed exercise within a workout, as
// handed to the engine. Strength fields and cardio fields are optional.
type ExerciseRecordSnapshot struct {
	ExerciseID       string        `json:"exercise_id"`
	ExerciseName     string        `json:"exercise_name"`
	Date             time.Time     `json:"date"`
	PrimaryMuscles   []MuscleGroup `json:"primary_muscles"`
	SecondaryMuscles []MuscleGroup `json:"secondary_muscles,omitempty"`
	CompletedSets    int           `json:"completed_sets"`
	TotalWeightKg    *float64      `json:"total_weight_kg,omitempty"`
	TotalReps        *int          `json:"total_reps,omitempty"`
	DistanceKm       *float64      `json:"distance_km,omitempty"`
	DurationMinutes  *float64      `json:"duration_minutes,omitempty"`
}

// IsPrimary reports whether m is a primary muscle of the record.
func (r ExerciseRecordSnapshot) IsPrimary(m MuscleGroup) bool {
	return containsMuscle(r.PrimaryMuscles, m)
}

// IsSecondary reports whether m is a secondary muscle of the record.
func (r ExerciseRecordSnapshot) IsSecondary(m MuscleGroup) bool {
	return containsMuscle(r.SecondaryMuscles, m)
}

func containsMuscle(list []MuscleGroup, m MuscleGroup) bool {
	for _, x := range list {
		if x == m {
			return true
		}
	}
	return false
}

// Sample is a single timestamped physiological reading (HRV in ms, RHR in bpm).
type Sample struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// SleepNight is one night's sleep aggregate. Date is the calendar day the
// sleep ended on. Durations are in hours, matching the sleep_sessions table.
type SleepNight struct {
	Date       time.Time `json:"date"`
	TotalSleep float64   `json:"total_sleep"`
	Core       float64   `json:"core"`
	Deep       float64   `json:"deep"`
	REM        float64   `json:"rem"`
}

// StrengthEntry is one exercise from a strength session before it is
// resolved against the exercise catalog.
type StrengthEntry struct {
	Date         time.Time `json:"date"`
	ExerciseName string    `json:"exercise_name"`
	Sets         int       `json:"sets"`
	WeightKg     float64   `json:"weight_kg"`
	Reps         int       `json:"reps"`
}

// CardioEntry is one cardio workout before it is mapped to muscles.
type CardioEntry struct {
	Date            time.Time `json:"date"`
	Activity        string    `json:"activity"`
	DistanceKm      *float64  `json:"distance_km,omitempty"`
	DurationMinutes float64   `json:"duration_minutes"`
}
