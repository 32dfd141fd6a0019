package models

import (
	"time"

	"github.com/google/uuid"
)

// Metric names stored in health_metrics. They match Health Auto Export.
const (
	MetricHRV              = "heart_rate_variability"
	MetricRestingHeartRate = "resting_heart_rate"
)

// HealthMetricRow is a row ready for insertion into the health_metrics table.
type HealthMetricRow struct {
	Time       time.Time
	UserID     int
	MetricName string
	Source     string
	Units      string
	Qty        *float64
	MinVal     *float64
	AvgVal     *float64
	MaxVal     *float64
}

// Value is Qty when present, otherwise the average of an aggregated point.
func (r HealthMetricRow) Value() (float64, bool) {
	switch {
	case r.Qty != nil:
		return *r.Qty, true
	case r.AvgVal != nil:
		return *r.AvgVal, true
	}
	return 0, false
}

// SleepSessionRow is a row for the sleep_sessions table. Durations are hours.
type SleepSessionRow struct {
	UserID     int
	Date       time.Time
	TotalSleep float64
	Core       float64
	Deep       float64
	REM        float64
	InBed      float64
	SleepStart time.Time
	SleepEnd   time.Time
	Source     string
}

// Night converts the row to the engine's sleep aggregate.
func (r SleepSessionRow) Night() SleepNight {
	return SleepNight{Date: r.Date, TotalSleep: r.TotalSleep, Core: r.Core, Deep: r.Deep, REM: r.REM}
}

// WorkoutRow is a cardio workout for the workouts table.
type WorkoutRow struct {
	ID          uuid.UUID
	UserID      int
	Name        string
	StartTime   time.Time
	EndTime     time.Time
	DurationSec float64
	DistanceKm  *float64
	AvgHR       *float64
	Source      string
}

// Cardio converts the row to a cardio entry.
func (r WorkoutRow) Cardio() CardioEntry {
	return CardioEntry{
		Date:            r.StartTime,
		Activity:        r.Name,
		DistanceKm:      r.DistanceKm,
		DurationMinutes: r.DurationSec / 60,
	}
}

// WorkoutSetRow is a row for the workout_sets table.
type WorkoutSetRow struct {
	UserID           int
	SessionName      string
	SessionDate      time.Time
	SessionDuration  string
	ExerciseNumber   int
	ExerciseName     string
	Equipment        string
	TargetReps       int
	IsWarmup         bool
	SetNumber        int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	RIR              float64
}
