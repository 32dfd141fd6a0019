package models

import "time"

// FatigueLevel is the 10-step fatigue category. Zero means no data.
type FatigueLevel int

const (
	LevelNoData FatigueLevel = 0
	LevelMin    FatigueLevel = 1
	LevelMax    FatigueLevel = 10
)

// Advisable reports whether training the muscle is advisable (levels 1 to 4).
func (l FatigueLevel) Advisable() bool {
	return l >= LevelMin && l <= 4
}

// NeedsActiveRest reports whether the muscle should get active rest (level 8+).
func (l FatigueLevel) NeedsActiveRest() bool {
	return l >= 8
}

// Label is a short human-readable description of the level.
func (l FatigueLevel) Label() string {
	switch {
	case l == LevelNoData:
		return "no data"
	case l <= 2:
		return "fresh"
	case l <= 4:
		return "light"
	case l <= 7:
		return "moderate"
	case l <= 9:
		return "high"
	default:
		return "overreached"
	}
}

// WorkoutContribution is one session's decayed contribution to a muscle.
type WorkoutContribution struct {
	Date         time.Time `json:"date"`
	ExerciseName string    `json:"exercise_name"`
	RawLoad      float64   `json:"raw_load"`
	DecayedLoad  float64   `json:"decayed_load"`
}

// FatigueBreakdown explains how a muscle's score was produced.
type FatigueBreakdown struct {
	Contributions     []WorkoutContribution `json:"contributions"`
	BaseFatigue       float64               `json:"base_fatigue"`
	SleepModifier     float64               `json:"sleep_modifier"`
	ReadinessModifier float64               `json:"readiness_modifier"`
	TauHours          float64               `json:"tau_hours"`
}

// CompoundFatigueScore is the per-muscle fatigue result.
type CompoundFatigueScore struct {
	Muscle          MuscleGroup      `json:"muscle"`
	NormalizedScore float64          `json:"normalized_score"`
	Level           FatigueLevel     `json:"level"`
	Breakdown       FatigueBreakdown `json:"breakdown"`
}
