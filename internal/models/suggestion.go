package models

import "time"

// ExerciseCategory classifies catalog exercises.
type ExerciseCategory string

const (
	CategoryStrength   ExerciseCategory = "strength"
	CategoryBodyweight ExerciseCategory = "bodyweight"
	CategoryCardio     ExerciseCategory = "cardio"
	CategoryMobility   ExerciseCategory = "mobility"
)

// Valid reports whether c is a known category.
func (c ExerciseCategory) Valid() bool {
	switch c {
	case CategoryStrength, CategoryBodyweight, CategoryCardio, CategoryMobility:
		return true
	}
	return false
}

// ExerciseDefinition is a catalog entry.
type ExerciseDefinition struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Category         ExerciseCategory `json:"category"`
	PrimaryMuscles   []MuscleGroup    `json:"primary_muscles"`
	SecondaryMuscles []MuscleGroup    `json:"secondary_muscles,omitempty"`
}

// IsCompound reports whether the exercise trains several muscles at once.
func (e ExerciseDefinition) IsCompound() bool {
	return len(e.PrimaryMuscles) >= 2 || len(e.SecondaryMuscles) >= 1
}

// SuggestedExercise is one slot of a suggested workout.
type SuggestedExercise struct {
	Exercise     ExerciseDefinition   `json:"exercise"`
	Sets         int                  `json:"sets"`
	Reason       string               `json:"reason"`
	Alternatives []ExerciseDefinition `json:"alternatives,omitempty"`
}

// NextReadyMuscle is the muscle expected to recover soonest on a rest day.
type NextReadyMuscle struct {
	Muscle  MuscleGroup `json:"muscle"`
	ReadyAt time.Time   `json:"ready_at"`
}

// WorkoutSuggestion is either a ranked workout or a rest-day fallback.
type WorkoutSuggestion struct {
	Exercises      []SuggestedExercise `json:"exercises"`
	FocusMuscles   []MuscleGroup       `json:"focus_muscles,omitempty"`
	Reasoning      string              `json:"reasoning"`
	ActiveRecovery []string            `json:"active_recovery,omitempty"`
	NextReady      *NextReadyMuscle    `json:"next_ready,omitempty"`
}

// IsRestDay reports whether the suggestion is the rest-day fallback.
func (s WorkoutSuggestion) IsRestDay() bool {
	return len(s.Exercises) == 0 && len(s.FocusMuscles) == 0
}
