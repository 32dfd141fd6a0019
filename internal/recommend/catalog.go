// Package recommend turns training history and fatigue into a suggested
// next workout, or a rest day when nothing is recovered.
package recommend

import "github.com/claude/recovery/internal/models"

// Catalog is the exercise catalog the engine queries. Implementations must
// be safe for concurrent reads.
type Catalog interface {
	ExercisesForMuscle(muscle models.MuscleGroup) []models.ExerciseDefinition
	AllExercises() []models.ExerciseDefinition
}

// selectable reports whether a catalog exercise can fill a focus slot.
func selectable(ex models.ExerciseDefinition) bool {
	return ex.Category == models.CategoryStrength || ex.Category == models.CategoryBodyweight
}

// compoundFiller reports whether ex qualifies as a compound fill-in.
func compoundFiller(ex models.ExerciseDefinition) bool {
	return ex.Category == models.CategoryStrength && ex.IsCompound()
}
