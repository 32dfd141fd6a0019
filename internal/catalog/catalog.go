// Package catalog holds the exercise catalog used for name resolution and
// workout suggestions, either in memory or persisted in SQLite.
package catalog

import (
	"strings"

	"github.com/claude/recovery/internal/models"
)

// Static is an immutable in-memory catalog. It is safe for concurrent reads.
type Static struct {
	exercises []models.ExerciseDefinition
	byMuscle  map[models.MuscleGroup][]models.ExerciseDefinition
	byName    map[string]models.ExerciseDefinition
}

// NewStatic indexes defs. Later duplicates of a name replace earlier ones in
// name lookup but keep their catalog position.
func NewStatic(defs []models.ExerciseDefinition) *Static {
	c := &Static{
		exercises: make([]models.ExerciseDefinition, 0, len(defs)),
		byMuscle:  map[models.MuscleGroup][]models.ExerciseDefinition{},
		byName:    make(map[string]models.ExerciseDefinition, len(defs)),
	}
	for _, d := range defs {
		c.exercises = append(c.exercises, d)
		c.byName[normalizeName(d.Name)] = d
		for _, m := range d.PrimaryMuscles {
			c.byMuscle[m] = append(c.byMuscle[m], d)
		}
	}
	return c
}

// ExercisesForMuscle returns every exercise with muscle as a primary target.
func (c *Static) ExercisesForMuscle(muscle models.MuscleGroup) []models.ExerciseDefinition {
	return append([]models.ExerciseDefinition(nil), c.byMuscle[muscle]...)
}

// AllExercises returns the catalog in insertion order.
func (c *Static) AllExercises() []models.ExerciseDefinition {
	return append([]models.ExerciseDefinition(nil), c.exercises...)
}

// Lookup finds an exercise by name, ignoring case and surrounding spaces.
func (c *Static) Lookup(name string) (models.ExerciseDefinition, bool) {
	d, ok := c.byName[normalizeName(name)]
	return d, ok
}

// Len is the number of catalog entries.
func (c *Static) Len() int { return len(c.exercises) }

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
