package catalog

import "github.com/claude/recovery/internal/models"

func ex(id, name string, cat models.ExerciseCategory, primary []models.MuscleGroup, secondary ...models.MuscleGroup) models.ExerciseDefinition {
	return models.ExerciseDefinition{ID: id, Name: name, Category: cat, PrimaryMuscles: primary, SecondaryMuscles: secondary}
}

func muscles(ms ...models.MuscleGroup) []models.MuscleGroup { return ms }

// Defaults returns the built-in exercise set. Names follow the spelling used
// by Alpha Progression exports so imported sets resolve without edits.
func Defaults() []models.ExerciseDefinition {
	const (
		strength   = models.CategoryStrength
		bodyweight = models.CategoryBodyweight
		cardio     = models.CategoryCardio
		mobility   = models.CategoryMobility
	)
	return []models.ExerciseDefinition{
		ex("bench-press", "Bench Press", strength, muscles(models.MuscleChest), models.MuscleTriceps, models.MuscleShoulders),
		ex("incline-dumbbell-press", "Incline Dumbbell Press", strength, muscles(models.MuscleChest), models.MuscleShoulders, models.MuscleTriceps),
		ex("dumbbell-fly", "Dumbbell Fly", strength, muscles(models.MuscleChest)),
		ex("cable-crossover", "Cable Crossover", strength, muscles(models.MuscleChest)),
		ex("push-up", "Push-Up", bodyweight, muscles(models.MuscleChest), models.MuscleTriceps, models.MuscleCore),
		ex("dip", "Dip", bodyweight, muscles(models.MuscleChest, models.MuscleTriceps), models.MuscleShoulders),

		ex("barbell-row", "Barbell Row", strength, muscles(models.MuscleBack, models.MuscleLats), models.MuscleBiceps),
		ex("seated-cable-row", "Seated Cable Row", strength, muscles(models.MuscleBack), models.MuscleBiceps),
		ex("lat-pulldown", "Lat Pulldown", strength, muscles(models.MuscleLats), models.MuscleBiceps),
		ex("pull-up", "Pull-Up", bodyweight, muscles(models.MuscleLats, models.MuscleBack), models.MuscleBiceps),
		ex("deadlift", "Deadlift", strength, muscles(models.MuscleHamstrings, models.MuscleGlutes, models.MuscleBack), models.MuscleForearms, models.MuscleTraps),

		ex("overhead-press", "Overhead Press", strength, muscles(models.MuscleShoulders), models.MuscleTriceps),
		ex("lateral-raise", "Lateral Raise", strength, muscles(models.MuscleShoulders)),
		ex("face-pull", "Face Pull", strength, muscles(models.MuscleShoulders), models.MuscleTraps),
		ex("shrug", "Shrug", strength, muscles(models.MuscleTraps), models.MuscleForearms),

		ex("barbell-curl", "Barbell Curl", strength, muscles(models.MuscleBiceps), models.MuscleForearms),
		ex("hammer-curl", "Hammer Curl", strength, muscles(models.MuscleBiceps, models.MuscleForearms)),
		ex("triceps-pushdown", "Triceps Pushdown", strength, muscles(models.MuscleTriceps)),
		ex("skull-crusher", "Skull Crusher", strength, muscles(models.MuscleTriceps)),
		ex("wrist-curl", "Wrist Curl", strength, muscles(models.MuscleForearms)),

		ex("back-squat", "Back Squat", strength, muscles(models.MuscleQuadriceps, models.MuscleGlutes), models.MuscleHamstrings, models.MuscleCore),
		ex("leg-press", "Leg Press", strength, muscles(models.MuscleQuadriceps), models.MuscleGlutes),
		ex("leg-extension", "Leg Extension", strength, muscles(models.MuscleQuadriceps)),
		ex("romanian-deadlift", "Romanian Deadlift", strength, muscles(models.MuscleHamstrings), models.MuscleGlutes, models.MuscleBack),
		ex("leg-curl", "Leg Curl", strength, muscles(models.MuscleHamstrings)),
		ex("hip-thrust", "Hip Thrust", strength, muscles(models.MuscleGlutes), models.MuscleHamstrings),
		ex("walking-lunge", "Walking Lunge", bodyweight, muscles(models.MuscleQuadriceps, models.MuscleGlutes)),
		ex("calf-raise", "Calf Raise", strength, muscles(models.MuscleCalves)),
		ex("plank", "Plank", bodyweight, muscles(models.MuscleCore)),
		ex("hanging-leg-raise", "Hanging Leg Raise", bodyweight, muscles(models.MuscleCore), models.MuscleForearms),

		ex("running", "Running", cardio, muscles(models.MuscleQuadriceps, models.MuscleCalves), models.MuscleHamstrings, models.MuscleGlutes),
		ex("cycling", "Cycling", cardio, muscles(models.MuscleQuadriceps), models.MuscleGlutes, models.MuscleCalves),
		ex("rowing", "Rowing", cardio, muscles(models.MuscleBack, models.MuscleQuadriceps), models.MuscleBiceps, models.MuscleCore),
		ex("swimming", "Swimming", cardio, muscles(models.MuscleShoulders, models.MuscleLats), models.MuscleCore),

		ex("hip-mobility", "Hip Mobility Flow", mobility, muscles(models.MuscleGlutes), models.MuscleHamstrings),
		ex("thoracic-rotation", "Thoracic Rotation", mobility, muscles(models.MuscleBack)),
	}
}
