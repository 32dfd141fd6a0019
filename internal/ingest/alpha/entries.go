package alpha

import "github.com/claude/recovery/internal/models"

// Entries folds each exercise's working sets into one strength entry: the
// working-set count, their average weight and total reps. Exercises with
// only warm-ups are dropped.
func Entries(sessions []Session) []models.StrengthEntry {
	var out []models.StrengthEntry
	for _, s := range sessions {
		for _, ex := range s.Exercises {
			var sets, reps int
			var weight float64
			for _, set := range ex.Sets {
				if set.IsWarmup {
					continue
				}
				sets++
				reps += set.Reps
				weight += set.WeightKg
			}
			if sets == 0 {
				continue
			}
			out = append(out, models.StrengthEntry{
				Date:         s.Date,
				ExerciseName: ex.Name,
				Sets:         sets,
				WeightKg:     weight / float64(sets),
				Reps:         reps,
			})
		}
	}
	return out
}

// Rows flattens sessions into workout_sets rows, warm-ups included.
func Rows(sessions []Session, userID int) []models.WorkoutSetRow {
	var rows []models.WorkoutSetRow
	for _, s := range sessions {
		for _, ex := range s.Exercises {
			for _, set := range ex.Sets {
				rows = append(rows, models.WorkoutSetRow{
					UserID:           userID,
					SessionName:      s.Name,
					SessionDate:      s.Date,
					SessionDuration:  s.Duration,
					ExerciseNumber:   ex.Number,
					ExerciseName:     ex.Name,
					Equipment:        ex.Equipment,
					TargetReps:       ex.TargetReps,
					IsWarmup:         set.IsWarmup,
					SetNumber:        set.Number,
					WeightKg:         set.WeightKg,
					IsBodyweightPlus: set.IsBodyweightPlus,
					Reps:             set.Reps,
					RIR:              set.RIR,
				})
			}
		}
	}
	return rows
}
