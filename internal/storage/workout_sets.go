package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/recovery/internal/models"
)

// InsertWorkoutSets batch-inserts Alpha Progression set data. Returns count inserted.
func (db *DB) InsertWorkoutSets(ctx context.Context, rows []models.WorkoutSetRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO workout_sets (user_id, session_name, session_date, session_duration,
		exercise_number, exercise_name, equipment, target_reps, is_warmup, set_number,
		weight_kg, is_bodyweight_plus, reps, rir) VALUES `
	args := make([]any, 0, len(rows)*14)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 14
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
			base+8, base+9, base+10, base+11, base+12, base+13, base+14,
		))
		args = append(args, r.UserID, r.SessionName, r.SessionDate, r.SessionDuration,
			r.ExerciseNumber, r.ExerciseName, r.Equipment, r.TargetReps,
			r.IsWarmup, r.SetNumber, r.WeightKg, r.IsBodyweightPlus, r.Reps, r.RIR)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting workout sets: %w", err)
	}
	return tag.RowsAffected(), nil
}

// StrengthEntries folds working sets into one entry per exercise per session:
// set count, average working weight and total reps. Warm-up sets are ignored.
func (db *DB) StrengthEntries(ctx context.Context, start, end time.Time, userID int) ([]models.StrengthEntry, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT session_date, exercise_name, COUNT(*)::int, AVG(weight_kg), SUM(reps)::int
		 FROM workout_sets
		 WHERE session_date >= $1 AND session_date < $2 AND user_id = $3 AND NOT is_warmup
		 GROUP BY session_date, exercise_number, exercise_name
		 ORDER BY session_date ASC, exercise_number ASC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying strength entries: %w", err)
	}
	defer rows.Close()

	var result []models.StrengthEntry
	for rows.Next() {
		var e models.StrengthEntry
		if err := rows.Scan(&e.Date, &e.ExerciseName, &e.Sets, &e.WeightKg, &e.Reps); err != nil {
			return nil, fmt.Errorf("scanning strength entry: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// DeleteWorkoutSets removes every set of the session that started at sessionDate.
func (db *DB) DeleteWorkoutSets(ctx context.Context, sessionDate time.Time, userID int) error {
	if _, err := db.Pool.Exec(ctx,
		`DELETE FROM workout_sets WHERE session_date = $1 AND user_id = $2`,
		sessionDate, userID); err != nil {
		return fmt.Errorf("deleting workout sets: %w", err)
	}
	return nil
}
