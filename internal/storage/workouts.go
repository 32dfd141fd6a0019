package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/recovery/internal/models"
	"github.com/jackc/pgx/v5"
)

// InsertWorkout inserts a workout row. Returns true if inserted, false if duplicate.
func (db *DB) InsertWorkout(ctx context.Context, row models.WorkoutRow) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO workouts (id, user_id, name, start_time, end_time, duration_sec, distance_km, avg_hr, source)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT DO NOTHING`,
		row.ID, row.UserID, row.Name, row.StartTime, row.EndTime, row.DurationSec,
		row.DistanceKm, row.AvgHR, row.Source)
	if err != nil {
		return false, fmt.Errorf("inserting workout: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// QueryWorkouts retrieves workouts in a time range, newest first.
func (db *DB) QueryWorkouts(ctx context.Context, start, end time.Time, userID int) ([]models.WorkoutRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, start_time, end_time, duration_sec, distance_km, avg_hr, source
		 FROM workouts
		 WHERE start_time >= $1 AND start_time < $2 AND user_id = $3
		 ORDER BY start_time DESC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	return scanWorkoutRows(rows)
}

// CardioEntries returns workouts in [start, end) as cardio entries.
func (db *DB) CardioEntries(ctx context.Context, start, end time.Time, userID int) ([]models.CardioEntry, error) {
	workouts, err := db.QueryWorkouts(ctx, start, end, userID)
	if err != nil {
		return nil, err
	}
	entries := make([]models.CardioEntry, 0, len(workouts))
	for _, w := range workouts {
		entries = append(entries, w.Cardio())
	}
	return entries, nil
}

func scanWorkoutRows(rows pgx.Rows) ([]models.WorkoutRow, error) {
	var result []models.WorkoutRow
	for rows.Next() {
		var w models.WorkoutRow
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.StartTime, &w.EndTime, &w.DurationSec,
			&w.DistanceKm, &w.AvgHR, &w.Source); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}
