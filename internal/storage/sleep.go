package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/recovery/internal/models"
)

// InsertSleepSession upserts a sleep session (one per date per user). A later
// import for the same night replaces the earlier one.
func (db *DB) InsertSleepSession(ctx context.Context, row models.SleepSessionRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO sleep_sessions (user_id, date, total_sleep, core, deep, rem, in_bed, sleep_start, sleep_end, source)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 ON CONFLICT (user_id, date) DO UPDATE SET
		   total_sleep = EXCLUDED.total_sleep, core = EXCLUDED.core, deep = EXCLUDED.deep,
		   rem = EXCLUDED.rem, in_bed = EXCLUDED.in_bed, sleep_start = EXCLUDED.sleep_start,
		   sleep_end = EXCLUDED.sleep_end, source = EXCLUDED.source`,
		row.UserID, row.Date, row.TotalSleep, row.Core, row.Deep, row.REM,
		row.InBed, nullTime(row.SleepStart), nullTime(row.SleepEnd), row.Source)
	if err != nil {
		return fmt.Errorf("inserting sleep session: %w", err)
	}
	return nil
}

// SleepSessionResult is a stored sleep session with its row id.
type SleepSessionResult struct {
	models.SleepSessionRow
	ID int64
}

// QuerySleepSessions retrieves sleep sessions in a date range, newest first.
func (db *DB) QuerySleepSessions(ctx context.Context, start, end time.Time, userID int) ([]SleepSessionResult, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, date, total_sleep, core, deep, rem, in_bed,
		        sleep_start, sleep_end, source
		 FROM sleep_sessions
		 WHERE date >= $1::date AND date <= $2::date AND user_id = $3
		 ORDER BY date DESC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying sleep sessions: %w", err)
	}
	defer rows.Close()

	var result []SleepSessionResult
	for rows.Next() {
		var r SleepSessionResult
		var sleepStart, sleepEnd *time.Time
		if err := rows.Scan(&r.ID, &r.UserID, &r.Date, &r.TotalSleep,
			&r.Core, &r.Deep, &r.REM, &r.InBed, &sleepStart, &sleepEnd, &r.Source); err != nil {
			return nil, fmt.Errorf("scanning sleep session: %w", err)
		}
		if sleepStart != nil {
			r.SleepStart = *sleepStart
		}
		if sleepEnd != nil {
			r.SleepEnd = *sleepEnd
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// SleepNights returns the nightly aggregates whose date falls in [start, end].
func (db *DB) SleepNights(ctx context.Context, start, end time.Time, userID int) ([]models.SleepNight, error) {
	sessions, err := db.QuerySleepSessions(ctx, start, end, userID)
	if err != nil {
		return nil, err
	}
	nights := make([]models.SleepNight, 0, len(sessions))
	for _, s := range sessions {
		nights = append(nights, s.Night())
	}
	return nights, nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
