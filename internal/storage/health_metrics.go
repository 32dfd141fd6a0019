package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/recovery/internal/models"
	"github.com/jackc/pgx/v5"
)

// InsertHealthMetrics batch-inserts health metric rows. Returns the number actually inserted
// (skipped duplicates via ON CONFLICT DO NOTHING).
func (db *DB) InsertHealthMetrics(ctx context.Context, rows []models.HealthMetricRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO health_metrics (time, user_id, metric_name, source, units, qty, min_val, avg_val, max_val)
VALUES `
	args := make([]any, 0, len(rows)*9)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 9
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9,
		))
		args = append(args, r.Time, r.UserID, r.MetricName, r.Source, r.Units,
			r.Qty, r.MinVal, r.AvgVal, r.MaxVal)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting health metrics: %w", err)
	}
	return tag.RowsAffected(), nil
}

// QueryHealthMetrics retrieves health metrics by name and time range.
func (db *DB) QueryHealthMetrics(ctx context.Context, metricName string, start, end time.Time, userID int) ([]models.HealthMetricRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT time, user_id, metric_name, source, units, qty, min_val, avg_val, max_val
		 FROM health_metrics
		 WHERE metric_name = $1 AND time >= $2 AND time < $3 AND user_id = $4
		 ORDER BY time ASC`,
		metricName, start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying health metrics: %w", err)
	}
	defer rows.Close()

	return scanHealthMetricRows(rows)
}

// HRVSamples returns HRV readings (ms) in [start, end).
func (db *DB) HRVSamples(ctx context.Context, start, end time.Time, userID int) ([]models.Sample, error) {
	rows, err := db.QueryHealthMetrics(ctx, models.MetricHRV, start, end, userID)
	if err != nil {
		return nil, err
	}
	return samplesFromRows(rows), nil
}

// RestingHeartRate returns resting heart rate readings (bpm) in [start, end).
func (db *DB) RestingHeartRate(ctx context.Context, start, end time.Time, userID int) ([]models.Sample, error) {
	rows, err := db.QueryHealthMetrics(ctx, models.MetricRestingHeartRate, start, end, userID)
	if err != nil {
		return nil, err
	}
	return samplesFromRows(rows), nil
}

func samplesFromRows(rows []models.HealthMetricRow) []models.Sample {
	out := make([]models.Sample, 0, len(rows))
	for _, r := range rows {
		if v, ok := r.Value(); ok {
			out = append(out, models.Sample{Time: r.Time, Value: v})
		}
	}
	return out
}

func scanHealthMetricRows(rows pgx.Rows) ([]models.HealthMetricRow, error) {
	var result []models.HealthMetricRow
	for rows.Next() {
		var r models.HealthMetricRow
		if err := rows.Scan(&r.Time, &r.UserID, &r.MetricName, &r.Source, &r.Units,
			&r.Qty, &r.MinVal, &r.AvgVal, &r.MaxVal); err != nil {
			return nil, fmt.Errorf("scanning health metric row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
