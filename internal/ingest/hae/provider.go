package hae

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/recovery/internal/ingest"
	"github.com/claude/recovery/internal/models"
)

// Store is the storage the provider writes to. storage.DB implements it.
type Store interface {
	InsertHealthMetrics(ctx context.Context, rows []models.HealthMetricRow) (int64, error)
	InsertSleepSession(ctx context.Context, row models.SleepSessionRow) error
	InsertWorkout(ctx context.Context, row models.WorkoutRow) (bool, error)
}

// Provider processes Health Auto Export REST API payloads.
type Provider struct {
	db  Store
	log *slog.Logger
}

// NewProvider creates a new HAE ingest provider.
func NewProvider(db Store, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest converts an HAE payload and stores the data the engine reads.
func (p *Provider) Ingest(ctx context.Context, payload *Payload, userID int) (*ingest.Result, error) {
	b := Convert(payload, userID)
	result := &ingest.Result{
		MetricsReceived:  b.Received,
		RejectedNames:    b.RejectedNames(),
		WorkoutsReceived: len(b.Workouts),
	}
	for _, n := range b.Rejected {
		result.MetricsRejected += n
	}
	if b.Skipped > 0 {
		p.log.Warn("skipped undecodable data points", "count", b.Skipped)
	}

	if len(b.Metrics) > 0 {
		inserted, err := p.db.InsertHealthMetrics(ctx, b.Metrics)
		if err != nil {
			return result, fmt.Errorf("inserting health metrics: %w", err)
		}
		result.MetricsInserted = inserted
		result.MetricsSkipped = int64(len(b.Metrics)) - inserted
	}

	for _, night := range b.Sleep {
		if err := p.db.InsertSleepSession(ctx, night); err != nil {
			return result, fmt.Errorf("inserting sleep for %s: %w", night.Date.Format(DateOnlyLayout), err)
		}
		result.SleepNightsInserted++
	}

	for _, w := range b.Workouts {
		inserted, err := p.db.InsertWorkout(ctx, w)
		if err != nil {
			return result, fmt.Errorf("inserting workout %s: %w", w.ID, err)
		}
		if inserted {
			result.WorkoutsInserted++
		}
	}

	if len(result.RejectedNames) > 0 {
		result.Message = fmt.Sprintf(
			"Some metrics were ignored because recovery analysis does not use them: %v. "+
				"Accepted metrics are stored.", result.RejectedNames)
	}
	p.log.Info("hae import",
		"metrics", result.MetricsInserted,
		"sleep_nights", result.SleepNightsInserted,
		"workouts", result.WorkoutsInserted,
		"rejected", result.MetricsRejected)
	return result, nil
}
