package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/claude/recovery/internal/ingest"
	"github.com/claude/recovery/internal/models"
)

// Store is the storage the provider writes to. storage.DB implements it.
type Store interface {
	DeleteWorkoutSets(ctx context.Context, sessionDate time.Time, userID int) error
	InsertWorkoutSets(ctx context.Context, rows []models.WorkoutSetRow) (int64, error)
}

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	db  Store
	loc func() *time.Location
	log *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider. Session times
// in the export are read in the zone loc returns at import time, so a zone
// change applies to the next upload.
func NewProvider(db Store, loc func() *time.Location, log *slog.Logger) *Provider {
	return &Provider{db: db, loc: loc, log: log}
}

// Ingest parses a CSV export and stores the workout set data. Sessions
// already stored are replaced so re-imports reflect the latest export.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	sessions, err := Parse(r, p.loc())
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	for _, s := range sessions {
		if err := p.db.DeleteWorkoutSets(ctx, s.Date, userID); err != nil {
			return nil, fmt.Errorf("deleting existing sets for session %s: %w", s.Date.Format(time.DateOnly), err)
		}
	}

	result := &ingest.Result{}
	rows := Rows(sessions, userID)
	result.SetsReceived = len(rows)
	if len(rows) > 0 {
		inserted, err := p.db.InsertWorkoutSets(ctx, rows)
		if err != nil {
			return nil, fmt.Errorf("inserting sets: %w", err)
		}
		result.SetsInserted = inserted
	}
	p.log.Info("alpha import", "sessions", len(sessions), "sets", result.SetsReceived, "inserted", result.SetsInserted)
	return result, nil
}
