// Package fitfile reads cardio sessions from Garmin FIT activity files.
package fitfile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/claude/recovery/internal/ingest"
	"github.com/claude/recovery/internal/models"
	"github.com/google/uuid"
	"github.com/tormoder/fit"
)

const sourceName = "FIT"

// activityNames maps FIT sports onto the activity names cardio resolution
// understands.
var activityNames = map[fit.Sport]string{
	fit.SportRunning:          "running",
	fit.SportCycling:          "cycling",
	fit.SportSwimming:         "swimming",
	fit.SportRowing:           "rowing",
	fit.SportWalking:          "walking",
	fit.SportHiking:           "hiking",
	fit.SportFitnessEquipment: "elliptical",
}

// Decode reads the first session of a FIT activity as a workout row.
func Decode(r io.Reader) (models.WorkoutRow, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return models.WorkoutRow{}, fmt.Errorf("decode FIT file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return models.WorkoutRow{}, fmt.Errorf("activity FIT expected: %w", err)
	}
	if len(activity.Sessions) == 0 {
		return models.WorkoutRow{}, fmt.Errorf("activity file has no session message")
	}
	return rowFromSession(activity.Sessions[0])
}

func rowFromSession(s *fit.SessionMsg) (models.WorkoutRow, error) {
	start := validTimeOrZero(s.StartTime)
	if start.IsZero() {
		return models.WorkoutRow{}, fmt.Errorf("session has no start time")
	}

	seconds := safePositive(s.GetTotalTimerTimeScaled())
	if seconds == 0 {
		seconds = safePositive(s.GetTotalElapsedTimeScaled())
	}
	end := validTimeOrZero(s.Timestamp)
	if seconds == 0 && end.After(start) {
		seconds = end.Sub(start).Seconds()
	}
	if end.IsZero() {
		end = start.Add(time.Duration(seconds * float64(time.Second)))
	}

	name := ActivityName(s.Sport)
	row := models.WorkoutRow{
		ID:          uuid.NewSHA1(uuid.NameSpaceURL, []byte("fit:"+name+":"+start.UTC().Format(time.RFC3339))),
		Name:        name,
		StartTime:   start,
		EndTime:     end,
		DurationSec: seconds,
		Source:      sourceName,
	}
	if m := safePositive(s.GetTotalDistanceScaled()); m > 0 {
		km := m / 1000
		row.DistanceKm = &km
	}
	if s.AvgHeartRate != 0 && s.AvgHeartRate != math.MaxUint8 {
		hr := float64(s.AvgHeartRate)
		row.AvgHR = &hr
	}
	return row, nil
}

// ActivityName returns the cardio activity name for a FIT sport.
func ActivityName(sport fit.Sport) string {
	if name, ok := activityNames[sport]; ok {
		return name
	}
	return strings.ToLower(fmt.Sprint(sport))
}

// Store is where decoded workouts are written. storage.DB implements it.
type Store interface {
	InsertWorkout(ctx context.Context, row models.WorkoutRow) (bool, error)
}

// Provider imports FIT activity files.
type Provider struct {
	db  Store
	log *slog.Logger
}

// NewProvider creates a FIT ingest provider.
func NewProvider(db Store, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest decodes one activity file and stores it as a cardio workout.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	row, err := Decode(r)
	if err != nil {
		return nil, err
	}
	row.UserID = userID

	result := &ingest.Result{WorkoutsReceived: 1}
	inserted, err := p.db.InsertWorkout(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("inserting workout: %w", err)
	}
	if inserted {
		result.WorkoutsInserted = 1
	}
	p.log.Info("fit import", "activity", row.Name, "start", row.StartTime, "inserted", inserted)
	return result, nil
}

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

func safePositive(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
