package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/recovery/internal/models"
	"github.com/claude/recovery/internal/recovery"
	"golang.org/x/sync/errgroup"
)

// Source provides the raw signals for one user. storage.DB implements it.
type Source interface {
	HRVSamples(ctx context.Context, start, end time.Time, userID int) ([]models.Sample, error)
	RestingHeartRate(ctx context.Context, start, end time.Time, userID int) ([]models.Sample, error)
	SleepNights(ctx context.Context, start, end time.Time, userID int) ([]models.SleepNight, error)
	StrengthEntries(ctx context.Context, start, end time.Time, userID int) ([]models.StrengthEntry, error)
	CardioEntries(ctx context.Context, start, end time.Time, userID int) ([]models.CardioEntry, error)
}

// historyWeeks covers the weekday pattern window of the recommender plus
// a margin for local-day rounding.
const historyWeeks = 9

// Service fetches signals from a Source and builds reports.
type Service struct {
	source Source
	userID int
	log    *slog.Logger

	mu      sync.RWMutex
	loc     *time.Location
	catalog Catalog
	now     func() time.Time
}

// NewService creates a Service. A nil location means UTC.
func NewService(source Source, catalog Catalog, userID int, loc *time.Location, log *slog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{source: source, catalog: catalog, userID: userID, log: log, loc: loc, now: time.Now}
}

// SetLocation swaps the time zone used for local day boundaries.
func (s *Service) SetLocation(loc *time.Location) {
	if loc == nil {
		return
	}
	s.mu.Lock()
	s.loc = loc
	s.mu.Unlock()
}

// SetCatalog swaps the exercise catalog used by later reports.
func (s *Service) SetCatalog(c Catalog) {
	if c == nil {
		return
	}
	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()
}

func (s *Service) currentCatalog() Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Location returns the current time zone.
func (s *Service) Location() *time.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loc
}

// Now is the service clock, in the configured zone.
func (s *Service) Now() time.Time {
	return s.now().In(s.Location())
}

// Signals fetches everything an analysis at ref looks at. The five queries
// run concurrently; the first error cancels the rest.
func (s *Service) Signals(ctx context.Context, ref time.Time) (Signals, error) {
	loc := s.Location()
	end := ref.Add(time.Second)
	physStart := recovery.DayKey(ref, loc).AddDate(0, 0, -recovery.ConditionWindowDays)
	historyStart := recovery.DayKey(ref, loc).AddDate(0, 0, -7*historyWeeks)

	var sig Signals
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.source.HRVSamples(gctx, physStart, end, s.userID)
		if err != nil {
			return fmt.Errorf("fetching HRV: %w", err)
		}
		sig.HRV = v
		return nil
	})
	g.Go(func() error {
		v, err := s.source.RestingHeartRate(gctx, physStart, end, s.userID)
		if err != nil {
			return fmt.Errorf("fetching resting heart rate: %w", err)
		}
		sig.RestingHR = v
		return nil
	})
	g.Go(func() error {
		v, err := s.source.SleepNights(gctx, physStart, end, s.userID)
		if err != nil {
			return fmt.Errorf("fetching sleep: %w", err)
		}
		sig.Sleep = v
		return nil
	})
	g.Go(func() error {
		v, err := s.source.StrengthEntries(gctx, historyStart, end, s.userID)
		if err != nil {
			return fmt.Errorf("fetching strength history: %w", err)
		}
		sig.Strength = v
		return nil
	})
	g.Go(func() error {
		v, err := s.source.CardioEntries(gctx, historyStart, end, s.userID)
		if err != nil {
			return fmt.Errorf("fetching cardio history: %w", err)
		}
		sig.Cardio = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return Signals{}, err
	}
	sig.Sort()
	return sig, nil
}

// Report fetches signals and builds the report at ref. A zero ref means now.
func (s *Service) Report(ctx context.Context, ref time.Time) (Report, error) {
	if ref.IsZero() {
		ref = s.Now()
	}
	sig, err := s.Signals(ctx, ref)
	if err != nil {
		return Report{}, err
	}
	started := time.Now()
	report := Build(sig, s.currentCatalog(), ref, s.Location())
	s.log.Debug("report built",
		"reference", ref.Format(time.RFC3339),
		"hrv_samples", len(sig.HRV),
		"strength_entries", len(sig.Strength),
		"cardio_entries", len(sig.Cardio),
		"unresolved", len(report.Unresolved),
		"duration", time.Since(started),
	)
	if len(report.Unresolved) > 0 {
		s.log.Info("unresolved exercises", "names", report.Unresolved)
	}
	return report, nil
}

// Analyze builds a report from caller-supplied signals without touching the Source.
func (s *Service) Analyze(sig Signals, ref time.Time) Report {
	if ref.IsZero() {
		ref = s.Now()
	}
	sig.Sort()
	return Build(sig, s.currentCatalog(), ref, s.Location())
}
