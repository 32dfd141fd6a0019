package fitfile

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/claude/recovery/internal/models"
	"github.com/tormoder/fit"
)

var start = time.Date(2026, 2, 26, 7, 0, 0, 0, time.UTC)

func runSession() *fit.SessionMsg {
	s := fit.NewSessionMsg()
	s.StartTime = start
	s.Timestamp = start.Add(31 * time.Minute)
	s.Sport = fit.SportRunning
	s.TotalTimerTime = 30 * 60 * 1000 // ms
	s.TotalDistance = 5000 * 100      // cm
	s.AvgHeartRate = 152
	return s
}

func buildTestFIT(t *testing.T, sessions ...*fit.SessionMsg) []byte {
	t.Helper()

	header := fit.NewHeader(fit.V20, true)
	file, err := fit.NewFile(fit.FileTypeActivity, header)
	if err != nil {
		t.Fatalf("new fit file: %v", err)
	}
	activity, err := file.Activity()
	if err != nil {
		t.Fatalf("activity accessor: %v", err)
	}

	record := fit.NewRecordMsg()
	record.Timestamp = start.Add(30 * time.Second)
	record.HeartRate = 135
	activity.Records = append(activity.Records, record)
	activity.Sessions = append(activity.Sessions, sessions...)

	var buf bytes.Buffer
	if err := fit.Encode(&buf, file, binary.LittleEndian); err != nil {
		t.Fatalf("encode fit: %v", err)
	}
	return buf.Bytes()
}

// TestRowFromSession verifies the session summary fields become a workout.
func TestRowFromSession(t *testing.T) {
	row, err := rowFromSession(runSession())
	if err != nil {
		t.Fatalf("rowFromSession: %v", err)
	}
	if row.Name != "running" {
		t.Errorf("name = %q, want running", row.Name)
	}
	if row.DurationSec != 1800 {
		t.Errorf("duration = %v, want 1800", row.DurationSec)
	}
	if row.DistanceKm == nil || *row.DistanceKm != 5 {
		t.Errorf("distance = %v, want 5", row.DistanceKm)
	}
	if row.AvgHR == nil || *row.AvgHR != 152 {
		t.Errorf("avg hr = %v, want 152", row.AvgHR)
	}
	if !row.StartTime.Equal(start) || !row.EndTime.Equal(start.Add(31*time.Minute)) {
		t.Errorf("times = %v .. %v", row.StartTime, row.EndTime)
	}
	if row.Source != sourceName {
		t.Errorf("source = %q", row.Source)
	}

	again, _ := rowFromSession(runSession())
	if again.ID != row.ID {
		t.Errorf("id not stable: %s vs %s", row.ID, again.ID)
	}
}

// TestRowFromSessionFallbacks verifies missing timer and distance fields.
func TestRowFromSessionFallbacks(t *testing.T) {
	s := fit.NewSessionMsg()
	s.StartTime = start
	s.Timestamp = start.Add(20 * time.Minute)
	s.Sport = fit.SportCycling

	row, err := rowFromSession(s)
	if err != nil {
		t.Fatalf("rowFromSession: %v", err)
	}
	if row.DurationSec != 1200 {
		t.Errorf("duration = %v, want 1200 from timestamps", row.DurationSec)
	}
	if row.DistanceKm != nil || row.AvgHR != nil {
		t.Errorf("invalid fields should stay nil: %+v", row)
	}
}

// TestRowFromSessionNoStart verifies a session without a start time is refused.
func TestRowFromSessionNoStart(t *testing.T) {
	if _, err := rowFromSession(fit.NewSessionMsg()); err == nil {
		t.Fatal("expected error")
	}
}

// TestActivityName verifies FIT sports map onto cardio activity names.
func TestActivityName(t *testing.T) {
	tests := map[fit.Sport]string{
		fit.SportRunning:          "running",
		fit.SportCycling:          "cycling",
		fit.SportSwimming:         "swimming",
		fit.SportRowing:           "rowing",
		fit.SportHiking:           "hiking",
		fit.SportFitnessEquipment: "elliptical",
	}
	for sport, want := range tests {
		if got := ActivityName(sport); got != want {
			t.Errorf("ActivityName(%v) = %q, want %q", sport, got, want)
		}
	}
	if got := ActivityName(fit.SportTennis); got == "" || got != strings.ToLower(got) {
		t.Errorf("fallback name = %q, want lowercased sport", got)
	}
}

// TestDecode verifies an encoded activity decodes to its first session.
func TestDecode(t *testing.T) {
	row, err := Decode(bytes.NewReader(buildTestFIT(t, runSession())))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if row.Name != "running" || row.DurationSec != 1800 {
		t.Errorf("row = %+v", row)
	}
}

// TestDecodeErrors verifies garbage and session-less files are rejected.
func TestDecodeErrors(t *testing.T) {
	if _, err := Decode(strings.NewReader("not a fit file")); err == nil {
		t.Error("expected error for garbage input")
	}
	if _, err := Decode(bytes.NewReader(buildTestFIT(t))); err == nil {
		t.Error("expected error for activity without sessions")
	}
}

type fakeStore struct {
	rows []models.WorkoutRow
}

func (f *fakeStore) InsertWorkout(_ context.Context, row models.WorkoutRow) (bool, error) {
	for _, r := range f.rows {
		if r.ID == row.ID {
			return false, nil
		}
	}
	f.rows = append(f.rows, row)
	return true, nil
}

// TestProviderIngest verifies re-importing the same file is a no-op.
func TestProviderIngest(t *testing.T) {
	store := &fakeStore{}
	p := NewProvider(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	data := buildTestFIT(t, runSession())

	res, err := p.Ingest(context.Background(), bytes.NewReader(data), 4)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.WorkoutsReceived != 1 || res.WorkoutsInserted != 1 {
		t.Errorf("first import = %+v", res)
	}
	if store.rows[0].UserID != 4 {
		t.Errorf("user id = %d, want 4", store.rows[0].UserID)
	}

	res, err = p.Ingest(context.Background(), bytes.NewReader(data), 4)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.WorkoutsInserted != 0 {
		t.Errorf("second import inserted %d, want 0", res.WorkoutsInserted)
	}
}
