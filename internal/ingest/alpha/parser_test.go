package alpha

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/claude/recovery/internal/models"
	"github.com/google/go-cmp/cmp"
)

const sampleCSV = `
"Upper · Day 1 · Week 2";"2026-03-10 18:05 h";"0:58 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 40 kg · 10 reps<br>WU2 · 60 kg · 6 reps"
#;KG;REPS;RIR
1;80;6;1
2;80;6;0,5
3;77,5;7;0
"2. Pull-Up · Bodyweight · 8 reps · 1 dropset"
#;KG;REPS;RIR
1;+10;8;1
2;+0;10;0

"Legs · Day 2 · Week 2";"2026-03-12 7:30 h";"1:05 hr"
"1. Back Squat · Barbell · 5 reps";"WU1 · 60 kg · 5 reps"
#;KG;REPS;RIR
1;120;5;2
2;120;5;1
"2. Calf Raise · Smith machine · 12 reps";"WU1 · 50 kg · 10 reps"
`

// TestParseSessions verifies sessions, exercises and sets are read in order.
func TestParseSessions(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV), nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	upper := sessions[0]
	if upper.Name != "Upper · Day 1 · Week 2" || upper.Duration != "0:58 hr" {
		t.Errorf("upper = %q / %q", upper.Name, upper.Duration)
	}
	if want := time.Date(2026, 3, 10, 18, 5, 0, 0, time.UTC); !upper.Date.Equal(want) {
		t.Errorf("upper date = %v, want %v", upper.Date, want)
	}

	tests := []struct {
		session, exercise int
		name, equipment   string
		target, sets      int
	}{
		{0, 0, "Bench Press", "Barbell", 6, 5},
		{0, 1, "Pull-Up", "Bodyweight", 8, 2},
		{1, 0, "Back Squat", "Barbell", 5, 3},
		{1, 1, "Calf Raise", "Smith machine", 12, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := sessions[tt.session].Exercises[tt.exercise]
			if ex.Name != tt.name || ex.Equipment != tt.equipment {
				t.Errorf("exercise = %q / %q", ex.Name, ex.Equipment)
			}
			if ex.TargetReps != tt.target {
				t.Errorf("target reps = %d, want %d", ex.TargetReps, tt.target)
			}
			if len(ex.Sets) != tt.sets {
				t.Errorf("sets = %d, want %d", len(ex.Sets), tt.sets)
			}
		})
	}

	bench := sessions[0].Exercises[0]
	if !bench.Sets[0].IsWarmup || bench.Sets[2].IsWarmup {
		t.Error("warm-ups should precede working sets")
	}
	if bench.Sets[3].RIR != 0.5 || bench.Sets[4].WeightKg != 77.5 {
		t.Errorf("working sets = %+v", bench.Sets[2:])
	}
	pullup := sessions[0].Exercises[1]
	if !pullup.Sets[0].IsBodyweightPlus || pullup.Sets[0].WeightKg != 10 {
		t.Errorf("pull-up set = %+v", pullup.Sets[0])
	}
}

// TestParseLocation verifies session times are read in the given zone.
func TestParseLocation(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	sessions, err := Parse(strings.NewReader(sampleCSV), cet)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if want := time.Date(2026, 3, 10, 17, 5, 0, 0, time.UTC); !sessions[0].Date.Equal(want) {
		t.Errorf("date = %v, want %v", sessions[0].Date.UTC(), want)
	}
}

// TestParseErrors verifies structural errors carry the line number.
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, input, want string
	}{
		{"exercise without session", `"1. Bench Press · Barbell · 6 reps"`, "line 1: exercise outside a session"},
		{"set without exercise", "\"Upper\";\"2026-03-10 18:05 h\";\"1:00 hr\"\n1;80;6;1", "line 2: set outside an exercise"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

// TestParseEmpty verifies empty input returns no sessions without error.
func TestParseEmpty(t *testing.T) {
	sessions, err := Parse(strings.NewReader(""), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(sessions))
	}
}

// TestParseWeight covers comma decimals and the bodyweight-plus notation.
func TestParseWeight(t *testing.T) {
	tests := []struct {
		in       string
		wantKg   float64
		wantPlus bool
	}{
		{"102,5", 102.5, false},
		{"80", 80, false},
		{"+35", 35, true},
		{"+0", 0, true},
		{" +12,5 ", 12.5, true},
		{"n/a", 0, false},
	}
	for _, tt := range tests {
		kg, plus := parseWeight(tt.in)
		if kg != tt.wantKg || plus != tt.wantPlus {
			t.Errorf("parseWeight(%q) = %v, %v; want %v, %v", tt.in, kg, plus, tt.wantKg, tt.wantPlus)
		}
	}
}

// TestWarmups verifies warm-up extraction from the exercise header.
func TestWarmups(t *testing.T) {
	sets := warmups("WU1 · 37,5 kg · 9 reps<br>WU2 · +0 kg · 7 reps<br>garbage")
	want := []Set{
		{Number: 1, WeightKg: 37.5, Reps: 9, IsWarmup: true},
		{Number: 2, WeightKg: 0, IsBodyweightPlus: true, Reps: 7, IsWarmup: true},
	}
	if diff := cmp.Diff(want, sets); diff != "" {
		t.Errorf("warmups mismatch (-want +got):\n%s", diff)
	}
	if warmups("") != nil {
		t.Error("empty warm-up field should give nil")
	}
}

// TestEntries verifies working sets fold into strength entries and
// warm-up-only exercises are dropped.
func TestEntries(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV), nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	got := Entries(sessions)
	if len(got) != 3 {
		t.Fatalf("entries = %d, want 3", len(got))
	}

	bench := got[0]
	if bench.ExerciseName != "Bench Press" || bench.Sets != 3 || bench.Reps != 19 {
		t.Errorf("bench = %+v", bench)
	}
	if diff := bench.WeightKg - 237.5/3; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("bench weight = %v, want %v", bench.WeightKg, 237.5/3)
	}
	if got[1].ExerciseName != "Pull-Up" || got[1].WeightKg != 5 || got[1].Reps != 18 {
		t.Errorf("pull-up = %+v", got[1])
	}
	if got[2].ExerciseName != "Back Squat" || !got[2].Date.Equal(sessions[1].Date) {
		t.Errorf("squat = %+v", got[2])
	}
}

type fakeStore struct {
	deleted []time.Time
	rows    []models.WorkoutSetRow
}

func (f *fakeStore) DeleteWorkoutSets(_ context.Context, sessionDate time.Time, _ int) error {
	f.deleted = append(f.deleted, sessionDate)
	return nil
}

func (f *fakeStore) InsertWorkoutSets(_ context.Context, rows []models.WorkoutSetRow) (int64, error) {
	f.rows = append(f.rows, rows...)
	return int64(len(rows)) - 1, nil
}

// TestProviderIngest verifies sessions are replaced and every set is stored.
func TestProviderIngest(t *testing.T) {
	store := &fakeStore{}
	utc := func() *time.Location { return time.UTC }
	p := NewProvider(store, utc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	res, err := p.Ingest(context.Background(), strings.NewReader(sampleCSV), 3)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(store.deleted) != 2 {
		t.Errorf("deleted sessions = %d, want 2", len(store.deleted))
	}
	if res.SetsReceived != 11 || res.SetsInserted != 10 {
		t.Errorf("result = %+v", res)
	}
	for _, r := range store.rows {
		if r.UserID != 3 {
			t.Fatalf("row user = %d, want 3", r.UserID)
		}
	}
}

// TestProviderFollowsZoneChanges verifies session times are read in the zone
// current at import time, not the one the provider was built with.
func TestProviderFollowsZoneChanges(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	zone := time.UTC
	store := &fakeStore{}
	p := NewProvider(store, func() *time.Location { return zone }, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, err := p.Ingest(context.Background(), strings.NewReader(sampleCSV), 1); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}
	zone = berlin
	if _, err := p.Ingest(context.Background(), strings.NewReader(sampleCSV), 1); err != nil {
		t.Fatalf("second Ingest: %v", err)
	}

	// 2026-03-10 18:05 local, once in UTC and once in CET (UTC+1).
	want := []time.Time{
		time.Date(2026, 3, 10, 18, 5, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 17, 5, 0, 0, time.UTC),
	}
	if len(store.deleted) != 4 {
		t.Fatalf("deleted sessions = %d, want 4", len(store.deleted))
	}
	for i, idx := range []int{0, 2} {
		if got := store.deleted[idx]; !got.Equal(want[i]) {
			t.Errorf("import %d session time = %v, want %v", i+1, got, want[i])
		}
	}
}
