package recovery

import (
	"math"
	"testing"
	"time"

	"github.com/claude/recovery/internal/models"
	"github.com/google/go-cmp/cmp"
)

var refTime = time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

func strengthRecord(name string, hoursAgo float64, weight float64, reps, sets int, primary, secondary []models.MuscleGroup) models.ExerciseRecordSnapshot {
	return models.ExerciseRecordSnapshot{
		ExerciseID:       name,
		ExerciseName:     name,
		Date:             refTime.Add(-time.Duration(hoursAgo * float64(time.Hour))),
		PrimaryMuscles:   primary,
		SecondaryMuscles: secondary,
		CompletedSets:    sets,
		TotalWeightKg:    ptr(weight),
		TotalReps:        ptr(reps),
	}
}

// TestChestSessionScenario walks one bench session 24h ago through the model:
// raw load 0.357, decay e^-0.25, saturation 12, level 1.
func TestChestSessionScenario(t *testing.T) {
	rec := strengthRecord("Bench Press", 24, 100, 25, 5, []models.MuscleGroup{models.MuscleChest}, nil)

	got := MuscleFatigue(models.MuscleChest, []models.ExerciseRecordSnapshot{rec}, 1.0, 1.0, refTime)

	wantRaw := 100.0 * 25 / 70 / 100
	wantDecayed := wantRaw * math.Exp(-0.25)
	if got.Breakdown.TauHours != 96 {
		t.Errorf("tau = %v, want 96", got.Breakdown.TauHours)
	}
	if len(got.Breakdown.Contributions) != 1 {
		t.Fatalf("contributions = %d, want 1", len(got.Breakdown.Contributions))
	}
	c := got.Breakdown.Contributions[0]
	if !almostEqual(c.RawLoad, wantRaw) {
		t.Errorf("raw load = %v, want %v", c.RawLoad, wantRaw)
	}
	if !almostEqual(c.DecayedLoad, wantDecayed) {
		t.Errorf("decayed load = %v, want %v", c.DecayedLoad, wantDecayed)
	}
	if !almostEqual(got.NormalizedScore, wantDecayed/12) {
		t.Errorf("score = %v, want %v", got.NormalizedScore, wantDecayed/12)
	}
	if math.Abs(got.NormalizedScore-0.0232) > 0.0005 {
		t.Errorf("score = %v, want about 0.0232", got.NormalizedScore)
	}
	if got.Level != 1 {
		t.Errorf("level = %d, want 1", got.Level)
	}
}

// TestDecayAtTau verifies the decay factor is e^-1 one time constant after a session.
func TestDecayAtTau(t *testing.T) {
	for _, m := range models.AllMuscleGroups {
		for _, mods := range [][2]float64{{1, 1}, {0.5, 0.6}, {1.25, 1.2}, {0.85, 1.05}} {
			tau := EffectiveTau(m, mods[0], mods[1])
			if got := DecayFactor(tau, tau); !almostEqual(got, math.Exp(-1)) {
				t.Errorf("%s %v: DecayFactor(tau) = %v, want %v", m, mods, got, math.Exp(-1))
			}
		}
	}
}

// TestDecayFactorUnderflow verifies very old sessions decay to exactly zero.
func TestDecayFactorUnderflow(t *testing.T) {
	if got := DecayFactor(501, 1); got != 0 {
		t.Errorf("DecayFactor(501, 1) = %v, want 0", got)
	}
	if got := DecayFactor(0, 10); got != 1 {
		t.Errorf("DecayFactor(0, 10) = %v, want 1", got)
	}
	if got := DecayFactor(10, 0); got != 0 {
		t.Errorf("DecayFactor with zero tau = %v, want 0", got)
	}
}

// TestEffectiveTau verifies base hours, modifier scaling, clamping and the 1h floor.
func TestEffectiveTau(t *testing.T) {
	tests := []struct {
		name      string
		muscle    models.MuscleGroup
		sleep     float64
		readiness float64
		want      float64
	}{
		{"large neutral", models.MuscleQuadriceps, 1, 1, 144},
		{"medium neutral", models.MuscleChest, 1, 1, 96},
		{"small neutral", models.MuscleBiceps, 1, 1, 72},
		{"fast recovery", models.MuscleChest, 1.25, 1.2, 64},
		{"slow recovery", models.MuscleChest, 0.5, 0.6, 320},
		{"out of range clamps", models.MuscleChest, 3, 3, 64},
		{"zero is neutral", models.MuscleChest, 0, 0, 96},
		{"nan is neutral", models.MuscleChest, math.NaN(), 1, 96},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveTau(tt.muscle, tt.sleep, tt.readiness); !almostEqual(got, tt.want) {
				t.Errorf("EffectiveTau = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestSessionLoadPriority verifies strength beats cardio distance, which beats
// duration, with set count and the floor as fallbacks.
func TestSessionLoadPriority(t *testing.T) {
	tests := []struct {
		name string
		rec  models.ExerciseRecordSnapshot
		want float64
	}{
		{
			"strength",
			models.ExerciseRecordSnapshot{TotalWeightKg: ptr(70.0), TotalReps: ptr(100), DistanceKm: ptr(5.0), DurationMinutes: ptr(30.0)},
			1.0,
		},
		{
			"cardio distance",
			models.ExerciseRecordSnapshot{DistanceKm: ptr(10.0), DurationMinutes: ptr(60.0), CompletedSets: 3},
			1.0,
		},
		{
			"cardio distance short duration floor",
			models.ExerciseRecordSnapshot{DistanceKm: ptr(1.0), DurationMinutes: ptr(0.06)},
			1.0 * math.Sqrt(0.01) / 10,
		},
		{
			"duration only",
			models.ExerciseRecordSnapshot{DurationMinutes: ptr(45.0)},
			0.75,
		},
		{
			"zero weight falls to sets",
			models.ExerciseRecordSnapshot{TotalWeightKg: ptr(0.0), TotalReps: ptr(10), CompletedSets: 4},
			0.4,
		},
		{
			"infinite weight falls to sets",
			models.ExerciseRecordSnapshot{TotalWeightKg: ptr(math.Inf(1)), TotalReps: ptr(10), CompletedSets: 2},
			0.2,
		},
		{
			"distance without duration falls to sets",
			models.ExerciseRecordSnapshot{DistanceKm: ptr(5.0), CompletedSets: 1},
			0.1,
		},
		{
			"floor",
			models.ExerciseRecordSnapshot{},
			0.05,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SessionLoad(tt.rec); !almostEqual(got, tt.want) {
				t.Errorf("SessionLoad = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestNoContributionsIsNoData verifies untouched muscles report level 0 and score 0.
func TestNoContributionsIsNoData(t *testing.T) {
	rec := strengthRecord("Curl", 5, 20, 30, 3, []models.MuscleGroup{models.MuscleBiceps}, nil)
	for _, m := range models.AllMuscleGroups {
		if m == models.MuscleBiceps {
			continue
		}
		got := MuscleFatigue(m, []models.ExerciseRecordSnapshot{rec}, 1, 1, refTime)
		if got.Level != models.LevelNoData || got.NormalizedScore != 0 {
			t.Errorf("%s: level=%d score=%v, want no data", m, got.Level, got.NormalizedScore)
		}
		if len(got.Breakdown.Contributions) != 0 {
			t.Errorf("%s: unexpected contributions %v", m, got.Breakdown.Contributions)
		}
	}
}

// TestSecondaryEngagement verifies secondary muscles receive 40% of the load.
func TestSecondaryEngagement(t *testing.T) {
	rec := strengthRecord("Bench Press", 0, 100, 25, 5,
		[]models.MuscleGroup{models.MuscleChest}, []models.MuscleGroup{models.MuscleTriceps})

	chest := MuscleFatigue(models.MuscleChest, []models.ExerciseRecordSnapshot{rec}, 1, 1, refTime)
	triceps := MuscleFatigue(models.MuscleTriceps, []models.ExerciseRecordSnapshot{rec}, 1, 1, refTime)

	if !almostEqual(triceps.Breakdown.BaseFatigue, chest.Breakdown.BaseFatigue*0.4) {
		t.Errorf("triceps base = %v, want %v", triceps.Breakdown.BaseFatigue, chest.Breakdown.BaseFatigue*0.4)
	}
}

// TestLookbackWindow verifies records older than 14 days or after the
// reference instant do not contribute.
func TestLookbackWindow(t *testing.T) {
	chest := []models.MuscleGroup{models.MuscleChest}
	records := []models.ExerciseRecordSnapshot{
		strengthRecord("old", 14*24+1, 100, 25, 5, chest, nil),
		strengthRecord("future", -2, 100, 25, 5, chest, nil),
		strengthRecord("inside", 13*24, 100, 25, 5, chest, nil),
	}
	got := MuscleFatigue(models.MuscleChest, records, 1, 1, refTime)
	if len(got.Breakdown.Contributions) != 1 || got.Breakdown.Contributions[0].ExerciseName != "inside" {
		t.Errorf("contributions = %+v, want only the in-window record", got.Breakdown.Contributions)
	}
}

// TestContributionsNewestFirst verifies ordering regardless of input order.
func TestContributionsNewestFirst(t *testing.T) {
	back := []models.MuscleGroup{models.MuscleBack}
	records := []models.ExerciseRecordSnapshot{
		strengthRecord("Row", 72, 60, 30, 3, back, nil),
		strengthRecord("Deadlift", 2, 140, 15, 3, back, nil),
		strengthRecord("Pullover", 30, 30, 36, 3, back, nil),
	}
	got := MuscleFatigue(models.MuscleBack, records, 1, 1, refTime)

	var names []string
	for _, c := range got.Breakdown.Contributions {
		names = append(names, c.ExerciseName)
	}
	want := []string{"Deadlift", "Pullover", "Row"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

// TestSaturationCapsScore verifies heavy recent load caps the score at 1.0 and level 10.
func TestSaturationCapsScore(t *testing.T) {
	calves := []models.MuscleGroup{models.MuscleCalves}
	var records []models.ExerciseRecordSnapshot
	for i := 0; i < 10; i++ {
		records = append(records, strengthRecord("Calf Raise", float64(i), 200, 100, 5, calves, nil))
	}
	got := MuscleFatigue(models.MuscleCalves, records, 1, 1, refTime)
	if got.NormalizedScore != 1.0 {
		t.Errorf("score = %v, want 1.0", got.NormalizedScore)
	}
	if got.Level != 10 {
		t.Errorf("level = %d, want 10", got.Level)
	}
}

// TestComputeFatigueDeterministic verifies identical inputs produce identical output.
func TestComputeFatigueDeterministic(t *testing.T) {
	in := FatigueInput{
		Muscles: models.AllMuscleGroups,
		Records: []models.ExerciseRecordSnapshot{
			strengthRecord("Squat", 20, 120, 20, 4,
				[]models.MuscleGroup{models.MuscleQuadriceps, models.MuscleGlutes},
				[]models.MuscleGroup{models.MuscleHamstrings, models.MuscleCore}),
			{ExerciseName: "Run", Date: refTime.Add(-50 * time.Hour), PrimaryMuscles: []models.MuscleGroup{models.MuscleCalves}, DistanceKm: ptr(8.0), DurationMinutes: ptr(42.0)},
		},
		SleepModifier:     0.85,
		ReadinessModifier: 1.05,
		Reference:         refTime,
	}

	first := ComputeFatigue(in)
	second := ComputeFatigue(in)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("non-deterministic output (-first +second):\n%s", diff)
	}
	if len(first) != len(models.AllMuscleGroups) {
		t.Fatalf("scores = %d, want %d", len(first), len(models.AllMuscleGroups))
	}
	for i, s := range first {
		if s.Muscle != models.AllMuscleGroups[i] {
			t.Errorf("scores[%d].Muscle = %s, want %s", i, s.Muscle, models.AllMuscleGroups[i])
		}
	}
}

// TestBetterRecoveryLowersFatigue verifies higher modifiers shrink tau and
// therefore reduce the remaining fatigue.
func TestBetterRecoveryLowersFatigue(t *testing.T) {
	rec := strengthRecord("Squat", 36, 120, 20, 4, []models.MuscleGroup{models.MuscleQuadriceps}, nil)
	records := []models.ExerciseRecordSnapshot{rec}

	poor := MuscleFatigue(models.MuscleQuadriceps, records, 0.55, 0.7, refTime)
	good := MuscleFatigue(models.MuscleQuadriceps, records, 1.15, 1.15, refTime)
	if good.NormalizedScore >= poor.NormalizedScore {
		t.Errorf("good recovery score %v should be below poor recovery score %v", good.NormalizedScore, poor.NormalizedScore)
	}
}
