package recovery

import (
	"math"
	"sort"
	"time"

	"github.com/claude/recovery/internal/models"
)

const (
	// LookbackDays bounds which records can still contribute fatigue.
	LookbackDays = 14

	// ReferenceBodyWeightKg normalizes strength volume. It is a fixed
	// constant, not the user's weight, so historical scores stay comparable.
	ReferenceBodyWeightKg = 70.0

	PrimaryEngagement   = 1.0
	SecondaryEngagement = 0.4

	minModifierProduct = 0.1
	minTauHours        = 1.0
	minDecayExponent   = -500.0
	loadPerSet         = 0.1
	floorLoad          = 0.05
)

// FatigueInput is everything the fatigue model needs for one computation.
// Modifiers outside their ranges are clamped; zero or non-finite modifiers
// count as neutral.
type FatigueInput struct {
	Muscles           []models.MuscleGroup
	Records           []models.ExerciseRecordSnapshot
	SleepModifier     float64
	ReadinessModifier float64
	Reference         time.Time
}

// ComputeFatigue scores every requested muscle, in request order.
func ComputeFatigue(in FatigueInput) []models.CompoundFatigueScore {
	scores := make([]models.CompoundFatigueScore, 0, len(in.Muscles))
	for _, m := range in.Muscles {
		scores = append(scores, MuscleFatigue(m, in.Records, in.SleepModifier, in.ReadinessModifier, in.Reference))
	}
	return scores
}

// MuscleFatigue computes the decayed, saturated fatigue of a single muscle.
func MuscleFatigue(muscle models.MuscleGroup, records []models.ExerciseRecordSnapshot, sleepMod, readinessMod float64, ref time.Time) models.CompoundFatigueScore {
	sleepMod = sanitizeModifier(sleepMod, SleepModifierMin, SleepModifierMax)
	readinessMod = sanitizeModifier(readinessMod, ReadinessModifierMin, ReadinessModifierMax)
	tau := EffectiveTau(muscle, sleepMod, readinessMod)
	windowStart := ref.AddDate(0, 0, -LookbackDays)

	contributions := []models.WorkoutContribution{}
	total := 0.0
	for _, r := range records {
		if r.Date.Before(windowStart) || r.Date.After(ref) {
			continue
		}
		engagement := Engagement(r, muscle)
		if engagement == 0 {
			continue
		}
		raw := SessionLoad(r) * engagement
		if !isFinite(raw) || raw <= 0 {
			continue
		}
		hours := math.Max(0, ref.Sub(r.Date).Hours())
		decayed := raw * DecayFactor(hours, tau)
		if !isFinite(decayed) {
			continue
		}
		total += decayed
		contributions = append(contributions, models.WorkoutContribution{
			Date:         r.Date,
			ExerciseName: r.ExerciseName,
			RawLoad:      raw,
			DecayedLoad:  decayed,
		})
	}

	sort.SliceStable(contributions, func(i, j int) bool {
		a, b := contributions[i], contributions[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.ExerciseName < b.ExerciseName
	})

	score := 0.0
	if total > 0 {
		score = math.Min(total/SaturationThreshold(muscle), 1.0)
	}
	level := models.LevelNoData
	if len(contributions) > 0 {
		level = LevelForScore(score)
	}

	return models.CompoundFatigueScore{
		Muscle:          muscle,
		NormalizedScore: score,
		Level:           level,
		Breakdown: models.FatigueBreakdown{
			Contributions:     contributions,
			BaseFatigue:       total,
			SleepModifier:     sleepMod,
			ReadinessModifier: readinessMod,
			TauHours:          tau,
		},
	}
}

// EffectiveTau is the decay time constant in hours. Good sleep and readiness
// shrink it; poor values stretch it.
func EffectiveTau(muscle models.MuscleGroup, sleepMod, readinessMod float64) float64 {
	sleepMod = sanitizeModifier(sleepMod, SleepModifierMin, SleepModifierMax)
	readinessMod = sanitizeModifier(readinessMod, ReadinessModifierMin, ReadinessModifierMax)
	product := math.Max(sleepMod*readinessMod, minModifierProduct)
	return math.Max(muscle.BaseRecoveryHours()*2/product, minTauHours)
}

// SaturationThreshold is the decayed load at which a muscle scores 1.0.
func SaturationThreshold(muscle models.MuscleGroup) float64 {
	switch muscle.Size() {
	case models.SizeLarge:
		return 15.0
	case models.SizeMedium:
		return 12.0
	default:
		return 10.0
	}
}

// Engagement is the share of a session's load attributed to the muscle.
func Engagement(r models.ExerciseRecordSnapshot, muscle models.MuscleGroup) float64 {
	switch {
	case r.IsPrimary(muscle):
		return PrimaryEngagement
	case r.IsSecondary(muscle):
		return SecondaryEngagement
	default:
		return 0
	}
}

// SessionLoad estimates a session's load before decay and engagement.
// Strength volume wins over cardio distance, which wins over cardio duration.
// Sessions with none of those fall back to set count, then to a small floor.
func SessionLoad(r models.ExerciseRecordSnapshot) float64 {
	if r.TotalWeightKg != nil && r.TotalReps != nil && *r.TotalWeightKg > 0 && *r.TotalReps > 0 {
		volume := *r.TotalWeightKg * float64(*r.TotalReps) / ReferenceBodyWeightKg
		if load := volume / 100.0; isFinite(load) {
			return load
		}
	}

	if r.DurationMinutes != nil && *r.DurationMinutes > 0 {
		duration := *r.DurationMinutes
		if r.DistanceKm != nil && *r.DistanceKm > 0 {
			load := *r.DistanceKm * math.Sqrt(math.Max(duration/60, 0.01)) / 10.0
			if isFinite(load) {
				return load
			}
		}
		if load := duration / 60.0; isFinite(load) {
			return load
		}
	}

	if r.CompletedSets > 0 {
		return float64(r.CompletedSets) * loadPerSet
	}
	return floorLoad
}

// DecayFactor is exp(-hours/tau), flushed to zero for very old sessions.
func DecayFactor(hoursSince, tau float64) float64 {
	if !isFinite(tau) || tau <= 0 || !isFinite(hoursSince) {
		return 0
	}
	exponent := -math.Max(0, hoursSince) / tau
	if exponent < minDecayExponent {
		return 0
	}
	return math.Exp(exponent)
}
