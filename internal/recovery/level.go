// Package recovery holds the numerical core: sleep and readiness modifiers,
// the per-muscle fatigue model and the daily condition score. Every function
// is pure and safe for concurrent use; callers pass the reference instant.
package recovery

import (
	"math"

	"github.com/claude/recovery/internal/models"
)

// levelUpperBounds are the exclusive upper edges of levels 1 to 9.
// Anything at or above the last edge is level 10.
var levelUpperBounds = [...]float64{0.05, 0.15, 0.25, 0.35, 0.50, 0.65, 0.75, 0.85, 0.95}

// LevelForScore maps a normalized fatigue score to levels 1 to 10.
// Non-finite input is treated as fully recovered.
func LevelForScore(score float64) models.FatigueLevel {
	if !isFinite(score) {
		score = 0
	}
	score = clamp(score, 0, 1)
	for i, upper := range levelUpperBounds {
		if score < upper {
			return models.FatigueLevel(i + 1)
		}
	}
	return models.LevelMax
}

// StatusForScore buckets a 0-100 score. Out-of-range input is clamped.
func StatusForScore(score int) models.ConditionStatus {
	switch {
	case score >= 80:
		return models.StatusExcellent
	case score >= 60:
		return models.StatusGood
	case score >= 40:
		return models.StatusFair
	case score >= 20:
		return models.StatusTired
	default:
		return models.StatusWarning
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// finite returns p when it points at a finite value, nil otherwise.
func finite(p *float64) *float64 {
	if p == nil || !isFinite(*p) {
		return nil
	}
	return p
}
