package recovery

import (
	"math"

	"github.com/claude/recovery/internal/models"
)

// Modifier ranges. Values above 1 speed recovery up, values below slow it down.
const (
	SleepModifierMin     = 0.5
	SleepModifierMax     = 1.25
	ReadinessModifierMin = 0.6
	ReadinessModifierMax = 1.20
)

// SleepInput is last night's sleep. Ratios are fractions of total sleep and
// may be nil when stage data is missing.
type SleepInput struct {
	TotalMinutes float64
	DeepRatio    *float64
	REMRatio     *float64
}

// SleepInputFromNight converts an hours-based sleep aggregate.
func SleepInputFromNight(n models.SleepNight) *SleepInput {
	in := &SleepInput{TotalMinutes: n.TotalSleep * 60}
	if n.TotalSleep > 0 && (n.Deep > 0 || n.REM > 0 || n.Core > 0) {
		deep := n.Deep / n.TotalSleep
		rem := n.REM / n.TotalSleep
		in.DeepRatio = &deep
		in.REMRatio = &rem
	}
	return in
}

// SleepModifier scores last night's sleep. nil or implausible input is neutral.
func SleepModifier(in *SleepInput) float64 {
	if in == nil {
		return 1.0
	}
	minutes := in.TotalMinutes
	if !isFinite(minutes) || minutes < 0 || minutes > 1440 {
		return 1.0
	}

	hours := minutes / 60
	var base float64
	switch {
	case hours >= 8:
		base = 1.15
	case hours >= 7:
		base = 1.00
	case hours >= 6:
		base = 0.85
	case hours >= 5:
		base = 0.70
	default:
		base = 0.55
	}

	return clamp(base+stageBonus(in.DeepRatio)+stageBonus(in.REMRatio), SleepModifierMin, SleepModifierMax)
}

func stageBonus(ratio *float64) float64 {
	r := finite(ratio)
	switch {
	case r == nil:
		return 0
	case *r >= 0.20:
		return 0.05
	case *r < 0.10:
		return -0.05
	default:
		return 0
	}
}

// ReadinessModifier fuses the HRV z-score with the resting heart rate change
// (today minus yesterday, bpm). Either input may be nil.
func ReadinessModifier(hrvZ, rhrDelta *float64) float64 {
	z := finite(hrvZ)
	delta := finite(rhrDelta)

	if z == nil {
		switch {
		case delta == nil:
			return 1.0
		case *delta >= 5:
			return 0.85
		case *delta <= -2:
			return 1.05
		default:
			return 1.0
		}
	}

	var m float64
	switch {
	case *z >= 1.0:
		m = 1.15
	case *z >= 0:
		m = 1.05
	case *z >= -0.5:
		m = 1.00
	case *z >= -1.0:
		m = 0.85
	default:
		m = 0.70
	}

	if delta != nil {
		switch {
		case *delta >= 5:
			m = math.Min(m, 0.75)
		case *delta <= -2:
			m = math.Min(m+0.05, ReadinessModifierMax)
		}
	}

	return clamp(m, ReadinessModifierMin, ReadinessModifierMax)
}

// sanitizeModifier re-applies a modifier range. Non-finite or non-positive
// values are treated as neutral.
func sanitizeModifier(v, lo, hi float64) float64 {
	if !isFinite(v) || v <= 0 {
		return 1.0
	}
	return clamp(v, lo, hi)
}
