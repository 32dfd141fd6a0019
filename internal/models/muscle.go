package models

import "strings"

// MuscleGroup is a trainable muscle tag.
type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "chest"
	MuscleBack       MuscleGroup = "back"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleQuadriceps MuscleGroup = "quadriceps"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleGlutes     MuscleGroup = "glutes"
	MuscleCalves     MuscleGroup = "calves"
	MuscleCore       MuscleGroup = "core"
	MuscleForearms   MuscleGroup = "forearms"
	MuscleTraps      MuscleGroup = "traps"
	MuscleLats       MuscleGroup = "lats"
)

// MuscleSize buckets muscles for recovery time and saturation.
type MuscleSize int

const (
	SizeSmall MuscleSize = iota
	SizeMedium
	SizeLarge
)

func (s MuscleSize) String() string {
	switch s {
	case SizeLarge:
		return "large"
	case SizeMedium:
		return "medium"
	default:
		return "small"
	}
}

// AllMuscleGroups lists every muscle in display order.
var AllMuscleGroups = []MuscleGroup{
	MuscleChest, MuscleBack, MuscleShoulders, MuscleBiceps, MuscleTriceps,
	MuscleQuadriceps, MuscleHamstrings, MuscleGlutes, MuscleCalves,
	MuscleCore, MuscleForearms, MuscleTraps, MuscleLats,
}

var muscleSizes = map[MuscleGroup]MuscleSize{
	MuscleQuadriceps: SizeLarge,
	MuscleHamstrings: SizeLarge,
	MuscleGlutes:     SizeLarge,
	MuscleBack:       SizeLarge,
	MuscleLats:       SizeLarge,
	MuscleChest:      SizeMedium,
	MuscleShoulders:  SizeMedium,
	MuscleTraps:      SizeMedium,
	MuscleBiceps:     SizeSmall,
	MuscleTriceps:    SizeSmall,
	MuscleForearms:   SizeSmall,
	MuscleCore:       SizeSmall,
	MuscleCalves:     SizeSmall,
}

// Valid reports whether m is one of the known muscle tags.
func (m MuscleGroup) Valid() bool {
	_, ok := muscleSizes[m]
	return ok
}

// Size returns the size bucket. Unknown tags are treated as small.
func (m MuscleGroup) Size() MuscleSize {
	return muscleSizes[m]
}

// BaseRecoveryHours is the nominal time for the muscle to recover from a session.
func (m MuscleGroup) BaseRecoveryHours() float64 {
	switch m.Size() {
	case SizeLarge:
		return 72
	case SizeMedium:
		return 48
	default:
		return 36
	}
}

// ParseMuscleGroup maps a tag such as "Quadriceps" or " lats " to a MuscleGroup.
func ParseMuscleGroup(s string) (MuscleGroup, bool) {
	m := MuscleGroup(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", false
	}
	return m, true
}

// ParseMuscleList parses a comma-separated list of tags, dropping empty and
// unknown entries. The second return lists the rejected tags.
func ParseMuscleList(s string) ([]MuscleGroup, []string) {
	var muscles []MuscleGroup
	var rejected []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m, ok := ParseMuscleGroup(part)
		if !ok {
			rejected = append(rejected, part)
			continue
		}
		muscles = append(muscles, m)
	}
	return muscles, rejected
}

// JoinMuscles renders muscles as a comma-separated tag list.
func JoinMuscles(muscles []MuscleGroup) string {
	parts := make([]string, len(muscles))
	for i, m := range muscles {
		parts[i] = string(m)
	}
	return strings.Join(parts, ",")
}
