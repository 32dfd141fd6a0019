package recommend

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/claude/recovery/internal/models"
	"github.com/claude/recovery/internal/recovery"
)

const (
	weekdayLookbackWeeks = 8
	weekdayMinSessions   = 3
	weekdayMinWeeks      = 4
)

// muscleState is the per-muscle view used for ranking.
type muscleState struct {
	muscle       models.MuscleGroup
	lastTrained  time.Time
	trained      bool
	recovery     float64
	level        models.FatigueLevel
	weeklySets   int
	weekdayBonus bool
	overworked   bool
}

// recovered reports whether the muscle is fresh enough to be trained.
func (s muscleState) recovered() bool {
	return s.level <= 3 && !s.overworked
}

func (s muscleState) rankScore() float64 {
	if s.weekdayBonus {
		return s.recovery + 0.1
	}
	return s.recovery
}

// historyIndex holds everything derived from the training history.
type historyIndex struct {
	muscles       map[models.MuscleGroup]*muscleState
	lastPerformed map[string]time.Time
}

func exerciseKey(id, name string) string {
	if id != "" {
		return id
	}
	return strings.ToLower(strings.TrimSpace(name))
}

func buildHistoryIndex(in Input) historyIndex {
	idx := historyIndex{
		muscles:       make(map[models.MuscleGroup]*muscleState, len(models.AllMuscleGroups)),
		lastPerformed: map[string]time.Time{},
	}
	for _, m := range models.AllMuscleGroups {
		idx.muscles[m] = &muscleState{muscle: m, recovery: 1.0}
	}

	weekAgo := in.Reference.AddDate(0, 0, -7)
	for _, r := range in.History {
		if r.Date.After(in.Reference) {
			continue
		}
		key := exerciseKey(r.ExerciseID, r.ExerciseName)
		if last, ok := idx.lastPerformed[key]; !ok || r.Date.After(last) {
			idx.lastPerformed[key] = r.Date
		}
		for _, m := range touchedMuscles(r) {
			st, ok := idx.muscles[m]
			if !ok {
				continue
			}
			if !st.trained || r.Date.After(st.lastTrained) {
				st.lastTrained = r.Date
				st.trained = true
			}
		}
		if r.Date.After(weekAgo) {
			for _, m := range r.PrimaryMuscles {
				if st, ok := idx.muscles[m]; ok {
					st.weeklySets += r.CompletedSets
				}
			}
		}
	}

	bonus := weekdayBonusMuscles(in.History, in.Reference, in.Location)
	compound := map[models.MuscleGroup]models.FatigueLevel{}
	for _, f := range in.Fatigue {
		compound[f.Muscle] = f.Level
	}

	for _, st := range idx.muscles {
		if st.trained {
			st.recovery = RecoveryPercent(st.muscle, st.lastTrained, in.Reference)
		}
		st.level = recovery.LevelForScore(1 - st.recovery)
		st.overworked = st.level.NeedsActiveRest() || compound[st.muscle].NeedsActiveRest()
		st.weekdayBonus = bonus[st.muscle]
	}
	return idx
}

func touchedMuscles(r models.ExerciseRecordSnapshot) []models.MuscleGroup {
	out := make([]models.MuscleGroup, 0, len(r.PrimaryMuscles)+len(r.SecondaryMuscles))
	out = append(out, r.PrimaryMuscles...)
	return append(out, r.SecondaryMuscles...)
}

// RecoveryPercent is the linear recovery fraction of a muscle last trained at
// lastTrained, in [0,1].
func RecoveryPercent(muscle models.MuscleGroup, lastTrained, ref time.Time) float64 {
	hours := math.Max(0, ref.Sub(lastTrained).Hours())
	return math.Min(hours/muscle.BaseRecoveryHours(), 1.0)
}

// weekdayBonusMuscles finds muscles habitually trained on the reference
// weekday: primary in at least three sessions on that weekday within the
// trailing eight weeks. The pattern only counts when those weeks hold data in
// at least four distinct calendar weeks.
func weekdayBonusMuscles(history []models.ExerciseRecordSnapshot, ref time.Time, loc *time.Location) map[models.MuscleGroup]bool {
	if loc == nil {
		loc = time.UTC
	}
	start := recovery.DayKey(ref, loc).AddDate(0, 0, -7*weekdayLookbackWeeks)
	weekday := ref.In(loc).Weekday()

	weeks := map[string]bool{}
	sessions := map[models.MuscleGroup]map[string]bool{}
	for _, r := range history {
		if r.Date.Before(start) || r.Date.After(ref) {
			continue
		}
		local := r.Date.In(loc)
		year, week := local.ISOWeek()
		weeks[fmt.Sprintf("%d-W%02d", year, week)] = true

		if local.Weekday() != weekday {
			continue
		}
		day := local.Format(time.DateOnly)
		for _, m := range r.PrimaryMuscles {
			if sessions[m] == nil {
				sessions[m] = map[string]bool{}
			}
			sessions[m][day] = true
		}
	}

	bonus := map[models.MuscleGroup]bool{}
	if len(weeks) < weekdayMinWeeks {
		return bonus
	}
	for m, days := range sessions {
		if len(days) >= weekdayMinSessions {
			bonus[m] = true
		}
	}
	return bonus
}
