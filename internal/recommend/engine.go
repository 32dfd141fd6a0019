package recommend

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/claude/recovery/internal/models"
)

const (
	maxFocusMuscles    = 3
	targetExercises    = 4
	maxAlternatives    = 3
	weeklySetTarget    = 20
	minSuggestedSets   = 2
	maxSuggestedSets   = 5
	compoundFillerSets = 3
)

// RestDayReasoning is returned when no muscle is ready to train.
const RestDayReasoning = "No muscle group is recovered enough for a productive session. Take a rest day and keep moving lightly."

// ActiveRecovery lists the low-intensity options offered on rest days.
var ActiveRecovery = []string{
	"Light walk (20-30 min)",
	"Mobility and stretching",
	"Gentle yoga",
	"Foam rolling",
}

// Input is one recommendation request. Fatigue is optional; when present, any
// muscle at level 8 or above is treated as overworked even if its linear
// recovery looks complete.
type Input struct {
	History   []models.ExerciseRecordSnapshot
	Fatigue   []models.CompoundFatigueScore
	Reference time.Time
	Location  *time.Location
}

// Engine builds workout suggestions from a catalog.
type Engine struct {
	catalog Catalog
}

// NewEngine creates an Engine backed by catalog.
func NewEngine(catalog Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Suggest ranks recovered muscles and picks exercises for the top ones.
func (e *Engine) Suggest(in Input) models.WorkoutSuggestion {
	idx := buildHistoryIndex(in)

	candidates := rankCandidates(idx)
	if len(candidates) == 0 {
		return restDay(idx, in.Reference)
	}

	focus := candidates
	if len(focus) > maxFocusMuscles {
		focus = focus[:maxFocusMuscles]
	}

	suggestion := models.WorkoutSuggestion{Exercises: []models.SuggestedExercise{}}
	selected := map[string]bool{}

	for _, st := range focus {
		suggestion.FocusMuscles = append(suggestion.FocusMuscles, st.muscle)

		options := e.focusOptions(st.muscle, idx, selected)
		if len(options) == 0 {
			continue
		}
		pick := options[0]
		alternatives := options[1:]
		if len(alternatives) > maxAlternatives {
			alternatives = alternatives[:maxAlternatives]
		}
		selected[exerciseKey(pick.ID, pick.Name)] = true
		suggestion.Exercises = append(suggestion.Exercises, models.SuggestedExercise{
			Exercise:     pick,
			Sets:         suggestedSets(st.weeklySets),
			Reason:       focusReason(st, in.Reference),
			Alternatives: alternatives,
		})
	}

	if len(suggestion.Exercises) < targetExercises {
		for _, ex := range e.compoundOptions(idx, selected) {
			if len(suggestion.Exercises) >= targetExercises {
				break
			}
			selected[exerciseKey(ex.ID, ex.Name)] = true
			suggestion.Exercises = append(suggestion.Exercises, models.SuggestedExercise{
				Exercise: ex,
				Sets:     compoundFillerSets,
				Reason:   "Compound movement; every primary muscle is recovered",
			})
		}
	}

	suggestion.Reasoning = focusReasoning(focus, len(suggestion.Exercises) > 0)
	return suggestion
}

// rankCandidates returns recovered muscles, best first. Ties go to the
// muscle with fewer sets this week, then to display order.
func rankCandidates(idx historyIndex) []muscleState {
	var out []muscleState
	for _, m := range models.AllMuscleGroups {
		if st := idx.muscles[m]; st.recovered() {
			out = append(out, *st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].rankScore(), out[j].rankScore()
		if a != b {
			return a > b
		}
		return out[i].weeklySets < out[j].weeklySets
	})
	return out
}

// focusOptions lists strength and bodyweight exercises for muscle, least
// recently performed first, skipping picks already made and any exercise
// that loads an overworked muscle.
func (e *Engine) focusOptions(muscle models.MuscleGroup, idx historyIndex, selected map[string]bool) []models.ExerciseDefinition {
	var out []models.ExerciseDefinition
	for _, ex := range e.catalog.ExercisesForMuscle(muscle) {
		if !selectable(ex) || selected[exerciseKey(ex.ID, ex.Name)] || loadsOverworked(ex, idx) {
			continue
		}
		out = append(out, ex)
	}
	sortLeastRecent(out, idx.lastPerformed)
	return out
}

// compoundOptions lists compound strength exercises whose primary muscles
// are all recovered, least recently performed first.
func (e *Engine) compoundOptions(idx historyIndex, selected map[string]bool) []models.ExerciseDefinition {
	var out []models.ExerciseDefinition
	for _, ex := range e.catalog.AllExercises() {
		if !compoundFiller(ex) || selected[exerciseKey(ex.ID, ex.Name)] || !allPrimaryRecovered(ex, idx) {
			continue
		}
		out = append(out, ex)
	}
	sortLeastRecent(out, idx.lastPerformed)
	return out
}

func loadsOverworked(ex models.ExerciseDefinition, idx historyIndex) bool {
	for _, m := range ex.PrimaryMuscles {
		if st, ok := idx.muscles[m]; ok && st.overworked {
			return true
		}
	}
	return false
}

func allPrimaryRecovered(ex models.ExerciseDefinition, idx historyIndex) bool {
	if len(ex.PrimaryMuscles) == 0 {
		return false
	}
	for _, m := range ex.PrimaryMuscles {
		st, ok := idx.muscles[m]
		if !ok || !st.recovered() {
			return false
		}
	}
	return true
}

// sortLeastRecent orders never-performed exercises first, then the oldest.
func sortLeastRecent(exercises []models.ExerciseDefinition, lastPerformed map[string]time.Time) {
	sort.SliceStable(exercises, func(i, j int) bool {
		ti, okI := lastPerformed[exerciseKey(exercises[i].ID, exercises[i].Name)]
		tj, okJ := lastPerformed[exerciseKey(exercises[j].ID, exercises[j].Name)]
		switch {
		case okI != okJ:
			return !okI
		case okI && !ti.Equal(tj):
			return ti.Before(tj)
		case exercises[i].Name != exercises[j].Name:
			return exercises[i].Name < exercises[j].Name
		default:
			return exercises[i].ID < exercises[j].ID
		}
	})
}

// suggestedSets tops the muscle up toward the weekly set target.
func suggestedSets(weeklySets int) int {
	sets := (weeklySetTarget - weeklySets) / 2
	return max(minSuggestedSets, min(maxSuggestedSets, sets))
}

func restDay(idx historyIndex, ref time.Time) models.WorkoutSuggestion {
	s := models.WorkoutSuggestion{
		Exercises:      []models.SuggestedExercise{},
		Reasoning:      RestDayReasoning,
		ActiveRecovery: append([]string(nil), ActiveRecovery...),
	}
	for _, m := range models.AllMuscleGroups {
		st := idx.muscles[m]
		if !st.trained {
			continue
		}
		readyAt := st.lastTrained.Add(time.Duration(m.BaseRecoveryHours() * float64(time.Hour)))
		if !readyAt.After(ref) {
			continue
		}
		if s.NextReady == nil || readyAt.Before(s.NextReady.ReadyAt) {
			s.NextReady = &models.NextReadyMuscle{Muscle: m, ReadyAt: readyAt}
		}
	}
	return s
}

func focusReason(st muscleState, ref time.Time) string {
	var when string
	switch {
	case !st.trained:
		when = "not trained recently"
	default:
		days := int(ref.Sub(st.lastTrained).Hours() / 24)
		switch days {
		case 0:
			when = "last trained earlier today"
		case 1:
			when = "last trained 1 day ago"
		default:
			when = fmt.Sprintf("last trained %d days ago", days)
		}
	}
	reason := fmt.Sprintf("%s %s, %d sets this week", displayName(st.muscle), when, st.weeklySets)
	if st.weekdayBonus {
		reason += ", usually trained on this weekday"
	}
	return reason
}

func focusReasoning(focus []muscleState, haveExercises bool) string {
	names := make([]string, len(focus))
	for i, st := range focus {
		names[i] = string(st.muscle)
	}
	msg := fmt.Sprintf("Focus on %s: recovered and ready to train.", joinAnd(names))
	if !haveExercises {
		msg += " The exercise catalog has nothing that fits them yet."
	}
	return msg
}

func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func displayName(m models.MuscleGroup) string {
	s := string(m)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
