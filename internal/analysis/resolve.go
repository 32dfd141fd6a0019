package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/claude/recovery/internal/models"
)

// Lookup resolves an exercise name against the catalog.
type Lookup interface {
	Lookup(name string) (models.ExerciseDefinition, bool)
}

// Resolution is the outcome of turning raw entries into engine records.
type Resolution struct {
	Records    []models.ExerciseRecordSnapshot
	Unresolved []string
}

type activityMuscles struct {
	id        string
	keywords  []string
	primary   []models.MuscleGroup
	secondary []models.MuscleGroup
}

// activityTable maps workout names from Health Auto Export and FIT sport
// names to the muscles they load. The first matching keyword wins.
var activityTable = []activityMuscles{
	{"running", []string{"run", "jog"},
		[]models.MuscleGroup{models.MuscleQuadriceps, models.MuscleCalves},
		[]models.MuscleGroup{models.MuscleHamstrings, models.MuscleGlutes}},
	{"hiking", []string{"hik", "walk"},
		[]models.MuscleGroup{models.MuscleQuadriceps, models.MuscleCalves},
		[]models.MuscleGroup{models.MuscleGlutes}},
	{"cycling", []string{"cycl", "bik", "spin"},
		[]models.MuscleGroup{models.MuscleQuadriceps},
		[]models.MuscleGroup{models.MuscleGlutes, models.MuscleCalves}},
	{"rowing", []string{"row"},
		[]models.MuscleGroup{models.MuscleBack, models.MuscleQuadriceps},
		[]models.MuscleGroup{models.MuscleBiceps, models.MuscleCore}},
	{"swimming", []string{"swim", "pool"},
		[]models.MuscleGroup{models.MuscleShoulders, models.MuscleLats},
		[]models.MuscleGroup{models.MuscleCore}},
	{"elliptical", []string{"elliptical", "cross train", "cross_train"},
		[]models.MuscleGroup{models.MuscleQuadriceps, models.MuscleGlutes},
		[]models.MuscleGroup{models.MuscleShoulders}},
	{"stair-climbing", []string{"stair", "step"},
		[]models.MuscleGroup{models.MuscleQuadriceps, models.MuscleGlutes},
		[]models.MuscleGroup{models.MuscleCalves}},
}

func matchActivity(activity string) (activityMuscles, bool) {
	a := strings.ToLower(activity)
	for _, entry := range activityTable {
		for _, kw := range entry.keywords {
			if strings.Contains(a, kw) {
				return entry, true
			}
		}
	}
	return activityMuscles{}, false
}

// Resolve turns strength and cardio entries into exercise records. Strength
// entries resolve through lookup by name; cardio activities try the catalog
// first and then the built-in activity table. Entries that resolve to nothing
// are reported by name, once each, in sorted order.
func Resolve(sig Signals, lookup Lookup) Resolution {
	var res Resolution
	missing := map[string]bool{}

	for _, e := range sig.Strength {
		if e.Sets <= 0 {
			continue
		}
		def, ok := lookup.Lookup(e.ExerciseName)
		if !ok {
			missing[e.ExerciseName] = true
			continue
		}
		r := models.ExerciseRecordSnapshot{
			ExerciseID:       def.ID,
			ExerciseName:     def.Name,
			Date:             e.Date,
			PrimaryMuscles:   def.PrimaryMuscles,
			SecondaryMuscles: def.SecondaryMuscles,
			CompletedSets:    e.Sets,
		}
		if e.WeightKg > 0 {
			w := e.WeightKg
			r.TotalWeightKg = &w
		}
		if e.Reps > 0 {
			reps := e.Reps
			r.TotalReps = &reps
		}
		res.Records = append(res.Records, r)
	}

	for _, e := range sig.Cardio {
		r := models.ExerciseRecordSnapshot{Date: e.Date, ExerciseName: e.Activity}
		if def, ok := lookup.Lookup(e.Activity); ok && def.Category == models.CategoryCardio {
			r.ExerciseID, r.ExerciseName = def.ID, def.Name
			r.PrimaryMuscles, r.SecondaryMuscles = def.PrimaryMuscles, def.SecondaryMuscles
		} else if act, ok := matchActivity(e.Activity); ok {
			r.ExerciseID = act.id
			r.PrimaryMuscles, r.SecondaryMuscles = act.primary, act.secondary
		} else {
			missing[e.Activity] = true
			continue
		}
		if e.DistanceKm != nil && *e.DistanceKm > 0 {
			d := *e.DistanceKm
			r.DistanceKm = &d
		}
		if e.DurationMinutes > 0 {
			m := e.DurationMinutes
			r.DurationMinutes = &m
		}
		res.Records = append(res.Records, r)
	}

	for name := range missing {
		res.Unresolved = append(res.Unresolved, name)
	}
	sort.Strings(res.Unresolved)
	return res
}

// String summarizes the resolution for logs.
func (r Resolution) String() string {
	return fmt.Sprintf("%d records, %d unresolved", len(r.Records), len(r.Unresolved))
}
