// Package analysis composes the recovery engine over one snapshot of raw
// signals: physiological samples, sleep and training history.
package analysis

import (
	"sort"

	"github.com/claude/recovery/internal/models"
)

// Signals is the raw input bundle an analysis runs on. It is also the
// request body of the stateless analyze endpoint.
type Signals struct {
	HRV       []models.Sample        `json:"hrv"`
	RestingHR []models.Sample        `json:"resting_heart_rate"`
	Sleep     []models.SleepNight    `json:"sleep"`
	Strength  []models.StrengthEntry `json:"strength"`
	Cardio    []models.CardioEntry   `json:"cardio"`
}

// Merge appends o's signals to s.
func (s *Signals) Merge(o Signals) {
	s.HRV = append(s.HRV, o.HRV...)
	s.RestingHR = append(s.RestingHR, o.RestingHR...)
	s.Sleep = append(s.Sleep, o.Sleep...)
	s.Strength = append(s.Strength, o.Strength...)
	s.Cardio = append(s.Cardio, o.Cardio...)
}

// Empty reports whether s carries no data at all.
func (s Signals) Empty() bool {
	return len(s.HRV) == 0 && len(s.RestingHR) == 0 && len(s.Sleep) == 0 &&
		len(s.Strength) == 0 && len(s.Cardio) == 0
}

// Sort orders every series oldest first so repeated runs see identical input.
func (s *Signals) Sort() {
	sort.SliceStable(s.HRV, func(i, j int) bool { return s.HRV[i].Time.Before(s.HRV[j].Time) })
	sort.SliceStable(s.RestingHR, func(i, j int) bool { return s.RestingHR[i].Time.Before(s.RestingHR[j].Time) })
	sort.SliceStable(s.Sleep, func(i, j int) bool { return s.Sleep[i].Date.Before(s.Sleep[j].Date) })
	sort.SliceStable(s.Strength, func(i, j int) bool { return s.Strength[i].Date.Before(s.Strength[j].Date) })
	sort.SliceStable(s.Cardio, func(i, j int) bool { return s.Cardio[i].Date.Before(s.Cardio[j].Date) })
}
