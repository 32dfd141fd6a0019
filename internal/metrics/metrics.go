// Package metrics exposes a recovery report in the Prometheus text format.
package metrics

import (
	"fmt"
	"io"

	"github.com/claude/recovery/internal/analysis"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Metric family names.
const (
	FatigueScore      = "recovery_muscle_fatigue_score"
	FatigueLevel      = "recovery_muscle_fatigue_level"
	ConditionScore    = "recovery_condition_score"
	BaselineDays      = "recovery_baseline_days"
	SleepModifier     = "recovery_sleep_modifier"
	ReadinessModifier = "recovery_readiness_modifier"
	RestDay           = "recovery_rest_day"

	labelMuscle = "muscle"
	labelStatus = "status"
)

// Format is the exposition format written by Write.
var Format = expfmt.NewFormat(expfmt.TypeTextPlain)

// Families converts a report to gauge families. The condition family is
// omitted until an HRV baseline exists.
func Families(r analysis.Report) []*dto.MetricFamily {
	score := family(FatigueScore, "Normalized compound fatigue per muscle group, 0 to 1.")
	level := family(FatigueLevel, "Fatigue level per muscle group, 1 to 10; 0 means no data.")
	for _, f := range r.Fatigue {
		score.Metric = append(score.Metric, gauge(f.NormalizedScore, labelMuscle, string(f.Muscle)))
		level.Metric = append(level.Metric, gauge(float64(f.Level), labelMuscle, string(f.Muscle)))
	}

	baseline := family(BaselineDays, "Distinct days of HRV data in the baseline window.")
	baseline.Metric = append(baseline.Metric, gauge(float64(r.Baseline.DaysCollected)))

	sleep := family(SleepModifier, "Recovery multiplier from last night's sleep.")
	sleep.Metric = append(sleep.Metric, gauge(r.Modifiers.Sleep))

	readiness := family(ReadinessModifier, "Recovery multiplier from HRV and resting heart rate.")
	readiness.Metric = append(readiness.Metric, gauge(r.Modifiers.Readiness))

	rest := family(RestDay, "1 when no muscle group is ready and the suggestion is a rest day.")
	rest.Metric = append(rest.Metric, gauge(boolValue(r.Recommendation.IsRestDay())))

	out := []*dto.MetricFamily{score, level}
	if r.Condition != nil {
		cond := family(ConditionScore, "Daily condition score, 0 to 100.")
		cond.Metric = append(cond.Metric, gauge(float64(r.Condition.Score), labelStatus, string(r.Condition.Status)))
		out = append(out, cond)
	}
	return append(out, baseline, sleep, readiness, rest)
}

// Write encodes the report's families to w.
func Write(w io.Writer, r analysis.Report) error {
	enc := expfmt.NewEncoder(w, Format)
	for _, mf := range Families(r) {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func family(name, help string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: ptr(name),
		Help: ptr(help),
		Type: dto.MetricType_GAUGE.Enum(),
	}
}

// gauge builds one sample; labels are name/value pairs.
func gauge(v float64, labels ...string) *dto.Metric {
	m := &dto.Metric{Gauge: &dto.Gauge{Value: &v}}
	for i := 0; i+1 < len(labels); i += 2 {
		m.Label = append(m.Label, &dto.LabelPair{Name: ptr(labels[i]), Value: ptr(labels[i+1])})
	}
	return m
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func ptr[T any](v T) *T { return &v }
