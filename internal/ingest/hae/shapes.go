package hae

import "encoding/json"

// MetricShape describes the data point structure for a metric.
type MetricShape int

const (
	ShapeQty       MetricShape = iota // {"qty": N}
	ShapeMinAvgMax                    // {"Min": N, "Avg": N, "Max": N}
)

// DetectMetricShape returns the expected data point shape for a metric name.
func DetectMetricShape(name string) MetricShape {
	if name == "heart_rate" {
		return ShapeMinAvgMax
	}
	return ShapeQty
}

// SleepFormat tells nightly summaries from per-stage segments.
type SleepFormat int

const (
	SleepFormatAggregated   SleepFormat = iota // has "totalSleep"
	SleepFormatUnaggregated                    // has "startDate"
)

// DetectSleepFormat inspects a raw sleep point. Unknown shapes are treated as
// aggregated.
func DetectSleepFormat(raw json.RawMessage) SleepFormat {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return SleepFormatAggregated
	}
	if _, ok := fields["totalSleep"]; ok {
		return SleepFormatAggregated
	}
	if _, ok := fields["startDate"]; ok {
		return SleepFormatUnaggregated
	}
	return SleepFormatAggregated
}
