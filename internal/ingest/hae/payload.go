// Package hae reads Health Auto Export REST payloads: HRV, resting heart
// rate, sleep and workouts.
package hae

import (
	"encoding/json"
	"fmt"
	"time"
)

// Layouts used by Health Auto Export.
const (
	TimeLayout     = "2006-01-02 15:04:05 -0700"
	DateOnlyLayout = "2006-01-02"
)

// Time parses both "2006-01-02 15:04:05 -0700" and date-only values.
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(TimeLayout))
}

// ParseTime tries the full layout first, then date-only.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateOnlyLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse HAE time %q", s)
}

// Payload is the top-level REST API JSON structure.
type Payload struct {
	Data struct {
		Metrics  []Metric  `json:"metrics"`
		Workouts []Workout `json:"workouts"`
	} `json:"data"`
}

// Metric is one named metric with its raw data points. The point shape
// depends on the metric name.
type Metric struct {
	Name  string            `json:"name"`
	Units string            `json:"units"`
	Data  []json.RawMessage `json:"data"`
}

// QtyPoint is the common {"date", "qty"} data point.
type QtyPoint struct {
	Date   Time    `json:"date"`
	Qty    float64 `json:"qty"`
	Source string  `json:"source,omitempty"`
}

// MinAvgMaxPoint is the heart-rate style point (capitalized keys in HAE JSON).
type MinAvgMaxPoint struct {
	Date   Time    `json:"date"`
	Min    float64 `json:"Min"`
	Avg    float64 `json:"Avg"`
	Max    float64 `json:"Max"`
	Source string  `json:"source,omitempty"`
}

// SleepNight is a nightly sleep summary (Summarize Data: ON). Hours.
type SleepNight struct {
	Date       string  `json:"date"`
	TotalSleep float64 `json:"totalSleep"`
	Asleep     float64 `json:"asleep"`
	Core       float64 `json:"core"`
	Deep       float64 `json:"deep"`
	REM        float64 `json:"rem"`
	InBed      float64 `json:"inBed"`
	SleepStart Time    `json:"sleepStart"`
	SleepEnd   Time    `json:"sleepEnd"`
	Source     string  `json:"source,omitempty"`
}

// SleepSegment is one stage segment (Summarize Data: OFF). Qty is hours and
// Value the possibly localized stage name.
type SleepSegment struct {
	StartDate Time    `json:"startDate"`
	EndDate   Time    `json:"endDate"`
	Qty       float64 `json:"qty"`
	Value     string  `json:"value"`
	Source    string  `json:"source,omitempty"`
}

// Quantity is the {"qty": N, "units": "..."} structure.
type Quantity struct {
	Qty   float64 `json:"qty"`
	Units string  `json:"units"`
}

// Workout is a workout from the REST API (version 2). Only the fields the
// fatigue model uses are decoded.
type Workout struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Start     Time      `json:"start"`
	End       Time      `json:"end"`
	Duration  float64   `json:"duration"`
	Distance  *Quantity `json:"distance,omitempty"`
	AvgHR     *Quantity `json:"avgHeartRate,omitempty"`
	HeartRate *struct {
		Avg Quantity `json:"avg"`
	} `json:"heartRate,omitempty"`
}
