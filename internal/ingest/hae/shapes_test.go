package hae

import (
	"encoding/json"
	"testing"
)

// TestDetectMetricShape verifies that heart_rate is the only Min/Avg/Max
// metric; everything the engine reads is qty shaped.
func TestDetectMetricShape(t *testing.T) {
	if got := DetectMetricShape("heart_rate"); got != ShapeMinAvgMax {
		t.Errorf("heart_rate shape = %d, want ShapeMinAvgMax", got)
	}
	for _, name := range []string{"resting_heart_rate", "heart_rate_variability", "vo2_max"} {
		if got := DetectMetricShape(name); got != ShapeQty {
			t.Errorf("%s shape = %d, want ShapeQty", name, got)
		}
	}
}

// TestDetectSleepFormat verifies aggregated and per-stage sleep detection.
// Unknown shapes fall back to aggregated.
func TestDetectSleepFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want SleepFormat
	}{
		{"aggregated", `{"date":"2024-02-06","totalSleep":7.5,"core":3.5,"deep":1.5,"rem":2.0}`, SleepFormatAggregated},
		{"per stage", `{"startDate":"2024-02-05 23:00:00 -0800","endDate":"2024-02-05 23:30:00 -0800","value":"Core","qty":0.5}`, SleepFormatUnaggregated},
		{"unknown", `{"foo":1}`, SleepFormatAggregated},
		{"not an object", `[1,2]`, SleepFormatAggregated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectSleepFormat(json.RawMessage(tt.raw)); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

// TestNormalizeStage covers English, localized and unknown stage names.
func TestNormalizeStage(t *testing.T) {
	tests := []struct {
		raw    string
		want   Stage
		wantOK bool
	}{
		{"Core", StageCore, true},
		{" deep ", StageDeep, true},
		{"Tief", StageDeep, true},
		{"REM", StageREM, true},
		{"Im Bett", StageInBed, true},
		{"In Bed", StageInBed, true},
		{"Wach", StageAwake, true},
		{"Asleep", StageAsleep, true},
		{"nap", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeStage(tt.raw)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NormalizeStage(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// TestStageAsleep verifies awake and in-bed time never count as sleep.
func TestStageAsleep(t *testing.T) {
	for _, s := range []Stage{StageCore, StageDeep, StageREM, StageAsleep} {
		if !s.Asleep() {
			t.Errorf("%s should count as asleep", s)
		}
	}
	for _, s := range []Stage{StageAwake, StageInBed} {
		if s.Asleep() {
			t.Errorf("%s should not count as asleep", s)
		}
	}
}

// TestConvertMetricQty verifies conversion of a standard qty metric data point.
func TestConvertMetricQty(t *testing.T) {
	raw := json.RawMessage(`{"date":"2024-02-06 14:30:00 -0800","qty":58}`)
	row, err := convertMetricDataPoint("resting_heart_rate", "bpm", raw, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Qty == nil || *row.Qty != 58 {
		t.Errorf("qty = %v, want 58", row.Qty)
	}
	if row.MetricName != "resting_heart_rate" || row.UserID != 1 {
		t.Errorf("row = %+v", row)
	}
	if row.Source != sourceName {
		t.Errorf("source = %q, want %q", row.Source, sourceName)
	}
}

// TestConvertMetricMinAvgMax verifies conversion of heart rate (Min/Avg/Max) data.
func TestConvertMetricMinAvgMax(t *testing.T) {
	raw := json.RawMessage(`{"date":"2024-02-06 14:30:00 -0800","Min":65,"Avg":72,"Max":85,"source":"Watch"}`)
	row, err := convertMetricDataPoint("heart_rate", "bpm", raw, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.MinVal == nil || *row.MinVal != 65 {
		t.Errorf("min = %v, want 65", row.MinVal)
	}
	if row.AvgVal == nil || *row.AvgVal != 72 {
		t.Errorf("avg = %v, want 72", row.AvgVal)
	}
	if row.MaxVal == nil || *row.MaxVal != 85 {
		t.Errorf("max = %v, want 85", row.MaxVal)
	}
	if row.Qty != nil {
		t.Errorf("qty should be nil for heart_rate, got %v", row.Qty)
	}
	if row.Source != "Watch" {
		t.Errorf("source = %q, want Watch", row.Source)
	}
}

// TestConvertMetricErrors verifies undecodable and undated points are refused.
func TestConvertMetricErrors(t *testing.T) {
	for _, raw := range []string{
		`{"date":"yesterday","qty":1}`,
		`{"qty":40}`,
		`not json`,
	} {
		if _, err := convertMetricDataPoint("heart_rate_variability", "ms", json.RawMessage(raw), 1); err == nil {
			t.Errorf("%s: expected error", raw)
		}
	}
}
