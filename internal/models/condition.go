package models

import "time"

// ConditionStatus is the qualitative bucket of a 0-100 score.
type ConditionStatus string

const (
	StatusExcellent ConditionStatus = "excellent"
	StatusGood      ConditionStatus = "good"
	StatusFair      ConditionStatus = "fair"
	StatusTired     ConditionStatus = "tired"
	StatusWarning   ConditionStatus = "warning"
)

// FactorImpact describes which way a factor pushed the score.
type FactorImpact string

const (
	ImpactPositive FactorImpact = "positive"
	ImpactNeutral  FactorImpact = "neutral"
	ImpactNegative FactorImpact = "negative"
)

// ConditionFactor is a named input that shaped the condition score.
type ConditionFactor struct {
	Name   string       `json:"name"`
	Impact FactorImpact `json:"impact"`
	Detail string       `json:"detail,omitempty"`
}

// ConditionScore is the daily autonomic readiness score.
type ConditionScore struct {
	Score   int               `json:"score"`
	Status  ConditionStatus   `json:"status"`
	Date    time.Time         `json:"date"`
	Factors []ConditionFactor `json:"factors,omitempty"`
}

// BaselineDaysRequired is the number of distinct HRV days needed for a baseline.
const BaselineDaysRequired = 7

// BaselineStatus reports how much HRV history is available.
type BaselineStatus struct {
	DaysCollected int  `json:"days_collected"`
	DaysRequired  int  `json:"days_required"`
	IsReady       bool `json:"is_ready"`
}

// NewBaselineStatus builds a status for the given number of collected days.
func NewBaselineStatus(collected int) BaselineStatus {
	return BaselineStatus{
		DaysCollected: collected,
		DaysRequired:  BaselineDaysRequired,
		IsReady:       collected >= BaselineDaysRequired,
	}
}
