package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/recovery/internal/analysis"
	"github.com/claude/recovery/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

const atDescription = "Reference time (ISO 8601, or YYYY-MM-DD for the end of that day). Defaults to now."

// parseAt reads an optional reference. A date means the last second of that
// day in loc; empty means now.
func parseAt(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	day, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return day.AddDate(0, 0, 1).Add(-time.Second), nil
}

// --- Tool definitions ---

var toolGetRecoveryReport = mcp.NewTool("get_recovery_report",
	mcp.WithDescription("Full recovery report: per-muscle fatigue (0-1 score and 1-10 level), condition score, HRV baseline status, sleep and readiness modifiers, and the suggested workout."),
	mcp.WithString("at", mcp.Description(atDescription)),
)

var toolGetMuscleFatigue = mcp.NewTool("get_muscle_fatigue",
	mcp.WithDescription("Compound fatigue per muscle group with the decayed contribution of each recent session. Level 1-4 is fine to train, 8+ needs active rest."),
	mcp.WithString("muscles", mcp.Description("Comma-separated muscle groups (e.g. 'chest,back,quadriceps'). Defaults to all.")),
	mcp.WithString("at", mcp.Description(atDescription)),
)

var toolGetConditionScore = mcp.NewTool("get_condition_score",
	mcp.WithDescription("Daily condition score (0-100) from today's HRV against a 7-day baseline, corrected by the resting heart rate trend. Null until 7 days of HRV exist."),
	mcp.WithString("at", mcp.Description(atDescription)),
)

var toolGetWorkoutSuggestion = mcp.NewTool("get_workout_suggestion",
	mcp.WithDescription("Suggested next workout: up to three recovered focus muscles with exercises, sets and alternatives, or a rest day with active recovery options."),
	mcp.WithString("at", mcp.Description(atDescription)),
)

var toolGetRecoveryModifiers = mcp.NewTool("get_recovery_modifiers",
	mcp.WithDescription("Recovery speed multipliers from last night's sleep and from HRV/resting heart rate readiness, with the inputs behind them."),
	mcp.WithString("at", mcp.Description(atDescription)),
)

// --- Tool handlers ---

// report runs the source at the request's reference. A non-nil result is a
// tool error for the caller to return.
func (h *handlers) report(ctx context.Context, req mcp.CallToolRequest, tool string) (analysis.Report, *mcp.CallToolResult) {
	ref, err := parseAt(req.GetString("at", ""), h.location())
	if err != nil {
		return analysis.Report{}, mcp.NewToolResultError("invalid date format: " + err.Error())
	}
	report, err := h.ds.Report(ctx, ref)
	if err != nil {
		h.log.Error("mcp "+tool, "error", err)
		return analysis.Report{}, mcp.NewToolResultError("query failed: " + err.Error())
	}
	return report, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecoveryReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, toolErr := h.report(ctx, req, "get_recovery_report")
	if toolErr != nil {
		return toolErr, nil
	}
	return jsonResult(report)
}

func (h *handlers) getMuscleFatigue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	muscles, rejected := models.ParseMuscleList(req.GetString("muscles", ""))
	if len(rejected) > 0 {
		return mcp.NewToolResultError("unknown muscle groups: " + strings.Join(rejected, ", ")), nil
	}
	report, toolErr := h.report(ctx, req, "get_muscle_fatigue")
	if toolErr != nil {
		return toolErr, nil
	}
	return jsonResult(report.FatigueFor(muscles))
}

func (h *handlers) getConditionScore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, toolErr := h.report(ctx, req, "get_condition_score")
	if toolErr != nil {
		return toolErr, nil
	}
	return jsonResult(map[string]any{
		"condition": report.Condition,
		"baseline":  report.Baseline,
	})
}

func (h *handlers) getWorkoutSuggestion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, toolErr := h.report(ctx, req, "get_workout_suggestion")
	if toolErr != nil {
		return toolErr, nil
	}
	return jsonResult(report.Recommendation)
}

func (h *handlers) getRecoveryModifiers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, toolErr := h.report(ctx, req, "get_recovery_modifiers")
	if toolErr != nil {
		return toolErr, nil
	}
	return jsonResult(report.Modifiers)
}
