package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/claude/recovery/internal/analysis"
	"github.com/claude/recovery/internal/catalog"
	"github.com/claude/recovery/internal/ingest/hae"
	"github.com/claude/recovery/internal/metrics"
	"github.com/claude/recovery/internal/models"
)

func (s *Server) handleHAEIngest(w http.ResponseWriter, r *http.Request) {
	var payload hae.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	result, err := s.ingest.HAE.Ingest(r.Context(), &payload, s.userID)
	if err != nil {
		s.log.Error("ingest error", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleFileIngest(source string, p FileIngester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := p.Ingest(r.Context(), r.Body, s.userID)
		if err != nil {
			s.log.Error("file ingest error", "source", source, "error", err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ref, err := parseReference(r, s.reporter.Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var sig analysis.Signals
	if err := json.NewDecoder(r.Body).Decode(&sig); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.reporter.Analyze(sig, ref))
}

func (s *Server) handleUpsertExercise(w http.ResponseWriter, r *http.Request) {
	if s.editor == nil {
		writeError(w, http.StatusNotImplemented, "catalog editing disabled")
		return
	}
	var d models.ExerciseDefinition
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := s.editor.UpsertExercise(r.Context(), d); err != nil {
		if errors.Is(err, catalog.ErrInvalidExercise) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error("catalog upsert error", "exercise", d.ID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

// report builds the report for the request's reference instant. It writes
// the error response itself and reports whether the caller should go on.
func (s *Server) report(w http.ResponseWriter, r *http.Request) (analysis.Report, bool) {
	ref, err := parseReference(r, s.reporter.Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return analysis.Report{}, false
	}
	report, err := s.reporter.Report(r.Context(), ref)
	if err != nil {
		s.log.Error("building report", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return analysis.Report{}, false
	}
	return report, true
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if report, ok := s.report(w, r); ok {
		writeJSON(w, http.StatusOK, report)
	}
}

func (s *Server) handleFatigue(w http.ResponseWriter, r *http.Request) {
	muscles, rejected := models.ParseMuscleList(r.URL.Query().Get("muscles"))
	if len(rejected) > 0 {
		writeError(w, http.StatusBadRequest, "unknown muscle groups: "+strings.Join(rejected, ", "))
		return
	}
	if report, ok := s.report(w, r); ok {
		writeJSON(w, http.StatusOK, report.FatigueFor(muscles))
	}
}

func (s *Server) handleCondition(w http.ResponseWriter, r *http.Request) {
	report, ok := s.report(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"condition": report.Condition,
		"baseline":  report.Baseline,
	})
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	if report, ok := s.report(w, r); ok {
		writeJSON(w, http.StatusOK, report.Recommendation)
	}
}

func (s *Server) handleModifiers(w http.ResponseWriter, r *http.Request) {
	if report, ok := s.report(w, r); ok {
		writeJSON(w, http.StatusOK, report.Modifiers)
	}
}

type muscleInfo struct {
	Muscle            models.MuscleGroup `json:"muscle"`
	Size              string             `json:"size"`
	BaseRecoveryHours float64            `json:"base_recovery_hours"`
}

func (s *Server) handleMuscles(w http.ResponseWriter, r *http.Request) {
	out := make([]muscleInfo, 0, len(models.AllMuscleGroups))
	for _, m := range models.AllMuscleGroups {
		out = append(out, muscleInfo{Muscle: m, Size: m.Size().String(), BaseRecoveryHours: m.BaseRecoveryHours()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	report, ok := s.report(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", string(metrics.Format))
	if err := metrics.Write(w, report); err != nil {
		s.log.Error("writing metrics", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseReference reads the optional "at" query parameter: an RFC3339
// instant, or a date meaning the last second of that local day. No value
// returns the zero time, which reporters treat as now.
func parseReference(r *http.Request, loc *time.Location) (time.Time, error) {
	v := r.URL.Query().Get("at")
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation(time.DateOnly, v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid at %q: want RFC3339 or YYYY-MM-DD", v)
	}
	return day.AddDate(0, 0, 1).Add(-time.Second), nil
}
