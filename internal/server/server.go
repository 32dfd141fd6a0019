// Package server is the REST API over the recovery engine.
package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/recovery/internal/analysis"
	"github.com/claude/recovery/internal/ingest"
	"github.com/claude/recovery/internal/ingest/hae"
	"github.com/claude/recovery/internal/models"
	"github.com/go-chi/chi/v5"
)

// Reporter builds reports for the configured user. analysis.Service
// implements it.
type Reporter interface {
	Report(ctx context.Context, ref time.Time) (analysis.Report, error)
	Analyze(sig analysis.Signals, ref time.Time) analysis.Report
	Location() *time.Location
}

// PayloadIngester stores Health Auto Export payloads.
type PayloadIngester interface {
	Ingest(ctx context.Context, payload *hae.Payload, userID int) (*ingest.Result, error)
}

// FileIngester stores an uploaded export file (Alpha CSV, FIT).
type FileIngester interface {
	Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error)
}

// CatalogEditor adds or replaces exercise definitions at runtime.
// catalog.Editor implements it.
type CatalogEditor interface {
	UpsertExercise(ctx context.Context, d models.ExerciseDefinition) error
}

// Ingesters groups the import providers. Nil providers leave their route
// unregistered.
type Ingesters struct {
	HAE   PayloadIngester
	Alpha FileIngester
	FIT   FileIngester
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	reporter Reporter
	ingest   Ingesters
	userID   int
	apiKey   string
	log      *slog.Logger
	whois    WhoIser
	editor   CatalogEditor
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(reporter Reporter, ingesters Ingesters, userID int, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		reporter: reporter,
		ingest:   ingesters,
		userID:   userID,
		apiKey:   apiKey,
		log:      log,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale identifies callers through the tailnet. Call before serving.
func (s *Server) SetTailscale(lc WhoIser) {
	s.whois = lc
}

// SetCatalogEditor enables POST /api/v1/exercises. Call before serving.
func (s *Server) SetCatalogEditor(ed CatalogEditor) {
	s.editor = ed
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	// Write endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/analyze", s.handleAnalyze)
		r.Post("/api/v1/exercises", s.handleUpsertExercise)
		if s.ingest.HAE != nil {
			r.Post("/api/v1/ingest", s.handleHAEIngest)
		}
		if s.ingest.Alpha != nil {
			r.Post("/api/v1/ingest/alpha", s.handleFileIngest("alpha", s.ingest.Alpha))
		}
		if s.ingest.FIT != nil {
			r.Post("/api/v1/ingest/fit", s.handleFileIngest("fit", s.ingest.FIT))
		}
	})

	// Read endpoints (no auth; tsnet handles access)
	s.router.Get("/api/v1/me", s.handleMe)
	s.router.Get("/api/v1/report", s.handleReport)
	s.router.Get("/api/v1/fatigue", s.handleFatigue)
	s.router.Get("/api/v1/condition", s.handleCondition)
	s.router.Get("/api/v1/recommendation", s.handleRecommendation)
	s.router.Get("/api/v1/modifiers", s.handleModifiers)
	s.router.Get("/api/v1/muscles", s.handleMuscles)
	s.router.Get("/metrics", s.handleMetrics)
}

func (s *Server) identity(next http.Handler) http.Handler {
	dev := DevIdentity(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.whois == nil {
			dev.ServeHTTP(w, r)
			return
		}
		TailscaleIdentity(s.whois, s.log)(next).ServeHTTP(w, r)
	})
}
