// Package api implements the HTTP layer for the ECMO advisor. Handlers are
// methods on *Server. Each handler file is responsible for one resource group
// and only imports the dependencies it actually uses.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/nyashahama/ecmo-advisor-backend/internal/assess"
	"github.com/nyashahama/ecmo-advisor-backend/internal/db"
	"github.com/nyashahama/ecmo-advisor-backend/internal/scoring"
	"github.com/nyashahama/ecmo-advisor-backend/internal/worker"
)

// Evaluator is the single entry point the HTTP layer needs from the
// assessment engine. *assess.Engine satisfies it; tests inject a stub.
type Evaluator interface {
	Evaluate(ctx context.Context, p *scoring.PatientParameters) assess.Assessment
}

// Config holds values read from environment variables at startup.
type Config struct {
	// Env is "production", "staging", or "development".
	Env string
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// q handles all single-query reads. Injected directly — no repo wrapper.
	q db.Querier

	// engine runs the evaluation pipeline.
	engine Evaluator

	// worker archives completed assessments off the response path.
	worker worker.Enqueuer

	// validate checks the decoded patient record before evaluation.
	validate *validator.Validate

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(
	q db.Querier,
	engine Evaluator,
	enqueuer worker.Enqueuer,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	s := &Server{
		q:        q,
		engine:   engine,
		worker:   enqueuer,
		validate: validator.New(),
		cfg:      cfg,
		logger:   logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)
	r.Use(middleware.Timeout(120 * time.Second)) // the AI consultation can be slow

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// ── ECMO assessment API ───────────────────────────────────────────────────
	r.Route("/api/ecmo", func(r chi.Router) {
		r.Post("/assess", s.handleAssess)
		r.Get("/report/{assessmentID}", s.handleGetReport)
		r.Get("/risk-analysis/{assessmentID}", s.handleRiskAnalysis)
		r.Get("/decision-support/{assessmentID}", s.handleDecisionSupport)
		r.Get("/assessments/{patientID}", s.handleAssessmentHistory)
		r.Get("/health", s.handleHealth)
	})

	return r
}
