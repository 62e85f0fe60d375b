package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nyashahama/ecmo-advisor-backend/internal/assess"
	"github.com/nyashahama/ecmo-advisor-backend/internal/store"
)

// fetchAssessment loads and decodes one stored assessment, writing the
// appropriate error response itself. The bool reports whether the caller may
// proceed.
func (s *Server) fetchAssessment(w http.ResponseWriter, r *http.Request) (assess.Assessment, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "assessmentID"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid assessment id")
		return assess.Assessment{}, false
	}

	row, err := s.q.GetAssessmentByID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		respondErr(w, http.StatusNotFound, "assessment not found")
		return assess.Assessment{}, false
	}
	if err != nil {
		s.respondInternalErr(w, r, err)
		return assess.Assessment{}, false
	}

	a, err := store.AssessmentFromRow(row)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return assess.Assessment{}, false
	}
	return a, true
}

// handleGetReport returns the full stored decision artifact.
//
// GET /api/ecmo/report/{assessmentID}
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	a, ok := s.fetchAssessment(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"success":    true,
		"assessment": a,
	})
}

// handleRiskAnalysis returns the risk-score slice of an assessment.
//
// GET /api/ecmo/risk-analysis/{assessmentID}
func (s *Server) handleRiskAnalysis(w http.ResponseWriter, r *http.Request) {
	a, ok := s.fetchAssessment(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"success":        true,
		"riskScore":      a.Score,
		"riskTier":       a.RiskTier,
		"riskColor":      a.RiskColor,
		"keyRiskFactors": a.KeyRiskFactors,
		"detailedScores": a.DetailedScores,
	})
}

// handleDecisionSupport returns the decision-card slice of an assessment.
//
// GET /api/ecmo/decision-support/{assessmentID}
func (s *Server) handleDecisionSupport(w http.ResponseWriter, r *http.Request) {
	a, ok := s.fetchAssessment(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"success":             true,
		"supportReasons":      a.SupportReasons,
		"opposeReasons":       a.OpposeReasons,
		"finalRecommendation": a.FinalRecommendation,
		"recommendations":     a.Recommendations,
		"guidelineReferences": a.GuidelineReferences,
		"contraindications":   a.Contraindications,
		"precautions":         a.Precautions,
	})
}

// assessmentSummary is one entry in a patient's history listing.
type assessmentSummary struct {
	AssessmentID        string    `json:"assessmentId"`
	PatientID           string    `json:"patientId"`
	Eligible            bool      `json:"eligible"`
	RiskScore           float64   `json:"riskScore"`
	Confidence          float64   `json:"confidence"`
	RiskTier            string    `json:"riskTier"`
	FinalRecommendation string    `json:"finalRecommendation"`
	AssessmentTime      time.Time `json:"assessmentTime"`
}

// handleAssessmentHistory lists a patient's assessment summaries, newest
// first.
//
// GET /api/ecmo/assessments/{patientID}
func (s *Server) handleAssessmentHistory(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")

	rows, err := s.q.ListAssessmentsByPatient(r.Context(), patientID)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	summaries := make([]assessmentSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, assessmentSummary{
			AssessmentID:        row.AssessmentID.String(),
			PatientID:           row.PatientID,
			Eligible:            row.Eligible,
			RiskScore:           row.Score,
			Confidence:          row.Confidence,
			RiskTier:            row.RiskTier,
			FinalRecommendation: row.FinalRecommendation,
			AssessmentTime:      row.CreatedAt,
		})
	}

	respond(w, http.StatusOK, map[string]any{
		"success":     true,
		"assessments": summaries,
	})
}

// handleHealth reports service status and feature set.
//
// GET /api/ecmo/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "ECMO Advisor",
		"version": "2.0",
		"features": []string{
			"core outputs", "dynamic risk scoring", "decision support card", "guideline references",
		},
		"timestamp": time.Now().UTC(),
	})
}
