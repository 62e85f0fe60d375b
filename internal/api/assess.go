package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nyashahama/ecmo-advisor-backend/internal/assess"
	"github.com/nyashahama/ecmo-advisor-backend/internal/scoring"
)

// ─── RESPONSE SHAPES ─────────────────────────────────────────────────────────

// riskAssessmentBlock is the dynamic-risk-score section of the response.
type riskAssessmentBlock struct {
	RiskScore      float64      `json:"riskScore"`
	RiskTier       scoring.Tier `json:"riskTier"`
	RiskColor      string       `json:"riskColor"`
	KeyRiskFactors []string     `json:"keyRiskFactors"`
}

// decisionCardBlock is the decision-support section of the response.
type decisionCardBlock struct {
	SupportReasons      []string          `json:"supportReasons"`
	OpposeReasons       []string          `json:"opposeReasons"`
	FinalRecommendation string            `json:"finalRecommendation"`
	GuidelineReferences map[string]string `json:"guidelineReferences"`
}

// assessResponse is the enhanced envelope returned by POST /assess: the four
// core outputs first, then the risk-score and decision-card blocks, then the
// remaining detail fields.
type assessResponse struct {
	Success      bool   `json:"success"`
	AssessmentID string `json:"assessmentId"`
	PatientID    string `json:"patientId"`

	ECMOResult string  `json:"ecmoResult"`
	Diagnosis  string  `json:"diagnosis"`
	Evidence   string  `json:"evidence"`
	Confidence float64 `json:"confidence"`

	RiskAssessment riskAssessmentBlock `json:"riskAssessment"`
	DecisionCard   decisionCardBlock   `json:"decisionCard"`

	Recommendations   []string          `json:"recommendations"`
	Contraindications string            `json:"contraindications"`
	Precautions       string            `json:"precautions"`
	DetailedScores    map[string]string `json:"detailedScores"`
	AssessmentTime    time.Time         `json:"assessmentTime"`
}

// ─── HANDLER ─────────────────────────────────────────────────────────────────

// handleAssess runs one full evaluation. The engine never fails — a broken AI
// consultation comes back as the error-tier assessment — so the only 4xx
// paths here are a malformed body and invalid field values.
//
// POST /api/ecmo/assess
func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	var patient scoring.PatientParameters
	if !decode(w, r, &patient) {
		return
	}

	if err := s.validate.Struct(patient); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			respondErr(w, http.StatusBadRequest, "invalid patient parameters: "+validationMessage(verrs))
			return
		}
		s.respondInternalErr(w, r, err)
		return
	}

	if strings.TrimSpace(patient.PatientID) == "" {
		patient.PatientID = fmt.Sprintf("PATIENT_%d", time.Now().UnixMilli())
	}

	assessment := s.engine.Evaluate(r.Context(), &patient)
	assessment.AssessmentID = uuid.NewString()

	// Archive off the response path. A full queue loses the archive copy,
	// not the evaluation — log and answer the caller anyway.
	if err := s.worker.Enqueue(r.Context(), assessment); err != nil {
		s.logger.Warn("assess: could not enqueue assessment for archival",
			"assessment_id", assessment.AssessmentID,
			"error", err,
		)
	}

	respond(w, http.StatusOK, toAssessResponse(assessment))
}

func toAssessResponse(a assess.Assessment) assessResponse {
	result := "not recommended"
	if a.Eligible {
		result = "recommended"
	}

	return assessResponse{
		Success:      true,
		AssessmentID: a.AssessmentID,
		PatientID:    a.PatientID,

		ECMOResult: result,
		Diagnosis:  a.Diagnosis,
		Evidence:   a.Evidence,
		Confidence: a.Confidence,

		RiskAssessment: riskAssessmentBlock{
			RiskScore:      a.Score,
			RiskTier:       a.RiskTier,
			RiskColor:      a.RiskColor,
			KeyRiskFactors: a.KeyRiskFactors,
		},
		DecisionCard: decisionCardBlock{
			SupportReasons:      a.SupportReasons,
			OpposeReasons:       a.OpposeReasons,
			FinalRecommendation: a.FinalRecommendation,
			GuidelineReferences: a.GuidelineReferences,
		},

		Recommendations:   a.Recommendations,
		Contraindications: a.Contraindications,
		Precautions:       a.Precautions,
		DetailedScores:    a.DetailedScores,
		AssessmentTime:    a.AssessmentTime,
	}
}

// validationMessage flattens validator errors into a single readable line.
func validationMessage(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s fails %q", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
