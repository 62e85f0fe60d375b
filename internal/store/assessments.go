package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"

	"github.com/nyashahama/ecmo-advisor-backend/internal/assess"
	"github.com/nyashahama/ecmo-advisor-backend/internal/db"
	"github.com/nyashahama/ecmo-advisor-backend/internal/scoring"
)

// assessmentDetails is the JSONB payload carrying everything that does not
// get its own column: narrative lists, key risk factors, the guideline map
// and the display sub-scores.
type assessmentDetails struct {
	SupportReasons      []string          `json:"supportReasons"`
	OpposeReasons       []string          `json:"opposeReasons"`
	Recommendations     []string          `json:"recommendations"`
	KeyRiskFactors      []string          `json:"keyRiskFactors"`
	GuidelineReferences map[string]string `json:"guidelineReferences"`
	DetailedScores      map[string]string `json:"detailedScores"`
}

// SaveAssessment persists a completed assessment: the full row and its
// history summary are written in one transaction so a patient's history
// never references a missing assessment.
func (s *Store) SaveAssessment(ctx context.Context, a assess.Assessment) error {
	id, err := uuid.Parse(a.AssessmentID)
	if err != nil {
		return fmt.Errorf("SaveAssessment: parse assessment id %q: %w", a.AssessmentID, err)
	}

	details, err := json.Marshal(assessmentDetails{
		SupportReasons:      a.SupportReasons,
		OpposeReasons:       a.OpposeReasons,
		Recommendations:     a.Recommendations,
		KeyRiskFactors:      a.KeyRiskFactors,
		GuidelineReferences: a.GuidelineReferences,
		DetailedScores:      a.DetailedScores,
	})
	if err != nil {
		return fmt.Errorf("SaveAssessment: marshal details: %w", err)
	}

	return s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		if err := q.InsertAssessment(ctx, db.InsertAssessmentParams{
			ID:                  id,
			PatientID:           a.PatientID,
			Eligible:            a.Eligible,
			Score:               a.Score,
			Confidence:          a.Confidence,
			RiskTier:            string(a.RiskTier),
			RiskColor:           a.RiskColor,
			Diagnosis:           a.Diagnosis,
			Evidence:            a.Evidence,
			FinalRecommendation: a.FinalRecommendation,
			Contraindications:   a.Contraindications,
			Precautions:         a.Precautions,
			Details:             pqtype.NullRawMessage{RawMessage: details, Valid: true},
			CreatedAt:           a.AssessmentTime,
		}); err != nil {
			return err
		}

		return q.InsertHistoryEntry(ctx, db.InsertHistoryEntryParams{
			AssessmentID:        id,
			PatientID:           a.PatientID,
			Eligible:            a.Eligible,
			Score:               a.Score,
			Confidence:          a.Confidence,
			RiskTier:            string(a.RiskTier),
			FinalRecommendation: a.FinalRecommendation,
			CreatedAt:           a.AssessmentTime,
		})
	})
}

// AssessmentFromRow rebuilds the full decision artifact from its stored row.
func AssessmentFromRow(row db.AssessmentRow) (assess.Assessment, error) {
	a := assess.Assessment{
		AssessmentID:        row.ID.String(),
		PatientID:           row.PatientID,
		Eligible:            row.Eligible,
		Score:               row.Score,
		Confidence:          row.Confidence,
		Diagnosis:           row.Diagnosis,
		Evidence:            row.Evidence,
		FinalRecommendation: row.FinalRecommendation,
		Contraindications:   row.Contraindications,
		Precautions:         row.Precautions,
		RiskTier:            scoring.Tier(row.RiskTier),
		RiskColor:           row.RiskColor,
		AssessmentTime:      row.CreatedAt,
	}

	if row.Details.Valid {
		var details assessmentDetails
		if err := json.Unmarshal(row.Details.RawMessage, &details); err != nil {
			return assess.Assessment{}, fmt.Errorf("AssessmentFromRow: unmarshal details: %w", err)
		}
		a.SupportReasons = details.SupportReasons
		a.OpposeReasons = details.OpposeReasons
		a.Recommendations = details.Recommendations
		a.KeyRiskFactors = details.KeyRiskFactors
		a.GuidelineReferences = details.GuidelineReferences
		a.DetailedScores = details.DetailedScores
	}

	return a, nil
}
