package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// AssessmentRow mirrors the assessments table. The narrative lists, guideline
// references and detailed sub-scores travel together in the details JSONB
// column; the scalar columns exist so history queries and future reporting
// never need to unpack the blob.
type AssessmentRow struct {
	ID                  uuid.UUID
	PatientID           string
	Eligible            bool
	Score               float64
	Confidence          float64
	RiskTier            string
	RiskColor           string
	Diagnosis           string
	Evidence            string
	FinalRecommendation string
	Contraindications   string
	Precautions         string
	Details             pqtype.NullRawMessage
	CreatedAt           time.Time
}

// HistoryRow mirrors the assessment_history table: the summary slice of an
// assessment shown in a patient's history listing.
type HistoryRow struct {
	ID                  int64
	AssessmentID        uuid.UUID
	PatientID           string
	Eligible            bool
	Score               float64
	Confidence          float64
	RiskTier            string
	FinalRecommendation string
	CreatedAt           time.Time
}
