package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const insertAssessment = `
INSERT INTO assessments (
	id, patient_id, eligible, score, confidence,
	risk_tier, risk_color, diagnosis, evidence,
	final_recommendation, contraindications, precautions,
	details, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
`

// InsertAssessmentParams carries one completed assessment into storage.
type InsertAssessmentParams struct {
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

func (q *Queries) InsertAssessment(ctx context.Context, arg InsertAssessmentParams) error {
	_, err := q.db.ExecContext(ctx, insertAssessment,
		arg.ID, arg.PatientID, arg.Eligible, arg.Score, arg.Confidence,
		arg.RiskTier, arg.RiskColor, arg.Diagnosis, arg.Evidence,
		arg.FinalRecommendation, arg.Contraindications, arg.Precautions,
		arg.Details, arg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("InsertAssessment: %w", err)
	}
	return nil
}

const insertHistoryEntry = `
INSERT INTO assessment_history (
	assessment_id, patient_id, eligible, score, confidence,
	risk_tier, final_recommendation, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// InsertHistoryEntryParams is the summary row written alongside every
// assessment.
type InsertHistoryEntryParams struct {
	AssessmentID        uuid.UUID
	PatientID           string
	Eligible            bool
	Score               float64
	Confidence          float64
	RiskTier            string
	FinalRecommendation string
	CreatedAt           time.Time
}

func (q *Queries) InsertHistoryEntry(ctx context.Context, arg InsertHistoryEntryParams) error {
	_, err := q.db.ExecContext(ctx, insertHistoryEntry,
		arg.AssessmentID, arg.PatientID, arg.Eligible, arg.Score, arg.Confidence,
		arg.RiskTier, arg.FinalRecommendation, arg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("InsertHistoryEntry: %w", err)
	}
	return nil
}

const getAssessmentByID = `
SELECT id, patient_id, eligible, score, confidence,
       risk_tier, risk_color, diagnosis, evidence,
       final_recommendation, contraindications, precautions,
       details, created_at
FROM assessments
WHERE id = $1
`

func (q *Queries) GetAssessmentByID(ctx context.Context, id uuid.UUID) (AssessmentRow, error) {
	var row AssessmentRow
	err := q.db.QueryRowContext(ctx, getAssessmentByID, id).Scan(
		&row.ID, &row.PatientID, &row.Eligible, &row.Score, &row.Confidence,
		&row.RiskTier, &row.RiskColor, &row.Diagnosis, &row.Evidence,
		&row.FinalRecommendation, &row.Contraindications, &row.Precautions,
		&row.Details, &row.CreatedAt,
	)
	return row, err
}

const listAssessmentsByPatient = `
SELECT id, assessment_id, patient_id, eligible, score, confidence,
       risk_tier, final_recommendation, created_at
FROM assessment_history
WHERE patient_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListAssessmentsByPatient(ctx context.Context, patientID string) ([]HistoryRow, error) {
	rows, err := q.db.QueryContext(ctx, listAssessmentsByPatient, patientID)
	if err != nil {
		return nil, fmt.Errorf("ListAssessmentsByPatient: %w", err)
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var row HistoryRow
		if err := rows.Scan(
			&row.ID, &row.AssessmentID, &row.PatientID, &row.Eligible,
			&row.Score, &row.Confidence, &row.RiskTier,
			&row.FinalRecommendation, &row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ListAssessmentsByPatient: scan: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListAssessmentsByPatient: rows: %w", err)
	}
	return out, nil
}
