// Package assess implements the ECMO candidacy evaluation pipeline: score the
// patient, consult the AI specialist, interpret its free-text answer
// tolerantly, fall back to a synthesized narrative when interpretation fails,
// and assemble the final decision artifact. The pipeline holds no mutable
// state — every Evaluate call is an independent computation over its input.
package assess

import (
	"time"

	"github.com/nyashahama/ecmo-advisor-backend/internal/scoring"
)

// Narrative is the set of fields the AI consultation is asked to produce.
// It is filled either by interpreting the consultation text or, when that is
// rejected, by the deterministic synthesizer — never by a mixture of the two.
type Narrative struct {
	Eligible            bool
	Diagnosis           string
	Evidence            string
	Confidence          float64
	FinalRecommendation string
	Contraindications   string
	Precautions         string
	SupportReasons      []string
	OpposeReasons       []string
	Recommendations     []string
}

// Assessment is the completed decision artifact for one evaluation request.
// It is immutable once returned. RiskTier and RiskColor are a pure function
// of Score except on the consultation-failure path, which is the only way to
// reach the "error" tier.
type Assessment struct {
	AssessmentID string `json:"assessmentId,omitempty"`
	PatientID    string `json:"patientId"`

	Eligible   bool    `json:"eligible"`
	Score      float64 `json:"score"`      // candidacy index, always in [0, 100]
	Confidence float64 `json:"confidence"` // always in [0, 1]

	Diagnosis           string `json:"diagnosis"`
	Evidence            string `json:"evidence"`
	FinalRecommendation string `json:"finalRecommendation"`
	Contraindications   string `json:"contraindications"`
	Precautions         string `json:"precautions"`

	SupportReasons  []string `json:"supportReasons"`
	OpposeReasons   []string `json:"opposeReasons"`
	Recommendations []string `json:"recommendations"`

	// KeyRiskFactors lists exactly the deduction rules that fired in the
	// scorer, or the single "no significant risk factors" tag.
	KeyRiskFactors []string `json:"keyRiskFactors"`

	RiskTier  scoring.Tier `json:"riskTier"`
	RiskColor string       `json:"riskColor"`

	GuidelineReferences map[string]string `json:"guidelineReferences"`
	DetailedScores      map[string]string `json:"detailedScores"`

	AssessmentTime time.Time `json:"assessmentTime"`
}
