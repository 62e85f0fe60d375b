package assess

import (
	"fmt"
	"time"

	"github.com/nyashahama/ecmo-advisor-backend/internal/scoring"
)

// ─── STATIC REFERENCES ────────────────────────────────────────────────────────

// guidelineReferences returns the fixed citation map attached to every
// assessment. A fresh copy is returned each call so one assessment's map can
// never be mutated through another.
func guidelineReferences() map[string]string {
	return map[string]string{
		"ELSO":          "Extracorporeal Life Support Organization (ELSO) General Guidelines, 2017 revision — adult cardiac and respiratory ECMO indication criteria",
		"China":         "Chinese Expert Consensus on Clinical Application of Extracorporeal Membrane Oxygenation (2018) — indications and contraindications",
		"Europe":        "European Society of Intensive Care Medicine ECMO guidance — management of patients in severe cardiopulmonary failure",
		"United States": "Society of Critical Care Medicine ECMO clinical practice guidance — patient selection criteria",
	}
}

// ─── DETAILED SUB-SCORES ──────────────────────────────────────────────────────
// Display-only auxiliary scores on smaller, independent threshold tables.
// They never feed back into the eligibility decision.

func ageSuitabilityScore(p *scoring.PatientParameters) int {
	if p.Age == nil {
		return 100
	}
	switch {
	case *p.Age > 70:
		return 60
	case *p.Age > 65:
		return 80
	case *p.Age < 18:
		return 70
	default:
		return 100
	}
}

func cardiopulmonaryScore(p *scoring.PatientParameters) int {
	if p.PO2FiO2Ratio == nil {
		return 50
	}
	switch {
	case *p.PO2FiO2Ratio >= 200:
		return 90
	case *p.PO2FiO2Ratio >= 150:
		return 80
	case *p.PO2FiO2Ratio >= 100:
		return 70
	case *p.PO2FiO2Ratio >= 80:
		return 60
	default:
		return 30
	}
}

func courseTimelinessScore(p *scoring.PatientParameters) int {
	if p.IllnessDuration == nil {
		return 90
	}
	switch {
	case *p.IllnessDuration > 10:
		return 40
	case *p.IllnessDuration > 7:
		return 60
	case *p.IllnessDuration > 5:
		return 80
	default:
		return 90
	}
}

func detailedScores(p *scoring.PatientParameters, score float64) map[string]string {
	return map[string]string{
		"overallIndex":            fmt.Sprintf("%.1f/100", score),
		"ageSuitability":          fmt.Sprintf("%d/100", ageSuitabilityScore(p)),
		"cardiopulmonaryFunction": fmt.Sprintf("%d/100", cardiopulmonaryScore(p)),
		"courseTimeliness":        fmt.Sprintf("%d/100", courseTimelinessScore(p)),
	}
}

// ─── ASSEMBLER ────────────────────────────────────────────────────────────────

// assemble combines the score, the fired deduction rules and the chosen
// narrative source into the final artifact. The key risk factors are taken
// from the scorer's fired rules verbatim — independent of whatever reasoning
// the narrative carries, so the two can be cross-checked.
func assemble(p *scoring.PatientParameters, score float64, fired []string, n Narrative, now time.Time) Assessment {
	tier := scoring.TierFor(score)

	return Assessment{
		PatientID:  p.PatientID,
		Eligible:   n.Eligible,
		Score:      score,
		Confidence: clampConfidence(n.Confidence),

		Diagnosis:           n.Diagnosis,
		Evidence:            n.Evidence,
		FinalRecommendation: n.FinalRecommendation,
		Contraindications:   n.Contraindications,
		Precautions:         n.Precautions,

		SupportReasons:  nonNil(n.SupportReasons),
		OpposeReasons:   nonNil(n.OpposeReasons),
		Recommendations: nonNil(n.Recommendations),
		KeyRiskFactors:  scoring.KeyRiskFactors(fired),

		RiskTier:  tier,
		RiskColor: tier.Color(),

		GuidelineReferences: guidelineReferences(),
		DetailedScores:      detailedScores(p, score),

		AssessmentTime: now,
	}
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// nonNil keeps list fields as empty slices rather than nulls in the encoded
// artifact.
func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
