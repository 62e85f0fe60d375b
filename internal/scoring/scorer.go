// Package scoring implements the deterministic ECMO candidacy index. It is
// intentionally dependency-free: it imports nothing from internal/ and can be
// tested without a database or an AI provider.
package scoring

// ─── TIERS ────────────────────────────────────────────────────────────────────

// Tier is the coarse recommendation bucket derived from the candidacy index.
type Tier string

const (
	TierHigh   Tier = "high"   // index >= 80 — strong candidate
	TierMedium Tier = "medium" // 60 <= index < 80 — cautious recommendation
	TierLow    Tier = "low"    // index < 60 — not recommended

	// TierError is never produced by TierFor. It marks assessments where the
	// AI consultation itself failed and the system could not evaluate.
	TierError Tier = "error"
)

// TierFor maps a candidacy index to its recommendation tier.
func TierFor(score float64) Tier {
	switch {
	case score >= 80:
		return TierHigh
	case score >= 60:
		return TierMedium
	default:
		return TierLow
	}
}

// Color returns the traffic-light colour shown next to the tier in the UI.
func (t Tier) Color() string {
	switch t {
	case TierHigh:
		return "green"
	case TierMedium:
		return "yellow"
	case TierLow:
		return "red"
	default:
		return "gray"
	}
}

// Label returns the human-readable recommendation phrase for the tier, used
// in the consultation prompt.
func (t Tier) Label() string {
	switch t {
	case TierHigh:
		return "strongly recommended (green zone)"
	case TierMedium:
		return "cautiously recommended (yellow zone)"
	case TierLow:
		return "not recommended (red zone)"
	default:
		return "unable to evaluate"
	}
}

// ─── RISK FACTOR TAGS ─────────────────────────────────────────────────────────

// NoRiskFactors is the single tag substituted when no deduction rule fired.
const NoRiskFactors = "no significant risk factors"

// ─── SCORER ───────────────────────────────────────────────────────────────────

// clamp constrains the candidacy index to [0, 100].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ComputeScore calculates the ECMO candidacy index for a patient.
//
// The index starts at 100 and each of six factor groups deducts points when
// its field is present and crosses a severity threshold. Within a group only
// the more severe matching threshold deducts — thresholds never stack for the
// same factor. Absent fields deduct nothing and fire no rule.
//
// The returned slice lists the fired deduction rules in evaluation order;
// callers display it verbatim as the key risk factors. The function is pure:
// identical input yields identical output, and deductions from independent
// groups stack without any cap other than the final [0, 100] clamp.
func ComputeScore(p *PatientParameters) (float64, []string) {
	score := 100.0
	var fired []string

	deduct := func(points float64, tag string) {
		score -= points
		fired = append(fired, tag)
	}

	// Age (max deduction 20)
	if p.Age != nil {
		switch {
		case *p.Age > 70:
			deduct(20, "age > 70 (-20)")
		case *p.Age > 65:
			deduct(10, "age > 65 (-10)")
		}
	}

	// Duration of cardiopulmonary failure (max deduction 15)
	if p.IllnessDuration != nil {
		switch {
		case *p.IllnessDuration > 7:
			deduct(15, "cardiopulmonary failure > 7 days (-15)")
		case *p.IllnessDuration > 5:
			deduct(8, "cardiopulmonary failure > 5 days (-8)")
		}
	}

	// Oxygenation index (max deduction 25)
	if p.PO2FiO2Ratio != nil {
		switch {
		case *p.PO2FiO2Ratio < 80:
			deduct(25, "P/F ratio < 80 (-25)")
		case *p.PO2FiO2Ratio < 100:
			deduct(15, "P/F ratio < 100 (-15)")
		}
	}

	// Cardiac function (max deduction 20)
	if p.EjectionFraction != nil {
		switch {
		case *p.EjectionFraction < 20:
			deduct(20, "ejection fraction < 20% (-20)")
		case *p.EjectionFraction < 30:
			deduct(10, "ejection fraction < 30% (-10)")
		}
	}

	// Lactate (max deduction 15)
	if p.Lactate != nil {
		switch {
		case *p.Lactate > 10:
			deduct(15, "lactate > 10 mmol/L (-15)")
		case *p.Lactate > 5:
			deduct(8, "lactate > 5 mmol/L (-8)")
		}
	}

	// Renal function (max deduction 10)
	if p.Creatinine != nil {
		switch {
		case *p.Creatinine > 300:
			deduct(10, "creatinine > 300 µmol/L (-10)")
		case *p.Creatinine > 200:
			deduct(5, "creatinine > 200 µmol/L (-5)")
		}
	}

	return clamp(score), fired
}

// KeyRiskFactors normalises a fired-rule list for display: an empty list is
// replaced by the single NoRiskFactors tag.
func KeyRiskFactors(fired []string) []string {
	if len(fired) == 0 {
		return []string{NoRiskFactors}
	}
	return fired
}
