package scoring_test

import (
	"reflect"
	"testing"

	"github.com/nyashahama/ecmo-advisor-backend/internal/scoring"
)

func iptr(v int) *int         { return &v }
func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

// ─── ComputeScore — full profiles ────────────────────────────────────────────

func TestComputeScore_WorstCaseProfileClampsToZero(t *testing.T) {
	// Every group fires at its severe threshold: 20+15+25+20+15+10 = 105
	// deducted from 100, clamped to 0.
	p := &scoring.PatientParameters{
		PatientID:        "PATIENT_001",
		Age:              iptr(75),
		IllnessDuration:  iptr(8),
		PO2FiO2Ratio:     fptr(70),
		EjectionFraction: fptr(15),
		Lactate:          fptr(12),
		Creatinine:       fptr(350),
	}

	score, fired := scoring.ComputeScore(p)
	if score != 0 {
		t.Errorf("score = %v, want 0", score)
	}
	if len(fired) != 6 {
		t.Fatalf("expected 6 fired rules, got %d: %v", len(fired), fired)
	}

	wantOrder := []string{
		"age > 70 (-20)",
		"cardiopulmonary failure > 7 days (-15)",
		"P/F ratio < 80 (-25)",
		"ejection fraction < 20% (-20)",
		"lactate > 10 mmol/L (-15)",
		"creatinine > 300 µmol/L (-10)",
	}
	if !reflect.DeepEqual(fired, wantOrder) {
		t.Errorf("fired rules:\n got %v\nwant %v", fired, wantOrder)
	}

	if got := scoring.TierFor(score); got != scoring.TierLow {
		t.Errorf("tier = %q, want %q", got, scoring.TierLow)
	}
}

func TestComputeScore_HealthyProfileScoresFull(t *testing.T) {
	p := &scoring.PatientParameters{
		PatientID:        "PATIENT_002",
		Age:              iptr(45),
		IllnessDuration:  iptr(2),
		PO2FiO2Ratio:     fptr(250),
		EjectionFraction: fptr(55),
		Lactate:          fptr(1.5),
		Creatinine:       fptr(80),
	}

	score, fired := scoring.ComputeScore(p)
	if score != 100 {
		t.Errorf("score = %v, want 100", score)
	}
	if len(fired) != 0 {
		t.Errorf("expected no fired rules, got %v", fired)
	}

	if got := scoring.TierFor(score); got != scoring.TierHigh {
		t.Errorf("tier = %q, want %q", got, scoring.TierHigh)
	}
	if got := scoring.KeyRiskFactors(fired); !reflect.DeepEqual(got, []string{scoring.NoRiskFactors}) {
		t.Errorf("key risk factors = %v, want [%q]", got, scoring.NoRiskFactors)
	}
}

func TestComputeScore_AbsentFieldsDeductNothing(t *testing.T) {
	score, fired := scoring.ComputeScore(&scoring.PatientParameters{PatientID: "PATIENT_003"})
	if score != 100 {
		t.Errorf("score = %v, want 100", score)
	}
	if len(fired) != 0 {
		t.Errorf("expected no fired rules, got %v", fired)
	}
}

func TestComputeScore_Deterministic(t *testing.T) {
	p := &scoring.PatientParameters{
		Age:          iptr(68),
		Lactate:      fptr(6),
		PO2FiO2Ratio: fptr(95),
	}
	s1, f1 := scoring.ComputeScore(p)
	s2, f2 := scoring.ComputeScore(p)
	if s1 != s2 {
		t.Errorf("scores differ between calls: %v vs %v", s1, s2)
	}
	if !reflect.DeepEqual(f1, f2) {
		t.Errorf("fired rules differ between calls: %v vs %v", f1, f2)
	}
}

// ─── ComputeScore — per-factor thresholds ────────────────────────────────────

func TestComputeScore_FactorThresholds(t *testing.T) {
	tests := []struct {
		name      string
		patient   scoring.PatientParameters
		wantScore float64
		wantRule  string
	}{
		{"age severe", scoring.PatientParameters{Age: iptr(71)}, 80, "age > 70 (-20)"},
		{"age moderate", scoring.PatientParameters{Age: iptr(66)}, 90, "age > 65 (-10)"},
		{"age 70 exactly is moderate", scoring.PatientParameters{Age: iptr(70)}, 90, "age > 65 (-10)"},
		{"age 65 exactly fires nothing", scoring.PatientParameters{Age: iptr(65)}, 100, ""},

		{"duration severe", scoring.PatientParameters{IllnessDuration: iptr(8)}, 85, "cardiopulmonary failure > 7 days (-15)"},
		{"duration moderate", scoring.PatientParameters{IllnessDuration: iptr(6)}, 92, "cardiopulmonary failure > 5 days (-8)"},
		{"duration 5 exactly fires nothing", scoring.PatientParameters{IllnessDuration: iptr(5)}, 100, ""},

		{"oxygenation severe", scoring.PatientParameters{PO2FiO2Ratio: fptr(79)}, 75, "P/F ratio < 80 (-25)"},
		{"oxygenation moderate", scoring.PatientParameters{PO2FiO2Ratio: fptr(99)}, 85, "P/F ratio < 100 (-15)"},
		{"oxygenation 80 exactly is moderate", scoring.PatientParameters{PO2FiO2Ratio: fptr(80)}, 85, "P/F ratio < 100 (-15)"},
		{"oxygenation 100 exactly fires nothing", scoring.PatientParameters{PO2FiO2Ratio: fptr(100)}, 100, ""},

		{"ejection fraction severe", scoring.PatientParameters{EjectionFraction: fptr(19)}, 80, "ejection fraction < 20% (-20)"},
		{"ejection fraction moderate", scoring.PatientParameters{EjectionFraction: fptr(25)}, 90, "ejection fraction < 30% (-10)"},
		{"ejection fraction 30 exactly fires nothing", scoring.PatientParameters{EjectionFraction: fptr(30)}, 100, ""},

		{"lactate severe", scoring.PatientParameters{Lactate: fptr(10.5)}, 85, "lactate > 10 mmol/L (-15)"},
		{"lactate moderate", scoring.PatientParameters{Lactate: fptr(6)}, 92, "lactate > 5 mmol/L (-8)"},
		{"lactate 5 exactly fires nothing", scoring.PatientParameters{Lactate: fptr(5)}, 100, ""},

		{"creatinine severe", scoring.PatientParameters{Creatinine: fptr(301)}, 90, "creatinine > 300 µmol/L (-10)"},
		{"creatinine moderate", scoring.PatientParameters{Creatinine: fptr(250)}, 95, "creatinine > 200 µmol/L (-5)"},
		{"creatinine 200 exactly fires nothing", scoring.PatientParameters{Creatinine: fptr(200)}, 100, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, fired := scoring.ComputeScore(&tt.patient)
			if score != tt.wantScore {
				t.Errorf("score = %v, want %v", score, tt.wantScore)
			}
			if tt.wantRule == "" {
				if len(fired) != 0 {
					t.Errorf("expected no fired rules, got %v", fired)
				}
				return
			}
			if len(fired) != 1 || fired[0] != tt.wantRule {
				t.Errorf("fired = %v, want [%q]", fired, tt.wantRule)
			}
		})
	}
}

func TestComputeScore_ThresholdsWithinGroupNeverStack(t *testing.T) {
	// Age 75 satisfies both >70 and >65, but only the severe rule fires.
	score, fired := scoring.ComputeScore(&scoring.PatientParameters{Age: iptr(75)})
	if score != 80 {
		t.Errorf("score = %v, want 80", score)
	}
	if len(fired) != 1 {
		t.Errorf("expected exactly one fired rule, got %v", fired)
	}
}

func TestComputeScore_IndependentGroupsStack(t *testing.T) {
	// Two moderate deductions: -10 (age) and -8 (lactate).
	score, fired := scoring.ComputeScore(&scoring.PatientParameters{
		Age:     iptr(68),
		Lactate: fptr(7),
	})
	if score != 82 {
		t.Errorf("score = %v, want 82", score)
	}
	if len(fired) != 2 {
		t.Errorf("expected 2 fired rules, got %v", fired)
	}
}

func TestComputeScore_IgnoresNonScoringFields(t *testing.T) {
	// Fields outside the six factor groups never move the score.
	p := &scoring.PatientParameters{
		Gender:           sptr("F"),
		Weight:           fptr(48),
		PH:               fptr(6.9),
		PaO2:             fptr(40),
		Hemoglobin:       fptr(60),
		PrimaryDiagnosis: sptr("fulminant myocarditis"),
	}
	score, fired := scoring.ComputeScore(p)
	if score != 100 || len(fired) != 0 {
		t.Errorf("score = %v fired = %v, want 100 and none", score, fired)
	}
}

// ─── TierFor / Color / Label ─────────────────────────────────────────────────

func TestTierFor_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  scoring.Tier
	}{
		{100, scoring.TierHigh},
		{80, scoring.TierHigh},
		{79.9, scoring.TierMedium},
		{60, scoring.TierMedium},
		{59.9, scoring.TierLow},
		{0, scoring.TierLow},
	}
	for _, tt := range tests {
		if got := scoring.TierFor(tt.score); got != tt.want {
			t.Errorf("TierFor(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestTierColors(t *testing.T) {
	tests := []struct {
		tier scoring.Tier
		want string
	}{
		{scoring.TierHigh, "green"},
		{scoring.TierMedium, "yellow"},
		{scoring.TierLow, "red"},
		{scoring.TierError, "gray"},
	}
	for _, tt := range tests {
		if got := tt.tier.Color(); got != tt.want {
			t.Errorf("%q.Color() = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func TestTierErrorNeverProducedByTierFor(t *testing.T) {
	for score := 0.0; score <= 100; score += 0.5 {
		if scoring.TierFor(score) == scoring.TierError {
			t.Fatalf("TierFor(%v) produced the error tier", score)
		}
	}
}

// ─── KeyRiskFactors ──────────────────────────────────────────────────────────

func TestKeyRiskFactors_PassesFiredRulesThrough(t *testing.T) {
	fired := []string{"age > 70 (-20)", "lactate > 5 mmol/L (-8)"}
	if got := scoring.KeyRiskFactors(fired); !reflect.DeepEqual(got, fired) {
		t.Errorf("got %v, want %v", got, fired)
	}
}

func TestKeyRiskFactors_EmptyBecomesSentinel(t *testing.T) {
	for _, fired := range [][]string{nil, {}} {
		got := scoring.KeyRiskFactors(fired)
		if len(got) != 1 || got[0] != scoring.NoRiskFactors {
			t.Errorf("KeyRiskFactors(%v) = %v, want [%q]", fired, got, scoring.NoRiskFactors)
		}
	}
}
