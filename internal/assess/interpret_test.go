package assess_test

import (
	"reflect"
	"testing"

	"github.com/nyashahama/ecmo-advisor-backend/internal/assess"
)

const goodReply = `{
	"eligible": true,
	"diagnosis": "Severe ARDS with refractory hypoxaemia",
	"evidence": "P/F ratio of 70 despite optimal ventilation",
	"confidence": 0.85,
	"supportReasons": ["young patient", "reversible cause"],
	"opposeReasons": ["coagulopathy risk"],
	"finalRecommendation": "recommended",
	"recommendations": ["initiate VV-ECMO", "transfer to ECMO centre"],
	"contraindications": "none identified",
	"precautions": "monitor anticoagulation"
}`

// ─── Interpret — acceptance ──────────────────────────────────────────────────

func TestInterpret_WellFormedReply(t *testing.T) {
	n, ok := assess.Interpret(goodReply)
	if !ok {
		t.Fatal("expected interpretation to be accepted")
	}

	if !n.Eligible {
		t.Error("eligible: got false, want true")
	}
	if n.Diagnosis != "Severe ARDS with refractory hypoxaemia" {
		t.Errorf("diagnosis: got %q", n.Diagnosis)
	}
	if n.Evidence != "P/F ratio of 70 despite optimal ventilation" {
		t.Errorf("evidence: got %q", n.Evidence)
	}
	if n.Confidence != 0.85 {
		t.Errorf("confidence: got %v, want 0.85", n.Confidence)
	}
	if n.FinalRecommendation != "recommended" {
		t.Errorf("finalRecommendation: got %q", n.FinalRecommendation)
	}
	if want := []string{"young patient", "reversible cause"}; !reflect.DeepEqual(n.SupportReasons, want) {
		t.Errorf("supportReasons: got %v, want %v", n.SupportReasons, want)
	}
	if want := []string{"coagulopathy risk"}; !reflect.DeepEqual(n.OpposeReasons, want) {
		t.Errorf("opposeReasons: got %v, want %v", n.OpposeReasons, want)
	}
	if want := []string{"initiate VV-ECMO", "transfer to ECMO centre"}; !reflect.DeepEqual(n.Recommendations, want) {
		t.Errorf("recommendations: got %v, want %v", n.Recommendations, want)
	}
}

func TestInterpret_MarkdownFencedReply(t *testing.T) {
	n, ok := assess.Interpret("```json\n" + goodReply + "\n```")
	if !ok {
		t.Fatal("expected fenced reply to be accepted")
	}
	if n.Diagnosis != "Severe ARDS with refractory hypoxaemia" {
		t.Errorf("diagnosis: got %q", n.Diagnosis)
	}
}

func TestInterpret_ReplyWrappedInProse(t *testing.T) {
	raw := "Based on my analysis of the patient, here is my assessment:\n\n" +
		goodReply + "\n\nPlease consult the clinical team before proceeding."
	n, ok := assess.Interpret(raw)
	if !ok {
		t.Fatal("expected prose-wrapped reply to be accepted")
	}
	if n.Confidence != 0.85 {
		t.Errorf("confidence: got %v", n.Confidence)
	}
}

func TestInterpret_EligibleFalse(t *testing.T) {
	raw := `{"eligible": false, "diagnosis": "irreversible end-stage disease", "confidence": 0.9}`
	n, ok := assess.Interpret(raw)
	if !ok {
		t.Fatal("expected acceptance")
	}
	if n.Eligible {
		t.Error("eligible: got true, want false")
	}
}

// ─── Interpret — rejection ───────────────────────────────────────────────────

func TestInterpret_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty input", ""},
		{"plain prose, no JSON keys", "The patient appears to be a reasonable ECMO candidate."},
		{"missing diagnosis key", `{"eligible": true, "confidence": 0.9}`},
		{"empty diagnosis", `{"diagnosis": ""}`},
		{"whitespace diagnosis", `{"diagnosis": "   "}`},
		{"ellipsis placeholder", `{"diagnosis": "..."}`},
		{"n/a placeholder", `{"diagnosis": "N/A"}`},
		{"null placeholder", `{"diagnosis": "null"}`},
		{"not provided placeholder", `{"diagnosis": "Not Provided"}`},
		{"schema template echoed back", `{"diagnosis": "Detailed diagnostic analysis of the patient"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := assess.Interpret(tt.raw); ok {
				t.Error("expected interpretation to be rejected")
			}
		})
	}
}

// ─── Interpret — graceful degradation ────────────────────────────────────────

func TestInterpret_MissingConfidenceDefaultsToNeutral(t *testing.T) {
	n, ok := assess.Interpret(`{"diagnosis": "severe cardiogenic shock"}`)
	if !ok {
		t.Fatal("expected acceptance")
	}
	if n.Confidence != 0.8 {
		t.Errorf("confidence: got %v, want the 0.8 default", n.Confidence)
	}
}

func TestInterpret_ConfidenceClampedToOne(t *testing.T) {
	n, ok := assess.Interpret(`{"diagnosis": "severe cardiogenic shock", "confidence": 95}`)
	if !ok {
		t.Fatal("expected acceptance")
	}
	if n.Confidence != 1 {
		t.Errorf("confidence: got %v, want 1", n.Confidence)
	}
}

func TestInterpret_UnresolvedScalarsGetDefaults(t *testing.T) {
	n, ok := assess.Interpret(`{"diagnosis": "severe cardiogenic shock"}`)
	if !ok {
		t.Fatal("expected acceptance")
	}
	if n.Evidence != "no supporting evidence provided" {
		t.Errorf("evidence default: got %q", n.Evidence)
	}
	if n.FinalRecommendation != "cautious evaluation" {
		t.Errorf("finalRecommendation default: got %q", n.FinalRecommendation)
	}
	if n.Contraindications != "contraindications not specified" {
		t.Errorf("contraindications default: got %q", n.Contraindications)
	}
	if n.Precautions != "precautions not specified" {
		t.Errorf("precautions default: got %q", n.Precautions)
	}
}

func TestInterpret_UnresolvedListsGetDefaults(t *testing.T) {
	n, ok := assess.Interpret(`{"diagnosis": "severe cardiogenic shock"}`)
	if !ok {
		t.Fatal("expected acceptance")
	}
	for name, list := range map[string][]string{
		"supportReasons":  n.SupportReasons,
		"opposeReasons":   n.OpposeReasons,
		"recommendations": n.Recommendations,
	} {
		if len(list) == 0 {
			t.Errorf("%s: expected default items, got none", name)
		}
	}
}

func TestInterpret_EmptyListFallsBackToDefaults(t *testing.T) {
	// A present-but-empty bracket span yields no recoverable items and is
	// treated the same as an absent key.
	n, ok := assess.Interpret(`{"diagnosis": "shock", "supportReasons": []}`)
	if !ok {
		t.Fatal("expected acceptance")
	}
	if len(n.SupportReasons) == 0 {
		t.Error("expected default support reasons for empty list")
	}
}

func TestInterpret_ListItemsTrimmed(t *testing.T) {
	raw := `{"diagnosis": "shock", "recommendations": [ "  first item " ,  "second item"]}`
	n, ok := assess.Interpret(raw)
	if !ok {
		t.Fatal("expected acceptance")
	}
	want := []string{"first item", "second item"}
	if !reflect.DeepEqual(n.Recommendations, want) {
		t.Errorf("recommendations: got %v, want %v", n.Recommendations, want)
	}
}
