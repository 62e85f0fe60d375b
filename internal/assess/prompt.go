package assess

import (
	"fmt"
	"strings"

	"github.com/nyashahama/ecmo-advisor-backend/internal/scoring"
)

// BuildPrompt serialises the patient record and the computed candidacy index
// into the consultation request. Every present field appears under a labelled
// section; absent fields are omitted. The trailing schema block is a contract
// with Interpret — the JSON keys named there are exactly the keys the
// interpreter searches for.
func BuildPrompt(p *scoring.PatientParameters, score float64) string {
	var sb strings.Builder

	sb.WriteString("As a leading international ECMO expert, evaluate the following patient's candidacy for extracorporeal membrane oxygenation against the ELSO guidelines and national expert consensus standards.\n\n")

	sb.WriteString("[Patient Clinical Data]\n")
	fmt.Fprintf(&sb, "Patient ID: %s\n", p.PatientID)
	if p.Age != nil {
		fmt.Fprintf(&sb, "Age: %d years\n", *p.Age)
	} else {
		sb.WriteString("Age: not provided\n")
	}
	if p.Gender != nil {
		fmt.Fprintf(&sb, "Gender: %s\n", *p.Gender)
	} else {
		sb.WriteString("Gender: not provided\n")
	}

	sb.WriteString("\n[Vital Signs]\n")
	if p.HeartRate != nil {
		fmt.Fprintf(&sb, "Heart rate: %d bpm\n", *p.HeartRate)
	}
	if p.SystolicBP != nil && p.DiastolicBP != nil {
		fmt.Fprintf(&sb, "Blood pressure: %d/%d mmHg\n", *p.SystolicBP, *p.DiastolicBP)
	}
	if p.OxygenSaturation != nil {
		fmt.Fprintf(&sb, "Oxygen saturation: %.1f%%\n", *p.OxygenSaturation)
	}
	if p.RespiratoryRate != nil {
		fmt.Fprintf(&sb, "Respiratory rate: %d breaths/min\n", *p.RespiratoryRate)
	}
	if p.Temperature != nil {
		fmt.Fprintf(&sb, "Temperature: %.1f°C\n", *p.Temperature)
	}

	sb.WriteString("\n[Arterial Blood Gas]\n")
	if p.PH != nil {
		fmt.Fprintf(&sb, "pH: %.2f\n", *p.PH)
	}
	if p.PaO2 != nil {
		fmt.Fprintf(&sb, "PaO2: %.1f mmHg\n", *p.PaO2)
	}
	if p.PaCO2 != nil {
		fmt.Fprintf(&sb, "PaCO2: %.1f mmHg\n", *p.PaCO2)
	}
	if p.PO2FiO2Ratio != nil {
		fmt.Fprintf(&sb, "P/F ratio (oxygenation index): %.1f\n", *p.PO2FiO2Ratio)
	}
	if p.Lactate != nil {
		fmt.Fprintf(&sb, "Lactate: %.1f mmol/L\n", *p.Lactate)
	}
	if p.Bicarbonate != nil {
		fmt.Fprintf(&sb, "Bicarbonate: %.1f mmol/L\n", *p.Bicarbonate)
	}
	if p.BaseExcess != nil {
		fmt.Fprintf(&sb, "Base excess: %.1f mmol/L\n", *p.BaseExcess)
	}

	sb.WriteString("\n[Cardiopulmonary Function]\n")
	if p.EjectionFraction != nil {
		fmt.Fprintf(&sb, "Left ventricular ejection fraction (LVEF): %.1f%%\n", *p.EjectionFraction)
	}
	if p.CardiacIndex != nil {
		fmt.Fprintf(&sb, "Cardiac index: %s\n", *p.CardiacIndex)
	}

	sb.WriteString("\n[Diagnosis and Course]\n")
	if p.PrimaryDiagnosis != nil {
		fmt.Fprintf(&sb, "Primary diagnosis: %s\n", *p.PrimaryDiagnosis)
	}
	if p.SecondaryDiagnosis != nil {
		fmt.Fprintf(&sb, "Secondary diagnosis: %s\n", *p.SecondaryDiagnosis)
	}
	if p.IllnessDuration != nil {
		fmt.Fprintf(&sb, "Illness duration: %d days\n", *p.IllnessDuration)
	}
	if p.Comorbidities != nil {
		fmt.Fprintf(&sb, "Comorbidities: %s\n", *p.Comorbidities)
	}
	if p.CurrentTreatment != nil {
		fmt.Fprintf(&sb, "Current treatment: %s\n", *p.CurrentTreatment)
	}

	sb.WriteString("\n[Laboratory]\n")
	if p.Hemoglobin != nil {
		fmt.Fprintf(&sb, "Hemoglobin: %.1f g/L\n", *p.Hemoglobin)
	}
	if p.PlateletCount != nil {
		fmt.Fprintf(&sb, "Platelets: %.0f ×10⁹/L\n", *p.PlateletCount)
	}
	if p.Creatinine != nil {
		fmt.Fprintf(&sb, "Creatinine: %.1f µmol/L\n", *p.Creatinine)
	}
	if p.Bilirubin != nil {
		fmt.Fprintf(&sb, "Bilirubin: %.1f µmol/L\n", *p.Bilirubin)
	}

	sb.WriteString("\n[System Risk Score]\n")
	fmt.Fprintf(&sb, "ECMO candidacy index: %.1f/100\n", score)
	fmt.Fprintf(&sb, "Risk tier: %s\n", scoring.TierFor(score).Label())

	sb.WriteString("\n[Assessment Task]\n")
	sb.WriteString("Combine the clinical data above with the system score and provide a professional ECMO candidacy assessment.\n")
	sb.WriteString("Respond strictly in the following JSON format and omit no field:\n\n")
	sb.WriteString("```json\n")
	sb.WriteString(schemaBlock)
	sb.WriteString("```\n")
	sb.WriteString("\n[Important]\n")
	sb.WriteString("1. All narrative text must be detailed, professional and clinically actionable.\n")
	sb.WriteString("2. Support and oppose reasons must each rest on specific clinical evidence.\n")
	sb.WriteString("3. Recommendations must be concrete and feasible in practice.\n")
	sb.WriteString("4. Output strictly the JSON — no additional explanatory text.\n")

	return sb.String()
}

// schemaBlock is the exact output schema requested from the AI. The template
// values double as placeholder markers: if the model echoes them back,
// Interpret treats the answer as unresolved.
const schemaBlock = `{
  "eligible": true,
  "diagnosis": "detailed diagnostic analysis covering severity, cardiopulmonary status and prognosis, at least 100 words",
  "evidence": "specific supporting evidence: matching indication criteria, key indicator analysis, relevant guideline standards, at least 80 words",
  "confidence": 0.85,
  "supportReasons": [
    "specific reason supporting ECMO use 1 - detailed explanation",
    "specific reason supporting ECMO use 2 - detailed explanation",
    "specific reason supporting ECMO use 3 - detailed explanation"
  ],
  "opposeReasons": [
    "risk factor requiring attention 1 - detailed explanation",
    "risk factor requiring attention 2 - detailed explanation"
  ],
  "finalRecommendation": "recommended / cautious evaluation / not recommended",
  "recommendations": [
    "concrete clinical recommendation 1 - operational guidance",
    "concrete clinical recommendation 2 - monitoring requirements",
    "concrete clinical recommendation 3 - nursing priorities"
  ],
  "contraindications": "detailed contraindication analysis, absolute and relative",
  "precautions": "detailed precautions and risk-control measures"
}
`
