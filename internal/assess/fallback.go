package assess

// Confidence constants for the synthesized narrative bands. These are
// documented constants, not calibrated probabilities.
const (
	confidenceHigh   = 0.9
	confidenceMedium = 0.75
	confidenceLow    = 0.8
)

// Synthesize deterministically produces a complete Narrative from the
// candidacy index alone. It is the correctness backstop of the pipeline,
// invoked both when the consultation text is rejected by Interpret and as
// the base of the error narrative. Three fixed bands — >=80, 60–79, <60 —
// each map to a pre-written field set; no required field is ever left empty.
// The medium band deliberately carries no oppose reasons.
func Synthesize(score float64) Narrative {
	switch {
	case score >= 80:
		return Narrative{
			Eligible:            true,
			Diagnosis:           "The patient's clinical indicators meet the ECMO indication criteria; the combined system assessment strongly recommends proceeding with ECMO support.",
			Evidence:            "Combined assessment of age, illness course, blood-gas values and cardiopulmonary function meets the thresholds recommended by the ELSO guidelines.",
			Confidence:          confidenceHigh,
			FinalRecommendation: "recommended",
			SupportReasons: []string{
				"patient age is favourable with good expected benefit",
				"cardiopulmonary indicators meet the ECMO indication criteria",
				"the condition is still in a reversible stage",
				"meets the international ELSO guideline criteria",
			},
			OpposeReasons: []string{
				"ECMO-related complications require close monitoring",
				"an experienced ECMO team is required",
			},
			Recommendations: []string{
				"initiate ECMO support as soon as possible",
				"complete the pre-procedure work-up and equipment preparation",
				"assemble a dedicated ECMO team",
				"draw up a detailed weaning plan",
			},
			Contraindications: "no absolute contraindications; watch for relative contraindications",
			Precautions:       "monitor coagulation, infection markers and organ function closely",
		}

	case score >= 60:
		return Narrative{
			Eligible:            true,
			Diagnosis:           "Some of the patient's indicators meet the ECMO indication criteria, but risk factors are present; a cautious evaluation is advised.",
			Evidence:            "The condition is complex; the critical-care service and the ECMO team should evaluate and decide jointly.",
			Confidence:          confidenceMedium,
			FinalRecommendation: "cautious evaluation",
			SupportReasons: []string{
				"some clinical indicators support ECMO use",
				"the patient may benefit from ECMO support",
			},
			OpposeReasons: []string{},
			Recommendations: []string{
				"arrange a multidisciplinary team consultation",
				"complete the outstanding work-up",
				"weigh the benefit-risk ratio",
				"consider alternative treatment options",
			},
			Contraindications: "no absolute contraindications; watch for relative contraindications",
			Precautions:       "monitor coagulation, infection markers and organ function closely",
		}

	default:
		n := Narrative{
			Eligible:            false,
			Diagnosis:           "The patient's current state argues against ECMO; substantial contraindications or unfavourable factors are present.",
			Evidence:            "Based on the risk assessment the patient is unlikely to benefit from ECMO; other treatment options should take priority.",
			Confidence:          confidenceLow,
			FinalRecommendation: "not recommended",
			SupportReasons: []string{
				"vital signs are comparatively stable",
				"alternative treatment options remain available",
			},
			Recommendations: []string{
				"prioritise alternative treatment options",
				"observe closely for changes in condition",
				"re-evaluate ECMO candidacy if the condition evolves",
			},
			Contraindications: "advanced age, irreversible disease, severe multi-organ failure, active bleeding",
			Precautions:       "assess overall prognosis, quality of life and allocation of care resources",
		}
		if score < 40 {
			n.OpposeReasons = []string{
				"age or comorbidities increase the treatment risk",
				"the long illness course limits reversibility",
				"the risk of ECMO-related complications is high",
			}
		} else {
			n.OpposeReasons = []string{
				"relative contraindications require weighing",
				"the benefit-risk ratio of ECMO must be assessed",
			}
		}
		return n
	}
}

// errorNarrative is the fixed message set for the consultation-failure path.
// The fault reason is embedded in the evidence text so operators can see why
// the evaluation could not complete.
func errorNarrative(err error) Narrative {
	return Narrative{
		Eligible:            false,
		Diagnosis:           "System evaluation failed; the ECMO candidacy analysis could not be completed.",
		Evidence:            "Technical fault: " + err.Error() + ". Request a manual specialist evaluation or resubmit the patient data.",
		Confidence:          0,
		FinalRecommendation: "re-evaluate or consult an ECMO specialist",
		SupportReasons: []string{
			"a manual specialist evaluation is advised",
		},
		OpposeReasons: []string{
			"the system cannot provide a reliable assessment",
		},
		Recommendations: []string{
			"check and complete the patient's clinical data",
			"resubmit the evaluation request",
			"contact an ECMO specialist for manual evaluation",
			"confirm network connectivity and system status",
		},
		Contraindications: "system fault — contraindications could not be assessed",
		Precautions:       "contact the clinical team for an immediate in-person evaluation",
	}
}
