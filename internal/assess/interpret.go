package assess

import (
	"regexp"
	"strconv"
	"strings"
)

// defaultConfidence is the neutral prior used when the consultation text
// carries no parseable confidence value.
const defaultConfidence = 0.8

// ─── PATTERNS ─────────────────────────────────────────────────────────────────
// The consultation is asked for strict JSON but the reply frequently arrives
// wrapped in prose or markdown fences, truncated, or with stray formatting.
// Extraction is therefore a best-effort pattern search over the raw text, not
// a JSON parse: each field resolves independently, and a missing field is a
// tri-state "unresolved", never an error.

func scalarPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`"` + key + `"\s*:\s*"([^"]*)"`)
}

func listPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`"` + key + `"\s*:\s*\[([^\]]*)\]`)
}

var (
	reDiagnosis           = scalarPattern("diagnosis")
	reEvidence            = scalarPattern("evidence")
	reFinalRecommendation = scalarPattern("finalRecommendation")
	reContraindications   = scalarPattern("contraindications")
	rePrecautions         = scalarPattern("precautions")

	reSupportReasons  = listPattern("supportReasons")
	reOpposeReasons   = listPattern("opposeReasons")
	reRecommendations = listPattern("recommendations")

	reEligible   = regexp.MustCompile(`"eligible"\s*:\s*(true|false)`)
	reConfidence = regexp.MustCompile(`"confidence"\s*:\s*([0-9]+(?:\.[0-9]+)?)`)

	reListSeparator = regexp.MustCompile(`"\s*,\s*"`)
)

// placeholderValues are diagnosis values that count as unresolved even when
// the key itself was found: empty echoes of the schema template or filler the
// model emits when it has nothing to say.
var placeholderValues = []string{
	"...",
	"n/a",
	"null",
	"not provided",
}

// placeholderPrefix catches the model echoing the schema template back
// verbatim instead of writing an actual diagnosis.
const placeholderPrefix = "detailed diagnostic analysis"

func isPlaceholder(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return true
	}
	for _, p := range placeholderValues {
		if s == p {
			return true
		}
	}
	return strings.HasPrefix(s, placeholderPrefix)
}

// ─── EXTRACTORS ───────────────────────────────────────────────────────────────

// extractString returns the quoted value following the labelled key and
// whether it was found.
func extractString(text string, re *regexp.Regexp) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// extractList returns the trimmed, non-empty items of the bracketed span
// following the labelled key. An absent key or a span with no recoverable
// items both report unresolved.
func extractList(text string, re *regexp.Regexp) ([]string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	var items []string
	for _, part := range reListSeparator.Split(m[1], -1) {
		item := strings.TrimSpace(strings.ReplaceAll(part, `"`, ""))
		if item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil, false
	}
	return items, true
}

// extractConfidence returns the bare decimal following the confidence key,
// clamped to [0, 1]. Absent or unparseable values yield the neutral default —
// a missing confidence is not grounds for rejecting the interpretation.
func extractConfidence(text string) float64 {
	m := reConfidence.FindStringSubmatch(text)
	if m == nil {
		return defaultConfidence
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return defaultConfidence
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ─── INTERPRETER ──────────────────────────────────────────────────────────────

// Interpret extracts a Narrative from the raw consultation text.
//
// Acceptance is all-or-nothing, gated on the diagnosis field: if diagnosis is
// unresolved or a placeholder, the whole interpretation is discarded and the
// second return value is false — the caller must substitute the synthesized
// narrative rather than mix partially interpreted fields with synthetic ones.
//
// Within an accepted interpretation, unresolved secondary fields degrade
// gracefully: scalar fields fall back to a "not provided" marker and list
// fields to fixed default items, so an accepted Narrative is always fully
// populated.
func Interpret(raw string) (Narrative, bool) {
	// Strip any markdown fences the model may have added.
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	diagnosis, ok := extractString(text, reDiagnosis)
	if !ok || isPlaceholder(diagnosis) {
		return Narrative{}, false
	}

	n := Narrative{
		Diagnosis:  diagnosis,
		Confidence: extractConfidence(text),
	}

	if m := reEligible.FindStringSubmatch(text); m != nil {
		n.Eligible = m[1] == "true"
	}

	n.Evidence = scalarOrDefault(text, reEvidence, "no supporting evidence provided")
	n.FinalRecommendation = scalarOrDefault(text, reFinalRecommendation, "cautious evaluation")
	n.Contraindications = scalarOrDefault(text, reContraindications, "contraindications not specified")
	n.Precautions = scalarOrDefault(text, rePrecautions, "precautions not specified")

	n.SupportReasons = listOrDefault(text, reSupportReasons, []string{
		"further evaluation of clinical indicators required",
		"recommend multidisciplinary team discussion",
	})
	n.OpposeReasons = listOrDefault(text, reOpposeReasons, []string{
		"benefit-risk ratio requires careful weighing",
		"assess the patient's overall condition",
	})
	n.Recommendations = listOrDefault(text, reRecommendations, []string{
		"complete the relevant work-up",
		"monitor closely for changes in condition",
	})

	return n, true
}

func scalarOrDefault(text string, re *regexp.Regexp, def string) string {
	if v, ok := extractString(text, re); ok && v != "" {
		return v
	}
	return def
}

func listOrDefault(text string, re *regexp.Regexp, def []string) []string {
	if items, ok := extractList(text, re); ok {
		return items
	}
	return def
}
