package assess

import (
	"context"
	"log/slog"
	"time"

	"github.com/nyashahama/ecmo-advisor-backend/internal/ai"
	"github.com/nyashahama/ecmo-advisor-backend/internal/scoring"
)

// Engine runs the evaluation pipeline. It is stateless apart from its
// injected dependencies; concurrent Evaluate calls are fully independent.
type Engine struct {
	gen    ai.Generator
	logger *slog.Logger

	// now is swappable in tests for a deterministic assessment time.
	now func() time.Time
}

// NewEngine constructs an Engine around the given consultation generator.
func NewEngine(gen ai.Generator, logger *slog.Logger) *Engine {
	return &Engine{
		gen:    gen,
		logger: logger,
		now:    time.Now,
	}
}

// Evaluate runs one complete assessment:
//
//  1. Compute the candidacy index and fired deduction rules (pure).
//  2. Build the consultation prompt and call the AI generator once.
//  3. Interpret the reply tolerantly; on rejection, synthesize the narrative
//     from the score instead — never a mixture of the two.
//  4. Assemble the final artifact.
//
// Evaluate never returns an error. If the consultation call itself fails the
// result is the distinguished error assessment: eligible=false, confidence 0,
// risk tier "error" and colour "gray" — the only path on which the tier is
// not derived from the score. The computed score and fired rules are retained
// on that path for operator context.
func (e *Engine) Evaluate(ctx context.Context, p *scoring.PatientParameters) Assessment {
	score, fired := scoring.ComputeScore(p)

	log := e.logger.With("patient_id", p.PatientID)
	log.Debug("assess: scored patient",
		"score", score,
		"fired_rules", len(fired),
		"tier", scoring.TierFor(score),
	)

	prompt := BuildPrompt(p, score)

	raw, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		log.Warn("assess: consultation failed, returning error assessment", "error", err)
		a := assemble(p, score, fired, errorNarrative(err), e.now())
		a.RiskTier = scoring.TierError
		a.RiskColor = scoring.TierError.Color()
		return a
	}

	narrative, ok := Interpret(raw)
	if !ok {
		// All-or-nothing: a reply without a usable diagnosis is discarded
		// entirely and the score-banded narrative takes its place.
		log.Warn("assess: interpretation rejected, synthesizing narrative", "score", score)
		narrative = Synthesize(score)
	}

	return assemble(p, score, fired, narrative, e.now())
}
