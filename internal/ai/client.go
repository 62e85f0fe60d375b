// Package ai defines the interface for the external clinical-consultation
// text generator and provides DeepSeek- and Anthropic-backed implementations.
package ai

import "context"

// Generator is the single operation the assessment engine needs from an AI
// provider. The returned text is unstructured — the engine parses it
// tolerantly and falls back to a synthesized narrative when it cannot.
//
// Implementations must be safe to call concurrently. A non-nil error means
// the entire consultation failed (timeout, transport error, non-2xx, API
// error); the engine then produces its distinguished error assessment.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
