// Package llm wraps the hosted language model behind a single-call
// interface. Construction is explicit: callers build a client from config
// and inject it, so tests substitute a stub without touching the
// environment.
package llm

import "context"

// Sampling parameters, fixed for all capsule sections.
const (
	Temperature     = 0.8
	TopP            = 0.9
	MaxOutputTokens = 2048
)

// Client is the single external call abstraction. Generate sends a system
// instruction and user prompt to the model and returns the completion
// text. It fails (with a MODEL_CALL error) when the call errors, times
// out, or the provider returns no usable completion — an empty completion
// is a failure, never an empty string.
type Client interface {
	Generate(ctx context.Context, system, prompt string) (string, error)

	// Name returns the provider identifier (e.g., "groq", "stub").
	Name() string
}
