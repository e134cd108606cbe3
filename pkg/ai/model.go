// Package ai abstracts the model backends the organizer can classify with:
// Gemini, LM Studio, or any OpenAI-compatible server. The backend is chosen
// once at construction; call sites only see the Model capability.
package ai

import "context"

// Model is the completion capability the pipeline consumes.
type Model interface {
	// Generate sends one prompt round-trip and returns the raw text.
	Generate(ctx context.Context, system, prompt string) (string, error)
	// ContextLength returns the backend's context window in tokens,
	// or 0 when unknown.
	ContextLength() int
	// CountTokens returns an exact token count when the backend exposes
	// a tokenizer; ok is false otherwise.
	CountTokens(text string) (count int, ok bool)
}
