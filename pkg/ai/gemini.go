package ai

import (
	"context"

	"github.com/charmbracelet/log"
)

// Gemini's OpenAI-compatible endpoint.
const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiModel is the hosted Gemini backend. The context window is large
// enough that it is reported as unknown and no client-side truncation is
// attempted; overflows surface as API errors and degrade per message.
type GeminiModel struct {
	inner *OpenAIModel
}

func NewGeminiModel(logger *log.Logger, apiKey, model string) *GeminiModel {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiModel{
		inner: NewOpenAIModel(logger, geminiBaseURL, apiKey, model, 0),
	}
}

func (m *GeminiModel) Name() string { return m.inner.Name() }

func (m *GeminiModel) Generate(ctx context.Context, system, prompt string) (string, error) {
	return m.inner.Generate(ctx, system, prompt)
}

func (m *GeminiModel) ContextLength() int { return 0 }

func (m *GeminiModel) CountTokens(string) (int, bool) { return 0, false }
