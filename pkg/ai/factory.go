package ai

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

// Backend selection values.
const (
	BackendGemini   = "gemini"
	BackendLMStudio = "lmstudio"
	BackendOpenAI   = "openai"
)

// Options selects and configures one backend.
type Options struct {
	Backend string

	// Gemini.
	GeminiAPIKey string
	GeminiModel  string

	// Local / OpenAI-compatible servers.
	BaseURL       string
	APIKey        string
	Model         string
	ContextLength int
}

// NewModel constructs the configured backend. Selection happens here once;
// callers hold only the Model interface.
func NewModel(ctx context.Context, logger *log.Logger, opts Options) (Model, error) {
	switch opts.Backend {
	case BackendGemini, "":
		if opts.GeminiAPIKey == "" {
			return nil, errors.New("GEMINI_API_KEY is not set")
		}
		logger.Info("Using Google Gemini", "model", opts.GeminiModel)
		return NewGeminiModel(logger, opts.GeminiAPIKey, opts.GeminiModel), nil
	case BackendLMStudio:
		logger.Info("Using LM Studio", "baseURL", opts.BaseURL)
		return NewLMStudioModel(ctx, logger, opts.BaseURL, opts.APIKey, opts.Model, opts.ContextLength)
	case BackendOpenAI:
		logger.Info("Using OpenAI-compatible server", "baseURL", opts.BaseURL, "model", opts.Model)
		model := opts.Model
		if model == "" {
			detected, err := DetectModel(ctx, opts.BaseURL, opts.APIKey)
			if err != nil {
				return nil, err
			}
			model = detected
			logger.Info("Auto-detected model", "model", model)
		}
		return NewOpenAIModel(logger, opts.BaseURL, opts.APIKey, model, opts.ContextLength), nil
	default:
		return nil, errors.Errorf("unknown LLM backend %q", opts.Backend)
	}
}
