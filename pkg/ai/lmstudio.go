package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LMStudioModel drives a local LM Studio server. Completions go through its
// OpenAI-compatible endpoint; the context length is discovered from the
// native REST API, since the compatible surface does not report it.
type LMStudioModel struct {
	inner         *OpenAIModel
	contextLength int
	logger        *log.Logger
}

const defaultContextLength = 4096

func NewLMStudioModel(ctx context.Context, logger *log.Logger, baseURL, apiKey, model string, configuredContext int) (*LMStudioModel, error) {
	if model == "" {
		detected, err := DetectModel(ctx, baseURL, apiKey)
		if err != nil {
			return nil, err
		}
		model = detected
		logger.Info("Auto-detected model", "model", model)
	}

	contextLength := configuredContext
	if contextLength <= 0 {
		discovered, err := discoverContextLength(ctx, baseURL, model)
		if err != nil {
			contextLength = defaultContextLength
			logger.Warn("Could not retrieve context length, using default",
				"model", model, "default", contextLength, "error", err)
		} else {
			contextLength = discovered
			logger.Info("Model context length", "model", model, "tokens", contextLength)
		}
	}

	return &LMStudioModel{
		inner:         NewOpenAIModel(logger, baseURL, apiKey, model, contextLength),
		contextLength: contextLength,
		logger:        logger,
	}, nil
}

// discoverContextLength asks LM Studio's native /api/v0 model endpoint.
func discoverContextLength(ctx context.Context, baseURL, model string) (int, error) {
	root := strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")
	url := fmt.Sprintf("%s/api/v0/models/%s", root, model)

	c := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("model info: %d", resp.StatusCode)
	}

	var info struct {
		LoadedContextLength int `json:"loaded_context_length"`
		MaxContextLength    int `json:"max_context_length"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return 0, err
	}
	if info.LoadedContextLength > 0 {
		return info.LoadedContextLength, nil
	}
	if info.MaxContextLength > 0 {
		return info.MaxContextLength, nil
	}
	return 0, fmt.Errorf("model info reports no context length")
}

func (m *LMStudioModel) Generate(ctx context.Context, system, prompt string) (string, error) {
	return m.inner.Generate(ctx, system, prompt)
}

func (m *LMStudioModel) ContextLength() int { return m.contextLength }

func (m *LMStudioModel) CountTokens(string) (int, bool) { return 0, false }
