package ai

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/pkg/errors"
)

// Categories are short answers, so keep the sampling tight.
const classifyTemperature = 0.3

// OpenAIModel talks to any OpenAI-compatible chat completions endpoint.
type OpenAIModel struct {
	client        *openai.Client
	model         string
	contextLength int
	logger        *log.Logger
}

func NewOpenAIModel(logger *log.Logger, baseURL, apiKey, model string, contextLength int) *OpenAIModel {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	return &OpenAIModel{
		client:        &client,
		model:         model,
		contextLength: contextLength,
		logger:        logger,
	}
}

func (m *OpenAIModel) Name() string { return m.model }

func (m *OpenAIModel) Generate(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	completion, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       m.model,
		Messages:    messages,
		Temperature: param.Opt[float64]{Value: classifyTemperature},
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("backend returned no completion choices")
	}
	return completion.Choices[0].Message.Content, nil
}

func (m *OpenAIModel) ContextLength() int { return m.contextLength }

func (m *OpenAIModel) CountTokens(string) (int, bool) { return 0, false }

// DetectModel returns the first model the server reports. Local servers
// usually expose exactly the loaded model.
func DetectModel(ctx context.Context, baseURL, apiKey string) (string, error) {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	page, err := client.Models.List(ctx)
	if err != nil {
		return "", errors.Wrap(err, "list models")
	}
	if len(page.Data) == 0 {
		return "", errors.New("no models reported by server; load a model first")
	}
	return page.Data[0].ID, nil
}
