package ai

import (
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel_UnknownBackend(t *testing.T) {
	_, err := NewModel(context.Background(), log.New(nil), Options{Backend: "bedrock"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown LLM backend")
}

func TestNewModel_GeminiRequiresKey(t *testing.T) {
	_, err := NewModel(context.Background(), log.New(nil), Options{Backend: BackendGemini})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestNewModel_GeminiDefaults(t *testing.T) {
	model, err := NewModel(context.Background(), log.New(nil), Options{
		GeminiAPIKey: "key",
	})
	require.NoError(t, err)

	gemini, ok := model.(*GeminiModel)
	require.True(t, ok)
	assert.Equal(t, DefaultGeminiModel, gemini.Name())
	// Gemini exposes no context length through the compatibility endpoint,
	// so composition falls back to unbudgeted prompts.
	assert.Zero(t, model.ContextLength())
	_, ok = model.CountTokens("hello")
	assert.False(t, ok)
}
