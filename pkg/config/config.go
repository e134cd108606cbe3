// Package config loads the organizer configuration from the environment,
// with a .env file picked up when present.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Model backend: gemini (default), lmstudio, or openai.
	LLMBackend string

	GeminiAPIKey string
	GeminiModel  string

	LocalLLMBaseURL       string
	LocalLLMAPIKey        string
	LocalLLMModel         string
	LocalLLMContextLength int

	// OAuth client secret and cached token for the Gmail API.
	CredentialsPath string
	TokenPath       string

	DataPath     string
	PendingFile  string
	VerifiedFile string
	PromptPath   string

	// Fixed pause between consecutive classification calls.
	ClassifyDelay time.Duration
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	conf := &Config{
		LLMBackend:            getEnv("LLM_BACKEND", "gemini"),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		LocalLLMBaseURL:       getEnv("LOCAL_LLM_BASE_URL", "http://localhost:1234/v1"),
		LocalLLMAPIKey:        getEnv("LOCAL_LLM_API_KEY", "lm-studio"),
		LocalLLMModel:         getEnv("LOCAL_LLM_MODEL", ""),
		LocalLLMContextLength: getEnvInt("LOCAL_LLM_CONTEXT_LENGTH", 0),
		CredentialsPath:       getEnv("GMAIL_CREDENTIALS_PATH", "credentials.json"),
		TokenPath:             getEnv("GMAIL_TOKEN_PATH", "token.json"),
		DataPath:              getEnv("DATA_PATH", "data"),
		PromptPath:            getEnv("PROMPT_PATH", filepath.Join("prompts", "categorize_email_prompt.md")),
		ClassifyDelay:         getEnvDuration("CLASSIFY_DELAY", 500*time.Millisecond),
	}
	conf.PendingFile = getEnv("PENDING_FILE", filepath.Join(conf.DataPath, "pending_organization.json"))
	conf.VerifiedFile = getEnv("VERIFIED_FILE", filepath.Join(conf.DataPath, "verified_emails.json"))

	return conf, nil
}
