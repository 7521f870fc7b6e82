package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/hiring-agent/internal/config"
	"alfredoptarigan/hiring-agent/internal/logger"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// ReasoningService is a text completion backend the screening engine can drive.
// Adapters do not retry; a failed call surfaces to the caller.
type ReasoningService interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Provider() string
	Model() string
}

// NewReasoningService builds the adapter selected by REASONING_PROVIDER.
func NewReasoningService(ctx context.Context, cfg *config.Config, log *zap.Logger) (ReasoningService, error) {
	rc := cfg.Reasoning
	apiKey := cfg.ReasoningAPIKey()

	switch rc.Provider {
	case ProviderGemini, "":
		return NewGeminiService(ctx, GeminiOptions{
			APIKey:      apiKey,
			Model:       rc.Model,
			EmbedModel:  cfg.Gemini.EmbedModel,
			Temperature: rc.Temperature,
			MaxTokens:   rc.MaxTokens,
		}, log)
	case ProviderOpenAI, ProviderGroq:
		return NewOpenAIService(OpenAIOptions{
			Provider:    rc.Provider,
			APIKey:      apiKey,
			BaseURL:     rc.BaseURL,
			Model:       rc.Model,
			Temperature: rc.Temperature,
			MaxTokens:   rc.MaxTokens,
		}, log)
	case ProviderAnthropic:
		return NewAnthropicService(AnthropicOptions{
			APIKey:      apiKey,
			BaseURL:     rc.BaseURL,
			Model:       rc.Model,
			Temperature: rc.Temperature,
			MaxTokens:   rc.MaxTokens,
		}, log)
	case ProviderOllama:
		return NewOllamaService(OllamaOptions{
			BaseURL:     rc.BaseURL,
			Model:       rc.Model,
			Temperature: rc.Temperature,
		}, log)
	default:
		return nil, fmt.Errorf("unsupported reasoning provider %q", rc.Provider)
	}
}

func providerLogger(l *zap.Logger, provider, model string) *zap.Logger {
	return logger.WithProvider(l, provider, model).Named("reasoning")
}
