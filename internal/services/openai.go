package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"
)

const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultGroqModel   = "llama-3.3-70b-versatile"
	groqBaseURL        = "https://api.groq.com/openai/v1"
)

// openAIService talks to any OpenAI compatible chat completions endpoint.
// Groq is served through it with a different base URL.
type openAIService struct {
	client      openai.Client
	provider    string
	model       string
	temperature float64
	maxTokens   int64
	logger      *zap.Logger
}

type OpenAIOptions struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

func NewOpenAIService(opts OpenAIOptions, logger *zap.Logger) (ReasoningService, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%s api key is required", opts.Provider)
	}

	provider := opts.Provider
	if provider == "" {
		provider = ProviderOpenAI
	}

	model := opts.Model
	baseURL := opts.BaseURL
	if provider == ProviderGroq {
		if baseURL == "" {
			baseURL = groqBaseURL
		}
		if model == "" {
			model = defaultGroqModel
		}
	}
	if model == "" {
		model = defaultOpenAIModel
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}

	return &openAIService{
		client:      openai.NewClient(reqOpts...),
		provider:    provider,
		model:       model,
		temperature: opts.Temperature,
		maxTokens:   int64(opts.MaxTokens),
		logger:      providerLogger(logger, provider, model),
	}, nil
}

func (o *openAIService) Provider() string { return o.provider }

func (o *openAIService) Model() string { return o.model }

// Complete implements screening.Completer.
func (o *openAIService) Complete(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(o.temperature),
	}
	if o.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(o.maxTokens)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", o.provider, err)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New(o.provider + " returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		o.logger.Warn("chat completion returned no text content",
			zap.String("finish_reason", resp.Choices[0].FinishReason),
		)
	}

	return text, nil
}
