package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

type anthropicService struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
	logger      *zap.Logger
}

type AnthropicOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

func NewAnthropicService(opts AnthropicOptions, logger *zap.Logger) (ReasoningService, error) {
	if opts.APIKey == "" {
		return nil, errors.New("anthropic api key is required")
	}

	model := opts.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	maxTokens := int64(opts.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	return &anthropicService{
		client:      anthropic.NewClient(reqOpts...),
		model:       model,
		temperature: opts.Temperature,
		maxTokens:   maxTokens,
		logger:      providerLogger(logger, ProviderAnthropic, model),
	}, nil
}

func (a *anthropicService) Provider() string { return ProviderAnthropic }

func (a *anthropicService) Model() string { return a.model }

// Complete implements screening.Completer.
func (a *anthropicService) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(a.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		a.logger.Warn("anthropic returned no text content", zap.String("stop_reason", string(msg.StopReason)))
	}

	return text, nil
}
