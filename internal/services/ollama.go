package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

const (
	defaultOllamaModel   = "llama3.1"
	defaultOllamaBaseURL = "http://localhost:11434"
)

type ollamaService struct {
	client      *api.Client
	model       string
	temperature float64
	logger      *zap.Logger
}

type OllamaOptions struct {
	BaseURL     string
	Model       string
	Temperature float64
}

func NewOllamaService(opts OllamaOptions, logger *zap.Logger) (ReasoningService, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = defaultOllamaModel
	}

	return &ollamaService{
		client:      api.NewClient(parsed, http.DefaultClient),
		model:       model,
		temperature: opts.Temperature,
		logger:      providerLogger(logger, ProviderOllama, model),
	}, nil
}

func (o *ollamaService) Provider() string { return ProviderOllama }

func (o *ollamaService) Model() string { return o.model }

// Complete implements screening.Completer.
func (o *ollamaService) Complete(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: &stream,
		Options: map[string]any{
			"temperature": o.temperature,
		},
	}

	var b strings.Builder
	err := o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		b.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		o.logger.Warn("ollama returned no text content")
	}

	return text, nil
}
