package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultGeminiModel      = "gemini-2.5-flash"
	defaultGeminiEmbedModel = "text-embedding-004"
	maxEmbeddingInput       = 40000
)

// GeminiService completes prompts and embeds text with the Gemini API.
type GeminiService interface {
	ReasoningService
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type geminiService struct {
	client      *genai.Client
	modelName   string
	embedModel  string
	temperature float32
	maxTokens   int32
	logger      *zap.Logger
}

type GeminiOptions struct {
	APIKey      string
	Model       string
	EmbedModel  string
	Temperature float64
	MaxTokens   int
}

func NewGeminiService(ctx context.Context, opts GeminiOptions, logger *zap.Logger) (GeminiService, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	svc := &geminiService{
		client:      client,
		modelName:   opts.Model,
		embedModel:  opts.EmbedModel,
		temperature: float32(opts.Temperature),
		maxTokens:   int32(opts.MaxTokens),
	}
	if svc.modelName == "" {
		svc.modelName = defaultGeminiModel
	}
	if svc.embedModel == "" {
		svc.embedModel = defaultGeminiEmbedModel
	}
	if svc.maxTokens <= 0 {
		svc.maxTokens = 1024
	}
	svc.logger = providerLogger(logger, ProviderGemini, svc.modelName)

	return svc, nil
}

func (g *geminiService) Provider() string { return ProviderGemini }

func (g *geminiService) Model() string { return g.modelName }

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxEmbeddingInput {
		text = text[:maxEmbeddingInput]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, errors.New("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// Complete implements screening.Completer.
func (g *geminiService) Complete(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &g.temperature,
		MaxOutputTokens: g.maxTokens,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	if resp == nil {
		return "", errors.New("gemini returned nil response")
	}

	text := geminiResponseText(resp)
	if text == "" {
		g.logger.Warn("gemini returned no text content", zap.Int("candidates", len(resp.Candidates)))
	}

	return text, nil
}

// geminiResponseText concatenates the text parts of the first candidate.
func geminiResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}

	return strings.TrimSpace(b.String())
}
