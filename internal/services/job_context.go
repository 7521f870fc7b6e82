package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/hiring-agent/internal/logger"
)

var (
	// ErrJobDescriptionRequired means neither a description nor a title was given.
	ErrJobDescriptionRequired = errors.New("job description or job title is required")
	// ErrJobDescriptionNotFound means retrieval found nothing for the title.
	ErrJobDescriptionNotFound = errors.New("no stored job description matches the job title")
	// ErrRetrievalDisabled means a title was given but no vector store is configured.
	ErrRetrievalDisabled = errors.New("job description retrieval is not configured")
)

// Embedder turns text into a vector for similarity search.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// JobContextService decides which job description a screening runs against.
type JobContextService interface {
	Resolve(ctx context.Context, jobTitle, jobDescription string) (string, error)
}

type jobContextService struct {
	embedder Embedder
	store    QdrantService
	limit    int
	logger   *zap.Logger
}

// NewJobContextService wires retrieval. embedder and store may be nil, in which
// case only explicit descriptions resolve.
func NewJobContextService(embedder Embedder, store QdrantService, limit int, log *zap.Logger) JobContextService {
	if limit <= 0 {
		limit = 3
	}
	return &jobContextService{
		embedder: embedder,
		store:    store,
		limit:    limit,
		logger:   logger.OrNop(log).Named("job_context"),
	}
}

// Resolve returns the explicit description when present. Otherwise it
// retrieves stored job description chunks matching the title.
func (j *jobContextService) Resolve(ctx context.Context, jobTitle, jobDescription string) (string, error) {
	if desc := strings.TrimSpace(jobDescription); desc != "" {
		return desc, nil
	}

	jobTitle = strings.TrimSpace(jobTitle)
	if jobTitle == "" {
		return "", ErrJobDescriptionRequired
	}

	if j.embedder == nil || j.store == nil {
		return "", ErrRetrievalDisabled
	}

	query := BuildRetrievalQuery(DocTypeJobDescription, jobTitle)
	embedding, err := j.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to embed job query: %w", err)
	}

	results, err := j.store.SearchSimilar(ctx, embedding, DocTypeJobDescription, j.limit)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve job description: %w", err)
	}

	jobContext := FormatRAGContext(results)
	if jobContext == "" {
		return "", fmt.Errorf("%w: %q", ErrJobDescriptionNotFound, jobTitle)
	}

	j.logger.Debug("job description retrieved",
		zap.String("job_title", jobTitle),
		zap.Int("chunks", len(results)),
	)

	return jobContext, nil
}
