package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/hiring-agent/internal/logger"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// IngestDocument is one reference document to embed into the vector store.
type IngestDocument struct {
	DocID   string
	DocType string
	Title   string
	Text    string
}

// JobIngester chunks, embeds and stores reference documents.
type JobIngester struct {
	embedder Embedder
	store    QdrantService
	chunker  TextChunker
	size     int
	overlap  int
	logger   *zap.Logger
}

func NewJobIngester(embedder Embedder, store QdrantService, log *zap.Logger) *JobIngester {
	return &JobIngester{
		embedder: embedder,
		store:    store,
		chunker:  NewTextChunker(),
		size:     defaultChunkSize,
		overlap:  defaultChunkOverlap,
		logger:   logger.OrNop(log).Named("ingest"),
	}
}

// Ingest replaces any stored chunks of doc and returns how many chunks were stored.
// A chunk that fails to embed or store is logged and skipped.
func (j *JobIngester) Ingest(ctx context.Context, doc IngestDocument) (int, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return 0, errors.New("document has no text")
	}
	if doc.DocType == "" {
		doc.DocType = DocTypeJobDescription
	}

	if err := j.store.DeleteDocument(ctx, doc.DocID); err != nil {
		return 0, fmt.Errorf("failed to clear previous chunks: %w", err)
	}

	// The title leads the text so title-only queries land on the right chunks.
	text := doc.Text
	if doc.Title != "" {
		text = doc.Title + "\n\n" + text
	}

	chunks := j.chunker.ChunkText(text, j.size, j.overlap)
	stored := 0

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return stored, err
		}

		embedding, err := j.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			j.logger.Warn("failed to embed chunk", zap.String("doc_id", doc.DocID), zap.Int("chunk", i), zap.Error(err))
			continue
		}

		err = j.store.UpsertDocument(ctx, VectorDocument{
			DocID:     doc.DocID,
			DocType:   doc.DocType,
			Title:     doc.Title,
			Chunk:     i,
			Text:      chunk,
			Embedding: embedding,
		})
		if err != nil {
			j.logger.Warn("failed to store chunk", zap.String("doc_id", doc.DocID), zap.Int("chunk", i), zap.Error(err))
			continue
		}
		stored++
	}

	if stored == 0 {
		return 0, fmt.Errorf("no chunks stored for %s", doc.DocID)
	}

	j.logger.Info("document ingested",
		zap.String("doc_id", doc.DocID),
		zap.String("title", doc.Title),
		zap.Int("chunks", stored),
	)

	return stored, nil
}
