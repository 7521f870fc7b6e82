package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"alfredoptarigan/hiring-agent/internal/logger"
)

// embeddingSize matches the Gemini text-embedding-004 output.
const embeddingSize = 768

type QdrantService interface {
	InitCollection(ctx context.Context) error
	UpsertDocument(ctx context.Context, doc VectorDocument) error
	SearchSimilar(ctx context.Context, queryEmbedding []float32, docType string, limit int) ([]SearchResult, error)
	DeleteDocument(ctx context.Context, docID string) error
	Close() error
}

// VectorDocument is one embedded chunk of a stored document.
type VectorDocument struct {
	DocID     string
	DocType   string
	Title     string
	Chunk     int
	Text      string
	Embedding []float32
}

type SearchResult struct {
	ID       string
	Score    float32
	Text     string
	DocType  string
	Title    string
	Metadata map[string]interface{}
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	logger         *zap.Logger
}

func NewQdrantService(urlStr, apiKey, collectionName string, log *zap.Logger) (QdrantService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// The client speaks gRPC, which listens on 6334 unless the URL says otherwise.
	port := 6334
	if p := parsed.Port(); p != "" && p != "6333" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     embeddingSize,
		logger:         logger.OrNop(log).Named("qdrant"),
	}, nil
}

// InitCollection implements QdrantService.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.logger.Debug("collection already exists", zap.String("collection", q.collectionName))
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.logger.Info("collection created", zap.String("collection", q.collectionName))
	return nil
}

// UpsertDocument implements QdrantService.
func (q *qdrantService) UpsertDocument(ctx context.Context, doc VectorDocument) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(uuid.NewString()),
		Vectors: qdrant.NewVectors(doc.Embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			"doc_id":   doc.DocID,
			"doc_type": doc.DocType,
			"title":    doc.Title,
			"chunk":    doc.Chunk,
			"text":     doc.Text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// SearchSimilar implements QdrantService.
func (q *qdrantService) SearchSimilar(ctx context.Context, queryEmbedding []float32, docType string, limit int) ([]SearchResult, error) {
	var filter *qdrant.Filter
	if docType != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("doc_type", docType),
			},
		}
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		payload := point.Payload

		result := SearchResult{
			ID:       payloadString(payload, "doc_id"),
			Score:    point.Score,
			Text:     payloadString(payload, "text"),
			DocType:  payloadString(payload, "doc_type"),
			Title:    payloadString(payload, "title"),
			Metadata: make(map[string]interface{}, len(payload)),
		}
		for key, value := range payload {
			result.Metadata[key] = value
		}

		results = append(results, result)
	}

	return results, nil
}

// DeleteDocument implements QdrantService.
func (q *qdrantService) DeleteDocument(ctx context.Context, docID string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						qdrant.NewMatch("doc_id", docID),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}

func (q *qdrantService) Close() error {
	return q.client.Close()
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
		return s.StringValue
	}
	return ""
}
