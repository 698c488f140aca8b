package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

// ResumeChunk is one embedded piece of a resume.
type ResumeChunk struct {
	ResumeID  string
	Index     int
	Text      string
	Embedding []float32
}

type SearchResult struct {
	ResumeID   string
	ChunkIndex int
	Score      float32
	Text       string
}

// QdrantService stores resume chunk embeddings grouped by batch. A batch is
// one ranking request (or one indexed folder) and is searched in isolation.
type QdrantService interface {
	InitCollection(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	UpsertChunks(ctx context.Context, batchID string, chunks []ResumeChunk) error
	SearchBatch(ctx context.Context, batchID string, queryEmbedding []float32, limit int) ([]SearchResult, error)
	DeleteBatch(ctx context.Context, batchID string) error
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	log            *zap.Logger
}

func NewQdrantService(urlStr, apiKey, collectionName string, vectorSize int, log *zap.Logger) (QdrantService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
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
		vectorSize:     uint64(vectorSize),
		log:            log,
	}, nil
}

// InitCollection implements QdrantService.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.log.Info("✅ Collection already exists", zap.String("collection", q.collectionName))
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

	q.log.Info("✅ Qdrant collection created", zap.String("collection", q.collectionName), zap.Uint64("vector_size", q.vectorSize))
	return nil
}

// HealthCheck implements QdrantService.
func (q *qdrantService) HealthCheck(ctx context.Context) error {
	if _, err := q.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("qdrant health check failed: %w", err)
	}
	return nil
}

// UpsertChunks implements QdrantService.
func (q *qdrantService) UpsertChunks(ctx context.Context, batchID string, chunks []ResumeChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for _, chunk := range chunks {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(uuid.NewString()),
			Vectors: qdrant.NewVectors(chunk.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"batch_id":    batchID,
				"resume_id":   chunk.ResumeID,
				"chunk_index": int64(chunk.Index),
				"text":        chunk.Text,
			}),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert chunks: %w", err)
	}

	return nil
}

// SearchBatch implements QdrantService.
func (q *qdrantService) SearchBatch(ctx context.Context, batchID string, queryEmbedding []float32, limit int) ([]SearchResult, error) {
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         batchFilter(batchID),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		payload := point.Payload
		results = append(results, SearchResult{
			ResumeID:   payload["resume_id"].GetStringValue(),
			ChunkIndex: int(payload["chunk_index"].GetIntegerValue()),
			Text:       payload["text"].GetStringValue(),
			Score:      point.Score,
		})
	}

	return results, nil
}

// DeleteBatch implements QdrantService.
func (q *qdrantService) DeleteBatch(ctx context.Context, batchID string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: batchFilter(batchID),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete batch %s: %w", batchID, err)
	}

	return nil
}

func batchFilter(batchID string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("batch_id", batchID),
		},
	}
}
