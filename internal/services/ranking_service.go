package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/resume-extractor/internal/models"
)

const (
	embedConcurrency = 4

	// indexedHitsPerResult bounds the chunk hits fetched per requested result
	// when searching a stored batch.
	indexedHitsPerResult = 20
)

var ErrSemanticUnavailable = errors.New("semantic ranking is not available")

type RankingService interface {
	RankResumes(ctx context.Context, jdText string, resumes map[string]string, topK int) (*models.RankingResult, error)
	IndexResumes(ctx context.Context, batchID string, resumes map[string]string) (int, error)
	SearchIndexed(ctx context.Context, batchID, jdText string, topK int) (*models.RankingResult, error)
	SemanticAvailable(ctx context.Context) bool
}

type rankingService struct {
	llm     LLMService
	store   QdrantService
	chunker TextChunker
	topK    int
	log     *zap.Logger
}

// NewRankingService builds a ranker. With a nil llm or store every request is
// answered by TF-IDF.
func NewRankingService(llm LLMService, store QdrantService, chunker TextChunker, topK int, log *zap.Logger) RankingService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &rankingService{
		llm:     llm,
		store:   store,
		chunker: chunker,
		topK:    topK,
		log:     log,
	}
}

// SemanticAvailable implements RankingService.
func (r *rankingService) SemanticAvailable(ctx context.Context) bool {
	if r.llm == nil || r.store == nil {
		return false
	}
	return r.store.HealthCheck(ctx) == nil
}

// RankResumes implements RankingService.
func (r *rankingService) RankResumes(ctx context.Context, jdText string, resumes map[string]string, topK int) (*models.RankingResult, error) {
	if jdText == "" {
		return nil, ErrEmptyText
	}
	if topK <= 0 {
		topK = r.topK
	}

	result := &models.RankingResult{
		Query:        jdText,
		TotalResumes: len(resumes),
	}

	if r.SemanticAvailable(ctx) {
		ranked, err := r.rankSemantic(ctx, jdText, resumes, topK)
		if err == nil {
			result.Results = ranked
			result.Method = models.RankingSemantic
			return result, nil
		}
		r.log.Warn("⚠️ Semantic ranking failed, falling back to TF-IDF", zap.Error(err))
	}

	result.Results = RankTFIDF(jdText, resumes, topK)
	result.Method = models.RankingTFIDF
	return result, nil
}

func (r *rankingService) rankSemantic(ctx context.Context, jdText string, resumes map[string]string, topK int) ([]models.RankedResume, error) {
	batchID := uuid.NewString()

	count, err := r.IndexResumes(ctx, batchID, resumes)
	defer func() {
		if err := r.store.DeleteBatch(context.WithoutCancel(ctx), batchID); err != nil {
			r.log.Warn("⚠️ Failed to delete ranking batch", zap.String("batch_id", batchID), zap.Error(err))
		}
	}()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.New("no resume chunks to search")
	}

	query, err := r.llm.GenerateEmbedding(ctx, jdText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed job description: %w", err)
	}

	hits, err := r.store.SearchBatch(ctx, batchID, query, count)
	if err != nil {
		return nil, err
	}

	best := make(map[string]float64, len(resumes))
	for id := range resumes {
		best[id] = 0
	}

	return rankResults(bestChunkScores(best, hits), topK), nil
}

// SearchIndexed implements RankingService. It ranks the resumes previously
// stored under batchID by IndexResumes. Only resumes with at least one chunk
// among the hits are ranked.
func (r *rankingService) SearchIndexed(ctx context.Context, batchID, jdText string, topK int) (*models.RankingResult, error) {
	if jdText == "" {
		return nil, ErrEmptyText
	}
	if !r.SemanticAvailable(ctx) {
		return nil, ErrSemanticUnavailable
	}
	if topK <= 0 {
		topK = r.topK
	}

	query, err := r.llm.GenerateEmbedding(ctx, jdText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed job description: %w", err)
	}

	hits, err := r.store.SearchBatch(ctx, batchID, query, topK*indexedHitsPerResult)
	if err != nil {
		return nil, err
	}

	scores := bestChunkScores(map[string]float64{}, hits)

	return &models.RankingResult{
		Query:        jdText,
		Results:      rankResults(scores, topK),
		TotalResumes: len(scores),
		Method:       models.RankingSemantic,
	}, nil
}

// bestChunkScores raises each resume's score in best to its highest chunk
// score and returns the result as unranked entries.
func bestChunkScores(best map[string]float64, hits []SearchResult) []models.RankedResume {
	for _, hit := range hits {
		score := float64(hit.Score)
		if current, ok := best[hit.ResumeID]; !ok || score > current {
			best[hit.ResumeID] = score
		}
	}

	ranked := make([]models.RankedResume, 0, len(best))
	for id, score := range best {
		ranked = append(ranked, models.RankedResume{ResumeID: id, Score: score})
	}
	return ranked
}

// IndexResumes implements RankingService. Each resume is chunked and embedded
// and all chunks are stored under batchID. It returns the number of chunks.
func (r *rankingService) IndexResumes(ctx context.Context, batchID string, resumes map[string]string) (int, error) {
	if r.llm == nil || r.store == nil {
		return 0, ErrSemanticUnavailable
	}

	ids := make([]string, 0, len(resumes))
	for id := range resumes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var (
		mu     sync.Mutex
		chunks []ResumeChunk
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for _, id := range ids {
		g.Go(func() error {
			pieces := r.chunker.Chunk(resumes[id])
			if len(pieces) == 0 {
				return nil
			}

			embeddings, err := r.llm.GenerateEmbeddings(gCtx, pieces)
			if err != nil {
				return fmt.Errorf("failed to embed resume %s: %w", id, err)
			}
			if len(embeddings) != len(pieces) {
				return fmt.Errorf("resume %s: got %d embeddings for %d chunks", id, len(embeddings), len(pieces))
			}

			mu.Lock()
			defer mu.Unlock()
			for i, piece := range pieces {
				chunks = append(chunks, ResumeChunk{
					ResumeID:  id,
					Index:     i,
					Text:      piece,
					Embedding: embeddings[i],
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	if err := r.store.UpsertChunks(ctx, batchID, chunks); err != nil {
		return 0, err
	}

	r.log.Debug("📥 Indexed resume chunks", zap.String("batch_id", batchID), zap.Int("resumes", len(ids)), zap.Int("chunks", len(chunks)))

	return len(chunks), nil
}
