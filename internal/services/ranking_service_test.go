package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/resume-extractor/internal/models"
)

// memoryStore is an in-process QdrantService.
type memoryStore struct {
	mu        sync.Mutex
	batches   map[string][]ResumeChunk
	healthErr error
	searchErr error
	deleted   []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{batches: map[string][]ResumeChunk{}}
}

func (m *memoryStore) InitCollection(ctx context.Context) error { return nil }

func (m *memoryStore) HealthCheck(ctx context.Context) error { return m.healthErr }

func (m *memoryStore) UpsertChunks(ctx context.Context, batchID string, chunks []ResumeChunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[batchID] = append(m.batches[batchID], chunks...)
	return nil
}

func (m *memoryStore) SearchBatch(ctx context.Context, batchID string, query []float32, limit int) ([]SearchResult, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	results := []SearchResult{}
	for _, c := range m.batches[batchID] {
		results = append(results, SearchResult{
			ResumeID:   c.ResumeID,
			ChunkIndex: c.Index,
			Text:       c.Text,
			Score:      cosine32(query, c.Embedding),
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *memoryStore) DeleteBatch(ctx context.Context, batchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.batches, batchID)
	m.deleted = append(m.deleted, batchID)
	return nil
}

func cosine32(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

// keywordEmbedding maps text onto three axes: go, java, cooking.
func keywordEmbedding(text string) []float32 {
	lower := strings.ToLower(text)
	v := []float32{0, 0, 0}
	if strings.Contains(lower, "go") {
		v[0] = 1
	}
	if strings.Contains(lower, "java") {
		v[1] = 1
	}
	if strings.Contains(lower, "cook") {
		v[2] = 1
	}
	return v
}

var rankingResumes = map[string]string{
	"alice": "Go engineer building gRPC services",
	"bob":   "Java developer",
	"chef":  "Cook at a busy restaurant",
}

func TestRankResumes_Semantic(t *testing.T) {
	store := newMemoryStore()
	llm := &fakeLLM{embedFn: keywordEmbedding}
	ranker := NewRankingService(llm, store, NewTextChunker(200, 0), 10, zap.NewNop())

	result, err := ranker.RankResumes(context.Background(), "Senior Go developer", rankingResumes, 2)
	require.NoError(t, err)

	assert.Equal(t, models.RankingSemantic, result.Method)
	assert.Equal(t, 3, result.TotalResumes)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "alice", result.Results[0].ResumeID)
	assert.Equal(t, 1, result.Results[0].Rank)

	require.Len(t, store.deleted, 1)
	assert.Empty(t, store.batches)
}

func TestRankResumes_FallsBackToTFIDF(t *testing.T) {
	tests := []struct {
		name  string
		llm   LLMService
		store QdrantService
	}{
		{"no store", &fakeLLM{embedFn: keywordEmbedding}, nil},
		{"no llm", nil, newMemoryStore()},
		{"unhealthy store", &fakeLLM{embedFn: keywordEmbedding}, &memoryStore{batches: map[string][]ResumeChunk{}, healthErr: errors.New("down")}},
		{"embedding failure", &fakeLLM{embedErr: errors.New("quota")}, newMemoryStore()},
		{"search failure", &fakeLLM{embedFn: keywordEmbedding}, &memoryStore{batches: map[string][]ResumeChunk{}, searchErr: errors.New("timeout")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranker := NewRankingService(tt.llm, tt.store, NewTextChunker(200, 0), 10, zap.NewNop())

			result, err := ranker.RankResumes(context.Background(), "java developer", rankingResumes, 0)
			require.NoError(t, err)

			assert.Equal(t, models.RankingTFIDF, result.Method)
			require.Len(t, result.Results, 3)
			assert.Equal(t, "bob", result.Results[0].ResumeID)
		})
	}
}

func TestRankResumes_EmptyQuery(t *testing.T) {
	ranker := NewRankingService(nil, nil, NewTextChunker(0, 0), 0, zap.NewNop())

	_, err := ranker.RankResumes(context.Background(), "", rankingResumes, 0)
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestIndexResumes(t *testing.T) {
	store := newMemoryStore()
	ranker := NewRankingService(&fakeLLM{embedFn: keywordEmbedding}, store, NewTextChunker(200, 0), 0, zap.NewNop())

	count, err := ranker.IndexResumes(context.Background(), "library", rankingResumes)
	require.NoError(t, err)

	assert.Equal(t, 3, count)
	assert.Len(t, store.batches["library"], 3)
}

func TestSearchIndexed(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	ranker := NewRankingService(&fakeLLM{embedFn: keywordEmbedding}, store, NewTextChunker(200, 0), 10, zap.NewNop())

	_, err := ranker.IndexResumes(ctx, "library", rankingResumes)
	require.NoError(t, err)

	result, err := ranker.SearchIndexed(ctx, "library", "Java backend role", 2)
	require.NoError(t, err)

	assert.Equal(t, models.RankingSemantic, result.Method)
	assert.Equal(t, "Java backend role", result.Query)
	assert.Equal(t, 3, result.TotalResumes)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "bob", result.Results[0].ResumeID)
	assert.Equal(t, 1, result.Results[0].Rank)
	assert.InDelta(t, 1.0, result.Results[0].Score, 1e-6)

	assert.Len(t, store.batches["library"], 3, "searching must not delete the batch")
	assert.Empty(t, store.deleted)
}

func TestSearchIndexed_UnknownBatch(t *testing.T) {
	ranker := NewRankingService(&fakeLLM{embedFn: keywordEmbedding}, newMemoryStore(), NewTextChunker(200, 0), 10, zap.NewNop())

	result, err := ranker.SearchIndexed(context.Background(), "missing", "Go developer", 5)
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalResumes)
	assert.Empty(t, result.Results)
}

func TestSearchIndexed_Errors(t *testing.T) {
	ctx := context.Background()

	noStore := NewRankingService(&fakeLLM{embedFn: keywordEmbedding}, nil, NewTextChunker(0, 0), 10, zap.NewNop())
	_, err := noStore.SearchIndexed(ctx, "library", "Go developer", 5)
	assert.ErrorIs(t, err, ErrSemanticUnavailable)

	_, err = noStore.SearchIndexed(ctx, "library", "", 5)
	assert.ErrorIs(t, err, ErrEmptyText)

	failing := &memoryStore{batches: map[string][]ResumeChunk{}, searchErr: errors.New("timeout")}
	ranker := NewRankingService(&fakeLLM{embedFn: keywordEmbedding}, failing, NewTextChunker(0, 0), 10, zap.NewNop())
	_, err = ranker.SearchIndexed(ctx, "library", "Go developer", 5)
	assert.EqualError(t, err, "timeout")
}
