package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/cloo-solutions/askdocs/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEmbeddingClient mocks the OpenAI embedding client
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockEmbeddingClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

// MockVectorStore mocks the pgvector store
type MockVectorStore struct {
	mock.Mock
}

func (m *MockVectorStore) Upsert(ctx context.Context, collection string, chunks []domain.Chunk, embeddings [][]float32) error {
	args := m.Called(ctx, collection, chunks, embeddings)
	return args.Error(0)
}

func (m *MockVectorStore) Query(ctx context.Context, collection string, embedding []float32, k int) (domain.RetrievalResult, error) {
	args := m.Called(ctx, collection, embedding, k)
	return args.Get(0).(domain.RetrievalResult), args.Error(1)
}

func vectors(n, dim int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		out[i] = make([]float32, dim)
		out[i][0] = float32(i)
	}
	return out
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func batchOfLen(n int) interface{} {
	return mock.MatchedBy(func(texts []string) bool { return len(texts) == n })
}

func TestRetrieverService_Ingest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "guide.md", strings.Repeat("a", 2500))
	writeFile(t, dir, "notes.txt", "short document")
	writeFile(t, dir, "image.png", "binary")

	mockEmbedding := new(MockEmbeddingClient)
	mockStore := new(MockVectorStore)
	svc := NewRetrieverService(mockEmbedding, mockStore, 1000, 200)

	ctx := context.Background()
	// 2500 chars with size 1000 / overlap 200 chunk into 4 pieces
	mockEmbedding.On("EmbedBatch", ctx, batchOfLen(4)).Return(vectors(4, 8), nil)
	mockEmbedding.On("EmbedBatch", ctx, batchOfLen(1)).Return(vectors(1, 8), nil)
	mockStore.On("Upsert", ctx, "docs", mock.MatchedBy(func(chunks []domain.Chunk) bool {
		return len(chunks) == 4 && chunks[0].Source == "guide.md"
	}), mock.Anything).Return(nil)
	mockStore.On("Upsert", ctx, "docs", mock.MatchedBy(func(chunks []domain.Chunk) bool {
		return len(chunks) == 1 && chunks[0].Source == "notes.txt"
	}), mock.Anything).Return(nil)

	report, err := svc.Ingest(ctx, storage.NewFolderSource(dir), "docs", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Documents)
	assert.Equal(t, 5, report.Chunks)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "image.png", report.Skipped[0].Path)
	mockEmbedding.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestRetrieverService_Ingest_EmbedFailureSkipsDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.md", "first document")
	writeFile(t, dir, "good.md", "second document")

	mockEmbedding := new(MockEmbeddingClient)
	mockStore := new(MockVectorStore)
	svc := NewRetrieverService(mockEmbedding, mockStore, 1000, 200)

	ctx := context.Background()
	mockEmbedding.On("EmbedBatch", ctx, []string{"first document"}).
		Return(nil, errors.New("model offline"))
	mockEmbedding.On("EmbedBatch", ctx, []string{"second document"}).
		Return(vectors(1, 8), nil)
	mockStore.On("Upsert", ctx, "docs", mock.MatchedBy(func(chunks []domain.Chunk) bool {
		return len(chunks) == 1 && chunks[0].Source == "good.md"
	}), mock.Anything).Return(nil)

	report, err := svc.Ingest(ctx, storage.NewFolderSource(dir), "docs", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Documents)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "bad.md", report.Skipped[0].Path)
	assert.Contains(t, report.Skipped[0].Reason, "model offline")
	mockStore.AssertExpectations(t)
}

func TestRetrieverService_Ingest_EmptyFolder(t *testing.T) {
	dir := t.TempDir()

	svc := NewRetrieverService(new(MockEmbeddingClient), new(MockVectorStore), 1000, 200)

	_, err := svc.Ingest(context.Background(), storage.NewFolderSource(dir), "docs", nil)
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeValidation, domainErr.Code)
}

func TestRetrieverService_Ingest_MissingCollection(t *testing.T) {
	svc := NewRetrieverService(new(MockEmbeddingClient), new(MockVectorStore), 1000, 200)

	_, err := svc.Ingest(context.Background(), storage.NewFolderSource(t.TempDir()), "", nil)
	assert.ErrorIs(t, err, domain.ErrMissingCollection)
}

func TestRetrieverService_Search(t *testing.T) {
	mockEmbedding := new(MockEmbeddingClient)
	mockStore := new(MockVectorStore)
	svc := NewRetrieverService(mockEmbedding, mockStore, 1000, 200)

	ctx := context.Background()
	queryVec := []float32{0.1, 0.2, 0.3}
	stored := domain.RetrievalResult{Chunks: []domain.ScoredChunk{
		{Chunk: domain.Chunk{Source: "guide.md", Index: 2, Text: "relevant"}, Distance: 0.12},
		{Chunk: domain.Chunk{Source: "notes.txt", Index: 0, Text: "less relevant"}, Distance: 0.44},
	}}

	mockEmbedding.On("EmbedQuery", ctx, "how do I configure timeouts?").Return(queryVec, nil)
	mockStore.On("Query", ctx, "docs", queryVec, 5).Return(stored, nil)

	result, err := svc.Search(ctx, "docs", "how do I configure timeouts?", 5)
	require.NoError(t, err)

	require.Len(t, result.Chunks, 2)
	assert.Equal(t, "guide.md", result.Chunks[0].Chunk.Source)
	assert.InDelta(t, 0.12, result.Chunks[0].Distance, 1e-9)
}

func TestRetrieverService_Search_ValidatesInput(t *testing.T) {
	svc := NewRetrieverService(new(MockEmbeddingClient), new(MockVectorStore), 1000, 200)

	_, err := svc.Search(context.Background(), "", "query", 5)
	assert.ErrorIs(t, err, domain.ErrMissingCollection)

	_, err = svc.Search(context.Background(), "docs", "   ", 5)
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
}

func TestRetrieverService_Search_CollectionNotFound(t *testing.T) {
	mockEmbedding := new(MockEmbeddingClient)
	mockStore := new(MockVectorStore)
	svc := NewRetrieverService(mockEmbedding, mockStore, 1000, 200)

	ctx := context.Background()
	mockEmbedding.On("EmbedQuery", ctx, "anything").Return([]float32{0.1}, nil)
	mockStore.On("Query", ctx, "missing", mock.Anything, 5).
		Return(domain.RetrievalResult{}, domain.ErrCollectionNotFound)

	_, err := svc.Search(ctx, "missing", "anything", 5)
	assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
}

func TestRetrieverService_Search_ModelFailure(t *testing.T) {
	mockEmbedding := new(MockEmbeddingClient)
	svc := NewRetrieverService(mockEmbedding, new(MockVectorStore), 1000, 200)

	ctx := context.Background()
	mockEmbedding.On("EmbedQuery", ctx, "anything").Return(nil, errors.New("connection refused"))

	_, err := svc.Search(ctx, "docs", "anything", 5)
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeModelUnavailable, domainErr.Code)
}
