package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/cloo-solutions/askdocs/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAssistantService struct {
	mock.Mock
}

func (m *MockAssistantService) Ask(ctx context.Context, collection, query string) (*service.AskResult, error) {
	args := m.Called(ctx, collection, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AskResult), args.Error(1)
}

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, collection, query string, k int) (domain.RetrievalResult, error) {
	args := m.Called(ctx, collection, query, k)
	return args.Get(0).(domain.RetrievalResult), args.Error(1)
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "expected data envelope, got %s", w.Body.String())
	return data
}

func TestAskHandler_Ask_Success(t *testing.T) {
	mockAssistant := new(MockAssistantService)
	handler := NewAskHandler(mockAssistant, new(MockSearchService))

	mockAssistant.On("Ask", mock.Anything, "docs", "how do I reset?").Return(&service.AskResult{
		Answer:     "Use the reset link.",
		Confidence: 0.82,
		Sources: []service.SourceRef{
			{Source: "faq.md", ChunkIndex: 1, Distance: 0.18, Preview: "Use the reset link."},
		},
	}, nil)

	body := `{"collection":"docs","query":"how do I reset?"}`
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "Use the reset link.", data["answer"])
	assert.Equal(t, 0.82, data["confidence"])
	assert.Equal(t, false, data["escalated"])
	sources := data["sources"].([]interface{})
	require.Len(t, sources, 1)
}

func TestAskHandler_Ask_MissingFields(t *testing.T) {
	handler := NewAskHandler(new(MockAssistantService), new(MockSearchService))

	tests := []struct {
		name string
		body string
	}{
		{"missing collection", `{"query":"how?"}`},
		{"missing query", `{"collection":"docs"}`},
		{"blank query", `{"collection":"docs","query":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.Ask(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestAskHandler_Ask_InvalidBody(t *testing.T) {
	handler := NewAskHandler(new(MockAssistantService), new(MockSearchService))

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestAskHandler_Ask_CollectionNotFound(t *testing.T) {
	mockAssistant := new(MockAssistantService)
	handler := NewAskHandler(mockAssistant, new(MockSearchService))

	mockAssistant.On("Ask", mock.Anything, "missing", "q").
		Return(nil, domain.ErrCollectionNotFound)

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"collection":"missing","query":"q"}`))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAskHandler_Ask_GenerationFailure(t *testing.T) {
	mockAssistant := new(MockAssistantService)
	handler := NewAskHandler(mockAssistant, new(MockSearchService))

	mockAssistant.On("Ask", mock.Anything, "docs", "q").
		Return(nil, domain.NewDomainError(domain.ErrCodeGeneration, "model call failed"))

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"collection":"docs","query":"q"}`))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "model call failed")
}

func TestAskHandler_Search_Success(t *testing.T) {
	mockSearcher := new(MockSearchService)
	handler := NewAskHandler(new(MockAssistantService), mockSearcher)

	mockSearcher.On("Search", mock.Anything, "docs", "timeouts", 3).
		Return(domain.RetrievalResult{Chunks: []domain.ScoredChunk{
			{Chunk: domain.Chunk{Source: "guide.md", Index: 2, Text: "Set the timeout."}, Distance: 0.12},
		}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"collection":"docs","query":"timeouts","k":3}`))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	results := data["results"].([]interface{})
	require.Len(t, results, 1)
	first := results[0].(map[string]interface{})
	assert.Equal(t, "guide.md", first["source"])
	assert.Equal(t, float64(2), first["chunk_index"])
	assert.Equal(t, 0.12, first["distance"])
}

func TestAskHandler_Search_ValidationError(t *testing.T) {
	mockSearcher := new(MockSearchService)
	handler := NewAskHandler(new(MockAssistantService), mockSearcher)

	mockSearcher.On("Search", mock.Anything, "", "q", 0).
		Return(domain.RetrievalResult{}, domain.ErrMissingCollection)

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"q"}`))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
