package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cloo-solutions/askdocs/internal/api"
	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/cloo-solutions/askdocs/internal/service"
)

// AssistantService answers questions against a collection
type AssistantService interface {
	Ask(ctx context.Context, collection, query string) (*service.AskResult, error)
}

// SearchService exposes raw top-k retrieval
type SearchService interface {
	Search(ctx context.Context, collection, query string, k int) (domain.RetrievalResult, error)
}

// AskHandler serves the query-facing operations.
type AskHandler struct {
	assistant AssistantService
	searcher  SearchService
}

func NewAskHandler(assistant AssistantService, searcher SearchService) *AskHandler {
	return &AskHandler{assistant: assistant, searcher: searcher}
}

type AskRequest struct {
	Collection string `json:"collection"`
	Query      string `json:"query"`
}

// Ask handles POST /ask
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Collection) == "" {
		api.HandleError(w, domain.ErrMissingCollection)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		api.HandleError(w, domain.ErrEmptyQuery)
		return
	}

	result, err := h.assistant.Ask(r.Context(), req.Collection, req.Query)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}

type SearchRequest struct {
	Collection string `json:"collection"`
	Query      string `json:"query"`
	K          int    `json:"k,omitempty"`
}

type SearchResultResponse struct {
	Text       string  `json:"text"`
	Source     string  `json:"source"`
	ChunkIndex int     `json:"chunk_index"`
	Distance   float64 `json:"distance"`
}

// Search handles POST /search
func (h *AskHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.searcher.Search(r.Context(), req.Collection, req.Query, req.K)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	results := make([]SearchResultResponse, len(result.Chunks))
	for i, sc := range result.Chunks {
		results[i] = SearchResultResponse{
			Text:       sc.Chunk.Text,
			Source:     sc.Chunk.Source,
			ChunkIndex: sc.Chunk.Index,
			Distance:   sc.Distance,
		}
	}

	api.Success(w, http.StatusOK, map[string]interface{}{"results": results})
}
