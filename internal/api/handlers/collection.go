package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cloo-solutions/askdocs/internal/api"
	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/cloo-solutions/askdocs/internal/querylog"
	"github.com/cloo-solutions/askdocs/internal/service"
	"github.com/cloo-solutions/askdocs/internal/storage"
	"github.com/go-chi/chi/v5"
)

// CollectionStore exposes collection administration
type CollectionStore interface {
	Clear(ctx context.Context, collection string) error
	Info(ctx context.Context, collection string) (*domain.CollectionInfo, error)
	List(ctx context.Context) ([]domain.CollectionInfo, error)
	Sources(ctx context.Context, collection string) ([]domain.SourceCount, error)
}

// IngestService runs folder ingestion into a collection
type IngestService interface {
	Ingest(ctx context.Context, source service.DocumentSource, collection string, progress service.ProgressFunc) (*service.IngestReport, error)
}

// StatsProvider aggregates the query log
type StatsProvider interface {
	Stats() (*querylog.Stats, error)
}

// CollectionHandler serves the administrative operations.
type CollectionHandler struct {
	store    CollectionStore
	ingester IngestService
	stats    StatsProvider
}

func NewCollectionHandler(store CollectionStore, ingester IngestService, stats StatsProvider) *CollectionHandler {
	return &CollectionHandler{store: store, ingester: ingester, stats: stats}
}

type CollectionInfoResponse struct {
	Name      string `json:"name"`
	Chunks    int    `json:"chunks"`
	Dimension int    `json:"dimension"`
	CreatedAt string `json:"created_at"`
}

func infoResponse(info domain.CollectionInfo) CollectionInfoResponse {
	return CollectionInfoResponse{
		Name:      info.Name,
		Chunks:    info.Chunks,
		Dimension: info.Dimension,
		CreatedAt: info.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// List handles GET /collections
func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	infos, err := h.store.List(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make([]CollectionInfoResponse, len(infos))
	for i, info := range infos {
		out[i] = infoResponse(info)
	}
	api.Success(w, http.StatusOK, map[string]interface{}{"collections": out})
}

type SourceCountResponse struct {
	Source string `json:"source"`
	Chunks int    `json:"chunks"`
}

// Get handles GET /collections/{name}
func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	info, err := h.store.Info(r.Context(), name)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	sources, err := h.store.Sources(r.Context(), name)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	sourceCounts := make([]SourceCountResponse, len(sources))
	for i, sc := range sources {
		sourceCounts[i] = SourceCountResponse{Source: sc.Source, Chunks: sc.Chunks}
	}

	api.Success(w, http.StatusOK, map[string]interface{}{
		"collection": infoResponse(*info),
		"sources":    sourceCounts,
	})
}

// Delete handles DELETE /collections/{name}. Idempotent: deleting a
// nonexistent collection succeeds.
func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.store.Clear(r.Context(), name); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]string{"status": "cleared", "collection": name})
}

type IngestRequest struct {
	Path       string `json:"path"`
	Collection string `json:"collection"`
}

type IngestResponse struct {
	Collection string   `json:"collection"`
	Documents  int      `json:"documents"`
	Chunks     int      `json:"chunks"`
	Skipped    []string `json:"skipped,omitempty"`
}

// Ingest handles POST /ingest. The path refers to a server-local folder.
func (h *CollectionHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Collection) == "" {
		api.HandleError(w, domain.ErrMissingCollection)
		return
	}

	report, err := h.ingester.Ingest(r.Context(), storage.NewFolderSource(req.Path), req.Collection, nil)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := IngestResponse{
		Collection: report.Collection,
		Documents:  report.Documents,
		Chunks:     report.Chunks,
	}
	for _, skip := range report.Skipped {
		resp.Skipped = append(resp.Skipped, skip.Path+": "+skip.Reason)
	}

	api.Success(w, http.StatusOK, resp)
}

// Stats handles GET /stats
func (h *CollectionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats()
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, stats)
}
