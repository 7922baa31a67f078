package server

import (
	"net/http"

	"github.com/cloo-solutions/askdocs/internal/api"
	"github.com/cloo-solutions/askdocs/internal/api/handlers"
	"github.com/cloo-solutions/askdocs/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	AskHandler        *handlers.AskHandler
	CollectionHandler *handlers.CollectionHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/ask", cfg.AskHandler.Ask)
	r.Post("/search", cfg.AskHandler.Search)
	r.Post("/ingest", cfg.CollectionHandler.Ingest)

	r.Route("/collections", func(r chi.Router) {
		r.Get("/", cfg.CollectionHandler.List)
		r.Get("/{name}", cfg.CollectionHandler.Get)
		r.Delete("/{name}", cfg.CollectionHandler.Delete)
	})

	r.Get("/stats", cfg.CollectionHandler.Stats)

	return r
}
