package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"chunkgate/internal/handlers"
	"chunkgate/internal/storage"
	"chunkgate/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Ingester    handlers.Ingester
	Indexer     handlers.IndexRunner
	Catalog     storage.CatalogStore
	DB          handlers.Pinger
	VectorStore vectorstore.VectorStore
	Collection  string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/ingest", handlers.NewIngestHandler(deps.Ingester))

		index := handlers.NewIndexHandler(deps.Indexer)
		r.Method(http.MethodPost, "/index", index)
		r.Method(http.MethodGet, "/index", index)

		r.Method(http.MethodGet, "/documents", handlers.NewDocumentsHandler(deps.Catalog))
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.DB, deps.VectorStore, deps.Collection))
	})

	return r
}
