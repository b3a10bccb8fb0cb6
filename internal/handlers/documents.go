package handlers

import (
	"errors"
	"net/http"
	"time"

	"chunkgate/internal/contextutil"
	"chunkgate/internal/storage"
)

// DocumentsHandler serves catalog lookups.
type DocumentsHandler struct {
	catalog storage.CatalogStore
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(catalog storage.CatalogStore) *DocumentsHandler {
	return &DocumentsHandler{catalog: catalog}
}

// DocumentResponse is the catalog entry for one document name.
type DocumentResponse struct {
	Name        string    `json:"name"`
	Hash        string    `json:"hash"`
	ChunkCounts []int     `json:"chunk_counts"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ServeHTTP handles GET /api/documents?name=...
func (h *DocumentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(ctx, w, http.StatusBadRequest, "name query parameter is required")
		return
	}

	doc, err := h.catalog.GetByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(ctx, w, http.StatusNotFound, "Document not found")
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "catalog lookup failed", "name", name, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Catalog lookup failed")
		return
	}

	counts, err := h.catalog.ChunkCounts(ctx, doc.ID)
	if err != nil {
		logger.ErrorContext(ctx, "chunk count lookup failed", "name", name, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Catalog lookup failed")
		return
	}
	if counts == nil {
		counts = []int{}
	}

	writeJSON(ctx, w, http.StatusOK, DocumentResponse{
		Name:        doc.Name,
		Hash:        doc.Hash,
		ChunkCounts: counts,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	})
}
