package handlers

import (
	"context"
	"errors"
	"net/http"

	"chunkgate/internal/contextutil"
	"chunkgate/internal/indexer"
)

// IndexRunner runs and reports batch ingestion of the source directory.
type IndexRunner interface {
	IndexAll(ctx context.Context) (*indexer.RunStats, error)
	Status() *indexer.RunStats
	Running() bool
}

// IndexHandler handles HTTP requests for batch indexing.
type IndexHandler struct {
	runner IndexRunner
}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler(runner IndexRunner) *IndexHandler {
	return &IndexHandler{runner: runner}
}

// IndexResponse represents the response from the index endpoint.
type IndexResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP starts a run on POST and reports the latest run on GET.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.start(w, r)
	case http.MethodGet:
		h.status(w, r)
	default:
		ctx := r.Context()
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *IndexHandler) start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if h.runner.Running() {
		writeError(ctx, w, http.StatusConflict, indexer.ErrIndexRunning.Error())
		return
	}

	logger.InfoContext(ctx, "indexing triggered via API")

	// The run outlives the request but keeps its logger.
	runCtx := context.WithoutCancel(ctx)
	go func() {
		stats, err := h.runner.IndexAll(runCtx)
		switch {
		case errors.Is(err, indexer.ErrIndexRunning):
			logger.WarnContext(runCtx, "indexing already in progress")
		case err != nil:
			logger.ErrorContext(runCtx, "indexing failed", "error", err)
		default:
			logger.InfoContext(runCtx, "indexing completed", "documents", stats.Documents, "failed", stats.Failed)
		}
	}()

	writeJSON(ctx, w, http.StatusAccepted, IndexResponse{
		Message: "Indexing started. Poll GET /api/index for progress.",
		Status:  "accepted",
	})
}

func (h *IndexHandler) status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats := h.runner.Status()
	if stats == nil {
		writeError(ctx, w, http.StatusNotFound, "No indexing run yet")
		return
	}
	writeJSON(ctx, w, http.StatusOK, stats)
}
