package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"chunkgate/internal/contextutil"
	"chunkgate/internal/dedup"
)

// maxIngestBodyBytes caps the size of a single ingestion request.
const maxIngestBodyBytes = 32 << 20

// Ingester runs one document through the ingestion pipeline.
type Ingester interface {
	Ingest(ctx context.Context, doc dedup.SourceDocument) (dedup.Result, error)
}

// IngestHandler handles HTTP requests for single-document ingestion.
type IngestHandler struct {
	ingester Ingester
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(ingester Ingester) *IngestHandler {
	return &IngestHandler{ingester: ingester}
}

// IngestRequest is the HTTP request payload for ingestion.
type IngestRequest struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// IngestResponse reports how a document was classified.
type IngestResponse struct {
	Outcome         dedup.Outcome `json:"outcome"`
	MatchedName     string        `json:"matched_name,omitempty"`
	ChunksForwarded int           `json:"chunks_forwarded"`
	ChunksDeleted   int           `json:"chunks_deleted"`
	Error           string        `json:"error,omitempty"`
}

// ServeHTTP handles POST /api/ingest.
//
// Malformed input is answered with 400. A suppressed classification failure
// is a 200 with outcome error_suppressed, since nothing was written. A failure
// while embedding or storing forwarded chunks is a 502.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req IngestRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxIngestBodyBytes)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.ingester.Ingest(ctx, dedup.SourceDocument{Source: req.Source, Content: req.Content})
	if err != nil {
		var vErr *dedup.ValidationError
		if errors.As(err, &vErr) {
			writeError(ctx, w, http.StatusBadRequest, vErr.Error())
			return
		}
		logger.ErrorContext(ctx, "ingestion write stage failed", "source", req.Source, "error", err)
		resp := toIngestResponse(result)
		resp.Error = "Failed to store chunks"
		writeJSON(ctx, w, http.StatusBadGateway, resp)
		return
	}

	writeJSON(ctx, w, http.StatusOK, toIngestResponse(result))
}

func toIngestResponse(result dedup.Result) IngestResponse {
	resp := IngestResponse{
		Outcome:         result.Outcome,
		MatchedName:     result.MatchedName,
		ChunksForwarded: len(result.Chunks),
		ChunksDeleted:   len(result.Deleted),
	}
	if result.Err != nil {
		resp.Error = "ingestion suppressed after an internal error"
	}
	return resp
}
