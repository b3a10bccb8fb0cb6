// Package embedding talks to an OpenAI compatible /v1/embeddings endpoint.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"chunkgate/internal/contextutil"
)

// DefaultBatchSize is the number of texts sent per request.
const DefaultBatchSize = 32

// ErrEmptyInput is returned when Embed is called without texts.
var ErrEmptyInput = errors.New("empty input")

// Client embeds chunk text through an HTTP embeddings API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	dimension  int
	batchSize  int
	httpClient *http.Client
}

// NewClient creates a new embeddings client. dimension is the vector size the
// collection was created with; every returned vector is checked against it.
func NewClient(baseURL, apiKey, model string, dimension int) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		dimension:  dimension,
		batchSize:  DefaultBatchSize,
		httpClient: http.DefaultClient,
	}
}

// Dimension returns the expected vector size.
func (c *Client) Dimension() int {
	return c.dimension
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingData struct {
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

type embeddingsResponse struct {
	Data []embeddingData `json:"data"`
}

// Embed returns one vector per text, in input order. Large inputs are split
// into batches of at most DefaultBatchSize texts.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	logger := contextutil.LoggerFromContext(ctx)

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := min(start+c.batchSize, len(texts))
		batch, err := c.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}

	logger.DebugContext(ctx, "embedded texts", "model", c.model, "count", len(texts))
	return vectors, nil
}

func (c *Client) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embeddingsRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("embeddings API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(parsed.Data))
	}

	// Servers may answer out of order; the index field is authoritative.
	vectors := make([][]float32, len(texts))
	for i, data := range parsed.Data {
		idx := data.Index
		if idx < 0 || idx >= len(texts) || vectors[idx] != nil {
			idx = i
		}
		if len(data.Embedding) != c.dimension {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d", idx, len(data.Embedding), c.dimension)
		}
		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		vectors[idx] = vec
	}
	for i, vec := range vectors {
		if vec == nil {
			return nil, fmt.Errorf("missing embedding for input %d", i)
		}
	}

	return vectors, nil
}
