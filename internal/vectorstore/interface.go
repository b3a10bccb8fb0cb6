package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks chunkgate/internal/vectorstore VectorStore

import "context"

// Payload keys shared with the retrieval side of the pipeline.
const (
	PayloadContentKey  = "page_content"
	PayloadMetadataKey = "metadata"
	// SourceFilterKey addresses the source field nested under metadata.
	SourceFilterKey = PayloadMetadataKey + ".source"
)

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// StoredPoint is a point read back from the store, without its vector.
type StoredPoint struct {
	ID      string
	Payload map[string]any
}

// Content returns the chunk text stored under the page_content payload key.
func (p StoredPoint) Content() (string, bool) {
	text, ok := p.Payload[PayloadContentKey].(string)
	return text, ok
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Scroll lists every point matching all filters (exact match), with payload.
	Scroll(ctx context.Context, collection string, filters map[string]any) ([]StoredPoint, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error

	// CollectionExists checks if a collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)
}
