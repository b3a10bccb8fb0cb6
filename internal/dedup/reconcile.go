package dedup

import (
	"context"
	"fmt"

	"chunkgate/internal/contextutil"
	"chunkgate/internal/vectorstore"
)

// Reconciliation is the content-addressed diff between stored and new chunks.
type Reconciliation struct {
	// Delta holds new chunks whose text is not stored yet, in input order.
	Delta []Chunk
	// StaleIDs holds stored points whose text is absent from the new chunks.
	StaleIDs []string
	// Kept counts stored points reused as-is.
	Kept int
}

// VectorReconciler brings the vector store in line with a new document version.
type VectorReconciler interface {
	Reconcile(ctx context.Context, name string, chunks []Chunk) (Reconciliation, error)
}

// Reconciler diffs chunks by text against the points stored for a source.
// Reordered but otherwise identical chunks cause neither deletes nor re-embedding.
type Reconciler struct {
	store      vectorstore.VectorStore
	collection string
}

// NewReconciler creates a Reconciler over one collection.
func NewReconciler(store vectorstore.VectorStore, collection string) *Reconciler {
	return &Reconciler{
		store:      store,
		collection: collection,
	}
}

// Reconcile deletes stored points for name whose text no longer appears and
// returns the chunks that still need embedding.
func (r *Reconciler) Reconcile(ctx context.Context, name string, chunks []Chunk) (Reconciliation, error) {
	logger := contextutil.LoggerFromContext(ctx)

	existing, err := r.store.Scroll(ctx, r.collection, map[string]any{
		vectorstore.SourceFilterKey: name,
	})
	if err != nil {
		return Reconciliation{}, fmt.Errorf("failed to list stored chunks: %w", err)
	}

	newTexts := make(map[string]struct{}, len(chunks))
	for _, chunk := range chunks {
		newTexts[chunk.Text] = struct{}{}
	}

	var result Reconciliation
	storedTexts := make(map[string]struct{}, len(existing))
	for _, point := range existing {
		text, ok := point.Content()
		if !ok {
			// Cannot be matched against anything, so it can only be stale.
			logger.WarnContext(ctx, "stored point has no text payload", "point_id", point.ID)
			result.StaleIDs = append(result.StaleIDs, point.ID)
			continue
		}
		storedTexts[text] = struct{}{}
		if _, keep := newTexts[text]; keep {
			result.Kept++
			continue
		}
		result.StaleIDs = append(result.StaleIDs, point.ID)
	}

	for _, chunk := range chunks {
		if _, stored := storedTexts[chunk.Text]; !stored {
			result.Delta = append(result.Delta, chunk)
		}
	}

	if len(result.StaleIDs) > 0 {
		if err := r.store.Delete(ctx, r.collection, result.StaleIDs); err != nil {
			return Reconciliation{}, fmt.Errorf("failed to delete stale chunks: %w", err)
		}
	}

	logger.DebugContext(ctx, "reconciled vector store",
		"source", name,
		"stored", len(existing),
		"kept", result.Kept,
		"stale", len(result.StaleIDs),
		"delta", len(result.Delta),
	)
	return result, nil
}
