package dedup

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_classifier.go -package=mocks chunkgate/internal/dedup Classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"chunkgate/internal/contextutil"
	"chunkgate/internal/storage"
)

// Classifier decides which chunks of a document must be embedded.
type Classifier interface {
	// Classify returns a non-nil error only for malformed input. Internal
	// failures are reported as OutcomeErrorSuppressed.
	Classify(ctx context.Context, fp Fingerprint, chunks []Chunk) (Result, error)
	// Revert undoes the catalog changes of a classification whose chunks
	// could not be stored, so the next ingestion forwards them again.
	Revert(ctx context.Context, result Result) error
}

// Engine classifies ingestions against the catalog.
type Engine struct {
	catalog      storage.CatalogStore
	reconciler   VectorReconciler
	trackUpdates bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithTrackUpdates controls whether a content update overwrites the stored
// hash and records the new chunk count. When disabled the catalog keeps the
// first hash seen for a name, so every later version is treated as an update.
func WithTrackUpdates(enabled bool) Option {
	return func(e *Engine) {
		e.trackUpdates = enabled
	}
}

// NewEngine creates a new Engine. Update tracking is on by default.
func NewEngine(catalog storage.CatalogStore, reconciler VectorReconciler, opts ...Option) *Engine {
	e := &Engine{
		catalog:      catalog,
		reconciler:   reconciler,
		trackUpdates: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Classify runs the decision for one document inside a single catalog
// transaction. A uniqueness conflict, typically a concurrent first ingestion
// of the same name, is retried once against the now committed state.
func (e *Engine) Classify(ctx context.Context, fp Fingerprint, chunks []Chunk) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx).With("document", fp.Name)

	if err := validate(fp, chunks); err != nil {
		logger.WarnContext(ctx, "rejecting malformed ingestion", "error", err)
		return Result{}, err
	}

	result, err := e.classifyTx(ctx, logger, fp, chunks)
	if errors.Is(err, storage.ErrConflict) {
		logger.WarnContext(ctx, "catalog conflict, retrying classification", "error", err)
		result, err = e.classifyTx(ctx, logger, fp, chunks)
	}
	if err != nil {
		logger.ErrorContext(ctx, "classification failed, preventing ingestion", "error", err)
		return Result{Outcome: OutcomeErrorSuppressed, Err: err}, nil
	}

	logger.InfoContext(ctx, "document classified",
		"outcome", result.Outcome.String(),
		"matched", result.MatchedName,
		"chunk_count", len(chunks),
		"forwarded", len(result.Chunks),
		"deleted", len(result.Deleted),
	)
	return result, nil
}

// classifyTx wraps decide in a transaction. Nothing is committed unless
// decide and the commit both succeed; a panic is turned into an error.
func (e *Engine) classifyTx(ctx context.Context, logger *slog.Logger, fp Fingerprint, chunks []Chunk) (result Result, err error) {
	tx, err := e.catalog.Begin(ctx)
	if err != nil {
		return Result{}, err
	}

	committed := false
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during classification: %v", r)
			result = Result{}
		}
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.DebugContext(ctx, "rollback after failed classification", "error", rbErr)
			}
		}
	}()

	result, err = e.decide(ctx, tx, fp, chunks)
	if err != nil {
		return Result{}, err
	}

	if err := tx.Commit(); err != nil {
		return Result{}, err
	}
	committed = true

	return result, nil
}

// decide evaluates the rules top to bottom; the first match wins.
func (e *Engine) decide(ctx context.Context, tx storage.CatalogTx, fp Fingerprint, chunks []Chunk) (Result, error) {
	chunkCount := len(chunks)

	byName, err := tx.DocumentByName(ctx, fp.Name)
	if errors.Is(err, storage.ErrNotFound) {
		return e.decideUnknownName(ctx, tx, fp, chunks)
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to look up document by name: %w", err)
	}

	known, err := hasChunkCount(ctx, tx, byName.ID, chunkCount)
	if err != nil {
		return Result{}, err
	}

	if byName.Hash == fp.Hash {
		if known {
			return Result{Outcome: OutcomeSkipUnchanged, MatchedName: byName.Name}, nil
		}
		if err := tx.AddChunkCount(ctx, byName.ID, chunkCount); err != nil {
			return Result{}, err
		}
		return Result{
			Outcome:     OutcomeSameContentNewShape,
			Chunks:      chunks,
			MatchedName: byName.Name,
			change:      &catalogChange{documentID: byName.ID, chunkCount: chunkCount, countAdded: true},
		}, nil
	}

	// Catalog writes go first so a failure leaves the vector store untouched.
	var change *catalogChange
	if e.trackUpdates {
		change = &catalogChange{documentID: byName.ID, chunkCount: chunkCount}

		owner, err := tx.DocumentByHash(ctx, fp.Hash)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			if err := tx.UpdateHash(ctx, byName.ID, fp.Hash); err != nil {
				return Result{}, err
			}
			change.previousHash = byName.Hash
			change.hash = fp.Hash
		case err != nil:
			return Result{}, fmt.Errorf("failed to look up document by hash: %w", err)
		default:
			// The hash is unique in the catalog; the name keeps its old hash.
			contextutil.LoggerFromContext(ctx).InfoContext(ctx, "updated content is cataloged under another name, keeping stored hash",
				"document", fp.Name,
				"owner", owner.Name,
			)
		}

		if !known {
			if err := tx.AddChunkCount(ctx, byName.ID, chunkCount); err != nil {
				return Result{}, err
			}
			change.countAdded = true
		}
	}

	rec, err := e.reconciler.Reconcile(ctx, fp.Name, chunks)
	if err != nil {
		return Result{}, fmt.Errorf("failed to reconcile vector store: %w", err)
	}

	return Result{
		Outcome:     OutcomeContentUpdated,
		Chunks:      rec.Delta,
		Deleted:     rec.StaleIDs,
		MatchedName: byName.Name,
		change:      change,
	}, nil
}

func (e *Engine) decideUnknownName(ctx context.Context, tx storage.CatalogTx, fp Fingerprint, chunks []Chunk) (Result, error) {
	chunkCount := len(chunks)

	byHash, err := tx.DocumentByHash(ctx, fp.Hash)
	if errors.Is(err, storage.ErrNotFound) {
		doc, err := tx.CreateDocument(ctx, fp.Name, fp.Hash, chunkCount)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Outcome: OutcomeNew,
			Chunks:  chunks,
			change:  &catalogChange{documentID: doc.ID, chunkCount: chunkCount, created: true, countAdded: true},
		}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to look up document by hash: %w", err)
	}

	known, err := hasChunkCount(ctx, tx, byHash.ID, chunkCount)
	if err != nil {
		return Result{}, err
	}
	if known {
		return Result{Outcome: OutcomeSkipDuplicateContent, MatchedName: byHash.Name}, nil
	}

	if err := tx.AddChunkCount(ctx, byHash.ID, chunkCount); err != nil {
		return Result{}, err
	}
	return Result{
		Outcome:     OutcomeDuplicateContentNewShape,
		Chunks:      chunks,
		MatchedName: byHash.Name,
		change:      &catalogChange{documentID: byHash.ID, chunkCount: chunkCount, countAdded: true},
	}, nil
}

// Revert rolls back the catalog side of a committed classification. Points
// deleted during reconciliation stay deleted; the next ingestion of the same
// content reconciles again and forwards whatever is missing.
func (e *Engine) Revert(ctx context.Context, result Result) error {
	change := result.change
	if change == nil {
		return nil
	}

	logger := contextutil.LoggerFromContext(ctx).With("document_id", change.documentID)

	tx, err := e.catalog.Begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.DebugContext(ctx, "rollback after failed revert", "error", rbErr)
			}
		}
	}()

	if change.countAdded {
		if err := tx.RemoveChunkCount(ctx, change.documentID, change.chunkCount); err != nil {
			return err
		}
	}

	if change.created {
		counts, err := tx.ChunkCounts(ctx, change.documentID)
		if err != nil {
			return err
		}
		// A concurrent ingestion may have recorded another shape meanwhile.
		if len(counts) == 0 {
			if err := tx.DeleteDocument(ctx, change.documentID); err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}
		}
	}

	if change.previousHash != "" {
		current, err := tx.DocumentByHash(ctx, change.hash)
		switch {
		case errors.Is(err, storage.ErrNotFound):
		case err != nil:
			return fmt.Errorf("failed to look up document by hash: %w", err)
		case current.ID == change.documentID:
			if err := tx.UpdateHash(ctx, change.documentID, change.previousHash); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	logger.InfoContext(ctx, "reverted classification", "outcome", result.Outcome.String(), "chunk_count", change.chunkCount)
	return nil
}

func hasChunkCount(ctx context.Context, tx storage.CatalogTx, documentID int64, chunkCount int) (bool, error) {
	counts, err := tx.ChunkCounts(ctx, documentID)
	if err != nil {
		return false, err
	}
	return slices.Contains(counts, chunkCount), nil
}
