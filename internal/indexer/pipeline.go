package indexer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks chunkgate/internal/indexer Embedder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"chunkgate/internal/contextutil"
	"chunkgate/internal/dedup"
	"chunkgate/internal/source"
	"chunkgate/internal/vectorstore"
)

// DefaultConcurrency is the number of documents ingested in parallel by IndexAll.
const DefaultConcurrency = 4

// ErrIndexRunning is returned when an IndexAll run is already in progress.
var ErrIndexRunning = errors.New("index run already in progress")

// pointNamespace scopes deterministic point ids to this service.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("chunkgate/points"))

// Embedder turns chunk text into vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Pipeline runs documents through fingerprinting, splitting, classification
// and the embedding write stage.
type Pipeline struct {
	classifier  dedup.Classifier
	splitter    *Splitter
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	scanner     *source.Scanner
	concurrency int

	mu      sync.Mutex
	current *runRecorder
	lastRun *RunStats
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithScanner sets the directory scanner used by IndexAll.
func WithScanner(s *source.Scanner) PipelineOption {
	return func(p *Pipeline) {
		p.scanner = s
	}
}

// WithConcurrency bounds the number of documents IndexAll ingests at once.
func WithConcurrency(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithSplitter replaces the default markdown splitter.
func WithSplitter(s *Splitter) PipelineOption {
	return func(p *Pipeline) {
		p.splitter = s
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	classifier dedup.Classifier,
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		classifier:  classifier,
		splitter:    NewSplitter(DefaultMaxChunkRunes),
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest classifies one document and writes the forwarded chunks.
// A non-nil error means the input was malformed or the write stage failed;
// suppressed classification failures come back in the result. After a write
// failure the classification is reverted so a retry forwards the chunks again.
func (p *Pipeline) Ingest(ctx context.Context, doc dedup.SourceDocument) (dedup.Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	fp, err := dedup.NewFingerprint(doc)
	if err != nil {
		return dedup.Result{}, err
	}

	chunks := p.splitter.Split(doc.Source, []byte(doc.Content))

	result, err := p.classifier.Classify(ctx, fp, chunks)
	if err != nil {
		return dedup.Result{}, err
	}
	if len(result.Chunks) == 0 {
		return result, nil
	}

	if err := p.write(ctx, result.Chunks); err != nil {
		logger.ErrorContext(ctx, "failed to write chunks", "document", doc.Source, "chunks", len(result.Chunks), "error", err)
		// The catalog must not claim content the vector store never received.
		if revertErr := p.classifier.Revert(context.WithoutCancel(ctx), result); revertErr != nil {
			logger.ErrorContext(ctx, "failed to revert catalog after write failure", "document", doc.Source, "error", revertErr)
			return result, errors.Join(err, revertErr)
		}
		return result, err
	}

	return result, nil
}

// write embeds chunks and upserts them as points.
func (p *Pipeline) write(ctx context.Context, chunks []dedup.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(vectors))
	}

	points := make([]vectorstore.Point, len(chunks))
	for i, c := range chunks {
		points[i] = vectorstore.Point{
			ID:  PointID(c.Source, c.Text),
			Vec: vectors[i],
			Meta: map[string]any{
				vectorstore.PayloadContentKey: c.Text,
				vectorstore.PayloadMetadataKey: map[string]any{
					"source":      c.Source,
					"chunk_index": c.Index,
				},
			},
		}
	}

	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}
	return nil
}

// PointID derives a stable point id from the document name and chunk text,
// so re-forwarding an identical chunk overwrites instead of duplicating it.
func PointID(source, text string) string {
	return uuid.NewSHA1(pointNamespace, []byte(source+"\x00"+text)).String()
}

// IndexAll scans the source directory and ingests every file with bounded
// concurrency. Per-file failures are counted but do not stop the run.
func (p *Pipeline) IndexAll(ctx context.Context) (*RunStats, error) {
	if p.scanner == nil {
		return nil, source.ErrNoRoot
	}

	rec := newRunRecorder(time.Now())

	p.mu.Lock()
	if p.current != nil {
		p.mu.Unlock()
		return nil, ErrIndexRunning
	}
	p.current = rec
	p.mu.Unlock()

	err := p.indexAll(ctx, rec)
	final := rec.finish(time.Now())

	p.mu.Lock()
	p.current = nil
	p.lastRun = &final
	p.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return &final, nil
}

func (p *Pipeline) indexAll(ctx context.Context, rec *runRecorder) error {
	logger := contextutil.LoggerFromContext(ctx)

	files, err := p.scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan sources: %w", err)
	}
	rec.setDocuments(len(files))

	logger.InfoContext(ctx, "starting indexing", "root", p.scanner.Root(), "total_files", len(files), "concurrency", p.concurrency)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, file := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			doc, err := source.Read(file)
			if err != nil {
				logger.ErrorContext(gctx, "failed to read file", "rel_path", file.RelPath, "error", err)
				rec.failed()
				return nil
			}

			result, err := p.Ingest(gctx, doc)
			if err != nil {
				logger.ErrorContext(gctx, "failed to index file", "rel_path", file.RelPath, "error", err)
			}
			rec.record(result, err)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	stats := rec.snapshot()
	logger.InfoContext(ctx, "indexing completed",
		"total_files", stats.Documents,
		"failed", stats.Failed,
		"chunks_forwarded", stats.ChunksForwarded,
		"chunks_deleted", stats.ChunksDeleted,
	)
	return nil
}

// Status returns the in-progress or last finished run, or nil if none ran yet.
func (p *Pipeline) Status() *RunStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		stats := p.current.snapshot()
		return &stats
	}
	if p.lastRun == nil {
		return nil
	}
	out := *p.lastRun
	return &out
}

// Running reports whether an IndexAll run is in progress.
func (p *Pipeline) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}
