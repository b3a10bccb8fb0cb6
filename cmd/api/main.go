package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chunkgate/internal/config"
	"chunkgate/internal/dedup"
	"chunkgate/internal/embedding"
	"chunkgate/internal/http"
	"chunkgate/internal/indexer"
	"chunkgate/internal/source"
	"chunkgate/internal/storage"
	"chunkgate/internal/vectorstore"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize catalog database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	catalog := storage.NewCatalog(db)
	slog.Info("Catalog initialized", "path", cfg.DBPath)

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantAPIKey)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	defer func() {
		_ = vectorStore.Close()
	}()

	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	// Fail fast when the embedding service disagrees with the collection.
	embedder := embedding.NewClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	if _, err := embedder.Embed(ctx, []string{"test"}); err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	slog.Info("Embedding client validated", "model", cfg.EmbeddingModelName, "vector_size", cfg.QdrantVectorSize)

	engine := dedup.NewEngine(
		catalog,
		dedup.NewReconciler(vectorStore, cfg.QdrantCollection),
		dedup.WithTrackUpdates(cfg.TrackUpdates),
	)

	pipelineOpts := []indexer.PipelineOption{
		indexer.WithSplitter(indexer.NewSplitter(cfg.MaxChunkRunes)),
		indexer.WithConcurrency(cfg.IndexConcurrency),
	}
	if cfg.SourceDir != "" {
		pipelineOpts = append(pipelineOpts, indexer.WithScanner(source.NewScanner(cfg.SourceDir)))
	}
	pipeline := indexer.NewPipeline(engine, embedder, vectorStore, cfg.QdrantCollection, pipelineOpts...)

	router := http.NewRouter(&http.Deps{
		Ingester:    pipeline,
		Indexer:     pipeline,
		Catalog:     catalog,
		DB:          db,
		VectorStore: vectorStore,
		Collection:  cfg.QdrantCollection,
	})

	// Start indexing in background after router is ready
	if cfg.SourceDir != "" {
		go func() {
			slog.Info("Starting background indexing", "root", cfg.SourceDir)
			stats, err := pipeline.IndexAll(ctx)
			if err != nil {
				slog.Error("Indexing completed with errors", "error", err)
				return
			}
			slog.Info("Indexing completed successfully", "documents", stats.Documents, "forwarded", stats.ChunksForwarded)
		}()
	}

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "addr", server.Addr)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed: %v", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("API server shutdown failed", "error", err)
		}
	}
}
