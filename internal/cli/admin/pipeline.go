package admin

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloo-solutions/docqa/internal/config"
	"github.com/cloo-solutions/docqa/internal/database"
	"github.com/cloo-solutions/docqa/internal/domain"
	"github.com/cloo-solutions/docqa/internal/logger"
	"github.com/cloo-solutions/docqa/internal/openai"
	"github.com/cloo-solutions/docqa/internal/repository"
	"github.com/cloo-solutions/docqa/internal/service"
	"github.com/cloo-solutions/docqa/internal/storage"
	"github.com/cloo-solutions/docqa/internal/telemetry"
)

// VectorStore is what the pipeline needs from a store implementation.
type VectorStore interface {
	service.RetrievalStore
	service.IngestionStore
	service.SourceEnumerator
	GetOrCreateCollection(ctx context.Context) (domain.Collection, error)
}

// Pipeline wires the configured store and LLM clients into the query and ingestion services.
type Pipeline struct {
	Config    *config.Config
	Store     VectorStore
	Ingestion *service.IngestionService
	Query     *service.QueryService
	Sources   *service.SourceService

	pool              *pgxpool.Pool
	shutdownTelemetry func()
}

type pipelineOptions struct {
	migrate bool
}

// BuildPipeline connects the vector store, validates its collection and builds the services.
func BuildPipeline(ctx context.Context, cfg *config.Config, opts pipelineOptions) (*Pipeline, error) {
	p := &Pipeline{Config: cfg}

	switch cfg.VectorStore {
	case config.StoreMemory:
		slog.Warn("using in-memory vector store, records are lost on exit")
		p.Store = repository.NewMemoryStore(cfg.Collection, cfg.EmbeddingDimensions)
	default:
		pool, err := database.NewPool(ctx, database.Config{
			URL:      cfg.DatabaseURL,
			MaxConns: cfg.DatabaseMaxConns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		p.pool = pool
		slog.Info("connected to database")

		if opts.migrate {
			if err := database.Migrate(cfg.DatabaseURL, database.DefaultMigrationsSource); err != nil {
				pool.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		p.Store = repository.NewPgVectorStore(pool, cfg.Collection, cfg.EmbeddingDimensions)
	}

	collection, err := p.Store.GetOrCreateCollection(ctx)
	if err != nil {
		p.Close()
		return nil, err
	}
	slog.Info("vector collection ready", "collection", collection.Name, "dimension", collection.Dimension, "distance", collection.Distance)

	if !cfg.HasLLM() {
		slog.Warn("DOCQA_LLM_API_KEY is not set, embedding and completion calls will fail")
	}

	llm := openai.Config{
		APIKey:              cfg.LLMAPIKey,
		BaseURL:             cfg.LLMBaseURL,
		EmbeddingModel:      cfg.EmbeddingModel,
		ChatModel:           cfg.ChatModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
		Temperature:         cfg.Temperature,
		MaxTokens:           cfg.MaxTokens,
		Timeout:             cfg.RequestTimeout,
		Referer:             cfg.AppReferer,
		Title:               cfg.AppTitle,
	}
	embedder := openai.NewEmbedder(llm)
	completer := openai.NewCompleter(llm)

	chunkCfg := service.ChunkConfig{Size: cfg.ChunkSize, Overlap: cfg.ChunkOverlap}
	p.Ingestion = service.NewIngestionService(embedder, p.Store, chunkCfg, cfg.Policy())
	p.Query = service.NewQueryService(
		service.NewRetriever(embedder, p.Store, cfg.TopK),
		service.NewGenerator(completer),
		cfg.TopK,
	)
	p.Sources = service.NewSourceService(p.Store)

	return p, nil
}

// Close releases the database pool and flushes telemetry.
func (p *Pipeline) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
	if p.shutdownTelemetry != nil {
		p.shutdownTelemetry()
	}
}

// NewArchive returns S3 storage when configured, otherwise the local upload directory.
func NewArchive(ctx context.Context, cfg *config.Config) (storage.Archive, error) {
	if !cfg.HasS3() {
		archive, err := storage.NewLocalArchive(cfg.UploadDir)
		if err != nil {
			return nil, err
		}
		slog.Info("archiving uploads locally", "dir", cfg.UploadDir)
		return archive, nil
	}

	client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		Bucket:          cfg.S3Bucket,
		UsePathStyle:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	if err := client.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure S3 bucket: %w", err)
	}
	slog.Info("archiving uploads to S3", "bucket", cfg.S3Bucket)
	return client, nil
}

// initTelemetry starts Sentry when a DSN is configured. The returned func flushes it.
func initTelemetry(cfg *config.Config) func() {
	if !cfg.HasSentry() {
		return func() {}
	}

	// 10% sampling outside development
	sampleRate := 0.1
	if cfg.Environment == "development" {
		sampleRate = 1.0
	}

	shutdown, err := telemetry.Init(telemetry.Config{
		DSN:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		TracesSampleRate: sampleRate,
		Debug:            cfg.Debug,
	})
	if err != nil {
		slog.Warn("telemetry init failed, continuing without tracing", "error", err)
		return func() {}
	}
	return shutdown
}

func setupLogging(cfg *config.Config, out io.Writer) {
	logger.New(logger.Config{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Output: out,
	})
}

// loadPipeline is the common prologue of the one-shot commands.
func loadPipeline(ctx context.Context, stderr io.Writer) (*Pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	setupLogging(cfg, stderr)

	shutdown := initTelemetry(cfg)
	p, err := BuildPipeline(ctx, cfg, pipelineOptions{})
	if err != nil {
		shutdown()
		return nil, err
	}
	p.shutdownTelemetry = shutdown
	return p, nil
}
