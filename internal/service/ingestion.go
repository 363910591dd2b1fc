package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloo-solutions/docqa/internal/domain"
	"github.com/cloo-solutions/docqa/internal/telemetry"
)

// ChunkEmbedder embeds a batch of chunks in one call.
type ChunkEmbedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// IngestionStore is the write side of the vector store.
type IngestionStore interface {
	Store(ctx context.Context, chunks []string, vectors [][]float32, metadata []domain.Metadata) error
	ReplaceSource(ctx context.Context, source string, chunks []string, vectors [][]float32, metadata []domain.Metadata) error
	HasSource(ctx context.Context, source string) (bool, error)
	Clear(ctx context.Context) error
}

type IngestResult struct {
	DocumentID string `json:"document_id"`
	ChunkCount int    `json:"chunk_count"`
}

type IngestionService struct {
	embedder ChunkEmbedder
	store    IngestionStore
	chunkCfg ChunkConfig
	policy   domain.DuplicatePolicy
}

func NewIngestionService(embedder ChunkEmbedder, store IngestionStore, chunkCfg ChunkConfig, policy domain.DuplicatePolicy) *IngestionService {
	if !policy.IsValid() {
		policy = domain.DuplicateAppend
	}
	return &IngestionService{
		embedder: embedder,
		store:    store,
		chunkCfg: chunkCfg,
		policy:   policy,
	}
}

// Ingest chunks, embeds and stores text under documentID. It is all-or-nothing per document.
func (s *IngestionService) Ingest(ctx context.Context, documentID, text string) (*IngestResult, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, domain.ErrMissingDocumentID
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyDocument
	}

	ctx, span := telemetry.StartSpan(ctx, "ingest", telemetry.SpanAttributes{DocumentID: documentID, Operation: "ingest"})
	defer span.End()

	chunks := ChunkText(text, s.chunkCfg)
	if len(chunks) == 0 {
		return nil, domain.ErrNoChunks
	}
	slog.Info("chunked document", "document_id", documentID, "chunks", len(chunks))

	if s.policy == domain.DuplicateReject {
		exists, err := s.store.HasSource(ctx, documentID)
		if err != nil {
			return nil, domain.NewPipelineError("failed to check for existing document", err)
		}
		if exists {
			return nil, domain.ErrDocumentAlreadyExists
		}
	}

	vectors, err := s.embedder.Embed(ctx, chunks)
	if err != nil {
		if domain.IsValidation(err) {
			return nil, err
		}
		span.SetError(err)
		return nil, domain.NewPipelineError(fmt.Sprintf("failed to embed document %q", documentID), err)
	}

	metadata := make([]domain.Metadata, len(chunks))
	for i := range chunks {
		metadata[i] = domain.SourceMetadata(documentID)
	}

	if s.policy == domain.DuplicateReplace {
		err = s.store.ReplaceSource(ctx, documentID, chunks, vectors, metadata)
	} else {
		err = s.store.Store(ctx, chunks, vectors, metadata)
	}
	if err != nil {
		if domain.IsValidation(err) {
			return nil, err
		}
		span.SetError(err)
		return nil, domain.NewPipelineError(fmt.Sprintf("failed to store document %q", documentID), err)
	}

	slog.Info("ingested document", "document_id", documentID, "chunks", len(chunks), "policy", s.policy)

	return &IngestResult{
		DocumentID: documentID,
		ChunkCount: len(chunks),
	}, nil
}

// Reset wipes every stored record.
func (s *IngestionService) Reset(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return domain.NewPipelineError("failed to clear collection", err)
	}
	slog.Warn("collection cleared")
	return nil
}
