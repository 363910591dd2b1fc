package service

import (
	"context"
	"log/slog"

	"github.com/cloo-solutions/docqa/internal/domain"
	"github.com/cloo-solutions/docqa/internal/telemetry"
)

const DefaultTopK = 5

// QueryEmbedder embeds a single query string.
type QueryEmbedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// RetrievalStore is the read side of the vector store.
type RetrievalStore interface {
	Count(ctx context.Context) (int, error)
	Query(ctx context.Context, vector []float32, topK int) ([]string, []domain.Metadata, error)
}

// RetrievalReason explains why a search produced what it did.
type RetrievalReason string

const (
	ReasonFound           RetrievalReason = "found"
	ReasonEmptyCollection RetrievalReason = "empty_collection"
	ReasonEmptyEmbedding  RetrievalReason = "empty_embedding"
	ReasonNoMatches       RetrievalReason = "no_matches"
	ReasonFailure         RetrievalReason = "failure"
)

// RetrievalResult holds aligned documents and metadata. len(Documents) == len(Metadatas) always.
type RetrievalResult struct {
	Documents []string
	Metadatas []domain.Metadata
	Reason    RetrievalReason
	Err       error
}

func (r RetrievalResult) Found() bool {
	return r.Reason == ReasonFound
}

func notFound(reason RetrievalReason, err error) RetrievalResult {
	return RetrievalResult{
		Documents: []string{},
		Metadatas: []domain.Metadata{},
		Reason:    reason,
		Err:       err,
	}
}

type Retriever struct {
	embedder QueryEmbedder
	store    RetrievalStore
	topK     int
}

func NewRetriever(embedder QueryEmbedder, store RetrievalStore, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		embedder: embedder,
		store:    store,
		topK:     topK,
	}
}

// Search embeds query and returns its nearest stored chunks.
// Failures are logged and reported as an empty result with ReasonFailure.
func (r *Retriever) Search(ctx context.Context, query string, topK int) RetrievalResult {
	ctx, span := telemetry.StartSpan(ctx, "retrieve", telemetry.SpanAttributes{Operation: "similarity_search"})
	defer span.End()

	if topK <= 0 {
		topK = r.topK
	}

	count, err := r.store.Count(ctx)
	if err != nil {
		slog.Error("retrieval failed: counting collection", "error", err)
		return notFound(ReasonFailure, err)
	}
	if count == 0 {
		slog.Info("retrieval skipped: collection is empty")
		return notFound(ReasonEmptyCollection, nil)
	}

	vector, err := r.embedder.EmbedOne(ctx, query)
	if err != nil {
		slog.Error("retrieval failed: embedding query", "error", err)
		return notFound(ReasonFailure, err)
	}
	if len(vector) == 0 {
		slog.Warn("retrieval skipped: empty query embedding")
		return notFound(ReasonEmptyEmbedding, nil)
	}

	documents, metadatas, err := r.store.Query(ctx, vector, topK)
	if err != nil {
		slog.Error("retrieval failed: querying store", "error", err)
		return notFound(ReasonFailure, err)
	}
	if len(documents) == 0 {
		return notFound(ReasonNoMatches, nil)
	}

	metadatas = alignMetadata(len(documents), metadatas)
	span.SetData("documents", len(documents))
	slog.Info("retrieved documents", "count", len(documents), "top_k", topK)

	return RetrievalResult{
		Documents: documents,
		Metadatas: metadatas,
		Reason:    ReasonFound,
	}
}

// Retrieve is Search without the diagnostic reason.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]string, []domain.Metadata) {
	res := r.Search(ctx, query, topK)
	return res.Documents, res.Metadatas
}

// alignMetadata pads with empty maps, or truncates, so there is one entry per document.
func alignMetadata(n int, metadatas []domain.Metadata) []domain.Metadata {
	if len(metadatas) == n {
		return metadatas
	}
	if len(metadatas) > n {
		return metadatas[:n]
	}
	aligned := make([]domain.Metadata, n)
	copy(aligned, metadatas)
	for i := len(metadatas); i < n; i++ {
		aligned[i] = domain.Metadata{}
	}
	return aligned
}
