package openai

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cloo-solutions/docqa/internal/domain"
)

// EmbeddingAPI defines the interface for batch embedding generation.
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

type OpenAIAdapter struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAIAdapter(client *openai.Client, model string) *OpenAIAdapter {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &OpenAIAdapter{
		client: client,
		model:  openai.EmbeddingModel(model),
	}
}

// CreateEmbeddings sends one batch request and returns vectors in input order.
func (a *OpenAIAdapter) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: a.model,
	})
	if err != nil {
		return nil, err
	}

	data := resp.Data
	sort.SliceStable(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	vectors := make([][]float32, len(data))
	for i, d := range data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

// Embedder turns texts into vectors via an OpenAI-compatible embeddings endpoint.
type Embedder struct {
	api        EmbeddingAPI
	hasKey     bool
	dimensions int
}

func NewEmbedder(cfg Config) *Embedder {
	cfg = cfg.withDefaults()
	return &Embedder{
		api:        NewOpenAIAdapter(newAPIClient(cfg), cfg.EmbeddingModel),
		hasKey:     cfg.APIKey != "",
		dimensions: cfg.EmbeddingDimensions,
	}
}

func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// Embed returns one vector per text, in the same order. An empty batch makes no request.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if !e.hasKey {
		return nil, domain.ErrNoCredential
	}

	slog.Debug("creating embeddings", "count", len(texts))

	vectors, err := e.api.CreateEmbeddings(ctx, texts)
	if err != nil {
		return nil, classifyError(serviceEmbedding, err)
	}

	if len(vectors) != len(texts) {
		return nil, malformed(serviceEmbedding, fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(vectors)), nil)
	}
	for i, v := range vectors {
		if len(v) != e.dimensions {
			return nil, malformed(serviceEmbedding,
				fmt.Sprintf("embedding %d has %d dimensions, expected %d", i, len(v), e.dimensions), nil)
		}
	}

	return vectors, nil
}

// EmbedOne embeds a single text.
func (e *Embedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return []float32{}, nil
	}
	return vectors[0], nil
}
