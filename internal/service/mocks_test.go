package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cloo-solutions/docqa/internal/domain"
)

// MockEmbedder is a mock implementation of ChunkEmbedder and QueryEmbedder
type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *MockEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockVectorStore is a mock implementation of the store interfaces
type MockVectorStore struct {
	mock.Mock
}

func (m *MockVectorStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockVectorStore) Query(ctx context.Context, vector []float32, topK int) ([]string, []domain.Metadata, error) {
	args := m.Called(ctx, vector, topK)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]string), args.Get(1).([]domain.Metadata), args.Error(2)
}

func (m *MockVectorStore) Store(ctx context.Context, chunks []string, vectors [][]float32, metadata []domain.Metadata) error {
	args := m.Called(ctx, chunks, vectors, metadata)
	return args.Error(0)
}

func (m *MockVectorStore) ReplaceSource(ctx context.Context, source string, chunks []string, vectors [][]float32, metadata []domain.Metadata) error {
	args := m.Called(ctx, source, chunks, vectors, metadata)
	return args.Error(0)
}

func (m *MockVectorStore) HasSource(ctx context.Context, source string) (bool, error) {
	args := m.Called(ctx, source)
	return args.Bool(0), args.Error(1)
}

func (m *MockVectorStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVectorStore) EnumerateAll(ctx context.Context) ([]domain.Metadata, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Metadata), args.Error(1)
}

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockRetriever struct {
	mock.Mock
}

func (m *MockRetriever) Search(ctx context.Context, query string, topK int) RetrievalResult {
	args := m.Called(ctx, query, topK)
	return args.Get(0).(RetrievalResult)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, question string, contextChunks []string) (string, error) {
	args := m.Called(ctx, question, contextChunks)
	return args.String(0), args.Error(1)
}
