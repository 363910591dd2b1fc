package handlers

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/cloo-solutions/docqa/internal/service"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) AnswerQuestion(ctx context.Context, question string) (*service.Answer, error) {
	args := m.Called(ctx, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Answer), args.Error(1)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Ingest(ctx context.Context, documentID, text string) (*service.IngestResult, error) {
	args := m.Called(ctx, documentID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IngestResult), args.Error(1)
}

func (m *MockDocumentService) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockSourceLister struct {
	mock.Mock
}

func (m *MockSourceLister) ListSources(ctx context.Context) []string {
	args := m.Called(ctx)
	return args.Get(0).([]string)
}

type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, key, body, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockArchive) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
