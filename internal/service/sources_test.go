package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cloo-solutions/docqa/internal/domain"
)

func TestSourceService_ListSources(t *testing.T) {
	store := new(MockVectorStore)
	store.On("EnumerateAll", mock.Anything).Return([]domain.Metadata{
		domain.SourceMetadata("doc_b"),
		domain.SourceMetadata("doc_a"),
		domain.SourceMetadata("doc_b"),
		domain.SourceMetadata(""),
		{},
		{domain.SourceKey: domain.NullValue()},
		domain.SourceMetadata("doc_a"),
	}, nil)

	sources := NewSourceService(store).ListSources(t.Context())

	assert.Equal(t, []string{"doc_a", "doc_b"}, sources)
}

func TestSourceService_EmptyStore(t *testing.T) {
	store := new(MockVectorStore)
	store.On("EnumerateAll", mock.Anything).Return([]domain.Metadata{}, nil)

	sources := NewSourceService(store).ListSources(t.Context())

	assert.NotNil(t, sources)
	assert.Empty(t, sources)
}

func TestSourceService_ErrorYieldsEmptyList(t *testing.T) {
	store := new(MockVectorStore)
	store.On("EnumerateAll", mock.Anything).Return(nil, errors.New("store unavailable"))

	sources := NewSourceService(store).ListSources(t.Context())

	assert.NotNil(t, sources)
	assert.Empty(t, sources)
}
