package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/cloo-solutions/docqa/internal/domain"
)

// SourceEnumerator lists the metadata of every stored record.
type SourceEnumerator interface {
	EnumerateAll(ctx context.Context) ([]domain.Metadata, error)
}

type SourceService struct {
	store SourceEnumerator
}

func NewSourceService(store SourceEnumerator) *SourceService {
	return &SourceService{store: store}
}

// ListSources returns the sorted distinct document identifiers in the store.
// It never fails; on error the list is empty.
func (s *SourceService) ListSources(ctx context.Context) []string {
	metadatas, err := s.store.EnumerateAll(ctx)
	if err != nil {
		slog.Warn("failed to list sources", "error", err)
		return []string{}
	}

	seen := make(map[string]struct{})
	sources := make([]string, 0)
	for _, m := range metadatas {
		src, ok := m.Source()
		if !ok || src == "" {
			continue
		}
		if _, dup := seen[src]; dup {
			continue
		}
		seen[src] = struct{}{}
		sources = append(sources, src)
	}
	sort.Strings(sources)
	return sources
}
