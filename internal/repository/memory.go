package repository

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/cloo-solutions/docqa/internal/domain"
)

// MemoryStore is a process-local vector store using cosine similarity.
type MemoryStore struct {
	mu         sync.RWMutex
	collection domain.Collection
	records    []domain.Record
}

func NewMemoryStore(name string, dimension int) *MemoryStore {
	return &MemoryStore{
		collection: domain.Collection{
			Name:      name,
			Dimension: dimension,
			Distance:  domain.DistanceCosine,
		},
	}
}

func (s *MemoryStore) GetOrCreateCollection(ctx context.Context) (domain.Collection, error) {
	return s.collection, nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

func (s *MemoryStore) Store(ctx context.Context, chunks []string, vectors [][]float32, metadata []domain.Metadata) error {
	if err := validateBatch(chunks, vectors, metadata, s.collection.Dimension); err != nil {
		return err
	}
	records := buildRecords(chunks, vectors, metadata)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

func (s *MemoryStore) ReplaceSource(ctx context.Context, source string, chunks []string, vectors [][]float32, metadata []domain.Metadata) error {
	if err := validateBatch(chunks, vectors, metadata, s.collection.Dimension); err != nil {
		return err
	}
	records := buildRecords(chunks, vectors, metadata)

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0:0]
	for _, r := range s.records {
		if src, ok := r.Metadata.Source(); ok && src == source {
			continue
		}
		kept = append(kept, r)
	}
	s.records = append(kept, records...)
	return nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *MemoryStore) HasSource(ctx context.Context, source string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if src, ok := r.Metadata.Source(); ok && src == source {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) Query(ctx context.Context, vector []float32, topK int) ([]string, []domain.Metadata, error) {
	if len(vector) != s.collection.Dimension {
		return nil, nil, domain.ErrDimensionMismatch
	}

	s.mu.RLock()
	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(s.records))
	for i, r := range s.records {
		scores[i] = scored{idx: i, score: cosineSimilarity(vector, r.Embedding)}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	n := min(max(topK, 0), len(scores))
	documents := make([]string, n)
	metadatas := make([]domain.Metadata, n)
	for i := 0; i < n; i++ {
		r := s.records[scores[i].idx]
		documents[i] = r.Document
		metadatas[i] = r.Metadata
	}
	s.mu.RUnlock()

	return documents, metadatas, nil
}

func (s *MemoryStore) EnumerateAll(ctx context.Context) ([]domain.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Metadata, len(s.records))
	for i, r := range s.records {
		out[i] = r.Metadata
	}
	return out, nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
