package repository

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloo-solutions/docqa/internal/domain"
)

// PgVectorStore is the durable vector store backed by PostgreSQL and pgvector.
type PgVectorStore struct {
	collection  domain.Collection
	tx          *TxRunner
	records     *RecordRepository
	collections *CollectionRepository
}

func NewPgVectorStore(pool *pgxpool.Pool, name string, dimension int) *PgVectorStore {
	return &PgVectorStore{
		collection: domain.Collection{
			Name:      name,
			Dimension: dimension,
			Distance:  domain.DistanceCosine,
		},
		tx:          NewTxRunner(pool),
		records:     NewRecordRepository(pool, name),
		collections: NewCollectionRepository(pool),
	}
}

// GetOrCreateCollection is idempotent and validates the persisted dimension against the configured one.
func (s *PgVectorStore) GetOrCreateCollection(ctx context.Context) (domain.Collection, error) {
	return s.collections.GetOrCreate(ctx, s.collection)
}

// Clear deletes the collection with all its records and recreates it empty, atomically.
func (s *PgVectorStore) Clear(ctx context.Context) error {
	err := s.tx.WithTx(ctx, s.collection.Name, func(repos *TxRepos) error {
		if err := repos.Collections().Delete(ctx, s.collection.Name); err != nil {
			return err
		}
		return repos.Collections().Create(ctx, s.collection)
	})
	if err != nil {
		return err
	}
	slog.Info("collection reset", "collection", s.collection.Name)
	return nil
}

// Store writes one record per chunk in a single transaction.
func (s *PgVectorStore) Store(ctx context.Context, chunks []string, vectors [][]float32, metadata []domain.Metadata) error {
	if err := validateBatch(chunks, vectors, metadata, s.collection.Dimension); err != nil {
		return err
	}
	records := buildRecords(chunks, vectors, metadata)

	return s.tx.WithTx(ctx, s.collection.Name, func(repos *TxRepos) error {
		if err := repos.Collections().Create(ctx, s.collection); err != nil {
			return err
		}
		return repos.Records().Insert(ctx, records)
	})
}

// ReplaceSource swaps every record of source for the new batch in a single transaction.
func (s *PgVectorStore) ReplaceSource(ctx context.Context, source string, chunks []string, vectors [][]float32, metadata []domain.Metadata) error {
	if err := validateBatch(chunks, vectors, metadata, s.collection.Dimension); err != nil {
		return err
	}
	records := buildRecords(chunks, vectors, metadata)

	return s.tx.WithTx(ctx, s.collection.Name, func(repos *TxRepos) error {
		if err := repos.Collections().Create(ctx, s.collection); err != nil {
			return err
		}
		removed, err := repos.Records().DeleteBySource(ctx, source)
		if err != nil {
			return err
		}
		if removed > 0 {
			slog.Info("replacing document records", "source", source, "removed", removed)
		}
		return repos.Records().Insert(ctx, records)
	})
}

func (s *PgVectorStore) Count(ctx context.Context) (int, error) {
	return s.records.Count(ctx)
}

func (s *PgVectorStore) HasSource(ctx context.Context, source string) (bool, error) {
	return s.records.HasSource(ctx, source)
}

// Query returns at most topK nearest documents and their metadata. An empty collection yields empty slices.
func (s *PgVectorStore) Query(ctx context.Context, vector []float32, topK int) ([]string, []domain.Metadata, error) {
	if len(vector) != s.collection.Dimension {
		return nil, nil, domain.ErrDimensionMismatch
	}
	if topK <= 0 {
		return []string{}, []domain.Metadata{}, nil
	}
	return s.records.Nearest(ctx, vector, topK)
}

func (s *PgVectorStore) EnumerateAll(ctx context.Context) ([]domain.Metadata, error) {
	return s.records.AllMetadata(ctx)
}
