package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cloo-solutions/docqa/internal/domain"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// validateBatch checks a write against the collection's shape.
func validateBatch(chunks []string, vectors [][]float32, metadata []domain.Metadata, dimension int) error {
	if len(chunks) != len(vectors) || len(chunks) != len(metadata) {
		return domain.NewDomainErrorWithCause(domain.ErrCodeValidation, domain.ErrLengthMismatch.Message,
			fmt.Errorf("%d chunks, %d vectors, %d metadata", len(chunks), len(vectors), len(metadata)))
	}
	for i, v := range vectors {
		if len(v) != dimension {
			return domain.NewDomainErrorWithCause(domain.ErrCodeValidation, domain.ErrDimensionMismatch.Message,
				fmt.Errorf("vector %d has %d dimensions, collection expects %d", i, len(v), dimension))
		}
	}
	return nil
}

// buildRecords assigns a fresh id to every chunk.
func buildRecords(chunks []string, vectors [][]float32, metadata []domain.Metadata) []domain.Record {
	records := make([]domain.Record, len(chunks))
	for i := range chunks {
		md := make(domain.Metadata, len(metadata[i]))
		for k, v := range metadata[i] {
			md[k] = v
		}
		records[i] = domain.Record{
			ID:        domain.NewRecordID(),
			Document:  chunks[i],
			Embedding: vectors[i],
			Metadata:  md,
		}
	}
	return records
}
