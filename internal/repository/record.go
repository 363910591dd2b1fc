package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/cloo-solutions/docqa/internal/domain"
)

// RecordRepository reads and writes the records of one collection.
type RecordRepository struct {
	db         dbtx
	collection string
}

func NewRecordRepository(pool *pgxpool.Pool, collection string) *RecordRepository {
	return &RecordRepository{db: pool, collection: collection}
}

func NewRecordRepositoryWithTx(tx pgx.Tx, collection string) *RecordRepository {
	return &RecordRepository{db: tx, collection: collection}
}

// Insert writes records in a single batch.
func (r *RecordRepository) Insert(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		md := rec.Metadata
		if md == nil {
			md = domain.Metadata{}
		}
		raw, err := json.Marshal(md)
		if err != nil {
			return fmt.Errorf("failed to encode metadata for record %s: %w", rec.ID, err)
		}
		batch.Queue(
			`INSERT INTO records (id, collection, document, embedding, metadata)
			 VALUES ($1, $2, $3, $4, $5)`,
			rec.ID, r.collection, rec.Document, pgvector.NewVector(rec.Embedding), raw,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	for range records {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return err
		}
	}
	return br.Close()
}

func (r *RecordRepository) DeleteBySource(ctx context.Context, source string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM records WHERE collection = $1 AND metadata->>'source' = $2`,
		r.collection, source,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *RecordRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM records WHERE collection = $1`, r.collection).Scan(&n)
	return n, err
}

func (r *RecordRepository) HasSource(ctx context.Context, source string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM records WHERE collection = $1 AND metadata->>'source' = $2)`,
		r.collection, source,
	).Scan(&exists)
	return exists, err
}

// Nearest returns up to k records ordered by cosine distance to vector.
func (r *RecordRepository) Nearest(ctx context.Context, vector []float32, k int) ([]string, []domain.Metadata, error) {
	rows, err := r.db.Query(ctx,
		`SELECT document, metadata FROM records
		 WHERE collection = $1
		 ORDER BY embedding <=> $2, seq
		 LIMIT $3`,
		r.collection, pgvector.NewVector(vector), k,
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	documents := make([]string, 0, k)
	metadatas := make([]domain.Metadata, 0, k)
	for rows.Next() {
		var doc string
		var raw []byte
		if err := rows.Scan(&doc, &raw); err != nil {
			return nil, nil, err
		}
		md, err := decodeMetadata(raw)
		if err != nil {
			return nil, nil, err
		}
		documents = append(documents, doc)
		metadatas = append(metadatas, md)
	}
	return documents, metadatas, rows.Err()
}

// AllMetadata returns the metadata of every record in insertion order.
func (r *RecordRepository) AllMetadata(ctx context.Context) ([]domain.Metadata, error) {
	rows, err := r.db.Query(ctx,
		`SELECT metadata FROM records WHERE collection = $1 ORDER BY seq`,
		r.collection,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Metadata
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		md, err := decodeMetadata(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, md)
	}
	return out, rows.Err()
}

func decodeMetadata(raw []byte) (domain.Metadata, error) {
	md := domain.Metadata{}
	if len(raw) == 0 {
		return md, nil
	}
	if err := json.Unmarshal(raw, &md); err != nil {
		return nil, fmt.Errorf("failed to decode record metadata: %w", err)
	}
	if md == nil {
		md = domain.Metadata{}
	}
	return md, nil
}
