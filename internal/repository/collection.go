package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloo-solutions/docqa/internal/domain"
)

// CollectionRepository persists collection definitions.
type CollectionRepository struct {
	db dbtx
}

func NewCollectionRepository(pool *pgxpool.Pool) *CollectionRepository {
	return &CollectionRepository{db: pool}
}

func NewCollectionRepositoryWithTx(tx pgx.Tx) *CollectionRepository {
	return &CollectionRepository{db: tx}
}

// GetOrCreate returns the stored collection named c.Name, creating it from c when absent.
// A stored collection whose dimension or distance differs from c is a configuration error.
func (r *CollectionRepository) GetOrCreate(ctx context.Context, c domain.Collection) (domain.Collection, error) {
	if err := r.Create(ctx, c); err != nil {
		return domain.Collection{}, err
	}

	var stored domain.Collection
	err := r.db.QueryRow(ctx,
		`SELECT name, dimension, distance FROM collections WHERE name = $1`,
		c.Name,
	).Scan(&stored.Name, &stored.Dimension, &stored.Distance)
	if err != nil {
		return domain.Collection{}, err
	}

	if stored.Dimension != c.Dimension {
		return domain.Collection{}, domain.NewConfigurationError(fmt.Sprintf(
			"collection %q stores %d-dimensional vectors but %d are configured", c.Name, stored.Dimension, c.Dimension))
	}
	if stored.Distance != c.Distance {
		return domain.Collection{}, domain.NewConfigurationError(fmt.Sprintf(
			"collection %q uses %s distance but %s is configured", c.Name, stored.Distance, c.Distance))
	}

	return stored, nil
}

// Create inserts the collection if it does not exist.
func (r *CollectionRepository) Create(ctx context.Context, c domain.Collection) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO collections (name, dimension, distance) VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO NOTHING`,
		c.Name, c.Dimension, string(c.Distance),
	)
	return err
}

// Delete removes the collection and, by cascade, its records. Deleting a missing collection is not an error.
func (r *CollectionRepository) Delete(ctx context.Context, name string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM collections WHERE name = $1`, name)
	return err
}
