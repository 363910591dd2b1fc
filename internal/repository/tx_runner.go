package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRunner provides transactional repositories using a pgx pool.
type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// WithTx runs fn in a transaction scoped to collection, committing only when fn succeeds.
func (r *TxRunner) WithTx(ctx context.Context, collection string, fn func(repos *TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}

	repos := &TxRepos{tx: tx, collection: collection}
	if err := fn(repos); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

type TxRepos struct {
	tx         pgx.Tx
	collection string
}

func (r *TxRepos) Records() *RecordRepository {
	return NewRecordRepositoryWithTx(r.tx, r.collection)
}

func (r *TxRepos) Collections() *CollectionRepository {
	return NewCollectionRepositoryWithTx(r.tx)
}
