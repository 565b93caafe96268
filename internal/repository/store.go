package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store combines the query set with transaction control. Services that
// only read take a Querier; services that need atomicity take a Store.
type Store interface {
	Querier

	// BeginTx starts a transaction. The caller must Commit or Rollback.
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx is an open transaction exposing the query set bound to it.
type Tx interface {
	Queries() Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// PgxStore implements Store on a pgx connection pool.
type PgxStore struct {
	*Queries
	pool *pgxpool.Pool
}

var _ Store = (*PgxStore)(nil)

// NewStore creates a Store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *PgxStore {
	return &PgxStore{
		Queries: New(pool),
		pool:    pool,
	}
}

// BeginTx starts a pgx transaction.
func (s *PgxStore) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &pgxTx{tx: tx, queries: s.Queries.WithTx(tx)}, nil
}

type pgxTx struct {
	tx      pgx.Tx
	queries *Queries
}

func (t *pgxTx) Queries() Querier {
	return t.queries
}

func (t *pgxTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *pgxTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
