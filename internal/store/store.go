package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the part of pgxpool.Pool and pgx.Tx the repositories use.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store reads and writes every crowdfund table. A Store returned by New runs
// each statement on its own pooled connection; the Store handed to an InTx
// callback runs everything on that transaction.
type Store struct {
	pool *pgxpool.Pool
	db   querier
	tx   pgx.Tx
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

// InTx runs fn in a REPEATABLE READ transaction and commits when fn returns
// nil. Calling InTx on a transactional Store opens a savepoint instead.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.runTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead}, fn)
}

// Snapshot runs fn in a read-only REPEATABLE READ transaction, so every read
// fn makes sees the same committed state.
func (s *Store) Snapshot(ctx context.Context, fn func(tx *Store) error) error {
	return s.runTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (s *Store) runTx(ctx context.Context, opts pgx.TxOptions, fn func(tx *Store) error) error {
	var (
		tx  pgx.Tx
		err error
	)

	if s.tx != nil {
		tx, err = s.tx.Begin(ctx)
	} else {
		tx, err = s.pool.BeginTx(ctx, opts)
	}
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&Store{pool: s.pool, db: tx, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// buildUpdateClause creates the SET clause for ON CONFLICT DO UPDATE
// e.g., "comment = EXCLUDED.comment, mode = EXCLUDED.mode"
func buildUpdateClause(fields map[string]any, skip ...string) string {
	skipped := make(map[string]bool, len(skip))
	for _, field := range skip {
		skipped[field] = true
	}

	keys := make([]string, 0, len(fields))
	for field := range fields {
		if skipped[field] {
			continue
		}
		keys = append(keys, field)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, field := range keys {
		parts = append(parts, fmt.Sprintf("%s = EXCLUDED.%s", field, field))
	}

	return strings.Join(parts, ", ")
}
