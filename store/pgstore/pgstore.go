// Package pgstore lists PostgreSQL tables through a pgx connection pool.
//
// Constraints are the squirrel expressions of sqlstore.Builder; statements
// are built by the sqlstore query helpers with dollar placeholders.
package pgstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hugr-lab/listing/store"
	"github.com/hugr-lab/listing/store/sqlstore"
)

// Querier runs queries. *pgxpool.Pool, *pgx.Conn and pgx.Tx implement it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Connect opens a connection pool and checks it with a ping.
func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("pgstore: parse connection config: %w", err)
	}
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute
	cfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgstore: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgstore: ping database: %w", err)
	}
	return pool, nil
}

// Store lists a PostgreSQL table.
type Store struct {
	sqlstore.Builder

	db     Querier
	opts   sqlstore.Options
	logger *slog.Logger
}

var (
	_ store.Store[sq.Sqlizer]      = (*Store)(nil)
	_ store.Aggregator[sq.Sqlizer] = (*Store)(nil)
)

// New creates a store over db. A nil placeholder format defaults to
// sq.Dollar.
func New(db Querier, opts sqlstore.Options, logger *slog.Logger) (*Store, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Placeholder == nil {
		opts.Placeholder = sq.Dollar
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, opts: opts, logger: logger}, nil
}

func (s *Store) query(ctx context.Context, sql string, args []any) (pgx.Rows, error) {
	s.logger.Debug("pgstore: query", "table", s.opts.Table, "sql", sql, "args", len(args))
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("pgstore: query %s: %w", s.opts.Table, err)
	}
	return rows, nil
}

// List returns the rows matching q keyed by column name.
func (s *Store) List(ctx context.Context, q store.Query[sq.Sqlizer]) ([]store.Row, error) {
	sql, args, err := sqlstore.ListSQL(s.opts, q)
	if err != nil {
		return nil, fmt.Errorf("pgstore: build list: %w", err)
	}
	rows, err := s.query(ctx, sql, args)
	if err != nil {
		return nil, err
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("pgstore: collect rows: %w", err)
	}
	result := make([]store.Row, len(maps))
	for i, m := range maps {
		result[i] = m
	}
	return result, nil
}

// Count returns the number of rows matching where.
func (s *Store) Count(ctx context.Context, conds []sq.Sqlizer) (int64, error) {
	sql, args, err := sqlstore.CountSQL(s.opts, conds)
	if err != nil {
		return 0, fmt.Errorf("pgstore: build count: %w", err)
	}
	rows, err := s.query(ctx, sql, args)
	if err != nil {
		return 0, err
	}
	n, err := pgx.CollectExactlyOneRow(rows, pgx.RowTo[int64])
	if err != nil {
		return 0, fmt.Errorf("pgstore: collect count: %w", err)
	}
	return n, nil
}

// Terms returns the most frequent non-NULL values of column.
func (s *Store) Terms(ctx context.Context, conds []sq.Sqlizer, column string, size int) ([]store.Term, error) {
	sql, args, err := sqlstore.TermsSQL(s.opts, conds, column, size)
	if err != nil {
		return nil, fmt.Errorf("pgstore: build terms: %w", err)
	}
	rows, err := s.query(ctx, sql, args)
	if err != nil {
		return nil, err
	}
	terms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.Term, error) {
		var t store.Term
		err := row.Scan(&t.Value, &t.Count)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("pgstore: collect terms: %w", err)
	}
	if terms == nil {
		terms = []store.Term{}
	}
	return terms, nil
}

// Stats summarises a numeric column.
func (s *Store) Stats(ctx context.Context, conds []sq.Sqlizer, column string) (store.Stats, error) {
	sql, args, err := sqlstore.StatsSQL(s.opts, conds, column)
	if err != nil {
		return store.Stats{}, fmt.Errorf("pgstore: build stats: %w", err)
	}
	rows, err := s.query(ctx, sql, args)
	if err != nil {
		return store.Stats{}, err
	}
	st, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (store.Stats, error) {
		var st store.Stats
		var lo, hi, avg, sum *float64
		if err := row.Scan(&st.Count, &lo, &hi, &avg, &sum); err != nil {
			return st, err
		}
		st.Min, st.Max, st.Avg, st.Sum = deref(lo), deref(hi), deref(avg), deref(sum)
		return st, nil
	})
	if err != nil {
		return store.Stats{}, fmt.Errorf("pgstore: collect stats: %w", err)
	}
	return st, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
