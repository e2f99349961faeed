package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"github.com/hugr-lab/listing/store"
)

// Querier runs queries. *sql.DB, *sql.Conn and *sql.Tx implement it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Store lists a table through database/sql.
type Store struct {
	Builder

	db     Querier
	opts   Options
	logger *slog.Logger
}

var (
	_ store.Store[sq.Sqlizer]      = (*Store)(nil)
	_ store.Aggregator[sq.Sqlizer] = (*Store)(nil)
)

// New creates a store over db.
// Returns ErrNoTable if opts has no table.
func New(db Querier, opts Options, logger *slog.Logger) (*Store, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, opts: opts, logger: logger}, nil
}

// Table returns the listed table name.
func (s *Store) Table() string {
	return s.opts.Table
}

func (s *Store) query(ctx context.Context, query string, args []any) (*sql.Rows, error) {
	s.logger.Debug("sqlstore: query", "table", s.opts.Table, "sql", query, "args", len(args))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: query %s: %w", s.opts.Table, err)
	}
	return rows, nil
}

// List returns the rows matching q keyed by column name.
func (s *Store) List(ctx context.Context, q store.Query[sq.Sqlizer]) ([]store.Row, error) {
	query, args, err := ListSQL(s.opts, q)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: build list: %w", err)
	}
	rows, err := s.query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return ScanRows(rows)
}

// Count returns the number of rows matching where.
func (s *Store) Count(ctx context.Context, conds []sq.Sqlizer) (int64, error) {
	query, args, err := CountSQL(s.opts, conds)
	if err != nil {
		return 0, fmt.Errorf("sqlstore: build count: %w", err)
	}
	rows, err := s.query(ctx, query, args)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("sqlstore: scan count: %w", err)
		}
	}
	return n, rows.Err()
}

// Terms returns the most frequent non-NULL values of column.
func (s *Store) Terms(ctx context.Context, conds []sq.Sqlizer, column string, size int) ([]store.Term, error) {
	query, args, err := TermsSQL(s.opts, conds, column, size)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: build terms: %w", err)
	}
	rows, err := s.query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	terms := []store.Term{}
	for rows.Next() {
		var t store.Term
		if err := rows.Scan(&t.Value, &t.Count); err != nil {
			return nil, fmt.Errorf("sqlstore: scan terms: %w", err)
		}
		t.Value = normalize(t.Value)
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// Stats summarises a numeric column.
func (s *Store) Stats(ctx context.Context, conds []sq.Sqlizer, column string) (store.Stats, error) {
	query, args, err := StatsSQL(s.opts, conds, column)
	if err != nil {
		return store.Stats{}, fmt.Errorf("sqlstore: build stats: %w", err)
	}
	rows, err := s.query(ctx, query, args)
	if err != nil {
		return store.Stats{}, err
	}
	defer rows.Close()

	var st store.Stats
	if rows.Next() {
		var lo, hi, avg, sum sql.NullFloat64
		if err := rows.Scan(&st.Count, &lo, &hi, &avg, &sum); err != nil {
			return store.Stats{}, fmt.Errorf("sqlstore: scan stats: %w", err)
		}
		st.Min, st.Max, st.Avg, st.Sum = lo.Float64, hi.Float64, avg.Float64, sum.Float64
	}
	return st, rows.Err()
}

// ScanRows reads all rows into maps keyed by column name.
// Byte slices become strings. Returns an empty slice (not nil) for no rows.
func ScanRows(rows *sql.Rows) ([]store.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlstore: columns: %w", err)
	}

	result := []store.Row{}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlstore: scan row: %w", err)
		}
		row := make(store.Row, len(cols))
		for i, c := range cols {
			row[c] = normalize(values[i])
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
