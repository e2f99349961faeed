package sqlstore

import (
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/hugr-lab/listing/store"
)

// ErrNoTable indicates Options without a table name.
var ErrNoTable = errors.New("sqlstore: table name is required")

// Options configures the SQL a store issues.
type Options struct {
	// Table is the (optionally schema qualified) table or view to list.
	// REQUIRED.
	Table string

	// Columns selected by List.
	// OPTIONAL: all columns if empty.
	Columns []string

	// Placeholder is the bind parameter format.
	// OPTIONAL: sq.Question if nil (DuckDB, SQLite, MySQL).
	Placeholder sq.PlaceholderFormat
}

// Validate checks that the options can build queries.
func (o Options) Validate() error {
	if o.Table == "" {
		return ErrNoTable
	}
	return nil
}

func (o Options) statement() sq.StatementBuilderType {
	ph := o.Placeholder
	if ph == nil {
		ph = sq.Question
	}
	return sq.StatementBuilder.PlaceholderFormat(ph)
}

func (o Options) columns() []string {
	if len(o.Columns) == 0 {
		return []string{"*"}
	}
	cols := make([]string, len(o.Columns))
	for i, c := range o.Columns {
		cols[i] = QuoteIdentifier(c)
	}
	return cols
}

func where(b sq.SelectBuilder, conds []sq.Sqlizer) sq.SelectBuilder {
	for _, c := range conds {
		b = b.Where(c)
	}
	return b
}

// ListSQL returns the SELECT statement of a listing query.
// NULL values sort last in both directions.
func ListSQL(o Options, q store.Query[sq.Sqlizer]) (string, []any, error) {
	b := where(o.statement().Select(o.columns()...).From(QuoteTable(o.Table)), q.Where)
	for _, ord := range q.OrderBy {
		dir := " DESC"
		if ord.Asc {
			dir = " ASC"
		}
		b = b.OrderBy(QuoteIdentifier(ord.Column) + dir + " NULLS LAST")
	}
	if q.Offset > 0 {
		b = b.Offset(uint64(q.Offset))
	}
	if q.Limit > 0 {
		b = b.Limit(uint64(q.Limit))
	}
	return b.ToSql()
}

// CountSQL returns the COUNT statement for the where constraints.
func CountSQL(o Options, conds []sq.Sqlizer) (string, []any, error) {
	return where(o.statement().Select("COUNT(*)").From(QuoteTable(o.Table)), conds).ToSql()
}

// TermsSQL returns the statement of a terms aggregation: value and count
// columns, most frequent first.
func TermsSQL(o Options, conds []sq.Sqlizer, column string, size int) (string, []any, error) {
	col := QuoteIdentifier(column)
	b := where(o.statement().
		Select(col+" AS term_value", "COUNT(*) AS term_count").
		From(QuoteTable(o.Table)), conds).
		Where(sq.NotEq{col: nil}).
		GroupBy(col).
		OrderBy("term_count DESC", "term_value ASC")
	if size > 0 {
		b = b.Limit(uint64(size))
	}
	return b.ToSql()
}

// StatsSQL returns the statement of a stats aggregation: count, min, max,
// avg and sum as double precision.
func StatsSQL(o Options, conds []sq.Sqlizer, column string) (string, []any, error) {
	col := QuoteIdentifier(column)
	return where(o.statement().
		Select(
			"COUNT("+col+")",
			"CAST(MIN("+col+") AS DOUBLE PRECISION)",
			"CAST(MAX("+col+") AS DOUBLE PRECISION)",
			"CAST(AVG("+col+") AS DOUBLE PRECISION)",
			"CAST(SUM("+col+") AS DOUBLE PRECISION)",
		).
		From(QuoteTable(o.Table)), conds).ToSql()
}
