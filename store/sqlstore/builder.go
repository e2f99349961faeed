package sqlstore

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/hugr-lab/listing/store"
)

// Builder builds squirrel constraints. Column names are quoted when needed.
// The zero value is ready to use; it is shared by the DuckDB (database/sql)
// and PostgreSQL (pgx) stores.
type Builder struct{}

var _ store.Builder[sq.Sqlizer] = Builder{}

func (Builder) Equal(column string, value any) sq.Sqlizer {
	return sq.Eq{QuoteIdentifier(column): value}
}

func (Builder) NotEqual(column string, value any) sq.Sqlizer {
	return sq.NotEq{QuoteIdentifier(column): value}
}

// Like matches the lowercased text form of the column.
func (Builder) Like(column, pattern string) sq.Sqlizer {
	return sq.Expr("LOWER(CAST("+QuoteIdentifier(column)+" AS VARCHAR)) LIKE ?", pattern)
}

func (Builder) IsNull(column string) sq.Sqlizer {
	return sq.Eq{QuoteIdentifier(column): nil}
}

func (Builder) IsNotNull(column string) sq.Sqlizer {
	return sq.NotEq{QuoteIdentifier(column): nil}
}

func (Builder) LessThan(column string, value any) sq.Sqlizer {
	return sq.Lt{QuoteIdentifier(column): value}
}

func (Builder) GreaterThan(column string, value any) sq.Sqlizer {
	return sq.Gt{QuoteIdentifier(column): value}
}

func (Builder) Between(column string, lo, hi any) sq.Sqlizer {
	return sq.Expr(QuoteIdentifier(column)+" BETWEEN ? AND ?", lo, hi)
}

// In renders col IN (...); an empty list is always false.
func (Builder) In(column string, values []any) sq.Sqlizer {
	return sq.Eq{QuoteIdentifier(column): values}
}

// And renders (1=1) when empty.
func (Builder) And(cs ...sq.Sqlizer) sq.Sqlizer {
	return sq.And(cs)
}

// Or renders (1=0) when empty.
func (Builder) Or(cs ...sq.Sqlizer) sq.Sqlizer {
	return sq.Or(cs)
}

func (Builder) Not(c sq.Sqlizer) sq.Sqlizer {
	return notExpr{c}
}

type notExpr struct {
	pred sq.Sqlizer
}

func (n notExpr) ToSql() (string, []any, error) {
	sql, args, err := n.pred.ToSql()
	if err != nil {
		return "", nil, err
	}
	return "NOT (" + sql + ")", args, nil
}
