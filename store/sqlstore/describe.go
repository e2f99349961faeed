package sqlstore

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/hugr-lab/listing/catalog"
)

// DescribeSQL returns the information_schema query listing the columns of a
// (possibly schema qualified) table in ordinal order. It selects column_name
// and data_type unless other information_schema columns are given.
func DescribeSQL(table string, ph sq.PlaceholderFormat, columns ...string) (string, []any, error) {
	if ph == nil {
		ph = sq.Question
	}
	if len(columns) == 0 {
		columns = []string{"column_name", "data_type"}
	}
	b := sq.StatementBuilder.PlaceholderFormat(ph).
		Select(columns...).
		From("information_schema.columns").
		OrderBy("ordinal_position")

	if schema, name, ok := strings.Cut(table, "."); ok {
		b = b.Where(sq.Eq{"table_schema": schema, "table_name": name})
	} else {
		b = b.Where(sq.Eq{"table_name": table})
	}
	return b.ToSql()
}

// FieldFromColumn builds the field of a described column.
// Every column except "id" and those of unsupported types takes part in the
// global filter.
func FieldFromColumn(name, dataType string) catalog.Field {
	kind, values := catalog.KindFromSQLType(dataType)
	return catalog.Field{
		Name:       name,
		Kind:       kind,
		Global:     kind != catalog.KindOther && !strings.EqualFold(name, "id"),
		EnumValues: values,
	}
}

// DescribeFields reads the field catalog of a table from information_schema.
// Returns (nil, nil) if the table does not exist.
func DescribeFields(ctx context.Context, db Querier, table string) ([]catalog.Field, error) {
	query, args, err := DescribeSQL(table, sq.Question)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: build describe: %w", err)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: describe %s: %w", table, err)
	}
	defer rows.Close()

	var fields []catalog.Field
	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return nil, fmt.Errorf("sqlstore: scan column: %w", err)
		}
		fields = append(fields, FieldFromColumn(name, dataType))
	}
	return fields, rows.Err()
}

// Catalog describes tables on demand.
type Catalog struct {
	db     Querier
	tables []string
}

var _ catalog.Catalog = (*Catalog)(nil)

// NewCatalog creates a catalog exposing tables of db as entities.
func NewCatalog(db Querier, tables ...string) *Catalog {
	return &Catalog{db: db, tables: tables}
}

func (c *Catalog) Entities(context.Context) ([]string, error) {
	return append([]string(nil), c.tables...), nil
}

// Fields describes the entity if it is one of the catalog's tables.
func (c *Catalog) Fields(ctx context.Context, entity string) ([]catalog.Field, error) {
	for _, t := range c.tables {
		if t == entity {
			return DescribeFields(ctx, c.db, t)
		}
	}
	return nil, nil
}
