package pgstore

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/hugr-lab/listing/catalog"
	"github.com/hugr-lab/listing/store/sqlstore"
)

const enumLabelsSQL = `SELECT e.enumlabel
FROM pg_enum e JOIN pg_type t ON t.oid = e.enumtypid
WHERE t.typname = $1
ORDER BY e.enumsortorder`

type column struct {
	name     string
	dataType string
	udtName  string
}

// DescribeFields reads the field catalog of a table from information_schema.
// Columns of enum types (USER-DEFINED with enum labels) become enum fields.
// Returns (nil, nil) if the table does not exist.
func DescribeFields(ctx context.Context, db Querier, table string) ([]catalog.Field, error) {
	sql, args, err := sqlstore.DescribeSQL(table, sq.Dollar, "column_name", "data_type", "udt_name")
	if err != nil {
		return nil, fmt.Errorf("pgstore: build describe: %w", err)
	}
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("pgstore: describe %s: %w", table, err)
	}
	columns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (column, error) {
		var c column
		err := row.Scan(&c.name, &c.dataType, &c.udtName)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("pgstore: collect columns: %w", err)
	}

	var fields []catalog.Field
	for _, c := range columns {
		f := sqlstore.FieldFromColumn(c.name, c.dataType)
		if c.dataType == "USER-DEFINED" {
			labels, err := enumLabels(ctx, db, c.udtName)
			if err != nil {
				return nil, err
			}
			if len(labels) > 0 {
				f.Kind = catalog.KindEnum
				f.EnumValues = labels
				f.Global = true
			}
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func enumLabels(ctx context.Context, db Querier, typeName string) ([]string, error) {
	rows, err := db.Query(ctx, enumLabelsSQL, typeName)
	if err != nil {
		return nil, fmt.Errorf("pgstore: enum labels of %s: %w", typeName, err)
	}
	labels, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("pgstore: collect enum labels: %w", err)
	}
	return labels, nil
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
