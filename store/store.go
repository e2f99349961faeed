// Package store defines the queryable store capability the listing engine
// renders filters into and executes queries against.
//
// A store is parameterised by its constraint type C: squirrel expressions for
// SQL backends (see store/sqlstore and store/pgstore), row predicates for the
// in-memory store (see store/memory). The engine never inspects constraints; it
// only composes them through a Builder.
package store

import (
	"context"
)

// Row is a single result record keyed by column name.
type Row map[string]any

// Builder constructs backend constraints on columns.
// Implementations MUST be goroutine-safe; constraints are immutable values.
//
// Composition contract:
//   - And() with no arguments is always true
//   - Or() with no arguments is always false
//   - Like() matches case-insensitively against the textual form of the column
//     using SQL LIKE syntax (% any run, _ single character); the pattern is
//     already lowercased
type Builder[C any] interface {
	Equal(column string, value any) C
	NotEqual(column string, value any) C
	Like(column string, pattern string) C
	IsNull(column string) C
	IsNotNull(column string) C
	LessThan(column string, value any) C
	GreaterThan(column string, value any) C
	// Between is inclusive on both ends.
	Between(column string, lo, hi any) C
	In(column string, values []any) C

	And(cs ...C) C
	Or(cs ...C) C
	Not(c C) C
}

// Order is one ORDER BY term.
type Order struct {
	Column string
	Asc    bool
}

// Query describes one paged listing query.
type Query[C any] struct {
	// Where constraints are combined with AND. Empty means all rows.
	Where []C

	// OrderBy terms in priority order. Empty means backend order.
	OrderBy []Order

	// Offset is the number of rows to skip.
	Offset int

	// Limit is the maximum number of rows to return.
	// If 0 or negative, no limit.
	Limit int
}

// Store executes listing queries.
// Implementations MUST be goroutine-safe.
// Execution errors are returned unchanged to the caller of the listing engine.
type Store[C any] interface {
	Builder[C]

	// List returns the rows matching q.
	// Returns empty slice (not nil) if nothing matches.
	// MUST respect context cancellation.
	List(ctx context.Context, q Query[C]) ([]Row, error)

	// Count returns the number of rows matching all where constraints.
	Count(ctx context.Context, where []C) (int64, error)
}

// Term is one bucket of a terms aggregation.
type Term struct {
	Value any   `json:"value"`
	Count int64 `json:"count"`
}

// Stats summarises a numeric column.
// Min, Max, Avg and Sum are zero when Count is zero.
type Stats struct {
	Count int64   `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Sum   float64 `json:"sum"`
}

// Aggregator is implemented by stores that can compute aggregations over the
// rows matching a listing query.
type Aggregator[C any] interface {
	// Terms returns the most frequent values of column, by descending count
	// then ascending value, at most size buckets (all if size <= 0).
	// NULL values are not counted.
	Terms(ctx context.Context, where []C, column string, size int) ([]Term, error)

	// Stats returns count/min/max/avg/sum of a numeric column.
	// NULL values are not counted.
	Stats(ctx context.Context, where []C, column string) (Stats, error)
}
