// Package listing provides filtering, sorting and pagination of entity
// listings on top of any queryable store.
//
// The listing package turns query-string style parameters into store queries:
//   - A global filter text searched in every eligible field
//   - Per-attribute filters with operators (negation, alternatives, ranges,
//     comparisons, NULL checks, exact matches, wildcards)
//   - Custom predicate trees built in code or passed as tokens
//   - Multi-attribute sorting
//   - Index or page based pagination with page metadata
//   - Terms and stats aggregations on stores that support them
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/hugr-lab/listing"
//	    "github.com/hugr-lab/listing/store"
//	    "github.com/hugr-lab/listing/store/memory"
//	)
//
//	type Person struct {
//	    ID   int64  `json:"id" listing:",id"`
//	    Name string `json:"name"`
//	    Age  int32  `json:"age"`
//	}
//
//	func main() {
//	    cat, _ := listing.NewCatalogBuilder().
//	        Entity("people").
//	            Struct(Person{}).
//	        Build()
//
//	    svc, _ := listing.NewService[memory.Condition](listing.DefaultConfig(), cat)
//	    people := memory.New(
//	        store.Row{"id": int64(1), "name": "Alice", "age": int32(31)},
//	        store.Row{"id": int64(2), "name": "Bob", "age": int32(45)},
//	    )
//
//	    params := svc.NewParameters().
//	        SetLimit(20).
//	        SetSort("-age").
//	        AddFilterAttribute("age", ">30")
//
//	    res, _ := svc.Result(context.Background(), people, "people", params)
//	    fmt.Println(res.Metadata.Count, res.Results)
//	}
//
// # Pagination
//
// Parameters accept an index (0-based row offset), a page (1-based) and a
// limit (rows per page, 0 for all rows). A missing index is derived from the
// page, a missing page from the index. If the requested page turns out to be
// empty, List and Result step back page by page until rows are found or the
// first page is reached, so a stale page number never shows an empty page
// behind the last one.
//
// # Stores
//
// Stores implement store.Store for a constraint type C:
//   - store/memory: rows held in memory, including Arrow record batches
//   - store/sqlstore: database/sql (DuckDB and other drivers) via squirrel
//   - store/pgstore: PostgreSQL via a pgx connection pool
//
// # HTTP
//
// Package rest serves a listing as JSON and maps query strings such as
// ?page=2&limit=20&sort=-age&filter-city=Berlin&terms-city=10 to Parameters.
// The listing command (cmd/listing) queries and serves DuckDB or PostgreSQL
// tables from the command line.
//
// # Configuration
//
// Config holds the operator tokens and defaults. LoadConfig reads them from
// a properties, YAML, TOML or JSON file and LISTING_* environment variables.
package listing
