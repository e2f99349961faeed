// Package catalog describes the filterable fields of listing entities.
//
// A Field carries everything the filter renderer needs to interpret filter text
// against a column: its value kind, the backend column it maps to and its
// filter eligibility flags. Fields are derived once per entity and are
// immutable afterwards:
//   - Static catalogs: built with listing.NewCatalogBuilder() (explicit fields,
//     struct-tag scans or Arrow schemas)
//   - Dynamic catalogs: custom implementations, e.g. reading database metadata
//
// All interfaces are goroutine-safe and support context-based cancellation.
package catalog

import (
	"context"
)

// Catalog yields the field descriptors of listing entities.
// Implementations can be static (from builder) or dynamic (user-provided).
// All methods MUST be goroutine-safe.
type Catalog interface {
	// Entities returns the names of all entities known to this catalog.
	// Returns empty slice (not nil) if no entities available.
	Entities(ctx context.Context) ([]string, error)

	// Fields returns the field descriptors of an entity in declaration order.
	// Returns (nil, nil) if entity doesn't exist (not an error).
	// Returns (nil, err) if lookup fails for other reasons.
	// The result MUST be stable for the lifetime of the process.
	Fields(ctx context.Context, entity string) ([]Field, error)
}
