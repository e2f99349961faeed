package catalog

import (
	"context"
	"slices"
)

// staticCatalog is an immutable catalog implementation built from CatalogBuilder.
type staticCatalog struct {
	order    []string
	entities map[string][]Field
}

// NewStaticCatalog creates a static catalog.
// This is exported for use by the listing package builder.
func NewStaticCatalog() *staticCatalog {
	return &staticCatalog{
		entities: make(map[string][]Field),
	}
}

// AddEntity adds an entity to the static catalog.
// This is used during catalog building; adding an existing name replaces its fields.
func (c *staticCatalog) AddEntity(name string, fields []Field) {
	if _, ok := c.entities[name]; !ok {
		c.order = append(c.order, name)
	}
	c.entities[name] = slices.Clone(fields)
}

// Entities implements Catalog interface.
func (c *staticCatalog) Entities(ctx context.Context) ([]string, error) {
	return slices.Clone(c.order), nil
}

// Fields implements Catalog interface.
func (c *staticCatalog) Fields(ctx context.Context, entity string) ([]Field, error) {
	fields, ok := c.entities[entity]
	if !ok {
		return nil, nil // Not found, not an error
	}
	return slices.Clone(fields), nil
}
