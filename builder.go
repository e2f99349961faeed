package listing

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/listing/catalog"
)

// CatalogBuilder builds static field catalogs using fluent API.
// Not thread-safe - use only during initialization.
type CatalogBuilder struct {
	entities []*entityBuilder
	built    bool
}

// NewCatalogBuilder creates a new fluent catalog builder.
// Returns builder in "empty" state (no entities).
//
// Example:
//
//	cat, err := listing.NewCatalogBuilder().
//	    Entity("people").
//	        Struct(Person{}).
//	    Entity("orders").
//	        Schema(orderSchema).
//	    Build()
func NewCatalogBuilder() *CatalogBuilder {
	return &CatalogBuilder{
		entities: make([]*entityBuilder, 0),
	}
}

// Entity starts defining a new entity.
// Returns EntityBuilder for adding fields to this entity.
// Entity name MUST be non-empty and unique within catalog.
func (cb *CatalogBuilder) Entity(name string) *EntityBuilder {
	eb := &entityBuilder{
		name:           name,
		catalogBuilder: cb,
	}
	cb.entities = append(cb.entities, eb)
	return &EntityBuilder{builder: eb}
}

// Build finalizes the catalog and returns immutable Catalog implementation.
// Can only be called once.
// Returns error if the catalog is invalid (empty or duplicate names, or a
// struct or schema whose fields could not be derived).
func (cb *CatalogBuilder) Build() (catalog.Catalog, error) {
	if cb.built {
		return nil, fmt.Errorf("catalog already built")
	}

	seenNames := make(map[string]bool)
	for _, eb := range cb.entities {
		if eb.name == "" {
			return nil, fmt.Errorf("entity name cannot be empty")
		}
		if seenNames[eb.name] {
			return nil, fmt.Errorf("duplicate entity name: %s", eb.name)
		}
		seenNames[eb.name] = true

		if err := errors.Join(eb.errs...); err != nil {
			return nil, fmt.Errorf("entity %s: %w", eb.name, err)
		}

		fieldNames := make(map[string]bool)
		for _, f := range eb.fields {
			if f.Name == "" {
				return nil, fmt.Errorf("field name cannot be empty in entity %s", eb.name)
			}
			if fieldNames[f.Name] {
				return nil, fmt.Errorf("duplicate field name %s in entity %s", f.Name, eb.name)
			}
			fieldNames[f.Name] = true
		}
	}

	cb.built = true

	cat := catalog.NewStaticCatalog()
	for _, eb := range cb.entities {
		cat.AddEntity(eb.name, eb.fields)
	}
	return cat, nil
}

// EntityBuilder builds the field list of an entity.
// Not thread-safe - use only during initialization.
type EntityBuilder struct {
	builder *entityBuilder
}

type entityBuilder struct {
	name           string
	fields         []catalog.Field
	errs           []error
	catalogBuilder *CatalogBuilder
}

// Fields appends explicit field descriptors.
// Returns self for method chaining.
func (eb *EntityBuilder) Fields(fields ...catalog.Field) *EntityBuilder {
	eb.builder.fields = append(eb.builder.fields, fields...)
	return eb
}

// Struct appends the fields of a struct type, see catalog.FromStruct.
// Errors are reported by Build.
//
// Example:
//
//	entity.Struct(Person{}, catalog.IgnoreFields("notes"))
func (eb *EntityBuilder) Struct(v any, opts ...catalog.StructOption) *EntityBuilder {
	fields, err := catalog.FromStruct(v, opts...)
	if err != nil {
		eb.builder.errs = append(eb.builder.errs, err)
		return eb
	}
	return eb.Fields(fields...)
}

// Schema appends the fields of an Arrow schema, see catalog.FromArrowSchema.
// Errors are reported by Build.
func (eb *EntityBuilder) Schema(schema *arrow.Schema) *EntityBuilder {
	fields, err := catalog.FromArrowSchema(schema)
	if err != nil {
		eb.builder.errs = append(eb.builder.errs, err)
		return eb
	}
	return eb.Fields(fields...)
}

// Entity starts a new entity definition (returns to CatalogBuilder).
// Allows chaining: Entity("a").Fields(...).Entity("b").Struct(...)
func (eb *EntityBuilder) Entity(name string) *EntityBuilder {
	return eb.builder.catalogBuilder.Entity(name)
}

// Build finalizes the catalog (returns to CatalogBuilder).
// Same as calling catalogBuilder.Build().
func (eb *EntityBuilder) Build() (catalog.Catalog, error) {
	return eb.builder.catalogBuilder.Build()
}
