package filter

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/hugr-lab/listing/catalog"
	"github.com/hugr-lab/listing/store"
)

// ErrNilBuilder indicates the renderer was called without a store builder.
var ErrNilBuilder = errors.New("filter: nil store builder")

// Renderer renders predicate trees into store constraints.
//
// Filter text that does not fit the field it targets (a word against a
// number, an invalid date, an unknown enum name, an unknown attribute)
// renders nothing for that leaf instead of failing: a garbled parameter
// narrows a listing less than intended but never breaks it.
//
// A Renderer is immutable and safe for concurrent use.
type Renderer struct {
	ops    Operators
	pats   *patterns
	dates  DateParser
	logger *slog.Logger
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithDateParser sets the date parser (zone and clock) used for time fields.
func WithDateParser(p DateParser) RendererOption {
	return func(r *Renderer) {
		r.dates = p
	}
}

// WithLogger sets the logger for skipped filters (Debug level).
// OPTIONAL: Uses slog.Default() if not set.
func WithLogger(l *slog.Logger) RendererOption {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRenderer creates a renderer for the given operator table.
// Returns error if the operator table is invalid.
func NewRenderer(ops Operators, opts ...RendererOption) (*Renderer, error) {
	if err := ops.Validate(); err != nil {
		return nil, err
	}
	r := &Renderer{
		ops:    ops,
		pats:   compilePatterns(ops),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Render renders p against fields into a single constraint.
// Returns ok=false if nothing in the tree renders (no constraint).
//
// Post-order: children render first and the non-empty results are combined
// with AND or OR; negation wraps the combined result. Leaves whose attribute
// is not among fields are skipped.
//
// Returns ErrNilFields if fields is nil and ErrNilBuilder if b is nil.
func Render[C any](r *Renderer, b store.Builder[C], p *Predicate, fields []catalog.Field) (C, bool, error) {
	var zero C
	if b == nil {
		return zero, false, ErrNilBuilder
	}
	if fields == nil {
		return zero, false, ErrNilFields
	}
	if p == nil {
		return zero, false, nil
	}
	c, ok := renderNode(r, b, p, catalog.Index(fields))
	return c, ok, nil
}

func renderNode[C any](r *Renderer, b store.Builder[C], p *Predicate, fields map[string]catalog.Field) (C, bool) {
	var zero C
	if len(p.children) == 0 {
		return renderLeaf(r, b, p, fields)
	}

	parts := make([]C, 0, len(p.children))
	for _, child := range p.children {
		if c, ok := renderNode(r, b, child, fields); ok {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return zero, false
	}

	var c C
	switch {
	case len(parts) == 1:
		c = parts[0]
	case p.disjunctive:
		c = b.Or(parts...)
	default:
		c = b.And(parts...)
	}
	if p.negated {
		c = b.Not(c)
	}
	return c, true
}

func renderLeaf[C any](r *Renderer, b store.Builder[C], p *Predicate, fields map[string]catalog.Field) (C, bool) {
	var zero C
	if p.attribute == "" {
		return zero, false
	}
	f, ok := fields[p.attribute]
	if !ok {
		r.logger.Debug("filter: unknown attribute skipped", "attribute", p.attribute)
		return zero, false
	}

	var cmp comparison
	if p.in {
		cmp, ok = r.inComparison(f, r.inValues(p))
	} else {
		text := strings.TrimSpace(p.filter)
		if text == "" {
			return zero, false
		}
		cmp, ok = r.leafComparison(f, text)
	}
	if !ok {
		r.logger.Debug("filter: value not applicable to field",
			"attribute", p.attribute, "kind", f.Kind.String(), "filter", p.filter, "values", p.values)
		return zero, false
	}

	return apply(b, f.ColumnName(), cmp, p.negated), true
}

// leafComparison interprets filter text for a field. The NULL literal is
// checked before any kind specific interpretation.
func (r *Renderer) leafComparison(f catalog.Field, text string) (comparison, bool) {
	if text == r.ops.Null {
		return comparison{op: opIsNull}, true
	}
	return strategyFor(f.Kind).leaf(r, f, text)
}

// inValues returns the values of an IN leaf. A leaf without values falls
// back to its filter text split at the OR operator.
func (r *Renderer) inValues(p *Predicate) []string {
	if len(p.values) > 0 || strings.TrimSpace(p.filter) == "" {
		return p.values
	}
	var values []string
	for _, v := range strings.Split(p.filter, r.ops.Or) {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func (r *Renderer) inComparison(f catalog.Field, values []string) (comparison, bool) {
	in := strategyFor(f.Kind).in
	if in == nil {
		return comparison{}, false
	}
	converted := in(r, f, values)
	if len(converted) == 0 {
		return comparison{}, false
	}
	return comparison{op: opIn, values: converted}, true
}

// apply turns a comparison into a store constraint.
func apply[C any](b store.Builder[C], column string, cmp comparison, negated bool) C {
	var c C
	switch cmp.op {
	case opIsNull:
		if negated {
			return b.IsNotNull(column)
		}
		c = b.IsNull(column)
	case opEqual:
		if negated {
			return b.NotEqual(column, cmp.value)
		}
		c = b.Equal(column, cmp.value)
	case opLike:
		c = b.Like(column, cmp.pattern)
	case opLessThan:
		c = b.LessThan(column, cmp.value)
	case opGreaterThan:
		c = b.GreaterThan(column, cmp.value)
	case opBetween:
		c = b.Between(column, cmp.value, cmp.hi)
	case opIn:
		c = b.In(column, cmp.values)
	case opAnyOf:
		parts := make([]C, 0, len(cmp.values))
		for _, v := range cmp.values {
			parts = append(parts, b.Equal(column, v))
		}
		c = b.Or(parts...)
	}
	if negated {
		c = b.Not(c)
	}
	return c
}

// Compile renders the global filter, the attribute filters and an explicit
// predicate for fields and combines the rendered parts with AND.
// Returns ok=false if nothing renders.
func Compile[C any](c *Compiler, r *Renderer, b store.Builder[C], fields []catalog.Field, global string, attributes []AttributeFilter, explicit *Predicate) (C, bool, error) {
	var zero C
	if fields == nil {
		return zero, false, ErrNilFields
	}

	var parts []C
	for _, p := range []*Predicate{
		c.CompileGlobal(global, fields),
		c.CompileAttributes(attributes),
		explicit,
	} {
		rendered, ok, err := Render(r, b, p, fields)
		if err != nil {
			return zero, false, err
		}
		if ok {
			parts = append(parts, rendered)
		}
	}

	switch len(parts) {
	case 0:
		return zero, false, nil
	case 1:
		return parts[0], true, nil
	}
	return b.And(parts...), true, nil
}
