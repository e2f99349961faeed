package filter

import (
	"strings"

	"github.com/hugr-lab/listing/catalog"
)

// AttributeFilter binds filter text to an attribute name.
// The attribute may list several names joined by the OR token
// ("name|alias"): the filter then applies to any of them.
type AttributeFilter struct {
	Attribute string
	Filter    string
}

// Compiler turns filter text into predicate trees.
// It never looks at field kinds; interpreting the text is left to the renderer.
// A Compiler is immutable and safe for concurrent use.
type Compiler struct {
	ops Operators
}

// NewCompiler creates a compiler for the given operator table.
// Returns error if the operator table is invalid.
func NewCompiler(ops Operators) (*Compiler, error) {
	if err := ops.Validate(); err != nil {
		return nil, err
	}
	return &Compiler{ops: ops}, nil
}

// Operators returns the operator table of the compiler.
func (c *Compiler) Operators() Operators {
	return c.ops
}

// CompileGlobal builds a disjunction that searches text in every field
// eligible for the global filter.
// Returns nil if text is blank or no field is eligible.
func (c *Compiler) CompileGlobal(text string, fields []catalog.Field) *Predicate {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var children []*Predicate
	for _, f := range catalog.GlobalFields(fields) {
		if p := c.CreatePredicate(f.Name, text); p != nil {
			children = append(children, p)
		}
	}
	if len(children) == 0 {
		return nil
	}
	return Or(children...)
}

// CompileAttributes builds the conjunction of per-attribute filters, or their
// disjunction if the disjunction key is among the attributes.
// Entries with blank attribute or blank filter text are skipped.
// Returns nil if nothing remains.
func (c *Compiler) CompileAttributes(filters []AttributeFilter) *Predicate {
	disjunctive := false
	var children []*Predicate

	for _, af := range filters {
		attribute := strings.TrimSpace(af.Attribute)
		if attribute == c.ops.DisjunctionKey {
			disjunctive = true
			continue
		}
		text := strings.TrimSpace(af.Filter)
		if attribute == "" || text == "" {
			continue
		}

		if strings.Contains(attribute, c.ops.Or) {
			var alternatives []*Predicate
			for _, name := range strings.Split(attribute, c.ops.Or) {
				if name = strings.TrimSpace(name); name == "" {
					continue
				}
				if p := c.CreatePredicate(name, text); p != nil {
					alternatives = append(alternatives, p)
				}
			}
			if len(alternatives) > 0 {
				children = append(children, Or(alternatives...))
			}
			continue
		}

		if p := c.CreatePredicate(attribute, text); p != nil {
			children = append(children, p)
		}
	}

	if len(children) == 0 {
		return nil
	}
	if disjunctive {
		return Or(children...)
	}
	return And(children...)
}

// CreatePredicate builds the predicate for one attribute and filter text.
//
// Text containing the OR token (or word) is split into alternatives: up to
// the OR to IN limit they become a disjunction of leaves, above it a single
// IN leaf. A leading NOT token (or word) on an alternative negates its leaf.
// Returns nil if text is blank.
func (c *Compiler) CreatePredicate(attribute, text string) *Predicate {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if w := c.ops.orInfix(); w != "" {
		text = strings.ReplaceAll(text, w, c.ops.Or)
	}
	if !strings.Contains(text, c.ops.Or) {
		return c.createLeaf(attribute, text)
	}

	values := strings.Split(text, c.ops.Or)
	for i, v := range values {
		values[i] = strings.TrimSpace(v)
	}
	if len(values) > c.ops.OrToInLimit {
		return In(attribute, values...)
	}

	children := make([]*Predicate, 0, len(values))
	for _, v := range values {
		children = append(children, c.createLeaf(attribute, v))
	}
	return Or(children...)
}

func (c *Compiler) createLeaf(attribute, text string) *Predicate {
	if rest, ok := stripOperator(text, c.ops.Not, c.ops.notPrefix()); ok {
		return Not(Leaf(attribute, rest))
	}
	return Leaf(attribute, text)
}
