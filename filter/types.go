package filter

import (
	"slices"
	"strconv"
	"strings"
)

// Predicate is a node of a listing predicate tree.
//
// A node is either a leaf (attribute and filter text, no children) or a
// composite (children combined with AND or OR). Both kinds can be negated;
// a negated composite negates the combined result of its children.
// IN leaves carry a list of values instead of filter text.
//
// Predicates are immutable: every constructor returns a new node and
// accessors return copies, so subtrees can be shared freely.
type Predicate struct {
	attribute   string
	filter      string
	values      []string
	in          bool
	disjunctive bool
	negated     bool
	children    []*Predicate
}

// Leaf creates a leaf matching filter text against an attribute.
func Leaf(attribute, filter string) *Predicate {
	return &Predicate{attribute: attribute, filter: filter}
}

// In creates an IN leaf testing an attribute for membership in values.
// Values are interpreted by the attribute's value kind when rendered.
func In(attribute string, values ...string) *Predicate {
	return &Predicate{attribute: attribute, values: slices.Clone(values), in: true}
}

// And creates a conjunction of children. Nil children are dropped.
func And(children ...*Predicate) *Predicate {
	return &Predicate{children: compact(children)}
}

// Or creates a disjunction of children. Nil children are dropped.
func Or(children ...*Predicate) *Predicate {
	return &Predicate{children: compact(children), disjunctive: true}
}

// Not returns a negated copy of p. Not(Not(p)) is equivalent to p.
// Returns nil if p is nil.
func Not(p *Predicate) *Predicate {
	if p == nil {
		return nil
	}
	cp := *p
	cp.negated = !p.negated
	return &cp
}

func compact(children []*Predicate) []*Predicate {
	result := make([]*Predicate, 0, len(children))
	for _, c := range children {
		if c != nil {
			result = append(result, c)
		}
	}
	return result
}

// Attribute returns the attribute name of a leaf, or "" for composites.
// An attribute may be a list of names joined by the OR token; the compiler
// expands those, the renderer treats them as unknown.
func (p *Predicate) Attribute() string { return p.attribute }

// Filter returns the filter text of a plain leaf.
func (p *Predicate) Filter() string { return p.filter }

// Values returns a copy of the values of an IN leaf.
func (p *Predicate) Values() []string { return slices.Clone(p.values) }

// IsIn reports whether p is an IN leaf.
func (p *Predicate) IsIn() bool { return p.in }

// IsDisjunctive reports whether a composite combines its children with OR.
func (p *Predicate) IsDisjunctive() bool { return p.disjunctive }

// IsNegated reports whether the node's result is negated.
func (p *Predicate) IsNegated() bool { return p.negated }

// IsLeaf reports whether p is a leaf.
func (p *Predicate) IsLeaf() bool {
	return len(p.children) == 0 && (p.attribute != "" || p.filter != "" || p.in)
}

// Children returns a copy of the children of a composite.
func (p *Predicate) Children() []*Predicate { return slices.Clone(p.children) }

// String returns a readable form of the tree, e.g.
// `(name:"abc" OR NOT age:"5")`.
func (p *Predicate) String() string {
	if p == nil {
		return "<nil>"
	}
	var sb strings.Builder
	p.write(&sb)
	return sb.String()
}

func (p *Predicate) write(sb *strings.Builder) {
	if p.negated {
		sb.WriteString("NOT ")
	}
	switch {
	case p.in:
		sb.WriteString(p.attribute)
		sb.WriteString(" IN [")
		for i, v := range p.values {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(v))
		}
		sb.WriteString("]")
	case len(p.children) == 0:
		sb.WriteString(p.attribute)
		sb.WriteString(":")
		sb.WriteString(strconv.Quote(p.filter))
	default:
		sep := " AND "
		if p.disjunctive {
			sep = " OR "
		}
		sb.WriteString("(")
		for i, c := range p.children {
			if i > 0 {
				sb.WriteString(sep)
			}
			c.write(sb)
		}
		sb.WriteString(")")
	}
}
