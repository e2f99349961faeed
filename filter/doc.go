// Package filter compiles listing filter text into predicate trees and renders
// those trees into queryable store constraints.
//
// The package enables listing endpoints to:
//   - Search one text in every eligible field (global filter)
//   - Filter per attribute with operators for negation, alternatives, ranges,
//     comparisons, NULL checks, exact matches and wildcards
//   - Build custom predicate trees in code and pass them around as tokens
//   - Render all of it into any store that implements store.Builder
//
// # Basic Usage
//
//	compiler, _ := filter.NewCompiler(filter.DefaultOperators())
//	renderer, _ := filter.NewRenderer(filter.DefaultOperators())
//
//	tree := compiler.CompileAttributes([]filter.AttributeFilter{
//	    {Attribute: "name", Filter: "Smith*|Jones"},
//	    {Attribute: "age", Filter: "18-65"},
//	})
//	where, ok, err := filter.Render(renderer, builder, tree, fields)
//
// # Filter Syntax
//
// With the default operators:
//
//	abc         contains "abc", ignoring case (strings)
//	"abc"       exactly "abc" (strings, enum names)
//	a*c, a?c    wildcards: any run, single character
//	!abc        NOT abc (also "NOT abc")
//	a|b         a OR b (also "a OR b"); above the OR to IN limit a single IN test
//	NULL        no value
//	<5, >5      less than, greater than (also "LT 5", "GT 5")
//	5-10        inclusive range (also "5 TO 10")
//	~12         textual contains on numbers (also "LIKE 12")
//	2017        the whole period: year, 3.2017 month, 24.12.2017 day
//	true/false  booleans
//
// # Unsupported Filter Handling
//
// Filter text never causes an error. A leaf whose text does not fit its field
// (or whose attribute is unknown) renders nothing:
//   - For AND and OR: the leaf is left out, the siblings still apply
//   - Returns ok=false if nothing in the tree renders
//
// Only structural misuse fails: a nil field list (ErrNilFields), a nil
// builder (ErrNilBuilder) or an invalid operator table (ErrNegativeThreshold,
// ErrInvalidOperators).
//
// # Negation
//
// Negation wraps the combined result: NOT of a disjunction renders as
// NOT (a OR b). It is not pushed into the children.
package filter
