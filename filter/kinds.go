package filter

import (
	"slices"
	"strings"

	"github.com/hugr-lab/listing/catalog"
)

// compareOp is the comparison a leaf renders to.
type compareOp int

const (
	opEqual compareOp = iota
	opLike
	opIsNull
	opLessThan
	opGreaterThan
	opBetween
	opIn
	// opAnyOf is a disjunction of equalities; no values means false.
	opAnyOf
)

// comparison is the store independent result of interpreting filter text.
type comparison struct {
	op      compareOp
	value   any
	hi      any
	values  []any
	pattern string
}

// kindStrategy interprets filter text for one value kind.
// A nil in means the kind has no IN form.
type kindStrategy struct {
	leaf func(r *Renderer, f catalog.Field, text string) (comparison, bool)
	in   func(r *Renderer, f catalog.Field, values []string) []any
}

var strategies = [...]kindStrategy{
	catalog.KindOther:   {leaf: noComparison},
	catalog.KindString:  {leaf: stringComparison, in: stringValues},
	catalog.KindInt16:   {leaf: numberComparison, in: numberValues},
	catalog.KindInt32:   {leaf: numberComparison, in: numberValues},
	catalog.KindInt64:   {leaf: numberComparison, in: numberValues},
	catalog.KindFloat32: {leaf: numberComparison, in: numberValues},
	catalog.KindFloat64: {leaf: numberComparison, in: numberValues},
	catalog.KindBool:    {leaf: boolComparison},
	catalog.KindTime:    {leaf: timeComparison},
	catalog.KindEnum:    {leaf: enumComparison, in: enumValues},
}

func strategyFor(k catalog.Kind) kindStrategy {
	if k < 0 || int(k) >= len(strategies) || strategies[k].leaf == nil {
		return strategies[catalog.KindOther]
	}
	return strategies[k]
}

func noComparison(*Renderer, catalog.Field, string) (comparison, bool) {
	return comparison{}, false
}

// stringComparison: quoted text is an exact match, anything else a
// case-insensitive contains match with wildcards.
func stringComparison(r *Renderer, _ catalog.Field, text string) (comparison, bool) {
	if isQuoted(text) {
		return comparison{op: opEqual, value: unquote(text)}, true
	}
	return comparison{op: opLike, pattern: likeValue(text, r.ops)}, true
}

// numberComparison handles plain values (equality, or contains for
// like-on-number fields), LIKE, LT and GT prefixed values and ranges.
func numberComparison(r *Renderer, f catalog.Field, text string) (comparison, bool) {
	kind := f.Kind

	if validNumber(kind, text) {
		v, ok := parseNumber(kind, text)
		if !ok {
			return comparison{}, false
		}
		if f.LikeOnNumber {
			return comparison{op: opLike, pattern: likeValue(formatNumber(v), r.ops)}, true
		}
		return comparison{op: opEqual, value: v}, true
	}

	if rest, ok := stripOperator(text, r.ops.Like, r.ops.likePrefix()); ok {
		if v, ok := parseValidNumber(kind, rest); ok {
			return comparison{op: opLike, pattern: likeValue(formatNumber(v), r.ops)}, true
		}
	}
	if rest, ok := stripOperator(text, r.ops.LT, r.ops.ltPrefix()); ok {
		if v, ok := parseValidNumber(kind, rest); ok {
			return comparison{op: opLessThan, value: v}, true
		}
	}
	if rest, ok := stripOperator(text, r.ops.GT, r.ops.gtPrefix()); ok {
		if v, ok := parseValidNumber(kind, rest); ok {
			return comparison{op: opGreaterThan, value: v}, true
		}
	}

	if lo, hi, ok := splitRange(r.pats.numberRange(kind), text); ok {
		loV, okLo := parseNumber(kind, lo)
		hiV, okHi := parseNumber(kind, hi)
		if okLo && okHi {
			return comparison{op: opBetween, value: loV, hi: hiV}, true
		}
	}
	return comparison{}, false
}

func parseValidNumber(kind catalog.Kind, text string) (any, bool) {
	if !validNumber(kind, text) {
		return nil, false
	}
	return parseNumber(kind, text)
}

func boolComparison(_ *Renderer, _ catalog.Field, text string) (comparison, bool) {
	if v, ok := parseBool(text); ok {
		return comparison{op: opEqual, value: v}, true
	}
	return comparison{}, false
}

// timeComparison handles a period (inclusive first to last second), LT
// against the start of a period, GT against its end, and period ranges.
func timeComparison(r *Renderer, _ catalog.Field, text string) (comparison, bool) {
	if validDate.MatchString(text) {
		start, okStart := r.dates.Parse(text, false)
		end, okEnd := r.dates.Parse(text, true)
		if okStart && okEnd {
			return comparison{op: opBetween, value: start, hi: end}, true
		}
		return comparison{}, false
	}

	if rest, ok := stripOperator(text, r.ops.LT, r.ops.ltPrefix()); ok && validDate.MatchString(rest) {
		if t, ok := r.dates.Parse(rest, false); ok {
			return comparison{op: opLessThan, value: t}, true
		}
	}
	if rest, ok := stripOperator(text, r.ops.GT, r.ops.gtPrefix()); ok && validDate.MatchString(rest) {
		if t, ok := r.dates.Parse(rest, true); ok {
			return comparison{op: opGreaterThan, value: t}, true
		}
	}

	if from, to, ok := splitRange(r.pats.rangeDate, text); ok {
		start, okStart := r.dates.Parse(from, false)
		end, okEnd := r.dates.Parse(to, true)
		if okStart && okEnd {
			return comparison{op: opBetween, value: start, hi: end}, true
		}
	}
	return comparison{}, false
}

// enumComparison: quoted text matches one constant by exact name, anything
// else every constant whose name contains the text, ignoring case.
func enumComparison(_ *Renderer, f catalog.Field, text string) (comparison, bool) {
	if isQuoted(text) {
		name := unquote(text)
		if slices.Contains(f.EnumValues, name) {
			return comparison{op: opEqual, value: name}, true
		}
		return comparison{}, false
	}

	needle := strings.ToUpper(text)
	var matches []any
	for _, name := range f.EnumValues {
		if strings.Contains(strings.ToUpper(name), needle) {
			matches = append(matches, name)
		}
	}
	return comparison{op: opAnyOf, values: matches}, true
}

func stringValues(_ *Renderer, _ catalog.Field, values []string) []any {
	result := make([]any, 0, len(values))
	for _, v := range values {
		result = append(result, v)
	}
	return result
}

func numberValues(_ *Renderer, f catalog.Field, values []string) []any {
	result := make([]any, 0, len(values))
	for _, v := range values {
		if n, ok := parseValidNumber(f.Kind, v); ok {
			result = append(result, n)
		}
	}
	return result
}

func enumValues(_ *Renderer, f catalog.Field, values []string) []any {
	result := make([]any, 0, len(values))
	for _, v := range values {
		if slices.Contains(f.EnumValues, v) {
			result = append(result, v)
		}
	}
	return result
}
