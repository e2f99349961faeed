package memory

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hugr-lab/listing/store"
)

// Truth is a three-valued logic value.
type Truth int8

const (
	Unknown Truth = iota
	False
	True
)

func truth(b bool) Truth {
	if b {
		return True
	}
	return False
}

// Condition evaluates a row.
type Condition func(row store.Row) Truth

// Builder builds conditions. The zero value is ready to use.
type Builder struct{}

var _ store.Builder[Condition] = Builder{}

// compareWith returns a condition comparing the column value with v.
// NULL columns, NULL operands and incomparable values are unknown.
func compareWith(column string, v any, accept func(cmp int) bool) Condition {
	return func(row store.Row) Truth {
		cv := row[column]
		if cv == nil || v == nil {
			return Unknown
		}
		cmp, ok := compare(cv, v)
		if !ok {
			return Unknown
		}
		return truth(accept(cmp))
	}
}

func (Builder) Equal(column string, value any) Condition {
	return compareWith(column, value, func(c int) bool { return c == 0 })
}

func (Builder) NotEqual(column string, value any) Condition {
	return compareWith(column, value, func(c int) bool { return c != 0 })
}

func (Builder) LessThan(column string, value any) Condition {
	return compareWith(column, value, func(c int) bool { return c < 0 })
}

func (Builder) GreaterThan(column string, value any) Condition {
	return compareWith(column, value, func(c int) bool { return c > 0 })
}

func (b Builder) Between(column string, lo, hi any) Condition {
	return b.And(
		compareWith(column, lo, func(c int) bool { return c >= 0 }),
		compareWith(column, hi, func(c int) bool { return c <= 0 }),
	)
}

func (Builder) IsNull(column string) Condition {
	return func(row store.Row) Truth {
		return truth(row[column] == nil)
	}
}

func (Builder) IsNotNull(column string) Condition {
	return func(row store.Row) Truth {
		return truth(row[column] != nil)
	}
}

// Like matches the lowercased textual form of the column against a LIKE
// pattern. Time values use the "2006-01-02 15:04:05" form.
func (Builder) Like(column, pattern string) Condition {
	re := likeRegexp(pattern)
	return func(row store.Row) Truth {
		cv := row[column]
		if cv == nil {
			return Unknown
		}
		return truth(re.MatchString(strings.ToLower(text(cv))))
	}
}

// In is true if the column equals one of values. Like SQL IN it is unknown
// when no value matches and either side holds a NULL.
func (Builder) In(column string, values []any) Condition {
	return func(row store.Row) Truth {
		cv := row[column]
		if cv == nil {
			return Unknown
		}
		result := False
		for _, v := range values {
			if v == nil {
				result = Unknown
				continue
			}
			if cmp, ok := compare(cv, v); ok && cmp == 0 {
				return True
			}
		}
		return result
	}
}

func (Builder) And(cs ...Condition) Condition {
	return func(row store.Row) Truth {
		result := True
		for _, c := range cs {
			switch c(row) {
			case False:
				return False
			case Unknown:
				result = Unknown
			}
		}
		return result
	}
}

func (Builder) Or(cs ...Condition) Condition {
	return func(row store.Row) Truth {
		result := False
		for _, c := range cs {
			switch c(row) {
			case True:
				return True
			case Unknown:
				result = Unknown
			}
		}
		return result
	}
}

func (Builder) Not(c Condition) Condition {
	return func(row store.Row) Truth {
		switch c(row) {
		case True:
			return False
		case False:
			return True
		}
		return Unknown
	}
}

// likeRegexp translates a LIKE pattern (% any run, _ one character).
func likeRegexp(pattern string) *regexp.Regexp {
	var sb strings.Builder
	sb.WriteString("(?s)^")
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	return regexp.MustCompile(sb.String())
}

func text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return x.Format(time.DateTime)
	case []byte:
		return string(x)
	}
	return fmt.Sprint(v)
}
