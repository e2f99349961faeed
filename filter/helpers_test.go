package filter

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hugr-lab/listing/catalog"
)

// textBuilder renders constraints as readable SQL text.
type textBuilder struct{}

func lit(v any) string {
	switch x := v.(type) {
	case string:
		return "'" + x + "'"
	case time.Time:
		return "'" + x.Format(time.DateTime) + "'"
	}
	return fmt.Sprint(v)
}

func (textBuilder) Equal(col string, v any) string       { return col + " = " + lit(v) }
func (textBuilder) NotEqual(col string, v any) string    { return col + " <> " + lit(v) }
func (textBuilder) Like(col, pattern string) string      { return "LOWER(" + col + ") LIKE " + lit(pattern) }
func (textBuilder) IsNull(col string) string             { return col + " IS NULL" }
func (textBuilder) IsNotNull(col string) string          { return col + " IS NOT NULL" }
func (textBuilder) LessThan(col string, v any) string    { return col + " < " + lit(v) }
func (textBuilder) GreaterThan(col string, v any) string { return col + " > " + lit(v) }
func (textBuilder) Between(col string, lo, hi any) string {
	return col + " BETWEEN " + lit(lo) + " AND " + lit(hi)
}

func (textBuilder) In(col string, values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = lit(v)
	}
	return col + " IN (" + strings.Join(parts, ", ") + ")"
}

func (textBuilder) And(cs ...string) string {
	if len(cs) == 0 {
		return "TRUE"
	}
	return "(" + strings.Join(cs, " AND ") + ")"
}

func (textBuilder) Or(cs ...string) string {
	if len(cs) == 0 {
		return "FALSE"
	}
	return "(" + strings.Join(cs, " OR ") + ")"
}

func (textBuilder) Not(c string) string { return "NOT (" + c + ")" }

var testFields = []catalog.Field{
	{Name: "id", Kind: catalog.KindInt64},
	{Name: "name", Kind: catalog.KindString, Global: true},
	{Name: "city", Kind: catalog.KindString, Global: true},
	{Name: "email", Column: "e_mail", Kind: catalog.KindString},
	{Name: "age", Kind: catalog.KindInt32},
	{Name: "level", Kind: catalog.KindInt16},
	{Name: "zip", Kind: catalog.KindInt32, LikeOnNumber: true, Global: true},
	{Name: "price", Kind: catalog.KindFloat64},
	{Name: "ratio", Kind: catalog.KindFloat32},
	{Name: "active", Kind: catalog.KindBool},
	{Name: "born", Kind: catalog.KindTime},
	{Name: "status", Kind: catalog.KindEnum, EnumValues: []string{"ACTIVE", "INACTIVE", "BLOCKED"}},
	{Name: "payload", Kind: catalog.KindOther},
}

var testNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func testDateParser() DateParser {
	return DateParser{Location: time.UTC, Now: func() time.Time { return testNow }}
}

func newTestRenderer(t *testing.T, ops Operators) *Renderer {
	t.Helper()
	r, err := NewRenderer(ops, WithDateParser(testDateParser()))
	require.NoError(t, err)
	return r
}

func newTestCompiler(t *testing.T, ops Operators) *Compiler {
	t.Helper()
	c, err := NewCompiler(ops)
	require.NoError(t, err)
	return c
}

// renderText renders p with the default operators; "" means no constraint.
func renderText(t *testing.T, p *Predicate) string {
	t.Helper()
	r := newTestRenderer(t, DefaultOperators())
	text, ok, err := Render[string](r, textBuilder{}, p, testFields)
	require.NoError(t, err)
	if !ok {
		return ""
	}
	return text
}
