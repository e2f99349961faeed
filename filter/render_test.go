package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugr-lab/listing/catalog"
)

func TestRenderLeaf(t *testing.T) {
	tests := []struct {
		attribute string
		filter    string
		expected  string
	}{
		// strings
		{"name", "abc", "LOWER(name) LIKE '%abc%'"},
		{"name", "ABC", "LOWER(name) LIKE '%abc%'"},
		{"name", `"Abc"`, "name = 'Abc'"},
		{"name", "A*c?", "LOWER(name) LIKE '%a%c_%'"},
		{"name", "  abc  ", "LOWER(name) LIKE '%abc%'"},
		{"name", "NULL", "name IS NULL"},
		{"name", "null", "LOWER(name) LIKE '%null%'"},
		{"email", "x", "LOWER(e_mail) LIKE '%x%'"},

		// integers
		{"age", "5", "age = 5"},
		{"age", "-5", "age = -5"},
		{"age", "+5", "age = 5"},
		{"age", "<5", "age < 5"},
		{"age", "LT 5", "age < 5"},
		{"age", ">5", "age > 5"},
		{"age", "GT 5", "age > 5"},
		{"age", "5-10", "age BETWEEN 5 AND 10"},
		{"age", "5 TO 10", "age BETWEEN 5 AND 10"},
		{"age", "-10--5", "age BETWEEN -10 AND -5"},
		{"age", "~12", "LOWER(age) LIKE '%12%'"},
		{"age", "LIKE 12", "LOWER(age) LIKE '%12%'"},
		{"age", "abc", ""},
		{"age", "9999999999", ""},
		{"age", "99999999999", ""},
		{"age", "<abc", ""},
		{"zip", "123", "LOWER(zip) LIKE '%123%'"},
		{"level", "12345", "level = 12345"},
		{"level", "123456", ""},
		{"id", "1234567890123", "id = 1234567890123"},

		// floats
		{"price", "1.5", "price = 1.5"},
		{"price", "1,5", "price = 1.5"},
		{"price", ".5", "price = 0.5"},
		{"price", "<0,5", "price < 0.5"},
		{"price", ">2", "price > 2"},
		{"price", "1.5-2.5", "price BETWEEN 1.5 AND 2.5"},
		{"price", "1.5 TO 2.5", "price BETWEEN 1.5 AND 2.5"},
		{"price", "1.5.5", ""},
		{"ratio", "2.5", "ratio = 2.5"},

		// booleans
		{"active", "true", "active = true"},
		{"active", "FALSE", "active = false"},
		{"active", "yes", ""},

		// dates
		{"born", "2017", "born BETWEEN '2017-01-01 00:00:00' AND '2017-12-31 23:59:59'"},
		{"born", "2.2016", "born BETWEEN '2016-02-01 00:00:00' AND '2016-02-29 23:59:59'"},
		{"born", "24.12.2017", "born BETWEEN '2017-12-24 00:00:00' AND '2017-12-24 23:59:59'"},
		{"born", "24-12-17", "born BETWEEN '2017-12-24 00:00:00' AND '2017-12-24 23:59:59'"},
		{"born", "17", "born BETWEEN '2017-01-01 00:00:00' AND '2017-12-31 23:59:59'"},
		{"born", "30", "born BETWEEN '1930-01-01 00:00:00' AND '1930-12-31 23:59:59'"},
		{"born", "<2017", "born < '2017-01-01 00:00:00'"},
		{"born", "LT 3.2017", "born < '2017-03-01 00:00:00'"},
		{"born", ">2017", "born > '2017-12-31 23:59:59'"},
		{"born", "GT 3.2017", "born > '2017-03-31 23:59:59'"},
		{"born", "2015-2017", "born BETWEEN '2015-01-01 00:00:00' AND '2017-12-31 23:59:59'"},
		{"born", "1.2015 TO 3.2015", "born BETWEEN '2015-01-01 00:00:00' AND '2015-03-31 23:59:59'"},
		{"born", "1500000000000", "born BETWEEN '2017-07-14 02:40:00' AND '2017-07-14 02:40:00'"},
		{"born", "31.02.2017", ""},
		{"born", "13.2017", ""},
		{"born", "yesterday", ""},

		// enums
		{"status", `"ACTIVE"`, "status = 'ACTIVE'"},
		{"status", `"active"`, ""},
		{"status", `"NOPE"`, ""},
		{"status", "act", "(status = 'ACTIVE' OR status = 'INACTIVE')"},
		{"status", "block", "(status = 'BLOCKED')"},
		{"status", "xyz", "FALSE"},
		{"status", "NULL", "status IS NULL"},

		// other kinds and unknown attributes
		{"payload", "abc", ""},
		{"payload", "NULL", "payload IS NULL"},
		{"unknown", "abc", ""},
		{"", "abc", ""},
		{"name", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.attribute+" "+tt.filter, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderText(t, Leaf(tt.attribute, tt.filter)))
		})
	}
}

func TestRenderNegatedLeaf(t *testing.T) {
	assert.Equal(t, "NOT (LOWER(name) LIKE '%abc%')", renderText(t, Not(Leaf("name", "abc"))))
	assert.Equal(t, "name IS NOT NULL", renderText(t, Not(Leaf("name", "NULL"))))
	assert.Equal(t, "age <> 5", renderText(t, Not(Leaf("age", "5"))))
	assert.Equal(t, "NOT (age BETWEEN 5 AND 10)", renderText(t, Not(Leaf("age", "5-10"))))
	assert.Equal(t, "", renderText(t, Not(Leaf("age", "abc"))))
}

func TestRenderComposite(t *testing.T) {
	tests := []struct {
		name     string
		pred     *Predicate
		expected string
	}{
		{
			name:     "and",
			pred:     And(Leaf("name", "a"), Leaf("age", "5")),
			expected: "(LOWER(name) LIKE '%a%' AND age = 5)",
		},
		{
			name:     "or",
			pred:     Or(Leaf("name", "a"), Leaf("city", "b")),
			expected: "(LOWER(name) LIKE '%a%' OR LOWER(city) LIKE '%b%')",
		},
		{
			name:     "negated or wraps the combined result",
			pred:     Not(Or(Leaf("name", "a"), Leaf("city", "b"))),
			expected: "NOT ((LOWER(name) LIKE '%a%' OR LOWER(city) LIKE '%b%'))",
		},
		{
			name:     "unknown attribute is skipped",
			pred:     And(Leaf("name", "a"), Leaf("bogus", "x"), Leaf("age", "5")),
			expected: "(LOWER(name) LIKE '%a%' AND age = 5)",
		},
		{
			name:     "single rendered child is not wrapped",
			pred:     And(Leaf("name", "a"), Leaf("age", "abc")),
			expected: "LOWER(name) LIKE '%a%'",
		},
		{
			name:     "nothing renders",
			pred:     Or(Leaf("bogus", "x"), Leaf("age", "abc")),
			expected: "",
		},
		{
			name:     "empty composite",
			pred:     And(),
			expected: "",
		},
		{
			name: "nested",
			pred: And(
				Or(Leaf("name", "a"), Not(Leaf("city", "b"))),
				Not(And(Leaf("age", ">5"), Leaf("active", "true"))),
			),
			expected: "((LOWER(name) LIKE '%a%' OR NOT (LOWER(city) LIKE '%b%')) AND NOT ((age > 5 AND active = true)))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderText(t, tt.pred))
		})
	}
}

func TestRenderIn(t *testing.T) {
	tests := []struct {
		name     string
		pred     *Predicate
		expected string
	}{
		{"strings", In("name", "a", "b"), "name IN ('a', 'b')"},
		{"integers drop invalid", In("age", "1", "x", "3"), "age IN (1, 3)"},
		{"floats normalise commas", In("price", "1,5", "2"), "price IN (1.5, 2)"},
		{"enums drop unknown names", In("status", "ACTIVE", "NOPE", "BLOCKED"), "status IN ('ACTIVE', 'BLOCKED')"},
		{"nothing valid", In("age", "x", "y"), ""},
		{"dates have no IN form", In("born", "2017", "2018"), ""},
		{"booleans have no IN form", In("active", "true"), ""},
		{"negated", Not(In("age", "1", "2")), "NOT (age IN (1, 2))"},
		{"values from filter", &Predicate{attribute: "age", filter: "20|25", in: true}, "age IN (20, 25)"},
		{"filter values trimmed", &Predicate{attribute: "name", filter: " a | |b", in: true}, "name IN ('a', 'b')"},
		{"values win over filter", &Predicate{attribute: "age", filter: "20|25", values: []string{"7"}, in: true}, "age IN (7)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderText(t, tt.pred))
		})
	}
}

func TestRenderErrors(t *testing.T) {
	r := newTestRenderer(t, DefaultOperators())

	_, _, err := Render[string](r, textBuilder{}, Leaf("name", "a"), nil)
	assert.True(t, errors.Is(err, ErrNilFields))

	_, _, err = Render[string](r, nil, Leaf("name", "a"), testFields)
	assert.True(t, errors.Is(err, ErrNilBuilder))

	_, ok, err := Render[string](r, textBuilder{}, nil, testFields)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = Render[string](r, textBuilder{}, Leaf("name", "a"), []catalog.Field{})
	require.NoError(t, err)
	assert.False(t, ok, "empty catalog knows no attribute")
}

func TestRenderCustomOperators(t *testing.T) {
	ops := DefaultOperators()
	ops.Null = "NIL"
	ops.To = ".."
	ops.ToWord = "BIS"
	ops.WildcardMany = "%"
	r := newTestRenderer(t, ops)

	render := func(p *Predicate) string {
		text, ok, err := Render[string](r, textBuilder{}, p, testFields)
		require.NoError(t, err)
		if !ok {
			return ""
		}
		return text
	}

	assert.Equal(t, "name IS NULL", render(Leaf("name", "NIL")))
	assert.Equal(t, "LOWER(name) LIKE '%null%'", render(Leaf("name", "NULL")))
	assert.Equal(t, "age BETWEEN 5 AND 10", render(Leaf("age", "5..10")))
	assert.Equal(t, "age BETWEEN 5 AND 10", render(Leaf("age", "5 BIS 10")))
	assert.Equal(t, "", render(Leaf("age", "5-10")))
}

func TestCompileGlobalSkipsUnfitFields(t *testing.T) {
	ops := DefaultOperators()
	c := newTestCompiler(t, ops)
	r := newTestRenderer(t, ops)

	text, ok, err := Compile[string](c, r, textBuilder{}, testFields, "ab", nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "(LOWER(name) LIKE '%ab%' OR LOWER(city) LIKE '%ab%')", text)
}

func TestCompile(t *testing.T) {
	ops := DefaultOperators()
	c := newTestCompiler(t, ops)
	r := newTestRenderer(t, ops)

	text, ok, err := Compile[string](c, r, textBuilder{}, testFields, "12",
		[]AttributeFilter{{Attribute: "age", Filter: "5"}},
		Leaf("active", "true"),
	)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t,
		"((LOWER(name) LIKE '%12%' OR LOWER(city) LIKE '%12%' OR LOWER(zip) LIKE '%12%') AND age = 5 AND active = true)",
		text)

	_, ok, err = Compile[string](c, r, textBuilder{}, testFields, " ", nil, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = Compile[string](c, r, textBuilder{}, nil, "ab", nil, nil)
	assert.True(t, errors.Is(err, ErrNilFields))
}

func TestEveryKindHasStrategy(t *testing.T) {
	for k := catalog.KindOther; k <= catalog.KindEnum; k++ {
		assert.NotNil(t, strategies[k].leaf, k.String())
	}
	assert.NotNil(t, strategyFor(catalog.Kind(99)).leaf)
}
