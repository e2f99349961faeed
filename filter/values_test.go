package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hugr-lab/listing/catalog"
)

func TestSplitRange(t *testing.T) {
	pats := compilePatterns(DefaultOperators())

	tests := []struct {
		name   string
		text   string
		lo, hi string
		ok     bool
		kind   catalog.Kind
		isDate bool
	}{
		{name: "int", text: "5-10", lo: "5", hi: "10", ok: true, kind: catalog.KindInt32},
		{name: "negative ints", text: "-10--5", lo: "-10", hi: "-5", ok: true, kind: catalog.KindInt64},
		{name: "word", text: "1 TO 2", lo: "1", hi: "2", ok: true, kind: catalog.KindInt16},
		{name: "float", text: "1,5-2.5", lo: "1,5", hi: "2.5", ok: true, kind: catalog.KindFloat64},
		{name: "not a range", text: "5", ok: false, kind: catalog.KindInt32},
		{name: "dates", text: "1.2015-3.2016", lo: "1.2015", hi: "3.2016", ok: true, isDate: true},
		{name: "full dates", text: "1.1.2015 TO 2.2.2016", lo: "1.1.2015", hi: "2.2.2016", ok: true, isDate: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := pats.numberRange(tt.kind)
			if tt.isDate {
				re = pats.rangeDate
			}
			lo, hi, ok := splitRange(re, tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestLikeValue(t *testing.T) {
	ops := DefaultOperators()
	assert.Equal(t, "%abc%", likeValue("ABC", ops))
	assert.Equal(t, "%a%b_c%", likeValue("a*b?c", ops))
}

func TestStripOperator(t *testing.T) {
	rest, ok := stripOperator("<  5", "<", "LT ")
	assert.True(t, ok)
	assert.Equal(t, "5", rest)

	rest, ok = stripOperator("LT 5", "<", "LT ")
	assert.True(t, ok)
	assert.Equal(t, "5", rest)

	rest, ok = stripOperator("LT5", "<", "LT ")
	assert.False(t, ok)
	assert.Equal(t, "LT5", rest)
}

func TestParseNumber(t *testing.T) {
	v, ok := parseNumber(catalog.KindInt16, "+12")
	assert.True(t, ok)
	assert.Equal(t, int16(12), v)

	_, ok = parseNumber(catalog.KindInt16, "40000")
	assert.False(t, ok)

	v, ok = parseNumber(catalog.KindFloat32, "1,25")
	assert.True(t, ok)
	assert.Equal(t, float32(1.25), v)

	_, ok = parseNumber(catalog.KindFloat64, "1e400")
	assert.False(t, ok)

	_, ok = parseNumber(catalog.KindString, "1")
	assert.False(t, ok)

	assert.Equal(t, "1.25", formatNumber(float32(1.25)))
	assert.Equal(t, "-7", formatNumber(int64(-7)))
}

func TestQuoted(t *testing.T) {
	assert.True(t, isQuoted(`"a"`))
	assert.True(t, isQuoted(`""`))
	assert.False(t, isQuoted(`"`))
	assert.False(t, isQuoted(`a"`))
	assert.Equal(t, "a", unquote(`"a"`))
}
