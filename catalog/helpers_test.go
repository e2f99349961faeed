package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindFromSQLType(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   Kind
		values []string
	}{
		{name: "varchar", in: "VARCHAR", want: KindString},
		{name: "varchar with length", in: "character varying(20)", want: KindString},
		{name: "smallint", in: "SMALLINT", want: KindInt16},
		{name: "integer", in: "INTEGER", want: KindInt32},
		{name: "bigint", in: "bigint", want: KindInt64},
		{name: "real", in: "REAL", want: KindFloat32},
		{name: "decimal", in: "DECIMAL(10,2)", want: KindFloat64},
		{name: "double precision", in: "double precision", want: KindFloat64},
		{name: "boolean", in: "BOOLEAN", want: KindBool},
		{name: "date", in: "DATE", want: KindTime},
		{name: "timestamptz", in: "TIMESTAMP WITH TIME ZONE", want: KindTime},
		{name: "timestamp precision", in: "TIMESTAMP(3) WITH TIME ZONE", want: KindTime},
		{name: "list", in: "INTEGER[]", want: KindOther},
		{name: "blob", in: "BLOB", want: KindOther},
		{name: "enum", in: "ENUM('ACTIVE', 'BLOCKED', 'it''s')", want: KindEnum, values: []string{"ACTIVE", "BLOCKED", "it's"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, values := KindFromSQLType(tt.in)
			assert.Equal(t, tt.want, kind)
			assert.Equal(t, tt.values, values)
		})
	}
}

func TestGlobalFields(t *testing.T) {
	fields := []Field{
		{Name: "id", Kind: KindInt64},
		{Name: "name", Kind: KindString, Global: true},
		{Name: "notes", Kind: KindString},
		{Name: "age", Kind: KindInt32, Global: true},
	}

	global := GlobalFields(fields)
	assert.Len(t, global, 2)
	assert.Equal(t, "name", global[0].Name)
	assert.Equal(t, "age", global[1].Name)

	idx := Index(fields)
	assert.Len(t, idx, 4)
	assert.Equal(t, KindString, idx["notes"].Kind)
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, KindInt16.IsInteger())
	assert.True(t, KindInt64.IsNumeric())
	assert.False(t, KindFloat32.IsInteger())
	assert.True(t, KindFloat64.IsFloat())
	assert.False(t, KindString.IsNumeric())
	assert.Equal(t, "enum", KindEnum.String())
	assert.Equal(t, "other", Kind(42).String())
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "name", Field{Name: "name"}.ColumnName())
	assert.Equal(t, "full_name", Field{Name: "name", Column: "full_name"}.ColumnName())
}
