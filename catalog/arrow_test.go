package catalog

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromArrowSchema(t *testing.T) {
	idMeta := arrow.NewMetadata([]string{MetadataID}, []string{"true"})
	statusMeta := arrow.NewMetadata([]string{MetadataEnum}, []string{"ACTIVE|BLOCKED"})
	zipMeta := arrow.NewMetadata(
		[]string{MetadataLikeOnNumber, MetadataColumn},
		[]string{"true", "zip_code"},
	)
	notesMeta := arrow.NewMetadata([]string{MetadataIgnore}, []string{"yes"})

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Metadata: idMeta},
		{Name: "name", Type: arrow.BinaryTypes.String},
		{Name: "status", Type: arrow.BinaryTypes.String, Metadata: statusMeta},
		{Name: "zip", Type: arrow.PrimitiveTypes.Int32, Metadata: zipMeta},
		{Name: "notes", Type: arrow.BinaryTypes.LargeString, Metadata: notesMeta},
		{Name: "level", Type: arrow.PrimitiveTypes.Int16},
		{Name: "ratio", Type: arrow.PrimitiveTypes.Float32},
		{Name: "price", Type: arrow.PrimitiveTypes.Float64},
		{Name: "active", Type: arrow.FixedWidthTypes.Boolean},
		{Name: "born", Type: arrow.FixedWidthTypes.Date32},
		{Name: "created", Type: arrow.FixedWidthTypes.Timestamp_us},
		{Name: "payload", Type: arrow.BinaryTypes.Binary},
		{Name: "tags", Type: arrow.ListOf(arrow.BinaryTypes.String)},
	}, nil)

	fields, err := FromArrowSchema(schema)
	require.NoError(t, err)
	require.Len(t, fields, 12, "nested list column is skipped")

	idx := Index(fields)
	assert.Equal(t, KindInt64, idx["id"].Kind)
	assert.False(t, idx["id"].Global)
	assert.True(t, idx["name"].Global)
	assert.Equal(t, KindEnum, idx["status"].Kind)
	assert.Equal(t, []string{"ACTIVE", "BLOCKED"}, idx["status"].EnumValues)
	assert.True(t, idx["zip"].LikeOnNumber)
	assert.Equal(t, "zip_code", idx["zip"].ColumnName())
	assert.Equal(t, KindString, idx["notes"].Kind)
	assert.False(t, idx["notes"].Global)
	assert.Equal(t, KindInt16, idx["level"].Kind)
	assert.Equal(t, KindFloat32, idx["ratio"].Kind)
	assert.Equal(t, KindFloat64, idx["price"].Kind)
	assert.Equal(t, KindBool, idx["active"].Kind)
	assert.Equal(t, KindTime, idx["born"].Kind)
	assert.Equal(t, KindTime, idx["created"].Kind)
	assert.Equal(t, KindOther, idx["payload"].Kind)
}

func TestFromArrowSchemaErrors(t *testing.T) {
	_, err := FromArrowSchema(nil)
	assert.Error(t, err)

	schema := arrow.NewSchema([]arrow.Field{{Name: "", Type: arrow.BinaryTypes.String}}, nil)
	_, err = FromArrowSchema(schema)
	assert.Error(t, err)
}
