package catalog

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// Arrow field metadata keys read by FromArrowSchema.
const (
	MetadataIgnore       = "listing.ignore"
	MetadataID           = "listing.id"
	MetadataLikeOnNumber = "listing.like_on_number"
	MetadataEnum         = "listing.enum"
	MetadataColumn       = "listing.column"
)

// FromArrowSchema derives field descriptors from an Arrow schema.
// Fields of unsupported Arrow types are kept with KindOther so NULL checks
// still work on them. Nested types (lists, structs, maps) are skipped.
//
// Field metadata refines the result:
//   - "listing.ignore" / "listing.id" = "true": not eligible for the global filter
//   - "listing.like_on_number" = "true": numeric equality becomes a contains match
//   - "listing.enum" = "A|B|C": enum field with the given constant names
//   - "listing.column": backend column name
//
// Example:
//
//	schema := arrow.NewSchema([]arrow.Field{
//	    {Name: "id", Type: arrow.PrimitiveTypes.Int64,
//	        Metadata: arrow.NewMetadata([]string{catalog.MetadataID}, []string{"true"})},
//	    {Name: "name", Type: arrow.BinaryTypes.String},
//	}, nil)
//	fields, err := catalog.FromArrowSchema(schema)
func FromArrowSchema(schema *arrow.Schema) ([]Field, error) {
	if schema == nil {
		return nil, fmt.Errorf("catalog: nil arrow schema")
	}

	fields := make([]Field, 0, schema.NumFields())
	for _, af := range schema.Fields() {
		if af.Name == "" {
			return nil, fmt.Errorf("catalog: arrow field with empty name")
		}
		if isNestedArrowType(af.Type) {
			continue
		}

		f := Field{
			Name:   af.Name,
			Kind:   kindOfArrow(af.Type),
			Global: true,
		}

		md := af.Metadata
		if v, ok := metadataValue(md, MetadataEnum); ok && v != "" {
			f.Kind = KindEnum
			f.EnumValues = strings.Split(v, "|")
		}
		if v, ok := metadataValue(md, MetadataIgnore); ok && isTrue(v) {
			f.Global = false
		}
		if v, ok := metadataValue(md, MetadataID); ok && isTrue(v) {
			f.Global = false
		}
		if v, ok := metadataValue(md, MetadataLikeOnNumber); ok {
			f.LikeOnNumber = isTrue(v)
		}
		if v, ok := metadataValue(md, MetadataColumn); ok {
			f.Column = v
		}

		fields = append(fields, f)
	}
	return fields, nil
}

func metadataValue(md arrow.Metadata, key string) (string, bool) {
	if md.Len() == 0 {
		return "", false
	}
	idx := md.FindKey(key)
	if idx < 0 {
		return "", false
	}
	return md.Values()[idx], true
}

func kindOfArrow(dt arrow.DataType) Kind {
	switch dt.ID() {
	case arrow.STRING, arrow.LARGE_STRING:
		return KindString
	case arrow.DICTIONARY:
		if d, ok := dt.(*arrow.DictionaryType); ok {
			return kindOfArrow(d.ValueType)
		}
		return KindOther
	case arrow.INT8, arrow.INT16, arrow.UINT8:
		return KindInt16
	case arrow.INT32, arrow.UINT16:
		return KindInt32
	case arrow.INT64, arrow.UINT32, arrow.UINT64:
		return KindInt64
	case arrow.FLOAT16, arrow.FLOAT32:
		return KindFloat32
	case arrow.FLOAT64, arrow.DECIMAL128, arrow.DECIMAL256:
		return KindFloat64
	case arrow.BOOL:
		return KindBool
	case arrow.DATE32, arrow.DATE64, arrow.TIMESTAMP:
		return KindTime
	}
	return KindOther
}

func isNestedArrowType(dt arrow.DataType) bool {
	switch dt.ID() {
	case arrow.LIST, arrow.LARGE_LIST, arrow.FIXED_SIZE_LIST,
		arrow.STRUCT, arrow.MAP, arrow.SPARSE_UNION, arrow.DENSE_UNION:
		return true
	}
	return false
}
