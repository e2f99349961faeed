package memory

import (
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/hugr-lab/listing/store"
)

// RowsFromRecord converts an Arrow record batch to rows keyed by field name.
// Timestamps and dates become time.Time in UTC, dictionary encoded strings
// their string value; types without a native Go form use their string form.
func RowsFromRecord(rec arrow.RecordBatch) []store.Row {
	n := int(rec.NumRows())
	rows := make([]store.Row, n)
	for i := range rows {
		rows[i] = make(store.Row, rec.NumCols())
	}

	schema := rec.Schema()
	for c := 0; c < int(rec.NumCols()); c++ {
		name := schema.Field(c).Name
		col := rec.Column(c)
		for i := 0; i < n; i++ {
			rows[i][name] = extractValue(col, i)
		}
	}
	return rows
}

func extractValue(col arrow.Array, idx int) any {
	if col.IsNull(idx) {
		return nil
	}
	switch arr := col.(type) {
	case *array.String:
		return arr.Value(idx)
	case *array.LargeString:
		return arr.Value(idx)
	case *array.Boolean:
		return arr.Value(idx)
	case *array.Int8:
		return int16(arr.Value(idx))
	case *array.Int16:
		return arr.Value(idx)
	case *array.Int32:
		return arr.Value(idx)
	case *array.Int64:
		return arr.Value(idx)
	case *array.Uint8:
		return int16(arr.Value(idx))
	case *array.Uint16:
		return int32(arr.Value(idx))
	case *array.Uint32:
		return int64(arr.Value(idx))
	case *array.Uint64:
		return arr.Value(idx)
	case *array.Float16:
		return arr.Value(idx).Float32()
	case *array.Float32:
		return arr.Value(idx)
	case *array.Float64:
		return arr.Value(idx)
	case *array.Timestamp:
		unit := arr.DataType().(*arrow.TimestampType).Unit
		return arr.Value(idx).ToTime(unit).UTC()
	case *array.Date32:
		return arr.Value(idx).ToTime().UTC()
	case *array.Date64:
		return arr.Value(idx).ToTime().UTC()
	case *array.Dictionary:
		return extractValue(arr.Dictionary(), arr.GetValueIndex(idx))
	default:
		if id := col.DataType().ID(); id == arrow.DECIMAL128 || id == arrow.DECIMAL256 {
			if f, err := strconv.ParseFloat(col.ValueStr(idx), 64); err == nil {
				return f
			}
		}
		return col.ValueStr(idx)
	}
}
