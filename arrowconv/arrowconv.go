// Package arrowconv converts materialized result tables into Apache
// Arrow records. Every column becomes a nullable array, so absent cells
// stay distinguishable from zero values downstream. The package is
// deliberately separate from core: importing it is the capability check,
// and the decoding engine itself never assumes Arrow is available.
package arrowconv

import (
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/trelvik/kustoresp/core"
)

// Schema maps result columns to nullable arrow fields.
func Schema(t *core.Table) *arrow.Schema {
	fields := make([]arrow.Field, len(t.Columns()))
	for i, c := range t.Columns() {
		fields[i] = arrow.Field{
			Name:     c.Name,
			Type:     arrowType(c.Type),
			Nullable: true,
		}
	}
	return arrow.NewSchema(fields, nil)
}

// arrowType picks the native representation per type tag. Decimals, guids,
// dynamics and unknown tags keep their text form - arbitrary precision and
// semi-structured payloads do not round-trip through fixed-width arrays.
func arrowType(tag core.TypeTag) arrow.DataType {
	switch tag {
	case core.TypeBool:
		return arrow.FixedWidthTypes.Boolean
	case core.TypeInt32:
		return arrow.PrimitiveTypes.Int32
	case core.TypeInt64:
		return arrow.PrimitiveTypes.Int64
	case core.TypeReal:
		return arrow.PrimitiveTypes.Float64
	case core.TypeDateTime:
		return &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: "UTC"}
	case core.TypeTimespan:
		return arrow.FixedWidthTypes.Duration_ns
	default:
		return arrow.BinaryTypes.String
	}
}

// Record converts a table into a single arrow record. The caller owns the
// record and must Release it.
func Record(mem memory.Allocator, t *core.Table) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	builder := array.NewRecordBuilder(mem, Schema(t))
	defer builder.Release()

	columns := t.Columns()
	for _, row := range t.Rows() {
		for i, v := range row.Values() {
			if err := appendCell(builder.Field(i), columns[i].Type, v); err != nil {
				return nil, fmt.Errorf("column %q: %w", columns[i].Name, err)
			}
		}
	}
	return builder.NewRecord(), nil
}

func appendCell(fb array.Builder, tag core.TypeTag, v any) error {
	if v == nil {
		fb.AppendNull()
		return nil
	}

	switch tag {
	case core.TypeBool:
		val, ok := v.(bool)
		if !ok {
			return typeMismatch(tag, v)
		}
		fb.(*array.BooleanBuilder).Append(val)
	case core.TypeInt32:
		val, ok := v.(int32)
		if !ok {
			return typeMismatch(tag, v)
		}
		fb.(*array.Int32Builder).Append(val)
	case core.TypeInt64:
		val, ok := v.(int64)
		if !ok {
			return typeMismatch(tag, v)
		}
		fb.(*array.Int64Builder).Append(val)
	case core.TypeReal:
		val, ok := v.(float64)
		if !ok {
			return typeMismatch(tag, v)
		}
		fb.(*array.Float64Builder).Append(val)
	case core.TypeDateTime:
		val, ok := v.(time.Time)
		if !ok {
			return typeMismatch(tag, v)
		}
		fb.(*array.TimestampBuilder).Append(arrow.Timestamp(val.UnixNano()))
	case core.TypeTimespan:
		val, ok := v.(time.Duration)
		if !ok {
			return typeMismatch(tag, v)
		}
		fb.(*array.DurationBuilder).Append(arrow.Duration(val))
	default:
		fb.(*array.StringBuilder).Append(textCell(v))
	}
	return nil
}

// textCell renders the text-typed columns: strings and guids verbatim,
// decimals in their exact form, dynamics re-marshaled to JSON.
func textCell(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case decimal.Decimal:
		return val.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

func typeMismatch(tag core.TypeTag, v any) error {
	return fmt.Errorf("unexpected value of type %T for %s column", v, tag)
}
