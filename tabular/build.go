// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tabular

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// headerNames turns the first row of a sheet into column names. The result
// is at least width long; blank header cells are named ColumnN.
func headerNames(header []string, width int) []string {
	if len(header) > width {
		width = len(header)
	}
	names := make([]string, width)
	for i := range names {
		if i < len(header) && header[i] != "" {
			names[i] = header[i]
			continue
		}
		names[i] = fmt.Sprintf("Column%d", i+1)
	}
	return names
}

// newStringTable builds a table of string columns from sheet rows. The first
// row is the header. Short rows and empty cells become nulls.
func newStringTable(mem memory.Allocator, rows [][]string) arrow.Table {
	if len(rows) == 0 {
		return newTable(arrow.NewSchema(nil, nil), nil)
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	names := headerNames(rows[0], width)

	fields := make([]arrow.Field, len(names))
	data := make([][]arrow.Array, len(names))
	for c, name := range names {
		fields[c] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}

		b := array.NewStringBuilder(mem)
		b.Reserve(len(rows) - 1)
		for _, row := range rows[1:] {
			if c < len(row) && row[c] != "" {
				b.Append(row[c])
			} else {
				b.AppendNull()
			}
		}
		data[c] = []arrow.Array{b.NewArray()}
		b.Release()
	}

	tbl := newTable(arrow.NewSchema(fields, nil), data)
	releaseArrays(data)
	return tbl
}

// newValueTable builds a table from columns of driver or decoder values.
// Each column's Arrow type is chosen from the values it holds.
func newValueTable(mem memory.Allocator, names []string, columns [][]any) (arrow.Table, error) {
	fields := make([]arrow.Field, len(names))
	data := make([][]arrow.Array, len(names))
	defer releaseArrays(data)

	for c, name := range names {
		dt := valueType(columns[c])
		fields[c] = arrow.Field{Name: name, Type: dt, Nullable: true}

		b := array.NewBuilder(mem, dt)
		for _, v := range columns[c] {
			if err := appendValue(b, v); err != nil {
				b.Release()
				return nil, fmt.Errorf("column %s: %w", name, err)
			}
		}
		data[c] = []arrow.Array{b.NewArray()}
		b.Release()
	}

	return newTable(arrow.NewSchema(fields, nil), data), nil
}

// newTable assembles a table from one chunk list per schema field. A schema
// without fields gives an empty table; NewTableFromSlice cannot size one.
func newTable(schema *arrow.Schema, data [][]arrow.Array) arrow.Table {
	if schema.NumFields() == 0 {
		return array.NewTable(schema, nil, 0)
	}
	return array.NewTableFromSlice(schema, data)
}

// valueType picks the Arrow type that holds every non-null value of a
// column without conversion. Mixed columns fall back to strings.
func valueType(values []any) arrow.DataType {
	var ints, floats, strs, blobs, bools, times, other int
	for _, v := range values {
		switch v.(type) {
		case nil:
		case int64, int32, int:
			ints++
		case float64, float32:
			floats++
		case string:
			strs++
		case []byte:
			blobs++
		case bool:
			bools++
		case time.Time:
			times++
		default:
			other++
		}
	}

	switch total := ints + floats + strs + blobs + bools + times + other; {
	case total == 0:
		return arrow.BinaryTypes.String
	case ints == total:
		return arrow.PrimitiveTypes.Int64
	case ints+floats == total:
		return arrow.PrimitiveTypes.Float64
	case blobs == total:
		return arrow.BinaryTypes.Binary
	case bools == total:
		return arrow.FixedWidthTypes.Boolean
	case times == total:
		return arrow.FixedWidthTypes.Timestamp_us
	default:
		return arrow.BinaryTypes.String
	}
}

func appendValue(b array.Builder, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}

	switch b := b.(type) {
	case *array.Int64Builder:
		switch n := v.(type) {
		case int64:
			b.Append(n)
		case int32:
			b.Append(int64(n))
		case int:
			b.Append(int64(n))
		}
	case *array.Float64Builder:
		switch n := v.(type) {
		case float64:
			b.Append(n)
		case float32:
			b.Append(float64(n))
		case int64:
			b.Append(float64(n))
		case int32:
			b.Append(float64(n))
		case int:
			b.Append(float64(n))
		}
	case *array.BinaryBuilder:
		b.Append(v.([]byte))
	case *array.BooleanBuilder:
		b.Append(v.(bool))
	case *array.TimestampBuilder:
		b.AppendTime(v.(time.Time))
	case *array.StringBuilder:
		b.Append(valueText(v))
	default:
		return fmt.Errorf("no builder for %T", v)
	}
	return nil
}

// valueText renders a value for a string column.
func valueText(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}

func releaseArrays(data [][]arrow.Array) {
	for _, chunks := range data {
		for _, arr := range chunks {
			if arr != nil {
				arr.Release()
			}
		}
	}
}
