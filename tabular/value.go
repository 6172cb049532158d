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
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// CellText converts an Arrow value at a specific position to the string
// shown in the grid. Nulls render as the empty string.
func CellText(col arrow.Array, pos int) string {
	if col.IsNull(pos) {
		return ""
	}

	switch c := col.(type) {
	case *array.String:
		return c.Value(pos)
	case *array.LargeString:
		return c.Value(pos)
	case *array.Binary:
		return string(c.Value(pos))
	case *array.Boolean:
		return strconv.FormatBool(c.Value(pos))
	case *array.Int64:
		return strconv.FormatInt(c.Value(pos), 10)
	case *array.Int32:
		return strconv.FormatInt(int64(c.Value(pos)), 10)
	case *array.Float64:
		return strconv.FormatFloat(c.Value(pos), 'f', -1, 64)
	case *array.Float32:
		return strconv.FormatFloat(float64(c.Value(pos)), 'f', -1, 32)
	case *array.Date32:
		return c.Value(pos).ToTime().Format("2006-01-02")
	case *array.Date64:
		return c.Value(pos).ToTime().Format("2006-01-02")
	case *array.Timestamp:
		unit := c.DataType().(*arrow.TimestampType).Unit
		return c.Value(pos).ToTime(unit).Format("2006-01-02 15:04:05.999999999")
	case *array.Decimal128:
		scale := c.DataType().(*arrow.Decimal128Type).Scale
		return c.Value(pos).ToString(scale)
	case *array.Struct, *array.List, *array.LargeList, *array.Map:
		b, err := json.Marshal(c.GetOneForMarshal(pos))
		if err != nil {
			return col.ValueStr(pos)
		}
		return string(b)
	default:
		return col.ValueStr(pos)
	}
}

// columnText renders every value of a chunked column.
func columnText(col *arrow.Chunked) []string {
	out := make([]string, 0, col.Len())
	for _, chunk := range col.Chunks() {
		for i := 0; i < chunk.Len(); i++ {
			out = append(out, CellText(chunk, i))
		}
	}
	return out
}
