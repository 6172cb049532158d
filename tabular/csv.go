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
	"bytes"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
)

// chunkRows is the number of rows per Arrow record read from delimited text.
const chunkRows = 4096

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// ReadDelimited reads delimited text with a header row into a table named
// name. The Arrow CSV reader infers each column's type from the first data
// row; a column whose later cells do not fit that type is widened on its
// own, to float64 for integer columns and to text otherwise.
func (l *Loader) ReadDelimited(name string, r io.Reader, comma rune) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	// Check the shape first: the Arrow reader cannot report a missing
	// header or a ragged row as an error.
	records, err := scanRecords(data, comma)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}

	var tbl arrow.Table
	if len(records) == 1 {
		tbl, err = l.readText(data, comma, records[0])
	} else {
		tbl, err = l.readTyped(data, comma, records[1:])
		if err != nil {
			l.log.Debug("typed read failed, reading columns as text", "table", name, "error", err)
			tbl, err = l.readText(data, comma, records[0])
		}
	}
	if err != nil {
		return Table{}, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}

	t := Table{Name: name, Data: tbl}
	l.log.Debug("loaded delimited text", "table", name, "rows", t.NumRows(), "columns", t.NumCols(), "separator", separatorName(comma))
	return t, nil
}

// scanRecords splits data into records, skipping blank lines. Every record
// must have as many fields as the header.
func scanRecords(data []byte, comma rune) ([][]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("no header row")
	}

	r := stdcsv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("no header row")
	}
	return records, nil
}

// readTyped reads data with the types Arrow infers, widened to fit rows.
func (l *Loader) readTyped(data []byte, comma rune, rows [][]string) (arrow.Table, error) {
	inferred, err := l.inferSchema(data, comma)
	if err != nil {
		return nil, err
	}

	rdr := csv.NewInferringReader(bytes.NewReader(data),
		csv.WithAllocator(l.mem),
		csv.WithComma(comma),
		csv.WithHeader(true),
		csv.WithChunk(chunkRows),
		csv.WithNullReader(true, ""),
		csv.WithColumnTypes(columnTypes(inferred, rows)),
	)
	defer rdr.Release()
	return collectRecords(rdr)
}

// inferSchema returns the schema the Arrow reader infers from the first
// data row.
func (l *Loader) inferSchema(data []byte, comma rune) (*arrow.Schema, error) {
	rdr := csv.NewInferringReader(bytes.NewReader(data),
		csv.WithAllocator(l.mem),
		csv.WithComma(comma),
		csv.WithHeader(true),
		csv.WithNullReader(true, ""),
	)
	defer rdr.Release()

	rdr.Next()
	if rdr.Schema() == nil {
		if err := rdr.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("no columns")
	}
	return rdr.Schema(), nil
}

// columnTypes widens each inferred column type until every non-empty cell
// of rows parses. Columns sharing a header name must agree on a type.
func columnTypes(inferred *arrow.Schema, rows [][]string) map[string]arrow.DataType {
	types := make(map[string]arrow.DataType, inferred.NumFields())
	for i, f := range inferred.Fields() {
		dt := columnType(f.Type, rows, i)
		if prev, ok := types[f.Name]; ok && !arrow.TypeEqual(prev, dt) {
			dt = arrow.BinaryTypes.String
		}
		types[f.Name] = dt
	}
	return types
}

func columnType(dt arrow.DataType, rows [][]string, col int) arrow.DataType {
	fits := func(dt arrow.DataType) bool {
		for _, row := range rows {
			if v := row[col]; v != "" && !parses(dt, v) {
				return false
			}
		}
		return true
	}

	// A blank first cell makes Arrow guess text; look at the rest instead.
	if rows[0][col] == "" && dt.ID() == arrow.STRING && slices.ContainsFunc(rows, func(row []string) bool {
		return row[col] != ""
	}) {
		dt = arrow.PrimitiveTypes.Int64
	}

	switch {
	case fits(dt):
		return dt
	case dt.ID() == arrow.INT64 && fits(arrow.PrimitiveTypes.Float64):
		return arrow.PrimitiveTypes.Float64
	default:
		return arrow.BinaryTypes.String
	}
}

// parses reports whether the Arrow CSV reader accepts v as a value of dt.
func parses(dt arrow.DataType, v string) bool {
	var err error
	switch dt := dt.(type) {
	case *arrow.Int64Type:
		_, err = strconv.ParseInt(v, 10, 64)
	case *arrow.Float64Type:
		_, err = strconv.ParseFloat(v, 64)
	case *arrow.BooleanType:
		_, err = strconv.ParseBool(v)
	case *arrow.Date32Type:
		_, err = time.Parse("2006-01-02", v)
	case *arrow.Time32Type:
		_, err = arrow.Time32FromString(v, dt.Unit)
	case *arrow.TimestampType:
		_, err = arrow.TimestampFromString(v, dt.Unit)
	case *arrow.StringType:
		return true
	default:
		return false
	}
	return err == nil
}

func (l *Loader) readText(data []byte, comma rune, header []string) (arrow.Table, error) {
	names := headerNames(header, len(header))
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
	}

	rdr := csv.NewReader(bytes.NewReader(data), arrow.NewSchema(fields, nil),
		csv.WithAllocator(l.mem),
		csv.WithComma(comma),
		csv.WithHeader(true),
		csv.WithChunk(chunkRows),
		csv.WithNullReader(true, ""),
	)
	defer rdr.Release()
	return collectRecords(rdr)
}

func collectRecords(rdr *csv.Reader) (arrow.Table, error) {
	var recs []arrow.Record
	defer func() {
		for _, rec := range recs {
			rec.Release()
		}
	}()

	for rdr.Next() {
		rec := rdr.Record()
		rec.Retain()
		recs = append(recs, rec)
	}
	if err := rdr.Err(); err != nil {
		return nil, err
	}

	schema := rdr.Schema()
	if schema == nil {
		return nil, errors.New("no columns")
	}
	return array.NewTableFromRecords(schema, recs), nil
}

// separatorName returns a human-readable name for the separator
func separatorName(sep rune) string {
	switch sep {
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	case '\t':
		return "tab"
	case '|':
		return "pipe"
	default:
		return string(sep)
	}
}
