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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// ExportExtensions lists the extensions Export writes.
func ExportExtensions() []string {
	return []string{".csv", ".tsv", ".json", ".parquet"}
}

// Export writes table to filePath in the format named by its extension.
func Export(table arrow.Table, filePath string) error {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return ExportToDelimited(table, filePath, ',')
	case ".tsv":
		return ExportToDelimited(table, filePath, '\t')
	case ".json":
		return ExportToJSON(table, filePath)
	case ".parquet":
		return ExportToParquet(table, filePath)
	default:
		return fmt.Errorf("%w: cannot export to %q", ErrUnsupportedFormat, filepath.Ext(filePath))
	}
}

// ExportToParquet exports the Arrow table to a Parquet file
func ExportToParquet(table arrow.Table, filePath string) error {
	// Create the output file
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	// Create Parquet writer properties
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	// Create a Parquet file writer
	writer, err := pqarrow.NewFileWriter(table.Schema(), file, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	// Write the table as a single row group
	if err := writer.WriteTable(table, max(table.NumRows(), 1)); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// ExportToDelimited writes a header row and one line per row, separated by comma.
func ExportToDelimited(table arrow.Table, filePath string, comma rune) error {
	// Create the output file
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = comma

	// Write header
	schema := table.Schema()
	headers := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		headers[i] = field.Name
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// Read records from table
	tr := array.NewTableReader(table, chunkRows)
	defer tr.Release()

	for tr.Next() {
		rec := tr.Record()
		row := make([]string, rec.NumCols())
		for r := 0; r < int(rec.NumRows()); r++ {
			for c, col := range rec.Columns() {
				row[c] = CellText(col, r)
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}
	if err := tr.Err(); err != nil {
		return fmt.Errorf("error reading table: %w", err)
	}

	writer.Flush()
	return writer.Error()
}

// ExportToJSON writes the table as an indented array of objects, keeping
// value types.
func ExportToJSON(table arrow.Table, filePath string) error {
	// Create the output file
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	tr := array.NewTableReader(table, chunkRows)
	defer tr.Release()

	// Collect all records into a slice of maps
	schema := table.Schema()
	records := make([]map[string]any, 0, table.NumRows())
	for tr.Next() {
		rec := tr.Record()
		for r := 0; r < int(rec.NumRows()); r++ {
			record := make(map[string]any, rec.NumCols())
			for c, col := range rec.Columns() {
				record[schema.Field(c).Name] = jsonValue(col, r)
			}
			records = append(records, record)
		}
	}
	if err := tr.Err(); err != nil {
		return fmt.Errorf("error reading table: %w", err)
	}

	// Encode to JSON with indentation
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// jsonValue returns the typed value for JSON export.
func jsonValue(col arrow.Array, pos int) any {
	if col.IsNull(pos) {
		return nil
	}
	switch col.DataType().ID() {
	case arrow.BINARY, arrow.DATE32, arrow.DATE64, arrow.TIMESTAMP, arrow.DECIMAL128:
		return CellText(col, pos)
	default:
		return col.GetOneForMarshal(pos)
	}
}
