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

// Package tabular loads tabular files into Arrow tables and provides the
// sorted and filtered views the grid renders.
package tabular

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// Table is one named dataset: a CSV file, a workbook sheet or a database table.
type Table struct {
	Name string
	Data arrow.Table
}

// ColumnNames returns the field names of the table in schema order.
func (t Table) ColumnNames() []string {
	fields := t.Data.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// NumRows returns the number of data rows (the header is not counted).
func (t Table) NumRows() int {
	return int(t.Data.NumRows())
}

// NumCols returns the number of columns.
func (t Table) NumCols() int {
	return int(t.Data.NumCols())
}

// TableSet is the ordered result of loading one source.
type TableSet []Table

// Names returns the table names in load order.
func (s TableSet) Names() []string {
	names := make([]string, len(s))
	for i, t := range s {
		names[i] = t.Name
	}
	return names
}

// Release releases every Arrow table in the set.
func (s TableSet) Release() {
	for _, t := range s {
		if t.Data != nil {
			t.Data.Release()
		}
	}
}
