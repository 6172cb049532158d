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
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/compute"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// SortDirection specifies the direction of sorting.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAscending
	SortDescending
)

func (d SortDirection) String() string {
	switch d {
	case SortAscending:
		return "Ascending"
	case SortDescending:
		return "Descending"
	default:
		return "None"
	}
}

// Arrow returns the glyph shown next to a sorted column header.
func (d SortDirection) Arrow() string {
	switch d {
	case SortAscending:
		return "↑"
	case SortDescending:
		return "↓"
	default:
		return ""
	}
}

func (d SortDirection) next() SortDirection {
	return (d + 1) % 3
}

// SortState is the current sort. Column is a visible column index, or -1.
type SortState struct {
	Column    int
	Direction SortDirection
}

// IsSorted returns true if this state represents an active sort.
func (s SortState) IsSorted() bool {
	return s.Column >= 0 && s.Direction != SortNone
}

// View is what the grid shows of a Table: a subset of its columns and the
// rows that pass the filter, in sort order, up to an optional limit. A
// View is not safe for concurrent use.
type View struct {
	table Table
	names []string
	text  [][]string

	cols []int
	rows []int

	filter  string
	query   *Query
	sortCol int
	sortDir SortDirection
	limit   int
}

// NewView creates a view showing every row and column of t.
func NewView(t Table) *View {
	v := &View{
		table:   t,
		names:   t.ColumnNames(),
		text:    make([][]string, t.NumCols()),
		sortCol: -1,
	}
	for c := range v.text {
		v.text[c] = columnText(t.Data.Column(c).Data())
	}
	v.cols = make([]int, len(v.names))
	for c := range v.cols {
		v.cols[c] = c
	}
	v.refresh()
	return v
}

// Table returns the table behind the view.
func (v *View) Table() Table { return v.table }

// RowCount returns the number of visible rows.
func (v *View) RowCount() int { return len(v.rows) }

// ColumnCount returns the number of visible columns.
func (v *View) ColumnCount() int { return len(v.cols) }

// ColumnName returns the name of a visible column.
func (v *View) ColumnName(col int) string {
	return v.names[v.cols[col]]
}

// Cell returns the display text at a visible row and column.
func (v *View) Cell(row, col int) string {
	return v.text[v.cols[col]][v.rows[row]]
}

// Row returns the display text of a visible row.
func (v *View) Row(row int) []string {
	out := make([]string, len(v.cols))
	for i := range v.cols {
		out[i] = v.Cell(row, i)
	}
	return out
}

// Filter returns the current filter expression.
func (v *View) Filter() string { return v.filter }

// SetFilter applies a filter expression (see ParseQuery). Columns hidden
// from the view can still be filtered on. On error the previous filter
// stays in effect.
func (v *View) SetFilter(expr string) error {
	q, err := ParseQuery(expr, v.names)
	if err != nil {
		return err
	}
	v.filter, v.query = strings.TrimSpace(expr), q
	v.refresh()
	return nil
}

// Sort returns the current sort in visible column terms.
func (v *View) Sort() SortState {
	if v.sortDir == SortNone {
		return SortState{Column: -1}
	}
	return SortState{Column: slices.Index(v.cols, v.sortCol), Direction: v.sortDir}
}

// SortBy cycles the sort of a visible column through ascending, descending
// and unsorted. Sorting a different column starts at ascending.
func (v *View) SortBy(col int) SortState {
	c := v.cols[col]
	if c != v.sortCol {
		v.sortCol, v.sortDir = c, SortAscending
	} else {
		v.sortDir = v.sortDir.next()
	}
	if v.sortDir == SortNone {
		v.sortCol = -1
	}
	v.refresh()
	return v.Sort()
}

// VisibleColumnNames returns the names of the visible columns in order.
func (v *View) VisibleColumnNames() []string {
	out := make([]string, len(v.cols))
	for i, c := range v.cols {
		out[i] = v.names[c]
	}
	return out
}

// SetVisibleColumns shows only the named columns, in table order. An empty
// list shows every column.
func (v *View) SetVisibleColumns(names []string) error {
	if len(names) == 0 {
		v.cols = v.cols[:0]
		for c := range v.names {
			v.cols = append(v.cols, c)
		}
		return nil
	}

	want := make(map[string]bool, len(names))
	for _, name := range names {
		if !slices.Contains(v.names, name) {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}
		want[name] = true
	}
	v.cols = v.cols[:0]
	for c, name := range v.names {
		if want[name] {
			v.cols = append(v.cols, c)
		}
	}
	return nil
}

// Limit returns the row limit, 0 meaning unlimited.
func (v *View) Limit() int { return v.limit }

// SetLimit caps the number of visible rows after filtering and sorting.
// Zero or negative removes the cap.
func (v *View) SetLimit(n int) {
	v.limit = max(n, 0)
	v.refresh()
}

// Status describes the view for the status bar.
func (v *View) Status() string {
	totalRows, totalCols := v.table.NumRows(), v.table.NumCols()
	var b strings.Builder
	if len(v.rows) != totalRows || len(v.cols) != totalCols {
		fmt.Fprintf(&b, "Table %s (showing %d/%d columns x %d/%d rows)",
			v.table.Name, len(v.cols), totalCols, len(v.rows), totalRows)
	} else {
		fmt.Fprintf(&b, "Table %s (%d columns x %d rows)", v.table.Name, totalCols, totalRows)
	}
	if v.sortDir != SortNone {
		fmt.Fprintf(&b, " | Sorted: %s %s", v.names[v.sortCol], v.sortDir.Arrow())
	}
	if v.filter != "" {
		fmt.Fprintf(&b, " | Filter: %s", v.filter)
	}
	return b.String()
}

func (v *View) refresh() {
	total := v.table.NumRows()
	v.rows = v.rows[:0]
	for r := 0; r < total; r++ {
		if v.query.Match(func(c int) string { return v.text[c][r] }, len(v.names)) {
			v.rows = append(v.rows, r)
		}
	}

	if v.sortDir != SortNone {
		col := v.text[v.sortCol]
		slices.SortStableFunc(v.rows, func(a, b int) int {
			cmp := compareCells(col[a], col[b])
			if v.sortDir == SortDescending {
				return -cmp
			}
			return cmp
		})
	}

	if v.limit > 0 && len(v.rows) > v.limit {
		v.rows = v.rows[:v.limit]
	}
}

// Snapshot builds a new Arrow table holding the visible rows and columns
// with their original types. The caller releases it.
func (v *View) Snapshot(ctx context.Context, mem memory.Allocator) (arrow.Table, error) {
	ib := array.NewInt64Builder(mem)
	defer ib.Release()
	for _, r := range v.rows {
		ib.Append(int64(r))
	}
	indices := ib.NewArray()
	defer indices.Release()

	ctx = compute.WithAllocator(ctx, mem)
	schema := v.table.Data.Schema()
	fields := make([]arrow.Field, len(v.cols))
	data := make([][]arrow.Array, len(v.cols))
	defer releaseArrays(data)

	for i, c := range v.cols {
		fields[i] = schema.Field(c)
		values, err := flatten(mem, v.table.Data.Column(c).Data())
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", fields[i].Name, err)
		}
		taken, err := compute.TakeArray(ctx, values, indices)
		values.Release()
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", fields[i].Name, err)
		}
		data[i] = []arrow.Array{taken}
	}

	md := schema.Metadata()
	return newTable(arrow.NewSchema(fields, &md), data), nil
}

// flatten returns the chunks of a column as one array.
func flatten(mem memory.Allocator, col *arrow.Chunked) (arrow.Array, error) {
	switch chunks := col.Chunks(); len(chunks) {
	case 0:
		return array.MakeArrayOfNull(mem, col.DataType(), 0), nil
	case 1:
		chunks[0].Retain()
		return chunks[0], nil
	default:
		return array.Concatenate(chunks, mem)
	}
}
