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
	"fmt"
	"os"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// loadXLSX loads the chosen sheets of an Office Open XML workbook. Cells
// keep the display text excelize formats for them.
func (l *Loader) loadXLSX(filePath string, sel Selector) (TableSet, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %v", ErrMalformed, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	return l.sheetTables(sheets, sel, func(i int) ([][]string, error) {
		return f.GetRows(sheets[i])
	})
}

// loadXLS loads the chosen sheets of a legacy BIFF workbook.
func (l *Loader) loadXLS(filePath string, sel Selector) (set TableSet, err error) {
	// The BIFF reader panics on some corrupt files.
	defer func() {
		if r := recover(); r != nil {
			set.Release()
			set, err = nil, fmt.Errorf("%w: failed to read workbook: %v", ErrMalformed, r)
		}
	}()

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	wb, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %v", ErrMalformed, err)
	}
	// OpenReader returns no workbook and no error when the file has no
	// Workbook stream.
	if wb == nil {
		return nil, fmt.Errorf("%w: no workbook stream", ErrMalformed)
	}

	names := make([]string, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			return nil, fmt.Errorf("%w: sheet %d is unreadable", ErrMalformed, i)
		}
		names = append(names, sheet.Name)
	}

	return l.sheetTables(names, sel, func(i int) ([][]string, error) {
		return xlsRows(wb.GetSheet(i)), nil
	})
}

func xlsRows(sheet *xls.WorkSheet) [][]string {
	if sheet == nil {
		return nil
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for r := 0; r <= int(sheet.MaxRow); r++ {
		row := xlsRow(sheet, r)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}
	return trimEmptyRows(rows)
}

// xlsRow returns row r of sheet, or nil when the sheet has no record for
// it. WorkSheet.Row dereferences missing rows.
func xlsRow(sheet *xls.WorkSheet, r int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(r)
}

// trimEmptyRows drops trailing rows without any text.
func trimEmptyRows(rows [][]string) [][]string {
	for len(rows) > 0 && rowEmpty(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
