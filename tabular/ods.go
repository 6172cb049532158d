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
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// odsSheet is one table:table element of an OpenDocument spreadsheet.
type odsSheet struct {
	name string
	rows [][]string
}

// loadODS loads the chosen sheets of an OpenDocument spreadsheet.
func (l *Loader) loadODS(filePath string, sel Selector) (TableSet, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open spreadsheet: %v", ErrMalformed, err)
	}
	defer zr.Close()

	content, err := zr.Open("content.xml")
	if err != nil {
		return nil, fmt.Errorf("%w: spreadsheet has no content.xml: %v", ErrMalformed, err)
	}
	defer content.Close()

	sheets, err := readODSContent(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.name
	}
	return l.sheetTables(names, sel, func(i int) ([][]string, error) {
		return sheets[i].rows, nil
	})
}

// odsReader streams content.xml. Repeated rows and cells are only
// expanded when something non-empty follows them, so the millions of
// trailing blank rows office suites write never materialise.
type odsReader struct {
	sheets []odsSheet

	row         []string
	pendingRows int
	rowRepeat   int

	cell        strings.Builder
	inCell      bool
	cellRepeat  int
	pendingCols int
	paragraphs  int
	inParagraph bool
	skipDepth   int
}

func readODSContent(r io.Reader) ([]odsSheet, error) {
	var or odsReader
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse content.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			or.start(t)
		case xml.EndElement:
			or.end(t)
		case xml.CharData:
			if or.inCell && or.inParagraph && or.skipDepth == 0 {
				or.cell.Write(t)
			}
		}
	}
	return or.sheets, nil
}

func (or *odsReader) start(t xml.StartElement) {
	if or.skipDepth > 0 {
		or.skipDepth++
		return
	}

	switch t.Name.Local {
	case "table":
		or.sheets = append(or.sheets, odsSheet{name: attr(t, "name")})
		or.pendingRows = 0
	case "table-row":
		or.row = nil
		or.pendingCols = 0
		or.rowRepeat = repeat(t, "number-rows-repeated")
	case "table-cell", "covered-table-cell":
		or.inCell = true
		or.cell.Reset()
		or.paragraphs = 0
		or.cellRepeat = repeat(t, "number-columns-repeated")
	case "annotation":
		if or.inCell {
			or.skipDepth = 1
		}
	case "p":
		if or.inCell && or.paragraphs > 0 {
			or.cell.WriteByte('\n')
		}
		or.paragraphs++
		or.inParagraph = true
	case "s":
		if or.inCell {
			or.cell.WriteString(strings.Repeat(" ", repeat(t, "c")))
		}
	case "tab":
		if or.inCell {
			or.cell.WriteByte('\t')
		}
	case "line-break":
		if or.inCell {
			or.cell.WriteByte('\n')
		}
	}
}

func (or *odsReader) end(t xml.EndElement) {
	if or.skipDepth > 0 {
		or.skipDepth--
		return
	}

	switch t.Name.Local {
	case "p":
		or.inParagraph = false
	case "table-cell", "covered-table-cell":
		or.inCell = false
		text := or.cell.String()
		if text == "" {
			or.pendingCols += or.cellRepeat
			return
		}
		for ; or.pendingCols > 0; or.pendingCols-- {
			or.row = append(or.row, "")
		}
		for i := 0; i < or.cellRepeat; i++ {
			or.row = append(or.row, text)
		}
	case "table-row":
		if len(or.sheets) == 0 {
			return
		}
		sheet := &or.sheets[len(or.sheets)-1]
		if len(or.row) == 0 {
			or.pendingRows += or.rowRepeat
			return
		}
		for ; or.pendingRows > 0; or.pendingRows-- {
			sheet.rows = append(sheet.rows, nil)
		}
		for i := 0; i < or.rowRepeat; i++ {
			sheet.rows = append(sheet.rows, append([]string(nil), or.row...))
		}
	}
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// repeat reads a repetition count attribute, defaulting to 1.
func repeat(t xml.StartElement, local string) int {
	n, err := strconv.Atoi(attr(t, local))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
