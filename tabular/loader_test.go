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

package tabular_test

import (
	"archive/zip"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tableview/source"
	"tableview/tabular"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func load(t *testing.T, path string, sel tabular.Selector) (tabular.TableSet, error) {
	t.Helper()
	set, err := tabular.NewLoader().LoadFile(context.Background(), path, sel)
	if err == nil {
		t.Cleanup(set.Release)
	}
	return set, err
}

func cells(t tabular.Table) [][]string {
	v := tabular.NewView(t)
	out := make([][]string, v.RowCount())
	for r := range out {
		out[r] = v.Row(r)
	}
	return out
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"name", "qty"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"bolt", 12}))
	_, err := f.NewSheet("Second")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Second", "A1", &[]any{"city", "", "country"}))
	require.NoError(t, f.SetSheetRow("Second", "A2", &[]any{"Oslo", "x", "Norway"}))
	require.NoError(t, f.SetSheetRow("Second", "A3", &[]any{"Bergen"}))
	_, err = f.NewSheet("Third")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "book.XLSX")
	require.NoError(t, f.SaveAs(path))
	return path
}

func writeDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.sqlite3")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	for _, stmt := range []string{
		`CREATE TABLE zeta (id INTEGER, name TEXT, score REAL)`,
		`INSERT INTO zeta VALUES (1, 'ada', 9.5), (2, 'alan', NULL)`,
		`CREATE TABLE alpha (note TEXT)`,
		`INSERT INTO alpha VALUES ('first')`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return path
}

const odsContent = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content
  xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"
  xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">
 <office:body><office:spreadsheet>
  <table:table table:name="Plan">
   <table:table-row>
    <table:table-cell><text:p>item</text:p></table:table-cell>
    <table:table-cell/>
    <table:table-cell><text:p>cost</text:p></table:table-cell>
   </table:table-row>
   <table:table-row>
    <table:table-cell table:number-columns-repeated="2"><text:p>same</text:p></table:table-cell>
    <table:table-cell><text:p>a<text:s text:c="2"/>b</text:p><office:annotation><text:p>note</text:p></office:annotation></table:table-cell>
    <table:table-cell table:number-columns-repeated="16381"/>
   </table:table-row>
   <table:table-row table:number-rows-repeated="1048574">
    <table:table-cell table:number-columns-repeated="16384"/>
   </table:table-row>
  </table:table>
  <table:table table:name="Empty"/>
 </office:spreadsheet></office:body>
</office:document-content>`

func writeODS(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.ods")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range map[string]string{
		"mimetype":    "application/vnd.oasis.opendocument.spreadsheet",
		"content.xml": odsContent,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "people.csv", "name,age\nAda,36\n\nAlan,41\n")

	set, err := load(t, path, tabular.Selector{})
	require.NoError(t, err)
	require.Len(t, set, 1)

	tbl := set[0]
	assert.Equal(t, "people.csv", tbl.Name)
	assert.Equal(t, []string{"name", "age"}, tbl.ColumnNames())
	assert.Equal(t, [][]string{{"Ada", "36"}, {"Alan", "41"}}, cells(tbl))
	assert.Equal(t, arrow.INT64, tbl.Data.Schema().Field(1).Type.ID())
}

func TestLoadCSVKeepsMixedColumnText(t *testing.T) {
	path := writeFile(t, "codes.csv", "id,code\n1,7\n2,x7\n3,007\n")

	set, err := load(t, path, tabular.Selector{})
	require.NoError(t, err)
	require.Len(t, set, 1)

	got := cells(set[0])
	require.Len(t, got, 3)
	assert.Equal(t, "x7", got[1][1])
	assert.Equal(t, "007", got[2][1])

	schema := set[0].Data.Schema()
	assert.Equal(t, arrow.INT64, schema.Field(0).Type.ID(), "clean column keeps its type")
	assert.Equal(t, arrow.STRING, schema.Field(1).Type.ID())
}

func TestLoadCSVWidensColumnsSeparately(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []arrow.Type
	}{
		{
			name:    "integer column gains a fraction",
			content: "qty,price\n1,1\n2,2.5\n",
			want:    []arrow.Type{arrow.INT64, arrow.FLOAT64},
		},
		{
			name:    "blank first cell",
			content: "a,b\n1,\n2,5\n",
			want:    []arrow.Type{arrow.INT64, arrow.INT64},
		},
		{
			name:    "all blank column stays text",
			content: "a,b\n1,\n2,\n",
			want:    []arrow.Type{arrow.INT64, arrow.STRING},
		},
		{
			name:    "boolean column with a stray word",
			content: "ok,n\ntrue,1\nmaybe,2\n",
			want:    []arrow.Type{arrow.STRING, arrow.INT64},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := load(t, writeFile(t, "typed.csv", tt.content), tabular.Selector{})
			require.NoError(t, err)
			require.Len(t, set, 1)

			schema := set[0].Data.Schema()
			got := make([]arrow.Type, schema.NumFields())
			for i, f := range schema.Fields() {
				got[i] = f.Type.ID()
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 2, set[0].NumRows())
		})
	}
}

func TestLoadCSVFractionKeepsValues(t *testing.T) {
	set, err := load(t, writeFile(t, "prices.csv", "qty,price\n1,1\n2,2.5\n"), tabular.Selector{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "1"}, {"2", "2.5"}}, cells(set[0]))
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	path := writeFile(t, "empty.csv", "a,b\n")

	set, err := load(t, path, tabular.Selector{})
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, []string{"a", "b"}, set[0].ColumnNames())
	assert.Equal(t, 0, set[0].NumRows())
}

func TestLoadPipedShapes(t *testing.T) {
	loader := tabular.NewLoader()
	piped := func(data string) source.Source {
		return source.Source{Kind: source.Piped, Data: []byte(data)}
	}

	t.Run("header only", func(t *testing.T) {
		set, err := loader.Load(context.Background(), piped("a,b\n"))
		require.NoError(t, err)
		defer set.Release()
		require.Len(t, set, 1)
		assert.Equal(t, []string{"a", "b"}, set[0].ColumnNames())
		assert.Equal(t, 0, set[0].NumRows())
	})

	for name, data := range map[string]string{
		"ragged":          "a,b\n1,2,3\n",
		"short row":       "a,b\n1,2\n3\n",
		"whitespace only": "  \n\t\n",
		"empty":           "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := loader.Load(context.Background(), piped(data))
			assert.ErrorIs(t, err, tabular.ErrMalformed)
		})
	}
}

func TestLoadTSV(t *testing.T) {
	path := writeFile(t, "scores.tsv", "team\tpoints\nred\t3\nblue\t1\n")

	set, err := load(t, path, tabular.IndexSelector(4))
	require.NoError(t, err, "selector is ignored for single table formats")
	require.Len(t, set, 1)
	assert.Equal(t, []string{"team", "points"}, set[0].ColumnNames())
	assert.Equal(t, 2, set[0].NumRows())
}

func TestLoadPipedIsAlwaysCommaSeparated(t *testing.T) {
	loader := tabular.NewLoader()

	set, err := loader.Load(context.Background(), source.Source{
		Kind: source.Piped,
		Data: []byte("a,b\n1,2\n"),
		Name: "data.tsv",
	})
	require.NoError(t, err)
	defer set.Release()
	require.Len(t, set, 1)
	assert.Equal(t, "data.tsv", set[0].Name)
	assert.Equal(t, []string{"a", "b"}, set[0].ColumnNames())

	tabbed, err := loader.Load(context.Background(), source.Source{
		Kind: source.Piped,
		Data: []byte("a\tb\n1\t2\n"),
		Name: "data.tsv",
	})
	require.NoError(t, err)
	defer tabbed.Release()
	assert.Equal(t, []string{"a\tb"}, tabbed[0].ColumnNames())
}

func TestLoadXLSX(t *testing.T) {
	path := writeWorkbook(t)

	t.Run("all sheets", func(t *testing.T) {
		set, err := load(t, path, tabular.Selector{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Sheet1", "Second", "Third"}, set.Names())

		assert.Equal(t, []string{"name", "qty"}, set[0].ColumnNames())
		assert.Equal(t, [][]string{{"bolt", "12"}}, cells(set[0]))

		assert.Equal(t, []string{"city", "Column2", "country"}, set[1].ColumnNames())
		assert.Equal(t, [][]string{{"Oslo", "x", "Norway"}, {"Bergen", "", ""}}, cells(set[1]))

		assert.Equal(t, 0, set[2].NumCols())
	})

	t.Run("by index", func(t *testing.T) {
		for k, want := range []string{"Sheet1", "Second", "Third"} {
			set, err := load(t, path, tabular.ParseSelector(strconv.Itoa(k)))
			require.NoError(t, err)
			assert.Equal(t, []string{want}, set.Names())
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		_, err := load(t, path, tabular.ParseSelector("3"))
		assert.ErrorIs(t, err, tabular.ErrIndexOutOfRange)
	})

	t.Run("by name", func(t *testing.T) {
		set, err := load(t, path, tabular.ParseSelector("Second"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Second"}, set.Names())
	})

	t.Run("empty sheet by name", func(t *testing.T) {
		set, err := load(t, path, tabular.ParseSelector("Third"))
		require.NoError(t, err)
		require.Len(t, set, 1)
		assert.Equal(t, 0, set[0].NumCols())
		assert.Equal(t, 0, set[0].NumRows())
	})

	t.Run("name must match exactly", func(t *testing.T) {
		_, err := load(t, path, tabular.ParseSelector("second"))
		assert.ErrorIs(t, err, tabular.ErrTableNotFound)
	})
}

func TestLoadXLS(t *testing.T) {
	path := filepath.Join("testdata", "inventory.xls")

	t.Run("all sheets", func(t *testing.T) {
		set, err := load(t, path, tabular.Selector{})
		require.NoError(t, err)
		assert.Equal(t, []string{"People", "Blank", "Notes"}, set.Names())

		assert.Equal(t, []string{"name", "age"}, set[0].ColumnNames())
		assert.Equal(t, [][]string{{"Ada", "36"}, {"Alan", "41.5"}}, cells(set[0]))

		assert.Equal(t, 0, set[1].NumCols())

		assert.Equal(t, []string{"note"}, set[2].ColumnNames())
		assert.Equal(t, [][]string{{""}, {"hello"}}, cells(set[2]), "a row without a record is blank")
	})

	t.Run("by index", func(t *testing.T) {
		for k, want := range []string{"People", "Blank", "Notes"} {
			set, err := load(t, path, tabular.ParseSelector(strconv.Itoa(k)))
			require.NoError(t, err)
			assert.Equal(t, []string{want}, set.Names())
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		_, err := load(t, path, tabular.ParseSelector("3"))
		assert.ErrorIs(t, err, tabular.ErrIndexOutOfRange)
	})

	t.Run("by name", func(t *testing.T) {
		set, err := load(t, path, tabular.ParseSelector("Notes"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Notes"}, set.Names())
	})

	t.Run("name must match exactly", func(t *testing.T) {
		_, err := load(t, path, tabular.ParseSelector("notes"))
		assert.ErrorIs(t, err, tabular.ErrTableNotFound)
	})
}

func TestLoadSQLite(t *testing.T) {
	path := writeDatabase(t)

	set, err := load(t, path, tabular.Selector{})
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha"}, set.Names(), "tables come in creation order")

	zeta := set[0]
	assert.Equal(t, []string{"id", "name", "score"}, zeta.ColumnNames())
	schema := zeta.Data.Schema()
	assert.Equal(t, arrow.INT64, schema.Field(0).Type.ID())
	assert.Equal(t, arrow.STRING, schema.Field(1).Type.ID())
	assert.Equal(t, arrow.FLOAT64, schema.Field(2).Type.ID())
	assert.Equal(t, [][]string{{"1", "ada", "9.5"}, {"2", "alan", ""}}, cells(zeta))

	one, err := load(t, path, tabular.IndexSelector(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, one.Names())

	named, err := load(t, path, tabular.NameSelector("zeta"))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta"}, named.Names())

	_, err = load(t, path, tabular.IndexSelector(2))
	assert.ErrorIs(t, err, tabular.ErrIndexOutOfRange)

	_, err = load(t, path, tabular.NameSelector("missing"))
	assert.ErrorIs(t, err, tabular.ErrTableNotFound)
}

func TestLoadSQLiteNotADatabase(t *testing.T) {
	path := writeFile(t, "notes.db", strings.Repeat("this is not sqlite\n", 20))

	_, err := load(t, path, tabular.Selector{})
	assert.ErrorIs(t, err, tabular.ErrMalformed)
}

func TestLoadODS(t *testing.T) {
	path := writeODS(t)

	set, err := load(t, path, tabular.Selector{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Plan", "Empty"}, set.Names())

	plan := set[0]
	assert.Equal(t, []string{"item", "Column2", "cost"}, plan.ColumnNames())
	assert.Equal(t, [][]string{{"same", "same", "a  b"}}, cells(plan))
	assert.Equal(t, 0, set[1].NumCols())

	one, err := load(t, path, tabular.NameSelector("Empty"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Empty"}, one.Names())
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "rows.json", `[{"b": 1, "a": "x"}, {"a": "y", "c": true}]`)

	set, err := load(t, path, tabular.Selector{})
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, []string{"a", "b", "c"}, set[0].ColumnNames())
	assert.Equal(t, [][]string{{"x", "1", ""}, {"y", "", "true"}}, cells(set[0]))
}

func TestLoadJSONWithoutKeys(t *testing.T) {
	set, err := load(t, writeFile(t, "blank.json", `[{}]`), tabular.Selector{})
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, 0, set[0].NumCols())
}

func TestExportRoundTrip(t *testing.T) {
	src := writeFile(t, "people.csv", "name,age\nAda,36\nAlan,41\n")
	set, err := load(t, src, tabular.Selector{})
	require.NoError(t, err)

	for _, ext := range []string{".csv", ".tsv", ".parquet", ".json"} {
		t.Run(ext, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out"+ext)
			require.NoError(t, tabular.Export(set[0].Data, out))

			back, err := load(t, out, tabular.Selector{})
			require.NoError(t, err)
			require.Len(t, back, 1)
			assert.ElementsMatch(t, []string{"name", "age"}, back[0].ColumnNames())
			assert.Equal(t, 2, back[0].NumRows())
		})
	}

	assert.ErrorIs(t, tabular.Export(set[0].Data, filepath.Join(t.TempDir(), "out.txt")), tabular.ErrUnsupportedFormat)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		want error
	}{
		{
			name: "unsupported extension",
			path: func(t *testing.T) string { return writeFile(t, "notes.txt", "a,b\n1,2\n") },
			want: tabular.ErrUnsupportedFormat,
		},
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "gone.csv") },
			want: tabular.ErrFileNotFound,
		},
		{
			name: "directory",
			path: func(t *testing.T) string {
				dir := filepath.Join(t.TempDir(), "dir.csv")
				require.NoError(t, os.Mkdir(dir, 0o755))
				return dir
			},
			want: tabular.ErrFileNotFound,
		},
		{
			name: "empty csv",
			path: func(t *testing.T) string { return writeFile(t, "blank.csv", "\n\n") },
			want: tabular.ErrMalformed,
		},
		{
			name: "ragged csv",
			path: func(t *testing.T) string { return writeFile(t, "ragged.csv", "a,b\n1,2,3\n") },
			want: tabular.ErrMalformed,
		},
		{
			name: "corrupt workbook",
			path: func(t *testing.T) string { return writeFile(t, "broken.xlsx", "not a zip") },
			want: tabular.ErrMalformed,
		},
		{
			name: "corrupt ods",
			path: func(t *testing.T) string { return writeFile(t, "broken.ods", "not a zip") },
			want: tabular.ErrMalformed,
		},
		{
			name: "invalid json",
			path: func(t *testing.T) string { return writeFile(t, "broken.json", "{") },
			want: tabular.ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.path(t), tabular.Selector{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
