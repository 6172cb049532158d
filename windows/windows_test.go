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

package windows

import (
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableview/config"
	"tableview/tabular"
)

func readCSV(t *testing.T, name, text string) tabular.Table {
	t.Helper()
	tbl, err := tabular.NewLoader().ReadDelimited(name, strings.NewReader(text), ',')
	require.NoError(t, err)
	return tbl
}

func TestListDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	for _, name := range []string{"b.csv", "a.XLSX", "notes.md", "run.db", ".hidden.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	entries, err := listDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, []dirEntry{
		{name: "data", dir: true},
		{name: "a.XLSX"},
		{name: "b.csv"},
		{name: "run.db"},
	}, entries)

	_, err = listDirectory(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestBuildQueryOptions(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String},
		{Name: "score", Type: arrow.PrimitiveTypes.Float64},
	}, nil)

	opts, err := buildQueryOptions(schema, []bool{true, false, true}, " 25 ")
	require.NoError(t, err)
	assert.Equal(t, &QueryOptions{SelectedColumns: []string{"id", "score"}, Limit: 25}, opts)

	opts, err = buildQueryOptions(schema, []bool{false, true, false}, "")
	require.NoError(t, err)
	assert.Zero(t, opts.Limit)

	_, err = buildQueryOptions(schema, []bool{false, false, false}, "")
	assert.ErrorContains(t, err, "at least one column")

	_, err = buildQueryOptions(schema, []bool{true, true, true}, "-3")
	assert.ErrorContains(t, err, "invalid limit")
}

func TestCleanFilename(t *testing.T) {
	assert.Equal(t, "Sales_Q1", cleanFilename("Sales Q1"))
	assert.Equal(t, "report-2024", cleanFilename("report-2024!"))
	assert.Equal(t, "table", cleanFilename("!!!"))
}

func TestThemeModes(t *testing.T) {
	assert.Equal(t, "dark", NewTheme("DARK").Mode())
	assert.Equal(t, "system", NewTheme("").Mode())

	mode := "system"
	for _, want := range []string{"light", "dark", "system"} {
		mode = nextThemeMode(mode)
		assert.Equal(t, want, mode)
	}

	light := NewTheme("light")
	assert.Equal(t,
		light.Color(theme.ColorNameBackground, theme.VariantLight),
		light.Color(theme.ColorNameBackground, theme.VariantDark),
		"forced variant ignores the system one")

	system := NewTheme("system")
	assert.NotEqual(t,
		system.Color(theme.ColorNameBackground, theme.VariantLight),
		system.Color(theme.ColorNameBackground, theme.VariantDark))
	assert.IsType(t, color.NRGBA{}, system.Color(theme.ColorNameHeaderBackground, theme.VariantDark))
}

func TestColumnWidth(t *testing.T) {
	test.NewTempApp(t)

	assert.EqualValues(t, 60, columnWidth("a", []string{"1"}, 60, 400))
	assert.EqualValues(t, 400, columnWidth("a", []string{strings.Repeat("wide ", 200)}, 60, 400))

	narrow := columnWidth("name", []string{"Oslo"}, 10, 1000)
	wide := columnWidth("name", []string{"Oslo\n" + strings.Repeat("x", 50), "Trondheim Trondheim"}, 10, 1000)
	assert.Greater(t, wide, narrow)
	assert.Less(t, wide, columnWidth("name", []string{strings.Repeat("x", 50)}, 10, 1000), "only the first line counts")
}

func TestDataBrowserTabs(t *testing.T) {
	test.NewTempApp(t)
	w := test.NewWindow(nil)
	defer w.Close()

	var status string
	b := NewDataBrowser(w, config.Default().Table, slog.New(slog.DiscardHandler), func(s string) { status = s })
	nav := NewNavigationTree(b)
	b.SetOnTabsChanged(nav.Rebuild)

	b.ShowTables("/data/book.xlsx", tabular.TableSet{
		readCSV(t, "Sheet1", "a,b\n1,2\n3,4\n"),
		readCSV(t, "Sheet2", "c\nx\n"),
	})
	b.ShowTables("(from stdin)", tabular.TableSet{readCSV(t, "(from stdin)", "k\nv\n")})

	tables := b.Tables()
	require.Len(t, tables, 3)
	assert.Equal(t, "(from stdin)", b.Selected().Name(), "the newest set is brought to the front")
	assert.Equal(t, "Table (from stdin) (1 columns x 1 rows)", status)

	roots := nav.GetChildren("")
	require.Len(t, roots, 2)
	assert.True(t, nav.IsBranch(roots[0]))
	sheets := nav.GetChildren(roots[0])
	require.Len(t, sheets, 2)
	assert.Equal(t, "Sheet2", nav.GetNode(sheets[1]).Name)
	assert.False(t, nav.IsBranch(sheets[1]))

	kind, src, tbl := nav.ParseNodeID(sheets[1])
	assert.Equal(t, NodeTypeTable, kind)
	assert.Equal(t, 0, src)
	assert.Equal(t, 1, tbl)

	first := tables[0]
	first.table.OnSelected(widget.TableCellID{Row: 0, Col: 1})
	require.NoError(t, first.view.SetFilter("a = 3"))
	b.Refresh(first)
	assert.Equal(t, 1, first.view.RowCount())

	b.sortBy(first, 0)
	assert.Equal(t, "a ↑", headerText(first.view, 0))
	assert.Equal(t, "b", headerText(first.view, 1))

	b.docTabs.CloseIntercept(tables[2].tab)
	assert.Len(t, b.Tables(), 2)
	assert.Len(t, nav.GetChildren(""), 1)

	b.Release()
	assert.Empty(t, b.tabDataMap)
}
