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
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"tableview/config"
	"tableview/tabular"
)

// Data holds information about a table tab.
type Data struct {
	view     *tabular.View
	table    *widget.Table
	filter   *widget.Entry
	tab      *container.TabItem
	selected widget.TableCellID
	source   string
}

// Name returns the table name.
func (d *Data) Name() string {
	return d.view.Table().Name
}

// DataBrowser shows every loaded table in its own tab.
type DataBrowser struct {
	w              fyne.Window
	log            *slog.Logger
	docTabs        *container.DocTabs
	tabDataMap     map[*container.TabItem]*Data
	statusCallback func(string)
	onTabsChanged  func()
	minWidth       float32
	maxWidth       float32
}

// NewDataBrowser creates the tab container. statusCallback receives the
// status line of the selected tab.
func NewDataBrowser(w fyne.Window, cfg config.TableConfig, log *slog.Logger, statusCallback func(string)) *DataBrowser {
	t := &DataBrowser{
		w:              w,
		log:            log,
		tabDataMap:     make(map[*container.TabItem]*Data),
		statusCallback: statusCallback,
		minWidth:       cfg.MinColumnWidth,
		maxWidth:       cfg.MaxColumnWidth,
	}

	t.docTabs = container.NewDocTabs()
	t.docTabs.SetTabLocation(container.TabLocationBottom)

	// Release Arrow memory when a tab is closed
	t.docTabs.CloseIntercept = func(ti *container.TabItem) {
		if data, exists := t.tabDataMap[ti]; exists {
			t.log.Debug("closing table", "table", data.Name())
			data.view.Table().Data.Release()
			delete(t.tabDataMap, ti)
		}
		t.docTabs.Remove(ti)

		if t.docTabs.Selected() != nil {
			t.updateStatusForTab(t.docTabs.Selected())
		} else {
			t.setStatus("Ready")
		}
		if t.onTabsChanged != nil {
			t.onTabsChanged()
		}
	}

	t.docTabs.OnSelected = func(ti *container.TabItem) {
		t.updateStatusForTab(ti)
	}
	return t
}

// Content returns the widget to place in the window.
func (t *DataBrowser) Content() fyne.CanvasObject {
	return t.docTabs
}

// SetOnTabsChanged registers a func run after tabs are added or closed.
func (t *DataBrowser) SetOnTabsChanged(f func()) {
	t.onTabsChanged = f
}

// ShowTables adds one tab per table and selects the first. The browser
// takes ownership of the tables.
func (t *DataBrowser) ShowTables(sourceName string, tables tabular.TableSet) {
	var first *container.TabItem
	for _, tbl := range tables {
		tab := t.CreateDataBrowser(sourceName, tbl)
		if first == nil {
			first = tab
		}
	}
	if first != nil {
		t.docTabs.Select(first)
		t.updateStatusForTab(first)
	}
	if t.onTabsChanged != nil {
		t.onTabsChanged()
	}
}

// CreateDataBrowser creates a tab showing tbl.
func (t *DataBrowser) CreateDataBrowser(sourceName string, tbl tabular.Table) *container.TabItem {
	data := &Data{
		view:     tabular.NewView(tbl),
		selected: widget.TableCellID{Row: -1, Col: -1},
		source:   sourceName,
	}

	data.table = widget.NewTableWithHeaders(
		func() (int, int) {
			return data.view.RowCount(), data.view.ColumnCount()
		},
		func() fyne.CanvasObject {
			label := widget.NewLabel("template")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			if id.Row >= data.view.RowCount() || id.Col >= data.view.ColumnCount() {
				return
			}
			text, _, _ := strings.Cut(data.view.Cell(id.Row, id.Col), "\n")
			obj.(*widget.Label).SetText(text)
		},
	)

	data.table.CreateHeader = func() fyne.CanvasObject {
		b := widget.NewButton("", nil)
		b.Importance = widget.LowImportance
		return b
	}
	data.table.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		b := obj.(*widget.Button)
		switch {
		case id.Row < 0 && id.Col >= 0 && id.Col < data.view.ColumnCount():
			col := id.Col
			b.SetText(headerText(data.view, col))
			b.OnTapped = func() {
				t.sortBy(data, col)
			}
		case id.Col < 0 && id.Row >= 0:
			b.SetText(strconv.Itoa(id.Row + 1))
			b.OnTapped = nil
		default:
			b.SetText("")
			b.OnTapped = nil
		}
	}

	data.table.OnSelected = func(id widget.TableCellID) {
		data.selected = id
		if id.Row >= 0 && id.Col >= 0 && id.Row < data.view.RowCount() && id.Col < data.view.ColumnCount() {
			t.log.Debug("cell selected", "table", data.Name(), "row", id.Row,
				"column", data.view.ColumnName(id.Col), "value", data.view.Cell(id.Row, id.Col))
		}
	}

	data.filter = widget.NewEntry()
	data.filter.SetPlaceHolder("Filter, e.g. country = Norway AND population > 100000")
	data.filter.OnSubmitted = func(expr string) {
		t.applyFilter(data, expr)
	}
	data.filter.OnChanged = func(expr string) {
		if strings.TrimSpace(expr) == "" && data.view.Filter() != "" {
			t.applyFilter(data, "")
		}
	}
	clearButton := widget.NewButtonWithIcon("", theme.ContentClearIcon(), func() {
		data.filter.SetText("")
		t.applyFilter(data, "")
	})
	filterButton := widget.NewButtonWithIcon("", theme.SearchIcon(), func() {
		t.applyFilter(data, data.filter.Text)
	})

	filterBar := container.NewBorder(nil, nil, widget.NewIcon(theme.SearchIcon()),
		container.NewHBox(filterButton, clearButton), data.filter)
	content := container.NewBorder(filterBar, nil, nil, nil, data.table)

	data.tab = container.NewTabItemWithIcon(data.Name(), theme.GridIcon(), content)
	t.tabDataMap[data.tab] = data
	t.fitColumns(data)

	t.docTabs.Append(data.tab)
	t.log.Debug("table tab created", "table", data.Name(), "rows", data.view.RowCount(), "columns", data.view.ColumnCount())
	return data.tab
}

// Selected returns the data of the selected tab, or nil.
func (t *DataBrowser) Selected() *Data {
	if ti := t.docTabs.Selected(); ti != nil {
		return t.tabDataMap[ti]
	}
	return nil
}

// Tables lists the open tabs in display order.
func (t *DataBrowser) Tables() []*Data {
	out := make([]*Data, 0, len(t.docTabs.Items))
	for _, ti := range t.docTabs.Items {
		if data, ok := t.tabDataMap[ti]; ok {
			out = append(out, data)
		}
	}
	return out
}

// Select brings a table tab to the front.
func (t *DataBrowser) Select(data *Data) {
	t.docTabs.Select(data.tab)
}

// Refresh redraws a tab after its view changed.
func (t *DataBrowser) Refresh(data *Data) {
	t.fitColumns(data)
	data.table.Refresh()
	if t.docTabs.Selected() == data.tab {
		t.updateStatusForTab(data.tab)
	}
}

// CopySelected puts the selected cell's text on the clipboard.
func (t *DataBrowser) CopySelected() {
	data := t.Selected()
	if data == nil {
		return
	}
	id := data.selected
	if id.Row < 0 || id.Col < 0 || id.Row >= data.view.RowCount() || id.Col >= data.view.ColumnCount() {
		return
	}
	fyne.CurrentApp().Clipboard().SetContent(data.view.Cell(id.Row, id.Col))
	t.setStatus(fmt.Sprintf("Copied %s, row %d", data.view.ColumnName(id.Col), id.Row+1))
}

// Release frees every open table.
func (t *DataBrowser) Release() {
	for ti, data := range t.tabDataMap {
		data.view.Table().Data.Release()
		delete(t.tabDataMap, ti)
	}
}

func (t *DataBrowser) applyFilter(data *Data, expr string) {
	if err := data.view.SetFilter(expr); err != nil {
		dialog.ShowError(fmt.Errorf("invalid filter: %w", err), t.w)
		return
	}
	data.table.UnselectAll()
	data.table.ScrollToTop()
	t.Refresh(data)
}

func (t *DataBrowser) sortBy(data *Data, col int) {
	st := data.view.SortBy(col)
	t.log.Debug("sort", "table", data.Name(), "column", data.view.ColumnName(col), "direction", st.Direction)
	data.table.Refresh()
	t.updateStatusForTab(data.tab)
}

// fitColumns sizes every visible column to its header and first rows.
func (t *DataBrowser) fitColumns(data *Data) {
	rows := min(data.view.RowCount(), widthSampleRows)
	cells := make([]string, rows)
	for c := 0; c < data.view.ColumnCount(); c++ {
		for r := range cells {
			cells[r] = data.view.Cell(r, c)
		}
		data.table.SetColumnWidth(c, columnWidth(data.view.ColumnName(c), cells, t.minWidth, t.maxWidth))
	}
}

// updateStatusForTab updates the status bar with information about the given tab.
func (t *DataBrowser) updateStatusForTab(ti *container.TabItem) {
	if ti == nil {
		return
	}
	if data, exists := t.tabDataMap[ti]; exists {
		t.setStatus(data.view.Status())
	}
}

func (t *DataBrowser) setStatus(text string) {
	if t.statusCallback != nil {
		t.statusCallback(text)
	}
}

// headerText is the column name followed by its sort arrow, if any.
func headerText(v *tabular.View, col int) string {
	name := v.ColumnName(col)
	if st := v.Sort(); st.IsSorted() && st.Column == col {
		return name + " " + st.Direction.Arrow()
	}
	return name
}
