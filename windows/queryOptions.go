package windows

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/apache/arrow-go/v18/arrow"
)

// QueryOptions holds the column selection and row limit for a table view.
type QueryOptions struct {
	SelectedColumns []string
	Limit           int
}

// QueryOptionsDialog lets the user pick visible columns and a row limit.
type QueryOptionsDialog struct {
	dialog       dialog.Dialog
	window       fyne.Window
	schema       *arrow.Schema
	current      QueryOptions
	columnChecks []*widget.Check
	limitEntry   *widget.Entry
	callback     func(*QueryOptions)
}

// NewQueryOptionsDialog creates the dialog with the current options preset.
func NewQueryOptionsDialog(w fyne.Window, schema *arrow.Schema, current QueryOptions, callback func(*QueryOptions)) *QueryOptionsDialog {
	qod := &QueryOptionsDialog{
		window:   w,
		schema:   schema,
		current:  current,
		callback: callback,
	}
	qod.createDialog()
	return qod
}

func (qod *QueryOptionsDialog) createDialog() {
	columnSelectLabel := widget.NewLabel("Visible Columns:")
	columnSelectLabel.TextStyle = fyne.TextStyle{Bold: true}

	columnCheckboxes := container.NewVBox()

	selectAllBtn := widget.NewButton("Select All", func() {
		for _, check := range qod.columnChecks {
			check.SetChecked(true)
		}
	})

	deselectAllBtn := widget.NewButton("Deselect All", func() {
		for _, check := range qod.columnChecks {
			check.SetChecked(false)
		}
	})

	selectButtons := container.NewHBox(selectAllBtn, deselectAllBtn)

	visible := make(map[string]bool, len(qod.current.SelectedColumns))
	for _, name := range qod.current.SelectedColumns {
		visible[name] = true
	}
	for _, field := range qod.schema.Fields() {
		check := widget.NewCheck(fmt.Sprintf("%s (%s)", field.Name, field.Type), nil)
		check.SetChecked(len(visible) == 0 || visible[field.Name])
		qod.columnChecks = append(qod.columnChecks, check)
		columnCheckboxes.Add(check)
	}

	columnScroll := container.NewVScroll(columnCheckboxes)
	columnScroll.SetMinSize(fyne.NewSize(400, 250))

	limitLabel := widget.NewLabel("Row Limit:")
	limitLabel.TextStyle = fyne.TextStyle{Bold: true}

	qod.limitEntry = widget.NewEntry()
	if qod.current.Limit > 0 {
		qod.limitEntry.SetText(strconv.Itoa(qod.current.Limit))
	}
	qod.limitEntry.SetPlaceHolder("Leave empty for all rows, or enter a number (e.g., 1000)")

	limitHelp := widget.NewLabel("Maximum number of rows to show after filtering and sorting.")
	limitHelp.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewVBox(
		columnSelectLabel,
		selectButtons,
		columnScroll,
		widget.NewSeparator(),
		limitLabel,
		qod.limitEntry,
		limitHelp,
	)

	qod.dialog = dialog.NewCustomConfirm(
		"Columns",
		"Apply",
		"Cancel",
		content,
		func(confirmed bool) {
			if confirmed {
				qod.handleConfirm()
			}
		},
		qod.window,
	)

	qod.dialog.Resize(fyne.NewSize(500, 550))
}

func (qod *QueryOptionsDialog) handleConfirm() {
	checked := make([]bool, len(qod.columnChecks))
	for i, check := range qod.columnChecks {
		checked[i] = check.Checked
	}

	options, err := buildQueryOptions(qod.schema, checked, qod.limitEntry.Text)
	if err != nil {
		dialog.ShowError(err, qod.window)
		return
	}

	if qod.callback != nil {
		qod.callback(options)
	}
}

// buildQueryOptions turns the dialog state into options. Columns keep
// schema order.
func buildQueryOptions(schema *arrow.Schema, checked []bool, limitText string) (*QueryOptions, error) {
	options := &QueryOptions{
		SelectedColumns: make([]string, 0, len(checked)),
	}
	for i, field := range schema.Fields() {
		if i < len(checked) && checked[i] {
			options.SelectedColumns = append(options.SelectedColumns, field.Name)
		}
	}
	if len(options.SelectedColumns) == 0 {
		return nil, errors.New("please select at least one column")
	}

	limitText = strings.TrimSpace(limitText)
	if limitText != "" {
		limit, err := strconv.Atoi(limitText)
		if err != nil || limit <= 0 {
			return nil, errors.New("invalid limit: must be a positive number")
		}
		options.Limit = limit
	}
	return options, nil
}

// Show displays the dialog.
func (qod *QueryOptionsDialog) Show() {
	qod.dialog.Show()
}
