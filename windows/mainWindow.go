package windows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"tableview/config"
	"tableview/source"
	"tableview/tabular"
)

const appTitle = "TableView"

// ResolveFunc decides the startup input. It runs on a worker goroutine and
// may block on the file dialog.
type ResolveFunc func(ctx context.Context) (source.Source, error)

type MainWindow struct {
	a          fyne.App
	w          fyne.Window
	cfg        *config.Config
	log        *slog.Logger
	loader     *tabular.Loader
	theme      *CustomTheme
	fileDialog *FileDialog
	browser    *DataBrowser
	navTree    *NavigationTree
	split      *container.Split
	statusBar  *widget.Label
	ctx        context.Context
	cancel     context.CancelFunc
	exitCode   int
}

// NewMainWindow creates the application and its window. Nothing is shown
// until Run.
func NewMainWindow(cfg *config.Config, loader *tabular.Loader, log *slog.Logger) *MainWindow {
	t := &MainWindow{
		cfg:    cfg,
		log:    log,
		loader: loader,
	}
	t.ctx, t.cancel = context.WithCancel(context.Background())

	t.a = app.NewWithID("io.github.tableview")
	t.theme = NewTheme(cfg.Theme)
	t.a.Settings().SetTheme(t.theme)

	t.w = t.a.NewWindow(appTitle)
	t.w.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))

	t.statusBar = widget.NewLabel("Ready")
	t.statusBar.TextStyle = fyne.TextStyle{Italic: true}
	t.statusBar.Truncation = fyne.TextTruncateEllipsis

	t.fileDialog = NewFileDialog(t.w, log)
	t.browser = NewDataBrowser(t.w, cfg.Table, log, t.SetStatus)
	t.navTree = NewNavigationTree(t.browser)
	t.browser.SetOnTabsChanged(t.tabsChanged)

	left := container.NewBorder(widget.NewLabelWithStyle("Tables", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil, t.navTree.Widget())
	t.split = container.NewHSplit(left, t.browser.Content())
	t.split.Offset = 0.2
	left.Hide()

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.MenuIcon(), t.toggleNavigation),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.FolderOpenIcon(), t.OpenFile),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), t.ExportSelected),
		widget.NewToolbarAction(theme.ListIcon(), t.ShowColumns),
		widget.NewToolbarAction(theme.ContentCopyIcon(), t.browser.CopySelected),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.ColorPaletteIcon(), t.CycleTheme),
	)

	t.w.SetContent(container.NewBorder(toolbar, container.NewHBox(t.statusBar), nil, nil, t.split))

	t.w.Canvas().AddShortcut(&fyne.ShortcutCopy{}, func(fyne.Shortcut) {
		t.browser.CopySelected()
	})
	t.w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		t.OpenFile()
	})
	t.w.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		for _, u := range uris {
			t.handleDataFileLoad(u.Path())
		}
	})
	return t
}

// FileDialog returns the dialog used to pick files, for use as a
// source.Picker.
func (t *MainWindow) FileDialog() *FileDialog {
	return t.fileDialog
}

// Run shows the window and resolves and loads the startup input in the
// background. It blocks until the application quits and returns the
// process exit code: 1 after a failed startup load, 0 otherwise.
func (t *MainWindow) Run(resolve ResolveFunc) int {
	t.a.Lifecycle().SetOnStarted(func() {
		go t.startup(resolve)
	})
	t.w.ShowAndRun()

	t.cancel()
	t.browser.Release()
	return t.exitCode
}

func (t *MainWindow) startup(resolve ResolveFunc) {
	src, err := resolve(t.ctx)
	if errors.Is(err, context.Canceled) {
		return
	}
	if err != nil {
		fyne.Do(func() { t.ShowFatal(err) })
		return
	}
	if src.Kind == source.None {
		t.log.Info("no input, exiting")
		fyne.Do(t.a.Quit)
		return
	}

	title := src.Title()
	fyne.Do(func() { t.SetStatus("Loading " + title + "...") })
	hide := showProgress(t.w, "Loading "+displayName(title)+"...")
	tables, err := t.loader.Load(t.ctx, src)
	hide()

	fyne.Do(func() {
		if err != nil {
			t.ShowFatal(fmt.Errorf("%s: %w", title, err))
			return
		}
		t.ShowTables(title, tables)
	})
}

// ShowTables adds the tables of one source to the window.
func (t *MainWindow) ShowTables(title string, tables tabular.TableSet) {
	t.log.Info("showing tables", "source", title, "tables", len(tables))
	t.w.SetTitle(appTitle + " - " + title)
	t.browser.ShowTables(title, tables)
}

// ShowFatal reports an error that leaves nothing to show. Closing the
// dialog quits with exit code 1.
func (t *MainWindow) ShowFatal(err error) {
	t.log.Error("failed to load data", "err", err)
	t.SetStatus("Error: " + err.Error())

	d := dialog.NewError(err, t.w)
	d.SetOnClosed(func() {
		t.exitCode = 1
		t.a.Quit()
	})
	d.Show()
}

// SetStatus updates the status bar message
func (t *MainWindow) SetStatus(message string) {
	if t.statusBar != nil {
		t.statusBar.SetText(message)
	}
}

// ExportSelected saves the visible part of the selected table.
func (t *MainWindow) ExportSelected() {
	data := t.browser.Selected()
	if data == nil {
		dialog.ShowInformation("Export", "Open a table first", t.w)
		return
	}
	t.browser.exportData(data)
}

// ShowColumns opens the column and row limit options of the selected table.
func (t *MainWindow) ShowColumns() {
	data := t.browser.Selected()
	if data == nil {
		dialog.ShowInformation("Columns", "Open a table first", t.w)
		return
	}

	current := QueryOptions{
		SelectedColumns: data.view.VisibleColumnNames(),
		Limit:           data.view.Limit(),
	}
	NewQueryOptionsDialog(t.w, data.view.Table().Data.Schema(), current, func(options *QueryOptions) {
		if err := data.view.SetVisibleColumns(options.SelectedColumns); err != nil {
			dialog.ShowError(err, t.w)
			return
		}
		data.view.SetLimit(options.Limit)
		t.browser.Refresh(data)
	}).Show()
}

// CycleTheme switches between the system, light and dark themes.
func (t *MainWindow) CycleTheme() {
	t.theme = NewTheme(nextThemeMode(t.theme.Mode()))
	t.a.Settings().SetTheme(t.theme)
	t.SetStatus("Theme: " + t.theme.Mode())
}

func (t *MainWindow) toggleNavigation() {
	left := t.split.Leading
	if left.Visible() {
		left.Hide()
	} else {
		left.Show()
	}
	t.split.Refresh()
}

// tabsChanged keeps the navigation tree in step with the tabs. The tree is
// shown once tables from more than one source are open.
func (t *MainWindow) tabsChanged() {
	t.navTree.Rebuild()
	if len(t.navTree.rootIDs) > 1 && !t.split.Leading.Visible() {
		t.split.Leading.Show()
		t.split.Refresh()
	}
}
