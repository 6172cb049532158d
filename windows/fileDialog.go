package windows

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"tableview/source"
	"tableview/tabular"
)

type dirEntry struct {
	name string
	dir  bool
}

// FileDialog browses the file system for a data file.
type FileDialog struct {
	dialog      dialog.Dialog
	window      fyne.Window
	log         *slog.Logger
	fileList    *widget.List
	entries     []dirEntry
	homeDir     string
	currentPath string
	pathLabel   *widget.Label
}

var _ source.Picker = (*FileDialog)(nil)

// NewFileDialog creates a dialog that starts in the working directory.
func NewFileDialog(w fyne.Window, log *slog.Logger) *FileDialog {
	fd := &FileDialog{
		window: w,
		log:    log,
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	fd.homeDir = homeDir

	if wd, err := os.Getwd(); err == nil {
		fd.currentPath = wd
	} else {
		fd.currentPath = homeDir
	}
	return fd
}

// Pick shows the dialog and waits for the user. It must not be called from
// the UI goroutine.
func (fd *FileDialog) Pick(ctx context.Context) (string, error) {
	result := make(chan string, 1)
	fyne.Do(func() {
		fd.Show(func(path string) {
			result <- path
		})
	})

	select {
	case path := <-result:
		return path, nil
	case <-ctx.Done():
		fyne.Do(func() {
			if fd.dialog != nil {
				fd.dialog.Hide()
			}
		})
		return "", ctx.Err()
	}
}

// Show opens the dialog. callback runs once, with the chosen path or with ""
// if the dialog was closed without a choice.
func (fd *FileDialog) Show(callback func(string)) {
	done := false
	finish := func(path string) {
		if done {
			return
		}
		done = true
		callback(path)
	}

	fd.pathLabel = widget.NewLabel(fd.currentPath)
	fd.pathLabel.Truncation = fyne.TextTruncateEllipsis
	fd.pathLabel.TextStyle = fyne.TextStyle{Bold: true}

	fd.fileList = widget.NewList(
		func() int {
			return len(fd.entries)
		},
		func() fyne.CanvasObject {
			icon := widget.NewIcon(theme.DocumentIcon())
			label := widget.NewLabel("template")
			return container.NewHBox(icon, label)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			cont := obj.(*fyne.Container)
			icon := cont.Objects[0].(*widget.Icon)
			label := cont.Objects[1].(*widget.Label)

			entry := fd.entries[id]
			label.SetText(entry.name)
			if entry.dir {
				icon.SetResource(theme.FolderIcon())
			} else {
				icon.SetResource(theme.DocumentIcon())
			}
		},
	)

	fd.fileList.OnSelected = func(id widget.ListItemID) {
		entry := fd.entries[id]
		fullPath := filepath.Join(fd.currentPath, entry.name)

		if entry.dir {
			fd.currentPath = fullPath
			fd.loadDirectory()
			fd.fileList.UnselectAll()
			return
		}

		fd.log.Debug("file chosen in dialog", "path", fullPath)
		finish(fullPath)
		fd.dialog.Hide()
	}

	homeButton := widget.NewButtonWithIcon("Home", theme.HomeIcon(), func() {
		fd.currentPath = fd.homeDir
		fd.loadDirectory()
	})

	upButton := widget.NewButtonWithIcon("Up", theme.NavigateBackIcon(), func() {
		parent := filepath.Dir(fd.currentPath)
		if parent != fd.currentPath {
			fd.currentPath = parent
			fd.loadDirectory()
		}
	})

	refreshButton := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), func() {
		fd.loadDirectory()
	})

	filterInfo := widget.NewLabel("Showing folders and " + strings.Join(tabular.SupportedExtensions(), ", ") + " files")
	filterInfo.TextStyle = fyne.TextStyle{Italic: true}
	filterInfo.Wrapping = fyne.TextWrapWord

	navToolbar := container.NewBorder(
		nil, nil,
		container.NewHBox(homeButton, upButton, refreshButton),
		nil,
		fd.pathLabel,
	)

	instructions := widget.NewRichTextFromMarkdown("**Select a data file to view**\n\nClick a folder to open it, or click a file to load it.")
	instructions.Wrapping = fyne.TextWrapWord

	content := container.NewBorder(
		container.NewVBox(
			instructions,
			widget.NewSeparator(),
			navToolbar,
			widget.NewSeparator(),
			filterInfo,
		),
		nil, nil, nil,
		fd.fileList,
	)

	fd.dialog = dialog.NewCustom("Open Data File", "Cancel", content, fd.window)
	fd.dialog.SetOnClosed(func() {
		finish("")
	})
	fd.dialog.Resize(fyne.NewSize(800, 600))

	fd.loadDirectory()
	fd.dialog.Show()
}

func (fd *FileDialog) loadDirectory() {
	entries, err := listDirectory(fd.currentPath)
	if err != nil {
		dialog.ShowError(err, fd.window)
		return
	}
	fd.entries = entries
	fd.pathLabel.SetText(fd.currentPath)
	fd.fileList.Refresh()
}

// listDirectory returns the visible sub-directories of dir followed by the
// files a loader exists for, each group in name order.
func listDirectory(dir string) ([]dirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var dirs, files []dirEntry
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			if fi, err := os.Stat(filepath.Join(dir, name)); err == nil {
				isDir = fi.IsDir()
			}
		}

		switch {
		case isDir:
			dirs = append(dirs, dirEntry{name: name, dir: true})
		case tabular.DetectFormat(name) != tabular.FormatUnknown:
			files = append(files, dirEntry{name: name})
		}
	}
	return append(dirs, files...), nil
}
