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
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"tableview/tabular"
)

// OpenFile lets the user pick another file and opens its tables in new tabs.
func (t *MainWindow) OpenFile() {
	t.fileDialog.Show(func(path string) {
		if path == "" {
			return
		}
		t.handleDataFileLoad(path)
	})
}

// handleDataFileLoad loads a file in the background and shows its tables.
// Unlike the startup load, a failure here only shows an error.
func (t *MainWindow) handleDataFileLoad(filePath string) {
	name := filepath.Base(filePath)
	t.SetStatus("Loading " + name + "...")
	hide := showProgress(t.w, "Loading "+name+"...")

	go func() {
		tables, err := t.LoadDataFile(filePath, "")
		hide()

		fyne.Do(func() {
			if err != nil {
				t.log.Error("failed to load file", "path", filePath, "err", err)
				t.SetStatus("Error loading file: " + err.Error())
				dialog.ShowError(fmt.Errorf("%s: %w", name, err), t.w)
				return
			}
			t.ShowTables(filePath, tables)
		})
	}()
}

// LoadDataFile reads the tables of a file picked by the selector token.
func (t *MainWindow) LoadDataFile(filePath, selector string) (tabular.TableSet, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}
	return t.loader.LoadFile(t.ctx, abs, tabular.ParseSelector(selector))
}
