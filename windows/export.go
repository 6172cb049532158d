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
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"tableview/tabular"
)

// exportData saves what the tab currently shows. The format follows the
// extension of the chosen file name.
func (t *DataBrowser) exportData(data *Data) {
	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.w)
			return
		}
		if writer == nil {
			// User cancelled
			return
		}
		filePath := writer.URI().Path()
		writer.Close()

		if !slices.Contains(tabular.ExportExtensions(), strings.ToLower(filepath.Ext(filePath))) {
			dialog.ShowError(fmt.Errorf("%w: export to %q, use one of %s", tabular.ErrUnsupportedFormat,
				filepath.Ext(filePath), strings.Join(tabular.ExportExtensions(), ", ")), t.w)
			return
		}

		// The snapshot is taken here so later edits to the view do not race the write.
		snapshot, err := data.view.Snapshot(context.Background(), memory.DefaultAllocator)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to prepare data: %w", err), t.w)
			return
		}

		hide := showProgress(t.w, "Exporting...")
		go func() {
			defer snapshot.Release()
			exportErr := tabular.Export(snapshot, filePath)
			hide()

			if exportErr != nil {
				t.log.Error("export failed", "table", data.Name(), "path", filePath, "err", exportErr)
			} else {
				t.log.Info("table exported", "table", data.Name(), "path", filePath, "rows", snapshot.NumRows())
			}
			fyne.Do(func() {
				if exportErr != nil {
					dialog.ShowError(fmt.Errorf("export failed: %w", exportErr), t.w)
					return
				}
				dialog.ShowInformation("Export Successful",
					fmt.Sprintf("Data exported successfully to:\n%s", filePath), t.w)
			})
		}()
	}, t.w)

	saveDialog.SetFilter(storage.NewExtensionFileFilter(tabular.ExportExtensions()))
	saveDialog.SetFileName(cleanFilename(strings.TrimSuffix(data.Name(), filepath.Ext(data.Name()))) + ".csv")
	saveDialog.Show()
}
