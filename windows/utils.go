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
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// showProgress shows an infinite progress dialog and returns the func that
// hides it. Both may be called from any goroutine.
func showProgress(w fyne.Window, title string) (hide func()) {
	var di dialog.Dialog
	var pbi *widget.ProgressBarInfinite
	fyne.Do(func() {
		pbi = widget.NewProgressBarInfinite()
		di = dialog.NewCustomWithoutButtons(title, pbi, w)
		di.Resize(fyne.NewSize(300, 100))
		di.Show()
	})
	return func() {
		fyne.Do(func() {
			pbi.Stop()
			di.Hide()
		})
	}
}

// cleanFilename removes spaces and special characters from a filename.
func cleanFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "table"
	}
	return b.String()
}

// widthSampleRows is how many rows are measured when sizing a column.
const widthSampleRows = 200

// columnWidth fits a column to its header and the sampled cell texts,
// clamped to [minWidth, maxWidth].
func columnWidth(header string, cells []string, minWidth, maxWidth float32) float32 {
	size := theme.TextSize()
	pad := 4 * theme.Padding()

	// the header also carries the sort arrow
	widest := fyne.MeasureText(header+" ↓", size, fyne.TextStyle{Bold: true}).Width
	for _, c := range cells {
		if line, _, cut := strings.Cut(c, "\n"); cut {
			c = line
		}
		if w := fyne.MeasureText(c, size, fyne.TextStyle{}).Width; w > widest {
			widest = w
		}
	}
	return min(max(widest+pad, minWidth), maxWidth)
}
