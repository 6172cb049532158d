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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// loadJSON loads an array of objects, or a single object, as one table.
// Columns are the union of the object keys in sorted order.
func (l *Loader) loadJSON(filePath string) (TableSet, error) {
	// Read the file
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}

	// Try to parse as array of objects
	var data []map[string]any
	if err := json.Unmarshal(content, &data); err != nil {
		var single map[string]any
		if err := json.Unmarshal(content, &single); err != nil {
			return nil, fmt.Errorf("%w: failed to parse JSON: %v", ErrMalformed, err)
		}
		data = []map[string]any{single}
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: JSON file is empty or has no records", ErrMalformed)
	}

	// Collect column names from every record
	seen := make(map[string]bool)
	var names []string
	for _, record := range data {
		for k := range record {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	sort.Strings(names)

	// Transpose records into columns
	columns := make([][]any, len(names))
	for c, name := range names {
		columns[c] = make([]any, len(data))
		for r, record := range data {
			columns[c][r] = record[name]
		}
	}

	tbl, err := newValueTable(l.mem, names, columns)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return TableSet{{Name: filepath.Base(filePath), Data: tbl}}, nil
}
