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
	"path/filepath"
	"strings"
)

// Format identifies a loader.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatTSV
	FormatXLSX
	FormatXLS
	FormatODS
	FormatSQLite
	FormatParquet
	FormatJSON
)

var formatNames = map[Format]string{
	FormatUnknown: "unknown",
	FormatCSV:     "CSV",
	FormatTSV:     "TSV",
	FormatXLSX:    "XLSX",
	FormatXLS:     "XLS",
	FormatODS:     "ODS",
	FormatSQLite:  "SQLite",
	FormatParquet: "Parquet",
	FormatJSON:    "JSON",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return formatNames[FormatUnknown]
}

// MultiTable reports whether a file of this format can hold several
// sheets or tables, and therefore honours a selector.
func (f Format) MultiTable() bool {
	switch f {
	case FormatXLSX, FormatXLS, FormatODS, FormatSQLite:
		return true
	default:
		return false
	}
}

var extensions = map[string]Format{
	".csv":     FormatCSV,
	".tsv":     FormatTSV,
	".xlsx":    FormatXLSX,
	".xlsm":    FormatXLSX,
	".xls":     FormatXLS,
	".ods":     FormatODS,
	".sqlite3": FormatSQLite,
	".sqlite":  FormatSQLite,
	".db":      FormatSQLite,
	".parquet": FormatParquet,
	".json":    FormatJSON,
}

// DetectFormat determines the format of a file from its extension,
// ignoring case.
func DetectFormat(filePath string) Format {
	return extensions[strings.ToLower(filepath.Ext(filePath))]
}

// SupportedExtensions lists every extension a loader exists for, in the
// order the file picker shows them.
func SupportedExtensions() []string {
	return []string{".csv", ".tsv", ".xlsx", ".xlsm", ".xls", ".ods", ".sqlite3", ".sqlite", ".db", ".parquet", ".json"}
}
