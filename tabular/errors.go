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

import "errors"

// Errors returned by the loaders. Callers match them with errors.Is; the
// concrete error usually wraps one of these with the file or table name.
var (
	// ErrUnsupportedFormat is returned for a file extension no loader handles.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrMalformed is returned when a file cannot be parsed.
	ErrMalformed = errors.New("malformed file content")

	// ErrFileNotFound is returned when the path does not name a regular file.
	ErrFileNotFound = errors.New("file not found")

	// ErrTableNotFound is returned when a name selector matches no sheet or table.
	ErrTableNotFound = errors.New("sheet or table not found")

	// ErrIndexOutOfRange is returned when an index selector is past the last sheet or table.
	ErrIndexOutOfRange = errors.New("sheet or table index out of range")

	// ErrUnknownColumn is returned by the view for a filter on a column that does not exist.
	ErrUnknownColumn = errors.New("unknown column")
)
