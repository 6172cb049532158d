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

// Package source decides where the data to display comes from: a file
// named on the command line, bytes piped into standard input, or a file the
// user picks interactively.
package source

// Kind tags the variant held by a Source.
type Kind int

const (
	// None means no input was found; the program exits cleanly.
	None Kind = iota
	// Piped means CSV text arrived on standard input.
	Piped
	// File means a path was given or picked.
	File
)

func (k Kind) String() string {
	switch k {
	case Piped:
		return "stdin"
	case File:
		return "file"
	default:
		return "none"
	}
}

// Source is the resolved input.
type Source struct {
	Kind Kind

	// Data holds everything read from standard input for Piped sources.
	Data []byte
	// Name is an optional display name for Piped sources. It never
	// influences how the data is parsed.
	Name string

	// Path is the absolute file path for File sources.
	Path string
	// Selector is the optional sheet or table token for File sources.
	Selector string
}

// Title returns the name shown for the source in window titles and logs.
func (s Source) Title() string {
	switch s.Kind {
	case Piped:
		if s.Name != "" {
			return s.Name
		}
		return "(from stdin)"
	case File:
		return s.Path
	default:
		return ""
	}
}
