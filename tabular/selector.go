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
	"fmt"
	"strconv"
)

// Selector picks one sheet or table out of a multi-table file. The zero
// value selects everything.
type Selector struct {
	index int
	name  string
	set   bool
}

// ParseSelector interprets a command line token. A token made of digits is
// a zero-based index; anything else must match a name exactly. The empty
// token selects everything.
func ParseSelector(token string) Selector {
	if token == "" {
		return Selector{}
	}
	if isDigits(token) {
		if i, err := strconv.Atoi(token); err == nil {
			return Selector{index: i, set: true}
		}
	}
	return Selector{index: -1, name: token, set: true}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// IndexSelector selects the i-th table.
func IndexSelector(i int) Selector {
	return Selector{index: i, set: true}
}

// NameSelector selects the table called name.
func NameSelector(name string) Selector {
	return Selector{index: -1, name: name, set: true}
}

// IsZero reports whether the selector selects everything.
func (s Selector) IsZero() bool {
	return !s.set
}

func (s Selector) String() string {
	switch {
	case !s.set:
		return "all"
	case s.index >= 0:
		return fmt.Sprintf("#%d", s.index)
	default:
		return strconv.Quote(s.name)
	}
}

// pick returns the positions in names the selector chooses.
func (s Selector) pick(names []string) ([]int, error) {
	if !s.set {
		all := make([]int, len(names))
		for i := range names {
			all[i] = i
		}
		return all, nil
	}

	if s.index >= 0 {
		if s.index >= len(names) {
			return nil, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, s.index, len(names))
		}
		return []int{s.index}, nil
	}

	for i, name := range names {
		if name == s.name {
			return []int{i}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrTableNotFound, s.name)
}
