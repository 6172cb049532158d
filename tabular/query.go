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
	"strings"
)

// CompOp is a comparison in a filter term.
type CompOp int

const (
	OpEqual CompOp = iota
	OpNotEqual
	OpGreater
	OpLess
	OpGreaterEqual
	OpLessEqual
	OpContains
)

// operators is ordered so two-character symbols win over their prefixes.
var operators = []struct {
	op     CompOp
	symbol string
}{
	{OpGreaterEqual, ">="},
	{OpLessEqual, "<="},
	{OpNotEqual, "!="},
	{OpEqual, "="},
	{OpGreater, ">"},
	{OpLess, "<"},
	{OpContains, "~"},
}

// LogicOp joins two terms.
type LogicOp int

const (
	LogicAND LogicOp = iota
	LogicOR
)

// Term is one comparison. A Term with Column -1 searches every column for
// Value.
type Term struct {
	Column int
	Op     CompOp
	Value  string
}

// Query is a parsed filter expression: terms joined by AND/OR and
// evaluated left to right.
type Query struct {
	Terms []Term
	Ops   []LogicOp
}

// ParseQuery parses a filter expression such as
//
//	city = Oslo AND population > 100000 OR capital
//
// against the given column names (matched case-insensitively). An empty
// expression yields a nil Query, which matches every row.
func ParseQuery(expr string, columns []string) (*Query, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}

	index := make(map[string]int, len(columns))
	for i, name := range columns {
		key := strings.ToLower(name)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	q := &Query{}
	for _, part := range splitLogic(expr) {
		if part.isOperator {
			if part.text == "AND" {
				q.Ops = append(q.Ops, LogicAND)
			} else {
				q.Ops = append(q.Ops, LogicOR)
			}
			continue
		}
		term, err := parseTerm(part.text, index)
		if err != nil {
			return nil, err
		}
		q.Terms = append(q.Terms, term)
	}

	if len(q.Terms) == 0 || len(q.Ops) != len(q.Terms)-1 {
		return nil, fmt.Errorf("invalid filter %q: mismatched terms and operators", expr)
	}
	return q, nil
}

type queryPart struct {
	text       string
	isOperator bool
}

// splitLogic splits on the words AND and OR (any case) at word boundaries.
func splitLogic(expr string) []queryPart {
	var parts []queryPart
	var current strings.Builder
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			parts = append(parts, queryPart{text: s})
		}
		current.Reset()
	}

	for i := 0; i < len(expr); {
		matched := false
		for _, word := range []string{"AND", "OR"} {
			end := i + len(word)
			if end > len(expr) || !strings.EqualFold(expr[i:end], word) {
				continue
			}
			if (i == 0 || isSpace(expr[i-1])) && (end == len(expr) || isSpace(expr[end])) {
				flush()
				parts = append(parts, queryPart{text: word, isOperator: true})
				i = end
				matched = true
				break
			}
		}
		if !matched {
			current.WriteByte(expr[i])
			i++
		}
	}
	flush()
	return parts
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// parseTerm parses "column op value". The leftmost operator wins; text
// without an operator is a search across all columns.
func parseTerm(text string, index map[string]int) (Term, error) {
	at, op, size := -1, OpContains, 0
	for _, o := range operators {
		i := strings.Index(text, o.symbol)
		if i > 0 && (at < 0 || i < at || (i == at && len(o.symbol) > size)) {
			at, op, size = i, o.op, len(o.symbol)
		}
	}
	if at < 0 {
		return Term{Column: -1, Op: OpContains, Value: text}, nil
	}

	name := strings.TrimSpace(text[:at])
	col, ok := index[strings.ToLower(name)]
	if !ok {
		return Term{}, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	value := strings.Trim(strings.TrimSpace(text[at+size:]), `"'`)
	return Term{Column: col, Op: op, Value: value}, nil
}

// Match evaluates the query against one row; cell returns the text of a
// column.
func (q *Query) Match(cell func(col int) string, numCols int) bool {
	if q == nil || len(q.Terms) == 0 {
		return true
	}

	result := q.Terms[0].match(cell, numCols)
	for i, op := range q.Ops {
		next := q.Terms[i+1].match(cell, numCols)
		if op == LogicAND {
			result = result && next
		} else {
			result = result || next
		}
	}
	return result
}

func (t Term) match(cell func(col int) string, numCols int) bool {
	if t.Column < 0 {
		needle := strings.ToLower(t.Value)
		for c := 0; c < numCols; c++ {
			if strings.Contains(strings.ToLower(cell(c)), needle) {
				return true
			}
		}
		return false
	}
	if t.Column >= numCols {
		return false
	}

	value := cell(t.Column)
	switch t.Op {
	case OpEqual:
		return strings.EqualFold(value, t.Value)
	case OpNotEqual:
		return !strings.EqualFold(value, t.Value)
	case OpContains:
		return strings.Contains(strings.ToLower(value), strings.ToLower(t.Value))
	default:
		return holds(compareCells(value, t.Value), t.Op)
	}
}

func holds(cmp int, op CompOp) bool {
	switch op {
	case OpGreater:
		return cmp > 0
	case OpLess:
		return cmp < 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpLessEqual:
		return cmp <= 0
	}
	return false
}

// compareCells compares numerically when both sides parse as numbers and
// case-insensitively as text otherwise.
func compareCells(a, b string) int {
	x, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	y, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
