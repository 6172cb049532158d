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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var queryColumns = []string{"City", "Country", "Population"}

func matchRow(t *testing.T, expr string, row []string) bool {
	t.Helper()
	q, err := ParseQuery(expr, queryColumns)
	require.NoError(t, err)
	return q.Match(func(c int) string { return row[c] }, len(row))
}

func TestParseQueryEmpty(t *testing.T) {
	q, err := ParseQuery("   ", queryColumns)
	require.NoError(t, err)
	assert.Nil(t, q)
	assert.True(t, q.Match(func(int) string { return "" }, 0))
}

func TestParseQueryTerms(t *testing.T) {
	q, err := ParseQuery(`country = "Norway" and population >= 100000 OR oslo`, queryColumns)
	require.NoError(t, err)
	assert.Equal(t, []Term{
		{Column: 1, Op: OpEqual, Value: "Norway"},
		{Column: 2, Op: OpGreaterEqual, Value: "100000"},
		{Column: -1, Op: OpContains, Value: "oslo"},
	}, q.Terms)
	assert.Equal(t, []LogicOp{LogicAND, LogicOR}, q.Ops)
}

func TestParseQueryLeftmostOperatorWins(t *testing.T) {
	q, err := ParseQuery("city ~ a=b", queryColumns)
	require.NoError(t, err)
	assert.Equal(t, []Term{{Column: 0, Op: OpContains, Value: "a=b"}}, q.Terms)
}

func TestParseQueryErrors(t *testing.T) {
	_, err := ParseQuery("mayor = x", queryColumns)
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = ParseQuery("city = x AND", queryColumns)
	assert.Error(t, err)

	_, err = ParseQuery("OR", queryColumns)
	assert.Error(t, err)
}

func TestQueryMatch(t *testing.T) {
	oslo := []string{"Oslo", "Norway", "709000"}
	bergen := []string{"Bergen", "Norway", "286000"}

	assert.True(t, matchRow(t, "country = norway", oslo))
	assert.False(t, matchRow(t, "country != norway", oslo))
	assert.True(t, matchRow(t, "population > 300000", oslo))
	assert.False(t, matchRow(t, "population > 300000", bergen))
	assert.True(t, matchRow(t, "population <= 286000", bergen))
	assert.True(t, matchRow(t, "city < Oslo", bergen), "text compares case-insensitively")
	assert.True(t, matchRow(t, "city ~ erg", bergen))
	assert.True(t, matchRow(t, "NORWAY", bergen))
	assert.False(t, matchRow(t, "sweden", bergen))
	assert.True(t, matchRow(t, "city = bergen OR city = oslo", oslo))
	assert.False(t, matchRow(t, "city = bergen AND population > 1", oslo))
	assert.True(t, matchRow(t, "candor", []string{"Candor", "", ""}), "OR inside a word is not an operator")
}
