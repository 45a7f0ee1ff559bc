// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clausewitz-go/clausewitz/ast"
	"github.com/clausewitz-go/clausewitz/parser"
)

// S1: empty_set={} -> Dict [ ("empty_set", Set []) ].
func TestParseEmptySet(t *testing.T) {
	t.Parallel()
	v, err := parser.ParseDocument([]byte(`empty_set={}`))
	require.NoError(t, err)

	entries, ok := v.AsDict()
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "empty_set", string(entries[0].Key))

	elements, ok := entries[0].Value.AsSet()
	require.True(t, ok)
	assert.Len(t, elements, 0)
}

// S2: set_of_numbers={\n 40 41\n} -> one entry whose value is Set
// [ Integer 40, Integer 41 ].
func TestParseSetOfNumbers(t *testing.T) {
	t.Parallel()
	v, err := parser.ParseDocument([]byte("set_of_numbers={\n    40 41\n}"))
	require.NoError(t, err)

	entries, ok := v.AsDict()
	require.True(t, ok)
	require.Len(t, entries, 1)

	elements, ok := entries[0].Value.AsSet()
	require.True(t, ok)
	require.Len(t, elements, 2)

	n0, ok := elements[0].AsInteger()
	require.True(t, ok)
	assert.Equal(t, int64(40), n0)

	n1, ok := elements[1].AsInteger()
	require.True(t, ok)
	assert.Equal(t, int64(41), n1)
}

// S3: modules={ 0=shipyard 1=trading_hub } -> Array [Identifier
// "shipyard", Identifier "trading_hub"], regardless of tab vs space
// whitespace, and regardless of entry order in source.
func TestParseArrayOrdersByIndexNotAppearance(t *testing.T) {
	t.Parallel()
	v, err := parser.ParseDocument([]byte("modules={\t1=trading_hub 0=shipyard }"))
	require.NoError(t, err)

	entries, ok := v.AsDict()
	require.True(t, ok)
	require.Len(t, entries, 1)

	elements, ok := entries[0].Value.AsArray()
	require.True(t, ok)
	require.Len(t, elements, 2)

	first, ok := elements[0].AsIdentifier()
	require.True(t, ok)
	assert.Equal(t, "shipyard", first)

	second, ok := elements[1].AsIdentifier()
	require.True(t, ok)
	assert.Equal(t, "trading_hub", second)
}

// S4: "The name Of A Ship"=0 parses to key = The name Of A Ship
// (quotes stripped), value = Integer 0.
func TestParseQuotedKey(t *testing.T) {
	t.Parallel()
	v, err := parser.ParseDocument([]byte(`"The name Of A Ship"=0`))
	require.NoError(t, err)

	entries, ok := v.AsDict()
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "The name Of A Ship", string(entries[0].Key))

	n, ok := entries[0].Value.AsInteger()
	require.True(t, ok)
	assert.Equal(t, int64(0), n)
}

// S5: date="2200.05.01" -> Date(2200, 5, 1); date="0.05.01" also
// accepted (year 0 is valid).
func TestParseQuotedDate(t *testing.T) {
	t.Parallel()

	v, err := parser.ParseDocument([]byte(`date="2200.05.01"`))
	require.NoError(t, err)
	entries, _ := v.AsDict()
	require.Len(t, entries, 1)
	d, ok := entries[0].Value.AsDate()
	require.True(t, ok)
	assert.Equal(t, ast.Date{Year: 2200, Month: 5, Day: 1}, d)

	v, err = parser.ParseDocument([]byte(`date="0.05.01"`))
	require.NoError(t, err)
	entries, _ = v.AsDict()
	d, ok = entries[0].Value.AsDate()
	require.True(t, ok)
	assert.Equal(t, int64(0), d.Year)
}

// A quoted value that is not a well-formed date stays a plain string.
func TestParseQuotedNonDateStaysString(t *testing.T) {
	t.Parallel()
	v, err := parser.ParseDocument([]byte(`name="USS Constitution"`))
	require.NoError(t, err)
	entries, _ := v.AsDict()
	s, ok := entries[0].Value.AsString()
	require.True(t, ok)
	assert.Equal(t, "USS Constitution", s)
}

// S6: intel={ { 14 { intel=0 stale_intel={} } } } -> Set
// [ NumberedDict(14, Dict [("intel", Integer 0), ("stale_intel", Set
// [])]) ].
func TestParseNumberedDictInsideBlocksSet(t *testing.T) {
	t.Parallel()
	v, err := parser.ParseDocument([]byte(`intel={ { 14 { intel=0 stale_intel={} } } }`))
	require.NoError(t, err)

	entries, ok := v.AsDict()
	require.True(t, ok)
	require.Len(t, entries, 1)

	outer, ok := entries[0].Value.AsSet()
	require.True(t, ok)
	require.Len(t, outer, 1)

	require.Equal(t, ast.KindNumberedDict, outer[0].Kind)
	assert.Equal(t, int64(14), outer[0].Tag)

	ndEntries, ok := outer[0].AsDict()
	require.True(t, ok)
	require.Len(t, ndEntries, 2)
	assert.Equal(t, "intel", string(ndEntries[0].Key))
	n, ok := ndEntries[0].Value.AsInteger()
	require.True(t, ok)
	assert.Equal(t, int64(0), n)

	assert.Equal(t, "stale_intel", string(ndEntries[1].Key))
	set, ok := ndEntries[1].Value.AsSet()
	require.True(t, ok)
	assert.Len(t, set, 0)
}

// S7: flags={ 3_year_owner_change_flag={ flag_date=63568248
// flag_days=293 } } exercises keys starting with a digit.
func TestParseDigitLeadingKey(t *testing.T) {
	t.Parallel()
	v, err := parser.ParseDocument([]byte(`flags={ 3_year_owner_change_flag={ flag_date=63568248 flag_days=293 } }`))
	require.NoError(t, err)

	entries, _ := v.AsDict()
	require.Len(t, entries, 1)

	inner, ok := entries[0].Value.AsDict()
	require.True(t, ok)
	require.Len(t, inner, 1)
	assert.Equal(t, "3_year_owner_change_flag", string(inner[0].Key))

	flagEntries, ok := inner[0].Value.AsDict()
	require.True(t, ok)
	require.Len(t, flagEntries, 2)
	assert.Equal(t, "flag_date", string(flagEntries[0].Key))
	assert.Equal(t, "flag_days", string(flagEntries[1].Key))
}

func TestParseEmptyDocumentYieldsEmptyDict(t *testing.T) {
	t.Parallel()
	v, err := parser.ParseDocument([]byte("   \n\t  "))
	require.NoError(t, err)
	entries, ok := v.AsDict()
	require.True(t, ok)
	assert.Len(t, entries, 0)
}

func TestParseDecimalValue(t *testing.T) {
	t.Parallel()
	v, err := parser.ParseDocument([]byte(`latitude=-3.50`))
	require.NoError(t, err)
	entries, _ := v.AsDict()
	f, ok := entries[0].Value.AsNumber()
	require.True(t, ok)
	assert.InDelta(t, -3.5, f, 0.0001)
}

func TestParseMismatchedBracesIsFatal(t *testing.T) {
	t.Parallel()
	_, err := parser.ParseDocument([]byte(`modules={ 0=shipyard`))
	assert.Error(t, err)
}

func TestParseMissingEqualsAfterKeyIsFatal(t *testing.T) {
	t.Parallel()
	_, err := parser.ParseDocument([]byte(`name "no equals sign"`))
	assert.Error(t, err)
}

func TestParseDocumentRejectsTrailingGarbage(t *testing.T) {
	t.Parallel()
	_, _, err := parser.Parse([]byte(`a=1`))
	require.NoError(t, err)

	_, err = parser.ParseDocument([]byte("a=1 }"))
	assert.Error(t, err)
}

// A quoted key may contain a token-class byte ('=', '{', or '}'); it
// must not be mistaken for the block's own shape-deciding token.
func TestParseQuotedKeyContainingTokenBytes(t *testing.T) {
	t.Parallel()
	v, err := parser.ParseDocument([]byte(`outer={"a{b"=1}`))
	require.NoError(t, err)

	entries, _ := v.AsDict()
	require.Len(t, entries, 1)
	inner, ok := entries[0].Value.AsDict()
	require.True(t, ok)
	require.Len(t, inner, 1)
	assert.Equal(t, "a{b", string(inner[0].Key))
	n, ok := inner[0].Value.AsInteger()
	require.True(t, ok)
	assert.Equal(t, int64(1), n)
}

func TestParseNestedDictOfDicts(t *testing.T) {
	t.Parallel()
	v, err := parser.ParseDocument([]byte(`owner={ id=5 rank="captain" }`))
	require.NoError(t, err)
	entries, _ := v.AsDict()
	require.Len(t, entries, 1)
	inner, ok := entries[0].Value.AsDict()
	require.True(t, ok)
	require.Len(t, inner, 2)
	assert.Equal(t, "id", string(inner[0].Key))
	assert.Equal(t, "rank", string(inner[1].Key))
}
