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

package block_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clausewitz-go/clausewitz/block"
)

func TestDriverParseFiltersByTopLevelKey(t *testing.T) {
	t.Parallel()
	input := []byte("version=1\nplayer=\"alice\"\ncountry={\n    budget=100\n}")

	d := &block.Driver{}
	result, err := d.Parse(context.Background(), input, []string{"version", "country"})
	require.NoError(t, err)

	entries, ok := result.AsDict()
	require.True(t, ok)
	require.Len(t, entries, 2)
	assert.Equal(t, "version", string(entries[0].Key))
	assert.Equal(t, "country", string(entries[1].Key))
}

func TestDriverParseEmptyKeysKeepsEverything(t *testing.T) {
	t.Parallel()
	input := []byte("version=1\nplayer=\"alice\"")

	d := &block.Driver{}
	result, err := d.Parse(context.Background(), input, nil)
	require.NoError(t, err)

	entries, ok := result.AsDict()
	require.True(t, ok)
	require.Len(t, entries, 2)
}

func TestDriverParseDropsUnparseableBlocksSilently(t *testing.T) {
	t.Parallel()
	// "broken" never closes its brace; the driver must drop that block
	// and still return "version" as a success.
	input := []byte("version=1\nbroken={\n    budget=100")

	d := &block.Driver{}
	result, err := d.Parse(context.Background(), input, []string{"version", "broken"})
	require.NoError(t, err)

	entries, ok := result.AsDict()
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "version", string(entries[0].Key))
}

func TestDriverParseNoMatchingKeysReturnsEmptyDict(t *testing.T) {
	t.Parallel()
	input := []byte("version=1\nplayer=\"alice\"")

	d := &block.Driver{}
	result, err := d.Parse(context.Background(), input, []string{"nonexistent"})
	require.NoError(t, err)

	entries, ok := result.AsDict()
	require.True(t, ok)
	assert.Len(t, entries, 0)
}
