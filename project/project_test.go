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

package project_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clausewitz-go/clausewitz/project"
)

func TestProjectNestedDictPath(t *testing.T) {
	t.Parallel()
	input := []byte(`country={ budget={ income=100 } }`)

	spans, err := project.Project(input, "country.budget.income")
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "100", string(input[spans[0].Start:spans[0].End]))
}

func TestProjectArrayIndexPath(t *testing.T) {
	t.Parallel()
	input := []byte(`modules={ 0=shipyard 1=trading_hub }`)

	spans, err := project.Project(input, "modules.1")
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "trading_hub", string(input[spans[0].Start:spans[0].End]))
}

func TestProjectAbsentPathReturnsEmptyNotError(t *testing.T) {
	t.Parallel()
	input := []byte(`modules={ 0=shipyard 1=trading_hub }`)

	spans, err := project.Project(input, "modules.5")
	require.NoError(t, err)
	assert.Len(t, spans, 0)

	spans, err = project.Project(input, "nonexistent.key")
	require.NoError(t, err)
	assert.Len(t, spans, 0)
}

// A Set's elements have no keys or indices, so a path cannot descend
// into one; this is a silent non-match, not an error.
func TestProjectCannotDescendIntoSet(t *testing.T) {
	t.Parallel()
	input := []byte(`tags={ "a" "b" }`)

	spans, err := project.Project(input, "tags.0")
	require.NoError(t, err)
	assert.Len(t, spans, 0)
}

// Sibling entries at the same level must all still be considered: the
// cursor retreats after a match attempt so later siblings can match
// too (§4.5).
func TestProjectMatchesAcrossSiblings(t *testing.T) {
	t.Parallel()
	input := []byte(`fleet={ id=1 } other_fleet={ id=2 } fleet={ id=3 }`)

	spans, err := project.Project(input, "fleet.id")
	require.NoError(t, err)
	require.Len(t, spans, 2)
	assert.Equal(t, "1", string(input[spans[0].Start:spans[0].End]))
	assert.Equal(t, "3", string(input[spans[1].Start:spans[1].End]))
}

func TestProjectNumberedDictPath(t *testing.T) {
	t.Parallel()
	input := []byte(`intel={ 14 { value="x" } }`)

	spans, err := project.Project(input, "intel.value")
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, `"x"`, string(input[spans[0].Start:spans[0].End]))
}

func TestProjectRejectsEmptyPath(t *testing.T) {
	t.Parallel()
	_, err := project.Project([]byte(`a=1`), "")
	assert.Error(t, err)
}

func TestProjectRejectsPathDeeperThanMaxDepth(t *testing.T) {
	t.Parallel()
	deep := strings.Repeat("a.", project.MaxDepth+1) + "z"
	_, err := project.Project([]byte(`a=1`), deep)
	assert.Error(t, err)
}

func TestConfigCustomMaxDepthIsEnforced(t *testing.T) {
	t.Parallel()
	cfg := project.Config{MaxDepth: 2}

	_, err := cfg.Project([]byte(`a={ b={ c=1 } }`), "a.b.c")
	assert.Error(t, err)

	spans, err := cfg.Project([]byte(`a={ b=1 }`), "a.b")
	require.NoError(t, err)
	require.Len(t, spans, 1)
}

func TestProjectEmitsWholeValueSpanWhenCursorMatchesContainer(t *testing.T) {
	t.Parallel()
	input := []byte(`budget={ income=100 expense=50 }`)

	spans, err := project.Project(input, "budget")
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, `{ income=100 expense=50 }`, string(input[spans[0].Start:spans[0].End]))
}
