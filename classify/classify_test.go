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

package classify_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clausewitz-go/clausewitz/classify"
)

func TestTakeWhileEmptyInputReturnsZeroLengthRun(t *testing.T) {
	t.Parallel()
	run, rest := classify.TakeWhile(nil, classify.Space)
	assert.Len(t, run, 0)
	assert.Len(t, rest, 0)
}

func TestTakeWhileIdentifier(t *testing.T) {
	t.Parallel()
	run, rest := classify.TakeWhile([]byte("foo_bar=1"), classify.Identifier)
	assert.Equal(t, "foo_bar", string(run))
	assert.Equal(t, "=1", string(rest))
}

func TestTakeUntilToken(t *testing.T) {
	t.Parallel()
	run, rest := classify.TakeUntil([]byte("3_year_owner_change_flag={"), classify.Token)
	assert.Equal(t, "3_year_owner_change_flag", string(run))
	assert.Equal(t, "={", string(rest))
}

func TestReqSpaceFailsOnZeroBytes(t *testing.T) {
	t.Parallel()
	_, _, ok := classify.ReqSpace([]byte("abc"))
	assert.False(t, ok)

	run, rest, ok := classify.ReqSpace([]byte("  abc"))
	require.True(t, ok)
	assert.Equal(t, "  ", string(run))
	assert.Equal(t, "abc", string(rest))
}

func TestDigitClass(t *testing.T) {
	t.Parallel()
	run, rest := classify.TakeWhile([]byte("12345.6"), classify.Digit)
	assert.Equal(t, "12345", string(run))
	assert.Equal(t, ".6", string(rest))
}

// TestVectorAndScalarPathsAgree exercises inputs that straddle the
// vector-width threshold (16 bytes) both above and below it, so the
// batched chunk path and the scalar tail path are both exercised and
// must produce identical results (§4.1's acceleration contract).
func TestVectorAndScalarPathsAgree(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 15, 16, 17, 31, 32, 33, 100} {
		n := n
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			t.Parallel()
			input := []byte(strings.Repeat("x", n) + "=rest")
			run, rest := classify.TakeWhile(input, classify.Identifier)
			assert.Equal(t, n, len(run), "n=%d", n)
			assert.Equal(t, "=rest", string(rest), "n=%d", n)
		})
	}
}

func TestStringBodyExcludesOnlyQuote(t *testing.T) {
	t.Parallel()
	run, rest := classify.TakeWhile([]byte("The name Of A Ship\"rest"), classify.StringBody)
	assert.Equal(t, "The name Of A Ship", string(run))
	assert.Equal(t, "\"rest", string(rest))
}
