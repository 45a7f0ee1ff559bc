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

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/clausewitz-go/clausewitz/ast"
	"github.com/clausewitz-go/clausewitz/parser"
)

// treeEqual compares two parsed trees structurally, per §8's round-trip
// law ("scalars compared by value, spans compared by borrowed
// content"): Span is ignored since the two inputs being compared here
// differ only in incidental whitespace/formatting, so their byte
// offsets never agree even when every value they carry does.
func treeEqual(t *testing.T, got, want ast.Value) {
	t.Helper()
	diff := cmp.Diff(want, got, cmpopts.IgnoreFields(ast.Value{}, "Span"))
	require.Empty(t, diff)
}

// Two inputs that are semantically identical but differ in whitespace
// style (tabs vs. spaces, extra blank lines, entry order inside a
// Dict where §8 invariant 3 requires order to be preserved so it is
// NOT varied here) must parse to the same tree once Span is ignored.
func TestRoundTripWhitespaceInvariance(t *testing.T) {
	t.Parallel()

	tight := []byte(`fleet={name="Indestructible" modules={0=shipyard 1=trading_hub} intel={{14 {intel=0 stale_intel={}}}}}`)
	spread := []byte("fleet={\n\tname=\"Indestructible\"\n\tmodules={\n\t\t0=shipyard\n\t\t1=trading_hub\n\t}\n\tintel={\n\t\t{\n\t\t\t14 {\n\t\t\t\tintel=0\n\t\t\t\tstale_intel={}\n\t\t\t}\n\t\t}\n\t}\n}")

	a, err := parser.ParseDocument(tight)
	require.NoError(t, err)
	b, err := parser.ParseDocument(spread)
	require.NoError(t, err)

	treeEqual(t, a, b)
}

// §8 invariant 2: an Array is sorted by the original index regardless
// of the order entries appeared in the source.
func TestRoundTripArrayOrderIndependentOfSourceOrder(t *testing.T) {
	t.Parallel()

	ascending := []byte(`modules={0=shipyard 1=trading_hub 2=drydock}`)
	descending := []byte(`modules={2=drydock 1=trading_hub 0=shipyard}`)

	a, err := parser.ParseDocument(ascending)
	require.NoError(t, err)
	b, err := parser.ParseDocument(descending)
	require.NoError(t, err)

	treeEqual(t, a, b)
}
