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

// Package block implements the top-level block splitter and the
// block-parallel driver of §4.6: a cheap forward scan partitions the
// input into top-level record blocks by the convention that Paradox
// saves put each top-level key at column zero, an optional filter
// keeps only blocks whose leading key is of interest, and the
// survivors are parsed concurrently and merged in source order.
package block

import (
	"bytes"

	"github.com/clausewitz-go/clausewitz/classify"
)

// Split partitions input into top-level record blocks. A split point is
// a newline immediately followed by an identifier-class run and then
// '=' -- the convention that a new top-level entry begins at column
// zero. The gap between consecutive split points is one block; the
// first block runs from offset 0 to the first split point (if any),
// and the last block runs to EOF. Input with no split points is
// returned as a single block.
//
// This is a heuristic, not a parse: it may over-split (a false-positive
// split inside a quoted string or nested block that happens to look
// like "\nkey="), in which case the affected blocks simply fail to
// parse later and are dropped by Driver.Parse. It must never
// under-split a block whose leading key a caller is filtering for,
// which is why the scan looks only for the narrow "newline, identifier
// run, '='" shape rather than trying to track brace depth.
func Split(input []byte) [][]byte {
	var splits []int
	for i := 0; i < len(input); i++ {
		if input[i] != '\n' {
			continue
		}
		j := i + 1
		run, rest := classify.TakeWhile(input[j:], classify.Identifier)
		if len(run) == 0 || len(rest) == 0 || rest[0] != '=' {
			continue
		}
		splits = append(splits, j)
	}
	if len(splits) == 0 {
		return [][]byte{input}
	}

	blocks := make([][]byte, 0, len(splits)+1)
	prev := 0
	for _, s := range splits {
		blocks = append(blocks, input[prev:s])
		prev = s
	}
	blocks = append(blocks, input[prev:])
	return blocks
}

// hasKeyPrefix reports whether block begins with one of "key=" for some
// key in keys. An empty keys set matches every block (no filtering).
func hasKeyPrefix(blk []byte, keys []string) bool {
	if len(keys) == 0 {
		return true
	}
	for _, k := range keys {
		if bytes.HasPrefix(blk, []byte(k+"=")) {
			return true
		}
	}
	return false
}
