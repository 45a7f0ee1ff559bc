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

// Package classify implements the byte classifier: a small family of
// take_while/take_until primitives over five character classes, each
// expressed as an inclusive-byte-range descriptor so that the scan can
// be accelerated with a vectorized range comparison once the
// remaining input reaches the reference vector width.
package classify

// vectorWidth is the reference vector width from §4.1/§9: inputs of
// at least this many remaining bytes are eligible for the batched
// comparison path. Matches simd.rs's CHUNK_SIZE.
const vectorWidth = 16

// maxRanges is the most inclusive ranges a class descriptor may pack,
// matching simd.rs's 16-byte (8 lo/hi pairs) layout.
const maxRanges = 8

// byteRange is one inclusive [Lo, Hi] byte range.
type byteRange struct {
	Lo, Hi byte
}

func (r byteRange) contains(b byte) bool {
	return b >= r.Lo && b <= r.Hi
}

// Class is a packed descriptor of up to eight inclusive byte ranges.
// The zero Class matches nothing.
type Class struct {
	ranges [maxRanges]byteRange
	n      int
}

// newClass builds a Class from up to maxRanges inclusive (lo, hi)
// pairs. Panics if more than maxRanges pairs are given; this is only
// called with the package's own constant table below.
func newClass(pairs ...[2]byte) Class {
	if len(pairs) > maxRanges {
		panic("classify: too many ranges for a class descriptor")
	}
	var c Class
	for _, p := range pairs {
		c.ranges[c.n] = byteRange{Lo: p[0], Hi: p[1]}
		c.n++
	}
	return c
}

// Test reports whether b is a member of the class.
func (c Class) Test(b byte) bool {
	for i := 0; i < c.n; i++ {
		if c.ranges[i].contains(b) {
			return true
		}
	}
	return false
}

// The five classes named in §4.1.
var (
	// Space: 0x09-0x0D, 0x20, and any byte <= 0x20 except NUL, plus
	// 0xFF treated as a delimiter.
	Space = newClass([2]byte{0x01, 0x20}, [2]byte{0xFF, 0xFF})

	// Token: '=', '{', '}'.
	Token = newClass([2]byte{'=', '='}, [2]byte{'{', '{'}, [2]byte{'}', '}'})

	// Identifier: printable, non-space, non-token, not '"'. '.' is a
	// member (identifiers may contain dots).
	Identifier = newClass(
		[2]byte{0x21, 0x21}, // !
		[2]byte{0x23, 0x3C}, // # .. <
		[2]byte{0x3E, 0x7A}, // > .. z
		[2]byte{0x7C, 0x7C}, // |
		[2]byte{0x7E, 0x7E}, // ~
	)

	// StringBody: any byte that is not '"'.
	StringBody = newClass([2]byte{0x00, 0x21}, [2]byte{0x23, 0xFF})

	// Digit: '0'-'9'.
	Digit = newClass([2]byte{'0', '9'})
)

// TakeWhile returns the longest leading run of input whose bytes all
// satisfy class, and the remainder. It never fails: on empty input,
// or when the first byte does not satisfy class, it returns a
// zero-length run and the whole input as remainder.
func TakeWhile(input []byte, class Class) (run, rest []byte) {
	n := scan(input, class, true)
	return input[:n], input[n:]
}

// TakeUntil returns the longest leading run of input whose bytes all
// fail to satisfy class (i.e. TakeWhile of the complement), and the
// remainder. Same zero-length-on-no-match contract as TakeWhile.
func TakeUntil(input []byte, class Class) (run, rest []byte) {
	n := scan(input, class, false)
	return input[:n], input[n:]
}

// ReqSpace is like TakeWhile(input, Space) but fails (returns ok=false)
// if zero bytes were consumed, per §4.1's "req_space" exception to the
// empty-input contract.
func ReqSpace(input []byte) (run, rest []byte, ok bool) {
	run, rest = TakeWhile(input, Space)
	return run, rest, len(run) > 0
}

// scan finds the length of the leading run of input where class.Test
// equals want for every byte, dispatching to the batched "vector"
// comparison once at least vectorWidth bytes remain and falling back
// to a scalar loop for anything shorter or for the tail. The two
// paths are required to agree byte-for-byte; batch never short-
// circuits at the chunk boundary unless the whole chunk matches.
func scan(input []byte, class Class, want bool) int {
	i := 0
	for len(input)-i >= vectorWidth {
		advance, matchedWholeChunk := matchChunk(input[i:i+vectorWidth], class, want)
		i += advance
		if !matchedWholeChunk {
			return i
		}
	}
	for i < len(input) && class.Test(input[i]) == want {
		i++
	}
	return i
}

// matchChunk is the portable stand-in for the vectorized range
// comparison instruction: a fixed-width (vectorWidth-byte) loop that
// the compiler can unroll and that touches no more memory per
// iteration than a real SIMD compare would. It returns how many
// leading bytes of the chunk matched and whether the whole chunk
// matched (in which case the caller should keep scanning).
func matchChunk(chunk []byte, class Class, want bool) (advance int, matchedWhole bool) {
	for i, b := range chunk {
		if class.Test(b) != want {
			return i, false
		}
	}
	return len(chunk), true
}
