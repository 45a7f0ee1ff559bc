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

// Package project implements the projection engine of §4.5: a
// path-cursor-carrying walk of the same grammar as package parser,
// using grammar.Disambiguate for the same block-shape decisions, but
// one that only ever materializes the source span of a value once the
// path cursor is fully consumed. Values along a path that don't match
// are still walked structurally (to advance correctly past them) but
// their substructure is discarded rather than built into an ast.Value.
package project

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/clausewitz-go/clausewitz/ast"
	"github.com/clausewitz-go/clausewitz/classify"
	"github.com/clausewitz-go/clausewitz/grammar"
	"github.com/clausewitz-go/clausewitz/reporter"
	"github.com/clausewitz-go/clausewitz/scalar"
)

// MaxDepth is the path-depth bound of §4.5/§9 (reference
// implementation: 10 components). Paths with more components are
// rejected with a ConfigError rather than walked. This is the default
// Config.MaxDepth.
const MaxDepth = 10

// Config carries the projection engine's caller-tunable settings.
// The zero Config (MaxDepth == 0) behaves as MaxDepth: 10, matching
// §4.5's reference bound.
type Config struct {
	// MaxDepth bounds how many dotted-path components a path may have.
	// Zero means MaxDepth (10).
	MaxDepth int
}

func (c Config) maxDepth() int {
	if c.MaxDepth <= 0 {
		return MaxDepth
	}
	return c.MaxDepth
}

// Project walks input along the dotted path (e.g.
// "country.0.budget.income") and returns the source span of every
// value the fully-consumed cursor lands on, in input order. An absent
// path returns an empty (non-nil) slice and a nil error: not finding a
// match is not a failure of the walk. A parse failure anywhere in the
// walk is returned as the error, with no spans. It is equivalent to
// Config{}.Project(input, path).
func Project(input []byte, path string) ([]ast.Span, error) {
	return Config{}.Project(input, path)
}

// Project is like the package-level Project but enforces c's MaxDepth
// instead of the default.
func (c Config) Project(input []byte, path string) ([]ast.Span, error) {
	if path == "" {
		return nil, reporter.Config("path must not be empty")
	}
	cursor := strings.Split(path, ".")
	maxDepth := c.maxDepth()
	if len(cursor) > maxDepth {
		return nil, reporter.Config(fmt.Sprintf("path has %d components, exceeds max depth %d", len(cursor), maxDepth))
	}

	full := input
	cur := skipSpace(input)
	spans, _, err := projectDictBody(full, cur, cursor, false)
	if err != nil {
		return nil, err
	}
	if spans == nil {
		spans = []ast.Span{}
	}
	return spans, nil
}

func skipSpace(b []byte) []byte {
	_, rest := classify.TakeWhile(b, classify.Space)
	return rest
}

func offsetOf(full, cur []byte) int {
	return len(full) - len(cur)
}

func atBodyEnd(cur []byte) bool {
	return len(cur) == 0 || cur[0] == '}'
}

// project is the general recursive entry: with an empty cursor, input
// is the match and its span is emitted; otherwise input must be a
// bracketed value for the cursor to possibly advance any further (a
// Set/Blocks body or a scalar has no named or indexed children, so a
// non-empty cursor there can never match).
func project(full, input []byte, cursor []string) ([]ast.Span, []byte, error) {
	if len(cursor) == 0 {
		span, rest, err := walkValue(full, input)
		if err != nil {
			return nil, input, err
		}
		return []ast.Span{span}, rest, nil
	}
	if len(input) > 0 && input[0] == '{' {
		return projectBracketed(full, input, cursor)
	}
	_, rest, err := walkValue(full, input)
	return nil, rest, err
}

func projectBracketed(full, input []byte, cursor []string) ([]ast.Span, []byte, error) {
	start := offsetOf(full, input)
	if len(input) == 0 || input[0] != '{' {
		return nil, input, reporter.At(start, reporter.UnexpectedEndOfInput("'{'"))
	}
	cur := skipSpace(input[1:])

	spans, rest, err := projectContents(full, cur, cursor)
	if err != nil {
		return nil, input, err
	}
	rest = skipSpace(rest)
	if len(rest) == 0 || rest[0] != '}' {
		return nil, input, reporter.MismatchedBraces(start)
	}
	return spans, rest[1:], nil
}

func projectContents(full, input []byte, cursor []string) ([]ast.Span, []byte, error) {
	shape, _, err := grammar.Disambiguate(input)
	if err != nil {
		return nil, input, reporter.At(offsetOf(full, input), err)
	}
	switch shape {
	case grammar.ShapeDict:
		return projectDictBody(full, input, cursor, true)
	case grammar.ShapeNumberedDict:
		return projectNumberedDictBody(full, input, cursor)
	case grammar.ShapeArray:
		return projectArrayBody(full, input, cursor)
	case grammar.ShapeSet:
		rest, err := walkSetBody(full, input)
		return nil, rest, err
	case grammar.ShapeBlocks:
		rest, err := walkBlocksBody(full, input)
		return nil, rest, err
	default:
		return nil, input, reporter.At(offsetOf(full, input), errors.New("unreachable block shape"))
	}
}

// projectDictBody walks a Dict (or a NumberedDict's inner body) entry
// by entry: on a key match, the value is projected under cursor[1:];
// on a mismatch, the value is walked and discarded. requireFirst
// mirrors package parser's rule that a document-level dict body may
// have zero entries, while a body already committed to Dict shape by
// grammar.Disambiguate must have at least one.
func projectDictBody(full, input []byte, cursor []string, requireFirst bool) ([]ast.Span, []byte, error) {
	key, valuePos, committed, err := projectKeyEquals(full, input)
	if err != nil {
		if requireFirst || committed {
			return nil, input, err
		}
		return nil, input, nil
	}
	spans, cur, err := dispatchEntryValue(full, valuePos, key, cursor)
	if err != nil {
		return nil, input, err
	}
	all := spans

	for {
		_, afterSpace, ok := classify.ReqSpace(cur)
		if !ok || atBodyEnd(afterSpace) {
			break
		}
		key, valuePos, _, err := projectKeyEquals(full, afterSpace)
		if err != nil {
			return nil, input, err
		}
		s, next, err := dispatchEntryValue(full, valuePos, key, cursor)
		if err != nil {
			return nil, input, err
		}
		all = append(all, s...)
		cur = next
	}
	return all, cur, nil
}

// projectKeyEquals scans "key WS? '=' WS?" and returns the key plus
// the position the value begins at.
func projectKeyEquals(full, input []byte) (key, valuePos []byte, committed bool, err error) {
	key, afterKey, keyErr := scalar.Key(input)
	if keyErr != nil {
		return nil, input, false, reporter.At(offsetOf(full, input), keyErr)
	}
	cur := skipSpace(afterKey)
	if len(cur) == 0 || cur[0] != '=' {
		return nil, input, true, reporter.At(offsetOf(full, cur), reporter.UnexpectedEndOfInput("'='"))
	}
	cur = skipSpace(cur[1:])
	return key, cur, true, nil
}

func dispatchEntryValue(full, valuePos, key []byte, cursor []string) ([]ast.Span, []byte, error) {
	if string(key) == cursor[0] {
		return project(full, valuePos, cursor[1:])
	}
	_, rest, err := walkValue(full, valuePos)
	return nil, rest, err
}

func projectNumberedDictBody(full, input []byte, cursor []string) ([]ast.Span, []byte, error) {
	_, _, rest, err := scalar.Integer(input)
	if err != nil {
		return nil, input, reporter.At(offsetOf(full, input), err)
	}
	_, rest, ok := classify.ReqSpace(rest)
	if !ok {
		return nil, input, reporter.At(offsetOf(full, rest), reporter.UnexpectedEndOfInput("whitespace"))
	}
	if len(rest) == 0 || rest[0] != '{' {
		return nil, input, reporter.At(offsetOf(full, rest), reporter.UnexpectedEndOfInput("'{'"))
	}
	innerOpen := offsetOf(full, rest)
	inner := skipSpace(rest[1:])

	spans, afterBody, err := projectDictBody(full, inner, cursor, true)
	if err != nil {
		return nil, input, err
	}
	afterBody = skipSpace(afterBody)
	if len(afterBody) == 0 || afterBody[0] != '}' {
		return nil, input, reporter.MismatchedBraces(innerOpen)
	}
	return spans, afterBody[1:], nil
}

// projectArrayBody parses cursor[0] as a decimal index once up front
// (§4.5: "the integer index is compared to the current path component
// (decimal)") and compares every entry's index against it.
func projectArrayBody(full, input []byte, cursor []string) ([]ast.Span, []byte, error) {
	wantIdx, wantErr := strconv.ParseInt(cursor[0], 10, 64)
	hasWant := wantErr == nil

	idx, valuePos, err := projectArrayEntryHeader(full, input)
	if err != nil {
		return nil, input, err
	}
	spans, cur, err := dispatchIndexValue(full, valuePos, idx, hasWant, wantIdx, cursor)
	if err != nil {
		return nil, input, err
	}
	all := spans

	for {
		_, afterSpace, ok := classify.ReqSpace(cur)
		if !ok || atBodyEnd(afterSpace) {
			break
		}
		idx, valuePos, err := projectArrayEntryHeader(full, afterSpace)
		if err != nil {
			return nil, input, err
		}
		s, next, err := dispatchIndexValue(full, valuePos, idx, hasWant, wantIdx, cursor)
		if err != nil {
			return nil, input, err
		}
		all = append(all, s...)
		cur = next
	}
	return all, cur, nil
}

func projectArrayEntryHeader(full, input []byte) (idx int64, valuePos []byte, err error) {
	idx, n, rest, err := scalar.Integer(input)
	if err != nil {
		return 0, input, reporter.At(offsetOf(full, input), err)
	}
	if idx < 0 {
		return 0, input, reporter.At(offsetOf(full, input), reporter.InvalidScalar("array index", string(input[:n]), nil))
	}
	cur := skipSpace(rest)
	if len(cur) == 0 || cur[0] != '=' {
		return 0, input, reporter.At(offsetOf(full, cur), reporter.UnexpectedEndOfInput("'='"))
	}
	cur = skipSpace(cur[1:])
	return idx, cur, nil
}

func dispatchIndexValue(full, valuePos []byte, idx int64, hasWant bool, wantIdx int64, cursor []string) ([]ast.Span, []byte, error) {
	if hasWant && idx == wantIdx {
		return project(full, valuePos, cursor[1:])
	}
	_, rest, err := walkValue(full, valuePos)
	return nil, rest, err
}

// --- structural walk (recognize, don't materialize) ---

func walkValue(full, input []byte) (ast.Span, []byte, error) {
	start := offsetOf(full, input)
	if len(input) == 0 {
		return ast.Span{}, input, reporter.At(start, reporter.UnexpectedEndOfInput("a value"))
	}
	switch input[0] {
	case '{':
		return walkBracketed(full, input)
	case '"':
		return walkQuoted(full, input)
	default:
		return walkUnquoted(full, input)
	}
}

func walkBracketed(full, input []byte) (ast.Span, []byte, error) {
	start := offsetOf(full, input)
	if len(input) == 0 || input[0] != '{' {
		return ast.Span{}, input, reporter.At(start, reporter.UnexpectedEndOfInput("'{'"))
	}
	cur := skipSpace(input[1:])
	shape, _, err := grammar.Disambiguate(cur)
	if err != nil {
		return ast.Span{}, input, reporter.At(offsetOf(full, cur), err)
	}

	var rest []byte
	switch shape {
	case grammar.ShapeSet:
		rest, err = walkSetBody(full, cur)
	case grammar.ShapeArray:
		rest, err = walkArrayBody(full, cur)
	case grammar.ShapeDict:
		rest, err = walkDictBody(full, cur, true)
	case grammar.ShapeNumberedDict:
		rest, err = walkNumberedDictBody(full, cur)
	case grammar.ShapeBlocks:
		rest, err = walkBlocksBody(full, cur)
	default:
		err = reporter.At(offsetOf(full, cur), errors.New("unreachable block shape"))
	}
	if err != nil {
		return ast.Span{}, input, err
	}
	rest = skipSpace(rest)
	if len(rest) == 0 || rest[0] != '}' {
		return ast.Span{}, input, reporter.MismatchedBraces(start)
	}
	return ast.Span{Start: start, End: offsetOf(full, rest) + 1}, rest[1:], nil
}

func walkQuoted(full, input []byte) (ast.Span, []byte, error) {
	start := offsetOf(full, input)
	_, rest, err := scalar.QuotedContents(input)
	if err != nil {
		return ast.Span{}, input, reporter.At(start, err)
	}
	return ast.Span{Start: start, End: offsetOf(full, rest)}, rest, nil
}

func walkUnquoted(full, input []byte) (ast.Span, []byte, error) {
	start := offsetOf(full, input)
	token, _ := classify.TakeWhile(input, classify.Identifier)
	if len(token) == 0 {
		return ast.Span{}, input, reporter.At(start, reporter.UnexpectedEndOfInput("a value"))
	}
	if _, n, _, err := scalar.Decimal(token); err == nil && n == len(token) {
		return ast.Span{Start: start, End: start + n}, input[n:], nil
	}
	if _, n, _, err := scalar.Integer(token); err == nil && n == len(token) {
		return ast.Span{Start: start, End: start + n}, input[n:], nil
	}
	_, rest, err := scalar.Identifier(input)
	if err != nil {
		return ast.Span{}, input, reporter.At(start, err)
	}
	return ast.Span{Start: start, End: offsetOf(full, rest)}, rest, nil
}

func walkDictBody(full, input []byte, requireFirst bool) ([]byte, error) {
	_, cur, committed, err := walkEntry(full, input)
	if err != nil {
		if requireFirst || committed {
			return input, err
		}
		return input, nil
	}
	for {
		_, afterSpace, ok := classify.ReqSpace(cur)
		if !ok || atBodyEnd(afterSpace) {
			break
		}
		_, next, _, err := walkEntry(full, afterSpace)
		if err != nil {
			return input, err
		}
		cur = next
	}
	return cur, nil
}

func walkEntry(full, input []byte) (key, rest []byte, committed bool, err error) {
	key, afterKey, keyErr := scalar.Key(input)
	if keyErr != nil {
		return nil, input, false, reporter.At(offsetOf(full, input), keyErr)
	}
	cur := skipSpace(afterKey)
	if len(cur) == 0 || cur[0] != '=' {
		return nil, input, true, reporter.At(offsetOf(full, cur), reporter.UnexpectedEndOfInput("'='"))
	}
	cur = skipSpace(cur[1:])
	_, valRest, err := walkValue(full, cur)
	if err != nil {
		return nil, input, true, err
	}
	return key, valRest, true, nil
}

func walkArrayBody(full, input []byte) ([]byte, error) {
	_, cur, err := walkIntEntry(full, input)
	if err != nil {
		return input, err
	}
	for {
		_, afterSpace, ok := classify.ReqSpace(cur)
		if !ok || atBodyEnd(afterSpace) {
			break
		}
		_, next, err := walkIntEntry(full, afterSpace)
		if err != nil {
			return input, err
		}
		cur = next
	}
	return cur, nil
}

func walkIntEntry(full, input []byte) (int64, []byte, error) {
	idx, valuePos, err := projectArrayEntryHeader(full, input)
	if err != nil {
		return 0, input, err
	}
	_, rest, err := walkValue(full, valuePos)
	if err != nil {
		return 0, input, err
	}
	return idx, rest, nil
}

func walkSetBody(full, input []byte) ([]byte, error) {
	cur := input
	if !atBodyEnd(cur) {
		_, next, err := walkValue(full, cur)
		if err != nil {
			return input, err
		}
		cur = next
		for {
			_, afterSpace, ok := classify.ReqSpace(cur)
			if !ok || atBodyEnd(afterSpace) {
				break
			}
			_, next, err := walkValue(full, afterSpace)
			if err != nil {
				return input, err
			}
			cur = next
		}
	}
	return cur, nil
}

func walkNumberedDictBody(full, input []byte) ([]byte, error) {
	_, _, rest, err := scalar.Integer(input)
	if err != nil {
		return input, reporter.At(offsetOf(full, input), err)
	}
	_, rest, ok := classify.ReqSpace(rest)
	if !ok {
		return input, reporter.At(offsetOf(full, rest), reporter.UnexpectedEndOfInput("whitespace"))
	}
	if len(rest) == 0 || rest[0] != '{' {
		return input, reporter.At(offsetOf(full, rest), reporter.UnexpectedEndOfInput("'{'"))
	}
	innerOpen := offsetOf(full, rest)
	inner := skipSpace(rest[1:])

	afterBody, err := walkDictBody(full, inner, true)
	if err != nil {
		return input, err
	}
	afterBody = skipSpace(afterBody)
	if len(afterBody) == 0 || afterBody[0] != '}' {
		return input, reporter.MismatchedBraces(innerOpen)
	}
	return afterBody[1:], nil
}

func walkBlocksBody(full, input []byte) ([]byte, error) {
	_, cur, err := walkBracketed(full, input)
	if err != nil {
		return input, err
	}
	for {
		_, afterSpace, ok := classify.ReqSpace(cur)
		if !ok || atBodyEnd(afterSpace) {
			break
		}
		_, next, err := walkBracketed(full, afterSpace)
		if err != nil {
			return input, err
		}
		cur = next
	}
	return cur, nil
}
