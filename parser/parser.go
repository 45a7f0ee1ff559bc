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

// Package parser implements the grammar recognizer of §4.3: a
// recursive-descent parser over the byte classes and leaf scanners of
// classify and scalar, producing an ast.Value tree. Each '{' body's
// shape is decided by grammar.Disambiguate before the matching content
// parser is invoked; no backtracking happens across that decision.
package parser

import (
	"errors"
	"fmt"
	"sort"

	"github.com/clausewitz-go/clausewitz/ast"
	"github.com/clausewitz-go/clausewitz/classify"
	"github.com/clausewitz-go/clausewitz/grammar"
	"github.com/clausewitz-go/clausewitz/reporter"
	"github.com/clausewitz-go/clausewitz/scalar"
)

// Parse parses as much of a leading document body as it can and
// returns the unconsumed remainder. A zero-entry document (empty or
// all whitespace) is not an error; it returns an empty Dict.
func Parse(input []byte) (ast.Value, []byte, error) {
	full := input
	cur := skipSpace(input)

	body, rest, err := parseDictBody(full, cur, false)
	if err != nil {
		return ast.Value{}, input, fmt.Errorf("%w: %w", reporter.ErrInvalidSource, err)
	}
	return body, skipSpace(rest), nil
}

// ParseDocument is Parse plus the requirement that the whole input be
// consumed; any trailing, unparsed bytes are a fatal error.
func ParseDocument(input []byte) (ast.Value, error) {
	v, rest, err := Parse(input)
	if err != nil {
		return ast.Value{}, err
	}
	if len(rest) != 0 {
		offset := len(input) - len(rest)
		return ast.Value{}, fmt.Errorf("%w: %w", reporter.ErrInvalidSource,
			reporter.At(offset, errors.New("trailing input after document")))
	}
	return v, nil
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

// parseValue implements value ::= bracketed | quoted | unquoted.
func parseValue(full, input []byte) (ast.Value, []byte, error) {
	if len(input) == 0 {
		return ast.Value{}, input, reporter.At(offsetOf(full, input), reporter.UnexpectedEndOfInput("a value"))
	}
	switch input[0] {
	case '{':
		return parseBracketed(full, input)
	case '"':
		return parseQuoted(full, input)
	default:
		return parseUnquoted(full, input)
	}
}

// parseBracketed implements bracketed ::= '{' WS? block-body WS? '}'.
// Per §4.3, once '{' is consumed, the parse is committed: a missing
// matching '}' is a fatal MismatchedBracesError, never a backtrack.
func parseBracketed(full, input []byte) (ast.Value, []byte, error) {
	start := offsetOf(full, input)
	if len(input) == 0 || input[0] != '{' {
		return ast.Value{}, input, reporter.At(start, reporter.UnexpectedEndOfInput("'{'"))
	}
	cur := skipSpace(input[1:])

	body, rest, err := parseContents(full, cur)
	if err != nil {
		return ast.Value{}, input, err
	}
	rest = skipSpace(rest)
	if len(rest) == 0 || rest[0] != '}' {
		return ast.Value{}, input, reporter.MismatchedBraces(start)
	}
	body.Span = ast.Span{Start: start, End: offsetOf(full, rest) + 1}
	return body, rest[1:], nil
}

// parseContents dispatches on the shared shape disambiguation and
// parses the full body accordingly.
func parseContents(full, input []byte) (ast.Value, []byte, error) {
	shape, _, err := grammar.Disambiguate(input)
	if err != nil {
		return ast.Value{}, input, reporter.At(offsetOf(full, input), err)
	}
	switch shape {
	case grammar.ShapeSet:
		return parseSetBody(full, input)
	case grammar.ShapeArray:
		return parseArrayBody(full, input)
	case grammar.ShapeDict:
		return parseDictBody(full, input, true)
	case grammar.ShapeNumberedDict:
		return parseNumberedDictBody(full, input)
	case grammar.ShapeBlocks:
		return parseBlocksBody(full, input)
	default:
		return ast.Value{}, input, reporter.At(offsetOf(full, input), errors.New("unreachable block shape"))
	}
}

// parseQuoted implements quoted ::= '"' date-body '"' | '"' (any
// except '"')* '"'. A date body is tried first; anything that isn't a
// full, valid date falls back to a plain string literal, matching
// §4.2's "quoted scalars try date-body before treating the contents as
// an opaque string."
func parseQuoted(full, input []byte) (ast.Value, []byte, error) {
	start := offsetOf(full, input)
	contents, rest, err := scalar.QuotedContents(input)
	if err != nil {
		return ast.Value{}, input, reporter.At(start, err)
	}
	end := offsetOf(full, rest)
	if d, n, _, derr := scalar.DateBody(contents); derr == nil && n == len(contents) {
		return ast.DateValue(d, ast.Span{Start: start, End: end}), rest, nil
	}
	return ast.StringLiteral(contents, ast.Span{Start: start, End: end}), rest, nil
}

// parseUnquoted implements unquoted ::= decimal | integer |
// identifier-value, tried in that order against the full
// identifier-class token so that the first to match it completely
// wins; a partial match (e.g. "123abc" as an integer) is not a match
// at all. A bare, unquoted date-body is not attempted: per §4.2 a date
// only ever appears inside quotes.
func parseUnquoted(full, input []byte) (ast.Value, []byte, error) {
	start := offsetOf(full, input)
	token, _ := classify.TakeWhile(input, classify.Identifier)
	if len(token) == 0 {
		return ast.Value{}, input, reporter.At(start, reporter.UnexpectedEndOfInput("a value"))
	}

	if f, n, _, err := scalar.Decimal(token); err == nil && n == len(token) {
		end := start + n
		return ast.DecimalValue(f, ast.Span{Start: start, End: end}), input[n:], nil
	}
	if iv, n, _, err := scalar.Integer(token); err == nil && n == len(token) {
		end := start + n
		return ast.IntegerValue(iv, ast.Span{Start: start, End: end}), input[n:], nil
	}
	text, rest, err := scalar.Identifier(input)
	if err != nil {
		return ast.Value{}, input, reporter.At(start, err)
	}
	end := offsetOf(full, rest)
	return ast.Identifier(text, ast.Span{Start: start, End: end}), rest, nil
}

// parseEntry implements key WS? '=' WS? value. committed reports
// whether a key was already consumed when err was produced: per §4.3,
// once that happens the caller must treat the failure as fatal even in
// a context that would otherwise backtrack to "no entry here".
func parseEntry(full, input []byte) (entry ast.Entry, rest []byte, committed bool, err error) {
	key, afterKey, keyErr := scalar.Key(input)
	if keyErr != nil {
		return ast.Entry{}, input, false, reporter.At(offsetOf(full, input), keyErr)
	}
	cur := skipSpace(afterKey)
	if len(cur) == 0 || cur[0] != '=' {
		return ast.Entry{}, input, true, reporter.At(offsetOf(full, cur), reporter.UnexpectedEndOfInput("'='"))
	}
	cur = skipSpace(cur[1:])
	value, valRest, valErr := parseValue(full, cur)
	if valErr != nil {
		return ast.Entry{}, input, true, valErr
	}
	return ast.Entry{Key: key, Value: value}, valRest, true, nil
}

// parseDictBody implements dict-body ::= entry (WS entry)*. At the top
// level (requireFirst == false, document-level parsing), failing to
// even recognize a first entry is not an error: it means the document
// has zero entries. Inside a bracketed body (requireFirst == true),
// grammar.Disambiguate has already guaranteed at least one entry
// exists, so a first-entry failure there is fatal.
func parseDictBody(full, input []byte, requireFirst bool) (ast.Value, []byte, error) {
	start := offsetOf(full, input)

	entry0, cur, committed, err := parseEntry(full, input)
	if err != nil {
		if requireFirst || committed {
			return ast.Value{}, input, err
		}
		return ast.Dict(nil, ast.Span{Start: start, End: start}), input, nil
	}
	entries := []ast.Entry{entry0}

	for {
		_, afterSpace, ok := classify.ReqSpace(cur)
		if !ok || atBodyEnd(afterSpace) {
			break
		}
		entry, next, _, err := parseEntry(full, afterSpace)
		if err != nil {
			return ast.Value{}, input, err
		}
		entries = append(entries, entry)
		cur = next
	}

	return ast.Dict(entries, ast.Span{Start: start, End: offsetOf(full, cur)}), cur, nil
}

// indexedValue is a parsed array-entry value paired with its original
// source index, kept only long enough to sort by index.
type indexedValue struct {
	index int64
	value ast.Value
}

// parseArrayBody implements array-body (an int-keyed entry list, §4.3)
// by parsing "index = value" entries and then discarding the indices,
// re-ordering by them rather than by appearance order.
func parseArrayBody(full, input []byte) (ast.Value, []byte, error) {
	start := offsetOf(full, input)

	first, cur, err := parseIntEntry(full, input)
	if err != nil {
		return ast.Value{}, input, err
	}
	items := []indexedValue{first}

	for {
		_, afterSpace, ok := classify.ReqSpace(cur)
		if !ok || atBodyEnd(afterSpace) {
			break
		}
		next, nextCur, err := parseIntEntry(full, afterSpace)
		if err != nil {
			return ast.Value{}, input, err
		}
		items = append(items, next)
		cur = nextCur
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].index < items[j].index })
	values := make([]ast.Value, len(items))
	for i, it := range items {
		values[i] = it.value
	}
	return ast.Array(values, ast.Span{Start: start, End: offsetOf(full, cur)}), cur, nil
}

func parseIntEntry(full, input []byte) (indexedValue, []byte, error) {
	idx, n, rest, err := scalar.Integer(input)
	if err != nil {
		return indexedValue{}, input, reporter.At(offsetOf(full, input), err)
	}
	if idx < 0 {
		return indexedValue{}, input, reporter.At(offsetOf(full, input), reporter.InvalidScalar("array index", string(input[:n]), nil))
	}
	cur := skipSpace(rest)
	if len(cur) == 0 || cur[0] != '=' {
		return indexedValue{}, input, reporter.At(offsetOf(full, cur), reporter.UnexpectedEndOfInput("'='"))
	}
	cur = skipSpace(cur[1:])
	value, valRest, err := parseValue(full, cur)
	if err != nil {
		return indexedValue{}, input, err
	}
	return indexedValue{index: idx, value: value}, valRest, nil
}

// parseSetBody implements set-body ::= value (WS value)*, and also
// accepts a body that is empty or whitespace-only: the empty-set case
// of the decision table routes here rather than to a distinct
// production.
func parseSetBody(full, input []byte) (ast.Value, []byte, error) {
	start := offsetOf(full, input)
	cur := input
	var elements []ast.Value

	if !atBodyEnd(cur) {
		v, next, err := parseValue(full, cur)
		if err != nil {
			return ast.Value{}, input, err
		}
		elements = append(elements, v)
		cur = next

		for {
			_, afterSpace, ok := classify.ReqSpace(cur)
			if !ok || atBodyEnd(afterSpace) {
				break
			}
			v, next, err := parseValue(full, afterSpace)
			if err != nil {
				return ast.Value{}, input, err
			}
			elements = append(elements, v)
			cur = next
		}
	}

	return ast.Set(elements, ast.Span{Start: start, End: offsetOf(full, cur)}), cur, nil
}

// parseNumberedDictBody implements nd-body ::= SINT WS '{' WS?
// dict-body WS? '}'. The outer '{' ... '}' pair was already consumed
// by parseBracketed; this parses the tag, then the nested braces.
func parseNumberedDictBody(full, input []byte) (ast.Value, []byte, error) {
	start := offsetOf(full, input)

	tag, _, rest, err := scalar.Integer(input)
	if err != nil {
		return ast.Value{}, input, reporter.At(offsetOf(full, input), err)
	}
	_, rest, ok := classify.ReqSpace(rest)
	if !ok {
		return ast.Value{}, input, reporter.At(offsetOf(full, rest), reporter.UnexpectedEndOfInput("whitespace"))
	}
	if len(rest) == 0 || rest[0] != '{' {
		return ast.Value{}, input, reporter.At(offsetOf(full, rest), reporter.UnexpectedEndOfInput("'{'"))
	}
	innerOpen := offsetOf(full, rest)
	inner := skipSpace(rest[1:])

	body, afterBody, err := parseDictBody(full, inner, true)
	if err != nil {
		return ast.Value{}, input, err
	}
	afterBody = skipSpace(afterBody)
	if len(afterBody) == 0 || afterBody[0] != '}' {
		return ast.Value{}, input, reporter.MismatchedBraces(innerOpen)
	}
	entries, _ := body.AsDict()
	return ast.NumberedDict(tag, entries, ast.Span{Start: start, End: offsetOf(full, afterBody) + 1}), afterBody[1:], nil
}

// parseBlocksBody implements blocks-body ::= bracketed (WS
// bracketed)*, materialized as a Set of the nested bracketed values.
func parseBlocksBody(full, input []byte) (ast.Value, []byte, error) {
	start := offsetOf(full, input)

	first, cur, err := parseBracketed(full, input)
	if err != nil {
		return ast.Value{}, input, err
	}
	elements := []ast.Value{first}

	for {
		_, afterSpace, ok := classify.ReqSpace(cur)
		if !ok || atBodyEnd(afterSpace) {
			break
		}
		next, nextCur, err := parseBracketed(full, afterSpace)
		if err != nil {
			return ast.Value{}, input, err
		}
		elements = append(elements, next)
		cur = nextCur
	}

	return ast.Set(elements, ast.Span{Start: start, End: offsetOf(full, cur)}), cur, nil
}
