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

// Package grammar holds the block-shape disambiguation shared by the
// full grammar recognizer (package parser) and the projection engine
// (package project), so the two never independently diverge on what a
// given '{' body means.
package grammar

import (
	"github.com/clausewitz-go/clausewitz/classify"
	"github.com/clausewitz-go/clausewitz/reporter"
	"github.com/clausewitz-go/clausewitz/scalar"
)

// Shape identifies which of the five block bodies a '{' ... '}' pair
// holds, decided by a bounded lookahead over its contents.
type Shape uint8

const (
	ShapeInvalid Shape = iota
	ShapeSet
	ShapeArray
	ShapeDict
	ShapeNumberedDict
	ShapeBlocks
)

func (s Shape) String() string {
	switch s {
	case ShapeSet:
		return "set"
	case ShapeArray:
		return "array"
	case ShapeDict:
		return "dict"
	case ShapeNumberedDict:
		return "numbered_dict"
	case ShapeBlocks:
		return "blocks"
	default:
		return "invalid"
	}
}

// Disambiguate scans input (the content of a '{' ... '}' pair, with
// leading whitespace already stripped by the caller) for the first
// byte in classify.Token, then inspects the identifier-class prefix of
// everything before it to decide which body shape follows. It consumes
// nothing; input is re-parsed in full by whichever body parser the
// caller dispatches to.
//
// The decision table (§4.3):
//
//	next token '}'          -> Set (also covers the empty/whitespace-only body)
//	next token '=', integer  -> Array
//	next token '=', other    -> Dict
//	next token '{', integer  -> NumberedDict
//	next token '{', other    -> Blocks (a Set of nested blocks)
//
// "integer" means the identifier-class run preceding the token parses
// as a signed 64-bit integer in full (scalar.LooksLikeInteger), not
// merely that it starts with a digit.
func Disambiguate(input []byte) (shape Shape, nextToken byte, err error) {
	notTokenPrefix, rest := scanToFirstToken(input)
	if len(rest) == 0 {
		return ShapeInvalid, 0, reporter.UnexpectedEndOfInput("'=', '{', or '}'")
	}
	nextToken = rest[0]

	identPrefix, _ := classify.TakeWhile(notTokenPrefix, classify.Identifier)
	isInt := scalar.LooksLikeInteger(identPrefix)

	switch {
	case nextToken == '}':
		return ShapeSet, nextToken, nil
	case nextToken == '=' && isInt:
		return ShapeArray, nextToken, nil
	case nextToken == '=':
		return ShapeDict, nextToken, nil
	case nextToken == '{' && isInt:
		return ShapeNumberedDict, nextToken, nil
	case nextToken == '{':
		return ShapeBlocks, nextToken, nil
	default:
		return ShapeInvalid, nextToken, reporter.UnexpectedToken(string(identPrefix), nextToken)
	}
}

// scanToFirstToken is classify.TakeUntil(input, classify.Token), but
// quote-aware: a quoted key or value (§6's quoted-ident allows any
// byte except '"', including '=', '{', '}') must not be mistaken for
// the token that decides the enclosing block's shape. Bytes inside a
// '"'-delimited span, including the token-class bytes it may contain,
// are skipped whole; an unterminated quote runs to the end of input,
// same as TakeUntil's "no match" behavior.
func scanToFirstToken(input []byte) (prefix, rest []byte) {
	i := 0
	for i < len(input) {
		if input[i] == '"' {
			i++
			body, _ := classify.TakeWhile(input[i:], classify.StringBody)
			i += len(body)
			if i < len(input) && input[i] == '"' {
				i++
			}
			continue
		}
		if classify.Token.Test(input[i]) {
			return input[:i], input[i:]
		}
		i++
	}
	return input, nil
}
