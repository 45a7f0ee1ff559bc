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

// Package reporter defines the error taxonomy raised by the clausewitz
// byte classifier, grammar recognizer, projection engine, and path
// index.
package reporter

import (
	"errors"
	"fmt"
)

// ErrInvalidSource is the sentinel wrapped by a whole-document parse
// failure: the first fatal disagreement becomes the whole-call error.
// The projection engine and the block-parallel driver never return
// this. The block-parallel driver drops individual blocks that fail
// and returns the rest; the projection engine returns the first parse
// failure it meets as its error, unwrapped, together with no spans.
var ErrInvalidSource = errors.New("clausewitz: invalid source")

// PosError is an error tied to a byte offset in a source buffer.
type PosError interface {
	error
	// Offset returns the byte offset that caused the underlying error.
	Offset() int
	// Unwrap returns the underlying error.
	Unwrap() error
}

// At wraps err with the source offset that produced it.
func At(offset int, err error) PosError {
	return offsetError{offset: offset, underlying: err}
}

// Atf is like At but builds the underlying error with fmt.Errorf.
func Atf(offset int, format string, args ...interface{}) PosError {
	return offsetError{offset: offset, underlying: fmt.Errorf(format, args...)}
}

type offsetError struct {
	underlying error
	offset     int
}

func (e offsetError) Error() string {
	return fmt.Sprintf("offset %d: %v", e.offset, e.underlying)
}

func (e offsetError) Offset() int {
	return e.offset
}

func (e offsetError) Unwrap() error {
	return e.underlying
}

var _ PosError = offsetError{}

// Custom error types that contain additional information for each kind.
// All of them are plain values: the grammar recognizer never panics to
// signal failure, it returns one of these (wrapped in At/Atf) instead.

// UnexpectedEndOfInputError is returned when a required token or byte
// was missing before the input was exhausted.
type UnexpectedEndOfInputError struct {
	Expected string
}

func UnexpectedEndOfInput(expected string) UnexpectedEndOfInputError {
	return UnexpectedEndOfInputError{Expected: expected}
}

func (e UnexpectedEndOfInputError) Error() string {
	if e.Expected == "" {
		return "unexpected end of input"
	}
	return fmt.Sprintf("unexpected end of input, expected %s", e.Expected)
}

// UnexpectedTokenError is returned when a block body opens with a
// prefix/next-token combination absent from the block-shape decision
// table (see grammar.Disambiguate).
type UnexpectedTokenError struct {
	Prefix string
	Next   byte
}

func UnexpectedToken(prefix string, next byte) UnexpectedTokenError {
	return UnexpectedTokenError{Prefix: prefix, Next: next}
}

func (e UnexpectedTokenError) Error() string {
	if e.Next == 0 {
		return fmt.Sprintf("unexpected token following prefix %q", e.Prefix)
	}
	return fmt.Sprintf("unexpected token %q following prefix %q", e.Next, e.Prefix)
}

// InvalidScalarError is returned when a run of digits overflowed 64
// bits, a decimal failed to parse, a quoted date had an invalid
// month or day, or an array index was negative.
type InvalidScalarError struct {
	Kind string // "integer", "decimal", "date", or "array index"
	Text string
	Err  error
}

func InvalidScalar(kind, text string, err error) InvalidScalarError {
	return InvalidScalarError{Kind: kind, Text: text, Err: err}
}

func (e InvalidScalarError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Kind, e.Text, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Kind, e.Text)
}

func (e InvalidScalarError) Unwrap() error {
	return e.Err
}

// MismatchedBracesError is returned when a '{' has no matching '}' at
// the expected depth.
type MismatchedBracesError struct {
	OpenOffset int
}

func MismatchedBraces(openOffset int) MismatchedBracesError {
	return MismatchedBracesError{OpenOffset: openOffset}
}

func (e MismatchedBracesError) Error() string {
	return fmt.Sprintf("'{' opened at offset %d has no matching '}'", e.OpenOffset)
}

// PathNotFoundError is raised by the path index, never by the grammar
// recognizer itself.
type PathNotFoundError struct {
	Path string
}

func PathNotFound(path string) PathNotFoundError {
	return PathNotFoundError{Path: path}
}

func (e PathNotFoundError) Error() string {
	return fmt.Sprintf("path %q not found", e.Path)
}

// PathTypeMismatchError is raised by the typed path-index accessors
// when the terminal value's variant doesn't match what was requested.
type PathTypeMismatchError struct {
	Path   string
	Wanted string
	Got    string
}

func PathTypeMismatch(path, wanted, got string) PathTypeMismatchError {
	return PathTypeMismatchError{Path: path, Wanted: wanted, Got: got}
}

func (e PathTypeMismatchError) Error() string {
	return fmt.Sprintf("%q is not the %s you are looking for (got %s)", e.Path, e.Wanted, e.Got)
}

// ConfigError is returned when a caller-supplied configuration value
// is out of bounds, e.g. a projection path deeper than MaxDepth.
type ConfigError struct {
	Reason string
}

func Config(reason string) ConfigError {
	return ConfigError{Reason: reason}
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("config error: %s", e.Reason)
}
