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

// Package ast defines the value tree produced by parsing a Clausewitz
// document: a tagged node with nine variants, all of whose scalar
// leaves borrow spans of the caller's input buffer.
package ast

import "fmt"

// Kind identifies which of the nine Value variants a node holds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindDict
	KindNumberedDict
	KindArray
	KindSet
	KindStringLiteral
	KindDate
	KindDecimal
	KindInteger
	KindIdentifier
)

func (k Kind) String() string {
	switch k {
	case KindDict:
		return "dict"
	case KindNumberedDict:
		return "numbered_dict"
	case KindArray:
		return "array"
	case KindSet:
		return "set"
	case KindStringLiteral:
		return "string"
	case KindDate:
		return "date"
	case KindDecimal:
		return "decimal"
	case KindInteger:
		return "integer"
	case KindIdentifier:
		return "identifier"
	default:
		return "invalid"
	}
}

// Entry is one (key, Value) pair of a Dict or NumberedDict body. Key
// is the exact source bytes of the key: for a quoted key, the
// contents between the quotes, without unescaping; for an unquoted
// key, the identifier-class run verbatim (it may begin with a digit).
type Entry struct {
	Key   []byte
	Value Value
}

// Date is a calendar date decomposed into its three components, as
// parsed from a quoted "Y.M.D" literal.
type Date struct {
	Year  int64
	Month int
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%d.%02d.%02d", d.Year, d.Month, d.Day)
}

// Value is a tagged node produced by the grammar recognizer. The zero
// Value is KindInvalid and holds no data. Every borrowed []byte field
// is a sub-slice of the buffer the parser was given; it is valid only
// as long as that buffer is retained by the caller.
//
// Consumers are expected to switch on Kind and then read exactly the
// field(s) that kind defines; the other fields are zero/nil. This
// mirrors a closed sum type without allocating an interface per leaf.
type Value struct {
	Kind Kind

	// KindDict, KindNumberedDict (body)
	Entries []Entry
	// KindNumberedDict only
	Tag int64
	// KindArray, KindSet
	Elements []Value
	// KindStringLiteral, KindIdentifier
	Text []byte
	// KindDate
	Date Date
	// KindDecimal
	Decimal float64
	// KindInteger
	Integer int64

	// Span is the byte range in the original input this value was
	// parsed from, end-exclusive. The projection engine reports its
	// matches as Spans of the same form.
	Span Span
}

// Span is a half-open byte range [Start, End) into an input buffer.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes this span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// Bytes returns the raw bytes this value was parsed from.
func (v Value) Bytes(buf []byte) []byte {
	return buf[v.Span.Start:v.Span.End]
}

// Dict builds a KindDict value from already-parsed entries.
func Dict(entries []Entry, span Span) Value {
	return Value{Kind: KindDict, Entries: entries, Span: span}
}

// NumberedDict builds a KindNumberedDict value.
func NumberedDict(tag int64, entries []Entry, span Span) Value {
	return Value{Kind: KindNumberedDict, Tag: tag, Entries: entries, Span: span}
}

// Array builds a KindArray value from values already sorted by their
// original source index (see §4.3's array materialization rule).
func Array(elements []Value, span Span) Value {
	return Value{Kind: KindArray, Elements: elements, Span: span}
}

// Set builds a KindSet value.
func Set(elements []Value, span Span) Value {
	return Value{Kind: KindSet, Elements: elements, Span: span}
}

// StringLiteral builds a KindStringLiteral value from the bytes
// between (not including) the surrounding quotes.
func StringLiteral(text []byte, span Span) Value {
	return Value{Kind: KindStringLiteral, Text: text, Span: span}
}

// DateValue builds a KindDate value.
func DateValue(d Date, span Span) Value {
	return Value{Kind: KindDate, Date: d, Span: span}
}

// DecimalValue builds a KindDecimal value.
func DecimalValue(f float64, span Span) Value {
	return Value{Kind: KindDecimal, Decimal: f, Span: span}
}

// IntegerValue builds a KindInteger value.
func IntegerValue(i int64, span Span) Value {
	return Value{Kind: KindInteger, Integer: i, Span: span}
}

// Identifier builds a KindIdentifier value from an unquoted byte run.
func Identifier(text []byte, span Span) Value {
	return Value{Kind: KindIdentifier, Text: text, Span: span}
}

// AsInteger returns (v.Integer, true) if v is a KindInteger value.
func (v Value) AsInteger() (int64, bool) {
	if v.Kind != KindInteger {
		return 0, false
	}
	return v.Integer, true
}

// AsNumber coerces KindInteger or KindDecimal to float64, matching the
// get_number_at_path coercion rule of §4.7.
func (v Value) AsNumber() (float64, bool) {
	switch v.Kind {
	case KindInteger:
		return float64(v.Integer), true
	case KindDecimal:
		return v.Decimal, true
	default:
		return 0, false
	}
}

// AsString returns the string literal contents of v, if v is
// KindStringLiteral.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindStringLiteral {
		return "", false
	}
	return string(v.Text), true
}

// AsIdentifier returns the identifier text of v, if v is
// KindIdentifier.
func (v Value) AsIdentifier() (string, bool) {
	if v.Kind != KindIdentifier {
		return "", false
	}
	return string(v.Text), true
}

// AsDate returns v's date, if v is KindDate.
func (v Value) AsDate() (Date, bool) {
	if v.Kind != KindDate {
		return Date{}, false
	}
	return v.Date, true
}

// AsDict returns v's entries, if v is KindDict or KindNumberedDict.
func (v Value) AsDict() ([]Entry, bool) {
	if v.Kind != KindDict && v.Kind != KindNumberedDict {
		return nil, false
	}
	return v.Entries, true
}

// AsArray returns v's elements, if v is KindArray.
func (v Value) AsArray() ([]Value, bool) {
	if v.Kind != KindArray {
		return nil, false
	}
	return v.Elements, true
}

// AsSet returns v's elements, if v is KindSet.
func (v Value) AsSet() ([]Value, bool) {
	if v.Kind != KindSet {
		return nil, false
	}
	return v.Elements, true
}
