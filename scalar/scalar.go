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

// Package scalar implements the leaf-token parsers of §4.2: keys,
// quoted strings, integers, decimals, and dates. All functions take
// and return byte slices of the caller's buffer; nothing here
// allocates string contents.
package scalar

import (
	"strconv"

	"github.com/clausewitz-go/clausewitz/ast"
	"github.com/clausewitz-go/clausewitz/classify"
	"github.com/clausewitz-go/clausewitz/reporter"
)

// Key scans a key: either an identifier-class run (which, unlike an
// identifier value, may begin with a digit) or a quoted literal.
func Key(input []byte) (key, rest []byte, err error) {
	if len(input) > 0 && input[0] == '"' {
		return QuotedContents(input)
	}
	run, rest := classify.TakeWhile(input, classify.Identifier)
	if len(run) == 0 {
		return nil, input, reporter.UnexpectedEndOfInput("a key")
	}
	return run, rest, nil
}

// Identifier scans an identifier-class run to be used as an
// Identifier *value*: it fails if the run is empty or if its first
// byte is a digit (unlike Key, which allows digit-led unquoted keys).
func Identifier(input []byte) (text, rest []byte, err error) {
	run, rest := classify.TakeWhile(input, classify.Identifier)
	if len(run) == 0 {
		return nil, input, reporter.UnexpectedEndOfInput("an identifier")
	}
	if classify.Digit.Test(run[0]) {
		return nil, input, reporter.UnexpectedEndOfInput("an identifier (not a digit)")
	}
	return run, rest, nil
}

// QuotedContents scans '"' + a string-literal-body run + '"' and
// returns the contents between the quotes (the quotes themselves are
// not included and are not unescaped).
func QuotedContents(input []byte) (contents, rest []byte, err error) {
	if len(input) == 0 || input[0] != '"' {
		return nil, input, reporter.UnexpectedEndOfInput(`'"'`)
	}
	body, after := classify.TakeWhile(input[1:], classify.StringBody)
	if len(after) == 0 || after[0] != '"' {
		return nil, input, reporter.UnexpectedEndOfInput(`closing '"'`)
	}
	return body, after[1:], nil
}

// Integer scans an optional '-' followed by one or more digits.
func Integer(input []byte) (value int64, length int, rest []byte, err error) {
	i := 0
	if len(input) > 0 && input[0] == '-' {
		i++
	}
	digits, _ := classify.TakeWhile(input[i:], classify.Digit)
	if len(digits) == 0 {
		return 0, 0, input, reporter.UnexpectedEndOfInput("digits")
	}
	text := string(input[:i+len(digits)])
	n, convErr := strconv.ParseInt(text, 10, 64)
	if convErr != nil {
		return 0, 0, input, reporter.InvalidScalar("integer", text, convErr)
	}
	return n, i + len(digits), input[i+len(digits):], nil
}

// Decimal scans an optional '-', one or more digits, '.', one or more
// digits.
func Decimal(input []byte) (value float64, length int, rest []byte, err error) {
	i := 0
	if len(input) > 0 && input[0] == '-' {
		i++
	}
	intPart, after := classify.TakeWhile(input[i:], classify.Digit)
	if len(intPart) == 0 {
		return 0, 0, input, reporter.UnexpectedEndOfInput("digits")
	}
	i += len(intPart)
	if len(after) == 0 || after[0] != '.' {
		return 0, 0, input, reporter.UnexpectedEndOfInput("'.'")
	}
	i++ // consume '.'
	fracPart, _ := classify.TakeWhile(input[i:], classify.Digit)
	if len(fracPart) == 0 {
		return 0, 0, input, reporter.UnexpectedEndOfInput("digits")
	}
	i += len(fracPart)
	text := string(input[:i])
	f, convErr := strconv.ParseFloat(text, 64)
	if convErr != nil {
		return 0, 0, input, reporter.InvalidScalar("decimal", text, convErr)
	}
	return f, i, input[i:], nil
}

// DateBody scans digits '.' digits '.' digits (no surrounding
// quotes -- the caller is responsible for requiring quotes per §4.2)
// and validates it as a calendar date: month in 1..=12, day valid for
// that month (including leap years).
func DateBody(input []byte) (date ast.Date, length int, rest []byte, err error) {
	i := 0
	year, yearLen, afterYear, yearErr := unsignedRun(input[i:])
	if yearErr != nil {
		return ast.Date{}, 0, input, yearErr
	}
	i += yearLen
	if len(afterYear) == 0 || afterYear[0] != '.' {
		return ast.Date{}, 0, input, reporter.UnexpectedEndOfInput("'.'")
	}
	i++
	month, monthLen, afterMonth, monthErr := unsignedRun(input[i:])
	if monthErr != nil {
		return ast.Date{}, 0, input, monthErr
	}
	i += monthLen
	if len(afterMonth) == 0 || afterMonth[0] != '.' {
		return ast.Date{}, 0, input, reporter.UnexpectedEndOfInput("'.'")
	}
	i++
	day, dayLen, afterDay, dayErr := unsignedRun(input[i:])
	if dayErr != nil {
		return ast.Date{}, 0, input, dayErr
	}
	i += dayLen

	text := string(input[:i])
	if month < 1 || month > 12 {
		return ast.Date{}, 0, input, reporter.InvalidScalar("date", text, nil)
	}
	if day < 1 || int(day) > daysInMonth(year, int(month)) {
		return ast.Date{}, 0, input, reporter.InvalidScalar("date", text, nil)
	}
	return ast.Date{Year: year, Month: int(month), Day: int(day)}, i, afterDay, nil
}

func unsignedRun(input []byte) (value int64, length int, rest []byte, err error) {
	digits, rest := classify.TakeWhile(input, classify.Digit)
	if len(digits) == 0 {
		return 0, 0, input, reporter.UnexpectedEndOfInput("digits")
	}
	n, convErr := strconv.ParseInt(string(digits), 10, 64)
	if convErr != nil {
		return 0, 0, input, reporter.InvalidScalar("date", string(digits), convErr)
	}
	return n, len(digits), rest, nil
}

func isLeapYear(year int64) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysInMonth(year int64, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// LooksLikeInteger reports whether text parses as a signed 64-bit
// integer in full -- the strict test used by the grammar recognizer's
// block-shape lookahead (§4.3, §9's open question): "parses as i64",
// not merely "starts with digits". A prefix like "3_year" is NOT an
// integer by this test even though it starts with a digit.
func LooksLikeInteger(text []byte) bool {
	if len(text) == 0 {
		return false
	}
	_, err := strconv.ParseInt(string(text), 10, 64)
	return err == nil
}
