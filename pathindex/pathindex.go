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

// Package pathindex implements the path index of §4.7: typed,
// dotted-path lookup over an already-parsed ast.Value tree.
// GetAtPath descends one component at a time; the Get* variants wrap
// it with a type check against the terminal value's Kind.
package pathindex

import (
	"strconv"
	"strings"

	"github.com/clausewitz-go/clausewitz/ast"
	"github.com/clausewitz-go/clausewitz/reporter"
)

// GetAtPath descends tree one dotted-path component at a time:
//
//   - On Dict/NumberedDict, the first entry whose key equals the
//     component is selected; duplicate keys are not deduplicated, but
//     the first one wins here.
//   - On Array, the component is parsed as a non-negative integer and
//     the element at that position is returned. ast.Value's Array
//     stores elements sorted into ascending original-index order and
//     does not retain the original indices, so this accessor selects by
//     dense, sorted position, not by source index: when the source
//     indices have gaps (e.g. "{ 0=a 5=b }"), component "1" selects b
//     and component "5" is not found.
//   - On Set, indexing is an error: a Set has no keys or positions.
//   - On a scalar, any remaining path component is an error.
func GetAtPath(tree ast.Value, path string) (ast.Value, error) {
	if path == "" {
		return ast.Value{}, reporter.Config("path must not be empty")
	}
	cur := tree
	for _, comp := range strings.Split(path, ".") {
		next, err := step(cur, comp, path)
		if err != nil {
			return ast.Value{}, err
		}
		cur = next
	}
	return cur, nil
}

func step(cur ast.Value, comp, fullPath string) (ast.Value, error) {
	switch cur.Kind {
	case ast.KindDict, ast.KindNumberedDict:
		for _, e := range cur.Entries {
			if string(e.Key) == comp {
				return e.Value, nil
			}
		}
		return ast.Value{}, reporter.PathNotFound(fullPath)
	case ast.KindArray:
		idx, err := strconv.ParseInt(comp, 10, 64)
		if err != nil || idx < 0 {
			return ast.Value{}, reporter.PathNotFound(fullPath)
		}
		if idx >= int64(len(cur.Elements)) {
			return ast.Value{}, reporter.PathNotFound(fullPath)
		}
		return cur.Elements[idx], nil
	case ast.KindSet:
		return ast.Value{}, reporter.PathTypeMismatch(fullPath, "dict or array", "set")
	default:
		return ast.Value{}, reporter.PathTypeMismatch(fullPath, "dict or array", cur.Kind.String())
	}
}

// GetInteger wraps GetAtPath, requiring the terminal value to be a
// KindInteger.
func GetInteger(tree ast.Value, path string) (int64, error) {
	v, err := GetAtPath(tree, path)
	if err != nil {
		return 0, err
	}
	i, ok := v.AsInteger()
	if !ok {
		return 0, reporter.PathTypeMismatch(path, "integer", v.Kind.String())
	}
	return i, nil
}

// GetDecimal wraps GetAtPath, requiring the terminal value to be a
// KindDecimal -- unlike GetNumber, it does not coerce a KindInteger.
func GetDecimal(tree ast.Value, path string) (float64, error) {
	v, err := GetAtPath(tree, path)
	if err != nil {
		return 0, err
	}
	if v.Kind != ast.KindDecimal {
		return 0, reporter.PathTypeMismatch(path, "decimal", v.Kind.String())
	}
	return v.Decimal, nil
}

// GetNumber wraps GetAtPath, coercing either KindInteger or
// KindDecimal to float64 per §4.7's get_number_at_path rule.
func GetNumber(tree ast.Value, path string) (float64, error) {
	v, err := GetAtPath(tree, path)
	if err != nil {
		return 0, err
	}
	n, ok := v.AsNumber()
	if !ok {
		return 0, reporter.PathTypeMismatch(path, "number", v.Kind.String())
	}
	return n, nil
}

// GetString wraps GetAtPath, requiring the terminal value to be a
// KindStringLiteral.
func GetString(tree ast.Value, path string) (string, error) {
	v, err := GetAtPath(tree, path)
	if err != nil {
		return "", err
	}
	s, ok := v.AsString()
	if !ok {
		return "", reporter.PathTypeMismatch(path, "string", v.Kind.String())
	}
	return s, nil
}

// GetIdentifier wraps GetAtPath, requiring the terminal value to be a
// KindIdentifier.
func GetIdentifier(tree ast.Value, path string) (string, error) {
	v, err := GetAtPath(tree, path)
	if err != nil {
		return "", err
	}
	s, ok := v.AsIdentifier()
	if !ok {
		return "", reporter.PathTypeMismatch(path, "identifier", v.Kind.String())
	}
	return s, nil
}

// GetDate wraps GetAtPath, requiring the terminal value to be a
// KindDate.
func GetDate(tree ast.Value, path string) (ast.Date, error) {
	v, err := GetAtPath(tree, path)
	if err != nil {
		return ast.Date{}, err
	}
	d, ok := v.AsDate()
	if !ok {
		return ast.Date{}, reporter.PathTypeMismatch(path, "date", v.Kind.String())
	}
	return d, nil
}

// GetDict wraps GetAtPath, requiring the terminal value to be a
// KindDict or KindNumberedDict, and returns its entries.
func GetDict(tree ast.Value, path string) ([]ast.Entry, error) {
	v, err := GetAtPath(tree, path)
	if err != nil {
		return nil, err
	}
	entries, ok := v.AsDict()
	if !ok {
		return nil, reporter.PathTypeMismatch(path, "dict", v.Kind.String())
	}
	return entries, nil
}

// GetNumberedDict wraps GetAtPath, requiring the terminal value to be
// a KindNumberedDict, and returns its tag and entries separately.
func GetNumberedDict(tree ast.Value, path string) (tag int64, entries []ast.Entry, err error) {
	v, err := GetAtPath(tree, path)
	if err != nil {
		return 0, nil, err
	}
	if v.Kind != ast.KindNumberedDict {
		return 0, nil, reporter.PathTypeMismatch(path, "numbered_dict", v.Kind.String())
	}
	return v.Tag, v.Entries, nil
}

// GetArray wraps GetAtPath, requiring the terminal value to be a
// KindArray.
func GetArray(tree ast.Value, path string) ([]ast.Value, error) {
	v, err := GetAtPath(tree, path)
	if err != nil {
		return nil, err
	}
	elements, ok := v.AsArray()
	if !ok {
		return nil, reporter.PathTypeMismatch(path, "array", v.Kind.String())
	}
	return elements, nil
}

// GetSet wraps GetAtPath, requiring the terminal value to be a
// KindSet.
func GetSet(tree ast.Value, path string) ([]ast.Value, error) {
	v, err := GetAtPath(tree, path)
	if err != nil {
		return nil, err
	}
	elements, ok := v.AsSet()
	if !ok {
		return nil, reporter.PathTypeMismatch(path, "set", v.Kind.String())
	}
	return elements, nil
}
