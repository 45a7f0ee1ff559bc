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

package pathindex

import (
	"sync"

	art "github.com/plar/go-adaptive-radix-tree"

	"github.com/clausewitz-go/clausewitz/ast"
)

// Index is a radix-tree-backed memoization cache in front of
// GetAtPath, for callers that repeat lookups of the same (or
// similarly-prefixed) dotted paths against one parsed tree -- a
// bounded-state save file reader that re-asks for
// "country.budget.current_month.income" every tick, say. It is safe
// for concurrent use.
//
// A plain GetAtPath call re-descends the tree from the root every
// time; Index keys its cache by the literal path string in an
// adaptive radix tree (the same data structure the teacher's linker
// uses to key its descriptor pool by fully-qualified name), so a
// repeated path returns without walking the tree again.
type Index struct {
	tree ast.Value

	mu    sync.RWMutex
	cache art.Tree
}

type cacheEntry struct {
	value ast.Value
	err   error
}

// NewIndex builds an Index over an already-parsed tree. The tree is
// not copied; it must not be mutated while the Index is in use (it
// isn't mutated anywhere in this package -- ast.Value is immutable
// after construction per §3).
func NewIndex(tree ast.Value) *Index {
	return &Index{tree: tree, cache: art.New()}
}

// Get is GetAtPath(tree, path), memoized: the first call for a given
// path descends the tree and caches the outcome (value or error); every
// subsequent call with the same path returns the cached outcome.
func (idx *Index) Get(path string) (ast.Value, error) {
	key := art.Key(path)

	idx.mu.RLock()
	if v, found := idx.cache.Search(key); found {
		idx.mu.RUnlock()
		entry := v.(cacheEntry)
		return entry.value, entry.err
	}
	idx.mu.RUnlock()

	value, err := GetAtPath(idx.tree, path)

	idx.mu.Lock()
	idx.cache.Insert(key, cacheEntry{value: value, err: err})
	idx.mu.Unlock()

	return value, err
}

// Invalidate drops any cached outcome for path, forcing the next Get
// to re-descend the tree. It is rarely needed -- the tree an Index
// wraps is immutable -- but is provided for callers that build an
// Index once and want to forget a transient lookup error (e.g. a path
// that didn't exist in an earlier, partially-applied document).
func (idx *Index) Invalidate(path string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.cache.Delete(art.Key(path))
}
