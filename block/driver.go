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

package block

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/clausewitz-go/clausewitz/ast"
	"github.com/clausewitz-go/clausewitz/classify"
	"github.com/clausewitz-go/clausewitz/parser"
)

// Driver runs the block-parallel parse of §4.6. The zero Driver is
// usable: MaxParallelism defaults to min(GOMAXPROCS, NumCPU), and
// Logger defaults to slog.Default().
type Driver struct {
	// MaxParallelism bounds how many blocks are parsed concurrently. If
	// unspecified or non-positive, min(runtime.GOMAXPROCS(-1),
	// runtime.NumCPU()) is used, matching the teacher's executor.
	MaxParallelism int
	// Logger receives a Warn line for every block dropped because it
	// failed to parse. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Parse splits input into top-level blocks (Split), keeps only the
// blocks whose leading key is in keys (or every block, if keys is
// empty), parses the survivors concurrently, and concatenates their
// Dict bodies into one top-level Dict, preserving the blocks' original
// source order. A block that fails to parse, or that leaves unparsed
// trailing input, is dropped and logged rather than failing the whole
// call: per §4.6 this driver offers a best-effort guarantee, not a
// full-parse one.
//
// The merged result's Span is zero-valued: it does not correspond to
// any single contiguous region of input once blocks have been
// filtered and dropped.
func (d *Driver) Parse(ctx context.Context, input []byte, keys []string) (ast.Value, error) {
	blocks := Split(input)

	type candidate struct {
		block []byte
	}
	var candidates []candidate
	for _, b := range blocks {
		if hasKeyPrefix(b, keys) {
			candidates = append(candidates, candidate{block: b})
		}
	}
	if len(candidates) == 0 {
		return ast.Dict(nil, ast.Span{}), nil
	}

	par := d.MaxParallelism
	if par <= 0 {
		par = runtime.GOMAXPROCS(-1)
		if cpus := runtime.NumCPU(); par > cpus {
			par = cpus
		}
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	parsed := make([]ast.Value, len(candidates))
	survived := make([]bool, len(candidates))

	sem := semaphore.NewWeighted(int64(par))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			v, rest, err := parser.Parse(c.block)
			if err == nil {
				_, rest = classify.TakeWhile(rest, classify.Space)
			}
			if err != nil || len(rest) != 0 {
				logger.Warn("block: dropping unparseable top-level block", "bytes", len(c.block), "error", err)
				return nil
			}
			parsed[i] = v
			survived[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ast.Value{}, err
	}

	var entries []ast.Entry
	for i := range candidates {
		if !survived[i] {
			continue
		}
		blockEntries, _ := parsed[i].AsDict()
		entries = append(entries, blockEntries...)
	}
	return ast.Dict(entries, ast.Span{}), nil
}
