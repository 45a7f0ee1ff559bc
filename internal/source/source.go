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

// Package source is a thin Input Provider collaborator (§6): it
// yields a contiguous, read-only byte slice backed by a memory-mapped
// file, with a lifetime the caller controls by calling Close. It is
// deliberately minimal -- §1 places mmap'ing and file I/O out of
// THE CORE's scope ("thin collaborators; only the contracts they
// require from the core are specified") -- this package exists only
// so the core has a concrete Input Provider to be exercised against,
// not as a benchmarking front end.
package source

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Source is a memory-mapped, read-only view of a file. The returned
// byte slice (Bytes) is valid until Close is called; every ast.Value
// leaf the core parses out of it borrows from that slice, so callers
// must not Close a Source while any tree parsed from it is still in
// use.
type Source struct {
	file *os.File
	mm   mmap.MMap
}

// Map opens path and memory-maps it read-only. The file handle is
// kept open for the lifetime of the Source (some platforms require
// this) and is closed by Close along with the mapping.
func Map(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", path, err)
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("source: mmap %s: %w", path, err)
	}
	return &Source{file: f, mm: m}, nil
}

// Bytes returns the mapped file contents. The slice is valid only
// until Close is called.
func (s *Source) Bytes() []byte {
	return s.mm
}

// Close unmaps the file and closes the underlying file handle.
func (s *Source) Close() error {
	unmapErr := s.mm.Unmap()
	closeErr := s.file.Close()
	if unmapErr != nil {
		return unmapErr
	}
	return closeErr
}
