// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package sortengine

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Options configures one call to Sort.
type Options struct {
	// RecordLen is R, the fixed record width in bytes. Must be >= 1.
	RecordLen int
	// Threads is the requested worker count T. Values <= 1 run the sort
	// on the calling goroutine only.
	Threads int
	// InsertionCutoff overrides the range length at or below which a range
	// is insertion-sorted rather than partitioned further. Zero selects
	// defaultInsertionCutoff.
	InsertionCutoff int
}

// Sort partitions region into chunks, sorts each chunk in parallel, and
// merges the results back into region in place. cmp must implement a
// total order consistent with a KeyList; the caller (package binsort)
// is responsible for building cmp via recordjit.Generate.
//
// Sort reports a fatal error only for a non-positive record length, a
// region whose size is not an exact multiple of RecordLen, or a worker
// failure. It never fails on sortable input, however large or however
// pathologically ordered.
func Sort(region []byte, opts Options, cmp func(a, b []byte) int) error {
	n, err := validateRegion(region, opts.RecordLen)
	if err != nil {
		return err
	}
	if n <= 1 {
		return nil
	}

	cutoff := opts.InsertionCutoff
	if cutoff <= 0 {
		cutoff = defaultInsertionCutoff
	}

	v := recordView{data: region, rlen: opts.RecordLen}
	chunks := planChunks(n, opts.Threads)

	if len(chunks) <= 1 {
		quicksortRange(v, 0, n, cutoff, cmp)
		return nil
	}

	if err := sortChunksParallel(v, chunks, opts.Threads, cutoff, cmp); err != nil {
		return fmt.Errorf("sortengine: %w", err)
	}

	scratch := slices.Grow(make([]byte, 0, 0), len(region))[:len(region)]
	mergeChunks(v, chunks, scratch, cmp)
	copy(region, scratch)
	return nil
}
