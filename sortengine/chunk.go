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

// Package sortengine partitions a memory-mapped region of fixed-length
// records into chunks, sorts each chunk in parallel with an in-place
// quicksort, and k-way merges the results back into the region.
package sortengine

import "fmt"

// chunk is a half-open record-index range [lo, hi) assigned to one
// worker.
type chunk struct {
	lo, hi int
}

func (c chunk) size() int { return c.hi - c.lo }

// planChunks partitions n records into contiguous chunks: the chunk
// size is C = min(max(1000, ceil(n/threads)), n); the region splits into
// ceil(n/C) contiguous chunks of C records each, except possibly the
// last.
func planChunks(n, threads int) []chunk {
	if n == 0 {
		return nil
	}
	if threads < 1 {
		threads = 1
	}
	c := ceilDiv(n, threads)
	if c < 1000 {
		c = 1000
	}
	if c > n {
		c = n
	}
	numChunks := ceilDiv(n, c)
	chunks := make([]chunk, 0, numChunks)
	for lo := 0; lo < n; lo += c {
		hi := lo + c
		if hi > n {
			hi = n
		}
		chunks = append(chunks, chunk{lo: lo, hi: hi})
	}
	return chunks
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

// validateRegion checks the engine's own precondition independent of any
// caller: R must be positive and the region must be exactly R*N bytes.
// Sort calls this before doing any work.
func validateRegion(region []byte, recordLen int) (n int, err error) {
	if recordLen <= 0 {
		return 0, fmt.Errorf("record length must be positive, got %d", recordLen)
	}
	if len(region)%recordLen != 0 {
		return 0, fmt.Errorf("region size %d is not a multiple of record length %d", len(region), recordLen)
	}
	return len(region) / recordLen, nil
}
