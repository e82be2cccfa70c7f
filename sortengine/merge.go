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

import "container/heap"

// mergeChunks performs a single-threaded k-way merge: at each step the
// head record of every non-empty chunk is inspected, the minimum (ties
// broken by lowest chunk index) is appended to scratch, and that
// chunk's head advances. A heap keeps this at O(log k) per record
// instead of a linear scan over chunks; ties broken by chunk index keep
// the output identical to what a linear scan would produce.
func mergeChunks(v recordView, chunks []chunk, scratch []byte, cmp func(a, b []byte) int) {
	h := &mergeHeap{v: v, cmp: cmp}
	for idx, c := range chunks {
		if c.size() > 0 {
			h.items = append(h.items, mergeItem{chunkIdx: idx, pos: c.lo, end: c.hi})
		}
	}
	heap.Init(h)

	out := 0
	for h.Len() > 0 {
		it := h.items[0]
		copy(scratch[out*v.rlen:(out+1)*v.rlen], v.at(it.pos))
		out++
		it.pos++
		if it.pos < it.end {
			h.items[0] = it
			heap.Fix(h, 0)
		} else {
			heap.Pop(h)
		}
	}
}

type mergeItem struct {
	chunkIdx int
	pos, end int
}

type mergeHeap struct {
	items []mergeItem
	v     recordView
	cmp   func(a, b []byte) int
}

func (h *mergeHeap) Len() int { return len(h.items) }

func (h *mergeHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	c := h.cmp(h.v.at(a.pos), h.v.at(b.pos))
	if c != 0 {
		return c < 0
	}
	return a.chunkIdx < b.chunkIdx
}

func (h *mergeHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *mergeHeap) Push(x any) { h.items = append(h.items, x.(mergeItem)) }

func (h *mergeHeap) Pop() any {
	n := len(h.items)
	x := h.items[n-1]
	h.items = h.items[:n-1]
	return x
}
