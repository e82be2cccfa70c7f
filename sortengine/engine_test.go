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
	"bytes"
	"math/rand"
	"sort"
	"testing"
)

// keyCmp treats each 4-byte record as a big-endian-free little-endian
// uint32 key, ascending -- enough to exercise the engine without pulling
// in the recordkey/recordjit packages, keeping this a hermetic unit
// test independent of the record/key model above it.
func keyCmp(a, b []byte) int {
	va := uint32(a[0]) | uint32(a[1])<<8 | uint32(a[2])<<16 | uint32(a[3])<<24
	vb := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	switch {
	case va < vb:
		return -1
	case va > vb:
		return 1
	default:
		return 0
	}
}

func randomRegion(rng *rand.Rand, n int) []byte {
	region := make([]byte, n*4)
	rng.Read(region)
	return region
}

func recordsOf(region []byte, rlen int) [][]byte {
	out := make([][]byte, len(region)/rlen)
	for i := range out {
		out[i] = region[i*rlen : (i+1)*rlen]
	}
	return out
}

func isSorted(region []byte, rlen int, cmp func(a, b []byte) int) bool {
	recs := recordsOf(region, rlen)
	for i := 1; i < len(recs); i++ {
		if cmp(recs[i-1], recs[i]) > 0 {
			return false
		}
	}
	return true
}

func sameMultiset(t *testing.T, before, after []byte, rlen int) {
	a := append([][]byte(nil), recordsOf(before, rlen)...)
	b := append([][]byte(nil), recordsOf(after, rlen)...)
	cp := func(s [][]byte) [][]byte {
		out := make([][]byte, len(s))
		for i, r := range s {
			out[i] = append([]byte(nil), r...)
		}
		sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i], out[j]) < 0 })
		return out
	}
	a, b = cp(a), cp(b)
	if len(a) != len(b) {
		t.Fatalf("record count changed: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			t.Fatalf("record multiset differs at sorted index %d", i)
		}
	}
}

func TestSortCorrectnessAndPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, n := range []int{0, 1, 2, 17, 999, 1001, 5000} {
		region := randomRegion(rng, n)
		before := append([]byte(nil), region...)
		if err := Sort(region, Options{RecordLen: 4, Threads: 4}, keyCmp); err != nil {
			t.Fatalf("n=%d: Sort: %v", n, err)
		}
		if !isSorted(region, 4, keyCmp) {
			t.Fatalf("n=%d: output not sorted", n)
		}
		sameMultiset(t, before, region, 4)
	}
}

func TestSortThreadInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	region := randomRegion(rng, 4001)
	var results [][]byte
	for _, threads := range []int{1, 2, 4, 8} {
		r := append([]byte(nil), region...)
		if err := Sort(r, Options{RecordLen: 4, Threads: threads}, keyCmp); err != nil {
			t.Fatalf("threads=%d: Sort: %v", threads, err)
		}
		results = append(results, r)
	}
	for i := 1; i < len(results); i++ {
		if !bytes.Equal(results[0], results[i]) {
			t.Fatalf("thread count changed output: run 0 vs run %d differ", i)
		}
	}
}

func TestSortIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	region := randomRegion(rng, 2500)
	if err := Sort(region, Options{RecordLen: 4, Threads: 4}, keyCmp); err != nil {
		t.Fatalf("first sort: %v", err)
	}
	again := append([]byte(nil), region...)
	if err := Sort(again, Options{RecordLen: 4, Threads: 4}, keyCmp); err != nil {
		t.Fatalf("second sort: %v", err)
	}
	if !bytes.Equal(region, again) {
		t.Fatalf("sorting an already-sorted file changed it")
	}
}

func TestSortRejectsMisalignedRegion(t *testing.T) {
	region := make([]byte, 10)
	if err := Sort(region, Options{RecordLen: 4, Threads: 1}, keyCmp); err == nil {
		t.Fatalf("expected an alignment error for a 10-byte region with RecordLen=4")
	}
}

func TestSortRejectsZeroRecordLen(t *testing.T) {
	region := make([]byte, 10)
	if err := Sort(region, Options{RecordLen: 0, Threads: 1}, keyCmp); err == nil {
		t.Fatalf("expected an error for RecordLen=0")
	}
}

func TestPlanChunksBounds(t *testing.T) {
	cases := []struct{ n, threads int }{
		{0, 4}, {1, 4}, {999, 4}, {1000, 4}, {4000, 4}, {4001, 4}, {10, 100},
	}
	for _, c := range cases {
		chunks := planChunks(c.n, c.threads)
		total := 0
		for i, ch := range chunks {
			if ch.size() <= 0 {
				t.Fatalf("n=%d threads=%d: empty chunk at %d", c.n, c.threads, i)
			}
			total += ch.size()
		}
		if total != c.n {
			t.Fatalf("n=%d threads=%d: chunks cover %d records, want %d", c.n, c.threads, total, c.n)
		}
	}
}
