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

// Package recordcmp holds the portable, fully specified multi-key record
// comparator. It is the oracle the JIT generator (package recordjit) must
// match bit-for-bit, and it doubles as the JIT's fallback when native code
// generation is unavailable or declines.
package recordcmp

import "github.com/binsortio/binsort/recordkey"

// Compare walks keys in order, applying recordkey.CompareField to each and
// negating the result for descending keys, returning at the first
// tie-breaking key. If every key compares equal, Compare returns 0.
func Compare(keys recordkey.List, a, b []byte) int {
	for _, k := range keys {
		c := recordkey.CompareField(a, b, k)
		if k.Order == recordkey.Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// Func is the call shape every comparator (reference or JIT) presents to
// the sort engine: a closure over an immutable key list, with no
// externally observable mutable state. Each Func returned here owns its
// own keys and may be used concurrently by any number of sort
// invocations at once.
type Func func(a, b []byte) int

// New returns a Func that dispatches through Compare for the given key
// list. Each call captures its own copy-free reference to keys; keys must
// not be mutated for the lifetime of the returned Func.
func New(keys recordkey.List) Func {
	return func(a, b []byte) int {
		return Compare(keys, a, b)
	}
}
