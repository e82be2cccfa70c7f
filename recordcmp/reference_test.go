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

package recordcmp

import (
	"testing"

	"github.com/binsortio/binsort/recordkey"
)

func TestCompareFallsThroughOnTies(t *testing.T) {
	keys := recordkey.List{
		{Position: 1, Length: 1, Type: recordkey.Character, Order: recordkey.Ascending},
		{Position: 2, Length: 1, Type: recordkey.Character, Order: recordkey.Ascending},
	}
	a := []byte{1, 1}
	b := []byte{1, 2}
	if c := Compare(keys, a, b); c >= 0 {
		t.Fatalf("Compare(a,b) = %d, want negative", c)
	}
	if c := Compare(keys, a, a); c != 0 {
		t.Fatalf("Compare(a,a) = %d, want 0", c)
	}
}

func TestCompareDescendingNegates(t *testing.T) {
	keys := recordkey.List{{Position: 1, Length: 1, Type: recordkey.Character, Order: recordkey.Descending}}
	a := []byte{1}
	b := []byte{2}
	if c := Compare(keys, a, b); c <= 0 {
		t.Fatalf("descending Compare(a,b) = %d, want positive", c)
	}
}

// TestNewHasNoSharedState is the regression test against global
// comparator state in the fallback: two Funcs built from different
// KeyLists must not interfere with each other, even interleaved.
func TestNewHasNoSharedState(t *testing.T) {
	k1 := recordkey.List{{Position: 1, Length: 1, Type: recordkey.Character, Order: recordkey.Ascending}}
	k2 := recordkey.List{{Position: 2, Length: 1, Type: recordkey.Character, Order: recordkey.Ascending}}
	f1 := New(k1)
	f2 := New(k2)

	a := []byte{1, 9}
	b := []byte{2, 0}

	if c := f1(a, b); c >= 0 {
		t.Fatalf("f1(a,b) = %d, want negative (compares byte 0: 1 < 2)", c)
	}
	if c := f2(a, b); c <= 0 {
		t.Fatalf("f2(a,b) = %d, want positive (compares byte 1: 9 > 0)", c)
	}
	// Re-run f1 after f2 to confirm no cross-talk.
	if c := f1(a, b); c >= 0 {
		t.Fatalf("f1(a,b) after f2 = %d, want negative", c)
	}
}
