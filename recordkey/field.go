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

package recordkey

import (
	"bytes"
	"encoding/binary"
	"math"
)

// CompareField compares the key field named by k within records a and b,
// returning a negative, zero, or positive value. a and b must each be at
// least k.Offset()+k.Length bytes long; Spec.Validate is assumed to have
// already checked this against the record length, so this function does
// not re-check bounds.
func CompareField(a, b []byte, k Spec) int {
	off := k.Offset()
	switch k.Type {
	case Character:
		return bytes.Compare(a[off:off+k.Length], b[off:off+k.Length])
	case LittleEndianInt:
		return compareInt(readSigned(a[off:off+k.Length], binary.LittleEndian), readSigned(b[off:off+k.Length], binary.LittleEndian))
	case BigEndianInt:
		return compareInt(readSigned(a[off:off+k.Length], binary.BigEndian), readSigned(b[off:off+k.Length], binary.BigEndian))
	case LittleEndianFloat:
		return compareFloat(readFloat(a[off:off+k.Length]), readFloat(b[off:off+k.Length]))
	default:
		panic("recordkey: unreachable key type")
	}
}

// byteOrder is the subset of binary.ByteOrder CompareField needs.
type byteOrder interface {
	Uint16([]byte) uint16
	Uint32([]byte) uint32
	Uint64([]byte) uint64
}

// readSigned widens a 2/4/8-byte two's-complement integer in the given byte
// order to a signed 64-bit value.
func readSigned(b []byte, order byteOrder) int64 {
	switch len(b) {
	case 2:
		return int64(int16(order.Uint16(b)))
	case 4:
		return int64(int32(order.Uint32(b)))
	case 8:
		return int64(order.Uint64(b))
	default:
		panic("recordkey: invalid integer key length")
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// readFloat decodes a little-endian IEEE 754 value, widening binary32 to
// float64.
func readFloat(b []byte) float64 {
	switch len(b) {
	case 4:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case 8:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	default:
		panic("recordkey: invalid float key length")
	}
}

// compareFloat implements ordinary floating-point ordering with an
// explicit NaN rule: NaN comparisons are unordered (Go's < and > both
// report false against NaN), so without an explicit rule two NaNs, or a
// NaN and a number, would always compare equal and never establish a
// consistent total order across a sort. NaN is treated as greater than
// every other value, including +Inf; ties between two NaNs are broken
// by comparing the bit patterns with the sign bit cleared, so that
// distinct NaN payloads still produce a stable (if arbitrary) order and
// NaNs differing only in sign compare equal.
func compareFloat(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return compareInt(int64(math.Float64bits(a)&^(1<<63)), int64(math.Float64bits(b)&^(1<<63)))
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
