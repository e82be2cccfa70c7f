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

// Package recordkey defines the key language used to address and compare
// fields inside fixed-length binary records, and validates KeySpecs at
// admission time so that no bounds check is needed on the sort's hot path.
package recordkey

import "fmt"

// Type names the wire representation of a key field.
type Type int

const (
	// Character is an unsigned lexicographic byte sequence.
	Character Type = iota
	// LittleEndianInt is a two's-complement signed integer, little-endian.
	LittleEndianInt
	// BigEndianInt is a two's-complement signed integer, big-endian.
	BigEndianInt
	// LittleEndianFloat is an IEEE 754 binary32/binary64 value, little-endian.
	LittleEndianFloat
)

func (t Type) String() string {
	switch t {
	case Character:
		return "character"
	case LittleEndianInt:
		return "little-endian int"
	case BigEndianInt:
		return "big-endian int"
	case LittleEndianFloat:
		return "little-endian float"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Order is the direction in which a key contributes to the overall order.
type Order int

const (
	// Ascending sorts low values first.
	Ascending Order = 1
	// Descending sorts high values first.
	Descending Order = -1
)

func (o Order) String() string {
	if o == Descending {
		return "descending"
	}
	return "ascending"
}

// Spec is one element of a sort specification: a (position, length, type,
// order) tuple naming one comparison field within a record.
//
// Position is 1-based, matching the CLI surface; Offset converts it to
// the 0-based byte index used internally.
type Spec struct {
	Position int // 1-based byte offset into the record
	Length   int // byte width of the key
	Type     Type
	Order    Order
}

// Offset returns the 0-based byte index of the key within a record.
func (s Spec) Offset() int { return s.Position - 1 }

// Validate checks that position >= 1, the key fits within a record of
// length recordLen, and numeric/float widths are one of the permitted
// sizes. Character keys may be any length >= 1.
func (s Spec) Validate(recordLen int) error {
	if s.Position < 1 {
		return fmt.Errorf("key position must be >= 1 (1-based), got %d", s.Position)
	}
	if s.Length < 1 {
		return fmt.Errorf("key length must be >= 1, got %d", s.Length)
	}
	if s.Offset()+s.Length > recordLen {
		return fmt.Errorf("key at position %d with length %d extends beyond record length %d",
			s.Position, s.Length, recordLen)
	}
	switch s.Type {
	case Character:
		// arbitrary length permitted
	case LittleEndianInt, BigEndianInt:
		if s.Length != 2 && s.Length != 4 && s.Length != 8 {
			return fmt.Errorf("integer key length must be 2, 4, or 8 bytes, got %d", s.Length)
		}
	case LittleEndianFloat:
		if s.Length != 4 && s.Length != 8 {
			return fmt.Errorf("float key length must be 4 or 8 bytes, got %d", s.Length)
		}
	default:
		return fmt.Errorf("unknown key type %v", s.Type)
	}
	if s.Order != Ascending && s.Order != Descending {
		return fmt.Errorf("unknown sort order %v", s.Order)
	}
	return nil
}

// List is an ordered sequence of Specs, treated as a lexicographic tuple:
// earlier keys dominate.
type List []Spec

// Validate checks every Spec in the list and requires the list be
// non-empty.
func (l List) Validate(recordLen int) error {
	if len(l) == 0 {
		return fmt.Errorf("key list must not be empty")
	}
	for i, k := range l {
		if err := k.Validate(recordLen); err != nil {
			return fmt.Errorf("key %d: %w", i, err)
		}
	}
	return nil
}
