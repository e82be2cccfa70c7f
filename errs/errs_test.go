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

package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewNilIsNil(t *testing.T) {
	if err := New(FileError, nil); err != nil {
		t.Fatalf("New(kind, nil) = %v, want nil", err)
	}
}

func TestKindOfRoundTrips(t *testing.T) {
	err := Newf(KeyError, "position %d out of range", 0)
	if got := KindOf(err); got != KeyError {
		t.Fatalf("KindOf = %v, want KeyError", got)
	}
}

func TestKindOfUnknownForPlainError(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != Unknown {
		t.Fatalf("KindOf = %v, want Unknown", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := New(FileError, cause)
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is did not find the wrapped cause")
	}
}
