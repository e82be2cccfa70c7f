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

//go:build !(amd64 && (linux || darwin))

package recordjit

import (
	"github.com/binsortio/binsort/recordcmp"
	"github.com/binsortio/binsort/recordkey"
)

// buildNative always declines outside amd64 Linux/Darwin: there is no
// code generator for any other instruction set, and no raw
// mmap/mprotect code page on other OSes either, so Generate falls back
// to the portable comparator unconditionally. This is never surfaced to
// callers as an error.
func buildNative(keys recordkey.List, recordLen int) ([]byte, bool) {
	return nil, false
}

// bindNative is unreachable on these platforms (buildNative never
// returns ok=true), but must still exist for comparator.go to compile
// on every platform.
func bindNative(p *codePage) recordcmp.Func {
	panic("recordjit: bindNative called without native code")
}
