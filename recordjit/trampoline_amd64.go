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

//go:build amd64 && (linux || darwin)

package recordjit

import (
	"unsafe"

	"github.com/binsortio/binsort/recordcmp"
)

// callAsm invokes the machine code at addr as though it were a plain
// System V AMD64 function taking two pointers and returning an int32 --
// the ABI every buildNative block is written against. Implemented in
// trampoline_amd64.s so that the calling convention stays fixed and
// documented regardless of which Go version's internal ABI is in use for
// ordinary Go-to-Go calls.
//
//go:noescape
func callAsm(addr uintptr, a, b unsafe.Pointer) int32

// bindNative wraps a generated code page as a recordcmp.Func.
func bindNative(p *codePage) recordcmp.Func {
	addr := p.addr
	return func(a, b []byte) int {
		return int(callAsm(addr, unsafe.Pointer(&a[0]), unsafe.Pointer(&b[0])))
	}
}
