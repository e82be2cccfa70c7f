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
	"fmt"
	"unsafe"

	"golang.org/x/sys/cpu"
	"golang.org/x/sys/unix"
)

// codePage owns one anonymous mapping holding freshly emitted machine
// code. It is born writable and non-executable, then transitioned to
// executable and read-only once the code has been copied in -- standard
// W^X discipline, made explicit here because this code is generated at
// run time rather than compiled ahead of time.
type codePage struct {
	addr uintptr
	size int
}

// jitSupported reports whether the host CPU can run the instructions this
// package emits. Every instruction buildNative produces is baseline
// amd64 (no SSE/AVX required), so this is a formality, but it follows
// the standard pattern of gating codegen on cpu.X86 feature bits before
// ever emitting a vector instruction.
func jitSupported() bool {
	return cpu.X86.HasSSE2
}

// newCodePage copies code into a fresh anonymous mapping and switches it
// from RW to RX, returning a codePage ready to be called through.
func newCodePage(code []byte) (*codePage, error) {
	if !jitSupported() {
		return nil, fmt.Errorf("recordjit: host CPU lacks required features")
	}
	size := len(code)
	if size == 0 {
		return nil, fmt.Errorf("recordjit: empty code buffer")
	}
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("recordjit: mmap code page: %w", err)
	}
	copy(b, code)
	if err := unix.Mprotect(b, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		unix.Munmap(b)
		return nil, fmt.Errorf("recordjit: mprotect RX: %w", err)
	}
	return &codePage{addr: uintptr(unsafe.Pointer(&b[0])), size: size}, nil
}

// release unmaps the code page. Calling a Comparator after release is
// released is undefined behavior; Comparator.Close must only be called
// once no other goroutine can still be invoking Compare.
func (p *codePage) release() error {
	b := unsafe.Slice((*byte)(unsafe.Pointer(p.addr)), p.size)
	return unix.Munmap(b)
}
