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

import "github.com/binsortio/binsort/recordkey"

// buildNative attempts to emit a straight-line x86-64 comparator for keys
// against records of the given length, following the ABI implemented by
// the trampoline in trampoline_amd64.s: RDI holds a pointer to record a,
// RSI holds a pointer to record b, and the function returns a negative,
// zero, or positive int32 in EAX.
//
// It returns ok=false (decline) when any key cannot be represented as a
// fixed sequence of machine instructions with a statically known size --
// currently this means any LittleEndianFloat key. Replicating the NaN
// total order recordkey.compareFloat defines (NaN sorts last, ties among
// NaNs broken by bit pattern with the sign bit cleared) in hand-emitted SSE code was judged too
// easy to get subtly wrong in code nobody runs through a compiler or test
// binary before it executes; recordcmp.Compare already implements that
// order correctly; see DESIGN.md.
func buildNative(keys recordkey.List, recordLen int) ([]byte, bool) {
	for _, k := range keys {
		if k.Type == recordkey.LittleEndianFloat {
			return nil, false
		}
		off := int64(k.Offset())
		if off < 0 || off > 0x7fffffff {
			return nil, false
		}
	}

	var a asm
	for _, k := range keys {
		emitKey(&a, k)
	}
	a.ret0()
	return a.code, true
}

// emitKey appends the comparison block for a single key to a. Control
// falls through to the next key (or to ret0) whenever the two fields are
// equal; otherwise it returns a nonzero value directly from inside the
// block.
func emitKey(a *asm, k recordkey.Spec) {
	off := int32(k.Offset())
	descending := k.Order == recordkey.Descending

	switch k.Type {
	case recordkey.Character:
		if k.Length == 1 || k.Length == 2 || k.Length == 4 || k.Length == 8 {
			emitFixedLoad(a, off, k.Length, true /* unsigned */)
			a.cmp(regAX, regCX, cmpWidth(k.Length))
			a.setccResult(true)
			a.finishKey(descending)
			return
		}
		emitCharacterLoop(a, off, k.Length, descending)

	case recordkey.LittleEndianInt:
		emitLittleEndianInt(a, off, k.Length)
		a.cmp(regAX, regCX, cmpWidth(k.Length))
		a.setccResult(false)
		a.finishKey(descending)

	case recordkey.BigEndianInt:
		emitBigEndianInt(a, off, k.Length)
		a.cmp(regAX, regCX, cmpWidth(k.Length))
		a.setccResult(false)
		a.finishKey(descending)

	default:
		panic("recordjit: unreachable key type")
	}
}

// cmpWidth is the register width used for the CMP that follows a key's
// load sequence: 8 bytes only when the field itself is 8 bytes wide, 4
// bytes (the smallest GPR size x86-64 offers) otherwise.
func cmpWidth(fieldLen int) int {
	if fieldLen == 8 {
		return 8
	}
	return 4
}

// emitFixedLoad loads a field of the given width from both records into
// eax/ecx (or rax/rcx for width 8), first as a plain little-endian value
// and then, for widths above 1, byte-swapped so that the first byte in
// memory becomes the most significant byte of the register. That matches
// bytes.Compare's lexicographic ordering (recordkey.CompareField's
// Character path) regardless of which field the caller goes on to treat
// the result as.
func emitFixedLoad(a *asm, off int32, width int, zeroExtend bool) {
	a.loadMem(regAX, regDI, off, width, zeroExtend)
	a.loadMem(regCX, regSI, off, width, zeroExtend)
	switch width {
	case 2:
		a.rol16(regAX, 8)
		a.rol16(regCX, 8)
	case 4, 8:
		a.bswap(regAX, width)
		a.bswap(regCX, width)
	}
}

// emitLittleEndianInt loads a signed little-endian integer field into
// eax/rax and ecx/rcx with no byte swap; the in-memory byte order already
// matches x86-64's native little-endian load.
func emitLittleEndianInt(a *asm, off int32, width int) {
	a.loadMem(regAX, regDI, off, width, false)
	a.loadMem(regCX, regSI, off, width, false)
}

// emitBigEndianInt loads a signed big-endian integer field, byte-swapping
// after the load and then re-establishing the correct sign extension for
// 2-byte fields (a 4- or 8-byte swap already leaves a fully-formed signed
// value in the destination register).
func emitBigEndianInt(a *asm, off int32, width int) {
	switch width {
	case 2:
		a.loadMem(regAX, regDI, off, 2, true)
		a.loadMem(regCX, regSI, off, 2, true)
		a.rol16(regAX, 8)
		a.rol16(regCX, 8)
		a.movsxR32R16(regAX, regAX)
		a.movsxR32R16(regCX, regCX)
	case 4, 8:
		a.loadMem(regAX, regDI, off, width, false)
		a.loadMem(regCX, regSI, off, width, false)
		a.bswap(regAX, width)
		a.bswap(regCX, width)
	}
}

// emitCharacterLoop handles arbitrary-length Character keys with a
// byte-at-a-time loop, since their length is not known until the KeyList
// is built and so cannot be unrolled in general.
//
// The loop body is laid out so that the only backward jump targets the
// top of the loop (a position already recorded when the jump is emitted)
// and the only forward jump skips exactly the three fixed-size
// instructions between it and the "mismatch" block -- so, as with every
// other key type, no label-fixup pass is needed: every jump distance is
// known at the point it is emitted.
//
// If every byte compares equal the loop falls out of its bottom edge
// directly into the mismatch block. The flags setccResult reads are then
// those of the final `cmp rdx, length`, whose operands are equal, so the
// -1/0/+1 result is 0, which finishKey's test+jz correctly treats as
// "continue to the next key".
func emitCharacterLoop(a *asm, off int32, length int, descending bool) {
	a.bytes(0xB8+regDX, 0, 0, 0, 0) // mov edx, 0  (index)
	loopStart := len(a.code)

	a.loadMemIndexed(regAX, regDI, regDX, off, 1)
	a.loadMemIndexed(regCX, regSI, regDX, off, 1)
	a.cmp(regAX, regCX, 4)

	// jne mismatch, where mismatch is exactly past the three
	// fixed-size instructions below (INC + CMP imm32 + JL = 3+7+2 = 12
	// bytes).
	const contSize = 12
	a.bytes(0x75, contSize) // jne +12

	a.bytes(rexW, 0xFF, modrm(3, 0, regDX)) // inc rdx
	a.bytes(rexW, 0x81, modrm(3, 7, regDX)) // cmp rdx, imm32
	a.imm32(int32(length))
	back := loopStart - (len(a.code) + 2)
	a.bytes(0x7C, byte(int8(back))) // jl loopStart

	// mismatch block (also the fallthrough target when the loop exits
	// because every byte matched)
	a.setccResult(true)
	a.finishKey(descending)
}
