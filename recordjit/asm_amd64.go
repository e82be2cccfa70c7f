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

// A tiny x86-64 byte emitter, opcode at a time: append raw bytes to a
// growable buffer, one instruction at a time. The target here is real
// machine code rather than an interpreted bytecode.
//
// Only the eight legacy GPRs (AX, CX, DX, BX, SP, BP, SI, DI; numbers 0-7)
// are ever used, so no REX.R/X/B bit is ever required -- the only REX byte
// this emitter ever produces is 0x48 (REX.W) to select a 64-bit operand
// size.
type asm struct {
	code []byte
}

const (
	regAX = 0
	regCX = 1
	regDX = 2
	regSI = 6
	regDI = 7
)

const rexW = 0x48

func (a *asm) byte(b byte) { a.code = append(a.code, b) }

func (a *asm) bytes(bs ...byte) { a.code = append(a.code, bs...) }

func (a *asm) imm32(v int32) {
	a.code = append(a.code, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func modrm(mod, reg, rm byte) byte { return mod<<6 | reg<<3 | rm }

// loadMem loads width bytes (1, 2, 4, or 8) from [base+disp] into dst,
// zero-extending (zx=true) or sign-extending (zx=false) to the width of
// dst's register (32-bit for width <= 4, 64-bit for width == 8). base must
// be regDI or regSI (no SIB is emitted; disp is always encoded as disp32
// for simplicity, trading a few bytes of code size for a single, always-
// correct encoding path).
func (a *asm) loadMem(dst, base byte, disp int32, width int, zx bool) {
	switch width {
	case 1:
		// MOVZX r32, r/m8 (0F B6) -- width 1 has no sign to speak of in
		// the character path, and integer keys never use width 1.
		a.bytes(0x0F, 0xB6, modrm(2, dst, base))
		a.imm32(disp)
	case 2:
		if zx {
			a.bytes(0x0F, 0xB7, modrm(2, dst, base)) // MOVZX r32, r/m16
		} else {
			a.bytes(0x0F, 0xBF, modrm(2, dst, base)) // MOVSX r32, r/m16
		}
		a.imm32(disp)
	case 4:
		a.bytes(0x8B, modrm(2, dst, base)) // MOV r32, r/m32
		a.imm32(disp)
	case 8:
		a.bytes(rexW, 0x8B, modrm(2, dst, base)) // MOV r64, r/m64
		a.imm32(disp)
	default:
		panic("recordjit: unsupported load width")
	}
}

// loadMemIndexed is loadMem with an added unit-scaled index register,
// encoded via a SIB byte: [base + index*1 + disp32]. Used only by the
// arbitrary-length character byte loop.
func (a *asm) loadMemIndexed(dst, base, index byte, disp int32, width int) {
	if width != 1 {
		panic("recordjit: indexed load only supports byte width")
	}
	a.bytes(0x0F, 0xB6, modrm(2, dst, 4)) // rm=100 signals SIB follows
	a.byte(0<<6 | index<<3 | base)        // SIB: scale=1, index, base
	a.imm32(disp)
}

// bswap byte-reverses a register in place: BSWAP r32 or BSWAP r64.
func (a *asm) bswap(reg byte, width int) {
	switch width {
	case 4:
		a.bytes(0x0F, 0xC8+reg)
	case 8:
		a.bytes(rexW, 0x0F, 0xC8+reg)
	default:
		panic("recordjit: bswap only valid for 4- or 8-byte registers")
	}
}

// rol16 rotates the low 16 bits of reg left by imm bits: used to swap the
// two bytes of a zero-extended 16-bit load (equivalent to a 16-bit bswap,
// which x86 has no dedicated opcode for).
func (a *asm) rol16(reg byte, imm uint8) {
	a.bytes(0x66, 0xC1, modrm(3, 0 /* /0 = ROL */, reg), imm)
}

// movsxR32R16 sign-extends the low 16 bits of src into dst (both encoded
// as 32-bit register numbers; the source width is implied by the opcode).
func (a *asm) movsxR32R16(dst, src byte) {
	a.bytes(0x0F, 0xBF, modrm(3, dst, src))
}

// cmp emits CMP on two registers of the given width (4 or 8 bytes).
func (a *asm) cmp(r1, r2 byte, width int) {
	if width == 8 {
		a.byte(rexW)
	}
	a.bytes(0x3B, modrm(3, r1, r2)) // CMP r32/r64, r/m32/r/m64
}

// setccResult computes, from the flags left by the immediately preceding
// cmp, a -1/0/+1 value in eax using two SETcc instructions and a
// subtraction -- a branchless pattern applied uniformly to every key
// type so that no per-key comparison needs a variable-distance jump.
//
// unsigned selects SETA/SETB (used for Character and, after byte-swapping,
// any key compared as a raw big-endian bit pattern) over SETG/SETL (used
// for the sign-aware integer paths).
func (a *asm) setccResult(unsigned bool) {
	above, below := byte(0x9F), byte(0x9C) // SETG, SETL
	if unsigned {
		above, below = 0x97, 0x92 // SETA, SETB
	}
	// No need to zero edx/eax first: SETcc writes the full 8-bit
	// register, sub dl,al is itself an 8-bit op, and movsx eax,dl reads
	// only dl -- zeroing first would just clobber the flags cmp left
	// behind before SETcc gets to read them.
	a.bytes(0x0F, above, modrm(3, 0, regDX))    // setcc dl   (a > b)
	a.bytes(0x0F, below, modrm(3, 0, regAX))    // setcc al   (a < b)
	a.bytes(0x28, modrm(3, regAX, regDX))       // sub dl, al
	a.bytes(0x0F, 0xBE, modrm(3, regAX, regDX)) // movsx eax, dl
}

// finishKey applies the key's sort order to the -1/0/+1 value already in
// eax, then either returns it (if nonzero) or falls through to the next
// key block (if zero). The "then" arm is a single `ret` byte, so the
// conditional skip is always a fixed one-byte forward jump -- no label
// fixups are needed anywhere in this emitter; the arbitrary-length
// character loop's jumps also have distances known when they are emitted
// (see emitCharacterLoop).
func (a *asm) finishKey(descending bool) {
	if descending {
		a.bytes(0xF7, modrm(3, 3 /* /3 = NEG */, regAX)) // neg eax
	}
	a.bytes(0x85, modrm(3, regAX, regAX)) // test eax, eax
	a.bytes(0x74, 0x01)                   // jz +1 (skip the ret)
	a.byte(0xC3)                          // ret
}

// ret0 emits the final "all keys compared equal" block.
func (a *asm) ret0() {
	a.bytes(0x31, modrm(3, regAX, regAX)) // xor eax, eax
	a.byte(0xC3)                          // ret
}
