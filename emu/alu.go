package emu

// ALU implements the RV32I integer arithmetic and logic operations
// shared by the IMM and OP opcode groups. All results are 32-bit
// modular; shift amounts are masked to the low 5 bits.
type ALU struct {
	regFile *RegFile
}

// NewALU creates an ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// Add returns x+y, wrapping modulo 2^32.
func (a *ALU) Add(x, y uint32) uint32 { return x + y }

// Sub returns x-y, wrapping modulo 2^32.
func (a *ALU) Sub(x, y uint32) uint32 { return x - y }

// And returns x&y.
func (a *ALU) And(x, y uint32) uint32 { return x & y }

// Or returns x|y.
func (a *ALU) Or(x, y uint32) uint32 { return x | y }

// Xor returns x^y.
func (a *ALU) Xor(x, y uint32) uint32 { return x ^ y }

// ShiftLeft returns x shifted left by the low 5 bits of shamt.
func (a *ALU) ShiftLeft(x, shamt uint32) uint32 {
	return x << (shamt & 0x1F)
}

// ShiftRightLogical returns x shifted right by the low 5 bits of
// shamt, filling with zeros.
func (a *ALU) ShiftRightLogical(x, shamt uint32) uint32 {
	return x >> (shamt & 0x1F)
}

// ShiftRightArithmetic returns x shifted right by the low 5 bits of
// shamt, filling with copies of the sign bit.
func (a *ALU) ShiftRightArithmetic(x, shamt uint32) uint32 {
	return uint32(int32(x) >> (shamt & 0x1F))
}

// SetLessThanSigned returns 1 if x < y as signed 32-bit integers, else 0.
func (a *ALU) SetLessThanSigned(x, y uint32) uint32 {
	if int32(x) < int32(y) {
		return 1
	}
	return 0
}

// SetLessThanUnsigned returns 1 if x < y as unsigned 32-bit integers, else 0.
func (a *ALU) SetLessThanUnsigned(x, y uint32) uint32 {
	if x < y {
		return 1
	}
	return 0
}
