package insts

import "github.com/dylanobata/rv32sim/bits"

// Opcode is the low 7 bits of an RV32I instruction word, selecting
// the instruction's opcode group.
type Opcode uint8

// RV32I opcode groups (spec.md §4.4).
const (
	OpcodeLoad     Opcode = 0b0000011
	OpcodeMiscMem  Opcode = 0b0001111
	OpcodeImm      Opcode = 0b0010011
	OpcodeAuipc    Opcode = 0b0010111
	OpcodeStore    Opcode = 0b0100011
	OpcodeOp       Opcode = 0b0110011
	OpcodeLui      Opcode = 0b0110111
	OpcodeBranch   Opcode = 0b1100011
	OpcodeJalr     Opcode = 0b1100111
	OpcodeJal      Opcode = 0b1101111
	OpcodeSystem   Opcode = 0b1110011
)

// Instruction is the uniform decoded-instruction record (spec.md §3).
// Only the fields relevant to Opcode are consumed by execute; the
// rest are present but unread.
type Instruction struct {
	Raw    uint32
	Opcode Opcode
	Rd     uint8
	Rs1    uint8
	Rs2    uint8
	Funct3 uint8
	Funct7 uint8

	ImmI int32
	ImmS int32
	ImmB int32
	ImmU int32
	ImmJ int32
}

// Decoder splits a fetched instruction word into an Instruction.
type Decoder struct{}

// NewDecoder returns a Decoder. It carries no state: every word
// decodes independently of any other.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode extracts every field and every immediate from word
// unconditionally, per spec.md §4.3's assembly table.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{
		Raw:    word,
		Opcode: Opcode(bits.Extract(word, 6, 0)),
		Rd:     uint8(bits.Extract(word, 11, 7)),
		Funct3: uint8(bits.Extract(word, 14, 12)),
		Rs1:    uint8(bits.Extract(word, 19, 15)),
		Rs2:    uint8(bits.Extract(word, 24, 20)),
		Funct7: uint8(bits.Extract(word, 31, 25)),
	}

	inst.ImmI = bits.SignExtend(bits.Extract(word, 31, 20), 12)

	immS := bits.Extract(word, 31, 25)<<5 | bits.Extract(word, 11, 7)
	inst.ImmS = bits.SignExtend(immS, 12)

	immB := bits.Extract(word, 31, 31)<<12 |
		bits.Extract(word, 7, 7)<<11 |
		bits.Extract(word, 30, 25)<<5 |
		bits.Extract(word, 11, 8)<<1
	inst.ImmB = bits.SignExtend(immB, 13)

	inst.ImmU = int32(bits.Extract(word, 31, 12) << 12)

	immJ := bits.Extract(word, 31, 31)<<20 |
		bits.Extract(word, 19, 12)<<12 |
		bits.Extract(word, 20, 20)<<11 |
		bits.Extract(word, 30, 21)<<1
	inst.ImmJ = bits.SignExtend(immJ, 21)

	return inst
}
