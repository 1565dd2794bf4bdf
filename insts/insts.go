// Package insts provides the RV32I decoded-instruction record and the
// decoder that produces it.
//
// Every 32-bit instruction word is decoded into one uniform
// Instruction value: the opcode, rd/rs1/rs2, funct3/funct7, and all
// five sign-extended immediate encodings (ImmI, ImmS, ImmB, ImmU,
// ImmJ), computed unconditionally. Execute consumes only the fields
// its opcode group needs; the rest are simply unread.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x000010B7) // lui x1, 1
package insts
