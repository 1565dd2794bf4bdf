package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dylanobata/rv32sim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	It("decodes lui x1, 1", func() {
		inst := decoder.Decode(0x000010B7)
		Expect(inst.Opcode).To(Equal(insts.OpcodeLui))
		Expect(inst.Rd).To(Equal(uint8(1)))
		Expect(inst.ImmU).To(Equal(int32(0x00001000)))
	})

	It("decodes addi x1, x1, -1", func() {
		inst := decoder.Decode(0xFFF08093)
		Expect(inst.Opcode).To(Equal(insts.OpcodeImm))
		Expect(inst.Funct3).To(Equal(uint8(0)))
		Expect(inst.Rd).To(Equal(uint8(1)))
		Expect(inst.Rs1).To(Equal(uint8(1)))
		Expect(inst.ImmI).To(Equal(int32(-1)))
	})

	It("decodes beq x1, x2, +8", func() {
		inst := decoder.Decode(0x00208463)
		Expect(inst.Opcode).To(Equal(insts.OpcodeBranch))
		Expect(inst.Funct3).To(Equal(uint8(0)))
		Expect(inst.Rs1).To(Equal(uint8(1)))
		Expect(inst.Rs2).To(Equal(uint8(2)))
		Expect(inst.ImmB).To(Equal(int32(8)))
	})

	It("decodes jal x1, +8", func() {
		inst := decoder.Decode(0x008000EF)
		Expect(inst.Opcode).To(Equal(insts.OpcodeJal))
		Expect(inst.Rd).To(Equal(uint8(1)))
		Expect(inst.ImmJ).To(Equal(int32(8)))
	})

	It("decodes sw x2, 0(x1)", func() {
		// sw x2, 0(x1): opcode STORE, funct3=010, rs1=1, rs2=2, imm=0
		word := uint32(0b0000000_00010_00001_010_00000_0100011)
		inst := decoder.Decode(word)
		Expect(inst.Opcode).To(Equal(insts.OpcodeStore))
		Expect(inst.Funct3).To(Equal(uint8(0b010)))
		Expect(inst.Rs1).To(Equal(uint8(1)))
		Expect(inst.Rs2).To(Equal(uint8(2)))
		Expect(inst.ImmS).To(Equal(int32(0)))
	})

	It("extracts every field unconditionally regardless of opcode", func() {
		inst := decoder.Decode(0x000010B7)
		// Fields irrelevant to LUI are still populated, just unread by execute.
		Expect(inst.Rs1).To(Equal(uint8(0)))
		Expect(inst.Rs2).To(Equal(uint8(0)))
		Expect(inst.Funct7).To(Equal(uint8(0)))
	})
})

var _ = Describe("Disassemble", func() {
	It("renders a LUI instruction", func() {
		decoder := insts.NewDecoder()
		inst := decoder.Decode(0x000010B7)
		Expect(insts.Disassemble(inst)).To(Equal("lui x1, 0x1"))
	})

	It("renders an ECALL instruction", func() {
		decoder := insts.NewDecoder()
		inst := decoder.Decode(0x00000073)
		Expect(insts.Disassemble(inst)).To(Equal("ecall"))
	})
})
