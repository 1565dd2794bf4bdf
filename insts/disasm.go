package insts

import "fmt"

// Disassemble renders inst as a single mnemonic line. It is a
// diagnostic aid only — execute semantics never depend on it.
func Disassemble(inst *Instruction) string {
	switch inst.Opcode {
	case OpcodeLui:
		return fmt.Sprintf("lui x%d, 0x%x", inst.Rd, uint32(inst.ImmU)>>12)
	case OpcodeAuipc:
		return fmt.Sprintf("auipc x%d, 0x%x", inst.Rd, uint32(inst.ImmU)>>12)
	case OpcodeJal:
		return fmt.Sprintf("jal x%d, %d", inst.Rd, inst.ImmJ)
	case OpcodeJalr:
		return fmt.Sprintf("jalr x%d, %d(x%d)", inst.Rd, inst.ImmI, inst.Rs1)
	case OpcodeBranch:
		name, ok := branchMnemonics[inst.Funct3]
		if !ok {
			name = "b???"
		}
		return fmt.Sprintf("%s x%d, x%d, %d", name, inst.Rs1, inst.Rs2, inst.ImmB)
	case OpcodeLoad:
		name, ok := loadMnemonics[inst.Funct3]
		if !ok {
			name = "l???"
		}
		return fmt.Sprintf("%s x%d, %d(x%d)", name, inst.Rd, inst.ImmI, inst.Rs1)
	case OpcodeStore:
		name, ok := storeMnemonics[inst.Funct3]
		if !ok {
			name = "s???"
		}
		return fmt.Sprintf("%s x%d, %d(x%d)", name, inst.Rs2, inst.ImmS, inst.Rs1)
	case OpcodeImm:
		name, ok := immMnemonics[inst.Funct3]
		if !ok {
			name = "???i"
		}
		if inst.Funct3 == 0b101 && inst.Funct7 == 0b0100000 {
			name = "srai"
		}
		return fmt.Sprintf("%s x%d, x%d, %d", name, inst.Rd, inst.Rs1, inst.ImmI)
	case OpcodeOp:
		name := opMnemonic(inst.Funct3, inst.Funct7)
		return fmt.Sprintf("%s x%d, x%d, x%d", name, inst.Rd, inst.Rs1, inst.Rs2)
	case OpcodeMiscMem:
		return "fence"
	case OpcodeSystem:
		if inst.ImmI == 1 {
			return "ebreak"
		}
		return "ecall"
	default:
		return fmt.Sprintf("unknown 0x%08x", inst.Raw)
	}
}

var branchMnemonics = map[uint8]string{
	0b000: "beq", 0b001: "bne", 0b100: "blt",
	0b101: "bge", 0b110: "bltu", 0b111: "bgeu",
}

var loadMnemonics = map[uint8]string{
	0b000: "lb", 0b001: "lh", 0b010: "lw", 0b100: "lbu", 0b101: "lhu",
}

var storeMnemonics = map[uint8]string{
	0b000: "sb", 0b001: "sh", 0b010: "sw",
}

var immMnemonics = map[uint8]string{
	0b000: "addi", 0b010: "slti", 0b011: "sltiu", 0b100: "xori",
	0b110: "ori", 0b111: "andi", 0b001: "slli", 0b101: "srli",
}

func opMnemonic(funct3, funct7 uint8) string {
	switch {
	case funct3 == 0b000 && funct7 == 0b0000000:
		return "add"
	case funct3 == 0b000 && funct7 == 0b0100000:
		return "sub"
	case funct3 == 0b001:
		return "sll"
	case funct3 == 0b010:
		return "slt"
	case funct3 == 0b011:
		return "sltu"
	case funct3 == 0b100:
		return "xor"
	case funct3 == 0b101 && funct7 == 0b0000000:
		return "srl"
	case funct3 == 0b101 && funct7 == 0b0100000:
		return "sra"
	case funct3 == 0b110:
		return "or"
	case funct3 == 0b111:
		return "and"
	default:
		return "op???"
	}
}
