package emu

// BranchUnit implements the RV32I BRANCH opcode's register-to-register
// comparison predicates and the PC-relative targets of JAL/JALR.
// Unlike a flags-based architecture, RV32I branches compare two GPRs
// directly: there is no condition-code register to consult.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// Taken evaluates a BRANCH comparison predicate selected by funct3
// against rs1Val and rs2Val. funct3 values follow spec.md §4.4:
// 000 BEQ, 001 BNE, 100 BLT, 101 BGE, 110 BLTU, 111 BGEU.
func (b *BranchUnit) Taken(funct3 uint8, rs1Val, rs2Val uint32) bool {
	switch funct3 {
	case 0b000: // BEQ
		return rs1Val == rs2Val
	case 0b001: // BNE
		return rs1Val != rs2Val
	case 0b100: // BLT
		return int32(rs1Val) < int32(rs2Val)
	case 0b101: // BGE
		return int32(rs1Val) >= int32(rs2Val)
	case 0b110: // BLTU
		return rs1Val < rs2Val
	case 0b111: // BGEU
		return rs1Val >= rs2Val
	default:
		return false
	}
}

// JumpTarget computes the PC-relative target of JAL: pc + immJ.
func (b *BranchUnit) JumpTarget(pc uint32, immJ int32) uint32 {
	return pc + uint32(immJ)
}

// JumpRegisterTarget computes the JALR target: (rs1Val + immI) with
// the low bit cleared.
func (b *BranchUnit) JumpRegisterTarget(rs1Val uint32, immI int32) uint32 {
	return (rs1Val + uint32(immI)) &^ 1
}
