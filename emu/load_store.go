package emu

// LoadStoreUnit implements the RV32I LOAD and STORE opcode groups:
// byte/halfword/word access at an effective address, little-endian,
// with the signed/unsigned width variants spec.md §4.5 enumerates.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// LB loads a sign-extended byte at addr.
func (lsu *LoadStoreUnit) LB(addr uint32) (uint32, error) {
	v, err := lsu.memory.Read8(addr)
	if err != nil {
		return 0, err
	}
	return uint32(int32(int8(v))), nil
}

// LBU loads a zero-extended byte at addr.
func (lsu *LoadStoreUnit) LBU(addr uint32) (uint32, error) {
	v, err := lsu.memory.Read8(addr)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// LH loads a sign-extended halfword at addr.
func (lsu *LoadStoreUnit) LH(addr uint32) (uint32, error) {
	v, err := lsu.memory.Read16(addr)
	if err != nil {
		return 0, err
	}
	return uint32(int32(int16(v))), nil
}

// LHU loads a zero-extended halfword at addr.
func (lsu *LoadStoreUnit) LHU(addr uint32) (uint32, error) {
	v, err := lsu.memory.Read16(addr)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// LW loads a full word at addr.
func (lsu *LoadStoreUnit) LW(addr uint32) (uint32, error) {
	return lsu.memory.Read32(addr)
}

// SB stores the low byte of value at addr.
func (lsu *LoadStoreUnit) SB(addr uint32, value uint32) error {
	return lsu.memory.Write8(addr, uint8(value))
}

// SH stores the low halfword of value at addr.
func (lsu *LoadStoreUnit) SH(addr uint32, value uint32) error {
	return lsu.memory.Write16(addr, uint16(value))
}

// SW stores the full word value at addr.
func (lsu *LoadStoreUnit) SW(addr uint32, value uint32) error {
	return lsu.memory.Write32(addr, value)
}

// Load dispatches on a LOAD funct3 value (000 LB, 001 LH, 010 LW,
// 100 LBU, 101 LHU) and returns the value to write back.
func (lsu *LoadStoreUnit) Load(funct3 uint8, addr uint32) (uint32, error) {
	switch funct3 {
	case 0b000:
		return lsu.LB(addr)
	case 0b001:
		return lsu.LH(addr)
	case 0b010:
		return lsu.LW(addr)
	case 0b100:
		return lsu.LBU(addr)
	case 0b101:
		return lsu.LHU(addr)
	default:
		return 0, &IllegalInstructionError{Funct3: funct3, Op: "LOAD"}
	}
}

// Store dispatches on a STORE funct3 value (000 SB, 001 SH, 010 SW).
func (lsu *LoadStoreUnit) Store(funct3 uint8, addr uint32, value uint32) error {
	switch funct3 {
	case 0b000:
		return lsu.SB(addr, value)
	case 0b001:
		return lsu.SH(addr, value)
	case 0b010:
		return lsu.SW(addr, value)
	default:
		return &IllegalInstructionError{Funct3: funct3, Op: "STORE"}
	}
}
