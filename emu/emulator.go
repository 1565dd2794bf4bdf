package emu

import (
	"fmt"
	"io"

	"github.com/dylanobata/rv32sim/insts"
)

// IllegalInstructionError reports an unknown opcode or an unknown
// (funct3, funct7) combination within a known opcode group.
type IllegalInstructionError struct {
	PC     uint32
	Word   uint32
	Op     string
	Funct3 uint8
	Funct7 uint8
}

func (e *IllegalInstructionError) Error() string {
	return fmt.Sprintf("illegal instruction at pc=0x%08x word=0x%08x (%s funct3=%03b funct7=%07b)",
		e.PC, e.Word, e.Op, e.Funct3, e.Funct7)
}

// StepResult reports the outcome of executing a single instruction.
type StepResult struct {
	// Exited is true once the guest has reached ECALL/EBREAK.
	Exited bool

	// Termination is populated when Exited is true.
	Termination TerminationResult

	// Err is set when a fatal condition (illegal instruction, out of
	// range access) aborted the cycle.
	Err error
}

// Emulator sequences fetch, decode, execute, memory access and
// write-back for a single hart (spec.md §4.6).
type Emulator struct {
	regFile        *RegFile
	memory         *Memory
	decoder        *insts.Decoder
	syscallHandler SyscallHandler

	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	trace io.Writer

	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption configures an Emulator at construction time.
type EmulatorOption func(*Emulator)

// WithSyscallHandler overrides the default ECALL/gp handler.
func WithSyscallHandler(handler SyscallHandler) EmulatorOption {
	return func(e *Emulator) {
		e.syscallHandler = handler
	}
}

// WithStackPointer sets x2 (the conventional stack pointer) before
// the first instruction runs.
func WithStackPointer(sp uint32) EmulatorOption {
	return func(e *Emulator) {
		e.regFile.WriteReg(2, sp)
	}
}

// WithMaxInstructions bounds retired-instruction count. 0 (the
// default) means unbounded; used to cap loops like the BEQ-to-self
// boundary case (spec.md §8) under test.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithTraceWriter causes every retired instruction to be logged as a
// disassembled line, for the CLI's -v flag.
func WithTraceWriter(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.trace = w
	}
}

// NewEmulator builds an Emulator over mem, wiring a fresh register
// file and all four execution units.
func NewEmulator(mem *Memory, opts ...EmulatorOption) *Emulator {
	regFile := NewRegFile()
	e := &Emulator{
		regFile:    regFile,
		memory:     mem,
		decoder:    insts.NewDecoder(),
		alu:        NewALU(regFile),
		lsu:        NewLoadStoreUnit(regFile, mem),
		branchUnit: NewBranchUnit(regFile),
	}
	e.syscallHandler = NewDefaultSyscallHandler(regFile)

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RegFile returns the hart's register file.
func (e *Emulator) RegFile() *RegFile { return e.regFile }

// Memory returns the hart's backing memory.
func (e *Emulator) Memory() *Memory { return e.memory }

// InstructionCount returns the number of retired instructions so far.
func (e *Emulator) InstructionCount() uint64 { return e.instructionCount }

// SetPC sets the initial program counter, typically the loaded
// image's entry point.
func (e *Emulator) SetPC(pc uint32) { e.regFile.PC = pc }

// Step performs one fetch→decode→execute→memory→write-back→PC-update
// cycle and reports the result.
func (e *Emulator) Step() StepResult {
	pc := e.regFile.PC

	word, err := e.memory.Read32(pc)
	if err != nil {
		return StepResult{Err: fmt.Errorf("fetch at pc=0x%08x: %w", pc, err)}
	}

	inst := e.decoder.Decode(word)

	if e.trace != nil {
		fmt.Fprintf(e.trace, "0x%08x: %s\n", pc, insts.Disassemble(inst))
	}

	result, nextPC, err := e.execute(inst, pc)
	if err != nil {
		return StepResult{Err: err}
	}

	e.regFile.PC = nextPC
	e.instructionCount++

	return result
}

// Run steps the hart until it exits, hits a fatal error, or reaches
// maxInstructions (if nonzero). It returns the final StepResult.
func (e *Emulator) Run() StepResult {
	for {
		result := e.Step()
		if result.Err != nil || result.Exited {
			return result
		}
		if e.maxInstructions != 0 && e.instructionCount >= e.maxInstructions {
			return StepResult{Err: fmt.Errorf("exceeded instruction cap of %d", e.maxInstructions)}
		}
	}
}

// execute dispatches inst by its RV32I opcode group and returns the
// write-back/termination result along with the next PC.
func (e *Emulator) execute(inst *insts.Instruction, pc uint32) (StepResult, uint32, error) {
	switch inst.Opcode {
	case insts.OpcodeLui:
		e.regFile.WriteReg(inst.Rd, uint32(inst.ImmU))
		return StepResult{}, pc + 4, nil

	case insts.OpcodeAuipc:
		e.regFile.WriteReg(inst.Rd, pc+uint32(inst.ImmU))
		return StepResult{}, pc + 4, nil

	case insts.OpcodeJal:
		e.regFile.WriteReg(inst.Rd, pc+4)
		return StepResult{}, e.branchUnit.JumpTarget(pc, inst.ImmJ), nil

	case insts.OpcodeJalr:
		rs1 := e.regFile.ReadReg(inst.Rs1)
		target := e.branchUnit.JumpRegisterTarget(rs1, inst.ImmI)
		e.regFile.WriteReg(inst.Rd, pc+4)
		return StepResult{}, target, nil

	case insts.OpcodeBranch:
		rs1 := e.regFile.ReadReg(inst.Rs1)
		rs2 := e.regFile.ReadReg(inst.Rs2)
		if inst.Funct3 == 0b010 || inst.Funct3 == 0b011 {
			return StepResult{}, 0, &IllegalInstructionError{PC: pc, Word: inst.Raw, Op: "BRANCH", Funct3: inst.Funct3, Funct7: inst.Funct7}
		}
		if e.branchUnit.Taken(inst.Funct3, rs1, rs2) {
			return StepResult{}, uint32(int32(pc) + inst.ImmB), nil
		}
		return StepResult{}, pc + 4, nil

	case insts.OpcodeLoad:
		ea := e.regFile.ReadReg(inst.Rs1) + uint32(inst.ImmI)
		value, err := e.lsu.Load(inst.Funct3, ea)
		if ill, ok := err.(*IllegalInstructionError); ok {
			ill.PC, ill.Word = pc, inst.Raw
		}
		if err != nil {
			return StepResult{}, 0, fmt.Errorf("load at pc=0x%08x addr=0x%08x: %w", pc, ea, err)
		}
		e.regFile.WriteReg(inst.Rd, value)
		return StepResult{}, pc + 4, nil

	case insts.OpcodeStore:
		ea := e.regFile.ReadReg(inst.Rs1) + uint32(inst.ImmS)
		value := e.regFile.ReadReg(inst.Rs2)
		if err := e.lsu.Store(inst.Funct3, ea, value); err != nil {
			if ill, ok := err.(*IllegalInstructionError); ok {
				ill.PC, ill.Word = pc, inst.Raw
			}
			return StepResult{}, 0, fmt.Errorf("store at pc=0x%08x addr=0x%08x: %w", pc, ea, err)
		}
		return StepResult{}, pc + 4, nil

	case insts.OpcodeImm:
		result, err := e.executeImm(inst)
		if err != nil {
			return StepResult{}, 0, err
		}
		e.regFile.WriteReg(inst.Rd, result)
		return StepResult{}, pc + 4, nil

	case insts.OpcodeOp:
		result, err := e.executeOp(inst)
		if err != nil {
			return StepResult{}, 0, err
		}
		e.regFile.WriteReg(inst.Rd, result)
		return StepResult{}, pc + 4, nil

	case insts.OpcodeMiscMem:
		// FENCE: no-op on a single in-order hart with no reordering.
		return StepResult{}, pc + 4, nil

	case insts.OpcodeSystem:
		// ECALL (funct3=0, imm_I=0) and EBREAK (funct3=0, imm_I=1)
		// both terminate; CSR encodings are treated as no-ops
		// (spec.md §9 open question — not required by the "p" suite).
		if inst.Funct3 == 0 && (inst.ImmI == 0 || inst.ImmI == 1) {
			term := e.syscallHandler.Handle()
			return StepResult{Exited: true, Termination: term}, pc + 4, nil
		}
		return StepResult{}, pc + 4, nil

	default:
		return StepResult{}, 0, &IllegalInstructionError{PC: pc, Word: inst.Raw, Op: "opcode"}
	}
}

// executeImm computes the IMM opcode group's result per funct3
// (spec.md §4.4); SRLI/SRAI share funct3=101 and are distinguished by
// funct7 (0000000 for SRLI, 0100000 for SRAI). Any other funct7 on a
// shift is an illegal instruction.
func (e *Emulator) executeImm(inst *insts.Instruction) (uint32, error) {
	rs1 := e.regFile.ReadReg(inst.Rs1)
	imm := uint32(inst.ImmI)

	switch inst.Funct3 {
	case 0b000: // ADDI
		return e.alu.Add(rs1, imm), nil
	case 0b010: // SLTI
		return e.alu.SetLessThanSigned(rs1, imm), nil
	case 0b011: // SLTIU
		return e.alu.SetLessThanUnsigned(rs1, imm), nil
	case 0b100: // XORI
		return e.alu.Xor(rs1, imm), nil
	case 0b110: // ORI
		return e.alu.Or(rs1, imm), nil
	case 0b111: // ANDI
		return e.alu.And(rs1, imm), nil
	case 0b001: // SLLI
		if inst.Funct7 == 0b0000000 {
			return e.alu.ShiftLeft(rs1, uint32(inst.Rs2)), nil
		}
	case 0b101: // SRLI / SRAI
		if inst.Funct7 == 0b0100000 {
			return e.alu.ShiftRightArithmetic(rs1, uint32(inst.Rs2)), nil
		}
		if inst.Funct7 == 0b0000000 {
			return e.alu.ShiftRightLogical(rs1, uint32(inst.Rs2)), nil
		}
	}
	return 0, &IllegalInstructionError{PC: e.regFile.PC, Word: inst.Raw, Op: "IMM", Funct3: inst.Funct3, Funct7: inst.Funct7}
}

// executeOp computes the OP opcode group's result per (funct3, funct7)
// (spec.md §4.4).
func (e *Emulator) executeOp(inst *insts.Instruction) (uint32, error) {
	rs1 := e.regFile.ReadReg(inst.Rs1)
	rs2 := e.regFile.ReadReg(inst.Rs2)

	switch {
	case inst.Funct3 == 0b000 && inst.Funct7 == 0b0000000: // ADD
		return e.alu.Add(rs1, rs2), nil
	case inst.Funct3 == 0b000 && inst.Funct7 == 0b0100000: // SUB
		return e.alu.Sub(rs1, rs2), nil
	case inst.Funct3 == 0b001 && inst.Funct7 == 0b0000000: // SLL
		return e.alu.ShiftLeft(rs1, rs2), nil
	case inst.Funct3 == 0b010 && inst.Funct7 == 0b0000000: // SLT
		return e.alu.SetLessThanSigned(rs1, rs2), nil
	case inst.Funct3 == 0b011 && inst.Funct7 == 0b0000000: // SLTU
		return e.alu.SetLessThanUnsigned(rs1, rs2), nil
	case inst.Funct3 == 0b100 && inst.Funct7 == 0b0000000: // XOR
		return e.alu.Xor(rs1, rs2), nil
	case inst.Funct3 == 0b101 && inst.Funct7 == 0b0000000: // SRL
		return e.alu.ShiftRightLogical(rs1, rs2), nil
	case inst.Funct3 == 0b101 && inst.Funct7 == 0b0100000: // SRA
		return e.alu.ShiftRightArithmetic(rs1, rs2), nil
	case inst.Funct3 == 0b110 && inst.Funct7 == 0b0000000: // OR
		return e.alu.Or(rs1, rs2), nil
	case inst.Funct3 == 0b111 && inst.Funct7 == 0b0000000: // AND
		return e.alu.And(rs1, rs2), nil
	default:
		return 0, &IllegalInstructionError{PC: e.regFile.PC, Word: inst.Raw, Op: "OP", Funct3: inst.Funct3, Funct7: inst.Funct7}
	}
}
