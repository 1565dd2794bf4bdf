// Package main provides the entry point for rv32sim, a single-hart
// RV32I instruction-set simulator.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dylanobata/rv32sim/emu"
	"github.com/dylanobata/rv32sim/insts"
	"github.com/dylanobata/rv32sim/loader"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rv32sim",
		Short: "RV32I instruction-set simulator",
	}

	var verbose bool
	var step bool
	var maxInstructions uint64

	runCmd := &cobra.Command{
		Use:   "run <program.elf>",
		Short: "Load and execute an RV32 ELF image until ECALL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmulation(args[0], verbose, step, maxInstructions)
		},
	}
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace every retired instruction")
	runCmd.Flags().BoolVar(&step, "step", false, "single-step: wait for Enter before each instruction")
	runCmd.Flags().Uint64Var(&maxInstructions, "max-instructions", 0, "abort after this many retired instructions (0 = unbounded)")

	disasmCmd := &cobra.Command{
		Use:   "disasm <program.elf>",
		Short: "Load an RV32 ELF image and print a disassembled listing without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisasm(args[0])
		},
	}

	rootCmd.AddCommand(runCmd, disasmCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runEmulation loads programPath and runs it to termination.
func runEmulation(programPath string, verbose, step bool, maxInstructions uint64) error {
	prog, err := loader.Load(programPath)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	memory := emu.NewMemory()
	if err := prog.LoadInto(memory); err != nil {
		return fmt.Errorf("loading segments into memory: %w", err)
	}

	if verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Entry point: 0x%08X\n", prog.EntryPoint)
		fmt.Printf("Segments: %d\n", len(prog.Segments))
	}

	opts := []emu.EmulatorOption{
		emu.WithMaxInstructions(maxInstructions),
	}
	if verbose {
		opts = append(opts, emu.WithTraceWriter(os.Stdout))
	}

	emulator := emu.NewEmulator(memory, opts...)
	emulator.SetPC(prog.EntryPoint)

	var result emu.StepResult
	if step {
		result = runStepping(emulator, maxInstructions)
	} else {
		result = emulator.Run()
	}

	if result.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", result.Err)
		os.Exit(1)
	}

	if verbose {
		fmt.Printf("\nInstructions executed: %d\n", emulator.InstructionCount())
		fmt.Printf("gp (x3): 0x%08X\n", emulator.RegFile().ReadReg(emu.GPRegister))
	}

	if result.Termination.Passed {
		fmt.Printf("PASS (%d instructions)\n", emulator.InstructionCount())
		return nil
	}
	fmt.Printf("FAIL: test %d (%d instructions)\n", result.Termination.FailedTest, emulator.InstructionCount())
	os.Exit(1)
	return nil
}

// runStepping drives the emulator one instruction at a time, waiting
// for Enter before each step, and stops once maxInstructions (if
// nonzero) have retired.
func runStepping(emulator *emu.Emulator, maxInstructions uint64) emu.StepResult {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("pc=0x%08X> ", emulator.RegFile().PC)
		_, _ = reader.ReadString('\n')

		result := emulator.Step()
		if result.Err != nil || result.Exited {
			return result
		}
		if maxInstructions != 0 && emulator.InstructionCount() >= maxInstructions {
			return emu.StepResult{Err: fmt.Errorf("exceeded instruction cap of %d", maxInstructions)}
		}
	}
}

// runDisasm loads programPath and prints a disassembled listing of
// its segments without executing anything.
func runDisasm(programPath string) error {
	prog, err := loader.Load(programPath)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	memory := emu.NewMemory()
	if err := prog.LoadInto(memory); err != nil {
		return fmt.Errorf("loading segments into memory: %w", err)
	}

	decoder := insts.NewDecoder()
	for _, seg := range prog.Segments {
		for off := uint32(0); off+4 <= uint32(len(seg.Data)); off += 4 {
			addr := seg.PAddr + off
			word, err := memory.Read32(addr)
			if err != nil {
				return err
			}
			inst := decoder.Decode(word)
			fmt.Printf("0x%08x: %s\n", addr, insts.Disassemble(inst))
		}
	}
	return nil
}
