// Package main provides a banner entry point for rv32sim.
// rv32sim is a single-hart RV32I instruction-set simulator.
//
// For the full CLI, use: go run ./cmd/rv32sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rv32sim - RV32I instruction-set simulator")
	fmt.Println("")
	fmt.Println("Usage: rv32sim <command> [flags] <program.elf>")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  run      Load and execute an RV32 ELF image until ECALL")
	fmt.Println("  disasm   Print a disassembled listing without executing")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rv32sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rv32sim' instead.")
	}
}
