// Package loader parses a 32-bit RISC-V ELF executable image and
// extracts its loadable segments for copying into simulated memory.
package loader

import (
	"debug/elf"
	"fmt"
	"io"

	"github.com/dylanobata/rv32sim/emu"
)

// SegmentFlags records an ELF program header's memory-protection bits.
type SegmentFlags uint32

const (
	// SegmentFlagExecute indicates the segment is executable.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite indicates the segment is writable.
	SegmentFlagWrite
	// SegmentFlagRead indicates the segment is readable.
	SegmentFlagRead
)

// Segment is one PT_LOAD program header's loadable contents.
type Segment struct {
	// PAddr is the physical address this segment targets.
	PAddr uint32
	// Data holds the segment's file-image bytes (length == filesz).
	Data []byte
	// MemSize is the size in memory, which may exceed len(Data) for
	// a BSS-carrying segment; the extra bytes are left zero.
	MemSize uint32
	// Flags records the segment's protection bits.
	Flags SegmentFlags
}

// Program is a fully parsed RV32 executable image: its entry point
// and its loadable segments. It is consumed once at startup and may
// be discarded once LoadInto has run (spec.md §3).
type Program struct {
	// EntryPoint is the initial PC value.
	EntryPoint uint32
	// Segments holds every PT_LOAD program header in file order.
	Segments []Segment
}

// Load opens path as a 32-bit little-endian RISC-V ELF file and
// extracts its loadable segments. It rejects any image that is not
// ELFCLASS32/EM_RISCV, and any segment whose physical-address range
// falls outside the simulator's 16 MiB memory window (spec.md §4.2, §7).
func Load(path string) (*Program, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ELF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if f.Class != elf.ELFCLASS32 {
		return nil, fmt.Errorf("not a 32-bit ELF file (class: %v)", f.Class)
	}
	if f.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("not a RISC-V ELF file (machine type: %v)", f.Machine)
	}

	prog := &Program{
		EntryPoint: uint32(f.Entry),
	}

	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}

		if phdr.Paddr > 0xFFFFFFFF || phdr.Memsz > 0xFFFFFFFF {
			return nil, fmt.Errorf("segment at 0x%x exceeds 32-bit address space", phdr.Paddr)
		}
		paddr := uint32(phdr.Paddr)
		memsz := uint32(phdr.Memsz)

		if !emu.InRange(paddr, memsz) {
			return nil, fmt.Errorf("segment at 0x%08x (memsz=%d) falls outside simulated memory [0x%08x, 0x%08x)",
				paddr, memsz, emu.Base, emu.Base+emu.Size)
		}

		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("read segment at 0x%x: %w", phdr.Paddr, err)
			}
			if uint64(n) != phdr.Filesz {
				return nil, fmt.Errorf("short read for segment at 0x%x: got %d bytes, expected %d",
					phdr.Paddr, n, phdr.Filesz)
			}
		}

		var flags SegmentFlags
		if phdr.Flags&elf.PF_X != 0 {
			flags |= SegmentFlagExecute
		}
		if phdr.Flags&elf.PF_W != 0 {
			flags |= SegmentFlagWrite
		}
		if phdr.Flags&elf.PF_R != 0 {
			flags |= SegmentFlagRead
		}

		prog.Segments = append(prog.Segments, Segment{
			PAddr:   paddr,
			Data:    data,
			MemSize: memsz,
			Flags:   flags,
		})
	}

	return prog, nil
}

// LoadInto copies every segment's file-image bytes into mem at
// PAddr. Bytes in [len(Data), MemSize) are left zero, since mem is
// zero-initialized by emu.NewMemory (spec.md §4.2).
func (p *Program) LoadInto(mem *emu.Memory) error {
	for _, seg := range p.Segments {
		for i, b := range seg.Data {
			if err := mem.Write8(seg.PAddr+uint32(i), b); err != nil {
				return fmt.Errorf("writing segment at 0x%08x: %w", seg.PAddr, err)
			}
		}
	}
	return nil
}
