// Package machine composes the CPU and memory fabric into a
// bootable Apple IIe, the way apple_ii_e.rs's AppleIIe struct wires
// a MOS6502 to a MemoryManager and its fixed ROM/VRAM region layout.
package machine

import (
	"fmt"
	"strings"

	"github.com/mjkern/retro6502/cpu"
	"github.com/mjkern/retro6502/disassemble"
	"github.com/mjkern/retro6502/display"
	"github.com/mjkern/retro6502/instruction"
	"github.com/mjkern/retro6502/memory"
	"github.com/mjkern/retro6502/romloader"
)

// Region layout, per apple_ii_e.rs's AppleIIe::new: a 64K flat RAM
// base, shadowed by text-page VRAM at 0x0400 and by the monitor,
// 80-column card, and Integer BASIC ROMs.
const (
	baseRAMSize = 0x10000

	textPageBase = 0x0400
	textPageSize = 0x0400

	monitorROMBase = 0xF800
	monitorROMSize = 0x0800
	monitorROMName = "apple2e_F8.bin"

	cardROM1Base = 0xC100
	cardROM1Size = 0x0300
	cardROM1Name = "apple2e_C1.bin"

	cardROM2Base = 0xC800
	cardROM2Size = 0x0800
	cardROM2Name = "apple2e_C8.bin"

	basicROMBase = 0xE000
	basicROMSize = 0x1800
	basicROMName = "apple2e_ibasic_E0.bin"

	bootGreeting = "HEllo world!"
)

// Disks names the two optional disk image paths a machine is
// constructed with. Per spec.md §6 these are retained but not yet
// used by any operation — the disk controller is out of scope for
// the core described here.
type Disks struct {
	Disk1 string
	Disk2 string
}

// AppleIIe composes a CPU with its memory manager and region layout.
type AppleIIe struct {
	CPU    *cpu.CPU
	Memory *memory.Manager
	Disks  Disks
}

// New constructs an AppleIIe with its fixed region layout mapped and
// its ROMs loaded via romloader. ROM load failure is a host
// misconfiguration (spec.md §8: "ROM file missing" fails fast at
// machine construction), so New returns an error the caller is
// expected to log.Fatalf on rather than recover from.
func New(sink display.Sink, disks Disks) (*AppleIIe, error) {
	mm := memory.NewManager(memory.Little)
	mm.Map(0, memory.NewRAM(baseRAMSize, memory.Little))
	mm.Map(textPageBase, memory.NewVRAM(textPageSize, memory.Little, sink))

	if err := mapROM(mm, monitorROMBase, monitorROMSize, monitorROMName); err != nil {
		return nil, err
	}
	if err := mapROM(mm, cardROM1Base, cardROM1Size, cardROM1Name); err != nil {
		return nil, err
	}
	if err := mapROM(mm, cardROM2Base, cardROM2Size, cardROM2Name); err != nil {
		return nil, err
	}
	if err := mapROM(mm, basicROMBase, basicROMSize, basicROMName); err != nil {
		return nil, err
	}

	return &AppleIIe{
		CPU:    cpu.New(),
		Memory: mm,
		Disks:  disks,
	}, nil
}

func mapROM(mm *memory.Manager, base uint16, size int, name string) error {
	bytes, err := romloader.Load(name)
	if err != nil {
		return err
	}
	mm.Map(base, memory.NewROM(name, size, bytes, memory.Little))
	return nil
}

// Reset loads the CPU's power-on state from the reset vector, then
// reproduces apple_ii_e.rs's boot greeting: the text page is cleared
// to spaces and "HEllo world!" is written over its first bytes,
// translated to the Apple II's internal character encoding (the
// original computes this translation via AppleIIeString but never
// actually uses it when writing the greeting — here it is applied,
// since nothing names that detail as an intentionally reproduced
// quirk).
func (a *AppleIIe) Reset() {
	a.CPU.Reset(a.Memory)

	for i := 0; i < textPageSize; i++ {
		a.Memory.Write(textPageBase+uint16(i), 0x20)
	}
	greeting := asciiToAppleII(bootGreeting)
	for i, b := range greeting {
		a.Memory.Write(textPageBase+uint16(i), b)
	}
}

// Cycle advances the machine by one sub-cycle, returning the retired
// instruction if one completed on this tick.
func (a *AppleIIe) Cycle() *instruction.Instruction {
	return a.CPU.Cycle(a.Memory)
}

// Step runs Cycle until an instruction retires and returns it. Step
// itself does not log; the emulator's Step command logs the retired
// instruction and the register/stack trace.
func (a *AppleIIe) Step() instruction.Instruction {
	ins := a.CPU.Step(a.Memory)
	return ins
}

// Disassemble renders the instruction at pc without executing it.
func (a *AppleIIe) Disassemble(pc uint16) (string, int) {
	return disassemble.Step(pc, a.Memory)
}

func (a *AppleIIe) Read(addr uint16) uint8 {
	return a.Memory.Read(addr)
}

func (a *AppleIIe) Write(addr uint16, val uint8) {
	a.Memory.Write(addr, val)
}

// StackTrace renders the bytes between the current stack pointer and
// the top of the stack page, walking down from 0x01FF to SP+1 — the
// same order apple_ii_e.rs's get_stack() produces with its
// `(sp+1..0x200).rev()`.
func (a *AppleIIe) StackTrace() string {
	var b strings.Builder
	b.WriteString("Stack:")
	low := uint32(a.CPU.SPAddr()) + 1
	for addr := uint32(0x1FF); addr >= low; addr-- {
		fmt.Fprintf(&b, " %02X", a.Memory.Read(uint16(addr)))
	}
	return b.String()
}

// asciiToAppleII translates an ASCII string to the byte sequence the
// Apple IIe's text page expects, per apple_ii_e_string.rs's
// AppleIIeString::from_str: uppercase letters map to 0x01-0x1A,
// lowercase to 0x61-0x7A, digits to 0x30-0x39, a fixed set of
// punctuation to its own code, and anything else to 0x56.
func asciiToAppleII(s string) []uint8 {
	out := make([]uint8, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = appleIIChar(s[i])
	}
	return out
}

func appleIIChar(c byte) uint8 {
	switch {
	case c >= 'A' && c <= 'Z':
		return 0x01 + (c - 'A')
	case c >= 'a' && c <= 'z':
		return 0x61 + (c - 'a')
	case c >= '0' && c <= '9':
		return 0x30 + (c - '0')
	}
	if v, ok := punctuation[c]; ok {
		return v
	}
	return 0x56
}

var punctuation = map[byte]uint8{
	'[': 0x1B, '\\': 0x1C, ']': 0x1D, '^': 0x1E, '_': 0x1F,
	' ': 0x20, '!': 0x21, '"': 0x22, '#': 0x23, '$': 0x24,
	'%': 0x25, '&': 0x26, '\'': 0x27, '(': 0x28, ')': 0x29,
	'*': 0x2A, '+': 0x2B, ',': 0x2C, '-': 0x2D, '.': 0x2E,
	'/': 0x2F, ':': 0x3A, ';': 0x3B, '<': 0x3C, '=': 0x3D,
	'>': 0x3E, '?': 0x3F,
}
