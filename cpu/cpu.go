// Package cpu implements the MOS 6502 register/flag state machine,
// its cycle-amortized fetch-decode-execute loop, and the 8/16-bit
// addressing mode resolution logic described in spec.md §4.5.
//
// Decoding eagerly performs a decoded instruction's entire
// architectural effect up front and only uses its cycle budget to
// gate when it retires — this is instruction-cycle-accurate, not
// bus-cycle-accurate, matching spec.md §9's explicit design note.
package cpu

import (
	"fmt"

	"github.com/mjkern/retro6502/instruction"
)

const (
	resetVector = uint16(0xFFFC)
	brkVector   = uint16(0xFFFE)
	stackBase   = uint16(0x0100)
)

// Memory is the interface the CPU depends on for all 8/16-bit
// accesses. memory.Manager satisfies this; tests may substitute a
// smaller flat implementation.
type Memory interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
	ReadWord(addr uint16) uint16
	WriteWord(addr uint16, val uint16)
	ReadWordZero(addr uint8) uint16
}

// CPU holds the complete architectural state of a 6502: the three
// data registers, stack pointer, program counter, status register,
// and the monotonic cycle/step counters. Current holds the
// in-flight instruction being amortized across cycles, or nil
// between instructions. remaining is Current's own countdown to
// retirement, tracked here rather than inside Instruction so that
// Current.Cycles keeps reporting the instruction's full budget all
// the way through to retirement.
type CPU struct {
	A, X, Y   uint8
	SP        uint8
	PC        uint16
	P         uint8
	Cycles    uint64
	Steps     uint64
	Current   *instruction.Instruction
	remaining int
}

// New constructs a CPU. Callers must call Reset before use to load
// the program counter from the reset vector and establish power-on
// register state.
func New() *CPU {
	return &CPU{}
}

// Reset sets A=X=Y=0, SP=0xFD, P=0x04 (I set), zeroes the cycle/step
// counters, clears any in-flight instruction, and loads PC from the
// reset vector at 0xFFFC.
func (c *CPU) Reset(mem Memory) {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = FlagI
	c.Cycles = 0
	c.Steps = 0
	c.Current = nil
	c.remaining = 0
	c.PC = mem.ReadWord(resetVector)
}

// fetch reads the byte at PC and advances PC by one, wrapping modulo
// 0x10000.
func (c *CPU) fetch(mem Memory) uint8 {
	b := mem.Read(c.PC)
	c.PC++
	return b
}

// fetchWord reads the two bytes starting at PC and advances PC by
// two.
func (c *CPU) fetchWord(mem Memory) uint16 {
	w := mem.ReadWord(c.PC)
	c.PC += 2
	return w
}

// push writes b to the stack page at SP then decrements SP, wrapping.
func (c *CPU) push(mem Memory, b uint8) {
	mem.Write(stackBase+uint16(c.SP), b)
	c.SP--
}

// pop increments SP, wrapping, then reads the stack page at SP.
func (c *CPU) pop(mem Memory) uint8 {
	c.SP++
	return mem.Read(stackBase + uint16(c.SP))
}

// pushWord pushes the high byte then the low byte, so popWord (low
// then high) reconstructs the original value.
func (c *CPU) pushWord(mem Memory, w uint16) {
	c.push(mem, uint8(w>>8))
	c.push(mem, uint8(w&0xFF))
}

// popWord pops the low byte then the high byte.
func (c *CPU) popWord(mem Memory) uint16 {
	lo := c.pop(mem)
	hi := c.pop(mem)
	return uint16(hi)<<8 | uint16(lo)
}

// SPAddr returns the full 16 bit stack address (SP + 0x100).
func (c *CPU) SPAddr() uint16 {
	return stackBase + uint16(c.SP)
}

// Cycle advances the CPU by one emulated clock tick. If no
// instruction is currently in flight it decodes and eagerly executes
// the next one, recording its total cycle budget in remaining; that
// countdown (not Current.Cycles, which never changes) is what gates
// retirement. When it reaches zero the instruction retires: Cycle
// returns it, still reporting its full original budget, and clears
// Current. A freshly decoded UNK opcode carries a zero budget and
// retires immediately without advancing the global cycle counter.
func (c *CPU) Cycle(mem Memory) *instruction.Instruction {
	if c.Current == nil {
		ins := c.decode(mem)
		c.Current = &ins
		c.remaining = ins.Cycles
		if c.remaining == 0 {
			done := c.Current
			c.Current = nil
			return done
		}
	}
	c.Cycles++
	c.remaining--
	if c.remaining == 0 {
		done := c.Current
		c.Current = nil
		return done
	}
	return nil
}

// Step repeatedly calls Cycle until an instruction retires, returning
// it and incrementing the step counter.
func (c *CPU) Step(mem Memory) instruction.Instruction {
	for {
		if ins := c.Cycle(mem); ins != nil {
			c.Steps++
			return *ins
		}
	}
}

// String renders the register trace format from spec.md §6.
func (c *CPU) String() string {
	last := "none"
	if c.Current != nil {
		last = c.Current.Debug()
	}
	return fmt.Sprintf("A=%02X X=%02X Y=%02X SP=1%02X PC=%04X P=%s #C=%d #S=%d Current=%s",
		c.A, c.X, c.Y, c.SP, c.PC, c.FlagString(), c.Cycles, c.Steps, last)
}
