// Package disassemble renders instructions at an address back into
// the stable assembler-style text format, and parses that format back
// into an Instruction — the round trip spec.md §8 requires for every
// documented opcode.
package disassemble

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mjkern/retro6502/addrmode"
	"github.com/mjkern/retro6502/instruction"
)

// Reader is the minimal memory dependency disassembly needs: a single
// byte read, with no side effects. memory.Bank and memory.Manager both
// satisfy this trivially.
type Reader interface {
	Read(addr uint16) uint8
}

type opShape struct {
	mnemonic instruction.Mnemonic
	mode     addrmode.Kind
}

// shapes mirrors the cpu package's opcode table but carries no cycle
// or execution information — disassembly never advances CPU state, it
// only reads bytes and formats them, the same division of labor the
// Rust original's disassembler keeps from its CPU core.
var shapes = buildShapes()

func buildShapes() [256]opShape {
	var t [256]opShape
	type row struct {
		op   uint8
		mn   instruction.Mnemonic
		mode addrmode.Kind
	}
	rows := []row{
		{0x00, instruction.BRK, addrmode.Implied},
		{0x08, instruction.PHP, addrmode.Implied},
		{0x18, instruction.CLC, addrmode.Implied},
		{0x28, instruction.PLP, addrmode.Implied},
		{0x38, instruction.SEC, addrmode.Implied},
		{0x40, instruction.RTI, addrmode.Implied},
		{0x48, instruction.PHA, addrmode.Implied},
		{0x58, instruction.CLI, addrmode.Implied},
		{0x60, instruction.RTS, addrmode.Implied},
		{0x68, instruction.PLA, addrmode.Implied},
		{0x78, instruction.SEI, addrmode.Implied},
		{0x88, instruction.DEY, addrmode.Implied},
		{0x8A, instruction.TXA, addrmode.Implied},
		{0x98, instruction.TYA, addrmode.Implied},
		{0x9A, instruction.TXS, addrmode.Implied},
		{0xA8, instruction.TAY, addrmode.Implied},
		{0xAA, instruction.TAX, addrmode.Implied},
		{0xB8, instruction.CLV, addrmode.Implied},
		{0xBA, instruction.TSX, addrmode.Implied},
		{0xC8, instruction.INY, addrmode.Implied},
		{0xCA, instruction.DEX, addrmode.Implied},
		{0xD8, instruction.CLD, addrmode.Implied},
		{0xE8, instruction.INX, addrmode.Implied},
		{0xEA, instruction.NOP, addrmode.Implied},
		{0xF8, instruction.SED, addrmode.Implied},

		{0x20, instruction.JSR, addrmode.Absolute},
		{0x4C, instruction.JMP, addrmode.Absolute},
		{0x6C, instruction.JMP, addrmode.Indirect},

		{0x10, instruction.BPL, addrmode.Relative},
		{0x30, instruction.BMI, addrmode.Relative},
		{0x50, instruction.BVC, addrmode.Relative},
		{0x70, instruction.BVS, addrmode.Relative},
		{0x90, instruction.BCC, addrmode.Relative},
		{0xB0, instruction.BCS, addrmode.Relative},
		{0xD0, instruction.BNE, addrmode.Relative},
		{0xF0, instruction.BEQ, addrmode.Relative},

		{0x24, instruction.BIT, addrmode.ZeroPage},
		{0x2C, instruction.BIT, addrmode.Absolute},

		{0xE0, instruction.CPX, addrmode.Immediate},
		{0xE4, instruction.CPX, addrmode.ZeroPage},
		{0xEC, instruction.CPX, addrmode.Absolute},
		{0xC0, instruction.CPY, addrmode.Immediate},
		{0xC4, instruction.CPY, addrmode.ZeroPage},
		{0xCC, instruction.CPY, addrmode.Absolute},

		{0x0A, instruction.ASL, addrmode.Accumulator},
		{0x06, instruction.ASL, addrmode.ZeroPage},
		{0x16, instruction.ASL, addrmode.ZeroPageX},
		{0x0E, instruction.ASL, addrmode.Absolute},
		{0x1E, instruction.ASL, addrmode.AbsoluteX},
		{0x4A, instruction.LSR, addrmode.Accumulator},
		{0x46, instruction.LSR, addrmode.ZeroPage},
		{0x56, instruction.LSR, addrmode.ZeroPageX},
		{0x4E, instruction.LSR, addrmode.Absolute},
		{0x5E, instruction.LSR, addrmode.AbsoluteX},
		{0x2A, instruction.ROL, addrmode.Accumulator},
		{0x26, instruction.ROL, addrmode.ZeroPage},
		{0x36, instruction.ROL, addrmode.ZeroPageX},
		{0x2E, instruction.ROL, addrmode.Absolute},
		{0x3E, instruction.ROL, addrmode.AbsoluteX},
		{0x6A, instruction.ROR, addrmode.Accumulator},
		{0x66, instruction.ROR, addrmode.ZeroPage},
		{0x76, instruction.ROR, addrmode.ZeroPageX},
		{0x6E, instruction.ROR, addrmode.Absolute},
		{0x7E, instruction.ROR, addrmode.AbsoluteX},

		{0xE6, instruction.INC, addrmode.ZeroPage},
		{0xF6, instruction.INC, addrmode.ZeroPageX},
		{0xEE, instruction.INC, addrmode.Absolute},
		{0xFE, instruction.INC, addrmode.AbsoluteX},
		{0xC6, instruction.DEC, addrmode.ZeroPage},
		{0xD6, instruction.DEC, addrmode.ZeroPageX},
		{0xCE, instruction.DEC, addrmode.Absolute},
		{0xDE, instruction.DEC, addrmode.AbsoluteX},

		{0x86, instruction.STX, addrmode.ZeroPage},
		{0x96, instruction.STX, addrmode.ZeroPageY},
		{0x8E, instruction.STX, addrmode.Absolute},
		{0x84, instruction.STY, addrmode.ZeroPage},
		{0x94, instruction.STY, addrmode.ZeroPageX},
		{0x8C, instruction.STY, addrmode.Absolute},

		{0xA2, instruction.LDX, addrmode.Immediate},
		{0xA6, instruction.LDX, addrmode.ZeroPage},
		{0xB6, instruction.LDX, addrmode.ZeroPageY},
		{0xAE, instruction.LDX, addrmode.Absolute},
		{0xBE, instruction.LDX, addrmode.AbsoluteY},
		{0xA0, instruction.LDY, addrmode.Immediate},
		{0xA4, instruction.LDY, addrmode.ZeroPage},
		{0xB4, instruction.LDY, addrmode.ZeroPageX},
		{0xAC, instruction.LDY, addrmode.Absolute},
		{0xBC, instruction.LDY, addrmode.AbsoluteX},

		{0x85, instruction.STA, addrmode.ZeroPage},
		{0x95, instruction.STA, addrmode.ZeroPageX},
		{0x8D, instruction.STA, addrmode.Absolute},
		{0x9D, instruction.STA, addrmode.AbsoluteX},
		{0x99, instruction.STA, addrmode.AbsoluteY},
		{0x81, instruction.STA, addrmode.IndirectX},
		{0x91, instruction.STA, addrmode.IndirectY},
	}

	alu := []struct {
		mn instruction.Mnemonic
		op [8]uint8
	}{
		{instruction.ORA, [8]uint8{0x01, 0x05, 0x09, 0x0D, 0x11, 0x15, 0x19, 0x1D}},
		{instruction.AND, [8]uint8{0x21, 0x25, 0x29, 0x2D, 0x31, 0x35, 0x39, 0x3D}},
		{instruction.EOR, [8]uint8{0x41, 0x45, 0x49, 0x4D, 0x51, 0x55, 0x59, 0x5D}},
		{instruction.ADC, [8]uint8{0x61, 0x65, 0x69, 0x6D, 0x71, 0x75, 0x79, 0x7D}},
		{instruction.LDA, [8]uint8{0xA1, 0xA5, 0xA9, 0xAD, 0xB1, 0xB5, 0xB9, 0xBD}},
		{instruction.CMP, [8]uint8{0xC1, 0xC5, 0xC9, 0xCD, 0xD1, 0xD5, 0xD9, 0xDD}},
		{instruction.SBC, [8]uint8{0xE1, 0xE5, 0xE9, 0xED, 0xF1, 0xF5, 0xF9, 0xFD}},
	}
	aluModes := [8]addrmode.Kind{
		addrmode.IndirectX, addrmode.ZeroPage, addrmode.Immediate, addrmode.Absolute,
		addrmode.IndirectY, addrmode.ZeroPageX, addrmode.AbsoluteY, addrmode.AbsoluteX,
	}
	for _, a := range alu {
		for i, op := range a.op {
			rows = append(rows, row{op, a.mn, aluModes[i]})
		}
	}

	for _, r := range rows {
		t[r.op] = opShape{mnemonic: r.mn, mode: r.mode}
	}
	return t
}

func operandLen(k addrmode.Kind) int {
	switch k {
	case addrmode.Implied, addrmode.Accumulator:
		return 0
	case addrmode.Absolute, addrmode.AbsoluteX, addrmode.AbsoluteY, addrmode.Indirect:
		return 2
	default:
		return 1
	}
}

// Step disassembles the instruction at pc without mutating any CPU
// state, returning its stable text form and the number of bytes (the
// instruction's total length) the caller should advance pc by to
// reach the next instruction. Unrecognized opcodes disassemble as a
// one byte UNK with Implied addressing.
func Step(pc uint16, mem Reader) (string, int) {
	op := mem.Read(pc)
	shape := shapes[op]
	bytes := []uint8{op}

	var mode addrmode.Mode
	switch operandLen(shape.mode) {
	case 1:
		mode = addrmode.New8(shape.mode, mem.Read(pc+1))
		bytes = append(bytes, mem.Read(pc+1))
	case 2:
		lo := mem.Read(pc + 1)
		hi := mem.Read(pc + 2)
		mode = addrmode.New16(shape.mode, uint16(hi)<<8|uint16(lo))
		bytes = append(bytes, lo, hi)
	default:
		mode = addrmode.Mode{Kind: shape.mode}
	}

	ins := instruction.New(pc, bytes, shape.mnemonic, mode, 0)
	return ins.String(), len(bytes)
}

// Parse is the inverse of Instruction.String(): it reads back the
// "PPPP: BB BB BB    ; MNE OPERAND" format disassembly produces. For
// any opcode, parsing Step's output yields an Instruction Equal to
// the one Step rendered (mnemonic and addressing mode; cycles are 0
// on both sides).
func Parse(s string) (instruction.Instruction, error) {
	head, rest, ok := strings.Cut(s, ";")
	if !ok {
		return instruction.Instruction{}, fmt.Errorf("disassemble: missing ';' separator in %q", s)
	}
	pcStr, byteStr, ok := strings.Cut(head, ":")
	if !ok {
		return instruction.Instruction{}, fmt.Errorf("disassemble: missing ':' separator in %q", s)
	}

	pc, err := strconv.ParseUint(strings.TrimSpace(pcStr), 16, 16)
	if err != nil {
		return instruction.Instruction{}, fmt.Errorf("disassemble: bad PC %q: %w", pcStr, err)
	}

	var bytes []uint8
	for _, f := range strings.Fields(byteStr) {
		b, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return instruction.Instruction{}, fmt.Errorf("disassemble: bad byte %q: %w", f, err)
		}
		bytes = append(bytes, uint8(b))
	}
	if len(bytes) == 0 {
		return instruction.Instruction{}, fmt.Errorf("disassemble: no opcode bytes in %q", s)
	}

	fields := strings.Fields(strings.TrimSpace(rest))
	if len(fields) == 0 {
		return instruction.Instruction{}, fmt.Errorf("disassemble: no mnemonic in %q", s)
	}
	mnemonic, ok := instruction.ByName(fields[0])
	if !ok {
		return instruction.Instruction{}, fmt.Errorf("disassemble: unknown mnemonic %q", fields[0])
	}

	mode, err := parseMode(mnemonic, bytes)
	if err != nil {
		return instruction.Instruction{}, err
	}

	return instruction.New(uint16(pc), bytes, mnemonic, mode, 0), nil
}

func parseMode(mnemonic instruction.Mnemonic, bytes []uint8) (addrmode.Mode, error) {
	shape := shapes[bytes[0]]
	if shape.mnemonic != mnemonic {
		return addrmode.Mode{}, fmt.Errorf("disassemble: mnemonic %s does not match opcode byte %#02x", mnemonic, bytes[0])
	}
	switch operandLen(shape.mode) {
	case 0:
		return addrmode.Mode{Kind: shape.mode}, nil
	case 1:
		return addrmode.New8(shape.mode, bytes[1]), nil
	default:
		return addrmode.New16(shape.mode, uint16(bytes[2])<<8|uint16(bytes[1])), nil
	}
}
