package cpu

import (
	"log"

	"github.com/mjkern/retro6502/addrmode"
	"github.com/mjkern/retro6502/instruction"
)

// opInfo describes one opcode byte's decode: its mnemonic, addressing
// mode, base cycle cost, and whether a page-crossing effective
// address adds one more cycle.
type opInfo struct {
	mnemonic  instruction.Mnemonic
	mode      addrmode.Kind
	cycles    int
	pageCross bool
}

// opcodes is indexed by opcode byte. Entries left at the zero value
// decode as instruction.UNK with Implied addressing and a 0 cycle
// budget — spec.md §1 excludes undocumented opcodes from this core.
var opcodes = buildOpcodeTable()

func buildOpcodeTable() [256]opInfo {
	var t [256]opInfo

	type row struct {
		op   uint8
		mn   instruction.Mnemonic
		mode addrmode.Kind
		c    int
		pc   bool
	}
	rows := []row{
		// BRK / stack / flags / transfers
		{0x00, instruction.BRK, addrmode.Implied, 7, false},
		{0x08, instruction.PHP, addrmode.Implied, 3, false},
		{0x18, instruction.CLC, addrmode.Implied, 2, false},
		{0x28, instruction.PLP, addrmode.Implied, 4, false},
		{0x38, instruction.SEC, addrmode.Implied, 2, false},
		{0x40, instruction.RTI, addrmode.Implied, 6, false},
		{0x48, instruction.PHA, addrmode.Implied, 3, false},
		{0x58, instruction.CLI, addrmode.Implied, 2, false},
		{0x60, instruction.RTS, addrmode.Implied, 6, false},
		{0x68, instruction.PLA, addrmode.Implied, 4, false},
		{0x78, instruction.SEI, addrmode.Implied, 2, false},
		{0x88, instruction.DEY, addrmode.Implied, 2, false},
		{0x8A, instruction.TXA, addrmode.Implied, 2, false},
		{0x98, instruction.TYA, addrmode.Implied, 2, false},
		{0x9A, instruction.TXS, addrmode.Implied, 2, false},
		{0xA8, instruction.TAY, addrmode.Implied, 2, false},
		{0xAA, instruction.TAX, addrmode.Implied, 2, false},
		{0xB8, instruction.CLV, addrmode.Implied, 2, false},
		{0xBA, instruction.TSX, addrmode.Implied, 2, false},
		{0xC8, instruction.INY, addrmode.Implied, 2, false},
		{0xCA, instruction.DEX, addrmode.Implied, 2, false},
		{0xD8, instruction.CLD, addrmode.Implied, 2, false},
		{0xE8, instruction.INX, addrmode.Implied, 2, false},
		{0xEA, instruction.NOP, addrmode.Implied, 2, false},
		{0xF8, instruction.SED, addrmode.Implied, 2, false},

		// JMP / JSR
		{0x20, instruction.JSR, addrmode.Absolute, 6, false},
		{0x4C, instruction.JMP, addrmode.Absolute, 3, false},
		{0x6C, instruction.JMP, addrmode.Indirect, 5, false},

		// Branches (base cost only; taken/page-cross handled at execution)
		{0x10, instruction.BPL, addrmode.Relative, 2, false},
		{0x30, instruction.BMI, addrmode.Relative, 2, false},
		{0x50, instruction.BVC, addrmode.Relative, 2, false},
		{0x70, instruction.BVS, addrmode.Relative, 2, false},
		{0x90, instruction.BCC, addrmode.Relative, 2, false},
		{0xB0, instruction.BCS, addrmode.Relative, 2, false},
		{0xD0, instruction.BNE, addrmode.Relative, 2, false},
		{0xF0, instruction.BEQ, addrmode.Relative, 2, false},

		// BIT
		{0x24, instruction.BIT, addrmode.ZeroPage, 3, false},
		{0x2C, instruction.BIT, addrmode.Absolute, 4, false},

		// CPX / CPY
		{0xE0, instruction.CPX, addrmode.Immediate, 2, false},
		{0xE4, instruction.CPX, addrmode.ZeroPage, 3, false},
		{0xEC, instruction.CPX, addrmode.Absolute, 4, false},
		{0xC0, instruction.CPY, addrmode.Immediate, 2, false},
		{0xC4, instruction.CPY, addrmode.ZeroPage, 3, false},
		{0xCC, instruction.CPY, addrmode.Absolute, 4, false},

		// Shifts: ASL, LSR, ROL, ROR
		{0x0A, instruction.ASL, addrmode.Accumulator, 2, false},
		{0x06, instruction.ASL, addrmode.ZeroPage, 5, false},
		{0x16, instruction.ASL, addrmode.ZeroPageX, 6, false},
		{0x0E, instruction.ASL, addrmode.Absolute, 6, false},
		{0x1E, instruction.ASL, addrmode.AbsoluteX, 7, false},
		{0x4A, instruction.LSR, addrmode.Accumulator, 2, false},
		{0x46, instruction.LSR, addrmode.ZeroPage, 5, false},
		{0x56, instruction.LSR, addrmode.ZeroPageX, 6, false},
		{0x4E, instruction.LSR, addrmode.Absolute, 6, false},
		{0x5E, instruction.LSR, addrmode.AbsoluteX, 7, false},
		{0x2A, instruction.ROL, addrmode.Accumulator, 2, false},
		{0x26, instruction.ROL, addrmode.ZeroPage, 5, false},
		{0x36, instruction.ROL, addrmode.ZeroPageX, 6, false},
		{0x2E, instruction.ROL, addrmode.Absolute, 6, false},
		{0x3E, instruction.ROL, addrmode.AbsoluteX, 7, false},
		{0x6A, instruction.ROR, addrmode.Accumulator, 2, false},
		{0x66, instruction.ROR, addrmode.ZeroPage, 5, false},
		{0x76, instruction.ROR, addrmode.ZeroPageX, 6, false},
		{0x6E, instruction.ROR, addrmode.Absolute, 6, false},
		{0x7E, instruction.ROR, addrmode.AbsoluteX, 7, false},

		// INC / DEC (memory)
		{0xE6, instruction.INC, addrmode.ZeroPage, 5, false},
		{0xF6, instruction.INC, addrmode.ZeroPageX, 6, false},
		{0xEE, instruction.INC, addrmode.Absolute, 6, false},
		{0xFE, instruction.INC, addrmode.AbsoluteX, 7, false},
		{0xC6, instruction.DEC, addrmode.ZeroPage, 5, false},
		{0xD6, instruction.DEC, addrmode.ZeroPageX, 6, false},
		{0xCE, instruction.DEC, addrmode.Absolute, 6, false},
		{0xDE, instruction.DEC, addrmode.AbsoluteX, 7, false},

		// STX / STY
		{0x86, instruction.STX, addrmode.ZeroPage, 3, false},
		{0x96, instruction.STX, addrmode.ZeroPageY, 4, false},
		{0x8E, instruction.STX, addrmode.Absolute, 4, false},
		{0x84, instruction.STY, addrmode.ZeroPage, 3, false},
		{0x94, instruction.STY, addrmode.ZeroPageX, 4, false},
		{0x8C, instruction.STY, addrmode.Absolute, 4, false},

		// LDX / LDY
		{0xA2, instruction.LDX, addrmode.Immediate, 2, false},
		{0xA6, instruction.LDX, addrmode.ZeroPage, 3, false},
		{0xB6, instruction.LDX, addrmode.ZeroPageY, 4, false},
		{0xAE, instruction.LDX, addrmode.Absolute, 4, false},
		{0xBE, instruction.LDX, addrmode.AbsoluteY, 4, true},
		{0xA0, instruction.LDY, addrmode.Immediate, 2, false},
		{0xA4, instruction.LDY, addrmode.ZeroPage, 3, false},
		{0xB4, instruction.LDY, addrmode.ZeroPageX, 4, false},
		{0xAC, instruction.LDY, addrmode.Absolute, 4, false},
		{0xBC, instruction.LDY, addrmode.AbsoluteX, 4, true},

		// STA (no page-cross penalty; indexed stores charge the extra cycle unconditionally)
		{0x85, instruction.STA, addrmode.ZeroPage, 3, false},
		{0x95, instruction.STA, addrmode.ZeroPageX, 4, false},
		{0x8D, instruction.STA, addrmode.Absolute, 4, false},
		{0x9D, instruction.STA, addrmode.AbsoluteX, 5, false},
		{0x99, instruction.STA, addrmode.AbsoluteY, 5, false},
		{0x81, instruction.STA, addrmode.IndirectX, 6, false},
		{0x91, instruction.STA, addrmode.IndirectY, 6, false},
	}

	// The 8-addressing-mode ALU family: ORA/AND/EOR/ADC/LDA/CMP/SBC.
	alu := []struct {
		mn instruction.Mnemonic
		op [8]uint8 // indx, zp, imm, abs, indy, zpx, absy, absx
	}{
		{instruction.ORA, [8]uint8{0x01, 0x05, 0x09, 0x0D, 0x11, 0x15, 0x19, 0x1D}},
		{instruction.AND, [8]uint8{0x21, 0x25, 0x29, 0x2D, 0x31, 0x35, 0x39, 0x3D}},
		{instruction.EOR, [8]uint8{0x41, 0x45, 0x49, 0x4D, 0x51, 0x55, 0x59, 0x5D}},
		{instruction.ADC, [8]uint8{0x61, 0x65, 0x69, 0x6D, 0x71, 0x75, 0x79, 0x7D}},
		{instruction.LDA, [8]uint8{0xA1, 0xA5, 0xA9, 0xAD, 0xB1, 0xB5, 0xB9, 0xBD}},
		{instruction.CMP, [8]uint8{0xC1, 0xC5, 0xC9, 0xCD, 0xD1, 0xD5, 0xD9, 0xDD}},
		{instruction.SBC, [8]uint8{0xE1, 0xE5, 0xE9, 0xED, 0xF1, 0xF5, 0xF9, 0xFD}},
	}
	aluModes := [8]struct {
		mode addrmode.Kind
		c    int
		pc   bool
	}{
		{addrmode.IndirectX, 6, false},
		{addrmode.ZeroPage, 3, false},
		{addrmode.Immediate, 2, false},
		{addrmode.Absolute, 4, false},
		{addrmode.IndirectY, 5, true},
		{addrmode.ZeroPageX, 4, false},
		{addrmode.AbsoluteY, 4, true},
		{addrmode.AbsoluteX, 4, true},
	}
	for _, a := range alu {
		for i, op := range a.op {
			m := aluModes[i]
			rows = append(rows, row{op, a.mn, m.mode, m.c, m.pc})
		}
	}

	for _, r := range rows {
		t[r.op] = opInfo{mnemonic: r.mn, mode: r.mode, cycles: r.c, pageCross: r.pc}
	}
	return t
}

// operandBytes reports how many operand bytes follow the opcode byte
// for a given addressing mode.
func operandBytes(k addrmode.Kind) int {
	switch k {
	case addrmode.Implied, addrmode.Accumulator:
		return 0
	case addrmode.Absolute, addrmode.AbsoluteX, addrmode.AbsoluteY, addrmode.Indirect:
		return 2
	default:
		return 1
	}
}

// decode fetches one instruction at the current PC, eagerly performs
// its entire architectural effect, and returns it with its total
// cycle budget recorded (not yet amortized).
func (c *CPU) decode(mem Memory) instruction.Instruction {
	pc := c.PC
	op := c.fetch(mem)
	bytes := []uint8{op}

	info := opcodes[op]
	if info.mnemonic == instruction.UNK {
		log.Printf("cpu: unknown opcode %#02x at %#04x", op, pc)
		return instruction.New(pc, bytes, instruction.UNK, addrmode.Mode{Kind: addrmode.Implied}, 0)
	}

	var mode addrmode.Mode
	switch operandBytes(info.mode) {
	case 1:
		mode = addrmode.New8(info.mode, c.fetch(mem))
	case 2:
		mode = addrmode.New16(info.mode, c.fetchWord(mem))
	default:
		mode = addrmode.Mode{Kind: info.mode}
	}
	bytes = mode.AppendBytes(bytes)

	cycles := info.cycles

	switch info.mnemonic {
	case instruction.LDA, instruction.LDX, instruction.LDY:
		if crossed := c.execLoad(mem, info.mnemonic, mode); info.pageCross && crossed {
			cycles++
		}
	case instruction.AND, instruction.ORA, instruction.EOR, instruction.ADC, instruction.SBC, instruction.CMP:
		if crossed := c.execALU(mem, info.mnemonic, mode); info.pageCross && crossed {
			cycles++
		}
	case instruction.STA, instruction.STX, instruction.STY:
		c.execStore(mem, info.mnemonic, mode)
	case instruction.ASL, instruction.LSR, instruction.ROL, instruction.ROR:
		c.execShift(mem, info.mnemonic, mode)
	case instruction.INC, instruction.DEC:
		c.execIncDec(mem, info.mnemonic, mode)
	case instruction.BIT:
		c.execBit(mem, mode)
	case instruction.CPX, instruction.CPY:
		c.execCompareIndex(mem, info.mnemonic, mode)
	case instruction.JMP:
		c.execJmp(mem, mode)
	case instruction.JSR:
		c.execJsr(mem, mode)
	case instruction.RTS:
		c.execRts(mem)
	case instruction.RTI:
		c.execRti(mem)
	case instruction.BRK:
		c.execBrk(mem)
	case instruction.PHA, instruction.PHP, instruction.PLA, instruction.PLP:
		c.execStackOp(mem, info.mnemonic)
	case instruction.TAX, instruction.TAY, instruction.TSX, instruction.TXA, instruction.TXS, instruction.TYA:
		c.execTransfer(info.mnemonic)
	case instruction.INX, instruction.INY, instruction.DEX, instruction.DEY:
		c.execIncDecReg(info.mnemonic)
	case instruction.CLC, instruction.CLD, instruction.CLI, instruction.CLV, instruction.SEC, instruction.SED, instruction.SEI:
		c.execFlagOp(info.mnemonic)
	case instruction.NOP:
		// No architectural effect.
	case instruction.BPL, instruction.BMI, instruction.BVC, instruction.BVS,
		instruction.BCC, instruction.BCS, instruction.BNE, instruction.BEQ:
		cycles = c.execBranch(info.mnemonic, mode, cycles)
	}

	return instruction.New(pc, bytes, info.mnemonic, mode, cycles)
}

// resolveAddr computes the effective address for any memory-referencing
// addressing mode and reports whether computing it crossed a 256 byte
// page boundary (meaningful only for the indexed/indirect-indexed
// modes; always false otherwise).
//
// The Indirect mode (JMP only) reproduces the classic NMOS 6502
// hardware bug where the pointer's high byte is fetched from the
// start of the same page rather than the next page when the pointer's
// low byte is 0xFF — spec.md §4.5 explicitly allows either choice as
// long as it's documented.
func (c *CPU) resolveAddr(mem Memory, m addrmode.Mode) (addr uint16, crossed bool) {
	switch m.Kind {
	case addrmode.ZeroPage:
		return m.Value, false
	case addrmode.ZeroPageX:
		return uint16(uint8(m.Value) + c.X), false
	case addrmode.ZeroPageY:
		return uint16(uint8(m.Value) + c.Y), false
	case addrmode.Absolute:
		return m.Value, false
	case addrmode.AbsoluteX:
		base := m.Value
		addr = base + uint16(c.X)
		return addr, (addr & 0xFF00) != (base & 0xFF00)
	case addrmode.AbsoluteY:
		base := m.Value
		addr = base + uint16(c.Y)
		return addr, (addr & 0xFF00) != (base & 0xFF00)
	case addrmode.IndirectX:
		ptr := uint8(m.Value) + c.X
		return mem.ReadWordZero(ptr), false
	case addrmode.IndirectY:
		base := mem.ReadWordZero(uint8(m.Value))
		addr = base + uint16(c.Y)
		return addr, (addr & 0xFF00) != (base & 0xFF00)
	case addrmode.Indirect:
		ptr := m.Value
		hiAddr := (ptr & 0xFF00) | uint16(uint8(ptr)+1)
		lo := mem.Read(ptr)
		hi := mem.Read(hiAddr)
		return uint16(hi)<<8 | uint16(lo), false
	default:
		return 0, false
	}
}

// readOperand returns an instruction's operand value: the immediate
// byte itself, or the byte at its resolved effective address.
func (c *CPU) readOperand(mem Memory, m addrmode.Mode) (val uint8, crossed bool) {
	if m.Kind == addrmode.Immediate {
		return uint8(m.Value), false
	}
	addr, crossed := c.resolveAddr(mem, m)
	return mem.Read(addr), crossed
}

func (c *CPU) execLoad(mem Memory, mnemonic instruction.Mnemonic, mode addrmode.Mode) bool {
	val, crossed := c.readOperand(mem, mode)
	switch mnemonic {
	case instruction.LDA:
		c.A = val
	case instruction.LDX:
		c.X = val
	case instruction.LDY:
		c.Y = val
	}
	c.updateZN(val)
	return crossed
}

func (c *CPU) execALU(mem Memory, mnemonic instruction.Mnemonic, mode addrmode.Mode) bool {
	val, crossed := c.readOperand(mem, mode)
	switch mnemonic {
	case instruction.ORA:
		c.A |= val
		c.updateZN(c.A)
	case instruction.AND:
		c.A &= val
		c.updateZN(c.A)
	case instruction.EOR:
		c.A ^= val
		c.updateZN(c.A)
	case instruction.ADC:
		c.adc(val)
	case instruction.SBC:
		c.sbc(val)
	case instruction.CMP:
		c.compare(c.A, val)
	}
	return crossed
}

// adc implements A, C <- A + M + C with V computed from the signed
// overflow of A + M alone (existing carry excluded from the V
// computation), per spec.md §4.5's explicit arithmetic semantics.
func (c *CPU) adc(val uint8) {
	carryIn := uint16(0)
	if c.GetFlag(FlagC) {
		carryIn = 1
	}
	full := uint16(c.A) + uint16(val) + carryIn
	sum := int16(int8(c.A)) + int16(int8(val))
	c.SetFlag(FlagC, full > 0xFF)
	c.SetFlag(FlagV, sum > 127 || sum < -128)
	c.A = uint8(full)
	c.updateZN(c.A)
}

// sbc implements the canonical A - M - (1-C) via the standard 6502
// adder trick of adding the one's complement of the operand plus the
// carry. Unlike adc, V here is computed from the full sum including
// the carry-in, so both C and V follow standard 6502 SBC semantics.
func (c *CPU) sbc(val uint8) {
	operand := ^val
	carryIn := uint16(0)
	if c.GetFlag(FlagC) {
		carryIn = 1
	}
	full := uint16(c.A) + uint16(operand) + carryIn
	result := uint8(full)
	c.SetFlag(FlagC, full > 0xFF)
	c.SetFlag(FlagV, (c.A^result)&(operand^result)&0x80 != 0)
	c.A = result
	c.updateZN(c.A)
}

// compare implements CMP/CPX/CPY: R - M with N/Z from the result and
// C set when R >= M (unsigned). No V flag — per spec.md §9's
// correction of the source's non-standard CPX/CPY overflow flag.
func (c *CPU) compare(reg, val uint8) {
	result := reg - val
	c.updateZN(result)
	c.SetFlag(FlagC, reg >= val)
}

func (c *CPU) execStore(mem Memory, mnemonic instruction.Mnemonic, mode addrmode.Mode) {
	addr, _ := c.resolveAddr(mem, mode)
	var val uint8
	switch mnemonic {
	case instruction.STA:
		val = c.A
	case instruction.STX:
		val = c.X
	case instruction.STY:
		val = c.Y
	}
	mem.Write(addr, val)
}

func (c *CPU) execShift(mem Memory, mnemonic instruction.Mnemonic, mode addrmode.Mode) {
	if mode.Kind == addrmode.Accumulator {
		c.A = c.shift(mnemonic, c.A)
		return
	}
	addr, _ := c.resolveAddr(mem, mode)
	val := c.shift(mnemonic, mem.Read(addr))
	mem.Write(addr, val)
}

func (c *CPU) shift(mnemonic instruction.Mnemonic, val uint8) uint8 {
	switch mnemonic {
	case instruction.ASL:
		c.SetFlag(FlagC, val&0x80 != 0)
		val <<= 1
	case instruction.LSR:
		c.SetFlag(FlagC, val&0x01 != 0)
		val >>= 1
	case instruction.ROL:
		carryIn := uint8(0)
		if c.GetFlag(FlagC) {
			carryIn = 1
		}
		c.SetFlag(FlagC, val&0x80 != 0)
		val = (val << 1) | carryIn
	case instruction.ROR:
		carryIn := uint8(0)
		if c.GetFlag(FlagC) {
			carryIn = 0x80
		}
		c.SetFlag(FlagC, val&0x01 != 0)
		val = (val >> 1) | carryIn
	}
	c.updateZN(val)
	return val
}

func (c *CPU) execIncDec(mem Memory, mnemonic instruction.Mnemonic, mode addrmode.Mode) {
	addr, _ := c.resolveAddr(mem, mode)
	val := mem.Read(addr)
	if mnemonic == instruction.INC {
		val++
	} else {
		val--
	}
	mem.Write(addr, val)
	c.updateZN(val)
}

func (c *CPU) execBit(mem Memory, mode addrmode.Mode) {
	addr, _ := c.resolveAddr(mem, mode)
	val := mem.Read(addr)
	c.SetFlag(FlagZ, c.A&val == 0)
	c.SetFlag(FlagN, val&0x80 != 0)
	c.SetFlag(FlagV, val&0x40 != 0)
}

func (c *CPU) execCompareIndex(mem Memory, mnemonic instruction.Mnemonic, mode addrmode.Mode) {
	val, _ := c.readOperand(mem, mode)
	reg := c.X
	if mnemonic == instruction.CPY {
		reg = c.Y
	}
	c.compare(reg, val)
}

func (c *CPU) execJmp(mem Memory, mode addrmode.Mode) {
	addr, _ := c.resolveAddr(mem, mode)
	c.PC = addr
}

// execJsr pushes PC-1 (the address of the JSR instruction's last
// byte; RTS will pop this and add 1) then jumps to the target. By
// the time this runs the absolute operand has already been fetched,
// so c.PC already points one past the instruction.
func (c *CPU) execJsr(mem Memory, mode addrmode.Mode) {
	c.pushWord(mem, c.PC-1)
	c.PC = mode.Value
}

func (c *CPU) execRts(mem Memory) {
	c.PC = c.popWord(mem) + 1
}

func (c *CPU) execRti(mem Memory) {
	c.P = c.pop(mem)
	c.PC = c.popWord(mem)
}

func (c *CPU) execBrk(mem Memory) {
	c.pushWord(mem, c.PC+1)
	c.push(mem, c.P)
	c.PC = mem.ReadWord(brkVector)
}

func (c *CPU) execStackOp(mem Memory, mnemonic instruction.Mnemonic) {
	switch mnemonic {
	case instruction.PHA:
		c.push(mem, c.A)
	case instruction.PHP:
		c.push(mem, c.P)
	case instruction.PLA:
		c.A = c.pop(mem)
		c.updateZN(c.A)
	case instruction.PLP:
		c.P = c.pop(mem)
	}
}

func (c *CPU) execTransfer(mnemonic instruction.Mnemonic) {
	switch mnemonic {
	case instruction.TAX:
		c.X = c.A
		c.updateZN(c.X)
	case instruction.TAY:
		c.Y = c.A
		c.updateZN(c.Y)
	case instruction.TSX:
		c.X = c.SP
		c.updateZN(c.X)
	case instruction.TXA:
		c.A = c.X
		c.updateZN(c.A)
	case instruction.TXS:
		c.SP = c.X
	case instruction.TYA:
		c.A = c.Y
		c.updateZN(c.A)
	}
}

func (c *CPU) execIncDecReg(mnemonic instruction.Mnemonic) {
	switch mnemonic {
	case instruction.INX:
		c.X++
		c.updateZN(c.X)
	case instruction.INY:
		c.Y++
		c.updateZN(c.Y)
	case instruction.DEX:
		c.X--
		c.updateZN(c.X)
	case instruction.DEY:
		c.Y--
		c.updateZN(c.Y)
	}
}

func (c *CPU) execFlagOp(mnemonic instruction.Mnemonic) {
	switch mnemonic {
	case instruction.CLC:
		c.SetFlag(FlagC, false)
	case instruction.SEC:
		c.SetFlag(FlagC, true)
	case instruction.CLI:
		c.SetFlag(FlagI, false)
	case instruction.SEI:
		c.SetFlag(FlagI, true)
	case instruction.CLV:
		c.SetFlag(FlagV, false)
	case instruction.CLD:
		c.SetFlag(FlagD, false)
	case instruction.SED:
		c.SetFlag(FlagD, true)
	}
}

// execBranch evaluates the branch condition and, if taken, computes
// the target (PC-after-operand + sign-extended offset) and folds in
// the taken/page-cross cycle additions from spec.md §4.5.
func (c *CPU) execBranch(mnemonic instruction.Mnemonic, mode addrmode.Mode, baseCycles int) int {
	if !c.branchTaken(mnemonic) {
		return baseCycles
	}
	offset := int8(uint8(mode.Value))
	pcAfterOperand := c.PC
	target := uint16(int32(pcAfterOperand) + int32(offset))
	cycles := baseCycles + 1
	if (target & 0xFF00) != (pcAfterOperand & 0xFF00) {
		cycles++
	}
	c.PC = target
	return cycles
}

func (c *CPU) branchTaken(mnemonic instruction.Mnemonic) bool {
	switch mnemonic {
	case instruction.BPL:
		return !c.GetFlag(FlagN)
	case instruction.BMI:
		return c.GetFlag(FlagN)
	case instruction.BVC:
		return !c.GetFlag(FlagV)
	case instruction.BVS:
		return c.GetFlag(FlagV)
	case instruction.BCC:
		return !c.GetFlag(FlagC)
	case instruction.BCS:
		return c.GetFlag(FlagC)
	case instruction.BNE:
		return !c.GetFlag(FlagZ)
	case instruction.BEQ:
		return c.GetFlag(FlagZ)
	}
	return false
}
