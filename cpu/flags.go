package cpu

// Flag bit positions within the P status register, per spec.md §3.
const (
	FlagN = uint8(0x80) // Negative
	FlagV = uint8(0x40) // Overflow
	flagU = uint8(0x20) // Unused, always reads back whatever was last stored
	FlagB = uint8(0x10) // Break (only meaningful in the pushed copy)
	FlagD = uint8(0x08) // Decimal — unused by ADC/SBC here, see spec.md §1 non-goals
	FlagI = uint8(0x04) // Interrupt disable
	FlagZ = uint8(0x02) // Zero
	FlagC = uint8(0x01) // Carry
)

// GetFlag reports whether the given flag bit is set in P.
func (c *CPU) GetFlag(flag uint8) bool {
	return c.P&flag != 0
}

// SetFlag sets or clears the given flag bit in P.
func (c *CPU) SetFlag(flag uint8, value bool) {
	if value {
		c.P |= flag
	} else {
		c.P &^= flag
	}
}

// updateZN sets Z from val == 0 and N from val's bit 7, the shared
// helper every load/transfer/arithmetic/shift instruction uses.
func (c *CPU) updateZN(val uint8) {
	c.SetFlag(FlagZ, val == 0)
	c.SetFlag(FlagN, val&0x80 != 0)
}

// flagLayout walks P's bit positions in display order for FlagString:
// N V - B D I Z C, the template spec.md §6 names.
var flagLayout = [8]struct {
	flag uint8
	ch   byte
}{
	{FlagN, 'N'}, {FlagV, 'V'}, {0, '-'}, {FlagB, 'B'}, {FlagD, 'D'}, {FlagI, 'I'}, {FlagZ, 'Z'}, {FlagC, 'C'},
}

// FlagString renders P in the stable trace format from spec.md §6:
// each flag position shows its letter when set, '-' when clear.
func (c *CPU) FlagString() string {
	out := make([]byte, len(flagLayout))
	for i, f := range flagLayout {
		switch {
		case f.flag == 0:
			out[i] = '-'
		case c.P&f.flag != 0:
			out[i] = f.ch
		default:
			out[i] = '-'
		}
	}
	return string(out)
}
