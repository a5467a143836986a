package memory

import "log"

// entry is a single (base, region) mapping.
type entry struct {
	base   uint16
	region Bank
}

func (e entry) covers(addr uint16) bool {
	return addr >= e.base && int(addr) < int(e.base)+e.region.Size()
}

// Manager holds an ordered list of (base, region) mappings and routes
// 8/16-bit accesses to the first mapping (in most-recently-mapped
// order) that covers a given address — later Map() calls shadow
// earlier ones at any overlapping addresses. An access with no
// covering mapping is logged and treated as a read-zero / dropped
// write; the Manager never panics on a guest address, only mapped
// RAM banks do.
type Manager struct {
	entries []entry
	endian  Endian
}

// NewManager constructs an empty memory manager using the given
// endianness for its 16-bit helpers. The 6502 machine always uses
// Little.
func NewManager(endian Endian) *Manager {
	return &Manager{endian: endian}
}

// Map registers region at base, taking precedence over every
// previously mapped region at any address it overlaps. Mappings are
// prepended so lookup always finds the most recently mapped covering
// entry first.
func (m *Manager) Map(base uint16, region Bank) {
	m.entries = append([]entry{{base: base, region: region}}, m.entries...)
}

func (m *Manager) find(addr uint16) *entry {
	for i := range m.entries {
		if m.entries[i].covers(addr) {
			return &m.entries[i]
		}
	}
	return nil
}

// Read routes addr to its covering region. An unmapped address is
// logged and reads as 0.
func (m *Manager) Read(addr uint16) uint8 {
	e := m.find(addr)
	if e == nil {
		log.Printf("memory: read from unmapped address %#04x", addr)
		return 0
	}
	return e.region.Read(addr - e.base)
}

// Write routes addr to its covering region. An unmapped address is
// logged and the write dropped.
func (m *Manager) Write(addr uint16, val uint8) {
	e := m.find(addr)
	if e == nil {
		log.Printf("memory: write to unmapped address %#04x dropped", addr)
		return
	}
	e.region.Write(addr-e.base, val)
}

// ReadWord reads two sequential bytes and composes them per the
// manager's configured endianness, each byte independently routed
// through Read (so a word can legitimately straddle two different
// mapped regions).
func (m *Manager) ReadWord(addr uint16) uint16 {
	lo := m.Read(addr)
	hi := m.Read(addr + 1)
	return composeWord(lo, hi, m.endian)
}

// WriteWord writes two sequential bytes per the manager's configured
// endianness.
func (m *Manager) WriteWord(addr uint16, val uint16) {
	first, second := splitWord(val, m.endian)
	m.Write(addr, first)
	m.Write(addr+1, second)
}

// ReadWordZero reads the low byte at addr and the high byte at
// addr+1, wrapping within the zero page (8 bits) rather than the
// full address space — required for (indirect,X)/(indirect),Y
// pointer fetches.
func (m *Manager) ReadWordZero(addr uint8) uint16 {
	lo := m.Read(uint16(addr))
	hi := m.Read(uint16(addr + 1))
	return composeWord(lo, hi, m.endian)
}

// WriteWordZero is the zero-page-wrapping counterpart of WriteWord.
func (m *Manager) WriteWordZero(addr uint8, val uint16) {
	first, second := splitWord(val, m.endian)
	m.Write(uint16(addr), first)
	m.Write(uint16(addr+1), second)
}
