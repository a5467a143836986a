package memory

// RAM is a writable bank backed by a zeroed byte buffer. Reads and
// writes outside the buffer panic with OutOfBoundsError — a guest
// program can never address outside a mapped bank's own size since
// the Manager always offsets into it first, so an out-of-bounds hit
// here means the machine's region layout is wrong.
type RAM struct {
	bytes  []uint8
	endian Endian
}

// NewRAM allocates a RAM bank of the given size, zero filled.
func NewRAM(size int, endian Endian) *RAM {
	return &RAM{bytes: make([]uint8, size), endian: endian}
}

// LoadBytes copies program into the bank starting at addr, wrapping
// within the bank's size. Useful for seeding test fixtures and boot
// images without going through the Manager. The wrap is computed in
// int space — len(r.bytes) is 65536 for a full 64K bank, which
// overflows uint16 to 0 and would divide by zero if taken there.
func (r *RAM) LoadBytes(addr uint16, program []uint8) {
	for i, b := range program {
		r.Write(uint16((int(addr)+i)%len(r.bytes)), b)
	}
}

func (r *RAM) Size() int { return len(r.bytes) }

func (r *RAM) Read(offset uint16) uint8 {
	if int(offset) >= len(r.bytes) {
		panic(OutOfBoundsError{Offset: offset, Size: len(r.bytes)})
	}
	return r.bytes[offset]
}

func (r *RAM) Write(offset uint16, val uint8) {
	if int(offset) >= len(r.bytes) {
		panic(OutOfBoundsError{Offset: offset, Size: len(r.bytes)})
	}
	r.bytes[offset] = val
}

func (r *RAM) ReadWord(offset uint16) uint16 {
	lo := r.Read(offset)
	hi := r.Read(offset + 1)
	return composeWord(lo, hi, r.endian)
}

func (r *RAM) WriteWord(offset uint16, val uint16) {
	first, second := splitWord(val, r.endian)
	r.Write(offset, first)
	r.Write(offset+1, second)
}

func (r *RAM) ReadWordZero(offset uint8) uint16 {
	lo := r.Read(uint16(offset))
	hi := r.Read(uint16(offset + 1))
	return composeWord(lo, hi, r.endian)
}
