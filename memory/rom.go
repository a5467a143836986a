package memory

import "log"

// ROM is a read-only bank backed by bytes loaded from a file. Writes
// are silently ignored (with a logged warning); reads beyond the
// loaded file's length return 0 with a logged warning rather than
// panicking, since a ROM short of its declared size is a recoverable
// guest-visible condition and not a host misconfiguration the way a
// missing ROM file is.
type ROM struct {
	name   string
	bytes  []uint8
	size   int
	endian Endian
}

// NewROM constructs a ROM bank of the given size backed by bytes
// (typically loaded via romloader.Load). name is retained for log
// messages only.
func NewROM(name string, size int, bytes []uint8, endian Endian) *ROM {
	return &ROM{name: name, bytes: bytes, size: size, endian: endian}
}

func (r *ROM) Size() int { return r.size }

func (r *ROM) Read(offset uint16) uint8 {
	if int(offset) >= len(r.bytes) {
		log.Printf("memory: reading out of bounds of rom %q at offset %#04x", r.name, offset)
		return 0
	}
	return r.bytes[offset]
}

func (r *ROM) Write(offset uint16, val uint8) {
	log.Printf("memory: write to rom %q ignored: %#04x = %#02x", r.name, offset, val)
}

func (r *ROM) ReadWord(offset uint16) uint16 {
	lo := r.Read(offset)
	hi := r.Read(offset + 1)
	return composeWord(lo, hi, r.endian)
}

func (r *ROM) WriteWord(offset uint16, val uint16) {
	log.Printf("memory: word write to rom %q ignored: %#04x = %#04x", r.name, offset, val)
}

func (r *ROM) ReadWordZero(offset uint8) uint16 {
	lo := r.Read(uint16(offset))
	hi := r.Read(uint16(offset + 1))
	return composeWord(lo, hi, r.endian)
}
