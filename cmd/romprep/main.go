// romprep takes a raw assembled binary and produces a ROM image of a
// given size with its reset (and BRK) vectors wired to a given entry
// point, for quickly building tiny test ROMs without a real
// assembler's linker step. Adapted from the teacher's
// convertprg/convertprg.go, stripped of its C64-specific zero-page
// preset values and PRG-header handling — this module has no C64
// compatibility surface to preserve, only the "patch the vectors"
// idea.
package main

import (
	"flag"
	"log"
	"os"
)

var (
	base    = flag.Int("base", 0xF800, "Base address this ROM image will be mapped at")
	size    = flag.Int("size", 0x0800, "Size of the produced ROM image")
	loadAt  = flag.Int("load_addr", -1, "Address to place the input binary at; defaults to --base")
	entry   = flag.Int("entry", -1, "Reset vector target; defaults to --base")
	brkAddr = flag.Int("brk", -1, "BRK vector target; defaults to --entry")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("Invalid command: %s --base=0xF800 --size=0x800 --entry=0xF800 <filename>", os.Args[0])
	}
	if *loadAt < 0 {
		*loadAt = *base
	}
	if *entry < 0 {
		*entry = *base
	}
	if *brkAddr < 0 {
		*brkAddr = *entry
	}

	fn := flag.Args()[0]
	b, err := os.ReadFile(fn)
	if err != nil {
		log.Fatalf("Can't open %s - %v", fn, err)
	}

	out := make([]byte, *size)
	off := *loadAt - *base
	if off < 0 || off >= *size {
		log.Fatalf("--load_addr 0x%04X is outside the 0x%04X-byte ROM mapped at 0x%04X", *loadAt, *size, *base)
	}
	if max := *size - off; len(b) > max {
		log.Printf("Length %d at offset %d too long for a 0x%04X-byte ROM, truncating", len(b), off, *size)
		b = b[:max]
	}
	copy(out[off:], b)

	if !patchVector(out, *base, *size, 0xFFFC, *entry) {
		log.Printf("reset vector 0xFFFC falls outside this ROM's mapped range, leaving unwired")
	}
	if !patchVector(out, *base, *size, 0xFFFE, *brkAddr) {
		log.Printf("BRK vector 0xFFFE falls outside this ROM's mapped range, leaving unwired")
	}

	outfn := fn + ".rom"
	if err := os.WriteFile(outfn, out, 0o644); err != nil {
		log.Fatalf("Can't write %q: %v", outfn, err)
	}
}

// patchVector writes target as a little-endian word at vectorAddr
// within out, assuming out is a ROM image of the given size mapped at
// base. Returns false (no-op) if the vector address isn't covered by
// this ROM.
func patchVector(out []byte, base, size, vectorAddr, target int) bool {
	off := vectorAddr - base
	if off < 0 || off+1 >= size {
		return false
	}
	out[off] = byte(target & 0xFF)
	out[off+1] = byte((target >> 8) & 0xFF)
	return true
}
