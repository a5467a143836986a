// disasm loads a flat binary file into a 64k RAM image at a given
// offset and disassembles it to stdout from a given starting PC,
// adapted from the teacher's disassembler/disassembler.go — minus
// its C64 PRG/BASIC-listing special case, since this module has no
// c64basic dependency to reuse.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mjkern/retro6502/disassemble"
	"github.com/mjkern/retro6502/memory"
)

var (
	startPC = flag.Int("start_pc", 0x0000, "PC value to start disassembling")
	offset  = flag.Int("offset", 0x0000, "Offset into RAM to start loading data. All other RAM is zero filled.")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("Invalid command: %s [-start_pc <PC> -offset <offset>] <filename>", os.Args[0])
	}
	fn := flag.Args()[0]

	b, err := os.ReadFile(fn)
	if err != nil {
		log.Fatalf("Can't open %s - %v", fn, err)
	}

	ram := memory.NewRAM(1<<16, memory.Little)
	max := (1 << 16) - *offset
	if l := len(b); l > max {
		log.Printf("Length %d at offset %d too long, truncating to 64k", l, *offset)
		b = b[:max]
	}
	ram.LoadBytes(uint16(*offset), b)

	pc := uint16(*startPC)
	fmt.Printf("0x%.2X bytes at pc: %.4X\n", len(b), pc)

	cnt := 0
	for cnt < len(b) {
		dis, n := disassemble.Step(pc, ram)
		pc += uint16(n)
		cnt += n
		fmt.Println(dis)
	}
}
