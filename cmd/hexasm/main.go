// hexasm assembles a hand-written hex listing of the form
//
//	XXXX OP A1 A2 ...
//
// (an address field followed by 1-3 space-separated hex bytes) into a
// flat binary suitable for loading as a ROM, adapted from the
// teacher's hand_asm/hand_asm.go — rewritten to parse lines directly
// in Go instead of shelling out to egrep/sed, since there's no reason
// to fork a subprocess for a job bufio.Scanner already does cleanly.
package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"
)

var offset = flag.Int("offset", 0x0000, "Offset to start writing assembled data. Everything prior is zero filled.")

func main() {
	flag.Parse()
	if len(flag.Args()) != 2 {
		log.Fatalf("Invalid command: %s <input> <output>", os.Args[0])
	}
	fn := flag.Args()[0]
	out := flag.Args()[1]

	in, err := os.Open(fn)
	if err != nil {
		log.Fatalf("Can't open %q for input - %v", fn, err)
	}
	defer in.Close()

	output := make([]byte, *offset)
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		t := strings.TrimSpace(scanner.Text())
		if t == "" || !isHexDigit(t[0]) {
			continue
		}
		fields := strings.Fields(t)
		if len(fields) < 2 {
			log.Fatalf("Invalid line %d - %q", line, t)
		}
		// fields[0] is the XXXX address field, informational only —
		// bytes are appended in listing order, not seeked to.
		for _, tok := range fields[1:] {
			b, err := strconv.ParseUint(tok, 16, 8)
			if err != nil {
				log.Fatalf("Can't process input line %d %q - %v", line, t, err)
			}
			output = append(output, byte(b))
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("Error reading %q - %v", fn, err)
	}

	if err := os.WriteFile(out, output, 0o644); err != nil {
		log.Fatalf("Can't write %q - %v", out, err)
	}
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}
