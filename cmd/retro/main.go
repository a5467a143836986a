// retro is the top-level program spec.md §6 describes: a subcommand
// per machine variant. Only the apple-ii-e subcommand exists today.
// Flag handling follows vcs/vcs_main.go's package-level flag.* vars,
// widened with a minimal flag.NewFlagSet-per-subcommand dispatch
// since this program, unlike the teacher's single-purpose binaries,
// has more than one machine variant to grow into.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mjkern/retro6502/clock"
	"github.com/mjkern/retro6502/display"
	"github.com/mjkern/retro6502/emulator"
	"github.com/mjkern/retro6502/loglevel"
	"github.com/mjkern/retro6502/machine"
	"github.com/mjkern/retro6502/terminal"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	logfile = flag.String("logfile", "retro.log", "Path to write log output to")
	loglvl  = flag.String("loglevel", "info", "One of off|error|warn|info|debug|trace")
	scale   = flag.Int("scale", 3, "Integer scale factor for the display window")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	lvl, err := loglevel.Parse(*loglvl)
	if err != nil {
		log.Fatalf("retro: %v", err)
	}
	loglevel.Set(lvl)

	f, err := os.OpenFile(*logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("retro: can't open logfile %q: %v", *logfile, err)
	}
	defer f.Close()
	log.SetOutput(f)

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "apple-ii-e":
		runAppleIIe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "retro: unknown machine %q\n", args[0])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] apple-ii-e [subcommand flags]\n", os.Args[0])
	flag.PrintDefaults()
}

func runAppleIIe(args []string) {
	fs := flag.NewFlagSet("apple-ii-e", flag.ExitOnError)
	freqKHz := fs.Int("freq-khz", 1020, "CPU clock frequency in kHz")
	disk1 := fs.String("disk1", "", "Path to disk image 1 (retained, not interpreted)")
	disk2 := fs.String("disk2", "", "Path to disk image 2 (retained, not interpreted)")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("retro: %v", err)
	}

	sink, err := display.NewSDLSink(*scale)
	if err != nil {
		log.Fatalf("retro: can't init display: %v", err)
	}

	m, err := machine.New(sink, machine.Disks{Disk1: *disk1, Disk2: *disk2})
	if err != nil {
		log.Fatalf("retro: can't init apple-ii-e: %v", err)
	}
	m.Reset()

	cpuClock := clock.New(*freqKHz)
	redrawClock := clock.NewRedrawTicker()
	commands := make(chan emulator.Command, 256)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e := emulator.New(m, sink, cpuClock.Tokens(), redrawClock.Tokens(), commands)

	go cpuClock.Run(ctx)
	go redrawClock.Run(ctx)
	go e.Run(ctx)
	go func() {
		if err := terminal.Run(ctx, os.Stdin, os.Stdout, commands); err != nil {
			log.Printf("retro: terminal: %v", err)
		}
		sink.Exit(0)
		cancel()
	}()

	// SDL must run its window/event loop on the thread it was
	// initialized on, the way vcs/vcs_main.go wraps its whole run in
	// sdl.Main; every other goroutine above communicates with the
	// display purely through the Sink's message channel.
	sdl.Main(func() {
		if err := sink.Run(); err != nil {
			log.Printf("retro: display: %v", err)
		}
	})
}
