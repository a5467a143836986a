// Package terminal implements the terminal thread spec.md §5
// describes: reads stdin line by line and translates each line into
// an emulator.Command, the way bdwalton-gintendo's BIOS menu loop
// reads a single command character and dispatches it — except here
// the surface is line-oriented text and dispatch is over a channel
// rather than a direct method call, since the emulator runs on its
// own goroutine.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mjkern/retro6502/emulator"
)

// Translate parses one trimmed line of terminal input into an
// emulator command. ok is false for an empty line (no-op); err is
// non-nil for anything unrecognized. quit reports whether the line
// requests that the whole program shut down (exit/quit/q) — the
// caller is responsible for cancelling the shared context and
// telling the display sink to Exit once a command with quit set has
// been delivered.
func Translate(line string) (cmd emulator.Command, quit bool, ok bool, err error) {
	switch line {
	case "":
		return emulator.Command{}, false, false, nil
	case "continue", "c":
		return emulator.Command{Kind: emulator.CmdRun}, false, true, nil
	case "step", "s":
		return emulator.Command{Kind: emulator.CmdStep}, false, true, nil
	case "cycle":
		return emulator.Command{Kind: emulator.CmdCycle}, false, true, nil
	case "reset", "r":
		return emulator.Command{Kind: emulator.CmdReset}, false, true, nil
	case "exit", "quit", "q":
		return emulator.Command{Kind: emulator.CmdStop}, true, true, nil
	default:
		return emulator.Command{}, false, false, fmt.Errorf("terminal: unknown command %q", line)
	}
}

// Run reads lines from r until EOF, ctx cancellation, or a quit
// command is translated, sending each translated command to
// commands. Unrecognized lines are printed to w as errors and
// otherwise ignored, matching spec.md §6: "unknown prints an error".
func Run(ctx context.Context, r io.Reader, w io.Writer, commands chan<- emulator.Command) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		cmd, quit, ok, err := Translate(line)
		if err != nil {
			fmt.Fprintln(w, err)
			continue
		}
		if !ok {
			continue
		}

		select {
		case commands <- cmd:
		case <-ctx.Done():
			return ctx.Err()
		}

		if quit {
			return nil
		}
	}
	return scanner.Err()
}
