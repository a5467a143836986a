// Package emulator implements the emulator thread spec.md §5
// describes: the sole owner of the Machine, draining its cycle,
// redraw, and command channels in a steady non-blocking loop. No
// other goroutine ever touches the Machine directly.
package emulator

import (
	"context"

	"github.com/mjkern/retro6502/display"
	"github.com/mjkern/retro6502/loglevel"
	"github.com/mjkern/retro6502/machine"
)

// CommandKind is one of the five messages the command channel
// carries, per spec.md §6.
type CommandKind int

const (
	CmdCycle CommandKind = iota
	CmdStep
	CmdRun
	CmdStop
	CmdReset
)

func (k CommandKind) String() string {
	switch k {
	case CmdCycle:
		return "Cycle"
	case CmdStep:
		return "Step"
	case CmdRun:
		return "Run"
	case CmdStop:
		return "Stop"
	case CmdReset:
		return "Reset"
	default:
		return "Unknown"
	}
}

// Command is a single message on the emulator command channel.
type Command struct {
	Kind CommandKind
}

// Emulator owns a Machine and a display Sink exclusively. Cycle and
// redraw tokens arrive as unit values; commands arrive as Command
// values. Run never blocks waiting on any one channel at the expense
// of starving the others — every loop iteration drains whichever
// channel woke it, then immediately drains any other cycle tokens
// that piled up before handling the next command, satisfying spec.md
// §5's ordering guarantee that pending cycles in an iteration are
// applied before pending commands.
type Emulator struct {
	machine  *machine.AppleIIe
	sink     display.Sink
	cycles   <-chan struct{}
	redraws  <-chan struct{}
	commands <-chan Command
	running  bool
}

// New constructs an Emulator. cycles and redraws are typically a
// clock.Clock's and a redraw clock.Clock's Tokens() channels;
// commands is typically a terminal's output channel.
func New(m *machine.AppleIIe, sink display.Sink, cycles, redraws <-chan struct{}, commands <-chan Command) *Emulator {
	return &Emulator{
		machine:  m,
		sink:     sink,
		cycles:   cycles,
		redraws:  redraws,
		commands: commands,
	}
}

// Run drains the emulator's channels until ctx is cancelled. Every
// iteration drains all pending cycle tokens first, before the select
// below can possibly hand it a command — select choosing among
// multiple ready cases at random would otherwise let a command jump
// ahead of cycle tokens that arrived before it, violating spec.md
// §5's ordering guarantee.
func (e *Emulator) Run(ctx context.Context) {
	for {
		e.drainCycles()
		select {
		case <-ctx.Done():
			return
		case <-e.cycles:
			e.applyCycle()
			e.drainCycles()
		case <-e.redraws:
			e.sink.Redraw()
		case cmd := <-e.commands:
			e.handle(cmd)
		}
	}
}

// drainCycles applies every cycle token already queued, without
// blocking, so a burst delivered between two command channel checks
// is fully absorbed before a pending command is processed.
func (e *Emulator) drainCycles() {
	for {
		select {
		case <-e.cycles:
			e.applyCycle()
		default:
			return
		}
	}
}

// applyCycle advances the machine by one sub-cycle, but only while
// the Run command has put the emulator in the running state — a
// Cycle command always advances regardless of running, since it is
// an explicit single-step request rather than a clock tick.
func (e *Emulator) applyCycle() {
	if !e.running {
		return
	}
	if ins := e.machine.Cycle(); ins != nil {
		loglevel.Debugf("%s", ins.String())
	}
}

func (e *Emulator) handle(cmd Command) {
	switch cmd.Kind {
	case CmdCycle:
		if ins := e.machine.Cycle(); ins != nil {
			loglevel.Debugf("%s", ins.String())
		}
	case CmdStep:
		ins := e.machine.Step()
		loglevel.Debugf("%s", ins.String())
		loglevel.Debugf("%s %s", e.machine.CPU, e.machine.StackTrace())
	case CmdRun:
		e.running = true
	case CmdStop:
		e.running = false
	case CmdReset:
		e.machine.Reset()
		e.running = false
	default:
		loglevel.Warnf("emulator: unknown command %v", cmd.Kind)
	}
}
