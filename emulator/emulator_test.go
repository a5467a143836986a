package emulator

import (
	"context"
	"testing"
	"time"

	"github.com/mjkern/retro6502/cpu"
	"github.com/mjkern/retro6502/display"
	"github.com/mjkern/retro6502/machine"
	"github.com/mjkern/retro6502/memory"
)

func newTestMachine(t *testing.T) *machine.AppleIIe {
	t.Helper()
	mm := memory.NewManager(memory.Little)
	mm.Map(0, memory.NewRAM(0x10000, memory.Little))
	m := &machine.AppleIIe{CPU: cpu.New(), Memory: mm}
	m.CPU.Reset(m.Memory)
	m.CPU.PC = 0x0300
	// INX, INX, INX — three single-cycle-budget-bearing instructions
	// (2 cycles each) so a handful of cycle tokens retires exactly one.
	m.Memory.Write(0x0300, 0xE8)
	m.Memory.Write(0x0301, 0xE8)
	m.Memory.Write(0x0302, 0xE8)
	return m
}

func runEmulator(t *testing.T) (*Emulator, chan struct{}, chan struct{}, chan Command, context.CancelFunc) {
	t.Helper()
	m := newTestMachine(t)
	cycles := make(chan struct{}, 16)
	redraws := make(chan struct{}, 16)
	commands := make(chan Command, 16)
	e := New(m, display.NullSink{}, cycles, redraws, commands)

	ctx, cancel := context.WithCancel(context.Background())
	go e.Run(ctx)
	return e, cycles, redraws, commands, cancel
}

func TestCycleCommandAlwaysAdvancesRegardlessOfRunning(t *testing.T) {
	e, _, _, commands, cancel := runEmulator(t)
	defer cancel()

	commands <- Command{Kind: CmdCycle}
	commands <- Command{Kind: CmdCycle}
	time.Sleep(50 * time.Millisecond)

	if e.machine.CPU.Cycles != 2 {
		t.Errorf("cycles = %d, want 2", e.machine.CPU.Cycles)
	}
}

func TestClockTokensOnlyApplyWhileRunning(t *testing.T) {
	e, cycles, _, commands, cancel := runEmulator(t)
	defer cancel()

	cycles <- struct{}{}
	cycles <- struct{}{}
	time.Sleep(50 * time.Millisecond)
	if e.machine.CPU.Cycles != 0 {
		t.Errorf("cycles applied while not running: %d, want 0", e.machine.CPU.Cycles)
	}

	commands <- Command{Kind: CmdRun}
	cycles <- struct{}{}
	time.Sleep(50 * time.Millisecond)
	if e.machine.CPU.Cycles != 1 {
		t.Errorf("cycles = %d, want 1 after Run", e.machine.CPU.Cycles)
	}
}

func TestStepCommandRunsFullInstruction(t *testing.T) {
	e, _, _, commands, cancel := runEmulator(t)
	defer cancel()

	commands <- Command{Kind: CmdStep}
	time.Sleep(50 * time.Millisecond)

	if e.machine.CPU.X != 1 {
		t.Errorf("X = %d, want 1 after one INX step", e.machine.CPU.X)
	}
}

func TestResetCommandStopsAndResetsMachine(t *testing.T) {
	e, _, _, commands, cancel := runEmulator(t)
	defer cancel()

	commands <- Command{Kind: CmdRun}
	commands <- Command{Kind: CmdReset}
	time.Sleep(50 * time.Millisecond)

	if e.running {
		t.Error("running flag still set after Reset")
	}
}
