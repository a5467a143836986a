package machine

import (
	"testing"

	"github.com/mjkern/retro6502/cpu"
	"github.com/mjkern/retro6502/instruction"
	"github.com/mjkern/retro6502/memory"
)

// newTestMachine builds an AppleIIe with only base RAM mapped,
// bypassing New's romloader dependency — these tests exercise
// Reset/StackTrace/translation logic, not ROM resolution.
func newTestMachine() *AppleIIe {
	mm := memory.NewManager(memory.Little)
	mm.Map(0, memory.NewRAM(baseRAMSize, memory.Little))
	return &AppleIIe{CPU: cpu.New(), Memory: mm}
}

func TestResetWritesTranslatedGreeting(t *testing.T) {
	m := newTestMachine()
	m.Reset()

	want := asciiToAppleII(bootGreeting)
	for i, b := range want {
		if got := m.Memory.Read(textPageBase + uint16(i)); got != b {
			t.Errorf("text page byte %d = %#02x, want %#02x (translated)", i, got, b)
		}
	}
	if got := m.Memory.Read(textPageBase + uint16(len(want))); got != 0x20 {
		t.Errorf("byte after greeting = %#02x, want 0x20 (space fill)", got)
	}
}

func TestAsciiToAppleIITranslation(t *testing.T) {
	cases := []struct {
		in   byte
		want uint8
	}{
		{'A', 0x01}, {'Z', 0x1A},
		{'a', 0x61}, {'z', 0x7A},
		{'0', 0x30}, {'9', 0x39},
		{' ', 0x20}, {'!', 0x21}, {'?', 0x3F},
		{'@', 0x56}, // not in the translation table
	}
	for _, c := range cases {
		if got := appleIIChar(c.in); got != c.want {
			t.Errorf("appleIIChar(%q) = %#02x, want %#02x", c.in, got, c.want)
		}
	}
}

func TestStackTraceOrderAndContent(t *testing.T) {
	m := newTestMachine()
	m.Reset()
	m.CPU.SP = 0xFC
	m.Memory.Write(0x01FD, 0x11) // most recently pushed
	m.Memory.Write(0x01FE, 0x22)
	m.Memory.Write(0x01FF, 0x33) // top of the stack page

	got := m.StackTrace()
	want := "Stack: 33 22 11"
	if got != want {
		t.Errorf("StackTrace() = %q, want %q", got, want)
	}
}

func TestStackTraceEmptyWhenSPAtTop(t *testing.T) {
	m := newTestMachine()
	m.Reset()
	m.CPU.SP = 0xFF

	if got, want := m.StackTrace(), "Stack:"; got != want {
		t.Errorf("StackTrace() = %q, want %q", got, want)
	}
}

func TestStepDelegatesToCPU(t *testing.T) {
	m := newTestMachine()
	m.CPU.Reset(m.Memory)
	m.CPU.PC = 0x0300
	m.Memory.Write(0x0300, 0xA9) // LDA #$42
	m.Memory.Write(0x0301, 0x42)

	ins := m.Step()
	if m.CPU.A != 0x42 {
		t.Errorf("A = %#02x, want 0x42", m.CPU.A)
	}
	if ins.Mnemonic != instruction.LDA {
		t.Errorf("retired mnemonic = %s, want LDA", ins.Mnemonic)
	}
}
