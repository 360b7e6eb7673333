package disasm_test

import (
	"testing"

	"github.com/Urethramancer/m68kasm/disasm"
	"github.com/Urethramancer/m68kasm/isa"
)

func TestOneRendersCanonicalText(t *testing.T) {
	mem := isa.NewByteMemory(8)
	mem.WriteWord(0, 0xD511) // ADD.B D2,(A1)
	line, err := disasm.One(0, mem)
	if err != nil {
		t.Fatalf("One: %v", err)
	}
	if line.Text != "ADD.B\tD2,(A1)" {
		t.Errorf("got %q", line.Text)
	}
	if len(line.Bytes) != 2 || line.Bytes[0] != 0xD5 || line.Bytes[1] != 0x11 {
		t.Errorf("got bytes %X", line.Bytes)
	}
}

func TestRangeStopsAtIllegalOpcode(t *testing.T) {
	mem := isa.NewByteMemory(8)
	mem.WriteWord(0, 0xD511) // ADD.B D2,(A1) — legal
	mem.WriteWord(2, 0x4AFC) // illegal
	lines, err := disasm.Range(0, 4, mem)
	if err == nil {
		t.Fatalf("expected an error decoding the illegal opcode")
	}
	if len(lines) != 1 {
		t.Fatalf("expected the one legal instruction decoded before the error, got %d", len(lines))
	}
	if lines[0].Text != "ADD.B\tD2,(A1)" {
		t.Errorf("got %q", lines[0].Text)
	}
}

func TestRangeDecodesConsecutiveInstructions(t *testing.T) {
	mem := isa.NewByteMemory(8)
	mem.WriteWord(0, 0x1200) // MOVE.B D0,D1
	mem.WriteWord(2, 0x46C0) // MOVE.W D0,SR
	lines, err := disasm.Range(0, 4, mem)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(lines))
	}
	if lines[0].Address != 0 || lines[1].Address != 2 {
		t.Errorf("unexpected addresses: %d, %d", lines[0].Address, lines[1].Address)
	}
}
