package asm_test

import (
	"encoding/hex"
	"testing"

	"github.com/Urethramancer/m68kasm/asm"
)

// assembleAndMatchHex assembles src at address 0 and checks the resulting
// image's leading bytes against a hex fixture, following the teacher's
// tests/asm_test.go helper of the same name.
func assembleAndMatchHex(t *testing.T, src, want string) {
	t.Helper()
	a := asm.New()
	mem, err := a.Assemble(src, 0)
	if err != nil {
		t.Fatalf("Assemble(%q): %v", src, err)
	}
	wantBytes, err := hex.DecodeString(want)
	if err != nil {
		t.Fatalf("bad hex fixture %q: %v", want, err)
	}
	if len(mem.Bytes) < len(wantBytes) {
		t.Fatalf("image too short: got %d bytes, want at least %d", len(mem.Bytes), len(wantBytes))
	}
	got := mem.Bytes[:len(wantBytes)]
	for i := range got {
		if got[i] != wantBytes[i] {
			t.Fatalf("byte %d: got %X want %X", i, got, wantBytes)
		}
	}
}

func TestBasicEncodings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"add-dn-ea", "ADD.B D2,(A1)", "D511"},
		{"add-ea-dn", "ADD.W (A1),D2", "D451"},
		{"adda", "ADDA.L (A0),A1", "D3D0"},
		{"addi", "ADDI.B #$1F,D0", "0600001F"},
		{"move", "MOVE.B D0,D1", "1200"},
		{"movea", "MOVEA.W (A0),A1", "3250"},
		{"move-to-sr", "MOVE.W D0,SR", "46C0"},
		{"move-to-ccr", "MOVE.B D1,CCR", "44C1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assembleAndMatchHex(t, tc.src, tc.want)
		})
	}
}

func TestLabelsAndForwardReferences(t *testing.T) {
	src := "start: MOVE.L #loop,D0\nloop: ADD.B D0,D1\n"
	a := asm.New()
	mem, err := a.Assemble(src, 0x1000)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	v, ok := a.Symbols.Lookup("loop")
	if !ok || v != 0x1006 {
		t.Fatalf("expected loop=0x1006, got %d ok=%v", v, ok)
	}
	// MOVE.L #$1006,D0 -> 203C 00001006
	want := []byte{0x20, 0x3C, 0x00, 0x00, 0x10, 0x06}
	got := mem.Bytes[0x1000:0x1006]
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got %X want %X", i, got, want)
		}
	}
}

func TestEquAndOrg(t *testing.T) {
	src := "answer equ 6*7\nORG $2000\nADDI.W #answer,D3\n"
	a := asm.New()
	mem, err := a.Assemble(src, 0)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	v, ok := a.Symbols.Lookup("answer")
	if !ok || v != 42 {
		t.Fatalf("expected answer=42, got %d ok=%v", v, ok)
	}
	want := []byte{0x06, 0x43, 0x00, 0x2A}
	got := mem.Bytes[0x2000:]
	if len(got) != len(want) {
		t.Fatalf("expected %d trailing bytes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got %X want %X", i, got, want)
		}
	}
}

func TestDirectiveEncodings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"dc-b-numbers", "DC.B $A,$B,$C", "0A0B0C"},
		{"dc-b-string", "DC.B 'AB'", "4142"},
		{"dc-w", "DC.W $1234,$5678", "12345678"},
		{"dc-l", "DC.L $12345678", "12345678"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assembleAndMatchHex(t, tc.src, tc.want)
		})
	}
}

func TestEvenPadsAfterOddByte(t *testing.T) {
	src := "DC.B $1\nEVEN\nDC.W $2222\n"
	a := asm.New()
	mem, err := a.Assemble(src, 0)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	// byte at 0, pad at 1, word at 2-3.
	want := []byte{0x01, 0x00, 0x22, 0x22}
	got := mem.Bytes[:4]
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got %X want %X", i, got, want)
		}
	}
}

func TestUnknownInstructionFormIsRejected(t *testing.T) {
	// ADDI's destination can't be an address register.
	a := asm.New()
	if _, err := a.Assemble("ADDI.W #1,A0\n", 0); err == nil {
		t.Errorf("expected an error for ADDI with an An destination")
	}
}

func TestMissingSymbolIsRejected(t *testing.T) {
	a := asm.New()
	if _, err := a.Assemble("MOVE.W #never_defined,D0\n", 0); err == nil {
		t.Errorf("expected an error for an undefined symbol")
	}
}
