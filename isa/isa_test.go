package isa_test

import (
	"encoding/hex"
	"testing"

	"github.com/Urethramancer/m68kasm/isa"
)

// matchHex asserts that mem's first n bytes equal the given hex string,
// following the teacher's assembleAndMatchHex helper pattern.
func matchHex(t *testing.T, mem *isa.ByteMemory, n int, want string) {
	t.Helper()
	wantBytes, err := hex.DecodeString(want)
	if err != nil {
		t.Fatalf("bad hex fixture %q: %v", want, err)
	}
	got := mem.Bytes[:n]
	if len(got) != len(wantBytes) {
		t.Fatalf("length mismatch: got %X want %X", got, wantBytes)
	}
	for i := range got {
		if got[i] != wantBytes[i] {
			t.Fatalf("byte %d: got %X want %X", i, got, wantBytes)
		}
	}
}

func TestEncodeAddDxEA(t *testing.T) {
	// ADD.B D2,(A1) -> opcode D511, the original_source roundtrip fixture.
	inst := isa.OpcodeInstance{Mnemonic: "ADD", Size: isa.Byte, Operands: []isa.Operand{isa.Dn(2), isa.Ind(1)}}
	mem := isa.NewByteMemory(8)
	n, err := isa.Encode(inst, 0, mem)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected length 2, got %d", n)
	}
	matchHex(t, mem, 2, "D511")
}

func TestDecodeAddDxEA(t *testing.T) {
	mem := isa.NewByteMemory(8)
	mem.WriteWord(0, 0xD511)
	inst, err := isa.Decode(0, mem)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if inst.Mnemonic != "ADD" || inst.Size != isa.Byte {
		t.Fatalf("got %+v", inst)
	}
	if inst.String() != "ADD.B\tD2,(A1)" {
		t.Errorf("got %q", inst.String())
	}
}

func TestMoveMoveaMutualExclusion(t *testing.T) {
	// MOVE.W D0,A1 is illegal (An isn't a data-alterable destination); the
	// same bit shape with dest mode = An-direct must decode as MOVEA.
	inst := isa.OpcodeInstance{Mnemonic: "MOVEA", Size: isa.Word, Operands: []isa.Operand{isa.Dn(0), isa.An(1)}}
	mem := isa.NewByteMemory(8)
	if _, err := isa.Encode(inst, 0, mem); err != nil {
		t.Fatalf("Encode MOVEA: %v", err)
	}
	decoded, err := isa.Decode(0, mem)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Mnemonic != "MOVEA" {
		t.Fatalf("expected MOVEA, got %s", decoded.Mnemonic)
	}

	bad := isa.OpcodeInstance{Mnemonic: "MOVE", Size: isa.Word, Operands: []isa.Operand{isa.Dn(0), isa.An(1)}}
	if _, err := isa.Encode(bad, 0, isa.NewByteMemory(8)); err == nil {
		t.Errorf("expected MOVE Dn,An to be rejected (that shape is MOVEA)")
	}
}

func TestRoundtripEveryTableRow(t *testing.T) {
	cases := []isa.OpcodeInstance{
		{"ADD", isa.Byte, []isa.Operand{isa.Ind(1), isa.Dn(2)}},
		{"ADD", isa.Word, []isa.Operand{isa.AbsW(0x2000), isa.Dn(3)}},
		{"ADD", isa.Long, []isa.Operand{isa.Ind(0), isa.Dn(7)}},
		{"ADD", isa.Byte, []isa.Operand{isa.Dn(3), isa.Ind(4)}},
		{"ADD", isa.Word, []isa.Operand{isa.Dn(5), isa.PostInc(6)}},
		{"ADD", isa.Long, []isa.Operand{isa.Dn(1), isa.Ind(2)}},
		{"ADDA", isa.Word, []isa.Operand{isa.Dn(4), isa.An(5)}},
		{"ADDA", isa.Long, []isa.Operand{isa.Imm(isa.Long, 0x1000), isa.An(6)}},
		{"ADDI", isa.Byte, []isa.Operand{isa.Imm(isa.Byte, 0x1F), isa.Dn(0)}},
		{"ADDI", isa.Word, []isa.Operand{isa.Imm(isa.Word, 0x1234), isa.Ind(3)}},
		{"ADDI", isa.Long, []isa.Operand{isa.Imm(isa.Long, 0x12345678), isa.Disp16(4, 8)}},
		{"MOVE", isa.Byte, []isa.Operand{isa.Dn(0), isa.Dn(1)}},
		{"MOVE", isa.Word, []isa.Operand{isa.Ind(2), isa.PostInc(3)}},
		{"MOVE", isa.Long, []isa.Operand{isa.AbsL(0x3000), isa.PreDec(5)}},
		{"MOVEA", isa.Word, []isa.Operand{isa.Ind(0), isa.An(1)}},
		{"MOVEA", isa.Long, []isa.Operand{isa.AbsL(0x4000), isa.An(2)}},
		{"MOVE", isa.Word, []isa.Operand{isa.Dn(0), isa.SR}},
		{"MOVE", isa.Byte, []isa.Operand{isa.Dn(0), isa.CCR}},
	}
	for _, inst := range cases {
		t.Run(inst.String(), func(t *testing.T) {
			mem := isa.NewByteMemory(16)
			n, err := isa.Encode(inst, 0, mem)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			decoded, err := isa.Decode(0, mem)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if decoded.Length() != n {
				t.Errorf("length mismatch: encoded %d, decoded length() %d", n, decoded.Length())
			}
			if decoded.String() != inst.String() {
				t.Errorf("text mismatch: got %q want %q", decoded.String(), inst.String())
			}
			reenc := isa.NewByteMemory(16)
			if _, err := isa.Encode(decoded, 0, reenc); err != nil {
				t.Fatalf("re-encode: %v", err)
			}
			for i := uint32(0); i < n; i++ {
				if mem.Bytes[i] != reenc.Bytes[i] {
					t.Fatalf("byte %d: original %X reencoded %X", i, mem.Bytes[:n], reenc.Bytes[:n])
				}
			}
		})
	}
}

func TestIllegalOpcodeIsRejected(t *testing.T) {
	mem := isa.NewByteMemory(8)
	mem.WriteWord(0, 0x4AFC) // ILLEGAL instruction, not in our table
	if _, err := isa.Decode(0, mem); err == nil {
		t.Errorf("expected an error decoding an unrecognized opcode")
	}
}
