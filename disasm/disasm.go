// Package disasm renders bytes back into the same instruction text the
// assembler's operand parser accepts, the other half of the toolkit's
// round-trip invariant.
package disasm

import (
	"fmt"

	"github.com/Urethramancer/m68kasm/isa"
)

// Line is one disassembled instruction: its address, the raw opcode word
// plus extension words that produced it, and its rendered text.
type Line struct {
	Address uint32
	Bytes   []byte
	Text    string
}

// One decodes a single instruction at pc and renders it in canonical text.
func One(pc uint32, mem isa.Memory) (Line, error) {
	inst, err := isa.Decode(pc, mem)
	if err != nil {
		return Line{}, err
	}
	length := inst.Length()
	raw := make([]byte, length)
	for i := uint32(0); i < length; i += 2 {
		w := mem.ReadWord(pc + i)
		raw[i] = byte(w >> 8)
		raw[i+1] = byte(w)
	}
	return Line{Address: pc, Bytes: raw, Text: inst.String()}, nil
}

// Range decodes every instruction from start up to (not including) end,
// stopping early and returning what it has so far if an opcode can't be
// decoded as a known instruction — the caller can report that address as
// data or as an illegal instruction.
func Range(start, end uint32, mem isa.Memory) ([]Line, error) {
	var lines []Line
	pc := start
	for pc < end {
		line, err := One(pc, mem)
		if err != nil {
			return lines, fmt.Errorf("at %#x: %w", pc, err)
		}
		lines = append(lines, line)
		pc += uint32(len(line.Bytes))
	}
	return lines, nil
}
