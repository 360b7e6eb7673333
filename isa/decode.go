package isa

import "fmt"

func eaField(word uint16) (mode, reg uint8) {
	return uint8((word >> 3) & 7), uint8(word & 7)
}

// readImmediate reads an immediate value of the given size at *pc,
// advancing it past the value. Byte and word immediates occupy one 16-bit
// word (byte in the low 8 bits); long immediates occupy two.
func readImmediate(size Size, pc *uint32, mem Memory) uint32 {
	if size == Long {
		v := ReadLong(mem, *pc)
		*pc += 4
		return v
	}
	v := uint32(mem.ReadWord(*pc))
	*pc += 2
	if size == Byte {
		return v & 0xFF
	}
	return v
}

// Decode reads one instruction at instPC from mem and returns its decoded
// form. It tries every Table row whose Mask/Matching fit the opcode word,
// in order, accepting the first whose EA field(s) also satisfy the row's
// SrcMask/DstMask — see Table's doc comment for why order and EA rejection
// both matter (MOVEA vs. generic MOVE).
func Decode(instPC uint32, mem Memory) (OpcodeInstance, error) {
	word := mem.ReadWord(instPC)
	for _, row := range Table {
		if word&row.Mask != row.Matching {
			continue
		}
		inst, ok, err := decodeRow(row, word, instPC, mem)
		if err != nil {
			return OpcodeInstance{}, err
		}
		if ok {
			return inst, nil
		}
	}
	return OpcodeInstance{}, fmt.Errorf("isa: illegal instruction, opcode %#04x at %#x", word, instPC)
}

// decodeRow attempts to decode word as an instance of row. ok is false
// (with a nil error) when the bit pattern matched but the EA category is
// outside what this row accepts — the caller should try the next row.
func decodeRow(row OpcodeInfo, word uint16, instPC uint32, mem Memory) (OpcodeInstance, bool, error) {
	pc := instPC + 2
	switch row.Form {
	case FormDxEA:
		dn := uint8((word >> 9) & 7)
		mode, reg := eaField(word)
		ea, err := DecodeEA(mode, reg, row.Size, instPC, &pc, mem)
		if err != nil {
			return OpcodeInstance{}, false, nil
		}
		if !row.SrcMask.Has(ea) {
			return OpcodeInstance{}, false, nil
		}
		return OpcodeInstance{row.Mnemonic, row.Size, []Operand{ea, Dn(dn)}}, true, nil

	case FormEADx:
		dn := uint8((word >> 9) & 7)
		mode, reg := eaField(word)
		ea, err := DecodeEA(mode, reg, row.Size, instPC, &pc, mem)
		if err != nil {
			return OpcodeInstance{}, false, nil
		}
		if !row.SrcMask.Has(ea) {
			return OpcodeInstance{}, false, nil
		}
		return OpcodeInstance{row.Mnemonic, row.Size, []Operand{Dn(dn), ea}}, true, nil

	case FormImmEA:
		imm := readImmediate(row.Size, &pc, mem)
		mode, reg := eaField(word)
		ea, err := DecodeEA(mode, reg, row.Size, instPC, &pc, mem)
		if err != nil {
			return OpcodeInstance{}, false, nil
		}
		if !row.SrcMask.Has(ea) {
			return OpcodeInstance{}, false, nil
		}
		return OpcodeInstance{row.Mnemonic, row.Size, []Operand{Imm(row.Size, imm), ea}}, true, nil

	case FormEAAx:
		an := uint8((word >> 9) & 7)
		mode, reg := eaField(word)
		ea, err := DecodeEA(mode, reg, row.Size, instPC, &pc, mem)
		if err != nil {
			return OpcodeInstance{}, false, nil
		}
		if !row.SrcMask.Has(ea) {
			return OpcodeInstance{}, false, nil
		}
		return OpcodeInstance{row.Mnemonic, row.Size, []Operand{ea, An(an)}}, true, nil

	case FormEAEA:
		srcMode, srcReg := eaField(word)
		src, err := DecodeEA(srcMode, srcReg, row.Size, instPC, &pc, mem)
		if err != nil {
			return OpcodeInstance{}, false, nil
		}
		if !row.SrcMask.Has(src) {
			return OpcodeInstance{}, false, nil
		}
		dstReg := uint8((word >> 9) & 7)
		dstMode := uint8((word >> 6) & 7)
		dst, err := DecodeEA(dstMode, dstReg, row.Size, instPC, &pc, mem)
		if err != nil {
			return OpcodeInstance{}, false, nil
		}
		if !row.DstMask.Has(dst) {
			return OpcodeInstance{}, false, nil
		}
		return OpcodeInstance{row.Mnemonic, row.Size, []Operand{src, dst}}, true, nil

	case FormEASR:
		mode, reg := eaField(word)
		ea, err := DecodeEA(mode, reg, Word, instPC, &pc, mem)
		if err != nil {
			return OpcodeInstance{}, false, nil
		}
		if !row.SrcMask.Has(ea) {
			return OpcodeInstance{}, false, nil
		}
		return OpcodeInstance{row.Mnemonic, row.Size, []Operand{ea, SR}}, true, nil

	case FormEACCR:
		mode, reg := eaField(word)
		ea, err := DecodeEA(mode, reg, Byte, instPC, &pc, mem)
		if err != nil {
			return OpcodeInstance{}, false, nil
		}
		if !row.SrcMask.Has(ea) {
			return OpcodeInstance{}, false, nil
		}
		return OpcodeInstance{row.Mnemonic, row.Size, []Operand{ea, CCR}}, true, nil
	}
	return OpcodeInstance{}, false, fmt.Errorf("isa: unhandled opcode form %v", row.Form)
}
